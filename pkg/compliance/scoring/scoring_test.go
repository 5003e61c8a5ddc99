package scoring

import (
	"testing"

	"convoguard/verdict/pkg/compliance"
)

func violation(severity compliance.Severity, weight int) compliance.Violation {
	return compliance.Violation{
		Category: compliance.CategoryManipulation,
		Severity: severity,
		Weight:   weight,
	}
}

func TestScoreBounds(t *testing.T) {
	tests := []struct {
		name       string
		violations []compliance.Violation
		want       int
	}{
		{
			name:       "no violations",
			violations: nil,
			want:       100,
		},
		{
			name:       "single deduction",
			violations: []compliance.Violation{violation(compliance.SeverityHigh, -50)},
			want:       50,
		},
		{
			name: "clamped at zero",
			violations: []compliance.Violation{
				violation(compliance.SeverityHigh, -50),
				violation(compliance.SeverityHigh, -100),
			},
			want: 0,
		},
		{
			name:       "positive weight cannot exceed 100",
			violations: []compliance.Violation{violation(compliance.SeverityLow, 10)},
			want:       100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.violations)
			if got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("Score() = %d outside [0,100]", got)
			}
		})
	}
}

func TestHighSeverityOverride(t *testing.T) {
	// A small HIGH violation keeps the score above the threshold but must
	// still force non-compliance.
	violations := []compliance.Violation{violation(compliance.SeverityHigh, -5)}

	score, compliant := Decide(violations, 70)
	if score != 95 {
		t.Errorf("score = %d, want 95", score)
	}
	if compliant {
		t.Error("compliant = true despite HIGH-severity violation")
	}
}

func TestThresholdDecision(t *testing.T) {
	tests := []struct {
		name       string
		violations []compliance.Violation
		threshold  int
		want       bool
	}{
		{
			name:       "clean is compliant",
			violations: nil,
			threshold:  70,
			want:       true,
		},
		{
			name:       "medium at threshold is compliant",
			violations: []compliance.Violation{violation(compliance.SeverityMedium, -30)},
			threshold:  70,
			want:       true,
		},
		{
			name: "medium below threshold is not",
			violations: []compliance.Violation{
				violation(compliance.SeverityMedium, -30),
				violation(compliance.SeverityLow, -10),
			},
			threshold: 70,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, compliant := Decide(tt.violations, tt.threshold)
			if compliant != tt.want {
				t.Errorf("Decide() compliant = %v, want %v", compliant, tt.want)
			}
		})
	}
}

func TestMonotonicity(t *testing.T) {
	base := []compliance.Violation{violation(compliance.SeverityMedium, -30)}
	before := Score(base)

	for _, extra := range []int{-1, -10, -50, -100} {
		with := append(append([]compliance.Violation{}, base...), violation(compliance.SeverityLow, extra))
		if after := Score(with); after > before {
			t.Errorf("adding a violation (weight %d) raised the score: %d -> %d", extra, before, after)
		}
	}
}
