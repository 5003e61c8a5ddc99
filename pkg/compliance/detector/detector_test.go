package detector

import (
	"log/slog"
	"testing"

	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/conversation"
)

func mustParse(t *testing.T, transcript string) *conversation.Conversation {
	t.Helper()
	conv, err := conversation.ParseTranscript(transcript)
	if err != nil {
		t.Fatalf("ParseTranscript(%q) error = %v", transcript, err)
	}
	return conv
}

// signalTypes extracts the type sequence for compact assertions.
func signalTypes(signals []compliance.Signal) []compliance.SignalType {
	types := make([]compliance.SignalType, len(signals))
	for i, s := range signals {
		types[i] = s.Type
	}
	return types
}

func TestCrisisDetectsUserTurnsOnly(t *testing.T) {
	conv := mustParse(t, "User: I want to kill myself\nAssistant: There is no reason to live like that, let me help.")

	signals := NewCrisis().Detect(conv)
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1 (assistant turns must be ignored): %v", len(signals), signals)
	}
	if signals[0].Type != compliance.SignalSuicidalIdeation {
		t.Errorf("signal type = %q, want %q", signals[0].Type, compliance.SignalSuicidalIdeation)
	}
	if signals[0].MessageIndex != 0 {
		t.Errorf("message index = %d, want 0", signals[0].MessageIndex)
	}
	if signals[0].Confidence < 0.9 || signals[0].Confidence > 1.0 {
		t.Errorf("confidence = %v, want in [0.9, 1.0]", signals[0].Confidence)
	}
}

func TestCrisisGermanPatterns(t *testing.T) {
	conv := mustParse(t, "User: Ich will nicht mehr leben")

	signals := NewCrisis().Detect(conv)
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
}

func TestCrisisOneSignalPerMessage(t *testing.T) {
	// Two trigger phrases in one message: one signal, boosted confidence.
	conv := mustParse(t, "User: I want to kill myself, there is no reason to live")

	signals := NewCrisis().Detect(conv)
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1 per message", len(signals))
	}
	if signals[0].Confidence != 0.92 {
		t.Errorf("confidence = %v, want 0.92 (base 0.90 + one corroborating match)", signals[0].Confidence)
	}
}

func TestConfidenceCap(t *testing.T) {
	if got := confidenceFor(20); got != 1.0 {
		t.Errorf("confidenceFor(20) = %v, want capped at 1.0", got)
	}
	if got := confidenceFor(1); got != 0.90 {
		t.Errorf("confidenceFor(1) = %v, want 0.90", got)
	}
	if got := confidenceFor(0); got != 0 {
		t.Errorf("confidenceFor(0) = %v, want 0", got)
	}
}

func TestCrisisEscalationPresence(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       int
	}{
		{
			name:       "hotline number and name",
			transcript: "User: I want to kill myself\nAssistant: I am very concerned. Please call the crisis hotline at 988 immediately.",
			want:       1,
		},
		{
			name:       "no escalation",
			transcript: "User: I want to kill myself\nAssistant: Tell me more about that.",
			want:       0,
		},
		{
			name:       "escalation text on user turn is ignored",
			transcript: "User: should I call the crisis hotline?\nAssistant: Tell me more.",
			want:       0,
		},
		{
			name:       "german hotline",
			transcript: "Assistant: Bitte rufen Sie die Telefonseelsorge an: 0800 111 0 111.",
			want:       1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signals := NewCrisisEscalation().Detect(mustParse(t, tt.transcript))
			if len(signals) != tt.want {
				t.Errorf("got %d signals, want %d: %v", len(signals), tt.want, signals)
			}
		})
	}
}

func TestBiasSubSignals(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       []compliance.SignalType
	}{
		{
			name:       "age bias in job posting",
			transcript: "We need someone young and energetic.",
			want:       []compliance.SignalType{compliance.SignalAgeBias},
		},
		{
			name:       "neutral experience requirement",
			transcript: "We need a developer with 5 years experience.",
			want:       nil,
		},
		{
			name:       "gender bias",
			transcript: "User: Male candidates only, please.",
			want:       []compliance.SignalType{compliance.SignalGenderBias},
		},
		{
			name:       "ethnicity bias",
			transcript: "Assistant: Native German speakers only should apply.",
			want:       []compliance.SignalType{compliance.SignalEthnicityBias},
		},
		{
			name:       "disability bias",
			transcript: "User: Candidates must be able-bodied.",
			want:       []compliance.SignalType{compliance.SignalDisabilityBias},
		},
		{
			name:       "multiple families in one message",
			transcript: "We want a young team, no women.",
			want:       []compliance.SignalType{compliance.SignalAgeBias, compliance.SignalGenderBias},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signals := NewBias().Detect(mustParse(t, tt.transcript))
			got := signalTypes(signals)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("signal %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestManipulationRoleFilter(t *testing.T) {
	// User repeating a manipulative phrase is not an agent violation.
	conv := mustParse(t, "User: it said act now, last chance!\nAssistant: That sounds frustrating.")
	if signals := NewManipulation().Detect(conv); len(signals) != 0 {
		t.Fatalf("got %d signals, want 0 for user-authored text", len(signals))
	}

	conv = mustParse(t, "Assistant: Act now, this is your last chance!")
	signals := NewManipulation().Detect(conv)
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	if signals[0].Confidence != 0.92 {
		t.Errorf("confidence = %v, want 0.92 for two matched patterns", signals[0].Confidence)
	}
}

func TestMedicalDosage(t *testing.T) {
	conv := mustParse(t, "Assistant: Just take 400 mg of ibuprofen and stop taking your antidepressants.")
	signals := NewMedicalDosage().Detect(conv)
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	if signals[0].Type != compliance.SignalMedicalDosage {
		t.Errorf("type = %q, want %q", signals[0].Type, compliance.SignalMedicalDosage)
	}
}

func TestUnverifiedClaim(t *testing.T) {
	conv := mustParse(t, "Assistant: This program is clinically proven and guaranteed to cure depression.")
	if signals := NewUnverifiedClaim().Detect(conv); len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
}

func TestIllegalSubstanceUserTurnsOnly(t *testing.T) {
	conv := mustParse(t, "User: Where can I buy heroin without a prescription?\nAssistant: I cannot help with heroin.")
	signals := NewIllegalSubstance().Detect(conv)
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1 (assistant refusal must not trigger)", len(signals))
	}
}

func TestSpecialCategoryData(t *testing.T) {
	conv := mustParse(t, "Assistant: Before we continue, what is your religion and your political views?")
	if signals := NewSpecialCategoryData().Detect(conv); len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
}

func TestAggressiveSales(t *testing.T) {
	conv := mustParse(t, "Assistant: Buy now! This is a once-in-a-lifetime deal just for you.")
	if signals := NewAggressiveSales().Detect(conv); len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
}

func TestFormalityMix(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       int
	}{
		{
			name:       "mixed du and Sie",
			transcript: "Assistant: Wie fühlst du dich? Bitte melden Sie sich morgen wieder.",
			want:       1,
		},
		{
			name:       "consistent formal",
			transcript: "Assistant: Wie fühlen Sie sich heute? Bitte melden Sie sich morgen.",
			want:       0,
		},
		{
			name:       "consistent informal",
			transcript: "Assistant: Wie fühlst du dich heute?",
			want:       0,
		},
		{
			name:       "capitalized Du mixed with Sie",
			transcript: "Assistant: Hast Du gut geschlafen? Bitte melden Sie sich morgen wieder.",
			want:       1,
		},
		{
			name:       "capitalized Dein mixed with Ihnen",
			transcript: "Assistant: Dein Plan sieht gut aus. Ich wünsche Ihnen einen schönen Tag.",
			want:       1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if signals := NewFormality().Detect(mustParse(t, tt.transcript)); len(signals) != tt.want {
				t.Errorf("got %d signals, want %d", len(signals), tt.want)
			}
		})
	}
}

func TestCleanTranscriptProducesNoSignals(t *testing.T) {
	conv := mustParse(t, "Assistant: I am an AI assistant. How can I help you today?\nUser: I had a great day!")

	detectors := []Detector{
		NewCrisis(), NewCrisisEscalation(), NewManipulation(), NewIllegalSubstance(),
		NewBias(), NewMedicalDosage(), NewUnverifiedClaim(), NewSpecialCategoryData(),
		NewAggressiveSales(), NewFormality(),
	}
	signals := NewRunner(slog.Default()).Run(detectors, conv)
	if len(signals) != 0 {
		t.Fatalf("clean transcript produced signals: %v", signals)
	}
}

// panicDetector simulates an internal detector failure.
type panicDetector struct{}

func (panicDetector) ID() string { return "panicky" }

func (panicDetector) Detect(conv *conversation.Conversation) []compliance.Signal {
	panic("boom")
}

func TestRunnerIsolatesFailingDetector(t *testing.T) {
	conv := mustParse(t, "User: I want to kill myself")

	signals := NewRunner(slog.Default()).Run([]Detector{panicDetector{}, NewCrisis()}, conv)
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1 from the healthy detector", len(signals))
	}
	if signals[0].DetectorID != "crisis" {
		t.Errorf("detector id = %q, want %q", signals[0].DetectorID, "crisis")
	}
}

func TestRunnerDeterministicOrder(t *testing.T) {
	conv := mustParse(t, "User: I want to kill myself\nAssistant: Act now! Take 10 mg per day, clinically proven.")
	detectors := []Detector{
		NewUnverifiedClaim(), NewMedicalDosage(), NewManipulation(), NewCrisis(),
	}

	runner := NewRunner(slog.Default())
	first := runner.Run(detectors, conv)
	for i := 0; i < 10; i++ {
		again := runner.Run(detectors, conv)
		if len(again) != len(first) {
			t.Fatalf("run %d: got %d signals, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d: signal %d = %+v, want %+v", i, j, again[j], first[j])
			}
		}
	}

	// Sorted by detector id: crisis < manipulation < medical-dosage < unverified-claim.
	wantOrder := []string{"crisis", "manipulation", "medical-dosage", "unverified-claim"}
	if len(first) != len(wantOrder) {
		t.Fatalf("got %d signals, want %d", len(first), len(wantOrder))
	}
	for i, id := range wantOrder {
		if first[i].DetectorID != id {
			t.Errorf("signal %d detector = %q, want %q", i, first[i].DetectorID, id)
		}
	}
}
