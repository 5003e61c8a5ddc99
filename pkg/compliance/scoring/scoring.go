// Package scoring reduces a violation set to the numeric score and the
// compliance verdict. The reduction is deterministic: start at 100, apply
// each violation's (negative) weight, clamp to [0,100]. Compliance is not
// a pure threshold: any HIGH-severity violation forces non-compliance
// regardless of score. Thresholds and weights are pack configuration.
package scoring

import "convoguard/verdict/pkg/compliance"

const (
	maxScore = 100
	minScore = 0
)

// Score computes the clamped numeric score for a violation set.
func Score(violations []compliance.Violation) int {
	score := maxScore
	for _, v := range violations {
		score += v.Weight
	}
	if score > maxScore {
		score = maxScore
	}
	if score < minScore {
		score = minScore
	}
	return score
}

// Decide returns the score and the compliance verdict for a violation set
// under the given pack threshold. The safety override comes first: a HIGH
// violation is never compliant, whatever the score says.
func Decide(violations []compliance.Violation, threshold int) (score int, compliant bool) {
	score = Score(violations)
	if compliance.HasHighSeverity(violations) {
		return score, false
	}
	return score, score >= threshold
}
