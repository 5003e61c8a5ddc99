package rules

import "convoguard/verdict/pkg/compliance"

// DirectRule emits a violation for every signal of the given type. When
// Collapse is set, at most one violation is emitted for the rule's category
// no matter how many signals triggered; collapsing is always explicit per
// rule, never assumed.
type DirectRule struct {
	// ID identifies the rule within its pack.
	ID string `yaml:"id"`

	// Signal is the triggering signal type.
	Signal compliance.SignalType `yaml:"signal"`

	// Category is the violation category to emit.
	Category compliance.Category `yaml:"category"`

	// Severity of the emitted violation.
	Severity compliance.Severity `yaml:"severity"`

	// Weight is the (negative) point deduction.
	Weight int `yaml:"weight"`

	// Message is the human-readable violation description.
	Message string `yaml:"message"`

	// RegulationIDs are the legal citations attached to the violation.
	RegulationIDs []string `yaml:"regulation_ids"`

	// Collapse limits output to one violation per category for this rule.
	Collapse bool `yaml:"collapse"`

	// MinConfidence, when > 0, ignores signals below the threshold. Most
	// rules leave it zero: confidence is metadata, not a gate.
	MinConfidence float64 `yaml:"min_confidence"`
}

// SequenceRule fires when a Trigger signal is present and no Expected
// signal exists on any turn strictly after the trigger. The temporal
// "after" relationship is mandatory: an Expected signal earlier in the
// conversation does not satisfy the rule. The canonical instance is
// crisis-without-escalation.
type SequenceRule struct {
	// ID identifies the rule within its pack.
	ID string `yaml:"id"`

	// Trigger is the signal that opens the window (e.g. suicidal ideation).
	Trigger compliance.SignalType `yaml:"trigger"`

	// Expected is the signal that must appear after the trigger for the
	// rule NOT to fire (e.g. crisis escalation present).
	Expected compliance.SignalType `yaml:"expected"`

	// Category is the violation category emitted when Expected is absent.
	Category compliance.Category `yaml:"category"`

	// Severity of the emitted violation.
	Severity compliance.Severity `yaml:"severity"`

	// Weight is the (negative) point deduction.
	Weight int `yaml:"weight"`

	// Message is the human-readable violation description.
	Message string `yaml:"message"`

	// RegulationIDs are the legal citations attached to the violation.
	RegulationIDs []string `yaml:"regulation_ids"`
}
