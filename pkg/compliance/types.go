package compliance

// SignalType is the enumerated tag of a detector-emitted indicator.
type SignalType string

const (
	SignalSuicidalIdeation        SignalType = "SIGNAL_SUICIDAL_IDEATION"
	SignalCrisisEscalationPresent SignalType = "SIGNAL_CRISIS_ESCALATION_PRESENT"
	SignalManipulation            SignalType = "SIGNAL_MANIPULATION"
	SignalIllegalSubstance        SignalType = "SIGNAL_ILLEGAL_SUBSTANCE"
	SignalAgeBias                 SignalType = "SIGNAL_AGE_BIAS"
	SignalGenderBias              SignalType = "SIGNAL_GENDER_BIAS"
	SignalEthnicityBias           SignalType = "SIGNAL_ETHNICITY_BIAS"
	SignalDisabilityBias          SignalType = "SIGNAL_DISABILITY_BIAS"
	SignalMedicalDosage           SignalType = "SIGNAL_MEDICAL_DOSAGE"
	SignalUnverifiedClaim         SignalType = "SIGNAL_UNVERIFIED_CLAIM"
	SignalSpecialCategoryData     SignalType = "SIGNAL_SPECIAL_CATEGORY_DATA"
	SignalAggressiveSales         SignalType = "SIGNAL_AGGRESSIVE_SALES"
	SignalFormalityMix            SignalType = "SIGNAL_FORMALITY_MIX"
)

// Signal is a raw, confidence-scored indicator of a risk pattern in one
// message. Signals are produced by exactly one detector invocation and are
// never mutated after creation. Whether a detector may emit several signals
// of the same type for one message is a per-detector contract documented on
// the detector, not a framework rule.
type Signal struct {
	// Type is the signal tag.
	Type SignalType `json:"type"`

	// Confidence is in [0,1]. It is informative metadata; rules do not gate
	// on it unless they explicitly threshold.
	Confidence float64 `json:"confidence"`

	// TriggerText is the matched fragment, for provenance.
	TriggerText string `json:"trigger_text,omitempty"`

	// PatternID identifies which pattern matched.
	PatternID string `json:"pattern_id,omitempty"`

	// MessageIndex is the index of the source message in the conversation.
	MessageIndex int `json:"message_index"`

	// DetectorID is the id of the detector that emitted the signal.
	DetectorID string `json:"detector_id"`
}

// Category is the enumerated tag of a violation. Categories are related to
// but distinct from signal types: one violation may be backed by zero, one,
// or several signals.
type Category string

const (
	CategorySuicideSelfHarm    Category = "SUICIDE_SELF_HARM"
	CategoryNoCrisisEscalation Category = "NO_CRISIS_ESCALATION"
	CategoryBiasDiscrimination Category = "BIAS_DISCRIMINATION"
	CategoryManipulation       Category = "MANIPULATION"
	CategoryGDPRConsent        Category = "GDPR_CONSENT"
	CategoryMedicalSafety      Category = "MEDICAL_SAFETY"
	CategoryIllegalSubstance   Category = "ILLEGAL_SUBSTANCE"
	CategoryDiGATransparency   Category = "DIGA_TRANSPARENCY"
	CategoryAggressiveSales    Category = "AGGRESSIVE_SALES"
	CategoryFormalityRegister  Category = "FORMALITY_REGISTER"

	// CategorySafetyViolation is the fail-closed default for external risk
	// findings whose category cannot be mapped onto this enumeration.
	CategorySafetyViolation Category = "SAFETY_VIOLATION"

	// CategorySystemError marks an inability to verify safety (external
	// dependency failure). It always carries HIGH severity.
	CategorySystemError Category = "SYSTEM_ERROR"
)

// Severity classifies how serious a violation is.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// Violation is a policy-evaluated, scorable finding.
type Violation struct {
	// Category is the violation tag.
	Category Category `json:"category"`

	// Severity is HIGH, MEDIUM, or LOW. Any HIGH violation forces the
	// overall verdict to non-compliant regardless of score.
	Severity Severity `json:"severity"`

	// Weight is the (negative) point deduction applied to the score.
	Weight int `json:"weight"`

	// Message is a human-readable description of the finding.
	Message string `json:"message"`

	// RegulationIDs are legal citation identifiers (e.g. "EU-AI-Act-Art-5").
	RegulationIDs []string `json:"regulation_ids,omitempty"`

	// TriggeredBy is the triggering text fragment, if any.
	TriggeredBy string `json:"triggered_by,omitempty"`

	// RuleID identifies the pack rule that produced the violation, or
	// "external" for gate findings.
	RuleID string `json:"rule_id,omitempty"`
}

// EvaluationResult is the sole externally observable output of the core
// besides errors. It is created once per call and is immutable.
type EvaluationResult struct {
	// AuditID is a per-call unique identifier.
	AuditID string `json:"audit_id"`

	// PackID is the policy pack the conversation was evaluated against.
	PackID string `json:"pack_id"`

	// ConversationID is derived from the canonical transcript.
	ConversationID string `json:"conversation_id"`

	// Compliant is the overall verdict.
	Compliant bool `json:"compliant"`

	// Score is in [0,100].
	Score int `json:"score"`

	// Violations is the ordered violation sequence: direct-rule violations
	// in signal discovery order, then sequence-rule violations, then
	// external gate findings.
	Violations []Violation `json:"violations"`

	// Signals is the ordered signal sequence, sorted by
	// (detector id, message index, pattern id).
	Signals []Signal `json:"signals"`

	// ExecutionTimeMs is the wall-clock evaluation time.
	ExecutionTimeMs int64 `json:"execution_time_ms"`
}

// HasHighSeverity reports whether any violation carries HIGH severity.
func HasHighSeverity(violations []Violation) bool {
	for _, v := range violations {
		if v.Severity == SeverityHigh {
			return true
		}
	}
	return false
}
