package detector

import (
	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/conversation"
)

// NewCrisisEscalation returns the detector for crisis-escalation resources
// in assistant turns: hotline numbers, emergency services, and explicit
// urgent-referral language. One SIGNAL_CRISIS_ESCALATION_PRESENT is emitted
// per matching assistant message. Whether the escalation actually answers a
// preceding crisis turn is decided by the sequence rule, not here.
func NewCrisisEscalation() Detector {
	return &phraseDetector{
		id:     "crisis-escalation",
		signal: compliance.SignalCrisisEscalationPresent,
		roles:  roleSet(conversation.RoleAssistant),
		patterns: compilePatterns(map[string]string{
			"hotline-988":       `\b988\b`,
			"hotline-911":       `\b911\b`,
			"hotline-112":       `\b112\b`,
			"hotline-de-seel":   `0800[ .-]?111[ .-]?0[ .-]?111`,
			"crisis-hotline":    `(?i)\bcrisis (hotline|line|center|centre)\b`,
			"suicide-prev":      `(?i)\bsuicide prevention\b`,
			"emergency-room":    `(?i)\b(emergency room|nearest emergency|notaufnahme)\b`,
			"urgent-referral":   `(?i)\b(seek|get) (immediate|urgent|professional) help\b`,
			"telefonseelsorge":  `(?i)\btelefonseelsorge\b`,
			"emergency-service": `(?i)\b(call|contact) (emergency services|den notruf)\b`,
		}),
	}
}
