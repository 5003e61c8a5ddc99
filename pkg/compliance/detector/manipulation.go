package detector

import (
	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/conversation"
)

// NewManipulation returns the dark-pattern/manipulation detector. It
// inspects assistant- and system-authored turns (manipulative pressure in
// an operator prompt is as much a finding as in a reply) and emits at most
// one SIGNAL_MANIPULATION per message.
func NewManipulation() Detector {
	return &phraseDetector{
		id:     "manipulation",
		signal: compliance.SignalManipulation,
		roles:  roleSet(conversation.RoleAssistant, conversation.RoleSystem),
		patterns: compilePatterns(map[string]string{
			"scarcity-today":    `(?i)\b(only|just) today\b`,
			"scarcity-last":     `(?i)\blast chance\b`,
			"scarcity-limited":  `(?i)\blimited time (offer|only)\b`,
			"urgency-act-now":   `(?i)\bact now\b`,
			"urgency-too-late":  `(?i)\bbefore it'?s too late\b`,
			"social-everyone":   `(?i)\beveryone else (has|is) (already )?\w+`,
			"guilt-really-care": `(?i)\bif you really car(e|ed)\b`,
			"guilt-disappoint":  `(?i)\byou('ll| will) (regret|be sorry)\b`,
			"secrecy":           `(?i)\b(don'?t|do not) tell anyone\b`,
			"de-nur-heute":      `(?i)\bnur (noch )?heute\b`,
			"de-letzte-chance":  `(?i)\bletzte chance\b`,
		}),
	}
}
