package detector

import (
	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/conversation"
)

// NewIllegalSubstance returns the illegal-substance-request detector. It
// inspects user-authored turns only: the risk is the user soliciting
// sourcing or dosing help, not the assistant naming a substance while
// refusing. At most one SIGNAL_ILLEGAL_SUBSTANCE per message.
func NewIllegalSubstance() Detector {
	return &phraseDetector{
		id:     "illegal-substance",
		signal: compliance.SignalIllegalSubstance,
		roles:  roleSet(conversation.RoleUser),
		patterns: compilePatterns(map[string]string{
			"source-buy":      `(?i)\b(where|how) (can|do|could) i (buy|get|find|score) .{0,40}\b(heroin|cocaine|kokain|meth|fentanyl|mdma|ecstasy|lsd|drugs|drogen)\b`,
			"source-generic":  `(?i)\b(buy|order|score) (some )?\b(heroin|cocaine|kokain|meth|fentanyl|mdma|ecstasy|lsd)\b`,
			"no-prescription": `(?i)\bwithout (a )?prescription\b`,
			"de-ohne-rezept":  `(?i)\bohne rezept\b`,
			"de-besorgen":     `(?i)\b(drogen|kokain|heroin) (besorgen|kaufen)\b`,
			"dark-web":        `(?i)\b(dark ?web|darknet) .{0,30}\b(drugs|drogen|pills)\b`,
		}),
	}
}
