package detector

import (
	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/conversation"
)

// NewAggressiveSales returns the aggressive-sales-language detector for
// assistant turns. It targets hard-sell pressure distinct from the general
// manipulation patterns (which cover scarcity and guilt). At most one
// SIGNAL_AGGRESSIVE_SALES per message.
func NewAggressiveSales() Detector {
	return &phraseDetector{
		id:     "aggressive-sales",
		signal: compliance.SignalAggressiveSales,
		roles:  roleSet(conversation.RoleAssistant),
		patterns: compilePatterns(map[string]string{
			"buy-now":       `(?i)\bbuy now\b`,
			"must-purchase": `(?i)\b(must|have to|need to) (purchase|buy|order)\b`,
			"final-offer":   `(?i)\bfinal offer\b`,
			"once-lifetime": `(?i)\bonce[- ]in[- ]a[- ]lifetime (deal|offer|opportunity)\b`,
			"just-for-you":  `(?i)\b(special )?(discount|deal|price) just for you\b`,
			"upgrade-now":   `(?i)\bupgrade (now|immediately|today)\b`,
			"de-kaufen":     `(?i)\bjetzt (kaufen|zuschlagen|bestellen)\b`,
		}),
	}
}
