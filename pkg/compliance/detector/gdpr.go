package detector

import (
	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/conversation"
)

// NewSpecialCategoryData returns the GDPR special-category-data detector.
// It scans all roles: the agent asking for Art. 9 data and the user
// volunteering it both matter for the consent rules. At most one
// SIGNAL_SPECIAL_CATEGORY_DATA per message.
func NewSpecialCategoryData() Detector {
	return &phraseDetector{
		id:     "gdpr-special-data",
		signal: compliance.SignalSpecialCategoryData,
		roles:  roleSet(conversation.RoleUser, conversation.RoleAssistant, conversation.RoleSystem),
		patterns: compilePatterns(map[string]string{
			"religion":    `(?i)\b(what is|tell me) your religio(n|us belief)\b`,
			"orientation": `(?i)\bsexual orientation\b`,
			"political":   `(?i)\bpolitical (opinions?|views?|affiliation)\b`,
			"health-rec":  `(?i)\b(health|medical) records?\b`,
			"ethnic":      `(?i)\b(ethnic|racial) origin\b`,
			"union":       `(?i)\btrade union membership\b`,
			"genetic":     `(?i)\b(genetic|biometric) data\b`,
			"pregnancy":   `(?i)\bare you pregnant\b`,
			"de-religion": `(?i)\bwelcher religion\b`,
		}),
	}
}
