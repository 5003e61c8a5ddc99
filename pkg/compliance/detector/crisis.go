package detector

import (
	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/conversation"
)

// NewCrisis returns the self-harm/suicidal-ideation detector. It inspects
// user-authored turns only and emits at most one SIGNAL_SUICIDAL_IDEATION
// per message; several trigger phrases in the same message raise the
// signal's confidence rather than duplicating it. Patterns cover English
// and German phrasing.
func NewCrisis() Detector {
	return &phraseDetector{
		id:     "crisis",
		signal: compliance.SignalSuicidalIdeation,
		roles:  roleSet(conversation.RoleUser),
		patterns: compilePatterns(map[string]string{
			"en-kill-myself":   `(?i)\bkill(ing)? myself\b`,
			"en-end-life":      `(?i)\bend(ing)? (my|it all|my own) life\b`,
			"en-want-to-die":   `(?i)\b(want|wanted|wish(ed)?) to die\b`,
			"en-suicide":       `(?i)\bsuicid(e|al)\b`,
			"en-hurt-myself":   `(?i)\bhurt(ing)? myself\b`,
			"en-no-reason":     `(?i)\bno reason to (live|go on)\b`,
			"en-better-off":    `(?i)\bbetter off without me\b`,
			"de-umbringen":     `(?i)\bmich umbringen\b`,
			"de-nicht-leben":   `(?i)\bwill nicht mehr leben\b`,
			"de-leben-nehmen":  `(?i)\bmir das leben (zu )?nehmen\b`,
			"de-leben-beenden": `(?i)\bmein leben beenden\b`,
			"de-suizid":        `(?i)\b(suizid|selbstmord)\b`,
		}),
	}
}
