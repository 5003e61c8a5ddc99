package detector

import (
	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/conversation"
)

// biasGroup is one protected-class sub-family of the bias detector.
type biasGroup struct {
	signal   compliance.SignalType
	patterns []pattern
}

// Bias detects discriminatory exclusion language across all message roles:
// recruiting text can appear in user input (a pasted job posting) or in
// assistant output (generated copy), so no role filter applies. It emits at
// most one signal per protected-class sub-family per message, with distinct
// signal types for age, gender, ethnicity, and disability exclusion.
type Bias struct {
	groups []biasGroup
}

// NewBias returns the bias/discrimination detector.
func NewBias() *Bias {
	return &Bias{
		groups: []biasGroup{
			{
				signal: compliance.SignalAgeBias,
				patterns: compilePatterns(map[string]string{
					"young-energetic": `(?i)\byoung (and|,) (energetic|dynamic|motivated|hungry)\b`,
					"young-team":      `(?i)\b(young team|junges team)\b`,
					"digital-native":  `(?i)\bdigital natives?\b`,
					"age-cap":         `(?i)\b(under|younger than|not older than|maximum age( of)?) \d{2}\b`,
					"recent-grads":    `(?i)\brecent graduates only\b`,
					"too-old":         `(?i)\btoo old for (this|the) (role|job|team)\b`,
				}),
			},
			{
				signal: compliance.SignalGenderBias,
				patterns: compilePatterns(map[string]string{
					"men-only":      `(?i)\b(male|female) (candidates?|applicants?) (only|preferred)\b`,
					"no-women":      `(?i)\bno (women|men|females|males)\b`,
					"looking-man":   `(?i)\blooking for a (man|woman|guy) (for|to fill)\b`,
					"de-nur-maenner": `(?i)\bnur (männer|frauen)\b`,
				}),
			},
			{
				signal: compliance.SignalEthnicityBias,
				patterns: compilePatterns(map[string]string{
					"native-only":    `(?i)\bnative (english|german|french) speakers? only\b`,
					"no-foreigners":  `(?i)\bno (foreigners|immigrants)\b`,
					"de-auslaender":  `(?i)\bkeine ausländer\b`,
					"ethnic-fit":     `(?i)\b(cultural|ethnic) (purity|fit required)\b`,
				}),
			},
			{
				signal: compliance.SignalDisabilityBias,
				patterns: compilePatterns(map[string]string{
					"able-bodied":   `(?i)\bable[- ]bodied\b`,
					"no-disability": `(?i)\bno (disabilities|disabled|handicapped)\b`,
					"de-behinderung": `(?i)\bohne behinderung\b`,
					"perfect-health": `(?i)\bperfect (physical|mental) health required\b`,
				}),
			},
		},
	}
}

// ID returns the detector id.
func (d *Bias) ID() string { return "bias" }

// Detect scans every message against every protected-class sub-family.
func (d *Bias) Detect(conv *conversation.Conversation) []compliance.Signal {
	var signals []compliance.Signal
	for i := 0; i < conv.Len(); i++ {
		content := conv.Message(i).Content
		for _, group := range d.groups {
			matches := 0
			firstPattern := ""
			trigger := ""
			for _, p := range group.patterns {
				m := p.re.FindString(content)
				if m == "" {
					continue
				}
				matches++
				if firstPattern == "" {
					firstPattern = p.id
					trigger = m
				}
			}
			if matches == 0 {
				continue
			}
			signals = append(signals, compliance.Signal{
				Type:         group.signal,
				Confidence:   confidenceFor(matches),
				TriggerText:  trigger,
				PatternID:    firstPattern,
				MessageIndex: i,
				DetectorID:   d.ID(),
			})
		}
	}
	return signals
}
