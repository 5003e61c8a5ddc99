package detector

import (
	"regexp"

	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/conversation"
)

// Formality detects German register mixing: informal du-forms and formal
// Sie-forms in the same assistant message. Mixed register in regulated
// health applications reads as unprofessional and is flagged by DiGA
// usability review. This detector is locale-specific (de-DE) and makes no
// claim of full grammatical accuracy; the Sie-form match is case-sensitive
// to avoid the plural pronoun "sie", while du-forms match both cases since
// written German conventionally capitalizes the informal address ("Du").
//
// Multiplicity: at most one SIGNAL_FORMALITY_MIX per message.
type Formality struct {
	informal *regexp.Regexp
	formal   *regexp.Regexp
}

// NewFormality returns the formality-register-mixing detector.
func NewFormality() *Formality {
	return &Formality{
		informal: regexp.MustCompile(`\b([Dd]u|[Dd]ich|[Dd]ir|[Dd]ein[emrs]?)\b`),
		formal:   regexp.MustCompile(`\b(Sie|Ihnen|Ihr[emrs]?)\b`),
	}
}

// ID returns the detector id.
func (d *Formality) ID() string { return "formality" }

// Detect flags assistant messages that use both registers.
func (d *Formality) Detect(conv *conversation.Conversation) []compliance.Signal {
	var signals []compliance.Signal
	for i := 0; i < conv.Len(); i++ {
		msg := conv.Message(i)
		if msg.Role != conversation.RoleAssistant {
			continue
		}

		informal := d.informal.FindString(msg.Content)
		formal := d.formal.FindString(msg.Content)
		if informal == "" || formal == "" {
			continue
		}

		signals = append(signals, compliance.Signal{
			Type:         compliance.SignalFormalityMix,
			Confidence:   baseConfidence,
			TriggerText:  informal + " / " + formal,
			PatternID:    "du-sie-mix",
			MessageIndex: i,
			DetectorID:   d.ID(),
		})
	}
	return signals
}
