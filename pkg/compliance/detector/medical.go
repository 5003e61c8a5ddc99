package detector

import (
	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/conversation"
)

// NewMedicalDosage returns the medical-advice/dosage detector. It inspects
// assistant turns only: concrete dosing instructions or medication changes
// coming from the agent are the risk, not a user describing their own
// prescription. At most one SIGNAL_MEDICAL_DOSAGE per message.
func NewMedicalDosage() Detector {
	return &phraseDetector{
		id:     "medical-dosage",
		signal: compliance.SignalMedicalDosage,
		roles:  roleSet(conversation.RoleAssistant),
		patterns: compilePatterns(map[string]string{
			"take-mg":        `(?i)\btake \d+ ?(mg|milligrams?|ml)\b`,
			"de-nimm-mg":     `(?i)\bnimm \d+ ?(mg|milligramm)\b`,
			"dose-increase":  `(?i)\b(increase|double|triple) (your|the) dos(e|age)\b`,
			"stop-meds":      `(?i)\bstop taking (your|the) (medication|medicine|pills|antidepressants?)\b`,
			"de-absetzen":    `(?i)\b(medikamente?|tabletten) (einfach )?absetzen\b`,
			"mg-per-day":     `(?i)\b\d+ ?mg (per|a) day\b`,
			"skip-doctor":    `(?i)\bno need to (see|ask|consult) (a|your) doctor\b`,
		}),
	}
}

// NewUnverifiedClaim returns the unverified-clinical-claim detector for
// assistant turns: absolute cure or efficacy claims without evidence
// qualifiers. At most one SIGNAL_UNVERIFIED_CLAIM per message.
func NewUnverifiedClaim() Detector {
	return &phraseDetector{
		id:     "unverified-claim",
		signal: compliance.SignalUnverifiedClaim,
		roles:  roleSet(conversation.RoleAssistant),
		patterns: compilePatterns(map[string]string{
			"proven":        `(?i)\bclinically proven\b`,
			"guaranteed":    `(?i)\bguaranteed to (cure|heal|work)\b`,
			"hundred-pct":   `(?i)\b100% (effective|success|cure)\b`,
			"cures-disease": `(?i)\bcures? (depression|anxiety|cancer|diabetes)\b`,
			"de-bewiesen":   `(?i)\bwissenschaftlich bewiesen\b`,
			"de-heilt":      `(?i)\bheilt garantiert\b`,
		}),
	}
}
