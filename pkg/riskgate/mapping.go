package riskgate

import (
	"strings"

	"convoguard/verdict/pkg/compliance"
)

// categoryAliases maps normalized service category strings onto the fixed
// violation enumeration. The list is intentionally generous: the service
// phrases categories freely.
var categoryAliases = map[string]compliance.Category{
	"SUICIDE_SELF_HARM":    compliance.CategorySuicideSelfHarm,
	"SUICIDE":              compliance.CategorySuicideSelfHarm,
	"SELF_HARM":            compliance.CategorySuicideSelfHarm,
	"CRISIS":               compliance.CategorySuicideSelfHarm,
	"NO_CRISIS_ESCALATION": compliance.CategoryNoCrisisEscalation,
	"MISSING_ESCALATION":   compliance.CategoryNoCrisisEscalation,
	"BIAS_DISCRIMINATION":  compliance.CategoryBiasDiscrimination,
	"BIAS":                 compliance.CategoryBiasDiscrimination,
	"DISCRIMINATION":       compliance.CategoryBiasDiscrimination,
	"MANIPULATION":         compliance.CategoryManipulation,
	"DARK_PATTERN":         compliance.CategoryManipulation,
	"COERCION":             compliance.CategoryManipulation,
	"GDPR_CONSENT":         compliance.CategoryGDPRConsent,
	"GDPR":                 compliance.CategoryGDPRConsent,
	"PRIVACY":              compliance.CategoryGDPRConsent,
	"DATA_PROTECTION":      compliance.CategoryGDPRConsent,
	"MEDICAL_SAFETY":       compliance.CategoryMedicalSafety,
	"MEDICAL":              compliance.CategoryMedicalSafety,
	"MEDICAL_MISINFORMATION": compliance.CategoryMedicalSafety,
	"ILLEGAL_SUBSTANCE":    compliance.CategoryIllegalSubstance,
	"DRUGS":                compliance.CategoryIllegalSubstance,
	"SUBSTANCE_ABUSE":      compliance.CategoryIllegalSubstance,
	"AGGRESSIVE_SALES":     compliance.CategoryAggressiveSales,
	"SYSTEM_ERROR":         compliance.CategorySystemError,
}

// MapCategory normalizes a free-form service category and maps it onto the
// violation enumeration. Unmapped categories become SAFETY_VIOLATION
// rather than being dropped: the fail-closed posture applies at the
// taxonomy level too.
func MapCategory(raw string) compliance.Category {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(normalized)
	if category, ok := categoryAliases[normalized]; ok {
		return category
	}
	return compliance.CategorySafetyViolation
}

// MapSeverity maps a free-form severity string. Unknown severities map to
// HIGH for the same reason unmapped categories are kept.
func MapSeverity(raw string) compliance.Severity {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "HIGH", "CRITICAL", "SEVERE":
		return compliance.SeverityHigh
	case "MEDIUM", "MODERATE":
		return compliance.SeverityMedium
	case "LOW", "MINOR", "INFO":
		return compliance.SeverityLow
	default:
		return compliance.SeverityHigh
	}
}
