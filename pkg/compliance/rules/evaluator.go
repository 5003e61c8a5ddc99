package rules

import "convoguard/verdict/pkg/compliance"

// Evaluate maps the full signal set of one evaluation onto violations.
// Direct rules are applied first, walking the signal sequence in discovery
// order; sequence rules follow. The result order is therefore stable given
// a stable signal order.
func Evaluate(direct []DirectRule, sequence []SequenceRule, signals []compliance.Signal) []compliance.Violation {
	var violations []compliance.Violation

	collapsed := make(map[string]bool)
	for _, sig := range signals {
		for _, rule := range direct {
			if rule.Signal != sig.Type {
				continue
			}
			if rule.MinConfidence > 0 && sig.Confidence < rule.MinConfidence {
				continue
			}
			if rule.Collapse && collapsed[rule.ID] {
				continue
			}
			collapsed[rule.ID] = true

			violations = append(violations, compliance.Violation{
				Category:      rule.Category,
				Severity:      rule.Severity,
				Weight:        rule.Weight,
				Message:       rule.Message,
				RegulationIDs: rule.RegulationIDs,
				TriggeredBy:   sig.TriggerText,
				RuleID:        rule.ID,
			})
		}
	}

	for _, rule := range sequence {
		if v, fired := evaluateSequence(rule, signals); fired {
			violations = append(violations, v)
		}
	}

	return violations
}

// evaluateSequence checks the presence-then-absence condition of one
// sequence rule. For every trigger signal it looks for an expected signal
// on a strictly later message; the rule fires once if any trigger is left
// unanswered.
func evaluateSequence(rule SequenceRule, signals []compliance.Signal) (compliance.Violation, bool) {
	for _, trigger := range signals {
		if trigger.Type != rule.Trigger {
			continue
		}

		answered := false
		for _, followup := range signals {
			if followup.Type != rule.Expected {
				continue
			}
			if followup.MessageIndex > trigger.MessageIndex {
				answered = true
				break
			}
		}
		if !answered {
			return compliance.Violation{
				Category:      rule.Category,
				Severity:      rule.Severity,
				Weight:        rule.Weight,
				Message:       rule.Message,
				RegulationIDs: rule.RegulationIDs,
				TriggeredBy:   trigger.TriggerText,
				RuleID:        rule.ID,
			}, true
		}
	}
	return compliance.Violation{}, false
}
