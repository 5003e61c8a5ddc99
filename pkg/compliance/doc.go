// Package compliance defines the shared vocabulary of the policy evaluation
// core: detector-emitted signals, rule-produced violations, severities, and
// the evaluation result returned to callers. Subpackages implement the
// moving parts (detector, packs, rules, scoring, engine); this package holds
// only the immutable data model and the caller-facing error types.
package compliance
