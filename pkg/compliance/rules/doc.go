// Package rules turns the immutable signal set of one evaluation into
// violations. Two rule shapes exist: direct rules (signal present ⇒
// violation) and sequence rules, which condition on the presence of one
// signal and the absence of another on any later assistant turn. Rules are
// independent predicates, so evaluation order never changes the violation
// set; the output order is fixed for reproducibility.
package rules
