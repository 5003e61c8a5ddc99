// Package detector implements the stateless risk classifiers that turn a
// conversation into weak signals. Each detector covers one risk family,
// filters the message roles relevant to that risk, and documents its own
// signal multiplicity contract. Detectors never see each other's output;
// cross-signal logic lives in the rules package.
//
// Pattern matches are confidence-scored: a per-family base confidence plus
// a small increment per corroborating match, capped at 1.0. Confidence is
// provenance metadata, not a gate.
package detector
