// Package riskgate integrates an external reasoning service as a
// complementary, non-authoritative detector. The gate is deliberately
// fail-closed: a timeout, a non-success response, or an unparseable
// payload synthesizes a single HIGH-severity SYSTEM_ERROR violation heavy
// enough to force non-compliance, because an inability to verify safety
// must never read as "safe". An absent credential is configuration, not
// failure: a disabled gate contributes nothing.
package riskgate
