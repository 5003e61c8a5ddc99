// Package packs holds the policy pack registry: versioned,
// jurisdiction-scoped bundles of detectors, rules, weights, and the
// compliance threshold. The built-in packs are fixed at compile time;
// operators may overlay additional packs from a YAML directory at startup.
// A Registry is immutable after construction; hot reload is done by
// building a new Registry and swapping it atomically in the hosting
// process, never by mutating an existing one.
package packs
