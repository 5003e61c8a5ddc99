// Package config provides YAML-based configuration for ConvoGuard Verdict
// with defaults, validation, and CONVOGUARD_* environment overrides.
//
// The loading sequence is file → defaults → environment → validation, so
// the process starts with a fully populated, checked configuration or not
// at all. Secrets (gate API key, server API keys) are expected to come in
// through the environment rather than the file.
package config
