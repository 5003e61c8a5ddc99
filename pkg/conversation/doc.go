// Package conversation defines the immutable transcript model that all
// compliance evaluation operates on: ordered dialogue messages with roles,
// plus a parser for the plain "Role: text" transcript form used by the
// HTTP API and CLI.
package conversation
