// Package storage provides audit record storage backends.
//
// Two implementations exist: MemoryStorage for development and tests, and
// SQLiteStorage for persistence. The SQLite backend runs on either the
// cgo driver (mattn/go-sqlite3, registered as "sqlite3") or the pure-Go
// driver (modernc.org/sqlite, registered as "sqlite"); the configuration
// selects which, so deployments without a C toolchain stay supported.
package storage
