package storage

// SchemaVersion is the current audit schema version. Bump when the table
// layout changes; mismatched databases are rejected at startup.
const SchemaVersion = 1

// Schema creates the audit tables and indexes. Timestamps are stored as
// RFC 3339 text with a fixed-width nanosecond fraction so record hashes
// survive a round trip through the database and text ordering on
// created_at is chronological.
const Schema = `
CREATE TABLE IF NOT EXISTS audits (
	id                TEXT PRIMARY KEY,
	pack_id           TEXT NOT NULL,
	conversation_id   TEXT NOT NULL,
	created_at        TEXT NOT NULL,
	transcript        TEXT NOT NULL,
	compliant         INTEGER NOT NULL,
	score             INTEGER NOT NULL,
	violations        TEXT NOT NULL,
	signals           TEXT NOT NULL,
	execution_time_ms INTEGER NOT NULL,
	transcript_hash   TEXT NOT NULL,
	result_hash       TEXT NOT NULL,
	record_hash       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audits_created_at ON audits(created_at);
CREATE INDEX IF NOT EXISTS idx_audits_conversation_id ON audits(conversation_id);
CREATE INDEX IF NOT EXISTS idx_audits_pack_id ON audits(pack_id);

CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);
`

// InsertSchemaVersion records the schema version, ignoring re-runs.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

// GetSchemaVersion reads the highest recorded schema version.
const GetSchemaVersion = `SELECT MAX(version) FROM schema_version`
