package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"convoguard/verdict/pkg/audit"
	"convoguard/verdict/pkg/compliance"
)

// timestampLayout formats created_at with a fixed nine-digit fraction so
// that lexicographic ordering of the stored text matches chronological
// ordering. RFC3339Nano trims trailing zeros, which would sort a
// whole-second timestamp after sub-second timestamps in the same second.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Driver selects the registered SQL driver: "sqlite3" (cgo,
	// mattn/go-sqlite3) or "sqlite" (pure Go, modernc.org/sqlite).
	// Default: "sqlite3"
	Driver string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "./verdict-audit.db",
		Driver:       "sqlite3",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements audit.Storage on SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the database, initializes the schema, and enables
// WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig, logger *slog.Logger) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = "sqlite3"
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "audit.storage.sqlite")

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, audit.NewStorageError(config.Driver, "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("audit storage initialized",
		"driver", config.Driver,
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return audit.NewStorageError(s.config.Driver, "enable_wal", err)
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return audit.NewStorageError(s.config.Driver, "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return audit.NewStorageError(s.config.Driver, "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return audit.NewStorageError(s.config.Driver, "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return audit.NewStorageError(s.config.Driver, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return audit.NewStorageError(s.config.Driver, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

const insertAudit = `
	INSERT INTO audits (
		id, pack_id, conversation_id, created_at, transcript,
		compliant, score, violations, signals, execution_time_ms,
		transcript_hash, result_hash, record_hash
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Store persists an audit record.
func (s *SQLiteStorage) Store(ctx context.Context, record *audit.Record) error {
	violations, _ := json.Marshal(record.Violations)
	signals, _ := json.Marshal(record.Signals)

	_, err := s.db.ExecContext(ctx, insertAudit,
		record.ID, record.PackID, record.ConversationID,
		record.CreatedAt.UTC().Format(timestampLayout), record.Transcript,
		record.Compliant, record.Score, string(violations), string(signals),
		record.ExecutionTimeMs,
		record.TranscriptHash, record.ResultHash, record.RecordHash,
	)
	if err != nil {
		return audit.NewStorageError(s.config.Driver, "store", err)
	}
	return nil
}

const selectAudit = `
	SELECT id, pack_id, conversation_id, created_at, transcript,
	       compliant, score, violations, signals, execution_time_ms,
	       transcript_hash, result_hash, record_hash
	FROM audits
`

// GetByID retrieves a record by audit id.
func (s *SQLiteStorage) GetByID(ctx context.Context, id string) (*audit.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectAudit+" WHERE id = ?", id)
	if err != nil {
		return nil, audit.NewStorageError(s.config.Driver, "get", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, audit.NewStorageError(s.config.Driver, "get", err)
		}
		return nil, &audit.NotFoundError{ID: id}
	}

	record, err := scanRecord(rows)
	if err != nil {
		return nil, audit.NewStorageError(s.config.Driver, "scan", err)
	}
	return record, nil
}

// GetByConversation retrieves all records for a conversation, newest first.
func (s *SQLiteStorage) GetByConversation(ctx context.Context, conversationID string) ([]*audit.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		selectAudit+" WHERE conversation_id = ? ORDER BY created_at DESC", conversationID)
	if err != nil {
		return nil, audit.NewStorageError(s.config.Driver, "get_by_conversation", err)
	}
	defer rows.Close()

	return collectRecords(rows, s.config.Driver)
}

// Recent retrieves the n most recent records, newest first.
func (s *SQLiteStorage) Recent(ctx context.Context, n int) ([]*audit.Record, error) {
	if n <= 0 {
		n = -1 // SQLite treats a negative LIMIT as no limit
	}
	rows, err := s.db.QueryContext(ctx,
		selectAudit+" ORDER BY created_at DESC LIMIT ?", n)
	if err != nil {
		return nil, audit.NewStorageError(s.config.Driver, "recent", err)
	}
	defer rows.Close()

	return collectRecords(rows, s.config.Driver)
}

// Count returns the total number of stored records.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audits").Scan(&count); err != nil {
		return 0, audit.NewStorageError(s.config.Driver, "count", err)
	}
	return count, nil
}

// DeleteOlderThan removes records created before the cutoff.
func (s *SQLiteStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM audits WHERE created_at < ?", cutoff.UTC().Format(timestampLayout))
	if err != nil {
		return 0, audit.NewStorageError(s.config.Driver, "delete_older_than", err)
	}
	return result.RowsAffected()
}

// DeleteOverflow removes the oldest records until at most max remain.
func (s *SQLiteStorage) DeleteOverflow(ctx context.Context, max int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM audits WHERE id NOT IN (
			SELECT id FROM audits ORDER BY created_at DESC LIMIT ?
		)`, max)
	if err != nil {
		return 0, audit.NewStorageError(s.config.Driver, "delete_overflow", err)
	}
	return result.RowsAffected()
}

// Close releases the database connection.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return audit.NewStorageError(s.config.Driver, "close", err)
	}
	return nil
}

func collectRecords(rows *sql.Rows, driver string) ([]*audit.Record, error) {
	var records []*audit.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, audit.NewStorageError(driver, "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, audit.NewStorageError(driver, "iterate", err)
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (*audit.Record, error) {
	var record audit.Record
	var createdAt, violations, signals string

	err := rows.Scan(
		&record.ID, &record.PackID, &record.ConversationID, &createdAt, &record.Transcript,
		&record.Compliant, &record.Score, &violations, &signals, &record.ExecutionTimeMs,
		&record.TranscriptHash, &record.ResultHash, &record.RecordHash,
	)
	if err != nil {
		return nil, err
	}

	record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	if err := json.Unmarshal([]byte(violations), &record.Violations); err != nil {
		record.Violations = []compliance.Violation{}
	}
	if err := json.Unmarshal([]byte(signals), &record.Signals); err != nil {
		record.Signals = []compliance.Signal{}
	}

	return &record, nil
}
