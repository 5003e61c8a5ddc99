package audit

import (
	"context"
	"io"
	"time"

	"convoguard/verdict/pkg/compliance"
)

// Record represents the complete audit trail for a single conversation
// evaluation. It captures the transcript, the full verdict, and
// cryptographic hashes for tamper evidence, so an operator can later prove
// what was evaluated and what the outcome was.
type Record struct {
	// Identity
	ID             string `json:"id"`              // UUID v4, equals the result's audit id
	PackID         string `json:"pack_id"`         // Policy pack evaluated against
	ConversationID string `json:"conversation_id"` // Derived from the canonical transcript

	// Timestamps
	CreatedAt time.Time `json:"created_at"` // When the evaluation completed

	// Evaluated content
	Transcript string `json:"transcript"` // Canonical transcript

	// Verdict
	Compliant       bool                   `json:"compliant"`
	Score           int                    `json:"score"`
	Violations      []compliance.Violation `json:"violations"`
	Signals         []compliance.Signal    `json:"signals"`
	ExecutionTimeMs int64                  `json:"execution_time_ms"`

	// Tamper evidence
	TranscriptHash string `json:"transcript_hash"` // SHA-256 of the canonical transcript
	ResultHash     string `json:"result_hash"`     // SHA-256 over the canonical verdict fields
	RecordHash     string `json:"record_hash"`     // SHA-256 binding identity, transcript, and verdict
}

// Storage defines the interface for audit record storage backends.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Store persists an audit record.
	Store(ctx context.Context, record *Record) error

	// GetByID retrieves a record by its audit id. Returns a *NotFoundError
	// when no record has that id.
	GetByID(ctx context.Context, id string) (*Record, error)

	// GetByConversation retrieves all records for a conversation id,
	// newest first.
	GetByConversation(ctx context.Context, conversationID string) ([]*Record, error)

	// Recent retrieves the n most recently created records, newest first.
	// A non-positive n returns all records.
	Recent(ctx context.Context, n int) ([]*Record, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)

	// DeleteOlderThan removes records created before the cutoff. Returns
	// the number of records deleted. Used for retention enforcement.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteOverflow removes the oldest records until at most max remain.
	// Returns the number of records deleted.
	DeleteOverflow(ctx context.Context, max int64) (int64, error)

	// Close releases any resources held by the storage backend.
	Close() error
}

// Exporter defines the interface for exporting audit records.
type Exporter interface {
	// Export writes the records to w in the exporter's format.
	Export(ctx context.Context, records []*Record, w io.Writer) error
}
