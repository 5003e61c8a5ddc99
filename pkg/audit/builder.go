package audit

import (
	"encoding/json"
	"strings"
	"time"

	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/conversation"
)

// canonicalResult is the fixed-order serialization of the verdict fields
// covered by the result hash. Struct field order pins the byte layout, so
// the hash is reproducible across processes.
type canonicalResult struct {
	PackID          string                 `json:"pack_id"`
	ConversationID  string                 `json:"conversation_id"`
	Compliant       bool                   `json:"compliant"`
	Score           int                    `json:"score"`
	Violations      []compliance.Violation `json:"violations"`
	Signals         []compliance.Signal    `json:"signals"`
	ExecutionTimeMs int64                  `json:"execution_time_ms"`
}

// NewRecord builds a content-addressed audit record from an evaluation
// result and the conversation it was produced for. The record's id is the
// result's audit id.
func NewRecord(conv *conversation.Conversation, result *compliance.EvaluationResult) *Record {
	record := &Record{
		ID:              result.AuditID,
		PackID:          result.PackID,
		ConversationID:  result.ConversationID,
		CreatedAt:       time.Now().UTC(),
		Transcript:      conv.Transcript(),
		Compliant:       result.Compliant,
		Score:           result.Score,
		Violations:      result.Violations,
		Signals:         result.Signals,
		ExecutionTimeMs: result.ExecutionTimeMs,
	}

	record.TranscriptHash = HashString(record.Transcript)
	record.ResultHash = hashResult(record)
	record.RecordHash = hashRecord(record)

	return record
}

// Verify recomputes the record's hashes from its content and compares them
// against the stored values. A nil return means the record is intact; a
// *VerificationError names the first mismatching hash.
func Verify(record *Record) error {
	if HashString(record.Transcript) != record.TranscriptHash {
		return &VerificationError{RecordID: record.ID, Field: "transcript_hash"}
	}
	if hashResult(record) != record.ResultHash {
		return &VerificationError{RecordID: record.ID, Field: "result_hash"}
	}
	if hashRecord(record) != record.RecordHash {
		return &VerificationError{RecordID: record.ID, Field: "record_hash"}
	}
	return nil
}

func hashResult(record *Record) string {
	data, _ := json.Marshal(canonicalResult{
		PackID:          record.PackID,
		ConversationID:  record.ConversationID,
		Compliant:       record.Compliant,
		Score:           record.Score,
		Violations:      record.Violations,
		Signals:         record.Signals,
		ExecutionTimeMs: record.ExecutionTimeMs,
	})
	return HashContent(data)
}

// hashRecord binds identity, creation time, transcript, and verdict into
// one hash. Any edit to a stored record breaks the chain.
func hashRecord(record *Record) string {
	return HashString(strings.Join([]string{
		record.ID,
		record.CreatedAt.UTC().Format(time.RFC3339Nano),
		record.TranscriptHash,
		record.ResultHash,
	}, "\n"))
}
