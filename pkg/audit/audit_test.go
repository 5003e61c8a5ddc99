package audit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/conversation"
)

func testConversation(t *testing.T) *conversation.Conversation {
	t.Helper()
	conv, err := conversation.ParseTranscript("User: Hallo\nAssistant: Guten Tag, wie kann ich helfen?")
	if err != nil {
		t.Fatal(err)
	}
	return conv
}

func testResult(conv *conversation.Conversation) *compliance.EvaluationResult {
	return &compliance.EvaluationResult{
		AuditID:        "a2b9d7c1-0000-4000-8000-000000000001",
		PackID:         "mental-health-de",
		ConversationID: conv.ID(),
		Compliant:      true,
		Score:          100,
		Violations:     []compliance.Violation{},
		Signals:        []compliance.Signal{},
	}
}

func TestNewRecordHashes(t *testing.T) {
	conv := testConversation(t)
	record := NewRecord(conv, testResult(conv))

	if record.ID != "a2b9d7c1-0000-4000-8000-000000000001" {
		t.Errorf("record id = %q, want the result's audit id", record.ID)
	}
	if record.TranscriptHash == "" || record.ResultHash == "" || record.RecordHash == "" {
		t.Fatal("record is missing hashes")
	}
	if record.TranscriptHash != HashString(conv.Transcript()) {
		t.Error("transcript hash does not cover the canonical transcript")
	}
	if err := Verify(record); err != nil {
		t.Errorf("fresh record failed verification: %v", err)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	conv := testConversation(t)

	tests := []struct {
		name   string
		mutate func(*Record)
		field  string
	}{
		{
			name:   "edited transcript",
			mutate: func(r *Record) { r.Transcript += "\nUser: added later" },
			field:  "transcript_hash",
		},
		{
			name:   "edited score",
			mutate: func(r *Record) { r.Score = 0 },
			field:  "result_hash",
		},
		{
			name: "edited verdict",
			mutate: func(r *Record) {
				r.Compliant = false
			},
			field: "result_hash",
		},
		{
			name: "injected violation",
			mutate: func(r *Record) {
				r.Violations = append(r.Violations, compliance.Violation{
					Category: compliance.CategoryManipulation,
					Severity: compliance.SeverityLow,
				})
			},
			field: "result_hash",
		},
		{
			name:   "edited creation time",
			mutate: func(r *Record) { r.CreatedAt = r.CreatedAt.Add(time.Hour) },
			field:  "record_hash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := NewRecord(conv, testResult(conv))
			tt.mutate(record)

			err := Verify(record)
			if err == nil {
				t.Fatal("tampered record passed verification")
			}
			var verr *VerificationError
			if !errors.As(err, &verr) {
				t.Fatalf("error type = %T, want *VerificationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("mismatch field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestResultHashIsStable(t *testing.T) {
	conv := testConversation(t)
	a := NewRecord(conv, testResult(conv))
	b := NewRecord(conv, testResult(conv))

	if a.ResultHash != b.ResultHash {
		t.Error("identical verdicts produced different result hashes")
	}
	if a.TranscriptHash != b.TranscriptHash {
		t.Error("identical transcripts produced different transcript hashes")
	}
}

func TestHashContentTruncatesLargeInput(t *testing.T) {
	base := strings.Repeat("a", MaxHashSize)
	if HashContent([]byte(base)) != HashContent([]byte(base+"tail")) {
		t.Error("bytes past MaxHashSize changed the hash")
	}
	if HashContent(nil) != "" {
		t.Error("empty content must hash to the empty string")
	}
}

// failStorage counts stores and fails on demand.
type failStorage struct {
	mu     sync.Mutex
	stored []*Record
	fail   bool
}

func (s *failStorage) Store(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return NewStorageError("memory", "store", errors.New("boom"))
	}
	s.stored = append(s.stored, record)
	return nil
}

func (s *failStorage) GetByID(ctx context.Context, id string) (*Record, error) {
	return nil, &NotFoundError{ID: id}
}

func (s *failStorage) GetByConversation(ctx context.Context, conversationID string) ([]*Record, error) {
	return nil, nil
}

func (s *failStorage) Recent(ctx context.Context, n int) ([]*Record, error) { return nil, nil }

func (s *failStorage) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.stored)), nil
}

func (s *failStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (s *failStorage) DeleteOverflow(ctx context.Context, max int64) (int64, error) {
	return 0, nil
}

func (s *failStorage) Close() error { return nil }

func TestRecorderWritesAsync(t *testing.T) {
	storage := &failStorage{}
	recorder := NewRecorder(storage, nil, nil)

	conv := testConversation(t)
	recorder.Record(NewRecord(conv, testResult(conv)))

	if err := recorder.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	count, _ := storage.Count(context.Background())
	if count != 1 {
		t.Errorf("stored %d records, want 1", count)
	}
}

func TestRecorderReportsWriteFailures(t *testing.T) {
	storage := &failStorage{fail: true}
	var failures int
	var mu sync.Mutex

	recorder := NewRecorder(storage, &RecorderConfig{
		Enabled:      true,
		AsyncBuffer:  4,
		WriteTimeout: time.Second,
		OnWriteFailure: func() {
			mu.Lock()
			failures++
			mu.Unlock()
		},
	}, nil)

	conv := testConversation(t)
	recorder.Record(NewRecord(conv, testResult(conv)))
	recorder.Close()

	mu.Lock()
	defer mu.Unlock()
	if failures != 1 {
		t.Errorf("failure hook called %d times, want 1", failures)
	}
}

func TestRecorderDisabled(t *testing.T) {
	storage := &failStorage{}
	recorder := NewRecorder(storage, &RecorderConfig{Enabled: false}, nil)

	conv := testConversation(t)
	recorder.Record(NewRecord(conv, testResult(conv)))
	recorder.Close()

	count, _ := storage.Count(context.Background())
	if count != 0 {
		t.Errorf("disabled recorder stored %d records", count)
	}
}
