package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"convoguard/verdict/pkg/audit"
	"convoguard/verdict/pkg/compliance"
)

func makeRecord(i int, createdAt time.Time) *audit.Record {
	return &audit.Record{
		ID:             fmt.Sprintf("audit-%03d", i),
		PackID:         "mental-health-de",
		ConversationID: fmt.Sprintf("conv-%d", i%3),
		CreatedAt:      createdAt,
		Transcript:     "User: Hallo\nAssistant: Guten Tag",
		Compliant:      i%2 == 0,
		Score:          100 - i,
		Violations: []compliance.Violation{
			{Category: compliance.CategoryGDPRConsent, Severity: compliance.SeverityMedium, Weight: -15},
		},
		Signals:         []compliance.Signal{},
		ExecutionTimeMs: int64(i),
		TranscriptHash:  "th",
		ResultHash:      "rh",
		RecordHash:      "xh",
	}
}

// openBackends returns one instance of every storage backend under test.
func openBackends(t *testing.T) map[string]audit.Storage {
	t.Helper()

	sqlite, err := NewSQLiteStorage(&SQLiteConfig{
		Path:   filepath.Join(t.TempDir(), "audit.db"),
		Driver: "sqlite", // pure-Go driver, no cgo needed under test
	}, nil)
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}

	return map[string]audit.Storage{
		"memory": NewMemoryStorage(),
		"sqlite": sqlite,
	}
}

func TestStoreAndGetByID(t *testing.T) {
	for name, backend := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer backend.Close()
			ctx := context.Background()

			want := makeRecord(1, time.Now().UTC())
			if err := backend.Store(ctx, want); err != nil {
				t.Fatalf("Store() error = %v", err)
			}

			got, err := backend.GetByID(ctx, want.ID)
			if err != nil {
				t.Fatalf("GetByID() error = %v", err)
			}
			if got.ID != want.ID || got.PackID != want.PackID || got.Score != want.Score {
				t.Errorf("GetByID() = %+v, want %+v", got, want)
			}
			if !got.CreatedAt.Equal(want.CreatedAt) {
				t.Errorf("created_at = %v, want %v (precision lost)", got.CreatedAt, want.CreatedAt)
			}
			if len(got.Violations) != 1 || got.Violations[0].Category != compliance.CategoryGDPRConsent {
				t.Errorf("violations = %+v, want round-tripped GDPR violation", got.Violations)
			}
			if got.RecordHash != want.RecordHash {
				t.Errorf("record hash = %q, want %q", got.RecordHash, want.RecordHash)
			}
		})
	}
}

func TestGetByIDNotFound(t *testing.T) {
	for name, backend := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer backend.Close()

			_, err := backend.GetByID(context.Background(), "missing")
			var nf *audit.NotFoundError
			if !errors.As(err, &nf) {
				t.Fatalf("error = %v, want *audit.NotFoundError", err)
			}
			if nf.ID != "missing" {
				t.Errorf("NotFoundError.ID = %q", nf.ID)
			}
		})
	}
}

func TestRecentNewestFirst(t *testing.T) {
	for name, backend := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer backend.Close()
			ctx := context.Background()

			base := time.Now().UTC().Add(-time.Hour)
			for i := 0; i < 5; i++ {
				if err := backend.Store(ctx, makeRecord(i, base.Add(time.Duration(i)*time.Minute))); err != nil {
					t.Fatal(err)
				}
			}

			got, err := backend.Recent(ctx, 3)
			if err != nil {
				t.Fatalf("Recent() error = %v", err)
			}
			if len(got) != 3 {
				t.Fatalf("Recent(3) returned %d records", len(got))
			}
			if got[0].ID != "audit-004" || got[2].ID != "audit-002" {
				t.Errorf("order = [%s %s %s], want newest first", got[0].ID, got[1].ID, got[2].ID)
			}
		})
	}
}

func TestRecentOrderingAcrossSubsecondBoundary(t *testing.T) {
	// A whole-second timestamp must sort before sub-second timestamps in
	// the same second. Trimmed fractions would break this in text order.
	for name, backend := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer backend.Close()
			ctx := context.Background()

			whole := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
			for i, offset := range []time.Duration{0, 500 * time.Millisecond, time.Second} {
				if err := backend.Store(ctx, makeRecord(i, whole.Add(offset))); err != nil {
					t.Fatal(err)
				}
			}

			got, err := backend.Recent(ctx, 0)
			if err != nil {
				t.Fatalf("Recent() error = %v", err)
			}
			if len(got) != 3 {
				t.Fatalf("Recent(0) returned %d records, want 3", len(got))
			}
			if got[0].ID != "audit-002" || got[1].ID != "audit-001" || got[2].ID != "audit-000" {
				t.Errorf("order = [%s %s %s], want newest first across the sub-second boundary",
					got[0].ID, got[1].ID, got[2].ID)
			}

			deleted, err := backend.DeleteOlderThan(ctx, whole.Add(250*time.Millisecond))
			if err != nil {
				t.Fatalf("DeleteOlderThan() error = %v", err)
			}
			if deleted != 1 {
				t.Errorf("deleted = %d, want only the whole-second record", deleted)
			}
			if _, err := backend.GetByID(ctx, "audit-001"); err != nil {
				t.Errorf("sub-second record was deleted: %v", err)
			}
		})
	}
}

func TestGetByConversation(t *testing.T) {
	for name, backend := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer backend.Close()
			ctx := context.Background()

			base := time.Now().UTC().Add(-time.Hour)
			for i := 0; i < 6; i++ {
				if err := backend.Store(ctx, makeRecord(i, base.Add(time.Duration(i)*time.Minute))); err != nil {
					t.Fatal(err)
				}
			}

			// conv-0 collects i = 0, 3
			got, err := backend.GetByConversation(ctx, "conv-0")
			if err != nil {
				t.Fatalf("GetByConversation() error = %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("got %d records, want 2", len(got))
			}
			if got[0].ID != "audit-003" {
				t.Errorf("first record = %s, want newest (audit-003)", got[0].ID)
			}
		})
	}
}

func TestDeleteOlderThan(t *testing.T) {
	for name, backend := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer backend.Close()
			ctx := context.Background()

			now := time.Now().UTC()
			backend.Store(ctx, makeRecord(0, now.Add(-48*time.Hour)))
			backend.Store(ctx, makeRecord(1, now.Add(-36*time.Hour)))
			backend.Store(ctx, makeRecord(2, now.Add(-time.Hour)))

			deleted, err := backend.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
			if err != nil {
				t.Fatalf("DeleteOlderThan() error = %v", err)
			}
			if deleted != 2 {
				t.Errorf("deleted = %d, want 2", deleted)
			}

			count, _ := backend.Count(ctx)
			if count != 1 {
				t.Errorf("count after prune = %d, want 1", count)
			}
			if _, err := backend.GetByID(ctx, "audit-002"); err != nil {
				t.Errorf("recent record was deleted: %v", err)
			}
		})
	}
}

func TestDeleteOverflow(t *testing.T) {
	for name, backend := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer backend.Close()
			ctx := context.Background()

			base := time.Now().UTC().Add(-time.Hour)
			for i := 0; i < 5; i++ {
				backend.Store(ctx, makeRecord(i, base.Add(time.Duration(i)*time.Minute)))
			}

			deleted, err := backend.DeleteOverflow(ctx, 2)
			if err != nil {
				t.Fatalf("DeleteOverflow() error = %v", err)
			}
			if deleted != 3 {
				t.Errorf("deleted = %d, want 3", deleted)
			}

			got, _ := backend.Recent(ctx, 0)
			if len(got) != 2 {
				t.Fatalf("remaining = %d, want 2", len(got))
			}
			if got[0].ID != "audit-004" || got[1].ID != "audit-003" {
				t.Errorf("kept [%s %s], want the two newest", got[0].ID, got[1].ID)
			}
		})
	}
}

func TestDeleteOverflowNoop(t *testing.T) {
	for name, backend := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer backend.Close()
			ctx := context.Background()

			backend.Store(ctx, makeRecord(0, time.Now().UTC()))
			deleted, err := backend.DeleteOverflow(ctx, 10)
			if err != nil {
				t.Fatalf("DeleteOverflow() error = %v", err)
			}
			if deleted != 0 {
				t.Errorf("deleted = %d, want 0 when under the cap", deleted)
			}
		})
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	cfg := &SQLiteConfig{Path: path, Driver: "sqlite"}

	s, err := NewSQLiteStorage(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Store(context.Background(), makeRecord(1, time.Now().UTC())); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = NewSQLiteStorage(cfg, nil)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	count, err := s.Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("count after reopen = %d, want 1", count)
	}
}
