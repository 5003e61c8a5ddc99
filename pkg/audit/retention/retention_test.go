package retention

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"convoguard/verdict/pkg/audit"
	"convoguard/verdict/pkg/audit/storage"
)

func seedRecords(t *testing.T, store audit.Storage, ages ...time.Duration) {
	t.Helper()
	now := time.Now().UTC()
	for i, age := range ages {
		record := &audit.Record{
			ID:             fmt.Sprintf("audit-%03d", i),
			PackID:         "gdpr-general-eu",
			ConversationID: fmt.Sprintf("conv-%03d", i),
			CreatedAt:      now.Add(-age),
			Compliant:      true,
			Score:          100,
		}
		if err := store.Store(context.Background(), record); err != nil {
			t.Fatalf("seed record %d: %v", i, err)
		}
	}
}

func TestPruneDeletesByAge(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedRecords(t, store,
		400*24*time.Hour,
		366*24*time.Hour,
		10*24*time.Hour,
		time.Hour,
	)

	pruner := NewPruner(store, Config{RetentionDays: 365}, nil)
	result, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if result.DeletedByAge != 2 {
		t.Errorf("DeletedByAge = %d, want 2", result.DeletedByAge)
	}
	if result.DeletedByOverflow != 0 {
		t.Errorf("DeletedByOverflow = %d, want 0", result.DeletedByOverflow)
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("remaining count = %d, want 2", count)
	}
}

func TestPruneEnforcesMaxRecords(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedRecords(t, store,
		5*time.Hour, 4*time.Hour, 3*time.Hour, 2*time.Hour, time.Hour,
	)

	pruner := NewPruner(store, Config{MaxRecords: 2}, nil)
	result, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if result.DeletedByOverflow != 3 {
		t.Errorf("DeletedByOverflow = %d, want 3", result.DeletedByOverflow)
	}

	remaining, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("remaining = %d records, want 2", len(remaining))
	}
	// Newest two survive.
	if remaining[0].ID != "audit-004" || remaining[1].ID != "audit-003" {
		t.Errorf("survivors = %s, %s; want audit-004, audit-003", remaining[0].ID, remaining[1].ID)
	}
}

func TestPruneDisabledPolicyIsNoOp(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedRecords(t, store, 1000*24*time.Hour, time.Hour)

	pruner := NewPruner(store, Config{}, nil)
	result, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if result.Total() != 0 {
		t.Errorf("deleted %d records with retention disabled", result.Total())
	}
}

func TestPruneWrapsStorageErrors(t *testing.T) {
	pruner := NewPruner(&failingStorage{}, Config{RetentionDays: 30}, nil)
	_, err := pruner.Prune(context.Background())
	if err == nil {
		t.Fatal("expected error from failing storage")
	}
	var retErr *audit.RetentionError
	if !errors.As(err, &retErr) {
		t.Fatalf("error type = %T, want *audit.RetentionError", err)
	}
	if retErr.RetentionDays != 30 {
		t.Errorf("RetentionDays = %d, want 30", retErr.RetentionDays)
	}
}

func TestSchedulerEmptyScheduleDisabled(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStorage(), Config{}, nil)
	scheduler := NewScheduler(pruner, nil)

	if err := scheduler.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if scheduler.IsRunning() {
		t.Error("scheduler running despite empty schedule")
	}
	if scheduler.NextRun() != nil {
		t.Error("NextRun != nil with no schedule")
	}
}

func TestSchedulerRejectsInvalidSchedule(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStorage(), Config{Schedule: "not a cron expr"}, nil)
	scheduler := NewScheduler(pruner, nil)

	if err := scheduler.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStorage(), Config{RetentionDays: 30, Schedule: "0 3 * * *"}, nil)
	scheduler := NewScheduler(pruner, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !scheduler.IsRunning() {
		t.Fatal("scheduler not running after Start")
	}
	next := scheduler.NextRun()
	if next == nil || !next.After(time.Now()) {
		t.Errorf("NextRun = %v, want a future time", next)
	}

	scheduler.Stop()
	if scheduler.IsRunning() {
		t.Error("scheduler still running after Stop")
	}
}

// failingStorage fails every operation.
type failingStorage struct{}

func (f *failingStorage) Store(context.Context, *audit.Record) error { return errStorage }
func (f *failingStorage) GetByID(context.Context, string) (*audit.Record, error) {
	return nil, errStorage
}
func (f *failingStorage) GetByConversation(context.Context, string) ([]*audit.Record, error) {
	return nil, errStorage
}
func (f *failingStorage) Recent(context.Context, int) ([]*audit.Record, error) {
	return nil, errStorage
}
func (f *failingStorage) Count(context.Context) (int64, error) { return 0, errStorage }
func (f *failingStorage) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	return 0, errStorage
}
func (f *failingStorage) DeleteOverflow(context.Context, int64) (int64, error) {
	return 0, errStorage
}
func (f *failingStorage) Close() error { return nil }

var errStorage = errors.New("storage unavailable")
