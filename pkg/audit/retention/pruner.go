package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"convoguard/verdict/pkg/audit"
)

// Config controls how old audit records are removed.
type Config struct {
	// RetentionDays is the maximum age of a record. Records older than
	// this are deleted. Zero disables age-based pruning.
	RetentionDays int

	// MaxRecords caps the total number of stored records. When the store
	// grows past the cap, the oldest records are deleted first. Zero
	// disables the cap.
	MaxRecords int64

	// Schedule is a standard cron expression used by the Scheduler.
	Schedule string
}

// Result summarizes a pruning run.
type Result struct {
	// DeletedByAge is the number of records removed for exceeding
	// RetentionDays.
	DeletedByAge int64

	// DeletedByOverflow is the number of records removed to enforce
	// MaxRecords.
	DeletedByOverflow int64

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// Total returns the total number of deleted records.
func (r Result) Total() int64 {
	return r.DeletedByAge + r.DeletedByOverflow
}

// Pruner deletes audit records that fall outside the retention policy.
// Age-based deletion runs before the overflow cap so the cap is applied
// to the surviving set.
type Pruner struct {
	storage audit.Storage
	config  Config
	logger  *slog.Logger
	now     func() time.Time
}

// NewPruner creates a pruner over the given storage backend.
func NewPruner(storage audit.Storage, config Config, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		storage: storage,
		config:  config,
		logger:  logger,
		now:     time.Now,
	}
}

// Prune applies the retention policy once and reports what was deleted.
func (p *Pruner) Prune(ctx context.Context) (Result, error) {
	start := p.now()
	var result Result

	if p.config.RetentionDays > 0 {
		cutoff := start.AddDate(0, 0, -p.config.RetentionDays)
		deleted, err := p.storage.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return result, audit.NewRetentionError(p.config.RetentionDays, fmt.Errorf("delete by age: %w", err))
		}
		result.DeletedByAge = deleted
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.storage.DeleteOverflow(ctx, p.config.MaxRecords)
		if err != nil {
			return result, audit.NewRetentionError(p.config.RetentionDays, fmt.Errorf("delete overflow: %w", err))
		}
		result.DeletedByOverflow = deleted
	}

	result.Duration = p.now().Sub(start)
	if result.Total() > 0 {
		p.logger.Info("audit retention pruned records",
			"deleted_by_age", result.DeletedByAge,
			"deleted_by_overflow", result.DeletedByOverflow,
			"duration_ms", result.Duration.Milliseconds())
	}
	return result, nil
}
