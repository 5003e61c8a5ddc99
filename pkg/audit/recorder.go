package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RecorderConfig contains configuration for the audit recorder.
type RecorderConfig struct {
	// Enabled enables audit recording.
	Enabled bool

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration

	// OnWriteFailure, when set, is invoked once for every record that
	// could not be persisted. Used to feed the audit write failure
	// metric.
	OnWriteFailure func()
}

// DefaultRecorderConfig returns the default recorder configuration.
func DefaultRecorderConfig() *RecorderConfig {
	return &RecorderConfig{
		Enabled:      true,
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder persists audit records asynchronously so evaluations never
// block on storage. Writes are best-effort: a full buffer or a failing
// backend drops the record with an error log, it never fails the
// evaluation that produced it.
type Recorder struct {
	storage    Storage
	config     *RecorderConfig
	recordChan chan *Record
	wg         sync.WaitGroup
	done       chan struct{}
	logger     *slog.Logger
}

// NewRecorder creates an audit recorder writing to the provided storage
// backend and starts its background worker.
func NewRecorder(storage Storage, config *RecorderConfig, logger *slog.Logger) *Recorder {
	if config == nil {
		config = DefaultRecorderConfig()
	}
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = 1000
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *Record, config.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     logger.With("component", "audit.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// Record enqueues a record for persistence. It returns immediately; when
// the buffer is full the record is dropped and counted as a write failure.
func (r *Recorder) Record(record *Record) {
	if !r.config.Enabled {
		return
	}

	select {
	case r.recordChan <- record:
	default:
		r.logger.Error("audit record buffer full, dropping record",
			"record_id", record.ID,
			"buffer_capacity", r.config.AsyncBuffer,
		)
		r.reportFailure()
	}
}

// Close drains the buffer and waits for all pending writes to complete.
func (r *Recorder) Close() error {
	close(r.done)
	r.wg.Wait()
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.write(record)

		case <-r.done:
			for {
				select {
				case record := <-r.recordChan:
					r.write(record)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(record *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store audit record",
			"record_id", record.ID,
			"pack_id", record.PackID,
			"error", err,
		)
		r.reportFailure()
		return
	}

	r.logger.Debug("audit record stored",
		"record_id", record.ID,
		"pack_id", record.PackID,
		"compliant", record.Compliant,
	)
}

func (r *Recorder) reportFailure() {
	if r.config.OnWriteFailure != nil {
		r.config.OnWriteFailure()
	}
}
