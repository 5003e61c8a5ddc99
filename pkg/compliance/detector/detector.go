package detector

import (
	"log/slog"
	"sort"
	"sync"

	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/conversation"
)

// Detector is the capability every risk classifier implements. Detectors
// are pure and stateless: identical conversation in, identical signal set
// out. They must not panic in normal operation; the runner isolates a
// failing detector so it contributes zero signals without aborting the
// evaluation.
type Detector interface {
	// ID returns the detector's unique identifier (e.g. "crisis").
	ID() string

	// Detect runs the classifier over the conversation and returns zero or
	// more signals.
	Detect(conv *conversation.Conversation) []compliance.Signal
}

// Runner executes a set of detectors over one conversation.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a detector runner. A nil logger falls back to
// slog.Default.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger.With("component", "compliance.detector")}
}

// Run invokes every detector concurrently and returns the aggregated
// signals in a deterministic order, sorted by (detector id, message index,
// pattern id). A detector that panics is logged and contributes nothing;
// the evaluation continues.
func (r *Runner) Run(detectors []Detector, conv *conversation.Conversation) []compliance.Signal {
	results := make([][]compliance.Signal, len(detectors))

	var wg sync.WaitGroup
	for i, d := range detectors {
		wg.Add(1)
		go func(i int, d Detector) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					r.logger.Error("detector failed, continuing without its signals",
						"detector_id", d.ID(),
						"panic", rec,
					)
					results[i] = nil
				}
			}()
			results[i] = d.Detect(conv)
		}(i, d)
	}
	wg.Wait()

	var signals []compliance.Signal
	for _, batch := range results {
		signals = append(signals, batch...)
	}

	// Scheduling order must not leak into the result.
	sort.SliceStable(signals, func(a, b int) bool {
		if signals[a].DetectorID != signals[b].DetectorID {
			return signals[a].DetectorID < signals[b].DetectorID
		}
		if signals[a].MessageIndex != signals[b].MessageIndex {
			return signals[a].MessageIndex < signals[b].MessageIndex
		}
		return signals[a].PatternID < signals[b].PatternID
	})

	return signals
}
