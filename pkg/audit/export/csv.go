package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"convoguard/verdict/pkg/audit"
	"convoguard/verdict/pkg/compliance"
)

// CSVExporter exports audit records to CSV. Nested violation and signal
// structures are flattened to JSON cells; the summary columns
// (violation_count, high_severity) are precomputed so spreadsheet review
// needs no JSON parsing.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

// Export writes the records to w in CSV format.
func (e *CSVExporter) Export(ctx context.Context, records []*audit.Record, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(headerRow()); err != nil {
			return audit.NewExportError("csv", len(records), err)
		}
	}

	for _, record := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := writer.Write(recordToRow(record)); err != nil {
			return audit.NewExportError("csv", len(records), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return audit.NewExportError("csv", len(records), err)
	}
	return nil
}

func headerRow() []string {
	return []string{
		"id", "pack_id", "conversation_id", "created_at",
		"compliant", "score", "violation_count", "high_severity",
		"violations", "signals", "execution_time_ms",
		"transcript_hash", "result_hash", "record_hash",
	}
}

func recordToRow(record *audit.Record) []string {
	violations, _ := json.Marshal(record.Violations)
	signals, _ := json.Marshal(record.Signals)

	high := false
	for _, v := range record.Violations {
		if v.Severity == compliance.SeverityHigh {
			high = true
			break
		}
	}

	return []string{
		record.ID,
		record.PackID,
		record.ConversationID,
		record.CreatedAt.UTC().Format(time.RFC3339),
		fmt.Sprintf("%t", record.Compliant),
		fmt.Sprintf("%d", record.Score),
		fmt.Sprintf("%d", len(record.Violations)),
		fmt.Sprintf("%t", high),
		string(violations),
		string(signals),
		fmt.Sprintf("%d", record.ExecutionTimeMs),
		record.TranscriptHash,
		record.ResultHash,
		record.RecordHash,
	}
}
