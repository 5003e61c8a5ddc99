package export

import (
	"context"
	"encoding/json"
	"io"

	"convoguard/verdict/pkg/audit"
)

// JSONExporter exports audit records as a JSON array. The output is a
// faithful serialization of the records including all three integrity
// hashes, so an exported file can be re-verified offline.
type JSONExporter struct {
	// Pretty indents the output for human review.
	Pretty bool
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// Export writes the records to w as a JSON array.
func (e *JSONExporter) Export(ctx context.Context, records []*audit.Record, w io.Writer) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if records == nil {
		records = []*audit.Record{}
	}

	encoder := json.NewEncoder(w)
	if e.Pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(records); err != nil {
		return audit.NewExportError("json", len(records), err)
	}
	return nil
}
