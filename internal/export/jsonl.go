package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/iksnae/glasschat/internal"
)

// JSONLExporter exports transcripts in JSONL format (one message per line)
type JSONLExporter struct{}

// Export exports a transcript to JSONL format
func (e *JSONLExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, entry := range transcript.Entries {
		obj := map[string]interface{}{
			"id":      entry.ID,
			"actor":   entry.Actor,
			"content": entry.Content,
		}

		if !entry.Timestamp.IsZero() {
			obj["timestamp"] = entry.Timestamp.Format(time.RFC3339)
		}
		if entry.Direction != "" {
			obj["direction"] = entry.Direction
		}
		if entry.ProvenanceID != "" {
			obj["provenance_id"] = entry.ProvenanceID
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
