package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iksnae/glasschat/internal"
)

func TestJSONExporter_Export(t *testing.T) {
	tests := []struct {
		name       string
		transcript *internal.Transcript
	}{
		{
			name:       "room transcript",
			transcript: internal.CreateTestTranscript("room-1"),
		},
		{
			name:       "empty transcript",
			transcript: internal.CreateTestTranscriptWithEntries("room-2", []internal.TranscriptEntry{}),
		},
		{
			name: "assistant transcript",
			transcript: &internal.Transcript{
				ID:    "assistant",
				Kind:  internal.KindAssistant,
				Title: "AI Assistant",
				Entries: []internal.TranscriptEntry{
					{ID: "1", Actor: "user", Content: "Hello"},
				},
				Metadata: internal.TranscriptMetadata{MessageCount: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &JSONExporter{}

			if err := exporter.Export(tt.transcript, &buf); err != nil {
				t.Fatalf("JSONExporter.Export() error = %v", err)
			}

			output := buf.String()
			var decoded internal.Transcript
			if err := json.Unmarshal([]byte(output), &decoded); err != nil {
				t.Fatalf("Output is not valid JSON: %v\nOutput: %s", err, output)
			}
			if decoded.ID != tt.transcript.ID {
				t.Errorf("ID = %q, want %q", decoded.ID, tt.transcript.ID)
			}
			if len(decoded.Entries) != len(tt.transcript.Entries) {
				t.Errorf("Entries = %d, want %d", len(decoded.Entries), len(tt.transcript.Entries))
			}
			if !strings.Contains(output, "\n  ") {
				t.Errorf("Output should be pretty-printed with indentation")
			}
		})
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	exporter := &JSONExporter{}
	if got := exporter.Extension(); got != "json" {
		t.Errorf("JSONExporter.Extension() = %v, want json", got)
	}
}
