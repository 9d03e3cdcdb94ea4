package internal

import (
	"time"
)

// CreateTestTranscript creates a room transcript with sample data
func CreateTestTranscript(id string) *Transcript {
	at := time.Date(2026, 1, 1, 14, 25, 0, 0, time.UTC)
	return &Transcript{
		ID:    id,
		Kind:  KindRoom,
		Title: "Test Room",
		Entries: []TranscriptEntry{
			{
				ID:           "1",
				Timestamp:    at,
				Actor:        "Alice Johnson",
				Direction:    Received.String(),
				Content:      "Hello, how are you?",
				ProvenanceID: "tx_abc123",
			},
			{
				ID:           "2",
				Timestamp:    at.Add(time.Minute),
				Actor:        LocalSender,
				Direction:    Sent.String(),
				Content:      "I'm doing well, thank you!",
				ProvenanceID: "tx_def456",
			},
		},
		Metadata: TranscriptMetadata{
			ExportedAt:   at.Add(time.Hour),
			MessageCount: 2,
			Icon:         "#",
		},
	}
}

// CreateTestTranscriptWithEntries creates a transcript with custom entries
func CreateTestTranscriptWithEntries(id string, entries []TranscriptEntry) *Transcript {
	return &Transcript{
		ID:      id,
		Kind:    KindRoom,
		Title:   "Test Room",
		Entries: entries,
		Metadata: TranscriptMetadata{
			MessageCount: len(entries),
		},
	}
}
