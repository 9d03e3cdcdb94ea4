package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// fixtureSchema mirrors the transcript archive layout
const fixtureSchema = `
CREATE TABLE IF NOT EXISTS transcripts (
	id            TEXT PRIMARY KEY,
	kind          TEXT NOT NULL,
	title         TEXT NOT NULL,
	icon          TEXT,
	exported_at   TEXT NOT NULL,
	message_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS entries (
	transcript_id TEXT NOT NULL REFERENCES transcripts(id),
	seq           INTEGER NOT NULL,
	id            TEXT NOT NULL,
	timestamp     TEXT NOT NULL,
	actor         TEXT NOT NULL,
	direction     TEXT,
	content       TEXT NOT NULL,
	provenance_id TEXT,
	PRIMARY KEY (transcript_id, seq)
);`

// CreateSQLiteFixture creates a transcript archive with one room and two messages
func CreateSQLiteFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(fixtureSchema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	insertSampleRows(t, db)
}

func insertSampleRows(t *testing.T, db *sql.DB) {
	t.Helper()
	if _, err := db.Exec(
		`INSERT INTO transcripts (id, kind, title, icon, exported_at, message_count) VALUES (?, ?, ?, ?, ?, ?)`,
		"1", "room", "General Chat", "💬", "2026-01-01T15:00:00Z", 2,
	); err != nil {
		t.Fatalf("Failed to insert transcript: %v", err)
	}

	entries := []struct {
		id, ts, actor, direction, content, tx string
	}{
		{"m1", "2026-01-01T10:30:00Z", "Sarah", "received", "Hey everyone! How's the project going?", ""},
		{"m2", "2026-01-01T10:34:00Z", "You", "sent", "Going well, shipping today", "tx_abc123"},
	}
	for i, e := range entries {
		if _, err := db.Exec(
			`INSERT INTO entries (transcript_id, seq, id, timestamp, actor, direction, content, provenance_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			"1", i, e.id, e.ts, e.actor, e.direction, e.content, e.tx,
		); err != nil {
			t.Fatalf("Failed to insert entry %s: %v", e.id, err)
		}
	}
}

// SampleSeedYAML is a small but complete session seed
const SampleSeedYAML = `active_room: "2"
rooms:
  - id: "1"
    name: General Chat
    icon: "💬"
  - id: "2"
    name: Design Team
    icon: "🎨"
    unread_count: 2
messages:
  "2":
    - id: "1"
      content: New mockups are up
      sender: Alex
      time: 9:15 AM
    - id: "2"
      content: Looking now
      sender: You
      time: 9:20 AM
assistant:
  - id: "1"
    content: Hi! Ask me anything.
    role: assistant
    time: 9:00 AM
`

// CreateSeedFixture writes SampleSeedYAML (or content, when given) into dir
func CreateSeedFixture(t *testing.T, dir string, content ...string) string {
	t.Helper()
	data := SampleSeedYAML
	if len(content) > 0 {
		data = content[0]
	}
	path := filepath.Join(dir, "seed.yaml")
	writeFile(t, path, []byte(data))
	return path
}

// CreateConfigFixture writes a TOML config into dir
func CreateConfigFixture(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, []byte(content))
	return path
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}
