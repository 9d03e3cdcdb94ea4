package internal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const transcriptSchema = `
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

// OpenDatabase opens a SQLite database in read-only mode
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// CreateDatabase opens (creating if needed) a writable transcript database
func CreateDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(transcriptSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return db, nil
}

// SaveTranscripts writes transcripts in one transaction, replacing any
// earlier copy with the same id
func SaveTranscripts(ctx context.Context, db *sql.DB, transcripts ...*Transcript) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range transcripts {
		if _, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE transcript_id = ?", t.ID); err != nil {
			return fmt.Errorf("failed to clear transcript %s: %w", t.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO transcripts (id, kind, title, icon, exported_at, message_count) VALUES (?, ?, ?, ?, ?, ?)",
			t.ID, t.Kind, t.Title, t.Metadata.Icon, t.Metadata.ExportedAt.Format(time.RFC3339Nano), len(t.Entries),
		); err != nil {
			return fmt.Errorf("failed to insert transcript %s: %w", t.ID, err)
		}
		for i, e := range t.Entries {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO entries (transcript_id, seq, id, timestamp, actor, direction, content, provenance_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
				t.ID, i, e.ID, e.Timestamp.Format(time.RFC3339Nano), e.Actor, e.Direction, e.Content, e.ProvenanceID,
			); err != nil {
				return fmt.Errorf("failed to insert entry %s of %s: %w", e.ID, t.ID, err)
			}
		}
	}

	return tx.Commit()
}

// LoadTranscripts reads every transcript back in id order
func LoadTranscripts(ctx context.Context, db *sql.DB) ([]*Transcript, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, kind, title, icon, exported_at, message_count FROM transcripts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var out []*Transcript
	for rows.Next() {
		var t Transcript
		var icon sql.NullString
		var exportedAt string
		if err := rows.Scan(&t.ID, &t.Kind, &t.Title, &icon, &exportedAt, &t.Metadata.MessageCount); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		t.Metadata.Icon = icon.String
		t.Metadata.ExportedAt, _ = time.Parse(time.RFC3339Nano, exportedAt)
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	for _, t := range out {
		if t.Entries, err = loadEntries(ctx, db, t.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func loadEntries(ctx context.Context, db *sql.DB, transcriptID string) ([]TranscriptEntry, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT id, timestamp, actor, direction, content, provenance_id FROM entries WHERE transcript_id = ? ORDER BY seq",
		transcriptID,
	)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	entries := []TranscriptEntry{}
	for rows.Next() {
		var e TranscriptEntry
		var ts string
		var direction, provenance sql.NullString
		if err := rows.Scan(&e.ID, &ts, &e.Actor, &direction, &e.Content, &provenance); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		e.Direction = direction.String
		e.ProvenanceID = provenance.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return entries, nil
}
