package internal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/iksnae/glasschat/testutil"
)

func TestOpenDatabase(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "valid database",
			setup: func(t *testing.T) string {
				dbPath := filepath.Join(testutil.CreateTempDir(t), "test.db")
				testutil.CreateSQLiteFixture(t, dbPath)
				return dbPath
			},
			wantErr: false,
		},
		{
			name: "non-existent database",
			setup: func(t *testing.T) string {
				// read-only mode fails on a missing file, usually at Ping
				return filepath.Join(testutil.CreateTempDir(t), "nonexistent.db")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := tt.setup(t)
			db, err := OpenDatabase(dbPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("OpenDatabase() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if db == nil {
					t.Fatal("OpenDatabase() returned nil database")
				}
				db.Close()
			}
		})
	}
}

func TestSaveAndLoadTranscripts(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(testutil.CreateTempDir(t), "archive.db")

	db, err := CreateDatabase(dbPath)
	if err != nil {
		t.Fatalf("CreateDatabase() error = %v", err)
	}
	defer db.Close()

	room := CreateTestTranscript("1")
	empty := CreateTestTranscriptWithEntries("2", nil)
	if err := SaveTranscripts(ctx, db, room, empty); err != nil {
		t.Fatalf("SaveTranscripts() error = %v", err)
	}
	// saving again replaces rather than duplicates
	if err := SaveTranscripts(ctx, db, room); err != nil {
		t.Fatalf("SaveTranscripts() second call error = %v", err)
	}

	got, err := LoadTranscripts(ctx, db)
	if err != nil {
		t.Fatalf("LoadTranscripts() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("LoadTranscripts() returned %d transcripts, want 2", len(got))
	}

	first := got[0]
	if first.Title != "Test Room" || first.Metadata.Icon != "#" {
		t.Errorf("transcript = %+v", first)
	}
	if len(first.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(first.Entries))
	}
	if first.Entries[1].ProvenanceID != "tx_def456" {
		t.Errorf("ProvenanceID = %q, want tx_def456", first.Entries[1].ProvenanceID)
	}
	if !first.Entries[0].Timestamp.Equal(room.Entries[0].Timestamp) {
		t.Errorf("Timestamp = %v, want %v", first.Entries[0].Timestamp, room.Entries[0].Timestamp)
	}
	if len(got[1].Entries) != 0 {
		t.Errorf("empty transcript has %d entries", len(got[1].Entries))
	}
}

func TestLoadTranscripts_Fixture(t *testing.T) {
	dbPath := filepath.Join(testutil.CreateTempDir(t), "fixture.db")
	testutil.CreateSQLiteFixture(t, dbPath)

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer db.Close()

	got, err := LoadTranscripts(context.Background(), db)
	if err != nil {
		t.Fatalf("LoadTranscripts() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("LoadTranscripts() returned %d transcripts, want 1", len(got))
	}
	if got[0].Title != "General Chat" || got[0].Kind != KindRoom {
		t.Errorf("transcript = %+v", got[0])
	}
	if len(got[0].Entries) != 2 || got[0].Entries[1].Direction != "sent" {
		t.Errorf("entries = %+v", got[0].Entries)
	}
}

func TestSaveTranscripts_InMemory(t *testing.T) {
	ctx := context.Background()
	db := testutil.CreateTestDB(t)

	if err := SaveTranscripts(ctx, db, CreateTestTranscript("2")); err != nil {
		t.Fatalf("SaveTranscripts() error = %v", err)
	}

	got, err := LoadTranscripts(ctx, db)
	if err != nil {
		t.Fatalf("LoadTranscripts() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("LoadTranscripts() returned %d transcripts, want 2", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("ids = %s, %s; want 1, 2", got[0].ID, got[1].ID)
	}
}

func TestSaveTranscripts_CancelledContext(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := SaveTranscripts(ctx, db, CreateTestTranscript("1")); err == nil {
		t.Error("SaveTranscripts() with cancelled context should fail")
	}
}
