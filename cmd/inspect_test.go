package cmd

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/iksnae/glasschat/internal"
	"github.com/iksnae/glasschat/internal/export"
	"github.com/iksnae/glasschat/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectCommand_Database(t *testing.T) {
	isolate(t, testConfig)
	dbPath := filepath.Join(testutil.CreateTempDir(t), "fixture.db")
	testutil.CreateSQLiteFixture(t, dbPath)

	out, err := executeCommand(t, "inspect", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 table(s)")
	assert.Contains(t, out, "entries: 2 row(s)")
	assert.Contains(t, out, "room 1: General Chat (2 message(s))")
	assert.Contains(t, out, "You: Going well, shipping today")
}

func TestInspectCommand_DatabaseJSON(t *testing.T) {
	isolate(t, testConfig)
	dbPath := filepath.Join(testutil.CreateTempDir(t), "fixture.db")
	testutil.CreateSQLiteFixture(t, dbPath)

	out, err := executeCommand(t, "inspect", dbPath, "--format", "json")
	require.NoError(t, err)

	var transcripts []internal.Transcript
	require.NoError(t, json.Unmarshal([]byte(out), &transcripts))
	require.Len(t, transcripts, 1)
	assert.Equal(t, "tx_abc123", transcripts[0].Entries[1].ProvenanceID)
}

func TestInspectCommand_Archive(t *testing.T) {
	isolate(t, testConfig)
	dir := testutil.CreateTempDir(t)
	exporter, err := export.NewExporter("json")
	require.NoError(t, err)
	_, err = export.WriteArchive(dir, exporter, []*internal.Transcript{internal.CreateTestTranscript("9")}, time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC))
	require.NoError(t, err)

	out, err := executeCommand(t, "inspect", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Created: 2026-02-03 04:05:06")
	assert.Contains(t, out, "Format: json")
	assert.Contains(t, out, "room 9 (Test Room): 2 message(s) → room-9-test-room.json")
}

func TestInspectCommand_Errors(t *testing.T) {
	isolate(t, testConfig)

	_, err := executeCommand(t, "inspect", filepath.Join(testutil.CreateTempDir(t), "missing.db"))
	require.Error(t, err)

	_, err = executeCommand(t, "inspect", testutil.CreateTempDir(t))
	require.Error(t, err, "a directory without index.yaml is not an archive")
	assert.Contains(t, err.Error(), "archive index")
}
