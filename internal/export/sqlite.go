package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iksnae/glasschat/internal"
)

// SQLiteExporter writes transcripts into a SQLite database file
type SQLiteExporter struct{}

// Export builds a single-transcript database in a temporary directory and
// streams the resulting file to w
func (e *SQLiteExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	dir, err := os.MkdirTemp("", "glasschat-export-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "transcript.db")
	if err := WriteDatabase(context.Background(), path, transcript); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to copy database: %w", err)
	}
	return nil
}

// Extension returns the file extension for this format
func (e *SQLiteExporter) Extension() string {
	return "db"
}

// WriteDatabase writes transcripts into the database at path, creating it
// if needed
func WriteDatabase(ctx context.Context, path string, transcripts ...*internal.Transcript) error {
	db, err := internal.CreateDatabase(path)
	if err != nil {
		return &internal.ExportError{Format: "sqlite", Path: path, Err: err}
	}
	defer db.Close()

	if err := internal.SaveTranscripts(ctx, db, transcripts...); err != nil {
		return &internal.ExportError{Format: "sqlite", Path: path, Err: err}
	}
	return nil
}
