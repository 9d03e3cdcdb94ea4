package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/iksnae/glasschat/internal"
	"gopkg.in/yaml.v3"
)

// IndexFile is the name of the archive index written next to the exports
const IndexFile = "index.yaml"

// ArchiveIndex lists the files of an archive directory
type ArchiveIndex struct {
	CreatedAt time.Time      `yaml:"created_at"`
	Format    string         `yaml:"format"`
	Entries   []ArchiveEntry `yaml:"entries"`
}

// ArchiveEntry describes one exported transcript
type ArchiveEntry struct {
	ID           string `yaml:"id"`
	Kind         string `yaml:"kind"`
	Title        string `yaml:"title"`
	File         string `yaml:"file"`
	MessageCount int    `yaml:"message_count"`
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]+`)

// FileName returns "<kind>-<id>-<slug>.<ext>" for a transcript
func FileName(t *internal.Transcript, ext string) string {
	slug := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(t.Title), "-"), "-")
	id := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(t.ID), "-"), "-")
	name := t.Kind + "-" + id
	if slug != "" && slug != id {
		name += "-" + slug
	}
	return name + "." + ext
}

// WriteArchive exports every transcript into dir with exporter and writes
// an index. An existing file is overwritten.
func WriteArchive(dir string, exporter Exporter, transcripts []*internal.Transcript, now time.Time) (*ArchiveIndex, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &internal.ExportError{Format: exporter.Extension(), Path: dir, Err: err}
	}

	index := &ArchiveIndex{CreatedAt: now, Format: exporter.Extension()}
	for _, t := range transcripts {
		name := FileName(t, exporter.Extension())
		path := filepath.Join(dir, name)
		if err := exportFile(path, exporter, t); err != nil {
			return nil, err
		}
		index.Entries = append(index.Entries, ArchiveEntry{
			ID:           t.ID,
			Kind:         t.Kind,
			Title:        t.Title,
			File:         name,
			MessageCount: len(t.Entries),
		})
		internal.LogDebug("Exported %s %s to %s", t.Kind, t.ID, path)
	}

	data, err := yaml.Marshal(index)
	if err != nil {
		return nil, fmt.Errorf("failed to encode archive index: %w", err)
	}
	indexPath := filepath.Join(dir, IndexFile)
	if err := os.WriteFile(indexPath, data, 0644); err != nil {
		return nil, &internal.ExportError{Format: "yaml", Path: indexPath, Err: err}
	}
	return index, nil
}

// ReadArchiveIndex loads the index of an archive directory
func ReadArchiveIndex(dir string) (*ArchiveIndex, error) {
	data, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		return nil, err
	}
	var index ArchiveIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse archive index: %w", err)
	}
	return &index, nil
}

func exportFile(path string, exporter Exporter, t *internal.Transcript) error {
	f, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := exporter.Export(t, f); err != nil {
		f.Close()
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	return nil
}
