package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/glasschat/internal"
)

// MarkdownExporter exports transcripts in Markdown format
type MarkdownExporter struct{}

// Export exports a transcript to Markdown format
func (e *MarkdownExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	title := transcript.Title
	if transcript.Metadata.Icon != "" {
		title = transcript.Metadata.Icon + " " + title
	}
	_, _ = fmt.Fprintf(w, "# %s\n\n", title)
	_, _ = fmt.Fprintf(w, "**Kind:** %s  \n", transcript.Kind)
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(transcript.Entries))

	if !transcript.Metadata.ExportedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "**Exported:** %s\n\n", transcript.Metadata.ExportedAt.Format("2006-01-02 15:04"))
	}

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	for i, entry := range transcript.Entries {
		timestamp := ""
		if !entry.Timestamp.IsZero() {
			timestamp = fmt.Sprintf(" (%s)", entry.Timestamp.Format("3:04 PM"))
		}

		content := escapeMarkdown(entry.Content)

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", entry.Actor, timestamp, content)
		if entry.ProvenanceID != "" {
			_, _ = fmt.Fprintf(w, "<sub>tx `%s`</sub>\n\n", entry.ProvenanceID)
		}

		// rule between messages, not after the last one
		if i < len(transcript.Entries)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
