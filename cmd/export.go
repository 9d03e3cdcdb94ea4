package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/iksnae/glasschat/internal"
	"github.com/iksnae/glasschat/internal/export"
	"github.com/spf13/cobra"
)

var (
	format      string
	outputDir   string
	roomID      string
	noAssistant bool
	databaseOut string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export conversations to files",
	Long: `Export room conversations and the assistant thread (jsonl, md, yaml, json, sqlite).

Each conversation is written to its own file in the output directory next
to an index.yaml describing the archive. Use --room to export a single room
and --database to additionally collect everything into one SQLite file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		var (
			session     *internal.SessionController
			transcripts []*internal.Transcript
			index       *export.ArchiveIndex
		)

		steps := []internal.ProgressStep{
			{
				Message: "Loading session",
				Fn: func() error {
					var loadErr error
					session, _, loadErr = loadSession()
					return loadErr
				},
			},
			{
				Message: "Collecting conversations",
				Fn: func() error {
					var collectErr error
					transcripts, collectErr = collectTranscripts(session)
					return collectErr
				},
			},
			{
				Message: fmt.Sprintf("Writing %s archive to %s", exporter.Extension(), outputDir),
				Fn: func() error {
					var writeErr error
					index, writeErr = export.WriteArchive(outputDir, exporter, transcripts, time.Now())
					return writeErr
				},
			},
		}
		if databaseOut != "" {
			steps = append(steps, internal.ProgressStep{
				Message: "Writing database " + databaseOut,
				Fn: func() error {
					return export.WriteDatabase(cmd.Context(), databaseOut, transcripts...)
				},
			})
		}

		if err := internal.ShowProgressWithSteps(cmd.Context(), cmd.ErrOrStderr(), steps); err != nil {
			return err
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Export complete: %d conversation(s) exported to %s", len(index.Entries), outputDir))
		return nil
	},
}

func collectTranscripts(session *internal.SessionController) ([]*internal.Transcript, error) {
	if roomID != "" {
		t, err := session.RoomTranscript(roomID)
		if errors.Is(err, internal.ErrNotFound) {
			return nil, fmt.Errorf("room not found: %s (use 'glasschat rooms' to see available rooms)", roomID)
		}
		if err != nil {
			return nil, err
		}
		return []*internal.Transcript{t}, nil
	}

	transcripts := session.RoomTranscripts()
	if !noAssistant {
		transcripts = append(transcripts, session.AssistantTranscript())
	}
	return transcripts, nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json, sqlite)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().StringVar(&roomID, "room", "", "Export a single room by ID")
	exportCmd.Flags().BoolVar(&noAssistant, "no-assistant", false, "Leave the assistant conversation out")
	exportCmd.Flags().StringVar(&databaseOut, "database", "", "Also write every conversation into this SQLite file")
}
