package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iksnae/glasschat/internal"
	"github.com/iksnae/glasschat/internal/export"
	"github.com/spf13/cobra"
)

var (
	inspectFormat     string
	inspectSampleRows int
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <archive-dir|database>",
	Short: "Inspect an export archive or transcript database",
	Long: `Inspect what an earlier export produced.

Given a directory, the archive's index.yaml is listed. Given a SQLite file
written with --format sqlite or --database, the tables and the stored
conversations are summarized. The database is opened read-only.

Examples:
  glasschat inspect ./exports
  glasschat inspect ./exports/all.db --sample 5
  glasschat inspect ./exports/all.db --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := os.Stat(args[0])
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", args[0], err)
		}
		out := cmd.OutOrStdout()
		if info.IsDir() {
			return inspectArchive(out, args[0])
		}
		return inspectDatabase(cmd, out, args[0])
	},
}

func inspectArchive(out io.Writer, dir string) error {
	index, err := export.ReadArchiveIndex(dir)
	if err != nil {
		return fmt.Errorf("failed to read archive index: %w", err)
	}
	if inspectFormat == "json" {
		return writeJSON(out, index)
	}

	fmt.Fprintf(out, "📦 Archive: %s\n", dir)
	fmt.Fprintf(out, "📅 Created: %s\n", index.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "📄 Format: %s\n\n", index.Format)
	for _, e := range index.Entries {
		fmt.Fprintf(out, "  • %s %s (%s): %d message(s) → %s\n", e.Kind, e.ID, e.Title, e.MessageCount, e.File)
	}
	return nil
}

func inspectDatabase(cmd *cobra.Command, out io.Writer, dbPath string) error {
	db, err := internal.OpenDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	transcripts, err := internal.LoadTranscripts(cmd.Context(), db)
	if err != nil {
		return fmt.Errorf("failed to load transcripts: %w", err)
	}
	if inspectFormat == "json" {
		return writeJSON(out, transcripts)
	}

	tables, err := getTables(db)
	if err != nil {
		return fmt.Errorf("failed to get tables: %w", err)
	}

	fmt.Fprintf(out, "📋 Database: %s\n", dbPath)
	fmt.Fprintf(out, "📊 Found %d table(s)\n", len(tables))
	for _, table := range tables {
		var rowCount int
		if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&rowCount); err != nil {
			fmt.Fprintf(out, "⚠️  Error counting %s: %v\n", table, err)
			continue
		}
		fmt.Fprintf(out, "  • %s: %d row(s)\n", table, rowCount)
	}
	fmt.Fprintln(out)

	for _, t := range transcripts {
		fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
		fmt.Fprintf(out, "💬 %s %s: %s (%d message(s))\n", t.Kind, t.ID, t.Title, len(t.Entries))
		for i, e := range t.Entries {
			if i >= inspectSampleRows {
				fmt.Fprintf(out, "    ... and %d more\n", len(t.Entries)-inspectSampleRows)
				break
			}
			content := e.Content
			if strings.Contains(content, "\n") {
				content = strings.Split(content, "\n")[0] + "..."
			}
			if len(content) > 80 {
				content = content[:77] + "..."
			}
			fmt.Fprintf(out, "    %s: %s\n", e.Actor, content)
		}
	}
	return nil
}

func getTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "Output format (text, json)")
	inspectCmd.Flags().IntVar(&inspectSampleRows, "sample", 3, "Number of sample messages to show per conversation")
}
