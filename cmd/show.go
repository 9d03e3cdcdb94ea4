package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/glasschat/internal"
	"github.com/spf13/cobra"
)

var (
	showLimit int
)

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	sentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true).
			Padding(0, 1)

	receivedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true).
			Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <room-id|assistant>",
	Short: "Show the messages of a room",
	Long: `Display the messages of a room with their transaction tags.

Pass "assistant" instead of a room ID to show the assistant conversation.
Use 'glasschat rooms' to see available room IDs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := loadSession()
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		var transcript *internal.Transcript
		if args[0] == internal.KindAssistant {
			transcript = session.AssistantTranscript()
		} else {
			transcript, err = session.RoomTranscript(args[0])
			if errors.Is(err, internal.ErrNotFound) {
				return fmt.Errorf("room not found: %s (use 'glasschat rooms' to see available rooms)", args[0])
			}
			if err != nil {
				return err
			}
		}

		displayTranscript(cmd.OutOrStdout(), transcript, showLimit)
		return nil
	},
}

func displayTranscript(out io.Writer, t *internal.Transcript, limit int) {
	if t == nil {
		return
	}

	title := t.Title
	if t.Metadata.Icon != "" {
		title = t.Metadata.Icon + " " + title
	}
	fmt.Fprintln(out, sessionHeaderStyle.Render(title))
	fmt.Fprintln(out, sessionMetaStyle.Render(fmt.Sprintf("%d message(s)", len(t.Entries))))

	entries := t.Entries
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, timestampStyle.Render("No messages yet"))
		return
	}

	for _, e := range entries {
		style := receivedStyle
		if e.Direction == internal.Sent.String() || e.Actor == internal.RoleUser.String() {
			style = sentStyle
		}
		head := style.Render(e.Actor) + " " + timestampStyle.Render(e.Timestamp.Format("3:04 PM"))
		if e.ProvenanceID != "" {
			head += " " + timestampStyle.Render("tx "+e.ProvenanceID)
		}
		fmt.Fprintln(out, head)
		fmt.Fprintln(out, messageContentStyle.Render(e.Content))
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVar(&showLimit, "limit", 0, "Show only the last N messages (0 = all)")
}
