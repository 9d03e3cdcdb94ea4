package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/glasschat/internal"
	"github.com/spf13/cobra"
)

var (
	roomsSearch string
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)
)

// roomsCmd represents the rooms command
var roomsCmd = &cobra.Command{
	Use:     "rooms",
	Aliases: []string{"list"},
	Short:   "List chat rooms",
	Long: `List the rooms of the session with their unread counts and latest activity.

Use --search to filter rooms by name (case-insensitive substring match).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := loadSession()
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		rooms := session.SearchRooms(roomsSearch)
		displayRooms(cmd.OutOrStdout(), rooms, session.Rooms().ActiveID(), roomsSearch)
		return nil
	},
}

func displayRooms(out io.Writer, rooms []internal.Room, activeID, query string) {
	if len(rooms) == 0 {
		if query != "" {
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 No rooms match %q", query)))
		} else {
			fmt.Fprintln(out, headerStyle.Render("📋 No rooms found"))
		}
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d room(s)", len(rooms))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Room")+"\t"+titleStyle.Render("Unread")+"\t"+titleStyle.Render("Last Activity")+"\t"+titleStyle.Render("Last Message")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 90))

	for _, room := range rooms {
		name := room.Icon + " " + room.Name
		if room.ID == activeID {
			name = activeStyle.Render(name + " ●")
		}

		unread := dateStyle.Render("0")
		if room.UnreadCount > 0 {
			unread = countStyle.Render(strconv.Itoa(room.UnreadCount))
		}

		activity := room.LastActivityLabel
		if activity == "" {
			activity = "—"
		}

		preview := room.LastMessagePreview
		if len([]rune(preview)) > 40 {
			preview = string([]rune(preview)[:37]) + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", idStyle.Render(room.ID), name, unread, dateStyle.Render(activity), preview)
	}

	_ = w.Flush()
	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render("💡 Tip: Use the room ID (e.g., ")+
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(rooms[0].ID)+
		idStyle.Render(") with `glasschat show <id>`"))
}

func init() {
	rootCmd.AddCommand(roomsCmd)
	roomsCmd.Flags().StringVar(&roomsSearch, "search", "", "Only list rooms whose name contains this text")
}
