package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/iksnae/glasschat/internal"
	"github.com/iksnae/glasschat/internal/tui"
	"github.com/spf13/cobra"
)

var (
	chatStyle   string
	chatLogFile string
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the full-screen chat client",
	Long: `Open the interactive chat client.

Keys:
  tab        cycle focus between rooms, chat and assistant
  ctrl+b     toggle the room list
  ctrl+a     toggle the assistant panel
  esc        cancel a pending reply, or close an overlay
  /new NAME  create a room and switch to it
  ctrl+c     quit

Panels collapse into overlays on narrow terminals. Logs are discarded
while the client owns the screen unless --log-file is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := loadSession()
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		var logOut io.Writer = io.Discard
		if chatLogFile != "" {
			f, err := os.OpenFile(chatLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer f.Close()
			logOut = f
		}
		internal.SetLogOutput(logOut)
		defer internal.SetLogOutput(os.Stderr)

		return tui.Run(cmd.Context(), session, tui.Options{GlamourStyle: chatStyle})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatStyle, "style", "dark", "Glamour style for assistant replies (dark, light, notty)")
	chatCmd.Flags().StringVar(&chatLogFile, "log-file", "", "Append logs to this file while the client runs")
}
