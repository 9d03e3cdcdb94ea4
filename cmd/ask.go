package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/iksnae/glasschat/internal"
	"github.com/spf13/cobra"
)

var (
	askRaw   bool
	askStyle string
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the AI assistant a one-shot question",
	Long: `Send a single question to the assistant and print its reply.

The reply is rendered as Markdown unless --raw is given. Press Ctrl+C to
cancel while the assistant is typing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := loadSession()
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		ctx := cmd.Context()
		turn, err := session.AskAssistant(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		select {
		case <-turn.Done():
		case <-ctx.Done():
			if err := session.CancelAssistant(); err != nil {
				internal.LogDebug("Cancel after interrupt: %v", err)
			}
			<-turn.Done()
		}

		if ctx.Err() != nil || session.Assistant().Outcome() == internal.OutcomeCancelled {
			return errors.New("cancelled before the assistant replied")
		}

		messages := session.Assistant().Messages()
		last := messages[len(messages)-1]
		if session.Assistant().Outcome() == internal.OutcomeFailed {
			return fmt.Errorf("%w: %s", internal.ErrUpstream, last.Content)
		}
		return printReply(cmd.OutOrStdout(), last.Content, askRaw, askStyle)
	},
}

func printReply(out io.Writer, content string, raw bool, style string) error {
	if raw {
		_, err := fmt.Fprintln(out, content)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	rendered, err := r.Render(content)
	if err != nil {
		return fmt.Errorf("failed to render reply: %w", err)
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().BoolVar(&askRaw, "raw", false, "Print the reply without Markdown rendering")
	askCmd.Flags().StringVar(&askStyle, "style", "auto", "Glamour style (auto, dark, light, notty)")
}
