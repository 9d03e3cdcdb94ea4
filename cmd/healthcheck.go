package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/glasschat/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckTimeout time.Duration
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that glasschat can start a session and reach its assistant",
	Long: `Check the health of glasschat by verifying:
  • Configuration loading and validation
  • Seed loading (bundled sample or --seed file)
  • Session construction
  • Assistant reachability (relay /health in relay mode)
  • Relay credentials (GEMINI_API_KEY)

Use --verbose for detailed diagnostic information.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 GlassChat Health Check"))
		fmt.Fprintln(out)

		fmt.Fprintln(out, infoStyle.Render("Step 1: Loading configuration..."))
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to load configuration:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Configuration loaded"))
		if verbose {
			fmt.Fprintf(out, "   Assistant mode: %s\n", cfg.Assistant.Mode)
			b := cfg.Layout.Breakpoints
			fmt.Fprintf(out, "   Breakpoints: tablet=%d desktop=%d wide=%d\n", b.Tablet, b.Desktop, b.Wide)
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, infoStyle.Render("Step 2: Starting session..."))
		session, err := newSession(cfg)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to start session:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		rooms := session.Rooms().Rooms()
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Session ready with %d room(s)", len(rooms))))
		if verbose {
			source := "bundled sample"
			if cfg.SeedPath != "" {
				source = cfg.SeedPath
			}
			fmt.Fprintf(out, "   Seed: %s\n", source)
			for i, room := range rooms {
				if i == 5 {
					fmt.Fprintf(out, "   ... and %d more\n", len(rooms)-5)
					break
				}
				fmt.Fprintf(out, "   [%s] %s %s\n", room.ID, room.Icon, room.Name)
			}
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, infoStyle.Render("Step 3: Checking assistant..."))
		assistantOK := true
		if cfg.Assistant.Mode == internal.AssistantModeRelay {
			if err := checkRelay(cmd.Context(), cfg.Assistant.RelayURL, healthcheckTimeout); err != nil {
				assistantOK = false
				fmt.Fprintln(out, errorStyle.Render("❌ Relay unreachable:"), err)
				fmt.Fprintln(out, "   Start one with 'glasschat serve' or fix assistant.relay_url")
			} else {
				fmt.Fprintln(out, successStyle.Render("✅ Relay reachable at "+cfg.Assistant.RelayURL))
			}
		} else {
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Simulated assistant (latency %s)", cfg.Assistant.Latency.Duration)))
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, infoStyle.Render("Step 4: Checking relay credentials..."))
		if cfg.Relay.APIKey != "" {
			fmt.Fprintln(out, successStyle.Render("✅ GEMINI_API_KEY is set"))
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠️  GEMINI_API_KEY is not set"))
			fmt.Fprintln(out, "   Only needed when running 'glasschat serve'")
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)
		if !assistantOK {
			fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			return fmt.Errorf("health check failed: relay at %s is unreachable", cfg.Assistant.RelayURL)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		return nil
	},
}

// checkRelay probes GET /health on the relay
func checkRelay(ctx context.Context, baseURL string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().DurationVar(&healthcheckTimeout, "timeout", 3*time.Second, "How long to wait for the relay")
}
