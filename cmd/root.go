package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iksnae/glasschat/internal"
	"github.com/iksnae/glasschat/internal/clock"
	"github.com/iksnae/glasschat/internal/relay"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	seedPath   string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "glasschat",
	Short: "Chat rooms with an AI assistant side channel, in your terminal",
	Long: `A terminal chat client with rooms, unread counts and an AI assistant
that answers in a side panel.

Every message you send is stamped with a transaction tag so conversations
can be exported and audited later. The assistant either answers offline
with canned replies or through a relay in front of Gemini.

Quick Start:
  glasschat chat                         # Open the full-screen client
  glasschat rooms                        # List rooms and unread counts
  glasschat ask "plan my sprint"         # One-shot assistant question
  glasschat serve                        # Run the Gemini relay
  glasschat export --format md           # Archive every conversation

Configuration is read from ~/.glasschat/config.toml, a .env file and the
environment (GEMINI_API_KEY, GLASSCHAT_RELAY_URL, PORT).`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.glasschat/config.toml)")
	rootCmd.PersistentFlags().StringVar(&seedPath, "seed", "", "YAML seed with rooms and history (default: bundled sample)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadConfig resolves the config file and applies the --seed override
func loadConfig() (*internal.Config, error) {
	path := configPath
	if path == "" {
		path = internal.DefaultConfigPath()
	}
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if seedPath != "" {
		cfg.SeedPath = seedPath
	}
	return cfg, nil
}

// newSession builds a session from cfg with production ids and clock
func newSession(cfg *internal.Config) (*internal.SessionController, error) {
	var seed *internal.Seed
	if cfg.SeedPath != "" {
		var err error
		if seed, err = internal.LoadSeed(cfg.SeedPath); err != nil {
			return nil, err
		}
	}
	return internal.New(internal.Options{
		Seed:         seed,
		Clock:        clock.Real(),
		Replier:      newReplier(cfg),
		ReplyTimeout: cfg.Assistant.ReplyTimeout.Duration,
		Breakpoints:  cfg.Layout.Breakpoints,
	})
}

func loadSession() (*internal.SessionController, *internal.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	session, err := newSession(cfg)
	if err != nil {
		return nil, nil, err
	}
	return session, cfg, nil
}

func newReplier(cfg *internal.Config) internal.Replier {
	if cfg.Assistant.Mode == internal.AssistantModeRelay {
		internal.LogDebug("Assistant replies through relay %s", cfg.Assistant.RelayURL)
		return relay.NewClient(cfg.Assistant.RelayURL)
	}
	r := internal.NewSimulatedReplier(clock.Real())
	r.Latency = cfg.Assistant.Latency.Duration
	return r
}
