package cmd

import (
	"fmt"

	"github.com/iksnae/glasschat/internal"
	"github.com/iksnae/glasschat/internal/relay"
	"github.com/spf13/cobra"
)

var (
	serveAddr string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Gemini relay",
	Long: `Run the HTTP relay the assistant talks to in relay mode.

Endpoints:
  POST /api/gemini   {"message": "..."} -> {"reply": "..."}
  GET  /health       liveness probe
  GET  /metrics      Prometheus metrics

The Gemini API key is read from GEMINI_API_KEY (or a .env file). The
listen address defaults to relay.addr, or :$PORT when PORT is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Relay.Addr = serveAddr
		}
		if cfg.Relay.APIKey == "" {
			internal.PrintWarning(cmd.ErrOrStderr(), "GEMINI_API_KEY is not set; every request will fail until it is")
		}

		gen := relay.NewGeminiClient(cfg.Relay.APIKey, cfg.Relay.Timeout.Duration)
		gen.BaseURL = cfg.Relay.UpstreamURL
		gen.Model = cfg.Relay.Model

		srv := relay.NewServer(gen, relay.Options{
			Addr:      cfg.Relay.Addr,
			RateLimit: cfg.Relay.RateLimit,
			Burst:     cfg.Relay.Burst,
			Logger:    internal.Logger(),
		})
		internal.PrintInfo(cmd.OutOrStdout(), fmt.Sprintf("Relay for %s listening on %s", cfg.Relay.Model, cfg.Relay.Addr))
		return srv.ListenAndServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides relay.addr and PORT)")
}
