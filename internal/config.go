package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Assistant modes
const (
	AssistantModeSimulated = "simulated"
	AssistantModeRelay     = "relay"
)

// Config is the complete glasschat configuration
type Config struct {
	// SeedPath points at a YAML seed; empty selects the bundled sample
	SeedPath  string          `toml:"seed_path"`
	Assistant AssistantConfig `toml:"assistant"`
	Relay     RelayConfig     `toml:"relay"`
	Layout    LayoutConfig    `toml:"layout"`
}

// AssistantConfig controls how the assistant side channel replies
type AssistantConfig struct {
	// Mode is "simulated" (canned replies) or "relay" (HTTP relay)
	Mode         string   `toml:"mode"`
	Latency      Duration `toml:"latency"`
	ReplyTimeout Duration `toml:"reply_timeout"`
	RelayURL     string   `toml:"relay_url"`
}

// RelayConfig controls the Gemini relay server
type RelayConfig struct {
	Addr        string   `toml:"addr"`
	Model       string   `toml:"model"`
	UpstreamURL string   `toml:"upstream_url"`
	Timeout     Duration `toml:"timeout"`
	// RateLimit is requests per second per client IP; zero disables limiting
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
	// APIKey is read from GEMINI_API_KEY and never from the config file
	APIKey string `toml:"-"`
}

// LayoutConfig holds the terminal breakpoints
type LayoutConfig struct {
	Breakpoints Breakpoints `toml:"breakpoints"`
}

// Duration is a time.Duration that decodes from strings like "1500ms"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Assistant: AssistantConfig{
			Mode:         AssistantModeSimulated,
			Latency:      Duration{DefaultSimulatedLatency},
			ReplyTimeout: Duration{30 * time.Second},
			RelayURL:     "http://localhost:5000",
		},
		Relay: RelayConfig{
			Addr:        ":5000",
			Model:       "gemini-2.5-flash",
			UpstreamURL: "https://generativelanguage.googleapis.com/v1beta",
			Timeout:     Duration{25 * time.Second},
			RateLimit:   5,
			Burst:       10,
		},
		Layout: LayoutConfig{Breakpoints: TerminalBreakpoints},
	}
}

// DefaultConfigPath returns ~/.glasschat/config.toml
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".glasschat", "config.toml")
}

// LoadConfig layers defaults, the TOML file at path (if it exists), a .env
// file in the working directory and environment variables, in that order
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
			LogDebug("Loaded config from %s", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		LogWarn("Failed to load .env: %v", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Relay.APIKey = os.Getenv("GEMINI_API_KEY")
	if v := os.Getenv("GLASSCHAT_RELAY_URL"); v != "" {
		c.Assistant.RelayURL = v
		c.Assistant.Mode = AssistantModeRelay
	}
	if v := os.Getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err == nil {
			c.Relay.Addr = ":" + v
		} else {
			LogWarn("Ignoring non-numeric PORT %q", v)
		}
	}
}

// Validate checks the configuration for values the session cannot run with
func (c *Config) Validate() error {
	switch strings.ToLower(c.Assistant.Mode) {
	case AssistantModeSimulated, AssistantModeRelay:
		c.Assistant.Mode = strings.ToLower(c.Assistant.Mode)
	default:
		return fmt.Errorf("assistant.mode must be %q or %q, got %q", AssistantModeSimulated, AssistantModeRelay, c.Assistant.Mode)
	}
	if c.Assistant.Latency.Duration < 0 {
		return fmt.Errorf("assistant.latency must not be negative")
	}
	b := c.Layout.Breakpoints
	if !(b.Tablet > 0 && b.Tablet < b.Desktop && b.Desktop < b.Wide) {
		return fmt.Errorf("layout.breakpoints must increase: tablet=%d desktop=%d wide=%d", b.Tablet, b.Desktop, b.Wide)
	}
	if c.Relay.RateLimit < 0 {
		return fmt.Errorf("relay.rate_limit must not be negative")
	}
	return nil
}
