package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/iksnae/glasschat/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const testConfig = `
[assistant]
mode = "simulated"
latency = "5ms"
reply_timeout = "5s"
`

// isolate keeps a test away from the developer's config, .env and
// environment, and returns a config file path for --config
func isolate(t *testing.T, config string) string {
	t.Helper()
	home := testutil.CreateTempDir(t)
	t.Setenv("HOME", home)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GLASSCHAT_RELAY_URL", "")
	t.Setenv("PORT", "")
	t.Chdir(testutil.CreateTempDir(t))
	return testutil.CreateConfigFixture(t, filepath.Join(home, ".glasschat"), config)
}

// executeCommand runs the root command with args, capturing stdout and
// stderr together
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCommandContext(t, context.Background(), args...)
}

func executeCommandContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.ExecuteContext(ctx)
	return out.String(), err
}

// resetFlags restores every flag to its default so runs do not leak state
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
