package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kiosk-labs/kiosk/internal/branding"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagBuiltin string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` manages the extensions shown on the kiosk control panel.

Extensions are loaded from two roots: the built-in root shipped next to the
panel and the user root under the userdata directory. A user extension with
the same id as a built-in one replaces it until it is uninstalled.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBuiltin, "builtin", "", "Built-in extensions directory (overrides settings and "+branding.EnvVar("BUILTIN")+")")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print debug logs to stderr")
}

// Execute runs the root command with build info injected via ldflags.
// Interrupts cancel the command context.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
