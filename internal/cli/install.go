package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <dir>",
	Short: "Install an extension bundle",
	Long: `Copy an extension bundle directory into the user extensions root and
register it. The directory name becomes the extension id.

Example:
  kiosk install ./cabin-lights`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	src, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.load(cmd.Context()); err != nil {
		return err
	}
	if !a.svc.InstallExtension(src) {
		return a.failed("installing %s failed", args[0])
	}

	id := filepath.Base(src)
	e, ok := a.svc.GetExtension(id)
	if !ok {
		return a.failed("%s was installed but is not registered", id)
	}
	a.log.Debug().Str("id", id).Str("path", e.Path).Msg("install finished")
	fmt.Fprintf(cmd.OutOrStdout(), "Installed %s (%s %s) to %s\n", e.ID, e.Name, e.Version, e.Path)
	if e.Shadows {
		fmt.Fprintf(cmd.OutOrStdout(), "Note: %s now replaces the built-in extension with the same id.\n", e.ID)
	}
	return nil
}
