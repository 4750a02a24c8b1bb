package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <id>",
	Short: "Remove a user-installed extension",
	Long: `Delete a user-installed extension from the user extensions root and
unregister it. Built-in extensions cannot be uninstalled.`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	id := args[0]

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.load(cmd.Context()); err != nil {
		return err
	}
	if !a.svc.UninstallExtension(id) {
		return a.failed("uninstalling %s failed", id)
	}
	a.log.Debug().Str("id", id).Msg("uninstall finished")

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
	return nil
}
