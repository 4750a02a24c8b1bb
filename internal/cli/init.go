package cli

import (
	"fmt"

	"github.com/kiosk-labs/kiosk/internal/userdata"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the userdata directory",
	Long: `Create the userdata directory with the user extensions root, the config
directory (private) and the logs directory. Existing directories are kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := userdata.GetUserdataRoot()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Initializing userdata at %s\n", root)

		if err := userdata.InitGlobal(out); err != nil {
			return fmt.Errorf("initializing userdata: %w", err)
		}

		fmt.Fprintln(out, "\nUserdata initialized successfully.")
		return nil
	},
}
