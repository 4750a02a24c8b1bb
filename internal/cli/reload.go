package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Rescan both extension roots",
	Long: `Rescan the built-in and user extension roots and report what was
registered. Candidates that fail to load are listed by 'list --failures'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		all, err := a.load(cmd.Context())
		if err != nil {
			return err
		}
		report := a.svc.Registry().Report()

		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d extension(s)", len(all))
		if n := len(report.Failures); n > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), ", %d failed", n)
		}
		if n := len(report.Shadowed); n > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), ", %d shadowed", n)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reloadCmd)
}
