package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one registered extension",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.load(cmd.Context()); err != nil {
			return err
		}
		e, ok := a.svc.GetExtension(args[0])
		if !ok {
			return fmt.Errorf("extension %q is not registered (try '%s list --failures')", args[0], rootCmd.Name())
		}

		if showJSON {
			return printJSON(cmd, e)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ID:\t%s\n", e.ID)
		fmt.Fprintf(w, "Name:\t%s\n", e.Name)
		fmt.Fprintf(w, "Description:\t%s\n", e.Description)
		fmt.Fprintf(w, "Version:\t%s\n", e.Version)
		fmt.Fprintf(w, "Author:\t%s\n", e.Author)
		fmt.Fprintf(w, "Component:\t%s\n", e.Component)
		if e.Icon != "" {
			fmt.Fprintf(w, "Icon:\t%s\n", e.Icon)
		}
		if len(e.Tags) > 0 {
			fmt.Fprintf(w, "Tags:\t%s\n", strings.Join(e.Tags, ", "))
		}
		origin := string(e.Origin)
		if e.Shadows {
			origin += " (shadows builtin)"
		}
		fmt.Fprintf(w, "Origin:\t%s\n", origin)
		fmt.Fprintf(w, "Path:\t%s\n", e.Path)
		fmt.Fprintf(w, "Entry file:\t%s\n", e.EntryFile)
		return w.Flush()
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(showCmd)
}
