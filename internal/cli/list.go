package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/kiosk-labs/kiosk/internal/registry"
	"github.com/spf13/cobra"
)

var (
	listJSON     bool
	listFailures bool
	listOrigin   string
	listSort     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered extensions",
	Long: `Load both extension roots and list every registered extension.

With --failures, list the candidates that could not be registered instead.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listFailures, "failures", false, "List bundles that failed to load")
	listCmd.Flags().StringVar(&listOrigin, "origin", "", "Filter by origin (builtin, user)")
	listCmd.Flags().StringVar(&listSort, "sort", "id", "Sort by id, name or version")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if listOrigin != "" && listOrigin != string(registry.OriginBuiltin) && listOrigin != string(registry.OriginUser) {
		return fmt.Errorf("--origin must be %q or %q, got %q", registry.OriginBuiltin, registry.OriginUser, listOrigin)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	all, err := a.load(cmd.Context())
	if err != nil {
		return err
	}

	if listFailures {
		return printFailures(cmd, a.svc.Registry().Report())
	}

	entries := make([]registry.Entry, 0, len(all))
	for _, e := range all {
		if listOrigin != "" && string(e.Origin) != listOrigin {
			continue
		}
		entries = append(entries, e)
	}
	if err := sortEntries(entries, listSort); err != nil {
		return err
	}

	if listJSON {
		return printJSON(cmd, entries)
	}

	if len(entries) == 0 {
		if listOrigin != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No extensions matching --origin=%s\n", listOrigin)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No extensions registered.")
		}
		return nil
	}
	return printListTable(cmd, entries)
}

// sortEntries orders entries in place. Version order is newest first;
// versions that are not semver sort last by id.
func sortEntries(entries []registry.Entry, by string) error {
	switch by {
	case "", "id":
		sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	case "name":
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
			if a != b {
				return a < b
			}
			return entries[i].ID < entries[j].ID
		})
	case "version":
		sort.SliceStable(entries, func(i, j int) bool {
			vi, erri := entries[i].SemVer()
			vj, errj := entries[j].SemVer()
			switch {
			case erri == nil && errj == nil:
				if c := vi.Compare(vj); c != 0 {
					return c > 0
				}
			case erri == nil:
				return true
			case errj == nil:
				return false
			}
			return entries[i].ID < entries[j].ID
		})
	default:
		return fmt.Errorf("--sort must be id, name or version, got %q", by)
	}
	return nil
}

func printListTable(cmd *cobra.Command, entries []registry.Entry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVERSION\tAUTHOR\tORIGIN")
	for _, e := range entries {
		origin := string(e.Origin)
		if e.Shadows {
			origin += " (shadows builtin)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Version, e.Author, origin)
	}
	return w.Flush()
}

func printFailures(cmd *cobra.Command, report registry.LoadReport) error {
	if listJSON {
		return printJSON(cmd, report)
	}

	out := cmd.OutOrStdout()
	for _, root := range report.MissingRoots {
		fmt.Fprintf(out, "Root not found: %s\n", root)
	}
	for _, root := range report.UnreadableRoots {
		fmt.Fprintf(out, "Root not readable: %s\n", root)
	}
	if len(report.Failures) == 0 {
		fmt.Fprintln(out, "No load failures.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tORIGIN\tREASON\tDETAIL")
	for _, f := range report.Failures {
		detail := "-"
		if f.Err != nil {
			detail = f.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.ID, f.Origin, f.Reason, detail)
	}
	return w.Flush()
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
