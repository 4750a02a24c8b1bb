package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kiosk-labs/kiosk/internal/registry"
	"github.com/kiosk-labs/kiosk/internal/userdata"
	"github.com/spf13/cobra"
)

var (
	doctorFix           bool
	checkUserdata       bool
	checkExtensions     bool
	checkSetup          bool
	checkManifestTarget string
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Create missing userdata directories and repair permissions")
	doctorCmd.Flags().BoolVar(&checkUserdata, "check-userdata", false, "Verify the userdata directory")
	doctorCmd.Flags().BoolVar(&checkExtensions, "check-extensions", false, "Load both roots and report failures")
	doctorCmd.Flags().BoolVar(&checkSetup, "check-setup", false, "Verify setup questions and saved answers")
	doctorCmd.Flags().StringVar(&checkManifestTarget, "check-manifest", "", "Validate the manifest of a bundle directory or entry file")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the kiosk installation",
	Long: `Run diagnostic checks on the userdata directory, both extension roots
and the setup files. Exits non-zero when a problem remains.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		all := !checkUserdata && !checkExtensions && !checkSetup && checkManifestTarget == ""

		if checkManifestTarget != "" {
			path, err := entryFileFor(checkManifestTarget)
			if err != nil {
				return err
			}
			if err := runManifestCheck(cmd, path); err != nil {
				return err
			}
		}
		if !all && !checkUserdata && !checkExtensions && !checkSetup {
			return nil
		}

		layout, settings, err := resolveLayout()
		if err != nil {
			return err
		}

		problems := 0
		if all || checkUserdata {
			problems += userdata.CheckLayout(out, layout, doctorFix)
		}

		if all || checkExtensions || checkSetup {
			// Without --fix the checks must not write to userdata.
			appLayout := *layout
			if !doctorFix {
				appLayout.LogsDir = ""
				appLayout.Lock = ""
			}
			a, err := newApp(cmd, &appLayout, settings)
			if err != nil {
				return err
			}
			defer a.Close()

			if all || checkExtensions {
				problems += checkRegistry(cmd.Context(), out, a)
			}
			if all || checkSetup {
				problems += checkSetupFiles(out, a)
			}
		}

		if problems > 0 {
			return fmt.Errorf("%d problem(s) found", problems)
		}
		fmt.Fprintln(out, "\nNo problems found.")
		return nil
	},
}

func checkRegistry(ctx context.Context, w io.Writer, a *app) int {
	fmt.Fprintln(w, "Extensions check:")
	all, err := a.svc.Reload(ctx)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] extensions could not be loaded: %v\n", err)
		return 1
	}
	report := a.svc.Registry().Report()

	for _, root := range report.MissingRoots {
		fmt.Fprintf(w, "  [MISS] root %s does not exist\n", root)
	}
	for _, root := range report.UnreadableRoots {
		fmt.Fprintf(w, "  [FAIL] root %s could not be read\n", root)
	}
	for _, id := range a.svc.Registry().IDs() {
		e := all[id]
		status := "[ OK ]"
		if e.Shadows {
			status = "[WARN]"
		}
		fmt.Fprintf(w, "  %s %s: %s v%s (%s)\n", status, id, e.Name, e.Version, originLabel(e))
	}
	for _, f := range report.Failures {
		fmt.Fprintf(w, "  [FAIL] %s (%s): %s\n", f.ID, f.Origin, f.Reason)
		if f.Err != nil {
			fmt.Fprintf(w, "         %v\n", f.Err)
		}
	}
	if len(all) == 0 && len(report.Failures) == 0 {
		fmt.Fprintln(w, "  [INFO] no extensions found")
	}
	return len(report.Failures) + len(report.UnreadableRoots)
}

func originLabel(e registry.Entry) string {
	if e.Shadows {
		return "user, shadows builtin"
	}
	return string(e.Origin)
}

func checkSetupFiles(w io.Writer, a *app) int {
	fmt.Fprintln(w, "Setup check:")
	problems := 0

	if _, err := os.Stat(a.layout.Questions); err != nil {
		fmt.Fprintf(w, "  [INFO] %s not found, using built-in questions\n", a.layout.Questions)
	}
	qs, err := a.setup.Questions()
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		problems++
	} else {
		fmt.Fprintf(w, "  [ OK ] %d setup question(s)\n", len(qs))
	}

	if !a.svc.IsSetupCompleted() {
		fmt.Fprintln(w, "  [INFO] setup not completed")
		return problems
	}
	if _, err := a.setup.Load(); err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		problems++
	} else {
		fmt.Fprintf(w, "  [ OK ] answers saved in %s\n", a.setup.UserConfigPath())
	}
	return problems
}
