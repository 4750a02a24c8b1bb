package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/kiosk-labs/kiosk/internal/setup"
	"github.com/spf13/cobra"
)

var setupQuestionsJSON bool

func init() {
	setupQuestionsCmd.Flags().BoolVar(&setupQuestionsJSON, "json", false, "Output in JSON format")
	setupCmd.AddCommand(setupQuestionsCmd)
	setupCmd.AddCommand(setupStatusCmd)
	setupCmd.AddCommand(setupShowCmd)
	setupCmd.AddCommand(setupAnswerCmd)
	setupCmd.AddCommand(setupResetCmd)
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Manage first-run setup answers",
	Long: `Inspect the first-run setup questions and record the answers used by
extensions. Setup counts as completed once answers have been saved.`,
}

var setupQuestionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the setup questions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		qs := a.svc.GetSetupQuestions()
		if setupQuestionsJSON {
			return printJSON(cmd, qs)
		}
		if len(qs) == 0 {
			return a.failed("no setup questions available")
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tREQUIRED\tLABEL\tCONSTRAINTS")
		for _, q := range qs {
			required := "no"
			if q.Required {
				required = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", q.ID, q.Type, required, q.Label, constraints(q))
		}
		return w.Flush()
	},
}

func constraints(q setup.Question) string {
	var parts []string
	if q.Min != nil {
		parts = append(parts, fmt.Sprintf("min %g", *q.Min))
	}
	if q.Max != nil {
		parts = append(parts, fmt.Sprintf("max %g", *q.Max))
	}
	if len(q.Options) > 0 {
		values := make([]string, 0, len(q.Options))
		for _, o := range q.Options {
			values = append(values, o.Value)
		}
		parts = append(parts, "one of "+strings.Join(values, "|"))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

var setupStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether setup has been completed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.svc.IsSetupCompleted() {
			fmt.Fprintf(cmd.OutOrStdout(), "Setup completed (%s)\n", a.setup.UserConfigPath())
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Setup not completed. Run '%s setup answer <id>=<value>...'\n", rootCmd.Name())
		}
		return nil
	},
}

var setupShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved answers as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		cfg := a.svc.GetUserConfig()
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No answers saved.")
			return nil
		}
		return printJSON(cmd, cfg)
	},
}

var setupAnswerCmd = &cobra.Command{
	Use:   "answer <id>=<value>...",
	Short: "Save setup answers",
	Long: `Merge the given answers into the saved ones, validate the result against
the setup questions and save it. Nothing is written if any answer is
invalid or a required question is still unanswered.

Example:
  kiosk setup answer vehicle_name="Blue Bird" vehicle_type=van screen_brightness=80`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSetupAnswer,
}

func runSetupAnswer(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	qs := a.svc.GetSetupQuestions()
	if len(qs) == 0 {
		return a.failed("no setup questions available")
	}
	byID := make(map[string]setup.Question, len(qs))
	for _, q := range qs {
		byID[q.ID] = q
	}

	cfg := setup.UserConfig{}
	maps.Copy(cfg, a.svc.GetUserConfig())

	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid answer %q: expected <id>=<value>", arg)
		}
		q, known := byID[key]
		if !known {
			return fmt.Errorf("unknown question %q (known: %s)", key, strings.Join(slices.Sorted(maps.Keys(byID)), ", "))
		}
		v, err := setup.ParseAnswer(q, raw)
		if err != nil {
			return err
		}
		cfg[key] = v
	}

	if err := setup.ValidateAnswers(qs, cfg); err != nil {
		return fmt.Errorf("answers not saved:\n%w", err)
	}
	if !a.svc.SaveUserConfig(cfg) {
		return a.failed("saving answers failed")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d answer(s) to %s\n", len(cfg), a.setup.UserConfigPath())
	return nil
}

var setupResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved answers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.svc.IsSetupCompleted() {
			fmt.Fprintln(cmd.OutOrStdout(), "No answers to reset.")
			return nil
		}
		if !a.svc.ResetSetup() {
			return a.failed("deleting %s failed", a.setup.UserConfigPath())
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Setup answers deleted.")
		return nil
	},
}
