package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kiosk-labs/kiosk/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	createOutputDir string
	createKind      string
	createName      string
	createAuthor    string
	createVersion   string
)

func init() {
	createCmd.Flags().StringVar(&createOutputDir, "output-dir", "", "Output directory (default: ./<id>)")
	createCmd.Flags().StringVar(&createKind, "kind", scaffold.KindPanel, "Template set: "+strings.Join(scaffold.Kinds(), ", "))
	createCmd.Flags().StringVar(&createName, "name", "", "Display name (default: derived from id)")
	createCmd.Flags().StringVar(&createAuthor, "author", "", "Author")
	createCmd.Flags().StringVar(&createVersion, "version", scaffold.DefaultVersion, "Initial semantic version")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create <id>",
	Short: "Scaffold a new extension bundle",
	Long: `Create a new extension bundle from built-in templates. The generated
manifest is validated before the command returns.

Examples:
  kiosk create cabin-lights --author "Lighting Co"
  kiosk create relay-board --kind gpio --version 0.2.0`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		data, err := scaffold.NewData(id, createKind, createName, createAuthor, createVersion)
		if err != nil {
			return err
		}

		result, err := scaffold.Generate(data, resolveOutputDir(id))
		if err != nil {
			return err
		}

		printResult(cmd, result)
		fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
		fmt.Fprintf(cmd.OutOrStdout(), "  1. Edit index.jsx to implement %s\n", data.Component)
		fmt.Fprintf(cmd.OutOrStdout(), "  2. Run '%s validate %s'\n", rootCmd.Name(), result.OutputDir)
		fmt.Fprintf(cmd.OutOrStdout(), "  3. Run '%s install %s'\n", rootCmd.Name(), result.OutputDir)
		return nil
	},
}

func resolveOutputDir(id string) string {
	if createOutputDir != "" {
		return createOutputDir
	}
	return filepath.Join(".", id)
}

func printResult(cmd *cobra.Command, result *scaffold.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created extension at %s/\n", result.OutputDir)
	for _, f := range result.Files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(out, "\nWarnings:")
		for _, w := range result.Warnings {
			fmt.Fprintf(out, "  - %s\n", w)
		}
	}
}
