package cli

import (
	"fmt"
	"os"

	"github.com/kiosk-labs/kiosk/internal/manifest"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <dir|file>",
	Short: "Validate an extension manifest",
	Long: `Validate an extension entry file against the manifest schema. Given a
directory, the entry file is looked up the same way the loader does
(extension.yaml, extension.yml, extension.json).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := entryFileFor(args[0])
		if err != nil {
			return err
		}
		return runManifestCheck(cmd, path)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func entryFileFor(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}
	entry, ok := manifest.FindEntryFile(path)
	if !ok {
		return "", fmt.Errorf("no entry file in %s (expected one of %v)", path, manifest.EntryFileNames)
	}
	return entry, nil
}

func runManifestCheck(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Manifest validation: %s\n", path)

	result, err := manifest.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	if result.Valid {
		m, err := manifest.Parse(path)
		if err != nil {
			fmt.Fprintln(out, "  [ OK ] Valid manifest")
			return nil
		}
		fmt.Fprintf(out, "  [ OK ] Valid manifest: %s (v%s) by %s\n", m.Name, m.Version, m.Author)
		return nil
	}

	fmt.Fprintf(out, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(out, "    - %s\n", issue)
	}
	return fmt.Errorf("manifest %s has %d validation issue(s)", path, len(result.Issues))
}
