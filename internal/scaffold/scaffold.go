package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/kiosk-labs/kiosk/internal/branding"
	"github.com/kiosk-labs/kiosk/internal/manifest"
)

//go:embed scaffolds
var scaffoldFS embed.FS

const (
	KindPanel = "panel"
	KindGPIO  = "gpio"

	DefaultVersion = "0.1.0"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Data holds all template variables available to scaffold templates.
type Data struct {
	ID          string // directory name, e.g. "cabin-lights"
	Kind        string // template set: panel or gpio
	Name        string // display name, e.g. "Cabin Lights"
	Description string
	Version     string
	Author      string
	Component   string // derived: CabinLightsPanel
	CLIName     string
	Year        int
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

// NewData returns Data for a new extension with derived fields populated.
// Empty name, author or version fall back to defaults derived from id.
func NewData(id, kind, name, author, version string) (*Data, error) {
	if !idPattern.MatchString(id) {
		return nil, fmt.Errorf("invalid id %q: must match pattern [a-z0-9][a-z0-9-]*", id)
	}
	if kind == "" {
		kind = KindPanel
	}
	if version == "" {
		version = DefaultVersion
	}
	if _, err := semver.StrictNewVersion(version); err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", version, err)
	}
	if name == "" {
		name = titleFromID(id)
	}
	if author == "" {
		author = "Unknown"
	}

	suffix := "Panel"
	if kind == KindGPIO {
		suffix = "Control"
	}

	return &Data{
		ID:          id,
		Kind:        kind,
		Name:        name,
		Description: fmt.Sprintf("%s extension for the kiosk control panel", name),
		Version:     version,
		Author:      author,
		Component:   componentFromID(id) + suffix,
		CLIName:     branding.CLIName(),
		Year:        time.Now().Year(),
	}, nil
}

// Kinds returns the available template sets.
func Kinds() []string {
	entries, err := fs.ReadDir(scaffoldFS, "scaffolds")
	if err != nil {
		return nil
	}
	var kinds []string
	for _, e := range entries {
		if e.IsDir() {
			kinds = append(kinds, e.Name())
		}
	}
	sort.Strings(kinds)
	return kinds
}

func titleFromID(id string) string {
	parts := strings.Split(id, "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

func componentFromID(id string) string {
	return strings.ReplaceAll(titleFromID(id), " ", "")
}

// yamlQuote renders s as a double-quoted scalar so values like "1.0" stay
// strings.
func yamlQuote(s string) string {
	return strconv.Quote(s)
}

// Generate writes the template set for data.Kind into outputDir.
func Generate(data *Data, outputDir string) (*Result, error) {
	templatesDir := path.Join("scaffolds", data.Kind)

	// Verify template set exists in embedded FS.
	if _, err := fs.ReadDir(scaffoldFS, templatesDir); err != nil {
		return nil, fmt.Errorf("template set %q not found: %w", data.Kind, err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	// Check for existing files to prevent accidental overwrites.
	existingEntries, err := os.ReadDir(outputDir)
	if err == nil && len(existingEntries) > 0 {
		return nil, fmt.Errorf("output directory %s is not empty; remove existing files first", outputDir)
	}

	result := &Result{OutputDir: outputDir}
	funcs := template.FuncMap{"yamlQuote": yamlQuote}

	err = fs.WalkDir(scaffoldFS, templatesDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel := strings.TrimPrefix(p, templatesDir+"/")
		if d.IsDir() {
			if p == templatesDir {
				return nil
			}
			return os.MkdirAll(filepath.Join(outputDir, filepath.FromSlash(rel)), 0755)
		}

		content, err := fs.ReadFile(scaffoldFS, p)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", p, err)
		}

		outName := strings.TrimSuffix(rel, ".tmpl")
		outPath := filepath.Join(outputDir, filepath.FromSlash(outName))

		// Assets without the .tmpl suffix are copied verbatim.
		if outName != rel {
			tmpl, err := template.New(d.Name()).Funcs(funcs).Parse(string(content))
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", d.Name(), err)
			}
			var buf bytes.Buffer
			if err := tmpl.Execute(&buf, data); err != nil {
				return fmt.Errorf("executing template %s: %w", d.Name(), err)
			}
			content = buf.Bytes()
		}

		if err := os.WriteFile(outPath, content, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		result.Files = append(result.Files, outName)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(result.Files)

	// Validate the generated manifest against JSON Schema.
	manifestFile := filepath.Join(outputDir, manifest.EntryYAML)
	valResult, valErr := manifest.ValidateFile(manifestFile)
	if valErr != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not validate manifest: %v", valErr))
	} else if !valResult.Valid {
		for _, issue := range valResult.Issues {
			result.Warnings = append(result.Warnings, issue.String())
		}
	}

	return result, nil
}
