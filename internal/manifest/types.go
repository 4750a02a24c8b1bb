package manifest

// Entry file names, in lookup order.
const (
	EntryYAML = "extension.yaml"
	EntryYML  = "extension.yml"
	EntryJSON = "extension.json"
)

// EntryFileNames lists the recognized entry files in the order they are tried.
var EntryFileNames = []string{EntryYAML, EntryYML, EntryJSON}

// RequiredFields lists the manifest fields every extension must declare.
var RequiredFields = []string{"name", "description", "version", "author", "component"}

// Manifest is the declarative description of an extension.
type Manifest struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Version     string   `yaml:"version" json:"version"`
	Author      string   `yaml:"author" json:"author"`
	Component   string   `yaml:"component" json:"component"`
	Icon        string   `yaml:"icon,omitempty" json:"icon,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Validated is a manifest that passed schema validation. It can only be
// obtained from Check.
type Validated struct {
	m Manifest
}

// Manifest returns a copy of the validated manifest.
func (v *Validated) Manifest() Manifest {
	m := v.m
	if v.m.Tags != nil {
		m.Tags = append([]string(nil), v.m.Tags...)
	}
	return m
}
