package registry

import (
	"time"

	"github.com/Masterminds/semver/v3"
)

// Origin identifies which root an entry was loaded from.
type Origin string

const (
	OriginBuiltin Origin = "builtin"
	OriginUser    Origin = "user"
)

// Roots are the two scanned locations. Builtin is never written to.
type Roots struct {
	Builtin string
	User    string
}

// Entry is a registered extension: its manifest plus where it came from.
// Entries are values and never change once committed.
type Entry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	Author      string   `json:"author"`
	Component   string   `json:"component"`
	Icon        string   `json:"icon,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Path        string   `json:"path"`
	EntryFile   string   `json:"entryFile"`
	Origin      Origin   `json:"origin"`
	Shadows     bool     `json:"shadows,omitempty"` // user entry hiding a built-in with the same id
}

// SemVer parses the entry version. Versions are not required to be semver.
func (e Entry) SemVer() (*semver.Version, error) {
	return semver.NewVersion(e.Version)
}

func (e Entry) clone() Entry {
	if e.Tags != nil {
		e.Tags = append([]string(nil), e.Tags...)
	}
	return e
}

// Failure records one candidate that could not be registered.
type Failure struct {
	ID     string `json:"id"`
	Origin Origin `json:"origin"`
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// LoadReport summarizes the most recent LoadAll.
type LoadReport struct {
	StartedAt       time.Time `json:"startedAt"`
	Loaded          int       `json:"loaded"`
	Shadowed        []string  `json:"shadowed,omitempty"`
	MissingRoots    []string  `json:"missingRoots,omitempty"`
	UnreadableRoots []string  `json:"unreadableRoots,omitempty"`
	Failures        []Failure `json:"failures,omitempty"`
}

func (r LoadReport) clone() LoadReport {
	r.Shadowed = append([]string(nil), r.Shadowed...)
	r.MissingRoots = append([]string(nil), r.MissingRoots...)
	r.UnreadableRoots = append([]string(nil), r.UnreadableRoots...)
	r.Failures = append([]Failure(nil), r.Failures...)
	return r
}
