package scaffold

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tbrumbaugh5396/python-project-generator/internal/naming"
)

var (
	// ErrInvalidRequest reports missing or malformed input. Generation is
	// never attempted.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrProjectExists is returned when the project directory is not empty
	// and overwriting was not requested.
	ErrProjectExists = errors.New("project directory already exists")

	// ErrTemplateUnavailable means a template's files could not be obtained.
	// Generate recovers from it by falling back to the default template.
	ErrTemplateUnavailable = errors.New("template unavailable")
)

// Metadata defaults.
const (
	DefaultAuthor  = "Your Name"
	DefaultEmail   = "your.email@example.com"
	DefaultVersion = "0.1.0"
	DefaultLicense = "MIT"
)

// Metadata is the descriptive information written into a generated project.
type Metadata struct {
	Author      string
	Email       string
	Description string
	Version     string
	URL         string
	License     string
	Date        string // YYYY-MM-DD
}

// FeatureFlags toggles optional parts of a template by feature tag.
// Tags that are absent keep the template's default.
type FeatureFlags map[string]bool

// Enabled returns the flag for tag, or def when it is unset.
func (f FeatureFlags) Enabled(tag string, def bool) bool {
	if v, ok := f[tag]; ok {
		return v
	}
	return def
}

// Request describes one generation.
type Request struct {
	ProjectName string
	OutputDir   string
	TemplateID  string
	Features    FeatureFlags
	Metadata    Metadata
	// Overwrite allows writing into a non-empty project directory.
	Overwrite bool
}

// Validate checks the fields that do not need the filesystem.
func (r Request) Validate() error {
	name := strings.TrimSpace(r.ProjectName)
	if name == "" {
		return fmt.Errorf("%w: project name is required", ErrInvalidRequest)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: project name %q must not contain path separators", ErrInvalidRequest, name)
	}
	if strings.TrimSpace(r.OutputDir) == "" {
		return fmt.Errorf("%w: output directory is required", ErrInvalidRequest)
	}
	return nil
}

// withDefaults fills empty metadata fields.
func (m Metadata) withDefaults(projectName string, now time.Time) Metadata {
	if m.Author == "" {
		m.Author = DefaultAuthor
	}
	if m.Email == "" {
		m.Email = DefaultEmail
	}
	if m.Description == "" {
		m.Description = fmt.Sprintf("A %s project", projectName)
	}
	if m.Version == "" {
		m.Version = DefaultVersion
	}
	if m.URL == "" {
		m.URL = "https://github.com/yourusername/" + naming.ToDistName(naming.ToPackageName(projectName))
	}
	if m.License == "" {
		m.License = DefaultLicense
	}
	if m.Date == "" {
		m.Date = now.Format("2006-01-02")
	}
	return m
}
