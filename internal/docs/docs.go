// Package docs renders the optional Markdown documents a project can carry
// (CHANGELOG.md, SECURITY.md and friends) and adds or removes them in an
// existing project.
package docs

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/adrg/frontmatter"
	"github.com/spf13/afero"

	"github.com/tbrumbaugh5396/python-project-generator/internal/platform"
	"github.com/tbrumbaugh5396/python-project-generator/internal/userdata"
)

//go:embed templates/*.md
var templateFS embed.FS

var (
	// ErrUnknownType is returned for a document type that does not exist.
	ErrUnknownType = errors.New("unknown document type")
	// ErrExists is returned by Add when the file is present and overwrite is false.
	ErrExists = errors.New("document already exists")
	// ErrNotPresent is returned by Remove when the file is absent.
	ErrNotPresent = errors.New("document not present")
)

// Doc describes one document type.
type Doc struct {
	Type        string `yaml:"-"`
	File        string `yaml:"file"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Recommended bool   `yaml:"recommended"`
	Order       int    `yaml:"order"`

	body *template.Template
}

// Data is the input to a document template.
type Data struct {
	ProjectName string
	PackageName string
	Description string
	Author      string
	Email       string
	Version     string
	Date        string
	URL         string
}

var (
	loadOnce sync.Once
	loadErr  error
	byType   map[string]*Doc
	ordered  []*Doc
)

func load() error {
	loadOnce.Do(func() {
		entries, err := templateFS.ReadDir("templates")
		if err != nil {
			loadErr = fmt.Errorf("reading document templates: %w", err)
			return
		}
		byType = make(map[string]*Doc, len(entries))
		for _, entry := range entries {
			raw, err := templateFS.ReadFile(path.Join("templates", entry.Name()))
			if err != nil {
				loadErr = fmt.Errorf("reading %s: %w", entry.Name(), err)
				return
			}
			doc := &Doc{Type: strings.TrimSuffix(entry.Name(), ".md")}
			body, err := frontmatter.Parse(bytes.NewReader(raw), doc)
			if err != nil {
				loadErr = fmt.Errorf("parsing front matter of %s: %w", entry.Name(), err)
				return
			}
			doc.body, err = template.New(doc.Type).Funcs(sprig.TxtFuncMap()).Parse(string(body))
			if err != nil {
				loadErr = fmt.Errorf("parsing %s: %w", entry.Name(), err)
				return
			}
			byType[doc.Type] = doc
			ordered = append(ordered, doc)
		}
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })
	})
	return loadErr
}

// Available returns every document type in display order.
func Available() ([]Doc, error) {
	if err := load(); err != nil {
		return nil, err
	}
	out := make([]Doc, 0, len(ordered))
	for _, d := range ordered {
		out = append(out, *d)
	}
	return out, nil
}

// Types returns the document type names in display order.
func Types() []string {
	docs, err := Available()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.Type)
	}
	return names
}

// Lookup returns the document type docType.
func Lookup(docType string) (Doc, error) {
	if err := load(); err != nil {
		return Doc{}, err
	}
	d, ok := byType[docType]
	if !ok {
		return Doc{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownType, docType, strings.Join(Types(), ", "))
	}
	return *d, nil
}

// Render executes the template for docType.
func Render(docType string, data Data) ([]byte, error) {
	d, err := Lookup(docType)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := d.body.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", d.File, err)
	}
	return buf.Bytes(), nil
}

// Add renders docType into dir and returns the written path. An existing
// file is only replaced when overwrite is set.
func Add(fsys afero.Fs, dir, docType string, data Data, overwrite bool) (string, error) {
	d, err := Lookup(docType)
	if err != nil {
		return "", err
	}
	target := filepath.Join(dir, d.File)
	exists, err := afero.Exists(fsys, target)
	if err != nil {
		return "", fmt.Errorf("checking %s: %w", target, err)
	}
	if exists && !overwrite {
		return target, fmt.Errorf("%w: %s", ErrExists, target)
	}

	content, err := Render(docType, data)
	if err != nil {
		return "", err
	}
	if err := afero.WriteFile(fsys, target, content, userdata.FilePermNormal); err != nil {
		return "", fmt.Errorf("writing %s: %w", target, err)
	}
	// An overwritten file keeps its old mode otherwise.
	if err := platform.Chmod(fsys, target, userdata.FilePermNormal); err != nil {
		return "", fmt.Errorf("setting mode on %s: %w", target, err)
	}
	return target, nil
}

// Remove deletes the docType file from dir and returns its path.
func Remove(fsys afero.Fs, dir, docType string) (string, error) {
	d, err := Lookup(docType)
	if err != nil {
		return "", err
	}
	target := filepath.Join(dir, d.File)
	exists, err := afero.Exists(fsys, target)
	if err != nil {
		return "", fmt.Errorf("checking %s: %w", target, err)
	}
	if !exists {
		return target, fmt.Errorf("%w: %s", ErrNotPresent, target)
	}
	if err := fsys.Remove(target); err != nil {
		return "", fmt.Errorf("removing %s: %w", target, err)
	}
	return target, nil
}

// Present reports whether the docType file exists in dir.
func Present(fsys afero.Fs, dir, docType string) bool {
	d, err := Lookup(docType)
	if err != nil {
		return false
	}
	ok, _ := afero.Exists(fsys, filepath.Join(dir, d.File))
	return ok
}
