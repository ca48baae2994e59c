package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"go.yaml.in/yaml/v3"

	"github.com/tbrumbaugh5396/python-project-generator/internal/docs"
	"github.com/tbrumbaugh5396/python-project-generator/internal/userdata"
)

//go:embed all:scaffolds
var scaffoldFS embed.FS

const (
	scaffoldRoot = "scaffolds"
	partialsGlob = "scaffolds/_partials/*.tmpl"
	manifestName = "scaffold.yaml"
	filesDir     = "files"
	tmplExt      = ".tmpl"
	keepFile     = ".gitkeep"
)

// setManifest is the scaffold.yaml of a scaffold set.
type setManifest struct {
	Description string    `yaml:"description"`
	Features    []Feature `yaml:"features"`
	// Docs lists docs package types rendered into the project root, each
	// gated by a feature of the same name.
	Docs []string `yaml:"docs"`
	// Dirs are created empty (with a .gitkeep).
	Dirs []string `yaml:"dirs"`
	// Executable paths are written with mode 0755.
	Executable []string `yaml:"executable"`
}

// Builder produces the plan for a builtin template.
type Builder interface {
	Build(d *Data, flags FeatureFlags) (*Plan, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(d *Data, flags FeatureFlags) (*Plan, error)

// Build calls f.
func (f BuilderFunc) Build(d *Data, flags FeatureFlags) (*Plan, error) { return f(d, flags) }

// SetBuilder renders one embedded scaffold set.
type SetBuilder struct {
	Set string
}

// Build renders every file of the set. Files ending in .tmpl go through
// text/template with the sprig function map; other files only get the named
// {{token}} placeholders. Path segments like __package__ are substituted.
func (b SetBuilder) Build(d *Data, flags FeatureFlags) (*Plan, error) {
	m, err := loadManifest(b.Set)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Features: append([]Feature(nil), m.Features...)}
	defaults := make(map[string]bool, len(m.Features))
	for _, f := range m.Features {
		defaults[f.Name] = f.Default
	}

	base, err := template.New(b.Set).
		Funcs(sprig.TxtFuncMap()).
		Funcs(template.FuncMap{
			"feature": func(name string) bool { return flags.Enabled(name, defaults[name]) },
		}).
		Option("missingkey=error").
		ParseFS(scaffoldFS, partialsGlob)
	if err != nil {
		return nil, fmt.Errorf("parsing partials: %w", err)
	}

	paths := d.pathReplacer()
	named := newReplacer(NamedPlaceholders(d))
	executable := make(map[string]bool, len(m.Executable))
	for _, p := range m.Executable {
		executable[paths.Replace(p)] = true
	}

	root := path.Join(scaffoldRoot, b.Set, filesDir)
	err = fs.WalkDir(scaffoldFS, root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		raw, err := scaffoldFS.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}

		rel := strings.TrimPrefix(p, root+"/")
		var content []byte
		if strings.HasSuffix(rel, tmplExt) {
			rel = strings.TrimSuffix(rel, tmplExt)
			content, err = execute(base, rel, raw, d)
			if err != nil {
				return err
			}
		} else {
			content = []byte(named.Replace(string(raw)))
		}

		out := paths.Replace(rel)
		mode := userdata.FilePermNormal
		if executable[out] {
			mode = userdata.FilePermExec
		}
		plan.Add(out, content, mode)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rendering scaffold %s: %w", b.Set, err)
	}

	for _, dir := range m.Dirs {
		plan.Add(path.Join(paths.Replace(dir), keepFile), nil, userdata.FilePermNormal)
	}

	if err := addDocs(plan, m.Docs, d); err != nil {
		return nil, err
	}
	return plan, nil
}

func execute(base *template.Template, name string, raw []byte, d *Data) ([]byte, error) {
	t, err := base.Clone()
	if err != nil {
		return nil, fmt.Errorf("cloning templates: %w", err)
	}
	t, err = t.New(name).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("executing %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Features returns the set's feature toggles, including one per document
// type it renders.
func (b SetBuilder) Features() ([]Feature, error) {
	m, err := loadManifest(b.Set)
	if err != nil {
		return nil, err
	}
	plan := &Plan{Features: append([]Feature(nil), m.Features...)}
	for _, t := range m.Docs {
		doc, err := docs.Lookup(t)
		if err != nil {
			return nil, err
		}
		plan.addDocFeature(doc)
	}
	return plan.Features, nil
}

// addDocs renders the requested documentation files and gates each one with
// a feature named after its type, defaulting to whether it is recommended.
func addDocs(plan *Plan, types []string, d *Data) error {
	for _, t := range types {
		doc, err := docs.Lookup(t)
		if err != nil {
			return err
		}
		content, err := docs.Render(t, DocData(d))
		if err != nil {
			return err
		}
		plan.Add(doc.File, content, userdata.FilePermNormal)
		plan.addDocFeature(doc)
	}
	return nil
}

func (p *Plan) addDocFeature(doc docs.Doc) {
	if !p.hasFeature(doc.Type) {
		p.Features = append(p.Features, Feature{Name: doc.Type, Default: doc.Recommended, Paths: []string{"/" + doc.File}})
	}
}

func (p *Plan) hasFeature(name string) bool {
	for _, f := range p.Features {
		if f.Name == name {
			return true
		}
	}
	return false
}

// DocData converts template data for the docs package.
func DocData(d *Data) docs.Data {
	return docs.Data{
		ProjectName: d.ProjectName,
		PackageName: d.PackageName,
		Description: d.Description,
		Author:      d.Author,
		Email:       d.Email,
		Version:     d.Version,
		Date:        d.Date,
		URL:         d.URL,
	}
}

func loadManifest(set string) (*setManifest, error) {
	raw, err := scaffoldFS.ReadFile(path.Join(scaffoldRoot, set, manifestName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("scaffold set %q not found", set)
		}
		return nil, fmt.Errorf("reading scaffold set %q: %w", set, err)
	}
	var m setManifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parsing %s manifest: %w", set, err)
	}
	return &m, nil
}

// Sets returns the names of the embedded scaffold sets.
func Sets() []string {
	entries, err := scaffoldFS.ReadDir(scaffoldRoot)
	if err != nil {
		return nil
	}
	var sets []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), "_") {
			sets = append(sets, e.Name())
		}
	}
	return sets
}
