package scaffold

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/singleflight"

	"github.com/tbrumbaugh5396/python-project-generator/internal/catalog"
	"github.com/tbrumbaugh5396/python-project-generator/internal/platform"
	"github.com/tbrumbaugh5396/python-project-generator/internal/userdata"
)

// Result holds the outcome of a generation.
type Result struct {
	ProjectDir string
	// TemplateID is the template that was actually produced.
	TemplateID string
	// Layout is the scaffold set rendered for builtin templates.
	Layout string
	// Fallback is set when the requested template could not be produced and
	// the default template was generated instead.
	Fallback bool
	Files    []string
	Skipped  []string
	Warnings []string
}

// Generator produces projects from catalog templates.
type Generator struct {
	catalog  *catalog.Catalog
	source   TemplateSource
	fs       afero.Fs
	logger   zerolog.Logger
	registry *Registry
	now      func() time.Time
	flight   singleflight.Group
	// dirLocks holds one *sync.Mutex per project directory.
	dirLocks sync.Map
}

// Option configures a Generator.
type Option func(*Generator)

// WithRegistry replaces the builtin builder registry.
func WithRegistry(r *Registry) Option { return func(g *Generator) { g.registry = r } }

// WithClock overrides time.Now for dates written into projects.
func WithClock(now func() time.Time) Option { return func(g *Generator) { g.now = now } }

// New returns a Generator. source may be nil, in which case git templates
// always fall back to the default template.
func New(cat *catalog.Catalog, source TemplateSource, fs afero.Fs, logger zerolog.Logger, opts ...Option) *Generator {
	g := &Generator{
		catalog:  cat,
		source:   source,
		fs:       fs,
		logger:   logger,
		registry: DefaultRegistry(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate writes the project described by req into
// <req.OutputDir>/<req.ProjectName>. Identical concurrent requests share a
// single generation. Different requests for the same project directory run
// one after another, so the later one sees the earlier one's files.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ok, err := afero.DirExists(g.fs, req.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("checking output directory: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: output directory %s does not exist", ErrInvalidRequest, req.OutputDir)
	}

	dir := projectPath(req)
	v, err, shared := g.flight.Do(requestKey(dir, req), func() (any, error) {
		mu := g.lockFor(dir)
		mu.Lock()
		defer mu.Unlock()
		return g.generate(ctx, req)
	})
	if shared {
		g.logger.Debug().Str("project", dir).Msg("joined in-flight generation")
	}
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

// projectPath is the cleaned directory a request writes to.
func projectPath(req Request) string {
	return filepath.Clean(filepath.Join(req.OutputDir, strings.TrimSpace(req.ProjectName)))
}

// requestKey identifies a request by everything that affects its output.
func requestKey(dir string, req Request) string {
	tags := make([]string, 0, len(req.Features))
	for tag, on := range req.Features {
		tags = append(tags, fmt.Sprintf("%s=%t", tag, on))
	}
	sort.Strings(tags)
	m := req.Metadata
	return strings.Join([]string{
		dir,
		req.TemplateID,
		strings.Join(tags, ","),
		m.Author, m.Email, m.Description, m.Version, m.URL, m.License, m.Date,
		fmt.Sprint(req.Overwrite),
	}, "\x00")
}

func (g *Generator) lockFor(dir string) *sync.Mutex {
	mu, _ := g.dirLocks.LoadOrStore(dir, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (g *Generator) generate(ctx context.Context, req Request) (*Result, error) {
	d := NewData(req.ProjectName, req.Metadata, g.now())
	projectDir := filepath.Join(req.OutputDir, d.ProjectName)
	log := g.logger.With().Str("project", d.ProjectName).Logger()

	result := &Result{ProjectDir: projectDir}
	if _, err := semver.NewVersion(d.Version); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("version %q is not a semantic version", d.Version))
	}

	desc, fallback := g.resolve(req.TemplateID, log)
	result.Fallback = fallback

	plan, layout, err := g.plan(ctx, desc, d, req.Features, log)
	if errors.Is(err, ErrTemplateUnavailable) {
		log.Warn().Err(err).Msg("template unavailable, using default template")
		result.Fallback = true
		desc = g.catalog.Default()
		plan, layout, err = g.plan(ctx, desc, d, req.Features, log)
	}
	if err != nil {
		return nil, err
	}
	result.TemplateID = desc.ID
	result.Layout = layout

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, skipped := plan.Filter(req.Features)
	if err := g.prepareDir(projectDir, req.Overwrite); err != nil {
		return nil, err
	}
	for _, f := range files {
		if err := g.write(projectDir, f); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, f.Path)
	}
	result.Skipped = skipped

	log.Info().
		Str("template", result.TemplateID).
		Int("files", len(result.Files)).
		Int("skipped", len(result.Skipped)).
		Str("dir", projectDir).
		Msg("project generated")
	return result, nil
}

// resolve maps a requested id to a descriptor. An empty id selects the
// default template; an unknown id falls back to it.
func (g *Generator) resolve(id string, log zerolog.Logger) (*catalog.Descriptor, bool) {
	if id == "" {
		return g.catalog.Default(), false
	}
	desc, ok := g.catalog.Get(id)
	if !ok {
		log.Warn().Str("template", id).Msg("unknown template, using default template")
		return g.catalog.Default(), true
	}
	return desc, false
}

func (g *Generator) plan(ctx context.Context, desc *catalog.Descriptor, d *Data, flags FeatureFlags, log zerolog.Logger) (*Plan, string, error) {
	if desc == nil {
		return nil, "", fmt.Errorf("%w: default template missing from catalog", ErrTemplateUnavailable)
	}
	if desc.IsGit() {
		plan, err := g.gitPlan(ctx, desc, d)
		return plan, "", err
	}

	reg, ok := g.registry.Lookup(desc.ID)
	if !ok {
		if desc.ID == catalog.DefaultID {
			return nil, "", fmt.Errorf("no builder registered for %s", desc.ID)
		}
		return nil, "", fmt.Errorf("%w: %s has no builtin layout", ErrTemplateUnavailable, desc.ID)
	}
	if reg.Layout != desc.ID {
		log.Info().Str("template", desc.ID).Str("layout", reg.Layout).Msg("template uses another layout")
	}
	plan, err := reg.Builder.Build(d, flags)
	if err != nil {
		return nil, "", fmt.Errorf("building %s: %w", desc.ID, err)
	}
	return plan, reg.Layout, nil
}

// Features returns the toggles template id understands, with their
// defaults. Builtin templates report their scaffold set's features; git
// templates share GitFeatures.
func (g *Generator) Features(id string) ([]Feature, error) {
	desc, err := g.catalog.Lookup(id)
	if err != nil {
		return nil, err
	}
	if desc.IsGit() {
		return append([]Feature(nil), GitFeatures...), nil
	}
	reg, ok := g.registry.Lookup(desc.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no builtin layout", ErrTemplateUnavailable, desc.ID)
	}
	if lister, ok := reg.Builder.(interface{ Features() ([]Feature, error) }); ok {
		return lister.Features()
	}
	return nil, nil
}

// prepareDir creates the project directory, refusing a non-empty one
// unless overwrite is set.
func (g *Generator) prepareDir(dir string, overwrite bool) error {
	exists, err := afero.Exists(g.fs, dir)
	if err != nil {
		return fmt.Errorf("checking project directory: %w", err)
	}
	if exists {
		isDir, err := afero.IsDir(g.fs, dir)
		if err != nil {
			return fmt.Errorf("checking project directory: %w", err)
		}
		if !isDir {
			return fmt.Errorf("%w: %s is a file", ErrProjectExists, dir)
		}
		empty, err := afero.IsEmpty(g.fs, dir)
		if err != nil {
			return fmt.Errorf("checking project directory: %w", err)
		}
		if !empty && !overwrite {
			return fmt.Errorf("%w: %s is not empty", ErrProjectExists, dir)
		}
	}
	if err := g.fs.MkdirAll(dir, userdata.DirPermNormal); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}
	return nil
}

func (g *Generator) write(projectDir string, f File) error {
	target := filepath.Join(projectDir, filepath.FromSlash(f.Path))
	if err := g.fs.MkdirAll(filepath.Dir(target), userdata.DirPermNormal); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Path, err)
	}
	mode := f.Mode
	if mode == 0 {
		mode = userdata.FilePermNormal
	}
	if err := afero.WriteFile(g.fs, target, f.Content, mode); err != nil {
		return fmt.Errorf("writing %s: %w", f.Path, err)
	}
	// WriteFile keeps the mode of a file it overwrites.
	if err := platform.Chmod(g.fs, target, mode); err != nil {
		return fmt.Errorf("setting mode on %s: %w", f.Path, err)
	}
	return nil
}
