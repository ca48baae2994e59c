package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"
)

//go:embed templates.yaml
var builtinCatalog []byte

// DefaultID is the template used when none is requested or a template
// cannot be produced.
const DefaultID = "minimal-python"

// ErrNotFound is returned by Lookup for an unknown template id.
var ErrNotFound = errors.New("template not found")

type document struct {
	Templates []*Descriptor `yaml:"templates"`
}

// Catalog is an ordered set of descriptors keyed by id.
// A Catalog is safe for concurrent reads once loaded.
type Catalog struct {
	order []string
	byID  map[string]*Descriptor

	// Warnings collects problems with user catalog files that were skipped.
	Warnings []string
}

// New returns a catalog holding descs in the given order.
func New(descs ...*Descriptor) *Catalog {
	c := &Catalog{byID: make(map[string]*Descriptor, len(descs))}
	for _, d := range descs {
		c.put(d)
	}
	return c
}

// put inserts d, replacing an existing entry in place.
func (c *Catalog) put(d *Descriptor) {
	d.normalize()
	if _, exists := c.byID[d.ID]; !exists {
		c.order = append(c.order, d.ID)
	}
	c.byID[d.ID] = d
}

// LoadBuiltin returns the catalog embedded in the binary.
func LoadBuiltin() (*Catalog, error) {
	descs, err := parse(builtinCatalog, OriginBuiltin)
	if err != nil {
		return nil, fmt.Errorf("builtin catalog: %w", err)
	}
	return New(descs...), nil
}

// Load returns the builtin catalog overlaid with every *.yaml / *.yml file in
// userDir, read in lexical order. A user entry whose id already exists
// replaces it in place; new ids are appended. Files that fail to parse or
// validate are skipped and recorded in Warnings. A missing userDir is not an
// error.
func Load(fsys afero.Fs, userDir string) (*Catalog, error) {
	c, err := LoadBuiltin()
	if err != nil {
		return nil, err
	}
	if userDir == "" {
		return c, nil
	}

	entries, err := afero.ReadDir(fsys, userDir)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("reading user catalog dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(userDir, entry.Name())
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			c.Warnings = append(c.Warnings, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		descs, err := parse(data, path)
		if err != nil {
			c.Warnings = append(c.Warnings, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		for _, d := range descs {
			c.put(d)
		}
	}
	return c, nil
}

// parse validates and decodes one catalog document.
func parse(data []byte, origin string) ([]*Descriptor, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		msgs := make([]string, 0, len(result.Issues))
		for _, issue := range result.Issues {
			msgs = append(msgs, issue.String())
		}
		return nil, fmt.Errorf("invalid catalog: %s", strings.Join(msgs, "; "))
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	seen := make(map[string]bool, len(doc.Templates))
	for _, d := range doc.Templates {
		if seen[d.ID] {
			return nil, fmt.Errorf("duplicate template id %q", d.ID)
		}
		seen[d.ID] = true
		d.Origin = origin
	}
	return doc.Templates, nil
}

// Get returns the descriptor for id.
func (c *Catalog) Get(id string) (*Descriptor, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// Lookup is Get with an error wrapping ErrNotFound.
func (c *Catalog) Lookup(id string) (*Descriptor, error) {
	if d, ok := c.byID[id]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// List returns all descriptors in insertion order.
func (c *Catalog) List() []*Descriptor {
	out := make([]*Descriptor, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// WithFeatures returns the descriptors that carry every tag, in insertion
// order. No tags selects everything.
func (c *Catalog) WithFeatures(tags ...string) []*Descriptor {
	var out []*Descriptor
next:
	for _, id := range c.order {
		d := c.byID[id]
		for _, tag := range tags {
			if !d.HasFeature(tag) {
				continue next
			}
		}
		out = append(out, d)
	}
	return out
}

// IDs returns the template ids in insertion order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// Default returns the minimal-python descriptor.
func (c *Catalog) Default() *Descriptor {
	return c.byID[DefaultID]
}

// Len returns the number of descriptors.
func (c *Catalog) Len() int { return len(c.order) }
