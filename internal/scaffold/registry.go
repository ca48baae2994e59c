package scaffold

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tbrumbaugh5396/python-project-generator/internal/catalog"
)

// Registration binds a template id to the builder that produces it.
type Registration struct {
	Builder Builder
	// Layout names the scaffold set actually rendered. It differs from the
	// template id for templates that reuse another layout.
	Layout string
}

// Registry maps builtin template ids to builders.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Registration)}
}

// Register binds id to b. layout is reported in Result.Layout.
func (r *Registry) Register(id, layout string, b Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = Registration{Builder: b, Layout: layout}
}

// Lookup returns the registration for id.
func (r *Registry) Lookup(id string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.entries[id]
	return reg, ok
}

// IDs returns the registered ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Check reports builtin templates in cat that have no registration and
// registrations whose layout is not an embedded scaffold set.
func (r *Registry) Check(cat *catalog.Catalog) []string {
	var problems []string
	for _, d := range cat.List() {
		if d.IsGit() {
			continue
		}
		if _, ok := r.Lookup(d.ID); !ok {
			problems = append(problems, fmt.Sprintf("%s: no builtin layout registered, generation falls back to %s", d.ID, catalog.DefaultID))
		}
	}

	embedded := make(map[string]bool)
	for _, set := range Sets() {
		embedded[set] = true
	}
	for _, id := range r.IDs() {
		reg, _ := r.Lookup(id)
		if !embedded[reg.Layout] {
			problems = append(problems, fmt.Sprintf("%s: scaffold set %q is not embedded", id, reg.Layout))
		}
	}
	return problems
}

// bespokeSets are the templates with their own scaffold set.
var bespokeSets = []string{
	catalog.DefaultID,
	"flask-web-app",
	"fastapi-web-api",
	"data-science-project",
	"cli-tool",
	"binary-extension",
	"namespace-package",
	"plugin-framework",
}

// minimalLayoutIDs are catalog templates without a layout of their own.
// They render the minimal-python set.
var minimalLayoutIDs = []string{
	"django-web-app",
	"machine-learning-project",
	"python-library",
	"game-development",
	"desktop-gui-app",
	"microservice",
	"api-client-library",
	"automation-scripts",
	"jupyter-research",
}

// DefaultRegistry returns a registry covering every builtin catalog template.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, id := range bespokeSets {
		r.Register(id, id, SetBuilder{Set: id})
	}
	minimal := SetBuilder{Set: catalog.DefaultID}
	for _, id := range minimalLayoutIDs {
		r.Register(id, catalog.DefaultID, minimal)
	}
	return r
}
