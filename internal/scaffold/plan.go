package scaffold

import (
	"os"
	"path"
	"sort"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
)

// File is one entry of a plan. Path is slash-separated and relative to the
// project directory.
type File struct {
	Path    string
	Content []byte
	Mode    os.FileMode
}

// Feature gates a group of files. Paths use .gitignore pattern syntax.
// A feature with no paths only affects template content.
type Feature struct {
	Name    string   `yaml:"name"`
	Default bool     `yaml:"default"`
	Paths   []string `yaml:"paths,omitempty"`
}

// Plan is the full set of files a generation would write.
type Plan struct {
	Files    []File
	Features []Feature
}

// Add appends a file, replacing any earlier entry for the same path.
func (p *Plan) Add(name string, content []byte, mode os.FileMode) {
	name = path.Clean(strings.TrimPrefix(name, "/"))
	for i := range p.Files {
		if p.Files[i].Path == name {
			p.Files[i] = File{Path: name, Content: content, Mode: mode}
			return
		}
	}
	p.Files = append(p.Files, File{Path: name, Content: content, Mode: mode})
}

// Lookup returns the planned file at name.
func (p *Plan) Lookup(name string) (File, bool) {
	for _, f := range p.Files {
		if f.Path == name {
			return f, true
		}
	}
	return File{}, false
}

// Filter splits the plan into files to write and the paths dropped because
// a feature they belong to is disabled. A file is dropped when it, or any of
// its parent directories, matches a disabled feature's pattern.
func (p *Plan) Filter(flags FeatureFlags) (kept []File, skipped []string) {
	var disabled []gitignore.GitIgnore
	for _, f := range p.Features {
		if len(f.Paths) == 0 || flags.Enabled(f.Name, f.Default) {
			continue
		}
		disabled = append(disabled, gitignore.New(strings.NewReader(strings.Join(f.Paths, "\n")), "", nil))
	}

	for _, f := range p.Files {
		if excluded(disabled, f.Path) {
			skipped = append(skipped, f.Path)
			continue
		}
		kept = append(kept, f)
	}
	sort.Strings(skipped)
	return kept, skipped
}

func excluded(rules []gitignore.GitIgnore, name string) bool {
	if len(rules) == 0 {
		return false
	}
	for _, rule := range rules {
		if matches(rule, name, false) {
			return true
		}
		for dir := path.Dir(name); dir != "." && dir != "/"; dir = path.Dir(dir) {
			if matches(rule, dir, true) {
				return true
			}
		}
	}
	return false
}

func matches(rule gitignore.GitIgnore, name string, isDir bool) bool {
	m := rule.Relative(name, isDir)
	return m != nil && m.Ignore()
}
