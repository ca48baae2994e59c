package scaffold

import (
	"path"
	"sort"
	"strings"
)

// Placeholder is a literal token and the value that replaces it.
type Placeholder struct {
	Token string
	Value string
}

// legacySkeletonURL is the repository URL baked into the skeleton template's
// own files.
const legacySkeletonURL = "https://github.com/yourusername/python-skeleton-project"

// Placeholders returns the replacement table for d. It holds the named
// {{token}} placeholders plus the literal strings found in the python
// skeleton repository.
func Placeholders(d *Data) []Placeholder {
	return []Placeholder{
		{"{{project_name}}", d.ProjectName},
		{"{{package_name}}", d.PackageName},
		{"{{class_name}}", d.ClassName},
		{"{{dist_name}}", d.DistName},
		{"{{author}}", d.Author},
		{"{{email}}", d.Email},
		{"{{version}}", d.Version},
		{"{{description}}", d.Description},
		{"{{url}}", d.URL},
		{"{{license}}", d.License},
		{"{{date}}", d.Date},

		{legacySkeletonURL + ".git", d.URL + ".git"},
		{legacySkeletonURL, d.URL},
		{"python-skeleton-project", d.DistName},
		{"A skeleton Python project", d.Description},
		{"Python Skeleton", d.ProjectName},
		{"your.email@example.com", d.Email},
		{"Your Name", d.Author},
		{DefaultVersion, d.Version},
		{"Skeleton", d.ClassName},
		{"skeleton", d.PackageName},
	}
}

// NamedPlaceholders returns only the {{token}} entries of Placeholders.
func NamedPlaceholders(d *Data) []Placeholder {
	var out []Placeholder
	for _, p := range Placeholders(d) {
		if strings.HasPrefix(p.Token, "{{") {
			out = append(out, p)
		}
	}
	return out
}

// newReplacer builds a single-pass replacer. Tokens are ordered longest
// first so that a token is never shadowed by one of its substrings, and
// replaced text is not scanned again.
func newReplacer(table []Placeholder) *strings.Replacer {
	sorted := append([]Placeholder(nil), table...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Token) > len(sorted[j].Token)
	})
	args := make([]string, 0, 2*len(sorted))
	for _, p := range sorted {
		args = append(args, p.Token, p.Value)
	}
	return strings.NewReplacer(args...)
}

// substitutable reports whether the placeholder pass applies to a copied
// file, judged by its base name.
func substitutable(name string) bool {
	base := path.Base(name)
	switch base {
	case "setup.py", "pyproject.toml", "README.md", "LICENSE", "Makefile", "setup.cfg":
		return true
	}
	if strings.HasPrefix(base, "requirements") && strings.HasSuffix(base, ".txt") {
		return true
	}
	return strings.HasSuffix(base, ".py")
}
