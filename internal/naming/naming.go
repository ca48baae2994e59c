// Package naming derives Python identifiers from a human-entered project name.
package naming

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultSubpackage is used by SplitNamespace when the package name has no
// underscore to split on.
const DefaultSubpackage = "core"

// ToPackageName converts a project name into a Python package name:
// lowercase, with hyphens and spaces replaced by underscores. Applying it to
// its own output returns the same string.
func ToPackageName(projectName string) string {
	s := strings.ToLower(projectName)
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

// ToClassName PascalCases each underscore-separated word of a package name,
// e.g. "my_project" → "MyProject".
func ToClassName(packageName string) string {
	caser := cases.Title(language.Und)
	var b strings.Builder
	for _, word := range strings.Split(packageName, "_") {
		if word == "" {
			continue
		}
		b.WriteString(caser.String(word))
	}
	return b.String()
}

// ToDistName converts a package name into its distribution name ("my_pkg" → "my-pkg").
func ToDistName(packageName string) string {
	return strings.ReplaceAll(packageName, "_", "-")
}

// SplitNamespace splits a package name on its first underscore into a
// namespace and a subpackage ("company_tools" → "company", "tools").
func SplitNamespace(packageName string) (namespace, subpackage string) {
	if ns, sub, ok := strings.Cut(packageName, "_"); ok && ns != "" && sub != "" {
		return ns, sub
	}
	return packageName, DefaultSubpackage
}
