package scaffold

import (
	"strings"
	"time"

	"github.com/tbrumbaugh5396/python-project-generator/internal/naming"
)

// Data holds every value available to scaffold templates and placeholders.
type Data struct {
	ProjectName string // as entered, e.g. "My Tool"
	PackageName string // my_tool
	ClassName   string // MyTool
	DistName    string // my-tool
	Namespace   string // namespace-package only: first segment of PackageName
	Subpackage  string // namespace-package only: remainder, or "core"
	Year        int

	Metadata
}

// NewData derives names from the project name and fills metadata defaults.
func NewData(projectName string, meta Metadata, now time.Time) *Data {
	name := strings.TrimSpace(projectName)
	pkg := naming.ToPackageName(name)
	ns, sub := naming.SplitNamespace(pkg)
	return &Data{
		ProjectName: name,
		PackageName: pkg,
		ClassName:   naming.ToClassName(pkg),
		DistName:    naming.ToDistName(pkg),
		Namespace:   ns,
		Subpackage:  sub,
		Year:        now.Year(),
		Metadata:    meta.withDefaults(name, now),
	}
}

// pathReplacer substitutes the placeholder segments used in scaffold file
// names.
func (d *Data) pathReplacer() *strings.Replacer {
	return strings.NewReplacer(
		"__package__", d.PackageName,
		"__namespace__", d.Namespace,
		"__subpackage__", d.Subpackage,
		"__classlower__", strings.ToLower(d.ClassName),
	)
}
