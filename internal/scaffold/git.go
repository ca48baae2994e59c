package scaffold

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
	"github.com/spf13/afero"

	"github.com/tbrumbaugh5396/python-project-generator/internal/catalog"
)

// TemplateSource provides local copies of git templates.
type TemplateSource interface {
	Fetch(ctx context.Context, id, url string) (string, error)
}

// copyIgnore lists paths never copied out of a cached clone.
var copyIgnore = []string{
	".git/",
	"__pycache__/",
	"*.pyc",
	".DS_Store",
	".vscode/",
	".idea/",
	".pygen-updated",
}

// GitFeatures is the feature table applied to every git template.
var GitFeatures = []Feature{
	{Name: "cli", Default: true, Paths: []string{"cli.py"}},
	{Name: "gui", Default: true, Paths: []string{"gui.py", "generator_gui.py"}},
	{Name: "tests", Default: true, Paths: []string{"/tests/"}},
	{Name: "executable", Default: true, Paths: []string{"build_executable.py"}},
	{Name: "dev_requirements", Default: true, Paths: []string{"requirements-dev.txt"}},
	{Name: "license", Default: true, Paths: []string{"LICENSE"}},
	{Name: "readme", Default: true, Paths: []string{"README.md"}},
	{Name: "makefile", Default: true, Paths: []string{"Makefile"}},
	{Name: "gitignore", Default: true, Paths: []string{".gitignore"}},
	{Name: "github_actions", Default: true, Paths: []string{"/.github/"}},
}

// skeletonPackage is the package directory name used by the skeleton repository.
const skeletonPackage = "skeleton"

func (g *Generator) gitPlan(ctx context.Context, desc *catalog.Descriptor, d *Data) (*Plan, error) {
	if g.source == nil {
		return nil, fmt.Errorf("%w: %s: no template cache configured", ErrTemplateUnavailable, desc.ID)
	}
	dir, err := g.source.Fetch(ctx, desc.ID, desc.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateUnavailable, desc.ID, err)
	}
	plan, err := planFromTree(g.fs, dir, d)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateUnavailable, desc.ID, err)
	}
	return plan, nil
}

// planFromTree copies a template tree into a plan. It renames src/skeleton to
// the project's package and applies the placeholder pass to source and
// packaging files.
func planFromTree(fsys afero.Fs, root string, d *Data) (*Plan, error) {
	ignore := gitignore.New(strings.NewReader(strings.Join(copyIgnore, "\n")), "", nil)
	replacer := newReplacer(Placeholders(d))
	plan := &Plan{Features: append([]Feature(nil), GitFeatures...)}

	err := afero.Walk(fsys, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if m := ignore.Relative(rel, info.IsDir()); m != nil && m.Ignore() {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}

		content, err := afero.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", rel, err)
		}
		if substitutable(rel) {
			content = []byte(replacer.Replace(string(content)))
		}
		plan.Add(renameSkeleton(rel, d.PackageName), content, info.Mode().Perm())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("copying template: %w", err)
	}
	return plan, nil
}

func renameSkeleton(rel, pkg string) string {
	prefix := "src/" + skeletonPackage + "/"
	if strings.HasPrefix(rel, prefix) {
		return "src/" + pkg + "/" + strings.TrimPrefix(rel, prefix)
	}
	return rel
}
