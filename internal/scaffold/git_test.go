package scaffold_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbrumbaugh5396/python-project-generator/internal/catalog"
	"github.com/tbrumbaugh5396/python-project-generator/internal/scaffold"
	"github.com/tbrumbaugh5396/python-project-generator/internal/templatecache"
	"github.com/tbrumbaugh5396/python-project-generator/internal/templatecache/cachetest"
)

const skeletonURL = "https://github.com/yourusername/python-skeleton-project.git"

var skeletonRepo = map[string]string{
	"README.md": "# Python Skeleton\n\nA skeleton Python project by Your Name <your.email@example.com>.\n",
	"setup.py": `setup(
    name="python-skeleton-project",
    version="0.1.0",
    url="https://github.com/yourusername/python-skeleton-project.git",
)
`,
	"src/skeleton/__init__.py":  "from .core import Skeleton\n",
	"src/skeleton/core.py":      "class Skeleton:\n    pass\n",
	"src/skeleton/cli.py":       "import skeleton\n",
	"src/skeleton/gui.py":       "import skeleton\n",
	"tests/test_core.py":        "from skeleton import Skeleton\n",
	"notes.txt":                 "skeleton notes\n",
	"Makefile":                  "test:\n\tpytest tests/ --cov=skeleton\n",
	".github/workflows/ci.yml":  "name: CI\n",
	"__pycache__/core.pyc":      "bytecode",
	"src/skeleton/.DS_Store":    "junk",
	"requirements-dev.txt":      "pytest\n",
}

func newGitGenerator(t *testing.T, runner *cachetest.Runner) (*scaffold.Generator, afero.Fs) {
	t.Helper()
	fs := runner.Fs
	cache := templatecache.New("/cache", templatecache.WithFs(fs), templatecache.WithRunner(runner))
	return newGenerator(t, cache, fs), fs
}

func TestGenerateFromGitTemplate(t *testing.T) {
	runner := &cachetest.Runner{
		Fs:    afero.NewMemMapFs(),
		Repos: map[string]map[string]string{skeletonURL: skeletonRepo},
	}
	g, fs := newGitGenerator(t, runner)

	res, err := g.Generate(context.Background(), scaffold.Request{
		ProjectName: "My Tool",
		OutputDir:   workDir,
		TemplateID:  "python-skeleton",
		Features:    scaffold.FeatureFlags{"gui": false, "github_actions": false},
		Metadata: scaffold.Metadata{
			Author:      "Ada",
			Email:       "ada@example.com",
			Description: "Tools for Ada",
			Version:     "1.2.3",
		},
	})
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Equal(t, "python-skeleton", res.TemplateID)
	assert.Empty(t, res.Layout)
	assert.Equal(t, 1, runner.Clones())

	assert.Equal(t, "# My Tool\n\nTools for Ada by Ada <ada@example.com>.\n", readFile(t, fs, res.ProjectDir, "README.md"))

	setup := readFile(t, fs, res.ProjectDir, "setup.py")
	assert.Contains(t, setup, `name="my-tool"`)
	assert.Contains(t, setup, `version="1.2.3"`)
	assert.Contains(t, setup, `url="https://github.com/yourusername/my-tool.git"`)

	assert.Equal(t, "class MyTool:\n    pass\n", readFile(t, fs, res.ProjectDir, "src", "my_tool", "core.py"))
	assert.Equal(t, "from my_tool import MyTool\n", readFile(t, fs, res.ProjectDir, "tests", "test_core.py"))
	assert.Contains(t, readFile(t, fs, res.ProjectDir, "Makefile"), "--cov=my_tool")
	assert.Equal(t, "skeleton notes\n", readFile(t, fs, res.ProjectDir, "notes.txt"))

	assert.Contains(t, res.Files, "src/my_tool/cli.py")
	assert.Contains(t, res.Skipped, "src/my_tool/gui.py")
	assert.Contains(t, res.Skipped, ".github/workflows/ci.yml")
	for _, f := range res.Files {
		assert.NotContains(t, f, ".git/")
		assert.NotContains(t, f, "__pycache__")
		assert.NotContains(t, f, ".DS_Store")
		assert.NotEqual(t, ".pygen-updated", f)
	}

	ok, err := afero.DirExists(fs, filepath.Join(res.ProjectDir, "src", "skeleton"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenerateFromGitTemplateReusesClone(t *testing.T) {
	runner := &cachetest.Runner{
		Fs:    afero.NewMemMapFs(),
		Repos: map[string]map[string]string{skeletonURL: skeletonRepo},
	}
	g, _ := newGitGenerator(t, runner)
	ctx := context.Background()

	for _, name := range []string{"first", "second"} {
		_, err := g.Generate(ctx, scaffold.Request{ProjectName: name, OutputDir: workDir, TemplateID: "python-skeleton"})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, runner.Clones())
	assert.Equal(t, 1, runner.Pulls())
}

func TestGenerateGitFailureFallsBack(t *testing.T) {
	runner := &cachetest.Runner{
		Fs:  afero.NewMemMapFs(),
		Err: errors.New("network unreachable"),
	}
	g, fs := newGitGenerator(t, runner)

	res, err := g.Generate(context.Background(), scaffold.Request{
		ProjectName: "demo",
		OutputDir:   workDir,
		TemplateID:  "python-skeleton",
	})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, catalog.DefaultID, res.TemplateID)
	assert.Equal(t, catalog.DefaultID, res.Layout)

	ok, err := afero.Exists(fs, filepath.Join(res.ProjectDir, "src", "demo", "core.py"))
	require.NoError(t, err)
	assert.True(t, ok)
}
