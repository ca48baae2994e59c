//go:build integration

package integration_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/tbrumbaugh5396/python-project-generator/internal/catalog"
	"github.com/tbrumbaugh5396/python-project-generator/internal/scaffold"
	"github.com/tbrumbaugh5396/python-project-generator/internal/templatecache"
)

// testEnv holds isolated directories for one test.
type testEnv struct {
	HomeDir    string // PYGEN_HOME
	CatalogDir string // user descriptors
	CacheDir   string // git template clones
	OutputDir  string // where projects are generated
}

// setupTestEnv creates temp directories and points the PYGEN_* variables at
// them so nothing touches the real home directory.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:   t.TempDir(),
		OutputDir: t.TempDir(),
	}
	env.CatalogDir = filepath.Join(env.HomeDir, "catalog.d")
	env.CacheDir = filepath.Join(env.HomeDir, "templates")
	for _, dir := range []string{env.CatalogDir, env.CacheDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("creating %s: %v", dir, err)
		}
	}

	t.Setenv("PYGEN_HOME", env.HomeDir)
	t.Setenv("PYGEN_TEMPLATE_CACHE", "")
	t.Setenv("PYGEN_CATALOG_DIR", "")
	return env
}

// newGenerator wires a generator against the real filesystem and git.
func (env *testEnv) newGenerator(t *testing.T) (*scaffold.Generator, *catalog.Catalog) {
	t.Helper()
	fs := afero.NewOsFs()
	cat, err := catalog.Load(fs, env.CatalogDir)
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	for _, w := range cat.Warnings {
		t.Fatalf("catalog warning: %s", w)
	}
	cache := templatecache.New(env.CacheDir, templatecache.WithFs(fs), templatecache.WithLogger(zerolog.Nop()))
	return scaffold.New(cat, cache, fs, zerolog.Nop()), cat
}

func (env *testEnv) generate(t *testing.T, g *scaffold.Generator, req scaffold.Request) *scaffold.Result {
	t.Helper()
	if req.OutputDir == "" {
		req.OutputDir = env.OutputDir
	}
	res, err := g.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate(%s): %v", req.TemplateID, err)
	}
	return res
}

// requireTool skips the test when name is not on PATH.
func requireTool(t *testing.T, name string) string {
	t.Helper()
	path, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not found in PATH", name)
	}
	return path
}

// runIn runs a command in dir and fails the test on error.
func runIn(t *testing.T, dir, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("%s %s: %v\n%s", name, strings.Join(args, " "), err, out)
	}
	return string(out)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected file to exist: %s", path)
		return
	}
	if info.IsDir() {
		t.Errorf("expected file, got directory: %s", path)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err == nil {
		t.Errorf("expected path to not exist: %s", path)
	}
}
