package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbrumbaugh5396/python-project-generator/internal/scaffold"
)

func TestFeatureFlags(t *testing.T) {
	tests := []struct {
		name     string
		defaults []string
		with     []string
		without  []string
		want     scaffold.FeatureFlags
		wantErr  bool
	}{
		{
			name:     "defaults only",
			defaults: []string{"cli", "tests"},
			want:     scaffold.FeatureFlags{"cli": true, "tests": true},
		},
		{
			name:     "with adds",
			defaults: []string{"cli"},
			with:     []string{"docker", " docs "},
			want:     scaffold.FeatureFlags{"cli": true, "docker": true, "docs": true},
		},
		{
			name:     "without removes default",
			defaults: []string{"cli", "tests"},
			without:  []string{"tests"},
			want:     scaffold.FeatureFlags{"cli": true, "tests": false},
		},
		{
			name:    "conflict",
			with:    []string{"tests"},
			without: []string{"tests"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := featureFlags(tt.defaults, tt.with, tt.without)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildRequest(t *testing.T) {
	setupHome(t)
	resetFlags(rootCmd)

	genAuthor = "Ada"
	genWith = []string{"docker"}
	genWithout = []string{"license"}
	req, err := buildRequest("My Tool")
	require.NoError(t, err)

	assert.Equal(t, "My Tool", req.ProjectName)
	assert.Equal(t, ".", req.OutputDir)
	assert.Equal(t, "Ada", req.Metadata.Author)
	assert.Equal(t, scaffold.DefaultVersion, req.Metadata.Version)
	assert.True(t, req.Features["cli"])
	assert.True(t, req.Features["docker"])
	assert.False(t, req.Features["license"])

	_, err = buildRequest("a/b")
	assert.ErrorIs(t, err, scaffold.ErrInvalidRequest)
	assert.Equal(t, 2, ExitCode(err))

	genWith = []string{"tests"}
	genWithout = []string{"tests"}
	_, err = buildRequest("ok")
	assert.Equal(t, 2, ExitCode(err))
}

func TestGenerateCommand(t *testing.T) {
	setupHome(t)
	out := t.TempDir()

	stdout, _, err := runCLI(t, "generate", "My Tool", "-o", out, "--author", "Ada Lovelace", "--email", "ada@example.com")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Generating project 'My Tool' using template 'minimal-python'...")
	assert.Contains(t, stdout, "✅ Project generated successfully!")
	assert.Contains(t, stdout, "python -m pytest tests/")

	project := filepath.Join(out, "My Tool")
	for _, rel := range []string{"setup.py", "README.md", "CHANGELOG.md", "LICENSE", "src/my_tool/cli.py", "tests/test_core.py"} {
		assert.FileExists(t, filepath.Join(project, filepath.FromSlash(rel)))
	}
	setup, err := os.ReadFile(filepath.Join(project, "setup.py"))
	require.NoError(t, err)
	assert.Contains(t, string(setup), "Ada Lovelace")
}

func TestGenerateCommandWithout(t *testing.T) {
	setupHome(t)
	out := t.TempDir()

	_, _, err := runCLI(t, "generate", "lib", "-o", out, "--without", "tests,cli")
	require.NoError(t, err)

	assert.NoDirExists(t, filepath.Join(out, "lib", "tests"))
	assert.NoFileExists(t, filepath.Join(out, "lib", "src", "lib", "cli.py"))
	assert.FileExists(t, filepath.Join(out, "lib", "src", "lib", "core.py"))
}

func TestGenerateCommandRefusesExisting(t *testing.T) {
	setupHome(t)
	out := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(out, "demo"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "demo", "keep.txt"), []byte("x"), 0o644))

	stdout, _, err := runCLI(t, "generate", "demo", "-o", out)
	assert.ErrorIs(t, err, scaffold.ErrProjectExists)
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, stdout, "❌ Project generation failed!")

	_, _, err = runCLI(t, "generate", "demo", "-o", out, "--force")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "demo", "keep.txt"))
	assert.FileExists(t, filepath.Join(out, "demo", "setup.py"))
}

func TestGenerateCommandConfigDefaults(t *testing.T) {
	home := setupHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("author: Grace Hopper\ntemplate: cli-tool\n"), 0o644))
	out := t.TempDir()

	stdout, _, err := runCLI(t, "generate", "cobol", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "using template 'cli-tool'")

	setup, err := os.ReadFile(filepath.Join(out, "cobol", "setup.py"))
	require.NoError(t, err)
	assert.Contains(t, string(setup), "Grace Hopper")
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, &scaffold.Result{
		ProjectDir: "/work/demo",
		TemplateID: "minimal-python",
		Fallback:   true,
		Files:      []string{"setup.py", "src/demo/__init__.py"},
		Skipped:    []string{"tests/__init__.py"},
		Warnings:   []string{"version \"one\" is not valid semver"},
	})
	out := buf.String()

	assert.Contains(t, out, "⚠️  version \"one\" is not valid semver\n")
	assert.Contains(t, out, "generated 'minimal-python' instead")
	assert.Contains(t, out, "📁 Location: /work/demo\n")
	assert.Contains(t, out, "2 files written, 1 skipped by feature toggles\n")
	assert.Contains(t, out, "  cd '/work/demo'\n")
	assert.NotContains(t, out, "pytest", "no tests were written")
}

func TestNewAnswersRequest(t *testing.T) {
	a := newAnswers{
		ProjectName: "  demo ",
		OutputDir:   "/work",
		TemplateID:  "minimal-python",
		Author:      "Ada",
		Features:    []string{"cli", "tests"},
		known:       []string{"cli", "tests", "readme", "license"},
	}
	req := a.request("Apache-2.0", "")

	assert.Equal(t, "demo", req.ProjectName)
	assert.Equal(t, "Apache-2.0", req.Metadata.License)
	assert.Equal(t, scaffold.FeatureFlags{"cli": true, "tests": true, "readme": false, "license": false}, req.Features)
}

func TestRenderResultPanel(t *testing.T) {
	out := renderResultPanel(&scaffold.Result{
		ProjectDir: "/work/acme-billing",
		TemplateID: "namespace-package",
		Layout:     "namespace-package",
		Files:      []string{"setup.py"},
	})
	assert.Contains(t, out, "Project generated successfully!")
	assert.Contains(t, out, "/work/acme-billing")
	assert.Contains(t, out, "namespace-package")
	assert.NotContains(t, out, "layout)")
}

func TestNewRequiresTerminal(t *testing.T) {
	setupHome(t)
	withTerminal(t, false)

	_, _, err := runCLI(t, "new")
	assert.Equal(t, 2, ExitCode(err))
	assert.Contains(t, err.Error(), "interactive terminal")
}
