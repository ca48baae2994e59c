package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbrumbaugh5396/python-project-generator/internal/docs"
)

const projectPath = "/work/demo-tool"

func newProjectFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(projectPath, 0o755))
	return fs
}

func testDocOptions() docOptions {
	return docOptions{
		projectPath: projectPath,
		author:      "Ada",
		email:       "ada@example.com",
		now:         time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestAddDoc(t *testing.T) {
	fs := newProjectFs(t)
	var out bytes.Buffer

	require.NoError(t, addDoc(fs, strings.NewReader(""), &out, "changelog", testDocOptions()))

	data, err := afero.ReadFile(fs, filepath.Join(projectPath, "CHANGELOG.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "All notable changes to demo-tool will be documented")
	assert.Contains(t, out.String(), "✅ Created CHANGELOG.md")
}

func TestAddDocUsesProjectName(t *testing.T) {
	fs := newProjectFs(t)
	opts := testDocOptions()
	opts.projectName = "Widget"

	require.NoError(t, addDoc(fs, strings.NewReader(""), &bytes.Buffer{}, "changelog", opts))

	data, err := afero.ReadFile(fs, filepath.Join(projectPath, "CHANGELOG.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "changes to Widget")
}

func TestAddDocOverwrite(t *testing.T) {
	target := filepath.Join(projectPath, "CHANGELOG.md")

	t.Run("declined", func(t *testing.T) {
		withTerminal(t, true)
		fs := newProjectFs(t)
		require.NoError(t, afero.WriteFile(fs, target, []byte("mine"), 0o644))

		var out bytes.Buffer
		err := addDoc(fs, strings.NewReader("n\n"), &out, "changelog", testDocOptions())
		assert.ErrorIs(t, err, errCancelled)
		assert.Contains(t, out.String(), "CHANGELOG.md already exists. Overwrite? (y/N)")

		data, _ := afero.ReadFile(fs, target)
		assert.Equal(t, "mine", string(data))
	})

	t.Run("accepted", func(t *testing.T) {
		withTerminal(t, true)
		fs := newProjectFs(t)
		require.NoError(t, afero.WriteFile(fs, target, []byte("mine"), 0o644))

		require.NoError(t, addDoc(fs, strings.NewReader("yes\n"), &bytes.Buffer{}, "changelog", testDocOptions()))
		data, _ := afero.ReadFile(fs, target)
		assert.Contains(t, string(data), "# Changelog")
	})

	t.Run("no terminal", func(t *testing.T) {
		withTerminal(t, false)
		fs := newProjectFs(t)
		require.NoError(t, afero.WriteFile(fs, target, []byte("mine"), 0o644))

		err := addDoc(fs, strings.NewReader("y\n"), &bytes.Buffer{}, "changelog", testDocOptions())
		assert.ErrorIs(t, err, errNeedsConfirmation)
	})

	t.Run("assume yes", func(t *testing.T) {
		withTerminal(t, false)
		fs := newProjectFs(t)
		require.NoError(t, afero.WriteFile(fs, target, []byte("mine"), 0o644))

		opts := testDocOptions()
		opts.yes = true
		require.NoError(t, addDoc(fs, strings.NewReader(""), &bytes.Buffer{}, "changelog", opts))
		data, _ := afero.ReadFile(fs, target)
		assert.NotEqual(t, "mine", string(data))
	})
}

func TestAddDocErrors(t *testing.T) {
	fs := newProjectFs(t)

	err := addDoc(fs, strings.NewReader(""), &bytes.Buffer{}, "manifesto", testDocOptions())
	assert.ErrorIs(t, err, docs.ErrUnknownType)
	assert.Equal(t, 2, ExitCode(err))

	opts := testDocOptions()
	opts.projectPath = "/work/missing"
	err = addDoc(fs, strings.NewReader(""), &bytes.Buffer{}, "changelog", opts)
	assert.ErrorContains(t, err, "project path does not exist")
}

func TestRemoveDoc(t *testing.T) {
	withTerminal(t, false)
	fs := newProjectFs(t)
	target := filepath.Join(projectPath, "SECURITY.md")

	err := removeDoc(fs, strings.NewReader(""), &bytes.Buffer{}, "security", projectPath, true)
	assert.ErrorIs(t, err, docs.ErrNotPresent)

	require.NoError(t, afero.WriteFile(fs, target, []byte("policy"), 0o644))

	err = removeDoc(fs, strings.NewReader(""), &bytes.Buffer{}, "security", projectPath, false)
	assert.ErrorIs(t, err, errNeedsConfirmation)

	exists, err := afero.Exists(fs, target)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRemoveDocConfirmed(t *testing.T) {
	withTerminal(t, true)
	fs := newProjectFs(t)
	target := filepath.Join(projectPath, "SECURITY.md")
	require.NoError(t, afero.WriteFile(fs, target, []byte("policy"), 0o644))

	var out bytes.Buffer
	require.NoError(t, removeDoc(fs, strings.NewReader("y\n"), &out, "security", projectPath, false))

	exists, err := afero.Exists(fs, target)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Contains(t, out.String(), "✅ Removed SECURITY.md")
}

func TestWriteDocList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeDocList(&buf, "", false))
	out := buf.String()
	assert.Contains(t, out, "Available Markdown Documentation Files:")
	assert.Contains(t, out, "CHANGELOG.md")
	assert.Contains(t, out, "ROADMAP.md")

	buf.Reset()
	require.NoError(t, writeDocList(&buf, "", true))
	assert.NotContains(t, buf.String(), "ROADMAP.md")
}

func TestMdAddCommand(t *testing.T) {
	setupHome(t)
	dir := t.TempDir()

	out, _, err := runCLI(t, "md", "add", "contributing", "--project-path", dir, "--author", "Ada")
	require.NoError(t, err)
	assert.Contains(t, out, "✅ Created CONTRIBUTING.md")
	assert.FileExists(t, filepath.Join(dir, "CONTRIBUTING.md"))

	_, _, err = runCLI(t, "md", "remove", "contributing", "--project-path", dir, "-y")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "CONTRIBUTING.md"))
}
