package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), 1},
		{"usage", usageError{errors.New("bad flag")}, 2},
		{"wrapped usage", fmt.Errorf("context: %w", usageError{errors.New("bad")}), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestUsageErrorUnwraps(t *testing.T) {
	inner := errors.New("inner")
	err := usageError{inner}
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "inner", err.Error())
}

func TestRootArgumentErrors(t *testing.T) {
	setupHome(t)

	_, _, err := runCLI(t, "generate")
	assert.Equal(t, 2, ExitCode(err), "missing project name")

	_, _, err = runCLI(t, "generate", "a", "b")
	assert.Equal(t, 2, ExitCode(err), "extra argument")

	_, _, err = runCLI(t, "generate", "demo", "--no-such-flag")
	assert.Equal(t, 2, ExitCode(err), "unknown flag")

	_, _, err = runCLI(t, "stray")
	assert.Equal(t, 2, ExitCode(err), "unexpected positional argument")
}

func TestListTemplatesFlag(t *testing.T) {
	setupHome(t)

	out, _, err := runCLI(t, "--list-templates")
	assert.NoError(t, err)
	assert.Contains(t, out, "Available templates:")
	assert.Contains(t, out, "  minimal-python: Minimal Python Project")
	assert.Contains(t, out, "  plugin-framework:")
}

func TestVersionCommand(t *testing.T) {
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-01-01"
	t.Cleanup(func() { buildVersion, buildCommit, buildDate = "", "", "" })

	out, _, err := runCLI(t, "version")
	assert.NoError(t, err)
	assert.Equal(t, "pygen version 1.2.3 (commit: abc123, built: 2026-01-01)\n", out)

	out, _, err = runCLI(t, "version", "--short")
	assert.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}
