package templatecache

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner performs the git operations the cache needs.
type Runner interface {
	Clone(ctx context.Context, url, dir string) error
	Pull(ctx context.Context, dir string) error
}

// ExecRunner runs the git binary found on PATH.
type ExecRunner struct{}

// Clone performs a shallow clone of url into dir.
func (ExecRunner) Clone(ctx context.Context, url, dir string) error {
	if err := EnsureGit(); err != nil {
		return err
	}
	return run(ctx, "", "clone", "--depth=1", url, dir)
}

// Pull fast-forwards the clone in dir.
func (ExecRunner) Pull(ctx context.Context, dir string) error {
	if err := EnsureGit(); err != nil {
		return err
	}
	return run(ctx, dir, "pull", "--depth=1", "--rebase")
}

func run(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %w\n%s", args[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}

// EnsureGit checks that git is available on PATH.
func EnsureGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git is required but not found in PATH")
	}
	return nil
}
