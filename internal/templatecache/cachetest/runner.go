// Package cachetest provides an in-memory git runner for tests.
package cachetest

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// Runner fakes git by materialising a fixed file tree per URL on an afero
// filesystem.
type Runner struct {
	Fs afero.Fs
	// Repos maps a URL to its files, keyed by slash-separated relative path.
	Repos map[string]map[string]string
	// Err, when set, is returned by every call.
	Err error

	mu     sync.Mutex
	clones int
	pulls  int
}

// Clone writes the files registered for url into dir, plus a .git directory.
func (r *Runner) Clone(_ context.Context, url, dir string) error {
	r.mu.Lock()
	r.clones++
	r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	files, ok := r.Repos[url]
	if !ok {
		return fmt.Errorf("repository not found: %s", url)
	}
	if err := r.Fs.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		return err
	}
	if err := afero.WriteFile(r.Fs, filepath.Join(dir, ".git", "HEAD"), []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		return err
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := r.Fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := afero.WriteFile(r.Fs, path, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// Pull records the call and returns Err.
func (r *Runner) Pull(_ context.Context, _ string) error {
	r.mu.Lock()
	r.pulls++
	r.mu.Unlock()
	return r.Err
}

// Clones returns the number of Clone calls.
func (r *Runner) Clones() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clones
}

// Pulls returns the number of Pull calls.
func (r *Runner) Pulls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pulls
}
