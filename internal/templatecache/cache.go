package templatecache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/tbrumbaugh5396/python-project-generator/internal/userdata"
)

const (
	// freshnessFile is the name of the timestamp marker file.
	freshnessFile = ".pygen-updated"

	// DefaultMaxAge is the default staleness threshold (7 days).
	DefaultMaxAge = 7 * 24 * time.Hour

	// tmpSuffix is appended to the target dir during a clone.
	tmpSuffix = ".tmp"
)

// Cache manages template clones under a root directory.
type Cache struct {
	root   string
	fs     afero.Fs
	runner Runner
	logger zerolog.Logger
	now    func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithFs sets the filesystem used for everything except git itself.
func WithFs(fs afero.Fs) Option { return func(c *Cache) { c.fs = fs } }

// WithRunner replaces the git runner.
func WithRunner(r Runner) Option { return func(c *Cache) { c.runner = r } }

// WithLogger sets the cache logger.
func WithLogger(l zerolog.Logger) Option { return func(c *Cache) { c.logger = l } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(c *Cache) { c.now = now } }

// New returns a cache rooted at root. By default it uses the OS filesystem
// and the git binary.
func New(root string, opts ...Option) *Cache {
	c := &Cache{
		root:   root,
		fs:     afero.NewOsFs(),
		runner: ExecRunner{},
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Root returns the cache root directory.
func (c *Cache) Root() string { return c.root }

// Fs returns the filesystem the cache reads and writes.
func (c *Cache) Fs() afero.Fs { return c.fs }

// Dir returns the clone directory for a template id.
func (c *Cache) Dir(id string) string { return filepath.Join(c.root, id) }

// Fetch makes sure the clone for id is present and current, and returns its
// directory. A missing clone is cloned; an existing one is pulled.
func (c *Cache) Fetch(ctx context.Context, id, url string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid template id %q", id)
	}
	dir := c.Dir(id)

	exists, err := afero.DirExists(c.fs, filepath.Join(dir, ".git"))
	if err != nil {
		return "", fmt.Errorf("checking %s: %w", dir, err)
	}
	if !exists {
		c.logger.Info().Str("template", id).Str("url", url).Msg("cloning template")
		if err := c.clone(ctx, url, dir); err != nil {
			return "", err
		}
		return dir, nil
	}

	c.logger.Debug().Str("template", id).Msg("updating template")
	if err := c.runner.Pull(ctx, dir); err != nil {
		return "", fmt.Errorf("updating template %s: %w", id, err)
	}
	c.writeMarker(dir)
	return dir, nil
}

// clone writes to a sibling .tmp directory and renames it into place.
func (c *Cache) clone(ctx context.Context, url, dir string) error {
	tmpDir := dir + tmpSuffix
	_ = c.fs.RemoveAll(tmpDir)

	if err := c.fs.MkdirAll(filepath.Dir(tmpDir), userdata.DirPermNormal); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := c.runner.Clone(ctx, url, tmpDir); err != nil {
		_ = c.fs.RemoveAll(tmpDir)
		return fmt.Errorf("cloning template: %w", err)
	}
	if err := c.fs.RemoveAll(dir); err != nil {
		_ = c.fs.RemoveAll(tmpDir)
		return fmt.Errorf("removing stale clone: %w", err)
	}
	if err := c.fs.Rename(tmpDir, dir); err != nil {
		_ = c.fs.RemoveAll(tmpDir)
		return fmt.Errorf("finalizing clone: %w", err)
	}
	c.writeMarker(dir)
	return nil
}

func (c *Cache) writeMarker(dir string) {
	ts := strconv.FormatInt(c.now().Unix(), 10)
	if err := afero.WriteFile(c.fs, filepath.Join(dir, freshnessFile), []byte(ts), userdata.FilePermNormal); err != nil {
		c.logger.Warn().Err(err).Str("dir", dir).Msg("could not write freshness marker")
	}
}

// LastUpdated reads the freshness marker of dir. It returns the zero time if
// the marker is missing or unreadable.
func (c *Cache) LastUpdated(dir string) time.Time {
	data, err := afero.ReadFile(c.fs, filepath.Join(dir, freshnessFile))
	if err != nil {
		return time.Time{}
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

// IsStale reports whether dir was refreshed more than maxAge ago. A missing
// marker counts as stale.
func (c *Cache) IsStale(dir string, maxAge time.Duration) bool {
	last := c.LastUpdated(dir)
	if last.IsZero() {
		return true
	}
	return c.now().Sub(last) > maxAge
}

// Entry describes one template clone.
type Entry struct {
	ID      string    `json:"id"`
	Dir     string    `json:"dir"`
	Present bool      `json:"present"`
	Updated time.Time `json:"updated,omitempty"`
	Stale   bool      `json:"stale"`
}

// Status reports the clone state of each id.
func (c *Cache) Status(ids ...string) []Entry {
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		dir := c.Dir(id)
		present, _ := afero.DirExists(c.fs, filepath.Join(dir, ".git"))
		e := Entry{ID: id, Dir: dir, Present: present}
		if present {
			e.Updated = c.LastUpdated(dir)
			e.Stale = c.IsStale(dir, DefaultMaxAge)
		}
		entries = append(entries, e)
	}
	return entries
}

// Clean removes the clone for id. Removing an absent clone is not an error.
func (c *Cache) Clean(id string) error {
	if err := c.fs.RemoveAll(c.Dir(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", id, err)
	}
	return nil
}

// CleanAll removes the whole cache root.
func (c *Cache) CleanAll() error {
	if err := c.fs.RemoveAll(c.root); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing template cache: %w", err)
	}
	return nil
}
