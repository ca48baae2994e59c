package templatecache_test

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbrumbaugh5396/python-project-generator/internal/templatecache"
	"github.com/tbrumbaugh5396/python-project-generator/internal/templatecache/cachetest"
)

const repoURL = "https://example.com/skeleton.git"

func newCache(t *testing.T, now time.Time) (*templatecache.Cache, *cachetest.Runner, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	runner := &cachetest.Runner{
		Fs:    fs,
		Repos: map[string]map[string]string{repoURL: {"README.md": "# Python Skeleton\n"}},
	}
	c := templatecache.New("/cache",
		templatecache.WithFs(fs),
		templatecache.WithRunner(runner),
		templatecache.WithClock(func() time.Time { return now }),
	)
	return c, runner, fs
}

func TestFetchClonesThenPulls(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c, runner, fs := newCache(t, now)
	ctx := context.Background()

	dir, err := c.Fetch(ctx, "python-skeleton", repoURL)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/cache", "python-skeleton"), dir)
	assert.Equal(t, 1, runner.Clones())
	assert.Equal(t, 0, runner.Pulls())

	data, err := afero.ReadFile(fs, filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Python Skeleton\n", string(data))

	tmpExists, _ := afero.Exists(fs, dir+".tmp")
	assert.False(t, tmpExists)

	marker, err := afero.ReadFile(fs, filepath.Join(dir, ".pygen-updated"))
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(now.Unix(), 10), string(marker))

	_, err = c.Fetch(ctx, "python-skeleton", repoURL)
	require.NoError(t, err)
	assert.Equal(t, 1, runner.Clones())
	assert.Equal(t, 1, runner.Pulls())
}

func TestFetchCloneFailureLeavesNoDirectory(t *testing.T) {
	c, runner, fs := newCache(t, time.Now())
	runner.Err = errors.New("network unreachable")

	_, err := c.Fetch(context.Background(), "python-skeleton", repoURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network unreachable")

	for _, p := range []string{"/cache/python-skeleton", "/cache/python-skeleton.tmp"} {
		exists, _ := afero.Exists(fs, p)
		assert.False(t, exists, p)
	}
}

func TestFetchRejectsPathLikeIDs(t *testing.T) {
	c, _, _ := newCache(t, time.Now())
	for _, id := range []string{"", "..", "a/b", `a\b`} {
		_, err := c.Fetch(context.Background(), id, repoURL)
		assert.Error(t, err, id)
	}
}

func TestIsStale(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c, _, fs := newCache(t, now)
	dir := "/cache/x"

	assert.True(t, c.IsStale(dir, time.Hour), "missing marker is stale")

	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, ".pygen-updated"),
		[]byte(strconv.FormatInt(now.Add(-2*time.Hour).Unix(), 10)), 0o644))
	assert.True(t, c.IsStale(dir, time.Hour))
	assert.False(t, c.IsStale(dir, 3*time.Hour))

	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, ".pygen-updated"), []byte("garbage"), 0o644))
	assert.True(t, c.LastUpdated(dir).IsZero())
}

func TestStatusAndClean(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c, _, _ := newCache(t, now)
	ctx := context.Background()

	_, err := c.Fetch(ctx, "python-skeleton", repoURL)
	require.NoError(t, err)

	entries := c.Status("python-skeleton", "other")
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Present)
	assert.False(t, entries[0].Stale)
	assert.Equal(t, now.Unix(), entries[0].Updated.Unix())
	assert.False(t, entries[1].Present)

	require.NoError(t, c.Clean("python-skeleton"))
	assert.False(t, c.Status("python-skeleton")[0].Present)
	require.NoError(t, c.Clean("python-skeleton"))

	_, err = c.Fetch(ctx, "python-skeleton", repoURL)
	require.NoError(t, err)
	require.NoError(t, c.CleanAll())
	exists, _ := afero.Exists(c.Fs(), c.Root())
	assert.False(t, exists)
}
