package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbrumbaugh5396/python-project-generator/internal/catalog"
	"github.com/tbrumbaugh5396/python-project-generator/internal/config"
	"github.com/tbrumbaugh5396/python-project-generator/internal/templatecache"
)

var (
	cacheAll  bool
	cacheJSON bool
)

func init() {
	cacheUpdateCmd.Flags().BoolVar(&cacheAll, "all", false, "Update every git template")
	cacheCleanCmd.Flags().BoolVar(&cacheAll, "all", false, "Remove the whole template cache")
	cacheStatusCmd.Flags().BoolVar(&cacheJSON, "json", false, "Output in JSON format")

	cacheCmd.AddCommand(cacheUpdateCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cloned git templates",
	Long: `Git templates are cloned once into ~/.python-project-generator/templates
and pulled on later use.`,
}

var cacheUpdateCmd = &cobra.Command{
	Use:   "update [template-id...]",
	Short: "Clone or pull git templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, cat, err := commandCache(cmd)
		if err != nil {
			return err
		}
		descs, err := selectGitTemplates(cat, args, cacheAll)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		var failed int
		for _, d := range descs {
			dir, err := cache.Fetch(cmd.Context(), d.ID, d.Source)
			if err != nil {
				failed++
				fmt.Fprintf(out, "❌ %s: %v\n", d.ID, err)
				continue
			}
			fmt.Fprintf(out, "✅ %s updated (%s)\n", d.ID, dir)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d templates failed to update", failed, len(descs))
		}
		return nil
	},
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of cached git templates",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, cat, err := commandCache(cmd)
		if err != nil {
			return err
		}
		entries := cache.Status(gitTemplateIDs(cat)...)
		if cacheJSON {
			return writeJSON(cmd.OutOrStdout(), entries)
		}
		return writeCacheStatus(cmd.OutOrStdout(), entries)
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean [template-id...]",
	Short: "Remove cached git templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, cat, err := commandCache(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if cacheAll {
			if err := cache.CleanAll(); err != nil {
				return err
			}
			fmt.Fprintf(out, "✅ Removed %s\n", cache.Root())
			return nil
		}
		descs, err := selectGitTemplates(cat, args, false)
		if err != nil {
			return err
		}
		for _, d := range descs {
			if err := cache.Clean(d.ID); err != nil {
				return err
			}
			fmt.Fprintf(out, "✅ Removed %s\n", d.ID)
		}
		return nil
	},
}

func commandCache(cmd *cobra.Command) (*templatecache.Cache, *catalog.Catalog, error) {
	config.Load()
	log := newLogger(cmd.ErrOrStderr())
	cat, err := loadCatalog(log)
	if err != nil {
		return nil, nil, err
	}
	cache, err := newCache(log)
	if err != nil {
		return nil, nil, err
	}
	return cache, cat, nil
}

func gitTemplateIDs(cat *catalog.Catalog) []string {
	var ids []string
	for _, d := range cat.List() {
		if d.IsGit() {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// selectGitTemplates resolves ids to git descriptors. No ids means --all
// must be set.
func selectGitTemplates(cat *catalog.Catalog, ids []string, all bool) ([]*catalog.Descriptor, error) {
	if all {
		if len(ids) > 0 {
			return nil, usageError{fmt.Errorf("--all cannot be combined with template ids")}
		}
		ids = gitTemplateIDs(cat)
	}
	if len(ids) == 0 {
		return nil, usageError{fmt.Errorf("name at least one template id or pass --all")}
	}
	descs := make([]*catalog.Descriptor, 0, len(ids))
	for _, id := range ids {
		d, err := cat.Lookup(id)
		if err != nil {
			return nil, err
		}
		if !d.IsGit() {
			return nil, fmt.Errorf("template %q is builtin and is not cached", id)
		}
		descs = append(descs, d)
	}
	return descs, nil
}

func writeCacheStatus(w io.Writer, entries []templatecache.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "TEMPLATE\tSTATE\tUPDATED")
	for _, e := range entries {
		state, updated := "missing", "-"
		if e.Present {
			state = "fresh"
			if e.Stale {
				state = "stale"
			}
			if !e.Updated.IsZero() {
				updated = e.Updated.Local().Format(time.DateTime)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ID, state, updated)
	}
	return tw.Flush()
}
