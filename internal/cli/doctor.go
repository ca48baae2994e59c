package cli

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tbrumbaugh5396/python-project-generator/internal/catalog"
	"github.com/tbrumbaugh5396/python-project-generator/internal/config"
	"github.com/tbrumbaugh5396/python-project-generator/internal/scaffold"
	"github.com/tbrumbaugh5396/python-project-generator/internal/templatecache"
	"github.com/tbrumbaugh5396/python-project-generator/internal/userdata"
)

var doctorFix bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Attempt to repair problems")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the local setup",
	Long: `Checks the home directory layout, the user catalog descriptors, the
builtin layouts behind each builtin template and that git is available for
cloning git templates.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		fs := afero.NewOsFs()
		out := cmd.OutOrStdout()

		problems, err := userdata.CheckHome(fs, out, doctorFix)
		if err != nil {
			return err
		}
		n, cat := checkCatalog(fs, out)
		problems += n
		if cat != nil {
			problems += checkLayouts(out, cat, scaffold.DefaultRegistry())
		}
		problems += checkGit(out)

		fmt.Fprintln(out)
		if problems > 0 {
			return fmt.Errorf("%d problem(s) found", problems)
		}
		fmt.Fprintln(out, "✅ No problems found")
		return nil
	},
}

func checkCatalog(fs afero.Fs, w io.Writer) (int, *catalog.Catalog) {
	fmt.Fprintln(w, "\nCatalog check:")
	dir, err := userdata.GetUserCatalogDir()
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return 1, nil
	}
	cat, err := catalog.Load(fs, dir)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return 1, nil
	}
	for _, warning := range cat.Warnings {
		fmt.Fprintf(w, "  [WARN] %s\n", warning)
	}
	fmt.Fprintf(w, "  [ OK ] %d templates available\n", cat.Len())
	return len(cat.Warnings), cat
}

func checkLayouts(w io.Writer, cat *catalog.Catalog, reg *scaffold.Registry) int {
	fmt.Fprintln(w, "\nLayout check:")
	problems := reg.Check(cat)
	for _, p := range problems {
		fmt.Fprintf(w, "  [WARN] %s\n", p)
	}
	if len(problems) == 0 {
		fmt.Fprintf(w, "  [ OK ] %d builtin layouts embedded\n", len(scaffold.Sets()))
	}
	return len(problems)
}

func checkGit(w io.Writer) int {
	fmt.Fprintln(w, "\nTool check:")
	if err := templatecache.EnsureGit(); err != nil {
		fmt.Fprintf(w, "  [WARN] %v (git templates fall back to %s)\n", err, catalog.DefaultID)
		return 1
	}
	fmt.Fprintln(w, "  [ OK ] git found")
	return 0
}
