package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tbrumbaugh5396/python-project-generator/internal/config"
	"github.com/tbrumbaugh5396/python-project-generator/internal/docs"
	"github.com/tbrumbaugh5396/python-project-generator/internal/scaffold"
)

var (
	mdCategory    string
	mdRecommended bool
	mdProjectPath string
	mdProjectName string
	mdAuthor      string
	mdEmail       string
	mdYes         bool
)

func init() {
	mdListCmd.Flags().StringVar(&mdCategory, "category", "", "Only show one category")
	mdListCmd.Flags().BoolVar(&mdRecommended, "recommended", false, "Only show recommended files")

	for _, c := range []*cobra.Command{mdAddCmd, mdRemoveCmd} {
		c.Flags().StringVar(&mdProjectPath, "project-path", ".", "Project directory")
		c.Flags().BoolVarP(&mdYes, "yes", "y", false, "Do not ask for confirmation")
	}
	mdAddCmd.Flags().StringVar(&mdProjectName, "project-name", "", "Project name (default: directory name)")
	mdAddCmd.Flags().StringVar(&mdAuthor, "author", "", "Author name")
	mdAddCmd.Flags().StringVar(&mdEmail, "email", "", "Author email")

	mdCmd.AddCommand(mdListCmd)
	mdCmd.AddCommand(mdAddCmd)
	mdCmd.AddCommand(mdRemoveCmd)
	rootCmd.AddCommand(mdCmd)
}

var mdCmd = &cobra.Command{
	Use:   "md",
	Short: "Manage Markdown documentation files in a project",
	Long: `Add or remove standard documentation files (CHANGELOG.md, SECURITY.md,
CODE_OF_CONDUCT.md, ...) in an existing project.`,
}

var mdListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available documentation files",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeDocList(cmd.OutOrStdout(), mdCategory, mdRecommended)
	},
}

var mdAddCmd = &cobra.Command{
	Use:   "add <type>",
	Short: "Add a documentation file to a project",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		return addDoc(afero.NewOsFs(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], docOptions{
			projectPath: mdProjectPath,
			projectName: mdProjectName,
			author:      firstNonEmpty(mdAuthor, config.Get(config.KeyAuthor)),
			email:       firstNonEmpty(mdEmail, config.Get(config.KeyEmail)),
			url:         config.Get(config.KeyURL),
			yes:         mdYes,
			now:         time.Now(),
		})
	},
}

var mdRemoveCmd = &cobra.Command{
	Use:   "remove <type>",
	Short: "Remove a documentation file from a project",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return removeDoc(afero.NewOsFs(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], mdProjectPath, mdYes)
	},
}

func writeDocList(w io.Writer, category string, recommendedOnly bool) error {
	available, err := docs.Available()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Available Markdown Documentation Files:")
	fmt.Fprintln(w, strings.Repeat("=", 50))

	var categories []string
	byCategory := make(map[string][]docs.Doc)
	for _, d := range available {
		if category != "" && !strings.EqualFold(d.Category, category) {
			continue
		}
		if recommendedOnly && !d.Recommended {
			continue
		}
		if _, ok := byCategory[d.Category]; !ok {
			categories = append(categories, d.Category)
		}
		byCategory[d.Category] = append(byCategory[d.Category], d)
	}

	for _, c := range categories {
		fmt.Fprintf(w, "\n📁 %s\n", c)
		fmt.Fprintln(w, strings.Repeat("-", 30))
		for _, d := range byCategory[c] {
			status := "   Optional"
			if d.Recommended {
				status = "⭐ RECOMMENDED"
			}
			fmt.Fprintf(w, "  %-15s - %s\n", d.Type, d.File)
			fmt.Fprintf(w, "  %-15s   %s\n", "", d.Description)
			fmt.Fprintf(w, "  %-15s   %s\n\n", "", status)
		}
	}

	fmt.Fprintln(w, "\nUsage Examples:")
	fmt.Fprintf(w, "  Add file:    %s md add changelog\n", rootCmd.Name())
	fmt.Fprintf(w, "  Remove file: %s md remove changelog\n", rootCmd.Name())
	return nil
}

type docOptions struct {
	projectPath string
	projectName string
	author      string
	email       string
	url         string
	yes         bool
	now         time.Time
}

func addDoc(fsys afero.Fs, in io.Reader, out io.Writer, docType string, opts docOptions) error {
	dir, err := projectDir(fsys, opts.projectPath)
	if err != nil {
		return err
	}
	d, err := docs.Lookup(docType)
	if err != nil {
		return usageError{err}
	}

	overwrite := false
	if docs.Present(fsys, dir, docType) {
		if err := confirm(in, out, d.File+" already exists. Overwrite?", opts.yes); err != nil {
			return err
		}
		overwrite = true
	}

	name := firstNonEmpty(opts.projectName, filepath.Base(dir))
	data := scaffold.NewData(name, scaffold.Metadata{
		Author: opts.author,
		Email:  opts.email,
		URL:    opts.url,
	}, opts.now)

	path, err := docs.Add(fsys, dir, docType, scaffold.DocData(data), overwrite)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✅ Created %s in %s\n", filepath.Base(path), dir)
	fmt.Fprintln(out, "📝 Edit the file to customize it for your project")
	return nil
}

func removeDoc(fsys afero.Fs, in io.Reader, out io.Writer, docType, projectPath string, yes bool) error {
	dir, err := projectDir(fsys, projectPath)
	if err != nil {
		return err
	}
	d, err := docs.Lookup(docType)
	if err != nil {
		return usageError{err}
	}
	if !docs.Present(fsys, dir, docType) {
		return fmt.Errorf("%w: %s does not exist in %s", docs.ErrNotPresent, d.File, dir)
	}
	if err := confirm(in, out, "Are you sure you want to remove "+d.File+"?", yes); err != nil {
		return err
	}
	if _, err := docs.Remove(fsys, dir, docType); err != nil {
		return err
	}
	fmt.Fprintf(out, "✅ Removed %s from %s\n", d.File, dir)
	return nil
}

func projectDir(fsys afero.Fs, path string) (string, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	ok, err := afero.DirExists(fsys, dir)
	if err != nil {
		return "", fmt.Errorf("checking %s: %w", dir, err)
	}
	if !ok {
		return "", fmt.Errorf("project path does not exist: %s", dir)
	}
	return dir, nil
}
