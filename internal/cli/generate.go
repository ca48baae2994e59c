package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbrumbaugh5396/python-project-generator/internal/catalog"
	"github.com/tbrumbaugh5396/python-project-generator/internal/config"
	"github.com/tbrumbaugh5396/python-project-generator/internal/scaffold"
)

var (
	genOutput      string
	genTemplate    string
	genAuthor      string
	genEmail       string
	genDescription string
	genVersion     string
	genURL         string
	genLicense     string
	genWith        []string
	genWithout     []string
	genForce       bool
)

// cliDefaultFeatures are switched on for command-line generation unless
// --without says otherwise.
var cliDefaultFeatures = []string{"cli", "tests", "pypi_packaging", "readme", "changelog", "gitignore", "license"}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genOutput, "output", "o", ".", "Directory the project folder is created in")
	f.StringVarP(&genTemplate, "template", "t", "", "Template id (default from config, else "+catalog.DefaultID+")")
	f.StringVar(&genAuthor, "author", "", "Author name")
	f.StringVar(&genEmail, "email", "", "Author email")
	f.StringVar(&genDescription, "description", "", "Project description")
	f.StringVar(&genVersion, "version", scaffold.DefaultVersion, "Initial project version")
	f.StringVar(&genURL, "url", "", "Project homepage URL")
	f.StringVar(&genLicense, "license", "", "License identifier (default from config, else MIT)")
	f.StringSliceVar(&genWith, "with", nil, "Enable a feature tag (repeatable)")
	f.StringSliceVar(&genWithout, "without", nil, "Disable a feature tag (repeatable)")
	f.BoolVar(&genForce, "force", false, "Write into a non-empty project directory")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate <project-name>",
	Short: "Generate a new Python project",
	Long: `Generate a new Python project from a template.

  pygen generate my-tool
  pygen generate my-api -t fastapi-web-api --with docker --author "Ada Lovelace"
  pygen generate my-lib -o ~/src --without tests`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		log := newLogger(cmd.ErrOrStderr())

		req, err := buildRequest(args[0])
		if err != nil {
			return err
		}
		g, _, err := newGenerator(log)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Generating project '%s' using template '%s'...\n", req.ProjectName, displayTemplate(req.TemplateID))
		res, err := g.Generate(cmd.Context(), req)
		if err != nil {
			fmt.Fprintln(out, "❌ Project generation failed!")
			return err
		}
		printResult(out, res)
		return nil
	},
}

// buildRequest assembles a generation request from flags and config defaults.
func buildRequest(name string) (scaffold.Request, error) {
	features, err := featureFlags(cliDefaultFeatures, genWith, genWithout)
	if err != nil {
		return scaffold.Request{}, usageError{err}
	}
	req := scaffold.Request{
		ProjectName: name,
		OutputDir:   genOutput,
		TemplateID:  firstNonEmpty(genTemplate, config.Get(config.KeyTemplate)),
		Features:    features,
		Overwrite:   genForce,
		Metadata: scaffold.Metadata{
			Author:      firstNonEmpty(genAuthor, config.Get(config.KeyAuthor)),
			Email:       firstNonEmpty(genEmail, config.Get(config.KeyEmail)),
			Description: genDescription,
			Version:     genVersion,
			URL:         firstNonEmpty(genURL, config.Get(config.KeyURL)),
			License:     firstNonEmpty(genLicense, config.Get(config.KeyLicense)),
		},
	}
	if err := req.Validate(); err != nil {
		return scaffold.Request{}, usageError{err}
	}
	return req, nil
}

// featureFlags turns defaults and --with/--without tags into flags. A tag may
// not be both enabled and disabled.
func featureFlags(defaults, with, without []string) (scaffold.FeatureFlags, error) {
	flags := make(scaffold.FeatureFlags, len(defaults)+len(with)+len(without))
	for _, tag := range defaults {
		flags[tag] = true
	}
	enabled := make(map[string]bool, len(with))
	for _, tag := range with {
		tag = strings.TrimSpace(tag)
		enabled[tag] = true
		flags[tag] = true
	}
	for _, tag := range without {
		tag = strings.TrimSpace(tag)
		if enabled[tag] {
			return nil, fmt.Errorf("feature %q given to both --with and --without", tag)
		}
		flags[tag] = false
	}
	return flags, nil
}

func printResult(w io.Writer, res *scaffold.Result) {
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "⚠️  %s\n", warning)
	}
	if res.Fallback {
		fmt.Fprintf(w, "⚠️  Requested template unavailable, generated '%s' instead\n", res.TemplateID)
	}
	fmt.Fprintln(w, "✅ Project generated successfully!")
	location := res.ProjectDir
	if abs, err := filepath.Abs(location); err == nil {
		location = abs
	}
	fmt.Fprintf(w, "📁 Location: %s\n", location)
	fmt.Fprintf(w, "   %d files written", len(res.Files))
	if len(res.Skipped) > 0 {
		fmt.Fprintf(w, ", %d skipped by feature toggles", len(res.Skipped))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintf(w, "  cd '%s'\n", res.ProjectDir)
	fmt.Fprintln(w, "  pip install -e .")
	if hasPrefix(res.Files, "tests/") {
		fmt.Fprintln(w, "  python -m pytest tests/")
	}
}

func hasPrefix(files []string, prefix string) bool {
	for _, f := range files {
		if strings.HasPrefix(f, prefix) {
			return true
		}
	}
	return false
}

func displayTemplate(id string) string {
	if id == "" {
		return catalog.DefaultID
	}
	return id
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
