package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tbrumbaugh5396/python-project-generator/internal/catalog"
	"github.com/tbrumbaugh5396/python-project-generator/internal/config"
	"github.com/tbrumbaugh5396/python-project-generator/internal/scaffold"
)

func init() {
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a project with an interactive form",
	Long: `Walks through project name, location, template, metadata and feature
toggles, then generates the project exactly like 'generate' would.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !stdinIsTerminal() {
			return usageError{fmt.Errorf("new needs an interactive terminal; use '%s generate' instead", rootCmd.Name())}
		}
		config.Load()
		log := newLogger(cmd.ErrOrStderr())
		g, cat, err := newGenerator(log)
		if err != nil {
			return err
		}

		answers := newAnswers{
			OutputDir:  ".",
			TemplateID: firstNonEmpty(config.Get(config.KeyTemplate), catalog.DefaultID),
			Author:     config.Get(config.KeyAuthor),
			Email:      config.Get(config.KeyEmail),
		}
		if err := runNewForm(cmd, g, cat, &answers); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), subtleStyle.Render("Cancelled."))
				return nil
			}
			return err
		}
		if !answers.Confirmed {
			fmt.Fprintln(cmd.OutOrStdout(), subtleStyle.Render("Nothing generated."))
			return nil
		}
		features, err := g.Features(answers.TemplateID)
		if err != nil {
			return err
		}
		for _, f := range features {
			answers.known = append(answers.known, f.Name)
		}

		res, err := g.Generate(cmd.Context(), answers.request(config.Get(config.KeyLicense), config.Get(config.KeyURL)))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderResultPanel(res))
		return nil
	},
}

// newAnswers holds the values bound to the interactive form.
type newAnswers struct {
	ProjectName string
	OutputDir   string
	TemplateID  string
	Author      string
	Email       string
	Description string
	Features    []string
	Confirmed   bool

	// known lists every toggle offered for TemplateID.
	known []string
}

// request turns the answers into a generation request. Toggles that were
// offered but left unselected are disabled explicitly.
func (a newAnswers) request(license, url string) scaffold.Request {
	flags := make(scaffold.FeatureFlags, len(a.known))
	for _, tag := range a.known {
		flags[tag] = false
	}
	for _, tag := range a.Features {
		flags[tag] = true
	}
	return scaffold.Request{
		ProjectName: strings.TrimSpace(a.ProjectName),
		OutputDir:   a.OutputDir,
		TemplateID:  a.TemplateID,
		Features:    flags,
		Metadata: scaffold.Metadata{
			Author:      a.Author,
			Email:       a.Email,
			Description: a.Description,
			License:     license,
			URL:         url,
		},
	}
}

func runNewForm(cmd *cobra.Command, g *scaffold.Generator, cat *catalog.Catalog, a *newAnswers) error {
	templateOpts := make([]huh.Option[string], 0, cat.Len())
	for _, d := range cat.List() {
		templateOpts = append(templateOpts, huh.NewOption(fmt.Sprintf("%s  %s", d.Name, subtleStyle.Render(d.ID)), d.ID))
	}

	featureOpts := func() []huh.Option[string] {
		features, err := g.Features(a.TemplateID)
		if err != nil {
			return nil
		}
		opts := make([]huh.Option[string], 0, len(features))
		for _, f := range features {
			opts = append(opts, huh.NewOption(f.Name, f.Name).Selected(f.Default))
		}
		sort.SliceStable(opts, func(i, j int) bool { return opts[i].Key < opts[j].Key })
		return opts
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Value(&a.ProjectName).
				Validate(func(s string) error {
					return scaffold.Request{ProjectName: s, OutputDir: "."}.Validate()
				}),
			huh.NewInput().
				Title("Output directory").
				Value(&a.OutputDir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("output directory is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Template").
				Options(templateOpts...).
				Height(10).
				Value(&a.TemplateID),
		).Title("Project"),
		huh.NewGroup(
			huh.NewInput().Title("Author").Placeholder(scaffold.DefaultAuthor).Value(&a.Author),
			huh.NewInput().Title("Email").Placeholder(scaffold.DefaultEmail).Value(&a.Email),
			huh.NewInput().Title("Description").Value(&a.Description),
		).Title("Metadata"),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Features").
				Description("space toggles, enter continues").
				OptionsFunc(featureOpts, &a.TemplateID).
				Value(&a.Features),
			huh.NewConfirm().
				TitleFunc(func() string {
					return fmt.Sprintf("Generate %s?", filepath.Join(a.OutputDir, strings.TrimSpace(a.ProjectName)))
				}, &a.ProjectName).
				Value(&a.Confirmed),
		).Title("Options"),
	).
		WithTheme(huh.ThemeCharm()).
		WithShowHelp(true).
		WithProgramOptions(tea.WithOutput(cmd.ErrOrStderr()))

	return form.RunWithContext(cmd.Context())
}

func renderResultPanel(res *scaffold.Result) string {
	var b strings.Builder
	b.WriteString(successStyle.Render("✅ Project generated successfully!"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render("Location:"), res.ProjectDir)
	fmt.Fprintf(&b, "%s %s", titleStyle.Render("Template:"), res.TemplateID)
	if res.Layout != "" && res.Layout != res.TemplateID {
		b.WriteString(subtleStyle.Render(" (" + res.Layout + " layout)"))
	}
	fmt.Fprintf(&b, "\n%s %d written, %d skipped\n", titleStyle.Render("Files:"), len(res.Files), len(res.Skipped))
	if res.Fallback {
		b.WriteString("\n" + warnStyle.Render("⚠️  Requested template unavailable, default template used") + "\n")
	}
	for _, w := range res.Warnings {
		b.WriteString(warnStyle.Render("⚠️  "+w) + "\n")
	}
	b.WriteString("\n" + titleStyle.Render("Next steps:") + "\n")
	fmt.Fprintf(&b, "  cd '%s'\n  pip install -e .", res.ProjectDir)
	return panelStyle.Render(b.String())
}
