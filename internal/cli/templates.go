package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tbrumbaugh5396/python-project-generator/internal/catalog"
	"github.com/tbrumbaugh5396/python-project-generator/internal/config"
)

var (
	templatesJSON     bool
	templatesFeatures []string
)

func init() {
	templatesCmd.PersistentFlags().BoolVar(&templatesJSON, "json", false, "Output in JSON format")
	templatesListCmd.Flags().StringSliceVar(&templatesFeatures, "feature", nil, "Only list templates with this feature tag (repeatable)")
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	rootCmd.AddCommand(templatesCmd)
}

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"template"},
	Short:   "Browse the template catalog",
	Long: `Browse the builtin templates and any descriptors found in the user
catalog directory (~/.python-project-generator/catalog.d).`,
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	Example: `  pygen templates list
  pygen templates list --feature web_framework --feature docker`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := commandCatalog(cmd)
		if err != nil {
			return err
		}
		descs := cat.WithFeatures(templatesFeatures...)
		if templatesJSON {
			if descs == nil {
				descs = []*catalog.Descriptor{}
			}
			return writeJSON(cmd.OutOrStdout(), descs)
		}
		if len(descs) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No templates with features: %s\n", strings.Join(templatesFeatures, ", "))
			return nil
		}
		return writeTemplateTable(cmd.OutOrStdout(), descs)
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <template-id>",
	Short: "Show details for one template",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := commandCatalog(cmd)
		if err != nil {
			return err
		}
		d, err := cat.Lookup(args[0])
		if err != nil {
			return fmt.Errorf("%w (run '%s templates list')", err, rootCmd.Name())
		}
		if templatesJSON {
			return writeJSON(cmd.OutOrStdout(), d)
		}
		writeTemplateDetail(cmd.OutOrStdout(), d)
		return nil
	},
}

func commandCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	config.Load()
	return loadCatalog(newLogger(cmd.ErrOrStderr()))
}

// printTemplateSummary is the legacy --list-templates output.
func printTemplateSummary(cmd *cobra.Command) error {
	cat, err := commandCatalog(cmd)
	if err != nil {
		return err
	}
	writeTemplateSummary(cmd.OutOrStdout(), cat)
	return nil
}

func writeTemplateSummary(w io.Writer, cat *catalog.Catalog) {
	fmt.Fprintln(w, "Available templates:")
	for _, d := range cat.List() {
		fmt.Fprintf(w, "  %s: %s\n", d.ID, d.Name)
		fmt.Fprintf(w, "    %s\n", d.Description)
	}
}

func writeTemplateTable(w io.Writer, descs []*catalog.Descriptor) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tNAME")
	for _, d := range descs {
		id := d.ID
		if d.ID == catalog.DefaultID {
			id += " (default)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", id, d.Kind, d.Name)
	}
	return tw.Flush()
}

func writeTemplateDetail(w io.Writer, d *catalog.Descriptor) {
	fmt.Fprintf(w, "%s (%s)\n", d.Name, d.ID)
	if d.Description != "" {
		fmt.Fprintf(w, "\n%s\n", d.Description)
	}
	fmt.Fprintf(w, "\nKind:    %s\n", d.Kind)
	fmt.Fprintf(w, "Source:  %s\n", d.Source)
	if d.Origin != catalog.OriginBuiltin {
		fmt.Fprintf(w, "Defined: %s\n", d.Origin)
	}

	writeList(w, "Features", d.Features)
	writeList(w, "Dependencies", d.Dependencies)
	writeList(w, "Use cases", d.UseCases)
	writeList(w, "Key features", d.KeyFeatures)

	if len(d.Structure) > 0 {
		fmt.Fprintln(w, "\nStructure:")
		if d.StructureDescription != "" {
			fmt.Fprintf(w, "  %s\n", d.StructureDescription)
		}
		for _, line := range d.Structure {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func writeList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", strings.TrimSpace(item))
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
