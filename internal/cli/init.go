package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tbrumbaugh5396/python-project-generator/internal/userdata"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the home directory, template cache and user catalog",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Initializing home directory:")
		if err := userdata.InitHome(afero.NewOsFs(), out); err != nil {
			return err
		}
		fmt.Fprintln(out, "\n✅ Done. Drop template descriptors into the catalog.d directory to extend the catalog.")
		return nil
	},
}
