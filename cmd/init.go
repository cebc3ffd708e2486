package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tablekit/quicklinks/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize quicklinks configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to pick the rules PDF and adventure directory and generates a .quicklinks.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
