package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tablekit/quicklinks/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "quicklinks",
	Short: "Adventure quick-link sheets beside a rules PDF",
	Long: `Quicklinks keeps tabletop adventures as small JSON records and turns
them into self-contained viewer pages: the rules PDF on one side, the
adventure text on the other, with every linked keyword jumping the PDF to
its page.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
