package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tablekit/quicklinks/internal/store"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print an adventure record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		adv, err := openStore(cfg).Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		data, err := store.Encode(adv)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
