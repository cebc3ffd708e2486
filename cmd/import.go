package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tablekit/quicklinks/internal/store"
)

var importAs string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Copy an adventure JSON file into the store",
	Long: `Reads an adventure JSON file (for example one downloaded from the editor),
normalizes it and saves it under the slug of its title, or under --as.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		adv, err := store.Decode(data)
		if err != nil {
			return fmt.Errorf("%s is not a valid adventure file: %w", args[0], err)
		}

		st := openStore(cfg)
		var res store.SaveResult
		if importAs != "" {
			res, err = st.SaveAs(cmd.Context(), importAs, adv)
		} else {
			res, err = st.Save(cmd.Context(), adv)
		}
		if err != nil {
			return err
		}
		if w := res.Warning(); w != "" {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", st.Path(res.ID))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importAs, "as", "", "store under this identifier instead of the title slug")
	rootCmd.AddCommand(importCmd)
}
