package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tablekit/quicklinks/internal/progress"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render every adventure into a directory of viewer pages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pdfs, err := openPDFs(cfg)
		if err != nil {
			return err
		}
		renderer, err := createRendererFromConfig(cfg)
		if err != nil {
			return err
		}
		st := openStore(cfg)
		ids, err := st.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No adventures found.")
			return nil
		}
		if err := os.MkdirAll(exportDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", exportDir, err)
		}

		reporter := progress.NewReporter(os.Stderr, "Exporting")
		reporter.Start(len(ids))
		var errs []error
		for i, id := range ids {
			reporter.Update(i+1, id)
			adv, err := st.Load(cmd.Context(), id)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if err := renderFile(renderer, pdfs, adv, filepath.Join(exportDir, id+".html")); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", id, err))
			}
		}
		reporter.Finish()

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d of %d adventure(s) to %s\n", len(ids)-len(errs), len(ids), exportDir)
		return errors.Join(errs...)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "output", "o", "site", "output directory")
	rootCmd.AddCommand(exportCmd)
}
