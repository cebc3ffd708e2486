package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tablekit/quicklinks/internal/adventure"
	"github.com/tablekit/quicklinks/internal/viewer"
)

var renderOutput string

var renderCmd = &cobra.Command{
	Use:   "render <id>",
	Short: "Write the self-contained viewer page for an adventure",
	Args:  cobra.ExactArgs(1),
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
		adv, err := openStore(cfg).Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := renderOutput
		if out == "" {
			out = args[0] + ".html"
		}
		if err := renderFile(renderer, pdfs, adv, out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
		return nil
	},
}

// renderFile writes the viewer document for adv to path.
func renderFile(renderer *viewer.Renderer, pdfs *viewer.PDFSource, adv *adventure.Adventure, path string) error {
	pdf, err := pdfs.For(adv)
	if err != nil {
		return err
	}
	data, err := renderer.Render(adv, pdf.Data, pdf.Name)
	if err != nil {
		return fmt.Errorf("rendering %q: %w", adv.Title, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (default <id>.html)")
	rootCmd.AddCommand(renderCmd)
}
