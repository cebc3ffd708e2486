package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tablekit/quicklinks/internal/adventure"
	"github.com/tablekit/quicklinks/internal/pdfdoc"
	"github.com/tablekit/quicklinks/internal/viewer"
)

var checkCmd = &cobra.Command{
	Use:   "check [id...]",
	Short: "Validate keyword links against the PDF page count",
	Long: `Checks every keyword link of the named adventures (all adventures when no
identifier is given): links past the last PDF page and malformed links are
errors, keywords that never appear in their section body are warnings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pdfs, err := openPDFs(cfg)
		if err != nil {
			return err
		}
		st := openStore(cfg)
		ids := args
		if len(ids) == 0 {
			if ids, err = st.List(cmd.Context()); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		pages := make(map[string]int)
		failed := 0
		for _, id := range ids {
			adv, err := st.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			pdf, err := pdfs.For(adv)
			if err != nil {
				return err
			}
			n, ok := pages[pdf.Path]
			if !ok {
				if n, err = pageCount(pdf); err != nil {
					return err
				}
				pages[pdf.Path] = n
			}

			issues := adventure.Check(adv, n)
			if len(issues) == 0 {
				fmt.Fprintf(out, "%s: ok\n", id)
				continue
			}
			fmt.Fprintf(out, "%s:\n", id)
			for _, i := range issues {
				fmt.Fprintf(out, "  %s\n", i)
			}
			if adventure.HasErrors(issues) {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d adventure(s) have broken links", failed)
		}
		return nil
	},
}

func pageCount(pdf *viewer.PDFFile) (int, error) {
	doc, err := pdfdoc.Open(pdf.Data)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", pdf.Name, err)
	}
	return doc.NumPages(), nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
