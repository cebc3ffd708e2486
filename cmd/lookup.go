package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tablekit/quicklinks/internal/adventure"
	"github.com/tablekit/quicklinks/internal/navigator"
	"github.com/tablekit/quicklinks/internal/pdfdoc"
)

var lookupWidth float64

var lookupCmd = &cobra.Command{
	Use:   "lookup <id> <keyword>",
	Short: "Follow a keyword link and print the text of its PDF page",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pdfs, err := openPDFs(cfg)
		if err != nil {
			return err
		}
		adv, err := openStore(cfg).Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		link, ok := findLink(adv, args[1])
		if !ok {
			return fmt.Errorf("adventure %q has no keyword %q", args[0], args[1])
		}
		pdf, err := pdfs.For(adv)
		if err != nil {
			return err
		}

		surface := pdfdoc.NewTextSurface(lookupWidth)
		nav := navigator.New(pdfdoc.Backend{}, surface, navigatorOptions(cfg))
		if err := nav.Load(cmd.Context(), pdf.Data); err != nil {
			return err
		}
		nav.Wait()
		if !nav.ClickKeyword(link.Page) {
			snap := nav.Snapshot()
			return fmt.Errorf("page %d is outside %s (%d pages)", link.Page, pdf.Name, snap.Total)
		}
		nav.Wait()

		snap := nav.Snapshot()
		if snap.Err != "" {
			return fmt.Errorf("%s", snap.Err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s -> %s page %d of %d (scale %.2f)\n\n", link.Label(), pdf.Name, surface.Page(), snap.Total, surface.Scale())
		fmt.Fprintln(out, strings.TrimSpace(surface.Text()))
		return nil
	},
}

// findLink returns the first link for keyword, preferring an exact match.
func findLink(adv *adventure.Adventure, keyword string) (adventure.KeywordLink, bool) {
	var fold *adventure.KeywordLink
	for _, sec := range adv.Sections {
		for i, k := range sec.Keywords {
			if k.Keyword == keyword {
				return k, true
			}
			if fold == nil && strings.EqualFold(k.Keyword, keyword) {
				fold = &sec.Keywords[i]
			}
		}
	}
	if fold != nil {
		return *fold, true
	}
	return adventure.KeywordLink{}, false
}

func init() {
	lookupCmd.Flags().Float64Var(&lookupWidth, "width", 1224, "viewport width in points used for fit-to-width")
	rootCmd.AddCommand(lookupCmd)
}
