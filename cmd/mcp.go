package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/tablekit/quicklinks/internal/mcp"
	"github.com/tablekit/quicklinks/internal/pdfdoc"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing adventure lookup and annotation tools for AI agents.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		annotator, err := createAnnotatorFromConfig(cfg)
		if err != nil {
			return err
		}

		doc, _, err := pdfdoc.ReadFile(cfg.PDF)
		if err != nil {
			// Page text is optional; the adventure tools work without a PDF.
			fmt.Fprintf(os.Stderr, "Warning: could not open %s: %v\n", cfg.PDF, err)
			fmt.Fprintf(os.Stderr, "get_page_text will be unavailable.\n")
		}

		st := openStore(cfg)

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		pages := 0
		if doc != nil {
			pages = doc.NumPages()
		}
		fmt.Fprintf(os.Stderr, "quicklinks MCP server started on stdio (adventures=%s, pdf pages=%d)\n", st.Dir(), pages)

		srv := mcpserver.NewServer(st, annotator, doc)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
