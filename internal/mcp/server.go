package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/tablekit/quicklinks/internal/annotate"
	"github.com/tablekit/quicklinks/internal/pdfdoc"
	"github.com/tablekit/quicklinks/internal/store"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes adventure lookup tools.
type Server struct {
	store     *store.Store
	annotator *annotate.Annotator
	pdf       *pdfdoc.Document
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies. pdf may
// be nil, in which case get_page_text reports that no PDF is loaded.
func NewServer(st *store.Store, annotator *annotate.Annotator, pdf *pdfdoc.Document) *Server {
	if annotator == nil {
		annotator = annotate.New(annotate.Options{})
	}
	s := &Server{
		store:     st,
		annotator: annotator,
		pdf:       pdf,
	}

	s.mcp = server.NewMCPServer(
		"quicklinks",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listAdventuresTool, s.handleListAdventures)
	s.mcp.AddTool(getAdventureTool, s.handleGetAdventure)
	s.mcp.AddTool(annotateTextTool, s.handleAnnotateText)
	s.mcp.AddTool(findPageReferencesTool, s.handleFindPageReferences)
	s.mcp.AddTool(getPageTextTool, s.handleGetPageText)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
