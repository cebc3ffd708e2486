package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tablekit/quicklinks/internal/adventure"
	"github.com/tablekit/quicklinks/internal/annotate"
	"github.com/tablekit/quicklinks/internal/store"
)

// handleListAdventures returns the stored adventure identifiers, one per line.
func (s *Server) handleListAdventures(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing adventures failed: %v", err)), nil
	}
	if len(ids) == 0 {
		return mcp.NewToolResultText("No adventures found."), nil
	}
	return mcp.NewToolResultText(strings.Join(ids, "\n")), nil
}

// handleGetAdventure returns one adventure record as JSON.
func (s *Server) handleGetAdventure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}
	adv, errResult := s.load(ctx, id)
	if errResult != nil {
		return errResult, nil
	}
	data, err := store.Encode(adv)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding adventure: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleAnnotateText runs the annotator over free text with an adventure's links.
func (s *Server) handleAnnotateText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}
	id, err := request.RequireString("adventure_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: adventure_id"), nil
	}

	annotator := s.annotator
	if m := request.GetString("mode", ""); m != "" {
		mode, err := annotate.ParseMode(m)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opts := annotator.Options()
		opts.Mode = mode
		annotator = annotate.New(opts)
	}

	adv, errResult := s.load(ctx, id)
	if errResult != nil {
		return errResult, nil
	}

	sectionID := request.GetString("section_id", "")
	var links []adventure.KeywordLink
	found := sectionID == ""
	for _, sec := range adv.Sections {
		if sectionID != "" && sec.ID != sectionID {
			continue
		}
		found = true
		links = append(links, sec.Keywords...)
	}
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("adventure %q has no section %q", id, sectionID)), nil
	}

	return mcp.NewToolResultText(annotator.Annotate(text, links)), nil
}

// pageReference is one keyword link that points at the requested page.
type pageReference struct {
	adventure string
	section   string
	keyword   string
}

// handleFindPageReferences lists every keyword link targeting a page.
func (s *Server) handleFindPageReferences(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page := request.GetInt("page", 0)
	if page < 1 {
		return mcp.NewToolResultError("page must be a positive integer"), nil
	}

	ids := []string{}
	if id := request.GetString("adventure_id", ""); id != "" {
		ids = append(ids, id)
	} else {
		var err error
		if ids, err = s.store.List(ctx); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("listing adventures failed: %v", err)), nil
		}
	}

	var refs []pageReference
	for _, id := range ids {
		adv, errResult := s.load(ctx, id)
		if errResult != nil {
			return errResult, nil
		}
		for _, sec := range adv.Sections {
			for _, k := range sec.Keywords {
				if k.Page == page {
					refs = append(refs, pageReference{adventure: id, section: sectionLabel(sec), keyword: k.Keyword})
				}
			}
		}
	}

	if len(refs) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No keywords link to page %d.", page)), nil
	}
	return mcp.NewToolResultText(formatReferences(page, refs)), nil
}

// handleGetPageText returns the text layer of one rules PDF page.
func (s *Server) handleGetPageText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.pdf == nil {
		return mcp.NewToolResultError("no rules PDF is loaded"), nil
	}
	page := request.GetInt("page", 0)
	if page < 1 || page > s.pdf.NumPages() {
		return mcp.NewToolResultError(fmt.Sprintf("page must be between 1 and %d", s.pdf.NumPages())), nil
	}
	text, err := s.pdf.Text(page)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading page %d: %v", page, err)), nil
	}
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultText(fmt.Sprintf("Page %d has no extractable text.", page)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// load reads an adventure, turning store errors into tool errors.
func (s *Server) load(ctx context.Context, id string) (*adventure.Adventure, *mcp.CallToolResult) {
	adv, err := s.store.Load(ctx, id)
	if err == nil {
		return adv, nil
	}
	var fe *store.FormatError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, mcp.NewToolResultError(fmt.Sprintf("adventure %q not found", id))
	case errors.As(err, &fe):
		return nil, mcp.NewToolResultError(fmt.Sprintf("adventure %q could not be read: %v", id, fe.Err))
	default:
		return nil, mcp.NewToolResultError(fmt.Sprintf("loading adventure %q: %v", id, err))
	}
}

func sectionLabel(sec adventure.Section) string {
	switch {
	case sec.ID != "" && sec.Title != "":
		return sec.ID + ". " + sec.Title
	case sec.ID != "":
		return sec.ID
	default:
		return sec.Title
	}
}

// formatReferences renders references grouped by adventure.
func formatReferences(page int, refs []pageReference) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d reference(s) to page %d:\n", len(refs), page))
	last := ""
	for _, r := range refs {
		if r.adventure != last {
			sb.WriteString(fmt.Sprintf("\n%s\n", r.adventure))
			last = r.adventure
		}
		sb.WriteString(fmt.Sprintf("  - %s: %q\n", r.section, r.keyword))
	}
	return sb.String()
}
