package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/denote"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriScheme = "docs://"

	// IndexURI lists every page.
	IndexURI = uriScheme + "index"
)

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         IndexURI,
		Name:        "docs-index",
		Description: "Index of all documentation pages",
		MIMEType:    "text/plain",
	}, s.handleIndexResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "{+slug}",
		Name:        "doc-page",
		Description: "Markdown source of a documentation page",
		MIMEType:    "text/markdown",
	}, s.handleDocResource)
}

func (s *Server) handleIndexResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	docs, err := s.docs.FindDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	lines := make([]string, len(docs))
	for i, d := range docs {
		lines[i] = fmt.Sprintf("- %s (%s%s): %s", d.Title(), uriScheme, d.Slug, d.Summary())
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("# %s Documentation Index\n\n%s", s.site.Config.Name, strings.Join(lines, "\n")),
		}},
	}, nil
}

func (s *Server) handleDocResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	slug := strings.TrimPrefix(req.Params.URI, uriScheme)

	doc, err := s.docs.FindDocument(ctx, slug)
	if denote.ErrorCode(err) == denote.ENOTFOUND {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "text/plain",
				Text:     "Document not found: " + slug,
			}},
		}, nil
	} else if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     FormatDocument(doc),
		}},
	}, nil
}

// FormatDocument renders a document as markdown with its metadata quoted
// below the title.
func FormatDocument(doc *denote.Document) string {
	var meta []string
	if doc.Frontmatter.Description != "" {
		meta = append(meta, "> "+doc.Frontmatter.Description)
	}
	if doc.Frontmatter.AISummary != "" {
		meta = append(meta, "> AI Summary: "+doc.Frontmatter.AISummary)
	}
	if len(doc.Frontmatter.AIKeywords) > 0 {
		meta = append(meta, "> Keywords: "+strings.Join(doc.Frontmatter.AIKeywords, ", "))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", doc.Title())
	if len(meta) > 0 {
		sb.WriteString(strings.Join(meta, "\n"))
		sb.WriteString("\n\n")
	}
	sb.WriteString(doc.Content)
	return sb.String()
}
