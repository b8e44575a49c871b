package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/denote"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	ToolSearchDocs = "search_docs"
	ToolGetDoc     = "get_doc"
	ToolGetAllDocs = "get_all_docs"
)

// resultSeparator divides search results and documents in tool output.
const resultSeparator = "\n\n---\n\n"

// SearchDocsInput is the input schema for the search_docs tool.
type SearchDocsInput struct {
	Query string `json:"query" jsonschema:"search query"`
}

// GetDocInput is the input schema for the get_doc tool.
type GetDocInput struct {
	Slug string `json:"slug" jsonschema:"page slug (e.g. 'introduction' or 'guides/install')"`
}

// GetAllDocsInput is the empty input schema for the get_all_docs tool.
type GetAllDocsInput struct{}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolSearchDocs,
		Description: "Search the documentation for a query. Returns matching page titles, descriptions, and content snippets.",
	}, s.handleSearchDocs)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolGetDoc,
		Description: "Get the full content of a documentation page by its slug.",
	}, s.handleGetDoc)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolGetAllDocs,
		Description: "Get the entire documentation as a single text. Warning: may be large for big doc sites. Consider search_docs or get_doc first.",
	}, s.handleGetAllDocs)
}

func (s *Server) handleSearchDocs(ctx context.Context, _ *mcp.CallToolRequest, input SearchDocsInput) (*mcp.CallToolResult, any, error) {
	index, err := s.index.BuildSearchIndex(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("build search index: %w", err)
	}

	results := denote.Search(index, input.Query)
	if len(results) == 0 {
		return textResult(fmt.Sprintf("No results found for %q", input.Query)), nil, nil
	}

	parts := make([]string, len(results))
	for i, r := range results {
		lines := []string{"## " + r.Title, "Slug: " + r.Slug}
		if r.Description != "" {
			lines = append(lines, r.Description)
		}
		if r.AISummary != "" {
			lines = append(lines, "AI Summary: "+r.AISummary)
		}
		if len(r.AIKeywords) > 0 {
			lines = append(lines, "Keywords: "+strings.Join(r.AIKeywords, ", "))
		}
		lines = append(lines, "", denote.Snippet(r.Excerpt, strings.TrimSpace(input.Query)))
		parts[i] = strings.Join(lines, "\n")
	}
	return textResult(strings.Join(parts, resultSeparator)), nil, nil
}

func (s *Server) handleGetDoc(ctx context.Context, _ *mcp.CallToolRequest, input GetDocInput) (*mcp.CallToolResult, any, error) {
	doc, err := s.docs.FindDocument(ctx, input.Slug)
	if denote.ErrorCode(err) == denote.ENOTFOUND {
		return textResult("Page not found: " + input.Slug), nil, nil
	} else if err != nil {
		return nil, nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", doc.Title())
	if doc.Frontmatter.Description != "" {
		fmt.Fprintf(&sb, "> %s\n\n", doc.Frontmatter.Description)
	}
	sb.WriteString(doc.Content)
	return textResult(sb.String()), nil, nil
}

func (s *Server) handleGetAllDocs(ctx context.Context, _ *mcp.CallToolRequest, _ GetAllDocsInput) (*mcp.CallToolResult, any, error) {
	docs, err := s.docs.FindDocuments(ctx)
	if err != nil {
		return nil, nil, err
	}

	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = fmt.Sprintf("# %s\n\n%s", d.Title(), d.Content)
	}
	body := strings.Join(parts, resultSeparator)

	preamble := fmt.Sprintf("> %d documents, ~%d tokens\n\n", len(docs), denote.EstimateTokens(body))
	return textResult(preamble + body), nil, nil
}
