package denote

import (
	"fmt"
	"strings"
)

// MCP tool and resource names advertised to AI agents.
var (
	MCPTools     = []string{"search_docs", "get_doc", "get_all_docs"}
	MCPResources = []string{"docs://index", "docs://{slug}"}
)

// FormatLlmsTxt renders llms.txt: a listing of every page that tells AI
// agents what the documentation contains and how to fetch it.
func FormatLlmsTxt(site *Site, docs []*Document, baseURL string) string {
	name := site.Config.Name
	lines := []string{
		"# " + name,
		"",
		"> " + name + " documentation",
		"",
		"## Docs",
		"",
	}

	for _, doc := range docs {
		desc := doc.Summary()
		if desc == "" {
			desc = doc.Title()
		}
		lines = append(lines, fmt.Sprintf("- [%s](%s%s): %s", doc.Title(), baseURL, site.DocPath(doc.Slug), desc))
	}

	lines = append(lines,
		"",
		"## API",
		"",
		fmt.Sprintf("- [Full docs as markdown](%s/llms-full.txt): Complete documentation in a single markdown file", baseURL),
		fmt.Sprintf("- [Structured JSON](%s/api/docs): All documentation pages as structured JSON", baseURL),
	)

	if site.Config.AI.MCP {
		lines = append(lines,
			"",
			"## MCP (Model Context Protocol)",
			"",
			fmt.Sprintf("For richer AI integration, connect via MCP at `%s/mcp` (Streamable HTTP transport).", baseURL),
			fmt.Sprintf("Tools: %s. Resources: %s.", strings.Join(MCPTools, ", "), strings.Join(MCPResources, ", ")),
		)
	}

	return strings.Join(lines, "\n")
}

// FormatRobotsTxt renders robots.txt: allow everything and point crawlers at
// the sitemap.
func FormatRobotsTxt(baseURL string) string {
	return "User-agent: *\nAllow: /\n\nSitemap: " + baseURL + "/sitemap.xml\n"
}

// FormatFullDocs renders every document into a single markdown text sized
// for LLM context windows. The same text grounds AI chat answers.
func FormatFullDocs(name string, docs []*Document) string {
	var sb strings.Builder
	sb.WriteString("# " + name + ": Complete Documentation\n\n")

	for _, doc := range docs {
		sb.WriteString("---\n\n")
		sb.WriteString("## " + doc.Title() + "\n")
		if summary := doc.Summary(); summary != "" {
			sb.WriteString("\n*" + summary + "*\n")
		}
		if len(doc.Frontmatter.AIKeywords) > 0 {
			sb.WriteString("\nKeywords: " + strings.Join(doc.Frontmatter.AIKeywords, ", ") + "\n")
		}
		sb.WriteString("\n" + doc.Content + "\n\n")
	}

	return sb.String()
}

// DocsJSON is the structured projection of the corpus served to AI agents.
type DocsJSON struct {
	Name        string     `json:"name"`
	Pages       []PageJSON `json:"pages"`
	LlmsFullTxt string     `json:"llmsFullTxt,omitempty"`
	MCP         *MCPJSON   `json:"mcp,omitempty"`
}

// PageJSON is one page of DocsJSON.
type PageJSON struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	AISummary   string     `json:"aiSummary,omitempty"`
	AIKeywords  []string   `json:"aiKeywords,omitempty"`
	Content     string     `json:"content"`
	Headings    []TOCEntry `json:"headings"`
}

// MCPJSON advertises the MCP endpoint in DocsJSON.
type MCPJSON struct {
	Endpoint  string   `json:"endpoint"`
	Transport string   `json:"transport"`
	Tools     []string `json:"tools"`
}

// NewDocsJSON projects docs into DocsJSON. Links to richer access layers are
// included only when baseURL is set.
func NewDocsJSON(site *Site, docs []*Document, baseURL string) *DocsJSON {
	out := &DocsJSON{
		Name:  site.Config.Name,
		Pages: make([]PageJSON, 0, len(docs)),
	}
	for _, doc := range docs {
		headings := ExtractHeadings(doc.Content)
		if headings == nil {
			headings = []TOCEntry{}
		}
		out.Pages = append(out.Pages, PageJSON{
			Slug:        doc.Slug,
			Title:       doc.Title(),
			Description: doc.Frontmatter.Description,
			AISummary:   doc.Frontmatter.AISummary,
			AIKeywords:  doc.Frontmatter.AIKeywords,
			Content:     doc.Content,
			Headings:    headings,
		})
	}

	if baseURL != "" {
		out.LlmsFullTxt = baseURL + "/llms-full.txt"
		if site.Config.AI.MCP {
			out.MCP = &MCPJSON{
				Endpoint:  baseURL + "/mcp",
				Transport: "Streamable HTTP",
				Tools:     MCPTools,
			}
		}
	}
	return out
}
