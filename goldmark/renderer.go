// Package goldmark renders markdown to HTML with GitHub Flavored Markdown
// and syntax highlighting.
package goldmark

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fwojciec/denote"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Ensure Renderer implements denote.Renderer at compile time.
var _ denote.Renderer = (*Renderer)(nil)

// DefaultStyle is the chroma style used for code blocks.
const DefaultStyle = "github"

// Renderer converts markdown to HTML. Raw HTML in the source is omitted.
// Heading ids carry denote.HeadingIDPrefix, as do the TOC entries.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(DefaultStyle),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	return &Renderer{md: md}
}

// Render parses markdown once and returns the HTML and the headings in
// document order.
func (r *Renderer) Render(ctx context.Context, markdown string) (string, []denote.TOCEntry, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	src := []byte(markdown)
	pctx := parser.NewContext(parser.WithIDs(newHeadingIDs()))
	doc := r.md.Parser().Parse(text.NewReader(src), parser.WithContext(pctx))

	var toc []denote.TOCEntry
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var id string
		if v, ok := h.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		toc = append(toc, denote.TOCEntry{
			ID:    id,
			Title: string(h.Text(src)),
			Level: h.Level,
		})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return "", nil, fmt.Errorf("walk markdown: %w", err)
	}

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return "", nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), toc, nil
}

// headingIDs generates prefixed heading ids with denote.Slugify, unique
// within one document.
type headingIDs struct {
	ids *denote.HeadingIDs
}

func newHeadingIDs() *headingIDs {
	return &headingIDs{ids: denote.NewHeadingIDs()}
}

// Generate implements parser.IDs.
func (h *headingIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	return []byte(denote.HeadingIDPrefix + h.ids.Unique(denote.Slugify(string(value))))
}

// Put implements parser.IDs.
func (h *headingIDs) Put(value []byte) {
	h.ids.Unique(string(bytes.TrimPrefix(value, []byte(denote.HeadingIDPrefix))))
}
