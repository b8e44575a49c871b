package goquery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/denote"
)

// Ensure Renderer implements denote.Renderer at compile time.
var _ denote.Renderer = (*Renderer)(nil)

// Renderer wraps a Renderer whose heading ids carry denote.HeadingIDPrefix.
// It strips the prefix so ids match in-page anchors, and derives the table
// of contents from the normalized HTML.
type Renderer struct {
	next denote.Renderer
}

// NewRenderer creates a new Renderer.
func NewRenderer(next denote.Renderer) *Renderer {
	return &Renderer{next: next}
}

// Render renders markdown with next and normalizes the result.
func (r *Renderer) Render(ctx context.Context, markdown string) (string, []denote.TOCEntry, error) {
	html, _, err := r.next.Render(ctx, markdown)
	if err != nil {
		return "", nil, err
	}
	return NormalizeHeadings(html)
}

// NormalizeHeadings strips denote.HeadingIDPrefix from every id attribute
// and from in-page fragment links, then returns the HTML with the h1-h6
// headings that carry an id.
func NormalizeHeadings(html string) (string, []denote.TOCEntry, error) {
	if !strings.Contains(html, denote.HeadingIDPrefix) {
		return html, ExtractTOC(html), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", nil, denote.Errorf(denote.EINTERNAL, "failed to parse HTML: %v", err)
	}

	doc.Find("[id]").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		sel.SetAttr("id", strings.TrimPrefix(id, denote.HeadingIDPrefix))
	})
	doc.Find(`a[href^="#` + denote.HeadingIDPrefix + `"]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		sel.SetAttr("href", "#"+strings.TrimPrefix(href, "#"+denote.HeadingIDPrefix))
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", nil, denote.Errorf(denote.EINTERNAL, "failed to render HTML: %v", err)
	}
	return out, tocFromDocument(doc), nil
}

// ExtractTOC returns the h1-h6 headings with an id attribute in document
// order. Malformed HTML yields no entries.
func ExtractTOC(html string) []denote.TOCEntry {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	return tocFromDocument(doc)
}

func tocFromDocument(doc *goquery.Document) []denote.TOCEntry {
	var toc []denote.TOCEntry
	doc.Find("h1[id], h2[id], h3[id], h4[id], h5[id], h6[id]").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		if id == "" {
			return
		}
		toc = append(toc, denote.TOCEntry{
			ID:    id,
			Title: strings.TrimSpace(sel.Text()),
			Level: headingLevel(goquery.NodeName(sel)),
		})
	})
	return toc
}

func headingLevel(name string) int {
	if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
		return int(name[1] - '0')
	}
	return 0
}
