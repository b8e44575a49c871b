package http

import "github.com/fwojciec/denote"

// Page is the JSON representation of a rendered documentation page.
type Page struct {
	Slug        string              `json:"slug"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	HTML        string              `json:"html"`
	TOC         []denote.TOCEntry   `json:"toc"`
	Prev        *denote.NavLink     `json:"prev"`
	Next        *denote.NavLink     `json:"next"`
	Breadcrumbs []denote.Breadcrumb `json:"breadcrumbs"`
	EditURL     string              `json:"editUrl,omitempty"`
}

// NewPage builds a Page with its navigation context.
func NewPage(site *denote.Site, rd *denote.RenderedDocument) *Page {
	doc := rd.Document
	p := &Page{
		Slug:        doc.Slug,
		Title:       doc.Title(),
		Description: doc.Frontmatter.Description,
		HTML:        rd.HTML,
		TOC:         rd.TOC,
		Breadcrumbs: site.Breadcrumbs(site.DocPath(doc.Slug)),
		EditURL:     site.EditLink(doc.Slug),
	}
	p.Prev, p.Next = site.PrevNext(site.DocPath(doc.Slug))
	if p.TOC == nil {
		p.TOC = []denote.TOCEntry{}
	}
	if p.Breadcrumbs == nil {
		p.Breadcrumbs = []denote.Breadcrumb{}
	}
	return p
}
