package denote

import "context"

// HeadingIDPrefix is the DOM-clobbering guard prefix a sanitizing renderer
// puts in front of generated heading ids. It is stripped before HTML is
// served so that ids match TOC entries and in-page anchors resolve.
const HeadingIDPrefix = "user-content-"

// TOCEntry is one heading in a document's table of contents.
type TOCEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Level int    `json:"level"`
}

// RenderedDocument is a document with its rendered HTML and table of contents.
// It is derived from Document and never outlives it in any cache.
type RenderedDocument struct {
	Document *Document  `json:"document"`
	HTML     string     `json:"html"`
	TOC      []TOCEntry `json:"toc"`
}

// Renderer converts a markdown body into HTML and a table of contents.
type Renderer interface {
	Render(ctx context.Context, markdown string) (html string, toc []TOCEntry, err error)
}

// RenderService represents a service for retrieving rendered documents.
type RenderService interface {
	// FindRenderedDocument retrieves the rendered form of a document by slug.
	// Returns ENOTFOUND if the document does not exist.
	FindRenderedDocument(ctx context.Context, slug string) (*RenderedDocument, error)
}
