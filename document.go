package denote

import (
	"context"
	"path"
	"strings"
)

// DefaultTitle is used when a document has no usable title in its frontmatter.
const DefaultTitle = "Untitled"

// DocumentExt is the file extension of documents in the content directory.
const DocumentExt = ".md"

// Frontmatter holds the structured metadata block at the top of a document.
type Frontmatter struct {
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description,omitempty" yaml:"description"`
	Icon         string   `json:"icon,omitempty" yaml:"icon"`
	SidebarTitle string   `json:"sidebarTitle,omitempty" yaml:"sidebarTitle"`
	Order        *int     `json:"order,omitempty" yaml:"order"`
	Image        string   `json:"image,omitempty" yaml:"image"`
	AISummary    string   `json:"aiSummary,omitempty" yaml:"ai-summary"`
	AIKeywords   []string `json:"aiKeywords,omitempty" yaml:"ai-keywords"`
}

// Document represents a markdown page loaded from the content directory.
type Document struct {
	Slug        string      `json:"slug"`
	Frontmatter Frontmatter `json:"frontmatter"`
	Content     string      `json:"content"`
	SourcePath  string      `json:"sourcePath"`
	ContentHash string      `json:"contentHash"`
}

// Title returns the document title.
func (d *Document) Title() string {
	return d.Frontmatter.Title
}

// Summary returns the best available one-line description of the document,
// preferring the AI summary over the description.
func (d *Document) Summary() string {
	if d.Frontmatter.AISummary != "" {
		return d.Frontmatter.AISummary
	}
	return d.Frontmatter.Description
}

// FrontmatterParser splits a raw document into frontmatter and body.
// Implementations never fail: malformed metadata degrades to defaults.
type FrontmatterParser interface {
	Parse(raw string) (Frontmatter, string)
}

// DocumentService represents a service for loading documents by slug.
type DocumentService interface {
	// FindDocument retrieves a document by slug.
	// Returns ENOTFOUND if no file backs the slug or the slug resolves
	// outside the content directory.
	FindDocument(ctx context.Context, slug string) (*Document, error)

	// FindDocuments retrieves every document in the content directory.
	FindDocuments(ctx context.Context) ([]*Document, error)
}

// Invalidator evicts cached state derived from the content directory.
type Invalidator interface {
	// Invalidate evicts entries loaded from the file at path.
	Invalidate(path string)

	// InvalidateAll evicts everything.
	InvalidateAll()
}

// Invalidators fans invalidation out to several caches in order.
type Invalidators []Invalidator

// Invalidate calls Invalidate on every element.
func (a Invalidators) Invalidate(path string) {
	for _, inv := range a {
		inv.Invalidate(path)
	}
}

// InvalidateAll calls InvalidateAll on every element.
func (a Invalidators) InvalidateAll() {
	for _, inv := range a {
		inv.InvalidateAll()
	}
}

// SlugFromPath derives a slug from a slash-separated path relative to the
// content directory. A file named index.md contributes the slug of its
// parent directory, or "index" at the root.
func SlugFromPath(rel string) string {
	rel = strings.TrimPrefix(path.Clean(rel), "/")
	dir, file := path.Split(rel)
	if file == "index"+DocumentExt {
		dir = strings.TrimSuffix(dir, "/")
		if dir == "" {
			return "index"
		}
		return dir
	}
	return dir + strings.TrimSuffix(file, DocumentExt)
}
