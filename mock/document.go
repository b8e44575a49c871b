package mock

import (
	"context"

	"github.com/fwojciec/denote"
)

var _ denote.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of denote.DocumentService.
type DocumentService struct {
	FindDocumentFn  func(ctx context.Context, slug string) (*denote.Document, error)
	FindDocumentsFn func(ctx context.Context) ([]*denote.Document, error)
}

func (s *DocumentService) FindDocument(ctx context.Context, slug string) (*denote.Document, error) {
	return s.FindDocumentFn(ctx, slug)
}

func (s *DocumentService) FindDocuments(ctx context.Context) ([]*denote.Document, error) {
	return s.FindDocumentsFn(ctx)
}

var _ denote.Invalidator = (*Invalidator)(nil)

// Invalidator is a mock implementation of denote.Invalidator.
type Invalidator struct {
	InvalidateFn    func(path string)
	InvalidateAllFn func()
}

func (i *Invalidator) Invalidate(path string) {
	i.InvalidateFn(path)
}

func (i *Invalidator) InvalidateAll() {
	i.InvalidateAllFn()
}

var _ denote.FrontmatterParser = (*FrontmatterParser)(nil)

// FrontmatterParser is a mock implementation of denote.FrontmatterParser.
type FrontmatterParser struct {
	ParseFn func(raw string) (denote.Frontmatter, string)
}

func (p *FrontmatterParser) Parse(raw string) (denote.Frontmatter, string) {
	return p.ParseFn(raw)
}
