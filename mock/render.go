package mock

import (
	"context"

	"github.com/fwojciec/denote"
)

var _ denote.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of denote.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, markdown string) (string, []denote.TOCEntry, error)
}

func (r *Renderer) Render(ctx context.Context, markdown string) (string, []denote.TOCEntry, error) {
	return r.RenderFn(ctx, markdown)
}

var _ denote.RenderService = (*RenderService)(nil)

// RenderService is a mock implementation of denote.RenderService.
type RenderService struct {
	FindRenderedDocumentFn func(ctx context.Context, slug string) (*denote.RenderedDocument, error)
}

func (s *RenderService) FindRenderedDocument(ctx context.Context, slug string) (*denote.RenderedDocument, error) {
	return s.FindRenderedDocumentFn(ctx, slug)
}
