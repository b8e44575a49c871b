// Package cache provides the render cache layered over a DocumentService.
package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fwojciec/denote"
	"golang.org/x/sync/singleflight"
)

// Ensure RenderCache implements the domain interfaces at compile time.
var (
	_ denote.RenderService = (*RenderCache)(nil)
	_ denote.Invalidator   = (*RenderCache)(nil)
)

// RenderCache caches rendered documents by slug. A cached render is served
// only while the DocumentService still returns the exact Document it was
// rendered from, so renders never outlive their source.
type RenderCache struct {
	docs     denote.DocumentService
	renderer denote.Renderer

	mu      sync.RWMutex
	entries map[string]*denote.RenderedDocument

	group singleflight.Group
}

// NewRenderCache creates a new RenderCache.
func NewRenderCache(docs denote.DocumentService, renderer denote.Renderer) *RenderCache {
	return &RenderCache{
		docs:     docs,
		renderer: renderer,
		entries:  make(map[string]*denote.RenderedDocument),
	}
}

// FindRenderedDocument returns the rendered form of the document with the
// given slug, rendering it at most once per document version.
func (c *RenderCache) FindRenderedDocument(ctx context.Context, slug string) (*denote.RenderedDocument, error) {
	doc, err := c.docs.FindDocument(ctx, slug)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	cached := c.entries[slug]
	c.mu.RUnlock()
	if cached != nil && cached.Document == doc && cached.Document.ContentHash == doc.ContentHash {
		return cached, nil
	}

	v, err, _ := c.group.Do(fmt.Sprintf("%s\x00%p", slug, doc), func() (any, error) {
		html, toc, err := c.renderer.Render(ctx, doc.Content)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", slug, err)
		}
		rendered := &denote.RenderedDocument{Document: doc, HTML: html, TOC: toc}

		c.mu.Lock()
		c.entries[slug] = rendered
		c.mu.Unlock()
		return rendered, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*denote.RenderedDocument), nil
}

// Invalidate evicts renders of documents loaded from path. A relative path
// is resolved against the working directory, as the store does.
func (c *RenderCache) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for slug, r := range c.entries {
		if r.Document.SourcePath == abs {
			delete(c.entries, slug)
		}
	}
}

// InvalidateAll evicts every render.
func (c *RenderCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*denote.RenderedDocument)
}

// Len returns the number of cached renders.
func (c *RenderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
