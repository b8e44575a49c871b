// Package search builds and caches the search index over the document corpus.
package search

import (
	"context"
	"strconv"
	"sync"

	"github.com/fwojciec/denote"
	"golang.org/x/sync/singleflight"
)

// Ensure Index implements the domain interfaces at compile time.
var (
	_ denote.SearchIndex = (*Index)(nil)
	_ denote.Invalidator = (*Index)(nil)
)

// Index caches the search index until it is cleared. Any invalidation of the
// corpus clears it.
type Index struct {
	docs denote.DocumentService

	mu      sync.RWMutex
	entries []denote.SearchEntry
	built   bool
	gen     uint64

	group singleflight.Group
}

// NewIndex creates a new Index.
func NewIndex(docs denote.DocumentService) *Index {
	return &Index{docs: docs}
}

// BuildSearchIndex returns the cached index, building it on first use.
// Repeated calls return the same slice until the index is cleared.
func (x *Index) BuildSearchIndex(ctx context.Context) ([]denote.SearchEntry, error) {
	x.mu.RLock()
	entries, built, gen := x.entries, x.built, x.gen
	x.mu.RUnlock()
	if built {
		return entries, nil
	}

	v, err, _ := x.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		docs, err := x.docs.FindDocuments(ctx)
		if err != nil {
			return nil, err
		}
		entries := make([]denote.SearchEntry, len(docs))
		for i, doc := range docs {
			entries[i] = denote.NewSearchEntry(doc)
		}

		x.mu.Lock()
		defer x.mu.Unlock()
		if x.gen == gen {
			x.entries, x.built = entries, true
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]denote.SearchEntry), nil
}

// ClearSearchIndex drops the cached index.
func (x *Index) ClearSearchIndex() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.gen++
	x.entries, x.built = nil, false
}

// Invalidate clears the index. Any document change may alter it.
func (x *Index) Invalidate(string) {
	x.ClearSearchIndex()
}

// InvalidateAll clears the index.
func (x *Index) InvalidateAll() {
	x.ClearSearchIndex()
}
