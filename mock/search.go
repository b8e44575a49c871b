package mock

import (
	"context"

	"github.com/fwojciec/denote"
)

var _ denote.SearchIndex = (*SearchIndex)(nil)

// SearchIndex is a mock implementation of denote.SearchIndex.
type SearchIndex struct {
	BuildSearchIndexFn func(ctx context.Context) ([]denote.SearchEntry, error)
	ClearSearchIndexFn func()
}

func (s *SearchIndex) BuildSearchIndex(ctx context.Context) ([]denote.SearchEntry, error) {
	return s.BuildSearchIndexFn(ctx)
}

func (s *SearchIndex) ClearSearchIndex() {
	s.ClearSearchIndexFn()
}
