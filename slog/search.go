package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/denote"
)

// Ensure LoggingSearchIndex implements denote.SearchIndex.
var _ denote.SearchIndex = (*LoggingSearchIndex)(nil)

// LoggingSearchIndex wraps a SearchIndex with debug logging.
type LoggingSearchIndex struct {
	next   denote.SearchIndex
	logger *slog.Logger
}

// NewLoggingSearchIndex creates a new LoggingSearchIndex.
func NewLoggingSearchIndex(next denote.SearchIndex, logger *slog.Logger) *LoggingSearchIndex {
	return &LoggingSearchIndex{next: next, logger: logger}
}

// BuildSearchIndex delegates to the wrapped index.
func (s *LoggingSearchIndex) BuildSearchIndex(ctx context.Context) (entries []denote.SearchEntry, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("build search index",
			"entries", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.BuildSearchIndex(ctx)
}

// ClearSearchIndex delegates to the wrapped index.
func (s *LoggingSearchIndex) ClearSearchIndex() {
	s.logger.Debug("clear search index")
	s.next.ClearSearchIndex()
}
