// Package slog provides logging decorators over denote services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/denote"
)

// Ensure LoggingDocumentService implements denote.DocumentService.
var _ denote.DocumentService = (*LoggingDocumentService)(nil)

// LoggingDocumentService wraps a DocumentService with debug logging.
type LoggingDocumentService struct {
	next   denote.DocumentService
	logger *slog.Logger
}

// NewLoggingDocumentService creates a new LoggingDocumentService.
func NewLoggingDocumentService(next denote.DocumentService, logger *slog.Logger) *LoggingDocumentService {
	return &LoggingDocumentService{next: next, logger: logger}
}

// FindDocument delegates to the wrapped service and logs the lookup.
// Not-found lookups are expected traffic and logged at debug level.
func (s *LoggingDocumentService) FindDocument(ctx context.Context, slug string) (doc *denote.Document, err error) {
	defer func(begin time.Time) {
		level := slog.LevelDebug
		if err != nil && denote.ErrorCode(err) != denote.ENOTFOUND {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "find document",
			"slug", slug,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDocument(ctx, slug)
}

// FindDocuments delegates to the wrapped service and logs the corpus size.
func (s *LoggingDocumentService) FindDocuments(ctx context.Context) (docs []*denote.Document, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find documents",
			"count", len(docs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDocuments(ctx)
}
