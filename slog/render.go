package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/denote"
)

// Ensure LoggingRenderService implements denote.RenderService.
var _ denote.RenderService = (*LoggingRenderService)(nil)

// LoggingRenderService wraps a RenderService with logging.
type LoggingRenderService struct {
	next   denote.RenderService
	logger *slog.Logger
}

// NewLoggingRenderService creates a new LoggingRenderService.
func NewLoggingRenderService(next denote.RenderService, logger *slog.Logger) *LoggingRenderService {
	return &LoggingRenderService{next: next, logger: logger}
}

// FindRenderedDocument delegates to the wrapped service. Render failures are
// logged as errors, everything else at debug level.
func (s *LoggingRenderService) FindRenderedDocument(ctx context.Context, slug string) (rd *denote.RenderedDocument, err error) {
	defer func(begin time.Time) {
		level := slog.LevelDebug
		if err != nil && denote.ErrorCode(err) != denote.ENOTFOUND {
			level = slog.LevelError
		}
		headings := 0
		if rd != nil {
			headings = len(rd.TOC)
		}
		s.logger.Log(ctx, level, "render document",
			"slug", slug,
			"headings", headings,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRenderedDocument(ctx, slug)
}
