package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/denote"
)

// Ensure LoggingChatService implements denote.ChatService.
var _ denote.ChatService = (*LoggingChatService)(nil)

// LoggingChatService wraps a ChatService with logging.
type LoggingChatService struct {
	next   denote.ChatService
	logger *slog.Logger
}

// NewLoggingChatService creates a new LoggingChatService.
func NewLoggingChatService(next denote.ChatService, logger *slog.Logger) *LoggingChatService {
	return &LoggingChatService{next: next, logger: logger}
}

// HandleChat delegates to the wrapped service and logs the answer mode.
func (s *LoggingChatService) HandleChat(ctx context.Context, req *denote.ChatRequest) (resp *denote.ChatResponse, err error) {
	defer func(begin time.Time) {
		var mode denote.ChatMode
		var sources int
		if resp != nil {
			mode = resp.Mode
			sources = len(resp.Sources)
		}
		messages := 0
		if req != nil {
			messages = len(req.Messages)
		}
		s.logger.Info("chat",
			"messages", messages,
			"mode", mode,
			"sources", sources,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.HandleChat(ctx, req)
}

// Ensure LoggingCompleter implements denote.Completer.
var _ denote.Completer = (*LoggingCompleter)(nil)

// LoggingCompleter wraps a Completer with logging. Prompt and reply text
// are never logged, only their sizes.
type LoggingCompleter struct {
	next     denote.Completer
	provider string
	logger   *slog.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter.
func NewLoggingCompleter(next denote.Completer, provider string, logger *slog.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, provider: provider, logger: logger}
}

// Complete delegates to the wrapped completer.
func (c *LoggingCompleter) Complete(ctx context.Context, systemPrompt string, messages []denote.ChatMessage) (reply string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("completion",
			"provider", c.provider,
			"prompt_tokens_est", denote.EstimateTokens(systemPrompt),
			"messages", len(messages),
			"reply_len", len(reply),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Complete(ctx, systemPrompt, messages)
}
