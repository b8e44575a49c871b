package mock

import (
	"context"

	"github.com/fwojciec/denote"
)

var _ denote.ChatService = (*ChatService)(nil)

// ChatService is a mock implementation of denote.ChatService.
type ChatService struct {
	HandleChatFn func(ctx context.Context, req *denote.ChatRequest) (*denote.ChatResponse, error)
}

func (s *ChatService) HandleChat(ctx context.Context, req *denote.ChatRequest) (*denote.ChatResponse, error) {
	return s.HandleChatFn(ctx, req)
}

var _ denote.Completer = (*Completer)(nil)

// Completer is a mock implementation of denote.Completer.
type Completer struct {
	CompleteFn func(ctx context.Context, systemPrompt string, messages []denote.ChatMessage) (string, error)
}

func (c *Completer) Complete(ctx context.Context, systemPrompt string, messages []denote.ChatMessage) (string, error) {
	return c.CompleteFn(ctx, systemPrompt, messages)
}
