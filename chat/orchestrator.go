// Package chat answers questions about the documentation, using an LLM when
// one is configured and keyword ranking otherwise.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/denote"
)

// Ensure Orchestrator implements denote.ChatService at compile time.
var _ denote.ChatService = (*Orchestrator)(nil)

// Fixed assistant messages.
const (
	NoMatchMessage    = "I couldn't find any documentation matching your question. Try rephrasing or browse the docs directly."
	EmptyReplyMessage = "Sorry, I couldn't generate a response."
	SearchIntro       = "Here are the most relevant documentation pages for your question:"
	SearchOutro       = "Click a link to read more. For AI-powered answers, configure an AI provider in `denote.toml`."
)

// Orchestrator implements denote.ChatService.
type Orchestrator struct {
	site      *denote.Site
	docs      denote.DocumentService
	index     denote.SearchIndex
	completer denote.Completer
	logger    *slog.Logger

	// Timeout bounds a single completion call.
	Timeout time.Duration
}

// NewOrchestrator creates a new Orchestrator. A nil completer answers every
// question from the search index.
func NewOrchestrator(site *denote.Site, docs denote.DocumentService, index denote.SearchIndex, completer denote.Completer, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		site:      site,
		docs:      docs,
		index:     index,
		completer: completer,
		logger:    logger,
		Timeout:   denote.DefaultChatTimeout,
	}
}

// HandleChat answers the last message of req. Provider failures and timeouts
// degrade to a search answer and are never returned.
func (o *Orchestrator) HandleChat(ctx context.Context, req *denote.ChatRequest) (*denote.ChatResponse, error) {
	if req == nil {
		req = &denote.ChatRequest{}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	query := req.LastUserMessage()

	if o.completer != nil {
		resp, err := o.aiChat(ctx, req, query)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		o.logger.Warn("AI provider failed, falling back to search", "err", err)
	}

	return o.searchChat(ctx, query)
}

func (o *Orchestrator) aiChat(ctx context.Context, req *denote.ChatRequest, query string) (*denote.ChatResponse, error) {
	docs, err := o.docs.FindDocuments(ctx)
	if err != nil {
		return nil, err
	}
	name := o.site.Config.Name
	prompt := SystemPrompt(name, denote.FormatFullDocs(name, docs))

	cctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	reply, err := o.completer.Complete(cctx, prompt, req.Messages)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reply) == "" {
		reply = EmptyReplyMessage
	}

	sources, err := o.sources(ctx, query)
	if err != nil {
		return nil, err
	}
	return &denote.ChatResponse{
		Message: denote.ChatMessage{Role: denote.RoleAssistant, Content: reply},
		Sources: sources,
		Mode:    denote.ModeAI,
	}, nil
}

func (o *Orchestrator) searchChat(ctx context.Context, query string) (*denote.ChatResponse, error) {
	sources, err := o.sources(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(sources) == 0 {
		return &denote.ChatResponse{
			Message: denote.ChatMessage{Role: denote.RoleAssistant, Content: NoMatchMessage},
			Sources: sources,
			Mode:    denote.ModeSearch,
		}, nil
	}

	lines := make([]string, len(sources))
	for i, s := range sources {
		lines[i] = fmt.Sprintf("• **[%s](%s)**", s.Title, o.site.DocPath(s.Slug))
	}
	return &denote.ChatResponse{
		Message: denote.ChatMessage{
			Role:    denote.RoleAssistant,
			Content: SearchIntro + "\n\n" + strings.Join(lines, "\n") + "\n\n" + SearchOutro,
		},
		Sources: sources,
		Mode:    denote.ModeSearch,
	}, nil
}

// sources ranks the index against query. The result is never nil.
func (o *Orchestrator) sources(ctx context.Context, query string) ([]denote.Source, error) {
	index, err := o.index.BuildSearchIndex(ctx)
	if err != nil {
		return nil, err
	}

	ranked := denote.Rank(index, query)
	if len(ranked) > denote.MaxChatSources {
		ranked = ranked[:denote.MaxChatSources]
	}
	sources := make([]denote.Source, len(ranked))
	for i, r := range ranked {
		sources[i] = denote.Source{Title: r.Title, Slug: r.Slug}
	}
	return sources, nil
}

// SystemPrompt grounds the assistant in the full documentation text.
func SystemPrompt(name, fullDocs string) string {
	return "You are a helpful documentation assistant for " + name + ". " +
		"Answer questions based ONLY on the documentation provided below. " +
		"If the answer isn't in the docs, say so. Be concise and helpful.\n\n" +
		"--- DOCUMENTATION ---\n" + fullDocs
}
