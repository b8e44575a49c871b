// Package openai implements denote.Completer against any OpenAI-compatible
// chat completions API using langchaingo.
package openai

import (
	"context"
	"net/http"
	"strings"

	"github.com/fwojciec/denote"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider defaults.
const (
	DefaultAPIURL = "https://api.openai.com/v1/chat/completions"
	DefaultModel  = "gpt-4o-mini"
)

// Completion settings.
const (
	MaxTokens   = 1024
	Temperature = 0.3
)

// placeholderToken satisfies the client's token requirement when no key is
// configured. The transport removes it before the request leaves.
const placeholderToken = "unauthenticated"

// Ensure Completer implements denote.Completer at compile time.
var _ denote.Completer = (*Completer)(nil)

// Config configures a Completer.
type Config struct {
	// APIURL is the full chat completions endpoint.
	APIURL string
	Model  string

	// APIKey may be empty for local providers that accept unauthenticated
	// requests. No Authorization header is sent then.
	APIKey string

	HTTPClient *http.Client
}

// Completer implements denote.Completer.
type Completer struct {
	llm   llms.Model
	model string
}

// NewCompleter creates a new Completer.
func NewCompleter(cfg Config) (*Completer, error) {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	token := cfg.APIKey
	if token == "" {
		token = placeholderToken
		c := *client
		c.Transport = &noAuthTransport{next: client.Transport}
		client = &c
	}

	llm, err := openai.New(
		openai.WithToken(token),
		openai.WithModel(cfg.Model),
		openai.WithBaseURL(BaseURL(cfg.APIURL)),
		openai.WithHTTPClient(client),
	)
	if err != nil {
		return nil, denote.Errorf(denote.EINVALID, "failed to initialize LLM: %v", err)
	}
	return &Completer{llm: llm, model: cfg.Model}, nil
}

// Complete sends the system prompt followed by the conversation and returns
// the first choice. Non-success statuses are returned as errors.
func (c *Completer) Complete(ctx context.Context, systemPrompt string, messages []denote.ChatMessage) (string, error) {
	content := make([]llms.MessageContent, 0, len(messages)+1)
	content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	for _, m := range messages {
		role := llms.ChatMessageTypeHuman
		if m.Role == denote.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.TextParts(role, m.Content))
	}

	resp, err := c.llm.GenerateContent(ctx, content,
		llms.WithModel(c.model),
		llms.WithMaxTokens(MaxTokens),
		llms.WithTemperature(Temperature),
	)
	if err != nil {
		return "", denote.Errorf(denote.EUNAVAILABLE, "chat completion failed: %v", err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}

// BaseURL derives the client base URL from a full chat completions
// endpoint. URLs without the endpoint suffix are used as they are.
func BaseURL(apiURL string) string {
	return strings.TrimSuffix(strings.TrimSuffix(apiURL, "/"), "/chat/completions")
}

// noAuthTransport strips the Authorization header.
type noAuthTransport struct {
	next http.RoundTripper
}

func (t *noAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}
	if req.Header.Get("Authorization") == "" {
		return next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Del("Authorization")
	return next.RoundTrip(r)
}
