package denote

import "context"

// ChatRole identifies the author of a chat message.
type ChatRole string

// Chat roles.
const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMode reports which path produced a chat answer.
type ChatMode string

// Chat modes.
const (
	ModeAI     ChatMode = "ai"
	ModeSearch ChatMode = "search"
)

// MaxChatSources caps the sources attached to a chat response.
const MaxChatSources = 5

// ChatMessage is a single turn of a conversation.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// ChatRequest is a conversation submitted by a user.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// LastUserMessage returns the content of the final message, which the
// chat widget always sends as the user's latest question.
func (r *ChatRequest) LastUserMessage() string {
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[len(r.Messages)-1].Content
}

// Validate returns an error if the request contains invalid fields.
func (r *ChatRequest) Validate() error {
	for i, m := range r.Messages {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return Errorf(EINVALID, "message %d: unknown role %q", i, m.Role)
		}
	}
	return nil
}

// Source is a document cited by a chat answer.
type Source struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// ChatResponse is the uniform answer shape for both chat modes.
type ChatResponse struct {
	Message ChatMessage `json:"message"`
	Sources []Source    `json:"sources"`
	Mode    ChatMode    `json:"mode"`
}

// ChatService answers questions about the documentation.
type ChatService interface {
	// HandleChat answers the last user message of the conversation. Provider
	// failures are not returned: the answer degrades to search mode instead.
	HandleChat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// Completer is an LLM backend that continues a conversation.
type Completer interface {
	// Complete returns the assistant's reply to messages under systemPrompt.
	// Any failure, including a non-success status from the provider, is
	// returned as an error.
	Complete(ctx context.Context, systemPrompt string, messages []ChatMessage) (string, error)
}
