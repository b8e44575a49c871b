package gemini

import (
	"context"

	"github.com/fwojciec/denote"
	"google.golang.org/genai"
)

// DefaultModel is used when the provider config names no model.
const DefaultModel = "gemini-2.5-flash"

// Ensure Completer implements denote.Completer at compile time.
var _ denote.Completer = (*Completer)(nil)

// Completer implements denote.Completer using Google Gemini.
type Completer struct {
	client *genai.Client
	model  string
}

// NewCompleter creates a new Completer. An empty model uses DefaultModel.
func NewCompleter(client *genai.Client, model string) *Completer {
	if model == "" {
		model = DefaultModel
	}
	return &Completer{client: client, model: model}
}

// Complete continues the conversation under systemPrompt.
func (c *Completer) Complete(ctx context.Context, systemPrompt string, messages []denote.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", denote.Errorf(denote.EINVALID, "messages required")
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, BuildContents(messages), BuildConfig(systemPrompt))
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", denote.Errorf(denote.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig(systemPrompt string) *genai.GenerateContentConfig {
	temp := float32(0.3)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		Temperature:     &temp,
		MaxOutputTokens: 1024,
	}
}

// BuildContents maps the conversation to Gemini contents. Assistant turns
// use the "model" role.
func BuildContents(messages []denote.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == denote.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return contents
}
