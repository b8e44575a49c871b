package gemini

import (
	"context"

	"github.com/fwojciec/denote"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// TokenizerModel is the model whose local tokenizer sizes corpus exports.
const TokenizerModel = "gemini-2.0-flash"

var _ denote.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens offline with a Gemini tokenizer, so the size of
// llms-full.txt can be checked against a context window.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a new TokenCounter. An empty model uses
// TokenizerModel.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = TokenizerModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, denote.Errorf(denote.EUNAVAILABLE, "tokenizer for %s unavailable: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the tokens of text as a single user turn.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}
