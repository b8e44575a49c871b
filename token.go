package denote

import (
	"context"
	"unicode/utf8"
)

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// EstimateTokens approximates the token count of text at four characters
// per token.
func EstimateTokens(text string) int {
	return utf8.RuneCountInString(text) / 4
}
