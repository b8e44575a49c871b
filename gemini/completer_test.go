package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/denote"
	"github.com/fwojciec/denote/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleter_Complete_RequiresMessages(t *testing.T) {
	t.Parallel()

	c := gemini.NewCompleter(nil, "") // nil client ok for this test

	_, err := c.Complete(context.Background(), "system", nil)

	require.Error(t, err)
	assert.Equal(t, denote.EINVALID, denote.ErrorCode(err))
	assert.Contains(t, denote.ErrorMessage(err), "messages required")
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig("be helpful")

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Equal(t, "be helpful", config.SystemInstruction.Parts[0].Text)
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.3, *config.Temperature, 0.001)
	assert.Equal(t, int32(1024), config.MaxOutputTokens)
}

func TestBuildContents(t *testing.T) {
	t.Parallel()

	contents := gemini.BuildContents([]denote.ChatMessage{
		{Role: denote.RoleUser, Content: "How do I install?"},
		{Role: denote.RoleAssistant, Content: "Run the installer."},
		{Role: denote.RoleUser, Content: "Thanks"},
	})

	require.Len(t, contents, 3)
	assert.Equal(t, "user", string(contents[0].Role))
	assert.Equal(t, "model", string(contents[1].Role))
	assert.Equal(t, "user", string(contents[2].Role))
	assert.Equal(t, "Run the installer.", contents[1].Parts[0].Text)
}
