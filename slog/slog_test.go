package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/denote"
	"github.com/fwojciec/denote/mock"
	dslog "github.com/fwojciec/denote/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingDocumentService_FindDocument(t *testing.T) {
	t.Parallel()

	t.Run("logs slug and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		doc := &denote.Document{Slug: "install"}
		inner := &mock.DocumentService{
			FindDocumentFn: func(_ context.Context, slug string) (*denote.Document, error) {
				return doc, nil
			},
		}

		got, err := dslog.NewLoggingDocumentService(inner, newLogger(&buf)).FindDocument(context.Background(), "install")

		require.NoError(t, err)
		assert.Same(t, doc, got)
		output := buf.String()
		assert.Contains(t, output, "level=DEBUG")
		assert.Contains(t, output, "find document")
		assert.Contains(t, output, "slug=install")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs not found at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.DocumentService{
			FindDocumentFn: func(_ context.Context, slug string) (*denote.Document, error) {
				return nil, denote.Errorf(denote.ENOTFOUND, "document not found")
			},
		}

		_, err := dslog.NewLoggingDocumentService(inner, newLogger(&buf)).FindDocument(context.Background(), "missing")

		assert.Equal(t, denote.ENOTFOUND, denote.ErrorCode(err))
		assert.Contains(t, buf.String(), "level=DEBUG")
	})

	t.Run("logs unexpected failures as errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.DocumentService{
			FindDocumentFn: func(_ context.Context, slug string) (*denote.Document, error) {
				return nil, errors.New("disk on fire")
			},
		}

		_, err := dslog.NewLoggingDocumentService(inner, newLogger(&buf)).FindDocument(context.Background(), "x")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), "disk on fire")
	})
}

func TestLoggingDocumentService_FindDocuments(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.DocumentService{
		FindDocumentsFn: func(_ context.Context) ([]*denote.Document, error) {
			return []*denote.Document{{Slug: "a"}, {Slug: "b"}}, nil
		},
	}

	docs, err := dslog.NewLoggingDocumentService(inner, newLogger(&buf)).FindDocuments(context.Background())

	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Contains(t, buf.String(), "count=2")
}

func TestLoggingRenderService_FindRenderedDocument(t *testing.T) {
	t.Parallel()

	t.Run("logs heading count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.RenderService{
			FindRenderedDocumentFn: func(_ context.Context, slug string) (*denote.RenderedDocument, error) {
				return &denote.RenderedDocument{TOC: []denote.TOCEntry{{ID: "a"}, {ID: "b"}}}, nil
			},
		}

		_, err := dslog.NewLoggingRenderService(inner, newLogger(&buf)).FindRenderedDocument(context.Background(), "guide")

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "render document")
		assert.Contains(t, buf.String(), "slug=guide")
		assert.Contains(t, buf.String(), "headings=2")
	})

	t.Run("logs render failure as error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.RenderService{
			FindRenderedDocumentFn: func(_ context.Context, slug string) (*denote.RenderedDocument, error) {
				return nil, errors.New("bad markdown")
			},
		}

		_, err := dslog.NewLoggingRenderService(inner, newLogger(&buf)).FindRenderedDocument(context.Background(), "guide")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=ERROR")
	})
}

func TestLoggingChatService_HandleChat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.ChatService{
		HandleChatFn: func(_ context.Context, req *denote.ChatRequest) (*denote.ChatResponse, error) {
			return &denote.ChatResponse{
				Mode:    denote.ModeSearch,
				Sources: []denote.Source{{Slug: "install"}},
			}, nil
		},
	}
	req := &denote.ChatRequest{Messages: []denote.ChatMessage{{Role: denote.RoleUser, Content: "secret question"}}}

	resp, err := dslog.NewLoggingChatService(inner, newLogger(&buf)).HandleChat(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, denote.ModeSearch, resp.Mode)
	output := buf.String()
	assert.Contains(t, output, "mode=search")
	assert.Contains(t, output, "sources=1")
	assert.Contains(t, output, "messages=1")
	assert.NotContains(t, output, "secret question")
}

func TestLoggingCompleter_Complete(t *testing.T) {
	t.Parallel()

	t.Run("logs provider without prompt text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Completer{
			CompleteFn: func(_ context.Context, systemPrompt string, messages []denote.ChatMessage) (string, error) {
				return "answer", nil
			},
		}

		reply, err := dslog.NewLoggingCompleter(inner, "openai", newLogger(&buf)).
			Complete(context.Background(), "confidential docs", nil)

		require.NoError(t, err)
		assert.Equal(t, "answer", reply)
		output := buf.String()
		assert.Contains(t, output, "provider=openai")
		assert.Contains(t, output, "reply_len=6")
		assert.NotContains(t, output, "confidential docs")
	})

	t.Run("logs error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Completer{
			CompleteFn: func(_ context.Context, systemPrompt string, messages []denote.ChatMessage) (string, error) {
				return "", denote.Errorf(denote.EUNAVAILABLE, "provider down")
			},
		}

		_, err := dslog.NewLoggingCompleter(inner, "gemini", newLogger(&buf)).Complete(context.Background(), "", nil)

		require.Error(t, err)
		assert.Contains(t, buf.String(), "provider down")
	})
}

func TestLoggingSearchIndex(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cleared := false
	inner := &mock.SearchIndex{
		BuildSearchIndexFn: func(_ context.Context) ([]denote.SearchEntry, error) {
			return []denote.SearchEntry{{Slug: "a"}}, nil
		},
		ClearSearchIndexFn: func() { cleared = true },
	}
	idx := dslog.NewLoggingSearchIndex(inner, newLogger(&buf))

	entries, err := idx.BuildSearchIndex(context.Background())
	idx.ClearSearchIndex()

	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.True(t, cleared)
	assert.Contains(t, buf.String(), "entries=1")
	assert.Contains(t, buf.String(), "clear search index")
}
