package fs_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fwojciec/denote"
	"github.com/fwojciec/denote/fs"
	"github.com/fwojciec/denote/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func doc(title, body string) string {
	return "---\ntitle: " + title + "\n---\n" + body
}

func newStore(t *testing.T, root string) (*fs.Store, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	store, err := fs.NewStore(root, yaml.NewParser(logger), logger)
	require.NoError(t, err)
	return store, &buf
}

// Story: Single Document Lookup
// Documents are found by slug and cached after the first read

func TestStore_FindDocument(t *testing.T) {
	t.Parallel()

	t.Run("returns document with matching slug", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		p := writeFile(t, root, "guides/install.md", doc("Install", "Run it."))
		store, _ := newStore(t, root)

		got, err := store.FindDocument(context.Background(), "guides/install")

		require.NoError(t, err)
		assert.Equal(t, "guides/install", got.Slug)
		assert.Equal(t, "Install", got.Title())
		assert.Equal(t, "Run it.", got.Content)
		assert.Equal(t, p, got.SourcePath)
		assert.NotEmpty(t, got.ContentHash)
	})

	t.Run("resolves index files", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "guides/index.md", doc("Guides", "All guides."))
		writeFile(t, root, "index.md", doc("Home", "Start here."))
		store, _ := newStore(t, root)

		guides, err := store.FindDocument(context.Background(), "guides")
		require.NoError(t, err)
		assert.Equal(t, "Guides", guides.Title())
		assert.Equal(t, "guides", guides.Slug)

		home, err := store.FindDocument(context.Background(), "index")
		require.NoError(t, err)
		assert.Equal(t, "Home", home.Title())
	})

	t.Run("prefers foo.md over foo/index.md", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "foo.md", doc("File", "from foo.md"))
		writeFile(t, root, "foo/index.md", doc("Index", "from foo/index.md"))
		store, _ := newStore(t, root)

		got, err := store.FindDocument(context.Background(), "foo")

		require.NoError(t, err)
		assert.Equal(t, "from foo.md", got.Content)
	})

	t.Run("returns not found for missing file", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t, t.TempDir())

		_, err := store.FindDocument(context.Background(), "missing")

		assert.Equal(t, denote.ENOTFOUND, denote.ErrorCode(err))
	})

	t.Run("returns not found when a path component is a file", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "notes", "plain file")
		store, _ := newStore(t, root)

		_, err := store.FindDocument(context.Background(), "notes/child")

		assert.Equal(t, denote.ENOTFOUND, denote.ErrorCode(err))
	})

	t.Run("skips directories named like documents", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "odd.md"), 0o755))
		store, _ := newStore(t, root)

		_, err := store.FindDocument(context.Background(), "odd")

		assert.Equal(t, denote.ENOTFOUND, denote.ErrorCode(err))
	})

	t.Run("surfaces unexpected filesystem errors", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		require.NoError(t, os.Symlink("loop.md", filepath.Join(root, "loop.md")))
		store, _ := newStore(t, root)

		_, err := store.FindDocument(context.Background(), "loop")

		require.Error(t, err)
		assert.Equal(t, denote.EINTERNAL, denote.ErrorCode(err))
	})

	t.Run("serves cached document until invalidated", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		p := writeFile(t, root, "page.md", doc("Page", "v1"))
		store, _ := newStore(t, root)

		first, err := store.FindDocument(context.Background(), "page")
		require.NoError(t, err)

		writeFile(t, root, "page.md", doc("Page", "v2"))
		cached, err := store.FindDocument(context.Background(), "page")
		require.NoError(t, err)
		assert.Same(t, first, cached)

		store.Invalidate(p)
		fresh, err := store.FindDocument(context.Background(), "page")
		require.NoError(t, err)
		assert.Equal(t, "v2", fresh.Content)
		assert.NotEqual(t, first.ContentHash, fresh.ContentHash)
	})

	t.Run("does not cache failed lookups", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		store, _ := newStore(t, root)

		_, err := store.FindDocument(context.Background(), "later")
		require.Equal(t, denote.ENOTFOUND, denote.ErrorCode(err))

		writeFile(t, root, "later.md", doc("Later", "now here"))
		got, err := store.FindDocument(context.Background(), "later")

		require.NoError(t, err)
		assert.Equal(t, "now here", got.Content)
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t, t.TempDir())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := store.FindDocument(ctx, "page")

		assert.ErrorIs(t, err, context.Canceled)
	})
}

// Story: Path Traversal Guard
// Slugs that escape the content root are not found, whatever lies outside

func TestStore_FindDocument_RejectsTraversal(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	root := filepath.Join(base, "docs")
	writeFile(t, root, "guides/install.md", doc("Install", "inside"))
	writeFile(t, base, "secret.md", doc("Secret", "outside"))
	writeFile(t, base, "docs.md", doc("Sibling", "outside"))
	store, _ := newStore(t, root)

	slugs := []string{
		"../secret",
		"guides/../../secret",
		"guides/../install",
		"..",
		".",
		"",
		"/etc/passwd",
		filepath.Join(base, "secret"),
		"guides//install",
		"guides/install/",
		"./guides/install",
		"guides/install\x00",
	}
	for _, slug := range slugs {
		_, err := store.FindDocument(context.Background(), slug)
		assert.Equal(t, denote.ENOTFOUND, denote.ErrorCode(err), "slug %q", slug)
	}
}

// Story: Full Corpus Walk
// The walk returns every document in path order and warms the slug cache

func TestStore_FindDocuments(t *testing.T) {
	t.Parallel()

	t.Run("walks recursively in lexical order", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "b.md", doc("B", "b"))
		writeFile(t, root, "a/z.md", doc("AZ", "az"))
		writeFile(t, root, "a/index.md", doc("A", "a"))
		writeFile(t, root, "c.txt", "not markdown")
		store, _ := newStore(t, root)

		docs, err := store.FindDocuments(context.Background())

		require.NoError(t, err)
		slugs := make([]string, len(docs))
		for i, d := range docs {
			slugs[i] = d.Slug
		}
		assert.Equal(t, []string{"a", "a/z", "b"}, slugs)
	})

	t.Run("populates the slug cache", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		p := writeFile(t, root, "page.md", doc("Page", "body"))
		store, _ := newStore(t, root)

		docs, err := store.FindDocuments(context.Background())
		require.NoError(t, err)
		require.Len(t, docs, 1)

		require.NoError(t, os.Remove(p))
		got, err := store.FindDocument(context.Background(), "page")

		require.NoError(t, err)
		assert.Same(t, docs[0], got)
	})

	t.Run("reuses documents already cached by slug", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "page.md", doc("Page", "body"))
		store, _ := newStore(t, root)

		single, err := store.FindDocument(context.Background(), "page")
		require.NoError(t, err)

		docs, err := store.FindDocuments(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Same(t, single, docs[0])
	})

	t.Run("is idempotent without changes", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "one.md", doc("One", "1"))
		writeFile(t, root, "two.md", doc("Two", "2"))
		store, _ := newStore(t, root)

		first, err := store.FindDocuments(context.Background())
		require.NoError(t, err)
		second, err := store.FindDocuments(context.Background())
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("keeps foo.md when foo/index.md shares its slug", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "foo.md", doc("File", "from foo.md"))
		shadowed := writeFile(t, root, "foo/index.md", doc("Index", "from foo/index.md"))
		store, logs := newStore(t, root)

		docs, err := store.FindDocuments(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "from foo.md", docs[0].Content)
		assert.Contains(t, logs.String(), "duplicate slug")
		assert.Contains(t, logs.String(), shadowed)
	})

	t.Run("returns empty list for missing root", func(t *testing.T) {
		t.Parallel()

		store, logs := newStore(t, filepath.Join(t.TempDir(), "missing"))

		docs, err := store.FindDocuments(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)
		assert.Contains(t, logs.String(), "level=WARN")
		assert.Contains(t, logs.String(), "content directory not found")
	})

	t.Run("reflects new files after invalidation", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "one.md", doc("One", "1"))
		store, _ := newStore(t, root)

		docs, err := store.FindDocuments(context.Background())
		require.NoError(t, err)
		require.Len(t, docs, 1)

		p := writeFile(t, root, "two.md", doc("Two", "2"))
		store.Invalidate(p)

		docs, err = store.FindDocuments(context.Background())
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})
}

// Story: Invalidation
// Evictions are targeted by path, or total

func TestStore_Invalidate(t *testing.T) {
	t.Parallel()

	t.Run("evicts only the matching path", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		a := writeFile(t, root, "a.md", doc("A", "a1"))
		writeFile(t, root, "b.md", doc("B", "b1"))
		store, _ := newStore(t, root)
		_, err := store.FindDocuments(context.Background())
		require.NoError(t, err)

		writeFile(t, root, "a.md", doc("A", "a2"))
		writeFile(t, root, "b.md", doc("B", "b2"))
		store.Invalidate(a)

		gotA, err := store.FindDocument(context.Background(), "a")
		require.NoError(t, err)
		gotB, err := store.FindDocument(context.Background(), "b")
		require.NoError(t, err)
		assert.Equal(t, "a2", gotA.Content)
		assert.Equal(t, "b1", gotB.Content)
	})

	t.Run("evicts an index file shadowed by a new sibling", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "foo/index.md", doc("Index", "from index"))
		store, _ := newStore(t, root)
		_, err := store.FindDocument(context.Background(), "foo")
		require.NoError(t, err)

		p := writeFile(t, root, "foo.md", doc("File", "from file"))
		store.Invalidate(p)

		got, err := store.FindDocument(context.Background(), "foo")
		require.NoError(t, err)
		assert.Equal(t, "from file", got.Content)
	})

	t.Run("evicts deleted files", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		p := writeFile(t, root, "gone.md", doc("Gone", "bye"))
		store, _ := newStore(t, root)
		_, err := store.FindDocument(context.Background(), "gone")
		require.NoError(t, err)

		require.NoError(t, os.Remove(p))
		store.Invalidate(p)

		_, err = store.FindDocument(context.Background(), "gone")
		assert.Equal(t, denote.ENOTFOUND, denote.ErrorCode(err))
	})

	t.Run("InvalidateAll clears everything", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "a.md", doc("A", "a1"))
		writeFile(t, root, "b.md", doc("B", "b1"))
		store, _ := newStore(t, root)
		_, err := store.FindDocuments(context.Background())
		require.NoError(t, err)

		writeFile(t, root, "a.md", doc("A", "a2"))
		writeFile(t, root, "b.md", doc("B", "b2"))
		store.InvalidateAll()

		docs, err := store.FindDocuments(context.Background())
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "a2", docs[0].Content)
		assert.Equal(t, "b2", docs[1].Content)
	})
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	p := writeFile(t, root, "page.md", doc("Page", "body"))
	store, _ := newStore(t, root)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch i % 5 {
			case 0:
				store.Invalidate(p)
			case 1:
				_, err := store.FindDocuments(context.Background())
				assert.NoError(t, err)
			default:
				got, err := store.FindDocument(context.Background(), "page")
				if assert.NoError(t, err) {
					assert.Equal(t, "page", got.Slug)
				}
			}
		}()
	}
	wg.Wait()

	got, err := store.FindDocument(context.Background(), "page")
	require.NoError(t, err)
	assert.Equal(t, "body", got.Content)
}
