// Package fs provides the file-based document store.
package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/denote"
	"golang.org/x/sync/singleflight"
)

// Ensure Store implements the domain interfaces at compile time.
var (
	_ denote.DocumentService = (*Store)(nil)
	_ denote.Invalidator     = (*Store)(nil)
)

// Store loads documents from a content directory and caches them by slug.
// Cached documents are shared between callers and must not be modified.
type Store struct {
	root   string
	parser denote.FrontmatterParser
	logger *slog.Logger

	mu   sync.RWMutex
	docs map[string]*denote.Document
	all  []*denote.Document
	gen  uint64

	group singleflight.Group
}

// NewStore creates a new Store rooted at contentDir.
func NewStore(contentDir string, parser denote.FrontmatterParser, logger *slog.Logger) (*Store, error) {
	root, err := filepath.Abs(contentDir)
	if err != nil {
		return nil, fmt.Errorf("resolve content dir: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		root:   root,
		parser: parser,
		logger: logger,
		docs:   make(map[string]*denote.Document),
	}, nil
}

// Root returns the absolute content directory.
func (s *Store) Root() string {
	return s.root
}

// FindDocument retrieves a document by slug, trying {slug}.md before
// {slug}/index.md.
func (s *Store) FindDocument(ctx context.Context, slug string) (*denote.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	doc, ok := s.docs[slug]
	gen := s.gen
	s.mu.RUnlock()
	if ok {
		return doc, nil
	}

	candidates, ok := s.candidates(slug)
	if !ok {
		return nil, denote.Errorf(denote.ENOTFOUND, "document not found: %s", slug)
	}

	v, err, _ := s.group.Do(strconv.FormatUint(gen, 10)+":"+slug, func() (any, error) {
		for _, p := range candidates {
			doc, err := s.load(p, slug)
			if notExist(err) {
				continue
			}
			if err != nil {
				return nil, err
			}
			s.store(gen, doc)
			return doc, nil
		}
		return nil, denote.Errorf(denote.ENOTFOUND, "document not found: %s", slug)
	})
	if err != nil {
		return nil, err
	}
	return v.(*denote.Document), nil
}

// candidates returns the files that may back slug, or false when the slug
// is malformed or resolves outside the content root.
func (s *Store) candidates(slug string) ([]string, bool) {
	if slug == "" || strings.ContainsRune(slug, 0) || strings.HasPrefix(slug, "/") || filepath.IsAbs(slug) {
		return nil, false
	}
	if path.Clean(slug) != slug {
		return nil, false
	}

	base := filepath.Join(s.root, filepath.FromSlash(slug))
	paths := []string{
		base + denote.DocumentExt,
		filepath.Join(base, "index"+denote.DocumentExt),
	}
	for _, p := range paths {
		if !s.contains(p) {
			return nil, false
		}
	}
	return paths, true
}

// contains reports whether p lies strictly below the content root.
func (s *Store) contains(p string) bool {
	rel, err := filepath.Rel(s.root, p)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// load reads and parses one regular file. Missing files and non-regular
// entries report iofs.ErrNotExist.
func (s *Store) load(p, slug string) (*denote.Document, error) {
	info, err := os.Stat(p)
	if err != nil {
		if notExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("stat %s: %w", p, err)
	}
	if !info.Mode().IsRegular() {
		return nil, iofs.ErrNotExist
	}

	raw, err := os.ReadFile(p)
	if err != nil {
		if notExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("read %s: %w", p, err)
	}

	fm, content := s.parser.Parse(string(raw))
	return &denote.Document{
		Slug:        slug,
		Frontmatter: fm,
		Content:     content,
		SourcePath:  p,
		ContentHash: strconv.FormatUint(xxhash.Sum64(raw), 16),
	}, nil
}

// notExist reports whether err means the file is absent, including a
// path component that is a file rather than a directory.
func notExist(err error) bool {
	return errors.Is(err, iofs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// store caches doc unless an invalidation happened since gen was read.
func (s *Store) store(gen uint64, doc *denote.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.docs[doc.Slug] = doc
	}
}

// FindDocuments walks the content directory and returns every document in
// lexical path order. The result is memoised until the next invalidation.
func (s *Store) FindDocuments(ctx context.Context) ([]*denote.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	all := s.all
	gen := s.gen
	s.mu.RUnlock()
	if all != nil {
		return all, nil
	}

	v, err, _ := s.group.Do(strconv.FormatUint(gen, 10)+":\x00all", func() (any, error) {
		return s.walk(ctx, gen)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*denote.Document), nil
}

func (s *Store) walk(ctx context.Context, gen uint64) ([]*denote.Document, error) {
	if _, err := os.Stat(s.root); errors.Is(err, iofs.ErrNotExist) {
		s.logger.Warn("content directory not found", "dir", s.root)
		return []*denote.Document{}, nil
	}

	docs := []*denote.Document{}
	bySlug := make(map[string]int)

	err := filepath.WalkDir(s.root, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(p) != denote.DocumentExt {
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		slug := denote.SlugFromPath(filepath.ToSlash(rel))

		doc, err := s.load(p, slug)
		if notExist(err) {
			return nil
		}
		if err != nil {
			return err
		}

		i, dup := bySlug[slug]
		if !dup {
			bySlug[slug] = len(docs)
			docs = append(docs, doc)
			return nil
		}

		// Keep the file a single-slug lookup would pick.
		kept, shadowed := docs[i], doc
		if doc.SourcePath == filepath.Join(s.root, filepath.FromSlash(slug)+denote.DocumentExt) {
			kept, shadowed = doc, docs[i]
			docs[i] = doc
		}
		s.logger.Warn("duplicate slug, ignoring shadowed file",
			"slug", slug,
			"kept", kept.SourcePath,
			"shadowed", shadowed.SourcePath,
		)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.root, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return docs, nil
	}
	for i, doc := range docs {
		if cached, ok := s.docs[doc.Slug]; ok && cached.SourcePath == doc.SourcePath && cached.ContentHash == doc.ContentHash {
			docs[i] = cached
			continue
		}
		s.docs[doc.Slug] = doc
	}
	s.all = docs
	return docs, nil
}

// Invalidate evicts documents loaded from path, along with any document
// cached under the slug path would map to, and forgets the memoised walk.
func (s *Store) Invalidate(p string) {
	abs, err := filepath.Abs(p)
	if err != nil {
		abs = filepath.Clean(p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.all = nil
	for slug, doc := range s.docs {
		if doc.SourcePath == abs {
			delete(s.docs, slug)
		}
	}
	if s.contains(abs) && filepath.Ext(abs) == denote.DocumentExt {
		if rel, err := filepath.Rel(s.root, abs); err == nil {
			delete(s.docs, denote.SlugFromPath(filepath.ToSlash(rel)))
		}
	}
}

// InvalidateAll evicts every cached document.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.all = nil
	s.docs = make(map[string]*denote.Document)
}
