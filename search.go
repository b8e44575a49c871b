package denote

import (
	"context"
	"sort"
	"strings"
)

// Search limits.
const (
	// ExcerptLength caps SearchEntry.Excerpt so index size scales with page
	// count rather than content size.
	ExcerptLength = 500

	// MaxSearchResults caps interactive search results.
	MaxSearchResults = 10

	// MaxRankResults caps ranked results.
	MaxRankResults = 10

	// MinTokenLength is the shortest query token that takes part in ranking.
	MinTokenLength = 3
)

// Ranking weights, applied per matching query token.
const (
	TitleWeight       = 10
	KeywordWeight     = 5
	SummaryWeight     = 3
	DescriptionWeight = 3
	FullTextWeight    = 1
)

// SearchEntry is the compact per-document summary used for search and ranking.
type SearchEntry struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	AISummary   string   `json:"aiSummary,omitempty"`
	AIKeywords  []string `json:"aiKeywords,omitempty"`
	Slug        string   `json:"slug"`
	Excerpt     string   `json:"content"`
}

// NewSearchEntry derives a search entry from a document.
func NewSearchEntry(doc *Document) SearchEntry {
	return SearchEntry{
		Title:       doc.Frontmatter.Title,
		Description: doc.Frontmatter.Description,
		AISummary:   doc.Frontmatter.AISummary,
		AIKeywords:  doc.Frontmatter.AIKeywords,
		Slug:        doc.Slug,
		Excerpt:     Truncate(doc.Content, ExcerptLength),
	}
}

// SearchIndex builds and caches the search index over the corpus.
type SearchIndex interface {
	// BuildSearchIndex returns the current index. Calls within the cache
	// validity window return the same slice.
	BuildSearchIndex(ctx context.Context) ([]SearchEntry, error)

	// ClearSearchIndex drops the cached index.
	ClearSearchIndex()
}

// ScoredEntry is a ranked search result.
type ScoredEntry struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Score int    `json:"score"`
}

// Tokenize lowercases a query, splits it on whitespace and drops tokens
// shorter than MinTokenLength.
func Tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= MinTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Rank scores every entry against the query tokens using fixed weights and
// returns matching entries by descending score. Ties keep index order.
func Rank(index []SearchEntry, query string) []ScoredEntry {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	var scored []ScoredEntry
	for i := range index {
		if score := scoreEntry(&index[i], tokens); score > 0 {
			scored = append(scored, ScoredEntry{
				Title: index[i].Title,
				Slug:  index[i].Slug,
				Score: score,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > MaxRankResults {
		scored = scored[:MaxRankResults]
	}
	return scored
}

func scoreEntry(e *SearchEntry, tokens []string) int {
	title := strings.ToLower(e.Title)
	description := strings.ToLower(e.Description)
	summary := strings.ToLower(e.AISummary)
	keywords := make([]string, len(e.AIKeywords))
	for i, k := range e.AIKeywords {
		keywords[i] = strings.ToLower(k)
	}
	haystack := strings.Join([]string{
		title, description, summary, strings.Join(keywords, " "), strings.ToLower(e.Excerpt),
	}, " ")

	score := 0
	for _, token := range tokens {
		if strings.Contains(title, token) {
			score += TitleWeight
		}
		for _, k := range keywords {
			if strings.Contains(k, token) {
				score += KeywordWeight
				break
			}
		}
		if strings.Contains(summary, token) {
			score += SummaryWeight
		}
		if strings.Contains(description, token) {
			score += DescriptionWeight
		}
		if strings.Contains(haystack, token) {
			score += FullTextWeight
		}
	}
	return score
}

// Search returns entries containing the whole query (case-insensitive) in
// their title, excerpt or description. Results keep
// index order and are capped at MaxSearchResults. Unlike Rank it does no
// tokenizing or scoring.
func Search(index []SearchEntry, query string) []SearchEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var results []SearchEntry
	for _, e := range index {
		if !entryContains(e, q) {
			continue
		}
		results = append(results, e)
		if len(results) == MaxSearchResults {
			break
		}
	}
	return results
}

func entryContains(e SearchEntry, q string) bool {
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Excerpt), q) ||
		strings.Contains(strings.ToLower(e.Description), q)
}

// Snippet returns a window of text around the first case-insensitive match of
// query, with ellipses marking truncation. Without a match it returns the
// first 300 runes.
func Snippet(text, query string) string {
	runes := []rune(text)
	lower := []rune(strings.ToLower(text))
	q := []rune(strings.ToLower(query))

	idx := -1
	if len(q) > 0 && len(lower) == len(runes) {
		idx = indexRunes(lower, q)
	}
	if idx < 0 {
		if len(runes) > 300 {
			return string(runes[:300]) + "..."
		}
		return text
	}

	start := max(0, idx-100)
	end := min(len(runes), idx+len(q)+200)
	var sb strings.Builder
	if start > 0 {
		sb.WriteString("...")
	}
	sb.WriteString(string(runes[start:end]))
	if end < len(runes) {
		sb.WriteString("...")
	}
	return sb.String()
}

func indexRunes(s, sub []rune) int {
outer:
	for i := 0; i+len(sub) <= len(s); i++ {
		for j := range sub {
			if s[i+j] != sub[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
