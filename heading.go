package denote

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	headingRe   = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+?)(?:[ \t]+#+)?[ \t]*$`)
	codeBlockRe = regexp.MustCompile("(?ms)^(```|~~~).*?^(```|~~~)")
)

// ExtractHeadings parses markdown and returns all ATX headings (H1-H6) in
// document order. IDs are generated with Slugify and made unique within the
// document with numeric suffixes, matching the ids of rendered headings.
func ExtractHeadings(markdown string) []TOCEntry {
	if markdown == "" {
		return nil
	}

	// Remove code blocks to avoid matching # in code
	cleaned := codeBlockRe.ReplaceAllString(markdown, "")

	matches := headingRe.FindAllStringSubmatch(cleaned, -1)
	if len(matches) == 0 {
		return nil
	}

	ids := NewHeadingIDs()
	headings := make([]TOCEntry, 0, len(matches))
	for _, match := range matches {
		title := strings.TrimSpace(match[2])
		headings = append(headings, TOCEntry{
			ID:    ids.Unique(Slugify(title)),
			Title: title,
			Level: len(match[1]),
		})
	}
	return headings
}

// Slugify creates an anchor id from heading text: lowercase, non-word
// characters stripped, whitespace runs collapsed to a single hyphen.
func Slugify(title string) string {
	var sb strings.Builder
	pendingSpace := false

	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-':
			if pendingSpace && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingSpace = false
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// HeadingIDs hands out unique heading ids within one document.
type HeadingIDs struct {
	seen map[string]int
}

// NewHeadingIDs returns an empty id set.
func NewHeadingIDs() *HeadingIDs {
	return &HeadingIDs{seen: make(map[string]int)}
}

// Unique returns id, or id with a "-N" suffix if id was already handed out.
func (h *HeadingIDs) Unique(id string) string {
	if id == "" {
		id = "heading"
	}
	count, exists := h.seen[id]
	if !exists {
		h.seen[id] = 1
		return id
	}
	for {
		candidate := id + "-" + strconv.Itoa(count)
		count++
		if _, taken := h.seen[candidate]; !taken {
			h.seen[id] = count
			h.seen[candidate] = 1
			return candidate
		}
	}
}
