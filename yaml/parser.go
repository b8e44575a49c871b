// Package yaml implements the frontmatter parser using gopkg.in/yaml.v3.
package yaml

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/fwojciec/denote"
	"gopkg.in/yaml.v3"
)

// Ensure Parser implements denote.FrontmatterParser at compile time.
var _ denote.FrontmatterParser = (*Parser)(nil)

var frontmatterRe = regexp.MustCompile(`(?s)\A---\n(.*?)\n---\n?`)

// Parser splits raw markdown into YAML frontmatter and body.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new Parser. A nil logger uses slog.Default().
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Parse returns the frontmatter and the body that follows it. A missing or
// malformed block yields a frontmatter titled "Untitled" and raw unchanged.
func (p *Parser) Parse(raw string) (denote.Frontmatter, string) {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")

	match := frontmatterRe.FindStringSubmatch(normalized)
	if match == nil {
		return denote.Frontmatter{Title: denote.DefaultTitle}, raw
	}

	var fm denote.Frontmatter
	if err := yaml.Unmarshal([]byte(match[1]), &fm); err != nil {
		p.logger.Warn("failed to parse frontmatter YAML, using defaults", "err", err)
		return denote.Frontmatter{Title: denote.DefaultTitle}, raw
	}

	fm.Title = strings.TrimSpace(fm.Title)
	if fm.Title == "" {
		p.logger.Warn("no title found in frontmatter, using default", "title", denote.DefaultTitle)
		fm.Title = denote.DefaultTitle
	}

	return fm, normalized[len(match[0]):]
}
