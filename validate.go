package denote

import "fmt"

// Validation issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationIssue is a problem found in a site's config or content.
type ValidationIssue struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Validate checks the site configuration against the loaded documents.
func Validate(site *Site, docs []*Document) []ValidationIssue {
	var issues []ValidationIssue
	add := func(severity, format string, args ...any) {
		issues = append(issues, ValidationIssue{Severity: severity, Message: fmt.Sprintf(format, args...)})
	}

	if err := site.Config.Validate(); err != nil {
		add(SeverityError, "Config: %s.", ErrorMessage(err))
	}
	if len(site.Config.Navigation) == 0 {
		add(SeverityWarning, "Config: 'navigation' is empty. No sidebar links will render.")
	}

	if len(docs) == 0 {
		add(SeverityWarning, "Content: no documents found in %s.", site.ContentDir)
	}

	slugs := make(map[string]bool, len(docs))
	for _, doc := range docs {
		slugs[doc.Slug] = true
		if doc.Frontmatter.Title == DefaultTitle {
			add(SeverityWarning, "Content: %s has no title in its frontmatter.", doc.SourcePath)
		}
	}

	for _, link := range FlattenNav(site.Config.Navigation) {
		slug, ok := site.SlugFromHref(link.Href)
		if !ok {
			continue
		}
		if !slugs[slug] {
			add(SeverityError, "Navigation: %q links to %s, which has no document.", link.Title, link.Href)
		}
	}

	return issues
}
