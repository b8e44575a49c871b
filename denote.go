// Package denote provides a documentation-site engine. It loads markdown
// files with frontmatter from a content directory, renders them to HTML,
// and serves navigation, search, chat and AI-retrieval endpoints.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., fs/, fsnotify/, goldmark/, gemini/).
package denote
