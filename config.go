package denote

import (
	"strings"
	"time"
)

// Defaults applied to an empty Config.
const (
	DefaultName        = "Denote"
	DefaultContentDir  = "./content/docs"
	DefaultBasePath    = "/docs"
	DefaultChatTimeout = 30 * time.Second
)

// AI provider kinds.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// APIKeyEnv is the environment variable holding the AI provider API key.
const APIKeyEnv = "DENOTE_AI_API_KEY"

// NavItem is a node of the sidebar navigation tree.
type NavItem struct {
	Title    string    `json:"title" toml:"title"`
	Href     string    `json:"href,omitempty" toml:"href"`
	Icon     string    `json:"icon,omitempty" toml:"icon"`
	Children []NavItem `json:"children,omitempty" toml:"children"`
}

// ProviderConfig configures the LLM backend used for chat answers.
type ProviderConfig struct {
	// Kind selects the backend: "openai" (any OpenAI-compatible API) or "gemini".
	Kind string `toml:"kind"`

	// APIURL is the chat completions endpoint for OpenAI-compatible backends.
	APIURL string `toml:"api_url"`

	Model string `toml:"model"`

	// APIKey is discouraged; prefer the DENOTE_AI_API_KEY environment variable.
	APIKey string `toml:"api_key"`

	// Timeout bounds a single completion call, e.g. "45s".
	Timeout Duration `toml:"timeout"`
}

// AIConfig configures the AI-facing features.
type AIConfig struct {
	Chatbot  bool            `toml:"chatbot"`
	MCP      bool            `toml:"mcp"`
	Provider *ProviderConfig `toml:"provider"`
}

// Config is the site configuration.
type Config struct {
	Name       string    `toml:"name"`
	Navigation []NavItem `toml:"navigation"`
	EditURL    string    `toml:"edit_url"`

	Search struct {
		Enabled bool `toml:"enabled"`
	} `toml:"search"`

	SEO struct {
		URL string `toml:"url"`
	} `toml:"seo"`

	AI AIConfig `toml:"ai"`
}

// Validate returns an error if the config contains invalid fields.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return Errorf(EINVALID, "config name required")
	}
	if p := c.AI.Provider; p != nil {
		switch p.Kind {
		case ProviderOpenAI, ProviderGemini:
		default:
			return Errorf(EINVALID, "unknown AI provider kind %q", p.Kind)
		}
		if p.Timeout.Duration < 0 {
			return Errorf(EINVALID, "AI provider timeout must not be negative")
		}
	}
	return nil
}

// Duration is a time.Duration that decodes from strings such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return Errorf(EINVALID, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Site bundles the configuration with where content lives and where it is
// served. It is passed explicitly to every component that needs it.
type Site struct {
	Config     Config
	ContentDir string
	BasePath   string
}

// NewSite returns a Site with defaults applied and the base path normalized
// to a leading slash and no trailing slash.
func NewSite(config Config, contentDir, basePath string) *Site {
	if config.Name == "" {
		config.Name = DefaultName
	}
	if contentDir == "" {
		contentDir = DefaultContentDir
	}
	return &Site{
		Config:     config,
		ContentDir: contentDir,
		BasePath:   NormalizeBasePath(basePath),
	}
}

// NormalizeBasePath ensures a leading slash and strips a trailing one.
func NormalizeBasePath(p string) string {
	if p == "" {
		return DefaultBasePath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// DocPath returns the URL path of the document with the given slug.
func (s *Site) DocPath(slug string) string {
	if s.BasePath == "/" {
		return "/" + slug
	}
	return s.BasePath + "/" + slug
}

// SlugFromHref returns the slug an in-site href points at, or false when the
// href is outside the docs base path.
func (s *Site) SlugFromHref(href string) (string, bool) {
	prefix := s.BasePath + "/"
	if s.BasePath == "/" {
		prefix = "/"
	}
	if !strings.HasPrefix(href, prefix) {
		return "", false
	}
	slug := strings.Trim(strings.TrimPrefix(href, prefix), "/")
	if i := strings.IndexAny(slug, "#?"); i >= 0 {
		slug = slug[:i]
	}
	return slug, slug != ""
}

// EditLink returns the URL for editing the source of the document with the
// given slug, or "" when no edit URL is configured.
func (s *Site) EditLink(slug string) string {
	if s.Config.EditURL == "" {
		return ""
	}
	return strings.TrimSuffix(s.Config.EditURL, "/") + "/" + slug + DocumentExt
}
