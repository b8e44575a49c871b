package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/denote"
	dprom "github.com/fwojciec/denote/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Site         *denote.Site
	Documents    denote.DocumentService
	Renders      denote.RenderService
	Index        denote.SearchIndex
	Chat         denote.ChatService
	Invalidator  denote.Invalidator
	Metrics      *dprom.Metrics
	TokenCounter denote.TokenCounter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config     string `short:"c" default:"denote.toml" env:"DENOTE_CONFIG" help:"Path to the site configuration file"`
	ContentDir string `short:"d" name:"content-dir" env:"DENOTE_CONTENT_DIR" help:"Content directory (default ./content/docs)"`
	BasePath   string `name:"base-path" env:"DENOTE_BASE_PATH" help:"URL path the docs are served under (default /docs)"`
	Verbose    bool   `short:"v" help:"Enable debug logging"`

	Serve    ServeCmd    `cmd:"" help:"Serve the documentation API"`
	Search   SearchCmd   `cmd:"" help:"Search the documentation"`
	Ask      AskCmd      `cmd:"" help:"Ask a question about the documentation"`
	Show     ShowCmd     `cmd:"" help:"Print a document"`
	Llms     LlmsCmd     `cmd:"" help:"Print llms.txt or llms-full.txt"`
	Validate ValidateCmd `cmd:"" help:"Check config and content for problems"`
	MCP      MCPCmd      `cmd:"" name:"mcp" help:"Serve the documentation over MCP"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr    string `short:"a" default:":8000" env:"DENOTE_ADDR" help:"Address to listen on"`
	NoWatch bool   `name:"no-watch" help:"Disable live reload of changed content"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query  string `arg:"" help:"Search query"`
	Ranked bool   `short:"r" help:"Rank by keyword relevance instead of matching the whole query"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about the documentation"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Slug string `arg:"" help:"Document slug"`
	HTML bool   `name:"html" help:"Print rendered HTML instead of markdown"`
}

// LlmsCmd is the "llms" subcommand.
type LlmsCmd struct {
	Full        bool   `help:"Print the complete documentation (llms-full.txt)"`
	BaseURL     string `name:"base-url" help:"Public site URL used in links (default seo.url)"`
	CountTokens bool   `name:"count-tokens" help:"Report the token count on stderr"`
}

// ValidateCmd is the "validate" subcommand.
type ValidateCmd struct{}

// MCPCmd is the "mcp" subcommand.
type MCPCmd struct {
	HTTP string `name:"http" placeholder:"ADDR" help:"Serve streamable HTTP on ADDR instead of stdio"`
}
