// Package mcp serves the documentation over the Model Context Protocol so
// AI agents can search and read it as live context.
package mcp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fwojciec/denote"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server is the documentation MCP server.
type Server struct {
	site   *denote.Site
	docs   denote.DocumentService
	index  denote.SearchIndex
	logger *slog.Logger
	server *mcp.Server
}

// NewServer creates a new Server with the documentation tools and resources
// registered.
func NewServer(site *denote.Site, docs denote.DocumentService, index denote.SearchIndex, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		site:   site,
		docs:   docs,
		index:  index,
		logger: logger,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    site.Config.Name + " Docs",
			Version: Version,
		}, nil),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// Run serves over stdio until ctx is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("MCP server listening on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves a single session over t.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

// Handler returns a streamable HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
