package main

import (
	"github.com/fwojciec/denote/fsnotify"
	dhttp "github.com/fwojciec/denote/http"
	"github.com/fwojciec/denote/mcp"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if !c.NoWatch {
		w := fsnotify.NewWatcher(deps.Site.ContentDir, deps.Invalidator, deps.Logger)
		w.Start(deps.Ctx)
		defer w.Stop()
	}

	s := dhttp.NewServer(deps.Site, deps.Logger)
	s.Documents = deps.Documents
	s.Renders = deps.Renders
	s.Index = deps.Index
	s.Chat = deps.Chat
	s.Invalidator = deps.Invalidator
	s.MetricsHandler = deps.Metrics.Handler()
	if deps.Site.Config.AI.MCP {
		s.MCPHandler = mcp.NewServer(deps.Site, deps.Documents, deps.Index, deps.Logger).Handler()
	}

	return s.ListenAndServe(deps.Ctx, c.Addr)
}
