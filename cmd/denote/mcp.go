package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fwojciec/denote/mcp"
)

// Run executes the mcp command.
func (c *MCPCmd) Run(deps *Dependencies) error {
	s := mcp.NewServer(deps.Site, deps.Documents, deps.Index, deps.Logger)
	if c.HTTP == "" {
		return s.Run(deps.Ctx)
	}

	srv := &http.Server{
		Addr:              c.HTTP,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-deps.Ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	deps.Logger.Info("MCP server listening", "addr", c.HTTP)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
