// Package http serves the documentation engine over HTTP using echo.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/denote"
	"github.com/fwojciec/denote/etree"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// RateLimitMessage is returned with 429 responses.
const RateLimitMessage = "Too many requests. Please try again later."

const (
	headerETag        = "ETag"
	headerIfNoneMatch = "If-None-Match"
)

// Server is the HTTP API server. Services are set after NewServer and before
// the first request.
type Server struct {
	echo   *echo.Echo
	site   *denote.Site
	logger *slog.Logger

	Documents   denote.DocumentService
	Renders     denote.RenderService
	Index       denote.SearchIndex
	Chat        denote.ChatService
	Invalidator denote.Invalidator
	Limiter     *ClientLimiter

	// Now stamps the sitemap lastmod date.
	Now func() time.Time

	// Optional handlers mounted at /mcp and /metrics.
	MCPHandler     http.Handler
	MetricsHandler http.Handler
}

// NewServer creates a new Server with its routes registered.
func NewServer(site *denote.Site, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		echo:    echo.New(),
		site:    site,
		logger:  logger,
		Limiter: NewClientLimiter(DefaultRateRequests, DefaultRateWindow),
		Now:     time.Now,
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug("request",
				"id", v.RequestID,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"duration", v.Latency,
			)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", "mcp-session-id", "Last-Event-ID", "mcp-protocol-version"},
		ExposeHeaders: []string{"mcp-session-id", "mcp-protocol-version"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", s.mount(func() http.Handler { return s.MetricsHandler }))
	e.Any("/mcp", s.mount(func() http.Handler { return s.MCPHandler }))

	e.GET("/llms.txt", s.handleLlmsTxt)
	e.GET("/llms-full.txt", s.handleLlmsFullTxt)
	e.GET("/sitemap.xml", s.handleSitemap)
	e.GET("/robots.txt", s.handleRobotsTxt)

	api := e.Group("/api", middleware.BodyLimit("1M"))
	api.GET("/search", s.handleSearch)
	api.POST("/chat", s.handleChat)
	api.GET("/docs", s.handleDocs)
	api.POST("/invalidate", s.handleInvalidate)

	base := site.BasePath
	if base == "/" {
		base = ""
	}
	e.GET(site.BasePath, s.handleDocsIndex)
	e.GET(base+"/*", s.handleDocument)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) mount(h func() http.Handler) echo.HandlerFunc {
	return func(c echo.Context) error {
		handler := h()
		if handler == nil {
			return echo.ErrNotFound
		}
		handler.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}

// baseURL returns the public origin, preferring the configured SEO URL.
func (s *Server) baseURL(c echo.Context) string {
	if u := s.site.Config.SEO.URL; u != "" {
		return strings.TrimSuffix(u, "/")
	}
	return c.Scheme() + "://" + c.Request().Host
}

func (s *Server) handleSearch(c echo.Context) error {
	index, err := s.Index.BuildSearchIndex(c.Request().Context())
	if err != nil {
		return err
	}

	if c.QueryParams().Has("q") {
		results := denote.Search(index, c.QueryParam("q"))
		if results == nil {
			results = []denote.SearchEntry{}
		}
		return c.JSON(http.StatusOK, results)
	}

	if index == nil {
		index = []denote.SearchEntry{}
	}
	return c.JSON(http.StatusOK, index)
}

func (s *Server) handleChat(c echo.Context) error {
	if !s.Limiter.Allow(ClientIP(c.Request())) {
		return c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: RateLimitMessage})
	}

	var req denote.ChatRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return denote.Errorf(denote.EINVALID, "invalid JSON body")
	}

	resp, err := s.Chat.HandleChat(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDocs(c echo.Context) error {
	docs, err := s.Documents.FindDocuments(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSONPretty(http.StatusOK, denote.NewDocsJSON(s.site, docs, s.baseURL(c)), "  ")
}

func (s *Server) handleLlmsTxt(c echo.Context) error {
	docs, err := s.Documents.FindDocuments(c.Request().Context())
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, denote.FormatLlmsTxt(s.site, docs, s.baseURL(c)))
}

func (s *Server) handleLlmsFullTxt(c echo.Context) error {
	docs, err := s.Documents.FindDocuments(c.Request().Context())
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, denote.FormatFullDocs(s.site.Config.Name, docs))
}

func (s *Server) handleSitemap(c echo.Context) error {
	docs, err := s.Documents.FindDocuments(c.Request().Context())
	if err != nil {
		return err
	}
	b, err := etree.BuildSitemap(s.site, docs, s.baseURL(c), s.Now())
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, b)
}

func (s *Server) handleRobotsTxt(c echo.Context) error {
	return c.String(http.StatusOK, denote.FormatRobotsTxt(s.baseURL(c)))
}

// handleInvalidate evicts caches for the file at ?path= (relative to the
// content directory), or everything when no path is given.
func (s *Server) handleInvalidate(c echo.Context) error {
	if s.Invalidator == nil {
		return echo.ErrNotFound
	}

	p := c.QueryParam("path")
	if p == "" {
		s.Invalidator.InvalidateAll()
		s.logger.Info("caches invalidated")
		return c.NoContent(http.StatusNoContent)
	}

	if !filepath.IsAbs(p) {
		p = filepath.Join(s.site.ContentDir, filepath.FromSlash(p))
	}
	s.Invalidator.Invalidate(p)
	s.logger.Info("cache invalidated", "path", p)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleDocsIndex(c echo.Context) error {
	return c.Redirect(http.StatusFound, s.site.FirstHref())
}

func (s *Server) handleDocument(c echo.Context) error {
	slug := strings.Trim(c.Param("*"), "/")
	if slug == "" {
		return s.handleDocsIndex(c)
	}

	rd, err := s.Renders.FindRenderedDocument(c.Request().Context(), slug)
	if err != nil {
		return err
	}

	etag := `"` + rd.Document.ContentHash + `"`
	c.Response().Header().Set(headerETag, etag)
	if match := c.Request().Header.Get(headerIfNoneMatch); match != "" && match == etag {
		return c.NoContent(http.StatusNotModified)
	}

	return c.JSON(http.StatusOK, NewPage(s.site, rd))
}

// ClientIP identifies the client for rate limiting: the first hop of
// X-Forwarded-For, else the remote address host.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get(echo.HeaderXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
