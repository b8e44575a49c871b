// Package prometheus provides metrics decorators over denote services.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/denote"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "denote"

// Lookup results.
const (
	ResultFound    = "found"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Metrics holds the collectors registered on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	DocumentLookups    *prometheus.CounterVec
	RenderDuration     prometheus.Histogram
	ChatResponses      *prometheus.CounterVec
	ProviderFailures   *prometheus.CounterVec
	CompletionDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them, together with the
// Go runtime and process collectors, on a new registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		DocumentLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "document_lookups_total",
			Help:      "Document lookups by slug, partitioned by result.",
		}, []string{"result"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "render_duration_seconds",
			Help:      "Time to serve a rendered document, cached or not.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		ChatResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "chat_responses_total",
			Help:      "Chat answers, partitioned by the mode that produced them.",
		}, []string{"mode"}),
		ProviderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "provider_failures_total",
			Help:      "Failed AI provider completions.",
		}, []string{"provider"}),
		CompletionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "completion_duration_seconds",
			Help:      "AI provider completion latency.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		}, []string{"provider"}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.DocumentLookups,
		m.RenderDuration,
		m.ChatResponses,
		m.ProviderFailures,
		m.CompletionDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Ensure DocumentService implements denote.DocumentService.
var _ denote.DocumentService = (*DocumentService)(nil)

// DocumentService counts document lookups.
type DocumentService struct {
	next    denote.DocumentService
	metrics *Metrics
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(next denote.DocumentService, metrics *Metrics) *DocumentService {
	return &DocumentService{next: next, metrics: metrics}
}

// FindDocument delegates to the wrapped service and counts the result.
func (s *DocumentService) FindDocument(ctx context.Context, slug string) (*denote.Document, error) {
	doc, err := s.next.FindDocument(ctx, slug)
	s.metrics.DocumentLookups.WithLabelValues(lookupResult(err)).Inc()
	return doc, err
}

// FindDocuments delegates to the wrapped service.
func (s *DocumentService) FindDocuments(ctx context.Context) ([]*denote.Document, error) {
	return s.next.FindDocuments(ctx)
}

func lookupResult(err error) string {
	switch {
	case err == nil:
		return ResultFound
	case denote.ErrorCode(err) == denote.ENOTFOUND:
		return ResultNotFound
	default:
		return ResultError
	}
}

// Ensure RenderService implements denote.RenderService.
var _ denote.RenderService = (*RenderService)(nil)

// RenderService observes rendered document latency.
type RenderService struct {
	next    denote.RenderService
	metrics *Metrics
}

// NewRenderService creates a new RenderService.
func NewRenderService(next denote.RenderService, metrics *Metrics) *RenderService {
	return &RenderService{next: next, metrics: metrics}
}

// FindRenderedDocument delegates to the wrapped service.
func (s *RenderService) FindRenderedDocument(ctx context.Context, slug string) (*denote.RenderedDocument, error) {
	defer func(begin time.Time) {
		s.metrics.RenderDuration.Observe(time.Since(begin).Seconds())
	}(time.Now())
	return s.next.FindRenderedDocument(ctx, slug)
}

// Ensure ChatService implements denote.ChatService.
var _ denote.ChatService = (*ChatService)(nil)

// ChatService counts chat answers by mode.
type ChatService struct {
	next    denote.ChatService
	metrics *Metrics
}

// NewChatService creates a new ChatService.
func NewChatService(next denote.ChatService, metrics *Metrics) *ChatService {
	return &ChatService{next: next, metrics: metrics}
}

// HandleChat delegates to the wrapped service.
func (s *ChatService) HandleChat(ctx context.Context, req *denote.ChatRequest) (*denote.ChatResponse, error) {
	resp, err := s.next.HandleChat(ctx, req)
	if err == nil && resp != nil {
		s.metrics.ChatResponses.WithLabelValues(string(resp.Mode)).Inc()
	}
	return resp, err
}

// Ensure Completer implements denote.Completer.
var _ denote.Completer = (*Completer)(nil)

// Completer observes provider latency and failures.
type Completer struct {
	next     denote.Completer
	provider string
	metrics  *Metrics
}

// NewCompleter creates a new Completer.
func NewCompleter(next denote.Completer, provider string, metrics *Metrics) *Completer {
	return &Completer{next: next, provider: provider, metrics: metrics}
}

// Complete delegates to the wrapped completer.
func (c *Completer) Complete(ctx context.Context, systemPrompt string, messages []denote.ChatMessage) (string, error) {
	begin := time.Now()
	reply, err := c.next.Complete(ctx, systemPrompt, messages)
	c.metrics.CompletionDuration.WithLabelValues(c.provider).Observe(time.Since(begin).Seconds())
	if err != nil {
		c.metrics.ProviderFailures.WithLabelValues(c.provider).Inc()
	}
	return reply, err
}
