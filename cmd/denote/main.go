package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/denote"
	"github.com/fwojciec/denote/cache"
	"github.com/fwojciec/denote/chat"
	"github.com/fwojciec/denote/fs"
	"github.com/fwojciec/denote/gemini"
	"github.com/fwojciec/denote/goldmark"
	"github.com/fwojciec/denote/goquery"
	"github.com/fwojciec/denote/openai"
	dprom "github.com/fwojciec/denote/prometheus"
	"github.com/fwojciec/denote/search"
	dslog "github.com/fwojciec/denote/slog"
	"github.com/fwojciec/denote/toml"
	"github.com/fwojciec/denote/yaml"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Getenv reads the environment. Set before calling Run().
	Getenv func(string) string

	// Services for end-to-end testing.
	Store       *fs.Store
	RenderCache *cache.RenderCache
	SearchIndex *search.Index
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Getenv: os.Getenv,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("denote"),
		kong.Description("Serve and query a markdown documentation site."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
		kong.Resolvers(envResolver(m.Getenv)),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'denote --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	cfg, err := toml.LoadConfig(cli.Config, logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", denote.ErrorMessage(err))
		return err
	}
	site := denote.NewSite(*cfg, cli.ContentDir, cli.BasePath)
	deps.Site = site

	m.Store, err = fs.NewStore(site.ContentDir, yaml.NewParser(logger), logger)
	if err != nil {
		return fmt.Errorf("failed to open content directory %q: %w", site.ContentDir, err)
	}

	metrics := dprom.NewMetrics()
	deps.Metrics = metrics

	var docs denote.DocumentService = m.Store
	docs = dprom.NewDocumentService(docs, metrics)
	docs = dslog.NewLoggingDocumentService(docs, logger)
	deps.Documents = docs

	renderer := goquery.NewRenderer(goldmark.NewRenderer())
	m.RenderCache = cache.NewRenderCache(docs, renderer)
	deps.Renders = dslog.NewLoggingRenderService(dprom.NewRenderService(m.RenderCache, metrics), logger)

	m.SearchIndex = search.NewIndex(docs)
	deps.Index = dslog.NewLoggingSearchIndex(m.SearchIndex, logger)

	deps.Invalidator = denote.Invalidators{m.Store, m.RenderCache, m.SearchIndex}

	completer, err := m.newCompleter(ctx, cfg.AI.Provider, metrics, logger)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: check the [ai.provider] section of your config")
		return err
	}
	orchestrator := chat.NewOrchestrator(site, docs, deps.Index, completer, logger)
	if p := cfg.AI.Provider; p != nil && p.Timeout.Duration > 0 {
		orchestrator.Timeout = p.Timeout.Duration
	}
	var chatService denote.ChatService = orchestrator
	chatService = dprom.NewChatService(chatService, metrics)
	chatService = dslog.NewLoggingChatService(chatService, logger)
	deps.Chat = chatService

	if cli.Llms.CountTokens {
		tc, err := gemini.NewTokenCounter(gemini.TokenizerModel)
		if err != nil {
			logger.Warn("token counter unavailable, estimating instead", "err", err)
		} else {
			deps.TokenCounter = tc
		}
	}

	return kongCtx.Run(deps)
}

// newCompleter builds the LLM backend named by the provider config, wrapped
// with metrics and logging. It returns nil when no provider is configured.
func (m *Main) newCompleter(ctx context.Context, p *denote.ProviderConfig, metrics *dprom.Metrics, logger *slog.Logger) (denote.Completer, error) {
	if p == nil {
		return nil, nil
	}

	key := chat.ResolveAPIKey(p, m.Getenv, &chat.WarningState{}, logger)

	var completer denote.Completer
	switch p.Kind {
	case denote.ProviderOpenAI:
		c, err := openai.NewCompleter(openai.Config{
			APIURL: p.APIURL,
			Model:  p.Model,
			APIKey: key,
		})
		if err != nil {
			return nil, err
		}
		completer = c
	case denote.ProviderGemini:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			logger.Warn("Gemini client unavailable, chat will answer from search", "err", err)
			return nil, nil
		}
		completer = gemini.NewCompleter(client, p.Model)
	default:
		return nil, denote.Errorf(denote.EINVALID, "unknown AI provider kind %q", p.Kind)
	}

	completer = dprom.NewCompleter(completer, p.Kind, metrics)
	return dslog.NewLoggingCompleter(completer, p.Kind, logger), nil
}

// envResolver resolves flags tagged with env through getenv so tests can
// supply their own environment.
func envResolver(getenv func(string) string) kong.Resolver {
	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		for _, name := range flag.Envs {
			if v := getenv(name); v != "" {
				return v, nil
			}
		}
		return nil, nil
	})
}
