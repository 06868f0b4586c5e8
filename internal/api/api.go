// Package api provides HTTP handlers and the main API server logic for MindGuide.
//
// It exposes the stateless /question and /decision routes consumed by the
// conversation orchestrator, the /sessions routes driving the server-side
// session state machine, and the embedded web UI.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/BTreeMap/MindGuide/internal/flow"
	"github.com/BTreeMap/MindGuide/internal/genai"
	"github.com/BTreeMap/MindGuide/internal/store"
	"github.com/BTreeMap/MindGuide/web"
)

// Default server configuration
const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = ":8080"
	// DefaultReadTimeout bounds how long a request body read may take.
	DefaultReadTimeout = 30 * time.Second
	// DefaultWriteTimeout bounds the full AI round trip for one request.
	DefaultWriteTimeout = 120 * time.Second
	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second
)

// Opts holds API server configuration.
type Opts struct {
	Addr string
}

// Option configures the API server.
type Option func(*Opts)

// WithAddr overrides the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// Server wires the HTTP surface to the flow services and session store.
type Server struct {
	questions    *flow.QuestionService
	decisions    *flow.DecisionService
	orchestrator *flow.Orchestrator
	st           *store.InMemoryStore
	addr         string
}

// NewServer assembles a server from its dependencies.
func NewServer(questions *flow.QuestionService, decisions *flow.DecisionService, orchestrator *flow.Orchestrator, st *store.InMemoryStore, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return &Server{
		questions:    questions,
		decisions:    decisions,
		orchestrator: orchestrator,
		st:           st,
		addr:         cfg.Addr,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Post("/question", s.questionHandler)
	r.Post("/decision", s.decisionHandler)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.createSessionHandler)
		r.Get("/{sessionID}", s.getSessionHandler)
		r.Post("/{sessionID}/answers", s.answerHandler)
		r.Post("/{sessionID}/reset", s.resetSessionHandler)
	})

	// Embedded web UI catch-all.
	r.Handle("/*", web.Handler())

	return r
}

// Run constructs the full module graph from options and serves HTTP until
// the context is cancelled.
func Run(ctx context.Context, genaiOpts []genai.Option, storeOpts []store.Option, apiOpts []Option) error {
	client, err := genai.NewClient(ctx, genaiOpts...)
	if err != nil {
		// The server still starts; gateway calls answer with a
		// transport-class configuration error until a key is provided.
		slog.Warn("api.Run: GenAI client unavailable, AI routes will return errors", "error", err)
		client = nil
	}

	gateway := flow.NewGateway(client)
	questions := flow.NewQuestionService(gateway)
	decisions := flow.NewDecisionService(gateway)

	st := store.NewInMemoryStore(storeOpts...)
	st.StartJanitor(ctx)

	orchestrator := flow.NewOrchestrator(st, questions, decisions)
	server := NewServer(questions, decisions, orchestrator, st, apiOpts...)

	srv := &http.Server{
		Addr:         server.addr,
		Handler:      server.Router(),
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("api.Run: server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("api.Run: shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("api.Run: graceful shutdown failed", "error", err)
		return err
	}
	return nil
}
