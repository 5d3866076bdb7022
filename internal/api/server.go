// Package api implements the HTTP layer for the billing notifier. Handlers
// are methods on *Server; each handler file is responsible for one resource
// group and only imports the dependencies it actually uses.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yokweb/billing-notifier/internal/worker"

	stripeinternal "github.com/yokweb/billing-notifier/internal/stripe"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// StripeWebhookSecret is the signing secret from the Stripe dashboard.
	StripeWebhookSecret string

	// Env is "production", "staging", or "development".
	Env string
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// stripe verifies webhook signatures.
	stripe stripeinternal.Client

	// worker receives classified notices after the webhook is acknowledged.
	worker worker.Enqueuer

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(
	stripeClient stripeinternal.Client,
	enqueuer worker.Enqueuer,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	s := &Server{
		stripe: stripeClient,
		worker: enqueuer,
		cfg:    cfg,
		logger: logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/", s.handleRoot)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// ── Metrics ───────────────────────────────────────────────────────────────
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// ── Stripe webhook — no auth (signature verification inside handler) ──────
	r.Post("/webhook", s.handleStripeWebhook)

	return r
}

// handleRoot is the fixed plaintext acknowledgment used by uptime checks.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Stripe webhook notifier is running"))
}
