package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Ayush-gihub-12345/Web-app/internal/calculator"
	custommw "github.com/Ayush-gihub-12345/Web-app/internal/middleware"
	"github.com/Ayush-gihub-12345/Web-app/internal/platform/observability"
	"github.com/Ayush-gihub-12345/Web-app/internal/site"
	"github.com/Ayush-gihub-12345/Web-app/internal/submission"
)

const requestTimeout = 30 * time.Second

// Config holds the wired components and listener options.
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Logger     *zap.Logger
	Calculator *calculator.Binding
	Site       *site.Site
	Contact    *submission.Handler
	// Metrics is optional; nil disables /metrics.
	Metrics *observability.Metrics
}

// New constructs the HTTP server with the middleware stack and routes.
func New(cfg Config) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           Router(cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       orDefault(cfg.ReadTimeout, 10*time.Second),
		WriteTimeout:      orDefault(cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       orDefault(cfg.IdleTimeout, 120*time.Second),
	}
}

// Router builds the chi router; exposed for tests.
func Router(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.InjectLogger(logger))
	router.Use(observability.TraceMiddleware())
	router.Use(observability.RequestLogger())
	router.Use(observability.Recovery(logger))
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(requestTimeout))
	router.Use(custommw.HTMX())

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	if cfg.Site != nil {
		router.Handle("/assets/*", http.StripPrefix("/assets/", cfg.Site.Assets()))
		router.Get("/", cfg.Site.Home)
	}
	if cfg.Contact != nil {
		router.Method(http.MethodPost, "/contact", cfg.Contact)
	}
	if cfg.Calculator != nil {
		router.Route("/quote", func(r chi.Router) {
			r.Use(custommw.RequireHTMX())
			r.Use(custommw.NoStore())
			r.Post("/preview", cfg.Calculator.Preview)
			r.Post("/apply", cfg.Calculator.Apply)
		})
	}

	return router
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
