package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Jottis18/sistema-orcamentos/internal/catalog"
	"github.com/Jottis18/sistema-orcamentos/internal/quote"
	"github.com/Jottis18/sistema-orcamentos/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	CORSOrigins []string
	// WriteLimitPerMin rate-limits mutating routes per client IP.
	// Zero or negative disables the limiter.
	WriteLimitPerMin int
}

const readyTimeout = 1 * time.Second

// NewHandler composes the catalog and quote servers into the public API.
func NewHandler(cs *catalog.Server, qs *quote.Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", readyz(cs, qs, deps.Log))

	write := writeGuard(deps)

	r.Get("/products", cs.ListHandler())
	r.With(write).Post("/products", cs.CreateHandler())
	r.With(write).Put("/products/{id}", cs.UpdateHandler())
	r.With(write).Delete("/products/{id}", cs.DeleteHandler())

	r.Get("/quotes", qs.ListHandler())
	r.With(write).Post("/quotes", qs.CreateHandler())
	r.Get("/quotes/{id}", qs.GetHandler())
	r.With(write).Delete("/quotes/{id}", qs.DeleteHandler())

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func writeGuard(deps HTTPDeps) func(http.Handler) http.Handler {
	if deps.WriteLimitPerMin <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := kit.NewIPRateLimiter(deps.WriteLimitPerMin, time.Minute)
	return limiter.Middleware
}

func readyz(cs *catalog.Server, qs *quote.Server, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := cs.Store.Ping(ctx); err != nil {
			if log != nil {
				log.Warn("readyz failed: catalog", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		if err := qs.Store.Ping(ctx); err != nil {
			if log != nil {
				log.Warn("readyz failed: quotes", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
