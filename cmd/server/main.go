package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Jottis18/sistema-orcamentos/internal/app"
	"github.com/Jottis18/sistema-orcamentos/internal/catalog"
	"github.com/Jottis18/sistema-orcamentos/internal/config"
	"github.com/Jottis18/sistema-orcamentos/internal/quote"
	"github.com/Jottis18/sistema-orcamentos/internal/validation"
	"github.com/Jottis18/sistema-orcamentos/pkg/kit"
)

const service = "orcamentos"

func main() {
	cfg := config.Load()

	log := kit.NewLogger(service, cfg.Env)
	defer func() { _ = log.Sync() }()

	catalogStore, quoteStore := buildStores(cfg, log)

	v := validation.New()

	cs := &catalog.Server{Store: catalogStore, Log: log, Validate: v}
	qs := &quote.Server{Store: quoteStore, Log: log, Validate: v}

	h := app.NewHandler(cs, qs, app.HTTPDeps{
		Log:              log,
		Service:          service,
		Registry:         prometheus.NewRegistry(),
		MetricsEnabled:   cfg.MetricsEnabled,
		MetricsToken:     cfg.MetricsToken,
		CORSOrigins:      cfg.CORSOrigins,
		WriteLimitPerMin: cfg.WriteLimitPerMin,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

// buildStores defaults to the in-memory stores; DATABASE_URL opts into
// the Postgres-backed variants.
func buildStores(cfg config.Config, log *zap.Logger) (catalog.Store, quote.Store) {
	if cfg.DatabaseURL == "" {
		log.Info("using in-memory stores")
		return catalog.NewMemStore(), quote.NewMemStore()
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("ping database", zap.Error(err))
	}

	cs := catalog.NewPostgresStore(db)
	qs := quote.NewPostgresStore(db)

	if err := cs.InitSchema(ctx); err != nil {
		log.Fatal("init products schema", zap.Error(err))
	}
	if err := qs.InitSchema(ctx); err != nil {
		log.Fatal("init quotes schema", zap.Error(err))
	}

	log.Info("using postgres stores")
	return cs, qs
}
