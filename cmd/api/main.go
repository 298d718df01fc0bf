package main

import (
	"context"
	"database/sql"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/tripmatch-app/tripmatch-api/db/migrations"
	"github.com/tripmatch-app/tripmatch-api/internal/adapters/httpapi"
	memadminrepo "github.com/tripmatch-app/tripmatch-api/internal/adapters/memory/adminrepo"
	memhiddenrepo "github.com/tripmatch-app/tripmatch-api/internal/adapters/memory/hiddenrepo"
	memtriprepo "github.com/tripmatch-app/tripmatch-api/internal/adapters/memory/triprepo"
	"github.com/tripmatch-app/tripmatch-api/internal/adapters/postgres"
	pgadminrepo "github.com/tripmatch-app/tripmatch-api/internal/adapters/postgres/adminrepo"
	pghiddenrepo "github.com/tripmatch-app/tripmatch-api/internal/adapters/postgres/hiddenrepo"
	pgtriprepo "github.com/tripmatch-app/tripmatch-api/internal/adapters/postgres/triprepo"
	"github.com/tripmatch-app/tripmatch-api/internal/app/moderation"
	"github.com/tripmatch-app/tripmatch-api/internal/app/trips"
	"github.com/tripmatch-app/tripmatch-api/internal/platform/clock"
	"github.com/tripmatch-app/tripmatch-api/internal/platform/config"
	adminrepoport "github.com/tripmatch-app/tripmatch-api/internal/ports/out/adminrepo"
	hiddenrepoport "github.com/tripmatch-app/tripmatch-api/internal/ports/out/hiddenrepo"
	triprepoport "github.com/tripmatch-app/tripmatch-api/internal/ports/out/triprepo"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	clk := clock.NewSystemClock()

	var (
		tripRepo  triprepoport.Repository
		ledger    hiddenrepoport.Repository
		adminRepo adminrepoport.Repository
		cleanup   func()
	)

	switch cfg.StorageBackend {
	case "postgres":
		if cfg.MigrateOnStart {
			if err := runMigrations(cfg.DatabaseURL); err != nil {
				log.Fatal("run migrations", zap.Error(err))
			}
		}
		pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			log.Fatal("open postgres pool", zap.Error(err))
		}
		cleanup = pool.Close

		tripRepo = pgtriprepo.NewRepo(pool)
		ledger = pghiddenrepo.NewRepo(pool)
		adminRepo = pgadminrepo.NewRepo(pool)
	default:
		memTrips := memtriprepo.NewRepo()
		memLedger := memhiddenrepo.NewRepo(memTrips)
		memTrips.BindHiddenIndex(memLedger)
		memAdmins := memadminrepo.NewRepo()
		for _, id := range cfg.AdminUserIDs {
			memAdmins.Grant(id)
		}

		tripRepo = memTrips
		ledger = memLedger
		adminRepo = memAdmins
	}

	if cleanup != nil {
		defer cleanup()
	}

	tripSvc := trips.NewService(tripRepo, ledger, clk, log)
	modSvc := moderation.NewService(ledger, adminRepo, tripRepo, clk, log)

	handler := httpapi.NewRouter(httpapi.NewServer(tripSvc, modSvc, log))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("api listening", zap.String("port", cfg.Port), zap.String("storage", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}
