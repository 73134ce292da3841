package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"traceline/internal/events"
	jwttoken "traceline/internal/jwt_token"
	"traceline/internal/ledger"
	ledgermetrics "traceline/internal/ledger/metrics"
	"traceline/internal/platform/config"
	"traceline/internal/platform/httpserver"
	"traceline/internal/platform/logger"
	"traceline/internal/platform/metrics"
	"traceline/internal/platform/postgres"
	"traceline/internal/platform/redis"
	"traceline/internal/registry"
	httptransport "traceline/internal/transport/http"
)

// main wires stores, services, and the HTTP router, and keeps the server
// lifecycle small. Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}

	db, err := postgres.Open(cfg.PostgresURL)
	if err != nil {
		log.Error("connect postgres", "error", err)
		os.Exit(1)
	}

	var roleStore registry.Store = registry.NewInMemoryStore()
	if redisClient != nil {
		roleStore = registry.NewRedisStore(redisClient)
	}

	var ledgerStore ledger.Store = ledger.NewInMemoryStore()
	if db != nil {
		pgStore := ledger.NewPostgresStore(db)
		if err := pgStore.Migrate(context.Background()); err != nil {
			log.Error("migrate ledger schema", "error", err)
			os.Exit(1)
		}
		ledgerStore = pgStore
	}

	var sink events.Sink = events.NewLogSink(log)
	if redisClient != nil {
		sink = events.NewRedisSink(redisClient, cfg.EventsChannel)
	}
	publisher := events.NewPublisher(sink, log)

	registrySvc := registry.NewService(roleStore, cfg.AdminIdentities, log)
	ledgerSvc := ledger.NewService(ledgerStore, registrySvc, publisher, ledgermetrics.New(), log)

	jwtSvc := jwttoken.NewService(cfg.JWTSigningKey, "traceline")
	handler := httptransport.NewHandler(registrySvc, ledgerSvc, log)
	router := httptransport.NewRouter(handler, jwttoken.NewAdapter(jwtSvc), metrics.New(), cfg.RequestTimeout)

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting traceline", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}
