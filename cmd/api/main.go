package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mbakare/eventchain/internal/app"
	"github.com/mbakare/eventchain/internal/cache"
	"github.com/mbakare/eventchain/internal/clock"
	"github.com/mbakare/eventchain/internal/config"
	"github.com/mbakare/eventchain/internal/domain"
	"github.com/mbakare/eventchain/internal/identity"
	"github.com/mbakare/eventchain/internal/queue"
	"github.com/mbakare/eventchain/internal/storage/postgres"
	transporthttp "github.com/mbakare/eventchain/internal/transport/http"
	"github.com/mbakare/eventchain/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()

	cfg, err := config.Load(logger)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	clk := clock.NewSystem()
	registry := app.NewRegistryService(domain.Principal(cfg.Admin), postgres.NewOrganizerRepository(pool), clk)
	events := app.NewEventService(postgres.NewEventRepository(pool), registry, clk)
	tickets := app.NewTicketService(postgres.NewTicketRepository(pool), postgres.NewFundsLedger(pool), clk)

	verifier := identity.NewVerifier(cfg.JWTSecret)
	eventCache := cache.NewEventCache(newRedisClient(startupCtx, logger, cfg), cfg.EventCacheTTL)

	var notifier transporthttp.Notifier
	if cfg.AMQPURL != "" {
		notifier = queue.NewPublisher(cfg.AMQPURL)
	} else {
		logger.Printf("WARN: AMQP_URL not set, lifecycle notifications disabled")
	}

	mux := transporthttp.NewRouter(verifier, registry, events, tickets, eventCache, notifier)
	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}

// newRedisClient returns nil when Redis is not configured or unreachable; the
// event cache degrades to a pass-through.
func newRedisClient(ctx context.Context, logger *log.Logger, cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		logger.Printf("WARN: REDIS_ADDR not set, event cache disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Printf("WARN: redis unreachable (%v), event cache disabled", err)
		_ = client.Close()
		return nil
	}
	return client
}
