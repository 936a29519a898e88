package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/devgenix/surpriseal/internal/provider"
	"github.com/devgenix/surpriseal/internal/server"
	"github.com/devgenix/surpriseal/internal/session"
	"github.com/devgenix/surpriseal/internal/store"
)

func main() {
	cfg := loadConfigFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("reveal-service: pg: %v", err)
	}
	defer pool.Close()
	if err := store.AutoMigrate(ctx, pool); err != nil {
		log.Fatalf("reveal-service: migrate: %v", err)
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("reveal-service: redis: %v", err)
	}
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	registry := session.NewRegistry(rdb, server.LogFeedback{})
	defer registry.CloseAll()

	srv := server.NewServer(store.New(pool), registry, provider.NewClient(cfg.OEmbedURL))

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Router(),
	}
	go func() {
		<-ctx.Done()
		_ = httpSrv.Shutdown(context.Background())
	}()

	log.Printf("reveal-service on :%s", cfg.Port)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("reveal-service: listen: %v", err)
	}
}
