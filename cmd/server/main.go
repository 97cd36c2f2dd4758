// Package main provides the entry point for the dashboard web server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/corops/cordash/internal/config"
	"github.com/corops/cordash/internal/session"
	"github.com/corops/cordash/internal/web"
)

func main() {
	ctx := context.Background()

	if err := run(ctx); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	cfg := config.NewConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	sessions, cleanup, err := setupSessionStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to setup session store: %w", err)
	}
	defer cleanup()

	app := web.NewApp(cfg, sessions)

	server := &http.Server{
		Addr:         ":" + cfg.GetServerPort(),
		Handler:      app.Router(),
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
		IdleTimeout:  cfg.GetIdleTimeout(),
	}

	go func() {
		log.Printf("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
			cancel()
		}
	}()

	select {
	case <-sigChan:
		log.Println("Shutdown signal received")
	case <-ctx.Done():
		log.Println("Context canceled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// setupSessionStore picks redis when configured, the in-memory store
// otherwise. The cleanup closes the redis connection on shutdown.
func setupSessionStore(ctx context.Context, cfg *config.AppConfig) (session.KeyedStore, func(), error) {
	if cfg.GetRedisAddr() == "" {
		log.Println("No REDIS_ADDR configured, sessions are kept in memory")
		return session.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.GetRedisPassword(),
	})

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis unreachable at %s: %w", cfg.GetRedisAddr(), err)
	}

	log.Printf("Sessions stored in redis at %s", cfg.GetRedisAddr())
	store := session.NewRedisStore(client, "", cfg.GetSessionTTL())
	return store, func() { _ = client.Close() }, nil
}
