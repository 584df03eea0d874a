package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bookconsole/internal/author"
	"bookconsole/internal/book"
	"bookconsole/internal/config"
	"bookconsole/internal/httpx"
	"bookconsole/internal/publisher"
	"bookconsole/internal/store"
	"bookconsole/internal/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.LoadAPI()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool := mustOpenDB(ctx, cfg.DatabaseDSN)
	defer dbPool.Close()

	authorRepository := author.NewPostgresRepo(dbPool, cfg.QueryTimeout)
	publisherRepository := publisher.NewPostgresRepo(dbPool, cfg.QueryTimeout)
	bookRepository := book.NewPostgresRepo(dbPool, cfg.QueryTimeout)
	userRepository := user.NewPostgresRepo(dbPool, cfg.QueryTimeout)
	blacklist := store.NewBlacklistPG(dbPool, cfg.QueryTimeout)

	authorService := author.NewService(authorRepository)
	publisherService := publisher.NewService(publisherRepository)
	bookService := book.NewService(bookRepository, authorService, publisherService)
	userService := user.NewService(userRepository, blacklist, cfg.JWTSecret, cfg.JWTTTL)

	var attempts httpx.AttemptCounter
	if cfg.RedisURL != "" {
		rdb := mustOpenRedis(ctx, cfg.RedisURL)
		defer rdb.Close()
		attempts = httpx.NewRedisCounter(rdb)
	} else {
		log.Println("REDIS_URL not set; login attempts are not limited")
	}

	router := newRouter(
		handlers{
			authors:    author.NewHTTPHandler(authorService),
			books:      book.NewHTTPHandler(bookService),
			publishers: publisher.NewHTTPHandler(publisherService),
			users:      user.NewHTTPHandler(userService),
		},
		httpx.AuthMiddleware(cfg.JWTSecret, blacklist),
		httpx.LoginRateLimit(attempts, cfg.LoginMaxAttempts, cfg.LoginWindow),
		dbPool.Ping,
	)

	rateLimiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	handler := httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.CORSMiddleware(cfg.CORSOrigins),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		rateLimiter.Middleware,
		httpx.RequestSizeLimitMiddleware(1<<20),
	)

	go purgeBlacklist(ctx, blacklist, time.Hour)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func mustOpenDB(ctx context.Context, dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("cannot create db pool: %v", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Fatalf("cannot ping database (%s): %v", config.RedactDSN(dsn), err)
	}
	log.Println("database connection OK")
	return pool
}

func mustOpenRedis(ctx context.Context, url string) *redis.Client {
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		// The limiter fails open, so a cold Redis does not block startup.
		log.Printf("redis ping failed (%s): %v", config.RedactDSN(url), err)
	}
	return rdb
}

// purgeBlacklist drops expired revocations every interval until ctx ends.
func purgeBlacklist(ctx context.Context, blacklist *store.BlacklistPG, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := blacklist.CleanupExpired(ctx)
			if err != nil {
				log.Printf("blacklist cleanup failed err=%v", err)
				continue
			}
			if n > 0 {
				log.Printf("blacklist cleanup removed=%d", n)
			}
		}
	}
}
