package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bookconsole/internal/apiclient"
	"bookconsole/internal/config"
	"bookconsole/internal/console"
	"bookconsole/internal/httpx"
	"bookconsole/internal/locale"
	"bookconsole/internal/session"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.LoadConsole()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	locales, err := locale.NewCatalog(cfg.DefaultLang)
	if err != nil {
		log.Fatalf("locale: %v", err)
	}

	client := apiclient.NewClient(apiclient.Options{
		BaseURL:   cfg.APIBaseURL,
		UserAgent: "bookconsole/1.0",
		Timeout:   cfg.APITimeout,
		RPS:       cfg.APIRPS,
		Token:     session.TokenFrom,
	})
	store := session.NewCookieStore([]byte(cfg.SessionSecret), cfg.CookieSecure)

	srv, err := console.New(client, store, locales)
	if err != nil {
		log.Fatalf("console: %v", err)
	}

	handler := httpx.Chain(srv.Routes(),
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.RequestSizeLimitMiddleware(1<<20),
	)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.APITimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("console listening addr=%s api=%s", cfg.Addr, cfg.APIBaseURL)
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
