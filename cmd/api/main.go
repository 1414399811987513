package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/flores8/lauralee.space/internal/app"
	"github.com/flores8/lauralee.space/internal/config"
	"github.com/flores8/lauralee.space/internal/content"
	"github.com/flores8/lauralee.space/internal/export"
	"github.com/flores8/lauralee.space/internal/gitlog"
	"github.com/flores8/lauralee.space/internal/search"
	"github.com/flores8/lauralee.space/internal/store"
	"github.com/flores8/lauralee.space/internal/views"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	if err := store.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	dataStore := store.NewPostgresStore(db)

	var gitInfo content.GitInfo
	if cfg.GitInfo {
		gitService, err := gitlog.Open(cfg.ContentDir)
		if err != nil {
			log.Printf("git info disabled: %v", err)
		} else {
			gitInfo = gitService
		}
	}
	repo := content.NewRepository(content.NewDirReader(cfg.ContentDir), gitInfo)

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliAPIKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient, search.NewScan(repo, dataStore))

	var counter *views.Counter
	if strings.TrimSpace(cfg.RedisURL) != "" {
		counter, err = views.NewCounter(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer counter.Close()
	} else {
		log.Printf("page view tracking disabled (REDIS_URL not set)")
	}

	service := app.New(cfg, dataStore, repo, searchService, export.NewService(), counter)
	service.Bootstrap(ctx)

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("lauralee.space API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
