package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/campus-market/internal/config"
	"github.com/msomdec/campus-market/internal/domain"
	"github.com/msomdec/campus-market/internal/handler"
	"github.com/msomdec/campus-market/internal/repository/gridfs"
	"github.com/msomdec/campus-market/internal/repository/sqlite"
	"github.com/msomdec/campus-market/internal/service"
	"github.com/msomdec/campus-market/internal/store"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied", "path", cfg.DatabasePath)

	var files domain.FileStore = db.FileStore()
	if cfg.ImageStore == config.ImageStoreGridFS {
		images, err := gridfs.New(context.Background(), cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			slog.Error("failed to connect image store", "error", err)
			os.Exit(1)
		}
		defer images.Close(context.Background())
		files = images
		slog.Info("storing photos in gridfs", "database", cfg.MongoDatabase)
	}

	kv := db.KV()
	accountService := service.NewAccountService(store.NewAccounts(kv), store.NewSessions(kv), service.BcryptHasher{Cost: cfg.BcryptCost}, cfg.EmailSuffix)
	catalogService := service.NewCatalogService(store.NewListings(kv))
	imageService := service.NewImageService(files)

	// 5 attempts per burst, refilled at one every two seconds.
	authLimiter := service.NewTokenBucket(0.5, 5)
	defer authLimiter.Stop()

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Services{
		Accounts:     accountService,
		Catalog:      catalogService,
		Images:       imageService,
		Tokens:       service.NewProfileTokens(cfg.JWTSecret),
		AuthLimiter:  authLimiter,
		CookieSecure: cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "emailSuffix", accountService.EmailSuffix())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
