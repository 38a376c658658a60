package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/config"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/database"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/router"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/services"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/storage"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/logger"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/utils"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	tokens, err := utils.NewJWTManager(cfg.JWT.Secret, cfg.TokenTTL())
	if err != nil {
		log.Fatalf("jwt initialization failed: %v", err)
	}

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := database.SeedAdmin(db, cfg.Seed); err != nil {
		log.Fatalf("failed seeding admin account: %v", err)
	}

	ctx := context.Background()
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("storage initialization failed: %v", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		log.Fatalf("failed ensuring storage bucket: %v", err)
	}

	audit := services.NewAuditService(db, cfg.Audit.QueueSize)

	app := router.New(router.Deps{
		Config: cfg,
		DB:     db,
		Store:  store,
		Tokens: tokens,
		Audit:  audit,
	})

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":           cfg.Server.Port,
		"address":        listenAddr,
		"db_driver":      cfg.DB.Driver,
		"storage_driver": cfg.Storage.Driver,
		"body_limit_mb":  cfg.Server.BodyLimitMB,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("server_shutting_down", map[string]interface{}{"signal": sig.String()})
		if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
			logger.Error("server_shutdown_failed", err, nil)
		}
	case err := <-errCh:
		if err != nil {
			logger.Error("server_error", err, nil)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := audit.Close(shutdownCtx); err != nil {
		logger.Warn("audit_drain_incomplete", map[string]interface{}{"error": err.Error()})
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
