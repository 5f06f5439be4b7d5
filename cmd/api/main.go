package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"spendbook/internal/auth"
	"spendbook/internal/config"
	"spendbook/internal/database"
	"spendbook/internal/logger"
	"spendbook/internal/metrics"
	"spendbook/internal/server"
	"spendbook/internal/services"
	"spendbook/internal/storage/gormstore"
	"spendbook/internal/validator"
)

// @title           Spendbook API
// @version         1.0
// @description     Spendbook tracks personal spending by category against a budget, and shared spending in password-protected groups.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 15 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	store := gormstore.New(dbManager.DB())
	m := metrics.New()
	hasher := auth.NewBcryptHasher(0)
	tokens := auth.NewTokenIssuer(appConfig.JWTSecret, appConfig.JWTExpirationDur)
	verifier := auth.NewGoogleVerifier(appConfig.GoogleClientID)

	router := server.NewRouter(server.Services{
		Users:  services.NewUserService(store, hasher, tokens, verifier, appConfig.DefaultBudget),
		Ledger: services.NewLedgerService(store, m, appConfig.DefaultBudget),
		Budget: services.NewBudgetService(store, m),
		Groups: services.NewGroupService(store, hasher, m),
		Audit:  services.NewAuditService(store),
	}, server.Options{
		Tokens:         tokens,
		Metrics:        m,
		MetricsAPIKey:  appConfig.MetricsAPIKey,
		DisableSwagger: appConfig.IsProduction(),
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Starting Spendbook server on port %s", appConfig.Port)
		if !appConfig.IsProduction() {
			log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Server stopped")
	return nil
}
