package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/florisapp/floris-go/internal/auth"
	"github.com/florisapp/floris-go/internal/bootstrap"
	"github.com/florisapp/floris-go/internal/catalog"
	"github.com/florisapp/floris-go/internal/config"
	"github.com/florisapp/floris-go/internal/database"
	"github.com/florisapp/floris-go/internal/gacha"
	"github.com/florisapp/floris-go/internal/inventory"
	"github.com/florisapp/floris-go/internal/points"
	"github.com/florisapp/floris-go/internal/server"
	"github.com/florisapp/floris-go/internal/share"
)

const migrationsDir = "migrations"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Logger setup failed", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	if cfg.MigrateOnStart {
		if err := database.Migrate(cfg.GetDBConnString(), migrationsDir); err != nil {
			slog.Error("Migration failed", "error", err)
			os.Exit(1)
		}
	}

	dbPool, err := database.NewPool(cfg.GetDBConnString(), 10, 5*time.Minute, 30*time.Minute)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		slog.Error("Catalog load failed", "error", err, "path", cfg.CatalogPath)
		os.Exit(1)
	}
	slog.Info("Catalog loaded", "flowers", cat.Size())

	repos := bootstrap.InitializeRepositories(dbPool)

	gachaService := gacha.NewService(repos.Flower, cat, cfg.GachaCost, gacha.Rates{
		Common:    cfg.RateCommon,
		Rare:      cfg.RateRare,
		Legendary: cfg.RateLegendary,
	})
	pointsService := points.NewService(repos.User)
	inventoryService := inventory.NewService(pointsService, repos.Flower, cat)
	shareService := share.NewService(repos.Flower, cat, cfg.FrontendURL)

	verifier := auth.NewVerifier(cfg.JWTSecret)

	srv := server.NewServer(cfg.Port, verifier, cfg.TrustedProxies, dbPool,
		gachaService, inventoryService, shareService)

	// Run the server until interrupted, then drain in-flight requests
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		slog.Info(bootstrap.LogMsgShuttingDownServer, "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), bootstrap.ShutdownTimeout)
		defer cancel()

		if err := srv.Stop(ctx); err != nil {
			slog.Error(bootstrap.LogMsgServerForcedShutdown, "error", err)
		}
	}

	slog.Info(bootstrap.LogMsgServerStopped)
}
