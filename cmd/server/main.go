// Package main - Entry point for the fuzzy-rank API server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"fuzzy-rank/adapters/storage"
	"fuzzy-rank/adapters/tabular"
	"fuzzy-rank/api"
	"fuzzy-rank/internal/config"
	"fuzzy-rank/internal/logging"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "config file (JSON or .hcl)")
	addr := flag.String("addr", "", "server address (overrides config)")
	flag.Parse()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	if err := run(*configPath, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "fuzzy-rank server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, addr string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, storage.Config{
		Backend: storage.Backend(cfg.Storage.Backend),
		Path:    cfg.Storage.Path,
		DSN:     cfg.Storage.DSN,
	})
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	if !cfg.Logging.Development && os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	logging.Info("starting fuzzy-rank server",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr),
		zap.String("storage", cfg.Storage.Backend))

	server := api.NewServer(api.Options{
		Version: version,
		Server:  cfg.Server,
		Engine:  cfg.Engine,
		Input: tabular.Options{
			Sheet: cfg.Input.Sheet,
			Columns: tabular.Columns{
				ID:      cfg.Input.IDColumn,
				Service: cfg.Input.ServiceColumn,
				Price:   cfg.Input.PriceColumn,
			},
		},
		Store:  store,
		Logger: logging.Named("api"),
	})
	return server.ListenAndServe(ctx, cfg.Server.Addr)
}
