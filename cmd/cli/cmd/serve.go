// Package cmd - serve command
package cmd

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"fuzzy-rank/adapters/storage"
	"fuzzy-rank/adapters/tabular"
	"fuzzy-rank/api"
	"fuzzy-rank/internal/config"
	"fuzzy-rank/internal/logging"
)

var serveAddr string

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the evaluation HTTP API",
	Long: `Start the HTTP API. Rankings are stored when storage.backend is set.

Endpoints:
  POST /v1/evaluate          score one restaurant
  POST /v1/rank              rank a JSON batch
  POST /v1/rank/upload       rank an uploaded .xlsx or .csv file
  GET  /v1/rankings[/:id]    stored rankings
  GET  /health, /version`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config: :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Get()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	store, err := storage.Open(ctx, storageConfig(cfg))
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	if !cfg.Logging.Development && os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := api.NewServer(api.Options{
		Version: Version,
		Server:  cfg.Server,
		Engine:  cfg.Engine,
		Input:   inputOptions(cfg),
		Store:   store,
		Logger:  logging.Named("api"),
	})

	newWriter(cmd).Info("fuzzy-rank %s listening on %s", Version, addr)
	return server.ListenAndServe(ctx, addr)
}

func inputOptions(cfg *config.Config) tabular.Options {
	return tabular.Options{
		Sheet: cfg.Input.Sheet,
		Columns: tabular.Columns{
			ID:      cfg.Input.IDColumn,
			Service: cfg.Input.ServiceColumn,
			Price:   cfg.Input.PriceColumn,
		},
	}
}
