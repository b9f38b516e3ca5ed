package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/recordsdesk/internal/database"
	"github.com/dbsmedya/recordsdesk/internal/logger"
	"github.com/dbsmedya/recordsdesk/internal/repository"
	"github.com/dbsmedya/recordsdesk/internal/server"
)

var (
	listenAddr  string
	storeDriver string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reference records backend",
	Long: `Serve exposes the /records REST resource for local development and
end-to-end testing.

Endpoints:
  GET    /records        list records
  POST   /records        create a record (201)
  PATCH  /records/{id}   update a record
  DELETE /records/{id}   delete a record (204)
  GET    /healthz        liveness
  GET    /metrics        Prometheus metrics (server.metrics)

Storage drivers: memory (default), sqlite, mysql. On MySQL the table is
created under an advisory lock so several instances can start together.

Example:
  recordsdesk serve --listen :8080 --driver sqlite`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Override listen address (e.g. :8080)")
	serveCmd.Flags().StringVar(&storeDriver, "driver", "", "Override storage driver (memory, sqlite, mysql)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.Server.Listen = listenAddr
	}
	if storeDriver != "" {
		cfg.Server.Driver = storeDriver
	}
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := database.SetupSignalHandler(cmd.Context(), func(sig os.Signal) {
		log.Infow("Received signal, shutting down", "signal", sig.String())
	})
	defer cancel()

	dbManager := database.NewManager(&cfg.Server, log)
	if err := dbManager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}
	defer dbManager.Close()

	repo, err := repository.Open(ctx, dbManager, cfg.Server.Table, log)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	opts := []server.Option{server.WithHealthCheck(dbManager.Ping)}
	if cfg.Server.Metrics {
		opts = append(opts, server.WithMetrics(server.NewMetrics()))
	}
	handler := server.NewHandler(repo, log, opts...)

	log.Infow("Starting records backend",
		"listen", cfg.Server.Listen,
		"driver", cfg.Server.Driver,
		"metrics", cfg.Server.Metrics)

	return server.New(cfg.Server.Listen, handler, log).ListenAndServe(ctx)
}
