package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kenmck3772/welltegra-ml-api/internal/api"
	"github.com/kenmck3772/welltegra-ml-api/internal/warehouse"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			executor, err := warehouse.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := executor.Close(); err != nil {
					logger.Error("failed to close warehouse client", "error", err)
				}
			}()

			logger.Info("warehouse ready",
				"type", cfg.Warehouse.Type,
				"project", cfg.ProjectID,
				"dataset", cfg.Dataset,
			)
			return api.NewServer(cfg, executor, logger).Serve(ctx)
		},
	}
}
