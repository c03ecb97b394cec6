package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/kenmck3772/welltegra-ml-api/internal/config"
)

func init() {
	Register("sqlite", newSQLite)
}

func newSQLite(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Executor, error) {
	path := cfg.Warehouse.Database
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}
	return NewSQLExecutor(db, nil, logger), nil
}
