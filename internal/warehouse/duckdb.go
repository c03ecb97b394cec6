package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/kenmck3772/welltegra-ml-api/internal/config"
)

func init() {
	Register("duckdb", newDuckDB)
}

// newDuckDB opens a DuckDB mirror of the warehouse dataset.
// Use ":memory:" as the database path for an in-memory database.
func newDuckDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Executor, error) {
	path := cfg.Warehouse.Database
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}
	return NewSQLExecutor(db, nil, logger), nil
}
