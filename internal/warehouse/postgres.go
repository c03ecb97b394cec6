package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"github.com/kenmck3772/welltegra-ml-api/internal/config"
)

func init() {
	Register("postgres", newPostgres)
}

func newPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Executor, error) {
	w := cfg.Warehouse
	host := w.Host
	if host == "" {
		host = "localhost"
	}
	port := w.Port
	if port == 0 {
		port = 5432
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s", host, port, w.Database)
	if w.User != "" {
		dsn += fmt.Sprintf(" user=%s", w.User)
	}
	if w.Password != "" {
		dsn += fmt.Sprintf(" password=%s", w.Password)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return NewSQLExecutor(db, func(n int) string { return fmt.Sprintf("$%d", n) }, logger), nil
}
