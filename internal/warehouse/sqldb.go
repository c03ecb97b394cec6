package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

var (
	tableRefPattern = regexp.MustCompile("`([^`]+)`")
	namedParamRe    = regexp.MustCompile(`@([A-Za-z_][A-Za-z0-9_]*)`)
)

// SQLExecutor runs warehouse queries through database/sql. It rewrites
// BigQuery-flavored statements for the local engine: backtick-quoted
// `project.dataset.table` references become bare table names, and @name
// parameters become the driver's native placeholders.
type SQLExecutor struct {
	db          *sql.DB
	placeholder func(n int) string
	logger      *slog.Logger
}

// NewSQLExecutor wraps an open database handle. The placeholder function
// formats the n-th positional placeholder ("?" or "$1", "$2", ...).
func NewSQLExecutor(db *sql.DB, placeholder func(n int) string, logger *slog.Logger) *SQLExecutor {
	if placeholder == nil {
		placeholder = func(int) string { return "?" }
	}
	return &SQLExecutor{db: db, placeholder: placeholder, logger: logger}
}

// Query executes a SQL statement and returns all result rows.
func (e *SQLExecutor) Query(ctx context.Context, sqlStr string, params []Parameter) ([]Row, error) {
	stmt, args, err := e.rewrite(sqlStr, params)
	if err != nil {
		return nil, &ExecutionError{Err: err}
	}

	rows, err := e.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		e.logger.Error("warehouse query failed", "error", err)
		return nil, &ExecutionError{Err: err}
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &ExecutionError{Err: err}
	}

	var results []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &ExecutionError{Err: err}
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &ExecutionError{Err: err}
	}
	return results, nil
}

// rewrite translates a BigQuery-flavored statement into the local dialect
// and collects positional arguments for the named parameters, in order of
// appearance.
func (e *SQLExecutor) rewrite(sqlStr string, params []Parameter) (string, []any, error) {
	byName := make(map[string]Parameter, len(params))
	for _, p := range params {
		byName[p.Name] = p
	}

	// `project.dataset.table` -> table
	stmt := tableRefPattern.ReplaceAllStringFunc(sqlStr, func(match string) string {
		ref := strings.Trim(match, "`")
		parts := strings.Split(ref, ".")
		return parts[len(parts)-1]
	})

	var (
		args    []any
		missing string
		n       int
	)
	stmt = namedParamRe.ReplaceAllStringFunc(stmt, func(match string) string {
		name := match[1:]
		p, ok := byName[name]
		if !ok {
			missing = name
			return match
		}
		n++
		args = append(args, p.Value)
		return e.placeholder(n)
	})
	if missing != "" {
		return "", nil, fmt.Errorf("no value bound for parameter @%s", missing)
	}
	return stmt, args, nil
}

// Close closes the connection pool.
func (e *SQLExecutor) Close() error {
	if e.db != nil {
		if e.logger != nil {
			e.logger.Debug("closing warehouse connection")
		}
		return e.db.Close()
	}
	return nil
}
