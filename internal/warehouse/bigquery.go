package warehouse

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/kenmck3772/welltegra-ml-api/internal/config"
)

func init() {
	Register("bigquery", func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Executor, error) {
		return NewBigQueryExecutor(ctx, cfg.ProjectID, logger)
	})
}

// BigQueryExecutor runs queries through the BigQuery client. The client is
// safe for concurrent use and is shared across requests for the lifetime of
// the process.
type BigQueryExecutor struct {
	client *bigquery.Client
	logger *slog.Logger
}

// NewBigQueryExecutor creates an executor for the given GCP project.
// Credentials are resolved by the client library (application default
// credentials in production).
func NewBigQueryExecutor(ctx context.Context, projectID string, logger *slog.Logger) (*BigQueryExecutor, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create bigquery client: %w", err)
	}
	return &BigQueryExecutor{client: client, logger: logger}, nil
}

// Query executes a SQL statement with optional named parameters and returns
// all result rows.
func (e *BigQueryExecutor) Query(ctx context.Context, sqlStr string, params []Parameter) ([]Row, error) {
	q := e.client.Query(sqlStr)
	for _, p := range params {
		q.Parameters = append(q.Parameters, bigquery.QueryParameter{
			Name:  p.Name,
			Value: p.Value,
		})
	}

	it, err := q.Read(ctx)
	if err != nil {
		e.logger.Error("bigquery query failed", "error", err)
		return nil, &ExecutionError{Err: err}
	}

	var rows []Row
	for {
		var vals map[string]bigquery.Value
		err := it.Next(&vals)
		if err == iterator.Done {
			break
		}
		if err != nil {
			e.logger.Error("bigquery row read failed", "error", err)
			return nil, &ExecutionError{Err: err}
		}
		row := make(Row, len(vals))
		for k, v := range vals {
			row[k] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Close closes the BigQuery client.
func (e *BigQueryExecutor) Close() error {
	return e.client.Close()
}
