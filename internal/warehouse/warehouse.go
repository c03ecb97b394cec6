// Package warehouse provides query execution against the analytical
// warehouse backing the WellTegra API.
//
// The production backend is BigQuery. For development and testing the same
// queries can run against a local mirror of the dataset through database/sql
// backends (duckdb, sqlite, postgres). Backends are registered by name and
// selected by configuration.
package warehouse

import (
	"context"
	"fmt"
)

// Row is a single result row keyed by SELECT column name.
type Row map[string]any

// Parameter types accepted by Query.
const (
	TypeString  = "STRING"
	TypeInt64   = "INT64"
	TypeFloat64 = "FLOAT64"
)

// Parameter is a typed named query parameter. Statements reference it as
// @name; the backend translates that to its native placeholder form.
type Parameter struct {
	Name  string
	Type  string
	Value any
}

// StringParam returns a STRING parameter.
func StringParam(name, value string) Parameter {
	return Parameter{Name: name, Type: TypeString, Value: value}
}

// Int64Param returns an INT64 parameter.
func Int64Param(name string, value int64) Parameter {
	return Parameter{Name: name, Type: TypeInt64, Value: value}
}

// Executor runs SQL against the warehouse. Implementations are long-lived,
// safe for concurrent use, and retain no state between calls. Any failure
// is returned as *ExecutionError wrapping the driver error; there are no
// retries and no partial results.
type Executor interface {
	// Query executes a SQL statement and returns all result rows.
	Query(ctx context.Context, sql string, params []Parameter) ([]Row, error)

	// Close releases the underlying client or connection pool.
	Close() error
}

// ExecutionError wraps any warehouse driver failure. The caller decides
// how to present it.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("warehouse query failed: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
