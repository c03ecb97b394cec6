package warehouse

import (
	"context"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenmck3772/welltegra-ml-api/internal/config"
)

type noopExecutor struct{}

func (noopExecutor) Query(context.Context, string, []Parameter) ([]Row, error) { return nil, nil }
func (noopExecutor) Close() error                                              { return nil }

func TestNew_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Warehouse: config.WarehouseConfig{Type: "teradata"}}

	_, err := New(context.Background(), cfg, nil)
	require.Error(t, err)

	var unknownErr *UnknownBackendError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "teradata", unknownErr.Type)
	assert.Contains(t, unknownErr.Available, "bigquery")
	assert.Contains(t, unknownErr.Available, "duckdb")
}

func TestNew_EmptyType(t *testing.T) {
	cfg := &config.Config{}

	_, err := New(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warehouse type not specified")
}

func TestRegister(t *testing.T) {
	Register("noop-test", func(context.Context, *config.Config, *slog.Logger) (Executor, error) {
		return noopExecutor{}, nil
	})

	cfg := &config.Config{Warehouse: config.WarehouseConfig{Type: "noop-test"}}
	exec, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, exec)
}

func TestListBackends_Sorted(t *testing.T) {
	names := ListBackends()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "bigquery")
	assert.Contains(t, names, "duckdb")
	assert.Contains(t, names, "sqlite")
	assert.Contains(t, names, "postgres")
}
