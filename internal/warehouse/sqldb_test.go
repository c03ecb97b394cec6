package warehouse

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenmck3772/welltegra-ml-api/internal/testutil"
)

func newMockExecutor(t *testing.T, placeholder func(int) string) (*SQLExecutor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLExecutor(db, placeholder, testutil.NewTestLogger(t)), mock
}

func TestSQLExecutor_Rewrite(t *testing.T) {
	tests := []struct {
		name        string
		placeholder func(int) string
		sql         string
		params      []Parameter
		wantSQL     string
		wantArgs    []any
		wantErr     string
	}{
		{
			name:    "table reference stripped to bare name",
			sql:     "SELECT COUNT(*) as count FROM `proj.dataset.toolstring_runs`",
			wantSQL: "SELECT COUNT(*) as count FROM toolstring_runs",
		},
		{
			name:     "named parameter becomes question mark",
			sql:      "SELECT * FROM `p.d.toolstring_runs` WHERE run_id = @run_id",
			params:   []Parameter{StringParam("run_id", "byford-r16")},
			wantSQL:  "SELECT * FROM toolstring_runs WHERE run_id = ?",
			wantArgs: []any{"byford-r16"},
		},
		{
			name:        "postgres placeholders are numbered",
			placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
			sql:         "SELECT 1 WHERE a = @x AND b = @y",
			params:      []Parameter{StringParam("x", "one"), StringParam("y", "two")},
			wantSQL:     "SELECT 1 WHERE a = $1 AND b = $2",
			wantArgs:    []any{"one", "two"},
		},
		{
			name:     "args follow order of appearance",
			sql:      "SELECT 1 WHERE b = @y AND a = @x",
			params:   []Parameter{StringParam("x", "one"), StringParam("y", "two")},
			wantSQL:  "SELECT 1 WHERE b = ? AND a = ?",
			wantArgs: []any{"two", "one"},
		},
		{
			name:    "unbound parameter is an error",
			sql:     "SELECT 1 WHERE a = @missing",
			wantErr: "no value bound for parameter @missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newMockExecutor(t, tt.placeholder)

			stmt, args, err := e.rewrite(tt.sql, tt.params)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, stmt)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestSQLExecutor_Query(t *testing.T) {
	t.Run("rows become column-keyed maps", func(t *testing.T) {
		e, mock := newMockExecutor(t, nil)
		mock.ExpectQuery("SELECT run_id, tool_count FROM toolstring_runs").
			WillReturnRows(sqlmock.NewRows([]string{"run_id", "tool_count"}).
				AddRow("byford-r16", int64(8)).
				AddRow("byford-r17", int64(5)))

		rows, err := e.Query(context.Background(), "SELECT run_id, tool_count FROM `p.d.toolstring_runs`", nil)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "byford-r16", rows[0]["run_id"])
		assert.Equal(t, int64(8), rows[0]["tool_count"])
		assert.Equal(t, "byford-r17", rows[1]["run_id"])
	})

	t.Run("byte slices decode to strings", func(t *testing.T) {
		e, mock := newMockExecutor(t, nil)
		mock.ExpectQuery("SELECT outcome FROM toolstring_runs").
			WillReturnRows(sqlmock.NewRows([]string{"outcome"}).AddRow([]byte("success")))

		rows, err := e.Query(context.Background(), "SELECT outcome FROM `p.d.toolstring_runs`", nil)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "success", rows[0]["outcome"])
	})

	t.Run("parameters are passed positionally", func(t *testing.T) {
		e, mock := newMockExecutor(t, nil)
		mock.ExpectQuery("SELECT * FROM toolstring_tools WHERE run_id = ?").
			WithArgs("byford-r16").
			WillReturnRows(sqlmock.NewRows([]string{"tool_id"}).AddRow("t1"))

		rows, err := e.Query(context.Background(),
			"SELECT * FROM `p.d.toolstring_tools` WHERE run_id = @run_id",
			[]Parameter{StringParam("run_id", "byford-r16")})
		require.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver errors wrap as ExecutionError", func(t *testing.T) {
		e, mock := newMockExecutor(t, nil)
		mock.ExpectQuery("SELECT 1").WillReturnError(assert.AnError)

		_, err := e.Query(context.Background(), "SELECT 1", nil)
		require.Error(t, err)

		var execErr *ExecutionError
		require.True(t, errors.As(err, &execErr))
		assert.ErrorIs(t, execErr.Err, assert.AnError)
	})
}

func TestSQLExecutor_Close(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	e := NewSQLExecutor(db, nil, testutil.NewTestLogger(t))
	assert.NoError(t, e.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
