package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"lessonview/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableNames(t *testing.T) {
	assert.Equal(t, "lesson_files", NewTableNames("").LessonFiles)
	assert.Equal(t, "dev_lesson_files", NewTableNames("dev_").LessonFiles)
}

func TestIsPgNoRowsError(t *testing.T) {
	assert.True(t, IsPgNoRowsError(pgx.ErrNoRows))
	assert.True(t, IsPgNoRowsError(fmt.Errorf("fetch: %w", pgx.ErrNoRows)))
	assert.False(t, IsPgNoRowsError(errors.New("no rows")))
	assert.False(t, IsPgNoRowsError(nil))
}

func TestIsPgUndefinedTableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"undefined table", &pgconn.PgError{Code: "42P01"}, true},
		{"wrapped", fmt.Errorf("list: %w", &pgconn.PgError{Code: "42P01"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("42P01"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPgUndefinedTableError(tt.err))
		})
	}
}

// txStub satisfies pgx.Tx; GetExecutor only needs its identity
type txStub struct {
	pgx.Tx
}

func TestGetExecutor(t *testing.T) {
	var pool *pgxpool.Pool

	exec := GetExecutor(context.Background(), pool)
	_, isPool := exec.(*pgxpool.Pool)
	assert.True(t, isPool, "no transaction in context uses the pool")

	tx := &txStub{}
	exec = GetExecutor(repositories.SetTx(context.Background(), tx), pool)
	assert.Same(t, tx, exec)
}

func TestConfigurePool(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want pgx.QueryExecMode
	}{
		{"direct connection", "postgres://app@localhost:5432/lessons", pgx.QueryExecModeCacheStatement},
		{"transaction pooler", "postgres://app@localhost:6543/lessons", pgx.QueryExecModeCacheDescribe},
		{"pooler with explicit mode", "postgres://app@localhost:6543/lessons?default_query_exec_mode=exec", pgx.QueryExecModeExec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := pgxpool.ParseConfig(tt.url)
			require.NoError(t, err)

			configurePool(config)

			assert.Equal(t, tt.want, config.ConnConfig.DefaultQueryExecMode)
			assert.Equal(t, int32(10), config.MaxConns)
			assert.Equal(t, int32(1), config.MinConns)
		})
	}
}

func TestCreateConnectionPool_BadURL(t *testing.T) {
	_, err := CreateConnectionPool(context.Background(), "postgres://app@localhost:notaport/lessons")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse connection string")
}
