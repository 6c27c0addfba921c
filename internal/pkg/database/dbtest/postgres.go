//go:build integration

// Package dbtest sobe um PostgreSQL descartável (testcontainers) com as
// migrações aplicadas. Rode com: go test -tags integration ./internal/repository/...
package dbtest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"saborstock/internal/pkg/database"
	migrations "saborstock/sql"
)

// NewPostgres devolve uma conexão com um banco novo e migrado. O container é
// encerrado no fim do teste.
func NewPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("saborstock_test"),
		tcPostgres.WithUsername("saborstock"),
		tcPostgres.WithPassword("saborstock"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.NewPostgresDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "."))
	return db
}
