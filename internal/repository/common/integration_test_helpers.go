//go:build integration

package common

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Taichi-iskw/contentrepo/internal/database"
)

// SetupTestDB starts a PostgreSQL testcontainer, applies the embedded migrations
// and returns a pool that is closed when the test ends
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Create PostgreSQL container
	container, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("contentrepo_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	databaseURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Run migrations
	require.NoError(t, RunMigrations(databaseURL))

	pool, err := pgxpool.New(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// RunMigrations applies every embedded migration to databaseURL
func RunMigrations(databaseURL string) error {
	migrator, err := database.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Up()
}

// CreateUser inserts an author and returns its id
func CreateUser(t *testing.T, pool *pgxpool.Pool, email, name string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		"INSERT INTO users (email, name) VALUES ($1, $2) RETURNING id", email, name).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateFile inserts a file and returns its id
func CreateFile(t *testing.T, pool *pgxpool.Pool, fileType, name string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		"INSERT INTO files (type, name, extension, size, mime_type) VALUES ($1, $2, 'png', 1024, 'image/png') RETURNING id",
		fileType, name).Scan(&id)
	require.NoError(t, err)
	return id
}
