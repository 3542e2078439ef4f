//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Taichi-iskw/contentrepo/internal/errors"
	"github.com/Taichi-iskw/contentrepo/internal/repository"
	"github.com/Taichi-iskw/contentrepo/internal/repository/common"
)

// TestPostgreSQLErrorHandling maps real constraint violations of the schema
func TestPostgreSQLErrorHandling(t *testing.T) {
	// Setup real PostgreSQL using testcontainers
	pool := common.SetupTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var contentID, routeID int64
	require.NoError(t, pool.QueryRow(ctx,
		"INSERT INTO contents (type) VALUES ('category') RETURNING id").Scan(&contentID))
	require.NoError(t, pool.QueryRow(ctx,
		"INSERT INTO routes (content_id) VALUES ($1) RETURNING id", contentID).Scan(&routeID))
	_, err := pool.Exec(ctx,
		"INSERT INTO route_translations (route_id, language_code, url) VALUES ($1, 'en', 'example-title')", routeID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx,
		"INSERT INTO content_translations (content_id, language_code, title, is_active) VALUES ($1, 'en', 'Example title', true)", contentID)
	require.NoError(t, err)

	tests := []struct {
		name           string
		sql            string
		args           []any
		wantPgCode     string
		wantCode       string
		wantMessage    string
		wantConstraint string
	}{
		{
			name:           "duplicate url in language",
			sql:            "INSERT INTO route_translations (route_id, language_code, url) VALUES ($1, 'pl', 'example-title'), ($1, 'en', 'example-title')",
			args:           []any{routeID},
			wantPgCode:     "23505",
			wantCode:       apperrors.CodeConflict,
			wantMessage:    "url already exists in this language",
			wantConstraint: "route_translations_lang_url_key",
		},
		{
			name:           "second active translation",
			sql:            "INSERT INTO content_translations (content_id, language_code, title, is_active) VALUES ($1, 'en', 'Other', true)",
			args:           []any{contentID},
			wantPgCode:     "23505",
			wantCode:       apperrors.CodeConflict,
			wantMessage:    "content already has an active translation in this language",
			wantConstraint: "content_translations_active_idx",
		},
		{
			name:        "second route for a node",
			sql:         "INSERT INTO routes (content_id) VALUES ($1)",
			args:        []any{contentID},
			wantPgCode:  "23505",
			wantCode:    apperrors.CodeConflict,
			wantMessage: "content already has a route",
		},
		{
			name:        "unknown language",
			sql:         "INSERT INTO content_translations (content_id, language_code, title) VALUES ($1, 'xx', 'Title')",
			args:        []any{contentID},
			wantPgCode:  "23503",
			wantCode:    apperrors.CodeDependency,
			wantMessage: "referenced language does not exist",
		},
		{
			name:        "missing parent",
			sql:         "INSERT INTO contents (type, parent_id, path, level) VALUES ('content', 999999, '999999/', 1)",
			wantPgCode:  "23503",
			wantCode:    apperrors.CodeDependency,
			wantMessage: "referenced parent content does not exist",
		},
		{
			name:        "unknown content type",
			sql:         "INSERT INTO contents (type) VALUES ('gallery')",
			wantPgCode:  "23514",
			wantCode:    apperrors.CodeInvalidArg,
			wantMessage: "data violates check constraint",
		},
		{
			name:        "missing title",
			sql:         "INSERT INTO content_translations (content_id, language_code, title) VALUES ($1, 'pl', NULL)",
			args:        []any{contentID},
			wantPgCode:  "23502",
			wantCode:    apperrors.CodeInvalidArg,
			wantMessage: "required field is missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pool.Exec(ctx, tt.sql, tt.args...)
			require.Error(t, err)

			var pgErr *pgconn.PgError
			require.ErrorAs(t, err, &pgErr)
			assert.Equal(t, tt.wantPgCode, pgErr.Code)
			if tt.wantConstraint != "" {
				assert.Equal(t, tt.wantConstraint, pgErr.ConstraintName)
			}

			appErr := repository.HandlePostgreSQLError(err, "insert")
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Contains(t, appErr.Message, tt.wantMessage)
		})
	}

	t.Run("failed transaction leaves no rows behind", func(t *testing.T) {
		err := repository.WithTx(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, "INSERT INTO contents (type) VALUES ('content')"); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, "INSERT INTO routes (content_id) VALUES ($1)", contentID); err != nil {
				return repository.HandlePostgreSQLError(err, "failed to create route")
			}
			return nil
		})
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))

		var count int
		require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM contents").Scan(&count))
		assert.Equal(t, 1, count)
	})
}
