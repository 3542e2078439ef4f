package language

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Taichi-iskw/contentrepo/internal/errors"
	"github.com/Taichi-iskw/contentrepo/internal/model"
)

func TestRegistry_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT code, is_enabled, is_default FROM languages ORDER BY is_default DESC").
		WillReturnRows(mock.NewRows([]string{"code", "is_enabled", "is_default"}).
			AddRow("en", true, true).
			AddRow("pl", true, false))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	languages, err := NewRegistry(mock).List(ctx)
	require.NoError(t, err)
	require.Len(t, languages, 2)
	assert.Equal(t, &model.Language{Code: "en", IsEnabled: true, IsDefault: true}, languages[0])
	assert.NoError(t, mock.ExpectationsWereMet(), "pgxmock expectations were not met")
}

func TestRegistry_IsEnabled(t *testing.T) {
	getSQL := "SELECT code, is_enabled, is_default FROM languages WHERE code = \\$1"

	tests := []struct {
		name    string
		code    string
		setup   func(mock pgxmock.PgxPoolIface)
		want    bool
		wantErr bool
	}{
		{
			name: "enabled",
			code: "en",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(getSQL).WithArgs("en").
					WillReturnRows(mock.NewRows([]string{"code", "is_enabled", "is_default"}).AddRow("en", true, true))
			},
			want: true,
		},
		{
			name: "disabled",
			code: "de",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(getSQL).WithArgs("de").
					WillReturnRows(mock.NewRows([]string{"code", "is_enabled", "is_default"}).AddRow("de", false, false))
			},
			want: false,
		},
		{
			name: "unknown",
			code: "xx",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(getSQL).WithArgs("xx").WillReturnError(pgx.ErrNoRows)
			},
			want: false,
		},
		{
			name: "database error",
			code: "en",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(getSQL).WithArgs("en").WillReturnError(assert.AnError)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setup(mock)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			enabled, err := NewRegistry(mock).IsEnabled(ctx, tt.code)
			if tt.wantErr {
				assert.Equal(t, apperrors.CodeStorage, apperrors.CodeOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, enabled)
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "pgxmock expectations were not met")
		})
	}
}

func TestStaticRegistry(t *testing.T) {
	ctx := context.Background()
	registry := NewStatic(
		&model.Language{Code: "en", IsEnabled: true, IsDefault: true},
		&model.Language{Code: "pl", IsEnabled: true},
		&model.Language{Code: "de", IsEnabled: false},
	)

	def, err := registry.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, "en", def.Code)

	enabled, err := registry.IsEnabled(ctx, "pl")
	require.NoError(t, err)
	assert.True(t, enabled)

	enabled, err = registry.IsEnabled(ctx, "de")
	require.NoError(t, err)
	assert.False(t, enabled)

	_, err = registry.Get(ctx, "xx")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}
