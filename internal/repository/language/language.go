// Package language reads the registry of languages content can be written in.
package language

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/Taichi-iskw/contentrepo/internal/errors"
	"github.com/Taichi-iskw/contentrepo/internal/model"
	"github.com/Taichi-iskw/contentrepo/internal/repository"
)

// Registry answers which languages exist and which one is the default
type Registry interface {
	List(ctx context.Context) ([]*model.Language, error)
	Get(ctx context.Context, code string) (*model.Language, error)
	Default(ctx context.Context) (*model.Language, error)
	IsEnabled(ctx context.Context, code string) (bool, error)
}

const columns = "code, is_enabled, is_default"

type dbRegistry struct {
	db repository.DBTX
}

// NewRegistry creates a registry backed by the languages table
func NewRegistry(db repository.DBTX) Registry {
	return &dbRegistry{db: db}
}

// List returns every language, the default first
func (r *dbRegistry) List(ctx context.Context) ([]*model.Language, error) {
	rows, err := r.db.Query(ctx, "SELECT "+columns+" FROM languages ORDER BY is_default DESC, code ASC")
	if err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to list languages")
	}

	defer rows.Close()

	languages := []*model.Language{}
	for rows.Next() {
		var lang model.Language
		if err := rows.Scan(&lang.Code, &lang.IsEnabled, &lang.IsDefault); err != nil {
			return nil, repository.HandlePostgreSQLError(err, "failed to scan language row")
		}
		languages = append(languages, &lang)
	}

	if err := rows.Err(); err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to iterate language rows")
	}
	return languages, nil
}

// Get returns one language by code
func (r *dbRegistry) Get(ctx context.Context, code string) (*model.Language, error) {
	return r.getOne(ctx, "SELECT "+columns+" FROM languages WHERE code = $1", code)
}

// Default returns the default language
func (r *dbRegistry) Default(ctx context.Context) (*model.Language, error) {
	return r.getOne(ctx, "SELECT "+columns+" FROM languages WHERE is_default LIMIT 1")
}

// IsEnabled reports whether code is a registered and enabled language
func (r *dbRegistry) IsEnabled(ctx context.Context, code string) (bool, error) {
	lang, err := r.Get(ctx, code)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return lang.IsEnabled, nil
}

func (r *dbRegistry) getOne(ctx context.Context, sql string, args ...any) (*model.Language, error) {
	var lang model.Language
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&lang.Code, &lang.IsEnabled, &lang.IsDefault); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "language not found")
		}
		return nil, repository.HandlePostgreSQLError(err, "failed to get language")
	}
	return &lang, nil
}

// staticRegistry serves a fixed set of languages
type staticRegistry struct {
	languages []*model.Language
}

// NewStatic creates a registry over a fixed list
func NewStatic(languages ...*model.Language) Registry {
	return &staticRegistry{languages: languages}
}

func (r *staticRegistry) List(context.Context) ([]*model.Language, error) {
	return r.languages, nil
}

func (r *staticRegistry) Get(_ context.Context, code string) (*model.Language, error) {
	for _, l := range r.languages {
		if l.Code == code {
			return l, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "language not found")
}

func (r *staticRegistry) Default(context.Context) (*model.Language, error) {
	for _, l := range r.languages {
		if l.IsDefault {
			return l, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "language not found")
}

func (r *staticRegistry) IsEnabled(ctx context.Context, code string) (bool, error) {
	l, err := r.Get(ctx, code)
	if err != nil {
		return false, nil
	}
	return l.IsEnabled, nil
}
