package translation

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/Taichi-iskw/contentrepo/internal/errors"
	"github.com/Taichi-iskw/contentrepo/internal/model"
	"github.com/Taichi-iskw/contentrepo/internal/repository"
)

const columns = `id, content_id, author_id, language_code, title, teaser, body,
	seo_title, seo_description, is_active, created_at, updated_at`

// translationRepository implements Repository using PostgreSQL
type translationRepository struct {
	pool repository.Pool
}

// NewRepository creates a new translation repository
func NewRepository(pool repository.Pool) Repository {
	return &translationRepository{
		pool: pool,
	}
}

// Create creates a new active translation in its own transaction
func (r *translationRepository) Create(ctx context.Context, contentID int64, input *model.TranslationInput) (*model.Translation, error) {
	var created *model.Translation
	err := repository.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		created, err = r.CreateTx(ctx, tx, contentID, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateTx deactivates the current translations of the language and inserts the new one as active
func (r *translationRepository) CreateTx(ctx context.Context, db repository.DBTX, contentID int64, input *model.TranslationInput) (*model.Translation, error) {
	if err := ValidateInput(input); err != nil {
		return nil, err
	}

	deactivate := `UPDATE content_translations SET is_active = false, updated_at = NOW()
		WHERE content_id = $1 AND language_code = $2 AND is_active`
	if _, err := db.Exec(ctx, deactivate, contentID, input.LanguageCode); err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to deactivate translations")
	}

	translation := &model.Translation{
		ContentID:      contentID,
		AuthorID:       input.AuthorID,
		LanguageCode:   input.LanguageCode,
		Title:          input.Title,
		Teaser:         input.Teaser,
		Body:           input.Body,
		SEOTitle:       input.SEOTitle,
		SEODescription: input.SEODescription,
		IsActive:       true,
	}

	insert := `INSERT INTO content_translations
		(content_id, author_id, language_code, title, teaser, body, seo_title, seo_description, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true)
		RETURNING id, created_at, updated_at`
	err := db.QueryRow(ctx, insert,
		translation.ContentID, translation.AuthorID, translation.LanguageCode, translation.Title,
		translation.Teaser, translation.Body, translation.SEOTitle, translation.SEODescription,
	).Scan(&translation.ID, &translation.CreatedAt, &translation.UpdatedAt)
	if err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to create translation")
	}

	return translation, nil
}

// ValidateInput checks the fields every translation needs
func ValidateInput(input *model.TranslationInput) error {
	if input == nil || strings.TrimSpace(input.LanguageCode) == "" || strings.TrimSpace(input.Title) == "" {
		return apperrors.New(apperrors.CodeInvalidArg, "Language code and title of translation is required")
	}
	return nil
}

// Delete removes an inactive translation
func (r *translationRepository) Delete(ctx context.Context, id int64) error {
	return repository.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var isActive bool
		err := tx.QueryRow(ctx, "SELECT is_active FROM content_translations WHERE id = $1 FOR UPDATE", id).Scan(&isActive)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.Wrap(err, apperrors.CodeNotFound, "translation not found")
			}
			return repository.HandlePostgreSQLError(err, "failed to get translation")
		}

		if isActive {
			return apperrors.New(apperrors.CodeConflict, "Cannot delete active translation")
		}

		if _, err := tx.Exec(ctx, "DELETE FROM content_translations WHERE id = $1", id); err != nil {
			return repository.HandlePostgreSQLError(err, "failed to delete translation")
		}
		return nil
	})
}

// DeleteForContents removes all translations, active ones included, of the given nodes
func (r *translationRepository) DeleteForContents(ctx context.Context, db repository.DBTX, contentIDs []int64) error {
	if len(contentIDs) == 0 {
		return nil
	}
	if _, err := db.Exec(ctx, "DELETE FROM content_translations WHERE content_id = ANY($1)", contentIDs); err != nil {
		return repository.HandlePostgreSQLError(err, "failed to delete translations")
	}
	return nil
}

// GetByID retrieves a translation by ID
func (r *translationRepository) GetByID(ctx context.Context, id int64) (*model.Translation, error) {
	sql := "SELECT " + columns + " FROM content_translations WHERE id = $1"
	return r.getOne(ctx, r.pool, sql, id)
}

// GetForContent retrieves a translation by ID that belongs to the content node
func (r *translationRepository) GetForContent(ctx context.Context, contentID, id int64) (*model.Translation, error) {
	sql := "SELECT " + columns + " FROM content_translations WHERE id = $1 AND content_id = $2"
	return r.getOne(ctx, r.pool, sql, id, contentID)
}

// GetActive retrieves the active translation of a content node in a language
func (r *translationRepository) GetActive(ctx context.Context, contentID int64, lang string) (*model.Translation, error) {
	return r.GetActiveTx(ctx, r.pool, contentID, lang)
}

// GetActiveTx is GetActive reading through db
func (r *translationRepository) GetActiveTx(ctx context.Context, db repository.DBTX, contentID int64, lang string) (*model.Translation, error) {
	sql := "SELECT " + columns + " FROM content_translations WHERE content_id = $1 AND language_code = $2 AND is_active"
	return r.getOne(ctx, db, sql, contentID, lang)
}

func (r *translationRepository) getOne(ctx context.Context, db repository.DBTX, sql string, args ...any) (*model.Translation, error) {
	translation, err := scanTranslation(db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "translation not found")
		}
		return nil, repository.HandlePostgreSQLError(err, "failed to get translation")
	}
	return translation, nil
}

// ActiveForContents loads the active translations of many content nodes
func (r *translationRepository) ActiveForContents(ctx context.Context, db repository.DBTX, contentIDs []int64) (map[int64][]*model.Translation, error) {
	result := make(map[int64][]*model.Translation, len(contentIDs))
	if len(contentIDs) == 0 {
		return result, nil
	}

	sql := "SELECT " + columns + ` FROM content_translations
		WHERE content_id = ANY($1) AND is_active
		ORDER BY content_id, language_code`
	rows, err := db.Query(ctx, sql, contentIDs)
	if err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to load translations")
	}

	translations, err := collect(rows)
	if err != nil {
		return nil, err
	}
	for _, t := range translations {
		result[t.ContentID] = append(result[t.ContentID], t)
	}
	return result, nil
}

// List returns the translation history of a content node, active first then newest first
func (r *translationRepository) List(ctx context.Context, contentID int64, criteria Criteria) (*model.Page[*model.Translation], error) {
	where := []string{"content_id = ?"}
	args := []any{contentID}
	if criteria.Lang != "" {
		where = append(where, "language_code = ?")
		args = append(args, criteria.Lang)
	}
	if criteria.IsActive != nil {
		where = append(where, "is_active = ?")
		args = append(args, *criteria.IsActive)
	}
	whereSQL := " WHERE " + strings.Join(where, " AND ")

	var total int
	countSQL := repository.Rebind("SELECT COUNT(*) FROM content_translations" + whereSQL)
	if err := r.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to count translations")
	}

	page, pageSize, offset := repository.Offset(criteria.Page, criteria.PageSize)
	listSQL := repository.Rebind("SELECT " + columns + " FROM content_translations" + whereSQL +
		" ORDER BY is_active DESC, created_at DESC, id DESC LIMIT ? OFFSET ?")
	rows, err := r.pool.Query(ctx, listSQL, append(args, pageSize, offset)...)
	if err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to list translations")
	}

	translations, err := collect(rows)
	if err != nil {
		return nil, err
	}

	return &model.Page[*model.Translation]{
		Items:    translations,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func scanTranslation(row pgx.Row) (*model.Translation, error) {
	var t model.Translation
	err := row.Scan(&t.ID, &t.ContentID, &t.AuthorID, &t.LanguageCode, &t.Title, &t.Teaser, &t.Body,
		&t.SEOTitle, &t.SEODescription, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collect(rows pgx.Rows) ([]*model.Translation, error) {
	defer rows.Close()

	translations := []*model.Translation{}
	for rows.Next() {
		t, err := scanTranslation(rows)
		if err != nil {
			return nil, repository.HandlePostgreSQLError(err, "failed to scan translation row")
		}
		translations = append(translations, t)
	}

	if err := rows.Err(); err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to iterate translation rows")
	}
	return translations, nil
}
