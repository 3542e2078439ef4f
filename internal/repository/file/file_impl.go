package file

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/Taichi-iskw/contentrepo/internal/errors"
	"github.com/Taichi-iskw/contentrepo/internal/model"
	"github.com/Taichi-iskw/contentrepo/internal/repository"
)

const (
	columns         = "f.id, f.type, f.name, f.extension, f.size, f.mime_type, f.is_active, f.created_at"
	attachedColumns = columns + ", cf.weight"
	attachedFrom    = "FROM files f JOIN content_files cf ON cf.file_id = f.id"
)

// fileRepository implements Repository using PostgreSQL
type fileRepository struct{}

// NewRepository creates a new file repository
func NewRepository() Repository {
	return &fileRepository{}
}

// GetByIDs loads files in id order
func (r *fileRepository) GetByIDs(ctx context.Context, db repository.DBTX, ids []int64) ([]*model.File, error) {
	if len(ids) == 0 {
		return []*model.File{}, nil
	}

	sql := "SELECT " + columns + ", NULL::int AS weight FROM files f WHERE f.id = ANY($1) ORDER BY f.id"
	rows, err := db.Query(ctx, sql, ids)
	if err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to get files")
	}
	files, err := collect(rows)
	if err != nil {
		return nil, err
	}

	found := make(map[int64]struct{}, len(files))
	for _, f := range files {
		found[f.ID] = struct{}{}
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "files not found: %v", missing)
	}

	if err := loadTranslations(ctx, db, files); err != nil {
		return nil, err
	}
	return files, nil
}

// Attach inserts the associations in one statement
func (r *fileRepository) Attach(ctx context.Context, db repository.DBTX, contentID int64, fileIDs []int64) error {
	sql := `INSERT INTO content_files (content_id, file_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT (content_id, file_id) DO NOTHING`
	if _, err := db.Exec(ctx, sql, contentID, fileIDs); err != nil {
		return repository.HandlePostgreSQLError(err, "failed to attach files")
	}
	return nil
}

// Detach removes the given associations of a content node
func (r *fileRepository) Detach(ctx context.Context, db repository.DBTX, contentID int64, fileIDs []int64) (int64, error) {
	tag, err := db.Exec(ctx, "DELETE FROM content_files WHERE content_id = $1 AND file_id = ANY($2)", contentID, fileIDs)
	if err != nil {
		return 0, repository.HandlePostgreSQLError(err, "failed to detach files")
	}
	return tag.RowsAffected(), nil
}

// DetachAll removes every association of the given content nodes
func (r *fileRepository) DetachAll(ctx context.Context, db repository.DBTX, contentIDs []int64) error {
	if len(contentIDs) == 0 {
		return nil
	}
	if _, err := db.Exec(ctx, "DELETE FROM content_files WHERE content_id = ANY($1)", contentIDs); err != nil {
		return repository.HandlePostgreSQLError(err, "failed to detach files")
	}
	return nil
}

// UpdateWeight changes the weight of one association
func (r *fileRepository) UpdateWeight(ctx context.Context, db repository.DBTX, contentID, fileID int64, weight int) error {
	tag, err := db.Exec(ctx, "UPDATE content_files SET weight = $3 WHERE content_id = $1 AND file_id = $2", contentID, fileID, weight)
	if err != nil {
		return repository.HandlePostgreSQLError(err, "failed to update file weight")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Newf(apperrors.CodeNotFound, "file %d is not attached to content %d", fileID, contentID)
	}
	return nil
}

// ListForContent returns the attached files ordered by weight
func (r *fileRepository) ListForContent(ctx context.Context, db repository.DBTX, contentID int64, criteria Criteria) (*model.Page[*model.File], error) {
	where := []string{"cf.content_id = ?"}
	args := []any{contentID}
	if criteria.Type != "" {
		where = append(where, "f.type = ?")
		args = append(args, criteria.Type)
	}
	if criteria.IsActive != nil {
		where = append(where, "f.is_active = ?")
		args = append(args, *criteria.IsActive)
	}
	whereSQL := " WHERE " + strings.Join(where, " AND ")

	var total int
	countSQL := repository.Rebind("SELECT COUNT(*) " + attachedFrom + whereSQL)
	if err := db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to count files")
	}

	page, pageSize, offset := repository.Offset(criteria.Page, criteria.PageSize)
	listSQL := repository.Rebind("SELECT " + attachedColumns + " " + attachedFrom + whereSQL +
		" ORDER BY cf.weight ASC NULLS LAST, f.id ASC LIMIT ? OFFSET ?")
	rows, err := db.Query(ctx, listSQL, append(args, pageSize, offset)...)
	if err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to list files")
	}
	files, err := collect(rows)
	if err != nil {
		return nil, err
	}

	if err := loadTranslations(ctx, db, files); err != nil {
		return nil, err
	}

	return &model.Page[*model.File]{
		Items:    files,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetForContent returns one file attached to a content node
func (r *fileRepository) GetForContent(ctx context.Context, db repository.DBTX, contentID, fileID int64) (*model.File, error) {
	sql := "SELECT " + attachedColumns + " " + attachedFrom + " WHERE cf.content_id = $1 AND f.id = $2"
	f, err := scanFile(db.QueryRow(ctx, sql, contentID, fileID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "file not found")
		}
		return nil, repository.HandlePostgreSQLError(err, "failed to get file")
	}

	if err := loadTranslations(ctx, db, []*model.File{f}); err != nil {
		return nil, err
	}
	return f, nil
}

// ClearPrimary unsets the primary file when it is among fileIDs
func (r *fileRepository) ClearPrimary(ctx context.Context, db repository.DBTX, contentID int64, fileIDs []int64) error {
	sql := "UPDATE contents SET file_id = NULL, updated_at = NOW() WHERE id = $1 AND file_id = ANY($2)"
	if _, err := db.Exec(ctx, sql, contentID, fileIDs); err != nil {
		return repository.HandlePostgreSQLError(err, "failed to clear primary file")
	}
	return nil
}

// loadTranslations attaches file translations to files in one query
func loadTranslations(ctx context.Context, db repository.DBTX, files []*model.File) error {
	if len(files) == 0 {
		return nil
	}

	byID := make(map[int64]*model.File, len(files))
	ids := make([]int64, 0, len(files))
	for _, f := range files {
		byID[f.ID] = f
		ids = append(ids, f.ID)
	}

	sql := `SELECT id, file_id, language_code, title, description FROM file_translations
		WHERE file_id = ANY($1) ORDER BY file_id, language_code`
	rows, err := db.Query(ctx, sql, ids)
	if err != nil {
		return repository.HandlePostgreSQLError(err, "failed to load file translations")
	}
	defer rows.Close()

	for rows.Next() {
		var t model.FileTranslation
		if err := rows.Scan(&t.ID, &t.FileID, &t.LanguageCode, &t.Title, &t.Description); err != nil {
			return repository.HandlePostgreSQLError(err, "failed to scan file translation row")
		}
		if f, ok := byID[t.FileID]; ok {
			f.Translations = append(f.Translations, &t)
		}
	}

	if err := rows.Err(); err != nil {
		return repository.HandlePostgreSQLError(err, "failed to iterate file translation rows")
	}
	return nil
}

func scanFile(row pgx.Row) (*model.File, error) {
	var f model.File
	err := row.Scan(&f.ID, &f.Type, &f.Name, &f.Extension, &f.Size, &f.MimeType, &f.IsActive, &f.CreatedAt, &f.Weight)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func collect(rows pgx.Rows) ([]*model.File, error) {
	defer rows.Close()

	files := []*model.File{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, repository.HandlePostgreSQLError(err, "failed to scan file row")
		}
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to iterate file rows")
	}
	return files, nil
}
