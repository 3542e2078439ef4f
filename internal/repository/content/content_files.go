package content

import (
	"context"
	"slices"

	"github.com/Laisky/zap"
	"github.com/jackc/pgx/v5"

	apperrors "github.com/Taichi-iskw/contentrepo/internal/errors"
	"github.com/Taichi-iskw/contentrepo/internal/events"
	"github.com/Taichi-iskw/contentrepo/internal/model"
	"github.com/Taichi-iskw/contentrepo/internal/repository"
	"github.com/Taichi-iskw/contentrepo/internal/repository/file"
	"github.com/Taichi-iskw/contentrepo/internal/repository/query"
)

// AddFiles attaches existing files to an active node
func (r *contentRepository) AddFiles(ctx context.Context, contentID int64, fileIDs []int64) ([]*model.File, error) {
	if err := validateFileIDs(fileIDs); err != nil {
		return nil, err
	}

	var files []*model.File
	err := repository.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := r.getContent(ctx, tx, contentID, query.ScopeActive, true); err != nil {
			return err
		}

		var err error
		files, err = r.files.GetByIDs(ctx, tx, fileIDs)
		if err != nil {
			return err
		}
		return r.files.Attach(ctx, tx, contentID, fileIDs)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("files added", zap.Int64("content_id", contentID), zap.Int64s("file_ids", fileIDs))

	event := r.newEvent(events.FilesAdded, contentID)
	event.FileIDs = fileIDs
	r.emit(ctx, event)
	return files, nil
}

// RemoveFiles detaches files and clears the primary file when it was detached
func (r *contentRepository) RemoveFiles(ctx context.Context, contentID int64, fileIDs []int64) error {
	if err := validateFileIDs(fileIDs); err != nil {
		return err
	}

	err := repository.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := r.getContent(ctx, tx, contentID, query.ScopeActive, true); err != nil {
			return err
		}
		removed, err := r.files.Detach(ctx, tx, contentID, fileIDs)
		if err != nil {
			return err
		}
		// duplicates match one association row
		wanted := int64(len(slices.Compact(slices.Sorted(slices.Values(fileIDs)))))
		if removed < wanted {
			return apperrors.Newf(apperrors.CodeNotFound, "%d of %d files are not attached to content %d",
				wanted-removed, wanted, contentID)
		}
		return r.files.ClearPrimary(ctx, tx, contentID, fileIDs)
	})
	if err != nil {
		return err
	}

	r.logger.Debug("files removed", zap.Int64("content_id", contentID), zap.Int64s("file_ids", fileIDs))

	event := r.newEvent(events.FilesRemoved, contentID)
	event.FileIDs = fileIDs
	r.emit(ctx, event)
	return nil
}

// UpdateFile changes the weight of a file attached to an active node
func (r *contentRepository) UpdateFile(ctx context.Context, contentID, fileID int64, weight int) (*model.File, error) {
	if fileID == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "File id is required")
	}

	var updated *model.File
	err := repository.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := r.getContent(ctx, tx, contentID, query.ScopeActive, true); err != nil {
			return err
		}
		if err := r.files.UpdateWeight(ctx, tx, contentID, fileID, weight); err != nil {
			return err
		}

		var err error
		updated, err = r.files.GetForContent(ctx, tx, contentID, fileID)
		return err
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("file updated", zap.Int64("content_id", contentID), zap.Int64("file_id", fileID), zap.Int("weight", weight))

	event := r.newEvent(events.FileUpdated, contentID)
	event.FileIDs = []int64{fileID}
	r.emit(ctx, event)
	return updated, nil
}

// GetFiles lists the files of a node, trashed nodes included
func (r *contentRepository) GetFiles(ctx context.Context, contentID int64, criteria file.Criteria) (*model.Page[*model.File], error) {
	if _, err := r.getContent(ctx, r.pool, contentID, query.ScopeWithTrashed, false); err != nil {
		return nil, err
	}
	return r.files.ListForContent(ctx, r.pool, contentID, criteria)
}

// GetContentFileByID retrieves one file attached to a node
func (r *contentRepository) GetContentFileByID(ctx context.Context, contentID, fileID int64) (*model.File, error) {
	if fileID == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "File id is required")
	}
	return r.files.GetForContent(ctx, r.pool, contentID, fileID)
}

func validateFileIDs(fileIDs []int64) error {
	if len(fileIDs) == 0 {
		return apperrors.New(apperrors.CodeInvalidArg, "You must provide the files ids")
	}
	for _, id := range fileIDs {
		if id == 0 {
			return apperrors.New(apperrors.CodeInvalidArg, "File id is required")
		}
	}
	return nil
}
