package file

import (
	"context"

	"github.com/Taichi-iskw/contentrepo/internal/model"
	"github.com/Taichi-iskw/contentrepo/internal/repository"
)

// Repository reads files and manages their association with content nodes
type Repository interface {
	// GetByIDs loads files with translations; any missing id is a not found error
	GetByIDs(ctx context.Context, db repository.DBTX, ids []int64) ([]*model.File, error)

	// Attach associates files with a content node, ignoring existing associations
	Attach(ctx context.Context, db repository.DBTX, contentID int64, fileIDs []int64) error

	// Detach removes associations and returns how many were removed
	Detach(ctx context.Context, db repository.DBTX, contentID int64, fileIDs []int64) (int64, error)

	// DetachAll removes every association of the given content nodes
	DetachAll(ctx context.Context, db repository.DBTX, contentIDs []int64) error

	// UpdateWeight changes the position of an attached file
	UpdateWeight(ctx context.Context, db repository.DBTX, contentID, fileID int64, weight int) error

	// ListForContent pages through the files of a content node
	ListForContent(ctx context.Context, db repository.DBTX, contentID int64, criteria Criteria) (*model.Page[*model.File], error)

	// GetForContent returns one attached file
	GetForContent(ctx context.Context, db repository.DBTX, contentID, fileID int64) (*model.File, error)

	// ClearPrimary unsets contents.file_id when it points at one of fileIDs
	ClearPrimary(ctx context.Context, db repository.DBTX, contentID int64, fileIDs []int64) error
}

// Criteria filters the files of a content node
type Criteria struct {
	Type     string
	IsActive *bool
	Page     int
	PageSize int
}
