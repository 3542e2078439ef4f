package translation

import (
	"context"

	"github.com/Taichi-iskw/contentrepo/internal/model"
	"github.com/Taichi-iskw/contentrepo/internal/repository"
)

// Repository defines operations for content translation persistence
type Repository interface {
	// Create adds a translation in its own transaction, deactivating older ones in the same language
	Create(ctx context.Context, contentID int64, input *model.TranslationInput) (*model.Translation, error)

	// CreateTx does the same as Create inside the caller's transaction
	CreateTx(ctx context.Context, db repository.DBTX, contentID int64, input *model.TranslationInput) (*model.Translation, error)

	// Delete removes an inactive translation
	Delete(ctx context.Context, id int64) error

	// GetByID retrieves a translation by ID
	GetByID(ctx context.Context, id int64) (*model.Translation, error)

	// GetForContent retrieves a translation by ID, scoped to a content node
	GetForContent(ctx context.Context, contentID, id int64) (*model.Translation, error)

	// GetActive retrieves the active translation of a content node in a language
	GetActive(ctx context.Context, contentID int64, lang string) (*model.Translation, error)

	// GetActiveTx retrieves the active translation through db, so it can share a transaction
	GetActiveTx(ctx context.Context, db repository.DBTX, contentID int64, lang string) (*model.Translation, error)

	// ActiveForContents loads the active translations of many nodes keyed by content ID
	ActiveForContents(ctx context.Context, db repository.DBTX, contentIDs []int64) (map[int64][]*model.Translation, error)

	// DeleteForContents removes every translation of the given content nodes
	DeleteForContents(ctx context.Context, db repository.DBTX, contentIDs []int64) error

	// List returns the translation history of a content node
	List(ctx context.Context, contentID int64, criteria Criteria) (*model.Page[*model.Translation], error)
}

// Criteria filters and paginates translation history
type Criteria struct {
	Lang     string
	IsActive *bool
	Page     int
	PageSize int
}
