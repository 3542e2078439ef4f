package content

import (
	"context"
	"time"

	"github.com/Taichi-iskw/contentrepo/internal/model"
	"github.com/Taichi-iskw/contentrepo/internal/repository/file"
	"github.com/Taichi-iskw/contentrepo/internal/repository/query"
	"github.com/Taichi-iskw/contentrepo/internal/repository/translation"
)

// Repository defines operations for the content tree
type Repository interface {
	// Create creates a node with its first translation and route
	Create(ctx context.Context, input *model.CreateContentInput, author *model.User) (*model.Content, error)

	// Update changes attributes and, when requested, the parent of a node
	Update(ctx context.Context, id int64, input *model.UpdateContentInput) (*model.Content, error)

	// Delete soft-deletes a node and its active descendants
	Delete(ctx context.Context, id int64) error

	// ForceDelete removes a node, its descendants and everything attached to them
	ForceDelete(ctx context.Context, id int64) error

	// Restore brings back a soft-deleted node and the descendants deleted with it
	Restore(ctx context.Context, id int64) (*model.Content, error)

	// GetByID retrieves an active node
	GetByID(ctx context.Context, id int64) (*model.Content, error)

	// GetDeletedByID retrieves a soft-deleted node
	GetDeletedByID(ctx context.Context, id int64) (*model.Content, error)

	// GetByIDWithTrashed retrieves a node regardless of its deleted state
	GetByIDWithTrashed(ctx context.Context, id int64) (*model.Content, error)

	// GetByURL retrieves the active node owning url in lang
	GetByURL(ctx context.Context, url, lang string) (*model.Content, error)

	// GetPublishedByURL is GetByURL restricted to published nodes translated in lang
	GetPublishedByURL(ctx context.Context, url, lang string, now time.Time) (*model.Content, error)

	// GetContents lists active nodes
	GetContents(ctx context.Context, criteria query.Criteria) (*model.Page[*model.Content], error)

	// GetDeletedContents lists soft-deleted nodes
	GetDeletedContents(ctx context.Context, criteria query.Criteria) (*model.Page[*model.Content], error)

	// GetContentsWithTrashed lists nodes regardless of their deleted state
	GetContentsWithTrashed(ctx context.Context, criteria query.Criteria) (*model.Page[*model.Content], error)

	// GetContentsByLevel lists active nodes ordered by level first
	GetContentsByLevel(ctx context.Context, criteria query.Criteria) (*model.Page[*model.Content], error)

	// GetRoots lists active root nodes
	GetRoots(ctx context.Context, criteria query.Criteria) (*model.Page[*model.Content], error)

	// GetChildren lists the active direct children of a node
	GetChildren(ctx context.Context, parentID int64, criteria query.Criteria) (*model.Page[*model.Content], error)

	// GetDescendants returns every active node below a node, level by level
	GetDescendants(ctx context.Context, id int64, criteria query.Criteria) ([]*model.Content, error)

	// GetTree returns active nodes nested under their parents, below rootID when set
	GetTree(ctx context.Context, rootID *int64, criteria query.Criteria) ([]*model.Content, error)

	// GetPublishedContents lists active nodes whose publication date has passed
	GetPublishedContents(ctx context.Context, criteria query.Criteria, now time.Time) (*model.Page[*model.Content], error)

	// GetHomepageContents lists published nodes marked for the homepage, sticky ones first
	GetHomepageContents(ctx context.Context, criteria query.Criteria, now time.Time) (*model.Page[*model.Content], error)

	// GetAncestors returns the ancestors of a node from the root down
	GetAncestors(ctx context.Context, id int64) ([]*model.Content, error)

	// GetBreadcrumbs returns titles and urls from the root down to the node itself
	GetBreadcrumbs(ctx context.Context, id int64, lang string) ([]model.Breadcrumb, error)

	// CreateTranslation adds a new active translation, leaving the route untouched
	CreateTranslation(ctx context.Context, contentID int64, input *model.TranslationInput) (*model.Translation, error)

	// DeleteTranslation removes an inactive translation of a node
	DeleteTranslation(ctx context.Context, contentID, translationID int64) error

	// GetTranslations lists the translation history of a node
	GetTranslations(ctx context.Context, contentID int64, criteria translation.Criteria) (*model.Page[*model.Translation], error)

	// GetContentTranslationByID retrieves one translation of a node
	GetContentTranslationByID(ctx context.Context, contentID, translationID int64) (*model.Translation, error)

	// RegenerateRoute rebuilds the url in lang from the active translation title
	RegenerateRoute(ctx context.Context, contentID int64, lang string) (*model.RouteTranslation, error)

	// AddFiles attaches existing files to a node
	AddFiles(ctx context.Context, contentID int64, fileIDs []int64) ([]*model.File, error)

	// RemoveFiles detaches files from a node, clearing the primary file when it is among them
	RemoveFiles(ctx context.Context, contentID int64, fileIDs []int64) error

	// UpdateFile changes the weight of an attached file
	UpdateFile(ctx context.Context, contentID, fileID int64, weight int) (*model.File, error)

	// GetFiles lists the files attached to a node
	GetFiles(ctx context.Context, contentID int64, criteria file.Criteria) (*model.Page[*model.File], error)

	// GetContentFileByID retrieves one file attached to a node
	GetContentFileByID(ctx context.Context, contentID, fileID int64) (*model.File, error)
}
