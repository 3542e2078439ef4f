package route

import (
	"context"

	"github.com/Taichi-iskw/contentrepo/internal/model"
	"github.com/Taichi-iskw/contentrepo/internal/repository"
)

// Repository defines operations for content routes.
// Every method takes the DBTX to run on so it can join the caller's transaction.
type Repository interface {
	// CreateRoute builds the url of content in lang from title and stores it as active
	CreateRoute(ctx context.Context, db repository.DBTX, content *model.Content, lang, title string) (*model.RouteTranslation, error)

	// Regenerate recomputes the url of content in lang and updates the route translation in place
	Regenerate(ctx context.Context, db repository.DBTX, content *model.Content, lang, title string) (*model.RouteTranslation, error)

	// GetByContentID returns the route of a content node with all its translations
	GetByContentID(ctx context.Context, db repository.DBTX, contentID int64) (*model.Route, error)

	// ForContents loads the routes of many content nodes keyed by content ID
	ForContents(ctx context.Context, db repository.DBTX, contentIDs []int64) (map[int64]*model.Route, error)

	// ActiveURL returns the active url of a content node in lang
	ActiveURL(ctx context.Context, db repository.DBTX, contentID int64, lang string) (string, error)

	// ContentIDByURL resolves a url in lang to its content ID
	ContentIDByURL(ctx context.Context, db repository.DBTX, url, lang string) (int64, error)

	// DeleteForContents removes the routes and route translations of the given content nodes
	DeleteForContents(ctx context.Context, db repository.DBTX, contentIDs []int64) error
}
