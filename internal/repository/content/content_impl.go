package content

import (
	"context"
	"errors"
	"strings"
	"time"

	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/jackc/pgx/v5"

	apperrors "github.com/Taichi-iskw/contentrepo/internal/errors"
	"github.com/Taichi-iskw/contentrepo/internal/events"
	"github.com/Taichi-iskw/contentrepo/internal/log"
	"github.com/Taichi-iskw/contentrepo/internal/model"
	"github.com/Taichi-iskw/contentrepo/internal/repository"
	"github.com/Taichi-iskw/contentrepo/internal/repository/file"
	"github.com/Taichi-iskw/contentrepo/internal/repository/language"
	"github.com/Taichi-iskw/contentrepo/internal/repository/query"
	"github.com/Taichi-iskw/contentrepo/internal/repository/route"
	"github.com/Taichi-iskw/contentrepo/internal/repository/translation"
	"github.com/Taichi-iskw/contentrepo/internal/repository/tree"
)

// contentRepository implements Repository using PostgreSQL
type contentRepository struct {
	pool         repository.Pool
	tree         *tree.Engine
	translations translation.Repository
	routes       route.Repository
	files        file.Repository
	languages    language.Registry
	sink         events.Sink
	logger       logSDK.Logger
	now          func() time.Time
}

// Option configures the repository
type Option func(*contentRepository)

// WithSink sets where committed changes are reported
func WithSink(sink events.Sink) Option {
	return func(r *contentRepository) { r.sink = sink }
}

// WithLogger replaces the component logger
func WithLogger(logger logSDK.Logger) Option {
	return func(r *contentRepository) { r.logger = logger }
}

// WithLanguages replaces the database language registry
func WithLanguages(languages language.Registry) Option {
	return func(r *contentRepository) { r.languages = languages }
}

// WithClock replaces time.Now for deletion timestamps and events
func WithClock(now func() time.Time) Option {
	return func(r *contentRepository) { r.now = now }
}

// NewRepository creates a new content repository
func NewRepository(pool repository.Pool, opts ...Option) Repository {
	r := &contentRepository{
		pool:         pool,
		tree:         tree.NewEngine(),
		translations: translation.NewRepository(pool),
		routes:       route.NewRepository(),
		files:        file.NewRepository(),
		languages:    language.NewRegistry(pool),
		sink:         events.NopSink{},
		logger:       log.Logger.Named("content"),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create inserts the node, its first translation and its route in one transaction
func (r *contentRepository) Create(ctx context.Context, input *model.CreateContentInput, author *model.User) (*model.Content, error) {
	if input == nil || strings.TrimSpace(input.Type) == "" || input.Translation == nil {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "Content type and translation is required")
	}
	if _, ok := model.LookupContentType(input.Type); !ok {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "Content type doesn't exist")
	}
	if err := translation.ValidateInput(input.Translation); err != nil {
		return nil, err
	}
	if err := r.checkLanguage(ctx, input.Translation.LanguageCode); err != nil {
		return nil, err
	}

	translationInput := *input.Translation
	node := &model.Content{
		Type:             input.Type,
		Theme:            input.Theme,
		Weight:           input.Weight,
		Rating:           input.Rating,
		IsOnHome:         input.IsOnHome,
		IsCommentAllowed: input.IsCommentAllowed,
		IsPromoted:       input.IsPromoted,
		IsSticky:         input.IsSticky,
		IsActive:         input.IsActive,
		PublishedAt:      input.PublishedAt,
	}
	if author != nil {
		authorID := author.ID
		node.AuthorID = &authorID
		node.Author = author
		if translationInput.AuthorID == nil {
			translationInput.AuthorID = &authorID
		}
	}

	var created *model.Translation
	var rt *model.RouteTranslation
	err := repository.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if input.ParentID != nil {
			parent, err := r.getParent(ctx, tx, *input.ParentID, input.Type)
			if err != nil {
				return err
			}
			if err := r.tree.SetChildOf(ctx, tx, node, parent); err != nil {
				return err
			}
		} else if err := r.tree.SetAsRoot(ctx, tx, node); err != nil {
			return err
		}

		insert := `INSERT INTO contents
			(type, theme, weight, rating, is_on_home, is_comment_allowed, is_promoted, is_sticky,
			 is_active, published_at, parent_id, path, level, author_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING id, visits, created_at, updated_at`
		err := tx.QueryRow(ctx, insert,
			node.Type, node.Theme, node.Weight, node.Rating, node.IsOnHome, node.IsCommentAllowed,
			node.IsPromoted, node.IsSticky, node.IsActive, node.PublishedAt, node.ParentID,
			node.Path, node.Level, node.AuthorID,
		).Scan(&node.ID, &node.Visits, &node.CreatedAt, &node.UpdatedAt)
		if err != nil {
			return repository.HandlePostgreSQLError(err, "failed to create content")
		}

		created, err = r.translations.CreateTx(ctx, tx, node.ID, &translationInput)
		if err != nil {
			return err
		}

		rt, err = r.routes.CreateRoute(ctx, tx, node, created.LanguageCode, created.Title)
		return err
	})
	if err != nil {
		return nil, err
	}

	node.Translations = []*model.Translation{created}
	node.Route = &model.Route{ID: rt.RouteID, ContentID: node.ID, Translations: []*model.RouteTranslation{rt}}

	r.logger.Debug("content created",
		zap.Int64("content_id", node.ID),
		zap.String("type", node.Type),
		zap.String("path", node.Path),
		zap.String("url", rt.URL))

	event := r.newEvent(events.ContentCreated, node.ID)
	event.Content = node
	event.Translation = created
	event.Route = rt
	r.emit(ctx, event)
	return node, nil
}

// Update applies input to an active node
func (r *contentRepository) Update(ctx context.Context, id int64, input *model.UpdateContentInput) (*model.Content, error) {
	if input == nil {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "nothing to update")
	}

	var node *model.Content
	err := repository.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		node, err = r.getContent(ctx, tx, id, query.ScopeActive, true)
		if err != nil {
			return err
		}

		if input.SetParent && !sameID(node.ParentID, input.ParentID) {
			if err := r.moveNode(ctx, tx, node, input.ParentID); err != nil {
				return err
			}
		}

		if input.FileID != nil {
			if _, err := r.files.GetByIDs(ctx, tx, []int64{*input.FileID}); err != nil {
				return err
			}
			if err := r.files.Attach(ctx, tx, node.ID, []int64{*input.FileID}); err != nil {
				return err
			}
		}

		if err := r.updateAttributes(ctx, tx, node, input); err != nil {
			return err
		}
		return r.loadRelations(ctx, tx, []*model.Content{node})
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("content updated", zap.Int64("content_id", node.ID), zap.String("path", node.Path))

	event := r.newEvent(events.ContentUpdated, node.ID)
	event.Content = node
	r.emit(ctx, event)
	return node, nil
}

// moveNode re-parents node; only leaves and empty categories may move
func (r *contentRepository) moveNode(ctx context.Context, tx pgx.Tx, node *model.Content, parentID *int64) error {
	if ct, _ := model.LookupContentType(node.Type); ct.AllowsChildren {
		var hasChildren bool
		if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM contents WHERE parent_id = $1)", node.ID).Scan(&hasChildren); err != nil {
			return repository.HandlePostgreSQLError(err, "failed to check children")
		}
		if hasChildren {
			return apperrors.New(apperrors.CodeConflict, "You cannot change parent of not empty category")
		}
	}

	if parentID == nil {
		return r.tree.SetAsRoot(ctx, tx, node)
	}

	parent, err := r.getParent(ctx, tx, *parentID, node.Type)
	if err != nil {
		return err
	}
	return r.tree.SetChildOf(ctx, tx, node, parent)
}

// updateAttributes writes the fields set in input and mirrors them on node
func (r *contentRepository) updateAttributes(ctx context.Context, tx pgx.Tx, node *model.Content, input *model.UpdateContentInput) error {
	var sets []string
	var args []any
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if input.Theme != nil {
		if *input.Theme == "" {
			node.Theme = nil
		} else {
			theme := *input.Theme
			node.Theme = &theme
		}
		set("theme", node.Theme)
	}
	if input.Weight != nil {
		node.Weight = *input.Weight
		set("weight", node.Weight)
	}
	if input.Rating != nil {
		node.Rating = *input.Rating
		set("rating", node.Rating)
	}
	if input.IsOnHome != nil {
		node.IsOnHome = *input.IsOnHome
		set("is_on_home", node.IsOnHome)
	}
	if input.IsCommentAllowed != nil {
		node.IsCommentAllowed = *input.IsCommentAllowed
		set("is_comment_allowed", node.IsCommentAllowed)
	}
	if input.IsPromoted != nil {
		node.IsPromoted = *input.IsPromoted
		set("is_promoted", node.IsPromoted)
	}
	if input.IsSticky != nil {
		node.IsSticky = *input.IsSticky
		set("is_sticky", node.IsSticky)
	}
	if input.IsActive != nil {
		node.IsActive = *input.IsActive
		set("is_active", node.IsActive)
	}
	if input.PublishedAt != nil {
		node.PublishedAt = input.PublishedAt
		set("published_at", node.PublishedAt)
	}
	if input.FileID != nil {
		node.FileID = input.FileID
		set("file_id", node.FileID)
	}

	if len(sets) == 0 {
		return nil
	}

	sql := repository.Rebind("UPDATE contents SET " + strings.Join(sets, ", ") +
		", updated_at = NOW() WHERE id = ? RETURNING updated_at")
	if err := tx.QueryRow(ctx, sql, append(args, node.ID)...).Scan(&node.UpdatedAt); err != nil {
		return repository.HandlePostgreSQLError(err, "failed to update content")
	}
	return nil
}

// Delete trashes the node and its active descendants with one shared timestamp
func (r *contentRepository) Delete(ctx context.Context, id int64) error {
	deletedAt := r.now().UTC()
	var affected []int64
	err := repository.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		node, err := r.getContent(ctx, tx, id, query.ScopeActive, true)
		if err != nil {
			return err
		}

		sql := `UPDATE contents SET deleted_at = $1, updated_at = $1
			WHERE (id = $2 OR path LIKE $3) AND deleted_at IS NULL
			RETURNING id`
		rows, err := tx.Query(ctx, sql, deletedAt, node.ID, node.SubtreePrefix()+"%")
		if err != nil {
			return repository.HandlePostgreSQLError(err, "failed to delete content")
		}
		affected, err = collectIDs(rows)
		return err
	})
	if err != nil {
		return err
	}

	r.logger.Debug("content deleted", zap.Int64("content_id", id), zap.Int("affected", len(affected)))

	event := r.newEvent(events.ContentDeleted, id)
	event.AffectedIDs = affected
	r.emit(ctx, event)
	return nil
}

// Restore clears deleted_at on the node and on descendants trashed together with it
func (r *contentRepository) Restore(ctx context.Context, id int64) (*model.Content, error) {
	var node *model.Content
	var affected []int64
	err := repository.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		node, err = r.getContent(ctx, tx, id, query.ScopeTrashed, true)
		if err != nil {
			return err
		}

		if node.ParentID != nil {
			var parentTrashed bool
			err := tx.QueryRow(ctx, "SELECT deleted_at IS NOT NULL FROM contents WHERE id = $1", *node.ParentID).Scan(&parentTrashed)
			if err != nil {
				return repository.HandlePostgreSQLError(err, "failed to check parent")
			}
			if parentTrashed {
				return apperrors.Newf(apperrors.CodeConflict, "Cannot restore content %d while its parent %d is deleted", node.ID, *node.ParentID)
			}
		}

		sql := `UPDATE contents SET deleted_at = NULL, updated_at = NOW()
			WHERE (id = $1 OR path LIKE $2) AND deleted_at = $3
			RETURNING id`
		rows, err := tx.Query(ctx, sql, node.ID, node.SubtreePrefix()+"%", *node.DeletedAt)
		if err != nil {
			return repository.HandlePostgreSQLError(err, "failed to restore content")
		}
		if affected, err = collectIDs(rows); err != nil {
			return err
		}

		node.DeletedAt = nil
		return r.loadRelations(ctx, tx, []*model.Content{node})
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("content restored", zap.Int64("content_id", id), zap.Int("affected", len(affected)))

	event := r.newEvent(events.ContentRestored, id)
	event.Content = node
	event.AffectedIDs = affected
	r.emit(ctx, event)
	return node, nil
}

// ForceDelete removes the subtree and its translations, routes and file links
func (r *contentRepository) ForceDelete(ctx context.Context, id int64) error {
	var ids []int64
	err := repository.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		node, err := r.getContent(ctx, tx, id, query.ScopeWithTrashed, true)
		if err != nil {
			return err
		}

		descendants, err := r.tree.FindDescendants(ctx, tx, node)
		if err != nil {
			return err
		}
		ids = make([]int64, 0, len(descendants)+1)
		ids = append(ids, node.ID)
		for _, d := range descendants {
			ids = append(ids, d.ID)
		}

		if err := r.routes.DeleteForContents(ctx, tx, ids); err != nil {
			return err
		}
		if err := r.translations.DeleteForContents(ctx, tx, ids); err != nil {
			return err
		}
		if err := r.files.DetachAll(ctx, tx, ids); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, "DELETE FROM contents WHERE id = ANY($1)", ids); err != nil {
			return repository.HandlePostgreSQLError(err, "failed to delete content")
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Debug("content force deleted", zap.Int64("content_id", id), zap.Int64s("ids", ids))

	event := r.newEvent(events.ContentForceDeleted, id)
	event.AffectedIDs = ids
	r.emit(ctx, event)
	return nil
}

// getContent loads one node within scope, locking the row when lock is set
func (r *contentRepository) getContent(ctx context.Context, db repository.DBTX, id int64, scope query.Scope, lock bool) (*model.Content, error) {
	sql := "SELECT " + repository.ContentColumns + " " + repository.ContentFrom + " WHERE c.id = $1"
	switch scope {
	case query.ScopeActive:
		sql += " AND c.deleted_at IS NULL"
	case query.ScopeTrashed:
		sql += " AND c.deleted_at IS NOT NULL"
	}
	if lock {
		sql += " FOR UPDATE OF c"
	}

	node, err := repository.ScanContent(db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "content not found")
		}
		return nil, repository.HandlePostgreSQLError(err, "failed to get content")
	}
	return node, nil
}

// getParent loads an active parent and checks it accepts children of childType
func (r *contentRepository) getParent(ctx context.Context, db repository.DBTX, parentID int64, childType string) (*model.Content, error) {
	parent, err := r.getContent(ctx, db, parentID, query.ScopeActive, false)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "Parent node id: %d doesn't exist", parentID)
		}
		return nil, err
	}

	if ct, ok := model.LookupContentType(parent.Type); !ok || !ct.AllowsChildren {
		return nil, apperrors.Newf(apperrors.CodeInvalidArg, "Content type '%s' is not allowed for the parent type", childType)
	}
	return parent, nil
}

// checkLanguage rejects languages missing from the registry or disabled
func (r *contentRepository) checkLanguage(ctx context.Context, lang string) error {
	enabled, err := r.languages.IsEnabled(ctx, lang)
	if err != nil {
		return err
	}
	if !enabled {
		return apperrors.Newf(apperrors.CodeInvalidArg, "Language %s is not enabled", lang)
	}
	return nil
}

func (r *contentRepository) newEvent(name events.Name, contentID int64) events.Event {
	return events.New(name, contentID, r.now().UTC())
}

// emit reports a committed change; sink failures never fail the operation
func (r *contentRepository) emit(ctx context.Context, event events.Event) {
	if err := r.sink.Emit(ctx, event); err != nil {
		r.logger.Warn("failed to emit event",
			zap.String("event", string(event.Name)),
			zap.Int64("content_id", event.ContentID),
			zap.Error(err))
	}
}

func collectIDs(rows pgx.Rows) ([]int64, error) {
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to scan ids")
	}
	return ids, nil
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
