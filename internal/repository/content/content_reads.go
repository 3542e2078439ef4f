package content

import (
	"context"
	"time"

	apperrors "github.com/Taichi-iskw/contentrepo/internal/errors"
	"github.com/Taichi-iskw/contentrepo/internal/model"
	"github.com/Taichi-iskw/contentrepo/internal/repository"
	"github.com/Taichi-iskw/contentrepo/internal/repository/query"
)

// GetByID retrieves an active node with its translations and route
func (r *contentRepository) GetByID(ctx context.Context, id int64) (*model.Content, error) {
	return r.getLoaded(ctx, id, query.ScopeActive)
}

// GetDeletedByID retrieves a soft-deleted node
func (r *contentRepository) GetDeletedByID(ctx context.Context, id int64) (*model.Content, error) {
	return r.getLoaded(ctx, id, query.ScopeTrashed)
}

// GetByIDWithTrashed retrieves a node whether or not it is deleted
func (r *contentRepository) GetByIDWithTrashed(ctx context.Context, id int64) (*model.Content, error) {
	return r.getLoaded(ctx, id, query.ScopeWithTrashed)
}

func (r *contentRepository) getLoaded(ctx context.Context, id int64, scope query.Scope) (*model.Content, error) {
	node, err := r.getContent(ctx, r.pool, id, scope, false)
	if err != nil {
		return nil, err
	}
	if err := r.loadRelations(ctx, r.pool, []*model.Content{node}); err != nil {
		return nil, err
	}
	return node, nil
}

// GetByURL resolves url in lang to an active node
func (r *contentRepository) GetByURL(ctx context.Context, url, lang string) (*model.Content, error) {
	if lang == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "Language code is required")
	}
	id, err := r.routes.ContentIDByURL(ctx, r.pool, url, lang)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetPublishedByURL returns the node only when it is published and translated in lang
func (r *contentRepository) GetPublishedByURL(ctx context.Context, url, lang string, now time.Time) (*model.Content, error) {
	node, err := r.GetByURL(ctx, url, lang)
	if err != nil {
		return nil, err
	}
	if !node.IsPublished(now) || node.TranslationFor(lang, "") == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "content not found")
	}
	return node, nil
}

// GetContents lists active nodes
func (r *contentRepository) GetContents(ctx context.Context, criteria query.Criteria) (*model.Page[*model.Content], error) {
	return r.list(ctx, query.NewBuilder(criteria, query.ScopeActive))
}

// GetDeletedContents lists soft-deleted nodes
func (r *contentRepository) GetDeletedContents(ctx context.Context, criteria query.Criteria) (*model.Page[*model.Content], error) {
	return r.list(ctx, query.NewBuilder(criteria, query.ScopeTrashed))
}

// GetContentsWithTrashed lists nodes in any deleted state
func (r *contentRepository) GetContentsWithTrashed(ctx context.Context, criteria query.Criteria) (*model.Page[*model.Content], error) {
	return r.list(ctx, query.NewBuilder(criteria, query.ScopeWithTrashed))
}

// GetContentsByLevel lists active nodes, shallow ones first
func (r *contentRepository) GetContentsByLevel(ctx context.Context, criteria query.Criteria) (*model.Page[*model.Content], error) {
	return r.list(ctx, query.NewBuilder(criteria, query.ScopeActive).OrderFirst("level", query.Asc))
}

// GetRoots lists active nodes without a parent
func (r *contentRepository) GetRoots(ctx context.Context, criteria query.Criteria) (*model.Page[*model.Content], error) {
	return r.list(ctx, query.NewBuilder(criteria, query.ScopeActive).Where("c.parent_id IS NULL"))
}

// GetChildren lists the active direct children of parentID
func (r *contentRepository) GetChildren(ctx context.Context, parentID int64, criteria query.Criteria) (*model.Page[*model.Content], error) {
	return r.list(ctx, query.NewBuilder(criteria, query.ScopeActive).Where("c.parent_id = ?", parentID))
}

// GetDescendants returns every active node below id, unpaged
func (r *contentRepository) GetDescendants(ctx context.Context, id int64, criteria query.Criteria) ([]*model.Content, error) {
	node, err := r.getContent(ctx, r.pool, id, query.ScopeActive, false)
	if err != nil {
		return nil, err
	}

	criteria.Page, criteria.PageSize = 0, 0
	page, err := r.list(ctx, query.NewBuilder(criteria, query.ScopeActive).
		Where("c.path LIKE ?", node.SubtreePrefix()+"%").
		OrderFirst("level", query.Asc))
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// GetPublishedContents lists active nodes published at or before now
func (r *contentRepository) GetPublishedContents(ctx context.Context, criteria query.Criteria, now time.Time) (*model.Page[*model.Content], error) {
	return r.list(ctx, publishedBuilder(criteria, now))
}

// GetHomepageContents lists published homepage nodes with sticky ones first
func (r *contentRepository) GetHomepageContents(ctx context.Context, criteria query.Criteria, now time.Time) (*model.Page[*model.Content], error) {
	return r.list(ctx, publishedBuilder(criteria, now).
		Where("c.is_on_home").
		OrderFirst("is_sticky", query.Desc))
}

func publishedBuilder(criteria query.Criteria, now time.Time) *query.Builder {
	return query.NewBuilder(criteria, query.ScopeActive).
		Where("c.is_active AND c.published_at IS NOT NULL AND c.published_at <= ?", now)
}

// list runs a built statement and eager-loads translations and routes
func (r *contentRepository) list(ctx context.Context, builder *query.Builder) (*model.Page[*model.Content], error) {
	stmt, err := builder.Build()
	if err != nil {
		return nil, err
	}

	total := -1
	if stmt.PageSize > 0 {
		if err := r.pool.QueryRow(ctx, stmt.CountSQL, stmt.CountArgs...).Scan(&total); err != nil {
			return nil, repository.HandlePostgreSQLError(err, "failed to count contents")
		}
	}

	rows, err := r.pool.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to list contents")
	}
	contents, err := repository.CollectContents(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadRelations(ctx, r.pool, contents); err != nil {
		return nil, err
	}

	if total < 0 {
		total = len(contents)
	}
	return &model.Page[*model.Content]{
		Items:    contents,
		Total:    total,
		Page:     stmt.Page,
		PageSize: stmt.PageSize,
	}, nil
}

// loadRelations fills translations and routes of contents with two batch queries
func (r *contentRepository) loadRelations(ctx context.Context, db repository.DBTX, contents []*model.Content) error {
	if len(contents) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(contents))
	for _, c := range contents {
		ids = append(ids, c.ID)
	}

	translations, err := r.translations.ActiveForContents(ctx, db, ids)
	if err != nil {
		return err
	}
	routes, err := r.routes.ForContents(ctx, db, ids)
	if err != nil {
		return err
	}

	for _, c := range contents {
		c.Translations = translations[c.ID]
		c.Route = routes[c.ID]
	}
	return nil
}
