package content

import (
	"context"

	"github.com/Taichi-iskw/contentrepo/internal/model"
	"github.com/Taichi-iskw/contentrepo/internal/repository/query"
)

// GetTree returns active nodes nested under their parents. With rootID only the
// subtree below that node is returned, the root itself excluded.
func (r *contentRepository) GetTree(ctx context.Context, rootID *int64, criteria query.Criteria) ([]*model.Content, error) {
	criteria.Page, criteria.PageSize = 0, 0

	if rootID != nil {
		descendants, err := r.GetDescendants(ctx, *rootID, criteria)
		if err != nil {
			return nil, err
		}
		return buildTree(descendants), nil
	}

	page, err := r.list(ctx, query.NewBuilder(criteria, query.ScopeActive).OrderFirst("level", query.Asc))
	if err != nil {
		return nil, err
	}
	return buildTree(page.Items), nil
}

// buildTree nests a level-ordered flat list. Nodes whose parent is absent from
// the list become top-level entries; sibling order follows the input order.
func buildTree(flat []*model.Content) []*model.Content {
	byID := make(map[int64]*model.Content, len(flat))
	for _, c := range flat {
		c.Children = nil
		byID[c.ID] = c
	}

	roots := []*model.Content{}
	for _, c := range flat {
		if c.ParentID != nil {
			if parent, ok := byID[*c.ParentID]; ok {
				parent.Children = append(parent.Children, c)
				continue
			}
		}
		roots = append(roots, c)
	}
	return roots
}

// GetAncestors returns the ancestors of an active node from the root down
func (r *contentRepository) GetAncestors(ctx context.Context, id int64) ([]*model.Content, error) {
	node, err := r.getContent(ctx, r.pool, id, query.ScopeActive, false)
	if err != nil {
		return nil, err
	}

	ancestors, err := r.tree.FindAncestors(ctx, r.pool, node)
	if err != nil {
		return nil, err
	}
	if err := r.loadRelations(ctx, r.pool, ancestors); err != nil {
		return nil, err
	}
	return ancestors, nil
}

// GetBreadcrumbs returns one entry per ancestor plus the node itself. Titles and
// urls fall back to the default language when lang has none.
func (r *contentRepository) GetBreadcrumbs(ctx context.Context, id int64, lang string) ([]model.Breadcrumb, error) {
	node, err := r.getContent(ctx, r.pool, id, query.ScopeActive, false)
	if err != nil {
		return nil, err
	}

	chain, err := r.tree.FindAncestors(ctx, r.pool, node)
	if err != nil {
		return nil, err
	}
	chain = append(chain, node)

	if err := r.loadRelations(ctx, r.pool, chain); err != nil {
		return nil, err
	}

	fallback := ""
	if def, err := r.languages.Default(ctx); err == nil {
		fallback = def.Code
	}

	crumbs := make([]model.Breadcrumb, 0, len(chain))
	for _, c := range chain {
		crumb := model.Breadcrumb{ID: c.ID}
		if t := c.TranslationFor(lang, fallback); t != nil {
			crumb.Title = t.Title
		}
		crumb.URL = c.URLFor(lang)
		if crumb.URL == "" && fallback != "" {
			crumb.URL = c.URLFor(fallback)
		}
		crumbs = append(crumbs, crumb)
	}
	return crumbs, nil
}
