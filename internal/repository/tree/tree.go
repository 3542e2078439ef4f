// Package tree maintains the materialized path and level of content nodes.
//
// A node's path is the chain of its ancestor ids, each followed by "/".
// Roots have an empty path and level 0; the child of root 1 has path "1/"
// and level 1. All descendants of a node share the prefix node.Path + node.ID + "/".
package tree

import (
	"context"
	"slices"

	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	apperrors "github.com/Taichi-iskw/contentrepo/internal/errors"
	"github.com/Taichi-iskw/contentrepo/internal/log"
	"github.com/Taichi-iskw/contentrepo/internal/model"
	"github.com/Taichi-iskw/contentrepo/internal/repository"
)

// MaxPathLength matches the contents.path column
const MaxPathLength = 255

// Engine places content nodes in the tree
type Engine struct {
	logger logSDK.Logger
}

// NewEngine creates a new tree engine
func NewEngine() *Engine {
	return &Engine{logger: log.Logger.Named("tree")}
}

// SetChildOf moves node under parent. Unsaved nodes (ID 0) are only updated in
// memory; saved nodes are written through db together with their whole subtree.
func (e *Engine) SetChildOf(ctx context.Context, db repository.DBTX, node, parent *model.Content) error {
	if parent == nil || parent.ID == 0 {
		return apperrors.New(apperrors.CodeInvalidArg, "parent node must be saved before it can hold children")
	}

	if node.ID != 0 {
		if err := checkNotDescendant(node, parent); err != nil {
			return err
		}
	}

	path := parent.SubtreePrefix()
	if len(path) > MaxPathLength {
		return apperrors.Newf(apperrors.CodeInvalidArg, "path too long: node would sit %d levels deep", parent.Level+1)
	}

	oldPrefix := ""
	if node.ID != 0 {
		oldPrefix = node.SubtreePrefix()
	}

	parentID := parent.ID
	node.ParentID = &parentID
	node.Path = path
	node.Level = parent.Level + 1

	if node.ID == 0 {
		return nil
	}
	return e.persist(ctx, db, node, oldPrefix)
}

// SetAsRoot detaches node from its parent
func (e *Engine) SetAsRoot(ctx context.Context, db repository.DBTX, node *model.Content) error {
	oldPrefix := ""
	if node.ID != 0 {
		oldPrefix = node.SubtreePrefix()
	}

	node.ParentID = nil
	node.Path = ""
	node.Level = 0

	if node.ID == 0 {
		return nil
	}
	return e.persist(ctx, db, node, oldPrefix)
}

// FindDescendants returns every node below node, trashed ones included,
// ordered by level then weight
func (e *Engine) FindDescendants(ctx context.Context, db repository.DBTX, node *model.Content) ([]*model.Content, error) {
	return e.findByPrefix(ctx, db, node.SubtreePrefix())
}

// FindAncestors returns the ancestors of node in root-to-parent order
func (e *Engine) FindAncestors(ctx context.Context, db repository.DBTX, node *model.Content) ([]*model.Content, error) {
	ids, err := node.AncestorIDs()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "malformed content path")
	}
	if len(ids) == 0 {
		return []*model.Content{}, nil
	}

	sql := "SELECT " + repository.ContentColumns + " " + repository.ContentFrom + " WHERE c.id = ANY($1)"
	rows, err := db.Query(ctx, sql, ids)
	if err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to get ancestors")
	}
	found, err := repository.CollectContents(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*model.Content, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}

	ancestors := make([]*model.Content, 0, len(ids))
	for _, id := range ids {
		ancestor, ok := byID[id]
		if !ok {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "ancestor node id: %d doesn't exist", id)
		}
		ancestors = append(ancestors, ancestor)
	}
	return ancestors, nil
}

// checkNotDescendant rejects moves that would create a cycle
func checkNotDescendant(node, parent *model.Content) error {
	if parent.ID == node.ID {
		return apperrors.Newf(apperrors.CodeConflict, "content %d cannot be its own parent", node.ID)
	}

	ancestorIDs, err := parent.AncestorIDs()
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "malformed content path")
	}
	if slices.Contains(ancestorIDs, node.ID) {
		return apperrors.Newf(apperrors.CodeConflict, "content %d cannot be moved into its own descendant %d", node.ID, parent.ID)
	}
	return nil
}

// persist writes the node position and rewrites its subtree
func (e *Engine) persist(ctx context.Context, db repository.DBTX, node *model.Content, oldPrefix string) error {
	sql := "UPDATE contents SET parent_id = $2, path = $3, level = $4, updated_at = NOW() WHERE id = $1"
	if _, err := db.Exec(ctx, sql, node.ID, node.ParentID, node.Path, node.Level); err != nil {
		return repository.HandlePostgreSQLError(err, "failed to update content position")
	}

	return e.rewriteDescendants(ctx, db, node, oldPrefix)
}

// rewriteDescendants recomputes path and level of everything that lived under
// oldPrefix. Nodes are processed in level order over an id-indexed arena so each
// parent is placed before its children.
func (e *Engine) rewriteDescendants(ctx context.Context, db repository.DBTX, node *model.Content, oldPrefix string) error {
	descendants, err := e.findByPrefix(ctx, db, oldPrefix)
	if err != nil {
		return err
	}
	if len(descendants) == 0 {
		return nil
	}

	arena := map[int64]*model.Content{node.ID: node}
	ids := make([]int64, 0, len(descendants))
	paths := make([]string, 0, len(descendants))
	levels := make([]int32, 0, len(descendants))

	for _, d := range descendants {
		if d.ParentID == nil {
			return apperrors.Newf(apperrors.CodeInternal, "descendant %d has no parent", d.ID)
		}
		parent, ok := arena[*d.ParentID]
		if !ok {
			return apperrors.Newf(apperrors.CodeInternal, "descendant %d references parent %d outside the subtree", d.ID, *d.ParentID)
		}

		d.Path = parent.SubtreePrefix()
		d.Level = parent.Level + 1
		arena[d.ID] = d

		ids = append(ids, d.ID)
		paths = append(paths, d.Path)
		levels = append(levels, int32(d.Level))
	}

	sql := `UPDATE contents AS c
		SET path = v.path, level = v.level, updated_at = NOW()
		FROM unnest($1::bigint[], $2::text[], $3::int[]) AS v(id, path, level)
		WHERE c.id = v.id`
	if _, err := db.Exec(ctx, sql, ids, paths, levels); err != nil {
		return repository.HandlePostgreSQLError(err, "failed to rewrite descendant paths")
	}

	e.logger.Debug("subtree moved",
		zap.Int64("content_id", node.ID),
		zap.String("path", node.Path),
		zap.Int("descendants", len(ids)))
	return nil
}

// findByPrefix loads every node whose path starts with prefix
func (e *Engine) findByPrefix(ctx context.Context, db repository.DBTX, prefix string) ([]*model.Content, error) {
	sql := "SELECT " + repository.ContentColumns + " " + repository.ContentFrom +
		" WHERE c.path LIKE $1 ORDER BY c.level ASC, c.weight ASC, c.id ASC"
	rows, err := db.Query(ctx, sql, prefix+"%")
	if err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to get descendants")
	}
	return repository.CollectContents(rows)
}
