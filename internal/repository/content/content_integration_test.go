//go:build integration

package content

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Taichi-iskw/contentrepo/internal/errors"
	"github.com/Taichi-iskw/contentrepo/internal/model"
	"github.com/Taichi-iskw/contentrepo/internal/repository/common"
	"github.com/Taichi-iskw/contentrepo/internal/repository/file"
	"github.com/Taichi-iskw/contentrepo/internal/repository/query"
	"github.com/Taichi-iskw/contentrepo/internal/repository/translation"
)

func createNode(t *testing.T, repo Repository, typ string, parentID *int64, weight int, title string) *model.Content {
	t.Helper()

	node, err := repo.Create(context.Background(), &model.CreateContentInput{
		Type:        typ,
		ParentID:    parentID,
		Weight:      weight,
		IsActive:    true,
		Translation: &model.TranslationInput{LanguageCode: "en", Title: title},
	}, nil)
	require.NoError(t, err)
	return node
}

func countRows(t *testing.T, pool *pgxpool.Pool, sql string, args ...any) int {
	t.Helper()

	var n int
	require.NoError(t, pool.QueryRow(context.Background(), sql, args...).Scan(&n))
	return n
}

func TestContentRepository_Integration(t *testing.T) {
	pool := common.SetupTestDB(t)
	repo := NewRepository(pool)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	t.Run("tree placement and urls", func(t *testing.T) {
		root := createNode(t, repo, model.ContentTypeCategory, nil, 0, "Example title")
		assert.Equal(t, "", root.Path)
		assert.Equal(t, 0, root.Level)
		assert.Equal(t, "example-title", root.URLFor("en"))

		child := createNode(t, repo, model.ContentTypeContent, &root.ID, 0, "Child page")
		assert.Equal(t, root.SubtreePrefix(), child.Path)
		assert.Equal(t, 1, child.Level)
		assert.Equal(t, "example-title/child-page", child.URLFor("en"))

		found, err := repo.GetByURL(ctx, "example-title/child-page", "en")
		require.NoError(t, err)
		assert.Equal(t, child.ID, found.ID)

		crumbs, err := repo.GetBreadcrumbs(ctx, child.ID, "en")
		require.NoError(t, err)
		require.Len(t, crumbs, 2)
		assert.Equal(t, "Example title", crumbs[0].Title)
		assert.Equal(t, "example-title/child-page", crumbs[1].URL)
	})

	t.Run("duplicate urls get numeric suffixes in creation order", func(t *testing.T) {
		urls := make([]string, 0, 3)
		for range 3 {
			node := createNode(t, repo, model.ContentTypeContent, nil, 0, "Duplicated page")
			urls = append(urls, node.URLFor("en"))
		}
		assert.Equal(t, []string{"duplicated-page", "duplicated-page-1", "duplicated-page-2"}, urls)
	})

	t.Run("one active translation per language and urls are kept", func(t *testing.T) {
		node := createNode(t, repo, model.ContentTypeContent, nil, 0, "Versioned page")

		first, err := repo.GetTranslations(ctx, node.ID, translation.Criteria{Lang: "en"})
		require.NoError(t, err)
		require.Len(t, first.Items, 1)
		original := first.Items[0]

		updated, err := repo.CreateTranslation(ctx, node.ID, &model.TranslationInput{LanguageCode: "en", Title: "Modified example title"})
		require.NoError(t, err)
		assert.True(t, updated.IsActive)

		active := true
		actives, err := repo.GetTranslations(ctx, node.ID, translation.Criteria{Lang: "en", IsActive: &active})
		require.NoError(t, err)
		assert.Equal(t, 1, actives.Total)
		assert.Equal(t, updated.ID, actives.Items[0].ID)

		reloaded, err := repo.GetByID(ctx, node.ID)
		require.NoError(t, err)
		assert.Equal(t, "versioned-page", reloaded.URLFor("en"))

		err = repo.DeleteTranslation(ctx, node.ID, updated.ID)
		assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
		require.NoError(t, repo.DeleteTranslation(ctx, node.ID, original.ID))

		rt, err := repo.RegenerateRoute(ctx, node.ID, "en")
		require.NoError(t, err)
		assert.Equal(t, "modified-example-title", rt.URL)
	})

	t.Run("translation in another language needs a translated parent", func(t *testing.T) {
		parent := createNode(t, repo, model.ContentTypeCategory, nil, 0, "English only")
		child := createNode(t, repo, model.ContentTypeContent, &parent.ID, 0, "English child")

		_, err := repo.CreateTranslation(ctx, child.ID, &model.TranslationInput{LanguageCode: "pl", Title: "Polski"})
		require.NoError(t, err)

		_, err = repo.RegenerateRoute(ctx, child.ID, "pl")
		assert.True(t, apperrors.Is(err, apperrors.CodeInvalidArg))
	})

	t.Run("re-parenting", func(t *testing.T) {
		full := createNode(t, repo, model.ContentTypeCategory, nil, 0, "Full category")
		createNode(t, repo, model.ContentTypeContent, &full.ID, 0, "Inside")
		target := createNode(t, repo, model.ContentTypeCategory, nil, 0, "Target category")

		_, err := repo.Update(ctx, full.ID, &model.UpdateContentInput{SetParent: true, ParentID: &target.ID})
		assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

		leafNode := createNode(t, repo, model.ContentTypeContent, nil, 0, "Moving leaf")
		moved, err := repo.Update(ctx, leafNode.ID, &model.UpdateContentInput{SetParent: true, ParentID: &target.ID})
		require.NoError(t, err)
		assert.Equal(t, target.SubtreePrefix(), moved.Path)
		assert.Equal(t, 1, moved.Level)
	})

	t.Run("soft and hard delete", func(t *testing.T) {
		parent := createNode(t, repo, model.ContentTypeCategory, nil, 0, "Trash category")
		child := createNode(t, repo, model.ContentTypeContent, &parent.ID, 0, "Trash child")
		fileID := common.CreateFile(t, pool, "image", "cover")
		_, err := repo.AddFiles(ctx, child.ID, []int64{fileID})
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, parent.ID))

		_, err = repo.GetByID(ctx, child.ID)
		assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
		trashed, err := repo.GetByIDWithTrashed(ctx, child.ID)
		require.NoError(t, err)
		assert.True(t, trashed.IsTrashed())

		restored, err := repo.Restore(ctx, parent.ID)
		require.NoError(t, err)
		assert.False(t, restored.IsTrashed())
		_, err = repo.GetByID(ctx, child.ID)
		require.NoError(t, err)

		require.NoError(t, repo.ForceDelete(ctx, parent.ID))

		ids := []int64{parent.ID, child.ID}
		assert.Zero(t, countRows(t, pool, "SELECT COUNT(*) FROM contents WHERE id = ANY($1)", ids))
		assert.Zero(t, countRows(t, pool, "SELECT COUNT(*) FROM content_translations WHERE content_id = ANY($1)", ids))
		assert.Zero(t, countRows(t, pool, "SELECT COUNT(*) FROM routes WHERE content_id = ANY($1)", ids))
		assert.Zero(t, countRows(t, pool, "SELECT COUNT(*) FROM content_files WHERE content_id = ANY($1)", ids))
		assert.Equal(t, 1, countRows(t, pool, "SELECT COUNT(*) FROM files WHERE id = $1", fileID))
	})

	t.Run("files", func(t *testing.T) {
		node := createNode(t, repo, model.ContentTypeContent, nil, 0, "Gallery")
		first := common.CreateFile(t, pool, "image", "first")
		second := common.CreateFile(t, pool, "image", "second")

		_, err := repo.AddFiles(ctx, node.ID, []int64{first, second})
		require.NoError(t, err)
		_, err = repo.UpdateFile(ctx, node.ID, second, 0)
		require.NoError(t, err)
		_, err = repo.UpdateFile(ctx, node.ID, first, 1)
		require.NoError(t, err)

		files, err := repo.GetFiles(ctx, node.ID, file.Criteria{})
		require.NoError(t, err)
		require.Len(t, files.Items, 2)
		assert.Equal(t, second, files.Items[0].ID)

		primary := first
		_, err = repo.Update(ctx, node.ID, &model.UpdateContentInput{FileID: &primary})
		require.NoError(t, err)
		require.NoError(t, repo.RemoveFiles(ctx, node.ID, []int64{first}))

		reloaded, err := repo.GetByID(ctx, node.ID)
		require.NoError(t, err)
		assert.Nil(t, reloaded.FileID)
	})

	t.Run("criteria", func(t *testing.T) {
		_, err := repo.GetContents(ctx, query.Criteria{
			Filters: []query.Filter{query.Eq("translations.title", "Example title")},
		})
		assert.True(t, apperrors.Is(err, apperrors.CodeInvalidArg))

		a := createNode(t, repo, model.ContentTypeCategory, nil, 3, "Order A")
		b := createNode(t, repo, model.ContentTypeContent, &a.ID, 2, "Order B")
		c := createNode(t, repo, model.ContentTypeContent, &a.ID, 0, "Order C")
		d := createNode(t, repo, model.ContentTypeContent, &a.ID, 5, "Order D")

		byID := query.Criteria{Filters: []query.Filter{{Field: "id", Op: query.OpIn, Value: []int64{a.ID, b.ID, c.ID}}}}

		byWeight, err := repo.GetContents(ctx, byID)
		require.NoError(t, err)
		assert.Equal(t, []int64{c.ID, b.ID, a.ID}, contentIDs(byWeight.Items))

		byLevel, err := repo.GetContentsByLevel(ctx, byID)
		require.NoError(t, err)
		assert.Equal(t, []int64{a.ID, c.ID, b.ID}, contentIDs(byLevel.Items))

		paged := query.Criteria{
			Filters: []query.Filter{
				query.Eq("lang", "en"),
				{Field: "translations.title", Op: query.OpLike, Value: "Order %"},
			},
			Sorts:    []query.Sort{{Field: "translations.title", Direction: query.Asc}},
			Page:     2,
			PageSize: 2,
		}
		page, err := repo.GetContents(ctx, paged)
		require.NoError(t, err)
		assert.Equal(t, 4, page.Total)
		assert.Equal(t, []int64{c.ID, d.ID}, contentIDs(page.Items))

		tree, err := repo.GetTree(ctx, &a.ID, query.Criteria{})
		require.NoError(t, err)
		assert.Equal(t, []int64{c.ID, b.ID, d.ID}, contentIDs(tree))
	})
}
