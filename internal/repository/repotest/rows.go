// Package repotest provides pgxmock row builders shared by repository tests.
package repotest

import (
	"time"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/Taichi-iskw/contentrepo/internal/model"
)

// ContentColumnNames matches repository.ContentColumns
var ContentColumnNames = []string{
	"id", "type", "theme", "weight", "rating", "visits",
	"is_on_home", "is_comment_allowed", "is_promoted", "is_sticky", "is_active",
	"published_at", "parent_id", "path", "level", "author_id", "file_id",
	"created_at", "updated_at", "deleted_at", "email", "name",
}

// Fixed timestamp used by fixtures
var Now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// ContentValues returns the row values for c in ContentColumnNames order
func ContentValues(c *model.Content) []any {
	var email, name *string
	if c.Author != nil {
		email = &c.Author.Email
		name = &c.Author.Name
	}
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = Now
	}
	updatedAt := c.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	return []any{
		c.ID, c.Type, c.Theme, c.Weight, c.Rating, c.Visits,
		c.IsOnHome, c.IsCommentAllowed, c.IsPromoted, c.IsSticky, c.IsActive,
		c.PublishedAt, c.ParentID, c.Path, c.Level, c.AuthorID, c.FileID,
		createdAt, updatedAt, c.DeletedAt, email, name,
	}
}

// ContentRows builds mock rows for the given contents
func ContentRows(contents ...*model.Content) *pgxmock.Rows {
	rows := pgxmock.NewRows(ContentColumnNames)
	for _, c := range contents {
		rows.AddRow(ContentValues(c)...)
	}
	return rows
}

// Int64 returns a pointer to v
func Int64(v int64) *int64 {
	return &v
}

// String returns a pointer to v
func String(v string) *string {
	return &v
}

// TranslationColumnNames matches the translation repository column list
var TranslationColumnNames = []string{
	"id", "content_id", "author_id", "language_code", "title", "teaser", "body",
	"seo_title", "seo_description", "is_active", "created_at", "updated_at",
}

// TranslationRows builds mock rows for the given translations
func TranslationRows(translations ...*model.Translation) *pgxmock.Rows {
	rows := pgxmock.NewRows(TranslationColumnNames)
	for _, t := range translations {
		rows.AddRow(t.ID, t.ContentID, t.AuthorID, t.LanguageCode, t.Title, t.Teaser, t.Body,
			t.SEOTitle, t.SEODescription, t.IsActive, Now, Now)
	}
	return rows
}

// RouteTranslationColumnNames matches the route repository join of routes and route_translations
var RouteTranslationColumnNames = []string{
	"route_id", "content_id", "id", "language_code", "url", "is_active", "created_at", "updated_at",
}

// RouteTranslationRows builds mock rows of route translations for a content node
func RouteTranslationRows(contentID int64, translations ...*model.RouteTranslation) *pgxmock.Rows {
	rows := pgxmock.NewRows(RouteTranslationColumnNames)
	for _, rt := range translations {
		rows.AddRow(rt.RouteID, contentID, rt.ID, rt.LanguageCode, rt.URL, rt.IsActive, Now, Now)
	}
	return rows
}

// FileColumnNames matches the file repository column list
var FileColumnNames = []string{
	"id", "type", "name", "extension", "size", "mime_type", "is_active", "created_at", "weight",
}

// FileRows builds mock rows for the given files
func FileRows(files ...*model.File) *pgxmock.Rows {
	rows := pgxmock.NewRows(FileColumnNames)
	for _, f := range files {
		rows.AddRow(f.ID, f.Type, f.Name, f.Extension, f.Size, f.MimeType, f.IsActive, Now, f.Weight)
	}
	return rows
}
