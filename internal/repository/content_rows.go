package repository

import (
	"github.com/jackc/pgx/v5"

	"github.com/Taichi-iskw/contentrepo/internal/model"
)

// ContentColumns lists the columns read for every content row. Queries using it
// must alias contents as c and left join users as u.
const ContentColumns = `c.id, c.type, c.theme, c.weight, c.rating, c.visits,
	c.is_on_home, c.is_comment_allowed, c.is_promoted, c.is_sticky, c.is_active,
	c.published_at, c.parent_id, c.path, c.level, c.author_id, c.file_id,
	c.created_at, c.updated_at, c.deleted_at, u.email, u.name`

// ContentFrom is the FROM clause matching ContentColumns
const ContentFrom = `FROM contents c LEFT JOIN users u ON u.id = c.author_id`

// ScanContent scans one row selected with ContentColumns
func ScanContent(row pgx.Row) (*model.Content, error) {
	var c model.Content
	var authorEmail, authorName *string
	err := row.Scan(
		&c.ID, &c.Type, &c.Theme, &c.Weight, &c.Rating, &c.Visits,
		&c.IsOnHome, &c.IsCommentAllowed, &c.IsPromoted, &c.IsSticky, &c.IsActive,
		&c.PublishedAt, &c.ParentID, &c.Path, &c.Level, &c.AuthorID, &c.FileID,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt, &authorEmail, &authorName,
	)
	if err != nil {
		return nil, err
	}

	if c.AuthorID != nil && authorEmail != nil {
		c.Author = &model.User{ID: *c.AuthorID, Email: *authorEmail}
		if authorName != nil {
			c.Author.Name = *authorName
		}
	}
	return &c, nil
}

// CollectContents scans all rows selected with ContentColumns
func CollectContents(rows pgx.Rows) ([]*model.Content, error) {
	defer rows.Close()

	contents := []*model.Content{}
	for rows.Next() {
		content, err := ScanContent(rows)
		if err != nil {
			return nil, HandlePostgreSQLError(err, "failed to scan content row")
		}
		contents = append(contents, content)
	}

	if err := rows.Err(); err != nil {
		return nil, HandlePostgreSQLError(err, "failed to iterate content rows")
	}
	return contents, nil
}
