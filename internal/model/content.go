package model

import (
	"strconv"
	"strings"
	"time"
)

// PathDelimiter separates ancestor ids inside Content.Path
const PathDelimiter = "/"

// Content represents a node in the content tree (a page or a category)
type Content struct {
	ID               int64      `json:"id" db:"id"`
	Type             string     `json:"type" db:"type"`
	Theme            *string    `json:"theme,omitempty" db:"theme"`
	Weight           int        `json:"weight" db:"weight"`
	Rating           int        `json:"rating" db:"rating"`
	Visits           int        `json:"visits" db:"visits"`
	IsOnHome         bool       `json:"is_on_home" db:"is_on_home"`
	IsCommentAllowed bool       `json:"is_comment_allowed" db:"is_comment_allowed"`
	IsPromoted       bool       `json:"is_promoted" db:"is_promoted"`
	IsSticky         bool       `json:"is_sticky" db:"is_sticky"`
	IsActive         bool       `json:"is_active" db:"is_active"`
	PublishedAt      *time.Time `json:"published_at,omitempty" db:"published_at"`
	ParentID         *int64     `json:"parent_id,omitempty" db:"parent_id"`
	Path             string     `json:"path" db:"path"`   // ancestor ids, e.g. "1/4/"
	Level            int        `json:"level" db:"level"` // 0 for roots
	AuthorID         *int64     `json:"author_id,omitempty" db:"author_id"`
	FileID           *int64     `json:"file_id,omitempty" db:"file_id"` // primary file
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	// Relations, populated only when loaded
	Author       *User          `json:"author,omitempty" db:"-"`
	Route        *Route         `json:"route,omitempty" db:"-"`
	Translations []*Translation `json:"translations,omitempty" db:"-"`
	Children     []*Content     `json:"children,omitempty" db:"-"`
}

// IsRoot reports whether the node has no parent
func (c *Content) IsRoot() bool {
	return c.ParentID == nil
}

// IsTrashed reports whether the node is soft-deleted
func (c *Content) IsTrashed() bool {
	return c.DeletedAt != nil
}

// IsPublished reports whether the node is active and its publication date has passed
func (c *Content) IsPublished(now time.Time) bool {
	return c.IsActive && c.DeletedAt == nil && c.PublishedAt != nil && !c.PublishedAt.After(now)
}

// SubtreePrefix returns the path prefix shared by all descendants of the node
func (c *Content) SubtreePrefix() string {
	return c.Path + strconv.FormatInt(c.ID, 10) + PathDelimiter
}

// AncestorIDs parses Path into ancestor ids in root-to-parent order
func (c *Content) AncestorIDs() ([]int64, error) {
	return ParsePath(c.Path)
}

// TranslationFor returns the active translation in lang, falling back to fallback
func (c *Content) TranslationFor(lang, fallback string) *Translation {
	var alt *Translation
	for _, t := range c.Translations {
		if !t.IsActive {
			continue
		}
		switch t.LanguageCode {
		case lang:
			return t
		case fallback:
			alt = t
		}
	}
	return alt
}

// URLFor returns the active route url in lang, or an empty string
func (c *Content) URLFor(lang string) string {
	if c.Route == nil {
		return ""
	}
	if rt := c.Route.TranslationFor(lang); rt != nil {
		return rt.URL
	}
	return ""
}

// ParsePath splits a materialized path into ids
func ParsePath(path string) ([]int64, error) {
	trimmed := strings.Trim(path, PathDelimiter)
	if trimmed == "" {
		return []int64{}, nil
	}

	parts := strings.Split(trimmed, PathDelimiter)
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ContentType describes a registered content type
type ContentType struct {
	Name           string `json:"name"`
	AllowsChildren bool   `json:"allows_children"`
}

// Registered content types
const (
	ContentTypeContent  = "content"
	ContentTypeCategory = "category"
)

var contentTypes = map[string]ContentType{
	ContentTypeContent:  {Name: ContentTypeContent, AllowsChildren: false},
	ContentTypeCategory: {Name: ContentTypeCategory, AllowsChildren: true},
}

// LookupContentType returns the registered content type by name
func LookupContentType(name string) (ContentType, bool) {
	ct, ok := contentTypes[name]
	return ct, ok
}

// CreateContentInput holds the data needed to create a content node
type CreateContentInput struct {
	Type             string            `json:"type"`
	ParentID         *int64            `json:"parent_id,omitempty"`
	Theme            *string           `json:"theme,omitempty"`
	Weight           int               `json:"weight"`
	Rating           int               `json:"rating"`
	IsOnHome         bool              `json:"is_on_home"`
	IsCommentAllowed bool              `json:"is_comment_allowed"`
	IsPromoted       bool              `json:"is_promoted"`
	IsSticky         bool              `json:"is_sticky"`
	IsActive         bool              `json:"is_active"`
	PublishedAt      *time.Time        `json:"published_at,omitempty"`
	Translation      *TranslationInput `json:"translation"`
}

// UpdateContentInput holds optional changes to a content node.
// SetParent must be true for ParentID to be applied; a nil ParentID then makes the node a root.
type UpdateContentInput struct {
	SetParent        bool       `json:"set_parent"`
	ParentID         *int64     `json:"parent_id,omitempty"`
	Theme            *string    `json:"theme,omitempty"`
	Weight           *int       `json:"weight,omitempty"`
	Rating           *int       `json:"rating,omitempty"`
	IsOnHome         *bool      `json:"is_on_home,omitempty"`
	IsCommentAllowed *bool      `json:"is_comment_allowed,omitempty"`
	IsPromoted       *bool      `json:"is_promoted,omitempty"`
	IsSticky         *bool      `json:"is_sticky,omitempty"`
	IsActive         *bool      `json:"is_active,omitempty"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	FileID           *int64     `json:"file_id,omitempty"`
}

// Breadcrumb is one step on the way from a root to a node
type Breadcrumb struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}
