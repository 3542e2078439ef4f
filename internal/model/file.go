package model

import "time"

// File types known to the file service
const (
	FileTypeImage    = "image"
	FileTypeDocument = "document"
	FileTypeVideo    = "video"
	FileTypeMusic    = "music"
)

// File represents an uploaded file that can be attached to content
type File struct {
	ID           int64              `json:"id" db:"id"`
	Type         string             `json:"type" db:"type"`
	Name         string             `json:"name" db:"name"`
	Extension    string             `json:"extension" db:"extension"`
	Size         int64              `json:"size" db:"size"`
	MimeType     string             `json:"mime_type" db:"mime_type"`
	IsActive     bool               `json:"is_active" db:"is_active"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
	Weight       *int               `json:"weight,omitempty" db:"weight"` // set when read through a content
	Translations []*FileTranslation `json:"translations,omitempty" db:"-"`
}

// FileTranslation holds the localized title and description of a file
type FileTranslation struct {
	ID           int64   `json:"id" db:"id"`
	FileID       int64   `json:"file_id" db:"file_id"`
	LanguageCode string  `json:"language_code" db:"language_code"`
	Title        string  `json:"title" db:"title"`
	Description  *string `json:"description,omitempty" db:"description"`
}

// User is the author identity stored with content
type User struct {
	ID    int64  `json:"id" db:"id"`
	Email string `json:"email" db:"email"`
	Name  string `json:"name" db:"name"`
}

// Language is an entry of the language registry
type Language struct {
	Code      string `json:"code" db:"code"`
	IsEnabled bool   `json:"is_enabled" db:"is_enabled"`
	IsDefault bool   `json:"is_default" db:"is_default"`
}

// Page is one page of a paginated result
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// TotalPages returns the number of pages for Total items
func (p *Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		if p.Total > 0 {
			return 1
		}
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}
