package model

import "time"

// Translation represents one language-specific rendering of a content node
type Translation struct {
	ID             int64     `json:"id" db:"id"`
	ContentID      int64     `json:"content_id" db:"content_id"`
	AuthorID       *int64    `json:"author_id,omitempty" db:"author_id"`
	LanguageCode   string    `json:"language_code" db:"language_code"`
	Title          string    `json:"title" db:"title"`
	Teaser         *string   `json:"teaser,omitempty" db:"teaser"`
	Body           *string   `json:"body,omitempty" db:"body"`
	SEOTitle       *string   `json:"seo_title,omitempty" db:"seo_title"`
	SEODescription *string   `json:"seo_description,omitempty" db:"seo_description"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// TranslationInput holds the data for a new translation
type TranslationInput struct {
	LanguageCode   string  `json:"language_code"`
	Title          string  `json:"title"`
	Teaser         *string `json:"teaser,omitempty"`
	Body           *string `json:"body,omitempty"`
	SEOTitle       *string `json:"seo_title,omitempty"`
	SEODescription *string `json:"seo_description,omitempty"`
	AuthorID       *int64  `json:"author_id,omitempty"`
}

// Route is the URL association of a content node
type Route struct {
	ID           int64               `json:"id" db:"id"`
	ContentID    int64               `json:"content_id" db:"content_id"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" db:"updated_at"`
	Translations []*RouteTranslation `json:"translations,omitempty" db:"-"`
}

// TranslationFor returns the active route translation in lang
func (r *Route) TranslationFor(lang string) *RouteTranslation {
	for _, rt := range r.Translations {
		if rt.LanguageCode == lang && rt.IsActive {
			return rt
		}
	}
	return nil
}

// RouteTranslation is the url of a route in one language
type RouteTranslation struct {
	ID           int64     `json:"id" db:"id"`
	RouteID      int64     `json:"route_id" db:"route_id"`
	LanguageCode string    `json:"language_code" db:"language_code"`
	URL          string    `json:"url" db:"url"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
