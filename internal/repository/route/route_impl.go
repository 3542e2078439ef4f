package route

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/jackc/pgx/v5"

	apperrors "github.com/Taichi-iskw/contentrepo/internal/errors"
	"github.com/Taichi-iskw/contentrepo/internal/log"
	"github.com/Taichi-iskw/contentrepo/internal/model"
	"github.com/Taichi-iskw/contentrepo/internal/repository"
	"github.com/Taichi-iskw/contentrepo/internal/slug"
)

const (
	columns = `r.id, r.content_id, rt.id, rt.language_code, rt.url, rt.is_active, rt.created_at, rt.updated_at`
	from    = `FROM routes r JOIN route_translations rt ON rt.route_id = r.id`
)

// MaxURLLength matches the route_translations.url column
const MaxURLLength = 255

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// routeRepository implements Repository using PostgreSQL
type routeRepository struct {
	logger logSDK.Logger
}

// NewRepository creates a new route repository
func NewRepository() Repository {
	return &routeRepository{logger: log.Logger.Named("route")}
}

// CreateRoute creates the route row on first use and adds an active translation in lang
func (r *routeRepository) CreateRoute(ctx context.Context, db repository.DBTX, content *model.Content, lang, title string) (*model.RouteTranslation, error) {
	url, err := r.buildURL(ctx, db, content, lang, title, 0)
	if err != nil {
		return nil, err
	}

	var routeID int64
	ensure := `INSERT INTO routes (content_id) VALUES ($1)
		ON CONFLICT (content_id) DO UPDATE SET updated_at = routes.updated_at
		RETURNING id`
	if err := db.QueryRow(ctx, ensure, content.ID).Scan(&routeID); err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to create route")
	}

	rt := &model.RouteTranslation{RouteID: routeID, LanguageCode: lang, URL: url, IsActive: true}
	insert := `INSERT INTO route_translations (route_id, language_code, url, is_active)
		VALUES ($1, $2, $3, true)
		RETURNING id, created_at, updated_at`
	if err := db.QueryRow(ctx, insert, routeID, lang, url).Scan(&rt.ID, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to create route translation")
	}

	r.logger.Debug("route created",
		zap.Int64("content_id", content.ID),
		zap.String("lang", lang),
		zap.String("url", url))
	return rt, nil
}

// Regenerate rebuilds the url of content in lang. A missing route translation is created.
func (r *routeRepository) Regenerate(ctx context.Context, db repository.DBTX, content *model.Content, lang, title string) (*model.RouteTranslation, error) {
	rt := &model.RouteTranslation{LanguageCode: lang}
	find := `SELECT rt.id, rt.route_id, rt.url ` + from + ` WHERE r.content_id = $1 AND rt.language_code = $2`
	err := db.QueryRow(ctx, find, content.ID, lang).Scan(&rt.ID, &rt.RouteID, &rt.URL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.CreateRoute(ctx, db, content, lang, title)
		}
		return nil, repository.HandlePostgreSQLError(err, "failed to get route translation")
	}

	oldURL := rt.URL
	url, err := r.buildURL(ctx, db, content, lang, title, rt.RouteID)
	if err != nil {
		return nil, err
	}

	update := `UPDATE route_translations SET url = $2, is_active = true, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`
	if err := db.QueryRow(ctx, update, rt.ID, url).Scan(&rt.CreatedAt, &rt.UpdatedAt); err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to update route translation")
	}
	rt.URL = url
	rt.IsActive = true

	r.logger.Info("route regenerated",
		zap.Int64("content_id", content.ID),
		zap.String("lang", lang),
		zap.String("old_url", oldURL),
		zap.String("url", url))
	return rt, nil
}

// buildURL returns a free url for content in lang, ignoring urls owned by excludeRouteID
func (r *routeRepository) buildURL(ctx context.Context, db repository.DBTX, content *model.Content, lang, title string, excludeRouteID int64) (string, error) {
	if strings.TrimSpace(lang) == "" {
		return "", apperrors.New(apperrors.CodeInvalidArg, "Language code is required")
	}

	segment := slug.Make(title)
	if segment == "" {
		segment = strconv.FormatInt(content.ID, 10)
	}

	candidate := segment
	if content.ParentID != nil {
		base, err := r.ActiveURL(ctx, db, *content.ParentID, lang)
		if err != nil {
			if apperrors.Is(err, apperrors.CodeNotFound) {
				return "", apperrors.New(apperrors.CodeInvalidArg, "parent has not been translated in this language")
			}
			return "", err
		}
		candidate = base + "/" + segment
	}

	url, err := r.uniqueURL(ctx, db, lang, candidate, excludeRouteID)
	if err != nil {
		return "", err
	}
	if utf8.RuneCountInString(url) > MaxURLLength {
		return "", apperrors.Newf(apperrors.CodeInvalidArg, "url too long: %d characters, at most %d allowed", utf8.RuneCountInString(url), MaxURLLength)
	}
	return url, nil
}

// uniqueURL appends -1, -2, ... to candidate until no other route uses it in lang
func (r *routeRepository) uniqueURL(ctx context.Context, db repository.DBTX, lang, candidate string, excludeRouteID int64) (string, error) {
	sql := `SELECT url FROM route_translations
		WHERE language_code = $1 AND (url = $2 OR url LIKE $3) AND route_id <> $4`
	rows, err := db.Query(ctx, sql, lang, candidate, likeEscaper.Replace(candidate)+"-%", excludeRouteID)
	if err != nil {
		return "", repository.HandlePostgreSQLError(err, "failed to check url uniqueness")
	}

	taken, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return "", repository.HandlePostgreSQLError(err, "failed to scan url")
	}
	return NextFreeURL(candidate, taken), nil
}

// NextFreeURL returns candidate, or candidate with the lowest numeric suffix not in taken
func NextFreeURL(candidate string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, url := range taken {
		used[url] = struct{}{}
	}

	if _, ok := used[candidate]; !ok {
		return candidate
	}
	for i := 1; ; i++ {
		next := fmt.Sprintf("%s-%d", candidate, i)
		if _, ok := used[next]; !ok {
			return next
		}
	}
}

// GetByContentID returns the route of a content node
func (r *routeRepository) GetByContentID(ctx context.Context, db repository.DBTX, contentID int64) (*model.Route, error) {
	routes, err := r.ForContents(ctx, db, []int64{contentID})
	if err != nil {
		return nil, err
	}
	route, ok := routes[contentID]
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "route for content %d not found", contentID)
	}
	return route, nil
}

// ForContents loads routes with their translations in one query
func (r *routeRepository) ForContents(ctx context.Context, db repository.DBTX, contentIDs []int64) (map[int64]*model.Route, error) {
	result := make(map[int64]*model.Route, len(contentIDs))
	if len(contentIDs) == 0 {
		return result, nil
	}

	sql := "SELECT " + columns + " " + from + " WHERE r.content_id = ANY($1) ORDER BY r.content_id, rt.language_code"
	rows, err := db.Query(ctx, sql, contentIDs)
	if err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to load routes")
	}
	defer rows.Close()

	for rows.Next() {
		var contentID int64
		rt := &model.RouteTranslation{}
		if err := rows.Scan(&rt.RouteID, &contentID, &rt.ID, &rt.LanguageCode, &rt.URL, &rt.IsActive, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, repository.HandlePostgreSQLError(err, "failed to scan route row")
		}

		route, ok := result[contentID]
		if !ok {
			route = &model.Route{ID: rt.RouteID, ContentID: contentID}
			result[contentID] = route
		}
		route.Translations = append(route.Translations, rt)
	}

	if err := rows.Err(); err != nil {
		return nil, repository.HandlePostgreSQLError(err, "failed to iterate route rows")
	}
	return result, nil
}

// ActiveURL returns the active url of a content node in lang
func (r *routeRepository) ActiveURL(ctx context.Context, db repository.DBTX, contentID int64, lang string) (string, error) {
	var url string
	sql := "SELECT rt.url " + from + " WHERE r.content_id = $1 AND rt.language_code = $2 AND rt.is_active"
	if err := db.QueryRow(ctx, sql, contentID, lang).Scan(&url); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.Wrap(err, apperrors.CodeNotFound, "route translation not found")
		}
		return "", repository.HandlePostgreSQLError(err, "failed to get route url")
	}
	return url, nil
}

// ContentIDByURL resolves an active url in lang to the content that owns it
func (r *routeRepository) ContentIDByURL(ctx context.Context, db repository.DBTX, url, lang string) (int64, error) {
	var contentID int64
	sql := "SELECT r.content_id " + from + " WHERE rt.language_code = $1 AND rt.url = $2 AND rt.is_active"
	if err := db.QueryRow(ctx, sql, lang, url).Scan(&contentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.Wrap(err, apperrors.CodeNotFound, "content not found")
		}
		return 0, repository.HandlePostgreSQLError(err, "failed to resolve url")
	}
	return contentID, nil
}

// DeleteForContents removes route translations first, then the routes
func (r *routeRepository) DeleteForContents(ctx context.Context, db repository.DBTX, contentIDs []int64) error {
	if len(contentIDs) == 0 {
		return nil
	}

	deleteTranslations := `DELETE FROM route_translations
		WHERE route_id IN (SELECT id FROM routes WHERE content_id = ANY($1))`
	if _, err := db.Exec(ctx, deleteTranslations, contentIDs); err != nil {
		return repository.HandlePostgreSQLError(err, "failed to delete route translations")
	}

	if _, err := db.Exec(ctx, "DELETE FROM routes WHERE content_id = ANY($1)", contentIDs); err != nil {
		return repository.HandlePostgreSQLError(err, "failed to delete routes")
	}
	return nil
}
