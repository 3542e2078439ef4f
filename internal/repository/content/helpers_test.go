package content

import (
	"context"
	"regexp"
	"time"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/Taichi-iskw/contentrepo/internal/events"
	"github.com/Taichi-iskw/contentrepo/internal/model"
	"github.com/Taichi-iskw/contentrepo/internal/repository/language"
	"github.com/Taichi-iskw/contentrepo/internal/repository/repotest"
)

const (
	selectContentSQL = "SELECT (.+) FROM contents c LEFT JOIN users u ON u.id = c.author_id WHERE c.id = \\$1"
	lockActiveSQL    = selectContentSQL + " AND c.deleted_at IS NULL FOR UPDATE OF c"
	lockTrashedSQL   = selectContentSQL + " AND c.deleted_at IS NOT NULL FOR UPDATE OF c"
	lockAnySQL       = selectContentSQL + " FOR UPDATE OF c"
	getActiveSQL     = selectContentSQL + " AND c.deleted_at IS NULL"
	getAnySQL        = selectContentSQL
)

var (
	relationTranslationsSQL = regexp.QuoteMeta("FROM content_translations WHERE content_id = ANY($1) AND is_active")
	relationRoutesSQL       = regexp.QuoteMeta("WHERE r.content_id = ANY($1)")
	uniqueURLSQL            = regexp.QuoteMeta("SELECT url FROM route_translations WHERE language_code = $1 AND (url = $2 OR url LIKE $3) AND route_id <> $4")
)

type recordingSink struct {
	events []events.Event
	err    error
}

func (s *recordingSink) Emit(_ context.Context, event events.Event) error {
	s.events = append(s.events, event)
	return s.err
}

func (s *recordingSink) names() []events.Name {
	names := make([]events.Name, 0, len(s.events))
	for _, e := range s.events {
		names = append(names, e.Name)
	}
	return names
}

func newTestRepository(mock pgxmock.PgxPoolIface, sink events.Sink) Repository {
	return NewRepository(mock,
		WithLanguages(language.NewStatic(
			&model.Language{Code: "en", IsEnabled: true, IsDefault: true},
			&model.Language{Code: "pl", IsEnabled: true},
			&model.Language{Code: "de", IsEnabled: false},
		)),
		WithSink(sink),
		WithClock(func() time.Time { return repotest.Now }),
	)
}

// expectRelations expects the two batch queries that load translations and routes
func expectRelations(mock pgxmock.PgxPoolIface, ids []int64, translations *pgxmock.Rows, routes *pgxmock.Rows) {
	if translations == nil {
		translations = repotest.TranslationRows()
	}
	if routes == nil {
		routes = pgxmock.NewRows(repotest.RouteTranslationColumnNames)
	}
	mock.ExpectQuery(relationTranslationsSQL).WithArgs(ids).WillReturnRows(translations)
	mock.ExpectQuery(relationRoutesSQL).WithArgs(ids).WillReturnRows(routes)
}

func category(id int64, parentID *int64, path string, level int) *model.Content {
	return &model.Content{ID: id, Type: model.ContentTypeCategory, ParentID: parentID, Path: path, Level: level, IsActive: true}
}

func leaf(id int64, parentID *int64, path string, level int) *model.Content {
	return &model.Content{ID: id, Type: model.ContentTypeContent, ParentID: parentID, Path: path, Level: level, IsActive: true}
}
