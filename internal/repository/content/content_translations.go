package content

import (
	"context"

	"github.com/Laisky/zap"
	"github.com/jackc/pgx/v5"

	"github.com/Taichi-iskw/contentrepo/internal/events"
	"github.com/Taichi-iskw/contentrepo/internal/model"
	"github.com/Taichi-iskw/contentrepo/internal/repository"
	"github.com/Taichi-iskw/contentrepo/internal/repository/query"
	"github.com/Taichi-iskw/contentrepo/internal/repository/translation"
)

// CreateTranslation adds a translation to an active node. The route keeps its url.
func (r *contentRepository) CreateTranslation(ctx context.Context, contentID int64, input *model.TranslationInput) (*model.Translation, error) {
	if err := translation.ValidateInput(input); err != nil {
		return nil, err
	}
	if err := r.checkLanguage(ctx, input.LanguageCode); err != nil {
		return nil, err
	}

	var created *model.Translation
	err := repository.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := r.getContent(ctx, tx, contentID, query.ScopeActive, true); err != nil {
			return err
		}

		var err error
		created, err = r.translations.CreateTx(ctx, tx, contentID, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("translation created",
		zap.Int64("content_id", contentID),
		zap.Int64("translation_id", created.ID),
		zap.String("lang", created.LanguageCode))

	event := r.newEvent(events.TranslationCreated, contentID)
	event.Translation = created
	r.emit(ctx, event)
	return created, nil
}

// DeleteTranslation removes an inactive translation that belongs to contentID
func (r *contentRepository) DeleteTranslation(ctx context.Context, contentID, translationID int64) error {
	existing, err := r.translations.GetForContent(ctx, contentID, translationID)
	if err != nil {
		return err
	}
	if err := r.translations.Delete(ctx, translationID); err != nil {
		return err
	}

	r.logger.Debug("translation deleted", zap.Int64("content_id", contentID), zap.Int64("translation_id", translationID))

	event := r.newEvent(events.TranslationDeleted, contentID)
	event.Translation = existing
	r.emit(ctx, event)
	return nil
}

// GetTranslations lists the translation history of a node, trashed nodes included
func (r *contentRepository) GetTranslations(ctx context.Context, contentID int64, criteria translation.Criteria) (*model.Page[*model.Translation], error) {
	if _, err := r.getContent(ctx, r.pool, contentID, query.ScopeWithTrashed, false); err != nil {
		return nil, err
	}
	return r.translations.List(ctx, contentID, criteria)
}

// GetContentTranslationByID retrieves one translation of a node
func (r *contentRepository) GetContentTranslationByID(ctx context.Context, contentID, translationID int64) (*model.Translation, error) {
	return r.translations.GetForContent(ctx, contentID, translationID)
}

// RegenerateRoute rebuilds the url in lang from the active translation title
func (r *contentRepository) RegenerateRoute(ctx context.Context, contentID int64, lang string) (*model.RouteTranslation, error) {
	var rt *model.RouteTranslation
	err := repository.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		node, err := r.getContent(ctx, tx, contentID, query.ScopeActive, true)
		if err != nil {
			return err
		}

		active, err := r.translations.GetActiveTx(ctx, tx, contentID, lang)
		if err != nil {
			return err
		}

		rt, err = r.routes.Regenerate(ctx, tx, node, lang, active.Title)
		return err
	})
	if err != nil {
		return nil, err
	}

	event := r.newEvent(events.RouteRegenerated, contentID)
	event.Route = rt
	r.emit(ctx, event)
	return rt, nil
}
