// Package events publishes notifications about committed content changes.
package events

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/google/uuid"

	"github.com/Taichi-iskw/contentrepo/internal/model"
)

// Name identifies the kind of change
type Name string

// Event names
const (
	ContentCreated      Name = "content.created"
	ContentUpdated      Name = "content.updated"
	ContentDeleted      Name = "content.deleted"
	ContentForceDeleted Name = "content.force_deleted"
	ContentRestored     Name = "content.restored"
	TranslationCreated  Name = "content.translation.created"
	TranslationDeleted  Name = "content.translation.deleted"
	RouteRegenerated    Name = "content.route.regenerated"
	FilesAdded          Name = "content.files.added"
	FilesRemoved        Name = "content.files.removed"
	FileUpdated         Name = "content.files.updated"
)

// Event describes one committed change
type Event struct {
	ID          string                  `json:"id"`
	Name        Name                    `json:"name"`
	OccurredAt  time.Time               `json:"occurred_at"`
	ContentID   int64                   `json:"content_id"`
	Content     *model.Content          `json:"content,omitempty"`
	Translation *model.Translation      `json:"translation,omitempty"`
	Route       *model.RouteTranslation `json:"route,omitempty"`
	FileIDs     []int64                 `json:"file_ids,omitempty"`
	AffectedIDs []int64                 `json:"affected_ids,omitempty"` // subtree touched by deletes and restores
}

// New creates an event with a fresh id
func New(name Name, contentID int64, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Name:       name,
		OccurredAt: at,
		ContentID:  contentID,
	}
}

// Sink receives events after the transaction that produced them has committed
type Sink interface {
	Emit(ctx context.Context, event Event) error
}

// NopSink drops every event
type NopSink struct{}

// Emit implements Sink
func (NopSink) Emit(context.Context, Event) error { return nil }

// MultiSink fans an event out to several sinks
type MultiSink []Sink

// Emit delivers to every sink and returns the first failure
func (m MultiSink) Emit(ctx context.Context, event Event) error {
	var firstErr error
	for _, sink := range m {
		if err := sink.Emit(ctx, event); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "emit %s", event.Name)
		}
	}
	return firstErr
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ctx context.Context, event Event) error

// Emit implements Sink
func (f SinkFunc) Emit(ctx context.Context, event Event) error {
	return f(ctx, event)
}
