package calendar

import (
	"context"
	"time"
)

// Repository defines the interface for calendar data access
type Repository interface {
	// GetOrCreateDefinition resolves a definition by normalized
	// description, inserting it on first sight. Idempotent.
	GetOrCreateDefinition(ctx context.Context, description string) (*EventDefinition, error)

	// InsertOccurrence records one dated occurrence of a definition.
	// Duplicate (event_id, event_date) pairs are silently ignored.
	InsertOccurrence(ctx context.Context, eventID int64, eventDate time.Time) error

	// ListPastEvents returns all occurrences dated strictly before the
	// cutoff, joined with their definitions and ordered by date.
	ListPastEvents(ctx context.Context, before time.Time) ([]DatedEvent, error)

	// ListAllEvents returns every occurrence joined with its definition.
	ListAllEvents(ctx context.Context) ([]DatedEvent, error)

	// ListDefinitions returns all definitions ordered by description.
	ListDefinitions(ctx context.Context) ([]EventDefinition, error)
}
