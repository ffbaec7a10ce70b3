package postgres

import (
	"context"
	"database/sql"
	"time"

	"runway/internal/domain/calendar"
)

// Compile-time check
var _ calendar.Repository = (*CalendarRepository)(nil)

// CalendarRepository implements calendar.Repository using sqlx
type CalendarRepository struct {
	db DBTX
}

// NewCalendarRepository creates a new calendar repository
func NewCalendarRepository(db DBTX) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// GetOrCreateDefinition resolves a definition by description,
// inserting on first sight. Matching is case-insensitive so the same
// event scraped with different casing stays one definition.
func (r *CalendarRepository) GetOrCreateDefinition(ctx context.Context, description string) (*calendar.EventDefinition, error) {
	var def calendar.EventDefinition

	query := `
		INSERT INTO event_definitions (description)
		VALUES ($1)
		ON CONFLICT (lower(description)) DO NOTHING
		RETURNING id, description`

	err := r.db.GetContext(ctx, &def, query, description)
	if err == nil {
		return &def, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	err = r.db.GetContext(ctx, &def,
		`SELECT id, description FROM event_definitions WHERE lower(description) = lower($1)`,
		description,
	)
	if err != nil {
		return nil, err
	}
	return &def, nil
}

// InsertOccurrence records one dated occurrence, ignoring duplicates
func (r *CalendarRepository) InsertOccurrence(ctx context.Context, eventID int64, eventDate time.Time) error {
	query := `
		INSERT INTO event_occurrences (event_id, event_date)
		VALUES ($1, $2)
		ON CONFLICT (event_id, event_date) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, eventID, eventDate)
	return err
}

// ListPastEvents returns occurrences strictly before the cutoff joined
// with their definitions, ordered by date
func (r *CalendarRepository) ListPastEvents(ctx context.Context, before time.Time) ([]calendar.DatedEvent, error) {
	var events []calendar.DatedEvent

	query := `
		SELECT o.id AS occurrence_id, o.event_id, o.event_date, d.description
		FROM event_occurrences o
		JOIN event_definitions d ON d.id = o.event_id
		WHERE o.event_date < $1
		ORDER BY o.event_date`

	if err := r.db.SelectContext(ctx, &events, query, before); err != nil {
		return nil, err
	}
	return events, nil
}

// ListAllEvents returns every occurrence joined with its definition
func (r *CalendarRepository) ListAllEvents(ctx context.Context) ([]calendar.DatedEvent, error) {
	var events []calendar.DatedEvent

	query := `
		SELECT o.id AS occurrence_id, o.event_id, o.event_date, d.description
		FROM event_occurrences o
		JOIN event_definitions d ON d.id = o.event_id
		ORDER BY o.event_date`

	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, err
	}
	return events, nil
}

// ListDefinitions returns all definitions ordered by description
func (r *CalendarRepository) ListDefinitions(ctx context.Context) ([]calendar.EventDefinition, error) {
	var defs []calendar.EventDefinition

	query := `SELECT id, description FROM event_definitions ORDER BY description`

	if err := r.db.SelectContext(ctx, &defs, query); err != nil {
		return nil, err
	}
	return defs, nil
}
