package pricing

import "context"

// PriceRepository defines the interface for price series access
type PriceRepository interface {
	// InsertPrices appends daily closes for a company, ignoring
	// (company_id, date) pairs that already exist.
	InsertPrices(ctx context.Context, points []PricePoint) (int64, error)

	// GetSeries returns a company's full price history ordered by date.
	GetSeries(ctx context.Context, companyID int64) ([]PricePoint, error)
}

// ImpactRepository defines the interface for impact fact persistence
type ImpactRepository interface {
	// InsertFacts upserts impact facts, ignoring rows that already
	// exist for the same (company, event date, description).
	InsertFacts(ctx context.Context, facts []ImpactFact) (int64, error)

	// GetByEvent returns all facts for one event definition ordered by
	// event date.
	GetByEvent(ctx context.Context, eventID int64) ([]ImpactFact, error)
}

// ForecastRepository defines the interface for forecast persistence
type ForecastRepository interface {
	// InsertPoints upserts forecast points, ignoring duplicate
	// (company, forecast date) pairs. Superseding an old forecast means
	// rerunning with a later as-of date, not merging.
	InsertPoints(ctx context.Context, points []ForecastPoint) (int64, error)

	// GetLatest returns at most limit forecast rows for a company,
	// most recent forecast dates first.
	GetLatest(ctx context.Context, companyID int64, limit int) ([]ForecastPoint, error)
}

// LinkRepository defines the interface for exact-date event/price links
type LinkRepository interface {
	// InsertLinks upserts exact-date links, primary-keyed on
	// (event_id, event_date, company_id).
	InsertLinks(ctx context.Context, links []EventPriceLink) (int64, error)
}
