package postgres

import (
	"context"

	"runway/internal/domain/pricing"
)

// Compile-time checks
var (
	_ pricing.PriceRepository    = (*PriceRepository)(nil)
	_ pricing.ImpactRepository   = (*ImpactRepository)(nil)
	_ pricing.ForecastRepository = (*ForecastRepository)(nil)
	_ pricing.LinkRepository     = (*LinkRepository)(nil)
)

// PriceRepository implements pricing.PriceRepository using sqlx
type PriceRepository struct {
	db DBTX
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(db DBTX) *PriceRepository {
	return &PriceRepository{db: db}
}

// InsertPrices appends daily closes, ignoring existing (company, date)
// pairs. Returns the number of rows actually written.
func (r *PriceRepository) InsertPrices(ctx context.Context, points []pricing.PricePoint) (int64, error) {
	query := `
		INSERT INTO price_points (company_id, date, close_price)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id, date) DO NOTHING`

	var inserted int64
	for _, p := range points {
		res, err := r.db.ExecContext(ctx, query, p.CompanyID, p.Date, p.Close)
		if err != nil {
			return inserted, err
		}
		n, _ := res.RowsAffected()
		inserted += n
	}
	return inserted, nil
}

// GetSeries returns a company's full price history ordered by date
func (r *PriceRepository) GetSeries(ctx context.Context, companyID int64) ([]pricing.PricePoint, error) {
	var points []pricing.PricePoint

	query := `
		SELECT company_id, date, close_price
		FROM price_points
		WHERE company_id = $1
		ORDER BY date`

	if err := r.db.SelectContext(ctx, &points, query, companyID); err != nil {
		return nil, err
	}
	return points, nil
}

// ImpactRepository implements pricing.ImpactRepository using sqlx
type ImpactRepository struct {
	db DBTX
}

// NewImpactRepository creates a new impact repository
func NewImpactRepository(db DBTX) *ImpactRepository {
	return &ImpactRepository{db: db}
}

// InsertFacts upserts impact facts; re-submitting the same
// (company, event date, description) is a no-op, never an error
func (r *ImpactRepository) InsertFacts(ctx context.Context, facts []pricing.ImpactFact) (int64, error) {
	query := `
		INSERT INTO impact_facts (
			company_id, event_date, event_description,
			pre_event_price, post_event_price, impact
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, event_date, event_description) DO NOTHING`

	var inserted int64
	for _, f := range facts {
		res, err := r.db.ExecContext(ctx, query,
			f.CompanyID, f.EventDate, f.EventDescription,
			f.PreEventPrice, f.PostEventPrice, f.Impact,
		)
		if err != nil {
			return inserted, err
		}
		n, _ := res.RowsAffected()
		inserted += n
	}
	return inserted, nil
}

// GetByEvent returns all facts for one event definition ordered by date
func (r *ImpactRepository) GetByEvent(ctx context.Context, eventID int64) ([]pricing.ImpactFact, error) {
	var facts []pricing.ImpactFact

	query := `
		SELECT f.company_id, f.event_date, f.event_description,
		       f.pre_event_price, f.post_event_price, f.impact
		FROM impact_facts f
		JOIN event_occurrences o
		  ON o.event_date = f.event_date AND o.event_id = $1
		GROUP BY f.company_id, f.event_date, f.event_description,
		         f.pre_event_price, f.post_event_price, f.impact
		ORDER BY f.event_date`

	if err := r.db.SelectContext(ctx, &facts, query, eventID); err != nil {
		return nil, err
	}
	return facts, nil
}

// ForecastRepository implements pricing.ForecastRepository using sqlx
type ForecastRepository struct {
	db DBTX
}

// NewForecastRepository creates a new forecast repository
func NewForecastRepository(db DBTX) *ForecastRepository {
	return &ForecastRepository{db: db}
}

// InsertPoints upserts forecast points, ignoring duplicate dates
func (r *ForecastRepository) InsertPoints(ctx context.Context, points []pricing.ForecastPoint) (int64, error) {
	query := `
		INSERT INTO forecast_points (company_id, forecast_date, forecast_price)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id, forecast_date) DO NOTHING`

	var inserted int64
	for _, p := range points {
		res, err := r.db.ExecContext(ctx, query, p.CompanyID, p.ForecastDate, p.ForecastPrice)
		if err != nil {
			return inserted, err
		}
		n, _ := res.RowsAffected()
		inserted += n
	}
	return inserted, nil
}

// GetLatest returns at most limit rows, most recent forecast dates
// first
func (r *ForecastRepository) GetLatest(ctx context.Context, companyID int64, limit int) ([]pricing.ForecastPoint, error) {
	var points []pricing.ForecastPoint

	query := `
		SELECT company_id, forecast_date, forecast_price
		FROM forecast_points
		WHERE company_id = $1
		ORDER BY forecast_date DESC
		LIMIT $2`

	if err := r.db.SelectContext(ctx, &points, query, companyID, limit); err != nil {
		return nil, err
	}
	return points, nil
}

// LinkRepository implements pricing.LinkRepository using sqlx
type LinkRepository struct {
	db DBTX
}

// NewLinkRepository creates a new event/price link repository
func NewLinkRepository(db DBTX) *LinkRepository {
	return &LinkRepository{db: db}
}

// InsertLinks upserts exact-date links
func (r *LinkRepository) InsertLinks(ctx context.Context, links []pricing.EventPriceLink) (int64, error) {
	query := `
		INSERT INTO event_price_links (event_id, event_date, company_id, close_price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, event_date, company_id) DO NOTHING`

	var inserted int64
	for _, l := range links {
		res, err := r.db.ExecContext(ctx, query, l.EventID, l.EventDate, l.CompanyID, l.ClosePrice)
		if err != nil {
			return inserted, err
		}
		n, _ := res.RowsAffected()
		inserted += n
	}
	return inserted, nil
}
