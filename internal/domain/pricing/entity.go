package pricing

import "time"

// PricePoint is one closing price for a company on one trading day.
// Unique per (company_id, date), append-only; the source of truth for
// both impact and forecast computation.
type PricePoint struct {
	CompanyID int64     `db:"company_id"`
	Date      time.Time `db:"date"`
	Close     float64   `db:"close_price"`
}

// ImpactFact is the realized post-minus-pre closing-price delta around
// an event date for one company. Derived and idempotent: recomputable
// from occurrences and prices at any time.
type ImpactFact struct {
	CompanyID        int64     `db:"company_id"`
	EventDate        time.Time `db:"event_date"`
	EventDescription string    `db:"event_description"`
	PreEventPrice    float64   `db:"pre_event_price"`
	PostEventPrice   float64   `db:"post_event_price"`
	Impact           float64   `db:"impact"`
}

// ForecastPoint is one projected business-day price for a company,
// derived from a model fit over its full price history.
type ForecastPoint struct {
	CompanyID     int64     `db:"company_id"`
	ForecastDate  time.Time `db:"forecast_date"`
	ForecastPrice float64   `db:"forecast_price"`
}

// EventPriceLink denormalizes an event occurrence onto the price point
// recorded on exactly that date. Exact date match only, never
// nearest-neighbor; created only when such a price exists.
type EventPriceLink struct {
	EventID    int64     `db:"event_id"`
	EventDate  time.Time `db:"event_date"`
	CompanyID  int64     `db:"company_id"`
	ClosePrice float64   `db:"close_price"`
}
