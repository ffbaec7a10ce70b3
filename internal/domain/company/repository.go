package company

import "context"

// Repository defines the interface for company data access
type Repository interface {
	// GetOrCreate resolves a company by ticker, inserting it on first
	// sight. Idempotent get-or-insert keyed by ticker.
	GetOrCreate(ctx context.Context, ticker, name string) (*Company, error)

	// GetByTicker returns the company with the given ticker
	GetByTicker(ctx context.Context, ticker string) (*Company, error)

	// List returns all companies ordered by ticker
	List(ctx context.Context) ([]Company, error)
}
