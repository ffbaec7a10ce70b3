package postgres

import (
	"context"
	"database/sql"

	"runway/internal/domain/company"
	"runway/pkg/errors"
)

// Compile-time check
var _ company.Repository = (*CompanyRepository)(nil)

// CompanyRepository implements company.Repository using sqlx
type CompanyRepository struct {
	db DBTX
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db DBTX) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// GetOrCreate resolves a company by ticker, inserting on first sight.
// Concurrent callers racing on the same ticker both land on the
// existing row via the conflict clause.
func (r *CompanyRepository) GetOrCreate(ctx context.Context, ticker, name string) (*company.Company, error) {
	var c company.Company

	query := `
		INSERT INTO companies (ticker, name)
		VALUES ($1, $2)
		ON CONFLICT (ticker) DO NOTHING
		RETURNING id, ticker, name`

	err := r.db.GetContext(ctx, &c, query, ticker, name)
	if err == nil {
		return &c, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	// Conflict path: the row already existed, fetch it
	err = r.db.GetContext(ctx, &c, `SELECT id, ticker, name FROM companies WHERE ticker = $1`, ticker)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByTicker returns the company with the given ticker
func (r *CompanyRepository) GetByTicker(ctx context.Context, ticker string) (*company.Company, error) {
	var c company.Company

	query := `SELECT id, ticker, name FROM companies WHERE ticker = $1`

	if err := r.db.GetContext(ctx, &c, query, ticker); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Wrapf(errors.ErrNotFound, "company %s", ticker)
		}
		return nil, err
	}
	return &c, nil
}

// List returns all companies ordered by ticker
func (r *CompanyRepository) List(ctx context.Context) ([]company.Company, error) {
	var companies []company.Company

	query := `SELECT id, ticker, name FROM companies ORDER BY ticker`

	if err := r.db.SelectContext(ctx, &companies, query); err != nil {
		return nil, err
	}
	return companies, nil
}
