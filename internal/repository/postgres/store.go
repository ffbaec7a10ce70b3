package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"runway/internal/domain/calendar"
	"runway/internal/domain/company"
	"runway/internal/domain/pricing"
	"runway/pkg/errors"
)

// Repos bundles every repository over one DBTX. Inside WithinTx all of
// them share a single transaction, so one company's writes commit or
// roll back as a unit.
type Repos struct {
	Companies company.Repository
	Calendar  calendar.Repository
	Prices    pricing.PriceRepository
	Impacts   pricing.ImpactRepository
	Forecasts pricing.ForecastRepository
	Links     pricing.LinkRepository
}

// NewRepos builds the repository bundle over a connection or
// transaction
func NewRepos(db DBTX) Repos {
	return Repos{
		Companies: NewCompanyRepository(db),
		Calendar:  NewCalendarRepository(db),
		Prices:    NewPriceRepository(db),
		Impacts:   NewImpactRepository(db),
		Forecasts: NewForecastRepository(db),
		Links:     NewLinkRepository(db),
	}
}

// Store is the explicit handle the pipeline components receive.
// No ambient globals: acquisition and release are scoped per unit of
// work.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a store over an established connection pool
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Repos returns non-transactional repositories for read paths
func (s *Store) Repos() Repos {
	return NewRepos(s.db)
}

// WithinTx runs fn with transaction-scoped repositories. Commit happens
// only if fn returns nil; a panic or error rolls everything back.
// Cancellation of ctx is honored between statements, never mid-commit.
func (s *Store) WithinTx(ctx context.Context, fn func(Repos) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(NewRepos(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}
