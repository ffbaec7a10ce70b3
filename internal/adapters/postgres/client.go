package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"runway/internal/adapters/config"
	"runway/pkg/errors"
	"runway/pkg/logger"
)

// Client wraps sqlx.DB for PostgreSQL operations
type Client struct {
	db *sqlx.DB
}

// NewClient creates a new PostgreSQL client with connection pooling
func NewClient(cfg config.PostgresConfig) (*Client, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to postgres")
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns / 2)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	// Verify connection
	if err := db.PingContext(context.Background()); err != nil {
		return nil, errors.Wrap(err, "failed to ping postgres")
	}

	return &Client{db: db}, nil
}

// Connect establishes the client with bounded exponential backoff.
// The store may come up after us (compose ordering), so failed attempts
// retry with doubling delays up to cfg.ConnectMaxBackoff. When the
// attempt cap is exhausted the caller gets ErrStoreUnavailable; no
// further work is possible without the store, so this is fatal at main.
func Connect(ctx context.Context, cfg config.PostgresConfig) (*Client, error) {
	log := logger.Get()

	attempts := cfg.ConnectAttempts
	if attempts <= 0 {
		attempts = 1
	}
	backoff := cfg.ConnectMinBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		client, err := NewClient(cfg)
		if err == nil {
			log.Infof("Connected to postgres (attempt %d/%d)", attempt, attempts)
			return client, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		log.Warnf("Postgres connection failed, retrying in %s (%d/%d): %v", backoff, attempt, attempts, err)

		select {
		case <-ctx.Done():
			return nil, errors.Wrap(errors.ErrStoreUnavailable, ctx.Err().Error())
		case <-time.After(backoff):
		}

		backoff *= 2
		if cfg.ConnectMaxBackoff > 0 && backoff > cfg.ConnectMaxBackoff {
			backoff = cfg.ConnectMaxBackoff
		}
	}

	return nil, errors.Wrapf(errors.ErrStoreUnavailable, "exhausted %d connection attempts: %v", attempts, lastErr)
}

// DB returns the underlying sqlx.DB instance
func (c *Client) DB() *sqlx.DB {
	return c.db
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// Health checks database connectivity
func (c *Client) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
