package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"runway/pkg/errors"
)

// schema is the full relational layout, applied idempotently at
// startup. Definitions dedupe case-insensitively on description;
// every derived table carries the uniqueness constraint its
// insert-or-ignore write path relies on.
const schema = `
CREATE TABLE IF NOT EXISTS companies (
	id     BIGSERIAL PRIMARY KEY,
	ticker TEXT NOT NULL UNIQUE,
	name   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS event_definitions (
	id          BIGSERIAL PRIMARY KEY,
	description TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS uq_event_definitions_description
	ON event_definitions (lower(description));

CREATE TABLE IF NOT EXISTS event_occurrences (
	id         BIGSERIAL PRIMARY KEY,
	event_id   BIGINT NOT NULL REFERENCES event_definitions (id),
	event_date DATE NOT NULL,
	UNIQUE (event_id, event_date)
);

CREATE TABLE IF NOT EXISTS price_points (
	company_id  BIGINT NOT NULL REFERENCES companies (id),
	date        DATE NOT NULL,
	close_price DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (company_id, date)
);

CREATE TABLE IF NOT EXISTS impact_facts (
	company_id        BIGINT NOT NULL REFERENCES companies (id),
	event_date        DATE NOT NULL,
	event_description TEXT NOT NULL,
	pre_event_price   DOUBLE PRECISION NOT NULL,
	post_event_price  DOUBLE PRECISION NOT NULL,
	impact            DOUBLE PRECISION NOT NULL,
	UNIQUE (company_id, event_date, event_description)
);

CREATE TABLE IF NOT EXISTS forecast_points (
	company_id     BIGINT NOT NULL REFERENCES companies (id),
	forecast_date  DATE NOT NULL,
	forecast_price DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (company_id, forecast_date)
);

CREATE TABLE IF NOT EXISTS event_price_links (
	event_id    BIGINT NOT NULL REFERENCES event_definitions (id),
	event_date  DATE NOT NULL,
	company_id  BIGINT NOT NULL REFERENCES companies (id),
	close_price DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (event_id, event_date, company_id)
);
`

// Migrate applies the schema. Safe to run on every startup.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "apply schema")
	}
	return nil
}
