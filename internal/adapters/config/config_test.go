package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketDataConfig_Companies(t *testing.T) {
	cfg := MarketDataConfig{TrackedCompanies: []string{
		"LVMUY:Louis Vuitton",
		" NKE : Nike ",
		"RL",
		"",
		":Nameless",
	}}

	companies := cfg.Companies()
	require.Len(t, companies, 3)

	assert.Equal(t, Company{Ticker: "LVMUY", Name: "Louis Vuitton"}, companies[0])
	assert.Equal(t, Company{Ticker: "NKE", Name: "Nike"}, companies[1])
	// A bare ticker keeps the ticker as display name
	assert.Equal(t, Company{Ticker: "RL", Name: "RL"}, companies[2])
}

func TestPostgresConfig_DSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "runway",
		Password: "secret",
		Database: "runway",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "port=5432")
	assert.Contains(t, dsn, "dbname=runway")
	assert.Contains(t, dsn, "sslmode=disable")
}
