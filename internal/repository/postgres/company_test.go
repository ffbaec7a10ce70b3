package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runway/internal/repository/postgres"
	"runway/internal/testsupport"
	"runway/pkg/errors"
)

func TestCompanyRepository_GetOrCreate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testsupport.NewTestPostgres(t)
	repo := postgres.NewCompanyRepository(testDB.Tx())
	ctx := context.Background()

	t.Run("creates on first sight", func(t *testing.T) {
		c, err := repo.GetOrCreate(ctx, "LVMUY", "Louis Vuitton")
		require.NoError(t, err)
		assert.NotZero(t, c.ID)
		assert.Equal(t, "LVMUY", c.Ticker)
		assert.Equal(t, "Louis Vuitton", c.Name)
	})

	t.Run("returns the same row on repeat", func(t *testing.T) {
		first, err := repo.GetOrCreate(ctx, "NKE", "Nike")
		require.NoError(t, err)

		second, err := repo.GetOrCreate(ctx, "NKE", "Nike")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		// The name on file wins over a different name in a later call
		third, err := repo.GetOrCreate(ctx, "NKE", "Nike Inc")
		require.NoError(t, err)
		assert.Equal(t, first.ID, third.ID)
		assert.Equal(t, "Nike", third.Name)
	})
}

func TestCompanyRepository_GetByTicker(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testsupport.NewTestPostgres(t)
	repo := postgres.NewCompanyRepository(testDB.Tx())
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, "RL", "Ralph Lauren")
	require.NoError(t, err)

	t.Run("finds existing ticker", func(t *testing.T) {
		c, err := repo.GetByTicker(ctx, "RL")
		require.NoError(t, err)
		assert.Equal(t, "Ralph Lauren", c.Name)
	})

	t.Run("unknown ticker is ErrNotFound", func(t *testing.T) {
		_, err := repo.GetByTicker(ctx, "ZZZZ")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrNotFound))
	})
}

func TestCompanyRepository_List(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testsupport.NewTestPostgres(t)
	repo := postgres.NewCompanyRepository(testDB.Tx())
	ctx := context.Background()

	for _, c := range []struct{ ticker, name string }{
		{"TPR", "Tapestry"},
		{"CPRI", "Capri Holdings"},
		{"BURBY", "Burberry"},
	} {
		_, err := repo.GetOrCreate(ctx, c.ticker, c.name)
		require.NoError(t, err)
	}

	companies, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 3)

	// Ordered by ticker
	assert.Equal(t, "BURBY", companies[0].Ticker)
	assert.Equal(t, "CPRI", companies[1].Ticker)
	assert.Equal(t, "TPR", companies[2].Ticker)
}
