package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runway/pkg/errors"
)

func TestParseEventDate_SingleDate(t *testing.T) {
	got, err := ParseEventDate("Sep 10, 2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.September, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestParseEventDate_RangeWithinMonth(t *testing.T) {
	// The start day has no year of its own; it borrows the end's
	got, err := ParseEventDate("Sep 8 - 13, 2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.September, 8, 0, 0, 0, 0, time.UTC), got)
}

func TestParseEventDate_RangeAcrossYears(t *testing.T) {
	got, err := ParseEventDate("Dec 28, 2023 - Jan 2, 2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.December, 28, 0, 0, 0, 0, time.UTC), got)
}

func TestParseEventDate_SurroundingWhitespace(t *testing.T) {
	got, err := ParseEventDate("  Sep 10, 2024  ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.September, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestParseEventDate_Malformed(t *testing.T) {
	cases := []string{
		"",
		"not a date",
		"Sep 10",
		"2024-09-10",
		"Sep 8 - 13",
		"Foo 99, 2024",
	}

	for _, raw := range cases {
		_, err := ParseEventDate(raw)
		require.Error(t, err, "input %q should not parse", raw)
		assert.True(t, errors.Is(err, errors.ErrDateParse), "input %q should wrap ErrDateParse", raw)
	}
}
