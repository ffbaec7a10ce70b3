package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessDayIndex_SkipsWeekends(t *testing.T) {
	// Friday 2024-09-06
	friday := time.Date(2024, time.September, 6, 0, 0, 0, 0, time.UTC)

	index := BusinessDayIndex(friday, 3)
	require.Len(t, index, 3)

	// Monday, Tuesday, Wednesday
	assert.Equal(t, time.Date(2024, time.September, 9, 0, 0, 0, 0, time.UTC), index[0])
	assert.Equal(t, time.Date(2024, time.September, 10, 0, 0, 0, 0, time.UTC), index[1])
	assert.Equal(t, time.Date(2024, time.September, 11, 0, 0, 0, 0, time.UTC), index[2])
}

func TestBusinessDayIndex_StrictlyAfter(t *testing.T) {
	// Wednesday: the anchor day itself is never included
	wednesday := time.Date(2024, time.September, 11, 0, 0, 0, 0, time.UTC)

	index := BusinessDayIndex(wednesday, 1)
	require.Len(t, index, 1)
	assert.Equal(t, time.Date(2024, time.September, 12, 0, 0, 0, 0, time.UTC), index[0])
}

func TestBusinessDayIndex_ThirtyDays(t *testing.T) {
	start := time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)

	index := BusinessDayIndex(start, 30)
	require.Len(t, index, 30)

	for i, d := range index {
		wd := d.Weekday()
		assert.NotEqual(t, time.Saturday, wd, "index[%d] is a Saturday", i)
		assert.NotEqual(t, time.Sunday, wd, "index[%d] is a Sunday", i)
		if i > 0 {
			assert.True(t, d.After(index[i-1]), "index must be strictly increasing")
		}
	}
}
