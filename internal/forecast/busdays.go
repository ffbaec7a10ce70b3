package forecast

import "time"

// BusinessDayIndex returns the next n business days strictly after the
// given date. Saturdays and Sundays are excluded; market holidays are
// not modeled, matching the daily price feed which simply has gaps on
// holidays.
func BusinessDayIndex(after time.Time, n int) []time.Time {
	index := make([]time.Time, 0, n)

	day := after
	for len(index) < n {
		day = day.AddDate(0, 0, 1)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		index = append(index, day)
	}

	return index
}
