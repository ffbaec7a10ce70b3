package calendar

import (
	"strings"
	"time"

	"runway/pkg/errors"
)

// eventDateLayout matches the calendar's printed form, e.g. "Sep 10, 2024".
const eventDateLayout = "Jan 2, 2006"

// ParseEventDate turns a raw calendar date string into a single date.
//
// Two shapes are accepted:
//   - a single date: "Sep 10, 2024"
//   - a range "A - B": "Sep 8 - 13, 2024" or "Dec 28, 2023 - Jan 2, 2024"
//
// For ranges the recorded date is always the START of the range. When A
// carries no year of its own, the year is taken from B. Anything else
// fails with ErrDateParse; the caller skips that event rather than
// aborting the batch.
func ParseEventDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	if !strings.Contains(raw, "-") {
		t, err := time.Parse(eventDateLayout, raw)
		if err != nil {
			return time.Time{}, errors.Wrapf(errors.ErrDateParse, "%q", raw)
		}
		return t, nil
	}

	parts := strings.Split(raw, "-")
	start := strings.TrimSpace(parts[0])
	end := strings.TrimSpace(parts[len(parts)-1])

	if !strings.Contains(start, ",") {
		// "Sep 8 - 13, 2024": the start borrows B's year
		yearIdx := strings.LastIndex(end, ",")
		if yearIdx < 0 {
			return time.Time{}, errors.Wrapf(errors.ErrDateParse, "%q", raw)
		}
		start = start + ", " + strings.TrimSpace(end[yearIdx+1:])
	}

	t, err := time.Parse(eventDateLayout, start)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrDateParse, "%q", raw)
	}
	return t, nil
}
