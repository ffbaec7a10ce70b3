package calendar

import (
	"strings"
	"time"
)

// EventDefinition is one recurring named calendar event. Identity is the
// normalized description text; definitions are created once and never
// mutated or deleted.
type EventDefinition struct {
	ID          int64  `db:"id"`
	Description string `db:"description"`
}

// EventOccurrence is one concrete calendar date an EventDefinition
// recurs on. Unique per (event_id, event_date).
type EventOccurrence struct {
	ID        int64     `db:"id"`
	EventID   int64     `db:"event_id"`
	EventDate time.Time `db:"event_date"`
}

// DatedEvent is an occurrence joined with its definition, the shape the
// impact pipeline consumes.
type DatedEvent struct {
	OccurrenceID int64     `db:"occurrence_id"`
	EventID      int64     `db:"event_id"`
	EventDate    time.Time `db:"event_date"`
	Description  string    `db:"description"`
}

// RawEvent is what the scraper extracts from a calendar page before
// normalization: the date text as printed and the event title.
type RawEvent struct {
	RawDate     string
	Description string
}

// NormalizeDescription collapses whitespace and strips year tokens so
// recurring editions of the same event ("NYFW 2023", "NYFW 2024")
// dedupe to one definition. Case folding happens at the store boundary.
func NormalizeDescription(desc string) string {
	fields := strings.Fields(desc)
	kept := fields[:0]
	for _, f := range fields {
		if isYearToken(f) {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// isYearToken reports whether a word is a bare number or a year-like
// token ("2024", "2024/25"). Anything starting with "19" or "20"
// counts, deliberately broad so season labels drop out of the identity.
func isYearToken(word string) bool {
	if word == "" {
		return false
	}
	allDigits := true
	for _, r := range word {
		if r < '0' || r > '9' {
			allDigits = false
			break
		}
	}
	return allDigits || strings.HasPrefix(word, "19") || strings.HasPrefix(word, "20")
}
