package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"runway/internal/domain/calendar"
	"runway/internal/domain/pricing"
)

// ComputeImpacts computes the realized price impact of each event
// occurrence on one company: the closing price nearest after the event
// minus the closing price nearest before it.
//
// The series must be sorted by date, deduplicated and tz-naive; the
// store guarantees all three. Occurrences at the very edge of the
// series (no strictly-before or strictly-after price) are skipped
// silently, which is the expected boundary condition, not an error.
// The result is deterministic: identical inputs produce identical
// facts, in event order.
func ComputeImpacts(companyID int64, series []pricing.PricePoint, events []calendar.DatedEvent) []pricing.ImpactFact {
	facts := make([]pricing.ImpactFact, 0, len(events))
	if len(series) == 0 {
		return facts
	}

	for _, ev := range events {
		d := ev.EventDate

		// First index with date >= d; everything left of it is
		// strictly before the event.
		geq := sort.Search(len(series), func(i int) bool {
			return !series[i].Date.Before(d)
		})
		if geq == 0 {
			continue // no price strictly before the event
		}
		pre := series[geq-1]

		// First index with date > d
		gt := sort.Search(len(series), func(i int) bool {
			return series[i].Date.After(d)
		})
		if gt == len(series) {
			continue // no price strictly after the event
		}
		post := series[gt]

		// Decimal subtraction keeps the delta exact for prices that
		// are exact in decimal, e.g. 105.5 - 100.0 == 5.5
		impact := decimal.NewFromFloat(post.Close).
			Sub(decimal.NewFromFloat(pre.Close)).
			InexactFloat64()

		facts = append(facts, pricing.ImpactFact{
			CompanyID:        companyID,
			EventDate:        d,
			EventDescription: ev.Description,
			PreEventPrice:    pre.Close,
			PostEventPrice:   post.Close,
			Impact:           impact,
		})
	}

	return facts
}

// ExactDateLinks joins occurrences to the price recorded on exactly
// the event date. No nearest-neighbor fallback: a price on the day
// before or after produces no link.
func ExactDateLinks(companyID int64, series []pricing.PricePoint, events []calendar.DatedEvent) []pricing.EventPriceLink {
	links := make([]pricing.EventPriceLink, 0)
	if len(series) == 0 {
		return links
	}

	for _, ev := range events {
		d := ev.EventDate

		idx := sort.Search(len(series), func(i int) bool {
			return !series[i].Date.Before(d)
		})
		if idx == len(series) || !series[idx].Date.Equal(d) {
			continue
		}

		links = append(links, pricing.EventPriceLink{
			EventID:    ev.EventID,
			EventDate:  d,
			CompanyID:  companyID,
			ClosePrice: series[idx].Close,
		})
	}

	return links
}
