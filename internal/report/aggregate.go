// Package report computes aggregate views over a project's damage records
// and renders them as export artifacts (workbook, legal text summary, CSV).
//
// All numbers in every artifact come from the single Aggregate pass in this
// file, so the spreadsheet, the text summary and the on-page overview can
// never disagree about a total.
package report

import (
	"sort"

	"github.com/Raggahmuff1n/DamageInvoice/internal/core"
)

type (
	// CategoryStat aggregates one canonical category.
	CategoryStat struct {
		Name    string
		Count   int
		Sum     core.Money
		Mean    core.Money
		Min     core.Money
		Max     core.Money
		Pct     float64 // share of the grand total, 0 when the total is 0
		Records []core.DamageRecord // category records sorted by date
	}

	// ChronoEntry is one record in date order with the cumulative total up
	// to and including it.
	ChronoEntry struct {
		Record  core.DamageRecord
		Running core.Money
	}

	// ReceiptBucket splits records by receipt presence.
	ReceiptBucket struct {
		Count   int
		Sum     core.Money
		Records []core.DamageRecord // insertion order
	}

	// Summary is the aggregation engine's complete output.
	Summary struct {
		GrandTotal    core.Money
		Count         int
		CategoryCount int
		Mean          core.Money
		Min           core.Money
		Max           core.Money
		FirstDate     string
		LastDate      string
		Categories    []CategoryStat // sorted lexically by name
		Chronological []ChronoEntry
		WithReceipt   ReceiptBucket
		Missing       ReceiptBucket
	}
)

// Aggregate computes every derived view over records in one pass. It is a
// pure function; records keep their insertion order in the caller.
func Aggregate(records []core.DamageRecord) Summary {
	var s Summary
	s.Count = len(records)
	if s.Count == 0 {
		return s
	}

	byCategory := make(map[string][]core.DamageRecord)
	for i, r := range records {
		s.GrandTotal.Cents += r.Cost.Cents
		if i == 0 || r.Cost.Cents < s.Min.Cents {
			s.Min = r.Cost
		}
		if r.Cost.Cents > s.Max.Cents {
			s.Max = r.Cost
		}
		// ISO dates are fixed-width and zero-padded, so the lexical min and
		// max are the earliest and latest dates.
		if i == 0 || r.Date < s.FirstDate {
			s.FirstDate = r.Date
		}
		if r.Date > s.LastDate {
			s.LastDate = r.Date
		}
		byCategory[r.Category] = append(byCategory[r.Category], r)

		if r.Receipt != "" {
			s.WithReceipt.Count++
			s.WithReceipt.Sum.Cents += r.Cost.Cents
			s.WithReceipt.Records = append(s.WithReceipt.Records, r)
		} else {
			s.Missing.Count++
			s.Missing.Sum.Cents += r.Cost.Cents
			s.Missing.Records = append(s.Missing.Records, r)
		}
	}
	s.Mean = core.Money{Cents: roundedDiv(s.GrandTotal.Cents, int64(s.Count))}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	s.CategoryCount = len(names)

	for _, name := range names {
		recs := byCategory[name]
		sortByDate(recs)
		stat := CategoryStat{Name: name, Count: len(recs), Records: recs}
		for i, r := range recs {
			stat.Sum.Cents += r.Cost.Cents
			if i == 0 || r.Cost.Cents < stat.Min.Cents {
				stat.Min = r.Cost
			}
			if r.Cost.Cents > stat.Max.Cents {
				stat.Max = r.Cost
			}
		}
		stat.Mean = core.Money{Cents: roundedDiv(stat.Sum.Cents, int64(stat.Count))}
		if s.GrandTotal.Cents > 0 {
			stat.Pct = float64(stat.Sum.Cents) / float64(s.GrandTotal.Cents) * 100
		}
		s.Categories = append(s.Categories, stat)
	}

	chrono := make([]core.DamageRecord, len(records))
	copy(chrono, records)
	sortByDate(chrono)
	var running int64
	for _, r := range chrono {
		running += r.Cost.Cents
		s.Chronological = append(s.Chronological, ChronoEntry{
			Record:  r,
			Running: core.Money{Cents: running},
		})
	}

	return s
}

// sortByDate orders records by ISO date ascending. The sort is stable, so
// same-day records keep their insertion order.
func sortByDate(recs []core.DamageRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Date < recs[j].Date
	})
}

// roundedDiv divides cents half-up, matching the display rounding of the
// original reports.
func roundedDiv(sum, n int64) int64 {
	if n == 0 {
		return 0
	}
	return (sum + n/2) / n
}
