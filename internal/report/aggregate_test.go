package report

import (
	"math"
	"testing"

	"github.com/Raggahmuff1n/DamageInvoice/internal/core"
)

// claimRecords is a small realistic claim used across the report tests:
// two property-damage entries and one medical entry, inserted out of
// date order to exercise the chronological sort.
func claimRecords() []core.DamageRecord {
	return []core.DamageRecord{
		{Title: "Car repair", Date: "2024-01-15", Category: "Property Damage", Cost: core.Money{Cents: 50000}, Receipt: "repair.pdf"},
		{Title: "Towing", Date: "2024-01-10", Category: "Property Damage", Cost: core.Money{Cents: 15000}},
		{Title: "ER visit", Date: "2024-01-20", Category: "Medical & Health-Related", Cost: core.Money{Cents: 120050}, Receipt: "er.pdf"},
	}
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)
	if s.Count != 0 || s.GrandTotal.Cents != 0 || len(s.Categories) != 0 || len(s.Chronological) != 0 {
		t.Fatalf("empty aggregate not zero-valued: %+v", s)
	}
}

func TestAggregateClaim(t *testing.T) {
	s := Aggregate(claimRecords())

	if s.GrandTotal.Cents != 185050 {
		t.Errorf("grand total = %d, want 185050", s.GrandTotal.Cents)
	}
	if s.Count != 3 || s.CategoryCount != 2 {
		t.Errorf("count = %d, categories = %d", s.Count, s.CategoryCount)
	}
	if s.Min.Cents != 15000 || s.Max.Cents != 120050 {
		t.Errorf("min/max = %d/%d", s.Min.Cents, s.Max.Cents)
	}
	if s.FirstDate != "2024-01-10" || s.LastDate != "2024-01-20" {
		t.Errorf("date span = %s..%s", s.FirstDate, s.LastDate)
	}

	// Categories are sorted lexically by name.
	if len(s.Categories) != 2 {
		t.Fatalf("category stats = %d", len(s.Categories))
	}
	med, prop := s.Categories[0], s.Categories[1]
	if med.Name != "Medical & Health-Related" || prop.Name != "Property Damage" {
		t.Fatalf("category order: %q, %q", med.Name, prop.Name)
	}
	if prop.Sum.Cents != 65000 || prop.Count != 2 {
		t.Errorf("property damage sum/count = %d/%d", prop.Sum.Cents, prop.Count)
	}
	if med.Sum.Cents != 120050 || med.Count != 1 {
		t.Errorf("medical sum/count = %d/%d", med.Sum.Cents, med.Count)
	}
	if math.Abs(prop.Pct-35.13) > 0.005 {
		t.Errorf("property damage pct = %.4f, want ~35.13", prop.Pct)
	}
	if math.Abs(med.Pct-64.87) > 0.005 {
		t.Errorf("medical pct = %.4f, want ~64.87", med.Pct)
	}
	if prop.Min.Cents != 15000 || prop.Max.Cents != 50000 || prop.Mean.Cents != 32500 {
		t.Errorf("property damage min/max/mean = %d/%d/%d", prop.Min.Cents, prop.Max.Cents, prop.Mean.Cents)
	}
	// Within a category, records appear in date order.
	if prop.Records[0].Title != "Towing" || prop.Records[1].Title != "Car repair" {
		t.Errorf("category record order: %q, %q", prop.Records[0].Title, prop.Records[1].Title)
	}

	// Chronological view with running totals.
	wantChrono := []struct {
		title   string
		running int64
	}{
		{"Towing", 15000},
		{"Car repair", 65000},
		{"ER visit", 185050},
	}
	if len(s.Chronological) != len(wantChrono) {
		t.Fatalf("chronological entries = %d", len(s.Chronological))
	}
	for i, want := range wantChrono {
		got := s.Chronological[i]
		if got.Record.Title != want.title || got.Running.Cents != want.running {
			t.Errorf("chrono[%d] = %q running %d, want %q running %d",
				i, got.Record.Title, got.Running.Cents, want.title, want.running)
		}
	}
	last := s.Chronological[len(s.Chronological)-1]
	if last.Running.Cents != s.GrandTotal.Cents {
		t.Errorf("final running total %d != grand total %d", last.Running.Cents, s.GrandTotal.Cents)
	}

	// Receipt buckets partition the records and the total.
	if s.WithReceipt.Count != 2 || s.Missing.Count != 1 {
		t.Errorf("receipt buckets = %d/%d", s.WithReceipt.Count, s.Missing.Count)
	}
	if s.WithReceipt.Sum.Cents+s.Missing.Sum.Cents != s.GrandTotal.Cents {
		t.Error("receipt buckets do not partition the grand total")
	}
}

func TestAggregatePercentagesSumToHundred(t *testing.T) {
	s := Aggregate(claimRecords())
	var pct float64
	var catSum int64
	for _, c := range s.Categories {
		pct += c.Pct
		catSum += c.Sum.Cents
	}
	if math.Abs(pct-100) > 1e-6 {
		t.Errorf("percentages sum to %.6f", pct)
	}
	if catSum != s.GrandTotal.Cents {
		t.Errorf("category sums %d != grand total %d", catSum, s.GrandTotal.Cents)
	}
}

func TestAggregateStableSortOnEqualDates(t *testing.T) {
	records := []core.DamageRecord{
		{Title: "first", Date: "2024-05-01", Category: "Other", Cost: core.Money{Cents: 100}},
		{Title: "second", Date: "2024-05-01", Category: "Other", Cost: core.Money{Cents: 200}},
		{Title: "third", Date: "2024-05-01", Category: "Other", Cost: core.Money{Cents: 300}},
	}
	s := Aggregate(records)
	for i, want := range []string{"first", "second", "third"} {
		if s.Chronological[i].Record.Title != want {
			t.Fatalf("same-day order broken at %d: %q", i, s.Chronological[i].Record.Title)
		}
	}
}

func TestAggregateDoesNotReorderInput(t *testing.T) {
	records := claimRecords()
	Aggregate(records)
	if records[0].Title != "Car repair" || records[1].Title != "Towing" {
		t.Fatal("Aggregate reordered the caller's slice")
	}
}

func TestRoundedDiv(t *testing.T) {
	cases := []struct{ sum, n, want int64 }{
		{100, 3, 33},
		{200, 3, 67},
		{5, 2, 3},
		{0, 5, 0},
		{10, 0, 0},
	}
	for _, tc := range cases {
		if got := roundedDiv(tc.sum, tc.n); got != tc.want {
			t.Errorf("roundedDiv(%d, %d) = %d, want %d", tc.sum, tc.n, got, tc.want)
		}
	}
}
