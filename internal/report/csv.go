package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/Raggahmuff1n/DamageInvoice/internal/core"
)

// csvHeader lists the record fields in their canonical order.
var csvHeader = []string{"Title", "Description", "Date", "Category", "Cost", "Receipt", "Link"}

// RenderCSV dumps all record fields in insertion order, one row per record
// under a header row. No aggregation. Costs are written as plain two-decimal
// numbers so the file stays machine readable.
func RenderCSV(records []core.DamageRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for i, r := range records {
		row := []string{
			r.Title,
			r.Description,
			r.Date,
			r.Category,
			strconv.FormatFloat(r.Cost.Dollars(), 'f', 2, 64),
			r.Receipt,
			r.Link,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
