package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Raggahmuff1n/DamageInvoice/internal/core"
)

// Sheet names, in workbook order. Attorneys reference these by name, so the
// strings and their order are fixed.
const (
	sheetSummary     = "Executive Summary"
	sheetCategorized = "All Damages Categorized"
	sheetAnalysis    = "Category Analysis"
	sheetChrono      = "Chronological View"
	sheetReceipts    = "Receipt Status"
	sheetNoData      = "No Data"
)

// RenderWorkbook builds the multi-sheet damage claim workbook and returns the
// xlsx bytes. All cell values are pre-computed; the workbook carries no
// formulas. An empty record set produces a single "No Data" sheet.
func RenderWorkbook(records []core.DamageRecord, projectName, receiptBaseLink string, now time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if len(records) == 0 {
		if err := f.SetSheetName("Sheet1", sheetNoData); err != nil {
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
		if err := writeRows(f, sheetNoData, [][]interface{}{
			{"Message"},
			{"No damages recorded"},
		}); err != nil {
			return nil, err
		}
		return workbookBytes(f)
	}

	sum := Aggregate(records)

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{sheetCategorized, sheetAnalysis, sheetChrono, sheetReceipts} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	if err := writeRows(f, sheetSummary, summarySheet(sum, projectName, now)); err != nil {
		return nil, err
	}
	if err := writeRows(f, sheetCategorized, categorizedSheet(sum, projectName)); err != nil {
		return nil, err
	}
	if err := writeRows(f, sheetAnalysis, analysisSheet(sum, projectName)); err != nil {
		return nil, err
	}
	if err := writeRows(f, sheetChrono, chronoSheet(sum, projectName)); err != nil {
		return nil, err
	}
	if err := writeRows(f, sheetReceipts, receiptSheet(sum, projectName, receiptBaseLink)); err != nil {
		return nil, err
	}

	return workbookBytes(f)
}

func summarySheet(sum Summary, projectName string, now time.Time) [][]interface{} {
	rows := [][]interface{}{
		{"DAMAGE CLAIM SUMMARY REPORT", "", ""},
		{"Project: " + projectName, "", ""},
		{"", "", ""},
		{"Report Generated:", now.Format("2006-01-02 15:04"), ""},
		{"", "", ""},
		{"KEY METRICS", "", ""},
		{"Total Damages Claimed:", sum.GrandTotal.Format(), ""},
		{"Number of Damage Items:", sum.Count, ""},
		{"Number of Categories:", sum.CategoryCount, ""},
		{"Average Damage Amount:", sum.Mean.Format(), ""},
		{"Highest Single Damage:", sum.Max.Format(), ""},
		{"Lowest Single Damage:", sum.Min.Format(), ""},
		{"Date Range:", sum.FirstDate + " to " + sum.LastDate, ""},
		{"", "", ""},
		{"CATEGORY BREAKDOWN", "Amount", "Percentage"},
	}
	for _, cat := range sum.Categories {
		rows = append(rows, []interface{}{cat.Name, cat.Sum.Format(), formatPct(cat.Pct)})
	}
	rows = append(rows,
		[]interface{}{"", "", ""},
		[]interface{}{"GRAND TOTAL:", sum.GrandTotal.Format(), "100.0%"},
	)
	return rows
}

func categorizedSheet(sum Summary, projectName string) [][]interface{} {
	rows := [][]interface{}{
		{"COMPREHENSIVE DAMAGE LIST BY CATEGORY", "", "", "", "", "", ""},
		{"Project: " + projectName, "", "", "", "", "", ""},
		{"", "", "", "", "", "", ""},
	}
	for i, cat := range sum.Categories {
		if i > 0 {
			rows = append(rows, []interface{}{"", "", "", "", "", "", ""})
		}
		rows = append(rows,
			[]interface{}{"=== CATEGORY: " + cat.Name + " ===", "", "", "", "", "", ""},
			[]interface{}{"Date", "Title", "Description", "Amount", "Receipt File", "Link", "Notes"},
		)
		for _, r := range cat.Records {
			rows = append(rows, []interface{}{
				r.Date, r.Title, r.Description, r.Cost.Format(), r.Receipt, r.Link, "",
			})
		}
		rows = append(rows,
			[]interface{}{"", "", "", "", "", "", ""},
			[]interface{}{"", "", "", "SUBTOTAL - " + cat.Name + ":", cat.Sum.Format(), "", ""},
		)
	}
	rows = append(rows,
		[]interface{}{"", "", "", "", "", "", ""},
		[]interface{}{"", "", "", "GRAND TOTAL:", sum.GrandTotal.Format(), "", ""},
	)
	return rows
}

func analysisSheet(sum Summary, projectName string) [][]interface{} {
	rows := [][]interface{}{
		{"DETAILED CATEGORY ANALYSIS", "", "", "", ""},
		{"Project: " + projectName, "", "", "", ""},
		{"", "", "", "", ""},
	}
	for _, cat := range sum.Categories {
		rows = append(rows,
			[]interface{}{"=== " + cat.Name + " ===", "", "", "", ""},
			[]interface{}{"Number of Items:", cat.Count, "", "", ""},
			[]interface{}{"Total Amount:", cat.Sum.Format(), "", "", ""},
			[]interface{}{"Percentage of Total:", formatPct(cat.Pct), "", "", ""},
			[]interface{}{"Average per Item:", cat.Mean.Format(), "", "", ""},
			[]interface{}{"Highest Item:", cat.Max.Format(), "", "", ""},
			[]interface{}{"Lowest Item:", cat.Min.Format(), "", "", ""},
			[]interface{}{"", "", "", "", ""},
		)
	}
	return rows
}

func chronoSheet(sum Summary, projectName string) [][]interface{} {
	rows := [][]interface{}{
		{"CHRONOLOGICAL DAMAGE LIST", "", "", "", ""},
		{"Project: " + projectName, "", "", "", ""},
		{"", "", "", "", ""},
		{"Date", "Category", "Title", "Amount", "Running Total"},
	}
	for _, e := range sum.Chronological {
		rows = append(rows, []interface{}{
			e.Record.Date, e.Record.Category, e.Record.Title,
			e.Record.Cost.Format(), e.Running.Format(),
		})
	}
	rows = append(rows,
		[]interface{}{"", "", "", "", ""},
		[]interface{}{"", "", "FINAL TOTAL:", sum.GrandTotal.Format(), ""},
	)
	return rows
}

func receiptSheet(sum Summary, projectName, receiptBaseLink string) [][]interface{} {
	rows := [][]interface{}{
		{"RECEIPT DOCUMENTATION STATUS", "", "", ""},
		{"Project: " + projectName, "", "", ""},
		{"", "", "", ""},
		{"Status", "Count", "Amount", ""},
		{"With Receipts:", sum.WithReceipt.Count, sum.WithReceipt.Sum.Format(), ""},
		{"Without Receipts:", sum.Missing.Count, sum.Missing.Sum.Format(), ""},
		{"Total:", sum.Count, sum.GrandTotal.Format(), ""},
		{"", "", "", ""},
	}
	if sum.Missing.Count > 0 {
		rows = append(rows,
			[]interface{}{"ITEMS NEEDING RECEIPTS:", "", "", ""},
			[]interface{}{"Date", "Title", "Amount", ""},
		)
		for _, r := range sum.Missing.Records {
			rows = append(rows, []interface{}{r.Date, r.Title, r.Cost.Format(), ""})
		}
	} else {
		rows = append(rows, []interface{}{"All items have receipts", "", "", ""})
	}
	location := receiptBaseLink
	if location == "" {
		location = "Not configured"
	}
	rows = append(rows,
		[]interface{}{"", "", "", ""},
		[]interface{}{"Receipt Storage:", location, "", ""},
	)
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name for row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d on %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatPct(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}
