package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/Raggahmuff1n/DamageInvoice/internal/core"
)

const (
	ruleWidth = 80
	// chronoTitleWidth keeps the chronological listing roughly aligned.
	chronoTitleWidth = 30
)

// RenderTextSummary builds the plain-text legal summary document. Section
// content mirrors the workbook sheets; an empty record set yields the literal
// "No damages recorded." message.
func RenderTextSummary(records []core.DamageRecord, projectName, receiptBaseLink string, now time.Time) []byte {
	if len(records) == 0 {
		return []byte("No damages recorded.")
	}

	sum := Aggregate(records)
	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)

	var lines []string
	add := func(s string) { lines = append(lines, s) }

	add(heavy)
	add("DAMAGE CLAIM DOCUMENTATION - LEGAL SUMMARY REPORT")
	add(heavy)
	add("")
	add("PROJECT: " + projectName)
	add("GENERATED: " + now.Format("2006-01-02 15:04"))
	add("")
	add(light)
	add("I. EXECUTIVE SUMMARY")
	add(light)
	add("")
	add("TOTAL DAMAGES CLAIMED: " + sum.GrandTotal.Format())
	add("")
	add("Key Statistics:")
	add("  Total Items: " + itoa(sum.Count))
	add("  Categories: " + itoa(sum.CategoryCount))
	add("  Date Range: " + sum.FirstDate + " to " + sum.LastDate)
	add("  Average: " + sum.Mean.Format())
	add("  Highest: " + sum.Max.Format())
	add("  Lowest: " + sum.Min.Format())
	add("")
	add(light)
	add("II. BREAKDOWN BY CATEGORY")
	add(light)

	for _, cat := range sum.Categories {
		add("")
		add(strings.ToUpper(cat.Name))
		add(strings.Repeat("=", len(cat.Name)))
		add("Total: " + cat.Sum.Format() + " (" + formatPct(cat.Pct) + ")")
		add("Items: " + itoa(cat.Count))
		add("Average: " + cat.Mean.Format())
		add("")
		add("Itemized:")
		for _, r := range cat.Records {
			add("  - " + r.Date + " | " + r.Title + " | " + r.Cost.Format())
		}
		add("")
		add("SUBTOTAL: " + cat.Sum.Format())
	}

	add("")
	add(light)
	add("III. CHRONOLOGICAL LIST")
	add(light)
	add("")
	for _, e := range sum.Chronological {
		add(e.Record.Date + " | " + truncate(e.Record.Title, chronoTitleWidth) +
			" | " + e.Record.Cost.Format() + " | Running: " + e.Running.Format())
	}

	add("")
	add(light)
	add("IV. RECEIPT STATUS")
	add(light)
	add("")
	add("Total Items: " + itoa(sum.Count))
	add("With Receipts: " + itoa(sum.WithReceipt.Count))
	add("Missing Receipts: " + itoa(sum.Missing.Count))
	location := receiptBaseLink
	if location == "" {
		location = "Not configured"
	}
	add("Receipt Location: " + location)
	add("")
	add(light)
	add("V. GRAND TOTAL")
	add(light)
	add("")
	add("+------------------------------------------+")
	add("|                                          |")
	add("|   TOTAL DAMAGES: " + rightJustify(sum.GrandTotal.Format(), 20) + "   |")
	add("|                                          |")
	add("+------------------------------------------+")
	add("")
	add(heavy)
	add("END OF REPORT")
	add(heavy)

	return []byte(strings.Join(lines, "\n"))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func rightJustify(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
