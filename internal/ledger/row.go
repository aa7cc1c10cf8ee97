package ledger

import (
	"fmt"
	"strings"
	"time"

	"expensebot/internal/core"
)

// Column positions of a ledger row. Both sheets use the same layout.
const (
	ColDate = iota
	ColVendor
	ColCategory
	ColAmount
	ColBusinessType
	ColEntityType
	ColDeductiblePct
	ColTaxNotes
	ColDescription
	ColWorkDescription
	ColReceiptURL
	ColCount
)

const dateLayout = "2006-01-02"

// Header returns the header row written to a freshly created sheet.
func Header() []string {
	return []string{
		"Date", "Vendor", "Category", "Amount", "Business Type", "Entity Type",
		"Deductible %", "Tax Notes", "Description", "Work Description", "Receipt URL",
	}
}

// RowFromRecord serializes a record into the fixed column order.
func RowFromRecord(r core.ExpenseRecord) []any {
	return []any{
		r.Date.Format(dateLayout),
		r.Vendor,
		r.Category,
		r.Amount.Dollars(),
		string(r.BusinessType),
		string(r.EntityType),
		r.DeductiblePct,
		r.TaxNotes,
		r.Description,
		r.WorkDescription,
		r.ReceiptURL,
	}
}

// RecordFromRow deserializes a row read back from a sheet. Parsing is
// lenient: a malformed date comes back zero and a malformed amount counts
// as 0, so one bad cell never poisons a scan.
func RecordFromRow(cols []string) core.ExpenseRecord {
	get := func(i int) string {
		if i < 0 || i >= len(cols) {
			return ""
		}
		return strings.TrimSpace(cols[i])
	}

	var rec core.ExpenseRecord
	if d, err := time.Parse(dateLayout, get(ColDate)); err == nil {
		rec.Date = d
	}
	rec.Vendor = get(ColVendor)
	rec.Category = get(ColCategory)
	if cents, err := core.ParseDecimalToCents(get(ColAmount)); err == nil {
		rec.Amount = core.Money{Cents: cents}
	}
	rec.BusinessType = core.BusinessType(get(ColBusinessType))
	rec.EntityType = core.EntityType(get(ColEntityType))
	if pct, err := parsePct(get(ColDeductiblePct)); err == nil {
		rec.DeductiblePct = pct
	}
	rec.TaxNotes = get(ColTaxNotes)
	rec.Description = get(ColDescription)
	rec.WorkDescription = get(ColWorkDescription)
	rec.ReceiptURL = get(ColReceiptURL)
	return rec
}

func parsePct(s string) (int, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return 0, fmt.Errorf("empty percentage")
	}
	var pct int
	if _, err := fmt.Sscanf(s, "%d", &pct); err != nil {
		return 0, err
	}
	return pct, nil
}

// IsHeaderRow reports whether a scanned row looks like the header instead of
// data. Sheets created by hand usually carry one.
func IsHeaderRow(cols []string) bool {
	if len(cols) == 0 {
		return false
	}
	first := strings.TrimSpace(cols[0])
	if first == "" {
		return false
	}
	_, err := time.Parse(dateLayout, first)
	return err != nil && strings.EqualFold(first, "Date")
}
