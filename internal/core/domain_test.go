package core

import (
	"errors"
	"testing"
	"time"
)

func validRecord() ExpenseRecord {
	return ExpenseRecord{
		Date:          time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC),
		Vendor:        "Chipotle",
		Category:      "Business Meals",
		Amount:        Money{Cents: 8500},
		BusinessType:  Business,
		EntityType:    EntitySCorp,
		DeductiblePct: 50,
		Description:   "Client lunch",
	}
}

func TestExpenseRecordValidate(t *testing.T) {
	if err := validRecord().Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*ExpenseRecord)
		want   error
	}{
		{"zero date", func(r *ExpenseRecord) { r.Date = time.Time{} }, ErrMissingDate},
		{"negative amount", func(r *ExpenseRecord) { r.Amount.Cents = -1 }, ErrNegativeAmount},
		{"pct over 100", func(r *ExpenseRecord) { r.DeductiblePct = 101 }, ErrInvalidPercentage},
		{"pct negative", func(r *ExpenseRecord) { r.DeductiblePct = -1 }, ErrInvalidPercentage},
		{"empty category", func(r *ExpenseRecord) { r.Category = "  " }, ErrEmptyCategory},
		{"empty description", func(r *ExpenseRecord) { r.Description = "" }, ErrEmptyDescription},
		{"bad business type", func(r *ExpenseRecord) { r.BusinessType = "corporate" }, ErrInvalidBusiness},
		{"bad entity type", func(r *ExpenseRecord) { r.EntityType = "llc" }, ErrInvalidEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validRecord()
			tc.mutate(&r)
			if err := r.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRelatedParty(t *testing.T) {
	r := validRecord()
	r.EntityType = EntityFamilyLLC
	r.BusinessType = Business
	if !r.RelatedParty() {
		t.Error("family_llc business record should be related-party")
	}
	r.BusinessType = Personal
	if r.RelatedParty() {
		t.Error("personal record should never be related-party")
	}
	r = validRecord()
	if r.RelatedParty() {
		t.Error("scorp record should not be related-party")
	}
}
