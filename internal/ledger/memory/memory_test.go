package memory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"expensebot/internal/core"
	"expensebot/internal/ledger"
)

func record(desc string, cents int64) core.ExpenseRecord {
	return core.ExpenseRecord{
		Date:          time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC),
		Vendor:        "Vendor",
		Category:      "Office Supplies",
		Amount:        core.Money{Cents: cents},
		BusinessType:  core.Business,
		EntityType:    core.EntitySCorp,
		DeductiblePct: 100,
		Description:   desc,
	}
}

func TestAppendFallsBackToPrimary(t *testing.T) {
	s := New("Expenses")
	ref, err := s.Append(context.Background(), record("a", 100), "Missing Sheet")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !strings.HasPrefix(ref, "mem:Expenses:") {
		t.Fatalf("expected fallback to primary sheet, got ref %q", ref)
	}
}

func TestListRecentOrder(t *testing.T) {
	s := New("Expenses")
	ctx := context.Background()
	for _, d := range []string{"first", "second", "third"} {
		if _, err := s.Append(ctx, record(d, 100), "Expenses"); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	entries, err := s.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].Record.Description != "third" || entries[0].Index != 1 {
		t.Errorf("entry 1 = %q (index %d), want most recent first", entries[0].Record.Description, entries[0].Index)
	}
	if entries[1].Record.Description != "second" {
		t.Errorf("entry 2 = %q", entries[1].Record.Description)
	}
}

func TestUpdateFieldNotesAppend(t *testing.T) {
	s := New("Expenses")
	ctx := context.Background()
	if _, err := s.Append(ctx, record("a", 100), "Expenses"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.UpdateField(ctx, 1, ledger.FieldNotes, "x"); err != nil {
		t.Fatalf("note x: %v", err)
	}
	if err := s.UpdateField(ctx, 1, ledger.FieldNotes, "y"); err != nil {
		t.Fatalf("note y: %v", err)
	}
	rows, _ := s.ScanSheet(ctx, "Expenses")
	want := "x" + ledger.NoteSeparator + "y"
	if rows[0].WorkDescription != want {
		t.Errorf("work description = %q, want %q", rows[0].WorkDescription, want)
	}
}

func TestUpdateFieldOutOfRange(t *testing.T) {
	s := New("Expenses")
	ctx := context.Background()
	if _, err := s.Append(ctx, record("a", 100), "Expenses"); err != nil {
		t.Fatalf("append: %v", err)
	}
	for _, idx := range []int{0, -1, 2} {
		if err := s.UpdateField(ctx, idx, ledger.FieldDescription, "z"); !errors.Is(err, ledger.ErrRowNotFound) {
			t.Errorf("index %d: got %v, want ErrRowNotFound", idx, err)
		}
	}
	rows, _ := s.ScanSheet(ctx, "Expenses")
	if rows[0].Description != "a" {
		t.Errorf("failed update mutated row: %q", rows[0].Description)
	}
}

func TestScanMissingSheet(t *testing.T) {
	s := New("Expenses")
	if _, err := s.ScanSheet(context.Background(), "Nope"); !errors.Is(err, ledger.ErrSheetNotFound) {
		t.Errorf("got %v, want ErrSheetNotFound", err)
	}
}
