package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"expensebot/internal/core"
	"expensebot/internal/ledger"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "test.db"), "Expenses", "Family LLC Payments")
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func record(desc, category string, cents int64) core.ExpenseRecord {
	return core.ExpenseRecord{
		Date:          time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC),
		Vendor:        "Vendor",
		Category:      category,
		Amount:        core.Money{Cents: cents},
		BusinessType:  core.Business,
		EntityType:    core.EntitySCorp,
		DeductiblePct: 100,
		Description:   desc,
	}
}

func TestAppendAndScan(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	ref, err := repo.Append(ctx, record("toner", "Office Supplies", 4599), "Expenses")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref == "" {
		t.Fatal("empty row ref")
	}

	recs, err := repo.ScanSheet(ctx, "Expenses")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records", len(recs))
	}
	got := recs[0]
	if got.Description != "toner" || got.Amount.Cents != 4599 || got.DeductiblePct != 100 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Date.Year() != 2026 {
		t.Errorf("date not preserved: %v", got.Date)
	}
}

func TestAppendUnknownSheetFallsBack(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, err := repo.Append(ctx, record("a", "Travel", 100), "Nope"); err != nil {
		t.Fatalf("append: %v", err)
	}
	recs, err := repo.ScanSheet(ctx, "Expenses")
	if err != nil || len(recs) != 1 {
		t.Fatalf("expected fallback row on primary sheet, got %d (%v)", len(recs), err)
	}
}

func TestSheetsAreIsolated(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, err := repo.Append(ctx, record("labor", "Contract Labor", 20000), "Family LLC Payments"); err != nil {
		t.Fatalf("append related: %v", err)
	}
	primary, err := repo.ScanSheet(ctx, "Expenses")
	if err != nil {
		t.Fatalf("scan primary: %v", err)
	}
	if len(primary) != 0 {
		t.Errorf("related row leaked into primary sheet")
	}
	related, err := repo.ScanSheet(ctx, "Family LLC Payments")
	if err != nil || len(related) != 1 {
		t.Fatalf("related scan: %d rows (%v)", len(related), err)
	}
}

func TestListRecentOrderAndUpdateField(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for _, d := range []string{"first", "second", "third"} {
		if _, err := repo.Append(ctx, record(d, "Travel", 100), "Expenses"); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 || entries[0].Record.Description != "third" {
		t.Fatalf("unexpected listing: %+v", entries)
	}

	// Display index 2 is "second".
	if err := repo.UpdateField(ctx, 2, ledger.FieldDescription, "updated"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := repo.UpdateField(ctx, 2, ledger.FieldNotes, "x"); err != nil {
		t.Fatalf("note x: %v", err)
	}
	if err := repo.UpdateField(ctx, 2, ledger.FieldNotes, "y"); err != nil {
		t.Fatalf("note y: %v", err)
	}

	recs, _ := repo.ScanSheet(ctx, "Expenses")
	if recs[1].Description != "updated" {
		t.Errorf("description = %q", recs[1].Description)
	}
	want := "x" + ledger.NoteSeparator + "y"
	if recs[1].WorkDescription != want {
		t.Errorf("work description = %q, want %q", recs[1].WorkDescription, want)
	}

	if err := repo.UpdateField(ctx, 4, ledger.FieldDescription, "z"); !errors.Is(err, ledger.ErrRowNotFound) {
		t.Errorf("index 4: got %v, want ErrRowNotFound", err)
	}
	if err := repo.UpdateField(ctx, 0, ledger.FieldDescription, "z"); !errors.Is(err, ledger.ErrRowNotFound) {
		t.Errorf("index 0: got %v, want ErrRowNotFound", err)
	}
}

func TestScanUnknownSheet(t *testing.T) {
	repo := testRepo(t)
	if _, err := repo.ScanSheet(context.Background(), "Nope"); !errors.Is(err, ledger.ErrSheetNotFound) {
		t.Errorf("got %v, want ErrSheetNotFound", err)
	}
}
