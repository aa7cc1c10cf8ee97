// Package sqlite implements the ledger ports on a local SQLite database.
// Both sheets live in one table keyed by a sheet column, so the fallback and
// scan semantics match the spreadsheet backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"expensebot/internal/core"
	"expensebot/internal/ledger"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db      *sql.DB
	primary string
	known   map[string]bool
}

var _ ledger.Store = (*Repository)(nil)

const dateLayout = "2006-01-02"

// NewRepository opens (or creates) the database and runs migrations. The
// primary sheet and any extra sheet names are the only valid append targets.
func NewRepository(dbPath, primary string, extra ...string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	known := map[string]bool{primary: true}
	for _, name := range extra {
		known[name] = true
	}
	return &Repository{db: db, primary: primary, known: known}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) Append(ctx context.Context, rec core.ExpenseRecord, sheet string) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if !r.known[sheet] {
		sheet = r.primary
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (sheet, date, vendor, category, amount_cents,
			business_type, entity_type, deductible_pct, tax_notes,
			description, work_description, receipt_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sheet, rec.Date.Format(dateLayout), rec.Vendor, rec.Category, rec.Amount.Cents,
		string(rec.BusinessType), string(rec.EntityType), rec.DeductiblePct, rec.TaxNotes,
		rec.Description, rec.WorkDescription, rec.ReceiptURL)
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}
	return fmt.Sprintf("%s:%d", sheet, id), nil
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]ledger.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, vendor, category, amount_cents, business_type, entity_type,
			deductible_pct, tax_notes, description, work_description, receipt_url
		FROM expenses WHERE sheet = ? ORDER BY id DESC LIMIT ?`,
		r.primary, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	defer rows.Close()

	var out []ledger.Entry
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ledger.Entry{Index: len(out) + 1, Record: rec})
	}
	return out, rows.Err()
}

func (r *Repository) UpdateField(ctx context.Context, index int, field ledger.Field, value string) error {
	if index < 1 {
		return ledger.ErrRowNotFound
	}
	// Display index 1 is the most recent primary row.
	var id int64
	var work string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, work_description FROM expenses
		WHERE sheet = ? ORDER BY id DESC LIMIT 1 OFFSET ?`,
		r.primary, index-1).Scan(&id, &work)
	if err == sql.ErrNoRows {
		return ledger.ErrRowNotFound
	}
	if err != nil {
		return fmt.Errorf("locate row %d: %w", index, err)
	}

	switch field {
	case ledger.FieldDescription:
		_, err = r.db.ExecContext(ctx, `UPDATE expenses SET description = ? WHERE id = ?`, value, id)
	case ledger.FieldNotes:
		if work != "" {
			value = work + ledger.NoteSeparator + value
		}
		_, err = r.db.ExecContext(ctx, `UPDATE expenses SET work_description = ? WHERE id = ?`, value, id)
	default:
		return ledger.ErrUnknownField
	}
	if err != nil {
		return fmt.Errorf("update row %d: %w", index, err)
	}
	return nil
}

func (r *Repository) ScanSheet(ctx context.Context, sheet string) ([]core.ExpenseRecord, error) {
	if !r.known[sheet] {
		return nil, ledger.ErrSheetNotFound
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, vendor, category, amount_cents, business_type, entity_type,
			deductible_pct, tax_notes, description, work_description, receipt_url
		FROM expenses WHERE sheet = ? ORDER BY id`,
		sheet)
	if err != nil {
		return nil, fmt.Errorf("scan sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	out := make([]core.ExpenseRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecord(rows *sql.Rows) (core.ExpenseRecord, error) {
	var (
		rec      core.ExpenseRecord
		date     string
		business string
		entity   string
	)
	if err := rows.Scan(&date, &rec.Vendor, &rec.Category, &rec.Amount.Cents,
		&business, &entity, &rec.DeductiblePct, &rec.TaxNotes,
		&rec.Description, &rec.WorkDescription, &rec.ReceiptURL); err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("scan row: %w", err)
	}
	if d, err := time.Parse(dateLayout, date); err == nil {
		rec.Date = d
	}
	rec.BusinessType = core.BusinessType(business)
	rec.EntityType = core.EntityType(entity)
	return rec, nil
}
