// Package ledger defines the ports and row layout of the spreadsheet-backed
// expense ledger. Backends (Google Sheets, SQLite, in-memory) share the same
// column order and display-index semantics.
package ledger

import (
	"context"
	"errors"

	"expensebot/internal/core"
)

// Field names an editable column of an existing row.
type Field string

const (
	// FieldDescription overwrites the Description column.
	FieldDescription Field = "description"
	// FieldNotes appends to the Work Description column, never overwriting.
	FieldNotes Field = "notes"
)

// NoteSeparator joins successive notes appended to the same row.
const NoteSeparator = " | "

var (
	// ErrSheetNotFound is returned when neither the requested sheet nor the
	// configured default exists. Scans of a missing sheet also return it so
	// callers can treat the sheet as empty.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrRowNotFound is returned for a display index outside the ledger.
	ErrRowNotFound = errors.New("row not found")
	// ErrUnknownField is returned for fields other than description/notes.
	ErrUnknownField = errors.New("unknown field")
)

// Entry is a ledger row paired with its 1-based display index as shown by
// the recent listing (1 = most recent). Edit and note commands address rows
// by this index.
type Entry struct {
	Index  int
	Record core.ExpenseRecord
}

// Ports for ledger backends.
type (
	Appender interface {
		// Append writes the record as a new row of the named sheet. A missing
		// sheet falls back to the configured default; if neither exists the
		// append fails with ErrSheetNotFound.
		Append(ctx context.Context, rec core.ExpenseRecord, sheet string) (rowRef string, err error)
	}

	RecentLister interface {
		// ListRecent returns up to limit entries of the primary sheet,
		// most recent first.
		ListRecent(ctx context.Context, limit int) ([]Entry, error)
	}

	FieldUpdater interface {
		// UpdateField mutates a single field of the row at the given display
		// index. Out-of-range indices fail with ErrRowNotFound and must not
		// mutate any row.
		UpdateField(ctx context.Context, index int, field Field, value string) error
	}

	SheetScanner interface {
		// ScanSheet returns every record of the named sheet in row order.
		ScanSheet(ctx context.Context, sheet string) ([]core.ExpenseRecord, error)
	}
)

// Store is the full backend surface the intake service depends on.
type Store interface {
	Appender
	RecentLister
	FieldUpdater
	SheetScanner
}
