// Package memory provides an in-memory ledger backend used in tests and as
// the default local backend when no spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"expensebot/internal/core"
	"expensebot/internal/ledger"
)

type Store struct {
	mu      sync.Mutex
	primary string
	sheets  map[string][]core.ExpenseRecord
}

// New creates a store with the given primary sheet plus any extra sheets.
func New(primary string, extra ...string) *Store {
	s := &Store{
		primary: primary,
		sheets:  map[string][]core.ExpenseRecord{primary: nil},
	}
	for _, name := range extra {
		s.sheets[name] = nil
	}
	return s
}

// Append stores the record and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, rec core.ExpenseRecord, sheet string) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sheets[sheet]; !ok {
		sheet = s.primary
		if _, ok := s.sheets[sheet]; !ok {
			return "", ledger.ErrSheetNotFound
		}
	}
	s.sheets[sheet] = append(s.sheets[sheet], rec)
	return fmt.Sprintf("mem:%s:%d", sheet, len(s.sheets[sheet])), nil
}

// ListRecent returns up to limit primary-sheet entries, most recent first.
func (s *Store) ListRecent(_ context.Context, limit int) ([]ledger.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.sheets[s.primary]
	if limit > len(rows) {
		limit = len(rows)
	}
	out := make([]ledger.Entry, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, ledger.Entry{Index: i + 1, Record: rows[len(rows)-1-i]})
	}
	return out, nil
}

func (s *Store) UpdateField(_ context.Context, index int, field ledger.Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.sheets[s.primary]
	if index < 1 || index > len(rows) {
		return ledger.ErrRowNotFound
	}
	rec := &rows[len(rows)-index]
	switch field {
	case ledger.FieldDescription:
		rec.Description = value
	case ledger.FieldNotes:
		if rec.WorkDescription == "" {
			rec.WorkDescription = value
		} else {
			rec.WorkDescription += ledger.NoteSeparator + value
		}
	default:
		return ledger.ErrUnknownField
	}
	return nil
}

func (s *Store) ScanSheet(_ context.Context, sheet string) ([]core.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.sheets[sheet]
	if !ok {
		return nil, ledger.ErrSheetNotFound
	}
	return append([]core.ExpenseRecord(nil), rows...), nil
}
