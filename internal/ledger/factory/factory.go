// Package factory selects and constructs the configured ledger backend.
package factory

import (
	"context"
	"fmt"

	"expensebot/internal/config"
	"expensebot/internal/ledger"
	"expensebot/internal/ledger/google"
	"expensebot/internal/ledger/memory"
	"expensebot/internal/ledger/sqlite"
	"expensebot/internal/log"
)

// CleanupFunc releases backend resources; may be nil.
type CleanupFunc func() error

// New creates the ledger store named by cfg.LedgerBackend.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (ledger.Store, CleanupFunc, error) {
	switch cfg.LedgerBackend {
	case config.LedgerSheets:
		cli, err := google.NewClient(ctx, cfg.SpreadsheetID, cfg.LedgerSheet,
			cfg.ServiceAccountEmail, cfg.ServiceAccountKey)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sheets ledger: %w", err)
		}
		logger.Info("Initialized Google Sheets ledger",
			log.FieldSheet, cfg.LedgerSheet)
		return cli, nil, nil

	case config.LedgerSQLite:
		repo, err := sqlite.NewRepository(cfg.SQLiteDBPath, cfg.LedgerSheet, cfg.RelatedPartySheet)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite ledger: %w", err)
		}
		logger.Info("Initialized SQLite ledger", "db_path", cfg.SQLiteDBPath)
		return repo, repo.Close, nil

	case config.LedgerMemory:
		store := memory.New(cfg.LedgerSheet, cfg.RelatedPartySheet)
		logger.Info("Initialized in-memory ledger")
		return store, nil, nil

	default:
		return nil, nil, fmt.Errorf("unsupported ledger backend: %s", cfg.LedgerBackend)
	}
}
