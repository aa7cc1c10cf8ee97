package receipts

import (
	"context"
	"fmt"

	"expensebot/internal/config"
	"expensebot/internal/log"
)

// NewFromConfig creates the configured receipt store, or nil when receipt
// storage is disabled. A nil store means records are saved without a
// receipt URL.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *log.Logger) (Store, error) {
	switch cfg.ReceiptBackend {
	case config.ReceiptsNone:
		logger.Info("Receipt storage disabled")
		return nil, nil
	case config.ReceiptsDrive:
		store, err := NewDriveStore(ctx, cfg.ServiceAccountEmail, cfg.ServiceAccountKey, cfg.ReceiptsFolder)
		if err != nil {
			return nil, fmt.Errorf("initialize drive store: %w", err)
		}
		logger.Info("Initialized Drive receipt storage", "folder", cfg.ReceiptsFolder)
		return store, nil
	case config.ReceiptsWebDAV:
		logger.Info("Initialized WebDAV receipt storage", "url", cfg.WebDAVURL)
		return NewWebDAVStore(cfg.WebDAVURL, cfg.WebDAVUser, cfg.WebDAVPassword, cfg.ReceiptsFolder), nil
	case config.ReceiptsGCS:
		store, err := NewGCSStore(ctx, cfg.GCSBucket, cfg.ReceiptsFolder)
		if err != nil {
			return nil, fmt.Errorf("initialize gcs store: %w", err)
		}
		logger.Info("Initialized GCS receipt storage", "bucket", cfg.GCSBucket)
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported receipt backend: %s", cfg.ReceiptBackend)
	}
}
