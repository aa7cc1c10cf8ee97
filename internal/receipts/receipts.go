// Package receipts stores original receipt images in durable object storage
// and hands back a dereferenceable URL. Upload is strictly best-effort: a
// storage outage never blocks the expense from being recorded.
package receipts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store uploads a receipt image taken at the given time and returns a
// public URL for it.
type Store interface {
	Upload(ctx context.Context, image []byte, taken time.Time) (url string, err error)
}

// objectPath builds the deterministic storage path: a root receipts folder,
// a year subfolder, a year-month subfolder, and a time-stamped unique
// filename.
func objectPath(root string, taken time.Time, id string) string {
	return fmt.Sprintf("%s/%d/%s/%s", root, taken.Year(), taken.Format("2006-01"), filename(taken, id))
}

func filename(taken time.Time, id string) string {
	return fmt.Sprintf("receipt-%s-%s.jpg", taken.Format("20060102-150405"), id)
}

func newID() string {
	return uuid.NewString()[:8]
}
