package receipts

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
)

// GCSStore uploads receipts to a Cloud Storage bucket. The bucket is
// expected to allow public reads of its objects.
type GCSStore struct {
	client     *storage.Client
	bucket     string
	rootFolder string
}

var _ Store = (*GCSStore)(nil)

func NewGCSStore(ctx context.Context, bucket, rootFolder string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket, rootFolder: rootFolder}, nil
}

func (g *GCSStore) Upload(ctx context.Context, image []byte, taken time.Time) (string, error) {
	object := objectPath(g.rootFolder, taken, newID())

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := g.client.Bucket(g.bucket).Object(object).NewWriter(ctx)
	w.ContentType = "image/jpeg"
	if _, err := w.Write(image); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload %s: %w", object, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, object), nil
}

func (g *GCSStore) Close() error {
	return g.client.Close()
}
