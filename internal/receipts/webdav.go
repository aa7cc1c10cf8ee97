package receipts

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// WebDAVStore uploads receipts with plain basic-auth PUTs. Parent
// collections are created with best-effort MKCOLs; servers that already
// have them answer 405, which is fine.
type WebDAVStore struct {
	baseURL    string
	user       string
	password   string
	rootFolder string
	httpClient *http.Client
}

var _ Store = (*WebDAVStore)(nil)

func NewWebDAVStore(baseURL, user, password, rootFolder string) *WebDAVStore {
	return &WebDAVStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		user:       user,
		password:   password,
		rootFolder: rootFolder,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (w *WebDAVStore) Upload(ctx context.Context, image []byte, taken time.Time) (string, error) {
	path := objectPath(w.rootFolder, taken, newID())

	// Ensure the folder chain exists.
	segments := strings.Split(path, "/")
	prefix := w.baseURL
	for _, seg := range segments[:len(segments)-1] {
		prefix += "/" + seg
		w.mkcol(ctx, prefix)
	}

	target := w.baseURL + "/" + path
	req, err := http.NewRequestWithContext(ctx, "PUT", target, bytes.NewReader(image))
	if err != nil {
		return "", fmt.Errorf("build PUT request: %w", err)
	}
	req.SetBasicAuth(w.user, w.password)
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("PUT %s: %w", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("PUT %s: unexpected status %d", target, resp.StatusCode)
	}
	return target, nil
}

func (w *WebDAVStore) mkcol(ctx context.Context, url string) {
	req, err := http.NewRequestWithContext(ctx, "MKCOL", url, nil)
	if err != nil {
		return
	}
	req.SetBasicAuth(w.user, w.password)
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
