package receipts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	googleauth "golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	gdrive "google.golang.org/api/drive/v3"
	goption "google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveStore uploads receipts to Google Drive, creating the folder chain on
// demand and granting anyone-with-the-link read access so the stored URL
// dereferences without auth.
type DriveStore struct {
	svc        *gdrive.Service
	rootFolder string
}

var _ Store = (*DriveStore)(nil)

func NewDriveStore(ctx context.Context, saEmail, saKey, rootFolder string) (*DriveStore, error) {
	if saEmail == "" || saKey == "" {
		return nil, errors.New("missing service account email or private key")
	}
	conf := &jwt.Config{
		Email:      saEmail,
		PrivateKey: []byte(saKey),
		Scopes:     []string{gdrive.DriveFileScope},
		TokenURL:   googleauth.JWTTokenURL,
	}
	svc, err := gdrive.NewService(ctx, goption.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &DriveStore{svc: svc, rootFolder: rootFolder}, nil
}

func (d *DriveStore) Upload(ctx context.Context, image []byte, taken time.Time) (string, error) {
	rootID, err := d.findOrCreateFolder(ctx, d.rootFolder, "root")
	if err != nil {
		return "", fmt.Errorf("resolve root folder: %w", err)
	}
	yearID, err := d.findOrCreateFolder(ctx, fmt.Sprintf("%d", taken.Year()), rootID)
	if err != nil {
		return "", fmt.Errorf("resolve year folder: %w", err)
	}
	monthID, err := d.findOrCreateFolder(ctx, taken.Format("2006-01"), yearID)
	if err != nil {
		return "", fmt.Errorf("resolve month folder: %w", err)
	}

	f, err := d.svc.Files.Create(&gdrive.File{
		Name:     filename(taken, newID()),
		MimeType: "image/jpeg",
		Parents:  []string{monthID},
	}).Media(bytes.NewReader(image)).Fields("id", "webViewLink").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("upload receipt: %w", err)
	}

	// Make the link public; without this the stored URL only works for the
	// service account.
	_, err = d.svc.Permissions.Create(f.Id, &gdrive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("grant public permission: %w", err)
	}

	return f.WebViewLink, nil
}

func (d *DriveStore) findOrCreateFolder(ctx context.Context, name, parentID string) (string, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and '%s' in parents and trashed = false",
		name, folderMimeType, parentID)
	list, err := d.svc.Files.List().Q(q).Fields("files(id)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("list folder %s: %w", name, err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	f, err := d.svc.Files.Create(&gdrive.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{parentID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create folder %s: %w", name, err)
	}
	return f.Id, nil
}
