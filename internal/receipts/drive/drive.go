// Package drive uploads receipts to a Google Drive folder using Service
// Account credentials. The damage record keeps only the stored filename; the
// display link is built from the configured folder URL by string
// concatenation and is never verified.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	gdrive "google.golang.org/api/drive/v3"
	goption "google.golang.org/api/option"

	"github.com/Raggahmuff1n/DamageInvoice/internal/receipts"
)

type Store struct {
	svc      *gdrive.Service
	folderID string
}

var _ receipts.Store = (*Store)(nil)

// NewFromEnv creates a Drive-backed receipt store.
// Required: DRIVE_FOLDER_ID.
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Store, error) {
	folderID := strings.TrimSpace(os.Getenv("DRIVE_FOLDER_ID"))
	if folderID == "" {
		return nil, errors.New("missing DRIVE_FOLDER_ID")
	}

	svc, err := newDriveService(ctx)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	return &Store{svc: svc, folderID: folderID}, nil
}

// newDriveService initializes a Drive Service using Service Account credentials.
func newDriveService(ctx context.Context) (*gdrive.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gdrive.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gdrive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return service, nil
}

// Save uploads the receipt into the configured folder under a unique stored
// name and returns that name.
func (s *Store) Save(ctx context.Context, originalName string, content io.Reader) (string, error) {
	storedName := receipts.StoredName(originalName)

	meta := &gdrive.File{
		Name:    storedName,
		Parents: []string{s.folderID},
	}
	created, err := s.svc.Files.Create(meta).Media(content).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("upload receipt to drive: %w", err)
	}

	slog.InfoContext(ctx, "Receipt uploaded to Drive",
		"stored_name", storedName,
		"file_id", created.Id,
		"folder_id", s.folderID)
	return storedName, nil
}

// CheckAccess verifies the configured folder is reachable with the current
// credentials. Used by cmd/drive-init at setup time.
func (s *Store) CheckAccess(ctx context.Context) error {
	f, err := s.svc.Files.Get(s.folderID).
		SupportsAllDrives(true).
		Fields("id", "name", "mimeType").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("access drive folder %s: %w", s.folderID, err)
	}
	if f.MimeType != "application/vnd.google-apps.folder" {
		return fmt.Errorf("drive item %s is not a folder (mime type %s)", s.folderID, f.MimeType)
	}
	return nil
}
