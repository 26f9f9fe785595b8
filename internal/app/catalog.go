package app

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"officedesk/internal/events"
	"officedesk/internal/ingest"
	"officedesk/internal/util"
	"officedesk/pkg/domain"
)

const (
	// MaxSearchResults caps one search response.
	MaxSearchResults = 25
	// MinQueryLen is the precision floor; shorter queries return nothing.
	MinQueryLen = 2
)

// UploadCatalog ingests one uploaded document: detect kind, normalize
// into catalog items, and persist upload plus records as a single
// atomic batch. An unsupported extension is rejected before anything
// is written; a parse or store failure leaves no trace either.
func (a *App) UploadCatalog(user domain.User, filename string, data []byte) (domain.Upload, error) {
	if strings.TrimSpace(filename) == "" {
		return domain.Upload{}, ErrFileRequired
	}
	kind := ingest.DetectKind(filename)
	if kind == domain.KindUnsupported {
		return domain.Upload{}, fmt.Errorf("%w: %s", ErrUnsupportedFile, strings.ToLower(filepath.Ext(filename)))
	}
	items, err := ingest.ParseDocument(kind, data)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("ingest %s: %w", filename, err)
	}
	upload := domain.Upload{
		ID:        util.NewID(),
		UserID:    user.ID,
		Filename:  filepath.Base(filename),
		Kind:      kind,
		CreatedAt: a.now(),
	}
	saved, err := a.store.IngestUpload(upload, items)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("ingest %s: %w", filename, err)
	}
	a.archiveOriginal(saved, data)
	a.publish(events.Event{
		Type:       events.TypeUploadIngested,
		UserID:     user.ID,
		UploadID:   saved.ID,
		Filename:   saved.Filename,
		Records:    saved.RecordCount,
		OccurredAt: saved.CreatedAt,
	})
	return saved, nil
}

// Search returns catalog records containing the query as a
// case-insensitive substring in any text field. Queries below the
// minimum length return an empty result without touching the store.
func (a *App) Search(query string) ([]domain.CatalogRecord, error) {
	if utf8.RuneCountInString(query) < MinQueryLen {
		return []domain.CatalogRecord{}, nil
	}
	records, err := a.store.SearchCatalog(query, MaxSearchResults)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}
	if records == nil {
		records = []domain.CatalogRecord{}
	}
	return records, nil
}

// ListUploads returns the caller's uploads.
func (a *App) ListUploads(user domain.User) ([]domain.Upload, error) {
	return a.store.ListUploadsByOwner(user.ID)
}

// DeleteUpload removes an upload and its catalog records. Owners and
// admins may delete; anyone else is refused.
func (a *App) DeleteUpload(user domain.User, id string) error {
	upload, ok, err := a.store.GetUpload(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if upload.UserID != user.ID && user.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	if err := a.store.DeleteUpload(id); err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}
	if a.objects != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.objects.Delete(ctx, archiveKey(upload))
	}
	return nil
}

// UploadFileURL returns a short-lived download link for the archived
// original document. Owners and admins only; uploads ingested while
// archival was disabled have no file to serve.
func (a *App) UploadFileURL(user domain.User, id string) (string, error) {
	upload, ok, err := a.store.GetUpload(id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNotFound
	}
	if upload.UserID != user.ID && user.Role != domain.RoleAdmin {
		return "", ErrForbidden
	}
	if a.objects == nil {
		return "", ErrNotFound
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url, err := a.objects.PresignGet(ctx, archiveKey(upload), 15*time.Minute)
	if err != nil {
		return "", fmt.Errorf("presign upload %s: %w", id, err)
	}
	return url, nil
}

// archiveOriginal keeps the raw document bytes in object storage.
// Archival runs after the catalog batch committed and never fails the
// upload; a miss only costs the raw-file copy.
func (a *App) archiveOriginal(upload domain.Upload, data []byte) {
	if a.objects == nil {
		return
	}
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(upload.Filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.objects.Put(ctx, archiveKey(upload), data, contentType); err != nil {
		util.LoggerFromContext(ctx).Warn("archive upload failed", "upload_id", upload.ID, "err", err)
	}
}

func (a *App) publish(evt events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.events.Publish(ctx, evt); err != nil {
		util.LoggerFromContext(ctx).Warn("publish event failed", "type", evt.Type, "err", err)
	}
}

func archiveKey(upload domain.Upload) string {
	return "uploads/" + upload.ID + "/" + upload.Filename
}
