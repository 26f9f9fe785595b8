package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"officedesk/internal/session"
	"officedesk/internal/store"
	"officedesk/pkg/domain"
)

func newTestApp(t *testing.T) (*App, *store.MemoryStore) {
	t.Helper()
	m := store.NewMemoryStore()
	a, err := New(Config{Store: m, Sessions: session.NewMemoryStore()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.now = func() time.Time {
		return time.Date(2026, 3, 9, 9, 30, 0, 0, time.UTC)
	}
	return a, m
}

func TestUploadCatalogCSV(t *testing.T) {
	a, _ := newTestApp(t)
	user := domain.User{ID: "u1", Username: "alice"}
	csv := "Description,Manufacturer,Rate\n" +
		"Widget A,Acme,10.5\n" +
		",Acme,5\n" +
		"Widget B,Acme,bad\n"

	up, err := a.UploadCatalog(user, "parts.csv", []byte(csv))
	if err != nil {
		t.Fatalf("UploadCatalog: %v", err)
	}
	if up.Kind != domain.KindCSV || up.RecordCount != 2 {
		t.Fatalf("unexpected upload: %+v", up)
	}

	res, err := a.Search("widget")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("got %d results, want 2", len(res))
	}
	if res[0].Rate == nil || *res[0].Rate != 10.5 {
		t.Fatalf("first record rate = %v, want 10.5", res[0].Rate)
	}
	if res[1].Rate != nil {
		t.Fatalf("unparseable rate should be absent, got %v", *res[1].Rate)
	}

	uploads, err := a.ListUploads(user)
	if err != nil {
		t.Fatalf("ListUploads: %v", err)
	}
	if len(uploads) != 1 || uploads[0].ID != up.ID {
		t.Fatalf("unexpected upload list: %+v", uploads)
	}
}

func TestUploadCatalogUnsupportedLeavesNoTrace(t *testing.T) {
	a, _ := newTestApp(t)
	user := domain.User{ID: "u1"}
	_, err := a.UploadCatalog(user, "notes.txt", []byte("free text"))
	if !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("got %v, want ErrUnsupportedFile", err)
	}
	uploads, _ := a.ListUploads(user)
	if len(uploads) != 0 {
		t.Fatalf("rejected upload left a trace: %+v", uploads)
	}
}

func TestUploadCatalogEmptyFilename(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.UploadCatalog(domain.User{ID: "u1"}, "  ", nil); !errors.Is(err, ErrFileRequired) {
		t.Fatalf("got %v, want ErrFileRequired", err)
	}
}

func TestUploadCatalogStoreFailureLeavesNoTrace(t *testing.T) {
	a, m := newTestApp(t)
	m.FailIngest = errors.New("unique constraint violated")
	_, err := a.UploadCatalog(domain.User{ID: "u1"}, "parts.csv", []byte("item\nWidget\n"))
	if err == nil {
		t.Fatal("expected ingest failure")
	}
	if res, _ := a.Search("widget"); len(res) != 0 {
		t.Fatalf("failed ingest left records behind: %+v", res)
	}
}

func TestUploadCatalogTruncatesDescription(t *testing.T) {
	a, _ := newTestApp(t)
	long := strings.Repeat("x", 600)
	csv := "item\n" + long + "\n"
	if _, err := a.UploadCatalog(domain.User{ID: "u1"}, "long.csv", []byte(csv)); err != nil {
		t.Fatalf("UploadCatalog: %v", err)
	}
	res, err := a.Search("xxxx")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("got %d results, want 1", len(res))
	}
	if n := len([]rune(res[0].Description)); n != 512 {
		t.Fatalf("persisted description length = %d, want 512", n)
	}
}

func TestSearchQueryFloor(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.UploadCatalog(domain.User{ID: "u1"}, "parts.csv", []byte("item\nWidget\n")); err != nil {
		t.Fatalf("UploadCatalog: %v", err)
	}
	for _, q := range []string{"", "w"} {
		res, err := a.Search(q)
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if res == nil || len(res) != 0 {
			t.Fatalf("Search(%q) = %v, want empty non-nil slice", q, res)
		}
	}
	// Exactly at the floor, search runs.
	res, err := a.Search("wi")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("two-rune query should search, got %d results", len(res))
	}
}

func TestUploadFileURL(t *testing.T) {
	a, _ := newTestApp(t)
	owner := domain.User{ID: "u1", Role: domain.RoleEmployee}
	up, err := a.UploadCatalog(owner, "parts.csv", []byte("item\nWidget\n"))
	if err != nil {
		t.Fatalf("UploadCatalog: %v", err)
	}

	stranger := domain.User{ID: "u2", Role: domain.RoleEmployee}
	if _, err := a.UploadFileURL(stranger, up.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger download: got %v, want ErrForbidden", err)
	}
	// No object store configured means no archived file to serve.
	if _, err := a.UploadFileURL(owner, up.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("download without archive: got %v, want ErrNotFound", err)
	}
	if _, err := a.UploadFileURL(owner, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("download of missing upload: got %v, want ErrNotFound", err)
	}
}

func TestDeleteUploadAuthorization(t *testing.T) {
	a, _ := newTestApp(t)
	owner := domain.User{ID: "u1", Role: domain.RoleEmployee}
	up, err := a.UploadCatalog(owner, "parts.csv", []byte("item\nWidget\n"))
	if err != nil {
		t.Fatalf("UploadCatalog: %v", err)
	}

	stranger := domain.User{ID: "u2", Role: domain.RoleEmployee}
	if err := a.DeleteUpload(stranger, up.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger delete: got %v, want ErrForbidden", err)
	}
	admin := domain.User{ID: "u3", Role: domain.RoleAdmin}
	if err := a.DeleteUpload(admin, up.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if res, _ := a.Search("widget"); len(res) != 0 {
		t.Fatalf("records survived upload deletion: %+v", res)
	}
	if err := a.DeleteUpload(owner, up.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleting a missing upload: got %v, want ErrNotFound", err)
	}
}
