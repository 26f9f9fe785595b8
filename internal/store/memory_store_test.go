package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"officedesk/internal/ingest"
	"officedesk/pkg/domain"
)

func floatPtr(v float64) *float64 { return &v }

func TestMemoryStoreIngestAndSearch(t *testing.T) {
	m := NewMemoryStore()
	up := domain.Upload{ID: "up1", UserID: "u1", Filename: "parts.csv", Kind: domain.KindCSV, CreatedAt: time.Now()}
	items := []ingest.Item{
		{Description: "Widget A", Make: "Acme", Rate: floatPtr(10.5)},
		{Description: "Widget B", Brand: "Acme"},
		{Description: "Hammer", CatNo: "H-100"},
	}
	saved, err := m.IngestUpload(up, items)
	if err != nil {
		t.Fatalf("IngestUpload: %v", err)
	}
	if saved.RecordCount != 3 {
		t.Fatalf("RecordCount = %d, want 3", saved.RecordCount)
	}

	// Case-insensitive substring over all four text fields.
	res, err := m.SearchCatalog("acme", 25)
	if err != nil {
		t.Fatalf("SearchCatalog: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("got %d results, want 2", len(res))
	}
	if res[0].Description != "Widget A" || res[1].Description != "Widget B" {
		t.Fatalf("results out of insertion order: %+v", res)
	}

	res, err = m.SearchCatalog("h-1", 25)
	if err != nil {
		t.Fatalf("SearchCatalog: %v", err)
	}
	if len(res) != 1 || res[0].Description != "Hammer" {
		t.Fatalf("cat_no not searched: %+v", res)
	}
}

func TestMemoryStoreSearchLimit(t *testing.T) {
	m := NewMemoryStore()
	items := make([]ingest.Item, 30)
	for i := range items {
		items[i] = ingest.Item{Description: fmt.Sprintf("bulk item %02d", i)}
	}
	if _, err := m.IngestUpload(domain.Upload{ID: "up1", UserID: "u1"}, items); err != nil {
		t.Fatalf("IngestUpload: %v", err)
	}
	res, err := m.SearchCatalog("bulk", 25)
	if err != nil {
		t.Fatalf("SearchCatalog: %v", err)
	}
	if len(res) != 25 {
		t.Fatalf("got %d results, want cap of 25", len(res))
	}
	if res[0].Description != "bulk item 00" {
		t.Fatalf("cap must keep earliest records, got %q first", res[0].Description)
	}
}

func TestMemoryStoreIngestAtomic(t *testing.T) {
	m := NewMemoryStore()
	m.FailIngest = errors.New("commit failed")
	_, err := m.IngestUpload(domain.Upload{ID: "up1", UserID: "u1"}, []ingest.Item{{Description: "Widget"}})
	if err == nil {
		t.Fatal("expected ingest failure")
	}
	if _, ok, _ := m.GetUpload("up1"); ok {
		t.Fatal("failed ingest must leave no upload behind")
	}
	res, _ := m.SearchCatalog("widget", 25)
	if len(res) != 0 {
		t.Fatalf("failed ingest must leave no records behind, found %d", len(res))
	}
}

func TestMemoryStoreDeleteUploadCascades(t *testing.T) {
	m := NewMemoryStore()
	if _, err := m.IngestUpload(domain.Upload{ID: "up1", UserID: "u1"}, []ingest.Item{{Description: "Keep me"}}); err != nil {
		t.Fatalf("IngestUpload: %v", err)
	}
	if _, err := m.IngestUpload(domain.Upload{ID: "up2", UserID: "u1"}, []ingest.Item{{Description: "Drop me"}}); err != nil {
		t.Fatalf("IngestUpload: %v", err)
	}
	if err := m.DeleteUpload("up2"); err != nil {
		t.Fatalf("DeleteUpload: %v", err)
	}
	if res, _ := m.SearchCatalog("drop", 25); len(res) != 0 {
		t.Fatalf("records of a deleted upload still searchable: %+v", res)
	}
	if res, _ := m.SearchCatalog("keep", 25); len(res) != 1 {
		t.Fatalf("unrelated records lost on delete: %+v", res)
	}
}

func TestMemoryStoreAttendanceUniqueness(t *testing.T) {
	m := NewMemoryStore()
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	at := day.Add(9 * time.Hour)

	rec, err := m.CreateCheckIn("u1", day, at, 12.9, 77.6)
	if err != nil {
		t.Fatalf("CreateCheckIn: %v", err)
	}
	if _, err := m.CreateCheckIn("u1", day, at.Add(time.Hour), 1, 1); !errors.Is(err, ErrAttendanceExists) {
		t.Fatalf("duplicate check-in: got %v, want ErrAttendanceExists", err)
	}
	// Same user, different day is fine.
	if _, err := m.CreateCheckIn("u1", day.AddDate(0, 0, 1), at, 1, 1); err != nil {
		t.Fatalf("next-day check-in: %v", err)
	}

	open, err := m.ListOpenAttendance(day)
	if err != nil {
		t.Fatalf("ListOpenAttendance: %v", err)
	}
	if len(open) != 1 || open[0].ID != rec.ID {
		t.Fatalf("unexpected open set: %+v", open)
	}

	out := at.Add(8 * time.Hour)
	if err := m.SetCheckOut(rec.ID, out, 12.91, 77.61); err != nil {
		t.Fatalf("SetCheckOut: %v", err)
	}
	if err := m.SetCheckOut(rec.ID, out, 0, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second check-out: got %v, want ErrNotFound", err)
	}

	got, ok, _ := m.GetAttendance("u1", day)
	if !ok || got.OutTime == nil || !got.OutTime.Equal(out) {
		t.Fatalf("check-out not recorded: %+v", got)
	}
	if got.InLat == nil || *got.InLat != 12.9 {
		t.Fatalf("check-in coordinates lost: %+v", got)
	}

	if open, _ := m.ListOpenAttendance(day); len(open) != 0 {
		t.Fatalf("checked-out record still listed as open: %+v", open)
	}
}

func TestMemoryStoreUsers(t *testing.T) {
	m := NewMemoryStore()
	if n, _ := m.UserCount(); n != 0 {
		t.Fatalf("fresh store has %d users", n)
	}
	u := domain.User{ID: "u1", Username: "alice", Role: domain.RoleAdmin}
	if err := m.SaveUser(u); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	got, ok, _ := m.GetUserByUsername("alice")
	if !ok || got.ID != "u1" {
		t.Fatalf("GetUserByUsername: %+v ok=%v", got, ok)
	}
	if err := m.SetUserRole("u1", domain.RoleEmployee); err != nil {
		t.Fatalf("SetUserRole: %v", err)
	}
	got, _, _ = m.GetUserByID("u1")
	if got.Role != domain.RoleEmployee {
		t.Fatalf("role not updated: %+v", got)
	}
	if err := m.SetUserRole("missing", domain.RoleAdmin); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SetUserRole on missing user: got %v, want ErrNotFound", err)
	}
}
