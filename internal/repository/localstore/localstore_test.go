package localstore

import (
	"context"
	"testing"
)

type record struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Date  string `json:"date"`
	Price int64  `json:"price"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestCreateAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "admissions", record{Name: "تعویض روغن", Date: "2025-03-01T10:00:00Z", Price: 500000})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("Create must assign an id")
	}

	var got []record
	if err := s.LoadCollection(ctx, "admissions", &got); err != nil {
		t.Fatalf("LoadCollection: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 document, got %d", len(got))
	}
	if got[0].ID != id {
		t.Errorf("id = %q, want %q", got[0].ID, id)
	}
	if got[0].Name != "تعویض روغن" || got[0].Price != 500000 {
		t.Errorf("document fields did not survive the round trip: %+v", got[0])
	}
}

func TestLoadCollectionOrdersNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, r := range []record{
		{Name: "old", Date: "2025-01-01T08:00:00Z"},
		{Name: "newest", Date: "2025-03-01T08:00:00Z"},
		{Name: "middle", Date: "2025-02-01T08:00:00Z"},
	} {
		if _, err := s.Create(ctx, "invoices", r); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	var got []record
	if err := s.LoadCollection(ctx, "invoices", &got); err != nil {
		t.Fatalf("LoadCollection: %v", err)
	}

	want := []string{"newest", "middle", "old"}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("position %d = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestUpdateMergesPatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "admissions", record{Name: "before", Date: "2025-03-01T10:00:00Z", Price: 100})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Update(ctx, "admissions", id, map[string]any{"name": "after"}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var got []record
	if err := s.LoadCollection(ctx, "admissions", &got); err != nil {
		t.Fatalf("LoadCollection: %v", err)
	}
	if got[0].Name != "after" {
		t.Errorf("name = %q, want %q", got[0].Name, "after")
	}
	if got[0].Price != 100 {
		t.Errorf("unpatched field changed: price = %d", got[0].Price)
	}
}

func TestUpdateMissingIDIsNoOp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, "admissions", record{Name: "only", Date: "2025-03-01T10:00:00Z"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Update(ctx, "admissions", "no-such-id", map[string]any{"name": "ghost"}); err != nil {
		t.Fatalf("Update on stale id must not error: %v", err)
	}

	var got []record
	if err := s.LoadCollection(ctx, "admissions", &got); err != nil {
		t.Fatalf("LoadCollection: %v", err)
	}
	if len(got) != 1 || got[0].Name != "only" {
		t.Errorf("collection changed by a stale-id update: %+v", got)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "bookings", record{Name: "b", Date: "2025-03-01T10:00:00Z"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Remove(ctx, "bookings", id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(ctx, "bookings", id); err != nil {
		t.Fatalf("second Remove must be a no-op: %v", err)
	}

	var got []record
	if err := s.LoadCollection(ctx, "bookings", &got); err != nil {
		t.Fatalf("LoadCollection: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty collection, got %d documents", len(got))
	}
}

func TestSingletonRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var missing map[string]any
	found, err := s.GetSingleton(ctx, "site", "content", &missing)
	if err != nil {
		t.Fatalf("GetSingleton: %v", err)
	}
	if found {
		t.Fatal("unwritten singleton must report found=false")
	}

	doc := map[string]any{"title": "مکسیما هوم"}
	if err := s.SetSingleton(ctx, "site", "content", doc); err != nil {
		t.Fatalf("SetSingleton: %v", err)
	}

	var got map[string]any
	found, err = s.GetSingleton(ctx, "site", "content", &got)
	if err != nil {
		t.Fatalf("GetSingleton: %v", err)
	}
	if !found {
		t.Fatal("expected found=true after write")
	}
	if got["title"] != "مکسیما هوم" {
		t.Errorf("title = %v", got["title"])
	}
}
