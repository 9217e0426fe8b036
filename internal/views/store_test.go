package views

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/docsieve/docsieve/internal/core/db"
	"github.com/docsieve/docsieve/internal/filter"
	"github.com/docsieve/docsieve/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cache.db")
	conn, err := db.Open("sqlite://" + path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.MigrateUp(conn); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	q, err := db.LoadQueries(conn)
	if err != nil {
		t.Fatalf("LoadQueries failed: %v", err)
	}
	return NewStore(q)
}

func testView(id uint, name string) SavedView {
	return SavedView{
		ID:            id,
		Name:          name,
		ShowInSidebar: true,
		SortField:     "created",
		SortReverse:   true,
		FilterRules: []filter.Rule{
			{Type: filter.RuleHasTagsAll, Value: filter.TagValue(66)},
			{Type: filter.RuleCorrespondent, Value: filter.CorrespondentValue(filter.NoRef)},
		},
	}
}

func TestStore_UpsertGet(t *testing.T) {
	s := newTestStore(t)

	original := testView(1, "inbox")
	if err := s.Upsert(original, time.Now()); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := s.Get(1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "inbox" || !got.ShowInSidebar || !got.SortReverse {
		t.Errorf("Get = %+v, want stored attributes back", got)
	}
	if len(got.FilterRules) != 2 {
		t.Fatalf("FilterRules = %+v, want 2 rules", got.FilterRules)
	}
	for i, r := range original.FilterRules {
		if got.FilterRules[i] != r {
			t.Errorf("rule %d = %+v, want %+v", i, got.FilterRules[i], r)
		}
	}
}

func TestStore_UpsertReplaces(t *testing.T) {
	s := newTestStore(t)

	if err := s.Upsert(testView(1, "inbox"), time.Now()); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	renamed := testView(1, "renamed")
	if err := s.Upsert(renamed, time.Now()); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	got, err := s.Get(1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "renamed" {
		t.Errorf("Name = %q, want upsert to replace", got.Name)
	}

	views, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(views) != 1 {
		t.Errorf("List returned %d views, want 1 after replace", len(views))
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(99)
	if !errors.Is(err, types.ErrViewNotFound) {
		t.Errorf("Get error = %v, want ErrViewNotFound", err)
	}
}

func TestStore_ListOrdered(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	for _, v := range []SavedView{testView(2, "zebra"), testView(1, "alpha"), testView(3, "middle")} {
		if err := s.Upsert(v, now); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	views, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"alpha", "middle", "zebra"}
	if len(views) != len(want) {
		t.Fatalf("List returned %d views, want %d", len(views), len(want))
	}
	for i, name := range want {
		if views[i].Name != name {
			t.Errorf("views[%d].Name = %q, want %q", i, views[i].Name, name)
		}
	}
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)

	if err := s.Upsert(testView(1, "inbox"), time.Now()); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := s.Delete(1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(1); !errors.Is(err, types.ErrViewNotFound) {
		t.Errorf("Get after delete error = %v, want ErrViewNotFound", err)
	}

	// Absent id is a no-op.
	if err := s.Delete(42); err != nil {
		t.Errorf("Delete of absent view failed: %v", err)
	}
}

func TestStore_ReplaceAll(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	if err := s.Upsert(testView(9, "stale"), now); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	fresh := []SavedView{testView(1, "alpha"), testView(2, "beta")}
	if err := s.ReplaceAll(fresh, now); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	views, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("List returned %d views, want the fresh snapshot only", len(views))
	}
	if _, err := s.Get(9); !errors.Is(err, types.ErrViewNotFound) {
		t.Errorf("stale view still present after ReplaceAll")
	}
}
