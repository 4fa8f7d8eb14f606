//go:build unit

package store

import (
	"context"
	"testing"
)

// newTestSQLStore creates an in-memory SQLite document store.
func newTestSQLStore(t *testing.T) (*SQLStore, func()) {
	t.Helper()
	s, err := NewSQLStore("file::memory:")
	if err != nil {
		t.Fatalf("failed to create test sql store: %v", err)
	}
	teardown := func() {
		s.Close()
	}
	return s, teardown
}

func TestSQLStore_LoadDefault(t *testing.T) {
	s, teardown := newTestSQLStore(t)
	defer teardown()

	doc, err := s.Load(context.Background(), Identity{Area: AreaHome})
	if err != nil {
		t.Fatalf("load of never-saved identity failed: %v", err)
	}
	if _, ok := doc["sections"].([]interface{}); !ok {
		t.Errorf("expected the home default document, got %#v", doc)
	}
}

func TestSQLStore_SaveThenLoad(t *testing.T) {
	s, teardown := newTestSQLStore(t)
	defer teardown()
	ctx := context.Background()
	id := Identity{Area: AreaProduct, Brand: "boss", Slug: "ds-1"}

	doc := Document{"name": "DS-1 Distortion", "image": "/product/boss/ds-1/media/1.png"}
	if err := s.Save(ctx, id, doc); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := s.Load(ctx, id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded["name"] != "DS-1 Distortion" {
		t.Errorf("round trip lost data: %#v", loaded)
	}
}

func TestSQLStore_SortInvariant(t *testing.T) {
	s, teardown := newTestSQLStore(t)
	defer teardown()
	ctx := context.Background()
	id := Identity{Area: AreaBlog}

	doc := Document{
		"posts": []interface{}{
			map[string]interface{}{"id": "old", "createdAt": "2025-01-01T00:00:00Z"},
			map[string]interface{}{"id": "new", "createdAt": "2025-06-01T00:00:00Z"},
		},
	}
	if err := s.Save(ctx, id, doc); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := s.Load(ctx, id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	posts := loaded["posts"].([]interface{})
	first := posts[0].(map[string]interface{})
	if first["id"] != "new" {
		t.Errorf("expected the newest post first on load, got %v", first["id"])
	}
}
