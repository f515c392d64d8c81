package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/scenecast/scenecast/internal/domain/resource"
)

func openTestStore(t *testing.T) *CollectionStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "collection.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return store
}

func testCollection() resource.Collection {
	return resource.Collection{
		ProgramScene: "Main",
		Sources: []resource.SourceSnapshot{
			{
				Name:     "Camera",
				Kind:     "input",
				Muted:    true,
				Settings: map[string]any{"device": "/dev/video0", "fps": float64(30)},
			},
			{
				Name: "Main",
				Kind: "scene",
				Items: []resource.ItemSnapshot{
					{SourceName: "Camera", Enabled: true},
					{SourceName: "Overlays", Enabled: false},
				},
			},
			{Name: "Overlays", Kind: "scene", Group: true},
		},
	}
}

func TestCollectionStore_EmptyLoad(t *testing.T) {
	store := openTestStore(t)

	col, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(col.Sources) != 0 || col.ProgramScene != "" {
		t.Errorf("expected empty collection, got %+v", col)
	}
}

func TestCollectionStore_SaveLoad(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	want := testCollection()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got.ProgramScene != want.ProgramScene {
		t.Errorf("program scene = %q, want %q", got.ProgramScene, want.ProgramScene)
	}
	if len(got.Sources) != len(want.Sources) {
		t.Fatalf("source count = %d, want %d", len(got.Sources), len(want.Sources))
	}
	for i := range want.Sources {
		w, g := want.Sources[i], got.Sources[i]
		if w.Name != g.Name || w.Kind != g.Kind || w.Group != g.Group || w.Muted != g.Muted {
			t.Errorf("source %d differs: %+v vs %+v", i, w, g)
		}
	}

	camera := got.Sources[0]
	if camera.Settings["device"] != "/dev/video0" {
		t.Errorf("settings lost: %v", camera.Settings)
	}
	if camera.Settings["fps"] != float64(30) {
		t.Errorf("numeric setting lost: %v (%T)", camera.Settings["fps"], camera.Settings["fps"])
	}

	main := got.Sources[1]
	if len(main.Items) != 2 {
		t.Fatalf("item count = %d", len(main.Items))
	}
	if main.Items[0].SourceName != "Camera" || !main.Items[0].Enabled {
		t.Errorf("unexpected first item: %+v", main.Items[0])
	}
	if main.Items[1].SourceName != "Overlays" || main.Items[1].Enabled {
		t.Errorf("unexpected second item: %+v", main.Items[1])
	}
}

func TestCollectionStore_SaveReplaces(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testCollection()); err != nil {
		t.Fatal(err)
	}

	smaller := resource.Collection{
		Sources: []resource.SourceSnapshot{{Name: "Solo", Kind: "input"}},
	}
	if err := store.Save(ctx, smaller); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Sources) != 1 || got.Sources[0].Name != "Solo" {
		t.Errorf("old snapshot not replaced: %+v", got)
	}
	if got.ProgramScene != "" {
		t.Errorf("stale program scene: %q", got.ProgramScene)
	}
}

func TestCollectionStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, testCollection()); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Sources) != 3 || got.ProgramScene != "Main" {
		t.Errorf("snapshot not persisted across reopen: %+v", got)
	}
}
