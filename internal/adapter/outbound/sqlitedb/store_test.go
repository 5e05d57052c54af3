package sqlitedb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/beismanmaps/server/internal/domain/record"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := Open(":memory:", logger)
	if err != nil {
		t.Fatalf("Open(:memory:) error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	return store
}

func insertTestMap(t *testing.T, store *Store, number, drawer, details string) {
	t.Helper()
	m := &record.Map{Number: number, Drawer: drawer, PropertyDetails: details}
	if err := store.InsertMap(context.Background(), m); err != nil {
		t.Fatalf("InsertMap(%s) error: %v", number, err)
	}
}

func TestStore_MigrateIdempotent(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate() error: %v", err)
	}
}

func TestStore_Ping(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestStore_InsertAndGetMap(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	insertTestMap(t, store, "001", "A", "North parcel")

	got, err := store.GetMap(ctx, "001")
	if err != nil {
		t.Fatalf("GetMap() error: %v", err)
	}
	if got.Drawer != "A" || got.PropertyDetails != "North parcel" {
		t.Errorf("GetMap() = %+v", got)
	}
	if got.CreatedDate == nil {
		t.Error("CreatedDate not set on insert")
	}
	if got.ModifiedDate != nil {
		t.Error("ModifiedDate set on a fresh record")
	}
}

func TestStore_GetMapNotFound(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	if _, err := store.GetMap(context.Background(), "nope"); !errors.Is(err, record.ErrNotFound) {
		t.Errorf("GetMap(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_InsertMapDuplicate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	insertTestMap(t, store, "001", "A", "")
	err := store.InsertMap(ctx, &record.Map{Number: "001"})
	if !errors.Is(err, record.ErrDuplicate) {
		t.Errorf("InsertMap(duplicate) error = %v, want ErrDuplicate", err)
	}
}

func TestStore_UpdateMap(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	insertTestMap(t, store, "001", "A", "Old details")

	drawer := "B"
	if err := store.UpdateMap(ctx, "001", record.MapUpdate{Drawer: &drawer}); err != nil {
		t.Fatalf("UpdateMap() error: %v", err)
	}

	got, err := store.GetMap(ctx, "001")
	if err != nil {
		t.Fatalf("GetMap() error: %v", err)
	}
	if got.Drawer != "B" {
		t.Errorf("Drawer = %q, want %q", got.Drawer, "B")
	}
	if got.PropertyDetails != "Old details" {
		t.Error("unset field was modified by partial update")
	}
	if got.ModifiedDate == nil {
		t.Error("ModifiedDate not bumped by update")
	}

	if err := store.UpdateMap(ctx, "missing", record.MapUpdate{Drawer: &drawer}); !errors.Is(err, record.ErrNotFound) {
		t.Errorf("UpdateMap(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_DeleteMapCascades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	insertTestMap(t, store, "001", "A", "")
	insertTestMap(t, store, "002", "A", "")

	for _, name := range []string{"Smith", "Jones"} {
		e := &record.Entity{EntityName: name, BeismanNumber: "001"}
		if err := store.InsertEntity(ctx, e); err != nil {
			t.Fatalf("InsertEntity() error: %v", err)
		}
	}
	other := &record.Entity{EntityName: "Doe", BeismanNumber: "002"}
	if err := store.InsertEntity(ctx, other); err != nil {
		t.Fatalf("InsertEntity() error: %v", err)
	}

	if err := store.DeleteMap(ctx, "001"); err != nil {
		t.Fatalf("DeleteMap() error: %v", err)
	}

	if _, err := store.GetMap(ctx, "001"); !errors.Is(err, record.ErrNotFound) {
		t.Errorf("map still present after delete: %v", err)
	}
	orphans, err := store.ListEntitiesForMap(ctx, "001")
	if err != nil {
		t.Fatalf("ListEntitiesForMap() error: %v", err)
	}
	if len(orphans) != 0 {
		t.Errorf("entities survived map delete: %d", len(orphans))
	}

	// Entities of other maps are untouched.
	kept, err := store.ListEntitiesForMap(ctx, "002")
	if err != nil {
		t.Fatalf("ListEntitiesForMap() error: %v", err)
	}
	if len(kept) != 1 {
		t.Errorf("unrelated entities = %d, want 1", len(kept))
	}

	if err := store.DeleteMap(ctx, "missing"); !errors.Is(err, record.ErrNotFound) {
		t.Errorf("DeleteMap(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_ListMapsSearchAndOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	insertTestMap(t, store, "003", "B", "South ridge")
	insertTestMap(t, store, "001", "A", "North parcel")
	insertTestMap(t, store, "002", "A", "Creek crossing")

	maps, total, err := store.ListMaps(ctx, record.ListParams{})
	if err != nil {
		t.Fatalf("ListMaps() error: %v", err)
	}
	if total != 3 || len(maps) != 3 {
		t.Fatalf("ListMaps() = %d rows total %d, want 3/3", len(maps), total)
	}
	// Ordered by Number.
	for i, want := range []string{"001", "002", "003"} {
		if maps[i].Number != want {
			t.Errorf("maps[%d].Number = %q, want %q", i, maps[i].Number, want)
		}
	}

	// Search matches PropertyDetails.
	maps, total, err = store.ListMaps(ctx, record.ListParams{Search: "ridge"})
	if err != nil {
		t.Fatalf("ListMaps(search) error: %v", err)
	}
	if total != 1 || len(maps) != 1 || maps[0].Number != "003" {
		t.Errorf("search ridge = %+v total %d", maps, total)
	}

	// Search matches Drawer.
	_, total, err = store.ListMaps(ctx, record.ListParams{Search: "A"})
	if err != nil {
		t.Fatalf("ListMaps(search) error: %v", err)
	}
	if total != 2 {
		t.Errorf("search drawer A total = %d, want 2", total)
	}
}

func TestStore_ListMapsPagination(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	for i := 1; i <= 5; i++ {
		insertTestMap(t, store, fmt.Sprintf("%03d", i), "A", "")
	}

	page1, total, err := store.ListMaps(ctx, record.ListParams{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("ListMaps(page 1) error: %v", err)
	}
	if total != 5 || len(page1) != 2 {
		t.Fatalf("page 1 = %d rows total %d, want 2/5", len(page1), total)
	}

	page3, _, err := store.ListMaps(ctx, record.ListParams{Page: 3, PageSize: 2})
	if err != nil {
		t.Fatalf("ListMaps(page 3) error: %v", err)
	}
	if len(page3) != 1 || page3[0].Number != "005" {
		t.Errorf("page 3 = %+v, want single row 005", page3)
	}
}

func TestStore_EntityCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	insertTestMap(t, store, "001", "A", "")

	e := &record.Entity{EntityName: "Smith Family Trust", BeismanNumber: "001"}
	if err := store.InsertEntity(ctx, e); err != nil {
		t.Fatalf("InsertEntity() error: %v", err)
	}
	if e.EntityID == 0 {
		t.Fatal("EntityID not assigned on insert")
	}

	got, err := store.GetEntity(ctx, e.EntityID)
	if err != nil {
		t.Fatalf("GetEntity() error: %v", err)
	}
	if got.EntityName != "Smith Family Trust" || got.BeismanNumber != "001" {
		t.Errorf("GetEntity() = %+v", got)
	}
	if got.CreatedDate == nil {
		t.Error("CreatedDate not set on insert")
	}

	if err := store.DeleteEntity(ctx, e.EntityID); err != nil {
		t.Fatalf("DeleteEntity() error: %v", err)
	}
	if _, err := store.GetEntity(ctx, e.EntityID); !errors.Is(err, record.ErrNotFound) {
		t.Errorf("GetEntity(deleted) error = %v, want ErrNotFound", err)
	}
	if err := store.DeleteEntity(ctx, e.EntityID); !errors.Is(err, record.ErrNotFound) {
		t.Errorf("DeleteEntity(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_DeleteEntityByName(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	insertTestMap(t, store, "001", "A", "")
	for _, e := range []record.Entity{
		{EntityName: "Smith", BeismanNumber: "001"},
		{EntityName: "Walker", BeismanNumber: "001"},
	} {
		e := e
		if err := store.InsertEntity(ctx, &e); err != nil {
			t.Fatalf("InsertEntity() error: %v", err)
		}
	}

	if err := store.DeleteEntityByName(ctx, "001", "Smith"); err != nil {
		t.Fatalf("DeleteEntityByName() error: %v", err)
	}

	remaining, err := store.ListEntitiesForMap(ctx, "001")
	if err != nil {
		t.Fatalf("ListEntitiesForMap() error: %v", err)
	}
	if len(remaining) != 1 || remaining[0].EntityName != "Walker" {
		t.Errorf("remaining entities = %+v, want only Walker", remaining)
	}

	if err := store.DeleteEntityByName(ctx, "001", "Smith"); !errors.Is(err, record.ErrNotFound) {
		t.Errorf("DeleteEntityByName(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_ListEntitiesSearchAndOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	for _, e := range []record.Entity{
		{EntityName: "Walker", BeismanNumber: "002"},
		{EntityName: "Anderson", BeismanNumber: "001"},
		{EntityName: "Miller", BeismanNumber: "001"},
	} {
		e := e
		if err := store.InsertEntity(ctx, &e); err != nil {
			t.Fatalf("InsertEntity() error: %v", err)
		}
	}

	entities, total, err := store.ListEntities(ctx, record.ListParams{})
	if err != nil {
		t.Fatalf("ListEntities() error: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	// Ordered by EntityName.
	for i, want := range []string{"Anderson", "Miller", "Walker"} {
		if entities[i].EntityName != want {
			t.Errorf("entities[%d] = %q, want %q", i, entities[i].EntityName, want)
		}
	}

	// Search matches BeismanNumber.
	_, total, err = store.ListEntities(ctx, record.ListParams{Search: "001"})
	if err != nil {
		t.Fatalf("ListEntities(search) error: %v", err)
	}
	if total != 2 {
		t.Errorf("search 001 total = %d, want 2", total)
	}
}

func TestStore_AllMaps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	insertTestMap(t, store, "002", "B", "South parcel")
	insertTestMap(t, store, "001", "A", "North parcel")

	all, err := store.AllMaps(ctx, "")
	if err != nil {
		t.Fatalf("AllMaps() error: %v", err)
	}
	if len(all) != 2 || all[0].Number != "001" || all[1].Number != "002" {
		t.Errorf("AllMaps() = %+v, want both maps ordered by Number", all)
	}

	filtered, err := store.AllMaps(ctx, "South")
	if err != nil {
		t.Fatalf("AllMaps(search) error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Number != "002" {
		t.Errorf("AllMaps(South) = %+v, want only 002", filtered)
	}
}

func TestStore_AllEntities(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	for _, e := range []record.Entity{
		{EntityName: "Walker", BeismanNumber: "002"},
		{EntityName: "Anderson", BeismanNumber: "001"},
	} {
		e := e
		if err := store.InsertEntity(ctx, &e); err != nil {
			t.Fatalf("InsertEntity() error: %v", err)
		}
	}

	all, err := store.AllEntities(ctx, "")
	if err != nil {
		t.Fatalf("AllEntities() error: %v", err)
	}
	if len(all) != 2 || all[0].EntityName != "Anderson" {
		t.Errorf("AllEntities() = %+v, want both ordered by name", all)
	}

	filtered, err := store.AllEntities(ctx, "Walk")
	if err != nil {
		t.Fatalf("AllEntities(search) error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].EntityName != "Walker" {
		t.Errorf("AllEntities(Walk) = %+v, want only Walker", filtered)
	}
}

func TestStore_Counts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	insertTestMap(t, store, "001", "A", "")
	e := &record.Entity{EntityName: "Smith", BeismanNumber: "001"}
	if err := store.InsertEntity(ctx, e); err != nil {
		t.Fatalf("InsertEntity() error: %v", err)
	}

	if n, err := store.CountMaps(ctx); err != nil || n != 1 {
		t.Errorf("CountMaps() = (%d, %v), want (1, nil)", n, err)
	}
	if n, err := store.CountEntities(ctx); err != nil || n != 1 {
		t.Errorf("CountEntities() = (%d, %v), want (1, nil)", n, err)
	}
}
