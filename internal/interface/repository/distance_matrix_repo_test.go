package repository

import (
	"context"
	"errors"
	"testing"

	"napo-service/internal/domain/entity"
)

func createNodes(t *testing.T, ctx context.Context, repo interface {
	Create(context.Context, *entity.Node) error
}, names ...string) []uint {
	t.Helper()
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		n := &entity.Node{NodeName: name}
		if err := repo.Create(ctx, n); err != nil {
			t.Fatalf("create node %s: %v", name, err)
		}
		ids = append(ids, n.ID)
	}
	return ids
}

func TestDistanceMatrixUpsert(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	ids := createNodes(t, ctx, NewGormNodeRepository(db), "A", "B")
	repo := NewGormDistanceMatrixRepository(db)

	entry := &entity.DistanceEntry{OriginNodeID: ids[0], DestinationNodeID: ids[1], Distance: 10, TravelTime: 600}
	entry.CreatedBy = "loader"
	if err := repo.Upsert(ctx, entry); err != nil {
		t.Fatalf("first Upsert() error = %v", err)
	}
	firstID := entry.ID

	again := &entity.DistanceEntry{OriginNodeID: ids[0], DestinationNodeID: ids[1], Distance: 12.5, TravelTime: 700}
	again.LastUpdatedBy = "planner"
	if err := repo.Upsert(ctx, again); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}
	if again.ID != firstID {
		t.Errorf("upsert created a new row: %d != %d", again.ID, firstID)
	}
	if again.Distance != 12.5 || again.CreatedBy != "loader" || again.LastUpdatedBy != "planner" {
		t.Errorf("unexpected upserted row: %+v", again)
	}

	got, err := repo.Get(ctx, ids[0], ids[1])
	if err != nil {
		t.Fatal(err)
	}
	if got.TravelTime != 700 {
		t.Errorf("travel_time = %v", got.TravelTime)
	}
	if _, err := repo.Get(ctx, ids[1], ids[0]); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("reverse pair error = %v, want ErrNotFound", err)
	}

	if err := repo.SoftDelete(ctx, firstID, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Get(ctx, ids[0], ids[1]); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("deleted pair error = %v, want ErrNotFound", err)
	}

	revived := &entity.DistanceEntry{OriginNodeID: ids[0], DestinationNodeID: ids[1], Distance: 9, TravelTime: 500}
	if err := repo.Upsert(ctx, revived); err != nil {
		t.Fatal(err)
	}
	if revived.ID != firstID || !revived.IsActive || revived.IsDeleted() {
		t.Errorf("upsert did not revive the row: %+v", revived)
	}
}

func TestDistanceMatrixRejectsUnknownNodes(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	ids := createNodes(t, ctx, NewGormNodeRepository(db), "A")
	repo := NewGormDistanceMatrixRepository(db)

	err := repo.Upsert(ctx, &entity.DistanceEntry{OriginNodeID: ids[0], DestinationNodeID: 4242, Distance: 1, TravelTime: 1})
	if !errors.Is(err, entity.ErrReferenceNotFound) {
		t.Fatalf("Upsert() error = %v, want ErrReferenceNotFound", err)
	}
}

func TestDistanceMatrixQueries(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	ids := createNodes(t, ctx, NewGormNodeRepository(db), "A", "B", "C", "D")
	repo := NewGormDistanceMatrixRepository(db)

	pairs := [][2]int{{0, 1}, {0, 2}, {1, 0}, {2, 3}, {3, 0}}
	for _, p := range pairs {
		e := &entity.DistanceEntry{OriginNodeID: ids[p[0]], DestinationNodeID: ids[p[1]], Distance: 1, TravelTime: 1}
		if err := repo.Upsert(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	from, err := repo.ListFrom(ctx, ids[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(from) != 2 || from[0].DestinationNodeID != ids[1] || from[1].DestinationNodeID != ids[2] {
		t.Errorf("ListFrom() = %+v", from)
	}

	among, err := repo.ListAmong(ctx, []uint{ids[0], ids[1], ids[2]})
	if err != nil {
		t.Fatal(err)
	}
	if len(among) != 3 {
		t.Errorf("ListAmong() returned %d entries, want 3", len(among))
	}

	empty, err := repo.ListAmong(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("ListAmong(nil) = %v, %v", empty, err)
	}

	all, err := repo.List(ctx, entity.ListFilter{Limit: 2})
	if err != nil || len(all) != 2 {
		t.Errorf("List(limit 2) = %d entries, %v", len(all), err)
	}
}
