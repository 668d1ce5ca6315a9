package repos_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"bellashop/internal/domain"
	"bellashop/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func price(v float64) *float64 { return &v }

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func mustCreate(t *testing.T, r *repos.ProductRepo, name, cat string, p float64, at time.Time) domain.Product {
	t.Helper()
	got, err := r.Create(context.Background(), domain.ProductInput{Name: name, Category: cat, Price: price(p)}, []string{"/uploads/a.jpg"}, at)
	if err != nil {
		t.Fatal(err)
	}
	return got
}

func TestProductRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(memdb(t))

	in := domain.ProductInput{
		Name: "Tansu Chest", Price: price(25000), Category: "Cabinet",
		Condition: "Good", Length: price(120),
	}
	created, err := r.Create(ctx, in, []string{"/uploads/1.jpg", "/uploads/2.jpg"}, t0)
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 || created.Status != domain.StatusAvailable || created.SoldAt != nil {
		t.Fatalf("unexpected new product %+v", created)
	}
	if !created.CreatedAt.Equal(t0) || !created.UpdatedAt.Equal(t0) {
		t.Fatalf("timestamps not stored: %v %v", created.CreatedAt, created.UpdatedAt)
	}

	got, err := r.Get(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ImageURLs) != 2 || got.ImageURLs[1] != "/uploads/2.jpg" {
		t.Fatalf("images = %v", got.ImageURLs)
	}
	if got.Length == nil || *got.Length != 120 || got.Width != nil {
		t.Fatalf("dimensions = %v %v", got.Length, got.Width)
	}
	if got.Description != "" || len(got.Tags()) != 0 {
		t.Fatalf("optional fields: %+v", got)
	}

	if _, err := r.Get(ctx, 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestProductRepo_ToggleSoldRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(memdb(t))
	p := mustCreate(t, r, "Chair", "Chair", 10, t0)

	at := t0.Add(time.Hour)
	sold, err := r.ToggleSold(ctx, p.ID, at)
	if err != nil {
		t.Fatal(err)
	}
	if sold.Status != domain.StatusSold || sold.SoldAt == nil || !sold.SoldAt.Equal(at) {
		t.Fatalf("want sold at %v, got %+v", at, sold)
	}

	back, err := r.ToggleSold(ctx, p.ID, at.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if back.Status != domain.StatusAvailable || back.SoldAt != nil {
		t.Fatalf("want available without soldAt, got %+v", back)
	}

	if _, err := r.ToggleSold(ctx, 9999, at); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestProductRepo_ToggleFlagAndListFlagged(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(memdb(t))
	a := mustCreate(t, r, "A", "Sofa", 1, t0)
	b := mustCreate(t, r, "B", "Sofa", 1, t0.Add(time.Minute))

	for _, id := range []int64{a.ID, b.ID} {
		if _, err := r.ToggleFlag(ctx, id, domain.FlagFeatured, t0.Add(time.Hour)); err != nil {
			t.Fatal(err)
		}
	}
	got, err := r.ListFlagged(ctx, domain.FlagFeatured)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != b.ID {
		t.Fatalf("want newest first, got %v", got)
	}

	off, err := r.ToggleFlag(ctx, a.ID, domain.FlagFeatured, t0.Add(2*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if off.IsFeatured || off.IsBestSeller || off.IsHighlighted {
		t.Fatalf("flags should all be off: %+v", off)
	}
	if _, err := r.ToggleFlag(ctx, a.ID, domain.Flag("bogus"), t0); err == nil {
		t.Fatal("unknown flag accepted")
	}
}

func TestProductRepo_UpdatedAtNeverMovesBackwards(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(memdb(t))
	p := mustCreate(t, r, "Desk", "Desk", 5, t0)

	got, err := r.ToggleFlag(ctx, p.ID, domain.FlagHighlighted, t0.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if !got.UpdatedAt.Equal(t0) {
		t.Fatalf("updatedAt went backwards: %v", got.UpdatedAt)
	}
}

func TestProductRepo_UpdateKeepsFlagsAndStatus(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(memdb(t))
	p := mustCreate(t, r, "Desk", "Desk", 5, t0)
	if _, err := r.ToggleFlag(ctx, p.ID, domain.FlagBestSeller, t0); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ToggleSold(ctx, p.ID, t0); err != nil {
		t.Fatal(err)
	}

	upd, err := r.Update(ctx, p.ID, domain.ProductInput{Name: "Oak Desk", Price: price(7)}, []string{"/uploads/n.png"}, t0.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if upd.Name != "Oak Desk" || upd.Price != 7 || upd.Category != "" {
		t.Fatalf("fields not replaced: %+v", upd)
	}
	if !upd.IsBestSeller || upd.Status != domain.StatusSold || upd.SoldAt == nil {
		t.Fatalf("flags or status changed by update: %+v", upd)
	}
}

func TestProductRepo_ListsAndStats(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(memdb(t))
	a := mustCreate(t, r, "A", "Sofa", 1, t0)
	b := mustCreate(t, r, "B", "Desk", 1, t0.Add(time.Minute))
	c := mustCreate(t, r, "C", "Desk", 1, t0.Add(2*time.Minute))
	if _, err := r.ToggleSold(ctx, a.ID, t0.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ToggleSold(ctx, b.ID, t0.Add(2*time.Hour)); err != nil {
		t.Fatal(err)
	}

	avail, err := r.ListAvailable(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(avail) != 1 || avail[0].ID != c.ID {
		t.Fatalf("available = %v", avail)
	}
	sold, err := r.ListSold(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sold) != 2 || sold[0].ID != b.ID {
		t.Fatalf("want most recently sold first, got %v", sold)
	}

	st, err := r.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st != (domain.Stats{Total: 3, Available: 1, Sold: 2}) {
		t.Fatalf("stats = %+v", st)
	}

	cats, err := repos.NewCategoryRepo(r.DB()).Available(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 1 || cats[0] != "Desk" {
		t.Fatalf("categories = %v", cats)
	}
}

func TestProductRepo_DeleteSoldBefore(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(memdb(t))
	old := mustCreate(t, r, "Old", "Sofa", 1, t0)
	recent := mustCreate(t, r, "Recent", "Sofa", 1, t0)
	avail := mustCreate(t, r, "Avail", "Sofa", 1, t0)

	if _, err := r.ToggleSold(ctx, old.ID, t0.AddDate(0, -2, 0)); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ToggleSold(ctx, recent.ID, t0.AddDate(0, 0, -3)); err != nil {
		t.Fatal(err)
	}

	ids, err := r.DeleteSoldBefore(ctx, t0.AddDate(0, -1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != old.ID {
		t.Fatalf("deleted = %v", ids)
	}
	for _, id := range []int64{recent.ID, avail.ID} {
		if _, err := r.Get(ctx, id); err != nil {
			t.Fatalf("product %d should remain: %v", id, err)
		}
	}

	ids, err = r.DeleteSoldBefore(ctx, t0.AddDate(0, -1, 0))
	if err != nil || len(ids) != 0 {
		t.Fatalf("second sweep = %v %v", ids, err)
	}
}

func TestProductRepo_Delete(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(memdb(t))
	p := mustCreate(t, r, "Gone", "Sofa", 1, t0)

	del, err := r.Delete(ctx, p.ID)
	if err != nil || del.Name != "Gone" {
		t.Fatalf("delete = %+v %v", del, err)
	}
	if _, err := r.Delete(ctx, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	next := mustCreate(t, r, "Next", "Sofa", 1, t0)
	if next.ID == p.ID {
		t.Fatal("ids must not be reused")
	}
}
