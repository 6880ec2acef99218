package services_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"boxd/internal/domain"
	"boxd/internal/repos"
	"boxd/internal/services"
)

// memdb opens the real schema (plus seed accounts) in memory. A single
// connection keeps every sqlx handle on the same in-memory database.
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newAllocation(db *sqlx.DB) *services.AllocationService {
	return services.NewAllocationService(db,
		repos.NewCatalogRepo(db), repos.NewPlanRepo(db), repos.NewReservationRepo(db))
}

func TestAddInventory_BootstrapsCatalogAndPlan(t *testing.T) {
	db := memdb(t)
	alloc := newAllocation(db)
	plans := repos.NewPlanRepo(db)

	pickup, err := alloc.AddInventory(1, "2026-09-07", domain.BoxStandard, 10, "09:00", "")
	if err != nil {
		t.Fatal(err)
	}
	if pickup != "09:00" {
		t.Fatalf("want pickup 09:00, got %s", pickup)
	}

	p, err := plans.Get(1, "2026-09-07")
	if err != nil {
		t.Fatal(err)
	}
	if p.StandardQuantity != 10 || p.VeganQuantity != 0 || p.DiabeticQuantity != 0 {
		t.Fatalf("bad plan quantities: %+v", p)
	}
	if p.PickupTime != "09:00" {
		t.Fatalf("want pickup_time 09:00, got %s", p.PickupTime)
	}

	// catalog bootstrapped with three empty entries
	boxes, err := repos.NewCatalogRepo(db).List(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(boxes) != 3 {
		t.Fatalf("want 3 catalog rows, got %d", len(boxes))
	}
	for _, b := range boxes {
		if b.Description != "" {
			t.Fatalf("want empty description for %s, got %q", b.Type, b.Description)
		}
	}
}

func TestAddInventory_PickupTimeFallsBackToLatestPlan(t *testing.T) {
	db := memdb(t)
	alloc := newAllocation(db)

	if _, err := alloc.AddInventory(1, "2026-09-07", domain.BoxStandard, 5, "09:00", ""); err != nil {
		t.Fatal(err)
	}
	pickup, err := alloc.AddInventory(1, "2026-09-14", domain.BoxVegan, 3, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if pickup != "09:00" {
		t.Fatalf("want inherited pickup 09:00, got %s", pickup)
	}
}

func TestAddInventory_NoPickupTimeAndNoPriorPlan(t *testing.T) {
	db := memdb(t)
	alloc := newAllocation(db)

	_, err := alloc.AddInventory(1, "2026-09-07", domain.BoxStandard, 10, "", "")
	if !errors.Is(err, domain.ErrPickupTimeRequired) {
		t.Fatalf("want ErrPickupTimeRequired, got %v", err)
	}

	// the failed workflow rolled everything back: no plan, no catalog rows
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM weekly_plans WHERE provider_id=1`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("want 0 plans, got %d", n)
	}
	if err := db.Get(&n, `SELECT COUNT(*) FROM boxes WHERE provider_id=1`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("want 0 catalog rows, got %d", n)
	}
}

func TestAddInventory_DescriptionTouchesOnlyTargetType(t *testing.T) {
	db := memdb(t)
	alloc := newAllocation(db)

	if _, err := alloc.AddInventory(1, "2026-09-07", domain.BoxVegan, 4, "10:30", "seasonal greens"); err != nil {
		t.Fatal(err)
	}
	boxes, err := repos.NewCatalogRepo(db).List(1)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range boxes {
		want := ""
		if b.Type == "Vegan" {
			want = "seasonal greens"
		}
		if b.Description != want {
			t.Fatalf("box %s: want description %q, got %q", b.Type, want, b.Description)
		}
	}
}

func standardBoxID(t *testing.T, db *sqlx.DB, providerID int64) int64 {
	t.Helper()
	var id int64
	if err := db.Get(&id, `SELECT id FROM boxes WHERE provider_id=? AND type='Standard'`, providerID); err != nil {
		t.Fatal(err)
	}
	return id
}

func TestReserve_RoundTrip(t *testing.T) {
	db := memdb(t)
	alloc := newAllocation(db)
	plans := repos.NewPlanRepo(db)

	if _, err := alloc.AddInventory(1, "2026-09-07", domain.BoxStandard, 5, "09:00", ""); err != nil {
		t.Fatal(err)
	}
	boxID := standardBoxID(t, db, 1)

	id, err := alloc.Reserve(1, 1, boxID, "2026-09-07", 3)
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("no reservation id")
	}

	p, err := plans.Get(1, "2026-09-07")
	if err != nil {
		t.Fatal(err)
	}
	if p.StandardQuantity != 2 {
		t.Fatalf("want 2 remaining, got %d", p.StandardQuantity)
	}

	// a zero addition touches nothing
	if _, err := alloc.AddInventory(1, "2026-09-07", domain.BoxStandard, 0, "", ""); err != nil {
		t.Fatal(err)
	}
	p, _ = plans.Get(1, "2026-09-07")
	if p.StandardQuantity != 2 {
		t.Fatalf("zero add changed quantity: %d", p.StandardQuantity)
	}

	// second reserve for 3 exceeds the 2 remaining
	_, err = alloc.Reserve(1, 1, boxID, "2026-09-07", 3)
	if !errors.Is(err, domain.ErrInsufficientInventory) {
		t.Fatalf("want ErrInsufficientInventory, got %v", err)
	}

	// quantity unchanged and only the first reservation exists
	p, _ = plans.Get(1, "2026-09-07")
	if p.StandardQuantity != 2 {
		t.Fatalf("failed reserve changed quantity: %d", p.StandardQuantity)
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM reservations`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want 1 reservation row, got %d", n)
	}
}

func TestReserve_UnknownBox(t *testing.T) {
	db := memdb(t)
	alloc := newAllocation(db)

	_, err := alloc.Reserve(1, 1, 9999, "2026-09-07", 1)
	if !errors.Is(err, domain.ErrBoxTypeNotFound) {
		t.Fatalf("want ErrBoxTypeNotFound, got %v", err)
	}
}

func TestReserve_NoPlanReadsAsInsufficient(t *testing.T) {
	db := memdb(t)
	alloc := newAllocation(db)

	// catalog exists but no plan for the date
	if err := repos.NewCatalogRepo(db).EnsureCatalog(db, 1); err != nil {
		t.Fatal(err)
	}
	boxID := standardBoxID(t, db, 1)

	_, err := alloc.Reserve(1, 1, boxID, "2026-09-07", 1)
	if !errors.Is(err, domain.ErrInsufficientInventory) {
		t.Fatalf("want ErrInsufficientInventory, got %v", err)
	}
}

func TestReserve_LastUnitHasOneWinner(t *testing.T) {
	db := memdb(t)
	alloc := newAllocation(db)
	plans := repos.NewPlanRepo(db)

	if _, err := alloc.AddInventory(1, "2026-09-07", domain.BoxStandard, 1, "09:00", ""); err != nil {
		t.Fatal(err)
	}
	boxID := standardBoxID(t, db, 1)

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = alloc.Reserve(int64(i+1), 1, boxID, "2026-09-07", 1)
		}(i)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrInsufficientInventory):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || losses != 1 {
		t.Fatalf("want exactly one winner, got wins=%d losses=%d", wins, losses)
	}

	p, err := plans.Get(1, "2026-09-07")
	if err != nil {
		t.Fatal(err)
	}
	if p.StandardQuantity != 0 {
		t.Fatalf("want 0 remaining, got %d", p.StandardQuantity)
	}
}
