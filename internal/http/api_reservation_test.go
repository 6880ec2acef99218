package handlers_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestReservationCreate_AndInsufficient(t *testing.T) {
	app, db := newAPIApp(t)
	boxID := addBoxes(t, app, db, 5)

	resp := doJSON(t, app, "POST", "/api/v1/reservations", fiber.Map{
		"user_id": 1, "provider_id": 1, "box_id": boxID, "date": "2026-09-07", "quantity": 3,
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("want 201, got %d", resp.StatusCode)
	}

	// 3 of 5 gone; asking for another 3 must fail without side effects
	resp = doJSON(t, app, "POST", "/api/v1/reservations", fiber.Map{
		"user_id": 2, "provider_id": 1, "box_id": boxID, "date": "2026-09-07", "quantity": 3,
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
	var remaining int
	if err := db.Get(&remaining, `SELECT standard_quantity FROM weekly_plans WHERE provider_id=1 AND week_start='2026-09-07'`); err != nil {
		t.Fatal(err)
	}
	if remaining != 2 {
		t.Fatalf("want 2 remaining, got %d", remaining)
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM reservations`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want 1 reservation, got %d", n)
	}
}

func TestReservationCreate_UnknownBox(t *testing.T) {
	app, _ := newAPIApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/reservations", fiber.Map{
		"user_id": 1, "provider_id": 1, "box_id": 424242, "date": "2026-09-07", "quantity": 1,
	})
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("want 404, got %d", resp.StatusCode)
	}
}

func TestReservationLifecycleRoutes(t *testing.T) {
	app, db := newAPIApp(t)
	boxID := addBoxes(t, app, db, 5)

	var created struct {
		ID int64 `json:"id"`
	}
	resp := doJSON(t, app, "POST", "/api/v1/reservations", fiber.Map{
		"user_id": 1, "provider_id": 1, "box_id": boxID, "date": "2026-09-07", "quantity": 1,
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create failed: %d", resp.StatusCode)
	}
	decode(t, resp, &created)

	// issuing before ready is a 404, status untouched
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/reservations/issue/%d", created.ID), nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("want 404 for early issue, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/reservations/ready/%d", created.ID), nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("ready failed: %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/reservations/issue/%d", created.ID), nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("issue failed: %d", resp.StatusCode)
	}

	// history now shows the delivered row
	resp = doJSON(t, app, "GET", "/api/v1/reservations/user/1/history", nil)
	var hist []struct {
		Status string `json:"status"`
	}
	decode(t, resp, &hist)
	if len(hist) != 1 || hist[0].Status != "Delivered" {
		t.Fatalf("want one Delivered row, got %+v", hist)
	}
}

func TestReservationBulkReady_NoMatches(t *testing.T) {
	app, _ := newAPIApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/reservations/ready/all", fiber.Map{
		"provider_id": 1, "date": "2026-09-07",
	})
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("want 404 when nothing matches, got %d", resp.StatusCode)
	}
}

func TestReservationBulkReadyAndIssueForUser(t *testing.T) {
	app, db := newAPIApp(t)
	boxID := addBoxes(t, app, db, 5)

	for _, user := range []int{1, 2} {
		resp := doJSON(t, app, "POST", "/api/v1/reservations", fiber.Map{
			"user_id": user, "provider_id": 1, "box_id": boxID, "date": "2026-09-07", "quantity": 1,
		})
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("create for user %d failed: %d", user, resp.StatusCode)
		}
	}

	resp := doJSON(t, app, "POST", "/api/v1/reservations/ready/all", fiber.Map{
		"provider_id": 1, "date": "2026-09-07",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("ready all failed: %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "POST", "/api/v1/reservations/issue/all", fiber.Map{
		"provider_id": 1, "user_id": 1, "date": "2026-09-07",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("issue all failed: %d", resp.StatusCode)
	}

	// user 2's reservation is still ready, user 1's is gone from active
	resp = doJSON(t, app, "GET", "/api/v1/reservations/provider/1", nil)
	var active []struct {
		UserID int64  `json:"user_id"`
		Status string `json:"status"`
	}
	decode(t, resp, &active)
	if len(active) != 1 || active[0].UserID != 2 || active[0].Status != "Ready for Pickup" {
		t.Fatalf("want user 2 Ready for Pickup, got %+v", active)
	}
}

func TestReservationActiveView_StatusLabels(t *testing.T) {
	app, db := newAPIApp(t)
	boxID := addBoxes(t, app, db, 5)

	resp := doJSON(t, app, "POST", "/api/v1/reservations", fiber.Map{
		"user_id": 1, "provider_id": 1, "box_id": boxID, "date": "2026-09-07", "quantity": 2,
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create failed: %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "GET", "/api/v1/reservations/user/1?date=2026-09-07", nil)
	var rows []struct {
		Status       string `json:"status"`
		Type         string `json:"type"`
		ProviderName string `json:"provider_name"`
	}
	decode(t, resp, &rows)
	if len(rows) != 1 || rows[0].Status != "Reserved" || rows[0].Type != "Standard" {
		t.Fatalf("bad active view: %+v", rows)
	}
	if rows[0].ProviderName == "" {
		t.Fatal("provider identity missing from view")
	}
}
