package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"boxd/internal/http/handlers"
	applog "boxd/internal/log"
	"boxd/internal/repos"
)

// newAPIApp wires the full route table against an in-memory database.
func newAPIApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong. Please try again.",
			})
		},
	})
	app.Use(requestid.New())
	app.Use(limiter.New(limiter.Config{Max: 1000, Expiration: time.Minute}))

	deps := handlers.NewDeps(db)
	api := app.Group("/api/v1")
	api.Post("/inventory/add", deps.InventoryHandler.Add)
	api.Put("/inventory/description", deps.InventoryHandler.SetDescription)
	api.Get("/inventory", deps.InventoryHandler.ListRange)
	api.Get("/inventory/:providerId", deps.InventoryHandler.Current)
	api.Post("/reservations", deps.ReservationHandler.Create)
	api.Get("/reservations/user/:userId/history", deps.ReservationHandler.HistoryForUser)
	api.Get("/reservations/user/:userId", deps.ReservationHandler.ActiveForUser)
	api.Get("/reservations/provider/:providerId/history", deps.ReservationHandler.HistoryForProvider)
	api.Get("/reservations/provider/:providerId", deps.ReservationHandler.ActiveForProvider)
	api.Post("/reservations/ready/all", deps.ReservationHandler.ReadyAll)
	api.Post("/reservations/ready/type", deps.ReservationHandler.ReadyByType)
	api.Post("/reservations/ready/user", deps.ReservationHandler.ReadyForUser)
	api.Post("/reservations/ready/:id", deps.ReservationHandler.ReadyByID)
	api.Post("/reservations/issue/all", deps.ReservationHandler.IssueForUser)
	api.Post("/reservations/issue/:id", deps.ReservationHandler.IssueByID)
	api.Get("/offers", deps.OfferHandler.List)
	api.Post("/auth/register/user", deps.AuthHandler.RegisterUser)
	api.Post("/auth/register/provider", deps.AuthHandler.RegisterProvider)
	api.Post("/auth/login", deps.AuthHandler.Login)
	api.Get("/auth/me", deps.AuthHandler.Me)
	api.Post("/auth/logout", deps.AuthHandler.Logout)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request failed: %v", err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// addBoxes publishes stock for provider 1 and returns the Standard box id.
func addBoxes(t *testing.T, app *fiber.App, db *sqlx.DB, qty int) int64 {
	t.Helper()
	resp := doJSON(t, app, "POST", "/api/v1/inventory/add", fiber.Map{
		"provider_id": 1, "date": "2026-09-07", "type": 1, "quantity": qty, "pickup_time": "09:00",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("seed add failed: %d", resp.StatusCode)
	}
	var boxID int64
	if err := db.Get(&boxID, `SELECT id FROM boxes WHERE provider_id=1 AND type='Standard'`); err != nil {
		t.Fatal(err)
	}
	return boxID
}
