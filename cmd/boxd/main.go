package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"boxd/internal/config"
	"boxd/internal/http/handlers"
	applog "boxd/internal/log"
	"boxd/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and answer with a friendly message; no internals leak.
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong. Please try again.",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// ---------- Routes ----------
	deps := handlers.NewDeps(db)
	api := app.Group("/api/v1")

	// Inventory
	api.Post("/inventory/add", deps.InventoryHandler.Add)
	api.Put("/inventory/description", deps.InventoryHandler.SetDescription)
	api.Get("/inventory", deps.InventoryHandler.ListRange)
	api.Get("/inventory/:providerId", deps.InventoryHandler.Current)

	// Reservations (reserve endpoint gets its own tighter limiter)
	reserveLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|reserve"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.reserve.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Post("/reservations", reserveLimiter, deps.ReservationHandler.Create)
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

	// Offers (read-only reporting)
	api.Get("/offers", deps.OfferHandler.List)

	// Identity
	api.Post("/auth/register/user", deps.AuthHandler.RegisterUser)
	api.Post("/auth/register/provider", deps.AuthHandler.RegisterProvider)
	api.Post("/auth/login", deps.AuthHandler.Login)
	api.Get("/auth/me", deps.AuthHandler.Me)
	api.Post("/auth/logout", deps.AuthHandler.Logout)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
