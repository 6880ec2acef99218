package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"boxd/internal/domain"
	applog "boxd/internal/log"
	"boxd/internal/services"
)

// fail maps a service error onto the HTTP taxonomy: validation and
// insufficient-inventory are 400s, the not-found family is 404, bad
// credentials 401, anything else is a generic 500 with no internal detail.
func fail(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, domain.ErrPickupTimeRequired),
		errors.Is(err, domain.ErrInsufficientInventory):
		applog.Security(c, action, map[string]any{"reason": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, domain.ErrPlanNotFound),
		errors.Is(err, domain.ErrCatalogEntryNotFound),
		errors.Is(err, domain.ErrBoxTypeNotFound),
		errors.Is(err, domain.ErrNoMatchingReservations),
		errors.Is(err, domain.ErrReservationNotActive),
		errors.Is(err, domain.ErrReservationNotReady):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, services.ErrBadCreds):
		applog.Security(c, action, nil)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}
	applog.Error(c, action, err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
}

func badRequest(c *fiber.Ctx, field string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid " + field})
}
