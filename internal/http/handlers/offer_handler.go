package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"boxd/internal/services"
	"boxd/internal/validate"
)

type OfferHandler struct {
	Offers *services.OfferService
}

// List: GET /api/v1/offers?startDate&endDate&providerId?&includeTotals?&onlyTotals?
//
// onlyTotals=true returns the totals object alone; includeTotals=true
// appends the totals object after the rows, as the reporting clients expect.
func (h *OfferHandler) List(c *fiber.Ctx) error {
	startDate, ok := validate.Date(c.Query("startDate"))
	if !ok {
		return badRequest(c, "startDate")
	}
	endDate, ok := validate.Date(c.Query("endDate"))
	if !ok {
		return badRequest(c, "endDate")
	}
	var providerID int64
	if s := c.Query("providerId"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return badRequest(c, "providerId")
		}
		providerID = id
	}

	rows, totals, err := h.Offers.List(startDate, endDate, providerID)
	if err != nil {
		return fail(c, "offers.list.fail", err)
	}

	if c.Query("onlyTotals") == "true" {
		return c.JSON(totals)
	}
	if c.Query("includeTotals") == "true" {
		out := make([]any, 0, len(rows)+1)
		for _, r := range rows {
			out = append(out, r)
		}
		out = append(out, totals)
		return c.JSON(out)
	}
	return c.JSON(rows)
}
