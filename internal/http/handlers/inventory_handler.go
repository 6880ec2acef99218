package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"boxd/internal/domain"
	applog "boxd/internal/log"
	"boxd/internal/services"
	"boxd/internal/validate"
)

type InventoryHandler struct {
	Alloc   *services.AllocationService
	Catalog *services.CatalogService
	Offers  *services.OfferService
}

type addInventoryRequest struct {
	ProviderID  int64  `json:"provider_id"`
	Date        string `json:"date"`
	Type        int    `json:"type"`
	Quantity    int    `json:"quantity"`
	PickupTime  string `json:"pickup_time"`
	Description string `json:"description"`
}

// Add publishes boxes for a week: POST /api/v1/inventory/add
func (h *InventoryHandler) Add(c *fiber.Ctx) error {
	var req addInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	if req.ProviderID <= 0 {
		return badRequest(c, "provider_id")
	}
	boxType, ok := domain.ParseBoxType(req.Type)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid box type"})
	}
	date, ok := validate.Date(req.Date)
	if !ok {
		return badRequest(c, "date")
	}
	// zero is allowed here: it retimes or redescribes without adding stock
	if req.Quantity < 0 || req.Quantity > 1000 {
		return badRequest(c, "quantity")
	}
	qty := req.Quantity
	if req.PickupTime != "" {
		pt, ok := validate.ClockTime(req.PickupTime)
		if !ok {
			return badRequest(c, "pickup_time")
		}
		req.PickupTime = pt
	}

	pickup, err := h.Alloc.AddInventory(req.ProviderID, date, boxType, qty, req.PickupTime, req.Description)
	if err != nil {
		return fail(c, "inventory.add.fail", err)
	}
	applog.Audit(c, "inventory.add", map[string]any{
		"provider_id": req.ProviderID, "week_start": date, "type": boxType.Name(), "quantity": qty,
	})
	return c.JSON(fiber.Map{"message": "Box quantity updated successfully", "pickup_time": pickup})
}

// Current returns the provider's box catalog and latest pickup time:
// GET /api/v1/inventory/:providerId
// First read for a provider creates its three empty catalog rows.
func (h *InventoryHandler) Current(c *fiber.Ctx) error {
	providerID, err := strconv.ParseInt(c.Params("providerId"), 10, 64)
	if err != nil || providerID <= 0 {
		return badRequest(c, "providerId")
	}
	view, err := h.Catalog.CurrentBoxes(providerID)
	if err != nil {
		return fail(c, "inventory.current.fail", err)
	}
	return c.JSON(view)
}

type setDescriptionRequest struct {
	ProviderID  int64  `json:"provider_id"`
	Type        int    `json:"type"`
	Description string `json:"description"`
}

// SetDescription updates a catalog entry: PUT /api/v1/inventory/description
func (h *InventoryHandler) SetDescription(c *fiber.Ctx) error {
	var req setDescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	if req.ProviderID <= 0 {
		return badRequest(c, "provider_id")
	}
	boxType, ok := domain.ParseBoxType(req.Type)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid box type"})
	}
	if err := h.Catalog.SetDescription(req.ProviderID, boxType, req.Description); err != nil {
		return fail(c, "inventory.description.fail", err)
	}
	applog.Audit(c, "inventory.description", map[string]any{
		"provider_id": req.ProviderID, "type": boxType.Name(),
	})
	return c.JSON(fiber.Map{"message": "Description updated successfully"})
}

// ListRange returns weekly rows with joined descriptions:
// GET /api/v1/inventory?providerId&startDate&endDate
func (h *InventoryHandler) ListRange(c *fiber.Ctx) error {
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
	rows, _, err := h.Offers.List(startDate, endDate, providerID)
	if err != nil {
		return fail(c, "inventory.list.fail", err)
	}
	return c.JSON(rows)
}
