package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"boxd/internal/domain"
	applog "boxd/internal/log"
	"boxd/internal/services"
	"boxd/internal/validate"
)

type ReservationHandler struct {
	Alloc     *services.AllocationService
	Lifecycle *services.LifecycleService
}

type createReservationRequest struct {
	UserID     int64  `json:"user_id"`
	ProviderID int64  `json:"provider_id"`
	BoxID      int64  `json:"box_id"`
	Date       string `json:"date"`
	Quantity   int    `json:"quantity"`
}

// Create claims units out of a weekly plan: POST /api/v1/reservations
func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	var req createReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	if req.UserID <= 0 {
		return badRequest(c, "user_id")
	}
	if req.ProviderID <= 0 {
		return badRequest(c, "provider_id")
	}
	if req.BoxID <= 0 {
		return badRequest(c, "box_id")
	}
	date, ok := validate.Date(req.Date)
	if !ok {
		return badRequest(c, "date")
	}
	qty, ok := validate.Qty(req.Quantity)
	if !ok {
		return badRequest(c, "quantity")
	}

	id, err := h.Alloc.Reserve(req.UserID, req.ProviderID, req.BoxID, date, qty)
	if err != nil {
		return fail(c, "reservation.create.fail", err)
	}
	applog.Audit(c, "reservation.create", map[string]any{
		"reservation_id": id, "user_id": req.UserID, "provider_id": req.ProviderID,
		"box_id": req.BoxID, "date": date, "quantity": qty,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Reservation successfully created", "id": id})
}

// ActiveForUser: GET /api/v1/reservations/user/:userId?date
func (h *ReservationHandler) ActiveForUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil || userID <= 0 {
		return badRequest(c, "userId")
	}
	date := ""
	if s := c.Query("date"); s != "" {
		d, ok := validate.Date(s)
		if !ok {
			return badRequest(c, "date")
		}
		date = d
	}
	rows, err := h.Lifecycle.ActiveForUser(userID, date)
	if err != nil {
		return fail(c, "reservation.user.list.fail", err)
	}
	return c.JSON(rows)
}

// ActiveForProvider: GET /api/v1/reservations/provider/:providerId?startDate&endDate
func (h *ReservationHandler) ActiveForProvider(c *fiber.Ctx) error {
	providerID, err := strconv.ParseInt(c.Params("providerId"), 10, 64)
	if err != nil || providerID <= 0 {
		return badRequest(c, "providerId")
	}
	startDate, endDate, ok := optionalRange(c)
	if !ok {
		return badRequest(c, "date range")
	}
	rows, err := h.Lifecycle.ActiveForProvider(providerID, startDate, endDate)
	if err != nil {
		return fail(c, "reservation.provider.list.fail", err)
	}
	return c.JSON(rows)
}

type bulkTransitionRequest struct {
	ProviderID int64  `json:"provider_id"`
	UserID     int64  `json:"user_id"`
	BoxType    string `json:"box_type"`
	Date       string `json:"date"`
}

// ReadyAll: POST /api/v1/reservations/ready/all
func (h *ReservationHandler) ReadyAll(c *fiber.Ctx) error {
	req, ok := parseBulk(c, false)
	if !ok {
		return nil
	}
	n, err := h.Lifecycle.MarkReadyAll(req.ProviderID, req.Date)
	if err != nil {
		return fail(c, "reservation.ready.all.fail", err)
	}
	applog.Audit(c, "reservation.ready.all", map[string]any{"provider_id": req.ProviderID, "date": req.Date, "count": n})
	return c.JSON(fiber.Map{"message": "All reservations for this store on the specified date have been marked as ready"})
}

// ReadyByType: POST /api/v1/reservations/ready/type
func (h *ReservationHandler) ReadyByType(c *fiber.Ctx) error {
	req, ok := parseBulk(c, false)
	if !ok {
		return nil
	}
	boxType, okType := domain.BoxTypeFromName(req.BoxType)
	if !okType {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid box type"})
	}
	n, err := h.Lifecycle.MarkReadyByType(req.ProviderID, boxType, req.Date)
	if err != nil {
		return fail(c, "reservation.ready.type.fail", err)
	}
	applog.Audit(c, "reservation.ready.type", map[string]any{"provider_id": req.ProviderID, "type": req.BoxType, "date": req.Date, "count": n})
	return c.JSON(fiber.Map{"message": "All reservations of this type for this store on the specified date have been marked as ready"})
}

// ReadyForUser: POST /api/v1/reservations/ready/user
func (h *ReservationHandler) ReadyForUser(c *fiber.Ctx) error {
	req, ok := parseBulk(c, true)
	if !ok {
		return nil
	}
	n, err := h.Lifecycle.MarkReadyForUser(req.ProviderID, req.UserID, req.Date)
	if err != nil {
		return fail(c, "reservation.ready.user.fail", err)
	}
	applog.Audit(c, "reservation.ready.user", map[string]any{"provider_id": req.ProviderID, "user_id": req.UserID, "date": req.Date, "count": n})
	return c.JSON(fiber.Map{"message": "All reservations for this user on the specified date have been marked as ready"})
}

// ReadyByID: POST /api/v1/reservations/ready/:id
func (h *ReservationHandler) ReadyByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return badRequest(c, "id")
	}
	if err := h.Lifecycle.MarkReadyByID(id); err != nil {
		return fail(c, "reservation.ready.fail", err)
	}
	applog.Audit(c, "reservation.ready", map[string]any{"reservation_id": id})
	return c.JSON(fiber.Map{"message": "Reservation has been successfully marked as ready"})
}

// IssueForUser: POST /api/v1/reservations/issue/all
func (h *ReservationHandler) IssueForUser(c *fiber.Ctx) error {
	req, ok := parseBulk(c, true)
	if !ok {
		return nil
	}
	n, err := h.Lifecycle.IssueForUser(req.ProviderID, req.UserID, req.Date)
	if err != nil {
		return fail(c, "reservation.issue.all.fail", err)
	}
	applog.Audit(c, "reservation.issue.all", map[string]any{"provider_id": req.ProviderID, "user_id": req.UserID, "date": req.Date, "count": n})
	return c.JSON(fiber.Map{"message": "All reservations for the user on this date have been issued"})
}

// IssueByID: POST /api/v1/reservations/issue/:id
func (h *ReservationHandler) IssueByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return badRequest(c, "id")
	}
	if err := h.Lifecycle.IssueByID(id); err != nil {
		return fail(c, "reservation.issue.fail", err)
	}
	applog.Audit(c, "reservation.issue", map[string]any{"reservation_id": id})
	return c.JSON(fiber.Map{"message": "Reservation has been successfully issued"})
}

// HistoryForUser: GET /api/v1/reservations/user/:userId/history?startDate&endDate
func (h *ReservationHandler) HistoryForUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil || userID <= 0 {
		return badRequest(c, "userId")
	}
	startDate, endDate, ok := optionalRange(c)
	if !ok {
		return badRequest(c, "date range")
	}
	rows, err := h.Lifecycle.HistoryForUser(userID, startDate, endDate)
	if err != nil {
		return fail(c, "reservation.user.history.fail", err)
	}
	return c.JSON(rows)
}

// HistoryForProvider: GET /api/v1/reservations/provider/:providerId/history?startDate&endDate
func (h *ReservationHandler) HistoryForProvider(c *fiber.Ctx) error {
	providerID, err := strconv.ParseInt(c.Params("providerId"), 10, 64)
	if err != nil || providerID <= 0 {
		return badRequest(c, "providerId")
	}
	startDate, endDate, ok := optionalRange(c)
	if !ok {
		return badRequest(c, "date range")
	}
	rows, err := h.Lifecycle.HistoryForProvider(providerID, startDate, endDate)
	if err != nil {
		return fail(c, "reservation.provider.history.fail", err)
	}
	return c.JSON(rows)
}

// parseBulk validates the shared bulk-transition body. On failure it writes
// the response itself and reports !ok.
func parseBulk(c *fiber.Ctx, needUser bool) (bulkTransitionRequest, bool) {
	var req bulkTransitionRequest
	if err := c.BodyParser(&req); err != nil {
		_ = badRequest(c, "body")
		return req, false
	}
	if req.ProviderID <= 0 {
		_ = badRequest(c, "provider_id")
		return req, false
	}
	if needUser && req.UserID <= 0 {
		_ = badRequest(c, "user_id")
		return req, false
	}
	date, ok := validate.Date(req.Date)
	if !ok {
		_ = badRequest(c, "date")
		return req, false
	}
	req.Date = date
	return req, true
}

// optionalRange reads startDate/endDate, which must be supplied together or
// not at all.
func optionalRange(c *fiber.Ctx) (string, string, bool) {
	start, end := c.Query("startDate"), c.Query("endDate")
	if start == "" && end == "" {
		return "", "", true
	}
	s, ok := validate.Date(start)
	if !ok {
		return "", "", false
	}
	e, ok := validate.Date(end)
	if !ok {
		return "", "", false
	}
	return s, e, true
}
