package domain

import "errors"

// Failure taxonomy surfaced by the store and services. Handlers translate
// these into HTTP statuses; anything else is a store failure (500).
var (
	ErrInsufficientInventory  = errors.New("not enough boxes available")
	ErrPlanNotFound           = errors.New("plan not found for the given provider and date")
	ErrCatalogEntryNotFound   = errors.New("box entry not found")
	ErrBoxTypeNotFound        = errors.New("box type not found")
	ErrPickupTimeRequired     = errors.New("pickup time is required for a new plan and no default time exists")
	ErrNoMatchingReservations = errors.New("no matching reservations")
	ErrReservationNotActive   = errors.New("reservation not found or not active")
	ErrReservationNotReady    = errors.New("reservation not found or already issued")
)
