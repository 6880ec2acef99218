package services

import (
	"errors"

	"github.com/jmoiron/sqlx"

	"boxd/internal/domain"
	"boxd/internal/repos"
)

// AllocationService runs the two multi-step inventory workflows. Each call
// is one transaction: either every row change commits or none does.
type AllocationService struct {
	DB      *sqlx.DB
	Catalog *repos.CatalogRepo
	Plans   *repos.PlanRepo
	Res     *repos.ReservationRepo
}

func NewAllocationService(db *sqlx.DB, catalog *repos.CatalogRepo, plans *repos.PlanRepo, res *repos.ReservationRepo) *AllocationService {
	return &AllocationService{DB: db, Catalog: catalog, Plans: plans, Res: res}
}

// AddInventory publishes quantity units of one box type for (provider,
// weekStart), bootstrapping catalog and plan rows on first touch. Returns
// the plan's effective pickup time.
//
// Pickup time resolution: explicit argument, else the provider's most
// recent plan, else ErrPickupTimeRequired.
func (s *AllocationService) AddInventory(providerID int64, weekStart string, boxType domain.BoxType, quantity int, pickupTime, description string) (string, error) {
	tx, err := s.DB.Beginx()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Catalog.EnsureCatalog(tx, providerID); err != nil {
		return "", err
	}
	if description != "" {
		if err := s.Catalog.SetDescription(tx, providerID, boxType, description); err != nil {
			return "", err
		}
	}

	effective := pickupTime
	if effective == "" {
		effective, err = s.Plans.LatestPickupTime(tx, providerID)
		if err != nil {
			return "", err
		}
	}

	if err := s.Plans.EnsurePlan(tx, providerID, weekStart, effective); err != nil {
		return "", err
	}
	if err := s.Plans.ApplyQuantityDelta(tx, providerID, weekStart, boxType, quantity); err != nil {
		return "", err
	}
	// An explicit pickup time also retimes an already existing plan.
	if pickupTime != "" {
		if err := s.Plans.SetPickupTime(tx, providerID, weekStart, pickupTime); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return effective, nil
}

// Reserve claims quantity units of the box's type from the provider's plan
// for date and records the reservation. Decrement and insert share the
// transaction, so an insufficient balance leaves no reservation behind.
func (s *AllocationService) Reserve(userID, providerID, boxID int64, date string, quantity int) (int64, error) {
	tx, err := s.DB.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	boxType, err := s.Catalog.TypeOf(tx, boxID)
	if err != nil {
		return 0, err
	}

	if err := s.Plans.ApplyQuantityDelta(tx, providerID, date, boxType, -quantity); err != nil {
		// The original reports a missing plan the same way as an empty one.
		if errors.Is(err, domain.ErrPlanNotFound) {
			return 0, domain.ErrInsufficientInventory
		}
		return 0, err
	}

	id, err := s.Res.Insert(tx, userID, providerID, boxID, date, quantity)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}
