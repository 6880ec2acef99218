package services

import (
	"errors"

	"github.com/jmoiron/sqlx"

	"boxd/internal/domain"
	"boxd/internal/repos"
)

// CatalogService serves the provider's current box view and description
// edits.
type CatalogService struct {
	DB      *sqlx.DB
	Catalog *repos.CatalogRepo
	Plans   *repos.PlanRepo
}

func NewCatalogService(db *sqlx.DB, catalog *repos.CatalogRepo, plans *repos.PlanRepo) *CatalogService {
	return &CatalogService{DB: db, Catalog: catalog, Plans: plans}
}

type BoxInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type BoxesView struct {
	Boxes      []BoxInfo `json:"boxes"`
	PickupTime *string   `json:"pickup_time"`
}

// CurrentBoxes returns the provider's catalog plus the most recent plan's
// pickup time (null when the provider has no plan yet). Reading bootstraps
// the catalog if it is empty; callers rely on that first-touch behavior.
func (s *CatalogService) CurrentBoxes(providerID int64) (BoxesView, error) {
	if err := s.Catalog.EnsureCatalog(s.DB, providerID); err != nil {
		return BoxesView{}, err
	}

	boxes, err := s.Catalog.List(providerID)
	if err != nil {
		return BoxesView{}, err
	}

	view := BoxesView{Boxes: make([]BoxInfo, 0, len(boxes))}
	for _, b := range boxes {
		view.Boxes = append(view.Boxes, BoxInfo{Type: b.Type, Description: b.Description})
	}

	t, err := s.Plans.LatestPickupTime(s.DB, providerID)
	if err != nil {
		if errors.Is(err, domain.ErrPickupTimeRequired) {
			return view, nil
		}
		return BoxesView{}, err
	}
	view.PickupTime = &t
	return view, nil
}

// SetDescription updates one box type's description for a provider.
func (s *CatalogService) SetDescription(providerID int64, boxType domain.BoxType, text string) error {
	return s.Catalog.SetDescription(s.DB, providerID, boxType, text)
}
