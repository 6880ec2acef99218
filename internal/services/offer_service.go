package services

import (
	"boxd/internal/repos"
)

// OfferService builds the read-only offer listing over committed plan and
// catalog state.
type OfferService struct {
	Plans *repos.PlanRepo
}

func NewOfferService(plans *repos.PlanRepo) *OfferService { return &OfferService{Plans: plans} }

// OfferTotals aggregates a listing: unique provider count, per-type unit
// sums and the grand total.
type OfferTotals struct {
	OffersNum      int `json:"offersNum"`
	OffersStandard int `json:"offersStandard"`
	OffersVegan    int `json:"offersVegan"`
	OffersDiabetic int `json:"offersDiabetic"`
	OffersUnit     int `json:"offersUnit"`
}

// List returns offer rows for the range, optionally limited to one provider
// (providerID = 0 means all), together with their totals.
func (s *OfferService) List(startDate, endDate string, providerID int64) ([]repos.OfferRow, OfferTotals, error) {
	rows, err := s.Plans.ListRange(startDate, endDate, providerID)
	if err != nil {
		return nil, OfferTotals{}, err
	}

	var totals OfferTotals
	providers := map[int64]struct{}{}
	for _, r := range rows {
		providers[r.ProviderID] = struct{}{}
		totals.OffersStandard += r.StandardUnit
		totals.OffersVegan += r.VeganUnit
		totals.OffersDiabetic += r.DiabeticUnit
	}
	totals.OffersNum = len(providers)
	totals.OffersUnit = totals.OffersStandard + totals.OffersVegan + totals.OffersDiabetic

	return rows, totals, nil
}
