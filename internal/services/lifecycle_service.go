package services

import (
	"boxd/internal/domain"
	"boxd/internal/repos"
)

// LifecycleService advances reservations through the forward-only
// active -> ready -> issued machine. Bulk operations report how many rows
// moved; zero matches surfaces as a distinct benign error.
type LifecycleService struct {
	Res *repos.ReservationRepo
}

func NewLifecycleService(res *repos.ReservationRepo) *LifecycleService {
	return &LifecycleService{Res: res}
}

func (s *LifecycleService) MarkReadyAll(providerID int64, date string) (int64, error) {
	return checkMatched(s.Res.MarkReadyAll(providerID, date))
}

func (s *LifecycleService) MarkReadyByType(providerID int64, boxType domain.BoxType, date string) (int64, error) {
	return checkMatched(s.Res.MarkReadyByType(providerID, boxType.Name(), date))
}

func (s *LifecycleService) MarkReadyForUser(providerID, userID int64, date string) (int64, error) {
	return checkMatched(s.Res.MarkReadyForUser(providerID, userID, date))
}

func (s *LifecycleService) MarkReadyByID(id int64) error {
	n, err := s.Res.MarkReadyByID(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrReservationNotActive
	}
	return nil
}

func (s *LifecycleService) IssueForUser(providerID, userID int64, date string) (int64, error) {
	return checkMatched(s.Res.IssueForUser(providerID, userID, date))
}

func (s *LifecycleService) IssueByID(id int64) error {
	n, err := s.Res.IssueByID(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrReservationNotReady
	}
	return nil
}

func checkMatched(n int64, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, domain.ErrNoMatchingReservations
	}
	return n, nil
}

// ---------- Views ----------

// ActiveForUser returns a user's reserved and ready rows with display
// status labels, optionally for one date.
func (s *LifecycleService) ActiveForUser(userID int64, date string) ([]repos.UserReservationRow, error) {
	rows, err := s.Res.ActiveForUser(userID, date)
	if err != nil {
		return nil, err
	}
	labelUserRows(rows)
	return rows, nil
}

func (s *LifecycleService) ActiveForProvider(providerID int64, startDate, endDate string) ([]repos.ProviderReservationRow, error) {
	rows, err := s.Res.ActiveForProvider(providerID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	labelProviderRows(rows)
	return rows, nil
}

// HistoryForUser returns a user's issued reservations over a date range.
func (s *LifecycleService) HistoryForUser(userID int64, startDate, endDate string) ([]repos.UserReservationRow, error) {
	rows, err := s.Res.HistoryForUser(userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	labelUserRows(rows)
	return rows, nil
}

func (s *LifecycleService) HistoryForProvider(providerID int64, startDate, endDate string) ([]repos.ProviderReservationRow, error) {
	rows, err := s.Res.HistoryForProvider(providerID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	labelProviderRows(rows)
	return rows, nil
}

func labelUserRows(rows []repos.UserReservationRow) {
	for i := range rows {
		rows[i].Status = domain.StatusLabel(rows[i].Status)
	}
}

func labelProviderRows(rows []repos.ProviderReservationRow) {
	for i := range rows {
		rows[i].Status = domain.StatusLabel(rows[i].Status)
	}
}
