package repos

import (
	"github.com/jmoiron/sqlx"

	"boxd/internal/domain"
)

// ReservationRepo owns the reservations ledger. Rows are never deleted;
// bulk transitions are single conditional updates gated on the current
// status column.
type ReservationRepo struct{ DB *sqlx.DB }

func NewReservationRepo(db *sqlx.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

// Insert records a new reservation with status 'active'.
func (r *ReservationRepo) Insert(q sqlx.Ext, userID, providerID, boxID int64, date string, quantity int) (int64, error) {
	res, err := q.Exec(`
		INSERT INTO reservations(user_id, provider_id, box_id, reservation_date, quantity, status)
		VALUES(?, ?, ?, ?, ?, 'active')
	`, userID, providerID, boxID, date, quantity)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ---------- Bulk status transitions (active -> ready) ----------

func (r *ReservationRepo) MarkReadyAll(providerID int64, date string) (int64, error) {
	res, err := r.DB.Exec(`
		UPDATE reservations SET status = 'ready'
		WHERE provider_id = ? AND reservation_date = ? AND status = 'active'
	`, providerID, date)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ReservationRepo) MarkReadyByType(providerID int64, boxType, date string) (int64, error) {
	res, err := r.DB.Exec(`
		UPDATE reservations SET status = 'ready'
		WHERE provider_id = ?
		  AND box_id IN (SELECT id FROM boxes WHERE type = ?)
		  AND reservation_date = ? AND status = 'active'
	`, providerID, boxType, date)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ReservationRepo) MarkReadyForUser(providerID, userID int64, date string) (int64, error) {
	res, err := r.DB.Exec(`
		UPDATE reservations SET status = 'ready'
		WHERE provider_id = ? AND user_id = ? AND reservation_date = ? AND status = 'active'
	`, providerID, userID, date)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ReservationRepo) MarkReadyByID(id int64) (int64, error) {
	res, err := r.DB.Exec(`
		UPDATE reservations SET status = 'ready'
		WHERE id = ? AND status = 'active'
	`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ---------- Issue transitions (ready -> issued) ----------

func (r *ReservationRepo) IssueForUser(providerID, userID int64, date string) (int64, error) {
	res, err := r.DB.Exec(`
		UPDATE reservations SET status = 'issued', issued_date = datetime('now')
		WHERE provider_id = ? AND user_id = ? AND reservation_date = ? AND status = 'ready'
	`, providerID, userID, date)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ReservationRepo) IssueByID(id int64) (int64, error) {
	res, err := r.DB.Exec(`
		UPDATE reservations SET status = 'issued', issued_date = datetime('now')
		WHERE id = ? AND status = 'ready'
	`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ---------- Views ----------

// UserReservationRow is an active or historical reservation as shown to the
// reserving user, joined with provider identity.
type UserReservationRow struct {
	ID              int64   `db:"id" json:"id"`
	ReservationDate string  `db:"reservation_date" json:"reservation_date"`
	IssuedDate      *string `db:"issued_date" json:"issued_date,omitempty"`
	Quantity        int     `db:"quantity" json:"quantity"`
	Status          string  `db:"status" json:"status"`
	Type            string  `db:"type" json:"type"`
	ProviderName    string  `db:"provider_name" json:"provider_name"`
	Address         string  `db:"address" json:"address"`
	ProviderID      int64   `db:"provider_id" json:"provider_id"`
	Coordinates     string  `db:"coordinates" json:"coordinates"`
}

// ProviderReservationRow is a reservation as shown to the provider, joined
// with the reserving user's identity.
type ProviderReservationRow struct {
	ID              int64   `db:"id" json:"id"`
	ReservationDate string  `db:"reservation_date" json:"reservation_date"`
	IssuedDate      *string `db:"issued_date" json:"issued_date,omitempty"`
	Quantity        int     `db:"quantity" json:"quantity"`
	Status          string  `db:"status" json:"status"`
	Type            string  `db:"type" json:"type"`
	UserName        string  `db:"user_name" json:"user_name"`
	Email           string  `db:"email" json:"email"`
	UserID          int64   `db:"user_id" json:"user_id"`
}

// ActiveForUser lists active and ready reservations for a user, optionally
// for a single date.
func (r *ReservationRepo) ActiveForUser(userID int64, date string) ([]UserReservationRow, error) {
	query := `
		SELECT r.id, r.reservation_date, r.issued_date, r.quantity, r.status, b.type,
		       p.name AS provider_name, p.address, p.id AS provider_id, p.coordinates
		FROM reservations r
		JOIN boxes b ON r.box_id = b.id
		JOIN providers p ON r.provider_id = p.id
		WHERE r.user_id = ? AND (r.status = 'active' OR r.status = 'ready')
	`
	args := []any{userID}
	if date != "" {
		query += ` AND r.reservation_date = ?`
		args = append(args, date)
	}
	var rows []UserReservationRow
	err := r.DB.Select(&rows, query, args...)
	return rows, err
}

// ActiveForProvider lists active and ready reservations for a provider,
// optionally within a date range.
func (r *ReservationRepo) ActiveForProvider(providerID int64, startDate, endDate string) ([]ProviderReservationRow, error) {
	query := `
		SELECT r.id, r.reservation_date, r.issued_date, r.quantity, r.status, b.type,
		       u.name AS user_name, u.email, u.id AS user_id
		FROM reservations r
		JOIN boxes b ON r.box_id = b.id
		JOIN users u ON r.user_id = u.id
		WHERE r.provider_id = ? AND (r.status = 'active' OR r.status = 'ready')
	`
	args := []any{providerID}
	if startDate != "" && endDate != "" {
		query += ` AND r.reservation_date BETWEEN ? AND ?`
		args = append(args, startDate, endDate)
	}
	var rows []ProviderReservationRow
	err := r.DB.Select(&rows, query, args...)
	return rows, err
}

// HistoryForUser lists issued reservations for a user, optionally filtered
// by issue date range.
func (r *ReservationRepo) HistoryForUser(userID int64, startDate, endDate string) ([]UserReservationRow, error) {
	query := `
		SELECT r.id, r.reservation_date, r.issued_date, r.quantity, r.status, b.type,
		       p.name AS provider_name, p.address, p.id AS provider_id, p.coordinates
		FROM reservations r
		JOIN boxes b ON r.box_id = b.id
		JOIN providers p ON r.provider_id = p.id
		WHERE r.user_id = ? AND r.status = 'issued'
	`
	args := []any{userID}
	if startDate != "" && endDate != "" {
		query += ` AND r.issued_date BETWEEN ? AND ?`
		args = append(args, startDate, endDate)
	}
	var rows []UserReservationRow
	err := r.DB.Select(&rows, query, args...)
	return rows, err
}

// HistoryForProvider lists issued reservations for a provider, optionally
// filtered by issue date range.
func (r *ReservationRepo) HistoryForProvider(providerID int64, startDate, endDate string) ([]ProviderReservationRow, error) {
	query := `
		SELECT r.id, r.reservation_date, r.issued_date, r.quantity, r.status, b.type,
		       u.name AS user_name, u.email, u.id AS user_id
		FROM reservations r
		JOIN boxes b ON r.box_id = b.id
		JOIN users u ON r.user_id = u.id
		WHERE r.provider_id = ? AND r.status = 'issued'
	`
	args := []any{providerID}
	if startDate != "" && endDate != "" {
		query += ` AND r.issued_date BETWEEN ? AND ?`
		args = append(args, startDate, endDate)
	}
	var rows []ProviderReservationRow
	err := r.DB.Select(&rows, query, args...)
	return rows, err
}

// Get returns one reservation row (ownership checks, tests).
func (r *ReservationRepo) Get(id int64) (domain.Reservation, error) {
	var row domain.Reservation
	err := r.DB.Get(&row, `
		SELECT id, user_id, provider_id, box_id, reservation_date, quantity, status, issued_date
		FROM reservations WHERE id = ?
	`, id)
	return row, err
}
