package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"boxd/internal/domain"
)

// PlanRepo owns the weekly_plans table. One row per (provider, week); the
// quantity columns are the contention point, so every change goes through
// the conditional UPDATE in ApplyQuantityDelta.
type PlanRepo struct{ DB *sqlx.DB }

func NewPlanRepo(db *sqlx.DB) *PlanRepo { return &PlanRepo{DB: db} }

// EnsurePlan inserts a zero-quantity plan for (provider, weekStart) if none
// exists. The caller must have resolved pickupTime already.
func (r *PlanRepo) EnsurePlan(q sqlx.Ext, providerID int64, weekStart, pickupTime string) error {
	_, err := q.Exec(`
		INSERT INTO weekly_plans(provider_id, week_start, standard_quantity, vegan_quantity, diabetic_quantity, pickup_time)
		VALUES(?, ?, 0, 0, 0, ?)
		ON CONFLICT(provider_id, week_start) DO NOTHING
	`, providerID, weekStart, pickupTime)
	return err
}

// LatestPickupTime returns the pickup time of the provider's most recent
// plan, or ErrPickupTimeRequired if the provider has no plan at all.
func (r *PlanRepo) LatestPickupTime(q sqlx.Queryer, providerID int64) (string, error) {
	var t string
	err := sqlx.Get(q, &t, `
		SELECT pickup_time FROM weekly_plans
		WHERE provider_id = ?
		ORDER BY week_start DESC
		LIMIT 1
	`, providerID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrPickupTimeRequired
	}
	return t, err
}

// ApplyQuantityDelta adds delta (negative for reservations) to the type's
// quantity column as a single conditional update, so concurrent callers
// racing for the last units serialize on the row and never drive it
// negative. Zero rows affected is re-read to tell a missing plan from an
// insufficient balance.
func (r *PlanRepo) ApplyQuantityDelta(q sqlx.Ext, providerID int64, weekStart string, t domain.BoxType, delta int) error {
	col := t.QuantityColumn()
	res, err := q.Exec(fmt.Sprintf(`
		UPDATE weekly_plans
		SET %[1]s = %[1]s + ?
		WHERE provider_id = ? AND week_start = ? AND %[1]s + ? >= 0
	`, col), delta, providerID, weekStart, delta)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var exists int
	if err := sqlx.Get(q, &exists, `
		SELECT COUNT(*) FROM weekly_plans WHERE provider_id = ? AND week_start = ?
	`, providerID, weekStart); err != nil {
		return err
	}
	if exists == 0 {
		return domain.ErrPlanNotFound
	}
	return domain.ErrInsufficientInventory
}

// SetPickupTime updates an existing plan's pickup time.
func (r *PlanRepo) SetPickupTime(q sqlx.Ext, providerID int64, weekStart, pickupTime string) error {
	res, err := q.Exec(`
		UPDATE weekly_plans SET pickup_time = ?
		WHERE provider_id = ? AND week_start = ?
	`, pickupTime, providerID, weekStart)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrPlanNotFound
	}
	return nil
}

// Get returns one plan row.
func (r *PlanRepo) Get(providerID int64, weekStart string) (domain.WeeklyPlan, error) {
	var p domain.WeeklyPlan
	err := r.DB.Get(&p, `
		SELECT provider_id, week_start, standard_quantity, vegan_quantity, diabetic_quantity, pickup_time
		FROM weekly_plans
		WHERE provider_id = ? AND week_start = ?
	`, providerID, weekStart)
	if errors.Is(err, sql.ErrNoRows) {
		return p, domain.ErrPlanNotFound
	}
	return p, err
}

// OfferRow is a weekly plan joined with its provider and the per-type
// catalog descriptions, as served by the offer listing.
type OfferRow struct {
	ProviderID          int64   `db:"provider_id" json:"provider_id"`
	ProviderName        string  `db:"provider_name" json:"provider_name"`
	Address             string  `db:"address" json:"address"`
	Date                string  `db:"date" json:"date"`
	StandardUnit        int     `db:"standard_unit" json:"standard_unit"`
	VeganUnit           int     `db:"vegan_unit" json:"vegan_unit"`
	DiabeticUnit        int     `db:"diabetic_unit" json:"diabetic_unit"`
	PickupTime          string  `db:"pickup_time" json:"pickup_time"`
	StandardDescription *string `db:"standard_description" json:"standard_description"`
	VeganDescription    *string `db:"vegan_description" json:"vegan_description"`
	DiabeticDescription *string `db:"diabetic_description" json:"diabetic_description"`
}

// ListRange returns per-week-per-provider offer rows for a date range,
// optionally limited to one provider (providerID = 0 means all).
func (r *PlanRepo) ListRange(startDate, endDate string, providerID int64) ([]OfferRow, error) {
	query := `
		SELECT wp.provider_id, p.name AS provider_name, p.address,
		       wp.week_start AS date,
		       wp.standard_quantity AS standard_unit,
		       wp.vegan_quantity AS vegan_unit,
		       wp.diabetic_quantity AS diabetic_unit,
		       wp.pickup_time,
		       bs.description AS standard_description,
		       bv.description AS vegan_description,
		       bd.description AS diabetic_description
		FROM weekly_plans wp
		JOIN providers p ON wp.provider_id = p.id
		LEFT JOIN boxes bs ON bs.provider_id = wp.provider_id AND bs.type = 'Standard'
		LEFT JOIN boxes bv ON bv.provider_id = wp.provider_id AND bv.type = 'Vegan'
		LEFT JOIN boxes bd ON bd.provider_id = wp.provider_id AND bd.type = 'Diabetic'
		WHERE wp.week_start BETWEEN ? AND ?
	`
	args := []any{startDate, endDate}
	if providerID != 0 {
		query += ` AND wp.provider_id = ?`
		args = append(args, providerID)
	}
	query += ` ORDER BY wp.week_start, wp.provider_id`

	var rows []OfferRow
	err := r.DB.Select(&rows, query, args...)
	return rows, err
}
