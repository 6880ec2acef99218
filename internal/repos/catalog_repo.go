package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"boxd/internal/domain"
)

// CatalogRepo owns the boxes table: the per-provider catalog of the three
// box types. Mutating primitives take an sqlx.Ext so the allocation flow can
// run them inside one transaction.
type CatalogRepo struct{ DB *sqlx.DB }

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo { return &CatalogRepo{DB: db} }

// EnsureCatalog creates the three catalog rows for a provider if none exist
// yet. Idempotent; safe to call unconditionally before any catalog read.
func (r *CatalogRepo) EnsureCatalog(q sqlx.Ext, providerID int64) error {
	var n int
	if err := sqlx.Get(q, &n, `SELECT COUNT(*) FROM boxes WHERE provider_id = ?`, providerID); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, t := range domain.AllBoxTypes() {
		if _, err := q.Exec(`
			INSERT INTO boxes(provider_id, type, description) VALUES(?, ?, '')
			ON CONFLICT(provider_id, type) DO NOTHING
		`, providerID, t.Name()); err != nil {
			return err
		}
	}
	return nil
}

// SetDescription updates one catalog entry's description.
func (r *CatalogRepo) SetDescription(q sqlx.Ext, providerID int64, t domain.BoxType, text string) error {
	res, err := q.Exec(`
		UPDATE boxes SET description = ?
		WHERE provider_id = ? AND type = ?
	`, text, providerID, t.Name())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrCatalogEntryNotFound
	}
	return nil
}

// TypeOf resolves a box id to its type.
func (r *CatalogRepo) TypeOf(q sqlx.Queryer, boxID int64) (domain.BoxType, error) {
	var name string
	err := sqlx.Get(q, &name, `SELECT type FROM boxes WHERE id = ?`, boxID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrBoxTypeNotFound
	}
	if err != nil {
		return 0, err
	}
	t, ok := domain.BoxTypeFromName(name)
	if !ok {
		return 0, domain.ErrBoxTypeNotFound
	}
	return t, nil
}

// List returns the catalog rows for a provider in catalog order.
func (r *CatalogRepo) List(providerID int64) ([]domain.Box, error) {
	var boxes []domain.Box
	err := r.DB.Select(&boxes, `
		SELECT id, provider_id, type, description
		FROM boxes WHERE provider_id = ?
		ORDER BY id
	`, providerID)
	return boxes, err
}
