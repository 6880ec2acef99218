package repos

import (
	"github.com/jmoiron/sqlx"

	"boxd/internal/domain"
)

type IdentityRepo struct{ DB *sqlx.DB }

func NewIdentityRepo(db *sqlx.DB) *IdentityRepo { return &IdentityRepo{DB: db} }

func (r *IdentityRepo) CreateUser(login, name, email, phone, hash, preferences string) (int64, error) {
	res, err := r.DB.Exec(`
		INSERT INTO users(login, name, email, phone, password_hash, preferences)
		VALUES(?, ?, ?, ?, ?, ?)
	`, login, name, email, phone, hash, preferences)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *IdentityRepo) CreateProvider(login, name, email, phone, hash, address, coordinates, description string) (int64, error) {
	res, err := r.DB.Exec(`
		INSERT INTO providers(login, name, email, phone, password_hash, address, coordinates, description)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, login, name, email, phone, hash, address, coordinates, description)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UserByLogin matches either login or email, as the original login form does.
func (r *IdentityRepo) UserByLogin(login string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
		SELECT id, login, name, email, phone, password_hash, preferences
		FROM users WHERE login = ? OR LOWER(email) = LOWER(?)
	`, login, login)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *IdentityRepo) ProviderByLogin(login string) (*domain.Provider, error) {
	var p domain.Provider
	err := r.DB.Get(&p, `
		SELECT id, login, name, email, phone, password_hash, address, coordinates, description
		FROM providers WHERE login = ? OR LOWER(email) = LOWER(?)
	`, login, login)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *IdentityRepo) ProviderByID(id int64) (*domain.Provider, error) {
	var p domain.Provider
	err := r.DB.Get(&p, `
		SELECT id, login, name, email, phone, password_hash, address, coordinates, description
		FROM providers WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *IdentityRepo) BindSession(sid string, subjectID int64, role string) error {
	_, err := r.DB.Exec(`
		INSERT INTO sessions(id, subject_id, role, last_seen)
		VALUES(?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET subject_id=excluded.subject_id, role=excluded.role, last_seen=CURRENT_TIMESTAMP
	`, sid, subjectID, role)
	return err
}

// SessionAccount resolves a session id to the account bound to it.
func (r *IdentityRepo) SessionAccount(sid string) (*domain.Account, error) {
	var a domain.Account
	err := r.DB.Get(&a, `
		SELECT s.subject_id AS id, s.role,
		       COALESCE(u.login, p.login, '') AS login,
		       COALESCE(u.name, p.name, '') AS name
		FROM sessions s
		LEFT JOIN users u ON s.role = 'user' AND u.id = s.subject_id
		LEFT JOIN providers p ON s.role = 'provider' AND p.id = s.subject_id
		WHERE s.id = ? AND s.subject_id IS NOT NULL
	`, sid)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *IdentityRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET subject_id=NULL, last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}
