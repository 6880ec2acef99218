package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Demo identities (idempotent; safe to run every start)
	if err := seedAccounts(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users (owned by the identity boundary; referenced by reservations)
CREATE TABLE IF NOT EXISTS users(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  login TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT DEFAULT '',
  password_hash TEXT NOT NULL,
  preferences TEXT DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

-- Providers
CREATE TABLE IF NOT EXISTS providers(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  login TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT DEFAULT '',
  password_hash TEXT NOT NULL,
  address TEXT DEFAULT '',
  coordinates TEXT DEFAULT '',
  description TEXT DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_providers_email ON providers(LOWER(email));

-- Sessions (sid cookie value is the row id)
CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  subject_id INTEGER,
  role TEXT CHECK (role IN ('user','provider')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen TEXT
);

-- Box catalog: exactly one row per (provider, type), bootstrapped lazily
CREATE TABLE IF NOT EXISTS boxes(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  provider_id INTEGER NOT NULL REFERENCES providers(id) ON DELETE CASCADE,
  type TEXT NOT NULL CHECK (type IN ('Standard','Vegan','Diabetic')),
  description TEXT NOT NULL DEFAULT '',
  UNIQUE(provider_id, type)
);
CREATE INDEX IF NOT EXISTS idx_boxes_provider ON boxes(provider_id);

-- Weekly plans: declared per-week inventory, quantities never negative
CREATE TABLE IF NOT EXISTS weekly_plans(
  provider_id INTEGER NOT NULL REFERENCES providers(id) ON DELETE CASCADE,
  week_start TEXT NOT NULL,
  standard_quantity INTEGER NOT NULL DEFAULT 0 CHECK (standard_quantity >= 0),
  vegan_quantity INTEGER NOT NULL DEFAULT 0 CHECK (vegan_quantity >= 0),
  diabetic_quantity INTEGER NOT NULL DEFAULT 0 CHECK (diabetic_quantity >= 0),
  pickup_time TEXT NOT NULL,
  PRIMARY KEY(provider_id, week_start)
);

-- Reservations: permanent fulfillment ledger, only status/issued_date mutate
CREATE TABLE IF NOT EXISTS reservations(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id),
  provider_id INTEGER NOT NULL REFERENCES providers(id),
  box_id INTEGER NOT NULL REFERENCES boxes(id),
  reservation_date TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','ready','issued')),
  issued_date TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_reservations_user ON reservations(user_id, status);
CREATE INDEX IF NOT EXISTS idx_reservations_provider ON reservations(provider_id, reservation_date, status);
`
	_, err := db.Exec(schema)
	return err
}

// seedAccounts ensures demo users and providers exist (idempotent).
func seedAccounts(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM providers`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo users/providers")

	hash := func(raw string) string {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return string(h)
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	providers := []struct{ Login, Name, Email, Address string }{
		{"greengrocer", "Green Grocer", "shop@greengrocer.test", "12 Market St"},
		{"cornerbakery", "Corner Bakery", "hello@cornerbakery.test", "4 Mill Lane"},
	}
	for _, p := range providers {
		if _, err := tx.Exec(`
			INSERT INTO providers(login,name,email,password_hash,address)
			VALUES(?,?,?,?,?)
			ON CONFLICT(login) DO NOTHING
		`, p.Login, p.Name, p.Email, hash("Passw0rd!"), p.Address); err != nil {
			return err
		}
	}

	users := []struct{ Login, Name, Email string }{
		{"alice", "Alice", "alice@boxd.test"},
		{"bob", "Bob", "bob@boxd.test"},
	}
	for _, u := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(login,name,email,password_hash)
			VALUES(?,?,?,?)
			ON CONFLICT(login) DO NOTHING
		`, u.Login, u.Name, u.Email, hash("Passw0rd!")); err != nil {
			return err
		}
	}

	return tx.Commit()
}
