package domain

type User struct {
	ID          int64  `db:"id"`
	Login       string `db:"login"`
	Name        string `db:"name"`
	Email       string `db:"email"`
	Phone       string `db:"phone"`
	Hash        string `db:"password_hash"`
	Preferences string `db:"preferences"`
}

type Provider struct {
	ID          int64  `db:"id"`
	Login       string `db:"login"`
	Name        string `db:"name"`
	Email       string `db:"email"`
	Phone       string `db:"phone"`
	Hash        string `db:"password_hash"`
	Address     string `db:"address"`
	Coordinates string `db:"coordinates"`
	Description string `db:"description"`
}

// Account is the session-facing identity: one of a user or a provider.
type Account struct {
	ID    int64  `db:"id"`
	Role  string `db:"role"` // user | provider
	Login string `db:"login"`
	Name  string `db:"name"`
}

const (
	RoleUser     = "user"
	RoleProvider = "provider"
)
