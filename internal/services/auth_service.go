package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"boxd/internal/domain"
	"boxd/internal/repos"
)

var ErrBadCreds = errors.New("invalid login or password")

type AuthService struct {
	Ident *repos.IdentityRepo
}

func NewAuthService(ident *repos.IdentityRepo) *AuthService { return &AuthService{Ident: ident} }

type UserRegistration struct {
	Login, Name, Email, Phone, Password, Preferences string
}

type ProviderRegistration struct {
	Login, Name, Email, Phone, Password, Address, Coordinates, Description string
}

func (s *AuthService) RegisterUser(reg UserRegistration) (int64, error) {
	if reg.Login == "" {
		reg.Login = reg.Email
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), 12)
	if err != nil {
		return 0, err
	}
	return s.Ident.CreateUser(reg.Login, reg.Name, reg.Email, reg.Phone, string(hash), reg.Preferences)
}

func (s *AuthService) RegisterProvider(reg ProviderRegistration) (int64, error) {
	if reg.Login == "" {
		reg.Login = reg.Email
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), 12)
	if err != nil {
		return 0, err
	}
	return s.Ident.CreateProvider(reg.Login, reg.Name, reg.Email, reg.Phone, string(hash), reg.Address, reg.Coordinates, reg.Description)
}

// Login checks users first, then providers, matching the original's
// unified login for both roles.
func (s *AuthService) Login(sid, login, password string) (*domain.Account, error) {
	if u, err := s.Ident.UserByLogin(login); err == nil {
		if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) == nil {
			if err := s.Ident.BindSession(sid, u.ID, domain.RoleUser); err != nil {
				return nil, err
			}
			return &domain.Account{ID: u.ID, Role: domain.RoleUser, Login: u.Login, Name: u.Name}, nil
		}
	}
	if p, err := s.Ident.ProviderByLogin(login); err == nil {
		if bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(password)) == nil {
			if err := s.Ident.BindSession(sid, p.ID, domain.RoleProvider); err != nil {
				return nil, err
			}
			return &domain.Account{ID: p.ID, Role: domain.RoleProvider, Login: p.Login, Name: p.Name}, nil
		}
	}
	return nil, ErrBadCreds
}

func (s *AuthService) Logout(sid string) error {
	return s.Ident.UnbindSession(sid)
}

func (s *AuthService) Current(sid string) (*domain.Account, error) {
	return s.Ident.SessionAccount(sid)
}
