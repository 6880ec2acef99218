package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "boxd/internal/log"
	"boxd/internal/services"
	"boxd/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

type registerUserRequest struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
	Preferences string `json:"preferences"`
}

// RegisterUser: POST /api/v1/auth/register/user
func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	var req registerUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return badRequest(c, "email")
	}
	if !validate.Password(req.Password) {
		return badRequest(c, "password")
	}
	if req.Login != "" {
		if _, ok := validate.Login(req.Login); !ok {
			return badRequest(c, "login")
		}
	}
	id, err := h.Auth.RegisterUser(services.UserRegistration{
		Login: req.Login, Name: req.Name, Email: email, Phone: req.Phone,
		Password: req.Password, Preferences: req.Preferences,
	})
	if err != nil {
		return fail(c, "auth.register.user.fail", err)
	}
	login := req.Login
	if login == "" {
		login = email
	}
	applog.Audit(c, "auth.register.user", map[string]any{"user_id": id})
	return c.JSON(fiber.Map{
		"message": "User " + login + " created successfully",
		"id":      id,
		"role":    "user",
		"login":   login,
	})
}

type registerProviderRequest struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
	Address     string `json:"address"`
	Coordinates string `json:"coordinates"`
	Description string `json:"description"`
}

// RegisterProvider: POST /api/v1/auth/register/provider
func (h *AuthHandler) RegisterProvider(c *fiber.Ctx) error {
	var req registerProviderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return badRequest(c, "email")
	}
	if !validate.Password(req.Password) {
		return badRequest(c, "password")
	}
	if req.Login != "" {
		if _, ok := validate.Login(req.Login); !ok {
			return badRequest(c, "login")
		}
	}
	id, err := h.Auth.RegisterProvider(services.ProviderRegistration{
		Login: req.Login, Name: req.Name, Email: email, Phone: req.Phone,
		Password: req.Password, Address: req.Address,
		Coordinates: req.Coordinates, Description: req.Description,
	})
	if err != nil {
		return fail(c, "auth.register.provider.fail", err)
	}
	login := req.Login
	if login == "" {
		login = email
	}
	applog.Audit(c, "auth.register.provider", map[string]any{"provider_id": id})
	return c.JSON(fiber.Map{
		"message": "Provider " + login + " created successfully",
		"id":      id,
		"role":    "provider",
		"login":   login,
	})
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login: POST /api/v1/auth/login (users and providers share the route)
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	if req.Login == "" || req.Password == "" {
		return badRequest(c, "credentials")
	}
	sid := h.ensureSID(c)
	acct, err := h.Auth.Login(sid, req.Login, req.Password)
	if err != nil {
		return fail(c, "auth.login.fail", err)
	}
	applog.Audit(c, "auth.login", map[string]any{"role": acct.Role, "subject_id": acct.ID})
	return c.JSON(fiber.Map{
		"message": "Logged in successfully",
		"id":      acct.ID,
		"role":    acct.Role,
		"login":   acct.Login,
		"name":    acct.Name,
	})
}

// Me: GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	sid := c.Cookies("sid")
	if sid == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not logged in"})
	}
	acct, err := h.Auth.Current(sid)
	if err != nil {
		applog.Security(c, "auth.me.miss", nil)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not logged in"})
	}
	return c.JSON(fiber.Map{
		"id":    acct.ID,
		"role":  acct.Role,
		"login": acct.Login,
		"name":  acct.Name,
	})
}

// Logout: POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies("sid"); sid != "" {
		if err := h.Auth.Logout(sid); err != nil {
			return fail(c, "auth.logout.fail", err)
		}
	}
	c.ClearCookie("sid")
	return c.JSON(fiber.Map{"message": "Logged out"})
}
