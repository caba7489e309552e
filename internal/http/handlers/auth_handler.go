package handlers

import (
	"errors"
	"time"

	"shopmate/internal/log"
	"shopmate/internal/services"
	"shopmate/internal/validate"
	"shopmate/internal/widget"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth         *services.AuthService
	Widgets      *widget.Registry
	SecureCookie bool
}

func ensureSID(c *fiber.Ctx, secure bool) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   secure,
		})
	}
	c.Locals("sid", sid)
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	ensureSID(c, h.SecureCookie)
	if c.Locals("user") != nil {
		return c.Redirect("/chat")
	}
	return render(c, "login", fiber.Map{"Err": "", "Mode": "login"})
}

func (h *AuthHandler) loginFailed(c *fiber.Ctx, status int, mode, msg string, fields validate.FieldErrors) error {
	c.Status(status)
	return render(c, "login", fiber.Map{"Err": msg, "Mode": mode, "Fields": fields})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c, h.SecureCookie)
	username := c.FormValue("username")
	pass := c.FormValue("password")

	if fe := validate.Form(
		validate.Field{Name: "username", Value: username, Required: true},
		validate.Field{Name: "password", Value: pass, Kind: validate.PasswordField, Required: true},
	); !fe.OK() {
		log.Security(c, "auth.login.fail", map[string]any{"username": username, "reason": "bad_format"})
		return h.loginFailed(c, fiber.StatusBadRequest, "login", "", fe)
	}

	if _, err := h.Auth.Login(sid, username, pass); err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"username": username})
		return h.loginFailed(c, fiber.StatusUnauthorized, "login", "Invalid username or password", nil)
	}

	log.Audit(c, "auth.login.success", map[string]any{"username": username})
	return c.Redirect("/chat")
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	sid := ensureSID(c, h.SecureCookie)
	username := c.FormValue("username")
	email := c.FormValue("email")
	pass := c.FormValue("password")

	fe := validate.Form(
		validate.Field{Name: "username", Value: username, Required: true},
		validate.Field{Name: "email", Value: email, Kind: validate.EmailField, Required: true},
		validate.Field{Name: "password", Value: pass, Kind: validate.PasswordField, Required: true},
	)
	if _, ok := validate.Username(username); fe["username"] == "" && !ok {
		fe["username"] = "Use 3-30 letters, digits, dots, dashes or underscores"
	}
	if !fe.OK() {
		log.Security(c, "auth.register.fail", map[string]any{"username": username, "reason": "bad_format"})
		return h.loginFailed(c, fiber.StatusBadRequest, "register", "", fe)
	}

	email, _ = validate.Email(email)
	username, _ = validate.Username(username)
	if _, err := h.Auth.Register(sid, username, email, pass); err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			return h.loginFailed(c, fiber.StatusConflict, "register", "Username already exists", nil)
		case errors.Is(err, services.ErrEmailTaken):
			return h.loginFailed(c, fiber.StatusConflict, "register", "Email already registered", nil)
		}
		return err
	}

	log.Audit(c, "auth.register.success", map[string]any{"username": username})
	return c.Redirect("/chat")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c, h.SecureCookie)
	_ = h.Auth.Logout(sid)
	if h.Widgets != nil {
		h.Widgets.Drop(sid)
	}
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.SecureCookie,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/login")
}
