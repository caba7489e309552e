package handlers

import (
	applog "shopmate/internal/log"
	"shopmate/internal/repos"
	"shopmate/internal/services"
	"shopmate/internal/shell"
	"shopmate/internal/shopclient"

	"github.com/gofiber/fiber/v2"
)

// sessionID resolves the browser session: the widget client sends it as a
// header, browsers as the sid cookie.
func sessionID(c *fiber.Ctx) string {
	if h := c.Get(shopclient.SessionHeader); h != "" {
		return h
	}
	return c.Cookies("sid")
}

// AttachUser puts the signed-in user and the session's theme into Locals.
func AttachUser(auth *services.AuthService, prefs *repos.PrefsRepo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := sessionID(c)
		if sid != "" {
			c.Locals("sid", sid)
			if u, err := auth.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
			if prefs != nil {
				if th, err := shell.LoadTheme(prefs.Scope(sid)); err == nil {
					c.Locals("theme", th)
				}
			}
		}
		return c.Next()
	}
}

// RequireUser enforces that a user is logged in; otherwise redirect to login.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := sessionID(c)
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Redirect("/login")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireAPIUser is RequireUser for JSON endpoints.
func RequireAPIUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := sessionID(c)
		if sid != "" {
			if u, err := auth.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
				return c.Next()
			}
		}
		applog.Security(c, "api.unauthenticated", nil)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}
}
