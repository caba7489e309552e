package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	applog "shopmate/internal/log"
	"shopmate/internal/metrics"
	"shopmate/internal/shopclient"
)

// ErrorHandler logs the failure and shows a friendly page without internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < 500 {
		code = fe.Code
	}
	applog.Error(c, "server.error", err, map[string]any{"status": code})
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{
		"Message": "Something went wrong. Please try again.",
	}); rerr != nil {
		return c.Status(code).SendString("Something went wrong. Please try again.")
	}
	return nil
}

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(d *Deps, views fiber.Views) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        views,
		ErrorHandler: ErrorHandler,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(AttachUser(d.Auth, d.Prefs))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		// Widget calls arrive over loopback; key them by session, not IP.
		KeyGenerator: func(c *fiber.Ctx) string {
			if sid := c.Get(shopclient.SessionHeader); sid != "" {
				return "sid|" + sid
			}
			return c.IP()
		},
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/healthz" || p == "/metrics"
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   d.SecureCookie,
		ContextKey:     "csrf",
		// JSON API is called with X-Session-ID by the widget client, not by forms.
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			formTok := c.FormValue("csrf")
			applog.Security(c, "csrf.fail", map[string]any{"form": formTok})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	Mount(app, d)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})
	return app
}

// Mount registers the page, widget and API routes.
func Mount(app *fiber.App, d *Deps) {
	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/chat") })

	// Auth routes (login throttled)
	app.Get("/login", d.AuthHandler.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later.", "Mode": "login"})
		},
	}), d.AuthHandler.Login)
	app.Post("/register", d.AuthHandler.Register)
	app.Post("/logout", d.AuthHandler.Logout)
	app.Post("/theme/toggle", d.WidgetHandler.ToggleTheme)

	// Chat widget
	requireUser := RequireUser(d.Auth)
	app.Get("/chat", requireUser, d.WidgetHandler.Page)
	app.Post("/chat/send", requireUser, d.WidgetHandler.Send)
	app.Post("/chat/cart/:id", requireUser, d.WidgetHandler.AddToCart)
	app.Post("/chat/draft", requireUser, d.WidgetHandler.Draft)
	app.Get("/chat/export", requireUser, d.WidgetHandler.Export)
	app.Post("/chat/clear", requireUser, d.WidgetHandler.Clear)
	app.Post("/chat/voice", requireUser, d.WidgetHandler.Voice)
	app.Post("/chat/toasts/:id/dismiss", requireUser, d.WidgetHandler.DismissToast)

	// Backend API
	apiUser := RequireAPIUser(d.Auth)
	app.Post("/api/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", map[string]any{"via": "api"})
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), d.APIHandler.Login)
	app.Get("/api/cart-count", d.CartHandler.Count)
	app.Post("/api/chat", apiUser, d.APIHandler.Chat)
	app.Get("/api/chat-history", apiUser, d.APIHandler.History)
	app.Post("/api/clear-chat", apiUser, d.APIHandler.ClearChat)
	app.Post("/api/add-to-cart", apiUser, d.CartHandler.Add)

	// Health & metrics
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", metrics.Handler())
}
