package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopmate/internal/shell"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Inject user if present
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	if _, ok := data["Theme"]; !ok {
		th, _ := c.Locals("theme").(shell.Theme)
		if th == "" {
			th = shell.Light
		}
		data["Theme"] = th
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		// Fall back to the cookie so forms never render an empty hidden field.
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}
