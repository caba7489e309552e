package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "shopmate/internal/log"
	"shopmate/internal/repos"
	"shopmate/internal/shell"
	"shopmate/internal/validate"
	"shopmate/internal/widget"
)

// WidgetHandler serves the server-rendered chat page and its form actions.
// Every action runs on the session's widget.Controller and redirects back to
// the page.
type WidgetHandler struct {
	Widgets      *widget.Registry
	Prefs        *repos.PrefsRepo
	SecureCookie bool
}

func (h *WidgetHandler) ctrl(c *fiber.Ctx) *widget.Controller {
	return h.Widgets.Get(c.UserContext(), sessionID(c))
}

func (h *WidgetHandler) Page(c *fiber.Ctx) error {
	view, err := h.ctrl(c).Snapshot()
	if err != nil {
		return err
	}
	return render(c, "chat", fiber.Map{"View": view})
}

func (h *WidgetHandler) Send(c *fiber.Ctx) error {
	msg := c.FormValue("message")
	err := h.ctrl(c).Submit(c.UserContext(), msg)
	switch {
	case errors.Is(err, widget.ErrEmptyMessage):
	case errors.Is(err, widget.ErrBusy):
		applog.Info(c, "widget.send.busy", nil)
	case err != nil:
		return err
	}
	return c.Redirect("/chat")
}

func (h *WidgetHandler) AddToCart(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	h.ctrl(c).AddToCart(c.UserContext(), id)
	return c.Redirect("/chat")
}

func (h *WidgetHandler) Draft(c *fiber.Ctx) error {
	h.ctrl(c).SetDraft(c.FormValue("draft"))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *WidgetHandler) Export(c *fiber.Ctx) error {
	name, body := h.ctrl(c).Export()
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	applog.Info(c, "widget.export", map[string]any{"bytes": len(body)})
	return c.Send(body)
}

func (h *WidgetHandler) Clear(c *fiber.Ctx) error {
	h.ctrl(c).Clear(c.UserContext())
	return c.Redirect("/chat")
}

func (h *WidgetHandler) Voice(c *fiber.Ctx) error {
	h.ctrl(c).Voice()
	return c.Redirect("/chat")
}

func (h *WidgetHandler) DismissToast(c *fiber.Ctx) error {
	if n := h.ctrl(c).Notifier(); n != nil {
		n.Dismiss(c.Params("id"))
	}
	return c.Redirect("/chat")
}

// localPath only lets through same-site absolute paths.
func localPath(p, fallback string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return fallback
	}
	return p
}

// ToggleTheme flips the stored theme and returns to the page named by "next".
func (h *WidgetHandler) ToggleTheme(c *fiber.Ctx) error {
	sid := ensureSID(c, h.SecureCookie)
	th, err := shell.ToggleTheme(h.Prefs.Scope(sid))
	if err != nil {
		return err
	}
	applog.Info(c, "theme.toggle", map[string]any{"theme": string(th)})
	return c.Redirect(localPath(c.FormValue("next"), "/chat"))
}
