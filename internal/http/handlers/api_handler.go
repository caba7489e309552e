package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"shopmate/internal/domain"
	applog "shopmate/internal/log"
	"shopmate/internal/metrics"
	"shopmate/internal/services"
	"shopmate/internal/validate"
)

// APIHandler serves the JSON endpoints the chat widget consumes.
type APIHandler struct {
	Auth    *services.AuthService
	ChatSvc *services.ChatService
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *APIHandler) Chat(c *fiber.Ctx) error {
	u := currentUser(c)
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	msg, ok := validate.Message(req.Message)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Empty message"})
	}

	msg, reply, err := h.ChatSvc.Send(sessionID(c), u.ID, msg)
	if errors.Is(err, services.ErrEmptyMessage) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Empty message"})
	}
	if err != nil {
		return err
	}

	metrics.AssistantReplies.WithLabelValues(reply.Type).Inc()
	applog.Info(c, "chat.reply", map[string]any{"type": reply.Type, "products": len(reply.Products)})
	return c.JSON(fiber.Map{
		"user_message": msg,
		"bot_response": reply,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *APIHandler) History(c *fiber.Ctx) error {
	msgs, err := h.ChatSvc.History(sessionID(c), currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

func (h *APIHandler) ClearChat(c *fiber.Ctx) error {
	if err := h.ChatSvc.Clear(sessionID(c), currentUser(c).ID); err != nil {
		return err
	}
	applog.Audit(c, "chat.clear", nil)
	return c.JSON(fiber.Map{"success": true})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login signs a session in from JSON; the terminal client uses it.
func (h *APIHandler) Login(c *fiber.Ctx) error {
	sid := sessionID(c)
	if sid == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing session"})
	}
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	u, err := h.Auth.Login(sid, req.Username, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"username": req.Username, "via": "api"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}
	applog.Audit(c, "auth.login.success", map[string]any{"username": u.Username, "via": "api"})
	return c.JSON(fiber.Map{"success": true, "username": u.Username})
}
