package handlers

import (
	"errors"

	"shopmate/internal/log"
	"shopmate/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

type addRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	u := currentUser(c)
	var req addRequest
	if err := c.BodyParser(&req); err != nil || req.ProductID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product"})
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	if req.Quantity > 50 {
		req.Quantity = 50
	}

	res, err := h.Cart.Add(u.ID, req.ProductID, req.Quantity)
	if errors.Is(err, services.ErrProductNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	if err != nil {
		return err
	}

	log.Info(c, "cart.add", map[string]any{"product_id": req.ProductID, "qty": req.Quantity, "count": res.Count})
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    res.Message(),
		"cart_count": res.Count,
	})
}

// Count reports cart lines; anonymous sessions get zero.
func (h *CartHandler) Count(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.JSON(fiber.Map{"count": 0})
	}
	n, err := h.Cart.Count(u.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"count": n})
}
