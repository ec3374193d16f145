package cart

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/leyumyum/leyum-web/internal/food"
)

// IDFunc resolves the cart of the workspace serving the request.
type IDFunc func(c *fiber.Ctx) (string, bool)

// Handler delegates cart operations to the cart service.
type Handler struct {
	service *Service
	cartID  IDFunc
}

func NewHandler(s *Service, fn IDFunc) *Handler {
	return &Handler{service: s, cartID: fn}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Get("/api/v1/cart/summary", h.getSummary)
	app.Post("/api/v1/cart/items", h.addItem)
	app.Patch("/api/v1/cart/items/:key", h.updateQuantity)
	app.Delete("/api/v1/cart/items/:key", h.removeLine)
	app.Delete("/api/v1/cart", h.clearCart)
}

type quantityRequest struct {
	Delta int `json:"delta"`
}

type cartResponse struct {
	Lines     []Line `json:"lines"`
	ItemCount int    `json:"item_count"`
}

func linesResponse(lines []Line) cartResponse {
	return cartResponse{Lines: lines, ItemCount: ItemCount(lines)}
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	id, ok := h.cartID(c)
	if !ok {
		return unauthorized(c)
	}
	lines, err := h.service.Lines(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(linesResponse(lines))
}

func (h *Handler) getSummary(c *fiber.Ctx) error {
	id, ok := h.cartID(c)
	if !ok {
		return unauthorized(c)
	}
	sum, err := h.service.Summary(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(sum)
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	id, ok := h.cartID(c)
	if !ok {
		return unauthorized(c)
	}
	item := new(food.Item)
	if err := c.BodyParser(item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	lines, err := h.service.AddItem(id, *item)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(linesResponse(lines))
}

func (h *Handler) updateQuantity(c *fiber.Ctx) error {
	id, ok := h.cartID(c)
	if !ok {
		return unauthorized(c)
	}
	key, err := lineKey(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid line key"})
	}
	payload := new(quantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	lines, err := h.service.UpdateQuantity(id, key, payload.Delta)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(linesResponse(lines))
}

func (h *Handler) removeLine(c *fiber.Ctx) error {
	id, ok := h.cartID(c)
	if !ok {
		return unauthorized(c)
	}
	key, err := lineKey(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid line key"})
	}
	lines, err := h.service.Remove(id, key)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(linesResponse(lines))
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	id, ok := h.cartID(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.service.Clear(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// keys contain '|' and spaces, so clients escape them
func lineKey(c *fiber.Ctx) (food.Key, error) {
	k, err := url.PathUnescape(c.Params("key"))
	if err != nil || k == "" {
		return "", errors.New("invalid key")
	}
	return food.Key(k), nil
}

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrLineNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrInvalidItem):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "no workspace"})
}
