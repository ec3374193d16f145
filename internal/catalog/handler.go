package catalog

import (
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/catalog", h.getCatalog)
	app.Post("/api/v1/catalog/refresh", h.refresh)
}

// getCatalog never fails: until the remote lists load, the fallback is served
// with the last error attached.
func (h *Handler) getCatalog(c *fiber.Ctx) error {
	cat, _ := h.service.Ensure(c.UserContext())
	return c.JSON(cat)
}

func (h *Handler) refresh(c *fiber.Ctx) error {
	cat, err := h.service.Refresh(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(cat)
	}
	return c.JSON(cat)
}
