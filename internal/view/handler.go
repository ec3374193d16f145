package view

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/leyumyum/leyum-web/internal/foodapi"
	"github.com/leyumyum/leyum-web/internal/recommendation"
)

// RouterFunc resolves the router of the workspace serving the request.
type RouterFunc func(c *fiber.Ctx) (*Router, bool)

type Handler struct {
	router RouterFunc
}

func NewHandler(fn RouterFunc) *Handler {
	return &Handler{router: fn}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/view", h.getState)
	app.Post("/api/v1/view/start", h.start)
	app.Post("/api/v1/view/mode", h.chooseMode)
	app.Put("/api/v1/view/mode", h.switchMode)
	app.Post("/api/v1/view/database", h.openDatabase)
}

type modeRequest struct {
	Mode recommendation.Mode `json:"mode"`
}

func (h *Handler) getState(c *fiber.Ctx) error {
	r, ok := h.router(c)
	if !ok {
		return noWorkspace(c)
	}
	return c.JSON(r.State())
}

func (h *Handler) start(c *fiber.Ctx) error {
	r, ok := h.router(c)
	if !ok {
		return noWorkspace(c)
	}
	return respond(c, r, r.Start())
}

func (h *Handler) chooseMode(c *fiber.Ctx) error {
	r, ok := h.router(c)
	if !ok {
		return noWorkspace(c)
	}
	payload := new(modeRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return respond(c, r, r.ChooseMode(c.UserContext(), payload.Mode))
}

func (h *Handler) switchMode(c *fiber.Ctx) error {
	r, ok := h.router(c)
	if !ok {
		return noWorkspace(c)
	}
	payload := new(modeRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return respond(c, r, r.SwitchMode(payload.Mode))
}

func (h *Handler) openDatabase(c *fiber.Ctx) error {
	r, ok := h.router(c)
	if !ok {
		return noWorkspace(c)
	}
	return respond(c, r, r.OpenDatabase(c.UserContext()))
}

func respond(c *fiber.Ctx, r *Router, err error) error {
	switch {
	case err == nil:
		return c.JSON(r.State())
	case errors.Is(err, ErrWrongPhase):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error(), "view": r.State()})
	case errors.Is(err, recommendation.ErrStale):
		return c.JSON(r.State())
	default:
		return c.Status(foodapi.StatusCode(err)).JSON(fiber.Map{"message": foodapi.UserMessage(err), "view": r.State()})
	}
}

func noWorkspace(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "no workspace"})
}
