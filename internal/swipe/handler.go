package swipe

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/leyumyum/leyum-web/internal/foodapi"
)

// SessionFunc resolves the session of the workspace serving the request and
// the store that receives its completion signal.
type SessionFunc func(c *fiber.Ctx) (*Session, Completer, bool)

type Handler struct {
	session SessionFunc
}

func NewHandler(fn SessionFunc) *Handler {
	return &Handler{session: fn}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/test", h.getTest)
	app.Post("/api/v1/test/open", h.open)
	app.Post("/api/v1/test/swipe", h.swipe)
	app.Post("/api/v1/test/view-matches", h.viewMatches)
	app.Post("/api/v1/test/close", h.close)
}

type swipeRequest struct {
	Direction Direction `json:"direction"`
}

type swipeResponse struct {
	Result Result `json:"result"`
	Snapshot
}

func (h *Handler) getTest(c *fiber.Ctx) error {
	s, _, ok := h.session(c)
	if !ok {
		return noWorkspace(c)
	}
	return c.JSON(s.Snapshot())
}

func (h *Handler) open(c *fiber.Ctx) error {
	s, _, ok := h.session(c)
	if !ok {
		return noWorkspace(c)
	}
	if err := s.Open(c.UserContext()); err != nil {
		return fail(c, err)
	}
	return c.JSON(s.Snapshot())
}

func (h *Handler) swipe(c *fiber.Ctx) error {
	s, _, ok := h.session(c)
	if !ok {
		return noWorkspace(c)
	}
	payload := new(swipeRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	r, err := s.Swipe(payload.Direction)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(swipeResponse{Result: r, Snapshot: s.Snapshot()})
}

func (h *Handler) viewMatches(c *fiber.Ctx) error {
	s, store, ok := h.session(c)
	if !ok {
		return noWorkspace(c)
	}
	if err := s.ViewMatches(c.UserContext(), store); err != nil {
		return fail(c, err)
	}
	return c.JSON(s.Snapshot())
}

func (h *Handler) close(c *fiber.Ctx) error {
	s, _, ok := h.session(c)
	if !ok {
		return noWorkspace(c)
	}
	s.Close()
	return c.JSON(s.Snapshot())
}

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrWrongPhase), errors.Is(err, ErrNoCards), errors.Is(err, ErrClosed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(foodapi.StatusCode(err)).JSON(fiber.Map{"message": foodapi.UserMessage(err)})
	}
}

func noWorkspace(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "no workspace"})
}
