package recommendation

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/leyumyum/leyum-web/internal/foodapi"
	"github.com/leyumyum/leyum-web/internal/pipeline"
)

// StoreFunc resolves the store of the workspace serving the request.
type StoreFunc func(c *fiber.Ctx) (*Store, bool)

type Handler struct {
	store StoreFunc
}

func NewHandler(fn StoreFunc) *Handler {
	return &Handler{store: fn}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/recommendations", h.getSnapshot)
	app.Post("/api/v1/recommendations/fetch", h.fetch)
	app.Put("/api/v1/recommendations/filters/:field", h.setFilter)
	app.Post("/api/v1/recommendations/sort/:field", h.toggleSort)
	app.Put("/api/v1/recommendations/search", h.setSearch)
	app.Post("/api/v1/recommendations/grow", h.grow)
	app.Get("/api/v1/matches", h.getMatches)
}

type filterRequest struct {
	Value string `json:"value"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type growResponse struct {
	Grew bool `json:"grew"`
	Snapshot
}

func (h *Handler) getSnapshot(c *fiber.Ctx) error {
	s, ok := h.store(c)
	if !ok {
		return noWorkspace(c)
	}
	return c.JSON(s.Snapshot())
}

func (h *Handler) fetch(c *fiber.Ctx) error {
	s, ok := h.store(c)
	if !ok {
		return noWorkspace(c)
	}
	return respond(c, s, s.Fetch(c.UserContext()))
}

func (h *Handler) setFilter(c *fiber.Ctx) error {
	s, ok := h.store(c)
	if !ok {
		return noWorkspace(c)
	}
	payload := new(filterRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return respond(c, s, s.SetFilter(c.UserContext(), Field(c.Params("field")), payload.Value))
}

func (h *Handler) toggleSort(c *fiber.Ctx) error {
	s, ok := h.store(c)
	if !ok {
		return noWorkspace(c)
	}
	return respond(c, s, s.ToggleSort(c.Params("field")))
}

func (h *Handler) setSearch(c *fiber.Ctx) error {
	s, ok := h.store(c)
	if !ok {
		return noWorkspace(c)
	}
	payload := new(searchRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	s.SetSearch(payload.Query)
	return c.JSON(s.Snapshot())
}

func (h *Handler) grow(c *fiber.Ctx) error {
	s, ok := h.store(c)
	if !ok {
		return noWorkspace(c)
	}
	grew := s.Grow()
	return c.JSON(growResponse{Grew: grew, Snapshot: s.Snapshot()})
}

func (h *Handler) getMatches(c *fiber.Ctx) error {
	s, ok := h.store(c)
	if !ok {
		return noWorkspace(c)
	}
	f := pipeline.MatchFilter(c.Query("filter", string(pipeline.MatchAll)))
	o := pipeline.MatchSort(c.Query("sort", string(pipeline.MatchByScore)))
	v, err := s.Matches(f, o)
	if err != nil {
		return c.Status(foodapi.StatusCode(err)).JSON(fiber.Map{"message": foodapi.UserMessage(err)})
	}
	return c.JSON(v)
}

// respond always carries the snapshot so the last good list stays on screen
// next to the error.
func respond(c *fiber.Ctx, s *Store, err error) error {
	switch {
	case err == nil:
		return c.JSON(s.Snapshot())
	case errors.Is(err, ErrStale):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "superseded by a newer request",
			"state":   s.Snapshot(),
		})
	default:
		return c.Status(foodapi.StatusCode(err)).JSON(fiber.Map{
			"message": foodapi.UserMessage(err),
			"state":   s.Snapshot(),
		})
	}
}

func noWorkspace(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "no workspace"})
}
