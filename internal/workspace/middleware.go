package workspace

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/leyumyum/leyum-web/internal/recommendation"
	"github.com/leyumyum/leyum-web/internal/swipe"
	"github.com/leyumyum/leyum-web/internal/view"
)

const (
	CookieName = "leyum_ws"
	localsKey  = "workspace"
)

// Middleware attaches the workspace named by the cookie, creating a new one
// when the cookie is missing or the workspace has expired.
func (r *Registry) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, ok := r.Get(c.Cookies(CookieName))
		if !ok {
			ws = r.Create()
			cookie := &fiber.Cookie{
				Name:     CookieName,
				Value:    ws.ID,
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			}
			if r.deps.TTL > 0 {
				cookie.MaxAge = int(r.deps.TTL / time.Second)
			}
			c.Cookie(cookie)
		}
		c.Locals(localsKey, ws)
		return c.Next()
	}
}

// FromCtx returns the workspace attached by Middleware.
func FromCtx(c *fiber.Ctx) (*Workspace, bool) {
	ws, ok := c.Locals(localsKey).(*Workspace)
	return ws, ok && ws != nil
}

func Store(c *fiber.Ctx) (*recommendation.Store, bool) {
	ws, ok := FromCtx(c)
	if !ok {
		return nil, false
	}
	return ws.Recommendations, true
}

func Session(c *fiber.Ctx) (*swipe.Session, swipe.Completer, bool) {
	ws, ok := FromCtx(c)
	if !ok {
		return nil, nil, false
	}
	return ws.Test, ws.Recommendations, true
}

func Router(c *fiber.Ctx) (*view.Router, bool) {
	ws, ok := FromCtx(c)
	if !ok {
		return nil, false
	}
	return ws.View, true
}

func CartID(c *fiber.Ctx) (string, bool) {
	ws, ok := FromCtx(c)
	if !ok {
		return "", false
	}
	return ws.ID, true
}
