package cart

import (
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func makeAppWithCartHandler(cHandler *Handler) *fiber.App {
	app := fiber.New()
	cHandler.RegisterProtectedRoutes(app)
	return app
}

func headerCartID(c *fiber.Ctx) (string, bool) {
	id := c.Get("X-Workspace")
	return id, id != ""
}

func send(t *testing.T, app *fiber.App, method, path, body, workspace string) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if workspace != "" {
		req.Header.Set("X-Workspace", workspace)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestCartRoutes_Basic(t *testing.T) {
	repo := NewInMemoryRepository()
	service := NewService(repo)
	handler := NewHandler(service, headerCartID)
	app := makeAppWithCartHandler(handler)

	// ensure routes registered
	routes := map[string]bool{}
	for _, grp := range app.Stack() {
		for _, r := range grp {
			routes[r.Path] = true
		}
	}
	for _, p := range []string{"/api/v1/cart", "/api/v1/cart/summary", "/api/v1/cart/items", "/api/v1/cart/items/:key"} {
		if !routes[p] {
			t.Fatalf("expected route %q to be registered", p)
		}
	}

	// requests without a workspace are blocked
	if code, _ := send(t, app, "GET", "/api/v1/cart", "", ""); code != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without workspace, got %d", code)
	}

	fries := `{"item_name":"Fries","restaurant":"Sonic","calories":380,"protein":4,"sodium":520}`
	code, body := send(t, app, "POST", "/api/v1/cart/items", fries, "ws1")
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 for add, got %d %s", code, body)
	}
	code, body = send(t, app, "POST", "/api/v1/cart/items", fries, "ws1")
	if code != fiber.StatusOK || !strings.Contains(body, `"quantity":2`) {
		t.Fatalf("expected quantity 2 after second add, got %d %s", code, body)
	}
	if !strings.Contains(body, `"item_count":2`) {
		t.Fatalf("expected item count 2, got %s", body)
	}

	// same name at another restaurant is its own line
	code, body = send(t, app, "POST", "/api/v1/cart/items", `{"item_name":"Fries","restaurant":"KFC"}`, "ws1")
	if code != fiber.StatusOK || strings.Count(body, `"key"`) != 2 {
		t.Fatalf("expected two lines, got %d %s", code, body)
	}

	// other workspaces have their own cart
	if _, body := send(t, app, "GET", "/api/v1/cart", "", "ws2"); strings.Contains(body, "Fries") {
		t.Fatalf("expected empty cart for ws2, got %s", body)
	}

	key := "/api/v1/cart/items/" + url.PathEscape("sonic|fries")
	code, body = send(t, app, "PATCH", key, `{"delta":-1}`, "ws1")
	if code != fiber.StatusOK || !strings.Contains(body, `"quantity":1`) {
		t.Fatalf("expected decrement to 1, got %d %s", code, body)
	}
	code, body = send(t, app, "PATCH", key, `{"delta":-5}`, "ws1")
	if code != fiber.StatusOK || strings.Contains(body, `"sonic|fries"`) {
		t.Fatalf("expected line removed, got %d %s", code, body)
	}
	if code, _ := send(t, app, "PATCH", key, `{"delta":1}`, "ws1"); code != fiber.StatusNotFound {
		t.Fatalf("expected 404 for removed line, got %d", code)
	}

	code, body = send(t, app, "GET", "/api/v1/cart/summary", "", "ws1")
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 for summary, got %d", code)
	}
	if !strings.Contains(body, `"checkout_url":"https://www.doordash.com/search/store/KFC"`) {
		t.Fatalf("unexpected checkout url in %s", body)
	}

	code, _ = send(t, app, "DELETE", "/api/v1/cart/items/"+url.PathEscape("kfc|fries"), "", "ws1")
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 for remove, got %d", code)
	}

	if code, _ := send(t, app, "POST", "/api/v1/cart/items", `{"calories":10}`, "ws1"); code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for nameless item, got %d", code)
	}

	send(t, app, "POST", "/api/v1/cart/items", fries, "ws1")
	if code, _ := send(t, app, "DELETE", "/api/v1/cart", "", "ws1"); code != fiber.StatusNoContent {
		t.Fatalf("expected 204 for clear cart, got %d", code)
	}
	_, body = send(t, app, "GET", "/api/v1/cart", "", "ws1")
	if body != `{"lines":[],"item_count":0}` {
		t.Fatalf("expected empty cart after clear, got %s", body)
	}
}
