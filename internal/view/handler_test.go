package view

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/leyumyum/leyum-web/internal/foodapi"
	"github.com/leyumyum/leyum-web/internal/recommendation"
)

type fakeRecs struct {
	mode    recommendation.Mode
	fetches int
	err     error
	modeErr error
}

func (f *fakeRecs) Mode() recommendation.Mode { return f.mode }

func (f *fakeRecs) SetMode(m recommendation.Mode) error {
	if f.modeErr != nil {
		return f.modeErr
	}
	if !m.Valid() {
		return foodapi.Validation("mode", "Unknown mode")
	}
	f.mode = m
	return nil
}

func (f *fakeRecs) Fetch(context.Context) error {
	f.fetches++
	return f.err
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestViewRoutes(t *testing.T) {
	recs := &fakeRecs{mode: recommendation.ModeCustom}
	router := NewRouter(recs)
	app := fiber.New()
	NewHandler(func(*fiber.Ctx) (*Router, bool) { return router, true }).RegisterProtectedRoutes(app)

	code, body := call(t, app, "GET", "/api/v1/view", "")
	if code != fiber.StatusOK || body != `{"phase":"landing","mode":"custom"}` {
		t.Fatalf("unexpected initial view %d %s", code, body)
	}

	if code, _ := call(t, app, "POST", "/api/v1/view/mode", `{"mode":"ai"}`); code != fiber.StatusConflict {
		t.Fatalf("expected 409 choosing mode on landing, got %d", code)
	}
	if code, _ := call(t, app, "PUT", "/api/v1/view/mode", `{"mode":"ai"}`); code != fiber.StatusConflict {
		t.Fatalf("expected 409 switching mode outside main, got %d", code)
	}

	if code, body := call(t, app, "POST", "/api/v1/view/start", ""); code != fiber.StatusOK || !strings.Contains(body, "mode_choice") {
		t.Fatalf("expected mode choice, got %d %s", code, body)
	}

	if code, _ := call(t, app, "POST", "/api/v1/view/mode", `{"mode":"chef"}`); code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for unknown mode, got %d", code)
	}

	code, body = call(t, app, "POST", "/api/v1/view/mode", `{"mode":"ai"}`)
	if code != fiber.StatusOK || body != `{"phase":"main","mode":"ai"}` {
		t.Fatalf("expected main in ai mode, got %d %s", code, body)
	}
	if recs.fetches != 1 {
		t.Fatalf("expected one fetch after choosing mode, got %d", recs.fetches)
	}

	if code, body := call(t, app, "PUT", "/api/v1/view/mode", `{"mode":"custom"}`); code != fiber.StatusOK || !strings.Contains(body, `"mode":"custom"`) {
		t.Fatalf("expected custom mode, got %d %s", code, body)
	}
	if recs.fetches != 1 {
		t.Fatalf("switching mode must not fetch, got %d fetches", recs.fetches)
	}

	if code, _ := call(t, app, "POST", "/api/v1/view/start", ""); code != fiber.StatusConflict {
		t.Fatalf("expected 409 starting from main, got %d", code)
	}

	recs.mode = recommendation.ModeAI
	recs.err = &foodapi.Error{Kind: foodapi.KindTransport, Message: "Error connecting to server"}
	code, body = call(t, app, "POST", "/api/v1/view/database", "")
	if code != fiber.StatusBadGateway || !strings.Contains(body, `"mode":"custom"`) {
		t.Fatalf("expected 502 with custom main view, got %d %s", code, body)
	}
	if router.State().Phase != PhaseMain {
		t.Fatalf("expected to stay on main")
	}
}

func TestOpenDatabase_ModeFailureStaysPut(t *testing.T) {
	recs := &fakeRecs{mode: recommendation.ModeAI, modeErr: foodapi.Validation("mode", "mode locked")}
	router := NewRouter(recs)
	app := fiber.New()
	NewHandler(func(*fiber.Ctx) (*Router, bool) { return router, true }).RegisterProtectedRoutes(app)

	code, body := call(t, app, "POST", "/api/v1/view/database", "")
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 when the mode cannot be set, got %d %s", code, body)
	}
	if st := router.State(); st.Phase != PhaseLanding || st.Mode != recommendation.ModeAI {
		t.Fatalf("expected landing in ai mode, got %+v", st)
	}
	if recs.fetches != 0 {
		t.Fatalf("expected no fetch, got %d", recs.fetches)
	}
}
