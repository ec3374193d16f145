package main

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/leyumyum/leyum-web/internal/cart"
	"github.com/leyumyum/leyum-web/internal/catalog"
	"github.com/leyumyum/leyum-web/internal/config"
	"github.com/leyumyum/leyum-web/internal/foodapi"
	"github.com/leyumyum/leyum-web/internal/logging"
	"github.com/leyumyum/leyum-web/internal/recommendation"
	"github.com/leyumyum/leyum-web/internal/schedule"
	"github.com/leyumyum/leyum-web/internal/swipe"
	"github.com/leyumyum/leyum-web/internal/view"
	"github.com/leyumyum/leyum-web/internal/workspace"
)

// API is everything the server needs from the remote food service.
type API interface {
	catalog.Source
	recommendation.Source
	swipe.CardSource
	swipe.PreferenceSink
}

type server struct {
	app      *fiber.App
	catalog  *catalog.Service
	registry *workspace.Registry
}

func newServer(cfg config.Config, api API, sched schedule.Func, log *zap.Logger) *server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	setupCORS(app, cfg.CORSOrigins)
	app.Use(logging.RequestLogger(log, func(c *fiber.Ctx) string {
		id, _ := workspace.CartID(c)
		return id
	}))

	catalogService := catalog.NewService(api, log)
	cartService := cart.NewService(cart.NewInMemoryRepository())
	registry := workspace.NewRegistry(workspace.Deps{
		Recommendations: api,
		Cards:           api,
		Preferences:     api,
		Taxonomy:        catalogService,
		Carts:           cartService,
		RecommendationConfig: recommendation.Config{
			FetchDelay: cfg.FetchDelay,
			GrowDelay:  cfg.GrowDelay,
			Schedule:   sched,
		},
		SwipeConfig: swipe.Config{
			ProcessingDelay: cfg.ProcessingDelay,
			Schedule:        sched,
		},
		TTL: cfg.SessionTTL,
	}, log)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	catalog.NewHandler(catalogService).RegisterPublicRoutes(app)

	// every route below belongs to a workspace
	app.Use("/api/v1", registry.Middleware())

	view.NewHandler(workspace.Router).RegisterProtectedRoutes(app)
	recommendation.NewHandler(workspace.Store).RegisterProtectedRoutes(app)
	swipe.NewHandler(workspace.Session).RegisterProtectedRoutes(app)
	cart.NewHandler(cartService, workspace.CartID).RegisterProtectedRoutes(app)

	return &server{app: app, catalog: catalogService, registry: registry}
}

func setupCORS(app *fiber.App, origins string) {
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.ReplaceAll(origins, " ", ""),
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: origins != "*",
	}))
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"message": err.Error()})
}

// compile-time check that the real client serves every role
var _ API = (*foodapi.Client)(nil)
