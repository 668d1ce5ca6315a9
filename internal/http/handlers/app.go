package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"bellashop/internal/config"
	"bellashop/internal/domain"
	applog "bellashop/internal/log"
	"bellashop/internal/media"
)

// AppOptions tunes middleware that tests need to loosen or silence.
type AppOptions struct {
	AccessLog    bool
	RateMax      int
	LoginRateMax int
}

func DefaultAppOptions() AppOptions {
	return AppOptions{AccessLog: true, RateMax: 300, LoginRateMax: 5}
}

// errorHandler answers with JSON and never leaks internals.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fe.Code).JSON(fiber.Map{"message": msgServer})
		}
		if fe.Code == fiber.StatusRequestEntityTooLarge {
			applog.Security(c, "request.too_large", nil)
		}
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": msgServer})
}

// NewApp builds the fiber app with the middleware stack and every route.
func NewApp(cfg config.Config, deps *Deps, opts AppOptions) *fiber.App {
	bodyLimit := cfg.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 100
	}
	app := fiber.New(fiber.Config{
		AppName:      "bellashop",
		BodyLimit:    bodyLimit << 20,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: errorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        opts.RateMax,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), media.URLPrefix)
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.api.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "rate limit exceeded, retry soon"})
		},
	}))

	Routes(app, deps, opts)
	return app
}

// Routes registers the API. Literal paths are registered before /:id.
func Routes(app *fiber.App, deps *Deps, opts AppOptions) {
	guard := RequireAdmin(deps.Auth)
	ph, ah := deps.ProductHandler, deps.AdminHandler

	app.Get("/uploads/*", Uploads(deps.Media))
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	api := app.Group("/api")

	// Auth routes (login throttled)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        opts.LoginRateMax,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Too many attempts. Please try again later."})
		},
	}), deps.AuthHandler.Login)

	products := api.Group("/products")

	// Public
	products.Get("/", ph.List)
	products.Get("/featured", ph.Featured)
	products.Get("/bestsellers", ph.Bestsellers)
	products.Get("/highlighted", ph.Highlighted)
	products.Get("/sold/all", ph.Sold)
	products.Get("/categories", deps.CategoryHandler.List)
	products.Get("/suggest", deps.SearchHandler.Suggest)

	// Admin
	products.Get("/stats/overview", guard, ah.Stats)
	products.Delete("/admin/sold-items", guard, ah.SweepSold)
	products.Get("/admin/description-pools", guard, ah.Pools)
	products.Put("/admin/description-pools", guard, ah.ReplacePools)
	products.Post("/admin/describe", guard, ah.Describe)
	products.Get("/admin/suggest", guard, deps.SearchHandler.AdminSuggest)
	products.Post("/", guard, ah.Create)
	products.Put("/:id", guard, ah.Update)
	products.Delete("/:id", guard, ah.Delete)
	products.Patch("/:id/toggle-featured", guard, ah.Toggle(domain.FlagFeatured))
	products.Patch("/:id/toggle-bestseller", guard, ah.Toggle(domain.FlagBestSeller))
	products.Patch("/:id/toggle-highlighted", guard, ah.Toggle(domain.FlagHighlighted))
	products.Patch("/:id/toggle-sold", guard, ah.ToggleSold)
	products.Get("/:id/history", guard, ah.History)

	products.Get("/:id", ph.Detail)

	// 404
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Not found"})
	})
}
