package http

import (
	nethttp "net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp crea la aplicación Fiber con recover, /health, /metrics (si metrics != nil) y las rutas de /api.
// middlewares se registran antes de las rutas (p. ej. Swagger UI).
func NewApp(name string, deps RouterDeps, metrics nethttp.Handler, middlewares ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	for _, m := range middlewares {
		app.Use(m)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": name})
	})
	if metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics))
	}

	Router(app, deps)
	return app
}
