package routes

import (
	"github.com/gofiber/fiber/v3"

	"designmatch/internal/delivery/http/handler"
	v1 "designmatch/internal/delivery/http/routes/v1"
)

// Registry wires every HTTP surface onto the app.
type Registry struct {
	health *handler.HealthHandler
	v1     v1.Deps
}

func NewRegistry(health *handler.HealthHandler, deps v1.Deps) *Registry {
	return &Registry{health: health, v1: deps}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.v1)
}
