package app

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"designmatch/internal/config"
	"designmatch/internal/delivery/http/handler"
	"designmatch/internal/delivery/http/middleware"
	"designmatch/internal/delivery/http/routes"
	v1 "designmatch/internal/delivery/http/routes/v1"
	"designmatch/internal/ws"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func Bootstrap(cfg config.Config, logger *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
	})

	f.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	f.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())

	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.DB, c.Cache),
		v1.Deps{
			JWT:         c.JWT,
			AdminAPIKey: cfg.Auth.AdminAPIKey,
			Auth:        c.Auth,
			Briefs:      c.Briefs,
			Designers:   c.Designers,
			Matches:     c.Matches,
		},
	)
	registry.Register(f)

	go c.Hub.Run()
	wsHandler := ws.NewHandler(c.Hub, c.JWT, c.Logger)
	f.Get("/ws/matches", wsHandler.HandleMatchesWS)

	app := &App{Fiber: f, Container: c}
	return app, c.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
