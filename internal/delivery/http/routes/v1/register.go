package v1

import (
	"github.com/gofiber/fiber/v3"

	"designmatch/internal/delivery/http/handler"
	"designmatch/internal/delivery/http/middleware"
	"designmatch/internal/pkg/jwt"
	"designmatch/internal/usecase"
)

// Deps carries the constructed usecases into route registration.
type Deps struct {
	JWT jwt.Service

	AdminAPIKey string

	Auth      usecase.AuthUsecase
	Briefs    usecase.BriefUsecase
	Designers usecase.DesignerUsecase
	Matches   usecase.MatchUsecase
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(d.JWT)
	adminMw := middleware.NewAdminMiddleware(d.AdminAPIKey)

	authHandler := handler.NewAuthHandler(d.Auth)
	briefHandler := handler.NewBriefHandler(d.Briefs)
	designerHandler := handler.NewDesignerHandler(d.Designers)
	matchHandler := handler.NewMatchHandler(d.Matches, d.Designers)
	adminHandler := handler.NewAdminHandler(d.Designers)

	authHandler.RegisterRoutes(r.Group("/auth"))

	protected := r.Group("", authMw.Middleware())
	briefHandler.RegisterRoutes(protected)
	designerHandler.RegisterRoutes(protected)
	matchHandler.RegisterRoutes(protected)

	admin := r.Group("/admin", adminMw.Middleware())
	adminHandler.RegisterRoutes(admin)
}
