package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"designmatch/internal/delivery/http/dto"
	"designmatch/internal/delivery/http/middleware"
	"designmatch/internal/pkg/response"
	"designmatch/internal/usecase"
)

type DesignerHandler struct {
	uc usecase.DesignerUsecase
}

func NewDesignerHandler(uc usecase.DesignerUsecase) *DesignerHandler {
	return &DesignerHandler{uc: uc}
}

func (h *DesignerHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/designers")
	grp.Get("/:designer_id", h.Get)
}

func (h *DesignerHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("designer_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	d, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapDesignerUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromDesigner(d))
}

func mapDesignerUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrDesignerNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Designer not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
