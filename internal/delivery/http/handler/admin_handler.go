package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"designmatch/internal/delivery/http/dto"
	"designmatch/internal/delivery/http/middleware"
	"designmatch/internal/pkg/response"
	"designmatch/internal/usecase"
)

// AdminHandler exposes designer moderation. Routes must be mounted behind the
// admin key middleware.
type AdminHandler struct {
	designers usecase.DesignerUsecase
}

func NewAdminHandler(designers usecase.DesignerUsecase) *AdminHandler {
	return &AdminHandler{designers: designers}
}

func (h *AdminHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/designers")
	grp.Post("/:designer_id/approve", h.Approve)
	grp.Post("/:designer_id/reject", h.Reject)
}

func (h *AdminHandler) Approve(c fiber.Ctx) error {
	return h.setApproval(c, true)
}

func (h *AdminHandler) Reject(c fiber.Ctx) error {
	return h.setApproval(c, false)
}

func (h *AdminHandler) setApproval(c fiber.Ctx, approved bool) error {
	id, err := uuid.Parse(c.Params("designer_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	d, err := h.designers.SetApproval(c.Context(), id, approved)
	if err != nil {
		return mapDesignerUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromDesigner(d))
}
