package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"designmatch/internal/delivery/http/dto"
	"designmatch/internal/delivery/http/middleware"
	"designmatch/internal/domain/brief"
	"designmatch/internal/pkg/response"
	"designmatch/internal/usecase"
)

type BriefHandler struct {
	uc usecase.BriefUsecase
}

func NewBriefHandler(uc usecase.BriefUsecase) *BriefHandler {
	return &BriefHandler{uc: uc}
}

func (h *BriefHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/briefs")
	grp.Post("/", h.Submit)
	grp.Get("/:brief_id", h.Get)
}

func (h *BriefHandler) Submit(c fiber.Ctx) error {
	clientID, ok := middleware.ClientIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	// The payload is an open field map: legacy clients send legacy keys.
	var fields map[string]any
	if err := c.Bind().Body(&fields); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	b, err := h.uc.Submit(c.Context(), clientID, fields)
	if err != nil {
		return mapBriefUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.FromBrief(b))
}

func (h *BriefHandler) Get(c fiber.Ctx) error {
	clientID, ok := middleware.ClientIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	briefID, err := uuid.Parse(c.Params("brief_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	b, err := h.uc.Get(c.Context(), clientID, briefID)
	if err != nil {
		return mapBriefUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromBrief(b))
}

func mapBriefUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var missing *brief.MissingFieldsError
	if errors.As(err, &missing) {
		return middleware.NewAppError(
			fiber.StatusUnprocessableEntity,
			"Brief is missing required fields",
			map[string]any{"missing_fields": missing.Fields},
			err,
		)
	}

	switch {
	case errors.Is(err, usecase.ErrBriefNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Brief not found", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
