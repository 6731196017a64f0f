package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"designmatch/internal/delivery/http/dto"
	"designmatch/internal/delivery/http/middleware"
	"designmatch/internal/domain/brief"
	"designmatch/internal/pkg/response"
	"designmatch/internal/usecase"
)

type MatchHandler struct {
	matches   usecase.MatchUsecase
	designers usecase.DesignerUsecase
}

func NewMatchHandler(matches usecase.MatchUsecase, designers usecase.DesignerUsecase) *MatchHandler {
	return &MatchHandler{matches: matches, designers: designers}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	briefs := r.Group("/briefs")
	briefs.Post("/:brief_id/match", h.MatchBrief)
	briefs.Post("/:brief_id/match/best", h.BestMatch)

	matches := r.Group("/matches")
	matches.Get("/:match_id", h.GetMatch)
	matches.Post("/:match_id/unlock", h.UnlockMatch)
}

// MatchBrief runs the full ranked match. ?refresh=true forces re-scoring.
func (h *MatchHandler) MatchBrief(c fiber.Ctx) error {
	clientID, ok := middleware.ClientIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	briefID, err := uuid.Parse(c.Params("brief_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	refresh := strings.EqualFold(c.Query("refresh"), "true")

	res, err := h.matches.MatchBrief(c.Context(), clientID, briefID, refresh)
	if err != nil {
		return mapMatchUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, res.Message, dto.FromMatchResult(res))
}

func (h *MatchHandler) BestMatch(c fiber.Ctx) error {
	clientID, ok := middleware.ClientIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	briefID, err := uuid.Parse(c.Params("brief_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.matches.BestMatch(c.Context(), clientID, briefID)
	if err != nil {
		return mapMatchUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, res.Message, dto.FromMatchResult(res))
}

func (h *MatchHandler) GetMatch(c fiber.Ctx) error {
	clientID, ok := middleware.ClientIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	matchID, err := uuid.Parse(c.Params("match_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	m, err := h.matches.GetMatch(c.Context(), clientID, matchID)
	if err != nil {
		return mapMatchUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromMatch(m))
}

// UnlockMatch spends a credit and reveals the designer's contact details.
func (h *MatchHandler) UnlockMatch(c fiber.Ctx) error {
	clientID, ok := middleware.ClientIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	matchID, err := uuid.Parse(c.Params("match_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	m, err := h.matches.UnlockMatch(c.Context(), clientID, matchID)
	if err != nil {
		return mapMatchUsecaseError(err)
	}

	d, err := h.designers.Get(c.Context(), m.DesignerID)
	if err != nil {
		return mapMatchUsecaseError(err)
	}

	data := map[string]any{
		"match":    dto.FromMatch(m),
		"designer": dto.FromDesignerWithContact(d),
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func mapMatchUsecaseError(err error) error {
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
	case errors.Is(err, usecase.ErrMatchNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Match not found", nil, err)
	case errors.Is(err, usecase.ErrDesignerNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Designer not found", nil, err)
	case errors.Is(err, usecase.ErrMatchNotPending):
		return middleware.NewAppError(fiber.StatusConflict, "Match is not pending", nil, err)
	case errors.Is(err, usecase.ErrInsufficientCredits):
		return middleware.NewAppError(fiber.StatusPaymentRequired, "Not enough credits", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrMatchingFailed):
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	case errors.Is(err, usecase.ErrMatchingUnavailable):
		return middleware.NewRetryableError(fiber.StatusServiceUnavailable, "Matching is temporarily unavailable, try again shortly", err)
	case errors.Is(err, context.DeadlineExceeded):
		return middleware.NewRetryableError(fiber.StatusServiceUnavailable, "Matching timed out, try again shortly", err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
