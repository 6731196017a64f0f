package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"designmatch/internal/delivery/http/middleware"
	"designmatch/internal/pkg/response"
	"designmatch/internal/usecase"
)

type AuthHandler struct {
	uc usecase.AuthUsecase
}

type requestCodeRequest struct {
	Email string `json:"email"`
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/request-code", h.RequestCode)
	r.Post("/verify", h.VerifyCode)
	r.Post("/refresh", h.Refresh)
}

func (h *AuthHandler) RequestCode(c fiber.Ctx) error {
	var req requestCodeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.RequestCode(c.Context(), req.Email); err != nil {
		return mapAuthUsecaseError(err)
	}

	// Same response whether or not the address is known.
	return response.Success(c, fiber.StatusOK, "If the address is valid, a login code is on its way", nil)
}

func (h *AuthHandler) VerifyCode(c fiber.Ctx) error {
	var req verifyCodeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	client, access, refresh, err := h.uc.VerifyCode(c.Context(), req.Email, req.Code)
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	data := map[string]any{
		"client": map[string]any{
			"id":      client.ID,
			"email":   client.Email,
			"credits": client.Credits,
		},
		"access_token":  access,
		"refresh_token": refresh,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	tok, ok := bearerFromAuthorizationHeader(c.Get("Authorization"))
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	access, refresh, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		if errors.Is(err, usecase.ErrRefreshTokenExpired) {
			return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
		}
		if errors.Is(err, usecase.ErrInvalidRefreshToken) {
			return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", nil, err)
		}
		return mapAuthUsecaseError(err)
	}

	data := map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func bearerFromAuthorizationHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	if tok == "" {
		return "", false
	}
	return tok, true
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidEmail):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid email address", nil, err)
	case errors.Is(err, usecase.ErrInvalidLoginCode):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid or expired login code", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
