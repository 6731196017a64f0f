package handler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v3"

	"designmatch/internal/delivery/http/middleware"
	"designmatch/internal/usecase"
)

func TestMapMatchUsecaseError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantRetry  bool
	}{
		{
			name:       "transient scorer exhaustion is retryable",
			err:        fmt.Errorf("%w: provider down", usecase.ErrMatchingUnavailable),
			wantStatus: fiber.StatusServiceUnavailable,
			wantRetry:  true,
		},
		{
			name:       "permanent scorer failure is not retryable",
			err:        fmt.Errorf("%w: %v", usecase.ErrMatchingFailed, usecase.ErrBadVerdict),
			wantStatus: fiber.StatusInternalServerError,
			wantRetry:  false,
		},
		{
			name:       "request deadline is retryable",
			err:        context.DeadlineExceeded,
			wantStatus: fiber.StatusServiceUnavailable,
			wantRetry:  true,
		},
		{
			name:       "brief not found",
			err:        usecase.ErrBriefNotFound,
			wantStatus: fiber.StatusNotFound,
			wantRetry:  false,
		},
		{
			name:       "insufficient credits",
			err:        usecase.ErrInsufficientCredits,
			wantStatus: fiber.StatusPaymentRequired,
			wantRetry:  false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapMatchUsecaseError(tc.err)

			var appErr *middleware.AppError
			if !errors.As(mapped, &appErr) {
				t.Fatalf("expected *middleware.AppError, got %T", mapped)
			}
			if appErr.StatusCode != tc.wantStatus {
				t.Fatalf("status = %d, want %d", appErr.StatusCode, tc.wantStatus)
			}
			if appErr.Retryable != tc.wantRetry {
				t.Fatalf("retryable = %v, want %v", appErr.Retryable, tc.wantRetry)
			}
		})
	}
}
