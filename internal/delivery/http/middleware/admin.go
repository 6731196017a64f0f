package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v3"
)

const adminKeyHeader = "X-Admin-Key"

// AdminMiddleware guards moderation endpoints with a shared API key. An empty
// configured key disables the surface entirely.
type AdminMiddleware struct {
	apiKey string
}

func NewAdminMiddleware(apiKey string) *AdminMiddleware {
	return &AdminMiddleware{apiKey: apiKey}
}

func (m *AdminMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if m.apiKey == "" {
			return NewAppError(fiber.StatusNotFound, "Not found", nil, nil)
		}

		provided := c.Get(adminKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(m.apiKey)) != 1 {
			return NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
		}
		return c.Next()
	}
}
