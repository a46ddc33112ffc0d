package middleware

import (
	"projectmate-service/internal/models"

	"github.com/gofiber/fiber/v3"
)

// Identity is injected by the gateway as X-User-* headers; this service never
// sees credentials or tokens.

// CallerFrom builds the request identity from the gateway headers.
func CallerFrom(c fiber.Ctx) models.Caller {
	return models.Caller{
		UserID:      c.Get("X-User-ID"),
		DisplayName: c.Get("X-User-Name"),
		Email:       c.Get("X-User-Email"),
		PhotoURL:    c.Get("X-User-Photo"),
	}
}

// RequireAuth rejects requests that arrive without a gateway identity.
func RequireAuth() fiber.Handler {
	return func(c fiber.Ctx) error {
		if c.Get("X-User-ID") == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User authentication required",
			})
		}
		return c.Next()
	}
}
