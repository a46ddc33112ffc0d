package handlers

import (
	"errors"

	"projectmate-service/internal/models"

	"github.com/gofiber/fiber/v3"
)

// fail maps a domain error onto its HTTP status. The error text tells the
// caller which precondition failed so they can correct it.
func fail(c fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, models.ErrNotAuthenticated):
		status = fiber.StatusUnauthorized
	case errors.Is(err, models.ErrNotAuthorized):
		status = fiber.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, models.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, models.ErrDuplicateApplication):
		status = fiber.StatusConflict
	case errors.Is(err, models.ErrInvalidTransition):
		status = fiber.StatusConflict
	case errors.Is(err, models.ErrStoreUnavailable):
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
