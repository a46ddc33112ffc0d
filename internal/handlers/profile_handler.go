package handlers

import (
	"context"
	"strconv"
	"time"

	"projectmate-service/internal/middleware"
	"projectmate-service/internal/models"
	"projectmate-service/internal/service"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(app *fiber.App) {
	publicGroup := app.Group("/public/profiles")
	publicGroup.Get("/:userId", h.GetProfile)

	protectedGroup := app.Group("/protected/profiles", middleware.RequireAuth())
	protectedGroup.Post("/me", h.EnsureMe) // first-login hook
	protectedGroup.Get("/me", h.GetMe)
	protectedGroup.Put("/me", h.UpdateMe)
	protectedGroup.Get("/", h.ListProfiles)
}

// EnsureMe creates the caller's profile on first login if it does not exist.
func (h *ProfileHandler) EnsureMe(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	profile, err := h.profileService.EnsureProfile(ctx, middleware.CallerFrom(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"profile": profile},
	})
}

func (h *ProfileHandler) GetMe(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	profile, err := h.profileService.GetProfile(ctx, c.Get("X-User-ID"))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"profile": profile},
	})
}

func (h *ProfileHandler) UpdateMe(c fiber.Ctx) error {
	var dto models.ProfileDTO
	if err := c.Bind().Body(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profile, err := h.profileService.UpdateProfile(ctx, middleware.CallerFrom(c), &dto)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"profile": profile},
	})
}

func (h *ProfileHandler) GetProfile(c fiber.Ctx) error {
	userID := c.Params("userId")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	profile, err := h.profileService.GetProfile(ctx, userID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"profile": profile},
	})
}

func (h *ProfileHandler) ListProfiles(c fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("pageSize", "20"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profiles, err := h.profileService.ListProfiles(ctx, page, limit)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"profiles": profiles},
	})
}
