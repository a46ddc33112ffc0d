package handlers

import (
	"context"
	"time"

	"projectmate-service/internal/middleware"
	"projectmate-service/internal/models"
	"projectmate-service/internal/service"

	"github.com/gofiber/fiber/v3"
)

type ApplicationHandler struct {
	applicationService *service.ApplicationService
}

func NewApplicationHandler(applicationService *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(app *fiber.App) {
	projectGroup := app.Group("/protected/projects", middleware.RequireAuth())
	projectGroup.Post("/:id/applications", h.Submit)

	applicationGroup := app.Group("/protected/applications", middleware.RequireAuth())
	applicationGroup.Get("/pending", h.ListPending)
	applicationGroup.Get("/mine", h.ListMine)
	applicationGroup.Post("/:id/accept", h.Accept)
	applicationGroup.Post("/:id/decline", h.Decline)
}

func (h *ApplicationHandler) Submit(c fiber.Ctx) error {
	var req models.SubmitApplicationRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	application, err := h.applicationService.Submit(ctx, middleware.CallerFrom(c), c.Params("id"), req.Message)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"application": application},
	})
}

func (h *ApplicationHandler) ListPending(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	applications, err := h.applicationService.ListForLeader(ctx, middleware.CallerFrom(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"applications": applications},
	})
}

func (h *ApplicationHandler) ListMine(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	applications, err := h.applicationService.ListForApplicant(ctx, middleware.CallerFrom(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"applications": applications},
	})
}

func (h *ApplicationHandler) Accept(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	application, err := h.applicationService.Accept(ctx, middleware.CallerFrom(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"application": application},
	})
}

func (h *ApplicationHandler) Decline(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	application, err := h.applicationService.Decline(ctx, middleware.CallerFrom(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"application": application},
	})
}
