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

type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

func (h *ProjectHandler) RegisterRoutes(app *fiber.App) {
	publicGroup := app.Group("/public/projects")
	publicGroup.Get("/", h.ListProjects)
	publicGroup.Get("/:id", h.GetProject)

	protectedGroup := app.Group("/protected/projects", middleware.RequireAuth())
	protectedGroup.Post("/", h.CreateProject)
	protectedGroup.Get("/mine", h.ListMine)
}

func (h *ProjectHandler) CreateProject(c fiber.Ctx) error {
	var req models.CreateProjectRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	project, err := h.projectService.CreateProject(ctx, middleware.CallerFrom(c), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"project": project},
	})
}

func (h *ProjectHandler) GetProject(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	project, err := h.projectService.GetProject(ctx, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"project": project},
	})
}

func (h *ProjectHandler) ListProjects(c fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "20"))

	query := &models.ProjectListQuery{
		ProjectType: c.Query("projectType"),
		Duration:    c.Query("duration"),
		Page:        page,
		PageSize:    pageSize,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	projects, err := h.projectService.ListProjects(ctx, query)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"projects": projects},
	})
}

func (h *ProjectHandler) ListMine(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	projects, err := h.projectService.ListByAuthor(ctx, middleware.CallerFrom(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"projects": projects},
	})
}
