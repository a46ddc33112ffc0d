package handlers

import (
	"context"
	"time"

	"projectmate-service/internal/middleware"
	"projectmate-service/internal/service"

	"github.com/gofiber/fiber/v3"
)

type InboxHandler struct {
	inboxService *service.InboxService
}

func NewInboxHandler(inboxService *service.InboxService) *InboxHandler {
	return &InboxHandler{
		inboxService: inboxService,
	}
}

func (h *InboxHandler) RegisterRoutes(app *fiber.App) {
	group := app.Group("/protected/inbox", middleware.RequireAuth())
	group.Get("/", h.Snapshot)
}

func (h *InboxHandler) Snapshot(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	inbox, err := h.inboxService.Snapshot(ctx, middleware.CallerFrom(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"inbox": inbox},
	})
}
