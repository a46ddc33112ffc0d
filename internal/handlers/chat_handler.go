package handlers

import (
	"context"
	"time"

	"projectmate-service/internal/middleware"
	"projectmate-service/internal/models"
	"projectmate-service/internal/service"

	"github.com/gofiber/fiber/v3"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

func (h *ChatHandler) RegisterRoutes(app *fiber.App) {
	group := app.Group("/protected/chats", middleware.RequireAuth())
	group.Get("/", h.ListConversations)
	group.Post("/:userId", h.GetOrCreate)
	group.Get("/:id/messages", h.ListMessages)
	group.Post("/:id/messages", h.SendMessage)
	group.Post("/:id/read", h.MarkRead)
}

func (h *ChatHandler) GetOrCreate(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conversation, err := h.chatService.GetOrCreateConversation(ctx, middleware.CallerFrom(c), c.Params("userId"))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"conversation": conversation},
	})
}

func (h *ChatHandler) ListConversations(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conversations, err := h.chatService.ListConversations(ctx, middleware.CallerFrom(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"conversations": conversations},
	})
}

func (h *ChatHandler) SendMessage(c fiber.Ctx) error {
	var req models.SendMessageRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	message, err := h.chatService.SendMessage(ctx, middleware.CallerFrom(c), c.Params("id"), req.Text)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"message": message},
	})
}

func (h *ChatHandler) ListMessages(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	messages, err := h.chatService.ListMessages(ctx, middleware.CallerFrom(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"messages": messages},
	})
}

func (h *ChatHandler) MarkRead(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.chatService.MarkRead(ctx, middleware.CallerFrom(c), c.Params("id")); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"read": true},
	})
}
