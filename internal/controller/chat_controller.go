package controller

import (
	"bufio"
	"strconv"

	"ai-storyboard-be/internal/dto"
	"ai-storyboard-be/internal/pkg/serverutils"
	"ai-storyboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, auth ...fiber.Handler)
	Send(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router, auth ...fiber.Handler) {
	// Not a Group: conversation routes share the /chat prefix and carry their own auth.
	handlers := append(append([]fiber.Handler{}, auth...), c.Send)
	r.Post("/chat/send", handlers...)
}

// Send debits a token, stores the message and streams the reply as SSE.
// Errors before the stream starts are ordinary JSON errors.
func (c *chatController) Send(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	turn, err := c.chatService.StartTurn(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Conversation-Id", turn.ConversationId.String())
	ctx.Set("X-Token-Balance", strconv.Itoa(turn.Balance))

	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		c.chatService.StreamTurn(turn, w)
	})
	return nil
}
