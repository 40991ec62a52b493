package controller

import (
	"crypto/subtle"

	"ai-storyboard-be/internal/dto"
	"ai-storyboard-be/internal/pkg/apperror"
	"ai-storyboard-be/internal/pkg/serverutils"
	"ai-storyboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	BillingWebhook(ctx *fiber.Ctx) error
	MidtransNotification(ctx *fiber.Ctx) error
}

type webhookController struct {
	billingService service.IBillingService
	username       string
	password       string
}

func NewWebhookController(billingService service.IBillingService, username, password string) IWebhookController {
	return &webhookController{
		billingService: billingService,
		username:       username,
		password:       password,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhooks")
	h.Post("/billing", basicauth.New(basicauth.Config{
		Authorizer: c.authorize,
		Unauthorized: func(ctx *fiber.Ctx) error {
			return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(apperror.CodeUnauthorized, "Unauthorized", nil))
		},
	}), c.BillingWebhook)
	h.Post("/midtrans", c.MidtransNotification)
}

// authorize rejects everything while credentials are unset.
func (c *webhookController) authorize(user, pass string) bool {
	if c.username == "" || c.password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(c.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(c.password)) == 1
	return userOK && passOK
}

func (c *webhookController) BillingWebhook(ctx *fiber.Ctx) error {
	var event dto.BillingWebhookEvent
	if err := parseBody(ctx, &event); err != nil {
		return err
	}

	payload := append([]byte(nil), ctx.Body()...)
	if err := c.billingService.HandleBillingWebhook(ctx.UserContext(), &event, payload); err != nil {
		return err
	}
	return ctx.JSON(dto.WebhookAckResponse{Status: "ok"})
}

func (c *webhookController) MidtransNotification(ctx *fiber.Ctx) error {
	var req dto.MidtransWebhookRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	payload := append([]byte(nil), ctx.Body()...)
	if err := c.billingService.HandleMidtransNotification(ctx.UserContext(), &req, payload); err != nil {
		return err
	}
	return ctx.JSON(dto.WebhookAckResponse{Status: "ok"})
}
