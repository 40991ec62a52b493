package controller

import (
	"ai-storyboard-be/internal/constant"
	"ai-storyboard-be/internal/dto"
	"ai-storyboard-be/internal/pkg/serverutils"
	"ai-storyboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBillingController interface {
	RegisterRoutes(r fiber.Router, auth ...fiber.Handler)
	Balance(ctx *fiber.Ctx) error
	Transactions(ctx *fiber.Ctx) error
	Packs(ctx *fiber.Ctx) error
	Checkout(ctx *fiber.Ctx) error
	Portal(ctx *fiber.Ctx) error
}

type billingController struct {
	billingService service.IBillingService
}

func NewBillingController(billingService service.IBillingService) IBillingController {
	return &billingController{
		billingService: billingService,
	}
}

func (c *billingController) RegisterRoutes(r fiber.Router, auth ...fiber.Handler) {
	h := r.Group("/billing", auth...)
	h.Get("/balance", c.Balance)
	h.Get("/transactions", c.Transactions)
	h.Get("/packs", c.Packs)
	h.Post("/checkout", c.Checkout)
	h.Post("/portal", c.Portal)
}

func (c *billingController) Balance(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.billingService.GetBalance(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

// Transactions accepts ?page&pageSize; out-of-range values are clamped, not rejected.
func (c *billingController) Transactions(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	req := dto.TransactionHistoryRequest{
		Page:     ctx.QueryInt("page", 1),
		PageSize: ctx.QueryInt("pageSize", constant.DefaultHistoryPageSize),
	}

	res, err := c.billingService.GetTransactions(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *billingController) Packs(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"packs": c.billingService.ListPacks()})
}

func (c *billingController) Checkout(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CheckoutRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.billingService.CreateCheckout(ctx.UserContext(), userId, serverutils.CurrentEmail(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *billingController) Portal(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.billingService.CreatePortalSession(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
