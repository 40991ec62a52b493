package controller

import (
	"ai-storyboard-be/internal/dto"
	"ai-storyboard-be/internal/pkg/serverutils"
	"ai-storyboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStoryboardController interface {
	RegisterRoutes(r fiber.Router, auth ...fiber.Handler)
	Personas(ctx *fiber.Ctx) error
	Latest(ctx *fiber.Ctx) error
	Poll(ctx *fiber.Ctx) error
}

type storyboardController struct {
	storyboardService service.IStoryboardService
}

func NewStoryboardController(storyboardService service.IStoryboardService) IStoryboardController {
	return &storyboardController{
		storyboardService: storyboardService,
	}
}

func (c *storyboardController) RegisterRoutes(r fiber.Router, auth ...fiber.Handler) {
	h := r.Group("/storyboard", auth...)
	h.Get("/personas", c.Personas)
	h.Get("/conversations/:id/latest", c.Latest)
	h.Post("/scenes/:id/poll", c.Poll)
}

func (c *storyboardController) Personas(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"personas": c.storyboardService.ListPersonas()})
}

func (c *storyboardController) Latest(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	conversationId, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}

	scene, err := c.storyboardService.GetLatestScene(ctx.UserContext(), userId, conversationId)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.LatestSceneResponse{Scene: scene})
}

func (c *storyboardController) Poll(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	sceneId, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}

	scene, err := c.storyboardService.PollSceneForUser(ctx.UserContext(), userId, sceneId)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.PollSceneResponse{Scene: scene})
}
