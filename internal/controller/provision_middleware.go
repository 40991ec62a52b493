package controller

import (
	"ai-storyboard-be/internal/pkg/apperror"
	"ai-storyboard-be/internal/pkg/serverutils"
	"ai-storyboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ProvisionMiddleware makes sure the authenticated caller has a user row and
// a ledger before any handler runs. It must follow serverutils.JwtMiddleware.
func ProvisionMiddleware(userService service.IUserService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userId, err := serverutils.CurrentUserID(ctx)
		if err != nil {
			return apperror.Unauthorized("Invalid token")
		}
		if err := userService.EnsureProvisioned(ctx.UserContext(), userId, serverutils.CurrentEmail(ctx)); err != nil {
			return err
		}
		return ctx.Next()
	}
}
