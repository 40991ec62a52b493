package serverutils

import (
	"errors"

	"ai-storyboard-be/internal/pkg/apperror"
	"ai-storyboard-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders any error returned from a handler as
// {error, code, details?}. Unknown errors are logged and hidden behind a 500.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		if appErr, ok := apperror.As(err); ok {
			if appErr.Status >= fiber.StatusInternalServerError {
				log.Error("HTTP", appErr.Message, map[string]interface{}{
					"path":  ctx.Path(),
					"code":  appErr.Code,
					"error": err.Error(),
				})
			}
			return ctx.Status(appErr.Status).JSON(ErrorResponse(appErr.Code, appErr.Message, appErr.Details))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code := apperror.CodeInternal
			switch fiberErr.Code {
			case fiber.StatusNotFound:
				code = apperror.CodeNotFound
			case fiber.StatusUnauthorized:
				code = apperror.CodeUnauthorized
			case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
				code = apperror.CodeValidation
			}
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(code, fiberErr.Message, nil))
		}

		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(apperror.CodeInternal, "Internal server error", nil))
	}
}
