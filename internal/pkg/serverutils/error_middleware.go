package serverutils

import (
	"errors"

	"voice-intake-be/pkg/dialogue"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware translates errors bubbling out of controllers into
// JSON envelopes with sensible status codes.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var verr *ValidationError
		var ferr *fiber.Error

		switch {
		case errors.As(err, &verr):
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(verr.Message))
		case errors.Is(err, dialogue.ErrConversationNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, dialogue.ErrNotReadyToSubmit):
			return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(err.Error()))
		case errors.As(err, &ferr):
			return ctx.Status(ferr.Code).JSON(ErrorResponse(ferr.Message))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(err.Error()))
		}
	}
}
