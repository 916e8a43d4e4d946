package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"discusschat-be/pkg/dialogue"
	"discusschat-be/pkg/facilitator"
)

// ErrorHandlerMiddleware translates domain errors bubbling out of the
// controllers into stable HTTP statuses with the shared envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErr *RequestValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).
				JSON(ValidationErrorResponse(validationErr.Error(), validationErr.Fields))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		status := statusForDomainError(err)
		return ctx.Status(status).JSON(ErrorResponse(status, err.Error()))
	}
}

func statusForDomainError(err error) int {
	switch {
	case errors.Is(err, dialogue.ErrSessionNotFound),
		errors.Is(err, dialogue.ErrParticipantNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, dialogue.ErrTurnInFlight),
		errors.Is(err, dialogue.ErrFinalizationDone),
		errors.Is(err, dialogue.ErrConversationActive):
		return fiber.StatusConflict
	case errors.Is(err, dialogue.ErrConversationConcluded):
		return fiber.StatusGone
	case errors.Is(err, dialogue.ErrInsufficientData):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, facilitator.ErrMalformedOutput):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
