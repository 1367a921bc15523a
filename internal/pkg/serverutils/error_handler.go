package serverutils

import (
	"errors"

	"learnflow-be/internal/pkg/apperr"
	"learnflow-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandlerMiddleware turns errors returned by downstream handlers into
// the JSON error body. Unknown errors become a generic 500.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, log, err)
	}
}

func WriteError(ctx *fiber.Ctx, log logger.ILogger, err error) error {
	if appErr, ok := apperr.As(err); ok {
		status := appErr.Kind.HTTPStatus()
		if status >= fiber.StatusInternalServerError && log != nil {
			log.Error("HTTP", appErr.Message, map[string]interface{}{
				"path":  ctx.Path(),
				"kind":  appErr.Kind.String(),
				"error": err.Error(),
			})
		}
		return ctx.Status(status).JSON(ErrorResponse{Error: appErr.Message, Details: appErr.Details})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse{Error: fiberErr.Message})
	}

	if log != nil {
		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Internal server error"})
}
