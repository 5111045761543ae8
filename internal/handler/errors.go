package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"go-backoffice/internal/invoice"
	"go-backoffice/internal/search"
	"go-backoffice/internal/service"
	"go-backoffice/pkg/jwt"
	"go-backoffice/pkg/logger"
)

// statusFor maps a service error to the HTTP status the console expects.
func statusFor(err error) int {
	var fe *fiber.Error
	var ue *invoice.UpstreamError
	switch {
	case errors.As(err, &fe):
		return fe.Code

	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidInvoice),
		errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, invoice.ErrInvalidInvoiceState),
		errors.Is(err, search.ErrKindMismatch):
		return fiber.StatusBadRequest

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSessionTimeout),
		errors.Is(err, service.ErrSessionReplaced),
		errors.Is(err, jwt.ErrInvalidToken),
		errors.Is(err, jwt.ErrMissingToken):
		return fiber.StatusUnauthorized

	case errors.Is(err, service.ErrUserLocked):
		return fiber.StatusForbidden

	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrRoleNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrInvoiceNotFound),
		errors.Is(err, service.ErrDraftNotFound):
		return fiber.StatusNotFound

	case errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrUserNameExists),
		errors.Is(err, service.ErrProductCodeExists),
		errors.Is(err, service.ErrClientExists),
		errors.Is(err, service.ErrInvoiceExists):
		return fiber.StatusConflict

	case errors.As(err, &ue):
		switch ue.Kind {
		case invoice.KindValidation:
			return fiber.StatusBadRequest
		case invoice.KindUnauthorized:
			return fiber.StatusForbidden
		case invoice.KindConflict:
			return fiber.StatusConflict
		}
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler is the app-wide fiber error handler. Handlers return service
// errors unchanged and this writes {"error": "..."} with the mapped status.
func ErrorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := statusFor(err)
		msg := err.Error()
		if status >= fiber.StatusInternalServerError {
			log.ErrorContext(c.UserContext(), "request failed",
				"method", c.Method(),
				"path", c.Path(),
				"request_id", c.Locals("requestid"),
				"error", err,
			)
			msg = "Internal Server Error"
		}
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
}
