package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/http/middleware"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/model"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// duplicatePayload extends the error body with the record that already
// exists, so clients can show the earlier reply or forward directly.
type duplicatePayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
	Existing  *model.Sent   `json:"existing"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// serviceError translates the service error taxonomy to HTTP responses.
// Every recoverable outcome gets a distinct code; anything unrecognized is an
// internal error with no detail exposed.
func serviceError(c *fiber.Ctx, err error) error {
	var dup *service.DuplicateActionError
	if errors.As(err, &dup) {
		return c.Status(fiber.StatusConflict).JSON(duplicatePayload{
			RequestID: requestIDFromCtx(c),
			Error: errorEnvelope{
				Code:    "DUPLICATE_ACTION",
				Message: "this action was already performed on the same record",
			},
			Existing: dup.Existing,
		})
	}

	var ite *service.InvalidTransitionError
	if errors.As(err, &ite) {
		if ite.Role == model.RoleNone {
			return writeError(c, fiber.StatusForbidden, "NOT_A_PARTY", "actor is neither sender nor receiver of this record")
		}
		return writeError(c, fiber.StatusUnprocessableEntity, "INVALID_TRANSITION", ite.Error())
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrUnsupportedAttachmentType):
		return writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_ATTACHMENT_TYPE", err.Error())
	case errors.Is(err, service.ErrRecipientNotFound):
		return writeError(c, fiber.StatusNotFound, "RECIPIENT_NOT_FOUND", "recipient not found")
	case errors.Is(err, service.ErrParentNotFound):
		return writeError(c, fiber.StatusNotFound, "PARENT_NOT_FOUND", "parent sent record not found")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "record not found")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
