// Package response writes the JSON envelope every API route answers with.
package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *problem    `json:"error,omitempty"`
}

type problem struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// codes maps the statuses the API uses to their error code.
var codes = map[int]string{
	fiber.StatusBadRequest:          "BAD_REQUEST",
	fiber.StatusUnauthorized:        "UNAUTHORIZED",
	fiber.StatusForbidden:           "FORBIDDEN",
	fiber.StatusNotFound:            "NOT_FOUND",
	fiber.StatusUnprocessableEntity: "VALIDATION_ERROR",
	fiber.StatusInternalServerError: "INTERNAL_ERROR",
}

func ok(c *fiber.Ctx, status int, data interface{}, message string) error {
	return c.Status(status).JSON(envelope{Success: true, Message: message, Data: data})
}

func fail(c *fiber.Ctx, status int, message string, details interface{}) error {
	return Error(c, status, codes[status], message, details)
}

func Success(c *fiber.Ctx, data interface{}, message string) error {
	return ok(c, fiber.StatusOK, data, message)
}

func Created(c *fiber.Ctx, data interface{}, message string) error {
	return ok(c, fiber.StatusCreated, data, message)
}

// Error answers with an explicit code. Most handlers go through the shorthands below.
func Error(c *fiber.Ctx, status int, code, message string, details interface{}) error {
	return c.Status(status).JSON(envelope{
		Error: &problem{Code: code, Message: message, Details: details},
	})
}

func BadRequest(c *fiber.Ctx, message string, details interface{}) error {
	return fail(c, fiber.StatusBadRequest, message, details)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusUnauthorized, message, nil)
}

func Forbidden(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusForbidden, message, nil)
}

func NotFound(c *fiber.Ctx, resource string) error {
	return fail(c, fiber.StatusNotFound, resource+" not found", nil)
}

// ValidationError answers 422 with per-field messages in details.
func ValidationError(c *fiber.Ctx, fields interface{}) error {
	return fail(c, fiber.StatusUnprocessableEntity, "Validation failed", fields)
}

func InternalError(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusInternalServerError, message, nil)
}

// FromStoreError answers 404 for missing records and 500 for anything else.
func FromStoreError(c *fiber.Ctx, err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(c, resource)
	}
	return InternalError(c, "Failed to access "+resource)
}
