package handlers

import (
	"fmt"
	"log"
	"strings"

	"atelier/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// verbose controls whether internal error detail is included in
// responses. Enabled outside production.
var verbose bool

// SetVerbose toggles internal error detail in responses.
func SetVerbose(v bool) {
	verbose = v
}

// envelope is the fixed response shape of every endpoint.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func success(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// fail maps a workflow error to its status code and envelope. Expected
// outcomes (conflicts, invalid referrals, not found) pass their message
// through; unexpected errors are logged in full and reported
// generically unless verbose mode is on.
func fail(c *fiber.Ctx, message string, err error) error {
	kind := apperrors.KindOf(err)
	status := apperrors.StatusCode(kind)

	detail := err.Error()
	if kind == apperrors.KindInternal {
		log.Printf("internal error on %s %s: %v", c.Method(), c.Path(), err)
		if !verbose {
			detail = "internal server error"
		}
	}
	return c.Status(status).JSON(envelope{
		Success: false,
		Message: message,
		Error:   detail,
	})
}

// badRequest reports a malformed body.
func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(envelope{
		Success: false,
		Message: "invalid request body",
		Error:   err.Error(),
	})
}

// validationFail reports struct validation failures field by field.
func validationFail(c *fiber.Ctx, err error) error {
	var parts []string
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			parts = append(parts, fmt.Sprintf("field '%s' failed on the '%s' rule", e.Field(), e.Tag()))
		}
	} else {
		parts = append(parts, err.Error())
	}
	return c.Status(fiber.StatusBadRequest).JSON(envelope{
		Success: false,
		Message: "validation failed",
		Error:   strings.Join(parts, "; "),
	})
}
