package controllers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/adpilot-io/adpilot/internal/pkg/usercontext"
)

var validate = validator.New()

// requireUser resolves the authenticated user from the request context.
// Routes behind the API key middleware always have one; the guard covers
// misconfigured route groups.
func requireUser(c *fiber.Ctx) (usercontext.UserContext, error) {
	uc := usercontext.FromCtx(c)
	if !uc.IsLoggedIn {
		return uc, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "Authentication required",
		})
	}
	return uc, nil
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "bad_request",
		"message": message,
	})
}

func internalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_server_error",
		"message": message,
	})
}

// parseAndValidate binds the JSON body into dst and runs struct validation.
func parseAndValidate(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}
