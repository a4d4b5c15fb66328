package handlers

import (
	"errors"
	"log"

	"mars/internal/common"
	"mars/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// respondError translates a core error into an HTTP response.
// Not-found and auth failures carry generic messages only.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var validationErr *common.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErr.Fields,
		})
	case errors.Is(err, common.ErrDuplicateEmail):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "This user exists",
		})
	case errors.Is(err, common.ErrAuthFailure):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Incorrect login or password",
		})
	case errors.Is(err, common.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	case errors.Is(err, common.ErrUnauthenticated):
		return c.Redirect(middleware.LoginPath, fiber.StatusSeeOther)
	case errors.Is(err, common.ErrTransientStore):
		log.Printf("%s: %v", fallback, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Service temporarily unavailable, please retry",
		})
	default:
		log.Printf("%s: %v", fallback, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": fallback,
		})
	}
}

// invalidBody answers a request whose body could not be parsed.
func invalidBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body: %v", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
