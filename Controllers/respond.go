package Controllers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"TaskTracker/apperrors"
)

// respondError renders err as {"error": ..., "code": ...} with the status of its kind.
func respondError(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": apperrors.Message(err),
		"code":  apperrors.KindOf(err).Code(),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
		"code":  apperrors.KindValidation.Code(),
	})
}

// paramID parses a positive numeric path parameter.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
