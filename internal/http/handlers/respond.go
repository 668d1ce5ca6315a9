package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"bellashop/internal/domain"
	applog "bellashop/internal/log"
	"bellashop/internal/validate"
)

const msgServer = "Something went wrong. Please try again."

// fail maps an engine error onto a status code without leaking internals.
func fail(c *fiber.Ctx, action string, err error, fields map[string]any) error {
	switch {
	case domain.IsValidation(err):
		f := map[string]any{"reason": err.Error()}
		for k, v := range fields {
			f[k] = v
		}
		applog.Security(c, "validation.fail", f)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	default:
		applog.Error(c, action, err, fields)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": msgServer})
	}
}

func productID(c *fiber.Ctx) (int64, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return 0, domain.Invalid("id", "must be a positive integer")
	}
	return id, nil
}
