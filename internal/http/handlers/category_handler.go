package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bellashop/internal/services"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

// GET /api/products/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.Categories(c.UserContext())
	if err != nil {
		return fail(c, "categories.list.fail", err, nil)
	}
	return c.JSON(cats)
}
