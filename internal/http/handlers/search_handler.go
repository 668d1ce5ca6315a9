package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"bellashop/internal/log"
	"bellashop/internal/services"
	"bellashop/internal/validate"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

// GET /api/products/suggest?q=
func (h *SearchHandler) Suggest(c *fiber.Ctx) error {
	return h.suggest(c, "search.suggest.fail", h.Catalog.Suggest)
}

// GET /api/products/admin/suggest?q=
// Same as Suggest but over the whole catalog, sold products included.
func (h *SearchHandler) AdminSuggest(c *fiber.Ctx) error {
	return h.suggest(c, "admin.suggest.fail", h.Catalog.SuggestAll)
}

func (h *SearchHandler) suggest(c *fiber.Ctx, action string, complete func(context.Context, string) ([]string, error)) error {
	rawQ := c.Query("q")
	q, ok := validate.Q(rawQ)
	if !ok {
		// autocomplete never errors for the user; just nothing to suggest
		log.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
		return c.JSON([]string{})
	}
	out, err := complete(c.UserContext(), q)
	if err != nil {
		return fail(c, action, err, nil)
	}
	return c.JSON(out)
}
