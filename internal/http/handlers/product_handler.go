package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"bellashop/internal/catalog"
	"bellashop/internal/domain"
	"bellashop/internal/log"
	"bellashop/internal/services"
	"bellashop/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// query reads the client filter state shared by every listing.
func query(c *fiber.Ctx) (catalog.Query, error) {
	q, ok := validate.Q(c.Query("q"))
	if !ok {
		return catalog.Query{}, domain.Invalid("q", "enter a valid keyword")
	}
	return catalog.Query{
		Category: validate.Text(c.Query("category"), 100),
		Search:   q,
		Sort:     catalog.ParseSort(c.Query("sort")),
	}, nil
}

func (h *ProductHandler) listing(action string, list func(context.Context) ([]domain.Product, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := query(c)
		if err != nil {
			return fail(c, action, err, map[string]any{"q": c.Query("q")})
		}
		ps, err := list(c.UserContext())
		if err != nil {
			return fail(c, action, err, nil)
		}
		return c.JSON(catalog.Apply(ps, q))
	}
}

// GET /api/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	return h.listing("products.list.fail", h.Catalog.ListAvailable)(c)
}

// GET /api/products/featured
func (h *ProductHandler) Featured(c *fiber.Ctx) error {
	return h.listing("products.featured.fail", h.Catalog.ListFeatured)(c)
}

// GET /api/products/bestsellers
func (h *ProductHandler) Bestsellers(c *fiber.Ctx) error {
	return h.listing("products.bestsellers.fail", h.Catalog.ListBestsellers)(c)
}

// GET /api/products/highlighted
func (h *ProductHandler) Highlighted(c *fiber.Ctx) error {
	return h.listing("products.highlighted.fail", h.Catalog.ListHighlighted)(c)
}

// GET /api/products/sold/all
func (h *ProductHandler) Sold(c *fiber.Ctx) error {
	return h.listing("products.sold.fail", h.Catalog.ListSold)(c)
}

// GET /api/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		log.Security(c, "validation.fail", map[string]any{"field": "id"})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, "products.get.fail", err, map[string]any{"product_id": id})
	}
	return c.JSON(p)
}
