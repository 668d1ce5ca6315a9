package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bellashop/internal/catalog"
	"bellashop/internal/domain"
	applog "bellashop/internal/log"
	"bellashop/internal/media"
	"bellashop/internal/services"
)

// AdminHandler serves the catalog mutations behind RequireAdmin.
type AdminHandler struct {
	Catalog *services.CatalogService
	Media   *media.Store
}

// POST /api/products
// Uploaded files come first, then pasted URLs.
func (h *AdminHandler) Create(c *fiber.Ctx) error {
	req, err := parseProduct(c)
	if err != nil {
		return fail(c, "admin.products.create.fail", err, nil)
	}
	uploaded, err := h.Media.SaveAll(req.Uploads)
	if err != nil {
		return fail(c, "admin.products.upload.fail", err, nil)
	}
	p, err := h.Catalog.CreateProduct(c.UserContext(), req.In, append(uploaded, req.URLs...))
	if err != nil {
		h.Media.RemoveAll(uploaded)
		return fail(c, "admin.products.create.fail", err, nil)
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID, "name": p.Name, "images": len(p.ImageURLs)})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/products/:id
// Kept URLs come first, then new uploads.
func (h *AdminHandler) Update(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return fail(c, "admin.products.update.fail", err, nil)
	}
	req, err := parseProduct(c)
	if err != nil {
		return fail(c, "admin.products.update.fail", err, map[string]any{"product_id": id})
	}
	uploaded, err := h.Media.SaveAll(req.Uploads)
	if err != nil {
		return fail(c, "admin.products.upload.fail", err, map[string]any{"product_id": id})
	}
	p, err := h.Catalog.UpdateProduct(c.UserContext(), id, req.In, append(req.URLs, uploaded...))
	if err != nil {
		h.Media.RemoveAll(uploaded)
		return fail(c, "admin.products.update.fail", err, map[string]any{"product_id": id})
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": id, "images": len(p.ImageURLs)})
	return c.JSON(p)
}

// DELETE /api/products/:id
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return fail(c, "admin.products.delete.fail", err, nil)
	}
	p, err := h.Catalog.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, "admin.products.delete.fail", err, map[string]any{"product_id": id})
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id, "name": p.Name})
	return c.JSON(fiber.Map{"message": "Product deleted", "product": p})
}

var flagMessages = map[domain.Flag]string{
	domain.FlagFeatured:    "Featured status updated",
	domain.FlagBestSeller:  "Best seller status updated",
	domain.FlagHighlighted: "Highlighted status updated",
}

// Toggle returns the PATCH handler for one placement flag.
func (h *AdminHandler) Toggle(f domain.Flag) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := productID(c)
		if err != nil {
			return fail(c, "admin.products.toggle.fail", err, nil)
		}
		p, err := h.Catalog.ToggleFlag(c.UserContext(), id, f)
		if err != nil {
			return fail(c, "admin.products.toggle.fail", err, map[string]any{"product_id": id, "flag": string(f)})
		}
		applog.Audit(c, "product.toggle."+string(f), map[string]any{"product_id": id, "value": p.Has(f)})
		return c.JSON(fiber.Map{"message": flagMessages[f], "product": p})
	}
}

// PATCH /api/products/:id/toggle-sold
func (h *AdminHandler) ToggleSold(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return fail(c, "admin.products.toggle.fail", err, nil)
	}
	p, err := h.Catalog.ToggleSold(c.UserContext(), id)
	if err != nil {
		return fail(c, "admin.products.toggle.fail", err, map[string]any{"product_id": id, "flag": "sold"})
	}
	applog.Audit(c, "product.toggle.sold", map[string]any{"product_id": id, "status": string(p.Status)})
	msg := "Product marked as available"
	if p.IsSold() {
		msg = "Product marked as sold"
	}
	return c.JSON(fiber.Map{"message": msg, "product": p})
}

// GET /api/products/stats/overview
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	st, err := h.Catalog.Stats(c.UserContext())
	if err != nil {
		return fail(c, "admin.stats.fail", err, nil)
	}
	return c.JSON(st)
}

// DELETE /api/products/admin/sold-items
func (h *AdminHandler) SweepSold(c *fiber.Ctx) error {
	res, err := h.Catalog.SweepOldSold(c.UserContext())
	if err != nil {
		return fail(c, "catalog.sweep.fail", err, nil)
	}
	applog.Audit(c, "catalog.sweep", map[string]any{"deleted": res.DeletedCount, "source": "admin"})
	return c.JSON(res)
}

// GET /api/products/:id/history
func (h *AdminHandler) History(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return fail(c, "admin.history.fail", err, nil)
	}
	evs, err := h.Catalog.StatusHistory(c.UserContext(), id)
	if err != nil {
		return fail(c, "admin.history.fail", err, map[string]any{"product_id": id})
	}
	return c.JSON(evs)
}

// GET /api/products/admin/description-pools
func (h *AdminHandler) Pools(c *fiber.Ctx) error {
	pools, err := h.Catalog.DescriptionPools(c.UserContext())
	if err != nil {
		return fail(c, "admin.pools.fail", err, nil)
	}
	return c.JSON(pools)
}

// PUT /api/products/admin/description-pools
func (h *AdminHandler) ReplacePools(c *fiber.Ctx) error {
	var body catalog.Pools
	if err := c.BodyParser(&body); err != nil {
		return fail(c, "admin.pools.fail", domain.Invalid("body", "expected an object of sentence lists"), nil)
	}
	pools, err := h.Catalog.ReplaceDescriptionPools(c.UserContext(), body)
	if err != nil {
		return fail(c, "admin.pools.fail", err, nil)
	}
	applog.Audit(c, "pools.update", map[string]any{"keys": len(body)})
	return c.JSON(pools)
}

// POST /api/products/admin/describe
func (h *AdminHandler) Describe(c *fiber.Ctx) error {
	var body productBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, "admin.describe.fail", domain.Invalid("body", "malformed request body"), nil)
	}
	text, err := h.Catalog.Describe(c.UserContext(), body.input())
	if err != nil {
		return fail(c, "admin.describe.fail", err, nil)
	}
	return c.JSON(fiber.Map{"description": text})
}
