package handlers

import (
	"os"

	"github.com/gofiber/fiber/v2"

	applog "bellashop/internal/log"
	"bellashop/internal/media"
)

// Uploads serves stored images, refusing traversal attempts.
func Uploads(store *media.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rel := c.Params("*")
		full, ok := store.Resolve(rel)
		if !ok {
			applog.Security(c, "media.traversal.block", map[string]any{"path": rel})
			return c.SendStatus(fiber.StatusNotFound)
		}
		if st, err := os.Stat(full); err != nil || st.IsDir() {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(full, false)
	}
}
