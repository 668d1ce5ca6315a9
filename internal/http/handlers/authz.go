package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "bellashop/internal/log"
	"bellashop/internal/services"
)

// RequireAdmin accepts only requests carrying a valid admin bearer token.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get(fiber.HeaderAuthorization)
		tok, found := strings.CutPrefix(h, "Bearer ")
		tok = strings.TrimSpace(tok)
		if !found || tok == "" {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": "no_token"})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "No token provided"})
		}
		claims, err := auth.Verify(tok)
		if err != nil {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": "bad_token"})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token is invalid or expired"})
		}
		c.Locals(applog.LocalAdminID, claims.AdminID)
		return c.Next()
	}
}
