package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bellashop/internal/log"
	"bellashop/internal/services"
	"bellashop/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginBody struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func badLogin(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid email or password"})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var b loginBody
	if err := c.BodyParser(&b); err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"reason": "bad_body"})
		return badLogin(c)
	}
	email, ok := validate.Email(b.Email)
	if !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": b.Email, "reason": "bad_format"})
		return badLogin(c)
	}
	if !validate.Password(b.Password) {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_password_format"})
		return badLogin(c)
	}

	a, token, err := h.Auth.Login(c.UserContext(), email, b.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return badLogin(c)
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email, "admin_id": a.ID})
	return c.JSON(fiber.Map{
		"admin": fiber.Map{"id": a.ID, "name": a.Name, "email": a.Email},
		"token": token,
	})
}
