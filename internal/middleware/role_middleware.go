package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eventsphere/backend/internal/models"
)

// RequireRole allows only principals carrying one of the given roles.
// It must run after AuthMiddleware.
func RequireRole(roles ...models.UserRole) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[string(r)] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Missing user context"))
		}
		if _, ok := allowed[role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("Insufficient permissions"))
		}
		return c.Next()
	}
}

// RequireAdmin allows only administrator accounts.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, ok := c.Locals("isAdmin").(bool)
		if !ok || !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("Admin access only"))
		}
		return c.Next()
	}
}
