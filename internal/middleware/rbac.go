package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireAdmin guards the moderation surface. It assumes AuthRequired
// already ran.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return Unauthorized("User not found")
		}

		if !user.IsAdmin {
			return Forbidden("Insufficient permissions for this operation")
		}

		return c.Next()
	}
}

func IsAdmin(c *fiber.Ctx) bool {
	user := GetCurrentUser(c)
	return user != nil && user.IsAdmin
}
