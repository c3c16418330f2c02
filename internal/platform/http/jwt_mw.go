package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"auth/internal/platform/security"
)

// JWTAuth authenticates requests by access token and stores the user id in
// the request locals.
func JWTAuth(jwtMgr *security.JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error_code": "UNAUTHORIZED",
				"message":    "Authorization required",
			})
		}
		userID, err := jwtMgr.DecodeAccessToken(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error_code": "UNAUTHORIZED",
				"message":    "Authorization required",
			})
		}
		c.Locals("user_id", userID)
		return c.Next()
	}
}
