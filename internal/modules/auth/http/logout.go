package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"auth/internal/modules/auth/domain"
	"auth/internal/modules/auth/service"
)

type logoutReq struct {
	RefreshToken string `json:"refresh_token"`
}

func LogoutHandler(sessions *service.SessionRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if uid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error_code": "UNAUTHORIZED",
				"message":    "Authorization required",
			})
		}

		var req logoutReq
		if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "INVALID_FIELDS",
				"message":    "Malformed request body",
			})
		}

		deleted, err := sessions.Logout(c.Context(), uid, req.RefreshToken)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrStaleToken):
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error_code": "UNAUTHORIZED",
					"message":    "Refresh token does not match the session",
				})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error_code": "SERVER_ERROR",
					"message":    "Could not log out",
				})
			}
		}
		if !deleted {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error_code": "NOT_FOUND",
				"message":    "Session not found",
			})
		}

		return c.JSON(fiber.Map{"message": "Logged out"})
	}
}
