package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"auth/internal/modules/auth/domain"
	"auth/internal/modules/auth/service"
	"auth/internal/platform/security"
)

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func RefreshHandler(users *service.UserService, sessions *service.SessionRegistry, jwtMgr *security.JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req refreshReq
		if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "INVALID_FIELDS",
				"message":    "Malformed request body",
			})
		}

		claims, err := jwtMgr.DecodeRefreshToken(req.RefreshToken)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error_code": "INVALID_REFRESH",
				"message":    "Invalid or expired refresh token",
			})
		}
		u, err := users.GetUserByID(c.Context(), claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error_code": "INVALID_REFRESH",
				"message":    "Invalid or expired refresh token",
			})
		}

		pair, err := sessions.Refresh(c.Context(), u, req.RefreshToken)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrStaleToken):
				// a rotated-away token was presented again; possible reuse
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error_code": "STALE_REFRESH",
					"message":    "Refresh token has been superseded",
				})
			case errors.Is(err, domain.ErrUnauthorized):
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error_code": "UNAUTHORIZED",
					"message":    "Refresh token does not match the session",
				})
			case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrExpired):
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error_code": "INVALID_REFRESH",
					"message":    "Invalid or expired refresh token",
				})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error_code": "SERVER_ERROR",
					"message":    "Could not refresh the session",
				})
			}
		}

		return c.JSON(fiber.Map{
			"message":       "Tokens refreshed",
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
		})
	}
}
