package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"auth/internal/modules/auth/domain"
	"auth/internal/modules/auth/service"
)

func DeleteDeviceHandler(sessions *service.SessionRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if uid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error_code": "UNAUTHORIZED",
				"message":    "Authorization required",
			})
		}
		deviceID := c.Params("device_id")
		if deviceID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "INVALID_FIELDS",
				"message":    "device_id is required",
			})
		}

		deleted, err := sessions.TerminateSession(c.Context(), uid, deviceID)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				// the session belongs to another user
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error_code": "FORBIDDEN",
					"message":    "Not your session",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error_code": "SERVER_ERROR",
				"message":    "Could not terminate the session",
			})
		}
		if !deleted {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error_code": "NOT_FOUND",
				"message":    "Session not found",
			})
		}

		return c.JSON(fiber.Map{"message": "Session terminated"})
	}
}

type deleteOthersReq struct {
	RefreshToken string `json:"refresh_token"`
}

func DeleteOtherDevicesHandler(sessions *service.SessionRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if uid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error_code": "UNAUTHORIZED",
				"message":    "Authorization required",
			})
		}
		var req deleteOthersReq
		if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "INVALID_FIELDS",
				"message":    "Malformed request body",
			})
		}

		count, err := sessions.TerminateOtherSessions(c.Context(), uid, req.RefreshToken)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error_code": "UNAUTHORIZED",
				"message":    "Refresh token does not match the session",
			})
		}

		return c.JSON(fiber.Map{
			"message":             "Other sessions terminated",
			"sessions_terminated": count,
		})
	}
}
