package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"auth/internal/modules/auth/service"
)

type newPasswordReq struct {
	NewPassword  string `json:"new_password" validate:"required,min=8,max=50"`
	RecoveryCode string `json:"recovery_code" validate:"required"`
}

func NewPasswordHandler(rec *service.RecoveryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req newPasswordReq
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "INVALID_FIELDS",
				"message":    "Malformed request body",
			})
		}
		req.RecoveryCode = strings.TrimSpace(req.RecoveryCode)
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "VALIDATION_ERROR",
				"message":    err.Error(),
			})
		}

		ok, err := rec.SetNewPassword(c.Context(), req.NewPassword, req.RecoveryCode)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error_code": "SERVER_ERROR",
				"message":    "Could not reset the password",
			})
		}
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "INVALID_CODE",
				"message":    "Invalid or expired recovery code",
			})
		}

		return c.JSON(fiber.Map{"message": "Password has been reset"})
	}
}
