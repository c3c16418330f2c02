package http

import (
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"

	"auth/internal/modules/auth/service"
)

type recoveryReq struct {
	Email string `json:"email"`
}

func PasswordRecoveryHandler(rec *service.RecoveryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req recoveryReq
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "INVALID_FIELDS",
				"message":    "Malformed request body",
			})
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "INVALID_EMAIL",
				"message":    "Malformed email address",
			})
		}

		ok, err := rec.RequestRecovery(c.Context(), req.Email)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error_code": "SERVER_ERROR",
				"message":    "Could not process the request",
			})
		}
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "DELIVERY_FAILED",
				"message":    "Could not deliver the recovery email",
			})
		}

		// same answer whether or not the account exists
		return c.JSON(fiber.Map{"message": "If the account exists, a recovery email has been sent"})
	}
}
