package http

import (
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"

	"auth/internal/modules/auth/service"
)

type resendReq struct {
	Email string `json:"email"`
}

func SignUpResendHandler(reg *service.RegistrationService, users *service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req resendReq
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

		if confirmed, _ := users.IsEmailConfirmed(c.Context(), req.Email); confirmed {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "ALREADY_CONFIRMED",
				"message":    "Email is already confirmed",
			})
		}

		ok, err := reg.ResendConfirmation(c.Context(), req.Email)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error_code": "SERVER_ERROR",
				"message":    "Could not resend the code",
			})
		}
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "RESEND_FAILED",
				"message":    "Could not resend the code",
			})
		}

		return c.JSON(fiber.Map{"message": "Confirmation code sent again"})
	}
}
