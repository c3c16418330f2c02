package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"auth/internal/modules/auth/service"
)

type confirmReq struct {
	Code string `json:"code"`
}

func SignUpConfirmHandler(reg *service.RegistrationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req confirmReq
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "INVALID_FIELDS",
				"message":    "Malformed request body",
			})
		}
		req.Code = strings.TrimSpace(req.Code)
		if req.Code == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "INVALID_CODE",
				"message":    "Confirmation code is required",
			})
		}

		ok, err := reg.ConfirmEmail(c.Context(), req.Code)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error_code": "SERVER_ERROR",
				"message":    "Could not confirm email",
			})
		}
		if !ok {
			// unknown and expired codes are indistinguishable on purpose
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "INVALID_CODE",
				"message":    "Invalid or expired confirmation code",
			})
		}

		return c.JSON(fiber.Map{"message": "Email confirmed"})
	}
}
