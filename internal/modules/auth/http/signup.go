package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"auth/internal/modules/auth/domain"
	"auth/internal/modules/auth/service"
)

type signUpReq struct {
	Login    string `json:"login" validate:"required,min=3,max=30,alphanum"`
	Password string `json:"password" validate:"required,min=8,max=50"`
	Email    string `json:"email" validate:"required,email"`
}

var validate = validator.New()

type signUpResp struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

func SignUpHandler(reg *service.RegistrationService, users *service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signUpReq
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "INVALID_FIELDS",
				"message":    "Malformed request body",
			})
		}
		req.Login = strings.TrimSpace(req.Login)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "VALIDATION_ERROR",
				"message":    err.Error(),
			})
		}

		if taken, _ := users.IsLoginExist(c.Context(), req.Login); taken {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error_code": "LOGIN_TAKEN",
				"message":    "Login is already in use",
			})
		}
		if taken, _ := users.IsEmailExist(c.Context(), req.Email); taken {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error_code": "EMAIL_TAKEN",
				"message":    "Email is already in use",
			})
		}

		u, err := reg.Register(c.Context(), req.Login, req.Password, req.Email)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrConflict):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error_code": "ALREADY_EXISTS",
					"message":    "Login or email is already in use",
				})
			case errors.Is(err, domain.ErrDeliveryFailed):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error_code": "DELIVERY_FAILED",
					"message":    "Could not deliver the confirmation email",
				})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error_code": "SERVER_ERROR",
					"message":    "Could not register",
				})
			}
		}

		return c.Status(fiber.StatusCreated).JSON(signUpResp{
			Message: "Registered. Confirm your email to sign in",
			UserID:  u.ID,
		})
	}
}
