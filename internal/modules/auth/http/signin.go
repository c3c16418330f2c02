package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"auth/internal/modules/auth/domain"
	"auth/internal/modules/auth/service"
)

type signInReq struct {
	LoginOrEmail string `json:"login_or_email"`
	Password     string `json:"password"`
}

type signInResp struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func SignInHandler(users *service.UserService, sessions *service.SessionRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signInReq
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "INVALID_FIELDS",
				"message":    "Malformed request body",
			})
		}
		req.LoginOrEmail = strings.TrimSpace(req.LoginOrEmail)

		u, err := users.CheckCredentials(c.Context(), req.LoginOrEmail, req.Password)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error_code": "INVALID_CREDENTIALS",
					"message":    "Wrong login or password",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error_code": "SERVER_ERROR",
				"message":    "Could not sign in",
			})
		}

		// only confirmed users may log in; the verifier itself does not gate
		if !u.IsConfirmed {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "EMAIL_NOT_CONFIRMED",
				"message":    "Confirm your email before signing in",
			})
		}

		pair, err := sessions.Login(c.Context(), u, c.IP(), c.Get("User-Agent"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error_code": "SERVER_ERROR",
				"message":    "Could not create a session",
			})
		}

		return c.JSON(signInResp{
			Message:      "Signed in",
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		})
	}
}
