package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"auth/internal/modules/auth/service"
)

type deviceDTO struct {
	DeviceID       string `json:"device_id"`
	Title          string `json:"title"`
	IP             string `json:"ip"`
	LastActiveDate string `json:"last_active_date"`
}

func ListDevicesHandler(sessions *service.SessionRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if uid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error_code": "UNAUTHORIZED",
				"message":    "Authorization required",
			})
		}

		items, err := sessions.ListSessions(c.Context(), uid)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error_code": "SERVER_ERROR",
				"message":    "Could not load devices",
			})
		}

		out := make([]deviceDTO, 0, len(items))
		for _, s := range items {
			out = append(out, deviceDTO{
				DeviceID:       s.ID,
				Title:          s.Title,
				IP:             s.IP,
				LastActiveDate: s.LastActive.UTC().Format(time.RFC3339),
			})
		}
		return c.JSON(out)
	}
}
