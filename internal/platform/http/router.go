package http

import "github.com/gofiber/fiber/v2"

// Module registers its routes on the shared API prefix.
type Module interface {
	Register(r fiber.Router)
}
