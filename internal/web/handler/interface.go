package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/config"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config) error
}
