// Package home routes authenticated users to their landing page by role.
package home

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/config"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/handler"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/handler/admin"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/handler/submit"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/middleware/auth"
)

// Service is the home handler service.
type Service struct {
	cfg *config.Config
}

// Handler is the home handler.
var Handler = Service{}

// Init initializes the home handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config) {
	if app == nil || cfg == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg

	app.Get(handler.RootPath, s.Get)
}

// Get redirects by role: admins land on the admin panel, everyone else
// on the submission form.
func (s *Service) Get(c *fiber.Ctx) error {
	identity, ok := auth.Identity(c)
	if !ok {
		return c.Redirect(auth.LoginPath)
	}

	if identity.IsAdmin() {
		return c.Redirect(admin.Path)
	}

	return c.Redirect(submit.Path)
}
