// Package admin serves the admin panel: the request queue with status
// updates and the runtime settings editor.
package admin

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/config"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/controller/request"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/controller/setting"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/models"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/handler"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/middleware/auth"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/navigation"
)

// Path is the path to the admin panel.
const Path = "/admin"

// Statuses a request can be moved to from the panel.
var statuses = []string{
	models.StatusPending,
	models.StatusInProgress,
	models.StatusResolved,
	models.StatusClosed,
}

// Service is the admin handler service.
type Service struct {
	cfg       *config.Config
	requests  *request.Store
	settings  *setting.Store
	validator *validator.Validate
}

// Handler is the admin handler.
var Handler = Service{}

type statusForm struct {
	RequestID uint64 `form:"request_id" validate:"required"`
	Status    string `form:"status" validate:"required,max=60"`
}

type settingForm struct {
	Key   string `form:"key" validate:"required,max=120"`
	Value string `form:"value" validate:"max=4096"`
}

// Init initializes the admin handler. All routes require the admin role.
func (s *Service) Init(app *fiber.App, cfg *config.Config, requests *request.Store, settings *setting.Store) error {
	if app == nil || cfg == nil || requests == nil || settings == nil {
		return ErrNilDependency
	}

	s.cfg = cfg
	s.requests = requests
	s.settings = settings
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.RequireRole(models.RoleAdmin))
		router.Get(handler.RouterRootPath, s.Get)
		router.Post("/requests", s.PostStatus)
		router.Post("/settings", s.PostSetting)
	})

	return nil
}

// Get renders the admin panel.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, fiber.Map{
		"updated": c.Query("updated") == "1",
	})
}

// PostStatus moves a request to a new status.
func (s *Service) PostStatus(c *fiber.Ctx) error {
	in := new(statusForm)
	if err := c.BodyParser(in); err != nil {
		return s.render(c, fiber.Map{"error": "Invalid form data"})
	}

	if err := s.validator.Struct(in); err != nil {
		return s.render(c, fiber.Map{"error": "Request and status are required"})
	}

	found, err := s.requests.UpdateStatus(in.RequestID, in.Status)
	if err != nil {
		log.Error().Err(err).Uint64("request_id", in.RequestID).Msg("failed to update request status")
		return s.render(c, fiber.Map{"error": "Could not update the request"})
	}

	if !found {
		return s.render(c, fiber.Map{"error": "Request " + strconv.FormatUint(in.RequestID, 10) + " does not exist"})
	}

	log.Info().Uint64("request_id", in.RequestID).Str("status", in.Status).Msg("request status updated")

	return c.Redirect(Path + "?updated=1")
}

// PostSetting updates a runtime setting.
func (s *Service) PostSetting(c *fiber.Ctx) error {
	in := new(settingForm)
	if err := c.BodyParser(in); err != nil {
		return s.render(c, fiber.Map{"error": "Invalid form data"})
	}

	if err := s.validator.Struct(in); err != nil {
		return s.render(c, fiber.Map{"error": "Setting key is required"})
	}

	if err := s.settings.Set(in.Key, in.Value); err != nil {
		log.Error().Err(err).Str("key", in.Key).Msg("failed to update setting")
		return s.render(c, fiber.Map{"error": "Unknown setting " + in.Key})
	}

	log.Info().Str("key", in.Key).Msg("setting updated")

	return c.Redirect(Path + "?updated=1")
}

func (s *Service) render(c *fiber.Ctx, data fiber.Map) error {
	identity, _ := auth.Identity(c)

	requests, err := s.requests.ListAll()
	if err != nil {
		log.Error().Err(err).Msg("failed to list requests")
	}

	settings, err := s.settings.ListAll()
	if err != nil {
		log.Error().Err(err).Msg("failed to list settings")
	}

	// sensitive values are never shown, not even encrypted
	for i := range settings {
		if setting.IsSensitive(settings[i].Key) && settings[i].Value != "" {
			settings[i].Value = "********"
		}
	}

	data["title"] = s.cfg.Title
	data["username"] = identity.Username
	data["nav"] = navigation.NewContext("Admin Panel", "admin").
		AddBreadcrumb("Home", "/", false).
		AddBreadcrumb("Admin Panel", Path, true)
	data["requests"] = requests
	data["settings"] = settings
	data["statuses"] = statuses

	return c.Render("admin", data, handler.BaseLayout)
}
