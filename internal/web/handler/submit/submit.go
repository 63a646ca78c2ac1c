// Package submit serves the request submission form and accepts new
// service requests.
package submit

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/config"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/controller/request"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/models"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/directory"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/mailer"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/handler"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/middleware/auth"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/navigation"
)

// Path is the path to the submission form.
const Path = "/submit"

const notifyTimeout = 20 * time.Second

// Service is the submission handler service.
type Service struct {
	cfg       *config.Config
	requests  *request.Store
	directory *directory.Client
	mailer    *mailer.Mailer
	validator *validator.Validate
}

// Handler is the submission handler.
var Handler = Service{}

// form carries the submission fields.
type form struct {
	RequesterName string `form:"requester_name" validate:"required,max=120"`
	Department    string `form:"department" validate:"required,max=120"`
	Category      string `form:"category" validate:"required,max=120"`
	Description   string `form:"description" validate:"required,max=4000"`
}

// Init initializes the submission handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, requests *request.Store, dir *directory.Client, m *mailer.Mailer) error {
	if app == nil || cfg == nil || requests == nil || dir == nil || m == nil {
		return ErrNilDependency
	}

	s.cfg = cfg
	s.requests = requests
	s.directory = dir
	s.mailer = m
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get renders the submission form.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, fiber.Map{
		"submitted": c.Query("submitted") == "1",
	})
}

// Post accepts a new request. The notification mail is best effort; a
// failed send never fails the submission.
func (s *Service) Post(c *fiber.Ctx) error {
	in := new(form)
	if err := c.BodyParser(in); err != nil {
		return s.render(c, fiber.Map{"error": "Invalid form data"})
	}

	if err := s.validator.Struct(in); err != nil {
		return s.render(c, fiber.Map{
			"error":          "Please fill in all fields",
			"requester_name": in.RequesterName,
			"description":    in.Description,
		})
	}

	id, err := s.requests.Insert(in.RequesterName, in.Department, in.Category, in.Description)
	if err != nil {
		log.Error().Err(err).Msg("failed to insert request")
		return s.render(c, fiber.Map{"error": "Could not save your request, please try again"})
	}

	log.Info().Uint64("request_id", id).Str("category", in.Category).Msg("request submitted")

	s.notify(in)

	return c.Redirect(Path + "?submitted=1")
}

func (s *Service) notify(in *form) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := s.mailer.NotifyNewRequest(ctx, in.RequesterName, in.Department, in.Category, in.Description); err != nil {
		log.Warn().Err(err).Msg("request notification mail not sent")
	}
}

func (s *Service) render(c *fiber.Ctx, data fiber.Map) error {
	identity, _ := auth.Identity(c)

	data["title"] = s.cfg.Title
	data["username"] = identity.Username
	data["nav"] = navigation.NewContext("Submit Request", "submit").
		AddBreadcrumb("Home", "/", false).
		AddBreadcrumb("Submit Request", Path, true)
	data["departments"] = s.directory.Departments(c.Context())
	data["categories"] = models.Categories

	return c.Render("submit", data, handler.BaseLayout)
}
