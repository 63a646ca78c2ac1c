package login

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/config"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/controller/user"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/models"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/handler"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/login"
)

// Service is the login handler service.
type Service struct {
	cfg   *config.Config
	users *user.Store
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, users *user.Store) error {
	if app == nil || cfg == nil || users == nil {
		return ErrNilDependency
	}

	s.cfg = cfg
	s.users = users

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{
		"title": s.cfg.Title,
		"next":  sanitizeNext(c.Query("next")),
	}, handler.BaseLayout)
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(models.User)
	if err := c.BodyParser(form); err != nil {
		return s.renderError(c, "Invalid form data")
	}

	account, err := s.users.VerifyCredentials(form.Username, form.Password)
	if err != nil {
		// same message regardless of which check failed
		return s.renderError(c, "Invalid username or password")
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")
		return s.renderError(c, "Internal server error")
	}

	userSession := &session.Data{
		User: s.users.Identity(account),
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return s.renderError(c, "Internal server error")
	}

	cookieSettings := &fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	log.Info().Str("username", account.Username).Str("role", string(account.Role)).Msg("user logged in")

	if next := sanitizeNext(c.FormValue("next")); next != "" {
		return c.Redirect(next)
	}

	return c.Redirect(handler.RootPath)
}

func (s *Service) renderError(c *fiber.Ctx, message string) error {
	return c.Render("login", fiber.Map{
		"title": s.cfg.Title,
		"error": message,
		"next":  sanitizeNext(c.FormValue("next")),
	}, handler.BaseLayout)
}

// sanitizeNext only allows same-site absolute paths as redirect targets.
func sanitizeNext(next string) string {
	decoded, err := url.QueryUnescape(next)
	if err != nil {
		return ""
	}

	if !strings.HasPrefix(decoded, "/") || strings.HasPrefix(decoded, "//") {
		return ""
	}

	return decoded
}
