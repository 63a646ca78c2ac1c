package auth

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/controller/user"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/models"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/session"
)

// IdentityKey is the fiber.Locals key holding the authenticated identity.
const IdentityKey = "identity"

// LoginPath is where unauthenticated requests get redirected.
const LoginPath = "/login"

// publicPrefixes are reachable without a session.
var publicPrefixes = []string{"/login", "/logout", "/static", "/checkalive"}

// New creates the session authentication middleware. The account behind
// the session is rehydrated from the database on every request.
func New(users *user.Store) fiber.Handler {
	if users == nil {
		log.Fatal().Msg("user store is nil")
		return nil
	}

	return func(c *fiber.Ctx) error {
		if isPublic(c) {
			// a logged-in user has no business on the login page
			if isLoginPage(c) && hasValidSession(c) {
				return c.Redirect("/")
			}

			return c.Next()
		}

		sessionID := c.Cookies(session.CookieName)
		if sessionID == "" {
			return redirectToLogin(c)
		}

		sessData := new(session.Data)
		if err := sessData.Read(sessionID); err != nil || sessData.User.ID == 0 {
			return redirectToLogin(c)
		}

		account, err := users.FindByID(sessData.User.ID)
		if err != nil {
			// deleted or deactivated since login, drop the session
			_ = session.Delete(sessionID)
			return redirectToLogin(c)
		}

		c.Locals(IdentityKey, users.Identity(account))

		return c.Next()
	}
}

// RequireRole returns a middleware that rejects authenticated users
// whose role does not match. It must run after New.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := Identity(c)
		if !ok {
			return redirectToLogin(c)
		}

		if identity.Role != role {
			return c.Status(fiber.StatusForbidden).Render("error", fiber.Map{
				"title":   "Forbidden",
				"message": "You do not have access to this page.",
			}, "layouts/base")
		}

		return c.Next()
	}
}

// Identity returns the authenticated identity stored by the middleware.
func Identity(c *fiber.Ctx) (user.Identity, bool) {
	identity, ok := c.Locals(IdentityKey).(user.Identity)
	return identity, ok
}

func isLoginPage(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.OriginalURL()), LoginPath)
}

func hasValidSession(c *fiber.Ctx) bool {
	sessionID := c.Cookies(session.CookieName)
	if sessionID == "" {
		return false
	}

	sessData := new(session.Data)
	if err := sessData.Read(sessionID); err != nil {
		return false
	}

	return sessData.User.ID != 0
}

func isPublic(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(originalURL, prefix) {
			return true
		}
	}

	return false
}

func redirectToLogin(c *fiber.Ctx) error {
	target := LoginPath
	if next := c.OriginalURL(); next != "" && next != "/" {
		target = LoginPath + "?next=" + url.QueryEscape(next)
	}

	return c.Redirect(target)
}
