package login

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/config"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/controller/user"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/models"
	websess "github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/session"
)

// noOpViews is a minimal Fiber Views engine used for tests. It writes
// the "error" field from the provided fiber.Map (if any) so tests can
// assert error messages rendered by handlers.
type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			_, _ = io.WriteString(w, v.(string))
			return nil
		}
	}

	_, _ = io.WriteString(w, name)

	return nil
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{Views: noOpViews{}})
}

func newTestUsers(t *testing.T, cfg *config.Config) *user.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}))

	users, err := user.New(db, cfg)
	require.NoError(t, err)

	return users
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		DevMode: false,
		Title:   "Service Desk",
	}
	cfg.Webserver.URL = "http://localhost"
	cfg.Webserver.Port = 3000
	cfg.Webserver.Session.ExpiryTime = time.Minute
	cfg.Bootstrap.AdminPassword = "admin-test-pass"
	cfg.Bootstrap.StaffPassword = "staff-test-pass"

	return cfg
}

func initSessionStore() {
	websess.Init(memory.New())
}

func performPost(t *testing.T, app *fiber.App, target string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func TestPostSuccessSetsCookieAndRedirects(t *testing.T) {
	cfg := newTestConfig()
	users := newTestUsers(t, cfg)
	app := newTestApp()

	initSessionStore()

	var s Service
	require.NoError(t, s.Init(app, cfg, users))
	require.NoError(t, users.Bootstrap())

	form := url.Values{
		"username": {"admin"},
		"password": {"admin-test-pass"},
	}
	resp := performPost(t, app, Path, form)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	setCookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, setCookie, "session=")
	assert.Contains(t, strings.ToLower(setCookie), "secure")
	assert.Contains(t, strings.ToLower(setCookie), "httponly")
}

func TestPostDevModeDisablesSecureCookie(t *testing.T) {
	cfg := newTestConfig()
	cfg.DevMode = true

	users := newTestUsers(t, cfg)
	app := newTestApp()

	initSessionStore()

	var s Service
	require.NoError(t, s.Init(app, cfg, users))
	require.NoError(t, users.Bootstrap())

	form := url.Values{
		"username": {"staff"},
		"password": {"staff-test-pass"},
	}
	resp := performPost(t, app, Path, form)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.NotContains(t, strings.ToLower(resp.Header.Get("Set-Cookie")), "secure")
}

func TestPostInvalidCredentialsRendersSameError(t *testing.T) {
	cfg := newTestConfig()
	users := newTestUsers(t, cfg)
	app := newTestApp()

	initSessionStore()

	var s Service
	require.NoError(t, s.Init(app, cfg, users))
	require.NoError(t, users.Bootstrap())

	// wrong password and unknown username must look identical
	for _, form := range []url.Values{
		{"username": {"admin"}, "password": {"wrong"}},
		{"username": {"nobody"}, "password": {"whatever"}},
	} {
		resp := performPost(t, app, Path, form)

		require.Equal(t, http.StatusOK, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		assert.Equal(t, "Invalid username or password", string(body))
		assert.Empty(t, resp.Header.Get("Set-Cookie"))
	}
}

func TestPostHonorsNextParameter(t *testing.T) {
	cfg := newTestConfig()
	users := newTestUsers(t, cfg)
	app := newTestApp()

	initSessionStore()

	var s Service
	require.NoError(t, s.Init(app, cfg, users))
	require.NoError(t, users.Bootstrap())

	form := url.Values{
		"username": {"admin"},
		"password": {"admin-test-pass"},
		"next":     {"/admin"},
	}
	resp := performPost(t, app, Path, form)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))
}

func TestSanitizeNext(t *testing.T) {
	tests := []struct {
		name     string
		next     string
		expected string
	}{
		{name: "same-site path", next: "/admin", expected: "/admin"},
		{name: "encoded path", next: "%2Fadmin", expected: "/admin"},
		{name: "absolute url rejected", next: "https://evil.example.com", expected: ""},
		{name: "protocol-relative rejected", next: "//evil.example.com", expected: ""},
		{name: "empty", next: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeNext(tt.next))
		})
	}
}
