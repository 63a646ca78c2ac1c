package admin

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/config"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/controller/request"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/controller/setting"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/controller/user"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/models"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/secrets"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/web/middleware/auth"
)

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

type fixture struct {
	app      *fiber.App
	requests *request.Store
	settings *setting.Store
}

func setup(t *testing.T, role models.Role) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Request{}, &models.Setting{}))

	requests, err := request.New(db)
	require.NoError(t, err)

	keyHex, err := secrets.GenerateKey()
	require.NoError(t, err)

	key, err := secrets.ParseKey(keyHex)
	require.NoError(t, err)

	box, err := secrets.NewBox(key)
	require.NoError(t, err)

	settings, err := setting.New(db, box)
	require.NoError(t, err)
	require.NoError(t, settings.BootstrapDefaults())

	app := fiber.New(fiber.Config{Views: noOpViews{}})

	// stand-in for the session middleware
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.IdentityKey, user.Identity{ID: 1, Username: "tester", Role: role})
		return c.Next()
	})

	cfg := &config.Config{Title: "Service Desk"}

	var s Service
	require.NoError(t, s.Init(app, cfg, requests, settings))

	return &fixture{app: app, requests: requests, settings: settings}
}

func postForm(t *testing.T, app *fiber.App, target string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func TestGetRequiresAdminRole(t *testing.T) {
	f := setup(t, models.RoleStaff)

	req := httptest.NewRequest(http.MethodGet, Path, nil)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetRendersPanelForAdmin(t *testing.T) {
	f := setup(t, models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, Path, nil)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPostStatusUpdatesRequest(t *testing.T) {
	f := setup(t, models.RoleAdmin)

	id, err := f.requests.Insert("Jane Doe", "Finance", "Hardware Issue", "Monitor flickers.")
	require.NoError(t, err)

	form := url.Values{
		"request_id": {strconv.FormatUint(id, 10)},
		"status":     {models.StatusInProgress},
	}
	resp := postForm(t, f.app, Path+"/requests", form)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, Path+"?updated=1", resp.Header.Get("Location"))

	stored, err := f.requests.ListAll()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, id, stored[0].ID)
	assert.Equal(t, models.StatusInProgress, stored[0].Status)
}

func TestPostStatusUnknownRequestRendersError(t *testing.T) {
	f := setup(t, models.RoleAdmin)

	form := url.Values{
		"request_id": {"99"},
		"status":     {models.StatusResolved},
	}
	resp := postForm(t, f.app, Path+"/requests", form)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "does not exist")
}

func TestPostSettingUpdatesValue(t *testing.T) {
	f := setup(t, models.RoleAdmin)

	form := url.Values{
		"key":   {setting.KeySMTPServer},
		"value": {"mail.internal.example.com"},
	}
	resp := postForm(t, f.app, Path+"/settings", form)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusFound, resp.StatusCode)

	value, err := f.settings.Get(setting.KeySMTPServer)
	require.NoError(t, err)
	assert.Equal(t, "mail.internal.example.com", value)
}

func TestPostSettingUnknownKeyRendersError(t *testing.T) {
	f := setup(t, models.RoleAdmin)

	form := url.Values{
		"key":   {"no_such_setting"},
		"value": {"x"},
	}
	resp := postForm(t, f.app, Path+"/settings", form)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "no_such_setting")
}
