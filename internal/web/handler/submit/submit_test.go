package submit

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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/config"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/controller/request"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/controller/setting"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/models"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/directory"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/mailer"
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/secrets"
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
}

func setup(t *testing.T) *fixture {
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

	cfg := &config.Config{Title: "Service Desk"}
	cfg.Directory.BaseURL = "http://127.0.0.1:1" // unreachable, fallback list
	cfg.Directory.Timeout = time.Second
	cfg.SMTP.Timeout = time.Second

	m, err := mailer.New(settings, cfg)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{Views: noOpViews{}})

	var s Service
	require.NoError(t, s.Init(app, cfg, requests, directory.New(cfg), m))

	return &fixture{app: app, requests: requests}
}

func postForm(t *testing.T, app *fiber.App, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func TestGetRendersForm(t *testing.T) {
	f := setup(t)

	req := httptest.NewRequest(http.MethodGet, Path, nil)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPostStoresRequestDespiteMailFailure(t *testing.T) {
	f := setup(t)

	form := url.Values{
		"requester_name": {"Jane Doe"},
		"department":     {"Finance"},
		"category":       {"Hardware Issue"},
		"description":    {"Monitor flickers."},
	}
	resp := postForm(t, f.app, form)

	defer func() { _ = resp.Body.Close() }()

	// mail cannot be sent, the submission still succeeds
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, Path+"?submitted=1", resp.Header.Get("Location"))

	stored, err := f.requests.ListAll()
	require.NoError(t, err)
	require.Len(t, stored, 1)

	assert.Equal(t, "Jane Doe", stored[0].RequesterName)
	assert.Equal(t, "Finance", stored[0].Department)
	assert.Equal(t, "Hardware Issue", stored[0].Category)
	assert.Equal(t, models.StatusPending, stored[0].Status)
}

func TestPostRejectsIncompleteForm(t *testing.T) {
	f := setup(t)

	form := url.Values{
		"requester_name": {"Jane Doe"},
		// department, category and description missing
	}
	resp := postForm(t, f.app, form)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Please fill in all fields", string(body))

	stored, err := f.requests.ListAll()
	require.NoError(t, err)
	assert.Empty(t, stored)
}
