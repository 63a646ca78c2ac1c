// Package directory looks up the list of departments from the company
// directory API. Any failure degrades to a fixed fallback list; callers
// never see an error from the lookup.
package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/config"
)

const defaultTimeout = 10 * time.Second

// FallbackDepartments is served whenever the directory API is
// unreachable or returns something unusable.
var FallbackDepartments = []string{"IT", "HR", "Finance", "Operations", "Facilities"}

// Client queries the directory API for department names.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a directory client from the configuration.
func New(cfg *config.Config) *Client {
	timeout := cfg.Directory.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    cfg.Directory.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// directoryUser mirrors the /users payload shape; only the nested
// company name is of interest.
type directoryUser struct {
	Company struct {
		Name string `json:"name"`
	} `json:"company"`
}

// Departments returns the distinct company names from the directory,
// sorted ascending. On any failure it logs and returns the fallback
// list, so a slow or broken directory never breaks the submission form.
func (c *Client) Departments(ctx context.Context) []string {
	departments, err := c.fetch(ctx)
	if err != nil {
		log.Error().Err(err).Str("base_url", c.baseURL).Msg("department lookup failed, using fallback list")
		return FallbackDepartments
	}

	if len(departments) == 0 {
		log.Warn().Str("base_url", c.baseURL).Msg("directory returned no departments, using fallback list")
		return FallbackDepartments
	}

	return departments
}

func (c *Client) fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrUnexpectedStatus
	}

	var users []directoryUser
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(users))
	departments := make([]string, 0, len(users))

	for _, u := range users {
		name := u.Company.Name
		if name == "" {
			continue
		}

		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		departments = append(departments, name)
	}

	sort.Strings(departments)

	return departments, nil
}
