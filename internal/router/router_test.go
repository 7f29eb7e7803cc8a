package router

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/reportkit/internal/config"
	"github.com/soltixdb/reportkit/internal/element"
	"github.com/soltixdb/reportkit/internal/handlers"
	"github.com/soltixdb/reportkit/internal/logging"
	"github.com/soltixdb/reportkit/internal/models"
)

var testAPIKey = strings.Repeat("k", 40)

func newApp(authEnabled bool) *fiber.App {
	cfg := config.DefaultConfig()
	cfg.Auth = config.AuthConfig{Enabled: authEnabled, APIKeys: []string{testAPIKey}}

	return New(logging.NewDevelopment(), handlers.Dependencies{
		ElementDefaults: element.DefaultOptions(),
	}, *cfg)
}

func TestRouter_HealthWithoutAuth(t *testing.T) {
	resp, err := newApp(true).Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(logging.RequestIDHeader))
}

func TestRouter_V1RequiresAPIKey(t *testing.T) {
	app := newApp(true)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/presets", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/v1/presets", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRouter_Routes(t *testing.T) {
	app := newApp(false)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{"GET", "/v1/operators/number", "", fiber.StatusOK},
		{"GET", "/v1/aggregations/text", "", fiber.StatusOK},
		{"GET", "/v1/presets", "", fiber.StatusOK},
		{"POST", "/v1/filters/tree", `{}`, fiber.StatusOK},
		{"POST", "/v1/filters/wire", `{"filter":{"type":"OR","conditions":[]}}`, fiber.StatusOK},
		{"POST", "/v1/filters/validate", `{"filter":{"type":"AND","conditions":[]}}`, fiber.StatusOK},
		{"POST", "/v1/format", `{"config":{"type":"text"},"values":["a"]}`, fiber.StatusOK},
		{"POST", "/v1/namespaces/none/elements/query", `{"dataSource":"orders"}`, fiber.StatusBadRequest},
		{"GET", "/v1/namespaces/none/datasources/orders/columns", "", fiber.StatusBadRequest},
		{"POST", "/v1/admin/refetch", `{"namespace":"none"}`, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	resp, err := newApp(false).Test(httptest.NewRequest("GET", "/v2/nothing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &errResp))
	assert.Equal(t, "NOT_FOUND", errResp.Error.Code)
	assert.Equal(t, "/v2/nothing", errResp.Error.Path)
}
