package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strykerscli/internal/config"
	"strykerscli/internal/services"
	"strykerscli/internal/shared/testutil"
)

// newTestApplication builds an application reading inputs from a temp dir.
// An empty csv leaves the input file missing.
func newTestApplication(t *testing.T, csv string) *Application {
	t.Helper()

	dir := t.TempDir()
	input := filepath.Join(dir, config.FallbackInputName)
	if csv != "" {
		testutil.WriteTransactionsCSV(t, dir, config.FallbackInputName, csv)
	}

	cfg := config.Default()
	cfg.Data.Inputs = []string{input}
	cfg.Data.ReportsDir = filepath.Join(dir, "reports")
	cfg.Data.AssetsDir = filepath.Join(dir, "assets")
	cfg.Security.RateLimit.Enabled = false

	logger, _ := testutil.NewTestLogger(t)
	app, err := NewApplication(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(app.WebSocketHub.Stop)
	return app
}

func get(app *Application, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewApplication(t *testing.T) {
	app := newTestApplication(t, testutil.SampleTransactionsCSV)

	assert.NotNil(t, app.Config)
	assert.NotNil(t, app.Paths)
	assert.NotNil(t, app.Logger)
	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.Server)
	assert.NotNil(t, app.WebSocketHub)
	assert.NotNil(t, app.Dashboard)
	assert.NotNil(t, app.HealthService)
	assert.NotNil(t, app.Metrics)
	assert.Equal(t, ":8080", app.Server.Addr)
}

func TestNewApplicationInvalidConfig(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		errorContains string
	}{
		{
			name:          "unknown buyer policy",
			mutate:        func(c *config.Config) { c.Analysis.BuyerPolicy = "weekly" },
			errorContains: "weekly",
		},
		{
			name:          "retention above one",
			mutate:        func(c *config.Config) { c.Finance.RetentionRate = 1.5 },
			errorContains: "RetentionRate",
		},
		{
			name:          "unknown trace exporter",
			mutate:        func(c *config.Config) { c.Telemetry.TraceExporter = "jaeger" },
			errorContains: "unsupported trace exporter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Data.ReportsDir = t.TempDir()
			tt.mutate(cfg)

			logger, _ := testutil.NewTestLogger(t)
			app, err := NewApplication(cfg, logger)

			require.Error(t, err)
			assert.Nil(t, app)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestApplicationRoutes(t *testing.T) {
	app := newTestApplication(t, testutil.SampleTransactionsCSV)

	tests := []struct {
		name           string
		target         string
		expectedStatus int
		expectedType   string
		expectedBody   string
	}{
		{"dashboard page", "/?category=Club", http.StatusOK, "text/html", config.AppName},
		{"dashboard json", "/api/dashboard?category=Club", http.StatusOK, "application/json", `"transactions":1`},
		{"invalid category", "/api/dashboard?category=Balcony", http.StatusBadRequest, "application/json", "VALIDATION_FAILED"},
		{"invalid policy", "/api/projection?policy=weekly", http.StatusBadRequest, "application/json", "policy"},
		{"filters", "/api/filters", http.StatusOK, "application/json", `"Bay FC"`},
		{"projection", "/api/projection?policy=report", http.StatusOK, "application/json", `"in_game_upsell"`},
		{"static report", "/api/report", http.StatusOK, "text/html", "data quality"},
		{"workbook", "/api/export.xlsx", http.StatusOK, "application/vnd.openxmlformats", ""},
		{"health", "/api/health", http.StatusOK, "application/json", `"status":"ok"`},
		{"metrics", "/metrics", http.StatusOK, "text/plain", "go_goroutines"},
		{"unknown route", "/api/nope", http.StatusNotFound, "application/json", "/errors/not-found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(app, tt.target)

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), tt.expectedType),
				"content type %q", rec.Header().Get("Content-Type"))
			if tt.expectedBody != "" {
				assert.Contains(t, strings.ToLower(rec.Body.String()), strings.ToLower(tt.expectedBody))
			}
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestApplicationPostDashboard(t *testing.T) {
	app := newTestApplication(t, testutil.SampleTransactionsCSV)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{"filter body", `{"categories":["Upper Level GA"]}`, http.StatusOK, `"transactions":2`},
		{"invalid json", `{"categories":`, http.StatusBadRequest, "INVALID_JSON"},
		{"invalid policy", `{"policy":"weekly"}`, http.StatusBadRequest, "VALIDATION_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/dashboard", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
		})
	}
}

func TestApplicationMissingInput(t *testing.T) {
	app := newTestApplication(t, "")

	rec := get(app, "/api/dashboard")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "/errors/data/not-found", problem["type"])
	assert.Contains(t, problem["detail"], config.FallbackInputName)

	rec = get(app, "/api/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), services.StatusDegraded)

	// The file appearing later is picked up without a restart.
	testutil.WriteTransactionsCSV(t, filepath.Dir(app.Config.Data.Inputs[0]), config.FallbackInputName,
		testutil.SampleTransactionsCSV)
	assert.Equal(t, http.StatusOK, get(app, "/api/dashboard").Code)
}

func TestApplicationStartStop(t *testing.T) {
	app := newTestApplication(t, testutil.SampleTransactionsCSV)
	app.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, app.Start(ctx, cancel))
	_, loaded := app.Dashboard.Loaded()
	assert.True(t, loaded, "startup check loads the dataset")

	require.NoError(t, app.Stop(context.Background()))
	assert.Equal(t, 0, app.WebSocketHub.ClientCount())
}
