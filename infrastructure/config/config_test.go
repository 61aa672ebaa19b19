package config

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_e2e/infrastructure/browser"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoad_Defaults(t *testing.T) {
	// GIVEN an environment with only HOME set
	cfg, err := Load(env(map[string]string{"HOME": "/home/qa"}))

	// THEN every option has its documented default
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, browser.KindPlaywright, cfg.Driver)
	assert.Equal(t, "chromium", cfg.Browser)
	assert.True(t, cfg.Headless)
	assert.Zero(t, cfg.SlowMo)
	assert.Equal(t, 9515, cfg.SeleniumPort)
	assert.Equal(t, 30*time.Second, cfg.ActionTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.AssertTimeout)
	assert.Equal(t, 2*time.Minute, cfg.ScenarioTimeout)
	assert.Equal(t, 10*time.Second, cfg.TeardownTimeout)
	assert.Equal(t, 1, cfg.Parallelism)
	assert.Zero(t, cfg.Retries)
	assert.False(t, cfg.StopOnFailure)
	assert.False(t, cfg.SafeMode)
	assert.Empty(t, cfg.FixturesFile)
	assert.Equal(t, filepath.Join("/home/qa", ".storefront_e2e", "reports"), cfg.ReportDir)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.False(t, cfg.Trace)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(env(map[string]string{
		"BASE_URL":         "http://localhost:5000",
		"BROWSER_DRIVER":   "HTTP",
		"BROWSER":          "firefox",
		"HEADLESS":         "false",
		"SLOW_MO_MS":       "250",
		"ACTION_TIMEOUT":   "1500",
		"SCENARIO_TIMEOUT": "1m30s",
		"PARALLELISM":      "4",
		"RETRIES":          "2",
		"STOP_ON_FAILURE":  "1",
		"SAFE_MODE":        "true",
		"FIXTURES_FILE":    "data.yaml",
		"REPORT_DIR":       "/tmp/reports",
		"LOG_LEVEL":        "debug",
		"TRACE":            "true",
	}))

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.BaseURL)
	assert.Equal(t, browser.KindHTTP, cfg.Driver)
	assert.Equal(t, "firefox", cfg.Browser)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 250*time.Millisecond, cfg.SlowMo)
	assert.Equal(t, 1500*time.Millisecond, cfg.ActionTimeout)
	assert.Equal(t, 90*time.Second, cfg.ScenarioTimeout)
	assert.Equal(t, 4, cfg.Parallelism)
	assert.Equal(t, 2, cfg.Retries)
	assert.True(t, cfg.StopOnFailure)
	assert.True(t, cfg.SafeMode)
	assert.Equal(t, "data.yaml", cfg.FixturesFile)
	assert.Equal(t, "/tmp/reports", cfg.ReportDir)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.Trace)

	opts := cfg.BrowserOptions()
	assert.Equal(t, "http://localhost:5000", opts.BaseURL)
	assert.Equal(t, "firefox", opts.Browser)
	assert.Equal(t, 1500*time.Millisecond, opts.NavigationTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{"relative base url", map[string]string{"BASE_URL": "/shop"}, "BASE_URL must be an absolute url"},
		{"unknown driver", map[string]string{"BROWSER_DRIVER": "puppeteer"}, "BROWSER_DRIVER must be one of"},
		{"unknown browser", map[string]string{"BROWSER": "opera"}, "BROWSER must be chromium"},
		{"zero parallelism", map[string]string{"PARALLELISM": "0"}, "PARALLELISM must be at least 1"},
		{"negative retries", map[string]string{"RETRIES": "-1"}, "RETRIES must not be negative"},
		{"bad boolean", map[string]string{"HEADLESS": "sometimes"}, `HEADLESS: "sometimes" is not a boolean`},
		{"bad number", map[string]string{"SELENIUM_PORT": "port"}, `SELENIUM_PORT: "port" is not a number`},
		{"bad duration", map[string]string{"ACTION_TIMEOUT": "soon"}, `ACTION_TIMEOUT: "soon" is not a duration`},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}, "LOG_LEVEL"},
		{"negative assert timeout", map[string]string{"ASSERT_TIMEOUT": "-1s"}, "ASSERT_TIMEOUT must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(env(tt.vars))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad_ZeroAssertTimeoutIsAllowed(t *testing.T) {
	cfg, err := Load(env(map[string]string{"ASSERT_TIMEOUT": "0"}))

	require.NoError(t, err)
	assert.Zero(t, cfg.AssertTimeout)
}

func TestLoad_ReportsEveryMalformedValue(t *testing.T) {
	_, err := Load(env(map[string]string{"HEADLESS": "maybe", "RETRIES": "many"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HEADLESS")
	assert.Contains(t, err.Error(), "RETRIES")
}

func TestNewLogger(t *testing.T) {
	cfg, err := Load(env(map[string]string{"LOG_LEVEL": "warn"}))
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
