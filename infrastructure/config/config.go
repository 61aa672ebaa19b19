// Package config reads run settings from the environment.
package config

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"storefront_e2e/infrastructure/browser"
)

const DefaultBaseURL = "https://demo.nopcommerce.com"

// Config holds every setting of a run. CLI flags override these after Load.
type Config struct {
	BaseURL string

	Driver       browser.Kind
	Browser      string
	Headless     bool
	SlowMo       time.Duration
	DriverPath   string
	ChromeBinary string
	SeleniumPort int

	ActionTimeout   time.Duration
	PollInterval    time.Duration
	AssertTimeout   time.Duration
	ScenarioTimeout time.Duration
	TeardownTimeout time.Duration

	Parallelism   int
	Retries       int
	StopOnFailure bool
	SafeMode      bool

	FixturesFile string
	ReportDir    string

	LogLevel logrus.Level
	Trace    bool
}

// Load reads the configuration through getenv, usually os.Getenv
func Load(getenv func(string) string) (*Config, error) {
	p := parser{getenv: getenv}
	cfg := &Config{
		BaseURL:      p.str("BASE_URL", DefaultBaseURL),
		Driver:       browser.Kind(strings.ToLower(p.str("BROWSER_DRIVER", string(browser.KindPlaywright)))),
		Browser:      strings.ToLower(p.str("BROWSER", "chromium")),
		Headless:     p.boolean("HEADLESS", true),
		SlowMo:       time.Duration(p.integer("SLOW_MO_MS", 0)) * time.Millisecond,
		DriverPath:   getenv("BROWSER_DRIVER_PATH"),
		ChromeBinary: getenv("CHROME_BINARY_PATH"),
		SeleniumPort: p.integer("SELENIUM_PORT", 9515),

		ActionTimeout:   p.duration("ACTION_TIMEOUT", 30*time.Second),
		PollInterval:    p.duration("POLL_INTERVAL", 100*time.Millisecond),
		AssertTimeout:   p.duration("ASSERT_TIMEOUT", 5*time.Second),
		ScenarioTimeout: p.duration("SCENARIO_TIMEOUT", 2*time.Minute),
		TeardownTimeout: p.duration("TEARDOWN_TIMEOUT", 10*time.Second),

		Parallelism:   p.integer("PARALLELISM", 1),
		Retries:       p.integer("RETRIES", 0),
		StopOnFailure: p.boolean("STOP_ON_FAILURE", false),
		SafeMode:      p.boolean("SAFE_MODE", false),

		FixturesFile: getenv("FIXTURES_FILE"),
		ReportDir:    p.str("REPORT_DIR", defaultReportDir(getenv)),
		Trace:        p.boolean("TRACE", false),
	}
	level, err := logrus.ParseLevel(p.str("LOG_LEVEL", "info"))
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("LOG_LEVEL: %v", err))
	}
	cfg.LogLevel = level

	if len(p.errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(p.errs, "; "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that flags may have changed after Load
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BASE_URL must be an absolute url, got %q", c.BaseURL)
	}
	if !slices.Contains(browser.Kinds(), c.Driver) {
		return fmt.Errorf("BROWSER_DRIVER must be one of %v, got %q", browser.Kinds(), c.Driver)
	}
	switch c.Browser {
	case "chromium", "chrome", "firefox", "webkit":
	default:
		return fmt.Errorf("BROWSER must be chromium, firefox or webkit, got %q", c.Browser)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("PARALLELISM must be at least 1, got %d", c.Parallelism)
	}
	if c.Retries < 0 {
		return fmt.Errorf("RETRIES must not be negative, got %d", c.Retries)
	}
	if c.ActionTimeout <= 0 || c.ScenarioTimeout <= 0 || c.TeardownTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.AssertTimeout < 0 {
		return fmt.Errorf("ASSERT_TIMEOUT must not be negative, got %s", c.AssertTimeout)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	return nil
}

// BrowserOptions converts the config for browser.NewProvider
func (c *Config) BrowserOptions() browser.Options {
	return browser.Options{
		BaseURL:           c.BaseURL,
		Browser:           c.Browser,
		Headless:          c.Headless,
		SlowMo:            c.SlowMo,
		ActionTimeout:     c.ActionTimeout,
		NavigationTimeout: c.ActionTimeout,
		DriverPath:        c.DriverPath,
		ChromeBinary:      c.ChromeBinary,
		SeleniumPort:      c.SeleniumPort,
	}
}

// NewLogger builds the run logger writing to out
func (c *Config) NewLogger(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(c.LogLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

func defaultReportDir(getenv func(string) string) string {
	home := getenv("HOME")
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			home = "."
		}
	}
	return filepath.Join(home, ".storefront_e2e", "reports")
}

// parser collects every malformed value instead of stopping at the first
type parser struct {
	getenv func(string) string
	errs   []string
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) boolean(key string, def bool) bool {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s: %q is not a boolean", key, v))
		return def
	}
	return b
}

func (p *parser) integer(key string, def int) int {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s: %q is not a number", key, v))
		return def
	}
	return n
}

// duration accepts Go durations ("1m30s") and bare milliseconds
func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s: %q is not a duration", key, v))
		return def
	}
	return d
}
