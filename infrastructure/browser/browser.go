// Package browser provides the session providers the runner drives: a real
// browser through playwright or selenium, or a script-less HTTP client that
// parses pages with goquery.
package browser

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"storefront_e2e/domain/interfaces"
)

// Kind names a session provider implementation
type Kind string

const (
	KindPlaywright Kind = "playwright"
	KindSelenium   Kind = "selenium"
	KindHTTP       Kind = "http"
)

// Kinds lists every supported provider
func Kinds() []Kind {
	return []Kind{KindPlaywright, KindSelenium, KindHTTP}
}

// Options configures every provider. Fields a provider has no use for are
// ignored.
type Options struct {
	BaseURL string

	// Browser is chromium, firefox or webkit (playwright only)
	Browser  string
	Headless bool
	SlowMo   time.Duration

	// ActionTimeout bounds a single driver call inside the browser
	ActionTimeout     time.Duration
	NavigationTimeout time.Duration

	// DriverPath and ChromeBinary locate chromedriver and Chrome (selenium only)
	DriverPath   string
	ChromeBinary string
	SeleniumPort int

	ViewportWidth  int
	ViewportHeight int
}

func (o Options) withDefaults() Options {
	if o.Browser == "" {
		o.Browser = "chromium"
	}
	if o.ActionTimeout <= 0 {
		o.ActionTimeout = 30 * time.Second
	}
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = 30 * time.Second
	}
	if o.SeleniumPort == 0 {
		o.SeleniumPort = 9515
	}
	if o.ViewportWidth == 0 {
		o.ViewportWidth = 1280
	}
	if o.ViewportHeight == 0 {
		o.ViewportHeight = 720
	}
	return o
}

// NewProvider starts the provider of the given kind
func NewProvider(kind Kind, opts Options, logger *logrus.Logger) (interfaces.SessionProvider, error) {
	if logger == nil {
		logger = logrus.New()
	}
	opts = opts.withDefaults()
	switch kind {
	case KindPlaywright, "":
		return NewPlaywrightProvider(opts, logger)
	case KindSelenium:
		return NewSeleniumProvider(opts, logger)
	case KindHTTP:
		return NewHTTPProvider(opts, logger), nil
	default:
		return nil, fmt.Errorf("unknown browser driver %q (want playwright, selenium or http)", kind)
	}
}

// resolveURL resolves raw against the current page, falling back to base
func resolveURL(base, current, raw string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	from := current
	if from == "" || from == "about:blank" {
		from = base
	}
	if from == "" {
		return "", fmt.Errorf("relative url %q without a base url", raw)
	}
	b, err := url.Parse(from)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", from, err)
	}
	return b.ResolveReference(ref).String(), nil
}
