package browser

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"storefront_e2e/domain/entities"
	"storefront_e2e/domain/interfaces"
)

// PlaywrightProvider owns one browser process. Every session is a fresh
// browser context, so cookies and storage never leak between scenarios.
type PlaywrightProvider struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
	logger  *logrus.Logger
	seq     atomic.Int64
}

// NewPlaywrightProvider starts playwright and launches the configured browser
func NewPlaywrightProvider(opts Options, logger *logrus.Logger) (*PlaywrightProvider, error) {
	opts = opts.withDefaults()
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var bt playwright.BrowserType
	switch opts.Browser {
	case "chromium", "chrome":
		bt = pw.Chromium
	case "firefox":
		bt = pw.Firefox
	case "webkit":
		bt = pw.WebKit
	default:
		_ = pw.Stop()
		return nil, fmt.Errorf("unknown browser %q (want chromium, firefox or webkit)", opts.Browser)
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	if opts.SlowMo > 0 {
		launch.SlowMo = playwright.Float(float64(opts.SlowMo.Milliseconds()))
	}
	if bt == pw.Chromium {
		launch.Args = []string{
			"--disable-popup-blocking",
			"--disable-dev-shm-usage",
			"--no-sandbox",
			"--disable-notifications",
		}
	}
	browser, err := bt.Launch(launch)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	logger.Infof("Launched %s %s (headless=%t)", opts.Browser, browser.Version(), opts.Headless)

	return &PlaywrightProvider{pw: pw, browser: browser, opts: opts, logger: logger}, nil
}

// NewSession opens a new context and page
func (p *PlaywrightProvider) NewSession(ctx context.Context) (interfaces.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bc, err := p.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  p.opts.ViewportWidth,
			Height: p.opts.ViewportHeight,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
		BaseURL:           optionalString(p.opts.BaseURL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}
	page, err := bc.NewPage()
	if err != nil {
		_ = bc.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(float64(p.opts.ActionTimeout.Milliseconds()))
	page.SetDefaultNavigationTimeout(float64(p.opts.NavigationTimeout.Milliseconds()))
	page.OnDialog(func(dialog playwright.Dialog) {
		_ = dialog.Accept()
	})

	id := fmt.Sprintf("pw-%d", p.seq.Add(1))
	s := &pwSession{
		id:     id,
		bc:     bc,
		page:   page,
		opts:   p.opts,
		logger: p.logger.WithField("session", id),
	}
	s.driver = &pwDriver{s: s}
	return s, nil
}

// Close shuts the browser down and stops the playwright driver
func (p *PlaywrightProvider) Close() error {
	var errs []string
	if p.browser != nil {
		if err := p.browser.Close(); err != nil && !isClosedErr(err) {
			errs = append(errs, fmt.Sprintf("failed to close browser: %v", err))
		}
		p.browser = nil
	}
	if p.pw != nil {
		if err := p.pw.Stop(); err != nil {
			errs = append(errs, fmt.Sprintf("failed to stop playwright: %v", err))
		}
		p.pw = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return playwright.String(s)
}

func isClosedErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "closed") || strings.Contains(msg, "target closed")
}

type pwSession struct {
	id     string
	bc     playwright.BrowserContext
	page   playwright.Page
	opts   Options
	logger logrus.FieldLogger
	driver *pwDriver
}

func (s *pwSession) ID() string { return s.id }

func (s *pwSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := resolveURL(s.opts.BaseURL, s.page.URL(), url)
	if err != nil {
		return err
	}
	s.logger.Infof("Navigating to: %s", target)
	_, err = s.page.Goto(target, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	return err
}

func (s *pwSession) URL(ctx context.Context) (string, error) {
	return s.page.URL(), nil
}

func (s *pwSession) Title(ctx context.Context) (string, error) {
	return s.page.Title()
}

// Snapshot includes a screenshot; a failed capture still returns url and title
func (s *pwSession) Snapshot(ctx context.Context) (entities.PageInfo, error) {
	info := entities.PageInfo{URL: s.page.URL()}
	info.Title, _ = s.page.Title()
	shot, err := s.page.Screenshot()
	if err != nil {
		return info, fmt.Errorf("failed to take screenshot: %w", err)
	}
	info.Screenshot = shot
	return info, nil
}

func (s *pwSession) Driver() interfaces.Driver { return s.driver }

func (s *pwSession) Close(ctx context.Context) error {
	if err := s.bc.Close(); err != nil && !isClosedErr(err) {
		return fmt.Errorf("failed to close context: %w", err)
	}
	return nil
}

type pwElement struct {
	loc  playwright.Locator
	desc string
}

func (e *pwElement) Describe() string { return e.desc }

func locatorOf(e interfaces.Element) playwright.Locator {
	return e.(*pwElement).loc
}

type pwDriver struct {
	s *pwSession
}

// locate builds the unindexed locator of q. Playwright understands the
// text= and :has-text() forms natively.
func (d *pwDriver) locate(q entities.Query) playwright.Locator {
	var loc playwright.Locator
	if q.Scope != "" {
		loc = d.s.page.Locator(q.Scope).Locator(q.Selector)
	} else {
		loc = d.s.page.Locator(q.Selector)
	}
	if q.Text.IsZero() {
		return loc
	}
	if q.Text.Exact {
		return loc.Filter(playwright.LocatorFilterOptions{
			HasText: regexp.MustCompile(`^\s*` + regexp.QuoteMeta(q.Text.Value) + `\s*$`),
		})
	}
	return loc.Filter(playwright.LocatorFilterOptions{HasText: q.Text.Value})
}

func (d *pwDriver) Find(ctx context.Context, q entities.Query) (interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loc := d.locate(q)
	n, err := loc.Count()
	if err != nil {
		return nil, err
	}
	idx := q.Index
	if idx == entities.NoIndex {
		idx = 0
	}
	if idx < 0 || idx >= n {
		return nil, nil
	}
	return &pwElement{loc: loc.Nth(idx), desc: q.String()}, nil
}

func (d *pwDriver) Count(ctx context.Context, q entities.Query) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return d.locate(q.Unindexed()).Count()
}

func (d *pwDriver) IsVisible(ctx context.Context, e interfaces.Element) (bool, error) {
	return locatorOf(e).IsVisible()
}

func (d *pwDriver) IsEnabled(ctx context.Context, e interfaces.Element) (bool, error) {
	return locatorOf(e).IsEnabled()
}

func (d *pwDriver) IsChecked(ctx context.Context, e interfaces.Element) (bool, error) {
	return locatorOf(e).IsChecked()
}

func (d *pwDriver) Text(ctx context.Context, e interfaces.Element) (string, error) {
	return locatorOf(e).TextContent()
}

func (d *pwDriver) Value(ctx context.Context, e interfaces.Element) (string, error) {
	return locatorOf(e).InputValue()
}

func (d *pwDriver) Attribute(ctx context.Context, e interfaces.Element, name string) (string, bool, error) {
	v, err := locatorOf(e).Evaluate("(el, name) => el.getAttribute(name)", name)
	if err != nil {
		return "", false, err
	}
	s, ok := v.(string)
	return s, ok, nil
}

// Click waits briefly for the load the click may trigger, like a user would
func (d *pwDriver) Click(ctx context.Context, e interfaces.Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := locatorOf(e).Click(); err != nil {
		return err
	}
	if err := d.s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: playwright.Float(5000),
	}); err != nil {
		d.s.logger.Debugf("load after clicking %s: %v", e.Describe(), err)
	}
	return nil
}

func (d *pwDriver) Fill(ctx context.Context, e interfaces.Element, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return locatorOf(e).Fill(value)
}

func (d *pwDriver) Check(ctx context.Context, e interfaces.Element) error {
	return locatorOf(e).Check()
}

func (d *pwDriver) Uncheck(ctx context.Context, e interfaces.Element) error {
	return locatorOf(e).Uncheck()
}

// SelectOption matches value against option values first, then labels
func (d *pwDriver) SelectOption(ctx context.Context, e interfaces.Element, value string) error {
	loc := locatorOf(e)
	got, err := loc.SelectOption(playwright.SelectOptionValues{Values: &[]string{value}})
	if err == nil && len(got) > 0 {
		return nil
	}
	got, err = loc.SelectOption(playwright.SelectOptionValues{Labels: &[]string{value}})
	if err != nil {
		return err
	}
	if len(got) == 0 {
		return fmt.Errorf("option %q not available in %s", value, e.Describe())
	}
	return nil
}

var _ interfaces.SessionProvider = (*PlaywrightProvider)(nil)
