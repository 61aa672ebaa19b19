package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"

	"storefront_e2e/domain/entities"
	"storefront_e2e/domain/interfaces"
)

// SeleniumProvider runs one chromedriver service and opens a new Chrome
// window per session
type SeleniumProvider struct {
	service      *selenium.Service
	opts         Options
	chromeBinary string
	logger       *logrus.Logger
	seq          atomic.Int64
}

// findChromeDriver looks at the configured path, the usual install
// locations and then PATH
func findChromeDriver(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}
	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("chromedriver not found, install it or set BROWSER_DRIVER_PATH")
}

// findChromeBinary returns "" when Chrome is not found, leaving the choice
// to chromedriver
func findChromeBinary(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
	}
	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// NewSeleniumProvider starts chromedriver on the configured port
func NewSeleniumProvider(opts Options, logger *logrus.Logger) (*SeleniumProvider, error) {
	opts = opts.withDefaults()
	driverPath, err := findChromeDriver(opts.DriverPath)
	if err != nil {
		return nil, err
	}
	logger.Infof("Using ChromeDriver at: %s", driverPath)

	chromeBinary := findChromeBinary(opts.ChromeBinary)
	if chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
	}

	service, err := selenium.NewChromeDriverService(driverPath, opts.SeleniumPort)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}
	return &SeleniumProvider{
		service:      service,
		opts:         opts,
		chromeBinary: chromeBinary,
		logger:       logger,
	}, nil
}

// NewSession opens a Chrome window with a throwaway profile
func (p *SeleniumProvider) NewSession(ctx context.Context) (interfaces.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	caps := selenium.Capabilities{"browserName": "chrome"}
	args := []string{
		"--disable-dev-shm-usage",
		"--no-sandbox",
		fmt.Sprintf("--window-size=%d,%d", p.opts.ViewportWidth, p.opts.ViewportHeight),
	}
	if p.opts.Headless {
		args = append(args, "--headless=new")
	}
	chromeCaps := chrome.Capabilities{Args: args}
	if p.chromeBinary != "" {
		chromeCaps.Path = p.chromeBinary
	}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", p.opts.SeleniumPort))
	if err != nil {
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome not found, install it or set CHROME_BINARY_PATH: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}
	if err := wd.SetImplicitWaitTimeout(0); err != nil {
		p.logger.Warnf("Failed to disable implicit waits: %v", err)
	}
	if err := wd.SetPageLoadTimeout(p.opts.NavigationTimeout); err != nil {
		p.logger.Warnf("Failed to set page load timeout: %v", err)
	}

	id := fmt.Sprintf("se-%d", p.seq.Add(1))
	s := &seSession{id: id, wd: wd, opts: p.opts, logger: p.logger.WithField("session", id)}
	s.driver = &seDriver{s: s}
	return s, nil
}

// Close stops chromedriver
func (p *SeleniumProvider) Close() error {
	if p.service == nil {
		return nil
	}
	err := p.service.Stop()
	p.service = nil
	return err
}

type seSession struct {
	id     string
	wd     selenium.WebDriver
	opts   Options
	logger logrus.FieldLogger
	driver *seDriver
}

func (s *seSession) ID() string { return s.id }

func (s *seSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	current, _ := s.wd.CurrentURL()
	target, err := resolveURL(s.opts.BaseURL, current, url)
	if err != nil {
		return err
	}
	s.logger.Infof("Navigating to: %s", target)
	return s.wd.Get(target)
}

func (s *seSession) URL(ctx context.Context) (string, error) { return s.wd.CurrentURL() }

func (s *seSession) Title(ctx context.Context) (string, error) { return s.wd.Title() }

func (s *seSession) Snapshot(ctx context.Context) (entities.PageInfo, error) {
	var info entities.PageInfo
	info.URL, _ = s.wd.CurrentURL()
	info.Title, _ = s.wd.Title()
	shot, err := s.wd.Screenshot()
	if err != nil {
		return info, fmt.Errorf("failed to take screenshot: %w", err)
	}
	info.Screenshot = shot
	return info, nil
}

func (s *seSession) Driver() interfaces.Driver { return s.driver }

func (s *seSession) Close(ctx context.Context) error {
	return s.wd.Quit()
}

type seElement struct {
	we   selenium.WebElement
	desc string
}

func (e *seElement) Describe() string { return e.desc }

func webElement(e interfaces.Element) selenium.WebElement {
	return e.(*seElement).we
}

// finder is what WebDriver and WebElement have in common
type finder interface {
	FindElements(by, value string) ([]selenium.WebElement, error)
}

type seDriver struct {
	s *seSession
}

// matches evaluates q. Matches of a selector list come grouped by
// alternative rather than in document order.
func (d *seDriver) matches(q entities.Query) ([]selenium.WebElement, error) {
	roots := []finder{d.s.wd}
	if q.Scope != "" {
		scopes, err := findAll(d.s.wd, q.Scope)
		if err != nil {
			return nil, err
		}
		roots = roots[:0]
		for _, sc := range scopes {
			roots = append(roots, sc)
		}
	}
	var out []selenium.WebElement
	for _, r := range roots {
		found, err := findAll(r, q.Selector)
		if err != nil {
			return nil, err
		}
		for _, we := range found {
			if !q.Text.IsZero() {
				text, err := we.Text()
				if err != nil || !matchesFilter(text, q.Text.Value, q.Text.Exact) {
					continue
				}
			}
			out = append(out, we)
		}
	}
	return out, nil
}

func findAll(root finder, sel string) ([]selenium.WebElement, error) {
	var out []selenium.WebElement
	for _, alt := range splitSelector(sel) {
		if alt.CSS == "" {
			found, err := root.FindElements(selenium.ByXPATH, innermostWithText(alt.Text))
			if err != nil {
				return nil, err
			}
			out = append(out, found...)
			continue
		}
		found, err := root.FindElements(selenium.ByCSSSelector, alt.CSS)
		if err != nil {
			return nil, err
		}
		for _, we := range found {
			if alt.Text != "" {
				text, err := we.Text()
				if err != nil || !containsText(text, alt.Text) {
					continue
				}
			}
			out = append(out, we)
		}
	}
	return out, nil
}

// innermostWithText is the XPath for the deepest elements containing text,
// ignoring case
func innermostWithText(text string) string {
	const upper, lower = "ABCDEFGHIJKLMNOPQRSTUVWXYZ", "abcdefghijklmnopqrstuvwxyz"
	has := fmt.Sprintf("contains(translate(normalize-space(.), '%s', '%s'), %s)",
		upper, lower, xpathLiteral(strings.ToLower(text)))
	return fmt.Sprintf(".//*[%s][not(*[%s])]", has, has)
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	return "concat('" + strings.Join(parts, `', "'", '`) + "')"
}

func (d *seDriver) Find(ctx context.Context, q entities.Query) (interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := d.matches(q)
	if err != nil {
		return nil, err
	}
	idx := q.Index
	if idx == entities.NoIndex {
		idx = 0
	}
	if idx < 0 || idx >= len(m) {
		return nil, nil
	}
	return &seElement{we: m[idx], desc: q.String()}, nil
}

func (d *seDriver) Count(ctx context.Context, q entities.Query) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m, err := d.matches(q.Unindexed())
	return len(m), err
}

func (d *seDriver) IsVisible(ctx context.Context, e interfaces.Element) (bool, error) {
	return webElement(e).IsDisplayed()
}

func (d *seDriver) IsEnabled(ctx context.Context, e interfaces.Element) (bool, error) {
	return webElement(e).IsEnabled()
}

func (d *seDriver) IsChecked(ctx context.Context, e interfaces.Element) (bool, error) {
	return webElement(e).IsSelected()
}

func (d *seDriver) Text(ctx context.Context, e interfaces.Element) (string, error) {
	return webElement(e).Text()
}

// Value relies on the attribute atom, which reads the live value of a control
func (d *seDriver) Value(ctx context.Context, e interfaces.Element) (string, error) {
	v, ok, err := d.Attribute(ctx, e, "value")
	if err != nil || !ok {
		return "", err
	}
	return v, nil
}

// Attribute reports a missing attribute as not present rather than as an
// error
func (d *seDriver) Attribute(ctx context.Context, e interfaces.Element, name string) (string, bool, error) {
	v, err := webElement(e).GetAttribute(name)
	if err != nil {
		if strings.Contains(err.Error(), "nil return value") {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

// Click scrolls the element to the middle of the viewport first
func (d *seDriver) Click(ctx context.Context, e interfaces.Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	we := webElement(e)
	script := `arguments[0].scrollIntoView({block: 'center'}); return true;`
	if _, err := d.s.wd.ExecuteScript(script, []interface{}{we}); err != nil {
		d.s.logger.Debugf("Failed to scroll to %s: %v", e.Describe(), err)
		if err := we.MoveTo(0, 0); err != nil {
			d.s.logger.Debugf("Failed to move to %s: %v", e.Describe(), err)
		}
	}
	return we.Click()
}

func (d *seDriver) Fill(ctx context.Context, e interfaces.Element, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	we := webElement(e)
	if err := we.Clear(); err != nil {
		return fmt.Errorf("failed to clear %s: %w", e.Describe(), err)
	}
	if value == "" {
		return nil
	}
	return we.SendKeys(value)
}

func (d *seDriver) Check(ctx context.Context, e interfaces.Element) error {
	return d.setChecked(e, true)
}

func (d *seDriver) Uncheck(ctx context.Context, e interfaces.Element) error {
	return d.setChecked(e, false)
}

func (d *seDriver) setChecked(e interfaces.Element, want bool) error {
	we := webElement(e)
	on, err := we.IsSelected()
	if err != nil {
		return err
	}
	if on == want {
		return nil
	}
	return we.Click()
}

// SelectOption clicks the option whose value or label equals value
func (d *seDriver) SelectOption(ctx context.Context, e interfaces.Element, value string) error {
	options, err := webElement(e).FindElements(selenium.ByCSSSelector, "option")
	if err != nil {
		return err
	}
	for _, o := range options {
		v, _ := o.GetAttribute("value")
		label, _ := o.Text()
		if v == value || strings.TrimSpace(label) == value {
			return o.Click()
		}
	}
	return fmt.Errorf("option %q not available in %s", value, e.Describe())
}

var _ interfaces.SessionProvider = (*SeleniumProvider)(nil)
