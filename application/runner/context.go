package runner

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"storefront_e2e/application/facade"
	"storefront_e2e/domain/entities"
	"storefront_e2e/domain/interfaces"
)

// Context is what hooks and body steps of one scenario execution see. It owns
// the scenario's exclusive session and is never shared with another scenario.
type Context struct {
	ctx      context.Context
	suite    string
	scenario string
	attempt  int
	baseURL  string
	session  interfaces.Session
	facade   *facade.Facade
	fixtures entities.Fixtures
	logger   logrus.FieldLogger

	assertTimeout time.Duration
	pollInterval  time.Duration

	// values outlive withContext so teardown sees what setup stored
	values *sync.Map

	mu         sync.Mutex
	phase      entities.Phase
	assertions []entities.AssertionResult
}

// Context returns the scenario context; it is cancelled when the scenario times out
func (c *Context) Context() context.Context { return c.ctx }

func (c *Context) Suite() string { return c.suite }

func (c *Context) Scenario() string { return c.scenario }

// Attempt is 1 for the first execution and grows with retries
func (c *Context) Attempt() int { return c.attempt }

func (c *Context) Logger() logrus.FieldLogger { return c.logger }

func (c *Context) Session() interfaces.Session { return c.session }

// Facade is not bound to a registry; page objects bind their own
func (c *Context) Facade() *facade.Facade { return c.facade }

// Fixtures returns the injected test data. It is a copy owned by this scenario.
func (c *Context) Fixtures() entities.Fixtures { return c.fixtures }

func (c *Context) BaseURL() string { return c.baseURL }

// URL joins path onto the base URL. Absolute URLs are returned unchanged.
func (c *Context) URL(path string) string {
	return JoinURL(c.baseURL, path)
}

// Goto navigates the scenario's session to path
func (c *Context) Goto(path string) error {
	return c.facade.Navigate(c.ctx, c.URL(path))
}

// Skip ends the scenario as skipped
func (c *Context) Skip(reason string) error {
	return &entities.SkipError{Reason: reason}
}

// SkipUnless skips the rest of the scenario when ok is false
func (c *Context) SkipUnless(ok bool, reason string) error {
	if ok {
		return nil
	}
	return c.Skip(reason)
}

// Store keeps v under key for the rest of this attempt, teardown included
func (c *Context) Store(key string, v any) { c.values.Store(key, v) }

// Load returns the value stored under key, or nil
func (c *Context) Load(key string) any {
	v, _ := c.values.Load(key)
	return v
}

// Assertions returns every recorded expectation outcome in order
func (c *Context) Assertions() []entities.AssertionResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entities.AssertionResult(nil), c.assertions...)
}

func (c *Context) record(r entities.AssertionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assertions = append(c.assertions, r)
}

func (c *Context) setPhase(p entities.Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = p
}

func (c *Context) currentPhase() entities.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// withContext returns a copy running under ctx with an empty assertion log
func (c *Context) withContext(ctx context.Context) *Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &Context{
		ctx:           ctx,
		suite:         c.suite,
		scenario:      c.scenario,
		attempt:       c.attempt,
		baseURL:       c.baseURL,
		session:       c.session,
		facade:        c.facade,
		fixtures:      c.fixtures,
		logger:        c.logger,
		assertTimeout: c.assertTimeout,
		pollInterval:  c.pollInterval,
		values:        c.values,
		phase:         c.phase,
	}
}

// JoinURL resolves path against base
func JoinURL(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
