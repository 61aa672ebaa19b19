// Package facadetest provides an in-memory driver and session for tests that
// need controllable element timing without a browser.
package facadetest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"storefront_e2e/domain/entities"
	"storefront_e2e/domain/interfaces"
)

// Element is a fake DOM element
type Element struct {
	Selector string
	Text     string
	Value    string
	Hidden   bool
	Disabled bool
	Checked  bool
	Attrs    map[string]string
	Options  []string

	// OnClick runs when the element is clicked, e.g. to mutate the fake DOM
	OnClick func(d *Driver) error

	appearAt time.Time
}

func (e *Element) Describe() string {
	return e.Selector
}

// Driver is an in-memory interfaces.Driver. Elements are keyed by selector, or by
// "scope selector" when the locator has a scope.
type Driver struct {
	mu       sync.Mutex
	elements map[string][]*Element
	calls    []string
	failures map[string]error
}

// NewDriver creates an empty fake driver
func NewDriver() *Driver {
	return &Driver{
		elements: make(map[string][]*Element),
		failures: make(map[string]error),
	}
}

// Add appends elements under selector
func (d *Driver) Add(selector string, els ...*Element) *Driver {
	return d.AddAfter(selector, 0, els...)
}

// AddAfter appends elements that only become findable after delay
func (d *Driver) AddAfter(selector string, delay time.Duration, els ...*Element) *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	at := time.Now().Add(delay)
	for _, el := range els {
		if el.Selector == "" {
			el.Selector = selector
		}
		el.appearAt = at
		d.elements[selector] = append(d.elements[selector], el)
	}
	return d
}

// Remove deletes every element under selector
func (d *Driver) Remove(selector string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, selector)
}

// Reset removes all elements
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements = make(map[string][]*Element)
}

// FailOn makes operation op ("click", "fill", ...) fail on selector
func (d *Driver) FailOn(op, selector string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[op+":"+selector] = err
}

// Calls returns the recorded interactions as "op:selector[=value]"
func (d *Driver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

func key(q entities.Query) string {
	if q.Scope != "" {
		return q.Scope + " " + q.Selector
	}
	return q.Selector
}

func (d *Driver) matches(q entities.Query) []*Element {
	now := time.Now()
	var out []*Element
	for _, el := range d.elements[key(q)] {
		if now.Before(el.appearAt) {
			continue
		}
		if !q.Text.IsZero() {
			text := strings.TrimSpace(el.Text)
			if q.Text.Exact && text != q.Text.Value {
				continue
			}
			if !q.Text.Exact && !strings.Contains(el.Text, q.Text.Value) {
				continue
			}
		}
		out = append(out, el)
	}
	return out
}

func (d *Driver) Find(ctx context.Context, q entities.Query) (interfaces.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	m := d.matches(q)
	idx := q.Index
	if idx == entities.NoIndex {
		idx = 0
	}
	if idx < 0 || idx >= len(m) {
		return nil, nil
	}
	return m[idx], nil
}

func (d *Driver) Count(ctx context.Context, q entities.Query) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.matches(q)), nil
}

func el(e interfaces.Element) *Element {
	return e.(*Element)
}

func (d *Driver) IsVisible(ctx context.Context, e interfaces.Element) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !el(e).Hidden, nil
}

func (d *Driver) IsEnabled(ctx context.Context, e interfaces.Element) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !el(e).Disabled, nil
}

func (d *Driver) IsChecked(ctx context.Context, e interfaces.Element) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return el(e).Checked, nil
}

func (d *Driver) Text(ctx context.Context, e interfaces.Element) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return el(e).Text, nil
}

func (d *Driver) Value(ctx context.Context, e interfaces.Element) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return el(e).Value, nil
}

func (d *Driver) Attribute(ctx context.Context, e interfaces.Element, name string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := el(e).Attrs[name]
	return v, ok, nil
}

func (d *Driver) record(op string, e *Element, value ...string) error {
	call := op + ":" + e.Selector
	if len(value) > 0 {
		call += "=" + value[0]
	}
	d.calls = append(d.calls, call)
	return d.failures[op+":"+e.Selector]
}

func (d *Driver) Click(ctx context.Context, e interfaces.Element) error {
	d.mu.Lock()
	x := el(e)
	if err := d.record("click", x); err != nil {
		d.mu.Unlock()
		return err
	}
	onClick := x.OnClick
	d.mu.Unlock()

	if onClick != nil {
		return onClick(d)
	}
	return nil
}

func (d *Driver) Fill(ctx context.Context, e interfaces.Element, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	x := el(e)
	if err := d.record("fill", x, value); err != nil {
		return err
	}
	x.Value = value
	return nil
}

func (d *Driver) Check(ctx context.Context, e interfaces.Element) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	x := el(e)
	if err := d.record("check", x); err != nil {
		return err
	}
	x.Checked = true
	return nil
}

func (d *Driver) Uncheck(ctx context.Context, e interfaces.Element) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	x := el(e)
	if err := d.record("uncheck", x); err != nil {
		return err
	}
	x.Checked = false
	return nil
}

func (d *Driver) SelectOption(ctx context.Context, e interfaces.Element, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	x := el(e)
	if err := d.record("select", x, value); err != nil {
		return err
	}
	if len(x.Options) > 0 {
		found := false
		for _, o := range x.Options {
			if o == value {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("option %q not available", value)
		}
	}
	x.Value = value
	return nil
}

// Session is a fake interfaces.Session. Routes build the DOM for a navigated path.
type Session struct {
	id     string
	driver *Driver
	routes map[string]func(d *Driver)

	mu          sync.Mutex
	url         string
	title       string
	navigations []string
	closed      int

	NavigateErr error
	CloseErr    error
}

// NewSession creates a session over driver
func NewSession(id string, driver *Driver) *Session {
	return &Session{id: id, driver: driver, routes: make(map[string]func(*Driver))}
}

// Route registers a DOM builder for a URL; navigating there resets the driver first
func (s *Session) Route(url, title string, build func(d *Driver)) *Session {
	s.routes[url] = func(d *Driver) {
		s.title = title
		build(d)
	}
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.NavigateErr != nil {
		return s.NavigateErr
	}
	s.url = url
	s.navigations = append(s.navigations, url)
	if build, ok := s.routes[url]; ok {
		s.driver.Reset()
		build(s.driver)
	}
	return nil
}

// SetURL changes the current URL without rebuilding the DOM, e.g. from an OnClick
func (s *Session) SetURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = url
}

func (s *Session) URL(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url, nil
}

func (s *Session) Title(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title, nil
}

func (s *Session) Snapshot(ctx context.Context) (entities.PageInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entities.PageInfo{URL: s.url, Title: s.title}, nil
}

func (s *Session) Driver() interfaces.Driver { return s.driver }

// FakeDriver returns the concrete fake driver
func (s *Session) FakeDriver() *Driver { return s.driver }

func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return s.CloseErr
}

// Closed returns how many times Close was called
func (s *Session) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Navigations returns visited URLs in order
func (s *Session) Navigations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.navigations...)
}

// Provider hands out fake sessions built by Setup
type Provider struct {
	// Setup prepares each new session; nil leaves it empty
	Setup func(s *Session)
	// NewErr fails session creation when set
	NewErr error

	mu        sync.Mutex
	sessions  []*Session
	active    int32
	maxActive int32
}

func (p *Provider) NewSession(ctx context.Context) (interfaces.Session, error) {
	if p.NewErr != nil {
		return nil, p.NewErr
	}
	p.mu.Lock()
	s := NewSession(fmt.Sprintf("fake-%d", len(p.sessions)+1), NewDriver())
	p.sessions = append(p.sessions, s)
	p.mu.Unlock()

	if p.Setup != nil {
		p.Setup(s)
	}

	n := atomic.AddInt32(&p.active, 1)
	for {
		m := atomic.LoadInt32(&p.maxActive)
		if n <= m || atomic.CompareAndSwapInt32(&p.maxActive, m, n) {
			break
		}
	}
	return &trackedSession{Session: s, p: p}, nil
}

func (p *Provider) Close() error { return nil }

// Sessions returns every session handed out
func (p *Provider) Sessions() []*Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Session(nil), p.sessions...)
}

// MaxActive returns the highest number of simultaneously open sessions
func (p *Provider) MaxActive() int {
	return int(atomic.LoadInt32(&p.maxActive))
}

type trackedSession struct {
	*Session
	p    *Provider
	once sync.Once
}

func (t *trackedSession) Close(ctx context.Context) error {
	t.once.Do(func() { atomic.AddInt32(&t.p.active, -1) })
	return t.Session.Close(ctx)
}

var (
	_ interfaces.Driver          = (*Driver)(nil)
	_ interfaces.Session         = (*Session)(nil)
	_ interfaces.SessionProvider = (*Provider)(nil)
)
