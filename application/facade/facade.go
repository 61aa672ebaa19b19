// Package facade is the uniform action and query interface between page objects
// and a session's driver. Every element operation resolves its locator through a
// registry and waits for the operation's precondition with Poll.
package facade

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"storefront_e2e/application/locator"
	"storefront_e2e/domain/entities"
	"storefront_e2e/domain/interfaces"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
)

// Options configures waiting behaviour
type Options struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	return o
}

// CallOption overrides options for a single call
type CallOption func(*callOptions)

type callOptions struct {
	timeout    time.Duration
	hasTimeout bool
}

// WithTimeout overrides the wait budget of one call
func WithTimeout(d time.Duration) CallOption {
	return func(o *callOptions) {
		o.timeout = d
		o.hasTimeout = true
	}
}

// Reader is the read-only half of the facade handed to page queries
type Reader interface {
	Text(ctx context.Context, ref entities.Ref, opts ...CallOption) (string, error)
	Value(ctx context.Context, ref entities.Ref, opts ...CallOption) (string, error)
	Attribute(ctx context.Context, ref entities.Ref, name string, opts ...CallOption) (string, error)
	IsVisible(ctx context.Context, ref entities.Ref, opts ...CallOption) (bool, error)
	IsChecked(ctx context.Context, ref entities.Ref, opts ...CallOption) (bool, error)
	Count(ctx context.Context, ref entities.Ref) (int, error)
	URL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
}

// Facade binds a session to a locator registry
type Facade struct {
	session  interfaces.Session
	driver   interfaces.Driver
	registry *locator.Registry
	opts     Options
	guard    interfaces.StepGuard
	logger   logrus.FieldLogger
}

// New creates a facade over session. Bind it to a page registry with WithRegistry.
func New(session interfaces.Session, opts Options, logger logrus.FieldLogger) *Facade {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		logger = l
	}
	return &Facade{
		session: session,
		driver:  session.Driver(),
		opts:    opts.withDefaults(),
		logger:  logger,
	}
}

// WithGuard returns a copy that asks guard before every interaction
func (f *Facade) WithGuard(guard interfaces.StepGuard) *Facade {
	c := *f
	c.guard = guard
	return &c
}

// WithRegistry returns a copy resolving names through reg
func (f *Facade) WithRegistry(reg *locator.Registry) *Facade {
	c := *f
	c.registry = reg
	return &c
}

// Registry returns the bound registry
func (f *Facade) Registry() *locator.Registry {
	return f.registry
}

// Session returns the underlying session
func (f *Facade) Session() interfaces.Session {
	return f.session
}

// Options returns the effective wait options
func (f *Facade) Options() Options {
	return f.opts
}

func (f *Facade) timeout(opts []CallOption) time.Duration {
	var co callOptions
	for _, o := range opts {
		o(&co)
	}
	if co.hasTimeout {
		return co.timeout
	}
	return f.opts.Timeout
}

func (f *Facade) resolve(ref entities.Ref) (entities.Query, error) {
	if f.registry == nil {
		return entities.Query{}, &entities.UnknownLocatorError{Name: ref.Name}
	}
	return f.registry.ResolveRef(ref)
}

// waitFor resolves ref and polls until ready accepts the element.
func (f *Facade) waitFor(ctx context.Context, ref entities.Ref, op string, timeout time.Duration,
	ready func(ctx context.Context, el interfaces.Element) (bool, error)) (interfaces.Element, error) {
	q, err := f.resolve(ref)
	if err != nil {
		return nil, err
	}

	var found interfaces.Element
	elapsed, err := Poll(ctx, timeout, f.opts.PollInterval, func(ctx context.Context) (bool, error) {
		el, err := f.driver.Find(ctx, q)
		if err != nil || el == nil {
			return false, err
		}
		if ready != nil {
			ok, err := ready(ctx, el)
			if err != nil || !ok {
				return false, err
			}
		}
		found = el
		return true, nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		f.logger.WithFields(logrus.Fields{"locator": ref.String(), "operation": op}).
			Debugf("wait failed after %s: %v", elapsed, err)
		return nil, &entities.ActionTimeoutError{
			Locator:   ref.String(),
			Operation: op,
			Elapsed:   elapsed,
			Cause:     unwrapPoll(err),
		}
	}
	return found, nil
}

func unwrapPoll(err error) error {
	if pe, ok := err.(*PollError); ok {
		return pe.Last
	}
	return err
}

func (f *Facade) actionable(ctx context.Context, el interfaces.Element) (bool, error) {
	visible, err := f.driver.IsVisible(ctx, el)
	if err != nil || !visible {
		return false, err
	}
	return f.driver.IsEnabled(ctx, el)
}

func (f *Facade) checkGuard(ctx context.Context, step entities.Step) error {
	if f.guard == nil {
		return nil
	}
	url, _ := f.session.URL(ctx)
	return f.guard.Allow(ctx, step, url)
}

// Perform executes one primitive step
func (f *Facade) Perform(ctx context.Context, step entities.Step, opts ...CallOption) error {
	if err := f.checkGuard(ctx, step); err != nil {
		return err
	}

	switch step.Kind {
	case entities.StepNavigate:
		return f.Navigate(ctx, step.Value)
	case entities.StepClick:
		return f.interact(ctx, step.Target, "click", opts, func(ctx context.Context, el interfaces.Element) error {
			return f.driver.Click(ctx, el)
		})
	case entities.StepFill:
		return f.interact(ctx, step.Target, "fill", opts, func(ctx context.Context, el interfaces.Element) error {
			return f.driver.Fill(ctx, el, step.Value)
		})
	case entities.StepClear:
		return f.interact(ctx, step.Target, "clear", opts, func(ctx context.Context, el interfaces.Element) error {
			return f.driver.Fill(ctx, el, "")
		})
	case entities.StepCheck:
		return f.interact(ctx, step.Target, "check", opts, func(ctx context.Context, el interfaces.Element) error {
			return f.driver.Check(ctx, el)
		})
	case entities.StepUncheck:
		return f.interact(ctx, step.Target, "uncheck", opts, func(ctx context.Context, el interfaces.Element) error {
			return f.driver.Uncheck(ctx, el)
		})
	case entities.StepSelect:
		return f.interact(ctx, step.Target, "selectOption", opts, func(ctx context.Context, el interfaces.Element) error {
			return f.driver.SelectOption(ctx, el, step.Value)
		})
	default:
		return fmt.Errorf("unsupported step kind %q", step.Kind)
	}
}

func (f *Facade) interact(ctx context.Context, ref entities.Ref, op string, opts []CallOption,
	do func(ctx context.Context, el interfaces.Element) error) error {
	el, err := f.waitFor(ctx, ref, op, f.timeout(opts), f.actionable)
	if err != nil {
		return err
	}

	f.logger.WithFields(logrus.Fields{"locator": ref.String(), "element": el.Describe()}).Debugf("%s", op)
	if err := do(ctx, el); err != nil {
		return fmt.Errorf("%s %s: %w", op, ref, err)
	}
	return nil
}

func (f *Facade) Click(ctx context.Context, ref entities.Ref, opts ...CallOption) error {
	return f.Perform(ctx, entities.Click(ref), opts...)
}

func (f *Facade) Fill(ctx context.Context, ref entities.Ref, value string, opts ...CallOption) error {
	return f.Perform(ctx, entities.Fill(ref, value), opts...)
}

func (f *Facade) Clear(ctx context.Context, ref entities.Ref, opts ...CallOption) error {
	return f.Perform(ctx, entities.Clear(ref), opts...)
}

func (f *Facade) Check(ctx context.Context, ref entities.Ref, opts ...CallOption) error {
	return f.Perform(ctx, entities.Check(ref), opts...)
}

func (f *Facade) Uncheck(ctx context.Context, ref entities.Ref, opts ...CallOption) error {
	return f.Perform(ctx, entities.Uncheck(ref), opts...)
}

func (f *Facade) SelectOption(ctx context.Context, ref entities.Ref, value string, opts ...CallOption) error {
	return f.Perform(ctx, entities.SelectOption(ref, value), opts...)
}

// Navigate loads url in the session
func (f *Facade) Navigate(ctx context.Context, url string) error {
	if err := f.session.Navigate(ctx, url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// existing waits for the element to exist, reporting ElementNotFoundError otherwise.
func (f *Facade) existing(ctx context.Context, ref entities.Ref, op string, opts []CallOption) (interfaces.Element, error) {
	el, err := f.waitFor(ctx, ref, op, f.timeout(opts), nil)
	if err != nil {
		if te, ok := err.(*entities.ActionTimeoutError); ok {
			return nil, &entities.ElementNotFoundError{Locator: ref.String(), Query: op, Err: te}
		}
		return nil, err
	}
	return el, nil
}

// Text returns the element text with surrounding whitespace trimmed
func (f *Facade) Text(ctx context.Context, ref entities.Ref, opts ...CallOption) (string, error) {
	el, err := f.existing(ctx, ref, "text", opts)
	if err != nil {
		return "", err
	}
	text, err := f.driver.Text(ctx, el)
	if err != nil {
		return "", fmt.Errorf("text %s: %w", ref, err)
	}
	return strings.TrimSpace(text), nil
}

// Value returns the trimmed value of a form control
func (f *Facade) Value(ctx context.Context, ref entities.Ref, opts ...CallOption) (string, error) {
	el, err := f.existing(ctx, ref, "value", opts)
	if err != nil {
		return "", err
	}
	v, err := f.driver.Value(ctx, el)
	if err != nil {
		return "", fmt.Errorf("value %s: %w", ref, err)
	}
	return strings.TrimSpace(v), nil
}

// Attribute returns an attribute value; a missing attribute yields an empty string
func (f *Facade) Attribute(ctx context.Context, ref entities.Ref, name string, opts ...CallOption) (string, error) {
	el, err := f.existing(ctx, ref, "attribute", opts)
	if err != nil {
		return "", err
	}
	v, _, err := f.driver.Attribute(ctx, el, name)
	if err != nil {
		return "", fmt.Errorf("attribute %s of %s: %w", name, ref, err)
	}
	return v, nil
}

// IsVisible reports whether the element is visible. Absent and hidden elements
// are both reported as not visible. Without WithTimeout it does not wait.
func (f *Facade) IsVisible(ctx context.Context, ref entities.Ref, opts ...CallOption) (bool, error) {
	var co callOptions
	for _, o := range opts {
		o(&co)
	}
	_, err := f.waitFor(ctx, ref, "isVisible", co.timeout, func(ctx context.Context, el interfaces.Element) (bool, error) {
		return f.driver.IsVisible(ctx, el)
	})
	if err != nil {
		if _, ok := err.(*entities.ActionTimeoutError); ok {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsChecked reports whether a checkbox or radio is checked
func (f *Facade) IsChecked(ctx context.Context, ref entities.Ref, opts ...CallOption) (bool, error) {
	el, err := f.existing(ctx, ref, "isChecked", opts)
	if err != nil {
		return false, err
	}
	return f.driver.IsChecked(ctx, el)
}

// Count returns the number of matching elements without waiting
func (f *Facade) Count(ctx context.Context, ref entities.Ref) (int, error) {
	q, err := f.resolve(ref)
	if err != nil {
		return 0, err
	}
	return f.driver.Count(ctx, q.Unindexed())
}

// WaitVisible waits until the element is visible
func (f *Facade) WaitVisible(ctx context.Context, ref entities.Ref, opts ...CallOption) error {
	_, err := f.waitFor(ctx, ref, "waitVisible", f.timeout(opts), func(ctx context.Context, el interfaces.Element) (bool, error) {
		return f.driver.IsVisible(ctx, el)
	})
	return err
}

// WaitHidden waits until the element is absent or hidden
func (f *Facade) WaitHidden(ctx context.Context, ref entities.Ref, opts ...CallOption) error {
	q, err := f.resolve(ref)
	if err != nil {
		return err
	}
	elapsed, err := Poll(ctx, f.timeout(opts), f.opts.PollInterval, func(ctx context.Context) (bool, error) {
		el, err := f.driver.Find(ctx, q)
		if err != nil {
			return false, err
		}
		if el == nil {
			return true, nil
		}
		visible, err := f.driver.IsVisible(ctx, el)
		return !visible, err
	})
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return &entities.ActionTimeoutError{Locator: ref.String(), Operation: "waitHidden", Elapsed: elapsed, Cause: unwrapPoll(err)}
	}
	return nil
}

func (f *Facade) URL(ctx context.Context) (string, error) {
	return f.session.URL(ctx)
}

func (f *Facade) Title(ctx context.Context) (string, error) {
	title, err := f.session.Title(ctx)
	return strings.TrimSpace(title), err
}

var _ Reader = (*Facade)(nil)
