// Package runner executes scenarios with one exclusive session each, runs
// teardown on every exit path and aggregates the outcomes.
package runner

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"storefront_e2e/application/facade"
	"storefront_e2e/domain/entities"
	"storefront_e2e/domain/interfaces"
)

const tracerName = "storefront_e2e/runner"

const (
	DefaultScenarioTimeout = 2 * time.Minute
	DefaultTeardownTimeout = 10 * time.Second
	DefaultAssertTimeout   = 5 * time.Second

	// AssertOnce as Config.AssertTimeout evaluates every expectation exactly once
	AssertOnce time.Duration = -1
)

// Config holds run-wide settings. The runner keeps its own copy. Zero durations
// take the defaults; AssertTimeout set to AssertOnce disables expectation retries.
type Config struct {
	BaseURL string

	Facade facade.Options

	ScenarioTimeout time.Duration
	TeardownTimeout time.Duration
	AssertTimeout   time.Duration

	// Parallelism is the number of scenarios running at once, at least 1
	Parallelism int

	// Retries is how many extra attempts an infrastructure failure gets
	Retries      int
	RetryBackoff time.Duration

	StopOnFailure bool

	// Tags keeps scenarios carrying any of them; Match is a regexp on "suite/name"
	Tags  []string
	Match string
}

func (c Config) withDefaults() Config {
	if c.ScenarioTimeout <= 0 {
		c.ScenarioTimeout = DefaultScenarioTimeout
	}
	if c.TeardownTimeout <= 0 {
		c.TeardownTimeout = DefaultTeardownTimeout
	}
	if c.AssertTimeout < 0 {
		c.AssertTimeout = 0
	} else if c.AssertTimeout == 0 {
		c.AssertTimeout = DefaultAssertTimeout
	}
	if c.Parallelism < 1 {
		c.Parallelism = 1
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	c.Tags = append([]string(nil), c.Tags...)
	return c
}

// Option customizes a Runner
type Option func(*Runner)

// WithFixtures injects the test data handed to every scenario
func WithFixtures(p interfaces.FixtureProvider) Option {
	return func(r *Runner) { r.fixtures = p }
}

// WithGuard installs a step guard on every scenario's facade
func WithGuard(g interfaces.StepGuard) Option {
	return func(r *Runner) { r.guard = g }
}

// WithSinks registers report sinks that receive the aggregate result
func WithSinks(sinks ...interfaces.ReportSink) Option {
	return func(r *Runner) { r.sinks = append(r.sinks, sinks...) }
}

// Runner executes suites
type Runner struct {
	cfg      Config
	match    *regexp.Regexp
	provider interfaces.SessionProvider
	fixtures interfaces.FixtureProvider
	guard    interfaces.StepGuard
	sinks    []interfaces.ReportSink
	logger   *logrus.Logger
	tracer   trace.Tracer
}

// New creates a runner. Sessions come from provider, one per scenario attempt.
func New(cfg Config, provider interfaces.SessionProvider, logger *logrus.Logger, opts ...Option) (*Runner, error) {
	if provider == nil {
		return nil, errors.New("runner: session provider is required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	r := &Runner{
		cfg:      cfg.withDefaults(),
		provider: provider,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
	if r.cfg.Match != "" {
		re, err := regexp.Compile(r.cfg.Match)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario filter %q: %w", r.cfg.Match, err)
		}
		r.match = re
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Config returns a copy of the effective configuration
func (r *Runner) Config() Config {
	c := r.cfg
	c.Tags = append([]string(nil), r.cfg.Tags...)
	return c
}

// Plan returns the scenarios Run would execute, in order
func (r *Runner) Plan(suites ...Suite) []Planned {
	return Select(suites, r.cfg.Tags, r.match)
}

// Run executes the selected scenarios and reports the aggregate result to every
// sink. Scenario failures never make Run fail; sink errors do.
func (r *Runner) Run(ctx context.Context, suites ...Suite) (entities.AggregateResult, error) {
	plan := r.Plan(suites...)
	agg := entities.AggregateResult{
		RunID:     uuid.NewString(),
		BaseURL:   r.cfg.BaseURL,
		StartedAt: time.Now(),
	}
	log := r.logger.WithField("run", agg.RunID)
	log.Infof("running %d scenarios (parallelism %d)", len(plan), r.cfg.Parallelism)

	ctx, span := r.tracer.Start(ctx, "run", trace.WithAttributes(
		attribute.String("run.id", agg.RunID),
		attribute.Int("run.scenarios", len(plan)),
	))
	defer span.End()

	results := make([]entities.ScenarioResult, len(plan))
	var stopped atomic.Bool

	var g errgroup.Group
	g.SetLimit(r.cfg.Parallelism)
	for i, p := range plan {
		if stopped.Load() || ctx.Err() != nil {
			results[i] = stoppedResult(p)
			continue
		}
		g.Go(func() error {
			if stopped.Load() || ctx.Err() != nil {
				results[i] = stoppedResult(p)
				return nil
			}
			res := r.runScenario(ctx, p)
			results[i] = res
			if res.Status == entities.StatusFailed && r.cfg.StopOnFailure {
				stopped.Store(true)
			}
			return nil
		})
	}
	_ = g.Wait()

	agg.Scenarios = results
	agg.Summary = entities.Summarize(results)
	agg.Duration = time.Since(agg.StartedAt)
	log.WithFields(logrus.Fields{
		"passed":  agg.Summary.Passed,
		"failed":  agg.Summary.Failed,
		"skipped": agg.Summary.Skipped,
	}).Infof("run finished in %s", agg.Duration.Round(time.Millisecond))

	var errs []error
	for _, sink := range r.sinks {
		if err := sink.Report(context.WithoutCancel(ctx), agg); err != nil {
			errs = append(errs, fmt.Errorf("report: %w", err))
		}
	}
	return agg, errors.Join(errs...)
}

func stoppedResult(p Planned) entities.ScenarioResult {
	return entities.ScenarioResult{
		Name:   p.Scenario.Name,
		Suite:  p.Suite,
		Tags:   p.Scenario.Tags,
		Status: entities.StatusSkipped,
		Reason: entities.ReasonSuiteStopped,
	}
}

// runScenario executes p, retrying infrastructure failures on a fresh session
func (r *Runner) runScenario(ctx context.Context, p Planned) entities.ScenarioResult {
	start := time.Now()

	var b backoff.BackOff = backoff.WithMaxRetries(backoff.NewConstantBackOff(r.cfg.RetryBackoff), uint64(r.cfg.Retries))
	b = backoff.WithContext(b, ctx)

	var (
		res      entities.ScenarioResult
		warnings []string
		attempt  int
	)
	for {
		attempt++
		res = r.attempt(ctx, p, attempt)
		if res.Status != entities.StatusFailed || res.Category != entities.CategoryInfrastructure {
			break
		}
		wait := b.NextBackOff()
		if wait == backoff.Stop {
			break
		}
		warnings = append(warnings, fmt.Sprintf("attempt %d failed: %s", attempt, res.Error))
		r.logger.WithFields(logrus.Fields{"scenario": p.ID(), "attempt": attempt}).
			Debugf("retrying infrastructure failure in %s: %s", wait, res.Error)
		if wait > 0 {
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
			case <-t.C:
			}
			t.Stop()
		}
		if ctx.Err() != nil {
			break
		}
	}

	res.Attempts = attempt
	res.Warnings = append(warnings, res.Warnings...)
	res.StartedAt = start
	res.Duration = time.Since(start)
	return res
}

type outcome struct {
	phase entities.Phase
	err   error
}

// attempt runs one execution of a scenario on its own session
func (r *Runner) attempt(ctx context.Context, p Planned, n int) (res entities.ScenarioResult) {
	sc := p.Scenario
	res = entities.ScenarioResult{
		Name:   sc.Name,
		Suite:  p.Suite,
		Tags:   sc.Tags,
		Status: entities.StatusRunning,
	}
	log := r.logger.WithFields(logrus.Fields{"suite": p.Suite, "scenario": sc.Name, "attempt": n})

	ctx, span := r.tracer.Start(ctx, "scenario "+p.ID(), trace.WithAttributes(
		attribute.String("scenario.suite", p.Suite),
		attribute.String("scenario.name", sc.Name),
		attribute.Int("scenario.attempt", n),
	))
	defer func() {
		span.SetAttributes(attribute.String("scenario.status", string(res.Status)))
		if res.Status == entities.StatusFailed {
			span.SetStatus(codes.Error, res.Error)
		}
		span.End()
	}()

	session, err := r.provider.NewSession(ctx)
	if err != nil {
		return failed(res, entities.PhaseSetup, &entities.SetupFailure{Err: fmt.Errorf("new session: %w", err)})
	}

	f := facade.New(session, r.cfg.Facade, log)
	if r.guard != nil {
		f = f.WithGuard(r.guard)
	}

	timeout := r.cfg.ScenarioTimeout
	if sc.Timeout > 0 {
		timeout = sc.Timeout
	}
	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	scx := &Context{
		ctx:           sctx,
		suite:         p.Suite,
		scenario:      sc.Name,
		attempt:       n,
		baseURL:       r.cfg.BaseURL,
		session:       session,
		facade:        f,
		logger:        log,
		assertTimeout: r.cfg.AssertTimeout,
		pollInterval:  f.Options().PollInterval,
		values:        new(sync.Map),
	}
	if r.fixtures != nil {
		scx.fixtures = r.fixtures.Fixtures().Clone()
	}

	log.Debug("scenario started")
	done := make(chan outcome, 1)
	go func() { done <- r.execute(scx, sc) }()

	var (
		out      outcome
		overtime bool
	)
	select {
	case out = <-done:
	case <-sctx.Done():
		overtime = ctx.Err() == nil && errors.Is(sctx.Err(), context.DeadlineExceeded)
		// the scenario goroutine gets the teardown budget to notice cancellation
		// before teardown takes over the session
		grace := time.NewTimer(r.cfg.TeardownTimeout)
		select {
		case out = <-done:
		case <-grace.C:
			log.Warn("scenario did not stop after cancellation")
			out = outcome{phase: scx.currentPhase(), err: sctx.Err()}
		}
		grace.Stop()
	}

	// a scenario that outlives its deadline fails even if it then returns nil
	if overtime || (out.err != nil && ctx.Err() == nil && errors.Is(sctx.Err(), context.DeadlineExceeded)) {
		cause := out.err
		if cause == nil {
			cause = context.DeadlineExceeded
		}
		res = failed(res, out.phase, fmt.Errorf("scenario exceeded %s: %w", timeout, cause))
		res.Category = entities.CategoryInfrastructure
		res.Reason = entities.ReasonTimeoutExceeded
	} else {
		switch {
		case out.err == nil:
			res.Status = entities.StatusPassed
		case entities.IsSkip(out.err):
			var skip *entities.SkipError
			errors.As(out.err, &skip)
			res.Status = entities.StatusSkipped
			res.Phase = out.phase
			res.Reason = entities.ReasonSkipped
			res.Message = skip.Reason
		default:
			res = failed(res, out.phase, out.err)
		}
	}

	for _, a := range scx.Assertions() {
		res.Assertions++
		if !a.Passed {
			res.Failures = append(res.Failures, a)
		}
	}

	res.Warnings = append(res.Warnings, r.teardown(ctx, scx, sc, session, res.Status == entities.StatusFailed, &res)...)
	log.WithField("status", res.Status).Info("scenario finished")
	return res
}

func failed(res entities.ScenarioResult, phase entities.Phase, err error) entities.ScenarioResult {
	res.Status = entities.StatusFailed
	res.Phase = phase
	res.Category = entities.Categorize(err)
	res.Error = err.Error()
	return res
}

// execute runs setup and body on the calling goroutine
func (r *Runner) execute(sc *Context, s Scenario) outcome {
	if s.Setup != nil {
		sc.setPhase(entities.PhaseSetup)
		if err := safeCall(func() error { return s.Setup(sc) }); err != nil {
			if entities.IsSkip(err) {
				return outcome{phase: entities.PhaseSetup, err: err}
			}
			return outcome{phase: entities.PhaseSetup, err: &entities.SetupFailure{Err: err}}
		}
	}

	sc.setPhase(entities.PhaseBody)
	for i, step := range s.Body {
		if err := sc.ctx.Err(); err != nil {
			return outcome{phase: entities.PhaseBody, err: err}
		}
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}
		ctx, span := r.tracer.Start(sc.ctx, name)
		stepCtx := sc.ctx
		sc.ctx = ctx
		err := safeCall(func() error { return step.Run(sc) })
		sc.ctx = stepCtx
		if err != nil && !entities.IsSkip(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if err != nil {
			if !entities.IsSkip(err) {
				err = fmt.Errorf("%s: %w", name, err)
			}
			return outcome{phase: entities.PhaseBody, err: err}
		}
	}
	return outcome{phase: entities.PhaseBody}
}

// teardown captures the page on failure, runs the teardown hook and closes the
// session, all under a fresh bounded context. It runs exactly once per attempt.
func (r *Runner) teardown(ctx context.Context, sc *Context, s Scenario, session interfaces.Session,
	capture bool, res *entities.ScenarioResult) []string {
	tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.TeardownTimeout)
	defer cancel()

	var warnings []string
	warn := func(err error) {
		tf := &entities.TeardownFailure{Err: err}
		sc.logger.Warn(tf.Error())
		warnings = append(warnings, tf.Error())
	}

	if capture {
		if info, err := session.Snapshot(tctx); err == nil {
			res.Page = &info
		} else {
			sc.logger.WithError(err).Debug("page snapshot failed")
		}
	}

	if s.Teardown != nil {
		tc := sc.withContext(tctx)
		tc.setPhase(entities.PhaseTeardown)
		if err := boundedCall(tctx, func() error { return s.Teardown(tc) }); err != nil {
			warn(err)
		}
	}
	if err := boundedCall(tctx, func() error { return session.Close(tctx) }); err != nil {
		warn(fmt.Errorf("close session: %w", err))
	}
	return warnings
}

// boundedCall runs fn but stops waiting for it once ctx is done
func boundedCall(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- safeCall(fn) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("did not finish: %w", ctx.Err())
	}
}

// safeCall turns a panic into an error
func safeCall(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v\n%s", p, debug.Stack())
		}
	}()
	return fn()
}
