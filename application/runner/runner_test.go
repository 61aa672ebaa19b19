package runner_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"storefront_e2e/application/facade"
	"storefront_e2e/application/facade/facadetest"
	"storefront_e2e/application/page"
	"storefront_e2e/application/runner"
	"storefront_e2e/domain/entities"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig() runner.Config {
	return runner.Config{
		BaseURL:         "https://shop.test",
		Facade:          facade.Options{Timeout: 200 * time.Millisecond, PollInterval: 5 * time.Millisecond},
		ScenarioTimeout: 5 * time.Second,
		TeardownTimeout: time.Second,
		AssertTimeout:   100 * time.Millisecond,
	}
}

func newRunner(t *testing.T, cfg runner.Config, p *facadetest.Provider, opts ...runner.Option) *runner.Runner {
	t.Helper()
	r, err := runner.New(cfg, p, nil, opts...)
	require.NoError(t, err)
	return r
}

func fakeDriver(sc *runner.Context) *facadetest.Driver {
	return sc.Session().Driver().(*facadetest.Driver)
}

func cartPage(sc *runner.Context) *page.Object {
	o := page.New("cart", sc.Facade())
	o.Locators(
		entities.LocatorEntry{Name: "rows", Selector: ".cart-item-row"},
		entities.LocatorEntry{Name: "empty", Selector: ".no-data"},
	)
	o.MustDefineQuery("itemsCount", page.CountOf("rows"))
	o.MustDefineQuery("isEmpty", page.VisibleOf("empty"))
	return o
}

func itemsCount(o *page.Object) func(ctx context.Context) (int, error) {
	return func(ctx context.Context) (int, error) { return o.AskInt(ctx, "itemsCount", nil) }
}

func isEmpty(o *page.Object) func(ctx context.Context) (bool, error) {
	return func(ctx context.Context) (bool, error) { return o.AskBool(ctx, "isEmpty", nil) }
}

type recordingSink struct {
	mu      sync.Mutex
	results []entities.AggregateResult
}

func (s *recordingSink) Report(ctx context.Context, r entities.AggregateResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return nil
}

func TestRun_OutcomesAreOrderedAndCounted(t *testing.T) {
	// GIVEN one passing, one failing and one skipped scenario
	sink := &recordingSink{}
	p := &facadetest.Provider{Setup: func(s *facadetest.Session) {
		s.FakeDriver().Add(".no-data", &facadetest.Element{Text: "Your Shopping Cart is empty!"})
	}}
	suite := runner.Suite{Name: "cart", Scenarios: []runner.Scenario{
		{Name: "empty cart", Body: []runner.BodyStep{
			runner.Step("is empty", func(sc *runner.Context) error {
				return sc.ExpectTrue("cart is empty", isEmpty(cartPage(sc)))
			}),
		}},
		{Name: "has one item", Body: []runner.BodyStep{
			runner.Step("count", func(sc *runner.Context) error {
				return sc.ExpectCount("items", 1, itemsCount(cartPage(sc)))
			}),
		}},
		{Name: "gift wrapping", Body: []runner.BodyStep{
			runner.Step("precondition", func(sc *runner.Context) error {
				return sc.SkipUnless(false, "gift wrapping not offered")
			}),
		}},
	}}

	// WHEN
	agg, err := newRunner(t, testConfig(), p, runner.WithSinks(sink)).Run(context.Background(), suite)

	// THEN
	require.NoError(t, err)
	require.Len(t, agg.Scenarios, 3)
	assert.NotEmpty(t, agg.RunID)
	assert.Equal(t, entities.Summary{Passed: 1, Failed: 1, Skipped: 1, Total: 3}, agg.Summary)

	passed, failed, skipped := agg.Scenarios[0], agg.Scenarios[1], agg.Scenarios[2]
	assert.Equal(t, "empty cart", passed.Name)
	assert.Equal(t, entities.StatusPassed, passed.Status)
	assert.Equal(t, 1, passed.Assertions)

	assert.Equal(t, entities.StatusFailed, failed.Status)
	assert.Equal(t, entities.PhaseBody, failed.Phase)
	assert.Equal(t, entities.CategoryAssertion, failed.Category)
	require.Len(t, failed.Failures, 1)
	assert.Equal(t, "1", failed.Failures[0].Expected)
	assert.Equal(t, "0", failed.Failures[0].Actual)
	require.NotNil(t, failed.Page, "failure captures the page")

	assert.Equal(t, entities.StatusSkipped, skipped.Status)
	assert.Equal(t, entities.ReasonSkipped, skipped.Reason)
	assert.Equal(t, "gift wrapping not offered", skipped.Message)
	assert.Empty(t, skipped.Error)

	require.Len(t, sink.results, 1)
	assert.Equal(t, agg.RunID, sink.results[0].RunID)
}

func TestRun_SetupFailureSkipsBodyButRunsTeardown(t *testing.T) {
	var bodyRan, teardowns int32
	p := &facadetest.Provider{}
	suite := runner.Suite{Name: "login", Scenarios: []runner.Scenario{{
		Name:  "setup breaks",
		Setup: func(sc *runner.Context) error { return errors.New("fixture user missing") },
		Body: []runner.BodyStep{runner.Step("body", func(sc *runner.Context) error {
			atomic.AddInt32(&bodyRan, 1)
			return nil
		})},
		Teardown: func(sc *runner.Context) error {
			atomic.AddInt32(&teardowns, 1)
			return nil
		},
	}}}

	agg, err := newRunner(t, testConfig(), p).Run(context.Background(), suite)

	require.NoError(t, err)
	res := agg.Scenarios[0]
	assert.Equal(t, entities.StatusFailed, res.Status)
	assert.Equal(t, entities.PhaseSetup, res.Phase)
	assert.Equal(t, entities.CategoryInfrastructure, res.Category)
	assert.Contains(t, res.Error, "fixture user missing")
	assert.Zero(t, atomic.LoadInt32(&bodyRan))
	assert.Equal(t, int32(1), atomic.LoadInt32(&teardowns))
	assert.Equal(t, 1, p.Sessions()[0].Closed())
}

func TestRun_BodyErrorStopsRemainingStepsAndTeardownRunsOnce(t *testing.T) {
	var ran []string
	var teardowns int32
	p := &facadetest.Provider{}
	step := func(name string, err error) runner.BodyStep {
		return runner.Step(name, func(sc *runner.Context) error {
			ran = append(ran, name)
			return err
		})
	}
	suite := runner.Suite{Name: "checkout", Scenarios: []runner.Scenario{{
		Name: "mid-way failure",
		Body: []runner.BodyStep{
			step("s1", nil),
			step("s2", &entities.UnknownLocatorError{Page: "checkout", Name: "billingCity"}),
			step("s3", nil),
		},
		Teardown: func(sc *runner.Context) error {
			atomic.AddInt32(&teardowns, 1)
			return nil
		},
	}}}

	agg, err := newRunner(t, testConfig(), p).Run(context.Background(), suite)

	require.NoError(t, err)
	res := agg.Scenarios[0]
	assert.Equal(t, []string{"s1", "s2"}, ran)
	assert.Equal(t, entities.StatusFailed, res.Status)
	assert.Equal(t, entities.CategoryInfrastructure, res.Category)
	assert.Contains(t, res.Error, "billingCity")
	assert.Equal(t, int32(1), atomic.LoadInt32(&teardowns))
}

func TestRun_TeardownFailureIsOnlyAWarning(t *testing.T) {
	p := &facadetest.Provider{Setup: func(s *facadetest.Session) {
		s.CloseErr = errors.New("browser already gone")
	}}
	suite := runner.Suite{Name: "nav", Scenarios: []runner.Scenario{{
		Name:     "passes",
		Body:     []runner.BodyStep{runner.Step("noop", func(sc *runner.Context) error { return nil })},
		Teardown: func(sc *runner.Context) error { return errors.New("logout link missing") },
	}}}

	agg, err := newRunner(t, testConfig(), p).Run(context.Background(), suite)

	require.NoError(t, err)
	res := agg.Scenarios[0]
	assert.Equal(t, entities.StatusPassed, res.Status)
	require.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0], "logout link missing")
	assert.Contains(t, res.Warnings[1], "browser already gone")
}

func TestRun_ScenarioTimeout(t *testing.T) {
	var teardowns int32
	p := &facadetest.Provider{}
	cfg := testConfig()
	cfg.Facade.Timeout = 10 * time.Second
	suite := runner.Suite{Name: "product", Scenarios: []runner.Scenario{{
		Name:    "waits forever",
		Timeout: 60 * time.Millisecond,
		Body: []runner.BodyStep{runner.Step("click missing", func(sc *runner.Context) error {
			o := cartPage(sc)
			o.MustDefineAction("open", page.ClickOn("rows"))
			return o.Do(sc.Context(), "open", nil)
		})},
		Teardown: func(sc *runner.Context) error {
			atomic.AddInt32(&teardowns, 1)
			return nil
		},
	}}}

	start := time.Now()
	agg, err := newRunner(t, cfg, p).Run(context.Background(), suite)

	require.NoError(t, err)
	res := agg.Scenarios[0]
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, entities.StatusFailed, res.Status)
	assert.Equal(t, entities.ReasonTimeoutExceeded, res.Reason)
	assert.Equal(t, entities.CategoryInfrastructure, res.Category)
	assert.Equal(t, int32(1), atomic.LoadInt32(&teardowns))
	assert.Equal(t, 1, p.Sessions()[0].Closed())
}

func TestRun_ScenarioThatIgnoresItsDeadlineStillTimesOut(t *testing.T) {
	p := &facadetest.Provider{}
	suite := runner.Suite{Name: "product", Scenarios: []runner.Scenario{{
		Name:    "slow body",
		Timeout: 50 * time.Millisecond,
		Body: []runner.BodyStep{runner.Step("sleep", func(sc *runner.Context) error {
			time.Sleep(200 * time.Millisecond)
			return nil
		})},
	}}}

	agg, err := newRunner(t, testConfig(), p).Run(context.Background(), suite)

	require.NoError(t, err)
	res := agg.Scenarios[0]
	assert.Equal(t, entities.StatusFailed, res.Status)
	assert.Equal(t, entities.ReasonTimeoutExceeded, res.Reason)
	assert.Equal(t, entities.CategoryInfrastructure, res.Category)
	assert.Contains(t, res.Error, "exceeded 50ms")
	assert.Equal(t, 1, p.Sessions()[0].Closed())
}

func TestRun_ExpectationOnBrokenPageIsInfrastructure(t *testing.T) {
	tests := []struct {
		name    string
		probe   func(sc *runner.Context) func(ctx context.Context) (string, error)
		wantErr string
	}{
		{
			name: "missing element",
			probe: func(sc *runner.Context) func(ctx context.Context) (string, error) {
				o := page.New("cart", sc.Facade())
				o.Locators(entities.LocatorEntry{Name: "subtotal", Selector: ".cart-subtotal"})
				o.MustDefineQuery("subtotal", page.TextOf("subtotal"))
				return func(ctx context.Context) (string, error) { return o.AskString(ctx, "subtotal", nil) }
			},
			wantErr: "not found",
		},
		{
			name: "closed browser",
			probe: func(sc *runner.Context) func(ctx context.Context) (string, error) {
				return func(ctx context.Context) (string, error) { return "", errors.New("browser has been closed") }
			},
			wantErr: "browser has been closed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a retry budget and an expectation whose probe never yields a value
			cfg := testConfig()
			cfg.Retries = 1
			p := &facadetest.Provider{}
			suite := runner.Suite{Name: "cart", Scenarios: []runner.Scenario{{
				Name: "subtotal",
				Body: []runner.BodyStep{runner.Step("check subtotal", func(sc *runner.Context) error {
					return sc.ExpectEqual("subtotal", "$10", tt.probe(sc))
				})},
			}}}

			// WHEN
			agg, err := newRunner(t, cfg, p).Run(context.Background(), suite)

			// THEN it is reported and retried as an infrastructure failure
			require.NoError(t, err)
			res := agg.Scenarios[0]
			assert.Equal(t, entities.StatusFailed, res.Status)
			assert.Equal(t, entities.CategoryInfrastructure, res.Category)
			assert.Contains(t, res.Error, tt.wantErr)
			assert.NotContains(t, res.Error, "deadline exceeded")
			assert.Empty(t, res.Failures)
			assert.Equal(t, 2, res.Attempts)
		})
	}
}

func TestRun_ExpectationValueAfterTransientErrorIsAssertion(t *testing.T) {
	var calls int32
	p := &facadetest.Provider{}
	suite := runner.Suite{Name: "cart", Scenarios: []runner.Scenario{{
		Name: "total",
		Body: []runner.BodyStep{runner.Step("check total", func(sc *runner.Context) error {
			return sc.ExpectEqual("total", "$10.00", func(ctx context.Context) (string, error) {
				if atomic.AddInt32(&calls, 1) == 1 {
					return "", errors.New("execution context was destroyed")
				}
				return "$12.00", nil
			})
		})},
	}}}

	agg, err := newRunner(t, testConfig(), p).Run(context.Background(), suite)

	require.NoError(t, err)
	res := agg.Scenarios[0]
	assert.Equal(t, entities.CategoryAssertion, res.Category)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, `"$12.00"`, res.Failures[0].Actual)
}

func TestRun_AssertOnceEvaluatesASingleTime(t *testing.T) {
	cfg := testConfig()
	cfg.AssertTimeout = runner.AssertOnce
	var calls int32
	p := &facadetest.Provider{}
	suite := runner.Suite{Name: "cart", Scenarios: []runner.Scenario{{
		Name: "total",
		Body: []runner.BodyStep{runner.Step("check total", func(sc *runner.Context) error {
			return sc.ExpectEqual("total", "$10.00", func(ctx context.Context) (string, error) {
				atomic.AddInt32(&calls, 1)
				return "$12.00", nil
			})
		})},
	}}}

	agg, err := newRunner(t, cfg, p).Run(context.Background(), suite)

	require.NoError(t, err)
	assert.Equal(t, entities.StatusFailed, agg.Scenarios[0].Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRun_StopOnFailureSkipsUnstartedScenarios(t *testing.T) {
	p := &facadetest.Provider{}
	cfg := testConfig()
	cfg.StopOnFailure = true
	pass := []runner.BodyStep{runner.Step("ok", func(sc *runner.Context) error { return nil })}
	fail := []runner.BodyStep{runner.Step("boom", func(sc *runner.Context) error { return errors.New("boom") })}
	suite := runner.Suite{Name: "search", Scenarios: []runner.Scenario{
		{Name: "a", Body: pass},
		{Name: "b", Body: fail},
		{Name: "c", Body: pass},
		{Name: "d", Body: pass},
	}}

	agg, err := newRunner(t, cfg, p).Run(context.Background(), suite)

	require.NoError(t, err)
	statuses := []entities.ScenarioStatus{}
	for _, s := range agg.Scenarios {
		statuses = append(statuses, s.Status)
	}
	assert.Equal(t, []entities.ScenarioStatus{
		entities.StatusPassed, entities.StatusFailed, entities.StatusSkipped, entities.StatusSkipped,
	}, statuses)
	assert.Equal(t, entities.ReasonSuiteStopped, agg.Scenarios[2].Reason)
	assert.Len(t, p.Sessions(), 2)
}

func TestRun_ContinuesAfterFailureByDefault(t *testing.T) {
	p := &facadetest.Provider{}
	suite := runner.Suite{Name: "search", Scenarios: []runner.Scenario{
		{Name: "a", Body: []runner.BodyStep{runner.Step("boom", func(sc *runner.Context) error { return errors.New("boom") })}},
		{Name: "b", Body: []runner.BodyStep{runner.Step("ok", func(sc *runner.Context) error { return nil })}},
	}}

	agg, err := newRunner(t, testConfig(), p).Run(context.Background(), suite)

	require.NoError(t, err)
	assert.Equal(t, entities.StatusPassed, agg.Scenarios[1].Status)
}

func TestRun_ScenarioIsolation(t *testing.T) {
	// A leaves an item in its cart; B expects an empty cart
	a := runner.Scenario{Name: "a", Body: []runner.BodyStep{
		runner.Step("add", func(sc *runner.Context) error {
			fakeDriver(sc).Add(".cart-item-row", &facadetest.Element{Text: "Laptop"})
			return sc.ExpectCount("items", 1, itemsCount(cartPage(sc)))
		}),
	}}
	b := runner.Scenario{Name: "b", Body: []runner.BodyStep{
		runner.Step("count", func(sc *runner.Context) error {
			return sc.ExpectCount("items", 0, itemsCount(cartPage(sc)))
		}),
	}}

	together, err := newRunner(t, testConfig(), &facadetest.Provider{}).
		Run(context.Background(), runner.Suite{Name: "cart", Scenarios: []runner.Scenario{a, b}})
	require.NoError(t, err)
	alone, err := newRunner(t, testConfig(), &facadetest.Provider{}).
		Run(context.Background(), runner.Suite{Name: "cart", Scenarios: []runner.Scenario{b}})
	require.NoError(t, err)

	assert.Equal(t, entities.StatusPassed, together.Scenarios[0].Status)
	assert.Equal(t, alone.Scenarios[0].Status, together.Scenarios[1].Status)
	assert.Equal(t, alone.Scenarios[0].Assertions, together.Scenarios[1].Assertions)
	assert.Equal(t, entities.StatusPassed, alone.Scenarios[0].Status)
}

func TestRun_ParallelWorkersOwnExclusiveSessions(t *testing.T) {
	p := &facadetest.Provider{}
	cfg := testConfig()
	cfg.Parallelism = 3

	var mu sync.Mutex
	seen := map[string]string{}
	var scenarios []runner.Scenario
	for _, name := range []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7"} {
		scenarios = append(scenarios, runner.Scenario{Name: name, Body: []runner.BodyStep{
			runner.Step("hold session", func(sc *runner.Context) error {
				mu.Lock()
				seen[sc.Session().ID()] = sc.Scenario()
				mu.Unlock()
				time.Sleep(20 * time.Millisecond)
				return nil
			}),
		}})
	}

	agg, err := newRunner(t, cfg, p).Run(context.Background(), runner.Suite{Name: "parallel", Scenarios: scenarios})

	require.NoError(t, err)
	assert.LessOrEqual(t, p.MaxActive(), 3)
	assert.Len(t, seen, 7, "every scenario got its own session")
	for i, s := range agg.Scenarios {
		assert.Equal(t, scenarios[i].Name, s.Name, "results keep declaration order")
		assert.Equal(t, entities.StatusPassed, s.Status)
	}
}

func TestRun_RetriesOnlyInfrastructureFailures(t *testing.T) {
	cfg := testConfig()
	cfg.Retries = 2

	var flakyCalls, assertCalls int32
	suite := runner.Suite{Name: "retry", Scenarios: []runner.Scenario{
		{Name: "flaky", Body: []runner.BodyStep{runner.Step("load", func(sc *runner.Context) error {
			if atomic.AddInt32(&flakyCalls, 1) == 1 {
				return errors.New("net::ERR_CONNECTION_RESET")
			}
			return nil
		})}},
		{Name: "wrong total", Body: []runner.BodyStep{runner.Step("total", func(sc *runner.Context) error {
			atomic.AddInt32(&assertCalls, 1)
			return sc.ExpectEqual("total", "$10.00", func(ctx context.Context) (string, error) { return "$12.00", nil })
		})}},
	}}
	p := &facadetest.Provider{}

	agg, err := newRunner(t, cfg, p).Run(context.Background(), suite)

	require.NoError(t, err)
	flaky, wrong := agg.Scenarios[0], agg.Scenarios[1]
	assert.Equal(t, entities.StatusPassed, flaky.Status)
	assert.Equal(t, 2, flaky.Attempts)
	require.Len(t, flaky.Warnings, 1)
	assert.Contains(t, flaky.Warnings[0], "ERR_CONNECTION_RESET")

	assert.Equal(t, entities.StatusFailed, wrong.Status)
	assert.Equal(t, 1, wrong.Attempts)
	assert.Equal(t, int32(1), atomic.LoadInt32(&assertCalls))
	assert.Len(t, p.Sessions(), 3)
}

func TestRun_SessionCreationFailure(t *testing.T) {
	p := &facadetest.Provider{NewErr: errors.New("browser not installed")}
	suite := runner.Suite{Name: "s", Scenarios: []runner.Scenario{{Name: "x"}}}

	agg, err := newRunner(t, testConfig(), p).Run(context.Background(), suite)

	require.NoError(t, err)
	res := agg.Scenarios[0]
	assert.Equal(t, entities.StatusFailed, res.Status)
	assert.Equal(t, entities.PhaseSetup, res.Phase)
	assert.Contains(t, res.Error, "browser not installed")
}

func TestRun_PanicIsRecovered(t *testing.T) {
	p := &facadetest.Provider{}
	suite := runner.Suite{Name: "s", Scenarios: []runner.Scenario{{Name: "panics", Body: []runner.BodyStep{
		runner.Step("nil map", func(sc *runner.Context) error {
			var m map[string]int
			m["x"] = 1
			return nil
		}),
	}}}}

	agg, err := newRunner(t, testConfig(), p).Run(context.Background(), suite)

	require.NoError(t, err)
	assert.Equal(t, entities.StatusFailed, agg.Scenarios[0].Status)
	assert.Contains(t, agg.Scenarios[0].Error, "panic")
	assert.Equal(t, 1, p.Sessions()[0].Closed())
}

func TestPlan_FiltersByTagAndName(t *testing.T) {
	suites := []runner.Suite{
		{Name: "cart", Scenarios: []runner.Scenario{
			{Name: "empty cart", Tags: []string{"smoke"}},
			{Name: "remove item"},
		}},
		{Name: "login", Scenarios: []runner.Scenario{
			{Name: "valid login", Tags: []string{"smoke", "auth"}},
		}},
	}

	tests := []struct {
		name  string
		cfg   runner.Config
		want  []string
		isErr bool
	}{
		{name: "all", want: []string{"cart/empty cart", "cart/remove item", "login/valid login"}},
		{name: "tag", cfg: runner.Config{Tags: []string{"smoke"}}, want: []string{"cart/empty cart", "login/valid login"}},
		{name: "match", cfg: runner.Config{Match: "^cart/"}, want: []string{"cart/empty cart", "cart/remove item"}},
		{name: "tag and match", cfg: runner.Config{Tags: []string{"auth"}, Match: "login"}, want: []string{"login/valid login"}},
		{name: "bad regexp", cfg: runner.Config{Match: "("}, isErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := runner.New(tt.cfg, &facadetest.Provider{}, nil)
			if tt.isErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var got []string
			for _, p := range r.Plan(suites...) {
				got = append(got, p.ID())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_ConfigIsCopied(t *testing.T) {
	cfg := runner.Config{Tags: []string{"smoke"}}
	r, err := runner.New(cfg, &facadetest.Provider{}, nil)
	require.NoError(t, err)

	cfg.Tags[0] = "changed"
	got := r.Config()
	got.Tags[0] = "mutated"

	assert.Equal(t, []string{"smoke"}, r.Config().Tags)
	assert.Equal(t, runner.DefaultScenarioTimeout, r.Config().ScenarioTimeout)
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://shop.test/cart", runner.JoinURL("https://shop.test/", "/cart"))
	assert.Equal(t, "https://shop.test", runner.JoinURL("https://shop.test", ""))
	assert.Equal(t, "http://other/x", runner.JoinURL("https://shop.test", "http://other/x"))
}
