package facade_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_e2e/application/facade"
	"storefront_e2e/application/facade/facadetest"
	"storefront_e2e/application/locator"
	"storefront_e2e/domain/entities"
)

func newFacade(t *testing.T, timeout time.Duration) (*facade.Facade, *facadetest.Driver) {
	t.Helper()
	d := facadetest.NewDriver()
	s := facadetest.NewSession("s1", d)

	reg := locator.NewRegistry("cart")
	reg.MustRegister("quantity", ".qty-input")
	reg.MustRegister("update", ".update-cart-button")
	reg.MustRegister("productName", ".product-name")
	reg.MustRegister("empty", ".no-data")
	reg.MustRegister("terms", "#termsofservice")
	reg.MustRegister("giftWrapping", "#checkout_attribute_1")
	reg.MustRegister("rows", ".cart-item-row")
	reg.MustRegister("nextPage", ".next-page", ".pager")

	f := facade.New(s, facade.Options{Timeout: timeout, PollInterval: 5 * time.Millisecond}, nil).WithRegistry(reg)
	return f, d
}

func TestClick_WaitsForDelayedElement(t *testing.T) {
	// GIVEN an update button that appears after 40ms
	f, d := newFacade(t, time.Second)
	d.AddAfter(".update-cart-button", 40*time.Millisecond, &facadetest.Element{})

	// WHEN
	start := time.Now()
	err := f.Click(context.Background(), entities.Named("update"))

	// THEN
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.Equal(t, []string{"click:.update-cart-button"}, d.Calls())
}

func TestClick_TimesOutWithActionTimeoutError(t *testing.T) {
	f, d := newFacade(t, 50*time.Millisecond)
	d.Add(".update-cart-button", &facadetest.Element{Hidden: true})

	err := f.Click(context.Background(), entities.Named("update"))

	var te *entities.ActionTimeoutError
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.Equal(t, "update", te.Locator)
	assert.Equal(t, "click", te.Operation)
	assert.GreaterOrEqual(t, te.Elapsed, 50*time.Millisecond)
	assert.Empty(t, d.Calls())
}

func TestClick_DisabledElementIsNotActionable(t *testing.T) {
	f, d := newFacade(t, 30*time.Millisecond)
	d.Add(".update-cart-button", &facadetest.Element{Disabled: true})

	err := f.Click(context.Background(), entities.Named("update"))

	var te *entities.ActionTimeoutError
	assert.True(t, errors.As(err, &te))
}

func TestPerCallTimeoutOverridesDefault(t *testing.T) {
	f, _ := newFacade(t, 10*time.Second)

	start := time.Now()
	err := f.Click(context.Background(), entities.Named("update"), facade.WithTimeout(30*time.Millisecond))

	var te *entities.ActionTimeoutError
	require.True(t, errors.As(err, &te))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestUnknownLocatorFailsWithoutWaiting(t *testing.T) {
	f, _ := newFacade(t, 10*time.Second)

	start := time.Now()
	err := f.Click(context.Background(), entities.Named("nope"))

	var unknown *entities.UnknownLocatorError
	require.True(t, errors.As(err, &unknown))
	assert.Less(t, time.Since(start), time.Second)
}

func TestText_TrimsWhitespace(t *testing.T) {
	f, d := newFacade(t, time.Second)
	d.Add(".product-name", &facadetest.Element{Text: "\n   14.1-inch Laptop  \t"})

	text, err := f.Text(context.Background(), entities.Named("productName").First())

	require.NoError(t, err)
	assert.Equal(t, "14.1-inch Laptop", text)
}

func TestText_MissingElementIsElementNotFound(t *testing.T) {
	f, _ := newFacade(t, 30*time.Millisecond)

	_, err := f.Text(context.Background(), entities.Named("productName"))

	var nf *entities.ElementNotFoundError
	require.True(t, errors.As(err, &nf))
	var te *entities.ActionTimeoutError
	assert.True(t, errors.As(err, &te), "not found wraps the timeout")
}

func TestIsVisible_AbsentAndHiddenAreBothFalse(t *testing.T) {
	f, d := newFacade(t, time.Second)
	d.Add("#termsofservice", &facadetest.Element{Hidden: true})

	hidden, err := f.IsVisible(context.Background(), entities.Named("terms"))
	require.NoError(t, err)
	assert.False(t, hidden)

	absent, err := f.IsVisible(context.Background(), entities.Named("empty"))
	require.NoError(t, err)
	assert.False(t, absent)

	_, err = f.IsVisible(context.Background(), entities.Named("unregistered"))
	var unknown *entities.UnknownLocatorError
	assert.True(t, errors.As(err, &unknown))
}

func TestIsVisible_WaitsOnlyWithTimeout(t *testing.T) {
	f, d := newFacade(t, time.Second)
	d.AddAfter(".no-data", 30*time.Millisecond, &facadetest.Element{})

	now, err := f.IsVisible(context.Background(), entities.Named("empty"))
	require.NoError(t, err)
	assert.False(t, now)

	later, err := f.IsVisible(context.Background(), entities.Named("empty"), facade.WithTimeout(time.Second))
	require.NoError(t, err)
	assert.True(t, later)
}

func TestIndexedAndFilteredResolution(t *testing.T) {
	f, d := newFacade(t, time.Second)
	d.Add(".qty-input",
		&facadetest.Element{Value: "1"},
		&facadetest.Element{Value: "2"},
	)
	d.Add(".product-name",
		&facadetest.Element{Text: "Apple iCam"},
		&facadetest.Element{Text: "Nikon D5500"},
	)

	ctx := context.Background()
	require.NoError(t, f.Fill(ctx, entities.Named("quantity").Nth(1), "3"))

	v0, err := f.Value(ctx, entities.Named("quantity").Nth(0))
	require.NoError(t, err)
	v1, err := f.Value(ctx, entities.Named("quantity").Nth(1))
	require.NoError(t, err)
	assert.Equal(t, "1", v0)
	assert.Equal(t, "3", v1)

	nikon, err := f.Text(ctx, entities.Named("productName").WithText("Nikon"))
	require.NoError(t, err)
	assert.Equal(t, "Nikon D5500", nikon)

	_, err = f.Text(ctx, entities.Named("productName").WithExactText("Nikon"), facade.WithTimeout(20*time.Millisecond))
	var nf *entities.ElementNotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestCount_IgnoresIndexAndDoesNotWait(t *testing.T) {
	f, d := newFacade(t, 10*time.Second)
	d.Add(".cart-item-row", &facadetest.Element{}, &facadetest.Element{})

	n, err := f.Count(context.Background(), entities.Named("rows").Nth(1))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	start := time.Now()
	zero, err := f.Count(context.Background(), entities.Named("empty"))
	require.NoError(t, err)
	assert.Equal(t, 0, zero)
	assert.Less(t, time.Since(start), time.Second)
}

func TestScopedLocator(t *testing.T) {
	f, d := newFacade(t, time.Second)
	d.Add(".pager .next-page", &facadetest.Element{})

	require.NoError(t, f.Click(context.Background(), entities.Named("nextPage")))
	assert.Equal(t, []string{"click:.pager .next-page"}, d.Calls())
}

func TestCheckAndSelect(t *testing.T) {
	f, d := newFacade(t, time.Second)
	d.Add("#termsofservice", &facadetest.Element{})
	d.Add("#checkout_attribute_1", &facadetest.Element{Options: []string{"1", "2"}})
	ctx := context.Background()

	require.NoError(t, f.Check(ctx, entities.Named("terms")))
	checked, err := f.IsChecked(ctx, entities.Named("terms"))
	require.NoError(t, err)
	assert.True(t, checked)

	require.NoError(t, f.SelectOption(ctx, entities.Named("giftWrapping"), "2"))
	assert.Error(t, f.SelectOption(ctx, entities.Named("giftWrapping"), "9"))
}

func TestDriverErrorIsWrapped(t *testing.T) {
	f, d := newFacade(t, time.Second)
	d.Add(".update-cart-button", &facadetest.Element{})
	boom := errors.New("element detached")
	d.FailOn("click", ".update-cart-button", boom)

	err := f.Click(context.Background(), entities.Named("update"))

	assert.ErrorIs(t, err, boom)
}

func TestWaitHidden(t *testing.T) {
	f, d := newFacade(t, time.Second)
	d.Add(".no-data", &facadetest.Element{})
	go func() {
		time.Sleep(30 * time.Millisecond)
		d.Remove(".no-data")
	}()

	require.NoError(t, f.WaitHidden(context.Background(), entities.Named("empty")))
}

type denyAll struct{}

func (denyAll) Allow(ctx context.Context, step entities.Step, url string) error {
	return &entities.GuardBlockedError{Step: step, Risk: "high"}
}

func (denyAll) RiskLevel(entities.Step) string { return "high" }

func TestGuardBlocksBeforeTouchingDriver(t *testing.T) {
	f, d := newFacade(t, time.Second)
	d.Add(".update-cart-button", &facadetest.Element{})

	err := f.WithGuard(denyAll{}).Click(context.Background(), entities.Named("update"))

	var blocked *entities.GuardBlockedError
	require.True(t, errors.As(err, &blocked))
	assert.Empty(t, d.Calls())
}
