package pages_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_e2e/application/facade"
	"storefront_e2e/application/facade/facadetest"
	"storefront_e2e/application/pages"
	"storefront_e2e/application/pages/pagestest"
	"storefront_e2e/domain/entities"
)

type env struct {
	f     *facade.Facade
	store *pagestest.Store
}

func (e env) Facade() *facade.Facade { return e.f }
func (e env) URL(path string) string { return e.store.URL(path) }

func newSite(t *testing.T) (*pages.Site, *facadetest.Session, env) {
	t.Helper()
	store := pagestest.New("http://shop.test")
	sess := facadetest.NewSession("s1", facadetest.NewDriver())
	store.Install(sess)
	f := facade.New(sess, facade.Options{Timeout: 200 * time.Millisecond, PollInterval: 5 * time.Millisecond}, nil)
	e := env{f: f, store: store}
	return pages.NewSite(e), sess, e
}

func openProduct(t *testing.T, e env, path string) {
	t.Helper()
	require.NoError(t, e.f.Navigate(context.Background(), e.URL(path)))
}

func TestCart_EmptyForFreshSession(t *testing.T) {
	site, _, _ := newSite(t)
	ctx := context.Background()

	require.NoError(t, site.Cart().Goto(ctx))

	empty, err := site.Cart().IsCartEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)
	n, err := site.Cart().ItemsCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCart_AddThenView(t *testing.T) {
	site, _, e := newSite(t)
	ctx := context.Background()
	openProduct(t, e, "/computing-and-internet")

	title, err := site.Product().Title(ctx)
	require.NoError(t, err)
	require.NoError(t, site.Product().AddToCart(ctx, 1))
	require.NoError(t, site.Cart().Goto(ctx))

	n, err := site.Cart().ItemsCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	name, err := site.Cart().ProductName(ctx, 0)
	require.NoError(t, err)
	assert.Contains(t, name, title)
}

func TestCart_QuantityUpdate(t *testing.T) {
	site, _, e := newSite(t)
	ctx := context.Background()
	openProduct(t, e, "/computing-and-internet")
	require.NoError(t, site.Product().AddToCart(ctx, 1))
	require.NoError(t, site.Cart().Goto(ctx))

	require.NoError(t, site.Cart().UpdateQuantity(ctx, 0, 3))

	qty, err := site.Cart().Quantity(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "3", qty)
}

func TestCart_RemoveItem(t *testing.T) {
	site, _, e := newSite(t)
	ctx := context.Background()
	openProduct(t, e, "/fiction")
	require.NoError(t, site.Product().AddToCart(ctx, 1))
	require.NoError(t, site.Cart().Goto(ctx))

	require.NoError(t, site.Cart().RemoveItem(ctx, 0))

	empty, err := site.Cart().IsCartEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestCart_CheckoutWithoutTermsShowsWarning(t *testing.T) {
	site, sess, e := newSite(t)
	ctx := context.Background()
	openProduct(t, e, "/fiction")
	require.NoError(t, site.Product().AddToCart(ctx, 1))
	require.NoError(t, site.Cart().Goto(ctx))

	require.NoError(t, site.Cart().Checkout(ctx))

	warned, err := site.Cart().IsTermsWarningVisible(ctx)
	require.NoError(t, err)
	assert.True(t, warned)
	url, _ := sess.URL(ctx)
	assert.Equal(t, e.URL("/cart"), url, "checkout must not advance")
}

func TestProduct_AddToCartWithQuantityClearsAndFills(t *testing.T) {
	site, sess, e := newSite(t)
	ctx := context.Background()
	openProduct(t, e, "/health-book")

	require.NoError(t, site.Product().AddToCart(ctx, 3))

	qty := `#product_enteredQuantity_27, .qty-input, input[name="addtocart_27.EnteredQuantity"]`
	assert.Equal(t, []string{
		"fill:" + qty + "=",
		"fill:" + qty + "=3",
		`click:#add-to-cart-button-27, .add-to-cart-button, button:has-text("Add to cart")`,
	}, sess.FakeDriver().Calls())
	msg, err := site.Product().NotificationText(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg, "shopping cart")

	require.NoError(t, site.Product().CloseNotification(ctx))
	visible, err := site.Product().IsNotificationVisible(ctx)
	require.NoError(t, err)
	assert.False(t, visible)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name        string
		email, pass string
		loggedIn    bool
		summary     bool
		fieldErrors bool
	}{
		{name: "valid credentials", email: "testuser@example.com", pass: "TestPassword123!", loggedIn: true},
		{name: "wrong password", email: "testuser@example.com", pass: "nope", summary: true},
		{name: "empty email", pass: "x", fieldErrors: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site, _, _ := newSite(t)
			ctx := context.Background()
			require.NoError(t, site.Login().Goto(ctx))

			require.NoError(t, site.Login().Login(ctx, tt.email, tt.pass, false))

			in, err := site.Login().IsLoggedIn(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.loggedIn, in)
			summary, err := site.Login().IsErrorVisible(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.summary, summary)
			n, err := site.Login().ValidationErrorCount(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.fieldErrors, n > 0)
		})
	}
}

func TestLogin_RememberMeChecksBoxBeforeSubmitting(t *testing.T) {
	site, sess, _ := newSite(t)
	ctx := context.Background()
	require.NoError(t, site.Login().Goto(ctx))

	require.NoError(t, site.Login().Login(ctx, "testuser@example.com", "TestPassword123!", true))

	assert.Equal(t, []string{
		"fill:#Email=testuser@example.com",
		"fill:#Password=TestPassword123!",
		"check:#RememberMe",
		`click:button[type="submit"]`,
	}, sess.FakeDriver().Calls())
}

func TestLogin_LogoutReturnsToAnonymousHeader(t *testing.T) {
	site, _, _ := newSite(t)
	ctx := context.Background()
	require.NoError(t, site.Login().Goto(ctx))
	require.NoError(t, site.Login().Login(ctx, "testuser@example.com", "TestPassword123!", false))

	require.NoError(t, site.Login().Logout(ctx))

	in, err := site.Login().IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, in)
	visible, err := site.Home().IsRegisterLinkVisible(ctx)
	require.NoError(t, err)
	assert.True(t, visible)
}

func TestRegister(t *testing.T) {
	user := entities.NewUser{FirstName: "John", LastName: "Doe", Email: "john@example.com", Password: "TestPassword123!"}

	t.Run("completes", func(t *testing.T) {
		site, _, _ := newSite(t)
		ctx := context.Background()
		require.NoError(t, site.Register().Goto(ctx))

		require.NoError(t, site.Register().Register(ctx, user))

		msg, err := site.Register().ResultMessage(ctx)
		require.NoError(t, err)
		assert.Contains(t, msg, "registration completed")
	})

	t.Run("password mismatch", func(t *testing.T) {
		site, _, _ := newSite(t)
		ctx := context.Background()
		require.NoError(t, site.Register().Goto(ctx))

		require.NoError(t, site.Register().RegisterWithConfirmation(ctx, user, "Different1!"))

		visible, err := site.Register().IsValidationErrorVisible(ctx)
		require.NoError(t, err)
		assert.True(t, visible)
		done, err := site.Register().IsResultVisible(ctx)
		require.NoError(t, err)
		assert.False(t, done)
	})

	t.Run("empty form", func(t *testing.T) {
		site, _, _ := newSite(t)
		ctx := context.Background()
		require.NoError(t, site.Register().Goto(ctx))

		require.NoError(t, site.Register().Submit(ctx))

		n, err := site.Register().ValidationErrorCount(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 4)
	})
}

func TestRegister_FieldsAndLabels(t *testing.T) {
	site, _, _ := newSite(t)
	ctx := context.Background()
	require.NoError(t, site.Register().Goto(ctx))

	for _, f := range site.Register().Fields() {
		visible, err := site.Register().IsFieldVisible(ctx, f)
		require.NoError(t, err)
		assert.True(t, visible, f)
	}
	label, err := site.Register().LabelText(ctx, "firstName")
	require.NoError(t, err)
	assert.Contains(t, label, "First name:")

	_, err = site.Register().IsFieldVisible(ctx, "shoeSize")
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	tests := []struct {
		term     string
		results  int
		noResult bool
	}{
		{term: "book", results: 1},
		{term: "computing", results: 1},
		{term: "xyz123nonexistent", noResult: true},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			site, _, _ := newSite(t)
			ctx := context.Background()
			require.NoError(t, site.Home().Goto(ctx))

			require.NoError(t, site.Home().Search(ctx, tt.term))

			n, err := site.Search().ResultCount(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.results, n)
			none, err := site.Search().IsNoResultVisible(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.noResult, none)
		})
	}
}

func TestHome_TypeSearchKeepsTermInBox(t *testing.T) {
	site, _, _ := newSite(t)
	ctx := context.Background()
	require.NoError(t, site.Home().Goto(ctx))

	require.NoError(t, site.Home().TypeSearch(ctx, "laptop"))

	v, err := site.Home().SearchBoxValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "laptop", v)
}

func TestCategory_BrowseAndSort(t *testing.T) {
	site, _, _ := newSite(t)
	ctx := context.Background()
	require.NoError(t, site.Home().Goto(ctx))

	require.NoError(t, site.Home().ClickCategory(ctx, "Books"))

	title, err := site.Category().Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Books", title)
	n, err := site.Category().ProductCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, site.Category().SortBy(ctx, "6"))
	v, err := site.Category().SortValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "6", v)

	assert.Error(t, site.Category().SortBy(ctx, "99"), "unknown option")
}

func TestCheckout_GuestOrderCompletes(t *testing.T) {
	site, _, e := newSite(t)
	ctx := context.Background()
	openProduct(t, e, "/computing-and-internet")
	require.NoError(t, site.Product().AddToCart(ctx, 1))
	require.NoError(t, site.Cart().Goto(ctx))
	require.NoError(t, site.Cart().ProceedToCheckout(ctx))

	co := site.Checkout()
	require.NoError(t, co.CheckoutAsGuest(ctx))
	require.NoError(t, co.FillBillingAddress(ctx, entities.Address{
		FirstName: "John", LastName: "Doe", Email: "john.doe@example.com",
		Country: "United States", City: "New York", Address1: "123 Main Street",
		ZipCode: "10001", PhoneNumber: "555-123-4567",
	}))
	require.NoError(t, co.SelectShippingMethod(ctx, 0))
	require.NoError(t, co.SelectPaymentMethod(ctx, 0))
	require.NoError(t, co.ContinuePaymentInfo(ctx))
	require.NoError(t, co.ConfirmOrder(ctx))

	done, err := co.IsOrderComplete(ctx)
	require.NoError(t, err)
	assert.True(t, done)
	order, err := co.OrderNumber(ctx)
	require.NoError(t, err)
	assert.Contains(t, order, "Order number")
}

func TestCheckout_MissingBillingFieldsAreReported(t *testing.T) {
	site, _, e := newSite(t)
	ctx := context.Background()
	openProduct(t, e, "/fiction")
	require.NoError(t, site.Product().AddToCart(ctx, 1))
	require.NoError(t, site.Cart().Goto(ctx))
	require.NoError(t, site.Cart().ProceedToCheckout(ctx))
	require.NoError(t, site.Checkout().CheckoutAsGuest(ctx))

	require.NoError(t, site.Checkout().ContinueBilling(ctx))

	n, err := site.Checkout().ValidationErrorCount(ctx)
	require.NoError(t, err)
	assert.Positive(t, n)
	steps, err := site.Checkout().StepCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, steps)
}

func TestContact(t *testing.T) {
	site, _, _ := newSite(t)
	ctx := context.Background()
	require.NoError(t, site.Home().Goto(ctx))
	require.NoError(t, site.Contact().Open(ctx))

	for _, f := range []string{"fullName", "email", "subject", "enquiry", "submit"} {
		visible, err := site.Contact().IsFieldVisible(ctx, f)
		require.NoError(t, err)
		assert.True(t, visible, f)
	}

	require.NoError(t, site.Contact().Submit(ctx))
	n, err := site.Contact().ValidationErrorCount(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)

	require.NoError(t, site.Contact().SubmitEnquiry(ctx, entities.ContactForm{
		FullName: "Test User", Email: "testuser@example.com", Subject: "Test", Enquiry: "Hello",
	}))
	sent, err := site.Contact().IsResultVisible(ctx)
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestContact_InfoPages(t *testing.T) {
	for _, title := range []string{"About us", "Sitemap", "News", "Privacy notice"} {
		t.Run(title, func(t *testing.T) {
			site, _, _ := newSite(t)
			ctx := context.Background()
			require.NoError(t, site.Home().Goto(ctx))

			require.NoError(t, site.Contact().OpenInfoPage(ctx, title))

			h, err := site.Contact().Heading(ctx)
			require.NoError(t, err)
			assert.Equal(t, title, h)
			body, err := site.Contact().IsBodyVisible(ctx)
			require.NoError(t, err)
			assert.True(t, body)
		})
	}
}

func TestSite_PageLookup(t *testing.T) {
	site, _, _ := newSite(t)

	for _, name := range pages.PageNames() {
		o, err := site.Page(name)
		require.NoError(t, err)
		assert.Equal(t, name, o.Name())
	}
	assert.Same(t, site.Cart(), site.Cart(), "pages are built once per site")

	_, err := site.Page("wishlist")
	assert.Error(t, err)
}
