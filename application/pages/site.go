package pages

import (
	"fmt"
	"slices"

	"storefront_e2e/application/page"
)

// Site builds the page objects of one scenario on first use. It is not safe
// for concurrent use, matching the single goroutine that owns a scenario.
type Site struct {
	env Env

	home     *HomePage
	login    *LoginPage
	register *RegisterPage
	product  *ProductPage
	category *CategoryPage
	search   *SearchPage
	cart     *CartPage
	checkout *CheckoutPage
	contact  *ContactPage
}

func NewSite(env Env) *Site {
	return &Site{env: env}
}

func lazy[T any](slot **T, build func(Env) *T, env Env) *T {
	if *slot == nil {
		*slot = build(env)
	}
	return *slot
}

func (s *Site) Home() *HomePage { return lazy(&s.home, NewHomePage, s.env) }

func (s *Site) Login() *LoginPage { return lazy(&s.login, NewLoginPage, s.env) }

func (s *Site) Register() *RegisterPage { return lazy(&s.register, NewRegisterPage, s.env) }

func (s *Site) Product() *ProductPage { return lazy(&s.product, NewProductPage, s.env) }

func (s *Site) Category() *CategoryPage { return lazy(&s.category, NewCategoryPage, s.env) }

func (s *Site) Search() *SearchPage { return lazy(&s.search, NewSearchPage, s.env) }

func (s *Site) Cart() *CartPage { return lazy(&s.cart, NewCartPage, s.env) }

func (s *Site) Checkout() *CheckoutPage { return lazy(&s.checkout, NewCheckoutPage, s.env) }

func (s *Site) Contact() *ContactPage { return lazy(&s.contact, NewContactPage, s.env) }

// Page looks a page object up by name for declarative scenarios
func (s *Site) Page(name string) (*page.Object, error) {
	switch name {
	case "home":
		return s.Home().Object(), nil
	case "login":
		return s.Login().Object(), nil
	case "register":
		return s.Register().Object(), nil
	case "product":
		return s.Product().Object(), nil
	case "category":
		return s.Category().Object(), nil
	case "search":
		return s.Search().Object(), nil
	case "cart":
		return s.Cart().Object(), nil
	case "checkout":
		return s.Checkout().Object(), nil
	case "contact":
		return s.Contact().Object(), nil
	}
	return nil, fmt.Errorf("unknown page %q, have %v", name, PageNames())
}

// PageNames lists the names accepted by Page
func PageNames() []string {
	names := []string{"home", "login", "register", "product", "category", "search", "cart", "checkout", "contact"}
	slices.Sort(names)
	return names
}
