// Package pagestest is an in-memory storefront for page object and suite
// tests. It mimics the markup the page objects expect, with just enough
// behaviour behind clicks to walk the cart, login, registration, contact and
// checkout flows.
package pagestest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"storefront_e2e/application/facade/facadetest"
)

// Product is one catalogue entry
type Product struct {
	Path  string
	Title string
	Price string
}

// Store describes the catalogue and accounts shared by every session
type Store struct {
	BaseURL    string
	Products   []Product
	Categories []string
	Users      map[string]string // email to password
}

// New returns a store with a small catalogue of books, a laptop, a phone and a
// desktop
func New(baseURL string) *Store {
	return &Store{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Products: []Product{
			{Path: "/computing-and-internet", Title: "Computing and Internet", Price: "10.00"},
			{Path: "/fiction", Title: "Fiction", Price: "24.00"},
			{Path: "/health-book", Title: "Health Book", Price: "10.00"},
			{Path: "/14-1-inch-laptop", Title: "14.1-inch Laptop", Price: "1590.00"},
			{Path: "/smartphone", Title: "Smartphone", Price: "100.00"},
			{Path: "/build-your-own-computer", Title: "Build your own computer", Price: "1200.00"},
		},
		Categories: []string{"Books", "Computers", "Electronics", "Apparel & Shoes", "Digital downloads", "Jewelry", "Gift Cards"},
		Users:      map[string]string{"testuser@example.com": "TestPassword123!"},
	}
}

// URL joins path onto the base URL
func (s *Store) URL(path string) string {
	return s.BaseURL + path
}

// Provider hands out sessions that each browse their own copy of the store
func (s *Store) Provider() *facadetest.Provider {
	return &facadetest.Provider{Setup: s.Install}
}

// Install registers every route on sess. Cart and login state live with the
// session so parallel scenarios never see each other's carts.
func (s *Store) Install(sess *facadetest.Session) {
	sh := &shop{store: s, sess: sess}
	sess.Route(s.URL("/"), "nopCommerce demo store", sh.home)
	sess.Route(s.URL("/login"), "nopCommerce demo store. Login", sh.login)
	sess.Route(s.URL("/register"), "nopCommerce demo store. Register", sh.register)
	sess.Route(s.URL("/cart"), "nopCommerce demo store. Shopping Cart", sh.cart)
	sess.Route(s.URL("/contactus"), "nopCommerce demo store. Contact Us", sh.contact)
	sess.Route(s.URL("/passwordrecovery"), "nopCommerce demo store. Password Recovery", func(d *facadetest.Driver) {
		sh.info(d, "Password recovery")
		d.Add("#Email", &facadetest.Element{})
	})
	sess.Route(s.URL("/search"), "nopCommerce demo store. Search", func(d *facadetest.Driver) { sh.search(d, "") })
	for _, c := range s.Categories {
		sess.Route(s.URL("/"+slug(c)), "nopCommerce demo store. "+c, func(d *facadetest.Driver) { sh.category(d, c) })
	}
	for _, p := range s.Products {
		sess.Route(s.URL(p.Path), "nopCommerce demo store. "+p.Title, func(d *facadetest.Driver) { sh.product(d, p) })
	}
}

func slug(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, " & ", "-"))
	return strings.ReplaceAll(s, " ", "-")
}

type line struct {
	product Product
	qty     int
}

// shop is the state of one session
type shop struct {
	store  *Store
	sess   *facadetest.Session
	lines  []line
	user   string
	term   string // echoed into the search box of the next page only
	orders int
}

func (sh *shop) goTo(path string) error {
	return sh.sess.Navigate(context.Background(), sh.store.URL(path))
}

// show replaces the current DOM without a navigation
func (sh *shop) show(d *facadetest.Driver, path string, build func(d *facadetest.Driver)) {
	sh.sess.SetURL(sh.store.URL(path))
	d.Reset()
	build(d)
}

func text(s string) *facadetest.Element { return &facadetest.Element{Text: s} }

// link is an anchor that navigates to href when clicked
func (sh *shop) link(s, href string) *facadetest.Element {
	return &facadetest.Element{
		Text:    s,
		Attrs:   map[string]string{"href": href},
		OnClick: func(*facadetest.Driver) error { return sh.follow(href) },
	}
}

func (sh *shop) follow(href string) error {
	if strings.HasPrefix(href, "/") {
		return sh.goTo(href)
	}
	return sh.sess.Navigate(context.Background(), href)
}

func button(onClick func(d *facadetest.Driver) error) *facadetest.Element {
	return &facadetest.Element{OnClick: onClick}
}

func (sh *shop) header(d *facadetest.Driver) {
	d.Add(".logo", sh.link("", "/"))
	box := &facadetest.Element{Value: sh.term}
	sh.term = ""
	d.Add("#small-searchterms", box)
	d.Add(".search-box-button", button(func(d *facadetest.Driver) error {
		term := box.Value
		sh.show(d, "/search?q="+term, func(d *facadetest.Driver) { sh.search(d, term) })
		return nil
	}))
	if sh.user == "" {
		d.Add(".ico-register", button(func(*facadetest.Driver) error { return sh.goTo("/register") }))
		d.Add(".ico-login", button(func(*facadetest.Driver) error { return sh.goTo("/login") }))
	} else {
		d.Add(".ico-account", text(sh.user))
		d.Add(".ico-logout", button(func(*facadetest.Driver) error {
			sh.user = ""
			return sh.goTo("/")
		}))
	}
	d.Add(".ico-cart", button(func(*facadetest.Driver) error { return sh.goTo("/cart") }))
	if len(sh.lines) > 0 {
		d.Add(".mini-shopping-cart", text(fmt.Sprintf("There are %d item(s) in your cart.", len(sh.lines))))
	}
	d.Add(".ico-wishlist", button(func(*facadetest.Driver) error { return nil }))
	for _, c := range sh.store.Categories {
		d.Add(".top-menu a", sh.link(c, "/"+slug(c)))
	}
	sh.footer(d)
}

func (sh *shop) footer(d *facadetest.Driver) {
	d.Add(".footer", &facadetest.Element{})
	d.Add(".footer-info, .company-info", text("Information"))
	for _, l := range []struct{ title, path string }{
		{"Sitemap", "/sitemap"},
		{"Shipping & returns", "/shippinginfo"},
		{"Privacy notice", "/privacy-notice"},
		{"Conditions of Use", "/conditions-of-use"},
		{"About us", "/about-us"},
		{"Contact us", "/contactus"},
		{"News", "/news"},
	} {
		el := sh.link(l.title, l.path)
		el.OnClick = func(d *facadetest.Driver) error {
			if l.path == "/contactus" {
				return sh.goTo(l.path)
			}
			sh.show(d, l.path, func(d *facadetest.Driver) { sh.info(d, l.title) })
			return nil
		}
		d.Add(".footer a", el)
	}
	d.Add("#newsletter-email", &facadetest.Element{})
	d.Add("#newsletter-subscribe-button", button(func(d *facadetest.Driver) error {
		d.Add("#newsletter-result-block", text("Thank you for signing up!"))
		return nil
	}))
	d.Add(".social-links a, .follow-us a",
		sh.link("Facebook", "http://www.facebook.com/nopCommerce"),
		sh.link("Twitter", "https://twitter.com/nopCommerce"))
}

func (sh *shop) info(d *facadetest.Driver, title string) {
	sh.header(d)
	d.Add(".page-title", text(title))
	d.Add(".page-title, .category-title", text(title))
	d.Add(".page-body", &facadetest.Element{})
	switch title {
	case "Sitemap":
		d.Add(".sitemap", &facadetest.Element{})
	case "News":
		d.Add(".news-items", &facadetest.Element{})
	}
}

func (sh *shop) home(d *facadetest.Driver) {
	sh.header(d)
	for _, p := range sh.store.Products[:2] {
		d.Add(".product-item", &facadetest.Element{Text: p.Title})
		d.Add(".product-item .product-title", text(p.Title))
		d.Add(".product-item .price", text(p.Price))
	}
}

func (sh *shop) productTiles(d *facadetest.Driver, products []Product) {
	for _, p := range products {
		d.Add(".product-item", text(p.Title))
		d.Add(".product-title a", sh.link(p.Title, p.Path))
		d.Add(".price", text(p.Price))
		d.Add(".add-to-cart-button, .product-box-add-to-cart-button", button(func(d *facadetest.Driver) error {
			sh.add(p, 1)
			d.Add("#bar-notification", text("The product has been added to your shopping cart"))
			return nil
		}))
		d.Add(".add-to-wishlist-button", button(func(d *facadetest.Driver) error {
			d.Add("#bar-notification", text("The product has been added to your wishlist"))
			return nil
		}))
		d.Add(".add-to-compare-list-button", button(func(d *facadetest.Driver) error {
			d.Add("#bar-notification", text("The product has been added to your product comparison"))
			return nil
		}))
	}
}

func (sh *shop) category(d *facadetest.Driver, name string) {
	sh.header(d)
	d.Add(".category-title h1, .page-title h1", text(name))
	d.Add(".page-title, .category-title", text(name))
	d.Add(".breadcrumb", text("Home / "+name))
	d.Add(".breadcrumb a", sh.link("Home", "/"))
	d.Add("#products-orderby", &facadetest.Element{Value: "0", Options: []string{"0", "5", "6", "10", "11", "15"}})
	d.Add("#products-pagesize", &facadetest.Element{Value: "8", Options: []string{"3", "4", "6", "8", "9", "12"}})
	d.Add("#products-viewmode .grid", &facadetest.Element{})
	d.Add("#products-viewmode .list", &facadetest.Element{})
	d.Add(".price-range-filter", &facadetest.Element{})
	if name == "Books" {
		sh.productTiles(d, sh.store.Products[:3])
		return
	}
	if name == "Computers" {
		for _, sub := range []string{"Desktops", "Notebooks", "Accessories"} {
			el := sh.link(sub, "/"+slug(sub))
			el.OnClick = func(d *facadetest.Driver) error {
				sh.show(d, "/"+slug(sub), func(d *facadetest.Driver) {
					sh.header(d)
					d.Add(".category-title h1, .page-title h1", text(sub))
				})
				return nil
			}
			d.Add(".sub-category-item", el)
		}
		sh.productTiles(d, sh.store.Products[3:4])
		return
	}
	d.Add(".no-data", text("No products were found that matched your criteria."))
}

func (sh *shop) search(d *facadetest.Driver, term string) {
	sh.term = term
	sh.header(d)
	d.Add(".page-title", text("Search"))
	d.Add(".search-results", &facadetest.Element{})
	if term == "" {
		d.Add(".warning", text("Search term minimum length is 3 characters"))
		return
	}
	if len(term) < 3 {
		d.Add(".warning", text("Search term minimum length is 3 characters"))
		return
	}
	var hits []Product
	for _, p := range sh.store.Products {
		if strings.Contains(strings.ToLower(p.Title), strings.ToLower(term)) {
			hits = append(hits, p)
		}
	}
	if len(hits) == 0 {
		d.Add(".no-result", text("No products were found that matched your criteria."))
		return
	}
	d.Add(".search-results-info, .pager-info", text(fmt.Sprintf("%d products found", len(hits))))
	d.Add("#products-orderby", &facadetest.Element{Value: "0", Options: []string{"0", "5", "6", "10", "11", "15"}})
	sh.productTiles(d, hits)
}

func (sh *shop) product(d *facadetest.Driver, p Product) {
	sh.header(d)
	d.Add(".product-name h1", text(p.Title))
	d.Add(".price-value-27, .price .actual-price, .product-price .price-value", text(p.Price))
	d.Add(".picture img", &facadetest.Element{})
	d.Add(".short-description", text("A short description of "+p.Title))
	d.Add(".full-description", text("The full description of "+p.Title))
	d.Add("text=Reviews", &facadetest.Element{Text: "Reviews"})
	d.Add(".write-product-review-button", &facadetest.Element{})
	d.Add(".email-a-friend-button", button(func(d *facadetest.Driver) error {
		sh.show(d, "/productemailafriend/27", func(d *facadetest.Driver) {
			sh.header(d)
			d.Add(".page-title", text("Email a friend"))
		})
		return nil
	}))
	qty := &facadetest.Element{Value: "1"}
	d.Add(`#product_enteredQuantity_27, .qty-input, input[name="addtocart_27.EnteredQuantity"]`, qty)
	notify := func(d *facadetest.Driver, msg string) {
		for _, sel := range []string{"#bar-notification", "#bar-notification .content", "#bar-notification .close"} {
			d.Remove(sel)
		}
		d.Add("#bar-notification", text(msg))
		d.Add("#bar-notification .content", text(msg))
		d.Add("#bar-notification .close", button(func(d *facadetest.Driver) error {
			d.Remove("#bar-notification")
			d.Remove("#bar-notification .content")
			return nil
		}))
	}
	d.Add(`#add-to-cart-button-27, .add-to-cart-button, button:has-text("Add to cart")`, button(func(d *facadetest.Driver) error {
		n, err := strconv.Atoi(qty.Value)
		if err != nil || n < 1 {
			notify(d, "Quantity should be positive")
			return nil
		}
		sh.add(p, n)
		notify(d, "The product has been added to your shopping cart")
		return nil
	}))
	d.Add(`#add-to-wishlist-button-27, .add-to-wishlist-button, button:has-text("Add to wishlist")`, button(func(d *facadetest.Driver) error {
		notify(d, "The product has been added to your wishlist")
		return nil
	}))
	d.Add(`.add-to-compare-list-button, button:has-text("Add to compare list")`, button(func(d *facadetest.Driver) error {
		notify(d, "The product has been added to your product comparison")
		return nil
	}))
}

func (sh *shop) add(p Product, n int) {
	for i := range sh.lines {
		if sh.lines[i].product.Path == p.Path {
			sh.lines[i].qty += n
			return
		}
	}
	sh.lines = append(sh.lines, line{product: p, qty: n})
}

func (sh *shop) cart(d *facadetest.Driver) {
	sh.header(d)
	d.Add(".page-title", text("Shopping cart"))
	if len(sh.lines) == 0 {
		d.Add(".no-data, .order-summary-content .no-data, .cart .no-data", text("Your Shopping Cart is empty!"))
		return
	}
	qtys := make([]*facadetest.Element, len(sh.lines))
	removes := make([]*facadetest.Element, len(sh.lines))
	for i, l := range sh.lines {
		d.Add(".cart-item-row", &facadetest.Element{})
		d.Add(".product-name", text(l.product.Title))
		d.Add(".product-unit-price", text(l.product.Price))
		qtys[i] = &facadetest.Element{Value: fmt.Sprint(l.qty)}
		removes[i] = &facadetest.Element{}
		d.Add(".qty-input", qtys[i])
		d.Add(`.remove-from-cart input[type="checkbox"]`, removes[i])
	}
	d.Add(".update-cart-button", button(func(d *facadetest.Driver) error {
		var kept []line
		for i, l := range sh.lines {
			n, err := strconv.Atoi(qtys[i].Value)
			if err != nil {
				n = l.qty
			}
			if removes[i].Checked || n <= 0 {
				continue
			}
			l.qty = n
			kept = append(kept, l)
		}
		sh.lines = kept
		return sh.goTo("/cart")
	}))
	d.Add(".continue-shopping-button", button(func(*facadetest.Driver) error { return sh.goTo("/") }))
	d.Add(".cart-subtotal", text(sh.subtotal()))
	d.Add(".cart-total", text(sh.subtotal()))
	d.Add("#checkout_attribute_1", &facadetest.Element{Options: []string{"1", "2"}})
	d.Add("#discountcouponcode", &facadetest.Element{})
	d.Add("#giftcardcouponcode", &facadetest.Element{})
	d.Add(".apply-discount-coupon-code-button", button(func(d *facadetest.Driver) error {
		d.Add(".message-error, .message-success", text("The coupon code you entered couldn't be applied to your order"))
		return nil
	}))
	d.Add(".apply-gift-card-coupon-code-button", button(func(d *facadetest.Driver) error {
		d.Add(".message-error, .message-success", text("The coupon code you entered couldn't be applied to your order"))
		return nil
	}))
	terms := &facadetest.Element{}
	d.Add("#termsofservice", terms)
	d.Add("#checkout", button(func(d *facadetest.Driver) error {
		if !terms.Checked {
			d.Remove(".terms-of-service-warning-box")
			d.Add(".terms-of-service-warning-box", text("Please accept the terms of service before the next step."))
			return nil
		}
		sh.show(d, "/login/checkoutasguest", sh.guest)
		return nil
	}))
}

func (sh *shop) subtotal() string {
	total := 0.0
	for _, l := range sh.lines {
		price, _ := strconv.ParseFloat(l.product.Price, 64)
		total += price * float64(l.qty)
	}
	return fmt.Sprintf("%.2f", total)
}

func (sh *shop) login(d *facadetest.Driver) {
	sh.header(d)
	email := &facadetest.Element{}
	password := &facadetest.Element{}
	d.Add("#Email", email)
	d.Add("#Password", password)
	d.Add("#RememberMe", &facadetest.Element{})
	d.Add(`a[href*="passwordrecovery"]`, sh.link("Forgot password?", "/passwordrecovery"))
	d.Add(`button[type="submit"]`, &facadetest.Element{Text: "Search"})
	d.Add(`button[type="submit"]`, &facadetest.Element{Text: "Log in", OnClick: func(d *facadetest.Driver) error {
		d.Remove(".field-validation-error")
		d.Remove(".validation-summary-errors")
		if email.Value == "" {
			d.Add(".field-validation-error", text("Please enter your email"))
			return nil
		}
		if !strings.Contains(email.Value, "@") {
			d.Add(".field-validation-error", text("Wrong email"))
			return nil
		}
		if pw, ok := sh.store.Users[email.Value]; !ok || pw != password.Value {
			d.Add(".validation-summary-errors", text("Login was unsuccessful. Please correct the errors and try again."))
			return nil
		}
		sh.user = email.Value
		return sh.goTo("/")
	}})
}

func (sh *shop) register(d *facadetest.Driver) {
	sh.header(d)
	d.Add(".page-title", text("Register"))
	d.Add("#gender-male, #Gender_Male", &facadetest.Element{})
	d.Add("#Company", &facadetest.Element{})
	d.Add("#DateOfBirth", &facadetest.Element{})
	d.Add("#Newsletter", &facadetest.Element{})
	fields := map[string]*facadetest.Element{}
	for _, f := range []struct{ id, label string }{
		{"FirstName", "First name: *"},
		{"LastName", "Last name: *"},
		{"Email", "Email: *"},
		{"Password", "Password: *"},
		{"ConfirmPassword", "Confirm password: *"},
	} {
		fields[f.id] = &facadetest.Element{}
		d.Add("#"+f.id, fields[f.id])
		d.Add(`label[for="`+f.id+`"]`, text(f.label))
	}
	d.Add("#register-button", button(func(d *facadetest.Driver) error {
		d.Remove(".field-validation-error")
		var errs []string
		for _, id := range []string{"FirstName", "LastName", "Email", "Password"} {
			if fields[id].Value == "" {
				errs = append(errs, id+" is required.")
			}
		}
		if v := fields["Email"].Value; v != "" && !strings.Contains(v, "@") {
			errs = append(errs, "Wrong email")
		}
		if v := fields["Password"].Value; v != "" && len(v) < 6 {
			errs = append(errs, "The password should have at least 6 characters.")
		}
		if fields["Password"].Value != fields["ConfirmPassword"].Value {
			errs = append(errs, "The password and confirmation password do not match.")
		}
		if _, taken := sh.store.Users[fields["Email"].Value]; taken {
			d.Add(".validation-summary-errors, .field-validation-error", text("The specified email already exists"))
			return nil
		}
		for _, e := range errs {
			d.Add(".field-validation-error", text(e))
			d.Add(".validation-summary-errors, .field-validation-error", text(e))
		}
		if len(errs) > 0 {
			return nil
		}
		sh.user = fields["Email"].Value
		sh.show(d, "/registerresult/1", func(d *facadetest.Driver) {
			sh.header(d)
			d.Add(".result, .registration-result", text("Your registration completed"))
		})
		return nil
	}))
}

func (sh *shop) contact(d *facadetest.Driver) {
	sh.header(d)
	d.Add(".page-title", text("Contact Us"))
	fields := map[string]*facadetest.Element{}
	for _, id := range []string{"FullName", "Email", "Subject", "Enquiry"} {
		fields[id] = &facadetest.Element{}
		d.Add("#"+id, fields[id])
	}
	d.Add(`input[type="submit"], button[name="send-email"]`, button(func(d *facadetest.Driver) error {
		d.Remove(".field-validation-error")
		bad := false
		for _, id := range []string{"FullName", "Email", "Enquiry"} {
			if fields[id].Value == "" {
				d.Add(".field-validation-error", text(id+" is required."))
				bad = true
			}
		}
		if v := fields["Email"].Value; v != "" && !strings.Contains(v, "@") {
			d.Add(".field-validation-error", text("Wrong email"))
			bad = true
		}
		if !bad {
			d.Add(".result", text("Your enquiry has been successfully sent to the store owner."))
		}
		return nil
	}))
}

// guest starts the one page checkout
func (sh *shop) guest(d *facadetest.Driver) {
	sh.header(d)
	d.Add(".checkout-as-guest-button", button(func(d *facadetest.Driver) error {
		sh.show(d, "/onepagecheckout", sh.billing)
		return nil
	}))
}

func (sh *shop) checkoutFrame(d *facadetest.Driver) {
	sh.header(d)
	for i := 0; i < 6; i++ {
		d.Add(".checkout-step", &facadetest.Element{})
	}
	d.Add(".order-summary-content", &facadetest.Element{})
	d.Add(".order-total", text(sh.subtotal()))
}

func (sh *shop) billing(d *facadetest.Driver) {
	sh.checkoutFrame(d)
	ids := []string{"FirstName", "LastName", "Email", "City", "Address1", "ZipPostalCode", "PhoneNumber"}
	fields := map[string]*facadetest.Element{}
	for _, id := range ids {
		fields[id] = &facadetest.Element{}
		d.Add("#BillingNewAddress_"+id, fields[id])
	}
	country := &facadetest.Element{Options: []string{"United States", "Canada", "Germany"}}
	d.Add("#BillingNewAddress_CountryId", country)
	d.Add("#ShipToSameAddress", &facadetest.Element{Checked: true})
	next := button(func(d *facadetest.Driver) error {
		d.Remove(".field-validation-error")
		bad := country.Value == ""
		for _, id := range ids {
			if fields[id].Value == "" {
				d.Add(".field-validation-error", text(id+" is required."))
				bad = true
			}
		}
		if bad {
			return nil
		}
		sh.show(d, "/onepagecheckout#shipping-method", sh.shippingMethod)
		return nil
	})
	d.Add("#billing-buttons-container .new-address-next-step-button", next)
	d.Add(".new-address-next-step-button", next)
}

func (sh *shop) shippingMethod(d *facadetest.Driver) {
	sh.checkoutFrame(d)
	d.Add("#shipping-method-buttons-container", &facadetest.Element{})
	opts := []*facadetest.Element{{Text: "Ground"}, {Text: "Next Day Air"}, {Text: "2nd Day Air"}}
	d.Add(`input[name="shippingoption"]`, opts...)
	d.Add(".shipping-cost", text("0.00"))
	d.Add("#shipping-method-buttons-container .shipping-method-next-step-button", button(func(d *facadetest.Driver) error {
		sh.show(d, "/onepagecheckout#payment-method", sh.paymentMethod)
		return nil
	}))
}

func (sh *shop) paymentMethod(d *facadetest.Driver) {
	sh.checkoutFrame(d)
	d.Add("#payment-method-buttons-container", &facadetest.Element{})
	opts := []*facadetest.Element{{Text: "Cash On Delivery"}, {Text: "Check / Money Order"}, {Text: "Credit Card"}}
	d.Add(`input[name="paymentmethod"]`, opts...)
	d.Add(".tax-rate", text("0.00"))
	d.Add("#payment-method-buttons-container .payment-method-next-step-button", button(func(d *facadetest.Driver) error {
		sh.show(d, "/onepagecheckout#payment-info", sh.paymentInfo)
		return nil
	}))
}

func (sh *shop) paymentInfo(d *facadetest.Driver) {
	sh.checkoutFrame(d)
	d.Add("#payment-info-buttons-container", &facadetest.Element{})
	d.Add("#payment-info-buttons-container .payment-info-next-step-button", button(func(d *facadetest.Driver) error {
		sh.show(d, "/onepagecheckout#confirm-order", sh.confirm)
		return nil
	}))
}

func (sh *shop) confirm(d *facadetest.Driver) {
	sh.checkoutFrame(d)
	d.Add("#confirm-order-buttons-container", &facadetest.Element{})
	d.Add("#confirm-order-buttons-container .confirm-order-next-step-button", button(func(d *facadetest.Driver) error {
		sh.orders++
		order := fmt.Sprintf("Order number: %d", 1000+sh.orders)
		sh.lines = nil
		sh.show(d, "/checkout/completed", func(d *facadetest.Driver) {
			sh.header(d)
			d.Add(".order-completed .title", text("Your order has been successfully processed!"))
			d.Add(".order-number", text(order))
			d.Add(".order-completed-continue-button", button(func(*facadetest.Driver) error { return sh.goTo("/") }))
		})
		return nil
	}))
}
