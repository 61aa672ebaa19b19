package pages

import (
	"context"

	"storefront_e2e/application/facade"
	"storefront_e2e/application/page"
	"storefront_e2e/domain/entities"
)

// HomePage is the storefront landing page plus the header and footer shared by
// every page
type HomePage struct {
	base
}

func NewHomePage(env Env) *HomePage {
	p := &HomePage{base: newBase("home", env,
		loc("searchBox", "#small-searchterms"),
		loc("searchButton", ".search-box-button"),
		loc("logo", ".logo"),
		loc("categories", ".top-menu a"),
		loc("featuredProducts", ".product-item"),
		scoped("featuredTitle", ".product-item", ".product-title"),
		scoped("featuredPrice", ".product-item", ".price"),
		loc("registerLink", ".ico-register"),
		loc("loginLink", ".ico-login"),
		loc("cartLink", ".ico-cart"),
		loc("wishlistLink", ".ico-wishlist"),
		loc("footer", ".footer"),
		loc("footerInfo", ".footer-info, .company-info"),
		scoped("footerLinks", ".footer", "a"),
		loc("newsletterEmail", "#newsletter-email"),
		loc("newsletterButton", "#newsletter-subscribe-button"),
		loc("newsletterResult", "#newsletter-result-block"),
		loc("socialLinks", ".social-links a, .follow-us a"),
		loc("pageTitle", ".page-title, .category-title"),
		loc("pageBody", ".page-body"),
		scoped("breadcrumbLinks", ".breadcrumb", "a"),
		loc("recentlyViewed", ".recently-viewed-products"),
		loc("currencySelector", ".currency-selector"),
		loc("languageSelector", ".language-selector"),
		loc("mobileMenuToggle", ".mobile-menu-toggle"),
		loc("miniCart", ".mini-shopping-cart"),
		loc("autocomplete", ".ui-autocomplete, .search-autocomplete"),
	)}

	o := p.obj
	p.gotoAction("/")
	o.MustDefineAction("search", func(a page.Args) ([]entities.Step, error) {
		term := a.String("term", "")
		return []entities.Step{
			entities.Fill(entities.Named("searchBox"), term),
			click("searchButton"),
		}, nil
	})
	o.MustDefineAction("typeSearch", func(a page.Args) ([]entities.Step, error) {
		s, err := fill("searchBox", a, "term")
		return []entities.Step{s}, err
	})
	o.MustDefineAction("clickCategory", func(a page.Args) ([]entities.Step, error) {
		name, err := a.Require("name")
		if err != nil {
			return nil, err
		}
		return []entities.Step{entities.Click(entities.Named("categories").WithText(name).First())}, nil
	})
	o.MustDefineAction("clickFeaturedProduct", page.ClickAt("featuredProducts"))
	o.MustDefineAction("navigateToRegister", page.ClickOn("registerLink"))
	o.MustDefineAction("navigateToLogin", page.ClickOn("loginLink"))
	o.MustDefineAction("navigateToCart", page.ClickOn("cartLink"))
	o.MustDefineAction("navigateToWishlist", page.ClickOn("wishlistLink"))
	o.MustDefineAction("clickFooterLink", page.ClickWithText("footerLinks"))
	o.MustDefineAction("clickBreadcrumb", page.ClickAt("breadcrumbLinks"))
	o.MustDefineAction("subscribeNewsletter", func(a page.Args) ([]entities.Step, error) {
		s, err := fill("newsletterEmail", a, "email")
		if err != nil {
			return nil, err
		}
		return []entities.Step{s, click("newsletterButton")}, nil
	})

	o.MustDefineQuery("title", page.Title())
	o.MustDefineQuery("url", page.URL())
	o.MustDefineQuery("isLogoVisible", page.VisibleOf("logo"))
	o.MustDefineQuery("isSearchBoxVisible", page.VisibleOf("searchBox"))
	o.MustDefineQuery("isSearchButtonVisible", page.VisibleOf("searchButton"))
	o.MustDefineQuery("isRegisterLinkVisible", page.VisibleOf("registerLink"))
	o.MustDefineQuery("isCartLinkVisible", page.VisibleOf("cartLink"))
	o.MustDefineQuery("isWishlistLinkVisible", page.VisibleOf("wishlistLink"))
	o.MustDefineQuery("searchBoxValue", page.ValueAt("searchBox"))
	o.MustDefineQuery("categoryCount", page.CountOf("categories"))
	o.MustDefineQuery("categoryName", page.TextAt("categories"))
	o.MustDefineQuery("featuredProductCount", page.CountOf("featuredProducts"))
	o.MustDefineQuery("isFeaturedTitleVisible", page.VisibleOf("featuredTitle"))
	o.MustDefineQuery("isFeaturedPriceVisible", page.VisibleOf("featuredPrice"))
	o.MustDefineQuery("isFooterVisible", page.VisibleOf("footer"))
	o.MustDefineQuery("isFooterInfoVisible", page.VisibleOf("footerInfo"))
	o.MustDefineQuery("isFooterLinkVisible", page.VisibleWithText("footerLinks"))
	o.MustDefineQuery("isNewsletterVisible", page.VisibleOf("newsletterEmail"))
	o.MustDefineQuery("isNewsletterResultVisible", page.VisibleOf("newsletterResult"))
	o.MustDefineQuery("socialLinkCount", page.CountOf("socialLinks"))
	o.MustDefineQuery("socialLinkHref", func(ctx context.Context, r facade.Reader, _ page.Args) (any, error) {
		return r.Attribute(ctx, entities.Named("socialLinks").First(), "href")
	})
	o.MustDefineQuery("heading", page.TextOf("pageTitle"))
	o.MustDefineQuery("isPageBodyVisible", page.VisibleOf("pageBody"))
	o.MustDefineQuery("breadcrumbLinkCount", page.CountOf("breadcrumbLinks"))
	o.MustDefineQuery("isRecentlyViewedVisible", page.VisibleOf("recentlyViewed"))
	o.MustDefineQuery("isCurrencySelectorVisible", page.VisibleOf("currencySelector"))
	o.MustDefineQuery("isLanguageSelectorVisible", page.VisibleOf("languageSelector"))
	o.MustDefineQuery("isMobileMenuToggleVisible", page.VisibleOf("mobileMenuToggle"))
	o.MustDefineQuery("isMiniCartVisible", page.VisibleOf("miniCart"))
	o.MustDefineQuery("isAutocompleteVisible", page.VisibleOf("autocomplete"))
	return p
}

func (p *HomePage) Goto(ctx context.Context) error { return p.do(ctx, "goto", nil) }

func (p *HomePage) Search(ctx context.Context, term string) error {
	return p.do(ctx, "search", one("term", term))
}

// TypeSearch fills the search box without submitting
func (p *HomePage) TypeSearch(ctx context.Context, term string) error {
	return p.do(ctx, "typeSearch", one("term", term))
}

// ClickCategory opens the top menu entry whose text contains name
func (p *HomePage) ClickCategory(ctx context.Context, name string) error {
	return p.do(ctx, "clickCategory", one("name", name))
}

func (p *HomePage) ClickFeaturedProduct(ctx context.Context, i int) error {
	return p.do(ctx, "clickFeaturedProduct", at(i))
}

func (p *HomePage) NavigateToRegister(ctx context.Context) error {
	return p.do(ctx, "navigateToRegister", nil)
}

func (p *HomePage) NavigateToLogin(ctx context.Context) error {
	return p.do(ctx, "navigateToLogin", nil)
}

func (p *HomePage) NavigateToCart(ctx context.Context) error {
	return p.do(ctx, "navigateToCart", nil)
}

func (p *HomePage) NavigateToWishlist(ctx context.Context) error {
	return p.do(ctx, "navigateToWishlist", nil)
}

// ClickFooterLink follows the footer link whose text contains text
func (p *HomePage) ClickFooterLink(ctx context.Context, text string) error {
	return p.do(ctx, "clickFooterLink", one("text", text))
}

func (p *HomePage) ClickBreadcrumb(ctx context.Context, i int) error {
	return p.do(ctx, "clickBreadcrumb", at(i))
}

func (p *HomePage) SubscribeNewsletter(ctx context.Context, email string) error {
	return p.do(ctx, "subscribeNewsletter", one("email", email))
}

func (p *HomePage) Title(ctx context.Context) (string, error) { return p.str(ctx, "title", nil) }

func (p *HomePage) URL(ctx context.Context) (string, error) { return p.str(ctx, "url", nil) }

func (p *HomePage) IsLogoVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isLogoVisible", nil)
}

func (p *HomePage) IsSearchBoxVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isSearchBoxVisible", nil)
}

func (p *HomePage) IsSearchButtonVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isSearchButtonVisible", nil)
}

func (p *HomePage) IsRegisterLinkVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isRegisterLinkVisible", nil)
}

func (p *HomePage) IsCartLinkVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isCartLinkVisible", nil)
}

func (p *HomePage) IsWishlistLinkVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isWishlistLinkVisible", nil)
}

func (p *HomePage) SearchBoxValue(ctx context.Context) (string, error) {
	return p.str(ctx, "searchBoxValue", nil)
}

func (p *HomePage) CategoryCount(ctx context.Context) (int, error) {
	return p.count(ctx, "categoryCount")
}

func (p *HomePage) CategoryName(ctx context.Context, i int) (string, error) {
	return p.str(ctx, "categoryName", at(i))
}

func (p *HomePage) FeaturedProductCount(ctx context.Context) (int, error) {
	return p.count(ctx, "featuredProductCount")
}

func (p *HomePage) IsFeaturedTitleVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isFeaturedTitleVisible", nil)
}

func (p *HomePage) IsFeaturedPriceVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isFeaturedPriceVisible", nil)
}

func (p *HomePage) IsFooterVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isFooterVisible", nil)
}

func (p *HomePage) IsFooterInfoVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isFooterInfoVisible", nil)
}

func (p *HomePage) IsFooterLinkVisible(ctx context.Context, text string) (bool, error) {
	return p.is(ctx, "isFooterLinkVisible", one("text", text))
}

func (p *HomePage) IsNewsletterVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isNewsletterVisible", nil)
}

func (p *HomePage) IsNewsletterResultVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isNewsletterResultVisible", nil)
}

func (p *HomePage) SocialLinkCount(ctx context.Context) (int, error) {
	return p.count(ctx, "socialLinkCount")
}

func (p *HomePage) SocialLinkHref(ctx context.Context) (string, error) {
	return p.str(ctx, "socialLinkHref", nil)
}

// Heading is the title of whatever content page is open
func (p *HomePage) Heading(ctx context.Context) (string, error) {
	return p.str(ctx, "heading", nil)
}

func (p *HomePage) IsPageBodyVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isPageBodyVisible", nil)
}

func (p *HomePage) BreadcrumbLinkCount(ctx context.Context) (int, error) {
	return p.count(ctx, "breadcrumbLinkCount")
}

func (p *HomePage) IsRecentlyViewedVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isRecentlyViewedVisible", nil)
}

func (p *HomePage) IsCurrencySelectorVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isCurrencySelectorVisible", nil)
}

func (p *HomePage) IsLanguageSelectorVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isLanguageSelectorVisible", nil)
}

func (p *HomePage) IsMobileMenuToggleVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isMobileMenuToggleVisible", nil)
}

// IsMiniCartVisible reports the header flyout cart, shown once the cart has items
func (p *HomePage) IsMiniCartVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isMiniCartVisible", nil)
}

// IsAutocompleteVisible reports the suggestion list under the search box
func (p *HomePage) IsAutocompleteVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isAutocompleteVisible", nil)
}
