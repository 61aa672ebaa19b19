package suites

import (
	"storefront_e2e/application/runner"
)

// optional expects a header or footer widget only where the storefront has one
func optional(name, what string, ok func(sc *runner.Context) probe[bool]) runner.Scenario {
	return runner.Scenario{
		Name:  name,
		Tags:  []string{"navigation"},
		Setup: openHome,
		Body: []runner.BodyStep{
			runner.Step("look for "+what, func(sc *runner.Context) error {
				return visible(sc, what, ok(sc))
			}),
		},
	}
}

func Navigation() runner.Suite {
	return runner.Suite{Name: "navigation", Scenarios: []runner.Scenario{
		{
			Name:  "header shows the main navigation",
			Tags:  []string{"navigation", "smoke"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("expect header elements", func(sc *runner.Context) error {
					h := site(sc).Home()
					for _, e := range []struct {
						desc string
						ok   probe[bool]
					}{
						{"logo", h.IsLogoVisible},
						{"search box", h.IsSearchBoxVisible},
						{"search button", h.IsSearchButtonVisible},
						{"register link", h.IsRegisterLinkVisible},
						{"cart link", h.IsCartLinkVisible},
						{"wishlist link", h.IsWishlistLinkVisible},
					} {
						if err := sc.ExpectTrue(e.desc+" shown", e.ok); err != nil {
							return err
						}
					}
					return sc.ExpectAtLeast("top menu entries", 5, h.CategoryCount)
				}),
			},
		},
		{
			Name:  "every top menu entry opens a page",
			Tags:  []string{"navigation"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("visit each category", func(sc *runner.Context) error {
					h, ctx := site(sc).Home(), sc.Context()
					n, err := h.CategoryCount(ctx)
					if err != nil {
						return err
					}
					for i := range min(n, 7) {
						name, err := h.CategoryName(ctx, i)
						if err != nil {
							return err
						}
						if err := h.ClickCategory(ctx, name); err != nil {
							return err
						}
						if err := sc.ExpectContains(name+" heading", name, h.Heading); err != nil {
							return err
						}
						if err := h.Goto(ctx); err != nil {
							return err
						}
					}
					return nil
				}),
			},
		},
		{
			Name:  "footer shows store information",
			Tags:  []string{"navigation"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("expect footer", func(sc *runner.Context) error {
					h := site(sc).Home()
					if err := sc.ExpectTrue("footer shown", h.IsFooterVisible); err != nil {
						return err
					}
					return sc.ExpectTrue("footer information shown", h.IsFooterInfoVisible)
				}),
			},
		},
		{
			Name:  "information links open their pages",
			Tags:  []string{"navigation"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("follow each link", func(sc *runner.Context) error {
					h, ctx := site(sc).Home(), sc.Context()
					for _, l := range []struct{ title, url string }{
						{"About us", "about-us"},
						{"Contact us", "contactus"},
						{"Sitemap", "sitemap"},
						{"News", "news"},
					} {
						shown, err := h.IsFooterLinkVisible(ctx, l.title)
						if err != nil {
							return err
						}
						if !shown {
							continue
						}
						if err := h.ClickFooterLink(ctx, l.title); err != nil {
							return err
						}
						if err := sc.ExpectURLContains(l.url); err != nil {
							return err
						}
						if err := h.Goto(ctx); err != nil {
							return err
						}
					}
					return nil
				}),
			},
		},
		optional("currency selector is offered", "currency selector", func(sc *runner.Context) probe[bool] {
			return site(sc).Home().IsCurrencySelectorVisible
		}),
		optional("language selector is offered", "language selector", func(sc *runner.Context) probe[bool] {
			return site(sc).Home().IsLanguageSelectorVisible
		}),
		{
			Name:  "recently viewed products are listed",
			Tags:  []string{"navigation"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("view a product", func(sc *runner.Context) error {
					return openProduct(sc, sc.Fixtures().Product("laptop"))
				}),
				runner.Step("return home", openHome),
				runner.Step("look for recently viewed", func(sc *runner.Context) error {
					return visible(sc, "recently viewed products", site(sc).Home().IsRecentlyViewedVisible)
				}),
			},
		},
		{
			Name:  "home page features products",
			Tags:  []string{"navigation", "smoke"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("expect featured products", func(sc *runner.Context) error {
					h := site(sc).Home()
					if err := sc.ExpectAtLeast("featured products", 1, h.FeaturedProductCount); err != nil {
						return err
					}
					if err := sc.ExpectTrue("featured title shown", h.IsFeaturedTitleVisible); err != nil {
						return err
					}
					return sc.ExpectTrue("featured price shown", h.IsFeaturedPriceVisible)
				}),
			},
		},
		optional("mobile menu toggle is offered", "mobile menu toggle", func(sc *runner.Context) probe[bool] {
			return site(sc).Home().IsMobileMenuToggleVisible
		}),
		{
			Name:  "social links are shown",
			Tags:  []string{"navigation"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("count social links", func(sc *runner.Context) error {
					n, err := site(sc).Home().SocialLinkCount(sc.Context())
					if err != nil {
						return err
					}
					return sc.SkipUnless(n > 0, "no social links")
				}),
			},
		},
		optional("newsletter signup is offered", "newsletter signup", func(sc *runner.Context) probe[bool] {
			return site(sc).Home().IsNewsletterVisible
		}),
		{
			Name:  "category breadcrumb leads home",
			Tags:  []string{"navigation"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("open first category", func(sc *runner.Context) error {
					return site(sc).Home().ClickCategory(sc.Context(), firstCategory(sc))
				}),
				runner.Step("follow breadcrumb", func(sc *runner.Context) error {
					c := site(sc).Category()
					if err := visible(sc, "breadcrumb", c.IsBreadcrumbVisible); err != nil {
						return err
					}
					if err := sc.ExpectAtLeast("breadcrumb links", 1, c.BreadcrumbLinkCount); err != nil {
						return err
					}
					return site(sc).Home().ClickBreadcrumb(sc.Context(), 0)
				}),
				runner.Step("expect logo", func(sc *runner.Context) error {
					return sc.ExpectTrue("logo shown", site(sc).Home().IsLogoVisible)
				}),
			},
		},
		{
			Name:  "search box suggests terms",
			Tags:  []string{"navigation", "search"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("type a prefix", func(sc *runner.Context) error {
					return site(sc).Home().TypeSearch(sc.Context(), "comp")
				}),
				runner.Step("look for suggestions", func(sc *runner.Context) error {
					return visible(sc, "search suggestions", site(sc).Home().IsAutocompleteVisible)
				}),
			},
		},
		{
			Name:  "mini cart appears after adding",
			Tags:  []string{"navigation", "cart"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("add laptop", func(sc *runner.Context) error {
					if err := openProduct(sc, sc.Fixtures().Product("laptop")); err != nil {
						return err
					}
					return site(sc).Product().AddToCart(sc.Context(), 1)
				}),
				runner.Step("look for mini cart", func(sc *runner.Context) error {
					return visible(sc, "mini cart", site(sc).Home().IsMiniCartVisible)
				}),
			},
		},
		{
			Name:  "page titles name the store and category",
			Tags:  []string{"navigation", "smoke"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("expect store title", func(sc *runner.Context) error {
					return sc.ExpectContains("home title", "nopCommerce", site(sc).Home().Title)
				}),
				runner.Step("open first category", func(sc *runner.Context) error {
					return site(sc).Home().ClickCategory(sc.Context(), firstCategory(sc))
				}),
				runner.Step("expect category title", func(sc *runner.Context) error {
					return sc.ExpectContains("category title", firstCategory(sc), site(sc).Home().Title)
				}),
			},
		},
	}}
}

func firstCategory(sc *runner.Context) string {
	return pick(sc.Fixtures().Categories, "Computers")
}
