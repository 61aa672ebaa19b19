package suites

import (
	"regexp"

	"storefront_e2e/application/runner"
)

var (
	anyText = regexp.MustCompile(`\S`)
	amount  = regexp.MustCompile(`\d`)
)

// openCategory opens the top menu entry of the first fixture category
func openCategory(sc *runner.Context) error {
	if err := openHome(sc); err != nil {
		return err
	}
	return site(sc).Home().ClickCategory(sc.Context(), firstCategory(sc))
}

// listed runs act on the first product of the category listing and expects
// a notification
func listed(name string, act func(sc *runner.Context) error) runner.Scenario {
	return runner.Scenario{
		Name:  name,
		Tags:  []string{"category"},
		Setup: openCategory,
		Body: []runner.BodyStep{
			runner.Step(name, func(sc *runner.Context) error {
				n, err := site(sc).Category().ProductCount(sc.Context())
				if err != nil {
					return err
				}
				if err := sc.SkipUnless(n > 0, "category lists no products"); err != nil {
					return err
				}
				return act(sc)
			}),
			runner.Step("expect notification", func(sc *runner.Context) error {
				return sc.ExpectTrue("notification shown", site(sc).Category().IsNotificationVisible)
			}),
		},
	}
}

// sorted selects option in the sort dropdown and expects it to stick
func sorted(name, key, fallback string) runner.Scenario {
	return runner.Scenario{
		Name:  name,
		Tags:  []string{"category"},
		Setup: openCategory,
		Body: []runner.BodyStep{
			runner.Step("sort", func(sc *runner.Context) error {
				c := site(sc).Category()
				if err := visible(sc, "sort dropdown", c.IsSortVisible); err != nil {
					return err
				}
				option, ok := sc.Fixtures().SortOptions[key]
				if !ok {
					option = fallback
				}
				if err := c.SortBy(sc.Context(), option); err != nil {
					return err
				}
				return sc.ExpectEqual("sort order", option, c.SortValue)
			}),
		},
	}
}

func Category() runner.Suite {
	return runner.Suite{Name: "category", Scenarios: []runner.Scenario{
		{
			Name:  "categories open their pages",
			Tags:  []string{"category", "smoke"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("visit the first categories", func(sc *runner.Context) error {
					cats := sc.Fixtures().Categories
					h, c, ctx := site(sc).Home(), site(sc).Category(), sc.Context()
					for _, name := range cats[:min(len(cats), 3)] {
						if err := h.ClickCategory(ctx, name); err != nil {
							return err
						}
						if err := sc.ExpectContains(name+" title", name, c.Title); err != nil {
							return err
						}
					}
					return nil
				}),
			},
		},
		{
			Name:  "category lists products with prices",
			Tags:  []string{"category", "smoke"},
			Setup: openCategory,
			Body: []runner.BodyStep{
				runner.Step("expect products", func(sc *runner.Context) error {
					c := site(sc).Category()
					if err := sc.ExpectAtLeast("products", 1, c.ProductCount); err != nil {
						return err
					}
					if err := sc.ExpectMatch("first product title", anyText, nth(c.ProductTitle, 0)); err != nil {
						return err
					}
					return sc.ExpectMatch("first product price", amount, nth(c.ProductPrice, 0))
				}),
			},
		},
		sorted("products sort by name", "nameAsc", "5"),
		sorted("products sort by price", "priceAsc", "10"),
		{
			Name:  "page size can be changed",
			Tags:  []string{"category"},
			Setup: openCategory,
			Body: []runner.BodyStep{
				runner.Step("show four per page", func(sc *runner.Context) error {
					c := site(sc).Category()
					if err := visible(sc, "page size dropdown", c.IsPageSizeVisible); err != nil {
						return err
					}
					return c.DisplayPerPage(sc.Context(), "4")
				}),
				runner.Step("expect products", func(sc *runner.Context) error {
					return sc.ExpectAtLeast("products", 1, site(sc).Category().ProductCount)
				}),
			},
		},
		{
			Name:  "list and grid views switch",
			Tags:  []string{"category"},
			Setup: openCategory,
			Body: []runner.BodyStep{
				runner.Step("switch views", func(sc *runner.Context) error {
					c, ctx := site(sc).Category(), sc.Context()
					if err := visible(sc, "view mode switch", c.IsListViewVisible); err != nil {
						return err
					}
					if err := c.ListView(ctx); err != nil {
						return err
					}
					if err := sc.ExpectAtLeast("products in list", 1, c.ProductCount); err != nil {
						return err
					}
					if err := c.GridView(ctx); err != nil {
						return err
					}
					return sc.ExpectAtLeast("products in grid", 1, c.ProductCount)
				}),
			},
		},
		{
			Name:  "category pages forward and back",
			Tags:  []string{"category"},
			Setup: openCategory,
			Body: []runner.BodyStep{
				runner.Step("page through", func(sc *runner.Context) error {
					c, ctx := site(sc).Category(), sc.Context()
					if err := visible(sc, "pager", c.IsPaginationVisible); err != nil {
						return err
					}
					if err := c.NextPage(ctx); err != nil {
						return err
					}
					if err := c.PreviousPage(ctx); err != nil {
						return err
					}
					return sc.ExpectAtLeast("products", 1, c.ProductCount)
				}),
			},
		},
		{
			Name:  "breadcrumb names the category",
			Tags:  []string{"category"},
			Setup: openCategory,
			Body: []runner.BodyStep{
				runner.Step("expect breadcrumb", func(sc *runner.Context) error {
					c := site(sc).Category()
					if err := visible(sc, "breadcrumb", c.IsBreadcrumbVisible); err != nil {
						return err
					}
					return sc.ExpectContains("breadcrumb", firstCategory(sc), c.Breadcrumb)
				}),
			},
		},
		listed("add to cart from the listing", func(sc *runner.Context) error {
			return site(sc).Category().AddProductToCart(sc.Context(), 0)
		}),
		listed("add to wishlist from the listing", func(sc *runner.Context) error {
			return site(sc).Category().AddProductToWishlist(sc.Context(), 0)
		}),
		listed("add to compare list from the listing", func(sc *runner.Context) error {
			return site(sc).Category().AddProductToCompare(sc.Context(), 0)
		}),
		{
			Name:  "subcategories open their pages",
			Tags:  []string{"category"},
			Setup: openCategory,
			Body: []runner.BodyStep{
				runner.Step("open first subcategory", func(sc *runner.Context) error {
					c := site(sc).Category()
					n, err := c.SubcategoryCount(sc.Context())
					if err != nil {
						return err
					}
					if err := sc.SkipUnless(n > 0, "category has no subcategories"); err != nil {
						return err
					}
					return c.ClickSubcategory(sc.Context(), 0)
				}),
				runner.Step("expect title", func(sc *runner.Context) error {
					return sc.ExpectMatch("subcategory title", anyText, site(sc).Category().Title)
				}),
			},
		},
		{
			Name:  "category description is shown",
			Tags:  []string{"category"},
			Setup: openCategory,
			Body: []runner.BodyStep{
				runner.Step("look for description", func(sc *runner.Context) error {
					return visible(sc, "category description", site(sc).Category().IsDescriptionVisible)
				}),
			},
		},
		{
			Name:  "products can be filtered",
			Tags:  []string{"category"},
			Setup: openCategory,
			Body: []runner.BodyStep{
				runner.Step("look for filters", func(sc *runner.Context) error {
					return visible(sc, "product filters", site(sc).Category().IsFilterVisible)
				}),
			},
		},
		{
			Name:  "sparse category says so or lists products",
			Tags:  []string{"category"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("open the last category", func(sc *runner.Context) error {
					cats := sc.Fixtures().Categories
					return site(sc).Home().ClickCategory(sc.Context(), pick(cats[min(len(cats), 6):], "Gift Cards"))
				}),
				runner.Step("expect a note or products", func(sc *runner.Context) error {
					c, ctx := site(sc).Category(), sc.Context()
					n, err := c.ProductCount(ctx)
					if err != nil || n > 0 {
						return err
					}
					return sc.ExpectTrue("no data note shown", c.IsNoDataVisible)
				}),
			},
		},
	}}
}
