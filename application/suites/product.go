package suites

import (
	"strconv"

	"storefront_e2e/application/runner"
)

// onProduct opens the product page of the fixture product key
func onProduct(key string) runner.Hook {
	return func(sc *runner.Context) error {
		if err := openHome(sc); err != nil {
			return err
		}
		return openProduct(sc, sc.Fixtures().Product(key))
	}
}

// notified runs act on the product page and expects a notification
// containing msg
func notified(name, msg string, act func(sc *runner.Context) error) runner.Scenario {
	return runner.Scenario{
		Name:  name,
		Tags:  []string{"product"},
		Setup: onProduct("laptop"),
		Body: []runner.BodyStep{
			runner.Step(name, act),
			runner.Step("expect notification", func(sc *runner.Context) error {
				p := site(sc).Product()
				if err := sc.ExpectTrue("notification shown", p.IsNotificationVisible); err != nil {
					return err
				}
				return sc.ExpectContainsFold("notification", msg, p.NotificationText)
			}),
		},
	}
}

func Product() runner.Suite {
	return runner.Suite{Name: "product", Scenarios: []runner.Scenario{
		{
			Name:  "product page shows its details",
			Tags:  []string{"product", "smoke"},
			Setup: onProduct("laptop"),
			Body: []runner.BodyStep{
				runner.Step("expect details", func(sc *runner.Context) error {
					p := site(sc).Product()
					for _, e := range []struct {
						desc string
						ok   probe[bool]
					}{
						{"title", p.IsTitleVisible},
						{"price", p.IsPriceVisible},
						{"add to cart", p.IsAddToCartVisible},
						{"image", p.IsImageVisible},
						{"description", p.IsDescriptionVisible},
					} {
						if err := sc.ExpectTrue(e.desc+" shown", e.ok); err != nil {
							return err
						}
					}
					return nil
				}),
			},
		},
		{
			Name:  "single item goes into the cart",
			Tags:  []string{"product", "cart", "smoke"},
			Setup: onProduct("laptop"),
			Body: []runner.BodyStep{
				runner.Step("add to cart", func(sc *runner.Context) error {
					return site(sc).Product().AddToCart(sc.Context(), sc.Fixtures().Quantities.Single)
				}),
				runner.Step("expect notification", func(sc *runner.Context) error {
					return sc.ExpectContainsFold("notification", "added to your shopping cart", site(sc).Product().NotificationText)
				}),
				runner.Step("open cart", func(sc *runner.Context) error {
					if err := site(sc).Product().CloseNotification(sc.Context()); err != nil {
						return err
					}
					return viewCart(sc)
				}),
				runner.Step("expect one line", func(sc *runner.Context) error {
					return sc.ExpectCount("cart lines", 1, site(sc).Cart().ItemsCount)
				}),
			},
		},
		{
			Name:  "quantity is kept when adding several",
			Tags:  []string{"product", "cart"},
			Setup: onProduct("laptop"),
			Body: []runner.BodyStep{
				runner.Step("add several", func(sc *runner.Context) error {
					return site(sc).Product().AddToCart(sc.Context(), sc.Fixtures().Quantities.Multiple)
				}),
				runner.Step("expect quantity", func(sc *runner.Context) error {
					p := site(sc).Product()
					if err := sc.ExpectTrue("notification shown", p.IsNotificationVisible); err != nil {
						return err
					}
					return sc.ExpectEqual("quantity", strconv.Itoa(sc.Fixtures().Quantities.Multiple), p.QuantityValue)
				}),
			},
		},
		notified("add to wishlist", "added to your wishlist", func(sc *runner.Context) error {
			p := site(sc).Product()
			if err := visible(sc, "wishlist button", p.IsWishlistVisible); err != nil {
				return err
			}
			return p.AddToWishlist(sc.Context())
		}),
		notified("add to compare list", "added to your product comparison", func(sc *runner.Context) error {
			p := site(sc).Product()
			if err := visible(sc, "compare button", p.IsCompareVisible); err != nil {
				return err
			}
			return p.AddToCompare(sc.Context())
		}),
		{
			Name:  "reviews can be written",
			Tags:  []string{"product"},
			Setup: onProduct("laptop"),
			Body: []runner.BodyStep{
				runner.Step("open reviews", func(sc *runner.Context) error {
					p := site(sc).Product()
					if err := visible(sc, "reviews tab", p.IsReviewsTabVisible); err != nil {
						return err
					}
					return p.OpenReviews(sc.Context())
				}),
				runner.Step("expect write review", func(sc *runner.Context) error {
					return sc.ExpectTrue("write review shown", site(sc).Product().IsWriteReviewVisible)
				}),
			},
		},
		{
			Name:  "product can be emailed to a friend",
			Tags:  []string{"product"},
			Setup: onProduct("laptop"),
			Body: []runner.BodyStep{
				runner.Step("email a friend", func(sc *runner.Context) error {
					p := site(sc).Product()
					if err := visible(sc, "email a friend", p.IsEmailFriendVisible); err != nil {
						return err
					}
					return p.EmailToFriend(sc.Context())
				}),
				runner.Step("expect email form", func(sc *runner.Context) error {
					return sc.ExpectURLContains("emailafriend")
				}),
			},
		},
		{
			Name:  "specifications are listed",
			Tags:  []string{"product"},
			Setup: onProduct("laptop"),
			Body: []runner.BodyStep{
				runner.Step("look for specifications", func(sc *runner.Context) error {
					return visible(sc, "specifications", site(sc).Product().IsSpecsVisible)
				}),
			},
		},
		{
			Name:  "quantity input is offered",
			Tags:  []string{"product"},
			Setup: onProduct("phone"),
			Body: []runner.BodyStep{
				runner.Step("expect quantity input", func(sc *runner.Context) error {
					p := site(sc).Product()
					if err := sc.ExpectTrue("quantity shown", p.IsQuantityVisible); err != nil {
						return err
					}
					return sc.ExpectEqual("default quantity", "1", p.QuantityValue)
				}),
			},
		},
		{
			Name:  "gift card can be bought",
			Tags:  []string{"product"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("search gift cards", func(sc *runner.Context) error {
					return site(sc).Home().Search(sc.Context(), sc.Fixtures().Product("giftCard"))
				}),
				runner.Step("open the first gift card", func(sc *runner.Context) error {
					s := site(sc).Search()
					n, err := s.ResultCount(sc.Context())
					if err != nil {
						return err
					}
					if err := sc.SkipUnless(n > 0, "no gift cards in the catalogue"); err != nil {
						return err
					}
					return s.OpenResult(sc.Context(), 0)
				}),
				runner.Step("expect add to cart", func(sc *runner.Context) error {
					return sc.ExpectTrue("add to cart shown", site(sc).Product().IsAddToCartVisible)
				}),
			},
		},
	}}
}
