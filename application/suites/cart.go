package suites

import (
	"storefront_e2e/application/runner"
)

func Cart() runner.Suite {
	return runner.Suite{Name: "cart", Scenarios: []runner.Scenario{
		{
			Name:  "empty cart shows the empty message",
			Tags:  []string{"cart", "smoke"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("open cart", viewCart),
				runner.Step("expect empty message", func(sc *runner.Context) error {
					return sc.ExpectTrue("cart is empty", site(sc).Cart().IsCartEmpty)
				}),
			},
		},
		{
			Name:  "added product is listed with totals",
			Tags:  []string{"cart", "smoke"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("add laptop", func(sc *runner.Context) error {
					if err := openProduct(sc, sc.Fixtures().Product("laptop")); err != nil {
						return err
					}
					p, ctx := site(sc).Product(), sc.Context()
					title, err := p.Title(ctx)
					if err != nil {
						return err
					}
					sc.Store("title", title)
					if err := p.AddToCart(ctx, 1); err != nil {
						return err
					}
					return p.CloseNotification(ctx)
				}),
				runner.Step("open cart", viewCart),
				runner.Step("expect one line", func(sc *runner.Context) error {
					cart := site(sc).Cart()
					if err := sc.ExpectCount("cart lines", 1, cart.ItemsCount); err != nil {
						return err
					}
					title, _ := sc.Load("title").(string)
					if err := sc.ExpectContains("first product name", title, nth(cart.ProductName, 0)); err != nil {
						return err
					}
					if err := sc.ExpectTrue("subtotal shown", cart.IsSubtotalVisible); err != nil {
						return err
					}
					return sc.ExpectTrue("total shown", cart.IsTotalVisible)
				}),
			},
		},
		{
			Name:  "quantity update is kept",
			Tags:  []string{"cart", "smoke"},
			Setup: openHome,
			Body: []runner.BodyStep{
				cartWith("phone"),
				runner.Step("set quantity to 3", func(sc *runner.Context) error {
					return site(sc).Cart().UpdateQuantity(sc.Context(), 0, 3)
				}),
				runner.Step("expect quantity 3", func(sc *runner.Context) error {
					return sc.ExpectEqual("first line quantity", "3", nth(site(sc).Cart().Quantity, 0))
				}),
			},
		},
		{
			Name:  "removing the only item empties the cart",
			Tags:  []string{"cart", "smoke"},
			Setup: openHome,
			Body: []runner.BodyStep{
				cartWith("laptop"),
				runner.Step("remove first line", func(sc *runner.Context) error {
					return site(sc).Cart().RemoveItem(sc.Context(), 0)
				}),
				runner.Step("expect empty message", func(sc *runner.Context) error {
					return sc.ExpectTrue("cart is empty", site(sc).Cart().IsCartEmpty)
				}),
			},
		},
		{
			Name:  "two products make two lines",
			Tags:  []string{"cart"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("add laptop", func(sc *runner.Context) error {
					return addToCart(sc, sc.Fixtures().Product("laptop"), 1)
				}),
				runner.Step("add phone", func(sc *runner.Context) error {
					if err := openHome(sc); err != nil {
						return err
					}
					return addToCart(sc, sc.Fixtures().Product("phone"), 1)
				}),
				runner.Step("open cart", viewCart),
				runner.Step("expect two lines with totals", func(sc *runner.Context) error {
					cart := site(sc).Cart()
					if err := sc.ExpectCount("cart lines", 2, cart.ItemsCount); err != nil {
						return err
					}
					if err := sc.ExpectTrue("subtotal shown", cart.IsSubtotalVisible); err != nil {
						return err
					}
					return sc.ExpectTrue("total shown", cart.IsTotalVisible)
				}),
			},
		},
		{
			Name:  "continue shopping returns to the store",
			Tags:  []string{"cart"},
			Setup: openHome,
			Body: []runner.BodyStep{
				cartWith("laptop"),
				runner.Step("continue shopping", func(sc *runner.Context) error {
					return site(sc).Cart().ContinueShopping(sc.Context())
				}),
				runner.Step("expect logo", func(sc *runner.Context) error {
					return sc.ExpectTrue("logo shown", site(sc).Home().IsLogoVisible)
				}),
			},
		},
		{
			Name:  "checkout without accepting terms is refused",
			Tags:  []string{"cart", "checkout", "smoke"},
			Setup: openHome,
			Body: []runner.BodyStep{
				cartWith("laptop"),
				runner.Step("click checkout", func(sc *runner.Context) error {
					return site(sc).Cart().Checkout(sc.Context())
				}),
				runner.Step("expect terms warning", func(sc *runner.Context) error {
					return sc.ExpectTrue("terms warning shown", site(sc).Cart().IsTermsWarningVisible)
				}),
				runner.Step("expect to stay on the cart", func(sc *runner.Context) error {
					return sc.ExpectURLContains("/cart")
				}),
			},
		},
		{
			Name:  "discount code gets an answer",
			Tags:  []string{"cart"},
			Setup: openHome,
			Body: []runner.BodyStep{
				cartWith("laptop"),
				runner.Step("apply discount code", func(sc *runner.Context) error {
					code := pick(sc.Fixtures().DiscountCodes.Invalid, "DISCOUNT10")
					return site(sc).Cart().ApplyDiscountCode(sc.Context(), code)
				}),
				runner.Step("expect coupon message", func(sc *runner.Context) error {
					return sc.ExpectTrue("coupon message shown", site(sc).Cart().IsCouponMessageVisible)
				}),
			},
		},
		{
			Name:  "gift card code gets an answer",
			Tags:  []string{"cart"},
			Setup: openHome,
			Body: []runner.BodyStep{
				cartWith("laptop"),
				runner.Step("apply gift card", func(sc *runner.Context) error {
					code := pick(sc.Fixtures().GiftCardCodes.Invalid, "GIFT123")
					return site(sc).Cart().ApplyGiftCard(sc.Context(), code)
				}),
				runner.Step("expect coupon message", func(sc *runner.Context) error {
					return sc.ExpectTrue("coupon message shown", site(sc).Cart().IsCouponMessageVisible)
				}),
			},
		},
		{
			Name:  "gift wrapping can be chosen",
			Tags:  []string{"cart"},
			Setup: openHome,
			Body: []runner.BodyStep{
				cartWith("laptop"),
				runner.Step("choose gift wrapping", func(sc *runner.Context) error {
					cart := site(sc).Cart()
					if err := visible(sc, "gift wrapping", cart.IsGiftWrappingVisible); err != nil {
						return err
					}
					if err := cart.SelectGiftWrapping(sc.Context(), "1"); err != nil {
						return err
					}
					return cart.Update(sc.Context())
				}),
			},
		},
	}}
}
