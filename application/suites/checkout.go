package suites

import (
	"regexp"

	"storefront_e2e/application/runner"
)

var orderNumber = regexp.MustCompile(`\d+`)

// atCheckout puts the fixture laptop in the cart and accepts the terms
func atCheckout(sc *runner.Context) error {
	if err := openHome(sc); err != nil {
		return err
	}
	if err := addToCart(sc, sc.Fixtures().Product("laptop"), 1); err != nil {
		return err
	}
	if err := viewCart(sc); err != nil {
		return err
	}
	return site(sc).Cart().ProceedToCheckout(sc.Context())
}

// asGuest continues as a guest when the storefront asks who is checking out
func asGuest(sc *runner.Context) error {
	co := site(sc).Checkout()
	offered, err := co.IsGuestVisible(sc.Context())
	if err != nil || !offered {
		return err
	}
	return co.CheckoutAsGuest(sc.Context())
}

// billingForm continues as guest and skips unless the billing form is open
func billingForm(sc *runner.Context) error {
	if err := asGuest(sc); err != nil {
		return err
	}
	return visible(sc, "billing form", site(sc).Checkout().IsBillingFormVisible)
}

// toShippingMethod fills the fixture billing address and continues
func toShippingMethod(sc *runner.Context) error {
	if err := billingForm(sc); err != nil {
		return err
	}
	co, ctx := site(sc).Checkout(), sc.Context()
	if err := co.FillBillingAddress(ctx, sc.Fixtures().BillingAddress); err != nil {
		return err
	}
	return sc.ExpectTrue("shipping methods shown", co.IsShippingMethodVisible)
}

func Checkout() runner.Suite {
	return runner.Suite{Name: "checkout", Scenarios: []runner.Scenario{
		{
			Name:  "accepting terms leads to checkout",
			Tags:  []string{"checkout", "smoke"},
			Setup: atCheckout,
			Body: []runner.BodyStep{
				runner.Step("expect checkout url", func(sc *runner.Context) error {
					return sc.ExpectURLContains("checkout")
				}),
			},
		},
		{
			Name:  "checkout shows its steps",
			Tags:  []string{"checkout"},
			Setup: atCheckout,
			Body: []runner.BodyStep{
				runner.Step("continue as guest", asGuest),
				runner.Step("expect at least three steps", func(sc *runner.Context) error {
					return sc.ExpectAtLeast("checkout steps", 3, site(sc).Checkout().StepCount)
				}),
			},
		},
		{
			Name:  "guest checkout is offered",
			Tags:  []string{"checkout"},
			Setup: atCheckout,
			Body: []runner.BodyStep{
				runner.Step("continue as guest", func(sc *runner.Context) error {
					co := site(sc).Checkout()
					if err := visible(sc, "guest checkout", co.IsGuestVisible); err != nil {
						return err
					}
					return co.CheckoutAsGuest(sc.Context())
				}),
				runner.Step("expect checkout url", func(sc *runner.Context) error {
					return sc.ExpectURLContains("checkout")
				}),
			},
		},
		{
			Name:  "billing address is accepted",
			Tags:  []string{"checkout"},
			Setup: atCheckout,
			Body: []runner.BodyStep{
				runner.Step("fill billing address", toShippingMethod),
			},
		},
		{
			Name:  "ship to the billing address",
			Tags:  []string{"checkout"},
			Setup: atCheckout,
			Body: []runner.BodyStep{
				runner.Step("open billing form", billingForm),
				runner.Step("tick ship to same address", func(sc *runner.Context) error {
					co := site(sc).Checkout()
					if err := visible(sc, "ship to same address", co.IsShipToSameVisible); err != nil {
						return err
					}
					if err := co.ShipToSameAddress(sc.Context()); err != nil {
						return err
					}
					return sc.ExpectTrue("ship to same address ticked", co.IsShipToSameChecked)
				}),
			},
		},
		{
			Name:  "shipping method can be picked",
			Tags:  []string{"checkout"},
			Setup: atCheckout,
			Body: []runner.BodyStep{
				runner.Step("reach shipping methods", toShippingMethod),
				runner.Step("pick the first method", func(sc *runner.Context) error {
					co := site(sc).Checkout()
					if err := sc.ExpectAtLeast("shipping methods", 1, co.ShippingMethodCount); err != nil {
						return err
					}
					if err := co.CheckShippingMethod(sc.Context(), 0); err != nil {
						return err
					}
					return sc.ExpectTrue("first method picked", nth(co.IsShippingMethodChecked, 0))
				}),
			},
		},
		{
			Name:  "payment method can be picked",
			Tags:  []string{"checkout"},
			Setup: atCheckout,
			Body: []runner.BodyStep{
				runner.Step("reach shipping methods", toShippingMethod),
				runner.Step("continue with the first shipping method", func(sc *runner.Context) error {
					return site(sc).Checkout().SelectShippingMethod(sc.Context(), 0)
				}),
				runner.Step("pick the first payment method", func(sc *runner.Context) error {
					co := site(sc).Checkout()
					if err := sc.ExpectAtLeast("payment methods", 1, co.PaymentMethodCount); err != nil {
						return err
					}
					if err := co.CheckPaymentMethod(sc.Context(), 0); err != nil {
						return err
					}
					return sc.ExpectTrue("first method picked", nth(co.IsPaymentMethodChecked, 0))
				}),
			},
		},
		{
			Name:  "order summary shows a total",
			Tags:  []string{"checkout"},
			Setup: atCheckout,
			Body: []runner.BodyStep{
				runner.Step("continue as guest", asGuest),
				runner.Step("expect summary and total", func(sc *runner.Context) error {
					co := site(sc).Checkout()
					if err := visible(sc, "order summary", co.IsOrderSummaryVisible); err != nil {
						return err
					}
					return sc.ExpectTrue("order total shown", co.IsOrderTotalVisible)
				}),
			},
		},
		{
			Name:  "empty billing form is rejected",
			Tags:  []string{"checkout"},
			Setup: atCheckout,
			Body: []runner.BodyStep{
				runner.Step("open billing form", billingForm),
				runner.Step("continue without an address", func(sc *runner.Context) error {
					return site(sc).Checkout().NextStep(sc.Context())
				}),
				runner.Step("expect field errors", func(sc *runner.Context) error {
					return sc.ExpectAtLeast("field errors", 1, site(sc).Checkout().ValidationErrorCount)
				}),
			},
		},
		{
			Name:  "billing country can be changed",
			Tags:  []string{"checkout"},
			Setup: atCheckout,
			Body: []runner.BodyStep{
				runner.Step("open billing form", billingForm),
				runner.Step("select Canada", func(sc *runner.Context) error {
					co := site(sc).Checkout()
					if err := co.SelectCountry(sc.Context(), "Canada"); err != nil {
						return err
					}
					return sc.ExpectEqual("billing country", "Canada", co.CountryValue)
				}),
			},
		},
		{
			Name:  "tax and shipping costs are shown",
			Tags:  []string{"checkout"},
			Setup: atCheckout,
			Body: []runner.BodyStep{
				runner.Step("reach shipping methods", toShippingMethod),
				runner.Step("expect a cost line", func(sc *runner.Context) error {
					co := site(sc).Checkout()
					return visible(sc, "tax or shipping cost", either(co.IsTaxVisible, co.IsShippingCostVisible))
				}),
			},
		},
		{
			Name:  "guest order completes",
			Tags:  []string{"checkout", "smoke"},
			Setup: atCheckout,
			Body: []runner.BodyStep{
				runner.Step("reach shipping methods", toShippingMethod),
				runner.Step("pick shipping and payment", func(sc *runner.Context) error {
					co, ctx := site(sc).Checkout(), sc.Context()
					if err := co.SelectShippingMethod(ctx, 0); err != nil {
						return err
					}
					if err := co.SelectPaymentMethod(ctx, 0); err != nil {
						return err
					}
					return co.ContinuePaymentInfo(ctx)
				}),
				runner.Step("confirm order", func(sc *runner.Context) error {
					return site(sc).Checkout().ConfirmOrder(sc.Context())
				}),
				runner.Step("expect order number", func(sc *runner.Context) error {
					co := site(sc).Checkout()
					if err := sc.ExpectTrue("order completed", co.IsOrderComplete); err != nil {
						return err
					}
					return sc.ExpectMatch("order number", orderNumber, co.OrderNumber)
				}),
			},
		},
	}}
}
