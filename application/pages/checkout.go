package pages

import (
	"context"

	"storefront_e2e/application/page"
	"storefront_e2e/domain/entities"
)

// billing form locators keyed by argument name
var billingFields = []struct{ arg, locator string }{
	{"firstName", "billingFirstName"},
	{"lastName", "billingLastName"},
	{"email", "billingEmail"},
	{"city", "billingCity"},
	{"address1", "billingAddress1"},
	{"zipCode", "billingZipCode"},
	{"phoneNumber", "billingPhone"},
}

// CheckoutPage covers the one page checkout from guest sign in to the order
// completed screen
type CheckoutPage struct {
	base
}

func NewCheckoutPage(env Env) *CheckoutPage {
	p := &CheckoutPage{base: newBase("checkout", env,
		loc("guest", ".checkout-as-guest-button"),
		loc("steps", ".checkout-step"),
		loc("billingSelect", "#billing-address-select"),
		loc("shippingSelect", "#shipping-address-select"),
		loc("shippingMethodSection", "#shipping-method-buttons-container"),
		loc("paymentMethodSection", "#payment-method-buttons-container"),
		loc("paymentInfoSection", "#payment-info-buttons-container"),
		loc("confirmSection", "#confirm-order-buttons-container"),
		loc("billingFirstName", "#BillingNewAddress_FirstName"),
		loc("billingLastName", "#BillingNewAddress_LastName"),
		loc("billingEmail", "#BillingNewAddress_Email"),
		loc("billingCountry", "#BillingNewAddress_CountryId"),
		loc("billingCity", "#BillingNewAddress_City"),
		loc("billingAddress1", "#BillingNewAddress_Address1"),
		loc("billingZipCode", "#BillingNewAddress_ZipPostalCode"),
		loc("billingPhone", "#BillingNewAddress_PhoneNumber"),
		scoped("billingContinue", "#billing-buttons-container", ".new-address-next-step-button"),
		loc("nextStep", ".new-address-next-step-button"),
		scoped("shippingContinue", "#shipping-buttons-container", ".new-address-next-step-button"),
		loc("shipToSame", "#ShipToSameAddress"),
		loc("shippingOptions", `input[name="shippingoption"]`),
		scoped("shippingMethodContinue", "#shipping-method-buttons-container", ".shipping-method-next-step-button"),
		loc("paymentOptions", `input[name="paymentmethod"]`),
		scoped("paymentMethodContinue", "#payment-method-buttons-container", ".payment-method-next-step-button"),
		scoped("paymentInfoContinue", "#payment-info-buttons-container", ".payment-info-next-step-button"),
		scoped("confirm", "#confirm-order-buttons-container", ".confirm-order-next-step-button"),
		loc("orderSummary", ".order-summary-content"),
		loc("orderTotal", ".order-total"),
		loc("tax", ".tax-rate"),
		loc("shippingCost", ".shipping-cost"),
		loc("fieldErrors", ".field-validation-error"),
		loc("completeTitle", ".order-completed .title"),
		loc("orderNumber", ".order-number"),
		loc("continueAfterOrder", ".order-completed-continue-button"),
	)}

	o := p.obj
	o.MustDefineAction("checkoutAsGuest", page.ClickOn("guest"))
	o.MustDefineAction("fillBillingAddress", func(a page.Args) ([]entities.Step, error) {
		proceed, err := a.Bool("continue", true)
		if err != nil {
			return nil, err
		}
		var steps []entities.Step
		for _, f := range billingFields {
			if v, ok := a[f.arg]; ok {
				steps = append(steps, entities.Fill(entities.Named(f.locator), v))
			}
			if f.arg == "email" {
				if c, ok := a["country"]; ok {
					steps = append(steps, entities.SelectOption(entities.Named("billingCountry"), c))
				}
			}
		}
		if proceed {
			steps = append(steps, click("billingContinue"))
		}
		return steps, nil
	})
	o.MustDefineAction("selectCountry", selectArg("billingCountry", "country"))
	o.MustDefineAction("continueBilling", page.ClickOn("billingContinue"))
	// the first visible next step button, whichever address step is open
	o.MustDefineAction("nextStep", page.ClickOn("nextStep"))
	o.MustDefineAction("continueShipping", page.ClickOn("shippingContinue"))
	o.MustDefineAction("shipToSameAddress", func(page.Args) ([]entities.Step, error) {
		return []entities.Step{entities.Check(entities.Named("shipToSame"))}, nil
	})
	o.MustDefineAction("checkShippingMethod", checkAt("shippingOptions"))
	o.MustDefineAction("checkPaymentMethod", checkAt("paymentOptions"))
	o.MustDefineAction("selectShippingMethod", func(a page.Args) ([]entities.Step, error) {
		steps, err := checkAt("shippingOptions")(a)
		if err != nil {
			return nil, err
		}
		return append(steps, click("shippingMethodContinue")), nil
	})
	o.MustDefineAction("selectPaymentMethod", func(a page.Args) ([]entities.Step, error) {
		steps, err := checkAt("paymentOptions")(a)
		if err != nil {
			return nil, err
		}
		return append(steps, click("paymentMethodContinue")), nil
	})
	o.MustDefineAction("continuePaymentInfo", page.ClickOn("paymentInfoContinue"))
	o.MustDefineAction("confirmOrder", page.ClickOn("confirm"))
	o.MustDefineAction("continueShopping", page.ClickOn("continueAfterOrder"))

	o.MustDefineQuery("stepCount", page.CountOf("steps"))
	o.MustDefineQuery("isGuestVisible", page.VisibleOf("guest"))
	o.MustDefineQuery("isBillingFormVisible", page.VisibleOf("billingFirstName"))
	o.MustDefineQuery("isBillingSelectVisible", page.VisibleOf("billingSelect"))
	o.MustDefineQuery("isShipToSameVisible", page.VisibleOf("shipToSame"))
	o.MustDefineQuery("isShipToSameChecked", page.CheckedOf("shipToSame"))
	o.MustDefineQuery("isShippingMethodVisible", page.VisibleOf("shippingMethodSection"))
	o.MustDefineQuery("isPaymentMethodVisible", page.VisibleOf("paymentMethodSection"))
	o.MustDefineQuery("isPaymentInfoVisible", page.VisibleOf("paymentInfoSection"))
	o.MustDefineQuery("isConfirmVisible", page.VisibleOf("confirmSection"))
	o.MustDefineQuery("shippingMethodCount", page.CountOf("shippingOptions"))
	o.MustDefineQuery("paymentMethodCount", page.CountOf("paymentOptions"))
	o.MustDefineQuery("isShippingMethodChecked", page.CheckedAt("shippingOptions"))
	o.MustDefineQuery("isPaymentMethodChecked", page.CheckedAt("paymentOptions"))
	o.MustDefineQuery("isOrderSummaryVisible", page.VisibleOf("orderSummary"))
	o.MustDefineQuery("isOrderTotalVisible", page.VisibleOf("orderTotal"))
	o.MustDefineQuery("isTaxVisible", page.VisibleOf("tax"))
	o.MustDefineQuery("isShippingCostVisible", page.VisibleOf("shippingCost"))
	o.MustDefineQuery("orderNumber", page.TextOf("orderNumber"))
	o.MustDefineQuery("orderTotal", page.TextOf("orderTotal"))
	o.MustDefineQuery("isOrderComplete", page.VisibleOf("completeTitle"))
	o.MustDefineQuery("validationErrorCount", page.CountOf("fieldErrors"))
	o.MustDefineQuery("isValidationErrorVisible", page.VisibleOf("fieldErrors"))
	o.MustDefineQuery("countryValue", page.ValueAt("billingCountry"))
	return p
}

func checkAt(locator string) page.ActionFunc {
	return func(a page.Args) ([]entities.Step, error) {
		i, err := a.Index("index")
		if err != nil {
			return nil, err
		}
		return []entities.Step{entities.Check(entities.Named(locator).Nth(i))}, nil
	}
}

func addressArgs(addr entities.Address) page.Args {
	a := page.Args{
		"firstName":   addr.FirstName,
		"lastName":    addr.LastName,
		"country":     addr.Country,
		"city":        addr.City,
		"address1":    addr.Address1,
		"zipCode":     addr.ZipCode,
		"phoneNumber": addr.PhoneNumber,
	}
	if addr.Email != "" {
		a["email"] = addr.Email
	}
	return a
}

func (p *CheckoutPage) CheckoutAsGuest(ctx context.Context) error {
	return p.do(ctx, "checkoutAsGuest", nil)
}

// FillBillingAddress enters addr and continues to the next step
func (p *CheckoutPage) FillBillingAddress(ctx context.Context, addr entities.Address) error {
	return p.do(ctx, "fillBillingAddress", addressArgs(addr))
}

// EnterBillingAddress enters addr without continuing
func (p *CheckoutPage) EnterBillingAddress(ctx context.Context, addr entities.Address) error {
	a := addressArgs(addr)
	a["continue"] = "false"
	return p.do(ctx, "fillBillingAddress", a)
}

func (p *CheckoutPage) SelectCountry(ctx context.Context, country string) error {
	return p.do(ctx, "selectCountry", one("country", country))
}

func (p *CheckoutPage) ContinueBilling(ctx context.Context) error {
	return p.do(ctx, "continueBilling", nil)
}

func (p *CheckoutPage) NextStep(ctx context.Context) error { return p.do(ctx, "nextStep", nil) }

func (p *CheckoutPage) ContinueShipping(ctx context.Context) error {
	return p.do(ctx, "continueShipping", nil)
}

func (p *CheckoutPage) ShipToSameAddress(ctx context.Context) error {
	return p.do(ctx, "shipToSameAddress", nil)
}

// SelectShippingMethod picks option i and continues
func (p *CheckoutPage) SelectShippingMethod(ctx context.Context, i int) error {
	return p.do(ctx, "selectShippingMethod", at(i))
}

// SelectPaymentMethod picks option i and continues
func (p *CheckoutPage) SelectPaymentMethod(ctx context.Context, i int) error {
	return p.do(ctx, "selectPaymentMethod", at(i))
}

func (p *CheckoutPage) CheckShippingMethod(ctx context.Context, i int) error {
	return p.do(ctx, "checkShippingMethod", at(i))
}

func (p *CheckoutPage) CheckPaymentMethod(ctx context.Context, i int) error {
	return p.do(ctx, "checkPaymentMethod", at(i))
}

func (p *CheckoutPage) ContinuePaymentInfo(ctx context.Context) error {
	return p.do(ctx, "continuePaymentInfo", nil)
}

func (p *CheckoutPage) ConfirmOrder(ctx context.Context) error {
	return p.do(ctx, "confirmOrder", nil)
}

func (p *CheckoutPage) ContinueShopping(ctx context.Context) error {
	return p.do(ctx, "continueShopping", nil)
}

func (p *CheckoutPage) StepCount(ctx context.Context) (int, error) {
	return p.count(ctx, "stepCount")
}

func (p *CheckoutPage) IsGuestVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isGuestVisible", nil)
}

func (p *CheckoutPage) IsBillingFormVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isBillingFormVisible", nil)
}

func (p *CheckoutPage) IsBillingSelectVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isBillingSelectVisible", nil)
}

func (p *CheckoutPage) IsShipToSameVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isShipToSameVisible", nil)
}

func (p *CheckoutPage) IsShipToSameChecked(ctx context.Context) (bool, error) {
	return p.is(ctx, "isShipToSameChecked", nil)
}

func (p *CheckoutPage) IsShippingMethodVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isShippingMethodVisible", nil)
}

func (p *CheckoutPage) IsPaymentMethodVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isPaymentMethodVisible", nil)
}

func (p *CheckoutPage) IsPaymentInfoVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isPaymentInfoVisible", nil)
}

func (p *CheckoutPage) IsConfirmVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isConfirmVisible", nil)
}

func (p *CheckoutPage) ShippingMethodCount(ctx context.Context) (int, error) {
	return p.count(ctx, "shippingMethodCount")
}

func (p *CheckoutPage) PaymentMethodCount(ctx context.Context) (int, error) {
	return p.count(ctx, "paymentMethodCount")
}

func (p *CheckoutPage) IsShippingMethodChecked(ctx context.Context, i int) (bool, error) {
	return p.is(ctx, "isShippingMethodChecked", at(i))
}

func (p *CheckoutPage) IsPaymentMethodChecked(ctx context.Context, i int) (bool, error) {
	return p.is(ctx, "isPaymentMethodChecked", at(i))
}

func (p *CheckoutPage) IsOrderSummaryVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isOrderSummaryVisible", nil)
}

func (p *CheckoutPage) IsOrderTotalVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isOrderTotalVisible", nil)
}

func (p *CheckoutPage) IsTaxVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isTaxVisible", nil)
}

func (p *CheckoutPage) IsShippingCostVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isShippingCostVisible", nil)
}

func (p *CheckoutPage) OrderNumber(ctx context.Context) (string, error) {
	return p.str(ctx, "orderNumber", nil)
}

func (p *CheckoutPage) OrderTotal(ctx context.Context) (string, error) {
	return p.str(ctx, "orderTotal", nil)
}

func (p *CheckoutPage) IsOrderComplete(ctx context.Context) (bool, error) {
	return p.is(ctx, "isOrderComplete", nil)
}

func (p *CheckoutPage) ValidationErrorCount(ctx context.Context) (int, error) {
	return p.count(ctx, "validationErrorCount")
}

func (p *CheckoutPage) IsValidationErrorVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isValidationErrorVisible", nil)
}

func (p *CheckoutPage) CountryValue(ctx context.Context) (string, error) {
	return p.str(ctx, "countryValue", nil)
}

