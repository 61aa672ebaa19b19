package pages

import (
	"context"
	"strconv"

	"storefront_e2e/application/page"
	"storefront_e2e/domain/entities"
)

type CartPage struct {
	base
}

func NewCartPage(env Env) *CartPage {
	p := &CartPage{base: newBase("cart", env,
		loc("items", ".cart-item-row"),
		loc("productName", ".product-name"),
		loc("productPrice", ".product-unit-price"),
		loc("quantity", ".qty-input"),
		loc("update", ".update-cart-button"),
		loc("removeCheckbox", `.remove-from-cart input[type="checkbox"]`),
		loc("continueShopping", ".continue-shopping-button"),
		loc("checkout", "#checkout"),
		loc("terms", "#termsofservice"),
		loc("termsWarning", ".terms-of-service-warning-box"),
		loc("subtotal", ".cart-subtotal"),
		loc("tax", ".cart-tax"),
		loc("total", ".cart-total"),
		loc("empty", ".no-data, .order-summary-content .no-data, .cart .no-data"),
		loc("giftWrapping", "#checkout_attribute_1"),
		loc("discountBox", "#discountcouponcode"),
		loc("applyDiscount", ".apply-discount-coupon-code-button"),
		loc("giftCardBox", "#giftcardcouponcode"),
		loc("applyGiftCard", ".apply-gift-card-coupon-code-button"),
		loc("couponMessage", ".message-error, .message-success"),
	)}

	o := p.obj
	p.gotoAction("/cart")
	o.MustDefineAction("update", page.ClickOn("update"))
	o.MustDefineAction("updateQuantity", func(a page.Args) ([]entities.Step, error) {
		i, err := a.Index("index")
		if err != nil {
			return nil, err
		}
		qty, err := a.Require("quantity")
		if err != nil {
			return nil, err
		}
		q := entities.Named("quantity").Nth(i)
		return []entities.Step{entities.Clear(q), entities.Fill(q, qty), click("update")}, nil
	})
	o.MustDefineAction("removeItem", func(a page.Args) ([]entities.Step, error) {
		i, err := a.Index("index")
		if err != nil {
			return nil, err
		}
		return []entities.Step{
			entities.Check(entities.Named("removeCheckbox").Nth(i)),
			click("update"),
		}, nil
	})
	o.MustDefineAction("acceptTerms", func(page.Args) ([]entities.Step, error) {
		return []entities.Step{entities.Check(entities.Named("terms"))}, nil
	})
	o.MustDefineAction("proceedToCheckout", func(page.Args) ([]entities.Step, error) {
		return []entities.Step{entities.Check(entities.Named("terms")), click("checkout")}, nil
	})
	// checkout without accepting the terms first
	o.MustDefineAction("checkout", page.ClickOn("checkout"))
	o.MustDefineAction("continueShopping", page.ClickOn("continueShopping"))
	o.MustDefineAction("applyDiscountCode", func(a page.Args) ([]entities.Step, error) {
		s, err := fill("discountBox", a, "code")
		if err != nil {
			return nil, err
		}
		return []entities.Step{s, click("applyDiscount")}, nil
	})
	o.MustDefineAction("applyGiftCard", func(a page.Args) ([]entities.Step, error) {
		s, err := fill("giftCardBox", a, "code")
		if err != nil {
			return nil, err
		}
		return []entities.Step{s, click("applyGiftCard")}, nil
	})
	o.MustDefineAction("selectGiftWrapping", selectArg("giftWrapping", "option"))

	o.MustDefineQuery("itemsCount", page.CountOf("items"))
	o.MustDefineQuery("subtotal", page.TextOf("subtotal"))
	o.MustDefineQuery("total", page.TextOf("total"))
	o.MustDefineQuery("isCartEmpty", page.VisibleOf("empty"))
	o.MustDefineQuery("productName", page.TextAt("productName"))
	o.MustDefineQuery("quantity", page.ValueAt("quantity"))
	o.MustDefineQuery("isTermsWarningVisible", page.VisibleOf("termsWarning"))
	o.MustDefineQuery("isCouponMessageVisible", page.VisibleOf("couponMessage"))
	o.MustDefineQuery("isSubtotalVisible", page.VisibleOf("subtotal"))
	o.MustDefineQuery("isTotalVisible", page.VisibleOf("total"))
	o.MustDefineQuery("isGiftWrappingVisible", page.VisibleOf("giftWrapping"))
	o.MustDefineQuery("isDiscountBoxVisible", page.VisibleOf("discountBox"))
	o.MustDefineQuery("isGiftCardBoxVisible", page.VisibleOf("giftCardBox"))
	o.MustDefineQuery("isTermsChecked", page.CheckedOf("terms"))
	o.MustDefineQuery("isCheckoutVisible", page.VisibleOf("checkout"))
	return p
}

func (p *CartPage) Goto(ctx context.Context) error { return p.do(ctx, "goto", nil) }

// UpdateQuantity replaces the quantity of row i and refreshes the cart
func (p *CartPage) UpdateQuantity(ctx context.Context, i, quantity int) error {
	return p.do(ctx, "updateQuantity", page.Args{
		"index":    strconv.Itoa(i),
		"quantity": strconv.Itoa(quantity),
	})
}

// RemoveItem marks row i for removal and refreshes the cart
func (p *CartPage) RemoveItem(ctx context.Context, i int) error {
	return p.do(ctx, "removeItem", at(i))
}

func (p *CartPage) Update(ctx context.Context) error { return p.do(ctx, "update", nil) }

func (p *CartPage) AcceptTerms(ctx context.Context) error { return p.do(ctx, "acceptTerms", nil) }

// ProceedToCheckout accepts the terms of service and starts checkout
func (p *CartPage) ProceedToCheckout(ctx context.Context) error {
	return p.do(ctx, "proceedToCheckout", nil)
}

// Checkout presses checkout as is, leaving the terms untouched
func (p *CartPage) Checkout(ctx context.Context) error { return p.do(ctx, "checkout", nil) }

func (p *CartPage) ContinueShopping(ctx context.Context) error {
	return p.do(ctx, "continueShopping", nil)
}

func (p *CartPage) ApplyDiscountCode(ctx context.Context, code string) error {
	return p.do(ctx, "applyDiscountCode", one("code", code))
}

func (p *CartPage) ApplyGiftCard(ctx context.Context, code string) error {
	return p.do(ctx, "applyGiftCard", one("code", code))
}

func (p *CartPage) SelectGiftWrapping(ctx context.Context, option string) error {
	return p.do(ctx, "selectGiftWrapping", one("option", option))
}

func (p *CartPage) ItemsCount(ctx context.Context) (int, error) {
	return p.count(ctx, "itemsCount")
}

func (p *CartPage) Subtotal(ctx context.Context) (string, error) {
	return p.str(ctx, "subtotal", nil)
}

func (p *CartPage) Total(ctx context.Context) (string, error) { return p.str(ctx, "total", nil) }

// IsCartEmpty reports whether the empty cart message is shown
func (p *CartPage) IsCartEmpty(ctx context.Context) (bool, error) {
	return p.is(ctx, "isCartEmpty", nil)
}

func (p *CartPage) ProductName(ctx context.Context, i int) (string, error) {
	return p.str(ctx, "productName", at(i))
}

func (p *CartPage) Quantity(ctx context.Context, i int) (string, error) {
	return p.str(ctx, "quantity", at(i))
}

func (p *CartPage) IsTermsWarningVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isTermsWarningVisible", nil)
}

func (p *CartPage) IsCouponMessageVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isCouponMessageVisible", nil)
}

func (p *CartPage) IsSubtotalVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isSubtotalVisible", nil)
}

func (p *CartPage) IsTotalVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isTotalVisible", nil)
}

func (p *CartPage) IsGiftWrappingVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isGiftWrappingVisible", nil)
}

func (p *CartPage) IsDiscountBoxVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isDiscountBoxVisible", nil)
}

func (p *CartPage) IsGiftCardBoxVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isGiftCardBoxVisible", nil)
}

func (p *CartPage) IsTermsChecked(ctx context.Context) (bool, error) {
	return p.is(ctx, "isTermsChecked", nil)
}

func (p *CartPage) IsCheckoutVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isCheckoutVisible", nil)
}
