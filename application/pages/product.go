package pages

import (
	"context"
	"strconv"

	"storefront_e2e/application/page"
	"storefront_e2e/domain/entities"
)

type ProductPage struct {
	base
}

func NewProductPage(env Env) *ProductPage {
	p := &ProductPage{base: newBase("product", env,
		loc("title", ".product-name h1"),
		loc("price", ".price-value-27, .price .actual-price, .product-price .price-value"),
		loc("addToCart", `#add-to-cart-button-27, .add-to-cart-button, button:has-text("Add to cart")`),
		loc("quantity", `#product_enteredQuantity_27, .qty-input, input[name="addtocart_27.EnteredQuantity"]`),
		loc("images", ".picture img"),
		loc("shortDescription", ".short-description"),
		loc("fullDescription", ".full-description"),
		loc("specs", ".product-specs"),
		loc("addToWishlist", `#add-to-wishlist-button-27, .add-to-wishlist-button, button:has-text("Add to wishlist")`),
		loc("addToCompare", `.add-to-compare-list-button, button:has-text("Add to compare list")`),
		loc("emailFriend", ".email-a-friend-button"),
		loc("notification", "#bar-notification"),
		loc("notificationText", "#bar-notification .content"),
		scoped("closeNotification", "#bar-notification", ".close"),
		loc("reviewsTab", "text=Reviews"),
		loc("writeReview", ".write-product-review-button"),
	)}

	o := p.obj
	o.MustDefineAction("addToCart", func(a page.Args) ([]entities.Step, error) {
		qty, err := a.Int("quantity", 1)
		if err != nil {
			return nil, err
		}
		var steps []entities.Step
		if qty > 1 {
			q := entities.Named("quantity").First()
			steps = append(steps, entities.Clear(q), entities.Fill(q, strconv.Itoa(qty)))
		}
		return append(steps, click("addToCart")), nil
	})
	o.MustDefineAction("addToWishlist", page.ClickOn("addToWishlist"))
	o.MustDefineAction("addToCompare", page.ClickOn("addToCompare"))
	o.MustDefineAction("emailToFriend", page.ClickOn("emailFriend"))
	o.MustDefineAction("closeNotification", page.ClickOn("closeNotification"))
	o.MustDefineAction("openReviews", page.ClickOn("reviewsTab"))
	o.MustDefineAction("writeReview", page.ClickOn("writeReview"))

	o.MustDefineQuery("title", page.TextOf("title"))
	o.MustDefineQuery("price", page.TextOf("price"))
	o.MustDefineQuery("isTitleVisible", page.VisibleOf("title"))
	o.MustDefineQuery("isPriceVisible", page.VisibleOf("price"))
	o.MustDefineQuery("isAddToCartVisible", page.VisibleOf("addToCart"))
	o.MustDefineQuery("isQuantityVisible", page.VisibleOf("quantity"))
	o.MustDefineQuery("isNotificationVisible", page.VisibleOf("notification"))
	o.MustDefineQuery("notificationText", page.TextOf("notificationText"))
	o.MustDefineQuery("isSpecsVisible", page.VisibleOf("specs"))
	o.MustDefineQuery("isWriteReviewVisible", page.VisibleOf("writeReview"))
	o.MustDefineQuery("isImageVisible", page.VisibleOf("images"))
	o.MustDefineQuery("isDescriptionVisible", page.VisibleOf("shortDescription"))
	o.MustDefineQuery("isFullDescriptionVisible", page.VisibleOf("fullDescription"))
	o.MustDefineQuery("isWishlistVisible", page.VisibleOf("addToWishlist"))
	o.MustDefineQuery("isCompareVisible", page.VisibleOf("addToCompare"))
	o.MustDefineQuery("isEmailFriendVisible", page.VisibleOf("emailFriend"))
	o.MustDefineQuery("isReviewsTabVisible", page.VisibleOf("reviewsTab"))
	o.MustDefineQuery("quantityValue", page.ValueAt("quantity"))
	return p
}

// AddToCart sets the quantity when it is above one and presses add to cart
func (p *ProductPage) AddToCart(ctx context.Context, quantity int) error {
	return p.do(ctx, "addToCart", one("quantity", strconv.Itoa(quantity)))
}

func (p *ProductPage) AddToWishlist(ctx context.Context) error {
	return p.do(ctx, "addToWishlist", nil)
}

func (p *ProductPage) AddToCompare(ctx context.Context) error {
	return p.do(ctx, "addToCompare", nil)
}

func (p *ProductPage) EmailToFriend(ctx context.Context) error {
	return p.do(ctx, "emailToFriend", nil)
}

func (p *ProductPage) CloseNotification(ctx context.Context) error {
	return p.do(ctx, "closeNotification", nil)
}

func (p *ProductPage) OpenReviews(ctx context.Context) error { return p.do(ctx, "openReviews", nil) }

func (p *ProductPage) WriteReview(ctx context.Context) error { return p.do(ctx, "writeReview", nil) }

func (p *ProductPage) Title(ctx context.Context) (string, error) { return p.str(ctx, "title", nil) }

func (p *ProductPage) Price(ctx context.Context) (string, error) { return p.str(ctx, "price", nil) }

func (p *ProductPage) IsTitleVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isTitleVisible", nil)
}

func (p *ProductPage) IsPriceVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isPriceVisible", nil)
}

func (p *ProductPage) IsAddToCartVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isAddToCartVisible", nil)
}

func (p *ProductPage) IsQuantityVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isQuantityVisible", nil)
}

func (p *ProductPage) IsNotificationVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isNotificationVisible", nil)
}

func (p *ProductPage) NotificationText(ctx context.Context) (string, error) {
	return p.str(ctx, "notificationText", nil)
}

func (p *ProductPage) IsSpecsVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isSpecsVisible", nil)
}

func (p *ProductPage) IsWriteReviewVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isWriteReviewVisible", nil)
}

func (p *ProductPage) IsImageVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isImageVisible", nil)
}

func (p *ProductPage) IsDescriptionVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isDescriptionVisible", nil)
}

func (p *ProductPage) IsWishlistVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isWishlistVisible", nil)
}

func (p *ProductPage) IsCompareVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isCompareVisible", nil)
}

func (p *ProductPage) IsEmailFriendVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isEmailFriendVisible", nil)
}

func (p *ProductPage) IsReviewsTabVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isReviewsTabVisible", nil)
}

func (p *ProductPage) QuantityValue(ctx context.Context) (string, error) {
	return p.str(ctx, "quantityValue", nil)
}
