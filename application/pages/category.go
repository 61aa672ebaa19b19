package pages

import (
	"context"

	"storefront_e2e/application/facade"
	"storefront_e2e/application/page"
	"storefront_e2e/domain/entities"
)

// CategoryPage is a product listing reached from the top menu
type CategoryPage struct {
	base
}

func NewCategoryPage(env Env) *CategoryPage {
	p := &CategoryPage{base: newBase("category", env,
		loc("title", ".category-title h1, .page-title h1"),
		loc("products", ".product-item"),
		loc("productTitles", ".product-title a"),
		loc("productPrices", ".price"),
		loc("addToCart", ".add-to-cart-button, .product-box-add-to-cart-button"),
		loc("addToWishlist", ".add-to-wishlist-button"),
		loc("addToCompare", ".add-to-compare-list-button"),
		loc("sortBy", "#products-orderby"),
		loc("pageSize", "#products-pagesize"),
		loc("gridView", "#products-viewmode .grid"),
		loc("listView", "#products-viewmode .list"),
		loc("breadcrumb", ".breadcrumb"),
		scoped("breadcrumbLinks", ".breadcrumb", "a"),
		loc("pager", ".pager"),
		scoped("nextPage", ".pager", ".next-page"),
		scoped("previousPage", ".pager", ".previous-page"),
		loc("description", ".category-description"),
		loc("subcategories", ".sub-category-item"),
		loc("noData", ".no-data"),
		loc("notification", "#bar-notification"),
		loc("priceFilter", ".price-range-filter"),
		loc("manufacturerFilter", ".manufacturer-filter"),
	)}

	o := p.obj
	o.MustDefineAction("clickProduct", page.ClickAt("productTitles"))
	o.MustDefineAction("addProductToCart", page.ClickAt("addToCart"))
	o.MustDefineAction("addProductToWishlist", page.ClickAt("addToWishlist"))
	o.MustDefineAction("addProductToCompare", page.ClickAt("addToCompare"))
	o.MustDefineAction("sortBy", selectArg("sortBy", "option"))
	o.MustDefineAction("displayPerPage", selectArg("pageSize", "option"))
	o.MustDefineAction("listView", page.ClickOn("listView"))
	o.MustDefineAction("gridView", page.ClickOn("gridView"))
	o.MustDefineAction("clickSubcategory", page.ClickAt("subcategories"))
	o.MustDefineAction("nextPage", page.ClickOn("nextPage"))
	o.MustDefineAction("previousPage", page.ClickOn("previousPage"))

	o.MustDefineQuery("title", page.TextOf("title"))
	o.MustDefineQuery("productCount", page.CountOf("products"))
	o.MustDefineQuery("productTitle", page.TextAt("productTitles"))
	o.MustDefineQuery("productPrice", page.TextAt("productPrices"))
	o.MustDefineQuery("subcategoryCount", page.CountOf("subcategories"))
	o.MustDefineQuery("breadcrumb", page.TextOf("breadcrumb"))
	o.MustDefineQuery("breadcrumbLinkCount", page.CountOf("breadcrumbLinks"))
	o.MustDefineQuery("isBreadcrumbVisible", page.VisibleOf("breadcrumb"))
	o.MustDefineQuery("isPaginationVisible", page.VisibleOf("pager"))
	o.MustDefineQuery("isDescriptionVisible", page.VisibleOf("description"))
	o.MustDefineQuery("isNoDataVisible", page.VisibleOf("noData"))
	o.MustDefineQuery("isNotificationVisible", page.VisibleOf("notification"))
	o.MustDefineQuery("isSortVisible", page.VisibleOf("sortBy"))
	o.MustDefineQuery("isPageSizeVisible", page.VisibleOf("pageSize"))
	o.MustDefineQuery("isListViewVisible", page.VisibleOf("listView"))
	o.MustDefineQuery("isFilterVisible", func(ctx context.Context, r facade.Reader, _ page.Args) (any, error) {
		if ok, err := r.IsVisible(ctx, entities.Named("priceFilter").First()); err != nil || ok {
			return ok, err
		}
		return r.IsVisible(ctx, entities.Named("manufacturerFilter").First())
	})
	o.MustDefineQuery("sortValue", page.ValueAt("sortBy"))
	return p
}

// selectArg selects the option named by key in a dropdown
func selectArg(locator, key string) page.ActionFunc {
	return func(a page.Args) ([]entities.Step, error) {
		v, err := a.Require(key)
		if err != nil {
			return nil, err
		}
		return []entities.Step{entities.SelectOption(entities.Named(locator).First(), v)}, nil
	}
}

func (p *CategoryPage) ClickProduct(ctx context.Context, i int) error {
	return p.do(ctx, "clickProduct", at(i))
}

func (p *CategoryPage) AddProductToCart(ctx context.Context, i int) error {
	return p.do(ctx, "addProductToCart", at(i))
}

func (p *CategoryPage) AddProductToWishlist(ctx context.Context, i int) error {
	return p.do(ctx, "addProductToWishlist", at(i))
}

func (p *CategoryPage) AddProductToCompare(ctx context.Context, i int) error {
	return p.do(ctx, "addProductToCompare", at(i))
}

func (p *CategoryPage) SortBy(ctx context.Context, option string) error {
	return p.do(ctx, "sortBy", one("option", option))
}

func (p *CategoryPage) DisplayPerPage(ctx context.Context, option string) error {
	return p.do(ctx, "displayPerPage", one("option", option))
}

func (p *CategoryPage) ListView(ctx context.Context) error { return p.do(ctx, "listView", nil) }

func (p *CategoryPage) GridView(ctx context.Context) error { return p.do(ctx, "gridView", nil) }

func (p *CategoryPage) ClickSubcategory(ctx context.Context, i int) error {
	return p.do(ctx, "clickSubcategory", at(i))
}

func (p *CategoryPage) NextPage(ctx context.Context) error { return p.do(ctx, "nextPage", nil) }

func (p *CategoryPage) PreviousPage(ctx context.Context) error {
	return p.do(ctx, "previousPage", nil)
}

func (p *CategoryPage) Title(ctx context.Context) (string, error) { return p.str(ctx, "title", nil) }

func (p *CategoryPage) ProductCount(ctx context.Context) (int, error) {
	return p.count(ctx, "productCount")
}

func (p *CategoryPage) ProductTitle(ctx context.Context, i int) (string, error) {
	return p.str(ctx, "productTitle", at(i))
}

func (p *CategoryPage) ProductPrice(ctx context.Context, i int) (string, error) {
	return p.str(ctx, "productPrice", at(i))
}

func (p *CategoryPage) SubcategoryCount(ctx context.Context) (int, error) {
	return p.count(ctx, "subcategoryCount")
}

func (p *CategoryPage) Breadcrumb(ctx context.Context) (string, error) {
	return p.str(ctx, "breadcrumb", nil)
}

func (p *CategoryPage) BreadcrumbLinkCount(ctx context.Context) (int, error) {
	return p.count(ctx, "breadcrumbLinkCount")
}

func (p *CategoryPage) IsBreadcrumbVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isBreadcrumbVisible", nil)
}

func (p *CategoryPage) IsPaginationVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isPaginationVisible", nil)
}

func (p *CategoryPage) IsDescriptionVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isDescriptionVisible", nil)
}

func (p *CategoryPage) IsNoDataVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isNoDataVisible", nil)
}

func (p *CategoryPage) IsNotificationVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isNotificationVisible", nil)
}

func (p *CategoryPage) IsSortVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isSortVisible", nil)
}

func (p *CategoryPage) IsPageSizeVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isPageSizeVisible", nil)
}

func (p *CategoryPage) IsListViewVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isListViewVisible", nil)
}

// IsFilterVisible reports whether any sidebar filter is shown
func (p *CategoryPage) IsFilterVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isFilterVisible", nil)
}

func (p *CategoryPage) SortValue(ctx context.Context) (string, error) {
	return p.str(ctx, "sortValue", nil)
}
