package pages

import (
	"context"

	"storefront_e2e/application/page"
)

// SearchPage is the result listing shown after a header search
type SearchPage struct {
	base
}

func NewSearchPage(env Env) *SearchPage {
	p := &SearchPage{base: newBase("search", env,
		loc("results", ".search-results"),
		loc("items", ".product-item"),
		loc("titles", ".product-title a"),
		loc("noResult", ".no-result"),
		loc("info", ".search-results-info, .pager-info"),
		loc("sortBy", "#products-orderby"),
		loc("pager", ".pager"),
		scoped("nextPage", ".pager", ".next-page"),
		loc("suggestions", ".ui-autocomplete, .search-suggestions"),
		loc("categoryFilter", ".category-filter"),
		loc("priceFilter", ".price-range-filter"),
		loc("manufacturerFilter", ".manufacturer-filter"),
		loc("warning", ".warning"),
	)}

	o := p.obj
	p.gotoAction("/search")
	o.MustDefineAction("openResult", page.ClickAt("titles"))
	o.MustDefineAction("sortBy", selectArg("sortBy", "option"))
	o.MustDefineAction("nextPage", page.ClickOn("nextPage"))

	o.MustDefineQuery("isResultsVisible", page.VisibleOf("results"))
	o.MustDefineQuery("resultCount", page.CountOf("titles"))
	o.MustDefineQuery("itemCount", page.CountOf("items"))
	o.MustDefineQuery("resultTitle", page.TextAt("titles"))
	o.MustDefineQuery("isNoResultVisible", page.VisibleOf("noResult"))
	o.MustDefineQuery("noResultMessage", page.TextOf("noResult"))
	o.MustDefineQuery("isResultsInfoVisible", page.VisibleOf("info"))
	o.MustDefineQuery("isSortVisible", page.VisibleOf("sortBy"))
	o.MustDefineQuery("isPaginationVisible", page.VisibleOf("pager"))
	o.MustDefineQuery("isSuggestionsVisible", page.VisibleOf("suggestions"))
	o.MustDefineQuery("isCategoryFilterVisible", page.VisibleOf("categoryFilter"))
	o.MustDefineQuery("isPriceFilterVisible", page.VisibleOf("priceFilter"))
	o.MustDefineQuery("isManufacturerFilterVisible", page.VisibleOf("manufacturerFilter"))
	o.MustDefineQuery("isWarningVisible", page.VisibleOf("warning"))
	return p
}

func (p *SearchPage) Goto(ctx context.Context) error { return p.do(ctx, "goto", nil) }

func (p *SearchPage) OpenResult(ctx context.Context, i int) error {
	return p.do(ctx, "openResult", at(i))
}

func (p *SearchPage) SortBy(ctx context.Context, option string) error {
	return p.do(ctx, "sortBy", one("option", option))
}

func (p *SearchPage) NextPage(ctx context.Context) error { return p.do(ctx, "nextPage", nil) }

func (p *SearchPage) IsResultsVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isResultsVisible", nil)
}

// ResultCount counts result title links
func (p *SearchPage) ResultCount(ctx context.Context) (int, error) {
	return p.count(ctx, "resultCount")
}

func (p *SearchPage) ItemCount(ctx context.Context) (int, error) {
	return p.count(ctx, "itemCount")
}

func (p *SearchPage) ResultTitle(ctx context.Context, i int) (string, error) {
	return p.str(ctx, "resultTitle", at(i))
}

func (p *SearchPage) IsNoResultVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isNoResultVisible", nil)
}

func (p *SearchPage) NoResultMessage(ctx context.Context) (string, error) {
	return p.str(ctx, "noResultMessage", nil)
}

func (p *SearchPage) IsResultsInfoVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isResultsInfoVisible", nil)
}

func (p *SearchPage) IsSortVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isSortVisible", nil)
}

func (p *SearchPage) IsPaginationVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isPaginationVisible", nil)
}

func (p *SearchPage) IsSuggestionsVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isSuggestionsVisible", nil)
}

func (p *SearchPage) IsCategoryFilterVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isCategoryFilterVisible", nil)
}

func (p *SearchPage) IsPriceFilterVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isPriceFilterVisible", nil)
}

func (p *SearchPage) IsManufacturerFilterVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isManufacturerFilterVisible", nil)
}

func (p *SearchPage) IsWarningVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isWarningVisible", nil)
}
