package suites

import (
	"strings"

	"storefront_e2e/application/runner"
)

// searchFor opens the home page and submits term
func searchFor(term func(sc *runner.Context) string) runner.Hook {
	return func(sc *runner.Context) error {
		if err := openHome(sc); err != nil {
			return err
		}
		return site(sc).Home().Search(sc.Context(), term(sc))
	}
}

func validTerm(sc *runner.Context) string {
	return pick(sc.Fixtures().SearchTerms.Valid, "laptop")
}

// answered expects the search page to show either hits or the no result note
func answered(sc *runner.Context) error {
	s := site(sc).Search()
	return sc.ExpectTrue("results or no result note shown", either(s.IsResultsVisible, s.IsNoResultVisible))
}

// searchWidget expects an optional part of the results page after searching
// for the first valid term
func searchWidget(name, what string, ok func(sc *runner.Context) probe[bool]) runner.Scenario {
	return runner.Scenario{
		Name:  name,
		Tags:  []string{"search"},
		Setup: searchFor(validTerm),
		Body: []runner.BodyStep{
			runner.Step("look for "+what, func(sc *runner.Context) error {
				return visible(sc, what, ok(sc))
			}),
		},
	}
}

func Search() runner.Suite {
	return runner.Suite{Name: "search", Scenarios: []runner.Scenario{
		{
			Name:  "search box is offered",
			Tags:  []string{"search", "smoke"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("expect search box and button", func(sc *runner.Context) error {
					h := site(sc).Home()
					if err := sc.ExpectTrue("search box shown", h.IsSearchBoxVisible); err != nil {
						return err
					}
					return sc.ExpectTrue("search button shown", h.IsSearchButtonVisible)
				}),
			},
		},
		{
			Name:  "valid term finds products",
			Tags:  []string{"search", "smoke"},
			Setup: searchFor(validTerm),
			Body: []runner.BodyStep{
				runner.Step("expect results", func(sc *runner.Context) error {
					if err := sc.ExpectURLContains("search"); err != nil {
						return err
					}
					s := site(sc).Search()
					if err := sc.ExpectTrue("results shown", s.IsResultsVisible); err != nil {
						return err
					}
					return sc.ExpectAtLeast("results", 1, s.ResultCount)
				}),
			},
		},
		{
			Name: "unknown term finds nothing",
			Tags: []string{"search", "smoke"},
			Setup: searchFor(func(sc *runner.Context) string {
				return pick(sc.Fixtures().SearchTerms.Invalid, "xyz123nonexistent")
			}),
			Body: []runner.BodyStep{
				runner.Step("expect no result note", func(sc *runner.Context) error {
					s := site(sc).Search()
					if err := sc.ExpectTrue("no result note shown", s.IsNoResultVisible); err != nil {
						return err
					}
					return sc.ExpectContainsFold("no result note", "no products", s.NoResultMessage)
				}),
			},
		},
	}}
}

func SearchEnhanced() runner.Suite {
	return runner.Suite{Name: "search-enhanced", Scenarios: []runner.Scenario{
		{
			Name:  "several valid terms find products",
			Tags:  []string{"search"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("search each term", func(sc *runner.Context) error {
					terms := sc.Fixtures().SearchTerms.Valid
					h, s, ctx := site(sc).Home(), site(sc).Search(), sc.Context()
					for _, term := range terms[:min(len(terms), 3)] {
						if err := h.Search(ctx, term); err != nil {
							return err
						}
						if err := sc.ExpectAtLeast(term+" results", 1, s.ResultCount); err != nil {
							return err
						}
					}
					return nil
				}),
			},
		},
		{
			Name: "search ignores case",
			Tags: []string{"search"},
			Setup: searchFor(func(sc *runner.Context) string {
				return strings.ToUpper(validTerm(sc))
			}),
			Body: []runner.BodyStep{
				runner.Step("expect results", func(sc *runner.Context) error {
					return sc.ExpectAtLeast("results", 1, site(sc).Search().ResultCount)
				}),
			},
		},
		{
			Name:  "special characters are handled",
			Tags:  []string{"search", "security"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("search each term", func(sc *runner.Context) error {
					h := site(sc).Home()
					for _, term := range sc.Fixtures().SearchTerms.Special {
						if err := h.Search(sc.Context(), term); err != nil {
							return err
						}
						if err := answered(sc); err != nil {
							return err
						}
					}
					return nil
				}),
			},
		},
		{
			Name: "long term is handled",
			Tags: []string{"search", "security"},
			Setup: searchFor(func(*runner.Context) string {
				return strings.Repeat("a", 100)
			}),
			Body: []runner.BodyStep{
				runner.Step("expect an answer", answered),
			},
		},
		{
			Name:  "numeric terms are handled",
			Tags:  []string{"search"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("search each term", func(sc *runner.Context) error {
					h := site(sc).Home()
					for _, term := range sc.Fixtures().SearchTerms.Numeric {
						if err := h.Search(sc.Context(), term); err != nil {
							return err
						}
						if err := sc.ExpectURLContains("search"); err != nil {
							return err
						}
					}
					return nil
				}),
			},
		},
		{
			Name:  "results report how many were found",
			Tags:  []string{"search"},
			Setup: searchFor(validTerm),
			Body: []runner.BodyStep{
				runner.Step("expect results info", func(sc *runner.Context) error {
					s := site(sc).Search()
					if err := sc.ExpectAtLeast("results", 1, s.ItemCount); err != nil {
						return err
					}
					return visible(sc, "results info", s.IsResultsInfoVisible)
				}),
			},
		},
		{
			Name:  "term stays in the search box",
			Tags:  []string{"search"},
			Setup: searchFor(validTerm),
			Body: []runner.BodyStep{
				runner.Step("expect term in box", func(sc *runner.Context) error {
					return sc.ExpectEqual("search box", validTerm(sc), site(sc).Home().SearchBoxValue)
				}),
			},
		},
		{
			Name:  "empty search stays on the search page",
			Tags:  []string{"search"},
			Setup: searchFor(func(sc *runner.Context) string { return sc.Fixtures().SearchTerms.Empty }),
			Body: []runner.BodyStep{
				runner.Step("expect search url", func(sc *runner.Context) error {
					return sc.ExpectURLContains("search")
				}),
			},
		},
		{
			Name:  "search works from the login page",
			Tags:  []string{"search"},
			Setup: openLogin,
			Body: []runner.BodyStep{
				runner.Step("search", func(sc *runner.Context) error {
					return site(sc).Home().Search(sc.Context(), validTerm(sc))
				}),
				runner.Step("expect results", func(sc *runner.Context) error {
					if err := sc.ExpectURLContains("search"); err != nil {
						return err
					}
					return sc.ExpectAtLeast("results", 1, site(sc).Search().ResultCount)
				}),
			},
		},
		{
			Name:  "search works from the registration page",
			Tags:  []string{"search"},
			Setup: openRegister,
			Body: []runner.BodyStep{
				runner.Step("search", func(sc *runner.Context) error {
					return site(sc).Home().Search(sc.Context(), validTerm(sc))
				}),
				runner.Step("expect search url", func(sc *runner.Context) error {
					return sc.ExpectURLContains("search")
				}),
			},
		},
		{
			Name:  "results can be sorted by price",
			Tags:  []string{"search"},
			Setup: searchFor(validTerm),
			Body: []runner.BodyStep{
				runner.Step("sort", func(sc *runner.Context) error {
					s := site(sc).Search()
					if err := visible(sc, "sort dropdown", s.IsSortVisible); err != nil {
						return err
					}
					option, ok := sc.Fixtures().SortOptions["priceAsc"]
					if !ok {
						option = "10"
					}
					return s.SortBy(sc.Context(), option)
				}),
				runner.Step("expect products", func(sc *runner.Context) error {
					return sc.ExpectAtLeast("products", 1, site(sc).Search().ItemCount)
				}),
			},
		},
		searchWidget("results can be filtered", "search filters", func(sc *runner.Context) probe[bool] {
			s := site(sc).Search()
			return either(s.IsPriceFilterVisible, s.IsManufacturerFilterVisible)
		}),
		{
			Name:  "results can be paged",
			Tags:  []string{"search"},
			Setup: searchFor(validTerm),
			Body: []runner.BodyStep{
				runner.Step("go to next page", func(sc *runner.Context) error {
					s := site(sc).Search()
					if err := visible(sc, "pager", s.IsPaginationVisible); err != nil {
						return err
					}
					if err := s.NextPage(sc.Context()); err != nil {
						return err
					}
					return sc.ExpectAtLeast("products", 1, s.ItemCount)
				}),
			},
		},
		searchWidget("results can be narrowed by category", "category filter", func(sc *runner.Context) probe[bool] {
			return site(sc).Search().IsCategoryFilterVisible
		}),
		{
			Name:  "typing suggests products",
			Tags:  []string{"search"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("type a prefix", func(sc *runner.Context) error {
					return site(sc).Home().TypeSearch(sc.Context(), validTerm(sc)[:min(len(validTerm(sc)), 3)])
				}),
				runner.Step("look for suggestions", func(sc *runner.Context) error {
					return visible(sc, "search suggestions", site(sc).Search().IsSuggestionsVisible)
				}),
			},
		},
	}}
}
