package suites

import (
	"context"
	"fmt"
	"time"

	"storefront_e2e/application/runner"
)

func openContact(sc *runner.Context) error {
	if err := openHome(sc); err != nil {
		return err
	}
	return site(sc).Contact().Open(sc.Context())
}

// infoPage follows a footer link and expects the page it leads to
func infoPage(title, urlPart string, extra func(sc *runner.Context) error) runner.Scenario {
	return runner.Scenario{
		Name:  title + " page opens",
		Tags:  []string{"contact", "info"},
		Setup: openHome,
		Body: []runner.BodyStep{
			runner.Step("follow "+title, func(sc *runner.Context) error {
				return followFooter(sc, title)
			}),
			runner.Step("expect "+title+" page", func(sc *runner.Context) error {
				if err := sc.ExpectURLContains(urlPart); err != nil {
					return err
				}
				c := site(sc).Contact()
				if err := sc.ExpectContains("heading", title, c.Heading); err != nil {
					return err
				}
				if extra != nil {
					return extra(sc)
				}
				return sc.ExpectTrue("page body shown", c.IsBodyVisible)
			}),
		},
	}
}

func Contact() runner.Suite {
	return runner.Suite{Name: "contact", Scenarios: []runner.Scenario{
		{
			Name:  "contact page shows the enquiry form",
			Tags:  []string{"contact", "smoke"},
			Setup: openContact,
			Body: []runner.BodyStep{
				runner.Step("expect form", func(sc *runner.Context) error {
					if err := sc.ExpectURLContains("contactus"); err != nil {
						return err
					}
					c := site(sc).Contact()
					if err := sc.ExpectContainsFold("heading", "Contact us", c.Heading); err != nil {
						return err
					}
					for _, f := range []string{"fullName", "email", "subject", "enquiry", "submit"} {
						if err := sc.ExpectTrue(f+" shown", with(c.IsFieldVisible, f)); err != nil {
							return err
						}
					}
					return nil
				}),
			},
		},
		{
			Name:  "enquiry is sent",
			Tags:  []string{"contact", "smoke"},
			Setup: openContact,
			Body: []runner.BodyStep{
				runner.Step("submit enquiry", func(sc *runner.Context) error {
					return site(sc).Contact().SubmitEnquiry(sc.Context(), sc.Fixtures().ContactForm)
				}),
				runner.Step("expect result", func(sc *runner.Context) error {
					return sc.ExpectTrue("result shown", site(sc).Contact().IsResultVisible)
				}),
			},
		},
		{
			Name:  "empty enquiry is rejected",
			Tags:  []string{"contact"},
			Setup: openContact,
			Body: []runner.BodyStep{
				runner.Step("submit", func(sc *runner.Context) error {
					return site(sc).Contact().Submit(sc.Context())
				}),
				runner.Step("expect field errors", func(sc *runner.Context) error {
					return sc.ExpectAtLeast("field errors", 1, site(sc).Contact().ValidationErrorCount)
				}),
			},
		},
		{
			Name:  "malformed enquiry email is rejected",
			Tags:  []string{"contact"},
			Setup: openContact,
			Body: []runner.BodyStep{
				runner.Step("submit enquiry", func(sc *runner.Context) error {
					form := sc.Fixtures().ContactForm
					form.Email = "invalid-email"
					return site(sc).Contact().SubmitEnquiry(sc.Context(), form)
				}),
				runner.Step("expect field error", func(sc *runner.Context) error {
					return sc.ExpectTrue("field error shown", site(sc).Contact().IsValidationErrorVisible)
				}),
			},
		},
		infoPage("About us", "about-us", nil),
		infoPage("Sitemap", "sitemap", func(sc *runner.Context) error {
			return sc.ExpectTrue("sitemap shown", site(sc).Contact().IsSitemapVisible)
		}),
		infoPage("News", "news", func(sc *runner.Context) error {
			return sc.ExpectTrue("news shown", site(sc).Contact().IsNewsVisible)
		}),
		infoPage("Privacy notice", "privacy", nil),
		infoPage("Conditions of Use", "conditions", nil),
		infoPage("Shipping & returns", "shippinginfo", nil),
		{
			Name:  "newsletter subscription is answered",
			Tags:  []string{"contact", "newsletter"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("subscribe", func(sc *runner.Context) error {
					return subscribe(sc, pick(sc.Fixtures().Newsletter.Valid, "test@example.com"))
				}),
			},
		},
		{
			Name:  "malformed newsletter email is answered",
			Tags:  []string{"contact", "newsletter"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("subscribe", func(sc *runner.Context) error {
					return subscribe(sc, pick(sc.Fixtures().Newsletter.Invalid, "invalid-email"))
				}),
			},
		},
		{
			Name:  "social links point somewhere",
			Tags:  []string{"contact"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("expect an href", func(sc *runner.Context) error {
					h := site(sc).Home()
					n, err := h.SocialLinkCount(sc.Context())
					if err != nil {
						return err
					}
					if err := sc.SkipUnless(n > 0, "no social links"); err != nil {
						return err
					}
					return sc.ExpectContains("first social link", "http", h.SocialLinkHref)
				}),
			},
		},
		{
			Name:  "company information is shown",
			Tags:  []string{"contact"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("expect footer info", func(sc *runner.Context) error {
					h := site(sc).Home()
					if err := visible(sc, "company information", h.IsFooterInfoVisible); err != nil {
						return err
					}
					return sc.ExpectTrue("footer shown", h.IsFooterVisible)
				}),
			},
		},
		{
			Name:  "search works from an information page",
			Tags:  []string{"contact", "search"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("open About us", func(sc *runner.Context) error {
					return followFooter(sc, "About us")
				}),
				runner.Step("search", func(sc *runner.Context) error {
					return site(sc).Home().Search(sc.Context(), pick(sc.Fixtures().SearchTerms.Valid, "laptop"))
				}),
				runner.Step("expect search url", func(sc *runner.Context) error {
					return sc.ExpectURLContains("search")
				}),
			},
		},
		{
			Name:  "contact page loads quickly",
			Tags:  []string{"contact", "performance"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("open contact page", func(sc *runner.Context) error {
					start := time.Now()
					if err := site(sc).Contact().Open(sc.Context()); err != nil {
						return err
					}
					if err := sc.ExpectContainsFold("heading", "contact", site(sc).Contact().Heading); err != nil {
						return err
					}
					took := time.Since(start)
					return sc.ExpectTrue(fmt.Sprintf("loaded within 5s, took %s", took.Round(time.Millisecond)),
						func(context.Context) (bool, error) { return took < 5*time.Second, nil })
				}),
			},
		},
		{
			Name:  "breadcrumb leads home from an information page",
			Tags:  []string{"contact", "navigation"},
			Setup: openContact,
			Body: []runner.BodyStep{
				runner.Step("follow breadcrumb", func(sc *runner.Context) error {
					h := site(sc).Home()
					n, err := h.BreadcrumbLinkCount(sc.Context())
					if err != nil {
						return err
					}
					if err := sc.SkipUnless(n > 0, "no breadcrumb"); err != nil {
						return err
					}
					return h.ClickBreadcrumb(sc.Context(), 0)
				}),
				runner.Step("expect logo", func(sc *runner.Context) error {
					return sc.ExpectTrue("logo shown", site(sc).Home().IsLogoVisible)
				}),
			},
		},
	}}
}

// subscribe sends email to the newsletter box and expects an answer
func subscribe(sc *runner.Context, email string) error {
	h := site(sc).Home()
	if err := visible(sc, "newsletter box", h.IsNewsletterVisible); err != nil {
		return err
	}
	if err := h.SubscribeNewsletter(sc.Context(), email); err != nil {
		return err
	}
	return sc.ExpectTrue("newsletter answer shown", h.IsNewsletterResultVisible)
}
