package pages

import (
	"context"

	"storefront_e2e/application/facade"
	"storefront_e2e/application/page"
	"storefront_e2e/domain/entities"
)

// ContactPage is the enquiry form plus the static information pages linked
// from the footer
type ContactPage struct {
	base
}

func NewContactPage(env Env) *ContactPage {
	p := &ContactPage{base: newBase("contact", env,
		loc("heading", ".page-title"),
		loc("body", ".page-body"),
		loc("fullName", "#FullName"),
		loc("email", "#Email"),
		loc("subject", "#Subject"),
		loc("enquiry", "#Enquiry"),
		loc("submit", `input[type="submit"], button[name="send-email"]`),
		loc("result", ".result"),
		loc("fieldErrors", ".field-validation-error"),
		scoped("footerLinks", ".footer", "a"),
		loc("sitemap", ".sitemap"),
		loc("newsItems", ".news-items"),
	)}

	o := p.obj
	p.gotoAction("/contactus")
	o.MustDefineAction("open", func(page.Args) ([]entities.Step, error) {
		return []entities.Step{entities.Click(entities.Named("footerLinks").WithText("Contact us").First())}, nil
	})
	o.MustDefineAction("submitEnquiry", func(a page.Args) ([]entities.Step, error) {
		var steps []entities.Step
		for _, f := range []string{"fullName", "email", "subject", "enquiry"} {
			if v, ok := a[f]; ok {
				steps = append(steps, entities.Fill(entities.Named(f), v))
			}
		}
		return append(steps, click("submit")), nil
	})
	o.MustDefineAction("submit", page.ClickOn("submit"))
	o.MustDefineAction("openInfoPage", page.ClickWithText("footerLinks"))

	o.MustDefineQuery("heading", page.TextOf("heading"))
	o.MustDefineQuery("isBodyVisible", page.VisibleOf("body"))
	o.MustDefineQuery("isResultVisible", page.VisibleOf("result"))
	o.MustDefineQuery("resultMessage", page.TextOf("result"))
	o.MustDefineQuery("validationErrorCount", page.CountOf("fieldErrors"))
	o.MustDefineQuery("isValidationErrorVisible", page.VisibleOf("fieldErrors"))
	o.MustDefineQuery("isFieldVisible", func(ctx context.Context, r facade.Reader, a page.Args) (any, error) {
		field, err := a.Require("field")
		if err != nil {
			return nil, err
		}
		return r.IsVisible(ctx, entities.Named(field).First())
	})
	o.MustDefineQuery("isInfoLinkVisible", page.VisibleWithText("footerLinks"))
	o.MustDefineQuery("isSitemapVisible", page.VisibleOf("sitemap"))
	o.MustDefineQuery("isNewsVisible", page.VisibleOf("newsItems"))
	return p
}

func (p *ContactPage) Goto(ctx context.Context) error { return p.do(ctx, "goto", nil) }

// Open follows the footer contact link
func (p *ContactPage) Open(ctx context.Context) error { return p.do(ctx, "open", nil) }

// SubmitEnquiry fills the form from c, skipping empty fields, and submits it
func (p *ContactPage) SubmitEnquiry(ctx context.Context, c entities.ContactForm) error {
	a := page.Args{}
	for k, v := range map[string]string{
		"fullName": c.FullName,
		"email":    c.Email,
		"subject":  c.Subject,
		"enquiry":  c.Enquiry,
	} {
		if v != "" {
			a[k] = v
		}
	}
	return p.do(ctx, "submitEnquiry", a)
}

func (p *ContactPage) Submit(ctx context.Context) error { return p.do(ctx, "submit", nil) }

// OpenInfoPage follows the footer link whose text contains title
func (p *ContactPage) OpenInfoPage(ctx context.Context, title string) error {
	return p.do(ctx, "openInfoPage", one("text", title))
}

func (p *ContactPage) Heading(ctx context.Context) (string, error) {
	return p.str(ctx, "heading", nil)
}

func (p *ContactPage) IsBodyVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isBodyVisible", nil)
}

func (p *ContactPage) IsResultVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isResultVisible", nil)
}

func (p *ContactPage) ResultMessage(ctx context.Context) (string, error) {
	return p.str(ctx, "resultMessage", nil)
}

func (p *ContactPage) ValidationErrorCount(ctx context.Context) (int, error) {
	return p.count(ctx, "validationErrorCount")
}

func (p *ContactPage) IsValidationErrorVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isValidationErrorVisible", nil)
}

// IsFieldVisible accepts fullName, email, subject, enquiry or submit
func (p *ContactPage) IsFieldVisible(ctx context.Context, field string) (bool, error) {
	return p.is(ctx, "isFieldVisible", one("field", field))
}

func (p *ContactPage) IsInfoLinkVisible(ctx context.Context, title string) (bool, error) {
	return p.is(ctx, "isInfoLinkVisible", one("text", title))
}

func (p *ContactPage) IsSitemapVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isSitemapVisible", nil)
}

func (p *ContactPage) IsNewsVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isNewsVisible", nil)
}
