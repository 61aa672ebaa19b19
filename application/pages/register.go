package pages

import (
	"context"
	"fmt"

	"storefront_e2e/application/facade"
	"storefront_e2e/application/page"
	"storefront_e2e/domain/entities"
)

// registration form fields in fill order
var registerFields = []string{"firstName", "lastName", "email", "password", "confirmPassword"}

type RegisterPage struct {
	base
}

func NewRegisterPage(env Env) *RegisterPage {
	p := &RegisterPage{base: newBase("register", env,
		loc("registerLink", ".ico-register"),
		loc("genderMale", "#gender-male, #Gender_Male"),
		loc("firstName", "#FirstName"),
		loc("lastName", "#LastName"),
		loc("email", "#Email"),
		loc("company", "#Company"),
		loc("dateOfBirth", "#DateOfBirth"),
		loc("newsletter", "#Newsletter"),
		loc("password", "#Password"),
		loc("confirmPassword", "#ConfirmPassword"),
		loc("registerButton", "#register-button"),
		loc("result", ".result, .registration-result"),
		loc("fieldErrors", ".field-validation-error"),
		loc("summaryErrors", ".validation-summary-errors, .field-validation-error"),
		loc("firstNameLabel", `label[for="FirstName"]`),
		loc("lastNameLabel", `label[for="LastName"]`),
		loc("emailLabel", `label[for="Email"]`),
		loc("passwordLabel", `label[for="Password"]`),
		loc("confirmPasswordLabel", `label[for="ConfirmPassword"]`),
	)}

	o := p.obj
	p.gotoAction("/register")
	o.MustDefineAction("open", page.ClickOn("registerLink"))
	o.MustDefineAction("fillForm", func(a page.Args) ([]entities.Step, error) {
		return fillForm(a), nil
	})
	o.MustDefineAction("submit", page.ClickOn("registerButton"))
	o.MustDefineAction("register", func(a page.Args) ([]entities.Step, error) {
		return append(fillForm(a), click("registerButton")), nil
	})
	o.MustDefineAction("fillOptional", func(a page.Args) ([]entities.Step, error) {
		var steps []entities.Step
		if v, ok := a["gender"]; ok && v == "male" {
			steps = append(steps, entities.Check(entities.Named("genderMale").First()))
		}
		if v, ok := a["dateOfBirth"]; ok {
			steps = append(steps, entities.Fill(entities.Named("dateOfBirth"), v))
		}
		if v, ok := a["company"]; ok {
			steps = append(steps, entities.Fill(entities.Named("company"), v))
		}
		if v, ok := a["newsletter"]; ok && v == "true" {
			steps = append(steps, entities.Check(entities.Named("newsletter")))
		}
		return steps, nil
	})

	o.MustDefineQuery("title", page.Title())
	o.MustDefineQuery("resultMessage", page.TextOf("result"))
	o.MustDefineQuery("isResultVisible", page.VisibleOf("result"))
	o.MustDefineQuery("validationErrorCount", page.CountOf("fieldErrors"))
	o.MustDefineQuery("isValidationErrorVisible", page.VisibleOf("fieldErrors"))
	o.MustDefineQuery("isAnyErrorVisible", page.VisibleOf("summaryErrors"))
	o.MustDefineQuery("isFieldVisible", func(ctx context.Context, r facade.Reader, a page.Args) (any, error) {
		field, err := a.Require("field")
		if err != nil {
			return nil, err
		}
		return r.IsVisible(ctx, entities.Named(field).First())
	})
	o.MustDefineQuery("labelText", func(ctx context.Context, r facade.Reader, a page.Args) (any, error) {
		field, err := a.Require("field")
		if err != nil {
			return nil, err
		}
		return r.Text(ctx, entities.Named(field+"Label").First())
	})
	o.MustDefineQuery("isGenderVisible", page.VisibleOf("genderMale"))
	o.MustDefineQuery("isCompanyVisible", page.VisibleOf("company"))
	o.MustDefineQuery("isDateOfBirthVisible", page.VisibleOf("dateOfBirth"))
	o.MustDefineQuery("isNewsletterVisible", page.VisibleOf("newsletter"))
	return p
}

// fillForm fills the fields present in a; absent fields are left untouched
func fillForm(a page.Args) []entities.Step {
	var steps []entities.Step
	for _, f := range registerFields {
		if v, ok := a[f]; ok {
			steps = append(steps, entities.Fill(entities.Named(f), v))
		}
	}
	return steps
}

func userArgs(u entities.NewUser, confirm string) page.Args {
	return page.Args{
		"firstName":       u.FirstName,
		"lastName":        u.LastName,
		"email":           u.Email,
		"password":        u.Password,
		"confirmPassword": confirm,
	}
}

func (p *RegisterPage) Goto(ctx context.Context) error { return p.do(ctx, "goto", nil) }

func (p *RegisterPage) Open(ctx context.Context) error { return p.do(ctx, "open", nil) }

// Register fills the form for u and submits it
func (p *RegisterPage) Register(ctx context.Context, u entities.NewUser) error {
	return p.do(ctx, "register", userArgs(u, u.Password))
}

// RegisterWithConfirmation is Register with a separate confirmation password
func (p *RegisterPage) RegisterWithConfirmation(ctx context.Context, u entities.NewUser, confirm string) error {
	return p.do(ctx, "register", userArgs(u, confirm))
}

func (p *RegisterPage) Submit(ctx context.Context) error { return p.do(ctx, "submit", nil) }

// FillOptional fills the optional fields the page offers
func (p *RegisterPage) FillOptional(ctx context.Context, company, dateOfBirth string, newsletter bool) error {
	a := page.Args{"gender": "male"}
	if company != "" {
		a["company"] = company
	}
	if dateOfBirth != "" {
		a["dateOfBirth"] = dateOfBirth
	}
	if newsletter {
		a["newsletter"] = "true"
	}
	return p.do(ctx, "fillOptional", a)
}

func (p *RegisterPage) Title(ctx context.Context) (string, error) { return p.str(ctx, "title", nil) }

func (p *RegisterPage) ResultMessage(ctx context.Context) (string, error) {
	return p.str(ctx, "resultMessage", nil)
}

func (p *RegisterPage) IsResultVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isResultVisible", nil)
}

func (p *RegisterPage) ValidationErrorCount(ctx context.Context) (int, error) {
	return p.count(ctx, "validationErrorCount")
}

func (p *RegisterPage) IsValidationErrorVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isValidationErrorVisible", nil)
}

// IsAnyErrorVisible covers both the summary and per-field errors
func (p *RegisterPage) IsAnyErrorVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isAnyErrorVisible", nil)
}

func (p *RegisterPage) IsFieldVisible(ctx context.Context, field string) (bool, error) {
	if !isRegisterField(field) {
		return false, fmt.Errorf("unknown registration field %q", field)
	}
	return p.is(ctx, "isFieldVisible", one("field", field))
}

func (p *RegisterPage) LabelText(ctx context.Context, field string) (string, error) {
	return p.str(ctx, "labelText", one("field", field))
}

func (p *RegisterPage) IsGenderVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isGenderVisible", nil)
}

func (p *RegisterPage) IsCompanyVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isCompanyVisible", nil)
}

func (p *RegisterPage) IsDateOfBirthVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isDateOfBirthVisible", nil)
}

func (p *RegisterPage) IsNewsletterVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isNewsletterVisible", nil)
}

// Fields lists the required registration fields
func (p *RegisterPage) Fields() []string {
	return append([]string(nil), registerFields...)
}

func isRegisterField(f string) bool {
	for _, x := range registerFields {
		if x == f {
			return true
		}
	}
	return f == "registerButton"
}
