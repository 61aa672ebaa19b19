package pages

import (
	"context"
	"strconv"

	"storefront_e2e/application/facade"
	"storefront_e2e/application/page"
	"storefront_e2e/domain/entities"
)

type LoginPage struct {
	base
}

func NewLoginPage(env Env) *LoginPage {
	p := &LoginPage{base: newBase("login", env,
		loc("loginLink", ".ico-login"),
		loc("email", "#Email"),
		loc("password", "#Password"),
		loc("loginButton", `button[type="submit"]`),
		loc("rememberMe", "#RememberMe"),
		loc("errorSummary", ".validation-summary-errors"),
		loc("fieldErrors", ".field-validation-error"),
		loc("myAccount", ".ico-account"),
		loc("logout", ".ico-logout"),
		loc("forgotPassword", `a[href*="passwordrecovery"]`),
	)}

	// the login form shares its page with the returning-customer button
	loginButton := entities.Named("loginButton").WithText("Log in").First()

	o := p.obj
	p.gotoAction("/login")
	o.MustDefineAction("open", page.ClickOn("loginLink"))
	o.MustDefineAction("login", func(a page.Args) ([]entities.Step, error) {
		remember, err := a.Bool("rememberMe", false)
		if err != nil {
			return nil, err
		}
		steps := []entities.Step{
			entities.Fill(entities.Named("email"), a.String("email", "")),
			entities.Fill(entities.Named("password"), a.String("password", "")),
		}
		if remember {
			steps = append(steps, entities.Check(entities.Named("rememberMe")))
		}
		return append(steps, entities.Click(loginButton)), nil
	})
	o.MustDefineAction("submit", func(page.Args) ([]entities.Step, error) {
		return []entities.Step{entities.Click(loginButton)}, nil
	})
	o.MustDefineAction("logout", page.ClickOn("logout"))
	o.MustDefineAction("forgotPassword", page.ClickOn("forgotPassword"))

	o.MustDefineQuery("title", page.Title())
	o.MustDefineQuery("errorMessage", page.TextOf("errorSummary"))
	o.MustDefineQuery("isErrorVisible", page.VisibleOf("errorSummary"))
	o.MustDefineQuery("isLoggedIn", page.VisibleOf("myAccount"))
	o.MustDefineQuery("isRememberMeChecked", page.CheckedOf("rememberMe"))
	o.MustDefineQuery("validationErrorCount", page.CountOf("fieldErrors"))
	o.MustDefineQuery("isValidationErrorVisible", page.VisibleOf("fieldErrors"))
	o.MustDefineQuery("isEmailVisible", page.VisibleOf("email"))
	o.MustDefineQuery("isPasswordVisible", page.VisibleOf("password"))
	o.MustDefineQuery("isRememberMeVisible", page.VisibleOf("rememberMe"))
	o.MustDefineQuery("isLoginButtonVisible", func(ctx context.Context, r facade.Reader, _ page.Args) (any, error) {
		return r.IsVisible(ctx, loginButton)
	})
	return p
}

func (p *LoginPage) Goto(ctx context.Context) error { return p.do(ctx, "goto", nil) }

// Open follows the header login link
func (p *LoginPage) Open(ctx context.Context) error { return p.do(ctx, "open", nil) }

func (p *LoginPage) Login(ctx context.Context, email, password string, rememberMe bool) error {
	return p.do(ctx, "login", page.Args{
		"email":      email,
		"password":   password,
		"rememberMe": strconv.FormatBool(rememberMe),
	})
}

// Submit presses the login button without filling anything
func (p *LoginPage) Submit(ctx context.Context) error { return p.do(ctx, "submit", nil) }

func (p *LoginPage) Logout(ctx context.Context) error { return p.do(ctx, "logout", nil) }

func (p *LoginPage) ForgotPassword(ctx context.Context) error {
	return p.do(ctx, "forgotPassword", nil)
}

func (p *LoginPage) Title(ctx context.Context) (string, error) { return p.str(ctx, "title", nil) }

func (p *LoginPage) ErrorMessage(ctx context.Context) (string, error) {
	return p.str(ctx, "errorMessage", nil)
}

func (p *LoginPage) IsErrorVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isErrorVisible", nil)
}

func (p *LoginPage) IsLoggedIn(ctx context.Context) (bool, error) {
	return p.is(ctx, "isLoggedIn", nil)
}

func (p *LoginPage) IsRememberMeChecked(ctx context.Context) (bool, error) {
	return p.is(ctx, "isRememberMeChecked", nil)
}

func (p *LoginPage) ValidationErrorCount(ctx context.Context) (int, error) {
	return p.count(ctx, "validationErrorCount")
}

func (p *LoginPage) IsValidationErrorVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isValidationErrorVisible", nil)
}

func (p *LoginPage) IsEmailVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isEmailVisible", nil)
}

func (p *LoginPage) IsPasswordVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isPasswordVisible", nil)
}

func (p *LoginPage) IsRememberMeVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isRememberMeVisible", nil)
}

func (p *LoginPage) IsLoginButtonVisible(ctx context.Context) (bool, error) {
	return p.is(ctx, "isLoginButtonVisible", nil)
}
