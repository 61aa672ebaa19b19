package suites

import (
	"strings"

	"storefront_e2e/application/runner"
)

func openLogin(sc *runner.Context) error {
	if err := openHome(sc); err != nil {
		return err
	}
	return site(sc).Login().Open(sc.Context())
}

// rejected logs in with the given credentials and expects an error of any kind
func rejected(name, email, password string) runner.Scenario {
	return runner.Scenario{
		Name:  name,
		Tags:  []string{"login", "security"},
		Setup: openLogin,
		Body: []runner.BodyStep{
			runner.Step("log in", func(sc *runner.Context) error {
				return site(sc).Login().Login(sc.Context(), email, password, false)
			}),
			runner.Step("expect an error", func(sc *runner.Context) error {
				l := site(sc).Login()
				return sc.ExpectTrue("login error shown", either(l.IsErrorVisible, l.IsValidationErrorVisible))
			}),
		},
	}
}

func Login() runner.Suite {
	return runner.Suite{Name: "login", Scenarios: []runner.Scenario{
		{
			Name:  "login page shows its form",
			Tags:  []string{"login", "smoke"},
			Setup: openLogin,
			Body: []runner.BodyStep{
				runner.Step("expect form", func(sc *runner.Context) error {
					l := site(sc).Login()
					if err := sc.ExpectContains("title", "Login", l.Title); err != nil {
						return err
					}
					for _, f := range []struct {
						desc string
						ok   probe[bool]
					}{
						{"email input", l.IsEmailVisible},
						{"password input", l.IsPasswordVisible},
						{"login button", l.IsLoginButtonVisible},
						{"remember me", l.IsRememberMeVisible},
					} {
						if err := sc.ExpectTrue(f.desc+" shown", f.ok); err != nil {
							return err
						}
					}
					return nil
				}),
			},
		},
		{
			Name:  "invalid credentials are rejected",
			Tags:  []string{"login", "smoke"},
			Setup: openLogin,
			Body: []runner.BodyStep{
				runner.Step("log in with invalid user", func(sc *runner.Context) error {
					u := sc.Fixtures().InvalidUser
					return site(sc).Login().Login(sc.Context(), u.Email, u.Password, false)
				}),
				runner.Step("expect error summary", func(sc *runner.Context) error {
					return sc.ExpectTrue("error summary shown", site(sc).Login().IsErrorVisible)
				}),
			},
		},
		{
			Name:  "empty form is rejected",
			Tags:  []string{"login"},
			Setup: openLogin,
			Body: []runner.BodyStep{
				runner.Step("submit", func(sc *runner.Context) error {
					return site(sc).Login().Submit(sc.Context())
				}),
				runner.Step("expect field errors", func(sc *runner.Context) error {
					return sc.ExpectAtLeast("field errors", 1, site(sc).Login().ValidationErrorCount)
				}),
			},
		},
		{
			Name:  "remember me stays ticked after a failed login",
			Tags:  []string{"login"},
			Setup: openLogin,
			Body: []runner.BodyStep{
				runner.Step("log in remembering", func(sc *runner.Context) error {
					u := sc.Fixtures().InvalidUser
					return site(sc).Login().Login(sc.Context(), u.Email, u.Password, true)
				}),
				runner.Step("expect remember me ticked", func(sc *runner.Context) error {
					return sc.ExpectTrue("remember me ticked", site(sc).Login().IsRememberMeChecked)
				}),
			},
		},
		{
			Name:  "forgot password opens recovery",
			Tags:  []string{"login"},
			Setup: openLogin,
			Body: []runner.BodyStep{
				runner.Step("follow forgot password", func(sc *runner.Context) error {
					return site(sc).Login().ForgotPassword(sc.Context())
				}),
				runner.Step("expect recovery url", func(sc *runner.Context) error {
					return sc.ExpectURLContains("passwordrecovery")
				}),
			},
		},
		{
			Name:  "malformed email is flagged",
			Tags:  []string{"login"},
			Setup: openLogin,
			Body: []runner.BodyStep{
				runner.Step("log in", func(sc *runner.Context) error {
					return site(sc).Login().Login(sc.Context(), "invalid-email", sc.Fixtures().ValidUser.Password, false)
				}),
				runner.Step("expect field error", func(sc *runner.Context) error {
					return sc.ExpectTrue("field error shown", site(sc).Login().IsValidationErrorVisible)
				}),
			},
		},
		{
			Name:  "form survives a reload",
			Tags:  []string{"login"},
			Setup: openLogin,
			Body: []runner.BodyStep{
				runner.Step("reload", func(sc *runner.Context) error {
					return site(sc).Login().Goto(sc.Context())
				}),
				runner.Step("expect inputs", func(sc *runner.Context) error {
					l := site(sc).Login()
					if err := sc.ExpectTrue("email input shown", l.IsEmailVisible); err != nil {
						return err
					}
					return sc.ExpectTrue("password input shown", l.IsPasswordVisible)
				}),
			},
		},
		rejected("sql injection is rejected", "' OR '1'='1", "' OR '1'='1"),
		rejected("script in email is rejected", `<script>alert("xss")</script>`, "TestPassword123!"),
		rejected("unknown user is rejected", "nonexistent@example.com", "password123"),
		{
			Name:  "repeated failures keep showing the error",
			Tags:  []string{"login"},
			Setup: openLogin,
			Body: []runner.BodyStep{
				runner.Step("fail three times", func(sc *runner.Context) error {
					l, u := site(sc).Login(), sc.Fixtures().InvalidUser
					for range 3 {
						if err := l.Login(sc.Context(), u.Email, u.Password, false); err != nil {
							return err
						}
						if err := sc.ExpectTrue("error summary shown", l.IsErrorVisible); err != nil {
							return err
						}
					}
					return nil
				}),
			},
		},
		{
			Name:  "valid user logs in and out",
			Tags:  []string{"login", "smoke"},
			Setup: openLogin,
			Body: []runner.BodyStep{
				runner.Step("log in", func(sc *runner.Context) error {
					u := sc.Fixtures().ValidUser
					return site(sc).Login().Login(sc.Context(), u.Email, u.Password, false)
				}),
				runner.Step("expect account link", func(sc *runner.Context) error {
					return sc.ExpectTrue("logged in", site(sc).Login().IsLoggedIn)
				}),
				runner.Step("log out", func(sc *runner.Context) error {
					return site(sc).Login().Logout(sc.Context())
				}),
				runner.Step("expect logged out", func(sc *runner.Context) error {
					return sc.ExpectFalse("logged in", site(sc).Login().IsLoggedIn)
				}),
			},
		},
		{
			Name:  "cart behind login returns to the cart",
			Tags:  []string{"login"},
			Setup: openHome,
			Body: []runner.BodyStep{
				runner.Step("open cart", viewCart),
				runner.Step("log in when asked", func(sc *runner.Context) error {
					u, err := site(sc).Home().URL(sc.Context())
					if err != nil {
						return err
					}
					if err := sc.SkipUnless(strings.Contains(u, "login"), "cart does not require login"); err != nil {
						return err
					}
					v := sc.Fixtures().ValidUser
					if err := site(sc).Login().Login(sc.Context(), v.Email, v.Password, false); err != nil {
						return err
					}
					return sc.ExpectURLContains("cart")
				}),
			},
		},
	}}
}
