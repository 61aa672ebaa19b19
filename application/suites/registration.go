package suites

import (
	"storefront_e2e/application/runner"
	"storefront_e2e/domain/entities"
)

func openRegister(sc *runner.Context) error {
	if err := openHome(sc); err != nil {
		return err
	}
	return site(sc).Home().NavigateToRegister(sc.Context())
}

// refused registers user with confirm as the repeated password and expects a
// field error
func refused(name string, edit func(sc *runner.Context, u *entities.NewUser) string) runner.Scenario {
	return runner.Scenario{
		Name:  name,
		Tags:  []string{"registration"},
		Setup: openRegister,
		Body: []runner.BodyStep{
			runner.Step("register", func(sc *runner.Context) error {
				u := newUser(sc)
				confirm := edit(sc, &u)
				return site(sc).Register().RegisterWithConfirmation(sc.Context(), u, confirm)
			}),
			runner.Step("expect field error", func(sc *runner.Context) error {
				return sc.ExpectTrue("field error shown", site(sc).Register().IsValidationErrorVisible)
			}),
		},
	}
}

func Registration() runner.Suite {
	return runner.Suite{Name: "registration", Scenarios: []runner.Scenario{
		{
			Name:  "registration page shows its form",
			Tags:  []string{"registration", "smoke"},
			Setup: openRegister,
			Body: []runner.BodyStep{
				runner.Step("expect form", func(sc *runner.Context) error {
					r := site(sc).Register()
					if err := sc.ExpectContains("title", "Register", r.Title); err != nil {
						return err
					}
					for _, f := range append(r.Fields(), "registerButton") {
						if err := sc.ExpectTrue(f+" shown", with(r.IsFieldVisible, f)); err != nil {
							return err
						}
					}
					return nil
				}),
			},
		},
		{
			Name:  "empty form is rejected",
			Tags:  []string{"registration"},
			Setup: openRegister,
			Body: []runner.BodyStep{
				runner.Step("submit", func(sc *runner.Context) error {
					return site(sc).Register().Submit(sc.Context())
				}),
				runner.Step("expect field errors", func(sc *runner.Context) error {
					return sc.ExpectAtLeast("field errors", 1, site(sc).Register().ValidationErrorCount)
				}),
			},
		},
		{
			Name:  "new user registers",
			Tags:  []string{"registration", "smoke"},
			Setup: openRegister,
			Body: []runner.BodyStep{
				runner.Step("register", func(sc *runner.Context) error {
					return site(sc).Register().Register(sc.Context(), newUser(sc))
				}),
				runner.Step("expect result", func(sc *runner.Context) error {
					return sc.ExpectTrue("result shown", site(sc).Register().IsResultVisible)
				}),
			},
		},
		refused("mismatched confirmation is rejected", func(_ *runner.Context, u *entities.NewUser) string {
			return "different-password"
		}),
		refused("malformed email is rejected", func(_ *runner.Context, u *entities.NewUser) string {
			u.Email = "invalid-email"
			return u.Password
		}),
		refused("weak password is rejected", func(_ *runner.Context, u *entities.NewUser) string {
			u.Password = "weak"
			return u.Password
		}),
		{
			Name:  "existing email is rejected",
			Tags:  []string{"registration"},
			Setup: openRegister,
			Body: []runner.BodyStep{
				runner.Step("register with the known user", func(sc *runner.Context) error {
					u := newUser(sc)
					u.Email = sc.Fixtures().ValidUser.Email
					return site(sc).Register().Register(sc.Context(), u)
				}),
				runner.Step("expect an error", func(sc *runner.Context) error {
					return sc.ExpectTrue("error shown", site(sc).Register().IsAnyErrorVisible)
				}),
			},
		},
		{
			Name:  "optional fields are accepted",
			Tags:  []string{"registration"},
			Setup: openRegister,
			Body: []runner.BodyStep{
				runner.Step("fill optional fields", func(sc *runner.Context) error {
					r := site(sc).Register()
					if err := visible(sc, "optional fields", either(r.IsGenderVisible, r.IsCompanyVisible)); err != nil {
						return err
					}
					return r.FillOptional(sc.Context(), "Test Company", "01/01/1990", true)
				}),
				runner.Step("register", func(sc *runner.Context) error {
					return site(sc).Register().Register(sc.Context(), newUser(sc))
				}),
				runner.Step("expect result", func(sc *runner.Context) error {
					return sc.ExpectTrue("result shown", site(sc).Register().IsResultVisible)
				}),
			},
		},
		{
			Name:  "required fields are marked",
			Tags:  []string{"registration"},
			Setup: openRegister,
			Body: []runner.BodyStep{
				runner.Step("expect asterisks", func(sc *runner.Context) error {
					r := site(sc).Register()
					for _, f := range r.Fields() {
						if err := sc.ExpectContains(f+" label", "*", with(r.LabelText, f)); err != nil {
							return err
						}
					}
					return nil
				}),
			},
		},
		{
			Name:  "terms link opens the conditions",
			Tags:  []string{"registration"},
			Setup: openRegister,
			Body: []runner.BodyStep{
				runner.Step("follow conditions link", func(sc *runner.Context) error {
					return followFooter(sc, "Conditions of Use")
				}),
				runner.Step("expect conditions url", func(sc *runner.Context) error {
					return sc.ExpectURLContains("conditions")
				}),
			},
		},
		{
			Name:  "privacy link opens the notice",
			Tags:  []string{"registration"},
			Setup: openRegister,
			Body: []runner.BodyStep{
				runner.Step("follow privacy link", func(sc *runner.Context) error {
					return followFooter(sc, "Privacy notice")
				}),
				runner.Step("expect privacy url", func(sc *runner.Context) error {
					return sc.ExpectURLContains("privacy")
				}),
			},
		},
	}}
}

// followFooter clicks the footer link titled title, skipping when it is absent
func followFooter(sc *runner.Context, title string) error {
	h := site(sc).Home()
	if err := visible(sc, title+" link", with(h.IsFooterLinkVisible, title)); err != nil {
		return err
	}
	return h.ClickFooterLink(sc.Context(), title)
}
