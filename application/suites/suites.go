// Package suites holds the storefront scenarios. Each suite starts from the
// home page on a fresh session and drives the site only through page objects.
package suites

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"storefront_e2e/application/pages"
	"storefront_e2e/application/runner"
	"storefront_e2e/domain/entities"
)

// All returns every suite in a stable order
func All() []runner.Suite {
	return []runner.Suite{
		Cart(),
		Checkout(),
		Login(),
		Registration(),
		Contact(),
		Navigation(),
		Search(),
		SearchEnhanced(),
		Product(),
		Category(),
	}
}

// Names lists the suite names accepted by ByName
func Names() []string {
	var names []string
	for _, s := range All() {
		names = append(names, s.Name)
	}
	return names
}

// ByName returns the named suites in the order given. No names means all.
func ByName(names ...string) ([]runner.Suite, error) {
	all := All()
	if len(names) == 0 {
		return all, nil
	}
	out := make([]runner.Suite, 0, len(names))
	for _, n := range names {
		i := slices.IndexFunc(all, func(s runner.Suite) bool { return s.Name == n })
		if i < 0 {
			return nil, fmt.Errorf("unknown suite %q, have %s", n, strings.Join(Names(), ", "))
		}
		out = append(out, all[i])
	}
	return out, nil
}

const siteKey = "suites.site"

// site returns the page objects of the current scenario attempt
func site(sc *runner.Context) *pages.Site {
	if s, ok := sc.Load(siteKey).(*pages.Site); ok {
		return s
	}
	s := pages.NewSite(sc)
	sc.Store(siteKey, s)
	return s
}

type probe[T any] func(ctx context.Context) (T, error)

// nth binds the index argument of an indexed query
func nth[T any](q func(context.Context, int) (T, error), i int) probe[T] {
	return func(ctx context.Context) (T, error) { return q(ctx, i) }
}

// with binds the string argument of a query
func with[T any](q func(context.Context, string) (T, error), arg string) probe[T] {
	return func(ctx context.Context) (T, error) { return q(ctx, arg) }
}

// either is true when any probe is
func either(probes ...probe[bool]) probe[bool] {
	return func(ctx context.Context) (bool, error) {
		for _, p := range probes {
			ok, err := p(ctx)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	}
}

// visible checks ok once and skips the rest of the scenario when the
// storefront does not render the element
func visible(sc *runner.Context, what string, ok probe[bool]) error {
	shown, err := ok(sc.Context())
	if err != nil {
		return err
	}
	return sc.SkipUnless(shown, what+" is not shown on this storefront")
}

func openHome(sc *runner.Context) error {
	return site(sc).Home().Goto(sc.Context())
}

// openProduct searches for term and opens the first hit
func openProduct(sc *runner.Context, term string) error {
	s, ctx := site(sc), sc.Context()
	if err := s.Home().Search(ctx, term); err != nil {
		return err
	}
	return s.Search().OpenResult(ctx, 0)
}

// addToCart puts quantity of the first product found for term into the cart
// and dismisses the notification
func addToCart(sc *runner.Context, term string, quantity int) error {
	if err := openProduct(sc, term); err != nil {
		return err
	}
	p, ctx := site(sc).Product(), sc.Context()
	if err := p.AddToCart(ctx, quantity); err != nil {
		return err
	}
	return p.CloseNotification(ctx)
}

func viewCart(sc *runner.Context) error {
	return site(sc).Home().NavigateToCart(sc.Context())
}

// cartWith is a body step adding one of the fixture product and opening the cart
func cartWith(product string) runner.BodyStep {
	return runner.Step("add "+product+" and open cart", func(sc *runner.Context) error {
		if err := addToCart(sc, sc.Fixtures().Product(product), 1); err != nil {
			return err
		}
		return viewCart(sc)
	})
}

// uniqueEmail turns name@host into name-xxxxxxxx@host so every attempt
// registers a fresh account
func uniqueEmail(email string) string {
	suffix := uuid.NewString()[:8]
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email + "-" + suffix
	}
	return email[:at] + "-" + suffix + email[at:]
}

func newUser(sc *runner.Context) entities.NewUser {
	u := sc.Fixtures().NewUser
	u.Email = uniqueEmail(u.Email)
	return u
}

// pick returns the first value, or fallback when there is none
func pick(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return values[0]
}
