// Package pages holds the storefront page objects. Each page keeps its locator
// table and composed actions private and exposes typed methods; the same
// actions and queries are reachable by name for declarative scenarios.
package pages

import (
	"context"
	"strconv"

	"storefront_e2e/application/facade"
	"storefront_e2e/application/page"
	"storefront_e2e/domain/entities"
)

// Env is what a page needs from the scenario that owns it
type Env interface {
	Facade() *facade.Facade
	URL(path string) string
}

type base struct {
	obj *page.Object
	env Env
}

func newBase(name string, env Env, locators ...entities.LocatorEntry) base {
	obj := page.New(name, env.Facade())
	obj.Locators(locators...)
	return base{obj: obj, env: env}
}

// Object exposes the named actions and queries of the page
func (b base) Object() *page.Object { return b.obj }

func (b base) gotoAction(path string) {
	b.obj.MustDefineAction("goto", func(page.Args) ([]entities.Step, error) {
		return []entities.Step{entities.Navigate(b.env.URL(path))}, nil
	})
}

func (b base) do(ctx context.Context, action string, args page.Args) error {
	return b.obj.Do(ctx, action, args)
}

func (b base) str(ctx context.Context, query string, args page.Args) (string, error) {
	return b.obj.AskString(ctx, query, args)
}

func (b base) is(ctx context.Context, query string, args page.Args) (bool, error) {
	return b.obj.AskBool(ctx, query, args)
}

func (b base) count(ctx context.Context, query string) (int, error) {
	return b.obj.AskInt(ctx, query, nil)
}

func loc(name, selector string) entities.LocatorEntry {
	return entities.LocatorEntry{Name: name, Selector: selector}
}

func scoped(name, scope, selector string) entities.LocatorEntry {
	return entities.LocatorEntry{Name: name, Selector: selector, Scope: scope}
}

func at(i int) page.Args {
	return page.Args{"index": strconv.Itoa(i)}
}

func one(key, value string) page.Args {
	return page.Args{key: value}
}

// fill returns a step filling locator with the named argument
func fill(locator string, args page.Args, key string) (entities.Step, error) {
	v, err := args.Require(key)
	if err != nil {
		return entities.Step{}, err
	}
	return entities.Fill(entities.Named(locator).First(), v), nil
}

func click(locator string) entities.Step {
	return entities.Click(entities.Named(locator).First())
}
