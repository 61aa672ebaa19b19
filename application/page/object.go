// Package page implements the page object: named locators plus the composed
// actions and queries a user can perform on one logical view.
package page

import (
	"context"
	"fmt"
	"sort"

	"storefront_e2e/application/facade"
	"storefront_e2e/application/locator"
	"storefront_e2e/domain/entities"
)

// ActionFunc builds the step sequence of a composed action
type ActionFunc func(args Args) ([]entities.Step, error)

// QueryFunc reads page state. It only receives the read-only half of the facade.
type QueryFunc func(ctx context.Context, r facade.Reader, args Args) (any, error)

// Object is the base of every page object. It is built once per scenario
// around that scenario's session and must not be shared between scenarios.
type Object struct {
	name     string
	registry *locator.Registry
	facade   *facade.Facade
	actions  map[string]ActionFunc
	queries  map[string]QueryFunc
}

// New creates a page object with its own locator registry
func New(name string, f *facade.Facade) *Object {
	reg := locator.NewRegistry(name)
	return &Object{
		name:     name,
		registry: reg,
		facade:   f.WithRegistry(reg),
		actions:  make(map[string]ActionFunc),
		queries:  make(map[string]QueryFunc),
	}
}

func (o *Object) Name() string { return o.name }

// Registry is for the defining page only
func (o *Object) Registry() *locator.Registry { return o.registry }

// Facade is bound to this page's registry
func (o *Object) Facade() *facade.Facade { return o.facade }

// Locators registers a static locator table; it panics on duplicates
func (o *Object) Locators(entries ...entities.LocatorEntry) {
	if err := o.registry.RegisterAll(entries...); err != nil {
		panic(err)
	}
}

// DefineAction registers a named composed action
func (o *Object) DefineAction(name string, fn ActionFunc) error {
	if _, ok := o.actions[name]; ok {
		return &entities.DuplicateNameError{Page: o.name, Kind: "action", Name: name}
	}
	o.actions[name] = fn
	return nil
}

// DefineQuery registers a named composed query
func (o *Object) DefineQuery(name string, fn QueryFunc) error {
	if _, ok := o.queries[name]; ok {
		return &entities.DuplicateNameError{Page: o.name, Kind: "query", Name: name}
	}
	o.queries[name] = fn
	return nil
}

// MustDefineAction panics when the action is already defined
func (o *Object) MustDefineAction(name string, fn ActionFunc) {
	if err := o.DefineAction(name, fn); err != nil {
		panic(err)
	}
}

// MustDefineQuery panics when the query is already defined
func (o *Object) MustDefineQuery(name string, fn QueryFunc) {
	if err := o.DefineQuery(name, fn); err != nil {
		panic(err)
	}
}

// Actions lists the defined action names
func (o *Object) Actions() []string {
	return sortedKeys(o.actions)
}

// Queries lists the defined query names
func (o *Object) Queries() []string {
	return sortedKeys(o.queries)
}

// HasAction reports whether name is a defined action
func (o *Object) HasAction(name string) bool {
	_, ok := o.actions[name]
	return ok
}

// HasQuery reports whether name is a defined query
func (o *Object) HasQuery(name string) bool {
	_, ok := o.queries[name]
	return ok
}

// Do runs a named action
func (o *Object) Do(ctx context.Context, name string, args Args) error {
	fn, ok := o.actions[name]
	if !ok {
		return &entities.UnknownActionError{Page: o.name, Kind: "action", Name: name}
	}
	steps, err := fn(args)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", o.name, name, err)
	}
	return o.Perform(ctx, name, steps...)
}

// Perform executes steps strictly in order. The first failing step ends the
// action; its error is returned and nothing is rolled back.
func (o *Object) Perform(ctx context.Context, action string, steps ...entities.Step) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return &entities.ActionError{Page: o.name, Action: action, StepIndex: i, Step: step, Err: err}
		}
		if err := o.facade.Perform(ctx, step); err != nil {
			return &entities.ActionError{Page: o.name, Action: action, StepIndex: i, Step: step, Err: err}
		}
	}
	return nil
}

// Ask runs a named query
func (o *Object) Ask(ctx context.Context, name string, args Args) (any, error) {
	fn, ok := o.queries[name]
	if !ok {
		return nil, &entities.UnknownActionError{Page: o.name, Kind: "query", Name: name}
	}
	return fn(ctx, o.facade, args)
}

// AskString runs a query that yields text
func (o *Object) AskString(ctx context.Context, name string, args Args) (string, error) {
	v, err := o.Ask(ctx, name, args)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s.%s returned %T, not string", o.name, name, v)
	}
	return s, nil
}

// AskBool runs a query that yields a boolean
func (o *Object) AskBool(ctx context.Context, name string, args Args) (bool, error) {
	v, err := o.Ask(ctx, name, args)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s.%s returned %T, not bool", o.name, name, v)
	}
	return b, nil
}

// AskInt runs a query that yields a count
func (o *Object) AskInt(ctx context.Context, name string, args Args) (int, error) {
	v, err := o.Ask(ctx, name, args)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("%s.%s returned %T, not int", o.name, name, v)
	}
	return n, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
