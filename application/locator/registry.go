// Package locator maps semantic element names to selectors within one page.
package locator

import (
	"sort"
	"sync"

	"storefront_e2e/domain/entities"
)

// Registry is the single source of truth for how a page's elements are found.
// Resolution is lazy: nothing is matched against the DOM here.
type Registry struct {
	page    string
	mu      sync.RWMutex
	entries map[string]entities.LocatorEntry
}

// NewRegistry creates an empty registry for the named page
func NewRegistry(page string) *Registry {
	return &Registry{
		page:    page,
		entries: make(map[string]entities.LocatorEntry),
	}
}

// Page returns the owning page name
func (r *Registry) Page() string {
	return r.page
}

// Register binds name to selector. An optional scope names a parent selector.
func (r *Registry) Register(name, selector string, scope ...string) error {
	if name == "" || selector == "" {
		return entities.ErrInvalidLocator
	}

	entry := entities.LocatorEntry{Name: name, Selector: selector}
	if len(scope) > 0 {
		entry.Scope = scope[0]
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; ok {
		return &entities.DuplicateNameError{Page: r.page, Kind: "locator", Name: name}
	}
	r.entries[name] = entry
	return nil
}

// MustRegister is Register for static locator tables; it panics on error
func (r *Registry) MustRegister(name, selector string, scope ...string) {
	if err := r.Register(name, selector, scope...); err != nil {
		panic(err)
	}
}

// RegisterAll registers a table of entries, stopping at the first error
func (r *Registry) RegisterAll(entries ...entities.LocatorEntry) error {
	for _, e := range entries {
		var err error
		if e.Scope != "" {
			err = r.Register(e.Name, e.Selector, e.Scope)
		} else {
			err = r.Register(e.Name, e.Selector)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Entry returns the registered entry for name
func (r *Registry) Entry(name string) (entities.LocatorEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return entities.LocatorEntry{}, &entities.UnknownLocatorError{Page: r.page, Name: name}
	}
	return e, nil
}

// Resolve returns a query matching every element of the named locator
func (r *Registry) Resolve(name string) (entities.Query, error) {
	return r.ResolveRef(entities.Named(name))
}

// ResolveNth returns a query for the index-th match, e.g. the nth product row
func (r *Registry) ResolveNth(name string, index int) (entities.Query, error) {
	return r.ResolveRef(entities.Named(name).Nth(index))
}

// ResolveFiltered returns a query for the matches whose text passes filter
func (r *Registry) ResolveFiltered(name string, filter entities.TextFilter) (entities.Query, error) {
	ref := entities.Named(name)
	ref.Text = filter
	return r.ResolveRef(ref)
}

// ResolveRef resolves a caller reference
func (r *Registry) ResolveRef(ref entities.Ref) (entities.Query, error) {
	e, err := r.Entry(ref.Name)
	if err != nil {
		return entities.Query{}, err
	}
	return entities.Query{
		Locator:  e.Name,
		Selector: e.Selector,
		Scope:    e.Scope,
		Index:    ref.Index,
		Text:     ref.Text,
	}, nil
}

// Names lists registered names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered locators
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
