package locator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_e2e/domain/entities"
)

func TestRegister_ResolveReturnsRegisteredSelector(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		scope    []string
	}{
		{name: "searchBox", selector: "#small-searchterms"},
		{name: "cartItems", selector: ".cart-item-row"},
		{name: "nextPage", selector: ".next-page", scope: []string{".pager"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN
			r := NewRegistry("cart")
			require.NoError(t, r.Register(tt.name, tt.selector, tt.scope...))

			// WHEN
			q, err := r.Resolve(tt.name)

			// THEN
			require.NoError(t, err)
			assert.Equal(t, tt.name, q.Locator)
			assert.Equal(t, tt.selector, q.Selector)
			assert.Equal(t, entities.NoIndex, q.Index)
			assert.True(t, q.Text.IsZero())
			if len(tt.scope) > 0 {
				assert.Equal(t, tt.scope[0], q.Scope)
			}

			// resolving twice yields the same query
			again, err := r.Resolve(tt.name)
			require.NoError(t, err)
			assert.Equal(t, q, again)
		})
	}
}

func TestRegister_DuplicateNameAlwaysFails(t *testing.T) {
	selectors := []string{".qty-input", ".other", ".qty-input"}

	for _, sel := range selectors {
		r := NewRegistry("cart")
		require.NoError(t, r.Register("quantity", ".qty-input"))

		err := r.Register("quantity", sel)

		var dup *entities.DuplicateNameError
		require.True(t, errors.As(err, &dup), "selector %q", sel)
		assert.Equal(t, "quantity", dup.Name)
		assert.Equal(t, "locator", dup.Kind)
		assert.Equal(t, "cart", dup.Page)
	}
}

func TestRegister_RejectsEmptyNameOrSelector(t *testing.T) {
	r := NewRegistry("home")

	assert.ErrorIs(t, r.Register("", ".logo"), entities.ErrInvalidLocator)
	assert.ErrorIs(t, r.Register("logo", ""), entities.ErrInvalidLocator)
	assert.Equal(t, 0, r.Len())
}

func TestResolve_UnknownLocator(t *testing.T) {
	r := NewRegistry("home")

	_, err := r.Resolve("missing")

	var unknown *entities.UnknownLocatorError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "missing", unknown.Name)
	assert.Equal(t, "home", unknown.Page)
}

func TestResolveNth(t *testing.T) {
	r := NewRegistry("cart")
	r.MustRegister("removeCheckbox", `.remove-from-cart input[type="checkbox"]`)

	q, err := r.ResolveNth("removeCheckbox", 2)

	require.NoError(t, err)
	assert.Equal(t, 2, q.Index)
	assert.Equal(t, `.remove-from-cart input[type="checkbox"]`, q.Selector)
	assert.Equal(t, entities.NoIndex, q.Unindexed().Index)
}

func TestResolveFiltered(t *testing.T) {
	r := NewRegistry("home")
	r.MustRegister("categories", ".top-menu a")

	q, err := r.ResolveFiltered("categories", entities.TextFilter{Value: "Books", Exact: true})

	require.NoError(t, err)
	assert.Equal(t, "Books", q.Text.Value)
	assert.True(t, q.Text.Exact)
	assert.Equal(t, entities.NoIndex, q.Index)
}

func TestResolveRef_FilterThenIndex(t *testing.T) {
	r := NewRegistry("login")
	r.MustRegister("submit", `button[type="submit"]`)

	q, err := r.ResolveRef(entities.Named("submit").WithText("Log in").First())

	require.NoError(t, err)
	assert.Equal(t, "Log in", q.Text.Value)
	assert.False(t, q.Text.Exact)
	assert.Equal(t, 0, q.Index)
}

func TestMustRegister_PanicsOnDuplicate(t *testing.T) {
	r := NewRegistry("home")
	r.MustRegister("logo", ".logo")

	assert.Panics(t, func() { r.MustRegister("logo", ".header-logo") })
}

func TestRegisterAll_StopsAtFirstError(t *testing.T) {
	r := NewRegistry("product")

	err := r.RegisterAll(
		entities.LocatorEntry{Name: "title", Selector: ".product-name h1"},
		entities.LocatorEntry{Name: "title", Selector: ".other"},
		entities.LocatorEntry{Name: "price", Selector: ".price"},
	)

	var dup *entities.DuplicateNameError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, []string{"title"}, r.Names())
}
