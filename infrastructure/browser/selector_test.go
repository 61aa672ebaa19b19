package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSelector(t *testing.T) {
	tests := []struct {
		name string
		sel  string
		want []alternative
	}{
		{
			name: "single css",
			sel:  ".cart-item-row",
			want: []alternative{{CSS: ".cart-item-row"}},
		},
		{
			name: "list",
			sel:  ".result, .no-result , #empty",
			want: []alternative{{CSS: ".result"}, {CSS: ".no-result"}, {CSS: "#empty"}},
		},
		{
			name: "commas inside attribute values and functions",
			sel:  `input[value="a,b"], :is(.x, .y)`,
			want: []alternative{{CSS: `input[value="a,b"]`}, {CSS: ":is(.x, .y)"}},
		},
		{
			name: "text engine",
			sel:  `text="Shopping cart"`,
			want: []alternative{{Text: "Shopping cart"}},
		},
		{
			name: "has-text",
			sel:  `a:has-text("Log in"), button:has-text('Go, now')`,
			want: []alternative{{CSS: "a", Text: "Log in"}, {CSS: "button", Text: "Go, now"}},
		},
		{
			name: "bare has-text matches any element",
			sel:  `:has-text("Reviews")`,
			want: []alternative{{CSS: "*", Text: "Reviews"}},
		},
		{
			name: "empty",
			sel:  " , ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSelector(tt.sel))
		})
	}
}

func TestContainsText(t *testing.T) {
	assert.True(t, containsText("  Shopping\n   Cart (2) ", "shopping cart"))
	assert.False(t, containsText("Wishlist", "cart"))
}

func TestMatchesFilter(t *testing.T) {
	assert.True(t, matchesFilter("  Books \n", "Books", true))
	assert.False(t, matchesFilter("Books & more", "Books", true))
	assert.True(t, matchesFilter("Books & more", "Books", false))
	assert.False(t, matchesFilter("books", "Books", false))
}

func TestResolveURL(t *testing.T) {
	got, err := resolveURL("http://shop.test", "about:blank", "/cart")
	assert.NoError(t, err)
	assert.Equal(t, "http://shop.test/cart", got)

	got, err = resolveURL("http://shop.test", "http://shop.test/books?page=2", "notebooks")
	assert.NoError(t, err)
	assert.Equal(t, "http://shop.test/notebooks", got)

	got, err = resolveURL("", "", "https://other.test/x")
	assert.NoError(t, err)
	assert.Equal(t, "https://other.test/x", got)

	_, err = resolveURL("", "", "/cart")
	assert.Error(t, err)
}
