package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	f := Defaults()

	assert.Equal(t, "testuser@example.com", f.ValidUser.Email)
	assert.Equal(t, "Computers", f.Categories[0])
	assert.Equal(t, "Gift Cards", f.Categories[6])
	assert.Equal(t, "laptop", f.Product("laptop"))
	assert.Equal(t, "unknown", f.Product("unknown"))
	assert.Regexp(t, `^test\d+@example\.com$`, f.NewUser.Email)
	assert.Len(t, f.Security.LongStrings[0], 1000)
	assert.Equal(t, 3, f.Quantities.Multiple)
}

func TestStatic_ReturnsIndependentCopies(t *testing.T) {
	s := NewStatic(Defaults())

	a := s.Fixtures()
	a.Categories[0] = "changed"
	a.Products["laptop"] = "changed"

	b := s.Fixtures()
	assert.Equal(t, "Computers", b.Categories[0])
	assert.Equal(t, "laptop", b.Products["laptop"])
}

func TestParse_OverlaysDefaults(t *testing.T) {
	f, err := Parse([]byte(`
validUser:
  email: other@example.com
  password: secret
categories: [Books]
products:
  laptop: notebook
`))
	require.NoError(t, err)

	assert.Equal(t, "other@example.com", f.ValidUser.Email)
	assert.Equal(t, []string{"Books"}, f.Categories)
	assert.Equal(t, "notebook", f.Products["laptop"])
	assert.Equal(t, "phone", f.Products["phone"], "untouched map keys keep their default")
	assert.Equal(t, "John", f.NewUser.FirstName)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("validUser: [1, 2"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte("searchTerms:\n  valid: [book]\n"), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"book"}, s.Fixtures().SearchTerms.Valid)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	f := Defaults()

	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{path: "validUser.email", want: "testuser@example.com"},
		{path: "searchTerms.valid.0", want: "laptop"},
		{path: "categories.6", want: "Gift Cards"},
		{path: "productQuantities.multiple", want: "3"},
		{path: "sortOptions.priceAsc", want: "10"},
		{path: "validUser.phone", wantErr: true},
		{path: "categories.99", wantErr: true},
		{path: "validUser", wantErr: true},
		{path: "validUser.email.x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Lookup(f, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
