package scenariofile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_e2e/application/facade"
	"storefront_e2e/application/pages/pagestest"
	"storefront_e2e/application/runner"
	"storefront_e2e/domain/entities"
	"storefront_e2e/infrastructure/fixtures"
	"storefront_e2e/infrastructure/scenariofile"
)

const smoke = `
suite: smoke
scenarios:
  - name: search finds a laptop
    tags: [smoke]
    timeout: 5s
    setup:
      - goto: /
    body:
      - do: home.search
        args: {term: "${fixtures.searchTerms.valid.0}"}
      - expect: search.resultCount
        at_least: 1
      - expect: search.isNoResultVisible
        is: false
  - name: unknown term finds nothing
    body:
      - goto: /
      - do: home.search
        args:
          term: ${fixtures.searchTerms.invalid.0}
      - expect: search.noResultMessage
        contains: No products
      - expect: search.resultCount
        count: 0
  - name: currency selector
    body:
      - goto: /
      - skip_unless_visible: home.isCurrencySelectorVisible
      - expect: home.isCurrencySelectorVisible
        is: true
`

func TestParse_CompilesScenarios(t *testing.T) {
	suite, err := scenariofile.Parse([]byte(smoke), "ignored")
	require.NoError(t, err)

	assert.Equal(t, "smoke", suite.Name)
	require.Len(t, suite.Scenarios, 3)
	first := suite.Scenarios[0]
	assert.Equal(t, []string{"smoke"}, first.Tags)
	assert.Equal(t, 5*time.Second, first.Timeout)
	assert.NotNil(t, first.Setup)
	assert.Nil(t, first.Teardown)
	require.Len(t, first.Body, 3)
	assert.Equal(t, "do home.search", first.Body[0].Name)
	assert.Equal(t, "expect search.resultCount", first.Body[1].Name)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "no scenarios",
			doc:  "suite: empty\n",
			want: `suite "empty" has no scenarios`,
		},
		{
			name: "unknown field",
			doc:  "suite: x\nscenarios:\n  - name: a\n    bdy: []\n",
			want: "field bdy not found",
		},
		{
			name: "unknown page",
			doc:  "scenarios:\n  - name: a\n    body:\n      - do: wishlist.open\n",
			want: `unknown page "wishlist"`,
		},
		{
			name: "unknown action",
			doc:  "scenarios:\n  - name: a\n    body:\n      - do: home.fly\n",
			want: `page "home" has no action "fly"`,
		},
		{
			name: "unknown query",
			doc:  "scenarios:\n  - name: a\n    body:\n      - expect: cart.weight\n        count: 1\n",
			want: `page "cart" has no query "weight"`,
		},
		{
			name: "malformed reference",
			doc:  "scenarios:\n  - name: a\n    body:\n      - do: search\n",
			want: `"search" is not of the form page.name`,
		},
		{
			name: "two kinds in one step",
			doc:  "scenarios:\n  - name: a\n    body:\n      - goto: /\n        do: home.search\n",
			want: "need exactly one of goto, do, expect or skip_unless_visible, got [do goto]",
		},
		{
			name: "expect without assertion",
			doc:  "scenarios:\n  - name: a\n    body:\n      - expect: home.title\n",
			want: "needs exactly one of equals, contains, is, count or at_least",
		},
		{
			name: "duplicate scenario",
			doc:  "scenarios:\n  - name: a\n    body: [{goto: /}]\n  - name: a\n    body: [{goto: /}]\n",
			want: `duplicate scenario "a"`,
		},
		{
			name: "bad timeout",
			doc:  "scenarios:\n  - name: a\n    timeout: soon\n    body: [{goto: /}]\n",
			want: `invalid timeout "soon"`,
		},
		{
			name: "empty body",
			doc:  "scenarios:\n  - name: a\n    setup: [{goto: /}]\n",
			want: "body is empty",
		},
		{
			name: "error names the step",
			doc:  "scenarios:\n  - name: a\n    body: [{goto: /}]\n    teardown: [{goto: /}, {do: home.fly}]\n",
			want: `scenario "a": teardown step 2`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scenariofile.Parse([]byte(tt.doc), "file")
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad_SuiteNameFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkout-smoke.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenarios:\n  - name: a\n    body: [{goto: /}]\n"), 0o644))

	suite, err := scenariofile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "checkout-smoke", suite.Name)

	_, err = scenariofile.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read scenario file")
}

func TestScenarios_RunAgainstFakeStore(t *testing.T) {
	// GIVEN the smoke file and the fake storefront
	suite, err := scenariofile.Parse([]byte(smoke), "")
	require.NoError(t, err)
	store := pagestest.New("http://shop.test")
	r, err := runner.New(runner.Config{
		BaseURL:         "http://shop.test",
		Facade:          facade.Options{Timeout: 200 * time.Millisecond, PollInterval: 5 * time.Millisecond},
		ScenarioTimeout: 5 * time.Second,
		TeardownTimeout: time.Second,
		AssertTimeout:   100 * time.Millisecond,
	}, store.Provider(), nil, runner.WithFixtures(fixtures.NewStatic(fixtures.Defaults())))
	require.NoError(t, err)

	// WHEN it runs
	agg, err := r.Run(context.Background(), suite)
	require.NoError(t, err)

	// THEN searches pass and the missing selector skips
	require.Len(t, agg.Scenarios, 3)
	want := []entities.ScenarioStatus{entities.StatusPassed, entities.StatusPassed, entities.StatusSkipped}
	for i, res := range agg.Scenarios {
		assert.Equal(t, want[i], res.Status, "%s: %s %v", res.Name, res.Error, res.Failures)
	}
	assert.Contains(t, agg.Scenarios[2].Message, "home.isCurrencySelectorVisible not shown")
}
