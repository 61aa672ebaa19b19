package terminal

import (
	"bytes"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"storefront_e2e/application/runner"
	"storefront_e2e/infrastructure/config"
)

type app struct {
	env    map[string]string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newApp(t *testing.T, env map[string]string) *app {
	t.Helper()
	if env == nil {
		env = map[string]string{}
	}
	if _, ok := env["REPORT_DIR"]; !ok {
		env["REPORT_DIR"] = t.TempDir()
	}
	return &app{env: env}
}

func (a *app) run(args ...string) error {
	a.stdout.Reset()
	a.stderr.Reset()
	cmd := NewApp(&a.stdout, &a.stderr, func(k string) string { return a.env[k] })
	return cmd.Run(append([]string{"storefront_e2e"}, args...))
}

func TestList(t *testing.T) {
	a := newApp(t, nil)

	require.NoError(t, a.run("list", "--suite", "cart", "--run", "empty"))
	assert.Equal(t, "█ cart\n", strings.SplitAfter(a.stdout.String(), "\n")[0])
	assert.Contains(t, a.stdout.String(), "empty cart shows the empty message")
	assert.NotContains(t, a.stdout.String(), "checkout")

	err := a.run("list", "--suite", "wishlist")
	assert.ErrorContains(t, err, `unknown suite "wishlist"`)
}

const scenarios = `
suite: smoke
scenarios:
  - name: home page has a title
    body:
      - goto: /
      - expect: home.title
        contains: Demo
  - name: home page title is exact
    tags: [strict]
    body:
      - goto: /
      - expect: home.title
        equals: Another Store
`

func writeScenarios(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "smoke.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarios), 0o644))
	return path
}

func storefront(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><head><title>Demo Store</title></head><body><h1>Welcome</h1></body></html>`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_ScenarioFileOverHTTP(t *testing.T) {
	srv := storefront(t)
	a := newApp(t, map[string]string{
		"BASE_URL":         srv.URL,
		"BROWSER_DRIVER":   "http",
		"ASSERT_TIMEOUT":   "50ms",
		"SCENARIO_TIMEOUT": "5s",
	})
	file := writeScenarios(t)

	// WHEN only the passing scenario runs
	err := a.run("run", "-f", file, "--run", "has a title")

	// THEN the run passes and is stored
	require.NoError(t, err, a.stderr.String())
	assert.Contains(t, a.stdout.String(), "✓ home page has a title")
	assert.Contains(t, a.stdout.String(), "1 passed, 0 failed, 0 skipped of 1")

	require.NoError(t, a.run("report", "--history"))
	ids := strings.Fields(a.stdout.String())
	require.Len(t, ids, 1)

	require.NoError(t, a.run("report"))
	assert.Contains(t, a.stdout.String(), "home page has a title")
	assert.Contains(t, a.stdout.String(), "run "+ids[0])

	require.NoError(t, a.run("report", "--id", ids[0]))
	assert.Contains(t, a.stdout.String(), "█ smoke")
}

func TestRun_FailureSetsExitCode(t *testing.T) {
	srv := storefront(t)
	a := newApp(t, map[string]string{
		"BASE_URL":       srv.URL,
		"BROWSER_DRIVER": "http",
		"ASSERT_TIMEOUT": "50ms",
	})

	err := a.run("run", "-f", writeScenarios(t), "--tag", "strict")

	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, err.Error(), "1 of 1 scenarios failed")
	assert.Contains(t, a.stdout.String(), `✗ home page title is exact`)
	assert.Contains(t, a.stdout.String(), `expected "Another Store", got "Demo Store"`)
}

func TestRun_NothingSelected(t *testing.T) {
	a := newApp(t, map[string]string{"BROWSER_DRIVER": "http"})

	err := a.run("run", "--suite", "cart", "--tag", "no-such-tag")

	assert.Equal(t, 2, ExitCode(err))
}

func TestRun_InvalidFlags(t *testing.T) {
	a := newApp(t, nil)

	err := a.run("run", "--driver", "puppeteer")
	assert.ErrorContains(t, err, "BROWSER_DRIVER must be one of")

	err = a.run("run", "--parallel", "0")
	assert.ErrorContains(t, err, "PARALLELISM must be at least 1")
}

func TestReport_NoRuns(t *testing.T) {
	a := newApp(t, nil)
	assert.ErrorContains(t, a.run("report"), "no runs stored yet")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(io.EOF))
}

func TestRunnerConfig_ZeroAssertTimeoutEvaluatesOnce(t *testing.T) {
	c := cli.NewContext(cli.NewApp(), flag.NewFlagSet("run", flag.ContinueOnError), nil)

	tests := []struct {
		name string
		in   time.Duration
		want time.Duration
	}{
		{"zero", 0, runner.AssertOnce},
		{"positive", 2 * time.Second, 2 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(func(k string) string { return "" })
			require.NoError(t, err)
			cfg.AssertTimeout = tt.in

			assert.Equal(t, tt.want, runnerConfig(c, cfg).AssertTimeout)
		})
	}
}
