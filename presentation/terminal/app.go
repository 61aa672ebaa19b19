// Package terminal is the command line front end: it wires configuration,
// browser, fixtures and report storage into the runner.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"storefront_e2e/application/facade"
	"storefront_e2e/application/runner"
	"storefront_e2e/application/suites"
	"storefront_e2e/domain/entities"
	"storefront_e2e/domain/interfaces"
	"storefront_e2e/infrastructure/browser"
	"storefront_e2e/infrastructure/config"
	"storefront_e2e/infrastructure/fixtures"
	"storefront_e2e/infrastructure/scenariofile"
	"storefront_e2e/infrastructure/security"
	"storefront_e2e/infrastructure/storage"
	"storefront_e2e/infrastructure/telemetry"
)

var version = "0.1.0"

// NewApp builds the CLI. getenv is consulted after the optional .env file is
// loaded, so tests can pass a fixed environment.
func NewApp(stdout, stderr io.Writer, getenv func(string) string) *cli.App {
	return &cli.App{
		Name:      "storefront_e2e",
		Usage:     "Run end-to-end scenarios against a storefront",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Usage: "load environment variables from `FILE`"},
		},
		Before: func(c *cli.Context) error {
			if path := c.String("env-file"); path != "" {
				if err := godotenv.Load(path); err != nil {
					return fmt.Errorf("failed to load %s: %w", path, err)
				}
				return nil
			}
			// .env is optional
			_ = godotenv.Load()
			return nil
		},
		// main decides the exit code
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			runCommand(getenv),
			listCommand(),
			reportCommand(getenv),
		},
	}
}

func selectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: "suite", Aliases: []string{"s"}, Usage: "run only the named suites"},
		&cli.StringSliceFlag{Name: "tag", Aliases: []string{"t"}, Usage: "run only scenarios carrying one of the tags"},
		&cli.StringFlag{Name: "run", Usage: "run only scenarios whose suite/name matches `REGEXP`"},
		&cli.StringSliceFlag{Name: "scenario-file", Aliases: []string{"f"}, Usage: "load scenarios from a YAML `FILE`"},
	}
}

func runCommand(getenv func(string) string) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run scenarios and report the results",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "base-url", Usage: "storefront `URL`"},
			&cli.StringFlag{Name: "driver", Usage: "playwright, selenium or http"},
			&cli.StringFlag{Name: "browser", Usage: "chromium, firefox or webkit"},
			&cli.BoolFlag{Name: "headed", Usage: "show the browser window"},
			&cli.IntFlag{Name: "parallel", Aliases: []string{"p"}, Usage: "scenarios running at once"},
			&cli.IntFlag{Name: "retries", Usage: "extra attempts after an infrastructure failure"},
			&cli.BoolFlag{Name: "stop-on-failure", Usage: "skip the remaining scenarios after a failure"},
			&cli.BoolFlag{Name: "safe-mode", Usage: "refuse steps that delete or buy"},
			&cli.StringFlag{Name: "fixtures", Usage: "test data `FILE`"},
			&cli.BoolFlag{Name: "trace", Usage: "write spans to the report directory"},
		}, selectionFlags()...),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c, getenv)
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(c.App.ErrWriter)
			return run(c, cfg, logger)
		},
	}
}

// loadConfig reads the environment and applies the flags that were set
func loadConfig(c *cli.Context, getenv func(string) string) (*config.Config, error) {
	cfg, err := config.Load(getenv)
	if err != nil {
		return nil, err
	}
	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("driver") {
		cfg.Driver = browser.Kind(strings.ToLower(c.String("driver")))
	}
	if c.IsSet("browser") {
		cfg.Browser = strings.ToLower(c.String("browser"))
	}
	if c.IsSet("headed") {
		cfg.Headless = !c.Bool("headed")
	}
	if c.IsSet("parallel") {
		cfg.Parallelism = c.Int("parallel")
	}
	if c.IsSet("retries") {
		cfg.Retries = c.Int("retries")
	}
	if c.IsSet("stop-on-failure") {
		cfg.StopOnFailure = c.Bool("stop-on-failure")
	}
	if c.IsSet("safe-mode") {
		cfg.SafeMode = c.Bool("safe-mode")
	}
	if c.IsSet("fixtures") {
		cfg.FixturesFile = c.String("fixtures")
	}
	if c.IsSet("trace") {
		cfg.Trace = c.Bool("trace")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// selectedSuites returns the built-in suites named by --suite plus every
// scenario file. Scenario files alone replace the built-in suites.
func selectedSuites(c *cli.Context) ([]runner.Suite, error) {
	names := c.StringSlice("suite")
	files := c.StringSlice("scenario-file")

	var out []runner.Suite
	if len(names) > 0 || len(files) == 0 {
		builtin, err := suites.ByName(names...)
		if err != nil {
			return nil, err
		}
		out = append(out, builtin...)
	}
	for _, f := range files {
		s, err := scenariofile.Load(f)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func runnerConfig(c *cli.Context, cfg *config.Config) runner.Config {
	assertTimeout := cfg.AssertTimeout
	if assertTimeout == 0 {
		assertTimeout = runner.AssertOnce
	}
	return runner.Config{
		BaseURL: cfg.BaseURL,
		Facade: facade.Options{
			Timeout:      cfg.ActionTimeout,
			PollInterval: cfg.PollInterval,
		},
		ScenarioTimeout: cfg.ScenarioTimeout,
		TeardownTimeout: cfg.TeardownTimeout,
		AssertTimeout:   assertTimeout,
		Parallelism:     cfg.Parallelism,
		Retries:         cfg.Retries,
		RetryBackoff:    time.Second,
		StopOnFailure:   cfg.StopOnFailure,
		Tags:            c.StringSlice("tag"),
		Match:           c.String("run"),
	}
}

func fixtureProvider(cfg *config.Config) (interfaces.FixtureProvider, error) {
	if cfg.FixturesFile == "" {
		return fixtures.NewStatic(fixtures.Defaults()), nil
	}
	return fixtures.Load(cfg.FixturesFile)
}

func run(c *cli.Context, cfg *config.Config, logger *logrus.Logger) error {
	all, err := selectedSuites(c)
	if err != nil {
		return err
	}
	fx, err := fixtureProvider(cfg)
	if err != nil {
		return err
	}
	store, err := storage.NewReportStore(cfg.ReportDir, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Trace {
		f, err := os.Create(filepath.Join(store.Dir(), "trace-"+time.Now().UTC().Format("20060102T150405")+".json"))
		if err != nil {
			return fmt.Errorf("failed to create trace file: %w", err)
		}
		defer f.Close()
		tp, err := telemetry.Setup(f)
		if err != nil {
			return err
		}
		defer func() {
			if err := tp.Shutdown(context.WithoutCancel(ctx)); err != nil {
				logger.Warnf("Failed to flush traces: %v", err)
			}
		}()
	}

	provider, err := browser.NewProvider(cfg.Driver, cfg.BrowserOptions(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize browser: %w", err)
	}
	defer func() {
		if err := provider.Close(); err != nil {
			logger.Warnf("Failed to close browser: %v", err)
		}
	}()

	r, err := runner.New(runnerConfig(c, cfg), provider, logger,
		runner.WithFixtures(fx),
		runner.WithGuard(security.NewGuard(cfg.SafeMode, logger)),
		runner.WithSinks(store, NewReporter(c.App.Writer)),
	)
	if err != nil {
		return err
	}
	if len(r.Plan(all...)) == 0 {
		return cli.Exit("no scenarios selected", 2)
	}

	agg, err := r.Run(ctx, all...)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return cli.Exit("interrupted", 130)
	}
	if agg.Summary.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d scenarios failed", agg.Summary.Failed, agg.Summary.Total), 1)
	}
	return nil
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the scenarios a run would execute",
		Flags: selectionFlags(),
		Action: func(c *cli.Context) error {
			all, err := selectedSuites(c)
			if err != nil {
				return err
			}
			var match *regexp.Regexp
			if expr := c.String("run"); expr != "" {
				if match, err = regexp.Compile(expr); err != nil {
					return fmt.Errorf("invalid scenario filter %q: %w", expr, err)
				}
			}
			suite := ""
			for _, p := range runner.Select(all, c.StringSlice("tag"), match) {
				if p.Suite != suite {
					suite = p.Suite
					fmt.Fprintf(c.App.Writer, "%s %s\n", groupPrefix, suite)
				}
				line := "  " + p.Scenario.Name
				if len(p.Scenario.Tags) > 0 {
					line += " " + grayColor.Sprintf("[%s]", strings.Join(p.Scenario.Tags, ", "))
				}
				fmt.Fprintln(c.App.Writer, line)
			}
			return nil
		},
	}
}

func reportCommand(getenv func(string) string) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Show a stored run, the latest by default",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Usage: "show the run with this `ID`"},
			&cli.BoolFlag{Name: "history", Usage: "list stored run ids, newest first"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(getenv)
			if err != nil {
				return err
			}
			store, err := storage.NewReportStore(cfg.ReportDir, cfg.NewLogger(c.App.ErrWriter))
			if err != nil {
				return err
			}
			if c.Bool("history") {
				ids, err := store.History()
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(c.App.Writer, id)
				}
				return nil
			}

			load := store.Latest
			if id := c.String("id"); id != "" {
				load = func() (entities.AggregateResult, error) { return store.Load(id) }
			}
			result, err := load()
			if err != nil {
				return err
			}
			_, err = io.WriteString(c.App.Writer, Summary(result))
			return err
		},
	}
}

// ExitCode maps an error returned by the app to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return 1
}
