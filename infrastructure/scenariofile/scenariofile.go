// Package scenariofile loads scenarios written in YAML. A file describes one
// suite whose steps call page object actions and queries by name:
//
//	suite: smoke
//	scenarios:
//	  - name: search finds a laptop
//	    tags: [smoke]
//	    setup:
//	      - goto: /
//	    body:
//	      - do: home.search
//	        args: {term: "${fixtures.searchTerms.valid.0}"}
//	      - expect: search.resultCount
//	        at_least: 1
//
// Pages, actions and queries are checked when the file is loaded.
package scenariofile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"storefront_e2e/application/facade"
	"storefront_e2e/application/page"
	"storefront_e2e/application/pages"
	"storefront_e2e/application/runner"
	"storefront_e2e/domain/entities"
	"storefront_e2e/domain/interfaces"
	"storefront_e2e/infrastructure/fixtures"
)

// File is the YAML document
type File struct {
	Suite     string     `yaml:"suite"`
	Scenarios []Scenario `yaml:"scenarios"`
}

type Scenario struct {
	Name     string   `yaml:"name"`
	Tags     []string `yaml:"tags"`
	Timeout  string   `yaml:"timeout"`
	Setup    []Step   `yaml:"setup"`
	Body     []Step   `yaml:"body"`
	Teardown []Step   `yaml:"teardown"`
}

// Step has exactly one of Goto, Do, Expect and SkipUnlessVisible. An
// expectation has exactly one of Equals, Contains, Is, Count and AtLeast.
type Step struct {
	Goto              string         `yaml:"goto"`
	Do                string         `yaml:"do"`
	Expect            string         `yaml:"expect"`
	SkipUnlessVisible string         `yaml:"skip_unless_visible"`
	Args              map[string]any `yaml:"args"`

	Equals   *string `yaml:"equals"`
	Contains *string `yaml:"contains"`
	Is       *bool   `yaml:"is"`
	Count    *int    `yaml:"count"`
	AtLeast  *int    `yaml:"at_least"`

	// Reason is reported when skip_unless_visible skips
	Reason string `yaml:"reason"`
}

// Load reads and compiles a scenario file. The suite name defaults to the
// file name without extension.
func Load(path string) (runner.Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return runner.Suite{}, fmt.Errorf("failed to read scenario file: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	suite, err := Parse(raw, name)
	if err != nil {
		return runner.Suite{}, fmt.Errorf("%s: %w", path, err)
	}
	return suite, nil
}

// Parse compiles a scenario document
func Parse(raw []byte, defaultSuite string) (runner.Suite, error) {
	var f File
	dec := yaml.NewDecoder(strings.NewReader(string(raw)))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return runner.Suite{}, fmt.Errorf("failed to parse scenarios: %w", err)
	}
	if f.Suite == "" {
		f.Suite = defaultSuite
	}
	if f.Suite == "" {
		return runner.Suite{}, errors.New("suite name is required")
	}
	if len(f.Scenarios) == 0 {
		return runner.Suite{}, fmt.Errorf("suite %q has no scenarios", f.Suite)
	}

	cat := newCatalog()
	suite := runner.Suite{Name: f.Suite}
	seen := make(map[string]bool)
	for i, s := range f.Scenarios {
		if s.Name == "" {
			return runner.Suite{}, fmt.Errorf("scenario %d: name is required", i+1)
		}
		if seen[s.Name] {
			return runner.Suite{}, fmt.Errorf("duplicate scenario %q in suite %q", s.Name, f.Suite)
		}
		seen[s.Name] = true
		sc, err := s.compile(cat)
		if err != nil {
			return runner.Suite{}, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		suite.Scenarios = append(suite.Scenarios, sc)
	}
	return suite, nil
}

func (s Scenario) compile(cat catalog) (runner.Scenario, error) {
	sc := runner.Scenario{Name: s.Name, Tags: slices.Clone(s.Tags)}
	if s.Timeout != "" {
		d, err := time.ParseDuration(s.Timeout)
		if err != nil || d <= 0 {
			return sc, fmt.Errorf("invalid timeout %q", s.Timeout)
		}
		sc.Timeout = d
	}
	if len(s.Body) == 0 {
		return sc, errors.New("body is empty")
	}

	setup, err := compileSteps(cat, "setup", s.Setup)
	if err != nil {
		return sc, err
	}
	teardown, err := compileSteps(cat, "teardown", s.Teardown)
	if err != nil {
		return sc, err
	}
	body, err := compileSteps(cat, "body", s.Body)
	if err != nil {
		return sc, err
	}
	sc.Setup = hook(setup)
	sc.Teardown = hook(teardown)
	sc.Body = body
	return sc, nil
}

func hook(steps []runner.BodyStep) runner.Hook {
	if len(steps) == 0 {
		return nil
	}
	return func(sc *runner.Context) error {
		for _, s := range steps {
			if err := s.Run(sc); err != nil {
				return fmt.Errorf("%s: %w", s.Name, err)
			}
		}
		return nil
	}
}

func compileSteps(cat catalog, phase string, steps []Step) ([]runner.BodyStep, error) {
	out := make([]runner.BodyStep, 0, len(steps))
	for i, st := range steps {
		bs, err := st.compile(cat)
		if err != nil {
			return nil, fmt.Errorf("%s step %d: %w", phase, i+1, err)
		}
		out = append(out, bs)
	}
	return out, nil
}

func (st Step) compile(cat catalog) (runner.BodyStep, error) {
	var kinds []string
	for kind, v := range map[string]string{"goto": st.Goto, "do": st.Do, "expect": st.Expect, "skip_unless_visible": st.SkipUnlessVisible} {
		if v != "" {
			kinds = append(kinds, kind)
		}
	}
	if len(kinds) != 1 {
		slices.Sort(kinds)
		return runner.BodyStep{}, fmt.Errorf("need exactly one of goto, do, expect or skip_unless_visible, got %v", kinds)
	}
	args := stringArgs(st.Args)

	switch {
	case st.Goto != "":
		path := st.Goto
		return runner.Step("goto "+path, func(sc *runner.Context) error {
			p, err := expand(sc.Fixtures(), path)
			if err != nil {
				return err
			}
			return sc.Goto(p)
		}), nil

	case st.Do != "":
		pageName, action, err := cat.action(st.Do)
		if err != nil {
			return runner.BodyStep{}, err
		}
		return runner.Step("do "+st.Do, func(sc *runner.Context) error {
			a, err := expandArgs(sc.Fixtures(), args)
			if err != nil {
				return err
			}
			obj, err := pageOf(sc, pageName)
			if err != nil {
				return err
			}
			return obj.Do(sc.Context(), action, a)
		}), nil

	case st.SkipUnlessVisible != "":
		pageName, query, err := cat.query(st.SkipUnlessVisible)
		if err != nil {
			return runner.BodyStep{}, err
		}
		reason := st.Reason
		if reason == "" {
			reason = st.SkipUnlessVisible + " not shown"
		}
		return runner.Step("skip unless "+st.SkipUnlessVisible, func(sc *runner.Context) error {
			obj, err := pageOf(sc, pageName)
			if err != nil {
				return err
			}
			a, err := expandArgs(sc.Fixtures(), args)
			if err != nil {
				return err
			}
			ok, err := obj.AskBool(sc.Context(), query, a)
			if err != nil {
				return err
			}
			return sc.SkipUnless(ok, reason)
		}), nil
	}

	pageName, query, err := cat.query(st.Expect)
	if err != nil {
		return runner.BodyStep{}, err
	}
	check, err := st.expectation()
	if err != nil {
		return runner.BodyStep{}, err
	}
	desc := st.Expect
	return runner.Step("expect "+desc, func(sc *runner.Context) error {
		obj, err := pageOf(sc, pageName)
		if err != nil {
			return err
		}
		a, err := expandArgs(sc.Fixtures(), args)
		if err != nil {
			return err
		}
		return check(sc, desc, obj, query, a)
	}), nil
}

type checkFunc func(sc *runner.Context, desc string, obj *page.Object, query string, args page.Args) error

// expectation picks the assertion of an expect step
func (st Step) expectation() (checkFunc, error) {
	var set []string
	if st.Equals != nil {
		set = append(set, "equals")
	}
	if st.Contains != nil {
		set = append(set, "contains")
	}
	if st.Is != nil {
		set = append(set, "is")
	}
	if st.Count != nil {
		set = append(set, "count")
	}
	if st.AtLeast != nil {
		set = append(set, "at_least")
	}
	if len(set) != 1 {
		return nil, fmt.Errorf("expect %s needs exactly one of equals, contains, is, count or at_least, got %v", st.Expect, set)
	}

	str := func(obj *page.Object, q string, a page.Args) func(context.Context) (string, error) {
		return func(ctx context.Context) (string, error) { return obj.AskString(ctx, q, a) }
	}
	num := func(obj *page.Object, q string, a page.Args) func(context.Context) (int, error) {
		return func(ctx context.Context) (int, error) { return obj.AskInt(ctx, q, a) }
	}

	switch set[0] {
	case "equals":
		want := *st.Equals
		return func(sc *runner.Context, desc string, obj *page.Object, q string, a page.Args) error {
			w, err := expand(sc.Fixtures(), want)
			if err != nil {
				return err
			}
			return sc.ExpectEqual(desc, w, str(obj, q, a))
		}, nil
	case "contains":
		want := *st.Contains
		return func(sc *runner.Context, desc string, obj *page.Object, q string, a page.Args) error {
			w, err := expand(sc.Fixtures(), want)
			if err != nil {
				return err
			}
			return sc.ExpectContains(desc, w, str(obj, q, a))
		}, nil
	case "is":
		want := *st.Is
		return func(sc *runner.Context, desc string, obj *page.Object, q string, a page.Args) error {
			probe := func(ctx context.Context) (bool, error) { return obj.AskBool(ctx, q, a) }
			if want {
				return sc.ExpectTrue(desc, probe)
			}
			return sc.ExpectFalse(desc, probe)
		}, nil
	case "count":
		want := *st.Count
		return func(sc *runner.Context, desc string, obj *page.Object, q string, a page.Args) error {
			return sc.ExpectCount(desc, want, num(obj, q, a))
		}, nil
	default:
		least := *st.AtLeast
		return func(sc *runner.Context, desc string, obj *page.Object, q string, a page.Args) error {
			return sc.ExpectAtLeast(desc, least, num(obj, q, a))
		}, nil
	}
}

func stringArgs(in map[string]any) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		if v == nil {
			out[k] = ""
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out
}

var fixtureRef = regexp.MustCompile(`\$\{fixtures\.([^}]+)\}`)

// expand substitutes ${fixtures.path} references
func expand(f entities.Fixtures, s string) (string, error) {
	var firstErr error
	out := fixtureRef.ReplaceAllStringFunc(s, func(ref string) string {
		path := fixtureRef.FindStringSubmatch(ref)[1]
		v, err := fixtures.Lookup(f, path)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return v
	})
	return out, firstErr
}

func expandArgs(f entities.Fixtures, args map[string]string) (page.Args, error) {
	if args == nil {
		return nil, nil
	}
	out := make(page.Args, len(args))
	for k, v := range args {
		e, err := expand(f, v)
		if err != nil {
			return nil, err
		}
		out[k] = e
	}
	return out, nil
}

const siteKey = "scenariofile.site"

// pageOf returns the named page of the scenario, building its site once
func pageOf(sc *runner.Context, name string) (*page.Object, error) {
	site, ok := sc.Load(siteKey).(*pages.Site)
	if !ok {
		site = pages.NewSite(sc)
		sc.Store(siteKey, site)
	}
	return site.Page(name)
}

// catalog knows every page's actions and queries. Its pages are bound to a
// session that refuses every call; they are only inspected, never run.
type catalog struct {
	site *pages.Site
}

func newCatalog() catalog {
	return catalog{site: pages.NewSite(offlineEnv{facade.New(offlineSession{}, facade.Options{}, nil)})}
}

func (c catalog) split(ref string) (*page.Object, string, error) {
	pageName, member, ok := strings.Cut(ref, ".")
	if !ok || pageName == "" || member == "" {
		return nil, "", fmt.Errorf("%q is not of the form page.name", ref)
	}
	obj, err := c.site.Page(pageName)
	if err != nil {
		return nil, "", err
	}
	return obj, member, nil
}

func (c catalog) action(ref string) (string, string, error) {
	obj, name, err := c.split(ref)
	if err != nil {
		return "", "", err
	}
	if !obj.HasAction(name) {
		return "", "", fmt.Errorf("%w, have %v", &entities.UnknownActionError{Page: obj.Name(), Kind: "action", Name: name}, obj.Actions())
	}
	return obj.Name(), name, nil
}

func (c catalog) query(ref string) (string, string, error) {
	obj, name, err := c.split(ref)
	if err != nil {
		return "", "", err
	}
	if !obj.HasQuery(name) {
		return "", "", fmt.Errorf("%w, have %v", &entities.UnknownActionError{Page: obj.Name(), Kind: "query", Name: name}, obj.Queries())
	}
	return obj.Name(), name, nil
}

type offlineEnv struct {
	f *facade.Facade
}

func (e offlineEnv) Facade() *facade.Facade { return e.f }

func (e offlineEnv) URL(path string) string { return path }

var errOffline = errors.New("scenario file catalog has no browser")

type offlineSession struct{}

func (offlineSession) ID() string { return "offline" }
func (offlineSession) Navigate(context.Context, string) error { return errOffline }
func (offlineSession) URL(context.Context) (string, error) { return "", errOffline }
func (offlineSession) Title(context.Context) (string, error) { return "", errOffline }
func (offlineSession) Driver() interfaces.Driver { return nil }
func (offlineSession) Close(context.Context) error { return nil }
func (offlineSession) Snapshot(context.Context) (entities.PageInfo, error) {
	return entities.PageInfo{}, errOffline
}
