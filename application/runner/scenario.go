package runner

import (
	"regexp"
	"time"
)

// Hook is a setup or teardown function
type Hook func(sc *Context) error

// StepFunc is one body step of a scenario
type StepFunc func(sc *Context) error

// BodyStep is a named body step. Names show up in traces and logs.
type BodyStep struct {
	Name string
	Run  StepFunc
}

// Step creates a body step
func Step(name string, fn StepFunc) BodyStep {
	return BodyStep{Name: name, Run: fn}
}

// Scenario is one independent test case
type Scenario struct {
	Name     string
	Tags     []string
	Setup    Hook
	Body     []BodyStep
	Teardown Hook

	// Timeout overrides Config.ScenarioTimeout when positive
	Timeout time.Duration
}

// Suite is an ordered collection of scenarios
type Suite struct {
	Name      string
	Scenarios []Scenario
}

// Planned is a scenario selected for execution, in declaration order
type Planned struct {
	Suite    string
	Scenario Scenario
}

// ID returns "suite/name"
func (p Planned) ID() string {
	return p.Suite + "/" + p.Scenario.Name
}

// Select flattens suites into declaration order, keeping scenarios that carry
// one of tags (any tag when empty) and whose ID matches match (all when nil).
func Select(suites []Suite, tags []string, match *regexp.Regexp) []Planned {
	var out []Planned
	for _, s := range suites {
		for _, sc := range s.Scenarios {
			p := Planned{Suite: s.Name, Scenario: sc}
			if !hasAnyTag(sc.Tags, tags) {
				continue
			}
			if match != nil && !match.MatchString(p.ID()) {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

func hasAnyTag(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
