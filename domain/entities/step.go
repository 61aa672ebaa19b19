package entities

import "fmt"

// StepKind represents the primitive interaction a step performs
type StepKind string

const (
	StepNavigate StepKind = "navigate"
	StepClick    StepKind = "click"
	StepFill     StepKind = "fill"
	StepClear    StepKind = "clear"
	StepCheck    StepKind = "check"
	StepUncheck  StepKind = "uncheck"
	StepSelect   StepKind = "select"
)

// Step is a single primitive interaction of a composed action.
// Navigate steps use Value as the URL and ignore Target.
type Step struct {
	Kind   StepKind
	Target Ref
	Value  string
}

func (s Step) String() string {
	switch s.Kind {
	case StepNavigate:
		return fmt.Sprintf("navigate(%s)", s.Value)
	case StepFill, StepSelect:
		return fmt.Sprintf("%s(%s, %q)", s.Kind, s.Target, s.Value)
	default:
		return fmt.Sprintf("%s(%s)", s.Kind, s.Target)
	}
}

func Navigate(url string) Step { return Step{Kind: StepNavigate, Value: url} }

func Click(ref Ref) Step { return Step{Kind: StepClick, Target: ref} }

func Fill(ref Ref, value string) Step { return Step{Kind: StepFill, Target: ref, Value: value} }

func Clear(ref Ref) Step { return Step{Kind: StepClear, Target: ref} }

func Check(ref Ref) Step { return Step{Kind: StepCheck, Target: ref} }

func Uncheck(ref Ref) Step { return Step{Kind: StepUncheck, Target: ref} }

func SelectOption(ref Ref, value string) Step {
	return Step{Kind: StepSelect, Target: ref, Value: value}
}
