package entities

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidLocator is returned when a locator is registered without a name or selector.
var ErrInvalidLocator = errors.New("locator requires a name and a selector")

// UnknownLocatorError is returned when a name was never registered on the page.
type UnknownLocatorError struct {
	Page string
	Name string
}

func (e *UnknownLocatorError) Error() string {
	return fmt.Sprintf("unknown locator %q on page %q", e.Name, e.Page)
}

// DuplicateNameError is returned when a locator, action or query name is registered twice.
type DuplicateNameError struct {
	Page string
	Kind string // locator, action or query
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate %s %q on page %q", e.Kind, e.Name, e.Page)
}

// ActionTimeoutError is returned when an element did not satisfy an operation's
// precondition within the wait budget.
type ActionTimeoutError struct {
	Locator   string
	Operation string
	Elapsed   time.Duration
	Cause     error
}

func (e *ActionTimeoutError) Error() string {
	msg := fmt.Sprintf("%s on %q timed out after %s", e.Operation, e.Locator, e.Elapsed.Round(time.Millisecond))
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ActionTimeoutError) Unwrap() error { return e.Cause }

// ElementNotFoundError is returned by queries whose element never resolved.
type ElementNotFoundError struct {
	Locator string
	Query   string
	Err     error
}

func (e *ElementNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("element %q (%s) not found: %v", e.Locator, e.Query, e.Err)
	}
	return fmt.Sprintf("element %q (%s) not found", e.Locator, e.Query)
}

func (e *ElementNotFoundError) Unwrap() error { return e.Err }

// ActionError wraps the error of the step that broke a composed action.
type ActionError struct {
	Page      string
	Action    string
	StepIndex int
	Step      Step
	Err       error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s.%s: step %d %s: %v", e.Page, e.Action, e.StepIndex+1, e.Step, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// UnknownActionError is returned for actions or queries a page does not define.
type UnknownActionError struct {
	Page string
	Kind string
	Name string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("page %q has no %s %q", e.Page, e.Kind, e.Name)
}

// AssertionFailure is an expectation mismatch.
type AssertionFailure struct {
	Result AssertionResult
}

func (e *AssertionFailure) Error() string {
	msg := fmt.Sprintf("%s: expected %s, got %s", e.Result.Description, e.Result.Expected, e.Result.Actual)
	if e.Result.Message != "" {
		msg += " (" + e.Result.Message + ")"
	}
	return msg
}

// SetupFailure wraps an error raised by a scenario's setup hook.
type SetupFailure struct {
	Err error
}

func (e *SetupFailure) Error() string { return "setup: " + e.Err.Error() }

func (e *SetupFailure) Unwrap() error { return e.Err }

// TeardownFailure wraps an error raised while tearing a scenario down.
// It is reported as a warning and never changes the outcome.
type TeardownFailure struct {
	Err error
}

func (e *TeardownFailure) Error() string { return "teardown: " + e.Err.Error() }

func (e *TeardownFailure) Unwrap() error { return e.Err }

// GuardBlockedError is returned when safe mode refuses a destructive step.
type GuardBlockedError struct {
	Step Step
	Risk string
}

func (e *GuardBlockedError) Error() string {
	return fmt.Sprintf("step %s blocked in safe mode (risk %s)", e.Step, e.Risk)
}

// SkipError ends a scenario body early without counting as a failure.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string { return "skipped: " + e.Reason }

// IsSkip reports whether err requests a skip.
func IsSkip(err error) bool {
	var s *SkipError
	return errors.As(err, &s)
}

// Categorize tells assertion failures apart from infrastructure errors.
func Categorize(err error) FailureCategory {
	if err == nil {
		return CategoryNone
	}
	var af *AssertionFailure
	if errors.As(err, &af) {
		return CategoryAssertion
	}
	return CategoryInfrastructure
}
