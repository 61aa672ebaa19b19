package entities

// ScenarioStatus represents the lifecycle state of a scenario
type ScenarioStatus string

const (
	StatusPending ScenarioStatus = "pending"
	StatusRunning ScenarioStatus = "running"
	StatusPassed  ScenarioStatus = "passed"
	StatusFailed  ScenarioStatus = "failed"
	StatusSkipped ScenarioStatus = "skipped"
)

// Terminal reports whether no further transition is possible.
func (s ScenarioStatus) Terminal() bool {
	return s == StatusPassed || s == StatusFailed || s == StatusSkipped
}

// Phase is the part of a scenario that determined its outcome
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseBody     Phase = "body"
	PhaseTeardown Phase = "teardown"
)

// FailureCategory separates expectation mismatches from infrastructure errors,
// which need different remediation.
type FailureCategory string

const (
	CategoryNone           FailureCategory = ""
	CategoryAssertion      FailureCategory = "assertion"
	CategoryInfrastructure FailureCategory = "infrastructure"
)

// Reason codes attached to failed or skipped results.
const (
	ReasonTimeoutExceeded = "TimeoutExceeded"
	ReasonSuiteStopped    = "SuiteStopped"
	ReasonSkipped         = "SkippedByPrecondition"
)
