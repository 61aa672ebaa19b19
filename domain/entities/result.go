package entities

import "time"

// AssertionResult is the immutable outcome of one expectation
type AssertionResult struct {
	Description string `json:"description"`
	Expected    string `json:"expected"`
	Actual      string `json:"actual"`
	Passed      bool   `json:"passed"`
	Message     string `json:"message,omitempty"`
}

// ScenarioResult represents the result of one scenario execution
type ScenarioResult struct {
	Name       string            `json:"name"`
	Suite      string            `json:"suite"`
	Tags       []string          `json:"tags,omitempty"`
	Status     ScenarioStatus    `json:"status"`
	Phase      Phase             `json:"phase,omitempty"`
	Category   FailureCategory   `json:"category,omitempty"`
	Reason     string            `json:"reason,omitempty"`
	Message    string            `json:"message,omitempty"` // skip reason
	Error      string            `json:"error,omitempty"`
	Failures   []AssertionResult `json:"failures,omitempty"`
	Assertions int               `json:"assertions"`
	Warnings   []string          `json:"warnings,omitempty"`
	Attempts   int               `json:"attempts"`
	Page       *PageInfo         `json:"page,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	Duration   time.Duration     `json:"duration"`
}

// Passed reports whether the scenario passed.
func (r ScenarioResult) Passed() bool {
	return r.Status == StatusPassed
}

// Summary holds outcome counts of a run
type Summary struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

// AggregateResult is the structure handed to report sinks
type AggregateResult struct {
	RunID     string           `json:"run_id"`
	BaseURL   string           `json:"base_url,omitempty"`
	StartedAt time.Time        `json:"started_at"`
	Duration  time.Duration    `json:"duration"`
	Scenarios []ScenarioResult `json:"scenarios"`
	Summary   Summary          `json:"summary"`
}

// Summarize counts outcomes of the given results.
func Summarize(results []ScenarioResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

// Failed returns the failed scenario results in order.
func (a AggregateResult) Failed() []ScenarioResult {
	var out []ScenarioResult
	for _, r := range a.Scenarios {
		if r.Status == StatusFailed {
			out = append(out, r)
		}
	}
	return out
}
