package interfaces

import (
	"context"

	"storefront_e2e/domain/entities"
)

// ReportSink receives the aggregate result of a run
type ReportSink interface {
	Report(ctx context.Context, result entities.AggregateResult) error
}

// ReportStore persists run results
type ReportStore interface {
	ReportSink

	// Latest loads the most recent stored run
	Latest() (entities.AggregateResult, error)

	// History lists stored run IDs, newest first
	History() ([]string, error)
}

// FixtureProvider supplies literal test data
type FixtureProvider interface {
	Fixtures() entities.Fixtures
}
