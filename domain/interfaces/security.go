package interfaces

import (
	"context"

	"storefront_e2e/domain/entities"
)

// StepGuard decides whether a step may run against the target site
type StepGuard interface {
	// Allow returns a *entities.GuardBlockedError when the step must not run
	Allow(ctx context.Context, step entities.Step, pageURL string) error

	// RiskLevel classifies a step as low, medium or high
	RiskLevel(step entities.Step) string
}
