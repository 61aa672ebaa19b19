// Package security classifies scenario steps by risk and, in safe mode,
// refuses the ones that would change state on a live storefront.
package security

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"storefront_e2e/domain/entities"
	"storefront_e2e/domain/interfaces"
)

const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

var (
	destructiveKeywords = []string{"delete", "remove", "cancel", "clear", "reset", "trash"}
	paymentPageKeywords = []string{"payment", "pay", "checkout", "order", "purchase"}
	confirmKeywords     = []string{"submit", "confirm", "pay", "order", "buy", "purchase"}
)

// Guard implements interfaces.StepGuard. Outside safe mode it only warns.
type Guard struct {
	safeMode bool
	logger   logrus.FieldLogger
}

func NewGuard(safeMode bool, logger logrus.FieldLogger) *Guard {
	if logger == nil {
		logger = logrus.New()
	}
	return &Guard{safeMode: safeMode, logger: logger}
}

// SafeMode reports whether high risk steps are refused
func (g *Guard) SafeMode() bool { return g.safeMode }

// Allow returns a *entities.GuardBlockedError for a high risk step in safe mode
func (g *Guard) Allow(ctx context.Context, step entities.Step, pageURL string) error {
	risk := g.RiskLevel(step)
	if risk != RiskHigh && !g.isPaymentStep(step, pageURL) {
		return nil
	}
	if g.safeMode {
		g.logger.Warnf("Blocked %s on %s", step, pageURL)
		return &entities.GuardBlockedError{Step: step, Risk: RiskHigh}
	}
	g.logger.Warnf("High risk step %s on %s", step, pageURL)
	return nil
}

// RiskLevel classifies a step by its kind and target name
func (g *Guard) RiskLevel(step entities.Step) string {
	if g.isDestructive(step) {
		return RiskHigh
	}
	switch step.Kind {
	case entities.StepNavigate:
		return RiskLow
	case entities.StepFill, entities.StepClear, entities.StepSelect:
		return RiskMedium
	case entities.StepClick, entities.StepCheck, entities.StepUncheck:
		return RiskMedium
	}
	return RiskLow
}

func (g *Guard) isDestructive(step entities.Step) bool {
	switch step.Kind {
	case entities.StepClick, entities.StepCheck:
		return containsAny(step.Target.Name, destructiveKeywords)
	}
	return false
}

// isPaymentStep spots a confirming click on a checkout or payment page
func (g *Guard) isPaymentStep(step entities.Step, pageURL string) bool {
	if step.Kind != entities.StepClick {
		return false
	}
	return containsAny(pageURL, paymentPageKeywords) && containsAny(step.Target.Name, confirmKeywords)
}

func containsAny(s string, keywords []string) bool {
	s = strings.ToLower(s)
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

var _ interfaces.StepGuard = (*Guard)(nil)
