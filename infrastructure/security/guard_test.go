package security

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_e2e/domain/entities"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestGuard_RiskLevel(t *testing.T) {
	g := NewGuard(false, quietLogger())
	tests := []struct {
		step entities.Step
		want string
	}{
		{entities.Navigate("/cart"), RiskLow},
		{entities.Fill(entities.Named("email"), "a@b.c"), RiskMedium},
		{entities.Click(entities.Named("addToCart")), RiskMedium},
		{entities.Check(entities.Named("removeCheckbox")), RiskHigh},
		{entities.Click(entities.Named("deleteAddress")), RiskHigh},
		{entities.Uncheck(entities.Named("removeCheckbox")), RiskMedium},
	}
	for _, tt := range tests {
		t.Run(tt.step.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, g.RiskLevel(tt.step))
		})
	}
}

func TestGuard_SafeModeBlocks(t *testing.T) {
	g := NewGuard(true, quietLogger())
	ctx := context.Background()

	tests := []struct {
		name    string
		step    entities.Step
		url     string
		blocked bool
	}{
		{"browsing", entities.Click(entities.Named("categories")), "https://shop.test/", false},
		{"removing a cart line", entities.Check(entities.Named("removeCheckbox")), "https://shop.test/cart", true},
		{"confirming an order", entities.Click(entities.Named("confirm")), "https://shop.test/onepagecheckout", true},
		{"confirm outside checkout", entities.Click(entities.Named("confirm")), "https://shop.test/register", false},
		{"filling checkout fields", entities.Fill(entities.Named("billingCity"), "Paris"), "https://shop.test/checkout", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Allow(ctx, tt.step, tt.url)
			if !tt.blocked {
				assert.NoError(t, err)
				return
			}
			var blocked *entities.GuardBlockedError
			require.True(t, errors.As(err, &blocked), "got %v", err)
			assert.Equal(t, RiskHigh, blocked.Risk)
			assert.Equal(t, tt.step, blocked.Step)
		})
	}
}

func TestGuard_WarnsOutsideSafeMode(t *testing.T) {
	logger, hook := quietLogger(), &recordHook{}
	logger.AddHook(hook)
	g := NewGuard(false, logger)

	err := g.Allow(context.Background(), entities.Check(entities.Named("removeCheckbox")), "https://shop.test/cart")

	assert.NoError(t, err)
	require.Len(t, hook.entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.entries[0].Level)
	assert.False(t, g.SafeMode())
}

type recordHook struct {
	entries []*logrus.Entry
}

func (h *recordHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *recordHook) Fire(e *logrus.Entry) error {
	h.entries = append(h.entries, e)
	return nil
}
