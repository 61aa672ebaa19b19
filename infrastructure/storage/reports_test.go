package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_e2e/domain/entities"
)

func newStore(t *testing.T) *ReportStore {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s, err := NewReportStore(filepath.Join(t.TempDir(), "reports"), logger)
	require.NoError(t, err)
	return s
}

func run(id string, started time.Time, results ...entities.ScenarioResult) entities.AggregateResult {
	return entities.AggregateResult{
		RunID:     id,
		StartedAt: started,
		Duration:  time.Second,
		Scenarios: results,
		Summary:   entities.Summarize(results),
	}
}

const (
	runA = "0b6f1c53-5f0e-4c57-9d44-0e3f2b9c1a01"
	runB = "6a2d8e90-3b7c-4f1a-8e55-9c4d7b2e6f02"
	runZ = "f3e1a7c2-8d64-4b0f-a9c3-5e2b1d7f4c03"
)

func TestReportStore_Empty(t *testing.T) {
	s := newStore(t)

	ids, err := s.History()
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = s.Latest()
	assert.ErrorContains(t, err, "no runs stored yet")
}

func TestReportStore_ReportAndRead(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// GIVEN two runs stored out of order
	second := run(runB, t0.Add(time.Hour), entities.ScenarioResult{Suite: "cart", Name: "empty cart", Status: entities.StatusPassed})
	first := run(runA, t0, entities.ScenarioResult{Suite: "login", Name: "bad password", Status: entities.StatusFailed, Error: "boom"})
	require.NoError(t, s.Report(ctx, second))
	require.NoError(t, s.Report(ctx, first))

	// THEN history is newest first by start time
	ids, err := s.History()
	require.NoError(t, err)
	assert.Equal(t, []string{runB, runA}, ids)

	// AND latest is the last one reported
	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, runA, latest.RunID)
	assert.Equal(t, 1, latest.Summary.Failed)
	assert.Equal(t, "boom", latest.Scenarios[0].Error)

	loaded, err := s.Load(runB)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusPassed, loaded.Scenarios[0].Status)
	assert.True(t, loaded.StartedAt.Equal(second.StartedAt))

	_, err = s.Load(runZ)
	assert.ErrorContains(t, err, `run "`+runZ+`" not found`)
}

func TestReportStore_SavesScreenshots(t *testing.T) {
	s := newStore(t)
	failed := entities.ScenarioResult{
		Suite:  "checkout",
		Name:   "terms / required",
		Status: entities.StatusFailed,
		Page:   &entities.PageInfo{URL: "https://shop.test/cart", Screenshot: []byte("png")},
	}
	in := run(runA, time.Now(), failed)

	require.NoError(t, s.Report(context.Background(), in))

	latest, err := s.Latest()
	require.NoError(t, err)
	path := latest.Scenarios[0].Page.ScreenshotPath
	require.NotEmpty(t, path)
	assert.Equal(t, "checkout_terms-required.png", filepath.Base(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	assert.Empty(t, in.Scenarios[0].Page.ScreenshotPath, "caller's result is not modified")
}

func TestReportStore_RequiresRunID(t *testing.T) {
	s := newStore(t)
	assert.ErrorContains(t, s.Report(context.Background(), entities.AggregateResult{}), "run has no id")
	assert.ErrorContains(t, s.Report(context.Background(), run("../escape", time.Now())), "invalid run id")
}

func TestReportStore_LoadRejectsIDsOutsideTheStore(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Report(context.Background(), run(runA, time.Now())))

	// a stray file next to the runs directory must stay unreachable
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "secret_x.json"), []byte(`{"run_id":"x"}`), 0o644))

	for _, id := range []string{"../../x", "../secret", "*", runA[:8] + "*", strings.ToUpper(runA)} {
		t.Run(id, func(t *testing.T) {
			_, err := s.Load(id)
			assert.ErrorContains(t, err, "invalid run id")
		})
	}

	got, err := s.Load(runA)
	require.NoError(t, err)
	assert.Equal(t, runA, got.RunID)
}
