// Package storage keeps the history of runs as JSON files, one per run, plus
// the PNG screenshots captured when scenarios failed.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront_e2e/domain/entities"
	"storefront_e2e/domain/interfaces"
)

const latestFile = "latest.json"

// ReportStore implements interfaces.ReportStore on a directory:
//
//	<dir>/runs/<started>_<run id>.json
//	<dir>/screenshots/<run id>/<suite>_<scenario>.png
//	<dir>/latest.json
type ReportStore struct {
	dir    string
	logger logrus.FieldLogger
}

// NewReportStore creates dir when needed
func NewReportStore(dir string, logger logrus.FieldLogger) (*ReportStore, error) {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to find home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".storefront_e2e", "reports")
	}
	if err := os.MkdirAll(filepath.Join(dir, "runs"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &ReportStore{dir: dir, logger: logger}, nil
}

func (s *ReportStore) Dir() string { return s.dir }

// Report saves screenshots first so the stored run points at them
func (s *ReportStore) Report(ctx context.Context, result entities.AggregateResult) error {
	if err := checkRunID(result.RunID); err != nil {
		return err
	}
	result.Scenarios = slices.Clone(result.Scenarios)
	for i, sc := range result.Scenarios {
		if sc.Page == nil || len(sc.Page.Screenshot) == 0 {
			continue
		}
		path, err := s.saveScreenshot(result.RunID, sc)
		if err != nil {
			s.logger.Warnf("Failed to save screenshot of %s/%s: %v", sc.Suite, sc.Name, err)
			continue
		}
		page := *sc.Page
		page.ScreenshotPath = path
		result.Scenarios[i].Page = &page
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}
	name := result.StartedAt.UTC().Format("20060102T150405") + "_" + result.RunID + ".json"
	if err := writeFile(filepath.Join(s.dir, "runs", name), data); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(s.dir, latestFile), data); err != nil {
		return err
	}
	s.logger.Infof("Saved run %s to %s", result.RunID, s.dir)
	return nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func (s *ReportStore) saveScreenshot(runID string, sc entities.ScenarioResult) (string, error) {
	dir := filepath.Join(s.dir, "screenshots", runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := unsafeChars.ReplaceAllString(sc.Suite+"_"+sc.Name, "-") + ".png"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, sc.Page.Screenshot, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// writeFile replaces path atomically
func writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Latest loads the most recently stored run
func (s *ReportStore) Latest() (entities.AggregateResult, error) {
	var result entities.AggregateResult
	data, err := os.ReadFile(filepath.Join(s.dir, latestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return result, errors.New("no runs stored yet")
		}
		return result, err
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("failed to decode %s: %w", latestFile, err)
	}
	return result, nil
}

// checkRunID accepts only canonical UUIDs, since ids become file names and
// glob patterns
func checkRunID(id string) error {
	if id == "" {
		return errors.New("run has no id")
	}
	if u, err := uuid.Parse(id); err != nil || u.String() != id {
		return fmt.Errorf("invalid run id %q", id)
	}
	return nil
}

// Load reads a stored run by id
func (s *ReportStore) Load(runID string) (entities.AggregateResult, error) {
	var result entities.AggregateResult
	if err := checkRunID(runID); err != nil {
		return result, err
	}
	matches, err := filepath.Glob(filepath.Join(s.dir, "runs", "*_"+runID+".json"))
	if err != nil {
		return result, err
	}
	if len(matches) == 0 {
		return result, fmt.Errorf("run %q not found", runID)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("failed to decode run %s: %w", runID, err)
	}
	return result, nil
}

// History lists stored run ids, newest first
func (s *ReportStore) History() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, "runs"))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	// file names start with the UTC start time
	slices.Sort(names)
	slices.Reverse(names)

	ids := make([]string, 0, len(names))
	for _, n := range names {
		_, id, ok := strings.Cut(n, "_")
		if ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

var _ interfaces.ReportStore = (*ReportStore)(nil)
