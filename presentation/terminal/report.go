package terminal

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"storefront_e2e/domain/entities"
	"storefront_e2e/domain/interfaces"
)

const (
	groupPrefix   = "█"
	detailsPrefix = "↳"

	succMark = "✓"
	failMark = "✗"
	skipMark = "-"
)

var (
	succColor  = color.New(color.FgGreen)
	failColor  = color.New(color.FgRed)
	skipColor  = color.New(color.FgYellow)
	grayColor  = color.New(color.Faint)
	valueColor = color.New(color.FgCyan)
)

// Reporter prints the run summary. It is the report sink of the run command.
type Reporter struct {
	w io.Writer
}

func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

func (r *Reporter) Report(ctx context.Context, result entities.AggregateResult) error {
	_, err := io.WriteString(r.w, Summary(result))
	return err
}

// Summary renders a run grouped by suite, in run order
func Summary(result entities.AggregateResult) string {
	var b strings.Builder
	suite := ""
	for _, sc := range result.Scenarios {
		if sc.Suite != suite || b.Len() == 0 {
			suite = sc.Suite
			fmt.Fprintf(&b, "\n%s %s\n", groupPrefix, suite)
		}
		writeScenario(&b, sc)
	}

	s := result.Summary
	fmt.Fprintf(&b, "\n  %s, %s, %s of %d in %s\n",
		succColor.Sprintf("%d passed", s.Passed),
		failColor.Sprintf("%d failed", s.Failed),
		skipColor.Sprintf("%d skipped", s.Skipped),
		s.Total, result.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "  %s\n", grayColor.Sprintf("run %s", result.RunID))
	return b.String()
}

func writeScenario(b *strings.Builder, sc entities.ScenarioResult) {
	took := grayColor.Sprintf("(%s)", sc.Duration.Round(time.Millisecond))
	switch sc.Status {
	case entities.StatusPassed:
		fmt.Fprintf(b, "  %s %s %s\n", succColor.Sprint(succMark), sc.Name, took)
	case entities.StatusSkipped:
		why := sc.Message
		if why == "" {
			why = sc.Reason
		}
		fmt.Fprintf(b, "  %s %s %s\n", skipColor.Sprint(skipMark), sc.Name, grayColor.Sprintf("skipped: %s", why))
	default:
		fmt.Fprintf(b, "  %s %s %s\n", failColor.Sprint(failMark), sc.Name, took)
		details(b, sc)
	}
	for _, w := range sc.Warnings {
		fmt.Fprintf(b, "      %s %s\n", detailsPrefix, skipColor.Sprint("warning: "+w))
	}
}

func details(b *strings.Builder, sc entities.ScenarioResult) {
	where := []string{}
	if sc.Phase != "" {
		where = append(where, "phase "+string(sc.Phase))
	}
	if sc.Category != entities.CategoryNone {
		where = append(where, string(sc.Category))
	}
	if sc.Reason != "" {
		where = append(where, sc.Reason)
	}
	if sc.Attempts > 1 {
		where = append(where, fmt.Sprintf("%d attempts", sc.Attempts))
	}
	if len(where) > 0 {
		fmt.Fprintf(b, "      %s %s\n", detailsPrefix, grayColor.Sprint(strings.Join(where, ", ")))
	}
	for _, f := range sc.Failures {
		fmt.Fprintf(b, "      %s %s: expected %s, got %s\n", detailsPrefix, f.Description,
			valueColor.Sprint(f.Expected), failColor.Sprint(f.Actual))
	}
	if sc.Error != "" && len(sc.Failures) == 0 {
		fmt.Fprintf(b, "      %s %s\n", detailsPrefix, failColor.Sprint(sc.Error))
	}
	if sc.Page != nil {
		fmt.Fprintf(b, "      %s at %s", detailsPrefix, valueColor.Sprint(sc.Page.URL))
		if sc.Page.ScreenshotPath != "" {
			fmt.Fprintf(b, " %s", grayColor.Sprint(sc.Page.ScreenshotPath))
		}
		b.WriteString("\n")
	}
}

var _ interfaces.ReportSink = (*Reporter)(nil)
