package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	m "arrowcheck.dev/pkg/arrowcheck/internal/model"
)

var statusColors = map[m.Status]*color.Color{
	m.Passed:  color.New(color.FgGreen),
	m.Failed:  color.New(color.FgRed, color.Bold),
	m.Limited: color.New(color.FgYellow),
	m.Skipped: color.New(color.Faint),
	m.Error:   color.New(color.FgMagenta),
}

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
	mu  sync.Mutex
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayFixtureCounts prints a per-file table of fixture counts.
func (s *SimpleUI) DisplayFixtureCounts(ctx context.Context, files []m.FixtureFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stats := buildFileStats(files)
	s.printf("\n%s", renderCountsTable(stats))

	return nil
}

// DisplayConcurrencyInfo shows the size of the upcoming run.
func (s *SimpleUI) DisplayConcurrencyInfo(ctx context.Context, threads int, fixtures int, cachedFiles int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Running %d fixtures with %d worker(s)\n", fixtures, threads)

	if cachedFiles > 0 {
		s.printf("Reusing cached reports for %d unchanged file(s)\n", cachedFiles)
	}
}

// DisplayResult prints one classified fixture.
func (s *SimpleUI) DisplayResult(ctx context.Context, result m.Result) {
	if err := ctx.Err(); err != nil {
		return
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s %s", statusLabel(result.Status), result.FixtureID)

	if result.Rule != "" {
		fmt.Fprintf(&b, " [%s]", result.Rule)
	}

	b.WriteString("\n")

	switch result.Status {
	case m.Failed, m.Limited:
		fmt.Fprintf(&b, "  source:   %s\n", result.Source)
		fmt.Fprintf(&b, "  expected: %s, got %s\n", result.Expect, verdictLabel(result.IsArrow))
	case m.Error:
		fmt.Fprintf(&b, "  source: %s\n", result.Source)
		fmt.Fprintf(&b, "  error:  %s\n", result.Err)
	case m.Passed, m.Skipped:
	}

	if result.Spoofed {
		b.WriteString(spoofDiff(result.Intrinsic, result.Display))
	}

	s.printf("%s", b.String())
}

// DisplayAccuracy prints the final accuracy line.
func (s *SimpleUI) DisplayAccuracy(ctx context.Context, summary m.Summary) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Accuracy: %.2f%% (passed %d, failed %d, limited %d, skipped %d, errors %d)\n",
		summary.Accuracy*100,
		summary.Counts[m.Passed],
		summary.Counts[m.Failed],
		summary.Counts[m.Limited],
		summary.Counts[m.Skipped],
		summary.Counts[m.Error],
	)
}

// DisplayReports prints a status table per fixture file followed by every
// result that did not pass.
func (s *SimpleUI) DisplayReports(ctx context.Context, reports []m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(reports) == 0 {
		s.printf("No reports found\n")
		return nil
	}

	s.printf("\n%s", renderReportsTable(reports))

	for _, report := range reports {
		for _, result := range report.Results {
			if result.Status == m.Passed || result.Status == m.Skipped {
				continue
			}

			s.printf("%s %s\n  %s\n", statusLabel(result.Status), result.FixtureID, result.Source)
		}
	}

	return nil
}

// DisplayVerdicts prints a table of ad-hoc checks.
func (s *SimpleUI) DisplayVerdicts(ctx context.Context, checks []m.Check) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Input", "Verdict", "Rule"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, check := range checks {
		verdict := verdictLabel(check.IsArrow)
		rule := check.Rule

		if check.Err != "" {
			verdict = "error"
			rule = check.Err
		}

		table.Append([]string{check.Input, verdict, rule})
	}

	table.Render()
	s.printf("%s", tableBuffer.String())

	for _, check := range checks {
		if check.Spoofed {
			s.printf("%s has a custom toString\n%s", check.Input, spoofDiff(check.Intrinsic, check.Display))
		}
	}

	return nil
}

type fileStat struct {
	path     string
	arrow    int
	nonArrow int
	skipped  int
}

func (f fileStat) total() int {
	return f.arrow + f.nonArrow
}

func buildFileStats(files []m.FixtureFile) []fileStat {
	stats := make([]fileStat, 0, len(files))

	for _, file := range files {
		stat := fileStat{path: string(file.File.ShortPath)}

		for _, fixture := range file.Fixtures {
			if fixture.Skip != "" {
				stat.skipped++
			}

			if fixture.Expect == m.ExpectArrow {
				stat.arrow++
			} else {
				stat.nonArrow++
			}
		}

		stats = append(stats, stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].path < stats[j].path
	})

	return stats
}

func renderCountsTable(stats []fileStat) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Arrow", "Non-arrow", "Skipped", "Total"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	var total fileStat

	for _, stat := range stats {
		table.Append([]string{
			stat.path,
			fmt.Sprintf("%d", stat.arrow),
			fmt.Sprintf("%d", stat.nonArrow),
			fmt.Sprintf("%d", stat.skipped),
			fmt.Sprintf("%d", stat.total()),
		})

		total.arrow += stat.arrow
		total.nonArrow += stat.nonArrow
		total.skipped += stat.skipped
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(stats)),
		fmt.Sprintf("%d", total.arrow),
		fmt.Sprintf("%d", total.nonArrow),
		fmt.Sprintf("%d", total.skipped),
		fmt.Sprintf("%d", total.total()),
	})

	table.Render()

	return tableBuffer.String()
}

func renderReportsTable(reports []m.Report) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Passed", "Failed", "Limited", "Skipped", "Errors"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, report := range reports {
		counts := report.Counts()
		table.Append([]string{
			string(report.File.ShortPath),
			fmt.Sprintf("%d", counts[m.Passed]),
			fmt.Sprintf("%d", counts[m.Failed]),
			fmt.Sprintf("%d", counts[m.Limited]),
			fmt.Sprintf("%d", counts[m.Skipped]),
			fmt.Sprintf("%d", counts[m.Error]),
		})
	}

	table.Render()

	return tableBuffer.String()
}

func spoofDiff(intrinsic, display string) string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(intrinsic),
		B:        difflib.SplitLines(display),
		FromFile: "intrinsic",
		ToFile:   "toString",
		Context:  1,
	})
	if err != nil {
		return ""
	}

	return text
}

func statusLabel(status m.Status) string {
	label := strings.ToUpper(status.String())

	c, ok := statusColors[status]
	if !ok {
		return label
	}

	return c.Sprint(label)
}

func verdictLabel(isArrow bool) string {
	if isArrow {
		return string(m.ExpectArrow)
	}

	return string(m.ExpectNonArrow)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
