package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "arrowcheck.dev/pkg/arrowcheck/internal/model"
)

const (
	recentResults  = 8
	pagerReserved  = 2
	progressWidth  = 50
	headerTitle    = "arrowcheck - arrow function classifier"
	navigationHelp = "↑/k: up | ↓/j: down | g: top | G: bottom | q: quit"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
	boldStyle = lipgloss.NewStyle().Bold(true)

	statusStyles = map[m.Status]lipgloss.Style{
		m.Passed:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		m.Failed:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		m.Limited: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		m.Skipped: lipgloss.NewStyle().Faint(true),
		m.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("171")),
	}

	statusIcons = map[m.Status]string{
		m.Passed:  "✓",
		m.Failed:  "✗",
		m.Limited: "~",
		m.Skipped: "-",
		m.Error:   "!",
	}
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the live progress program in run mode. Other modes render
// static screens and need no program.
func (p *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := newStartConfig(options)
	if cfg.mode != ModeRun {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	program := tea.NewProgram(newRunModel(), tea.WithOutput(p.output), tea.WithContext(ctx))
	done := make(chan struct{})

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Debug("tui program stopped", "error", err)
		}
	}()

	p.program = program
	p.done = done

	return nil
}

// Close stops the live program if one is running.
func (p *TUI) Close(_ context.Context) {
	p.mu.Lock()
	program, done := p.program, p.done
	p.program, p.done = nil, nil
	p.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// Wait blocks until the user quits the live program.
func (p *TUI) Wait(ctx context.Context) {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()

	if done == nil {
		return
	}

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// DisplayFixtureCounts renders fixture counts per file.
func (p *TUI) DisplayFixtureCounts(ctx context.Context, files []m.FixtureFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return p.show(renderCountsScreen(buildFileStats(files)))
}

// DisplayConcurrencyInfo sets the size of the progress bar.
func (p *TUI) DisplayConcurrencyInfo(ctx context.Context, threads int, fixtures int, cachedFiles int) {
	if err := ctx.Err(); err != nil {
		return
	}

	p.send(runStartedMsg{threads: threads, total: fixtures, cached: cachedFiles})
}

// DisplayResult advances the progress bar.
func (p *TUI) DisplayResult(ctx context.Context, result m.Result) {
	if err := ctx.Err(); err != nil {
		return
	}

	p.send(resultMsg{result: result})
}

// DisplayAccuracy shows the final summary. Without a live program it is
// printed directly.
func (p *TUI) DisplayAccuracy(ctx context.Context, summary m.Summary) {
	if err := ctx.Err(); err != nil {
		return
	}

	if p.send(summaryMsg{summary: summary}) {
		return
	}

	_, _ = fmt.Fprintln(p.output, renderSummary(summary))
}

// DisplayReports renders saved reports.
func (p *TUI) DisplayReports(ctx context.Context, reports []m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return p.show(renderReportsScreen(reports))
}

// DisplayVerdicts renders ad-hoc check verdicts.
func (p *TUI) DisplayVerdicts(ctx context.Context, checks []m.Check) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return p.show(renderVerdictsScreen(checks))
}

func (p *TUI) send(msg tea.Msg) bool {
	p.mu.Lock()
	program := p.program
	p.mu.Unlock()

	if program == nil {
		return false
	}

	program.Send(msg)

	return true
}

// show prints content, or opens a pager when it does not fit the terminal.
func (p *TUI) show(content string) error {
	width, height := terminalSize(p.output)

	lines := strings.Count(content, "\n")
	if height == 0 || lines <= height-pagerReserved {
		_, err := fmt.Fprint(p.output, content)
		return err
	}

	program := tea.NewProgram(newPagerModel(content, width, height), tea.WithOutput(p.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

func terminalSize(w io.Writer) (int, int) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, 0
	}

	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0
	}

	return width, height
}

type runStartedMsg struct {
	threads int
	total   int
	cached  int
}

type resultMsg struct {
	result m.Result
}

type summaryMsg struct {
	summary m.Summary
}

// runModel is the live view of a classification run.
type runModel struct {
	threads  int
	total    int
	cached   int
	done     int
	counts   map[m.Status]int
	recent   []m.Result
	problems []m.Result
	summary  *m.Summary
	bar      progress.Model
	quitting bool
}

func newRunModel() runModel {
	return runModel{
		counts: make(map[m.Status]int),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth)),
	}
}

func (rm runModel) Init() tea.Cmd {
	return nil
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.bar.Width = min(msg.Width-4, progressWidth)
		return rm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			rm.quitting = true
			return rm, tea.Quit
		}

		return rm, nil

	case runStartedMsg:
		rm.threads, rm.total, rm.cached = msg.threads, msg.total, msg.cached
		return rm, nil

	case resultMsg:
		rm.done++
		rm.counts[msg.result.Status]++

		rm.recent = append(rm.recent, msg.result)
		if len(rm.recent) > recentResults {
			rm.recent = rm.recent[len(rm.recent)-recentResults:]
		}

		if msg.result.Status == m.Failed || msg.result.Status == m.Error {
			rm.problems = append(rm.problems, msg.result)
		}

		return rm, nil

	case summaryMsg:
		summary := msg.summary
		rm.summary = &summary

		return rm, nil
	}

	return rm, nil
}

func (rm runModel) percent() float64 {
	if rm.total == 0 {
		return 1
	}

	return float64(rm.done) / float64(rm.total)
}

func (rm runModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(headerTitle))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  Running %d fixtures with %d worker(s)", rm.total, rm.threads)

	if rm.cached > 0 {
		fmt.Fprintf(&b, ", %d cached file(s)", rm.cached)
	}

	b.WriteString("\n\n  ")
	b.WriteString(rm.bar.ViewAs(rm.percent()))
	fmt.Fprintf(&b, "  %d/%d\n\n", rm.done, rm.total)

	for _, result := range rm.recent {
		b.WriteString("  ")
		b.WriteString(resultLine(result))
		b.WriteString("\n")
	}

	if len(rm.problems) > 0 {
		b.WriteString("\n")
		b.WriteString(boldStyle.Render("  Misclassified or failed:"))
		b.WriteString("\n")

		for _, result := range rm.problems {
			fmt.Fprintf(&b, "  %s\n    %s\n", resultLine(result), dimStyle.Render(result.Source))
		}
	}

	if rm.summary != nil {
		b.WriteString("\n  ")
		b.WriteString(renderSummary(*rm.summary))
		b.WriteString("\n  ")
		b.WriteString(dimStyle.Render("q: quit"))
		b.WriteString("\n")
	}

	return b.String()
}

// pagerModel scrolls content that does not fit on screen.
type pagerModel struct {
	viewport viewport.Model
}

func newPagerModel(content string, width, height int) pagerModel {
	vp := viewport.New(width, max(height-pagerReserved, 1))
	vp.SetContent(content)

	return pagerModel{viewport: vp}
}

func (pm pagerModel) Init() tea.Cmd {
	return nil
}

func (pm pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.viewport.Width = msg.Width
		pm.viewport.Height = max(msg.Height-pagerReserved, 1)

		return pm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return pm, tea.Quit
		case "g", "home":
			pm.viewport.GotoTop()
			return pm, nil
		case "G", "end":
			pm.viewport.GotoBottom()
			return pm, nil
		}
	}

	var cmd tea.Cmd
	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

func (pm pagerModel) View() string {
	return fmt.Sprintf("%s\n  %3.f%% | %s", pm.viewport.View(), pm.viewport.ScrollPercent()*100, navigationHelp)
}

func resultLine(result m.Result) string {
	style := statusStyles[result.Status]
	line := fmt.Sprintf("%s %-8s %s", statusIcons[result.Status], result.Status, result.FixtureID)

	if result.Rule != "" {
		line += dimStyle.Render(" [" + result.Rule + "]")
	}

	return style.Render(line)
}

func renderSummary(summary m.Summary) string {
	return fmt.Sprintf("📊 Accuracy %s | passed %d | failed %d | limited %d | skipped %d | errors %d",
		boldStyle.Render(fmt.Sprintf("%.1f%%", summary.Accuracy*100)),
		summary.Counts[m.Passed],
		summary.Counts[m.Failed],
		summary.Counts[m.Limited],
		summary.Counts[m.Skipped],
		summary.Counts[m.Error],
	)
}

func countCell(n int, label string) string {
	cell := fmt.Sprintf("%d %s", n, label)
	if n == 0 {
		return dimStyle.Render(cell)
	}

	return cell
}

func renderCountsScreen(stats []fileStat) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(headerTitle))
	b.WriteString("\n\n")

	if len(stats) == 0 {
		b.WriteString("  📭 No fixture files found\n")
		return b.String()
	}

	b.WriteString("  🔢 fixtures summary:\n\n")

	var total fileStat

	for _, stat := range stats {
		fmt.Fprintf(&b, "  %s: %s, %s, %s\n",
			stat.path,
			countCell(stat.arrow, "arrow"),
			countCell(stat.nonArrow, "non-arrow"),
			countCell(stat.skipped, "skipped"))

		total.arrow += stat.arrow
		total.nonArrow += stat.nonArrow
		total.skipped += stat.skipped
	}

	fmt.Fprintf(&b, "\n  📊 Total: %d fixtures (%d arrow, %d non-arrow) across %d file(s)\n",
		total.total(), total.arrow, total.nonArrow, len(stats))

	return b.String()
}

func renderReportsScreen(reports []m.Report) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(headerTitle))
	b.WriteString("\n")

	if len(reports) == 0 {
		b.WriteString("  📭 No reports found\n")
		return b.String()
	}

	b.WriteString("  🧪 Classification reports:\n\n")

	for _, report := range reports {
		counts := report.Counts()

		status := m.Passed
		if counts[m.Failed] > 0 || counts[m.Error] > 0 {
			status = m.Failed
		}

		fmt.Fprintf(&b, "  %s %s: %d fixtures (passed: %d, failed: %d, limited: %d)\n",
			statusStyles[status].Render(statusIcons[status]),
			report.File.ShortPath,
			len(report.Results),
			counts[m.Passed],
			counts[m.Failed],
			counts[m.Limited])

		for _, result := range report.Results {
			if result.Status == m.Passed {
				continue
			}

			fmt.Fprintf(&b, "    %s\n", resultLine(result))
		}
	}

	return b.String()
}

func renderVerdictsScreen(checks []m.Check) string {
	var b strings.Builder

	for _, check := range checks {
		if check.Err != "" {
			fmt.Fprintf(&b, "  %s %s\n    %s\n",
				statusStyles[m.Error].Render("! error    "), check.Input, dimStyle.Render(check.Err))

			continue
		}

		verdict := statusStyles[m.Skipped].Render(fmt.Sprintf("%-11s", verdictLabel(false)))
		if check.IsArrow {
			verdict = statusStyles[m.Passed].Render(fmt.Sprintf("%-11s", verdictLabel(true)))
		}

		fmt.Fprintf(&b, "  %s %s %s\n", verdict, check.Input, dimStyle.Render("["+check.Rule+"]"))

		if check.Spoofed {
			fmt.Fprintf(&b, "    %s\n", dimStyle.Render("custom toString: "+check.Display))
		}
	}

	return b.String()
}
