package controller

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "arrowcheck.dev/pkg/arrowcheck/internal/model"
)

func TestTUI_DisplayFixtureCounts_Empty(t *testing.T) {
	var buf bytes.Buffer
	tui := NewTUI(&buf)

	require.NoError(t, tui.DisplayFixtureCounts(context.Background(), nil))
	assert.Contains(t, buf.String(), "No fixture files found")
}

func TestTUI_DisplayFixtureCounts(t *testing.T) {
	var buf bytes.Buffer
	tui := NewTUI(&buf)

	require.NoError(t, tui.DisplayFixtureCounts(context.Background(), sampleFixtureFiles()))

	output := buf.String()
	assert.Contains(t, output, "arrowcheck")
	assert.Contains(t, output, "fixtures/arrows.yaml")
	assert.Contains(t, output, "fixtures/methods.yaml")
	assert.Contains(t, output, "Total: 5 fixtures (3 arrow, 2 non-arrow) across 2 file(s)")
}

func TestTUI_DisplayReports(t *testing.T) {
	var buf bytes.Buffer
	tui := NewTUI(&buf)

	reports := []m.Report{{
		File: m.File{ShortPath: "fixtures/methods.yaml"},
		Results: []m.Result{
			{FixtureID: "fixtures/methods.yaml#m/0", Status: m.Passed},
			{FixtureID: "fixtures/methods.yaml#m/1", Status: m.Failed},
		},
	}}

	require.NoError(t, tui.DisplayReports(context.Background(), reports))

	output := buf.String()
	assert.Contains(t, output, "fixtures/methods.yaml: 2 fixtures (passed: 1, failed: 1, limited: 0)")
	assert.Contains(t, output, "fixtures/methods.yaml#m/1")
	assert.NotContains(t, output, "fixtures/methods.yaml#m/0")
}

func TestTUI_DisplayVerdicts(t *testing.T) {
	var buf bytes.Buffer
	tui := NewTUI(&buf)

	checks := []m.Check{
		{Input: "x => x", IsArrow: true, Rule: "no-param-punctuation"},
		{Input: "f", Rule: "no-arrow-token", Spoofed: true, Display: "() => {}"},
		{Input: "(", Err: "SyntaxError"},
	}

	require.NoError(t, tui.DisplayVerdicts(context.Background(), checks))

	output := buf.String()
	assert.Contains(t, output, "x => x")
	assert.Contains(t, output, "no-param-punctuation")
	assert.Contains(t, output, "custom toString: () => {}")
	assert.Contains(t, output, "SyntaxError")
}

func TestTUI_AccuracyWithoutProgram(t *testing.T) {
	var buf bytes.Buffer
	tui := NewTUI(&buf)
	ctx := context.Background()

	require.NoError(t, tui.Start(ctx, WithViewMode()))
	tui.DisplayAccuracy(ctx, m.Summary{Counts: map[m.Status]int{m.Passed: 1}, Accuracy: 1})
	tui.Wait(ctx)
	tui.Close(ctx)

	assert.Contains(t, buf.String(), "100.0%")
	assert.Contains(t, buf.String(), "passed 1")
}

func TestRunModel_Update(t *testing.T) {
	var model tea.Model = newRunModel()

	model, _ = model.Update(runStartedMsg{threads: 2, total: 3, cached: 1})
	model, _ = model.Update(resultMsg{result: m.Result{FixtureID: "a#g/0", Status: m.Passed}})
	model, _ = model.Update(resultMsg{result: m.Result{FixtureID: "a#g/1", Status: m.Failed, Source: "async '=>'() {}"}})

	rm, ok := model.(runModel)
	require.True(t, ok)
	assert.Equal(t, 2, rm.done)
	assert.Equal(t, 1, rm.counts[m.Failed])
	assert.Len(t, rm.problems, 1)
	assert.InDelta(t, 2.0/3.0, rm.percent(), 0.0001)

	view := rm.View()
	assert.Contains(t, view, "Running 3 fixtures with 2 worker(s), 1 cached file(s)")
	assert.Contains(t, view, "2/3")
	assert.Contains(t, view, "Misclassified or failed")
	assert.NotContains(t, view, "q: quit")

	model, _ = model.Update(summaryMsg{summary: m.Summary{Counts: rm.counts, Accuracy: 0.5}})
	assert.Contains(t, model.View(), "50.0%")
	assert.Contains(t, model.View(), "q: quit")

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRunModel_KeepsRecentResults(t *testing.T) {
	var model tea.Model = newRunModel()

	for i := 0; i < recentResults+5; i++ {
		model, _ = model.Update(resultMsg{result: m.Result{Status: m.Passed}})
	}

	rm := model.(runModel)
	assert.Len(t, rm.recent, recentResults)
	assert.Equal(t, recentResults+5, rm.done)
}

func TestRunModel_EmptyRunIsComplete(t *testing.T) {
	assert.InDelta(t, 1.0, newRunModel().percent(), 0)
}

func TestPagerModel(t *testing.T) {
	content := strings.Repeat("line\n", 50)

	var model tea.Model = newPagerModel(content, 40, 10)
	assert.Contains(t, model.View(), "q: quit")

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	pm := model.(pagerModel)
	assert.True(t, pm.viewport.AtBottom())

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	assert.True(t, model.(pagerModel).viewport.AtTop())

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestNewUI(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	assert.IsType(t, &TUI{}, NewUI(cmd, true))
	assert.IsType(t, &SimpleUI{}, NewUI(cmd, false))
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}
