package domain

import (
	"context"
	"log/slog"
	"time"

	"arrowcheck.dev/pkg/arrowcheck/internal/adapter"
	m "arrowcheck.dev/pkg/arrowcheck/internal/model"
)

// Orchestrator evaluates fixtures in the JavaScript runtime and grades the
// verdict against what the fixture expects.
type Orchestrator interface {
	Classify(ctx context.Context, fixture m.Fixture, timeout time.Duration) m.Result
	CheckSource(ctx context.Context, source string, timeout time.Duration) m.Check
}

type orchestrator struct {
	js adapter.JSRuntimeAdapter
}

// NewOrchestrator constructs an Orchestrator backed by the provided runtime.
func NewOrchestrator(js adapter.JSRuntimeAdapter) Orchestrator {
	return &orchestrator{js: js}
}

func (o *orchestrator) Classify(ctx context.Context, fixture m.Fixture, timeout time.Duration) m.Result {
	result := m.Result{
		FixtureID: fixture.ID,
		Group:     fixture.Group,
		Source:    fixture.Source,
		Expect:    fixture.Expect,
	}

	if fixture.Skip != "" {
		result.Status = m.Skipped
		result.Reason = fixture.Skip

		return result
	}

	evaluation, err := o.evaluate(ctx, fixture.Source, timeout)
	if err != nil {
		slog.Debug("fixture evaluation failed", "fixture", fixture.ID, "error", err)

		result.Status = m.Error
		result.Err = err.Error()

		return result
	}

	result.IsArrow = evaluation.Verdict.IsArrow
	result.Rule = evaluation.Verdict.Rule.String()

	if evaluation.Spoofed {
		result.Spoofed = true
		result.Display = evaluation.Display
		result.Intrinsic = evaluation.Intrinsic
	}

	switch {
	case fixture.Expect.Matches(result.IsArrow):
		result.Status = m.Passed
	case fixture.Limitation != "":
		result.Status = m.Limited
		result.Reason = fixture.Limitation
	default:
		result.Status = m.Failed
	}

	return result
}

func (o *orchestrator) CheckSource(ctx context.Context, source string, timeout time.Duration) m.Check {
	check := m.Check{Input: source}

	evaluation, err := o.evaluate(ctx, source, timeout)
	if err != nil {
		check.Err = err.Error()
		return check
	}

	check.IsArrow = evaluation.Verdict.IsArrow
	check.Rule = evaluation.Verdict.Rule.String()
	check.Intrinsic = evaluation.Intrinsic
	check.Display = evaluation.Display
	check.Spoofed = evaluation.Spoofed

	return check
}

func (o *orchestrator) evaluate(ctx context.Context, source string, timeout time.Duration) (adapter.Evaluation, error) {
	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return o.js.Evaluate(ctx, source)
}
