// Package domain holds the arrowcheck workflows: fixture discovery,
// classification runs, report viewing and ad-hoc checks.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"arrowcheck.dev/pkg/arrowcheck/internal/adapter"
	"arrowcheck.dev/pkg/arrowcheck/internal/controller"
	m "arrowcheck.dev/pkg/arrowcheck/internal/model"
	"arrowcheck.dev/pkg/arrowcheck/pkg/arrowfn"
	"arrowcheck.dev/pkg/arrowcheck/pkg/spill"
)

var (
	// ErrMisclassified is returned by Run when at least one fixture failed.
	ErrMisclassified = errors.New("fixtures misclassified")
	// ErrUnevaluated is returned by Run when no fixture failed but some could
	// not be evaluated.
	ErrUnevaluated = errors.New("fixtures could not be evaluated")
	// ErrNoReports is returned by View when the reports directory is empty.
	ErrNoReports = errors.New("no reports found")
)

// ListArgs selects fixture files.
type ListArgs struct {
	Paths   []m.Path
	Exclude []string
}

// RunArgs configures a classification run.
type RunArgs struct {
	ListArgs
	Reports  m.Path
	UseCache bool
	Threads  int
	Timeout  time.Duration
}

// ViewArgs points at saved reports.
type ViewArgs struct {
	Reports m.Path
}

// CheckArgs lists ad-hoc inputs. With Raw set the inputs are treated as
// function source text and are never evaluated.
type CheckArgs struct {
	Sources []string
	Raw     bool
	Timeout time.Duration
}

// Workflow defines the arrowcheck use cases driven by the CLI.
type Workflow interface {
	List(ctx context.Context, args ListArgs) error
	Run(ctx context.Context, args RunArgs) error
	View(ctx context.Context, args ViewArgs) error
	Check(ctx context.Context, args CheckArgs) error
}

type workflow struct {
	FixtureLoader
	adapter.ReportStore
	controller.UI
	Orchestrator
}

// NewWorkflow creates a Workflow with the provided dependencies.
func NewWorkflow(
	loader FixtureLoader,
	reportStore adapter.ReportStore,
	ui controller.UI,
	orchestrator Orchestrator,
) Workflow {
	return &workflow{
		FixtureLoader: loader,
		ReportStore:   reportStore,
		UI:            ui,
		Orchestrator:  orchestrator,
	}
}

func (w *workflow) List(ctx context.Context, args ListArgs) error {
	if err := w.Start(ctx, controller.WithListMode()); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}
	defer w.Close(ctx)

	files, err := w.Load(ctx, args.Paths, args.Exclude...)
	if err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}

	if err := w.DisplayFixtureCounts(ctx, files); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	if err := w.Start(ctx, controller.WithRunMode()); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}
	defer w.Close(ctx)

	files, err := w.Load(ctx, args.Paths, args.Exclude...)
	if err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}

	plan, err := w.planRun(args, files)
	if err != nil {
		return err
	}

	threads := max(args.Threads, 1)
	fixtures := plan.fixtures()

	w.DisplayConcurrencyInfo(ctx, threads, len(fixtures), len(plan.cached))

	results, err := spill.NewFileSpill[m.Result]("")
	if err != nil {
		return fmt.Errorf("create result spill: %w", err)
	}

	defer func() {
		if closeErr := results.Close(); closeErr != nil {
			slog.Warn("failed to close result spill", "error", closeErr)
		}
	}()

	if err := w.classifyAll(ctx, fixtures, threads, args.Timeout, results); err != nil {
		return fmt.Errorf("classify fixtures: %w", err)
	}

	summary, err := summaryFromSpill(results)
	if err != nil {
		return fmt.Errorf("summarize results: %w", err)
	}

	for _, report := range plan.cached {
		mergeCounts(summary.Counts, report.Counts())
	}

	summary = newSummary(summary.Counts)

	if err := w.persist(args.Reports, plan, results); err != nil {
		return err
	}

	w.DisplayAccuracy(ctx, summary)
	w.Wait(ctx)

	slog.Info("run finished",
		"fixtures", summary.Total(),
		"failed", summary.Counts[m.Failed],
		"errors", summary.Counts[m.Error],
		"accuracy", summary.Accuracy)

	if failed := summary.Counts[m.Failed]; failed > 0 {
		return fmt.Errorf("%w: %d fixture(s)", ErrMisclassified, failed)
	}

	if errored := summary.Counts[m.Error]; errored > 0 {
		return fmt.Errorf("%w: %d fixture(s)", ErrUnevaluated, errored)
	}

	return nil
}

func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}
	defer w.Close(ctx)

	if err := w.prune(args.Reports); err != nil {
		return err
	}

	reports, err := w.LoadReports(args.Reports)
	if err != nil {
		return fmt.Errorf("load reports: %w", err)
	}

	if len(reports) == 0 {
		return fmt.Errorf("%w in %s", ErrNoReports, args.Reports)
	}

	if err := w.DisplayReports(ctx, reports); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.DisplayAccuracy(ctx, summaryFromReports(reports))
	w.Wait(ctx)

	return nil
}

func (w *workflow) Check(ctx context.Context, args CheckArgs) error {
	if err := w.Start(ctx, controller.WithCheckMode()); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}
	defer w.Close(ctx)

	checks := make([]m.Check, 0, len(args.Sources))

	for _, source := range args.Sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		if args.Raw {
			verdict := arrowfn.ExplainSource(source)
			checks = append(checks, m.Check{
				Input:   source,
				IsArrow: verdict.IsArrow,
				Rule:    verdict.Rule.String(),
			})

			continue
		}

		checks = append(checks, w.CheckSource(ctx, source, args.Timeout))
	}

	if err := w.DisplayVerdicts(ctx, checks); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

// runPlan splits discovered files into those to classify and those whose
// saved report is still valid.
type runPlan struct {
	runID   string
	pending []m.FixtureFile
	cached  []m.Report
	index   adapter.CacheIndex
}

func (p runPlan) fixtures() []m.Fixture {
	var fixtures []m.Fixture
	for _, file := range p.pending {
		fixtures = append(fixtures, file.Fixtures...)
	}

	return fixtures
}

func (w *workflow) planRun(args RunArgs, files []m.FixtureFile) (runPlan, error) {
	plan := runPlan{runID: w.NewRunID(), index: adapter.CacheIndex{}}

	if args.Reports == "" {
		plan.pending = files
		return plan, nil
	}

	if err := w.prune(args.Reports); err != nil {
		return runPlan{}, err
	}

	index, err := w.LoadIndex(args.Reports)
	if err != nil {
		return runPlan{}, fmt.Errorf("load cache index: %w", err)
	}

	plan.index = index

	if !args.UseCache {
		plan.pending = files
		return plan, nil
	}

	saved, err := w.LoadReports(args.Reports)
	if err != nil {
		return runPlan{}, fmt.Errorf("load reports: %w", err)
	}

	byPath := make(map[m.Path]m.Report, len(saved))
	for _, report := range saved {
		byPath[report.File.FullPath] = report
	}

	for _, file := range files {
		report, ok := byPath[file.File.FullPath]
		if ok && index.Fresh(file.File) {
			slog.Debug("reusing cached report", "path", file.File.ShortPath)
			plan.cached = append(plan.cached, report)

			continue
		}

		plan.pending = append(plan.pending, file)
	}

	return plan, nil
}

// prune drops reports of fixture files deleted since they were written.
func (w *workflow) prune(dir m.Path) error {
	pruned, err := w.PruneReports(dir)
	if err != nil {
		return fmt.Errorf("prune reports: %w", err)
	}

	for _, path := range pruned {
		slog.Info("removed report of deleted fixture file", "path", path)
	}

	return nil
}

func (w *workflow) classifyAll(
	ctx context.Context,
	fixtures []m.Fixture,
	threads int,
	timeout time.Duration,
	results spill.FileSpill[m.Result],
) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for _, fixture := range fixtures {
		if groupCtx.Err() != nil {
			break
		}

		group.Go(func() error {
			result := w.Classify(groupCtx, fixture, timeout)

			if err := results.Append(result); err != nil {
				return fmt.Errorf("spill result for %s: %w", fixture.ID, err)
			}

			w.DisplayResult(groupCtx, result)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

// persist writes one report per classified file and records their hashes.
func (w *workflow) persist(dir m.Path, plan runPlan, results spill.FileSpill[m.Result]) error {
	if dir == "" {
		return nil
	}

	reports, err := buildReports(plan, results)
	if err != nil {
		return fmt.Errorf("build reports: %w", err)
	}

	if err := w.SaveReports(dir, reports); err != nil {
		return fmt.Errorf("save reports: %w", err)
	}

	for _, file := range plan.pending {
		plan.index[file.File.FullPath] = file.File.Hash
	}

	if err := w.SaveIndex(dir, plan.index); err != nil {
		return fmt.Errorf("save cache index: %w", err)
	}

	return nil
}

func buildReports(plan runPlan, results spill.FileSpill[m.Result]) ([]m.Report, error) {
	owner := make(map[string]int)
	order := make(map[string]int)
	reports := make([]m.Report, len(plan.pending))
	created := time.Now().UTC()

	for i, file := range plan.pending {
		reports[i] = m.Report{RunID: plan.runID, File: file.File, CreatedAt: created}

		for j, fixture := range file.Fixtures {
			owner[fixture.ID] = i
			order[fixture.ID] = j
		}
	}

	err := results.Range(func(_ uint64, result m.Result) error {
		i, ok := owner[result.FixtureID]
		if !ok {
			return fmt.Errorf("result for unknown fixture %s", result.FixtureID)
		}

		reports[i].Results = append(reports[i].Results, result)

		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range reports {
		sort.Slice(reports[i].Results, func(a, b int) bool {
			return order[reports[i].Results[a].FixtureID] < order[reports[i].Results[b].FixtureID]
		})
	}

	return reports, nil
}
