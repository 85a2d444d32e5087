package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/vk/blockfold/internal/consolidate"
	"github.com/vk/blockfold/internal/ctxlog"
	"github.com/vk/blockfold/internal/diffview"
	"github.com/vk/blockfold/internal/document"
	"github.com/vk/blockfold/internal/fsutil"
	"github.com/vk/blockfold/internal/report"
)

const diffContext = 3

// Run applies every plan found under the configured path, in lexical order.
// It stops at the first plan that fails. Consistency warnings are returned
// only when strict mode applies to the plan that raised them.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.With(a.Context(ctx), "run_id", uuid.NewString())
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.", "plan_path", a.config.PlanPath)

	if len(a.loaders) == 0 {
		return errors.New("no plan loaders registered")
	}
	paths, err := fsutil.FindFilesByExtension(a.config.PlanPath, a.extensions()...)
	if err != nil {
		return fmt.Errorf("failed to find plan files: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no plan files found in %s", a.config.PlanPath)
	}
	logger.Info("Plan files discovered.", "count", len(paths))

	var failures []error
	for _, path := range paths {
		if err := a.runPlan(ctx, path); err != nil {
			if errors.Is(err, consolidate.ErrConsistency) {
				failures = append(failures, err)
				continue
			}
			return err
		}
	}

	logger.Debug("App.Run method finished.")
	return errors.Join(failures...)
}

func (a *App) runPlan(ctx context.Context, path string) error {
	loader, ok := a.loaderFor(path)
	if !ok {
		return fmt.Errorf("no loader for %s", path)
	}
	plan, err := loader.Load(ctx, path)
	if err != nil {
		return err
	}
	if err := plan.Validate(); err != nil {
		return fmt.Errorf("plan %s: %w", path, err)
	}

	ctx = ctxlog.With(ctx, "plan", plan.Name)
	logger := ctxlog.FromContext(ctx)

	content, err := os.ReadFile(plan.Target)
	if err != nil {
		return fmt.Errorf("failed to read target: %w", err)
	}

	res, err := consolidate.Apply(ctx, plan, document.Parse(string(content)))
	if err != nil {
		if errors.Is(err, consolidate.ErrBoundaryMismatch) {
			logger.Error("Boundary assertions failed, target left untouched.", "path", plan.Target, "error", err)
		}
		return err
	}

	summary := report.Summary{
		Plan:     plan.Name,
		Target:   plan.Target,
		Result:   res,
		Markers:  res.Output.Count(plan.OpenMarker),
		Expected: plan.OpenMarkersWanted(),
	}

	var failure error
	switch {
	case a.config.Check:
		summary.Mode = report.ModeCheck
		logger.Info("Check passed, target not written.")

	case a.config.DryRun:
		summary.Mode = report.ModeDryRun
		diff, err := diffview.Unified(plan.Target, res.Original, res.Output, diffContext)
		if err != nil {
			return fmt.Errorf("failed to render diff: %w", err)
		}
		added, removed := diffview.Stats(diff)
		if _, err := fmt.Fprint(a.outW, diff); err != nil {
			return err
		}
		summary.Warning = consolidate.Verify(plan, res.Output)
		logger.Info("Dry run, target not written.", "added", added, "removed", removed)

	default:
		summary.Mode = report.ModeWrite
		if a.config.Backup {
			dest, err := fsutil.Backup(plan.Target)
			if err != nil {
				return fmt.Errorf("failed to back up target: %w", err)
			}
			summary.Backup = dest
			logger.Info("Backup written.", "path", dest)
		}
		if err := fsutil.WriteFileAtomic(plan.Target, []byte(res.Output.String())); err != nil {
			return fmt.Errorf("failed to write target: %w", err)
		}
		logger.Info("Target written.", "path", plan.Target, "lines", res.Output.Len())

		summary.Warning = consolidate.Verify(plan, res.Output)
		if summary.Warning != nil && (plan.Strict || a.config.Strict) {
			failure = summary.Warning
		}
	}

	if summary.Warning != nil {
		logger.Warn("Marker count mismatch.", "expected", summary.Expected, "got", summary.Markers)
	} else if summary.Mode != report.ModeCheck {
		logger.Info("Marker count verified.", "count", summary.Markers)
	}

	// A dry run keeps stdout a clean patch.
	reportW := a.outW
	if summary.Mode == report.ModeDryRun {
		reportW = a.logW
	}
	if err := report.Render(reportW, summary); err != nil {
		return err
	}
	return failure
}
