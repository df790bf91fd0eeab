// Package executor implements the Executor: it opens a document
// session, runs a Plan's tasks in order, and enforces the third and
// (per-task) fourth lines of format-protection defense — Gate L3
// re-authorization before mutating, and a pre/post structure-diff that
// triggers an atomic rollback the instant a format task produces an
// unauthorized side effect.
package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/antigravity-dev/autoword-go/internal/config"
	"github.com/antigravity-dev/autoword-go/internal/docdriver"
	"github.com/antigravity-dev/autoword-go/internal/docmodel"
	"github.com/antigravity-dev/autoword-go/internal/errs"
	"github.com/antigravity-dev/autoword-go/internal/inspector"
	"github.com/antigravity-dev/autoword-go/internal/logging"
	"github.com/antigravity-dev/autoword-go/internal/snapshot"
	"github.com/antigravity-dev/autoword-go/internal/validator"
)

// Executor runs a Plan's tasks against a document opened through
// driver, backing the document up through store before mutating.
type Executor struct {
	driver docdriver.Driver
	store  *snapshot.Store
	cfg    config.ExecutionConfig
}

// NewExecutor builds an Executor. store may be nil only when every
// call uses ModeDryRun (no mutation ever happens, so no backup is
// ever needed).
func NewExecutor(driver docdriver.Driver, store *snapshot.Store, cfg config.ExecutionConfig) *Executor {
	return &Executor{driver: driver, store: store, cfg: cfg}
}

// Result is Execute's full output: the ExecutionResult the
// Orchestrator reports, the backup path if one was created, whether a
// rollback happened mid-run, and the ExecutedTask list the
// Orchestrator's own end-of-run Gate L4 pass needs.
type Result struct {
	Execution         docmodel.ExecutionResult
	BackupPath        string
	RollbackPerformed bool
	Executed          []validator.ExecutedTask
}

// Execute runs tasks in order against documentPath under mode. One
// task's failure never aborts the remainder; only a session-level
// failure (the document can't be opened, saved, or reopened after a
// rollback) does.
func (e *Executor) Execute(ctx context.Context, documentPath string, tasks []docmodel.Task, annotations []docmodel.Annotation, mode Mode) (Result, error) {
	log := logging.Get(logging.CategoryExecute)
	start := time.Now()

	doc, err := e.driver.Open(ctx, documentPath)
	if err != nil {
		return Result{}, errs.Wrap(errs.DriverError, fmt.Sprintf("could not open %s", documentPath), err)
	}

	annotationIDs := make(map[string]bool, len(annotations))
	for _, a := range annotations {
		annotationIDs[a.ID] = true
	}

	var backupPath string
	if mode != ModeDryRun {
		backupPath, err = e.store.Backup(ctx, documentPath)
		if err != nil {
			return Result{}, err
		}
	}

	strict := mode == ModeSafe

	var results []docmodel.TaskResult
	var executedTasks []validator.ExecutedTask
	rollbackPerformed := false
	succeeded, failed := 0, 0

	for i, task := range tasks {
		select {
		case <-ctx.Done():
			results = append(results, cancelledResult(task))
			failed++
			continue
		default:
		}

		log.Info("executing %d/%d: %s (%s)", i+1, len(tasks), task.ID, task.Kind)
		taskStart := time.Now()

		if err := task.Validate(annotationIDs); err != nil {
			results = append(results, failedResult(task, docmodel.CharRange{}, taskStart,
				errs.Wrap(errs.FormatProtection, "task blocked by format protection", err)))
			failed++
			continue
		}

		paragraphs, err := doc.Paragraphs(ctx)
		if err != nil {
			return Result{}, errs.Wrap(errs.DriverError, "could not enumerate paragraphs", err)
		}

		resolvedRange, note, err := resolveLocator(task.Locator, paragraphs, strict)
		if err != nil {
			results = append(results, failedResult(task, docmodel.CharRange{}, taskStart, err))
			failed++
			continue
		}
		if note != "" {
			log.Warn("task %s: %s", task.ID, note)
		}

		isFormat := task.Kind.IsFormat()

		var preStructure docmodel.Structure
		if isFormat && mode != ModeDryRun {
			preStructure, err = inspector.ExtractStructure(ctx, doc)
			if err != nil {
				results = append(results, failedResult(task, resolvedRange, taskStart,
					errs.Wrap(errs.DriverError, "could not snapshot structure before mutating", err)))
				failed++
				continue
			}
		}

		message, mutateErr := e.dispatch(ctx, doc, task, resolvedRange, mode, paragraphs)
		if mutateErr != nil {
			results = append(results, failedResult(task, resolvedRange, taskStart, mutateErr))
			failed++
			continue
		}

		if isFormat && mode != ModeDryRun {
			postStructure, err := inspector.ExtractStructure(ctx, doc)
			if err != nil {
				results = append(results, failedResult(task, resolvedRange, taskStart,
					errs.Wrap(errs.DriverError, "could not snapshot structure after mutating", err)))
				failed++
				continue
			}

			executed := []validator.ExecutedTask{{
				Kind:               task.Kind,
				SourceAnnotationID: task.SourceAnnotationID,
				LocatorBy:          task.Locator.By,
				ResolvedRange:      resolvedRange,
			}}
			report := validator.GenerateReport(preStructure, postStructure, executed, annotationIDs)

			if report.ShouldRollback() {
				log.Error("task %s produced %d unauthorized change(s), rolling back", task.ID, len(report.Unauthorized))

				reopened, rollbackErr := e.rollback(ctx, doc, documentPath, backupPath)
				if rollbackErr != nil {
					results = append(results, failedResult(task, resolvedRange, taskStart,
						errs.Wrap(errs.FormatProtection, "unauthorized change detected and rollback failed", rollbackErr)))
					failed++
					return e.finish(results, executedTasks, backupPath, true, start), errs.Wrap(errs.FormatProtection, "rollback failed, aborting remaining tasks", rollbackErr)
				}

				doc = reopened
				rollbackPerformed = true
				results = append(results, failedResult(task, resolvedRange, taskStart,
					errs.New(errs.FormatProtection, fmt.Sprintf("unauthorized change(s) detected, rolled back: %s", strings.Join(summarizeChanges(report.Unauthorized), "; ")))))
				failed++
				continue
			}
		}

		results = append(results, docmodel.TaskResult{
			TaskID:        task.ID,
			Kind:          task.Kind,
			ResolvedRange: resolvedRange,
			Success:       true,
			Message:       message,
			Duration:      time.Since(taskStart),
		})
		succeeded++
		executedTasks = append(executedTasks, validator.ExecutedTask{
			Kind:               task.Kind,
			SourceAnnotationID: task.SourceAnnotationID,
			LocatorBy:          task.Locator.By,
			ResolvedRange:      resolvedRange,
		})
	}

	if mode != ModeDryRun {
		if err := doc.Save(ctx); err != nil {
			return e.finish(results, executedTasks, backupPath, rollbackPerformed, start),
				errs.Wrap(errs.DriverError, "could not save document", err)
		}
	}
	if err := doc.Close(ctx); err != nil {
		log.Warn("could not close document cleanly: %v", err)
	}

	result := e.finish(results, executedTasks, backupPath, rollbackPerformed, start)
	result.Execution.SucceededN = succeeded
	result.Execution.FailedN = failed
	return result, nil
}

func (e *Executor) finish(results []docmodel.TaskResult, executed []validator.ExecutedTask, backupPath string, rollbackPerformed bool, start time.Time) Result {
	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	return Result{
		Execution: docmodel.ExecutionResult{
			Success:      failed == 0,
			TotalTasks:   len(results),
			Results:      results,
			TotalElapsed: time.Since(start),
			ErrorSummary: errorSummary(failed),
		},
		BackupPath:        backupPath,
		RollbackPerformed: rollbackPerformed,
		Executed:          executed,
	}
}

func errorSummary(failed int) string {
	if failed == 0 {
		return ""
	}
	return fmt.Sprintf("%d task(s) failed", failed)
}

// rollback closes doc, restores documentPath from backupPath, and
// reopens it, matching spec.md §4.6 step 5: execution resumes from
// the next task only if every one of these succeeds.
func (e *Executor) rollback(ctx context.Context, doc docdriver.Document, documentPath, backupPath string) (docdriver.Document, error) {
	if backupPath == "" {
		return nil, fmt.Errorf("no backup available to roll back to")
	}
	if err := doc.Close(ctx); err != nil {
		return nil, fmt.Errorf("closing document before restore: %w", err)
	}
	if err := e.store.Restore(ctx, backupPath, documentPath); err != nil {
		return nil, err
	}
	return e.driver.Open(ctx, documentPath)
}

func summarizeChanges(changes []docmodel.FormatChange) []string {
	out := make([]string, 0, len(changes))
	for _, c := range changes {
		out = append(out, fmt.Sprintf("%s(%s): %s -> %s", c.Kind, c.ElementID, c.OldValue, c.NewValue))
	}
	return out
}

func failedResult(task docmodel.Task, r docmodel.CharRange, start time.Time, err error) docmodel.TaskResult {
	msg := err.Error()
	return docmodel.TaskResult{
		TaskID:        task.ID,
		Kind:          task.Kind,
		ResolvedRange: r,
		Success:       false,
		Message:       msg,
		Duration:      time.Since(start),
		Error:         &msg,
	}
}

func cancelledResult(task docmodel.Task) docmodel.TaskResult {
	msg := errs.New(errs.Cancelled, "run cancelled before this task started").Error()
	return docmodel.TaskResult{TaskID: task.ID, Kind: task.Kind, Success: false, Message: msg, Error: &msg}
}
