package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/antigravity-dev/autoword-go/internal/config"
	"github.com/antigravity-dev/autoword-go/internal/docdriver"
	"github.com/antigravity-dev/autoword-go/internal/docmodel"
	"github.com/antigravity-dev/autoword-go/internal/errs"
	"github.com/antigravity-dev/autoword-go/internal/executor"
	"github.com/antigravity-dev/autoword-go/internal/export"
	"github.com/antigravity-dev/autoword-go/internal/inspector"
	"github.com/antigravity-dev/autoword-go/internal/llmclient"
	"github.com/antigravity-dev/autoword-go/internal/logging"
	"github.com/antigravity-dev/autoword-go/internal/planner"
	"github.com/antigravity-dev/autoword-go/internal/snapshot"
	"github.com/antigravity-dev/autoword-go/internal/validator"
)

// Pipeline drives one document through load, inspect, plan, execute,
// validate, export in order. A Pipeline owns one driver session at a
// time and is not safe for concurrent Run calls against the same
// instance — process multiple documents through separate Pipelines
// (see RunMany).
type Pipeline struct {
	cfg    *config.Config
	driver docdriver.Driver
	client llmclient.Client
	store  *snapshot.Store
	exec   *executor.Executor
	writer *export.Writer

	mode             executor.Mode
	enableValidation bool
	exportResults    bool

	callbacks []func(ProgressEvent)
}

// New builds a Pipeline against driver and client using cfg, running
// in mode (ModeNormal unless the caller wants a dry run or safe run
// for every document it processes).
func New(cfg *config.Config, driver docdriver.Driver, client llmclient.Client, mode executor.Mode) *Pipeline {
	store := snapshot.NewStore()
	return &Pipeline{
		cfg:              cfg,
		driver:           driver,
		client:           client,
		store:            store,
		exec:             executor.NewExecutor(driver, store, cfg.Execution),
		writer:           export.NewWriter(cfg.Execution.WorkingDirectory),
		mode:             mode,
		enableValidation: true,
		exportResults:    true,
	}
}

// OnProgress registers a callback invoked at the start and end of
// every stage. A panicking callback is recovered and logged; it never
// aborts the run, matching the source's per-callback isolation.
func (p *Pipeline) OnProgress(cb func(ProgressEvent)) {
	p.callbacks = append(p.callbacks, cb)
}

// DisableValidation skips the Stage Validate structure-diff pass.
// Used by callers that already know the document has no format tasks.
func (p *Pipeline) DisableValidation() { p.enableValidation = false }

// DisableExport skips writing artifacts under Stage Export.
func (p *Pipeline) DisableExport() { p.exportResults = false }

func (p *Pipeline) report(stage Stage, fraction float64, message string) {
	log := logging.Get(logging.CategoryOrchestrate)
	log.Info("[%s] %.0f%% - %s", stage, fraction*100, message)

	for _, cb := range p.callbacks {
		p.invokeCallback(cb, ProgressEvent{Stage: stage, Fraction: fraction, Message: message, At: time.Now()})
	}
}

func (p *Pipeline) invokeCallback(cb func(ProgressEvent), evt ProgressEvent) {
	log := logging.Get(logging.CategoryOrchestrate)
	defer func() {
		if r := recover(); r != nil {
			log.Error("progress callback panicked: %v", r)
		}
	}()
	cb(evt)
}

// Run drives documentPath through every stage in order and always
// returns a RunReport, even on failure — a stage failure never raises,
// it is encoded in the report's ErrorCode/ErrorMessage, matching the
// Executor's own "never raise except on an unrecoverable condition"
// contract one level up.
func (p *Pipeline) Run(ctx context.Context, documentPath string) (docmodel.RunReport, error) {
	log := logging.Get(logging.CategoryOrchestrate)
	log.Info("starting pipeline run: %s", documentPath)

	var stagesCompleted []string

	// Stage: load
	p.report(StageLoad, 0, "opening document")
	doc, err := p.driver.Open(ctx, documentPath)
	if err != nil {
		return p.fail(documentPath, stagesCompleted, "", errs.Wrap(errs.DriverError, "could not open document", err)), nil
	}
	stagesCompleted = append(stagesCompleted, string(StageLoad))
	p.report(StageLoad, 1, "document loaded")

	if err := ctx.Err(); err != nil {
		doc.Close(ctx)
		return p.cancelled(documentPath, stagesCompleted, ""), nil
	}

	// Stage: inspect
	p.report(StageInspect, 0, "extracting annotations and structure")
	annotations, err := inspector.ExtractAnnotations(ctx, doc)
	if err != nil {
		doc.Close(ctx)
		return p.fail(documentPath, stagesCompleted, "", err), nil
	}
	before, err := inspector.ExtractStructure(ctx, doc)
	if err != nil {
		doc.Close(ctx)
		return p.fail(documentPath, stagesCompleted, "", err), nil
	}
	if err := doc.Close(ctx); err != nil {
		log.Warn("could not close document cleanly after inspection: %v", err)
	}
	stagesCompleted = append(stagesCompleted, string(StageInspect))
	p.report(StageInspect, 1, fmt.Sprintf("%d annotation(s) found", len(annotations)))

	if err := ctx.Err(); err != nil {
		return p.cancelled(documentPath, stagesCompleted, ""), nil
	}

	// Stage: plan
	p.report(StagePlan, 0, "generating task plan")
	planningResult, err := planner.GeneratePlan(ctx, p.client, documentPath, before, annotations)
	if err != nil {
		return p.fail(documentPath, stagesCompleted, "", errs.Wrap(errs.LLMFormat, "task planning failed", err)), nil
	}
	stagesCompleted = append(stagesCompleted, string(StagePlan))
	p.report(StagePlan, 1, fmt.Sprintf("%d task(s) planned, %d skipped", len(planningResult.Plan.Tasks), len(planningResult.Skipped)))

	if err := ctx.Err(); err != nil {
		return p.cancelled(documentPath, stagesCompleted, ""), nil
	}

	// Stage: execute
	p.report(StageExecute, 0, "executing tasks")
	execResult, err := p.exec.Execute(ctx, documentPath, planningResult.Plan.Tasks, annotations, p.mode)
	if err != nil {
		return p.fail(documentPath, stagesCompleted, execResult.BackupPath, errs.Wrap(errs.TaskExecution, "task execution failed", err)), nil
	}
	stagesCompleted = append(stagesCompleted, string(StageExecute))
	p.report(StageExecute, 1, fmt.Sprintf("%d/%d task(s) succeeded", execResult.Execution.SucceededN, execResult.Execution.TotalTasks))

	// Stage: validate
	validation := docmodel.ValidationReport{ValidatedAt: time.Now()}
	rollbackPerformed := execResult.RollbackPerformed
	dataAtRisk := false
	var after docmodel.Structure
	haveAfter := false

	if p.enableValidation && p.mode != executor.ModeDryRun {
		p.report(StageValidate, 0, "validating structure changes")

		var verr error
		after, verr = p.reextractStructure(ctx, documentPath)
		if verr != nil {
			log.Warn("could not re-extract structure for final validation: %v", verr)
		} else {
			haveAfter = true
			annotationIDs := make(map[string]bool, len(annotations))
			for _, a := range annotations {
				annotationIDs[a.ID] = true
			}
			validation = validator.GenerateReport(before, after, execResult.Executed, annotationIDs)

			if validation.ShouldRollback() {
				log.Error("final validation found %d unauthorized change(s)", len(validation.Unauthorized))
				if execResult.BackupPath != "" && p.cfg.Execution.AutoRollback {
					if rerr := p.store.Restore(context.Background(), execResult.BackupPath, documentPath); rerr != nil {
						log.Error("final rollback failed: %v", rerr)
						dataAtRisk = true
					} else {
						rollbackPerformed = true
					}
				} else {
					dataAtRisk = true
				}
			}
		}
		stagesCompleted = append(stagesCompleted, string(StageValidate))
		p.report(StageValidate, 1, fmt.Sprintf("%d unauthorized change(s)", len(validation.Unauthorized)))
	}

	// Stage: export
	var exported []string
	if p.exportResults {
		p.report(StageExport, 0, "exporting results")
		var afterPtr *docmodel.Structure
		if haveAfter {
			afterPtr = &after
		}
		out, eerr := p.writer.ExportAll(ctx, planningResult.Plan, execResult.Execution, annotations, &before, afterPtr, time.Now())
		if eerr != nil {
			log.Error("export failed: %v", eerr)
		} else {
			exported = nonEmptyArtifacts(out)
		}
		stagesCompleted = append(stagesCompleted, string(StageExport))
		p.report(StageExport, 1, fmt.Sprintf("%d artifact(s) written", len(exported)))
	}

	success := execResult.Execution.Success && validation.IsValid() && !dataAtRisk

	log.Info("pipeline run finished: %s success=%v", documentPath, success)

	return docmodel.RunReport{
		Success:           success,
		StagesCompleted:   stagesCompleted,
		Plan:              planningResult.Plan,
		Execution:         execResult.Execution,
		Validation:        validation,
		RollbackPerformed: rollbackPerformed,
		BackupPath:        execResult.BackupPath,
		ExportedArtifacts: exported,
		DataAtRisk:        dataAtRisk,
	}, nil
}

// reextractStructure re-opens documentPath to capture its
// post-execution structure for the final validation pass; the
// document handle used during execution already closed after saving.
func (p *Pipeline) reextractStructure(ctx context.Context, documentPath string) (docmodel.Structure, error) {
	doc, err := p.driver.Open(ctx, documentPath)
	if err != nil {
		return docmodel.Structure{}, errs.Wrap(errs.DriverError, "could not reopen document for validation", err)
	}
	defer doc.Close(ctx)
	return inspector.ExtractStructure(ctx, doc)
}

// fail builds a failed RunReport for err, attempting an auto-rollback
// when a backup exists and the config calls for one. It uses a fresh
// background context for the rollback itself so a caller-cancelled ctx
// never prevents restoring the document.
func (p *Pipeline) fail(documentPath string, stagesCompleted []string, backupPath string, err error) docmodel.RunReport {
	log := logging.Get(logging.CategoryOrchestrate)
	log.Error("pipeline run failed: %v", err)

	report := docmodel.RunReport{
		Success:         false,
		StagesCompleted: stagesCompleted,
		BackupPath:      backupPath,
		DataAtRisk:      backupPath != "",
	}

	var e *errs.Error
	if errors.As(err, &e) {
		report.ErrorCode = string(e.Code)
	} else {
		report.ErrorCode = string(errs.DocumentError)
	}
	report.ErrorMessage = err.Error()

	if backupPath != "" && p.cfg.Execution.AutoRollback {
		if rerr := p.store.Restore(context.Background(), backupPath, documentPath); rerr != nil {
			log.Error("auto-rollback after stage failure also failed: %v", rerr)
		} else {
			report.RollbackPerformed = true
			report.DataAtRisk = false
		}
	}
	return report
}

// cancelled builds a RunReport for a run stopped by context
// cancellation between stages, applying the same rollback policy as
// fail.
func (p *Pipeline) cancelled(documentPath string, stagesCompleted []string, backupPath string) docmodel.RunReport {
	report := p.fail(documentPath, stagesCompleted, backupPath, errs.New(errs.Cancelled, "run cancelled"))
	report.Cancelled = true
	return report
}

func nonEmptyArtifacts(out export.Result) []string {
	var paths []string
	for _, p := range []string{out.Plan, out.RunLog, out.Diff, out.Annotations} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// DryRun runs documentPath through the pipeline with ModeDryRun and
// export disabled, restoring the Pipeline's original mode and export
// setting afterward. Not safe to call concurrently with Run on the
// same Pipeline.
func (p *Pipeline) DryRun(ctx context.Context, documentPath string) docmodel.RunReport {
	originalMode, originalExport := p.mode, p.exportResults
	p.mode, p.exportResults = executor.ModeDryRun, false
	defer func() { p.mode, p.exportResults = originalMode, originalExport }()

	report, _ := p.Run(ctx, documentPath)
	return report
}

// RunMany runs one Pipeline per path, built fresh by factory so each
// document gets its own driver session and snapshot state, at most
// concurrency running at once.
func RunMany(ctx context.Context, concurrency int, paths []string, factory func() *Pipeline) []docmodel.RunReport {
	if concurrency < 1 {
		concurrency = 1
	}
	reports := make([]docmodel.RunReport, len(paths))

	var eg errgroup.Group
	eg.SetLimit(concurrency)
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			reports[i], _ = factory().Run(ctx, path)
			return nil
		})
	}
	_ = eg.Wait()
	return reports
}
