// Package export writes the on-disk artifacts a run produces: the
// accepted Plan, the execution log, a Markdown structure-diff report,
// and the raw Annotation set, each as timestamped JSON or Markdown under
// the Writer's output directory.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/antigravity-dev/autoword-go/internal/docmodel"
	"github.com/antigravity-dev/autoword-go/internal/errs"
	"github.com/antigravity-dev/autoword-go/internal/logging"
)

// Writer writes artifacts under OutputDir, creating it on first use.
type Writer struct {
	OutputDir string
}

// NewWriter builds a Writer rooted at outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{OutputDir: outputDir}
}

func (w *Writer) ensureDir() error {
	if err := os.MkdirAll(w.OutputDir, 0755); err != nil {
		return errs.Wrap(errs.DocumentError, fmt.Sprintf("could not create output dir %s", w.OutputDir), err)
	}
	return nil
}

func (w *Writer) path(prefix, ext string, at time.Time) string {
	return filepath.Join(w.OutputDir, fmt.Sprintf("%s_%s%s", prefix, at.Format("20060102_150405"), ext))
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errs.Wrap(errs.DocumentError, fmt.Sprintf("could not marshal %s", path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errs.Wrap(errs.DocumentError, fmt.Sprintf("could not write %s", path), err)
	}
	return nil
}

type planMetadata struct {
	DocumentPath string `json:"document_path"`
	TotalTasks   int    `json:"total_tasks"`
	CreatedAt    string `json:"created_at"`
	Version      string `json:"version"`
}

type planLocator struct {
	By    docmodel.LocatorType `json:"by"`
	Value string               `json:"value"`
}

type planTask struct {
	ID                 string            `json:"id"`
	Kind               docmodel.TaskKind `json:"type"`
	SourceAnnotationID *string           `json:"source_annotation_id"`
	Locator            planLocator       `json:"locator"`
	Instruction        string            `json:"instruction"`
	DependencyIDs      []string          `json:"dependencies"`
	Risk               docmodel.RiskLevel `json:"risk"`
	RequiresUserReview bool              `json:"requires_user_review"`
	Notes              *string           `json:"notes"`
}

type planDocument struct {
	Metadata planMetadata `json:"metadata"`
	Tasks    []planTask   `json:"tasks"`
}

// ExportPlan writes plan as plan_<ts>.json and returns its path. at is
// the timestamp to embed in the filename and metadata, passed by the
// caller since this package never calls time.Now() directly.
func (w *Writer) ExportPlan(ctx context.Context, plan docmodel.Plan, at time.Time) (string, error) {
	if err := w.ensureDir(); err != nil {
		return "", err
	}

	doc := planDocument{
		Metadata: planMetadata{
			DocumentPath: plan.DocumentPath,
			TotalTasks:   len(plan.Tasks),
			CreatedAt:    at.Format(time.RFC3339),
			Version:      "1.0",
		},
		Tasks: make([]planTask, 0, len(plan.Tasks)),
	}
	for _, t := range plan.Tasks {
		doc.Tasks = append(doc.Tasks, planTask{
			ID:                 t.ID,
			Kind:               t.Kind,
			SourceAnnotationID: t.SourceAnnotationID,
			Locator:            planLocator{By: t.Locator.By, Value: t.Locator.Value},
			Instruction:        t.Instruction,
			DependencyIDs:      t.DependencyIDs,
			Risk:               t.Risk,
			RequiresUserReview: t.RequiresUserReview,
			Notes:              t.Notes,
		})
	}

	path := w.path("plan", ".json", at)
	if err := writeJSON(path, doc); err != nil {
		return "", err
	}
	logging.Get(logging.CategoryOrchestrate).Info("exported plan to %s", path)
	return path, nil
}

type runLogMetadata struct {
	ExecutionTime string `json:"execution_time"`
	CompletedAt   string `json:"completed_at"`
	Version       string `json:"version"`
}

type runLogSummary struct {
	Success      bool   `json:"success"`
	TotalTasks   int    `json:"total_tasks"`
	SucceededN   int    `json:"completed_tasks"`
	FailedN      int    `json:"failed_tasks"`
	ErrorSummary string `json:"error_summary"`
}

type runLogTaskResult struct {
	TaskID        string  `json:"task_id"`
	Success       bool    `json:"success"`
	Message       string  `json:"message"`
	ExecutionTime string  `json:"execution_time"`
	ErrorDetails  *string `json:"error_details"`
}

type runLogDocument struct {
	Metadata    runLogMetadata     `json:"metadata"`
	Summary     runLogSummary      `json:"summary"`
	TaskResults []runLogTaskResult `json:"task_results"`
}

// ExportExecutionLog writes result as run_log_<ts>.json and returns
// its path.
func (w *Writer) ExportExecutionLog(ctx context.Context, result docmodel.ExecutionResult, at time.Time) (string, error) {
	if err := w.ensureDir(); err != nil {
		return "", err
	}

	doc := runLogDocument{
		Metadata: runLogMetadata{
			ExecutionTime: result.TotalElapsed.String(),
			CompletedAt:   at.Format(time.RFC3339),
			Version:       "1.0",
		},
		Summary: runLogSummary{
			Success:      result.Success,
			TotalTasks:   result.TotalTasks,
			SucceededN:   result.SucceededN,
			FailedN:      result.FailedN,
			ErrorSummary: result.ErrorSummary,
		},
		TaskResults: make([]runLogTaskResult, 0, len(result.Results)),
	}
	for _, r := range result.Results {
		doc.TaskResults = append(doc.TaskResults, runLogTaskResult{
			TaskID:        r.TaskID,
			Success:       r.Success,
			Message:       r.Message,
			ExecutionTime: r.Duration.String(),
			ErrorDetails:  r.Error,
		})
	}

	path := w.path("run_log", ".json", at)
	if err := writeJSON(path, doc); err != nil {
		return "", err
	}
	logging.Get(logging.CategoryOrchestrate).Info("exported execution log to %s", path)
	return path, nil
}

type annotationsMetadata struct {
	TotalAnnotations int    `json:"total_comments"`
	ExportedAt       string `json:"exported_at"`
	Version          string `json:"version"`
}

type annotationRecord struct {
	ID         string `json:"id"`
	Author     string `json:"author"`
	Page       int    `json:"page"`
	AnchorText string `json:"anchor_text"`
	BodyText   string `json:"comment_text"`
	RangeStart int    `json:"range_start"`
	RangeEnd   int    `json:"range_end"`
}

type annotationsDocument struct {
	Metadata    annotationsMetadata `json:"metadata"`
	Annotations []annotationRecord  `json:"comments"`
}

// ExportAnnotations writes annotations as comments_<ts>.json and
// returns its path.
func (w *Writer) ExportAnnotations(ctx context.Context, annotations []docmodel.Annotation, at time.Time) (string, error) {
	if err := w.ensureDir(); err != nil {
		return "", err
	}

	doc := annotationsDocument{
		Metadata: annotationsMetadata{
			TotalAnnotations: len(annotations),
			ExportedAt:       at.Format(time.RFC3339),
			Version:          "1.0",
		},
		Annotations: make([]annotationRecord, 0, len(annotations)),
	}
	for _, a := range annotations {
		doc.Annotations = append(doc.Annotations, annotationRecord{
			ID:         a.ID,
			Author:     a.Author,
			Page:       a.Page,
			AnchorText: a.AnchorText,
			BodyText:   a.BodyText,
			RangeStart: a.Range.Start,
			RangeEnd:   a.Range.End,
		})
	}

	path := w.path("comments", ".json", at)
	if err := writeJSON(path, doc); err != nil {
		return "", err
	}
	logging.Get(logging.CategoryOrchestrate).Info("exported annotations to %s", path)
	return path, nil
}

// ExportDiffReport writes a Markdown structure-diff report comparing
// before and after as diff_<ts>.md and returns its path.
func (w *Writer) ExportDiffReport(ctx context.Context, before, after docmodel.Structure, at time.Time) (string, error) {
	if err := w.ensureDir(); err != nil {
		return "", err
	}

	content := RenderDiffMarkdown(before, after, at)
	path := w.path("diff", ".md", at)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", errs.Wrap(errs.DocumentError, fmt.Sprintf("could not write %s", path), err)
	}
	logging.Get(logging.CategoryOrchestrate).Info("exported diff report to %s", path)
	return path, nil
}

// Result is every artifact path produced by ExportAll. Diff is empty
// when no before/after structure pair was supplied.
type Result struct {
	Plan        string
	RunLog      string
	Diff        string
	Annotations string
}

// ExportAll writes the plan, the run log, and the annotation set
// unconditionally, and the diff report only when both structure
// pointers are non-nil, mirroring the source's export_execution_report convenience
// function.
func (w *Writer) ExportAll(ctx context.Context, plan docmodel.Plan, result docmodel.ExecutionResult, annotations []docmodel.Annotation, before, after *docmodel.Structure, at time.Time) (Result, error) {
	var out Result
	var err error

	if out.Plan, err = w.ExportPlan(ctx, plan, at); err != nil {
		return Result{}, err
	}
	if out.RunLog, err = w.ExportExecutionLog(ctx, result, at); err != nil {
		return Result{}, err
	}
	if out.Annotations, err = w.ExportAnnotations(ctx, annotations, at); err != nil {
		return Result{}, err
	}
	if before != nil && after != nil {
		if out.Diff, err = w.ExportDiffReport(ctx, *before, *after, at); err != nil {
			return Result{}, err
		}
	}
	return out, nil
}
