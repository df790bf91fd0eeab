package executor

import (
	"context"
	"fmt"

	"github.com/antigravity-dev/autoword-go/internal/docdriver"
	"github.com/antigravity-dev/autoword-go/internal/docmodel"
	"github.com/antigravity-dev/autoword-go/internal/errs"
	"github.com/antigravity-dev/autoword-go/internal/logging"
)

// dispatch mutates doc per task.Kind at the already-resolved range,
// returning the TaskResult.Message text.
func (e *Executor) dispatch(ctx context.Context, doc docdriver.Document, task docmodel.Task, r docmodel.CharRange, mode Mode, paragraphs []docdriver.Paragraph) (string, error) {
	if mode == ModeDryRun {
		return fmt.Sprintf("dry run: would apply %s at %v", task.Kind, r), nil
	}

	switch task.Kind {
	case docmodel.TaskRewrite:
		return e.execRewrite(ctx, doc, task, r, paragraphs)
	case docmodel.TaskInsert:
		return e.execInsert(ctx, doc, task, r)
	case docmodel.TaskDelete:
		return e.execDelete(ctx, doc, task, r, paragraphs)
	case docmodel.TaskSetParagraphStyle:
		return e.execSetParagraphStyle(ctx, doc, task, r)
	case docmodel.TaskSetHeadingLevel:
		return e.execSetHeadingLevel(ctx, doc, task, r)
	case docmodel.TaskReplaceHyperlink:
		return e.execReplaceHyperlink(ctx, doc, task, r)
	case docmodel.TaskApplyTemplate:
		return e.execApplyTemplate(ctx, doc, task, r)
	case docmodel.TaskRebuildToc:
		return e.execRebuildToc(ctx, doc, task, r)
	case docmodel.TaskUpdateTocLevels:
		return e.execUpdateTocLevels(ctx, doc, task)
	case docmodel.TaskRefreshTocNumbers:
		return e.execRefreshTocNumbers(ctx, doc, task)
	default:
		return "", errs.New(errs.TaskExecution, fmt.Sprintf("task %s: no dispatch for kind %q", task.ID, task.Kind))
	}
}

func paragraphTextAt(paragraphs []docdriver.Paragraph, r docmodel.CharRange) string {
	for _, p := range paragraphs {
		if p.Range == r {
			return p.Text
		}
	}
	return ""
}

func (e *Executor) execRewrite(ctx context.Context, doc docdriver.Document, task docmodel.Task, r docmodel.CharRange, paragraphs []docdriver.Paragraph) (string, error) {
	old := paragraphTextAt(paragraphs, r)
	if err := doc.ReplaceRange(ctx, r, task.Instruction); err != nil {
		return "", errs.Wrap(errs.TaskExecution, fmt.Sprintf("task %s: rewrite failed", task.ID), err)
	}
	return diffMessage(old, task.Instruction), nil
}

func (e *Executor) execInsert(ctx context.Context, doc docdriver.Document, task docmodel.Task, r docmodel.CharRange) (string, error) {
	if err := doc.InsertAfter(ctx, r, task.Instruction); err != nil {
		return "", errs.Wrap(errs.TaskExecution, fmt.Sprintf("task %s: insert failed", task.ID), err)
	}
	return diffMessage("", task.Instruction), nil
}

func (e *Executor) execDelete(ctx context.Context, doc docdriver.Document, task docmodel.Task, r docmodel.CharRange, paragraphs []docdriver.Paragraph) (string, error) {
	old := paragraphTextAt(paragraphs, r)
	if err := doc.DeleteRange(ctx, r); err != nil {
		return "", errs.Wrap(errs.TaskExecution, fmt.Sprintf("task %s: delete failed", task.ID), err)
	}
	return diffMessage(old, ""), nil
}

func (e *Executor) execSetParagraphStyle(ctx context.Context, doc docdriver.Document, task docmodel.Task, r docmodel.CharRange) (string, error) {
	styleName := ExtractStyleName(task.Instruction)
	if err := doc.SetParagraphStyle(ctx, r, styleName); err != nil {
		return "", errs.Wrap(errs.TaskExecution, fmt.Sprintf("task %s: set_paragraph_style failed", task.ID), err)
	}
	return fmt.Sprintf("set paragraph style to %q", styleName), nil
}

func (e *Executor) execSetHeadingLevel(ctx context.Context, doc docdriver.Document, task docmodel.Task, r docmodel.CharRange) (string, error) {
	level := ExtractHeadingLevel(task.Instruction)
	styleName := headingStyleName(level)
	if err := doc.SetParagraphStyle(ctx, r, styleName); err != nil {
		return "", errs.Wrap(errs.TaskExecution, fmt.Sprintf("task %s: set_heading_level failed", task.ID), err)
	}
	return fmt.Sprintf("set heading level to %d (%s)", level, styleName), nil
}

func headingStyleName(level int) string {
	return fmt.Sprintf("Heading %d", clampLevel(level))
}

func (e *Executor) execReplaceHyperlink(ctx context.Context, doc docdriver.Document, task docmodel.Task, r docmodel.CharRange) (string, error) {
	address := ExtractHyperlinkAddress(task.Instruction)
	if err := doc.SetHyperlinkAddress(ctx, r, address); err != nil {
		return "", errs.Wrap(errs.TaskExecution, fmt.Sprintf("task %s: replace_hyperlink failed", task.ID), err)
	}
	return fmt.Sprintf("replaced hyperlink address with %q", address), nil
}

// execApplyTemplate has no template-application primitive to call; it
// maps the named template onto a paragraph style. An unrecognized name
// is rejected under StrictTemplates, otherwise it falls back to the
// driver's default style and the substitution is logged.
func (e *Executor) execApplyTemplate(ctx context.Context, doc docdriver.Document, task docmodel.Task, r docmodel.CharRange) (string, error) {
	name := ExtractTemplateName(task.Instruction)
	if name == "default" || name == "" {
		if e.cfg.StrictTemplates {
			return "", errs.New(errs.TaskExecution, fmt.Sprintf("task %s: unrecognized template name in instruction", task.ID))
		}
		log := logging.Get(logging.CategoryExecute)
		log.Warn("task %s: no recognizable template name, applying default style", task.ID)
		if err := doc.SetParagraphStyle(ctx, r, "Normal"); err != nil {
			return "", errs.Wrap(errs.TaskExecution, fmt.Sprintf("task %s: apply_template fallback failed", task.ID), err)
		}
		return "applied default style (unrecognized template name)", nil
	}
	if err := doc.SetParagraphStyle(ctx, r, name); err != nil {
		return "", errs.Wrap(errs.TaskExecution, fmt.Sprintf("task %s: apply_template failed", task.ID), err)
	}
	return fmt.Sprintf("applied template %q", name), nil
}

func (e *Executor) execRebuildToc(ctx context.Context, doc docdriver.Document, task docmodel.Task, r docmodel.CharRange) (string, error) {
	upper, lower := ExtractTocLevels(task.Instruction)
	if err := doc.DeleteTocFields(ctx); err != nil {
		return "", errs.Wrap(errs.TaskExecution, fmt.Sprintf("task %s: rebuild_toc failed clearing existing fields", task.ID), err)
	}
	if err := doc.AddTocField(ctx, r, upper, lower); err != nil {
		return "", errs.Wrap(errs.TaskExecution, fmt.Sprintf("task %s: rebuild_toc failed", task.ID), err)
	}
	return fmt.Sprintf("rebuilt table of contents (levels %d-%d)", upper, lower), nil
}

func (e *Executor) execUpdateTocLevels(ctx context.Context, doc docdriver.Document, task docmodel.Task) (string, error) {
	upper, lower := ExtractTocLevels(task.Instruction)
	tocFields, err := doc.TocFields(ctx)
	if err != nil {
		return "", errs.Wrap(errs.TaskExecution, fmt.Sprintf("task %s: could not enumerate toc fields", task.ID), err)
	}
	for i := range tocFields {
		if err := doc.UpdateTocField(ctx, i, upper, lower); err != nil {
			return "", errs.Wrap(errs.TaskExecution, fmt.Sprintf("task %s: update_toc_levels failed at field %d", task.ID, i), err)
		}
	}
	return fmt.Sprintf("updated %d toc field(s) to levels %d-%d", len(tocFields), upper, lower), nil
}

// execRefreshTocNumbers has no page-number-refresh primitive; each
// field is re-applied with its own existing level bounds, a
// deliberate no-op mutation (not recorded as a FormatChange, only
// logged at debug).
func (e *Executor) execRefreshTocNumbers(ctx context.Context, doc docdriver.Document, task docmodel.Task) (string, error) {
	tocFields, err := doc.TocFields(ctx)
	if err != nil {
		return "", errs.Wrap(errs.TaskExecution, fmt.Sprintf("task %s: could not enumerate toc fields", task.ID), err)
	}
	for i, f := range tocFields {
		if err := doc.UpdateTocField(ctx, i, f.Level, f.Level); err != nil {
			return "", errs.Wrap(errs.TaskExecution, fmt.Sprintf("task %s: refresh_toc_numbers failed at field %d", task.ID, i), err)
		}
	}
	log := logging.Get(logging.CategoryExecute)
	log.Debug("task %s: refreshed %d toc field page number(s), no structural change", task.ID, len(tocFields))
	return fmt.Sprintf("refreshed page numbers for %d toc field(s)", len(tocFields)), nil
}
