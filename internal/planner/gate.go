package planner

import (
	"fmt"

	"github.com/antigravity-dev/autoword-go/internal/docmodel"
	"github.com/antigravity-dev/autoword-go/internal/logging"
)

// FilterUnauthorized applies Gate L2, the planning-period Authorization
// and Whitelist invariants: a format task or any task of unrecognized
// kind must carry a source annotation id, or it is dropped rather than
// planned.
func FilterUnauthorized(tasks []rawTask) ([]rawTask, []docmodel.SkipReason) {
	log := logging.Get(logging.CategoryPlan)

	var authorized []rawTask
	var skipped []docmodel.SkipReason

	for _, t := range tasks {
		kind := docmodel.TaskKind(t.Type)
		needsAnnotation := kind.IsFormat() || !kind.IsContent()
		if needsAnnotation && (t.SourceAnnotationID == nil || *t.SourceAnnotationID == "") {
			reason := fmt.Sprintf("task kind %q requires a source_annotation_id", t.Type)
			log.Warn("dropping task %s: %s", t.ID, reason)
			skipped = append(skipped, docmodel.SkipReason{TaskID: t.ID, Reason: reason})
			continue
		}
		authorized = append(authorized, t)
	}

	log.Info("gate L2: %d authorized, %d filtered", len(authorized), len(skipped))
	return authorized, skipped
}

// ConvertToTasks builds validated docmodel.Task values from authorized
// raw tasks, assigning a default risk when the LLM omitted one and
// dropping any task whose locator or Authorization invariant fails
// Task.Validate.
func ConvertToTasks(raw []rawTask, annotationIDs map[string]bool) ([]docmodel.Task, []docmodel.SkipReason) {
	log := logging.Get(logging.CategoryPlan)

	var tasks []docmodel.Task
	var skipped []docmodel.SkipReason

	for i, t := range raw {
		id := t.ID
		if id == "" {
			id = fmt.Sprintf("task_%d", i+1)
		}

		kind := docmodel.TaskKind(t.Type)
		risk := docmodel.RiskLevel(t.Risk)
		if risk == "" {
			risk = AssignRisk(kind)
		}

		locator, err := docmodel.NewLocator(docmodel.LocatorType(t.Locator.By), t.Locator.Value)
		if err != nil {
			log.Warn("dropping task %s: %v", id, err)
			skipped = append(skipped, docmodel.SkipReason{TaskID: id, Reason: err.Error()})
			continue
		}

		task := docmodel.Task{
			ID:                 id,
			Kind:               kind,
			SourceAnnotationID: t.SourceAnnotationID,
			Locator:            locator,
			Instruction:        t.Instruction,
			DependencyIDs:      t.Dependencies,
			Risk:               risk,
			RequiresUserReview: t.RequiresUserReview,
			Notes:              t.Notes,
		}

		if err := task.Validate(annotationIDs); err != nil {
			log.Warn("dropping task %s: %v", id, err)
			skipped = append(skipped, docmodel.SkipReason{TaskID: id, Reason: err.Error()})
			continue
		}

		tasks = append(tasks, task)
	}

	return tasks, skipped
}
