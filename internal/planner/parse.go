// Package planner turns the LLM's raw JSON task list into an ordered,
// authorized docmodel.Plan: parsing, Gate L2 authorization filtering,
// risk assignment, and dependency-ordered topological sort.
package planner

import (
	"encoding/json"

	"github.com/antigravity-dev/autoword-go/internal/errs"
)

// rawLocator mirrors the locator object the LLM emits before it is
// validated into a docmodel.Locator.
type rawLocator struct {
	By    string `json:"by"`
	Value string `json:"value"`
}

// rawTask mirrors one task object in the LLM's JSON response, prior to
// docmodel.TaskKind/RiskLevel/Locator validation.
type rawTask struct {
	ID                 string     `json:"id"`
	SourceAnnotationID *string    `json:"source_annotation_id"`
	Type               string     `json:"type"`
	Locator            rawLocator `json:"locator"`
	Instruction        string     `json:"instruction"`
	Dependencies       []string   `json:"dependencies"`
	Risk               string     `json:"risk"`
	RequiresUserReview bool       `json:"requires_user_review"`
	Notes              *string    `json:"notes"`
}

type tasksEnvelope struct {
	Tasks []rawTask `json:"tasks"`
}

// ParseTasks decodes the LLM's JSON response into raw tasks. The
// response must be a JSON object carrying a "tasks" array; anything
// else is a PlanValidation error.
func ParseTasks(raw string) ([]rawTask, error) {
	var envelope tasksEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, errs.Wrap(errs.PlanValidation, "LLM response is not valid JSON", err)
	}
	if envelope.Tasks == nil {
		return nil, errs.New(errs.PlanValidation, "LLM response is missing the 'tasks' field")
	}
	return envelope.Tasks, nil
}
