package docmodel

import "fmt"

// TaskKind is the closed set of edit operations a Task may carry. The
// set partitions into Content (no authorization required) and Format
// (authorization required via the Authorization invariant).
type TaskKind string

const (
	TaskRewrite            TaskKind = "rewrite"
	TaskInsert             TaskKind = "insert"
	TaskDelete             TaskKind = "delete"
	TaskRefreshTocNumbers  TaskKind = "refresh_toc_numbers"
	TaskSetParagraphStyle  TaskKind = "set_paragraph_style"
	TaskSetHeadingLevel    TaskKind = "set_heading_level"
	TaskApplyTemplate      TaskKind = "apply_template"
	TaskReplaceHyperlink   TaskKind = "replace_hyperlink"
	TaskRebuildToc         TaskKind = "rebuild_toc"
	TaskUpdateTocLevels    TaskKind = "update_toc_levels"
)

var formatKinds = map[TaskKind]bool{
	TaskSetParagraphStyle: true,
	TaskSetHeadingLevel:   true,
	TaskApplyTemplate:     true,
	TaskReplaceHyperlink:  true,
	TaskRebuildToc:        true,
	TaskUpdateTocLevels:   true,
}

var contentKinds = map[TaskKind]bool{
	TaskRewrite:           true,
	TaskInsert:            true,
	TaskDelete:            true,
	TaskRefreshTocNumbers: true,
}

// IsFormat reports whether kind requires authorization.
func (k TaskKind) IsFormat() bool { return formatKinds[k] }

// IsContent reports whether kind never requires authorization.
func (k TaskKind) IsContent() bool { return contentKinds[k] }

// Valid reports whether kind is one of the closed set of known kinds.
func (k TaskKind) Valid() bool { return formatKinds[k] || contentKinds[k] }

// RiskLevel orders a Task's blast radius for dependency tie-breaking
// and operator review gating.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// rank orders RiskLevel ascending for the Planner's topological
// tie-break (low < medium < high).
func (r RiskLevel) rank() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	default:
		return 1
	}
}

// Less reports whether r sorts before o under the Planner's
// ascending-risk tie-break.
func (r RiskLevel) Less(o RiskLevel) bool { return r.rank() < o.rank() }

// Task is a typed edit command produced by the Planner from the LLM's
// JSON output.
type Task struct {
	ID                  string
	Kind                TaskKind
	SourceAnnotationID  *string
	Locator             Locator
	Instruction         string
	DependencyIDs       []string
	Risk                RiskLevel
	RequiresUserReview  bool
	Notes               *string
}

// Validate enforces the Authorization and Whitelist invariants of the
// data model against a set of annotation ids known to the run.
// annotationIDs may be nil only when the task carries no
// SourceAnnotationID.
func (t Task) Validate(annotationIDs map[string]bool) error {
	if t.ID == "" {
		return fmt.Errorf("task id must be non-empty")
	}
	if !t.Kind.Valid() {
		return fmt.Errorf("task %s: unknown kind %q", t.ID, t.Kind)
	}

	needsAnnotation := t.Kind.IsFormat() || !t.Kind.IsContent()
	if needsAnnotation {
		if t.SourceAnnotationID == nil || *t.SourceAnnotationID == "" {
			return fmt.Errorf("task %s: kind %q requires source_annotation_id", t.ID, t.Kind)
		}
		if annotationIDs != nil && !annotationIDs[*t.SourceAnnotationID] {
			return fmt.Errorf("task %s: source_annotation_id %q does not refer to a known annotation", t.ID, *t.SourceAnnotationID)
		}
	}
	return nil
}
