package planner

import "github.com/antigravity-dev/autoword-go/internal/docmodel"

var highRiskKinds = map[docmodel.TaskKind]bool{
	docmodel.TaskApplyTemplate:   true,
	docmodel.TaskRebuildToc:      true,
	docmodel.TaskUpdateTocLevels: true,
}

var mediumRiskKinds = map[docmodel.TaskKind]bool{
	docmodel.TaskSetHeadingLevel:   true,
	docmodel.TaskReplaceHyperlink:  true,
	docmodel.TaskSetParagraphStyle: true,
}

// AssignRisk assigns a default RiskLevel to a task kind when the LLM
// didn't supply one: template/TOC-rebuilding operations are high risk
// (they can touch the whole document), single-element format changes
// are medium, and everything else (including unknown kinds) is low.
func AssignRisk(kind docmodel.TaskKind) docmodel.RiskLevel {
	switch {
	case highRiskKinds[kind]:
		return docmodel.RiskHigh
	case mediumRiskKinds[kind]:
		return docmodel.RiskMedium
	default:
		return docmodel.RiskLow
	}
}
