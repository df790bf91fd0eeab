package validator

import (
	"fmt"
	"time"

	"github.com/antigravity-dev/autoword-go/internal/docmodel"
	"github.com/antigravity-dev/autoword-go/internal/logging"
)

// GenerateReport runs Diff then ClassifyChange over every resulting
// change, and assembles a ValidationReport with warnings and
// operator-facing recommendations. should_rollback is
// report.ShouldRollback(), exactly spec.md's unauthorized.nonEmpty().
func GenerateReport(before, after docmodel.Structure, executed []ExecutedTask, annotationIDs map[string]bool) docmodel.ValidationReport {
	log := logging.Get(logging.CategoryValidate)

	changes := Diff(before, after)

	var authorized, unauthorized []docmodel.FormatChange
	for _, c := range changes {
		ok, annotationID := ClassifyChange(c, executed, annotationIDs)
		c.Authorized = ok
		c.AuthorizingAnnotation = annotationID
		if ok {
			authorized = append(authorized, c)
		} else {
			unauthorized = append(unauthorized, c)
		}
	}

	log.Info("validation: %d authorized, %d unauthorized change(s)", len(authorized), len(unauthorized))

	return docmodel.ValidationReport{
		Authorized:      authorized,
		Unauthorized:    unauthorized,
		Warnings:        generateWarnings(unauthorized),
		Recommendations: generateRecommendations(unauthorized),
		ValidatedAt:     time.Now(),
	}
}

func generateWarnings(unauthorized []docmodel.FormatChange) []string {
	if len(unauthorized) == 0 {
		return nil
	}

	warnings := []string{fmt.Sprintf("%d unauthorized format change(s) detected", len(unauthorized))}

	counts := make(map[docmodel.FormatChangeKind]int)
	var order []docmodel.FormatChangeKind
	for _, c := range unauthorized {
		if counts[c.Kind] == 0 {
			order = append(order, c.Kind)
		}
		counts[c.Kind]++
	}
	for _, kind := range order {
		warnings = append(warnings, fmt.Sprintf("unauthorized %s: %d", kind, counts[kind]))
	}

	return warnings
}

// generateRecommendations mirrors FormatValidator._generate_recommendations's
// style: a few standing recommendations whenever anything is
// unauthorized, plus change-kind-specific advice.
func generateRecommendations(unauthorized []docmodel.FormatChange) []string {
	if len(unauthorized) == 0 {
		return nil
	}

	recs := []string{
		"roll back to the pre-execution document state",
		"review the Planner's format-authorization settings",
		"confirm every format task carries a source_annotation_id",
	}

	seen := make(map[docmodel.FormatChangeKind]bool)
	for _, c := range unauthorized {
		seen[c.Kind] = true
	}

	if seen[docmodel.ChangeHeadingLevel] {
		recs = append(recs, "heading level changes require an explicit annotation authorization")
	}
	if seen[docmodel.ChangeTocStructure] || seen[docmodel.ChangeTocLevels] {
		recs = append(recs, "table-of-contents structure changes are high risk; consider re-running update_toc_levels with explicit authorization")
	}
	if seen[docmodel.ChangeHyperlinkAddr] {
		recs = append(recs, "hyperlink address changes must name the new address explicitly in the authorizing annotation")
	}

	return recs
}
