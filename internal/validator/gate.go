package validator

import (
	"strconv"
	"strings"

	"github.com/antigravity-dev/autoword-go/internal/docmodel"
)

// ExecutedTask is the slice of a successfully-run Task the classifier
// needs: its kind, authorizing annotation, declared locator, and
// where the Executor actually resolved that locator to at the time it
// ran. Callers build this from (Task, TaskResult) pairs, keeping only
// results with Success true.
type ExecutedTask struct {
	Kind               docmodel.TaskKind
	SourceAnnotationID *string
	LocatorBy          docmodel.LocatorType
	ResolvedRange      docmodel.CharRange
}

// ClassifyChange implements Gate L4: it looks for an ExecutedTask
// whose kind could plausibly have produced change, whose resolved range
// overlaps the change's range (for heading and hyperlink changes; style
// and TOC changes carry no range, so kind alone decides), and which
// carries a SourceAnnotationID referencing a real Annotation. See
// internal/validator/doc.go for the known under-authorization edge
// case this inherits from the source.
func ClassifyChange(change docmodel.FormatChange, executed []ExecutedTask, annotationIDs map[string]bool) (bool, *string) {
	candidates := docmodel.CandidateTaskKinds(change.Kind)
	if len(candidates) == 0 {
		return false, nil
	}

	changeRange, isRanged := parseRangeKey(change.ElementID)

	for _, t := range executed {
		if t.SourceAnnotationID == nil || *t.SourceAnnotationID == "" {
			continue
		}
		if !annotationIDs[*t.SourceAnnotationID] {
			continue
		}
		if !kindIn(t.Kind, candidates) {
			continue
		}

		if isRanged {
			if t.ResolvedRange.Overlaps(changeRange) {
				id := *t.SourceAnnotationID
				return true, &id
			}
			continue
		}

		// Style/TOC changes carry no positional key to overlap
		// against; a kind+annotation match is the only signal
		// available, mirroring the source's own
		// _is_task_relevant_to_change (which reduces to a kind
		// check despite building a position map it never consults).
		id := *t.SourceAnnotationID
		return true, &id
	}

	return false, nil
}

func kindIn(k docmodel.TaskKind, set []docmodel.TaskKind) bool {
	for _, c := range set {
		if c == k {
			return true
		}
	}
	return false
}

// parseRangeKey reverses rangeKey, reporting ok=false for the
// non-range element ids ("toc", a style name) that diff.go never
// formats as "start,end".
func parseRangeKey(elementID string) (docmodel.CharRange, bool) {
	parts := strings.SplitN(elementID, ",", 2)
	if len(parts) != 2 {
		return docmodel.CharRange{}, false
	}
	start, err1 := strconv.Atoi(parts[0])
	end, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return docmodel.CharRange{}, false
	}
	return docmodel.CharRange{Start: start, End: end}, true
}
