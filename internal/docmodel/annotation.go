// Package docmodel holds the value types shared by every pipeline
// stage: annotations, structure snapshots, tasks, plans, and the
// reports each run produces. Types here are immutable value objects;
// nothing in this package talks to a document driver or an LLM.
package docmodel

// CharRange is a half-open character range [Start, End) within a
// document's text stream.
type CharRange struct {
	Start int
	End   int
}

// Len returns the number of characters the range spans.
func (r CharRange) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Overlaps reports whether r and o share at least one character.
func (r CharRange) Overlaps(o CharRange) bool {
	return r.Start < o.End && o.Start < r.End
}

// Annotation is a reviewer comment anchored to a text range. Created
// by the Inspector at run start; immutable for the run's lifetime.
type Annotation struct {
	ID         string
	Author     string
	Page       int
	AnchorText string
	BodyText   string
	Range      CharRange
}
