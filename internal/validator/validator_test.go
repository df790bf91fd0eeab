package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity-dev/autoword-go/internal/docmodel"
)

func strPtr(s string) *string { return &s }

func TestDiffDetectsHeadingLevelChange(t *testing.T) {
	r := docmodel.CharRange{Start: 0, End: 10}
	before := docmodel.Structure{Headings: []docmodel.Heading{{Level: 2, StyleName: "Heading 2", Range: r}}}
	after := docmodel.Structure{Headings: []docmodel.Heading{{Level: 1, StyleName: "Heading 1", Range: r}}}

	changes := Diff(before, after)
	require.Len(t, changes, 2) // level change + style change
	kinds := map[docmodel.FormatChangeKind]bool{}
	for _, c := range changes {
		kinds[c.Kind] = true
	}
	assert.True(t, kinds[docmodel.ChangeHeadingLevel])
	assert.True(t, kinds[docmodel.ChangeHeadingStyle])
}

func TestDiffDetectsHeadingAddedAndRemoved(t *testing.T) {
	before := docmodel.Structure{Headings: []docmodel.Heading{{Level: 1, Range: docmodel.CharRange{Start: 0, End: 5}}}}
	after := docmodel.Structure{Headings: []docmodel.Heading{{Level: 1, Range: docmodel.CharRange{Start: 20, End: 25}}}}

	changes := Diff(before, after)
	require.Len(t, changes, 2)
	kinds := map[docmodel.FormatChangeKind]bool{}
	for _, c := range changes {
		kinds[c.Kind] = true
	}
	assert.True(t, kinds[docmodel.ChangeHeadingAdded])
	assert.True(t, kinds[docmodel.ChangeHeadingRemoved])
}

func TestDiffDetectsStyleUsageChange(t *testing.T) {
	before := docmodel.Structure{Styles: []docmodel.Style{{Name: "Quote", InUse: false}}}
	after := docmodel.Structure{Styles: []docmodel.Style{{Name: "Quote", InUse: true}}}

	changes := Diff(before, after)
	require.Len(t, changes, 1)
	assert.Equal(t, docmodel.ChangeStyleUsage, changes[0].Kind)
	assert.Equal(t, "Quote", changes[0].ElementID)
}

func TestDiffDetectsTocStructureAndLevelsChange(t *testing.T) {
	before := docmodel.Structure{TocEntries: []docmodel.TocEntry{{Level: 1}, {Level: 2}}}
	after := docmodel.Structure{TocEntries: []docmodel.TocEntry{{Level: 1}}}

	changes := Diff(before, after)
	kinds := map[docmodel.FormatChangeKind]bool{}
	for _, c := range changes {
		kinds[c.Kind] = true
	}
	assert.True(t, kinds[docmodel.ChangeTocStructure])
	assert.True(t, kinds[docmodel.ChangeTocLevels])
}

func TestDiffDetectsHyperlinkAddressChange(t *testing.T) {
	r := docmodel.CharRange{Start: 5, End: 15}
	before := docmodel.Structure{Hyperlinks: []docmodel.Hyperlink{{Address: "http://old", Range: r}}}
	after := docmodel.Structure{Hyperlinks: []docmodel.Hyperlink{{Address: "http://new", Range: r}}}

	changes := Diff(before, after)
	require.Len(t, changes, 1)
	assert.Equal(t, docmodel.ChangeHyperlinkAddr, changes[0].Kind)
}

func TestDiffNoChangesWhenIdentical(t *testing.T) {
	s := docmodel.Structure{Headings: []docmodel.Heading{{Level: 1, Range: docmodel.CharRange{Start: 0, End: 5}}}}
	assert.Empty(t, Diff(s, s))
}

func TestClassifyChangeAuthorizesOverlappingRangedTask(t *testing.T) {
	change := docmodel.FormatChange{Kind: docmodel.ChangeHeadingLevel, ElementID: "10,20"}
	executed := []ExecutedTask{
		{Kind: docmodel.TaskSetHeadingLevel, SourceAnnotationID: strPtr("a1"), LocatorBy: docmodel.LocatorFind, ResolvedRange: docmodel.CharRange{Start: 12, End: 18}},
	}
	ok, id := ClassifyChange(change, executed, map[string]bool{"a1": true})
	require.True(t, ok)
	require.NotNil(t, id)
	assert.Equal(t, "a1", *id)
}

func TestClassifyChangeRejectsNonOverlappingTask(t *testing.T) {
	change := docmodel.FormatChange{Kind: docmodel.ChangeHeadingLevel, ElementID: "10,20"}
	executed := []ExecutedTask{
		{Kind: docmodel.TaskSetHeadingLevel, SourceAnnotationID: strPtr("a1"), LocatorBy: docmodel.LocatorFind, ResolvedRange: docmodel.CharRange{Start: 100, End: 110}},
	}
	ok, _ := ClassifyChange(change, executed, map[string]bool{"a1": true})
	assert.False(t, ok)
}

func TestClassifyChangeRejectsUnknownAnnotation(t *testing.T) {
	change := docmodel.FormatChange{Kind: docmodel.ChangeHeadingLevel, ElementID: "10,20"}
	executed := []ExecutedTask{
		{Kind: docmodel.TaskSetHeadingLevel, SourceAnnotationID: strPtr("ghost"), ResolvedRange: docmodel.CharRange{Start: 10, End: 20}},
	}
	ok, _ := ClassifyChange(change, executed, map[string]bool{"a1": true})
	assert.False(t, ok)
}

func TestClassifyChangeRejectsWrongKind(t *testing.T) {
	change := docmodel.FormatChange{Kind: docmodel.ChangeHyperlinkAddr, ElementID: "10,20"}
	executed := []ExecutedTask{
		{Kind: docmodel.TaskSetHeadingLevel, SourceAnnotationID: strPtr("a1"), ResolvedRange: docmodel.CharRange{Start: 10, End: 20}},
	}
	ok, _ := ClassifyChange(change, executed, map[string]bool{"a1": true})
	assert.False(t, ok)
}

func TestClassifyChangeHasNoCandidatesForHeadingAdded(t *testing.T) {
	change := docmodel.FormatChange{Kind: docmodel.ChangeHeadingAdded, ElementID: "10,20"}
	ok, _ := ClassifyChange(change, nil, nil)
	assert.False(t, ok)
}

func TestClassifyChangeAuthorizesNonRangedByKindAlone(t *testing.T) {
	change := docmodel.FormatChange{Kind: docmodel.ChangeTocStructure, ElementID: "toc"}
	executed := []ExecutedTask{
		{Kind: docmodel.TaskRebuildToc, SourceAnnotationID: strPtr("a1")},
	}
	ok, id := ClassifyChange(change, executed, map[string]bool{"a1": true})
	require.True(t, ok)
	assert.Equal(t, "a1", *id)
}

func TestGenerateReportShouldRollbackOnUnauthorized(t *testing.T) {
	before := docmodel.Structure{Headings: []docmodel.Heading{{Level: 2, Range: docmodel.CharRange{Start: 0, End: 10}}}}
	after := docmodel.Structure{Headings: []docmodel.Heading{{Level: 1, Range: docmodel.CharRange{Start: 0, End: 10}}}}

	report := GenerateReport(before, after, nil, nil)
	assert.True(t, report.ShouldRollback())
	assert.False(t, report.IsValid())
	assert.NotEmpty(t, report.Warnings)
	assert.NotEmpty(t, report.Recommendations)
}

func TestGenerateReportValidWhenNoChanges(t *testing.T) {
	s := docmodel.Structure{}
	report := GenerateReport(s, s, nil, nil)
	assert.True(t, report.IsValid())
	assert.False(t, report.ShouldRollback())
	assert.Empty(t, report.Warnings)
}
