package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity-dev/autoword-go/internal/docmodel"
)

func fixedTime() time.Time {
	return time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
}

func TestExportPlanWritesTimestampedJSON(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	plan := docmodel.Plan{
		DocumentPath: "report.docx",
		Tasks: []docmodel.Task{
			{ID: "t1", Kind: docmodel.TaskRewrite, Locator: docmodel.Locator{By: docmodel.LocatorFind, Value: "Intro"}, Instruction: "Overview", Risk: docmodel.RiskLow},
		},
	}

	path, err := w.ExportPlan(context.Background(), plan, fixedTime())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "plan_20260730_120000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc planDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "report.docx", doc.Metadata.DocumentPath)
	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, "t1", doc.Tasks[0].ID)
}

func TestExportExecutionLogWritesSummary(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	result := docmodel.ExecutionResult{
		Success:    false,
		TotalTasks: 2,
		SucceededN: 1,
		FailedN:    1,
		Results: []docmodel.TaskResult{
			{TaskID: "t1", Success: true, Message: "ok"},
			{TaskID: "t2", Success: false, Message: "boom"},
		},
		ErrorSummary: "1 task(s) failed",
	}

	path, err := w.ExportExecutionLog(context.Background(), result, fixedTime())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc runLogDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.False(t, doc.Summary.Success)
	assert.Equal(t, 1, doc.Summary.FailedN)
	require.Len(t, doc.TaskResults, 2)
}

func TestExportAnnotationsRoundTrips(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	annotations := []docmodel.Annotation{
		{ID: "a1", Author: "reviewer", Page: 1, AnchorText: "Intro", BodyText: "fix this", Range: docmodel.CharRange{Start: 0, End: 5}},
	}

	path, err := w.ExportAnnotations(context.Background(), annotations, fixedTime())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc annotationsDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Annotations, 1)
	assert.Equal(t, "a1", doc.Annotations[0].ID)
	assert.Equal(t, 0, doc.Annotations[0].RangeStart)
	assert.Equal(t, 5, doc.Annotations[0].RangeEnd)
}

func TestExportDiffReportMentionsChanges(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	before := docmodel.Structure{Headings: []docmodel.Heading{{Level: 2, Text: "Intro", Range: docmodel.CharRange{Start: 0, End: 5}}}}
	after := docmodel.Structure{Headings: []docmodel.Heading{{Level: 1, Text: "Intro", Range: docmodel.CharRange{Start: 0, End: 5}}}}

	path, err := w.ExportDiffReport(context.Background(), before, after, fixedTime())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Modified headings")
	assert.Contains(t, content, "level: 2 -> 1")
}

func TestExportAllSkipsDiffWithoutStructures(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	plan := docmodel.Plan{DocumentPath: "x.docx"}
	result := docmodel.ExecutionResult{}

	out, err := w.ExportAll(context.Background(), plan, result, nil, nil, nil, fixedTime())
	require.NoError(t, err)
	assert.NotEmpty(t, out.Plan)
	assert.NotEmpty(t, out.RunLog)
	assert.NotEmpty(t, out.Annotations)
	assert.Empty(t, out.Diff)
}

func TestExportAllIncludesDiffWithStructures(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	plan := docmodel.Plan{DocumentPath: "x.docx"}
	result := docmodel.ExecutionResult{}
	before := docmodel.Structure{WordCount: 10}
	after := docmodel.Structure{WordCount: 20}

	out, err := w.ExportAll(context.Background(), plan, result, nil, &before, &after, fixedTime())
	require.NoError(t, err)
	assert.NotEmpty(t, out.Diff)
}

func TestRenderVerboseProducesOutput(t *testing.T) {
	out, err := RenderVerbose("# Title\n\nbody text")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
