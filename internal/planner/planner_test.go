package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity-dev/autoword-go/internal/docmodel"
	"github.com/antigravity-dev/autoword-go/internal/llmclient"
)

func strPtr(s string) *string { return &s }

func TestParseTasksRejectsMissingField(t *testing.T) {
	_, err := ParseTasks(`{"other":1}`)
	require.Error(t, err)
}

func TestParseTasksRejectsInvalidJSON(t *testing.T) {
	_, err := ParseTasks(`not json`)
	require.Error(t, err)
}

func TestParseTasksHappyPath(t *testing.T) {
	out, err := ParseTasks(`{"tasks":[{"id":"t1","type":"rewrite","locator":{"by":"find","value":"x"},"instruction":"do it"}]}`)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "t1", out[0].ID)
}

func TestAssignRiskBuckets(t *testing.T) {
	assert.Equal(t, docmodel.RiskHigh, AssignRisk(docmodel.TaskApplyTemplate))
	assert.Equal(t, docmodel.RiskMedium, AssignRisk(docmodel.TaskSetHeadingLevel))
	assert.Equal(t, docmodel.RiskLow, AssignRisk(docmodel.TaskRewrite))
	assert.Equal(t, docmodel.RiskLow, AssignRisk(docmodel.TaskKind("unknown")))
}

func TestFilterUnauthorizedDropsFormatWithoutAnnotation(t *testing.T) {
	tasks := []rawTask{
		{ID: "t1", Type: string(docmodel.TaskSetHeadingLevel)},
		{ID: "t2", Type: string(docmodel.TaskRewrite)},
		{ID: "t3", Type: string(docmodel.TaskSetParagraphStyle), SourceAnnotationID: strPtr("a1")},
	}
	authorized, skipped := FilterUnauthorized(tasks)
	require.Len(t, authorized, 2)
	require.Len(t, skipped, 1)
	assert.Equal(t, "t1", skipped[0].TaskID)
}

func TestConvertToTasksAssignsDefaultRiskAndID(t *testing.T) {
	raw := []rawTask{
		{Type: string(docmodel.TaskRewrite), Locator: rawLocator{By: "find", Value: "x"}, Instruction: "do it"},
	}
	tasks, skipped := ConvertToTasks(raw, nil)
	require.Empty(t, skipped)
	require.Len(t, tasks, 1)
	assert.Equal(t, "task_1", tasks[0].ID)
	assert.Equal(t, docmodel.RiskLow, tasks[0].Risk)
}

func TestConvertToTasksDropsInvalidLocator(t *testing.T) {
	raw := []rawTask{
		{ID: "t1", Type: string(docmodel.TaskRewrite), Locator: rawLocator{By: "find", Value: ""}, Instruction: "do it"},
	}
	tasks, skipped := ConvertToTasks(raw, nil)
	assert.Empty(t, tasks)
	require.Len(t, skipped, 1)
}

func TestConvertToTasksDropsUnauthorizedSourceAnnotation(t *testing.T) {
	raw := []rawTask{
		{ID: "t1", Type: string(docmodel.TaskSetHeadingLevel), Locator: rawLocator{By: "find", Value: "x"},
			Instruction: "bump", SourceAnnotationID: strPtr("unknown")},
	}
	tasks, skipped := ConvertToTasks(raw, map[string]bool{"a1": true})
	assert.Empty(t, tasks)
	require.Len(t, skipped, 1)
}

func TestResolveDependenciesOrdersByDependency(t *testing.T) {
	tasks := []docmodel.Task{
		{ID: "b", Kind: docmodel.TaskRewrite, Risk: docmodel.RiskLow, DependencyIDs: []string{"a"}},
		{ID: "a", Kind: docmodel.TaskRewrite, Risk: docmodel.RiskLow},
	}
	sorted, warnings := ResolveDependencies(tasks)
	require.Empty(t, warnings)
	require.Len(t, sorted, 2)
	assert.Equal(t, "a", sorted[0].ID)
	assert.Equal(t, "b", sorted[1].ID)
}

func TestResolveDependenciesTieBreaksByRiskThenKind(t *testing.T) {
	tasks := []docmodel.Task{
		{ID: "high", Kind: docmodel.TaskApplyTemplate, Risk: docmodel.RiskHigh},
		{ID: "low", Kind: docmodel.TaskRewrite, Risk: docmodel.RiskLow},
		{ID: "medium", Kind: docmodel.TaskSetHeadingLevel, Risk: docmodel.RiskMedium},
	}
	sorted, _ := ResolveDependencies(tasks)
	require.Len(t, sorted, 3)
	assert.Equal(t, "low", sorted[0].ID)
	assert.Equal(t, "medium", sorted[1].ID)
	assert.Equal(t, "high", sorted[2].ID)
}

func TestResolveDependenciesBreaksCycleWithWarning(t *testing.T) {
	tasks := []docmodel.Task{
		{ID: "x", Kind: docmodel.TaskRewrite, Risk: docmodel.RiskLow, DependencyIDs: []string{"y"}},
		{ID: "y", Kind: docmodel.TaskRewrite, Risk: docmodel.RiskLow, DependencyIDs: []string{"x"}},
	}
	sorted, warnings := ResolveDependencies(tasks)
	require.Len(t, sorted, 2)
	require.Len(t, warnings, 1)
}

func TestMergeChunksDeduplicatesByID(t *testing.T) {
	acc := MergeChunks(nil, []rawTask{{ID: "t1"}, {ID: "t2"}})
	acc = MergeChunks(acc, []rawTask{{ID: "t2"}, {ID: "t3"}})
	require.Len(t, acc, 3)
}

type stubClient struct {
	response string
	err      error
}

func (s *stubClient) Complete(ctx context.Context, req llmclient.Request) (llmclient.Response, error) {
	if s.err != nil {
		return llmclient.Response{}, s.err
	}
	return llmclient.Response{RawText: s.response, Attempts: 1}, nil
}

func TestGeneratePlanEndToEnd(t *testing.T) {
	client := &stubClient{response: `{"tasks":[{"id":"t1","type":"rewrite","locator":{"by":"find","value":"x"},"instruction":"rewrite it"}]}`}
	annotations := []docmodel.Annotation{{ID: "a1", Author: "alice", BodyText: "please rewrite"}}

	result, err := GeneratePlan(context.Background(), client, "doc.docx", docmodel.Structure{}, annotations)
	require.NoError(t, err)
	require.Len(t, result.Plan.Tasks, 1)
	assert.Equal(t, "t1", result.Plan.Tasks[0].ID)
}

func TestGeneratePlanSurfacesMalformedJSON(t *testing.T) {
	client := &stubClient{response: "not json at all"}
	_, err := GeneratePlan(context.Background(), client, "doc.docx", docmodel.Structure{}, nil)
	require.Error(t, err)
}
