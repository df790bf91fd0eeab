package promptbuild

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity-dev/autoword-go/internal/docmodel"
)

func TestEstimateTokensEnglish(t *testing.T) {
	got := EstimateTokens("the quick brown fox")
	assert.Equal(t, 4, got)
}

func TestEstimateTokensEastAsianWeighted(t *testing.T) {
	got := EstimateTokens("你好")
	assert.Equal(t, 3, got) // 2 * 1.5 = 3
}

func TestEstimateTokensPunctuationHalfWeight(t *testing.T) {
	// "a," and "b." aren't pure-alpha fields so contribute no word
	// tokens; the two punctuation runes contribute 0.5 each.
	got := EstimateTokens("a, b.")
	assert.Equal(t, 1, got)
}

func TestBuildUserPromptIncludesSections(t *testing.T) {
	structure := docmodel.Structure{
		Headings:  []docmodel.Heading{{Level: 1, Text: "Introduction", Range: docmodel.CharRange{Start: 0, End: 10}}},
		PageCount: 2,
		WordCount: 500,
	}
	annotations := []docmodel.Annotation{
		{ID: "a1", Author: "alice", BodyText: "please rewrite", Range: docmodel.CharRange{Start: 1, End: 2}},
	}

	prompt := BuildUserPrompt(structure, annotations, `{"type":"object"}`)
	assert.Contains(t, prompt, "Introduction")
	assert.Contains(t, prompt, "a1")
	assert.Contains(t, prompt, "alice")
	assert.Contains(t, prompt, `{"type":"object"}`)
}

func TestBuildAnnotationsSummaryEmpty(t *testing.T) {
	got := buildAnnotationsSummary(nil)
	assert.Equal(t, "none", got)
}

func TestSplitReturnsSingleChunkWhenUnderBudget(t *testing.T) {
	structure := docmodel.Structure{PageCount: 1, WordCount: 10}
	chunks := Split(structure, nil, "{}", 100000)
	require.Len(t, chunks, 1)
}

func TestSplitByHeadingsPartitionsAnnotations(t *testing.T) {
	structure := docmodel.Structure{
		Headings: []docmodel.Heading{
			{Level: 1, Text: "Section A", Range: docmodel.CharRange{Start: 0, End: 10}},
			{Level: 1, Text: "Section B", Range: docmodel.CharRange{Start: 100, End: 110}},
		},
	}
	annotations := []docmodel.Annotation{
		{ID: "a1", Range: docmodel.CharRange{Start: 5, End: 6}},
		{ID: "a2", Range: docmodel.CharRange{Start: 105, End: 106}},
	}

	chunks := splitByHeadings(structure, annotations)
	require.Len(t, chunks, 2)
	assert.Equal(t, "a1", chunks[0].Annotations[0].ID)
	assert.Equal(t, "a2", chunks[1].Annotations[0].ID)
}

func TestSplitByHeadingsFallsBackWithoutMultipleLevel1(t *testing.T) {
	structure := docmodel.Structure{
		Headings: []docmodel.Heading{{Level: 1, Text: "Only section", Range: docmodel.CharRange{Start: 0, End: 10}}},
	}
	chunks := splitByHeadings(structure, nil)
	assert.Nil(t, chunks)
}

func TestSplitByAnnotationThirds(t *testing.T) {
	var annotations []docmodel.Annotation
	for i := 0; i < 9; i++ {
		annotations = append(annotations, docmodel.Annotation{ID: strings.Repeat("a", i+1)})
	}
	chunks := splitByAnnotationThirds(docmodel.Structure{}, annotations)
	assert.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.Len(t, c.Annotations, 3)
	}
}

func TestTruncateRespectsRuneBoundary(t *testing.T) {
	got := truncate("你好世界和平", 3)
	assert.Equal(t, "你好世...", got)
}

func TestDefaultSchemaJSONContainsTaskKinds(t *testing.T) {
	out, err := DefaultSchemaJSON()
	require.NoError(t, err)
	assert.Contains(t, out, "set_heading_level")
	assert.Contains(t, out, "bookmark")
}
