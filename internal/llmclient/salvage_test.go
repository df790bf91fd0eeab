package llmclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSalvageJSONPlainObject(t *testing.T) {
	got := SalvageJSON(`{"tasks":[]}`)
	assert.Equal(t, `{"tasks":[]}`, got)
}

func TestSalvageJSONMarkdownFenced(t *testing.T) {
	got := SalvageJSON("```json\n{\"tasks\":[]}\n```")
	assert.Equal(t, `{"tasks":[]}`, got)
}

func TestSalvageJSONWithSurroundingProse(t *testing.T) {
	got := SalvageJSON(`Here is the result: {"tasks":[{"id":"t1"}]} Let me know if you need anything else.`)
	assert.Equal(t, `{"tasks":[{"id":"t1"}]}`, got)
}

func TestSalvageJSONIgnoresBracesInsideStrings(t *testing.T) {
	got := SalvageJSON(`{"note": "a { b } c"}`)
	assert.Equal(t, `{"note": "a { b } c"}`, got)
}

func TestSalvageJSONNoObjectReturnsEmpty(t *testing.T) {
	got := SalvageJSON("no json here")
	assert.Equal(t, "", got)
}
