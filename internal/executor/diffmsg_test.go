package executor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffMessageMarksInsertAndDelete(t *testing.T) {
	msg := diffMessage("the quick fox", "the slow fox")
	assert.Contains(t, msg, "[-quick-]")
	assert.Contains(t, msg, "{+slow+}")
	assert.Contains(t, msg, "the ")
}

func TestDiffMessagePureInsert(t *testing.T) {
	msg := diffMessage("", "brand new text")
	assert.Equal(t, "{+brand new text+}", msg)
}

func TestDiffMessagePureDelete(t *testing.T) {
	msg := diffMessage("removed entirely", "")
	assert.Equal(t, "[-removed entirely-]", msg)
}

func TestDiffMessageTruncatesLongOutput(t *testing.T) {
	old := strings.Repeat("a", 300)
	msg := diffMessage(old, strings.Repeat("b", 300))
	assert.LessOrEqual(t, len([]rune(msg)), diffMessageMaxRunes+len("..."))
	assert.True(t, strings.HasSuffix(msg, "..."))
}
