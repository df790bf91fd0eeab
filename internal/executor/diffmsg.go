package executor

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const diffMessageMaxRunes = 200

var dmp = diffmatchpatch.New()

// diffMessage renders a compact inline diff between old and new text
// for TaskResult.Message, marking insertions {+...+} and deletions
// [-...-] (a CriticMarkup-style convention).
func diffMessage(old, newText string) string {
	diffs := dmp.DiffMain(old, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+")
			b.WriteString(d.Text)
			b.WriteString("+}")
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-")
			b.WriteString(d.Text)
			b.WriteString("-]")
		}
	}
	return truncateRunes(b.String(), diffMessageMaxRunes)
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
