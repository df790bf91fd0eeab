package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/antigravity-dev/autoword-go/internal/docmodel"
)

// RenderDiffMarkdown builds the plain-Markdown structure-diff report:
// a summary count line per element kind, then a per-section detail
// breakdown (headings added/removed/modified, style usage changes,
// TOC entry-count changes, hyperlink count changes).
func RenderDiffMarkdown(before, after docmodel.Structure, at time.Time) string {
	var b strings.Builder

	fmt.Fprintln(&b, "# Document Structure Change Report")
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "**Generated**: %s\n\n", at.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(&b, "## Summary")
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "- Page count: %d -> %d\n", before.PageCount, after.PageCount)
	fmt.Fprintf(&b, "- Word count: %d -> %d\n", before.WordCount, after.WordCount)
	fmt.Fprintf(&b, "- Headings: %d -> %d\n", len(before.Headings), len(after.Headings))
	fmt.Fprintf(&b, "- Styles: %d -> %d\n", len(before.Styles), len(after.Styles))
	fmt.Fprintf(&b, "- TOC entries: %d -> %d\n", len(before.TocEntries), len(after.TocEntries))
	fmt.Fprintf(&b, "- Hyperlinks: %d -> %d\n", len(before.Hyperlinks), len(after.Hyperlinks))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "## Details")
	fmt.Fprintln(&b)

	renderHeadingDiff(&b, before.Headings, after.Headings)
	renderStyleDiff(&b, before.Styles, after.Styles)
	renderTocDiff(&b, before.TocEntries, after.TocEntries)
	renderHyperlinkDiff(&b, before.Hyperlinks, after.Hyperlinks)

	return b.String()
}

func renderHeadingDiff(b *strings.Builder, before, after []docmodel.Heading) {
	fmt.Fprintln(b, "### Heading changes")
	fmt.Fprintln(b)

	beforeByText := make(map[string]docmodel.Heading, len(before))
	for _, h := range before {
		beforeByText[h.Text] = h
	}
	afterByText := make(map[string]docmodel.Heading, len(after))
	for _, h := range after {
		afterByText[h.Text] = h
	}

	var added, removed, modified []string
	for text, h := range afterByText {
		if _, ok := beforeByText[text]; !ok {
			added = append(added, fmt.Sprintf("- level %d: %s", h.Level, text))
		}
	}
	for text, h := range beforeByText {
		if _, ok := afterByText[text]; !ok {
			removed = append(removed, fmt.Sprintf("- level %d: %s", h.Level, text))
		}
	}
	for text, bh := range beforeByText {
		ah, ok := afterByText[text]
		if !ok {
			continue
		}
		var changes []string
		if bh.Level != ah.Level {
			changes = append(changes, fmt.Sprintf("level: %d -> %d", bh.Level, ah.Level))
		}
		if bh.StyleName != ah.StyleName {
			changes = append(changes, fmt.Sprintf("style: %s -> %s", bh.StyleName, ah.StyleName))
		}
		if len(changes) > 0 {
			modified = append(modified, fmt.Sprintf("- %s: %s", text, strings.Join(changes, ", ")))
		}
	}

	sort.Strings(added)
	sort.Strings(removed)
	sort.Strings(modified)

	if len(added) > 0 {
		fmt.Fprintln(b, "**Added headings:**")
		for _, l := range added {
			fmt.Fprintln(b, l)
		}
		fmt.Fprintln(b)
	}
	if len(removed) > 0 {
		fmt.Fprintln(b, "**Removed headings:**")
		for _, l := range removed {
			fmt.Fprintln(b, l)
		}
		fmt.Fprintln(b)
	}
	if len(modified) > 0 {
		fmt.Fprintln(b, "**Modified headings:**")
		for _, l := range modified {
			fmt.Fprintln(b, l)
		}
		fmt.Fprintln(b)
	}
	if len(added) == 0 && len(removed) == 0 && len(modified) == 0 {
		fmt.Fprintln(b, "No heading changes.")
		fmt.Fprintln(b)
	}
}

func renderStyleDiff(b *strings.Builder, before, after []docmodel.Style) {
	fmt.Fprintln(b, "### Style usage changes")
	fmt.Fprintln(b)

	beforeInUse := make(map[string]bool)
	for _, s := range before {
		if s.InUse {
			beforeInUse[s.Name] = true
		}
	}
	afterInUse := make(map[string]bool)
	for _, s := range after {
		if s.InUse {
			afterInUse[s.Name] = true
		}
	}

	var added, removed []string
	for name := range afterInUse {
		if !beforeInUse[name] {
			added = append(added, name)
		}
	}
	for name := range beforeInUse {
		if !afterInUse[name] {
			removed = append(removed, name)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)

	if len(added) > 0 {
		fmt.Fprintln(b, "**Newly in use:**")
		for _, n := range added {
			fmt.Fprintf(b, "- %s\n", n)
		}
		fmt.Fprintln(b)
	}
	if len(removed) > 0 {
		fmt.Fprintln(b, "**No longer in use:**")
		for _, n := range removed {
			fmt.Fprintf(b, "- %s\n", n)
		}
		fmt.Fprintln(b)
	}
	if len(added) == 0 && len(removed) == 0 {
		fmt.Fprintln(b, "No style usage changes.")
		fmt.Fprintln(b)
	}
}

func renderTocDiff(b *strings.Builder, before, after []docmodel.TocEntry) {
	fmt.Fprintln(b, "### TOC changes")
	fmt.Fprintln(b)

	if len(before) != len(after) {
		fmt.Fprintf(b, "**Entry count changed**: %d -> %d\n\n", len(before), len(after))
		return
	}

	changed := false
	for i := range before {
		if before[i].Text != after[i].Text || before[i].PageNumber != after[i].PageNumber {
			changed = true
			break
		}
	}
	if changed {
		fmt.Fprintln(b, "**TOC content updated.**")
	} else {
		fmt.Fprintln(b, "No TOC changes.")
	}
	fmt.Fprintln(b)
}

func renderHyperlinkDiff(b *strings.Builder, before, after []docmodel.Hyperlink) {
	fmt.Fprintln(b, "### Hyperlink changes")
	fmt.Fprintln(b)

	if len(before) != len(after) {
		fmt.Fprintf(b, "**Link count changed**: %d -> %d\n\n", len(before), len(after))
		return
	}
	fmt.Fprintln(b, "No hyperlink count changes.")
	fmt.Fprintln(b)
}
