// Package validator implements the fourth line of defense: diffing a
// pre- and post-execution Structure, classifying each difference as
// authorized or not (Gate L4), and deciding whether the run must roll
// back.
package validator

import (
	"fmt"
	"time"

	"github.com/antigravity-dev/autoword-go/internal/docmodel"
)

// rangeKey formats a CharRange as a FormatChange.ElementID for the
// range-keyed change kinds (headings, hyperlinks).
func rangeKey(r docmodel.CharRange) string {
	return fmt.Sprintf("%d,%d", r.Start, r.End)
}

// Diff compares before and after Structures and reports every
// FormatChange between them, exactly as spec.md's diff algorithm:
// headings and hyperlinks keyed by range, styles keyed by name, TOC
// compared by entry count and per-level distribution. Every returned
// change starts Authorized=false; ClassifyChange decides that.
func Diff(before, after docmodel.Structure) []docmodel.FormatChange {
	now := time.Now()
	var changes []docmodel.FormatChange

	changes = append(changes, diffHeadings(before.Headings, after.Headings, now)...)
	changes = append(changes, diffStyles(before.Styles, after.Styles, now)...)
	changes = append(changes, diffToc(before.TocEntries, after.TocEntries, now)...)
	changes = append(changes, diffHyperlinks(before.Hyperlinks, after.Hyperlinks, now)...)

	return changes
}

func diffHeadings(before, after []docmodel.Heading, now time.Time) []docmodel.FormatChange {
	var changes []docmodel.FormatChange

	beforeByRange := make(map[docmodel.CharRange]docmodel.Heading, len(before))
	for _, h := range before {
		beforeByRange[h.Range] = h
	}
	afterByRange := make(map[docmodel.CharRange]docmodel.Heading, len(after))
	for _, h := range after {
		afterByRange[h.Range] = h
	}

	for r, post := range afterByRange {
		pre, ok := beforeByRange[r]
		if !ok {
			changes = append(changes, docmodel.FormatChange{
				Kind:       docmodel.ChangeHeadingAdded,
				ElementID:  rangeKey(r),
				NewValue:   fmt.Sprintf("%d", post.Level),
				DetectedAt: now,
			})
			continue
		}
		if pre.Level != post.Level {
			changes = append(changes, docmodel.FormatChange{
				Kind:       docmodel.ChangeHeadingLevel,
				ElementID:  rangeKey(r),
				OldValue:   fmt.Sprintf("%d", pre.Level),
				NewValue:   fmt.Sprintf("%d", post.Level),
				DetectedAt: now,
			})
		}
		if pre.StyleName != post.StyleName {
			changes = append(changes, docmodel.FormatChange{
				Kind:       docmodel.ChangeHeadingStyle,
				ElementID:  rangeKey(r),
				OldValue:   pre.StyleName,
				NewValue:   post.StyleName,
				DetectedAt: now,
			})
		}
	}

	for r, pre := range beforeByRange {
		if _, ok := afterByRange[r]; !ok {
			changes = append(changes, docmodel.FormatChange{
				Kind:       docmodel.ChangeHeadingRemoved,
				ElementID:  rangeKey(r),
				OldValue:   fmt.Sprintf("%d", pre.Level),
				DetectedAt: now,
			})
		}
	}

	return changes
}

func diffStyles(before, after []docmodel.Style, now time.Time) []docmodel.FormatChange {
	var changes []docmodel.FormatChange

	beforeByName := make(map[string]docmodel.Style, len(before))
	for _, s := range before {
		beforeByName[s.Name] = s
	}

	for _, post := range after {
		pre, ok := beforeByName[post.Name]
		if !ok {
			continue
		}
		if pre.InUse != post.InUse {
			changes = append(changes, docmodel.FormatChange{
				Kind:       docmodel.ChangeStyleUsage,
				ElementID:  post.Name,
				OldValue:   fmt.Sprintf("%t", pre.InUse),
				NewValue:   fmt.Sprintf("%t", post.InUse),
				DetectedAt: now,
			})
		}
	}

	return changes
}

func diffToc(before, after []docmodel.TocEntry, now time.Time) []docmodel.FormatChange {
	var changes []docmodel.FormatChange

	if len(before) != len(after) {
		changes = append(changes, docmodel.FormatChange{
			Kind:       docmodel.ChangeTocStructure,
			ElementID:  "toc",
			OldValue:   fmt.Sprintf("%d", len(before)),
			NewValue:   fmt.Sprintf("%d", len(after)),
			DetectedAt: now,
		})
	}

	beforeDist := levelDistribution(before)
	afterDist := levelDistribution(after)
	if beforeDist != afterDist {
		changes = append(changes, docmodel.FormatChange{
			Kind:       docmodel.ChangeTocLevels,
			ElementID:  "toc",
			OldValue:   beforeDist,
			NewValue:   afterDist,
			DetectedAt: now,
		})
	}

	return changes
}

func levelDistribution(entries []docmodel.TocEntry) string {
	counts := make(map[int]int)
	for _, e := range entries {
		counts[e.Level]++
	}
	out := ""
	for level := 1; level <= 9; level++ {
		if c, ok := counts[level]; ok {
			out += fmt.Sprintf("%d:%d,", level, c)
		}
	}
	return out
}

func diffHyperlinks(before, after []docmodel.Hyperlink, now time.Time) []docmodel.FormatChange {
	var changes []docmodel.FormatChange

	beforeByRange := make(map[docmodel.CharRange]docmodel.Hyperlink, len(before))
	for _, h := range before {
		beforeByRange[h.Range] = h
	}

	for r, post := range rangesOf(after) {
		pre, ok := beforeByRange[r]
		if !ok {
			continue
		}
		if pre.Address != post.Address {
			changes = append(changes, docmodel.FormatChange{
				Kind:       docmodel.ChangeHyperlinkAddr,
				ElementID:  rangeKey(r),
				OldValue:   pre.Address,
				NewValue:   post.Address,
				DetectedAt: now,
			})
		}
	}

	return changes
}

func rangesOf(links []docmodel.Hyperlink) map[docmodel.CharRange]docmodel.Hyperlink {
	out := make(map[docmodel.CharRange]docmodel.Hyperlink, len(links))
	for _, l := range links {
		out[l.Range] = l
	}
	return out
}
