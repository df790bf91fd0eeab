package executor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antigravity-dev/autoword-go/internal/docdriver"
	"github.com/antigravity-dev/autoword-go/internal/docmodel"
	"github.com/antigravity-dev/autoword-go/internal/errs"
)

// headingStylePrefixes recognizes a heading-like paragraph style,
// independent of level or language.
var headingStylePrefixes = []string{"heading", "title", "标题", "titre", "überschrift"}

func looksLikeHeadingStyle(styleName string) bool {
	lower := strings.ToLower(styleName)
	for _, p := range headingStylePrefixes {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// resolveLocator implements spec.md §4.6 step 3's locator fallback
// chain over a fresh paragraph snapshot (callers must re-fetch between
// mutating tasks, since earlier mutations shift later ranges). strict
// disables the fuzzy-token fallback: a total miss returns an error
// instead of degrading to [0,1), per Safe mode's stricter policy. The
// returned string is a human-facing note (e.g. "bookmark not found,
// fell back to find") logged by the caller, empty on a clean resolve.
func resolveLocator(loc docmodel.Locator, paragraphs []docdriver.Paragraph, strict bool) (docmodel.CharRange, string, error) {
	switch loc.By {
	case docmodel.LocatorBookmark:
		return locateByBookmark(loc.Value, paragraphs, strict)
	case docmodel.LocatorRange:
		return locateByRange(loc.Value, paragraphs)
	case docmodel.LocatorHeading:
		return locateByHeading(loc.Value, paragraphs, strict)
	case docmodel.LocatorFind:
		return locateByFind(loc.Value, paragraphs, strict)
	default:
		return docmodel.CharRange{}, "", errs.New(errs.TaskExecution, fmt.Sprintf("unsupported locator type %q", loc.By))
	}
}

// locateByBookmark has no bookmark store to consult (the driver
// interface exposes none), so it always falls back to Find, exactly
// as the source does when a named bookmark doesn't exist.
func locateByBookmark(name string, paragraphs []docdriver.Paragraph, strict bool) (docmodel.CharRange, string, error) {
	r, note, err := locateByFind(name, paragraphs, strict)
	if err != nil {
		return docmodel.CharRange{}, "", err
	}
	return r, fmt.Sprintf("bookmark %q not found, fell back to find: %s", name, note), nil
}

func locateByRange(spec string, paragraphs []docdriver.Paragraph) (docmodel.CharRange, string, error) {
	docEnd := 0
	for _, p := range paragraphs {
		if p.Range.End > docEnd {
			docEnd = p.Range.End
		}
	}

	var r docmodel.CharRange
	switch {
	case strings.Contains(spec, "-"):
		parts := strings.SplitN(spec, "-", 2)
		start, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		end, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return docmodel.CharRange{}, "", errs.New(errs.TaskExecution, fmt.Sprintf("malformed range locator %q", spec))
		}
		r = docmodel.CharRange{Start: start, End: end}
	case strings.Contains(spec, ","):
		parts := strings.SplitN(spec, ",", 2)
		start, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		length, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return docmodel.CharRange{}, "", errs.New(errs.TaskExecution, fmt.Sprintf("malformed range locator %q", spec))
		}
		r = docmodel.CharRange{Start: start, End: start + length}
	default:
		start, err := strconv.Atoi(strings.TrimSpace(spec))
		if err != nil {
			return docmodel.CharRange{}, "", errs.New(errs.TaskExecution, fmt.Sprintf("malformed range locator %q", spec))
		}
		r = docmodel.CharRange{Start: start, End: start + 1}
	}

	r = clampRange(r, docEnd)
	return r, "", nil
}

func clampRange(r docmodel.CharRange, docEnd int) docmodel.CharRange {
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End > docEnd {
		r.End = docEnd
	}
	if r.End < r.Start {
		r.End = r.Start
	}
	return r
}

func locateByHeading(text string, paragraphs []docdriver.Paragraph, strict bool) (docmodel.CharRange, string, error) {
	for _, p := range paragraphs {
		if !looksLikeHeadingStyle(p.StyleName) {
			continue
		}
		trimmed := strings.TrimSpace(p.Text)
		if strings.Contains(trimmed, text) || strings.Contains(text, trimmed) {
			return p.Range, "", nil
		}
	}

	r, note, err := locateByFind(text, paragraphs, strict)
	if err != nil {
		return docmodel.CharRange{}, "", err
	}
	return r, fmt.Sprintf("heading %q not found, fell back to find: %s", text, note), nil
}

func locateByFind(text string, paragraphs []docdriver.Paragraph, strict bool) (docmodel.CharRange, string, error) {
	lowerText := strings.ToLower(text)
	for _, p := range paragraphs {
		if strings.Contains(strings.ToLower(p.Text), lowerText) {
			return p.Range, "", nil
		}
	}

	if strict {
		return docmodel.CharRange{}, "", errs.New(errs.TaskExecution, fmt.Sprintf("find locator %q matched nothing", text))
	}

	return fuzzyFind(text, paragraphs)
}

// fuzzyFind tries each whitespace token of length >= 3 from text as an
// exact (case-insensitive) substring match, in order; a total miss
// degrades to the document-start sentinel range [0,1) with a warning
// note rather than failing the task.
func fuzzyFind(text string, paragraphs []docdriver.Paragraph) (docmodel.CharRange, string, error) {
	tokens := strings.Fields(text)
	for _, tok := range tokens {
		if len(tok) < 3 {
			continue
		}
		lowerTok := strings.ToLower(tok)
		for _, p := range paragraphs {
			if strings.Contains(strings.ToLower(p.Text), lowerTok) {
				return p.Range, fmt.Sprintf("fuzzy-matched token %q", tok), nil
			}
		}
	}

	return docmodel.CharRange{Start: 0, End: 1}, fmt.Sprintf("could not locate %q, using document start", text), nil
}
