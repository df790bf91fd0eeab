package inspector

import (
	"regexp"
	"strconv"
	"strings"
)

// digitPattern matches a single Arabic digit 1-9 anywhere in a style
// name, language-agnostic by design (works for "Heading 2", "标题 2",
// "Titre 2" alike).
var digitPattern = regexp.MustCompile(`[1-9]`)

// localizedNumberWords maps spelled-out level words, CJK numerals
// first (most common in the corpus's bilingual documents) then
// spelled-out English, to their level.
var localizedNumberWords = map[string]int{
	"一": 1, "二": 2, "三": 3, "四": 4, "五": 5, "六": 6, "七": 7, "八": 8, "九": 9,
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9,
}

// headingStylePrefixes are recognized as naming a heading-like
// paragraph style, independent of level.
var headingStylePrefixes = []string{"heading", "title", "标题", "titre", "überschrift"}

// looksLikeHeading reports whether styleName names a heading-like
// style at all (any level), used before bothering to infer a level.
func looksLikeHeading(styleName string) bool {
	lower := strings.ToLower(styleName)
	for _, prefix := range headingStylePrefixes {
		if strings.Contains(lower, prefix) {
			return true
		}
	}
	return false
}

// inferHeadingLevel infers a heading's level (1-9) from its style
// name: an Arabic digit anywhere in the name wins; otherwise a
// localized number word is tried; the caller defaults to 1 on error.
func inferHeadingLevel(styleName string) (int, error) {
	if m := digitPattern.FindString(styleName); m != "" {
		level, err := strconv.Atoi(m)
		if err == nil {
			return level, nil
		}
	}

	lower := strings.ToLower(styleName)
	for word, level := range localizedNumberWords {
		if strings.Contains(lower, strings.ToLower(word)) || strings.Contains(styleName, word) {
			return level, nil
		}
	}

	return 1, errNoDigitOrWord
}

// countWords approximates spec.md's word_count via a whitespace
// split, sufficient for the estimate Structure carries (the driver
// itself is the source of truth for a real document).
func countWords(text string) int {
	return len(strings.Fields(text))
}
