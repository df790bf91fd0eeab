package executor

import (
	"regexp"
	"strconv"
	"strings"
)

var digitPattern = regexp.MustCompile(`[1-9]`)

var localizedNumberWords = map[string]int{
	"一": 1, "二": 2, "三": 3, "四": 4, "五": 5, "六": 6, "七": 7, "八": 8, "九": 9,
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9,
}

// headingStyleFamilies lists the heading style family keywords
// ExtractStyleName recognizes, covering the corpus's bilingual heading
// styles; the keyword plus a level gives the style name.
var headingStyleFamilies = []string{"heading", "标题"}

// ExtractHeadingLevel parses a level 1-9 out of a task's instruction
// text: a literal digit wins, then a spelled-out number word,
// defaulting to 1 when neither appears.
func ExtractHeadingLevel(instruction string) int {
	if m := digitPattern.FindString(instruction); m != "" {
		if level, err := strconv.Atoi(m); err == nil {
			return clampLevel(level)
		}
	}
	lower := strings.ToLower(instruction)
	for word, level := range localizedNumberWords {
		if strings.Contains(lower, strings.ToLower(word)) || strings.Contains(instruction, word) {
			return clampLevel(level)
		}
	}
	return 1
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 9 {
		return 9
	}
	return level
}

// ExtractStyleName parses a paragraph style name out of an
// instruction: a heading family keyword plus a digit wins; "正文"/
// "normal"/"body" maps to the body-text style; anything else falls
// back to the body style.
func ExtractStyleName(instruction string) string {
	lower := strings.ToLower(instruction)

	for _, family := range headingStyleFamilies {
		if !strings.Contains(lower, strings.ToLower(family)) && !strings.Contains(instruction, family) {
			continue
		}
		level := ExtractHeadingLevel(instruction)
		if family == "标题" {
			return "标题 " + strconv.Itoa(level)
		}
		return "Heading " + strconv.Itoa(level)
	}

	if strings.Contains(instruction, "正文") {
		return "正文"
	}

	return "Normal"
}

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)
var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// ExtractHyperlinkAddress parses a URL or email address out of an
// instruction, preferring a literal http(s) URL, then an email
// (returned as a mailto: link), and otherwise treating the whole
// instruction as an internal-bookmark-style target.
func ExtractHyperlinkAddress(instruction string) string {
	if url := urlPattern.FindString(instruction); url != "" {
		return url
	}
	if email := emailPattern.FindString(instruction); email != "" {
		return "mailto:" + email
	}
	return instruction
}

var templatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)template[:：]\s*([^\s,，。.]+)`),
	regexp.MustCompile(`(?i)apply\s+([^\s,，。.]*template)`),
	regexp.MustCompile(`模板[:：]\s*([^\s,，。.]+)`),
	regexp.MustCompile(`应用\s*([^\s,，。.]*模板)`),
}

// ExtractTemplateName parses a template name out of an instruction,
// defaulting to "default" when no recognizable pattern matches.
func ExtractTemplateName(instruction string) string {
	for _, p := range templatePatterns {
		if m := p.FindStringSubmatch(instruction); len(m) == 2 {
			return strings.TrimSpace(m[1])
		}
	}
	return "default"
}

var numberPattern = regexp.MustCompile(`\d+`)

// ExtractTocLevels parses an (upper, lower) heading-level bound pair
// out of an instruction: two numbers set upper and lower directly;
// one number sets only lower (upper defaults to 1); none defaults to
// (1, 3).
func ExtractTocLevels(instruction string) (int, int) {
	matches := numberPattern.FindAllString(instruction, -1)
	switch len(matches) {
	case 0:
		return 1, 3
	case 1:
		level, _ := strconv.Atoi(matches[0])
		return 1, clampLevel(level)
	default:
		upper, _ := strconv.Atoi(matches[0])
		lower, _ := strconv.Atoi(matches[1])
		upper = clampLevel(upper)
		lower = clampLevel(lower)
		if lower < upper {
			lower = upper
		}
		return upper, lower
	}
}
