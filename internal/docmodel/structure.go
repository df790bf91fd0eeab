package docmodel

import "strconv"

// StyleKind classifies a document style.
type StyleKind string

const (
	StyleParagraph StyleKind = "paragraph"
	StyleCharacter StyleKind = "character"
	StyleTable     StyleKind = "table"
	StyleList      StyleKind = "list"
)

// HyperlinkKind classifies a hyperlink target.
type HyperlinkKind string

const (
	HyperlinkWeb      HyperlinkKind = "web"
	HyperlinkEmail    HyperlinkKind = "email"
	HyperlinkFile     HyperlinkKind = "file"
	HyperlinkInternal HyperlinkKind = "internal"
)

// ReferenceKind classifies a citation/footnote-style reference.
// Supplement from original_source's reference extraction: informational
// only, never a gated FormatChange kind.
type ReferenceKind string

const (
	ReferenceCitation ReferenceKind = "citation"
	ReferenceFootnote ReferenceKind = "footnote"
	ReferenceEndnote  ReferenceKind = "endnote"
)

// Heading is a paragraph recognized as a document heading.
type Heading struct {
	Level     int
	Text      string
	StyleName string
	Range     CharRange
}

// Style describes one named style in the document's style sheet.
type Style struct {
	Name    string
	Kind    StyleKind
	BuiltIn bool
	InUse   bool
}

// TocEntry is one line of a table-of-contents field.
type TocEntry struct {
	Level      int
	Text       string
	PageNumber int
	Range      CharRange
}

// Hyperlink is a hyperlink field in the document body.
type Hyperlink struct {
	DisplayText string
	Address     string
	Kind        HyperlinkKind
	Range       CharRange
}

// Reference is a citation/footnote-style element, restored from
// original_source as an informational addition to Structure.
type Reference struct {
	Kind   ReferenceKind
	Text   string
	Target string
	Range  CharRange
}

// Structure is an immutable value-typed snapshot of a document's
// headings, styles, TOC entries, hyperlinks, and page/word counts at
// one point in time. Two Structures are comparable by value.
type Structure struct {
	Headings   []Heading
	Styles     []Style
	TocEntries []TocEntry
	Hyperlinks []Hyperlink
	References []Reference
	PageCount  int
	WordCount  int
}

// Equal reports whether s and o represent the same structure. Order
// within each list does not matter; duplicate keys are not expected
// from a well-formed Inspector extraction.
func (s Structure) Equal(o Structure) bool {
	if s.PageCount != o.PageCount || s.WordCount != o.WordCount {
		return false
	}
	if len(s.Headings) != len(o.Headings) ||
		len(s.Styles) != len(o.Styles) ||
		len(s.TocEntries) != len(o.TocEntries) ||
		len(s.Hyperlinks) != len(o.Hyperlinks) {
		return false
	}

	headingsByRange := make(map[CharRange]Heading, len(s.Headings))
	for _, h := range s.Headings {
		headingsByRange[h.Range] = h
	}
	for _, h := range o.Headings {
		match, ok := headingsByRange[h.Range]
		if !ok || match.Level != h.Level || match.StyleName != h.StyleName || match.Text != h.Text {
			return false
		}
	}

	stylesByName := make(map[string]Style, len(s.Styles))
	for _, st := range s.Styles {
		stylesByName[st.Name] = st
	}
	for _, st := range o.Styles {
		match, ok := stylesByName[st.Name]
		if !ok || match.InUse != st.InUse || match.Kind != st.Kind || match.BuiltIn != st.BuiltIn {
			return false
		}
	}

	linksByRange := make(map[CharRange]Hyperlink, len(s.Hyperlinks))
	for _, l := range s.Hyperlinks {
		linksByRange[l.Range] = l
	}
	for _, l := range o.Hyperlinks {
		match, ok := linksByRange[l.Range]
		if !ok || match.Address != l.Address {
			return false
		}
	}

	return tocLevelDistribution(s.TocEntries) == tocLevelDistribution(o.TocEntries)
}

// tocLevelDistribution summarizes a TOC's per-level entry counts as a
// comparable string key for Structure.Equal. The Validator's
// toc_levels_change detection builds the same key with its own helper.
func tocLevelDistribution(entries []TocEntry) string {
	counts := make(map[int]int)
	for _, e := range entries {
		counts[e.Level]++
	}
	out := ""
	for level := 1; level <= 9; level++ {
		if c, ok := counts[level]; ok {
			out += strconv.Itoa(level) + ":" + strconv.Itoa(c) + ","
		}
	}
	return out
}
