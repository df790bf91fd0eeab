package docmodel

import "time"

// FormatChangeKind is the closed set of format-affecting differences
// the Validator can detect between two Structures.
type FormatChangeKind string

const (
	ChangeHeadingLevel    FormatChangeKind = "heading_level_change"
	ChangeHeadingStyle    FormatChangeKind = "heading_style_change"
	ChangeStyleUsage      FormatChangeKind = "style_usage_change"
	ChangeTocStructure    FormatChangeKind = "toc_structure_change"
	ChangeTocLevels       FormatChangeKind = "toc_levels_change"
	ChangeHyperlinkAddr   FormatChangeKind = "hyperlink_address_change"
	ChangeHeadingAdded    FormatChangeKind = "heading_added"
	ChangeHeadingRemoved  FormatChangeKind = "heading_removed"
)

// candidateTaskKinds maps each FormatChangeKind to the TaskKinds that
// could legitimately have produced it — the table from the
// Validator's authorization classifier (Gate L4).
var candidateTaskKinds = map[FormatChangeKind][]TaskKind{
	ChangeHeadingLevel:  {TaskSetHeadingLevel},
	ChangeHeadingStyle:  {TaskSetHeadingLevel, TaskSetParagraphStyle},
	ChangeStyleUsage:    {TaskSetParagraphStyle, TaskApplyTemplate},
	ChangeTocStructure:  {TaskRebuildToc, TaskUpdateTocLevels},
	ChangeTocLevels:     {TaskUpdateTocLevels},
	ChangeHyperlinkAddr: {TaskReplaceHyperlink},
}

// CandidateTaskKinds returns the TaskKinds that could legitimately
// have produced a change of kind k. heading_added/heading_removed
// have no candidate kinds: the data model defines no Task that adds
// or removes a heading directly, so such changes are always
// unauthorized side effects.
func CandidateTaskKinds(k FormatChangeKind) []TaskKind {
	return candidateTaskKinds[k]
}

// FormatChange is one detected difference between two Structures.
// ElementID is the diff key used to find it (a range-derived string
// for headings/hyperlinks, a style name for style changes).
type FormatChange struct {
	Kind                FormatChangeKind
	ElementID           string
	OldValue            string
	NewValue            string
	DetectedAt          time.Time
	Authorized          bool
	AuthorizingAnnotation *string
}
