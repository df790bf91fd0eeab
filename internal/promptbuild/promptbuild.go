// Package promptbuild assembles the system and user prompts sent to the
// LLM: a structure summary, an annotation listing, and the tasks JSON
// schema the model must conform its output to.
package promptbuild

import (
	"fmt"
	"sort"
	"strings"

	"github.com/antigravity-dev/autoword-go/internal/docmodel"
)

// SystemPrompt is the fixed system-level instruction. It hard-constrains
// the model against unauthorized format changes (Gate L1) and demands
// schema-conformant JSON with no surrounding prose.
const SystemPrompt = `You are a Word document automation assistant. Given reviewer annotations, produce a task list describing the edits they authorize.

Hard rules:
- Never change formatting unless an annotation explicitly requests it.
- Formatting includes paragraph styles, heading levels, templates/themes, hyperlinks, and the table of contents.
- Output valid JSON only, conforming exactly to the provided JSON schema. No surrounding prose.

Supported task types:
- rewrite, insert, delete: content edits, no annotation authorization required.
- set_heading_level, set_paragraph_style, apply_template, replace_hyperlink, rebuild_toc, update_toc_levels: format edits, each requires a source annotation id.

Locators:
- find: locate by text match.
- heading: locate by heading text.
- bookmark: locate by bookmark name.
- range: locate by an explicit character range.`

// userPromptTemplate mirrors the shape of the original prompt template:
// a structure summary, the annotation listing, and the schema, each
// introduced by a labeled section so the model can't confuse them.
const userPromptTemplate = `Document structure summary:
%s

Annotations:
%s

Return a task list conforming to this JSON schema:
%s

Notes:
- Do not change formatting unless an annotation explicitly authorizes it.
- Every format task must carry its source annotation id.
- Use precise locator values.`

// BuildUserPrompt assembles the full user-turn prompt for one
// structure/annotation batch.
func BuildUserPrompt(structure docmodel.Structure, annotations []docmodel.Annotation, schemaJSON string) string {
	return fmt.Sprintf(userPromptTemplate, buildStructureSummary(structure), buildAnnotationsSummary(annotations), schemaJSON)
}

// buildStructureSummary renders a compact textual summary of structure,
// grouping headings by level and styles by kind, truncating long
// listings so the prompt stays proportionate to document size.
func buildStructureSummary(structure docmodel.Structure) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d pages, %d words\n", structure.PageCount, structure.WordCount)

	if len(structure.Headings) > 0 {
		fmt.Fprintf(&b, "\nHeadings (%d):\n", len(structure.Headings))
		byLevel := map[int][]docmodel.Heading{}
		for _, h := range structure.Headings {
			byLevel[h.Level] = append(byLevel[h.Level], h)
		}
		levels := make([]int, 0, len(byLevel))
		for lvl := range byLevel {
			levels = append(levels, lvl)
		}
		sort.Ints(levels)
		for _, lvl := range levels {
			hs := byLevel[lvl]
			fmt.Fprintf(&b, "  level %d (%d):\n", lvl, len(hs))
			for i, h := range hs {
				if i >= 3 {
					fmt.Fprintf(&b, "    ... %d more\n", len(hs)-3)
					break
				}
				fmt.Fprintf(&b, "    - %s\n", truncate(h.Text, 60))
			}
		}
	}

	if len(structure.Styles) > 0 {
		used := make([]docmodel.Style, 0, len(structure.Styles))
		for _, s := range structure.Styles {
			if s.InUse {
				used = append(used, s)
			}
		}
		fmt.Fprintf(&b, "\nStyles in use (%d):\n", len(used))
		byKind := map[docmodel.StyleKind][]string{}
		for _, s := range used {
			byKind[s.Kind] = append(byKind[s.Kind], s.Name)
		}
		kinds := make([]string, 0, len(byKind))
		for k := range byKind {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			names := byKind[docmodel.StyleKind(k)]
			shown := names
			suffix := ""
			if len(names) > 5 {
				shown = names[:5]
				suffix = fmt.Sprintf(" (%d more)", len(names)-5)
			}
			fmt.Fprintf(&b, "  %s: %s%s\n", k, strings.Join(shown, ", "), suffix)
		}
	}

	if len(structure.TocEntries) > 0 {
		fmt.Fprintf(&b, "\nTable of contents (%d entries):\n", len(structure.TocEntries))
		for i, e := range structure.TocEntries {
			if i >= 5 {
				fmt.Fprintf(&b, "  ... %d more\n", len(structure.TocEntries)-5)
				break
			}
			fmt.Fprintf(&b, "  level %d: %s (page %d)\n", e.Level, truncate(e.Text, 50), e.PageNumber)
		}
	}

	if len(structure.Hyperlinks) > 0 {
		byKind := map[docmodel.HyperlinkKind]int{}
		for _, h := range structure.Hyperlinks {
			byKind[h.Kind]++
		}
		fmt.Fprintf(&b, "\nHyperlinks (%d):\n", len(structure.Hyperlinks))
		kinds := make([]string, 0, len(byKind))
		for k := range byKind {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(&b, "  %s: %d\n", k, byKind[docmodel.HyperlinkKind(k)])
		}
	}

	if len(structure.References) > 0 {
		byKind := map[docmodel.ReferenceKind]int{}
		for _, r := range structure.References {
			byKind[r.Kind]++
		}
		fmt.Fprintf(&b, "\nReferences (%d):\n", len(structure.References))
		kinds := make([]string, 0, len(byKind))
		for k := range byKind {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(&b, "  %s: %d\n", k, byKind[docmodel.ReferenceKind(k)])
		}
	}

	return b.String()
}

// buildAnnotationsSummary renders every annotation in full: the model
// needs the complete list, not a sample, since each may become a task.
func buildAnnotationsSummary(annotations []docmodel.Annotation) string {
	if len(annotations) == 0 {
		return "none"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d annotation(s):\n", len(annotations))

	byAuthor := map[string]int{}
	for _, a := range annotations {
		byAuthor[a.Author]++
	}
	if len(byAuthor) > 1 {
		b.WriteString("\nBy author:\n")
		authors := make([]string, 0, len(byAuthor))
		for a := range byAuthor {
			authors = append(authors, a)
		}
		sort.Slice(authors, func(i, j int) bool { return byAuthor[authors[i]] > byAuthor[authors[j]] })
		for _, a := range authors {
			fmt.Fprintf(&b, "  %s: %d\n", a, byAuthor[a])
		}
	}

	b.WriteString("\nDetail:\n")
	for i, a := range annotations {
		fmt.Fprintf(&b, "\n%d. id: %s\n", i+1, a.ID)
		fmt.Fprintf(&b, "   author: %s\n", a.Author)
		fmt.Fprintf(&b, "   page: %d\n", a.Page)
		if a.AnchorText != "" {
			fmt.Fprintf(&b, "   anchor: %q\n", truncate(a.AnchorText, 80))
		}
		fmt.Fprintf(&b, "   body: %q\n", truncate(a.BodyText, 150))
		fmt.Fprintf(&b, "   range: %d-%d\n", a.Range.Start, a.Range.End)
	}

	return b.String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
