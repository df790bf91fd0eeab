package promptbuild

import (
	"sort"

	"github.com/antigravity-dev/autoword-go/internal/docmodel"
)

// Chunk is one sub-batch of a document too large to send to the LLM
// in a single call: a partial structure paired with the annotations
// that fall inside it.
type Chunk struct {
	Structure   docmodel.Structure
	Annotations []docmodel.Annotation
}

// Split divides structure and annotations into chunks when the full
// prompt would exceed maxTokens, estimated from the rendered prompt
// text. It tries a heading-band split first (using level-1 headings as
// section boundaries); if that produces at most one chunk (too few or
// no level-1 headings to split on), it falls back to dividing the
// annotations into roughly three even groups while keeping the
// document structure intact in every chunk.
func Split(structure docmodel.Structure, annotations []docmodel.Annotation, schemaJSON string, maxTokens int) []Chunk {
	full := BuildUserPrompt(structure, annotations, schemaJSON)
	if EstimateTokens(SystemPrompt)+EstimateTokens(full) <= maxTokens {
		return []Chunk{{Structure: structure, Annotations: annotations}}
	}

	chunks := splitByHeadings(structure, annotations)
	if len(chunks) <= 1 {
		chunks = splitByAnnotationThirds(structure, annotations)
	}
	return chunks
}

// splitByHeadings partitions structure and annotations into bands
// bounded by consecutive level-1 headings. Styles are shared across
// every band (they describe the whole document, not a section of it);
// TOC entries are left out of every band.
func splitByHeadings(structure docmodel.Structure, annotations []docmodel.Annotation) []Chunk {
	var level1 []docmodel.Heading
	for _, h := range structure.Headings {
		if h.Level == 1 {
			level1 = append(level1, h)
		}
	}
	if len(level1) <= 1 {
		return nil
	}
	sort.Slice(level1, func(i, j int) bool { return level1[i].Range.Start < level1[j].Range.Start })

	var chunks []Chunk
	for i, h := range level1 {
		start := h.Range.Start
		end := maxInt
		if i+1 < len(level1) {
			end = level1[i+1].Range.Start
		}

		var headings []docmodel.Heading
		for _, hh := range structure.Headings {
			if hh.Range.Start >= start && hh.Range.Start < end {
				headings = append(headings, hh)
			}
		}
		var links []docmodel.Hyperlink
		for _, l := range structure.Hyperlinks {
			if l.Range.Start >= start && l.Range.Start < end {
				links = append(links, l)
			}
		}
		var refs []docmodel.Reference
		for _, r := range structure.References {
			if r.Range.Start >= start && r.Range.Start < end {
				refs = append(refs, r)
			}
		}
		var chunkAnnotations []docmodel.Annotation
		for _, a := range annotations {
			if a.Range.Start >= start && a.Range.Start < end {
				chunkAnnotations = append(chunkAnnotations, a)
			}
		}

		chunks = append(chunks, Chunk{
			Structure: docmodel.Structure{
				Headings:   headings,
				Styles:     structure.Styles,
				TocEntries: nil,
				Hyperlinks: links,
				References: refs,
				PageCount:  structure.PageCount,
				WordCount:  structure.WordCount,
			},
			Annotations: chunkAnnotations,
		})
	}
	return chunks
}

// splitByAnnotationThirds divides annotations into roughly three
// equal groups, used when the document has no usable heading
// structure to chunk by. The full structure is repeated in every
// chunk since it can't meaningfully be partitioned by annotation.
func splitByAnnotationThirds(structure docmodel.Structure, annotations []docmodel.Annotation) []Chunk {
	if len(annotations) == 0 {
		return []Chunk{{Structure: structure, Annotations: annotations}}
	}

	groupSize := len(annotations) / 3
	if groupSize < 1 {
		groupSize = 1
	}

	var chunks []Chunk
	for i := 0; i < len(annotations); i += groupSize {
		end := i + groupSize
		if end > len(annotations) {
			end = len(annotations)
		}
		chunks = append(chunks, Chunk{Structure: structure, Annotations: annotations[i:end]})
	}
	return chunks
}

const maxInt = int(^uint(0) >> 1)
