// Package inspector extracts Annotations and a Structure snapshot
// from a live document session. Individual element-level failures are
// logged and skipped; extraction never aborts wholesale unless the
// document itself cannot be enumerated.
package inspector

import (
	"context"
	"fmt"

	"github.com/antigravity-dev/autoword-go/internal/docdriver"
	"github.com/antigravity-dev/autoword-go/internal/docmodel"
	"github.com/antigravity-dev/autoword-go/internal/errs"
	"github.com/antigravity-dev/autoword-go/internal/logging"
)

// ExtractAnnotations reads every annotation the driver enumerates and
// normalizes it into docmodel.Annotation. A malformed individual
// annotation is logged and skipped, not fatal.
func ExtractAnnotations(ctx context.Context, doc docdriver.Document) ([]docmodel.Annotation, error) {
	log := logging.Get(logging.CategoryInspect)

	raw, err := doc.Annotations(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.DriverError, "could not enumerate annotations", err)
	}

	out := make([]docmodel.Annotation, 0, len(raw))
	for i, a := range raw {
		if a.ID == "" {
			log.Warn("skipping annotation %d: empty id", i)
			continue
		}
		out = append(out, docmodel.Annotation{
			ID:         a.ID,
			Author:     a.Author,
			Page:       a.Page,
			AnchorText: a.AnchorText,
			BodyText:   a.BodyText,
			Range:      a.Range,
		})
	}
	return out, nil
}

// ExtractStructure reads paragraphs, styles, TOC fields, and
// hyperlinks, producing an immutable Structure snapshot.
func ExtractStructure(ctx context.Context, doc docdriver.Document) (docmodel.Structure, error) {
	log := logging.Get(logging.CategoryInspect)

	paragraphs, err := doc.Paragraphs(ctx)
	if err != nil {
		return docmodel.Structure{}, errs.Wrap(errs.DriverError, "could not enumerate paragraphs", err)
	}

	var headings []docmodel.Heading
	wordCount := 0
	for i, p := range paragraphs {
		wordCount += countWords(p.Text)
		if !looksLikeHeading(p.StyleName) {
			continue
		}
		level, err := inferHeadingLevel(p.StyleName)
		if err != nil {
			log.Warn("paragraph %d: %v, defaulting to level 1", i, err)
			level = 1
		}
		headings = append(headings, docmodel.Heading{
			Level:     level,
			Text:      p.Text,
			StyleName: p.StyleName,
			Range:     p.Range,
		})
	}

	styles := []docmodel.Style{}
	if rawStyles, err := doc.Styles(ctx); err != nil {
		log.Warn("could not enumerate styles: %v", err)
	} else {
		for _, s := range rawStyles {
			styles = append(styles, docmodel.Style{Name: s.Name, Kind: s.Kind, BuiltIn: s.BuiltIn, InUse: s.InUse})
		}
	}

	var toc []docmodel.TocEntry
	if rawToc, err := doc.TocFields(ctx); err != nil {
		log.Warn("could not enumerate TOC fields: %v", err)
	} else {
		for _, t := range rawToc {
			toc = append(toc, docmodel.TocEntry{Level: t.Level, Text: t.Text, PageNumber: t.PageNumber, Range: t.Range})
		}
	}

	var links []docmodel.Hyperlink
	if rawLinks, err := doc.Hyperlinks(ctx); err != nil {
		log.Warn("could not enumerate hyperlinks: %v", err)
	} else {
		for _, h := range rawLinks {
			links = append(links, docmodel.Hyperlink{DisplayText: h.DisplayText, Address: h.Address, Kind: h.Kind, Range: h.Range})
		}
	}

	return docmodel.Structure{
		Headings:   headings,
		Styles:     styles,
		TocEntries: toc,
		Hyperlinks: links,
		PageCount:  estimatePageCount(wordCount),
		WordCount:  wordCount,
	}, nil
}

// estimatePageCount is a rough editorial estimate (~500 words/page),
// used only when the driver does not report a page count directly;
// a real driver implementation would prefer its own page count.
func estimatePageCount(wordCount int) int {
	if wordCount == 0 {
		return 0
	}
	pages := wordCount / 500
	if wordCount%500 != 0 {
		pages++
	}
	return pages
}

var errNoDigitOrWord = fmt.Errorf("style name contains no recognizable level")
