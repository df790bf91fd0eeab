package docdriver

import (
	"context"
	"fmt"

	"github.com/antigravity-dev/autoword-go/internal/docmodel"
)

// FakeDocument is an in-memory Document used by the other packages'
// tests, in place of the out-of-scope concrete automation driver.
// Mutations keep paragraph ranges consistent by shifting everything
// after the edited range by the resulting length delta.
type FakeDocument struct {
	path        string
	paragraphs  []Paragraph
	annotations []RawAnnotation
	styles      []RawStyle
	toc         []RawToc
	hyperlinks  []RawHyperlink
	saved       bool
	closed      bool
}

// NewFakeDocument builds an empty in-memory document rooted at path.
func NewFakeDocument(path string) *FakeDocument {
	return &FakeDocument{path: path}
}

// AddParagraph appends a paragraph, assigning it the range
// immediately following the current last paragraph.
func (d *FakeDocument) AddParagraph(styleName, text string) {
	start := 0
	if n := len(d.paragraphs); n > 0 {
		start = d.paragraphs[n-1].Range.End
	}
	d.paragraphs = append(d.paragraphs, Paragraph{
		StyleName: styleName,
		Text:      text,
		Range:     docmodel.CharRange{Start: start, End: start + len(text)},
	})
}

// AddAnnotation appends a raw annotation as-is (no range recomputation).
func (d *FakeDocument) AddAnnotation(a RawAnnotation) { d.annotations = append(d.annotations, a) }

// AddStyle appends a style definition.
func (d *FakeDocument) AddStyle(s RawStyle) { d.styles = append(d.styles, s) }

// AddHyperlink appends a hyperlink.
func (d *FakeDocument) AddHyperlink(h RawHyperlink) { d.hyperlinks = append(d.hyperlinks, h) }

// AddTocEntry appends a TOC field.
func (d *FakeDocument) AddTocEntry(e RawToc) { d.toc = append(d.toc, e) }

// Saved reports whether Save or SaveAs has been called since creation.
func (d *FakeDocument) Saved() bool { return d.saved }

// Closed reports whether Close has been called.
func (d *FakeDocument) Closed() bool { return d.closed }

func (d *FakeDocument) Path() string { return d.path }

func (d *FakeDocument) Paragraphs(ctx context.Context) ([]Paragraph, error) {
	out := make([]Paragraph, len(d.paragraphs))
	copy(out, d.paragraphs)
	return out, nil
}

func (d *FakeDocument) Annotations(ctx context.Context) ([]RawAnnotation, error) {
	out := make([]RawAnnotation, len(d.annotations))
	copy(out, d.annotations)
	return out, nil
}

func (d *FakeDocument) Styles(ctx context.Context) ([]RawStyle, error) {
	out := make([]RawStyle, len(d.styles))
	copy(out, d.styles)
	return out, nil
}

func (d *FakeDocument) TocFields(ctx context.Context) ([]RawToc, error) {
	out := make([]RawToc, len(d.toc))
	copy(out, d.toc)
	return out, nil
}

func (d *FakeDocument) Hyperlinks(ctx context.Context) ([]RawHyperlink, error) {
	out := make([]RawHyperlink, len(d.hyperlinks))
	copy(out, d.hyperlinks)
	return out, nil
}

// findParagraph returns the index of the paragraph whose Range
// exactly matches r, or -1.
func (d *FakeDocument) findParagraph(r docmodel.CharRange) int {
	for i, p := range d.paragraphs {
		if p.Range == r {
			return i
		}
	}
	return -1
}

// shiftAfter adds delta to the range of every paragraph, hyperlink,
// and TOC field starting at or after position.
func (d *FakeDocument) shiftAfter(position, delta int) {
	if delta == 0 {
		return
	}
	for i := range d.paragraphs {
		if d.paragraphs[i].Range.Start >= position {
			d.paragraphs[i].Range.Start += delta
			d.paragraphs[i].Range.End += delta
		}
	}
	for i := range d.hyperlinks {
		if d.hyperlinks[i].Range.Start >= position {
			d.hyperlinks[i].Range.Start += delta
			d.hyperlinks[i].Range.End += delta
		}
	}
	for i := range d.toc {
		if d.toc[i].Range.Start >= position {
			d.toc[i].Range.Start += delta
			d.toc[i].Range.End += delta
		}
	}
}

func (d *FakeDocument) SetParagraphStyle(ctx context.Context, r docmodel.CharRange, styleName string) error {
	i := d.findParagraph(r)
	if i < 0 {
		return fmt.Errorf("no paragraph at range %v", r)
	}
	d.paragraphs[i].StyleName = styleName
	return nil
}

func (d *FakeDocument) ReplaceRange(ctx context.Context, r docmodel.CharRange, text string) error {
	i := d.findParagraph(r)
	if i < 0 {
		return fmt.Errorf("no paragraph at range %v", r)
	}
	delta := len(text) - r.Len()
	d.paragraphs[i].Text = text
	d.paragraphs[i].Range.End = r.Start + len(text)
	d.shiftAfter(r.End, delta)
	return nil
}

func (d *FakeDocument) InsertAfter(ctx context.Context, r docmodel.CharRange, text string) error {
	i := d.findParagraph(r)
	if i < 0 {
		return fmt.Errorf("no paragraph at range %v", r)
	}
	style := d.paragraphs[i].StyleName
	d.shiftAfter(r.End, len(text))
	newPara := Paragraph{StyleName: style, Text: text, Range: docmodel.CharRange{Start: r.End, End: r.End + len(text)}}
	tail := append([]Paragraph{newPara}, d.paragraphs[i+1:]...)
	d.paragraphs = append(d.paragraphs[:i+1], tail...)
	return nil
}

func (d *FakeDocument) DeleteRange(ctx context.Context, r docmodel.CharRange) error {
	i := d.findParagraph(r)
	if i < 0 {
		return fmt.Errorf("no paragraph at range %v", r)
	}
	delta := -r.Len()
	d.paragraphs = append(d.paragraphs[:i], d.paragraphs[i+1:]...)
	d.shiftAfter(r.End, delta)
	return nil
}

func (d *FakeDocument) SetHyperlinkAddress(ctx context.Context, r docmodel.CharRange, address string) error {
	for i := range d.hyperlinks {
		if d.hyperlinks[i].Range == r {
			d.hyperlinks[i].Address = address
			return nil
		}
	}
	return fmt.Errorf("no hyperlink at range %v", r)
}

func (d *FakeDocument) AddTocField(ctx context.Context, r docmodel.CharRange, minLevel, maxLevel int) error {
	d.toc = append(d.toc, RawToc{Level: minLevel, Range: r})
	return nil
}

func (d *FakeDocument) DeleteTocFields(ctx context.Context) error {
	d.toc = nil
	return nil
}

func (d *FakeDocument) UpdateTocField(ctx context.Context, index int, minLevel, maxLevel int) error {
	if index < 0 || index >= len(d.toc) {
		return fmt.Errorf("toc field index %d out of range", index)
	}
	d.toc[index].Level = minLevel
	return nil
}

func (d *FakeDocument) Save(ctx context.Context) error {
	d.saved = true
	return nil
}

func (d *FakeDocument) SaveAs(ctx context.Context, path string) error {
	d.path = path
	d.saved = true
	return nil
}

func (d *FakeDocument) Close(ctx context.Context) error {
	d.closed = true
	return nil
}

// FakeDriver opens FakeDocuments previously registered by path.
type FakeDriver struct {
	docs map[string]*FakeDocument
}

// NewFakeDriver builds a driver with no registered documents.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{docs: make(map[string]*FakeDocument)}
}

// Register makes doc available to Open under path.
func (f *FakeDriver) Register(path string, doc *FakeDocument) {
	f.docs[path] = doc
}

func (f *FakeDriver) Open(ctx context.Context, path string) (Document, error) {
	doc, ok := f.docs[path]
	if !ok {
		return nil, fmt.Errorf("no fake document registered for %q", path)
	}
	return doc, nil
}
