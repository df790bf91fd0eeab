// Package docdriver declares the document-automation interface the
// core consumes. The concrete office-suite automation driver is out
// of scope; this package holds only the interface and an in-memory
// fake used throughout the other packages' tests.
package docdriver

import (
	"context"

	"github.com/antigravity-dev/autoword-go/internal/docmodel"
)

// Paragraph is one paragraph as enumerated by a driver.
type Paragraph struct {
	StyleName string
	Text      string
	Range     docmodel.CharRange
}

// RawAnnotation is an annotation as enumerated by a driver, before
// Inspector normalization.
type RawAnnotation struct {
	ID         string
	Author     string
	Page       int
	AnchorText string
	BodyText   string
	Range      docmodel.CharRange
}

// RawStyle is a style as enumerated by a driver.
type RawStyle struct {
	Name    string
	Kind    docmodel.StyleKind
	BuiltIn bool
	InUse   bool
}

// RawToc is a TOC field as enumerated by a driver.
type RawToc struct {
	Level      int
	Text       string
	PageNumber int
	Range      docmodel.CharRange
}

// RawHyperlink is a hyperlink as enumerated by a driver.
type RawHyperlink struct {
	DisplayText string
	Address     string
	Kind        docmodel.HyperlinkKind
	Range       docmodel.CharRange
}

// Document is the consumed document-driver surface: enumeration plus
// mutation primitives. The driver is assumed single-threaded and
// blocking — callers must never share a Document across goroutines.
type Document interface {
	Paragraphs(ctx context.Context) ([]Paragraph, error)
	Annotations(ctx context.Context) ([]RawAnnotation, error)
	Styles(ctx context.Context) ([]RawStyle, error)
	TocFields(ctx context.Context) ([]RawToc, error)
	Hyperlinks(ctx context.Context) ([]RawHyperlink, error)

	SetParagraphStyle(ctx context.Context, r docmodel.CharRange, styleName string) error
	ReplaceRange(ctx context.Context, r docmodel.CharRange, text string) error
	InsertAfter(ctx context.Context, r docmodel.CharRange, text string) error
	DeleteRange(ctx context.Context, r docmodel.CharRange) error
	SetHyperlinkAddress(ctx context.Context, r docmodel.CharRange, address string) error
	AddTocField(ctx context.Context, r docmodel.CharRange, minLevel, maxLevel int) error
	DeleteTocFields(ctx context.Context) error
	UpdateTocField(ctx context.Context, index int, minLevel, maxLevel int) error

	Save(ctx context.Context) error
	SaveAs(ctx context.Context, path string) error
	Close(ctx context.Context) error

	// Path returns the document's current on-disk path.
	Path() string
}

// Driver opens documents by path.
type Driver interface {
	Open(ctx context.Context, path string) (Document, error)
}
