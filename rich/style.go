package rich

import "image/color"

// Style defines visual attributes for a span of text.
type Style struct {
	// Colors (zero value means use default)
	Fg color.RGBA
	Bg color.RGBA

	// Font variations
	Bold   bool
	Italic bool
	Code   bool // Monospace font for code spans
	Link   bool // Hyperlink (rendered in blue by default)

	// Size multiplier (1.0 = normal body text, 0 is treated as 1.0)
	Scale float64
}

// ObjKind says what an object-data run refers to.
type ObjKind int

const (
	ObjNone ObjKind = iota
	// ObjPicture is an embedded picture. Pictures are never extended by typing.
	ObjPicture
	// ObjNameGUIDHot is a hot link to an object that is not owned by the text.
	ObjNameGUIDHot
	// ObjOwnNameGUIDHot is an owned object (e.g. a footnote) displayed
	// through its text representation.
	ObjOwnNameGUIDHot
	// ObjExternalPathname is a link to a file outside the document.
	ObjExternalPathname
)

// ObjData is the object reference carried by a run whose text is a single
// ObjectReplacementChar.
type ObjData struct {
	Kind ObjKind
	Ref  string
}

// IsZero reports whether d refers to nothing.
func (d ObjData) IsZero() bool {
	return d.Kind == ObjNone
}

// IsLink reports whether d is a reference that can be re-resolved when
// text is pasted into another document.
func (d ObjData) IsLink() bool {
	return d.Kind == ObjNameGUIDHot || d.Kind == ObjOwnNameGUIDHot || d.Kind == ObjExternalPathname
}

// Props are the properties of a run. Props is comparable with ==.
type Props struct {
	Style

	// Ws is the writing system of the run. Zero means unknown.
	Ws int
	// NamedStyle is the character style applied to the run.
	NamedStyle string
	// Obj is set for object-data runs.
	Obj ObjData
	// Para is set only on the separator that ends a copied paragraph.
	Para ParaProps
}

// WithoutObj returns p with any object data removed. Used when deriving
// typing properties from an existing run.
func (p Props) WithoutObj() Props {
	p.Obj = ObjData{}
	return p
}

// WithWs returns p with the writing system set to ws.
func (p Props) WithWs(ws int) Props {
	p.Ws = ws
	return p
}

// ParaProps are the paragraph-level properties attached to a paragraph
// and, when copying, to the separator that ends it.
type ParaProps struct {
	NamedStyle  string
	RightToLeft bool
}
