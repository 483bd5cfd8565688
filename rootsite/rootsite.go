// Package rootsite provides the interface through which the selection
// engine calls back into its host. These callbacks let the host decide
// policy (what to do with a deletion the engine cannot handle, how to
// paste differently styled paragraphs) without the engine knowing
// anything about the host's user interface.
package rootsite

import (
	"errors"

	"github.com/rjkroege/richedit/rich"
)

// ErrNotImplemented is returned by callbacks a host has not implemented.
// The engine treats it as a request for default behavior.
var ErrNotImplemented = errors.New("rootsite: not implemented")

// ProblemKind classifies a deletion the engine cannot perform generically.
type ProblemKind int

const (
	ProblemNone ProblemKind = iota
	// ProblemComplexRange is a range spanning incompatible properties.
	ProblemComplexRange
	// ProblemBsAtStartPara is a backspace at the start of a paragraph that
	// cannot be merged with its predecessor.
	ProblemBsAtStartPara
	// ProblemDelAtEndPara is a forward delete at the end of a paragraph
	// that cannot be merged with its successor.
	ProblemDelAtEndPara
	// ProblemBsReadOnly is a backspace into read-only text.
	ProblemBsReadOnly
	// ProblemDelReadOnly is a forward delete into read-only text.
	ProblemDelReadOnly
	// ProblemReadOnly is a range that includes read-only text.
	ProblemReadOnly
)

var problemNames = []string{"None", "ComplexRange", "BsAtStartPara", "DelAtEndPara", "BsReadOnly", "DelReadOnly", "ReadOnly"}

func (k ProblemKind) String() string {
	if k < 0 || int(k) >= len(problemNames) {
		return "ProblemKind(?)"
	}
	return problemNames[k]
}

// ProblemResponse is the host's decision about a problem deletion.
type ProblemResponse int

const (
	// Fail gives up that one deletion; the rest of the batch continues.
	Fail ProblemResponse = iota
	// Done means the host performed the deletion itself.
	Done
	// Abort abandons the whole operation.
	Abort
)

// InsertResponse is the host's decision about pasting paragraphs whose
// properties differ from the destination.
type InsertResponse int

const (
	// InsertDefault proceeds with default paragraph creation.
	InsertDefault InsertResponse = iota
	// InsertDone means the host inserted the paragraphs itself.
	InsertDone
	// InsertFail fails the paste, rolling back any prior deletion.
	InsertFail
)

// ChangeKind is the granularity hint of a selection change.
type ChangeKind int

const (
	NoVisibleChange ChangeKind = iota
	SamePara
	DiffPara
	Deleted
)

// Selection is the view of a selection given to callbacks. Hosts that need
// more type-assert to the concrete selection type.
type Selection interface {
	IsValid() bool
	IsRange() bool
}

// Graphics is the measurement context used by navigation that consults
// rendered geometry.
type Graphics interface {
	DpiX() int
	DpiY() int
}

// Site is implemented by the host of a root box.
type Site interface {
	OnProblemDeletion(sel Selection, kind ProblemKind) (ProblemResponse, error)
	// OnInsertDiffParas is called when pasted text contains paragraph
	// breaks whose paragraph properties differ from the destination.
	OnInsertDiffParas(sel Selection, dest rich.ParaProps, paras []rich.String, props []rich.ParaProps) (InsertResponse, error)
	// MakeObjFromText re-resolves an object link pasted from elsewhere.
	// ok is false when the link cannot be resolved in this document.
	MakeObjFromText(d rich.ObjData, sel Selection) (nd rich.ObjData, ok bool, err error)
	// TextRepOfObj returns the text an owned object is rendered as.
	TextRepOfObj(d rich.ObjData) (string, error)
	SelectionChanged(sel Selection, kind ChangeKind)
	Graphics() (Graphics, error)
	ReleaseGraphics(g Graphics)
	// NextStyle returns the paragraph style that follows style.
	NextStyle(style string) string
}

// ScreenGraphics is a Graphics at a fixed resolution.
type ScreenGraphics struct {
	Dpi int
}

func (g ScreenGraphics) DpiX() int { return g.Dpi }
func (g ScreenGraphics) DpiY() int { return g.Dpi }

// NilSite is a Site that implements nothing. Every callback reports
// ErrNotImplemented so the engine falls back to its defaults.
type NilSite struct{}

var _ Site = NilSite{}

func (NilSite) OnProblemDeletion(Selection, ProblemKind) (ProblemResponse, error) {
	return Fail, ErrNotImplemented
}

func (NilSite) OnInsertDiffParas(Selection, rich.ParaProps, []rich.String, []rich.ParaProps) (InsertResponse, error) {
	return InsertDefault, ErrNotImplemented
}

func (NilSite) MakeObjFromText(rich.ObjData, Selection) (rich.ObjData, bool, error) {
	return rich.ObjData{}, false, ErrNotImplemented
}

func (NilSite) TextRepOfObj(rich.ObjData) (string, error) {
	return "", ErrNotImplemented
}

func (NilSite) SelectionChanged(Selection, ChangeKind) {}

func (NilSite) Graphics() (Graphics, error) {
	return ScreenGraphics{Dpi: 96}, nil
}

func (NilSite) ReleaseGraphics(Graphics) {}

func (NilSite) NextStyle(style string) string {
	return style
}

// Funcs adapts functions to the Site interface. A nil field behaves like
// NilSite.
type Funcs struct {
	ProblemDeletion  func(sel Selection, kind ProblemKind) (ProblemResponse, error)
	InsertDiffParas  func(sel Selection, dest rich.ParaProps, paras []rich.String, props []rich.ParaProps) (InsertResponse, error)
	ObjFromText      func(d rich.ObjData, sel Selection) (rich.ObjData, bool, error)
	TextRep          func(d rich.ObjData) (string, error)
	Changed          func(sel Selection, kind ChangeKind)
	NextStyleFunc    func(style string) string
	GraphicsInstance Graphics
}

var _ Site = (*Funcs)(nil)

func (f *Funcs) OnProblemDeletion(sel Selection, kind ProblemKind) (ProblemResponse, error) {
	if f.ProblemDeletion == nil {
		return NilSite{}.OnProblemDeletion(sel, kind)
	}
	return f.ProblemDeletion(sel, kind)
}

func (f *Funcs) OnInsertDiffParas(sel Selection, dest rich.ParaProps, paras []rich.String, props []rich.ParaProps) (InsertResponse, error) {
	if f.InsertDiffParas == nil {
		return NilSite{}.OnInsertDiffParas(sel, dest, paras, props)
	}
	return f.InsertDiffParas(sel, dest, paras, props)
}

func (f *Funcs) MakeObjFromText(d rich.ObjData, sel Selection) (rich.ObjData, bool, error) {
	if f.ObjFromText == nil {
		return NilSite{}.MakeObjFromText(d, sel)
	}
	return f.ObjFromText(d, sel)
}

func (f *Funcs) TextRepOfObj(d rich.ObjData) (string, error) {
	if f.TextRep == nil {
		return NilSite{}.TextRepOfObj(d)
	}
	return f.TextRep(d)
}

func (f *Funcs) SelectionChanged(sel Selection, kind ChangeKind) {
	if f.Changed != nil {
		f.Changed(sel, kind)
	}
}

func (f *Funcs) Graphics() (Graphics, error) {
	if f.GraphicsInstance == nil {
		return NilSite{}.Graphics()
	}
	return f.GraphicsInstance, nil
}

func (f *Funcs) ReleaseGraphics(Graphics) {}

func (f *Funcs) NextStyle(style string) string {
	if f.NextStyleFunc == nil {
		return style
	}
	return f.NextStyleFunc(style)
}
