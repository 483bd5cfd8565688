package selection

import (
	"fmt"
	"image"

	"github.com/rjkroege/richedit/boxes"
	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/rootsite"
)

// commitState guards Commit against re-entry from callbacks made while
// the selection is in the middle of an operation.
type commitState int

const (
	csNormal commitState = iota
	// csWorking: a protected operation is running; commits are deferred.
	csWorking
	// csCommitRequest: a commit was asked for while working.
	csCommitRequest
	csInCommit
)

// pos is a position in a paragraph.
type pos struct {
	para  *boxes.Para
	ich   int
	assoc bool
}

// TextSelection is an insertion point or a range of text. The anchor is
// where the selection started and the end is where it was extended to;
// the end may come before the anchor.
type TextSelection struct {
	selBase

	anchor *boxes.Para
	// end is the paragraph of the end point when it differs from anchor.
	end             *boxes.Para
	ichAnchor       int
	ichEnd          int
	assocPrev       bool
	endBeforeAnchor bool
	// ichAnchor2 is the far edge of a word selection, so that extending
	// it back over the anchor keeps the word selected. -1 when unset.
	ichAnchor2 int
	// xdIP is the column up and down motion aims for. -1 when unset.
	xdIP    int
	pending *rich.Props
	bounds  *image.Rectangle

	edit   *editSession
	state  commitState
	queued []typed
}

// NewTextSelection returns a selection from ichAnchor in para to ichEnd
// in endPara, or in para when endPara is nil. The selection is not
// installed in root; see Install.
func NewTextSelection(root *boxes.Root, para *boxes.Para, ichAnchor, ichEnd int, assocPrev bool, endPara *boxes.Para, opts ...Option) (*TextSelection, error) {
	return newText(root, para, ichAnchor, ichEnd, assocPrev, endPara, newConfig(opts))
}

// NewInsertionPoint returns an insertion point at ich in para.
func NewInsertionPoint(root *boxes.Root, para *boxes.Para, ich int, assocPrev bool, opts ...Option) (*TextSelection, error) {
	return newText(root, para, ich, ich, assocPrev, nil, newConfig(opts))
}

func newText(root *boxes.Root, para *boxes.Para, ichAnchor, ichEnd int, assocPrev bool, endPara *boxes.Para, cfg *config) (*TextSelection, error) {
	if root == nil || para == nil {
		return nil, fmt.Errorf("nil root or paragraph: %w", ErrBadArgument)
	}
	if endPara == para {
		endPara = nil
	}
	ep := para
	if endPara != nil {
		ep = endPara
	}
	if ichAnchor < 0 || ichAnchor > para.Len() || ichEnd < 0 || ichEnd > ep.Len() {
		return nil, fmt.Errorf("offsets %d, %d out of range: %w", ichAnchor, ichEnd, ErrBadArgument)
	}
	s := &TextSelection{
		selBase:    selBase{root: root, cfg: cfg},
		anchor:     para,
		end:        endPara,
		ichAnchor:  ichAnchor,
		ichEnd:     ichEnd,
		assocPrev:  assocPrev,
		ichAnchor2: -1,
		xdIP:       -1,
	}
	s.fixEndBeforeAnchor()
	return s, nil
}

// derive returns a new selection sharing s's root and configuration.
func (s *TextSelection) derive(para *boxes.Para, ichAnchor, ichEnd int, assocPrev bool, endPara *boxes.Para) *TextSelection {
	n, err := newText(s.root, para, ichAnchor, ichEnd, assocPrev, endPara, s.cfg)
	if err != nil {
		return nil
	}
	return n
}

// Install makes s the root's selection.
func (s *TextSelection) Install() error {
	if s.root == nil {
		return ErrInvalidSelection
	}
	s.root.SetSelection(s)
	return nil
}

func (s *TextSelection) fixEndBeforeAnchor() {
	if s.end == nil {
		s.endBeforeAnchor = s.ichEnd < s.ichAnchor
		return
	}
	s.endBeforeAnchor = boxes.Compare(s.end, s.anchor) < 0
}

func (s *TextSelection) Kind() Kind { return KindText }

// AnchorPara returns the paragraph of the anchor.
func (s *TextSelection) AnchorPara() *boxes.Para { return s.anchor }

// EndPara returns the paragraph of the end point.
func (s *TextSelection) EndPara() *boxes.Para {
	if s.end != nil {
		return s.end
	}
	return s.anchor
}

// AnchorOffset returns the logical offset of the anchor in AnchorPara.
func (s *TextSelection) AnchorOffset() int { return s.ichAnchor }

// EndOffset returns the logical offset of the end point in EndPara.
func (s *TextSelection) EndOffset() int { return s.ichEnd }

// AssocPrev reports whether an insertion point belongs with the
// character before it.
func (s *TextSelection) AssocPrev() bool { return s.assocPrev }

// EndBeforeAnchor reports whether the end point precedes the anchor.
func (s *TextSelection) EndBeforeAnchor() bool { return s.endBeforeAnchor }

// IsRange reports whether the selection covers any text.
func (s *TextSelection) IsRange() bool {
	return s.end != nil || s.ichAnchor != s.ichEnd
}

// IsInsertionPoint reports whether the selection is a caret.
func (s *TextSelection) IsInsertionPoint() bool { return !s.IsRange() }

// IsValid reports whether the selection still refers to live boxes of
// a root.
func (s *TextSelection) IsValid() bool {
	if s.root == nil || s.anchor == nil || s.anchor.IsDead() {
		return false
	}
	return s.end == nil || !s.end.IsDead()
}

// IsEnabled reports whether the root shows this selection.
func (s *TextSelection) IsEnabled() bool { return s.isEnabled(s.IsRange()) }

// alive reports whether s is still the root's selection.
func (s *TextSelection) alive() bool {
	return s.root != nil && s.root.Selection() == boxes.Selection(s)
}

// Detach implements boxes.Selection.
func (s *TextSelection) Detach() {
	s.root = nil
	s.edit = nil
	s.showing = false
	s.bounds = nil
}

// destroy removes s from its root, or detaches it when it was never
// installed.
func (s *TextSelection) destroy() {
	if s.root == nil {
		return
	}
	if s.alive() {
		s.root.DestroySelection()
		return
	}
	s.Detach()
}

func (s *TextSelection) anchorPos() pos { return pos{s.anchor, s.ichAnchor, s.assocPrev} }
func (s *TextSelection) endPos() pos    { return pos{s.EndPara(), s.ichEnd, s.assocPrev} }

func (s *TextSelection) minPos() pos {
	if s.endBeforeAnchor {
		return s.endPos()
	}
	return s.anchorPos()
}

func (s *TextSelection) maxPos() pos {
	if s.endBeforeAnchor {
		return s.anchorPos()
	}
	return s.endPos()
}

// setIP collapses the selection to p.
func (s *TextSelection) setIP(p pos) {
	s.anchor, s.end = p.para, nil
	s.ichAnchor, s.ichEnd = p.ich, p.ich
	s.assocPrev = p.assoc
	s.endBeforeAnchor = false
	s.ichAnchor2 = -1
	s.pending = nil
}

// setEnd moves only the end point to p.
func (s *TextSelection) setEnd(p pos) {
	if p.para == s.anchor {
		s.end = nil
	} else {
		s.end = p.para
	}
	s.ichEnd = p.ich
	s.assocPrev = p.assoc
	s.pending = nil
	s.fixEndBeforeAnchor()
}

// changed redraws and tells the root the selection moved.
func (s *TextSelection) changed(kind rootsite.ChangeKind) {
	if s.root == nil {
		return
	}
	if s.showing && s.bounds != nil {
		s.root.Invalidate(*s.bounds)
	}
	s.bounds = nil
	if s.showing {
		if r, err := s.Bounds(); err == nil {
			s.root.Invalidate(r)
		}
	}
	s.root.NotifySelectionChanged(s, kind)
}

// Location implements boxes.Selection.
func (s *TextSelection) Location() (boxes.SelRequest, bool) {
	if !s.IsValid() {
		return boxes.SelRequest{}, false
	}
	if !s.IsRange() {
		e, ok := locate(s.anchorPos())
		if !ok {
			return boxes.SelRequest{}, false
		}
		return boxes.SelRequest{Anchor: e}, true
	}
	a := s.anchorPos()
	a.assoc = s.endBeforeAnchor
	e := s.endPos()
	e.assoc = !s.endBeforeAnchor
	ae, ok := locate(a)
	if !ok {
		return boxes.SelRequest{}, false
	}
	ee, ok := locate(e)
	if !ok {
		return boxes.SelRequest{}, false
	}
	return boxes.SelRequest{Anchor: ae, End: ee, Range: true}, true
}

func locate(p pos) (boxes.SelEnd, bool) {
	if e, ok := boxes.Locate(p.para, p.ich, p.assoc); ok {
		return e, true
	}
	return boxes.Locate(p.para, p.ich, !p.assoc)
}

// Bounds returns the rectangle covering the selection.
func (s *TextSelection) Bounds() (image.Rectangle, error) {
	if !s.IsValid() {
		return image.Rectangle{}, ErrInvalidSelection
	}
	if s.bounds != nil {
		return *s.bounds, nil
	}
	lo, hi := s.minPos(), s.maxPos()
	a, ok := lo.para.PositionOfIP(lo.ich, lo.assoc && !s.IsRange())
	if !ok {
		return image.Rectangle{}, fmt.Errorf("no caret at %d: %w", lo.ich, ErrBadArgument)
	}
	r := a
	if s.IsRange() {
		b, ok := hi.para.PositionOfIP(hi.ich, true)
		if !ok {
			return image.Rectangle{}, fmt.Errorf("no caret at %d: %w", hi.ich, ErrBadArgument)
		}
		r = r.Union(b)
		if a.Min.Y != b.Min.Y {
			// Spans lines: whole width of the paragraphs involved.
			r = r.Union(image.Rect(lo.para.Rect().Min.X, r.Min.Y, lo.para.Rect().Max.X, r.Max.Y))
			r = r.Union(image.Rect(hi.para.Rect().Min.X, r.Min.Y, hi.para.Rect().Max.X, r.Max.Y))
		}
	}
	s.bounds = &r
	return r, nil
}

// Show draws the selection.
func (s *TextSelection) Show() {
	if !s.showing {
		s.Invert()
	}
}

// Hide stops drawing the selection.
func (s *TextSelection) Hide() {
	if s.showing {
		s.Invert()
	}
}

// Invert toggles whether the selection is drawn.
func (s *TextSelection) Invert() {
	if s.root == nil {
		return
	}
	s.showing = !s.showing
	if r, err := s.Bounds(); err == nil {
		s.root.Invalidate(r)
	}
}

// EndPoint returns an insertion point at the end (or the anchor) of s.
// It is not installed.
func (s *TextSelection) EndPoint(end bool) *TextSelection {
	if !s.IsValid() {
		return nil
	}
	p := s.endAt(end)
	return s.derive(p.para, p.ich, p.ich, p.assoc, nil)
}
