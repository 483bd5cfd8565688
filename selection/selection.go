// Package selection implements selections in a root box: insertion
// points and ranges of text, and selected pictures. A text selection
// moves through the document, edits the property it sits in and keeps
// the data in step, handing structural changes (splitting and merging
// paragraphs) to the data layer and the root box.
package selection

import (
	"fmt"
	"image"

	"github.com/rjkroege/richedit/boxes"
	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/rootsite"
)

// Kind tells text and picture selections apart.
type Kind int

const (
	KindText Kind = iota
	KindPicture
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindPicture:
		return "Picture"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ShiftStatus is the set of modifier keys held during a key press.
type ShiftStatus int

const (
	Shift ShiftStatus = 1 << iota
	Control
	Alt
)

// Key is a navigation key handled by OnExtendedKey.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyTab
	KeyPageUp
	KeyPageDown
)

// Selection is the set of operations every selection supports. Kinds
// that cannot perform an operation return ErrNotImplemented.
type Selection interface {
	boxes.Selection
	Kind() Kind
	Root() *boxes.Root
	IsInsertionPoint() bool
	IsEnabled() bool
	Showing() bool
	Show()
	Hide()
	Invert()
	Bounds() (image.Rectangle, error)
	Commit() (bool, error)
	OnTyping(g rootsite.Graphics, input string, ss ShiftStatus, wsPending int) error
	OnExtendedKey(g rootsite.Graphics, key Key, ss ShiftStatus) (bool, error)
	GetSelectionString(sep string) (rich.String, error)
	GetSelectionProps() ([]rich.Props, error)
	SetSelectionProps(props []rich.Props) error
	ReplaceWithTsString(s rich.String) error
}

var (
	_ Selection = (*TextSelection)(nil)
	_ Selection = (*PictureSelection)(nil)
)

// selBase holds what every selection has and the defaults for
// operations a kind does not support.
type selBase struct {
	root    *boxes.Root
	cfg     *config
	showing bool
}

// Root returns the owning root box, or nil once detached.
func (b *selBase) Root() *boxes.Root { return b.root }

// Showing reports whether the selection is drawn.
func (b *selBase) Showing() bool { return b.showing }

// IsEnabled reports whether the root currently shows selections of this
// shape. Out of focus, only ranges are shown.
func (b *selBase) isEnabled(isRange bool) bool {
	if b.root == nil {
		return false
	}
	switch b.root.SelectionState() {
	case boxes.SelEnabled:
		return true
	case boxes.SelOutOfFocus:
		return isRange
	}
	return false
}

func (b *selBase) Commit() (bool, error) { return true, nil }

func (b *selBase) OnTyping(rootsite.Graphics, string, ShiftStatus, int) error {
	return ErrNotImplemented
}

func (b *selBase) OnExtendedKey(rootsite.Graphics, Key, ShiftStatus) (bool, error) {
	return false, ErrNotImplemented
}

func (b *selBase) GetSelectionString(string) (rich.String, error) {
	return rich.String{}, ErrNotImplemented
}

func (b *selBase) GetSelectionProps() ([]rich.Props, error) {
	return nil, ErrNotImplemented
}

func (b *selBase) SetSelectionProps([]rich.Props) error { return ErrNotImplemented }

func (b *selBase) ReplaceWithTsString(rich.String) error { return ErrNotImplemented }

// Register makes root recreate text selections from requests, which is
// how selections survive rebuilding the boxes.
func Register(root *boxes.Root, opts ...Option) {
	cfg := newConfig(opts)
	root.SetSelectionFactory(func(r *boxes.Root, req boxes.SelRequest) (boxes.Selection, error) {
		return fromRequest(r, req, cfg)
	})
}

func fromRequest(r *boxes.Root, req boxes.SelRequest, cfg *config) (*TextSelection, error) {
	pa, ia, ok := r.FindPosition(req.Anchor)
	if !ok {
		return nil, fmt.Errorf("anchor %v: %w", req.Anchor.Levels, boxes.ErrBadRequest)
	}
	if !req.Range {
		return newText(r, pa, ia, ia, req.Anchor.AssocPrev, nil, cfg)
	}
	pe, ie, ok := r.FindPosition(req.End)
	if !ok {
		return nil, fmt.Errorf("end %v: %w", req.End.Levels, boxes.ErrBadRequest)
	}
	var end *boxes.Para
	if pe != pa {
		end = pe
	}
	return newText(r, pa, ia, ie, req.End.AssocPrev, end, cfg)
}
