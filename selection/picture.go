package selection

import (
	"fmt"
	"image"

	"github.com/rjkroege/richedit/boxes"
	"github.com/rjkroege/richedit/rich"
)

// PictureSelection selects a picture box. Its offsets run over the one
// picture: 0 is before it and 1 after it.
type PictureSelection struct {
	selBase

	pic             *boxes.Picture
	ichAnchor       int
	ichEnd          int
	assocPrev       bool
	endBeforeAnchor bool
}

// NewPictureSelection returns a selection of the whole of pic. It is not
// installed; see Install.
func NewPictureSelection(root *boxes.Root, pic *boxes.Picture, opts ...Option) (*PictureSelection, error) {
	if root == nil || pic == nil {
		return nil, fmt.Errorf("nil root or picture: %w", ErrBadArgument)
	}
	return &PictureSelection{
		selBase: selBase{root: root, cfg: newConfig(opts)},
		pic:     pic,
		ichEnd:  1,
	}, nil
}

func (s *PictureSelection) Kind() Kind { return KindPicture }

// Picture returns the selected picture.
func (s *PictureSelection) Picture() *boxes.Picture { return s.pic }

// Install makes s the root's selection.
func (s *PictureSelection) Install() error {
	if s.root == nil {
		return ErrInvalidSelection
	}
	s.root.SetSelection(s)
	return nil
}

// IsValid reports whether the picture is still displayed by the root.
func (s *PictureSelection) IsValid() bool {
	return s.root != nil && boxes.RootOf(s.pic) == s.root
}

func (s *PictureSelection) IsRange() bool          { return s.ichAnchor != s.ichEnd }
func (s *PictureSelection) IsInsertionPoint() bool { return !s.IsRange() }
func (s *PictureSelection) IsEnabled() bool        { return s.isEnabled(true) }
func (s *PictureSelection) AssocPrev() bool        { return s.assocPrev }
func (s *PictureSelection) EndBeforeAnchor() bool  { return s.endBeforeAnchor }

// Location implements boxes.Selection. Picture selections do not outlive
// the boxes they select.
func (s *PictureSelection) Location() (boxes.SelRequest, bool) {
	return boxes.SelRequest{}, false
}

// Detach implements boxes.Selection.
func (s *PictureSelection) Detach() {
	s.root = nil
	s.showing = false
}

// Bounds returns the picture's rectangle.
func (s *PictureSelection) Bounds() (image.Rectangle, error) {
	if !s.IsValid() {
		return image.Rectangle{}, ErrInvalidSelection
	}
	return s.pic.Rect(), nil
}

func (s *PictureSelection) Show() {
	if !s.showing {
		s.Invert()
	}
}

func (s *PictureSelection) Hide() {
	if s.showing {
		s.Invert()
	}
}

func (s *PictureSelection) Invert() {
	if !s.IsValid() {
		return
	}
	s.showing = !s.showing
	s.root.Invalidate(s.pic.Rect())
}

// GetSelectionString returns the picture as an object character.
func (s *PictureSelection) GetSelectionString(string) (rich.String, error) {
	if !s.IsValid() {
		return rich.String{}, ErrInvalidSelection
	}
	return rich.Object(s.pic.Obj, rich.Props{}), nil
}
