package selection

import (
	"errors"
	"fmt"

	"github.com/rjkroege/richedit/boxes"
	"github.com/rjkroege/richedit/rootsite"
	"github.com/rjkroege/richedit/sda"
)

// tailOps returns the paragraph operations for the property at p, which
// must be the editable contents of a structured text paragraph running to
// the end of the paragraph.
func tailOps(p pos, assocPrev bool) (*paraOps, boxes.EditContext, bool) {
	res := boxes.EditableSubstringAt(p.para, p.ich, p.ich, assocPrev)
	if res.Status != boxes.Editable {
		return nil, boxes.EditContext{}, false
	}
	ops := paraOpsFor(p.para, res.Ctx.StringIndex, res.Ctx.Ref)
	return ops, res.Ctx, ops != nil
}

// IsProblemSelection classifies what deleting the selection involves:
// ProblemNone when it can be deleted directly, ProblemReadOnly when it
// touches text that cannot be edited and ProblemComplexRange when it
// spans properties that cannot be joined.
func (s *TextSelection) IsProblemSelection() rootsite.ProblemKind {
	if !s.IsValid() || !s.IsRange() {
		return rootsite.ProblemNone
	}
	lo, hi := s.minPos(), s.maxPos()
	if lo.para == hi.para {
		res := boxes.EditableSubstringAt(lo.para, lo.ich, hi.ich, false)
		switch res.Status {
		case boxes.Editable:
			return rootsite.ProblemNone
		case boxes.ReadOnly:
			return rootsite.ProblemReadOnly
		}
		if IsEditable(lo.para, lo.ich, false) && IsEditable(hi.para, hi.ich, true) {
			return rootsite.ProblemComplexRange
		}
		return rootsite.ProblemReadOnly
	}
	if !IsEditable(lo.para, lo.ich, false) || !IsEditable(hi.para, hi.ich, true) {
		return rootsite.ProblemReadOnly
	}
	first, _, ok := tailOps(lo, false)
	if !ok {
		return rootsite.ProblemComplexRange
	}
	last, _, ok := tailOps(hi, true)
	if !ok || !first.sameSequence(last) {
		return rootsite.ProblemComplexRange
	}
	return rootsite.ProblemNone
}

// DeleteRangeAndPrepareToInsert deletes the selected text, leaving an
// insertion point where it was. Deleting across paragraphs replaces the
// selection; the result is the selection to use afterwards. When the
// range cannot be deleted and the host does not resolve it, nothing is
// changed and the error wraps ErrCannotEdit.
func (s *TextSelection) DeleteRangeAndPrepareToInsert() (*TextSelection, error) {
	if !s.IsValid() {
		return nil, ErrInvalidSelection
	}
	r := s.root
	t := sda.Task(r.DataAccess(), "Delete")
	defer t.End()
	err := s.deleteRange(false)
	switch {
	case errors.Is(err, errAborted):
		err = nil
	case errors.Is(err, errGiveUp):
		err = fmt.Errorf("%v range: %w", s.IsProblemSelection(), ErrCannotEdit)
	}
	if s.alive() {
		s.changed(rootsite.SamePara)
		return s, err
	}
	next, _ := r.Selection().(*TextSelection)
	return next, err
}

// deleteRange deletes the range. For typing, a range the host will not
// delete is shrunk to the anchor's property and tried once more.
func (s *TextSelection) deleteRange(forTyping bool) error {
	for retried := false; ; retried = true {
		if !s.IsRange() {
			return nil
		}
		kind := s.IsProblemSelection()
		if kind == rootsite.ProblemNone {
			if s.end == nil {
				return s.deleteInPara()
			}
			return s.deleteParas()
		}
		err := s.problem(kind)
		if err == nil || !errors.Is(err, errGiveUp) || !s.alive() {
			return err
		}
		if !forTyping || retried || kind != rootsite.ProblemComplexRange || !s.ShrinkSelection() {
			return err
		}
	}
}

// deleteInPara deletes a range inside one property.
func (s *TextSelection) deleteInPara() error {
	if err := s.startEditing(); err != nil {
		return err
	}
	e := s.edit
	lo, hi := s.minPos(), s.maxPos()
	a, b := lo.ich-e.ichMin, hi.ich-e.ichMin
	e.b.ReplaceRunes(a, b, "", e.b.PropsAt(a))
	s.setIP(pos{e.para, lo.ich, a > 0})
	s.showEdit()
	return nil
}

// deleteParas deletes a range over several paragraphs of one structured
// text, joining what is left of the first and last.
func (s *TextSelection) deleteParas() error {
	lo, hi := s.minPos(), s.maxPos()
	first, fctx, ok := tailOps(lo, false)
	if !ok {
		return ErrCannotEdit
	}
	last, lctx, ok := tailOps(hi, true)
	if !ok {
		return ErrCannotEdit
	}
	if _, err := s.unprotectedCommit(); err != nil {
		return err
	}
	da := s.root.DataAccess()
	offLo, offHi := lo.ich-fctx.IchMin, hi.ich-lctx.IchMin
	lastStr := da.StringProp(last.hvo, last.prop)

	var req boxes.SelRequest
	if offLo > 0 {
		// Keep the first paragraph, taking on the tail of the last.
		head := da.StringProp(first.hvo, first.prop).Substring(0, offLo)
		if err := da.SetString(first.hvo, first.prop, head); err != nil {
			return err
		}
		if offHi < lastStr.Len() {
			if err := da.MoveString(last.hvo, last.prop, offHi, lastStr.Len(), first.hvo, first.prop, offLo); err != nil {
				return err
			}
		}
		if err := deleteParaRange(da, first, first.ihvo+1, last.ihvo); err != nil {
			return err
		}
		req = first.ipAt(first.ihvo, offLo, true)
	} else {
		// The whole first paragraph went: keep the last one, properties
		// and all.
		tail := lastStr.Substring(offHi, lastStr.Len())
		if err := da.SetString(last.hvo, last.prop, tail); err != nil {
			return err
		}
		if err := deleteParaRange(da, first, first.ihvo, last.ihvo-1); err != nil {
			return err
		}
		req = first.ipAt(first.ihvo, 0, false)
	}
	s.restructure(req)
	return nil
}

// deleteParaRange deletes paragraphs lo through hi of the sequence.
func deleteParaRange(da sda.DataAccess, ops *paraOps, lo, hi int) error {
	for i := hi; i >= lo; i-- {
		h, err := da.VecItem(ops.owner, ops.tag, i)
		if err != nil {
			return err
		}
		if err := da.DeleteObjOwner(ops.owner, h, ops.tag, i); err != nil {
			return err
		}
	}
	return nil
}

// ShrinkSelection reduces the range to the part inside the anchor's
// property. It reports whether the selection changed.
func (s *TextSelection) ShrinkSelection() bool {
	if !s.IsValid() || !s.IsRange() {
		return false
	}
	res := boxes.EditableSubstringAt(s.anchor, s.ichAnchor, s.ichAnchor, s.endBeforeAnchor)
	if res.Status != boxes.Editable {
		return false
	}
	end := res.Ctx.IchLim
	if s.endBeforeAnchor {
		end = res.Ctx.IchMin
		if s.end == nil {
			end = max(end, s.ichEnd)
		}
	} else if s.end == nil {
		end = min(end, s.ichEnd)
	}
	if s.end == nil && end == s.ichEnd {
		return false
	}
	if _, err := s.Commit(); err != nil {
		return false
	}
	s.end = nil
	s.ichEnd = end
	s.assocPrev = !s.endBeforeAnchor
	s.fixEndBeforeAnchor()
	s.changed(rootsite.SamePara)
	return true
}
