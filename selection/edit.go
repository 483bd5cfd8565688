package selection

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/rjkroege/richedit/boxes"
	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/sda"
)

// editSession is the uncommitted edit of one property. Offsets into b are
// paragraph offsets less ichMin.
type editSession struct {
	b      *rich.Builder
	ref    boxes.StrRef
	para   *boxes.Para
	item   int
	ichMin int
	ops    *paraOps
}

func (e *editSession) ichLim() int { return e.ichMin + e.b.Len() }

// paraOps is set when the edited property is the contents of a paragraph
// of a structured text, so that typing may split and merge paragraphs.
type paraOps struct {
	owner sda.Hvo
	tag   sda.Tag
	ihvo  int
	hvo   sda.Hvo
	prop  sda.Tag
	// levels locates the paragraph object from the root object.
	levels []boxes.Level
}

// levelsAt returns the levels of paragraph ihvo of the same sequence.
func (o *paraOps) levelsAt(ihvo int) []boxes.Level {
	out := append([]boxes.Level(nil), o.levels...)
	if len(out) > 0 {
		out[len(out)-1] = boxes.Level{Tag: o.tag, Ihvo: ihvo}
	}
	return out
}

// ipAt returns a request for an insertion point in paragraph ihvo.
func (o *paraOps) ipAt(ihvo, ich int, assocPrev bool) boxes.SelRequest {
	return boxes.IPRequest(o.levelsAt(ihvo), o.prop, 0, ich, assocPrev)
}

func (o *paraOps) sameSequence(p *paraOps) bool {
	return o.owner == p.owner && o.tag == p.tag && o.prop == p.prop
}

// paraOpsFor returns the paragraph operations for item of p, or nil when
// the item is not the whole tail of a paragraph of a structured text.
func paraOpsFor(p *boxes.Para, item int, ref boxes.StrRef) *paraOps {
	items := p.Source().Items()
	if item != len(items)-1 || ref.Kind != boxes.RefString || ref.VC != nil {
		return nil
	}
	n := ref.Notifier
	if n == nil || !n.IsParagraphOfText() || n.Hvo != ref.Hvo {
		return nil
	}
	return &paraOps{
		owner:  n.Parent.Hvo,
		tag:    n.ParentTag(),
		ihvo:   n.ObjIndex,
		hvo:    ref.Hvo,
		prop:   ref.Tag,
		levels: n.Levels(),
	}
}

// startEditing opens an edit session on the property covering the
// selection, reusing the current one when it still covers it.
func (s *TextSelection) startEditing() error {
	if s.end != nil {
		return fmt.Errorf("range spans paragraphs: %w", ErrCannotEdit)
	}
	lo, hi := s.minPos(), s.maxPos()
	if e := s.edit; e != nil {
		if e.para == s.anchor && !e.para.IsDead() && e.ichMin <= lo.ich && hi.ich <= e.ichLim() {
			return nil
		}
		if _, err := s.unprotectedCommit(); err != nil {
			return err
		}
	}
	res := boxes.EditableSubstringAt(s.anchor, lo.ich, hi.ich, s.assocPrev)
	if res.Status != boxes.Editable {
		return fmt.Errorf("%v at %d: %w", res.Status, lo.ich, ErrCannotEdit)
	}
	ctx := res.Ctx
	s.edit = &editSession{
		b:      ctx.Str.Builder(),
		ref:    ctx.Ref,
		para:   s.anchor,
		item:   ctx.StringIndex,
		ichMin: ctx.IchMin,
		ops:    paraOpsFor(s.anchor, ctx.StringIndex, ctx.Ref),
	}
	return nil
}

// showEdit displays the uncommitted text.
func (s *TextSelection) showEdit() {
	e := s.edit
	if e == nil || e.para.IsDead() {
		return
	}
	e.para.SetItemString(e.item, e.b.Value())
	s.bounds = nil
}

// Commit writes any uncommitted edit to the data. While another
// operation of the selection is running the commit is deferred until it
// finishes. A false result without an error means nothing was written
// because the selection is no longer usable.
func (s *TextSelection) Commit() (bool, error) {
	switch s.state {
	case csWorking, csCommitRequest:
		s.state = csCommitRequest
		return true, nil
	case csInCommit:
		return true, nil
	}
	return s.unprotectedCommit()
}

// unprotectedCommit commits without consulting the guard. Text that does
// not parse as an integer vetoes the commit and leaves the edit open; a
// failed write destroys the selection. Input typed during the commit is
// applied once the commit is done.
func (s *TextSelection) unprotectedCommit() (bool, error) {
	r := s.root
	ok, err := s.commitEdit()
	if s.state != csNormal || len(s.queued) == 0 {
		return ok, err
	}
	queued := s.queued
	s.queued = nil
	if err != nil || r == nil {
		log.Printf("commit: dropping %d queued batches", len(queued))
		return ok, err
	}
	return ok, forward(r, queued)
}

func (s *TextSelection) commitEdit() (bool, error) {
	e := s.edit
	if e == nil {
		return true, nil
	}
	if s.root == nil || e.para.IsDead() {
		s.edit = nil
		return false, nil
	}
	saved := s.state
	s.state = csInCommit
	defer func() {
		if s.state == csInCommit {
			s.state = saved
		}
	}()

	val := e.b.Value()
	if !s.root.IsComposing() && !rich.IsNormalized(val) {
		a, en := s.ichAnchor-e.ichMin, s.ichEnd-e.ichMin
		inA := s.ichAnchor >= e.ichMin && s.ichAnchor <= e.ichLim()
		inE := s.end == nil && s.ichEnd >= e.ichMin && s.ichEnd <= e.ichLim()
		val = rich.Normalize(val, &a, &en)
		if inA {
			s.ichAnchor = e.ichMin + a
		}
		if inE {
			s.ichEnd = e.ichMin + en
		}
		e.b = val.Builder()
		s.showEdit()
	}

	da := s.root.DataAccess()
	ref := e.ref
	if u, ok := ref.VC.(boxes.PropUpdater); ok {
		canon, err := u.UpdateProp(ref.Hvo, ref.Tag, ref.Frag, val)
		if err != nil {
			return false, s.commitFailed(err)
		}
		if !canon.Equal(val) {
			e.para.SetItemString(e.item, canon)
			lim := e.ichMin + canon.Len()
			s.ichAnchor = min(s.ichAnchor, lim)
			if s.end == nil {
				s.ichEnd = min(s.ichEnd, lim)
			}
			s.fixEndBeforeAnchor()
			s.bounds = nil
		}
		s.edit = nil
		return true, nil
	}

	var err error
	switch ref.Kind {
	case boxes.RefString:
		if !da.StringProp(ref.Hvo, ref.Tag).Equal(val) {
			err = s.write(func() error { return da.SetString(ref.Hvo, ref.Tag, val) })
		}
	case boxes.RefUnicode:
		if da.UnicodeProp(ref.Hvo, ref.Tag) != val.Text() {
			err = s.write(func() error { return da.SetUnicode(ref.Hvo, ref.Tag, val.Text()) })
		}
	case boxes.RefInt:
		n, perr := parseInt(val.Text())
		if perr != nil {
			return false, perr
		}
		if da.IntProp(ref.Hvo, ref.Tag) != n {
			err = s.write(func() error { return da.SetInt(ref.Hvo, ref.Tag, n) })
		}
	case boxes.RefMultiString:
		if !da.MultiStringAlt(ref.Hvo, ref.Tag, ref.Ws).Equal(val) {
			err = s.write(func() error { return da.SetMultiStringAlt(ref.Hvo, ref.Tag, ref.Ws, val) })
		}
	}
	if err != nil {
		return false, s.commitFailed(err)
	}
	s.edit = nil
	// The data may show the value differently (an integer loses its
	// leading zeros); keep the offsets inside the paragraph.
	if s.IsValid() {
		s.ichAnchor = min(s.ichAnchor, s.anchor.Len())
		s.ichEnd = min(s.ichEnd, s.EndPara().Len())
		s.fixEndBeforeAnchor()
	}
	return true, nil
}

// write runs one data change inside a task so that observers see it as
// a single unit.
func (s *TextSelection) write(f func() error) error {
	t := sda.Task(s.root.DataAccess(), "Typing")
	defer t.End()
	return f()
}

func (s *TextSelection) commitFailed(err error) error {
	s.edit = nil
	s.destroy()
	return fmt.Errorf("commit: %w", err)
}

func parseInt(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", text, ErrBadInteger)
	}
	return n, nil
}

// abandonEdit drops the uncommitted edit and shows the stored value.
func (s *TextSelection) abandonEdit() {
	e := s.edit
	if e == nil {
		return
	}
	s.edit = nil
	if s.root == nil || e.para.IsDead() {
		return
	}
	s.root.PropChanged(e.ref.Hvo, e.ref.Tag, 0, 0, 0)
}
