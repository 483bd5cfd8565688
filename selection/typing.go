package selection

import (
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/rjkroege/richedit/boxes"
	"github.com/rjkroege/richedit/internal/runes"
	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/rootsite"
	"github.com/rjkroege/richedit/sda"
)

// typed is a batch of input held back while the selection is busy.
type typed struct {
	input string
	ss    ShiftStatus
	ws    int
	g     rootsite.Graphics
}

var (
	// errAborted: the host abandoned the operation.
	errAborted = errors.New("selection: aborted")
	// errGiveUp: the host declined a deletion; the rest of the batch goes on.
	errGiveUp = errors.New("selection: deletion given up")
)

const lineSeparator = '\u2028'

// OnTyping applies a batch of keyboard input: a run of backspaces ('\b')
// or deletes (0x7f) followed by literal text. With Control held the
// deletes remove words. wsPending, when not zero, is the writing system
// of the inserted text.
//
// Input arriving while the selection is busy, from a host callback, is
// queued and applied when the current batch or commit finishes. Typing that
// restructures paragraphs replaces the selection; the remaining input
// goes to its replacement.
func (s *TextSelection) OnTyping(g rootsite.Graphics, input string, ss ShiftStatus, wsPending int) error {
	if !s.IsValid() {
		return ErrInvalidSelection
	}
	if s.state != csNormal {
		s.queued = append(s.queued, typed{input, ss, wsPending, g})
		return nil
	}
	r := s.root
	s.state = csWorking
	t := sda.Task(r.DataAccess(), "Typing")
	defer t.End()

	rest, err := s.typeBatch(g, typed{input, ss, wsPending, g})
	for err == nil && s.alive() && len(s.queued) > 0 {
		q := s.queued[0]
		s.queued = s.queued[1:]
		rest, err = s.typeBatch(g, q)
	}
	queued := s.queued
	s.queued = nil
	deferred := s.state == csCommitRequest
	s.state = csNormal

	if errors.Is(err, errAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	if s.alive() {
		s.changed(rootsite.SamePara)
		if deferred {
			_, err := s.unprotectedCommit()
			return err
		}
		return nil
	}
	return forward(r, append([]typed{rest}, queued...))
}

// forward hands input to whatever selection the root now has.
func forward(r *boxes.Root, batches []typed) error {
	for _, b := range batches {
		if b.input == "" {
			continue
		}
		cur, ok := r.Selection().(*TextSelection)
		if !ok {
			log.Printf("typing: no selection to take %q", b.input)
			return nil
		}
		if err := cur.OnTyping(b.g, b.input, b.ss, b.ws); err != nil {
			return err
		}
	}
	return nil
}

// splitInput separates the leading deletes of input from its literal
// text. Control characters other than paragraph breaks are dropped.
func splitInput(input string) (nbs, ndel int, lit string) {
	in := []rune(input)
	for nbs < len(in) && in[nbs] == '\b' {
		nbs++
	}
	if nbs == 0 {
		for ndel < len(in) && in[ndel] == 0x7f {
			ndel++
		}
	}
	var sb strings.Builder
	for _, r := range in[nbs+ndel:] {
		if runes.IsControl(r) && !runes.IsParaBreak(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return nbs, ndel, sb.String()
}

func joinInput(nbs, ndel int, lit string) string {
	return strings.Repeat("\b", nbs) + strings.Repeat("\x7f", ndel) + lit
}

// typeBatch applies one batch. When the selection is replaced part way
// through it returns the input that is left.
func (s *TextSelection) typeBatch(g rootsite.Graphics, b typed) (typed, error) {
	nbs, ndel, lit := splitInput(b.input)
	if !s.root.IsComposing() {
		lit = rich.NormalizeText(lit)
	}
	word := b.ss&Control != 0
	left := func() typed { return typed{joinInput(nbs, ndel, lit), b.ss, b.ws, b.g} }

	if s.IsRange() {
		err := s.deleteRange(true)
		if errors.Is(err, errGiveUp) {
			return typed{}, nil
		}
		if err != nil {
			return typed{}, err
		}
		if nbs > 0 {
			nbs--
		} else if ndel > 0 {
			ndel--
		}
		if !s.alive() {
			return left(), nil
		}
	}
	for nbs > 0 {
		err := s.backspace(word)
		nbs--
		if errors.Is(err, errGiveUp) {
			nbs = 0
			break
		}
		if err != nil {
			return typed{}, err
		}
		if !s.alive() {
			return left(), nil
		}
	}
	for ndel > 0 {
		err := s.deleteForward(word)
		ndel--
		if errors.Is(err, errGiveUp) {
			ndel = 0
			break
		}
		if err != nil {
			return typed{}, err
		}
		if !s.alive() {
			return left(), nil
		}
	}
	rest, err := s.insertLiteral(lit, b.ws)
	return typed{rest, b.ss, b.ws, b.g}, err
}

// insertionProps returns the properties typed text takes: the pending
// properties if any, otherwise those of the adjacent character, never
// with object data.
func (s *TextSelection) insertionProps(ws int) rich.Props {
	e := s.edit
	off := s.ichEnd - e.ichMin
	var p rich.Props
	switch {
	case s.pending != nil:
		p = *s.pending
	case off > 0 && (s.assocPrev || off >= e.b.Len()):
		p = e.b.PropsAt(off - 1)
	case off < e.b.Len():
		p = e.b.PropsAt(off)
	default:
		p = e.b.PropsAt(0)
	}
	p = p.WithoutObj()
	p.Para = rich.ParaProps{}
	switch {
	case ws != 0:
		p = p.WithWs(ws)
	case p.Ws == 0:
		p = p.WithWs(e.ref.Ws)
	}
	return p
}

func isIntText(text string) bool {
	for _, r := range text {
		if (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}

// insertText inserts text at the insertion point of the open session.
func (s *TextSelection) insertText(text string, p rich.Props) {
	if text == "" {
		return
	}
	e := s.edit
	off := s.ichEnd - e.ichMin
	e.b.ReplaceRunes(off, off, text, p)
	s.setIP(pos{e.para, s.ichEnd + utf8.RuneCountInString(text), true})
	s.showEdit()
}

// insertLiteral types lit at the insertion point. A paragraph break
// splits the paragraph, which replaces the selection; the text after the
// break is returned for the replacement.
func (s *TextSelection) insertLiteral(lit string, ws int) (string, error) {
	for lit != "" {
		if err := s.startEditing(); err != nil {
			return "", err
		}
		e := s.edit
		text := []rune(lit)
		i := runes.IndexAny(text, 0, '\r', '\n')
		head := text
		if i >= 0 {
			head = text[:i]
		}
		if e.ref.Kind == boxes.RefInt && !isIntText(string(head)) {
			return "", nil
		}
		s.insertText(string(head), s.insertionProps(ws))
		if i < 0 {
			return "", nil
		}
		lit = string(text[i+runes.BreakLen(text, i):])
		switch {
		case e.ops != nil:
			if err := s.splitParagraph(); err != nil {
				return "", err
			}
			return lit, nil
		case e.ref.Kind != boxes.RefInt:
			s.insertText(string(lineSeparator), s.insertionProps(ws))
		}
	}
	return "", nil
}

// restructure replaces s, whose boxes are about to be rebuilt, with a
// selection made from req once the boxes reflect the data.
func (s *TextSelection) restructure(req boxes.SelRequest) *TextSelection {
	r := s.root
	s.edit = nil
	r.RequestSelectionAtEndOfUow(req)
	s.destroy()
	r.Flush()
	next, _ := r.Selection().(*TextSelection)
	return next
}

// splitParagraph breaks the paragraph at the insertion point. The text
// after it moves to a new paragraph, whose style is the next style
// unless the break is at the very start.
func (s *TextSelection) splitParagraph() error {
	e := s.edit
	ops := e.ops
	tailProps := s.insertionProps(0)
	if _, err := s.unprotectedCommit(); err != nil {
		return err
	}
	// Commit normalizes, which may move the insertion point.
	off := s.ichEnd - e.ichMin
	da := s.root.DataAccess()
	var next func(string) string
	if off > 0 {
		next = s.root.Site().NextStyle
	}
	if err := da.InsertNew(ops.owner, ops.tag, ops.ihvo, 1, next); err != nil {
		return err
	}
	nh, err := da.VecItem(ops.owner, ops.tag, ops.ihvo+1)
	if err != nil {
		return err
	}
	n := da.StringProp(ops.hvo, ops.prop).Len()
	if off < n {
		err = da.MoveString(ops.hvo, ops.prop, off, n, nh, ops.prop, 0)
	} else {
		err = da.SetString(nh, ops.prop, rich.Empty(tailProps))
	}
	if err != nil {
		return err
	}
	s.restructure(ops.ipAt(ops.ihvo+1, 0, false))
	return nil
}

// problem asks the host what to do about a deletion the selection
// cannot make. It returns nil when the host made it, errGiveUp when the
// deletion should be skipped and errAborted when everything should stop.
func (s *TextSelection) problem(kind rootsite.ProblemKind) error {
	if _, err := s.unprotectedCommit(); err != nil {
		return err
	}
	r := s.root
	resp, err := r.Site().OnProblemDeletion(s, kind)
	if err != nil {
		if !errors.Is(err, rootsite.ErrNotImplemented) {
			log.Printf("OnProblemDeletion(%v): %v", kind, err)
		}
		resp = rootsite.Fail
	}
	switch resp {
	case rootsite.Abort:
		return errAborted
	case rootsite.Done:
		return nil
	}
	return errGiveUp
}

func (s *TextSelection) editWords() *wordText {
	e := s.edit
	return &wordText{text: []rune(e.b.Text()), props: e.b.PropsAt, chars: s.cfg.chars}
}

func anywhere(int) bool { return true }

// backspace deletes the grapheme (or word) before the insertion point,
// moving into the previous property or merging with the previous
// paragraph at the start of the current one.
func (s *TextSelection) backspace(word bool) error {
	for {
		if err := s.startEditing(); err != nil {
			if errors.Is(err, ErrCannotEdit) {
				return s.problem(rootsite.ProblemBsReadOnly)
			}
			return err
		}
		e := s.edit
		off := s.ichEnd - e.ichMin
		if off > 0 {
			n := rich.PrevGrapheme([]rune(e.b.Text()), off)
			if word {
				if w := s.editWords().prevStop(off, anywhere); w < off {
					n = w
				}
			}
			e.b.ReplaceRunes(n, off, "", e.b.PropsAt(n))
			s.setIP(pos{e.para, e.ichMin + n, n > 0})
			s.showEdit()
			return nil
		}
		prev := boxes.EditableSubstringAt(e.para, e.ichMin, e.ichMin, true)
		if prev.Status == boxes.Editable && prev.Ctx.StringIndex != e.item {
			if _, err := s.unprotectedCommit(); err != nil {
				return err
			}
			s.setIP(pos{e.para, e.ichMin, true})
			continue
		}
		switch {
		case e.ops != nil:
			return s.mergeWithPrevious()
		case e.ichMin == 0:
			return s.problem(rootsite.ProblemBsAtStartPara)
		}
		return s.problem(rootsite.ProblemBsReadOnly)
	}
}

// deleteForward is backspace toward the end of the text.
func (s *TextSelection) deleteForward(word bool) error {
	for {
		if err := s.startEditing(); err != nil {
			if errors.Is(err, ErrCannotEdit) {
				return s.problem(rootsite.ProblemDelReadOnly)
			}
			return err
		}
		e := s.edit
		off := s.ichEnd - e.ichMin
		if off < e.b.Len() {
			n := rich.NextGrapheme([]rune(e.b.Text()), off)
			if word {
				if w := s.editWords().nextStop(off, anywhere); w > off {
					n = w
				}
			}
			e.b.ReplaceRunes(off, n, "", e.b.PropsAt(off))
			s.bounds = nil
			s.showEdit()
			return nil
		}
		lim := e.ichLim()
		next := boxes.EditableSubstringAt(e.para, lim, lim, false)
		if next.Status == boxes.Editable && next.Ctx.StringIndex != e.item {
			if _, err := s.unprotectedCommit(); err != nil {
				return err
			}
			// The committed text may be longer once normalized.
			s.setIP(pos{e.para, s.ichEnd, false})
			continue
		}
		switch {
		case e.ops != nil:
			return s.mergeWithNext()
		case lim == e.para.Len():
			return s.problem(rootsite.ProblemDelAtEndPara)
		}
		return s.problem(rootsite.ProblemDelReadOnly)
	}
}

// mergeWithPrevious appends the paragraph to the one before it.
func (s *TextSelection) mergeWithPrevious() error {
	ops := s.edit.ops
	da := s.root.DataAccess()
	if ops.ihvo == 0 {
		return s.problem(rootsite.ProblemBsAtStartPara)
	}
	prev, err := da.VecItem(ops.owner, ops.tag, ops.ihvo-1)
	if err != nil || da.ObjClass(prev) != da.ObjClass(ops.hvo) {
		return s.problem(rootsite.ProblemBsAtStartPara)
	}
	if _, err := s.unprotectedCommit(); err != nil {
		return err
	}
	at := da.StringProp(prev, ops.prop).Len()
	if n := da.StringProp(ops.hvo, ops.prop).Len(); n > 0 {
		if err := da.MoveString(ops.hvo, ops.prop, 0, n, prev, ops.prop, at); err != nil {
			return err
		}
	}
	if err := da.DeleteObjOwner(ops.owner, ops.hvo, ops.tag, ops.ihvo); err != nil {
		return err
	}
	s.restructure(ops.ipAt(ops.ihvo-1, at, at > 0))
	return nil
}

// mergeWithNext appends the following paragraph to this one.
func (s *TextSelection) mergeWithNext() error {
	ops := s.edit.ops
	da := s.root.DataAccess()
	next, err := da.VecItem(ops.owner, ops.tag, ops.ihvo+1)
	if err != nil || da.ObjClass(next) != da.ObjClass(ops.hvo) {
		return s.problem(rootsite.ProblemDelAtEndPara)
	}
	if _, err := s.unprotectedCommit(); err != nil {
		return err
	}
	at := da.StringProp(ops.hvo, ops.prop).Len()
	n := da.StringProp(next, ops.prop).Len()
	if n > 0 {
		if err := da.MoveString(next, ops.prop, 0, n, ops.hvo, ops.prop, at); err != nil {
			return err
		}
	}
	if err := da.DeleteObjOwner(ops.owner, next, ops.tag, ops.ihvo+1); err != nil {
		return err
	}
	s.restructure(ops.ipAt(ops.ihvo, at, n == 0 && at > 0))
	return nil
}
