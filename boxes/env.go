package boxes

import (
	"errors"
	"fmt"
	"image"
	"strconv"

	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/sda"
)

// ViewConstructor builds the display of an object by calling Env methods.
type ViewConstructor interface {
	Display(env *Env, hvo sda.Hvo, frag int) error
}

// PropUpdater is implemented by view constructors that display a
// property in a converted form and must convert edits back themselves.
type PropUpdater interface {
	UpdateProp(hvo sda.Hvo, tag sda.Tag, frag int, s rich.String) (rich.String, error)
}

// VCFunc adapts a function to ViewConstructor.
type VCFunc func(env *Env, hvo sda.Hvo, frag int) error

// Display implements ViewConstructor.
func (f VCFunc) Display(env *Env, hvo sda.Hvo, frag int) error { return f(env, hvo, frag) }

var (
	ErrNoParagraph  = errors.New("boxes: no open paragraph")
	ErrInParagraph  = errors.New("boxes: paragraph is open")
	ErrNotContainer = errors.New("boxes: unbalanced open/close")
	ErrBadRequest   = errors.New("boxes: selection request does not resolve")
)

type paraBuilder struct {
	para  *Para
	items []Item
}

// Env receives the display calls of a ViewConstructor and builds boxes.
type Env struct {
	root       *Root
	containers []Container
	para       *paraBuilder
	saved      []*paraBuilder
	notifier   *Notifier
	hvo        sda.Hvo
	editable   bool
	vc         ViewConstructor
	frag       int
	err        error
}

func newEnv(r *Root) *Env {
	return &Env{root: r, editable: true}
}

// DataAccess returns the data the view is built from.
func (e *Env) DataAccess() sda.DataAccess { return e.root.da }

// CurrentObject returns the object being displayed.
func (e *Env) CurrentObject() sda.Hvo { return e.hvo }

// SetEditable controls whether properties added later may be edited.
func (e *Env) SetEditable(b bool) { e.editable = b }

func (e *Env) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *Env) top() Container {
	if len(e.containers) == 0 {
		return nil
	}
	return e.containers[len(e.containers)-1]
}

// addBlock adds a block-level box to the innermost container.
func (e *Env) addBlock(b Box) {
	if e.para != nil {
		e.fail(fmt.Errorf("adding %T: %w", b, ErrInParagraph))
		return
	}
	switch c := e.top().(type) {
	case *Pile:
		c.add(b)
	case *Table:
		b.setParent(c)
		c.rows = append(c.rows, b)
	case *Row:
		b.setParent(c)
		c.cells = append(c.cells, b)
	default:
		e.fail(fmt.Errorf("adding %T: %w", b, ErrNotContainer))
	}
}

// OpenParagraph starts a paragraph.
func (e *Env) OpenParagraph(props rich.ParaProps) {
	if e.para != nil {
		e.fail(ErrInParagraph)
		return
	}
	e.para = &paraBuilder{para: &Para{Props: props, Notifier: e.notifier}}
}

// CloseParagraph ends the open paragraph and adds it to the display.
func (e *Env) CloseParagraph() {
	pb := e.para
	if pb == nil {
		e.fail(ErrNoParagraph)
		return
	}
	e.para = nil
	pb.para.src = newSource(pb.items, e.root.textRep)
	for _, it := range pb.items {
		if it.Box != nil {
			it.Box.setParent(pb.para)
		}
	}
	e.addBlock(pb.para)
	e.root.indexPara(pb.para)
}

func (e *Env) addItem(it Item) {
	if e.para == nil {
		e.fail(ErrNoParagraph)
		return
	}
	e.para.items = append(e.para.items, it)
}

func (e *Env) ref(kind RefKind, tag sda.Tag, ws int, pk sda.PropKind) StrRef {
	var flags PropFlags
	if e.editable {
		flags |= PropEditable
	}
	idx := -1
	if e.notifier != nil {
		idx = e.notifier.addProp(NotifierProp{Tag: tag, Kind: pk, Flags: flags, Ws: ws})
	}
	ref := StrRef{Kind: kind, Notifier: e.notifier, PropIndex: idx, Hvo: e.hvo, Tag: tag, Ws: ws, Editable: e.editable}
	if _, ok := e.vc.(PropUpdater); ok {
		ref.VC, ref.Frag = e.vc, e.frag
	}
	return ref
}

// AddStringProp displays the formatted string property tag.
func (e *Env) AddStringProp(tag sda.Tag) {
	s := e.root.da.StringProp(e.hvo, tag)
	e.addItem(Item{Str: s, Ref: e.ref(RefString, tag, 0, sda.KindString)})
}

// AddUnicodeProp displays the plain string property tag formatted with p.
func (e *Env) AddUnicodeProp(tag sda.Tag, ws int, p rich.Props) {
	p = p.WithWs(ws)
	e.addItem(Item{Str: plainOrEmpty(e.root.da.UnicodeProp(e.hvo, tag), p), Ref: e.ref(RefUnicode, tag, ws, sda.KindUnicode)})
}

// AddIntProp displays the integer property tag in decimal.
func (e *Env) AddIntProp(tag sda.Tag, p rich.Props) {
	v := e.root.da.IntProp(e.hvo, tag)
	e.addItem(Item{Str: rich.Plain(strconv.Itoa(v), p), Ref: e.ref(RefInt, tag, 0, sda.KindInt)})
}

// AddStringAlt displays alternative ws of the multistring property tag.
func (e *Env) AddStringAlt(tag sda.Tag, ws int) {
	s := e.root.da.MultiStringAlt(e.hvo, tag, ws)
	if s.RunCount() == 0 {
		s = rich.Empty(rich.Props{Ws: ws})
	}
	e.addItem(Item{Str: s, Ref: e.ref(RefMultiString, tag, ws, sda.KindMultiString)})
}

// AddString displays literal text. It is never editable.
func (e *Env) AddString(s rich.String) {
	e.addItem(Item{Str: s, Ref: StrRef{Kind: RefLiteral, Notifier: e.notifier, PropIndex: -1, Hvo: e.hvo}})
}

// AddObjVecItems displays each object of the sequence tag with vc.
func (e *Env) AddObjVecItems(tag sda.Tag, vc ViewConstructor, frag int) {
	idx := e.seqProp(tag)
	da := e.root.da
	for i := 0; i < da.VecSize(e.hvo, tag); i++ {
		h, err := da.VecItem(e.hvo, tag, i)
		if err != nil {
			e.fail(err)
			return
		}
		e.displayObject(e.notifier, idx, i, h, vc, frag)
	}
}

// AddLazyVecItems is AddObjVecItems for sequences whose items are laid
// out only when a traversal reaches them.
func (e *Env) AddLazyVecItems(tag sda.Tag, vc ViewConstructor, frag int) {
	idx := e.seqProp(tag)
	da := e.root.da
	n := da.VecSize(e.hvo, tag)
	if n == 0 {
		return
	}
	l := &Lazy{root: e.root, notifier: e.notifier, propIdx: idx, tag: tag, owner: e.hvo, vc: vc, frag: frag, editable: e.editable}
	for i := 0; i < n; i++ {
		h, err := da.VecItem(e.hvo, tag, i)
		if err != nil {
			e.fail(err)
			return
		}
		l.items = append(l.items, h)
	}
	e.addBlock(l)
}

func (e *Env) seqProp(tag sda.Tag) int {
	e.root.seqs[propKey{e.hvo, tag}] = true
	if e.notifier == nil {
		return -1
	}
	var flags PropFlags
	if e.editable {
		flags |= PropEditable
	}
	if tag == sda.TagParagraphs {
		flags |= PropParaSequence
	}
	return e.notifier.addProp(NotifierProp{Tag: tag, Kind: sda.KindOwningSeq, Flags: flags})
}

// displayObject displays hvo, item ihvo of parent's property propIdx.
func (e *Env) displayObject(parent *Notifier, propIdx, ihvo int, hvo sda.Hvo, vc ViewConstructor, frag int) {
	saveN, saveH, saveVC, saveFrag := e.notifier, e.hvo, e.vc, e.frag
	e.notifier = &Notifier{Hvo: hvo, Parent: parent, ParentProp: propIdx, ObjIndex: ihvo}
	e.hvo, e.vc, e.frag = hvo, vc, frag
	if err := vc.Display(e, hvo, frag); err != nil {
		e.fail(fmt.Errorf("displaying %d: %w", hvo, err))
	}
	e.notifier, e.hvo, e.vc, e.frag = saveN, saveH, saveVC, saveFrag
}

func (e *Env) openPile(kind PileKind) *Pile {
	p := &Pile{Kind: kind}
	e.addBlock(p)
	e.containers = append(e.containers, p)
	return p
}

func (e *Env) closeContainer(want func(Container) bool) {
	c := e.top()
	if c == nil || !want(c) || e.para != nil {
		e.fail(ErrNotContainer)
		return
	}
	e.containers = e.containers[:len(e.containers)-1]
}

func isPile(kind PileKind) func(Container) bool {
	return func(c Container) bool {
		p, ok := c.(*Pile)
		return ok && p.Kind == kind
	}
}

// OpenDiv starts a block of stacked boxes.
func (e *Env) OpenDiv() { e.openPile(PileDiv) }

// CloseDiv ends the block started by OpenDiv.
func (e *Env) CloseDiv() { e.closeContainer(isPile(PileDiv)) }

// OpenMoveablePile starts an inset that selections may not cross.
func (e *Env) OpenMoveablePile() { e.openPile(PileMoveable) }

// CloseMoveablePile ends the inset started by OpenMoveablePile.
func (e *Env) CloseMoveablePile() { e.closeContainer(isPile(PileMoveable)) }

// OpenInnerPile starts a pile embedded in the open paragraph.
func (e *Env) OpenInnerPile() {
	if e.para == nil {
		e.fail(ErrNoParagraph)
		return
	}
	p := &Pile{Kind: PileInner}
	e.para.items = append(e.para.items, Item{Box: p})
	e.saved = append(e.saved, e.para)
	e.para = nil
	e.containers = append(e.containers, p)
}

// CloseInnerPile ends the pile started by OpenInnerPile.
func (e *Env) CloseInnerPile() {
	e.closeContainer(isPile(PileInner))
	if len(e.saved) == 0 {
		e.fail(ErrNotContainer)
		return
	}
	e.para = e.saved[len(e.saved)-1]
	e.saved = e.saved[:len(e.saved)-1]
}

// OpenTable starts a table.
func (e *Env) OpenTable() {
	t := &Table{}
	e.addBlock(t)
	e.containers = append(e.containers, t)
}

// CloseTable ends the table.
func (e *Env) CloseTable() {
	e.closeContainer(func(c Container) bool { _, ok := c.(*Table); return ok })
}

// OpenRow starts a table row.
func (e *Env) OpenRow() {
	if _, ok := e.top().(*Table); !ok {
		e.fail(ErrNotContainer)
		return
	}
	r := &Row{}
	e.addBlock(r)
	e.containers = append(e.containers, r)
}

// CloseRow ends the row.
func (e *Env) CloseRow() {
	e.closeContainer(func(c Container) bool { _, ok := c.(*Row); return ok })
}

// OpenCell starts a table cell.
func (e *Env) OpenCell() {
	if _, ok := e.top().(*Row); !ok {
		e.fail(ErrNotContainer)
		return
	}
	e.openPile(PileCell)
}

// CloseCell ends the cell.
func (e *Env) CloseCell() { e.closeContainer(isPile(PileCell)) }

// AddPicture displays a picture, inline when a paragraph is open.
func (e *Env) AddPicture(obj rich.ObjData, size image.Point, tag sda.Tag) {
	pic := &Picture{Obj: obj, Size: size, Hvo: e.hvo, Tag: tag}
	if e.para != nil {
		e.para.items = append(e.para.items, Item{Box: pic})
		return
	}
	e.addBlock(pic)
}

func plainOrEmpty(s string, p rich.Props) rich.String {
	if s == "" {
		return rich.Empty(p)
	}
	return rich.Plain(s, p)
}
