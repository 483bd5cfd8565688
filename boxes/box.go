// Package boxes is the laid-out form of a document: a tree of boxes
// (piles, tables, paragraphs, string boxes, pictures and lazy
// placeholders) produced by a ViewConstructor from a data access layer,
// plus the notifiers that map displayed text back to the object
// properties it came from.
//
// Geometry is deliberately simple: every character has the same width
// and every line the same minimum height. Hosts that need real shaping
// supply their own Segment implementation.
package boxes

import (
	"image"
	"log"

	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/sda"
)

// Box is a node of the layout tree.
type Box interface {
	Parent() Container
	Rect() image.Rectangle

	setParent(c Container)
	setRect(r image.Rectangle)
}

// Container is a Box with children.
type Container interface {
	Box
	Children() []Box
}

type base struct {
	parent Container
	rect   image.Rectangle
}

func (b *base) Parent() Container         { return b.parent }
func (b *base) Rect() image.Rectangle     { return b.rect }
func (b *base) setParent(c Container)     { b.parent = c }
func (b *base) setRect(r image.Rectangle) { b.rect = r }

// PileKind distinguishes the roles of a Pile.
type PileKind int

const (
	// PileDiv stacks block boxes; the document body is a PileDiv.
	PileDiv PileKind = iota
	// PileInner is embedded in a paragraph (e.g. an interlinear bundle).
	PileInner
	// PileCell is a table cell.
	PileCell
	// PileMoveable is a floating inset that selections may not straddle.
	PileMoveable
)

// Pile stacks its children vertically.
type Pile struct {
	base
	Kind     PileKind
	children []Box
	root     *Root // set only on the body pile
}

// Children implements Container.
func (p *Pile) Children() []Box { return p.children }

func (p *Pile) add(b Box) {
	b.setParent(p)
	p.children = append(p.children, b)
}

// replace substitutes boxes for the child old.
func (p *Pile) replace(old Box, boxes []Box) bool {
	for i, c := range p.children {
		if c != old {
			continue
		}
		n := make([]Box, 0, len(p.children)-1+len(boxes))
		n = append(n, p.children[:i]...)
		for _, b := range boxes {
			b.setParent(p)
			n = append(n, b)
		}
		n = append(n, p.children[i+1:]...)
		p.children = n
		return true
	}
	return false
}

// Table holds Rows.
type Table struct {
	base
	rows []Box
}

// Children implements Container.
func (t *Table) Children() []Box { return t.rows }

// Row holds cells, each a Pile of kind PileCell, laid out left to right.
type Row struct {
	base
	cells []Box
}

// Children implements Container.
func (r *Row) Children() []Box { return r.cells }

// CellIndex returns the index of cell c in r, or -1.
func (r *Row) CellIndex(c Box) int {
	for i, b := range r.cells {
		if b == c {
			return i
		}
	}
	return -1
}

// Picture is a leaf box showing an image.
type Picture struct {
	base
	Obj  rich.ObjData
	Size image.Point
	Hvo  sda.Hvo
	Tag  sda.Tag
}

// StringBox is the part of one line of a paragraph that shows a
// contiguous run of rendered characters. It answers geometry and
// navigation questions through its Segment.
type StringBox struct {
	base
	para   *Para
	line   int
	renMin int
	renLim int
	seg    Segment
}

// Para returns the paragraph the box belongs to.
func (s *StringBox) Para() *Para { return s.para }

// Line returns the index of the line the box is on.
func (s *StringBox) Line() int { return s.line }

// RenMin returns the first rendered offset shown by the box.
func (s *StringBox) RenMin() int { return s.renMin }

// RenLim returns the limit of the rendered offsets shown by the box.
func (s *StringBox) RenLim() int { return s.renLim }

// Segment returns the box's navigation and geometry oracle.
func (s *StringBox) Segment() Segment { return s.seg }

// Lazy is a placeholder for items of an object sequence that have not
// been laid out yet. Expanding it replaces it with real boxes.
type Lazy struct {
	base
	root     *Root
	notifier *Notifier
	propIdx  int
	tag      sda.Tag
	owner    sda.Hvo
	items    []sda.Hvo
	first    int // index of items[0] in the sequence
	vc       ViewConstructor
	frag     int
	editable bool
}

// Count returns the number of objects the lazy box stands for.
func (l *Lazy) Count() int { return len(l.items) }

// Expand replaces l with the boxes for its items and relays out the
// document. It returns the new boxes, and false when l could not be
// expanded and is still in place.
func (l *Lazy) Expand() ([]Box, bool) {
	pile, ok := l.parent.(*Pile)
	if !ok || l.root == nil {
		log.Printf("lazy box of %d items is not in a pile of a root", len(l.items))
		return nil, false
	}
	env := newEnv(l.root)
	env.editable = l.editable
	tmp := &Pile{Kind: pile.Kind}
	env.containers = []Container{tmp}
	for i, hvo := range l.items {
		env.displayObject(l.notifier, l.propIdx, l.first+i, hvo, l.vc, l.frag)
	}
	if env.err != nil {
		log.Printf("expanding %d lazy items: %v", len(l.items), env.err)
	}
	added := tmp.children
	if !pile.replace(l, added) {
		return nil, false
	}
	l.root.layout()
	return added, true
}

// MoveablePileOf returns the innermost moveable pile containing b, or nil.
func MoveablePileOf(b Box) *Pile {
	for c := b.Parent(); c != nil; c = c.Parent() {
		if p, ok := c.(*Pile); ok && p.Kind == PileMoveable {
			return p
		}
	}
	return nil
}

// CellOf returns the row and cell index containing b, if b is inside a
// table cell.
func CellOf(b Box) (*Row, int, bool) {
	var prev Box = b
	for c := b.Parent(); c != nil; c = c.Parent() {
		if r, ok := c.(*Row); ok {
			return r, r.CellIndex(prev), true
		}
		prev = c
	}
	return nil, -1, false
}

// RootOf returns the Root owning b, or nil if b is detached.
func RootOf(b Box) *Root {
	var top Box = b
	for c := b.Parent(); c != nil; c = c.Parent() {
		top = c
	}
	if p, ok := top.(*Pile); ok {
		return p.root
	}
	return nil
}
