package boxes

import (
	"image"
	"log"
	"strconv"

	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/rootsite"
	"github.com/rjkroege/richedit/sda"
)

// SelectionState is whether, and how, the root shows its selection.
type SelectionState int

const (
	SelDisabled SelectionState = iota
	SelEnabled
	// SelOutOfFocus shows ranges but not insertion points.
	SelOutOfFocus
)

// Selection is what the root needs from the selection it owns.
type Selection interface {
	rootsite.Selection
	// Location describes the selection in terms of the data so that it
	// can be recreated after the boxes are rebuilt.
	Location() (SelRequest, bool)
	// Detach tells the selection that the root no longer owns it.
	Detach()
}

// SelectionFactory makes a selection from a request.
type SelectionFactory func(r *Root, req SelRequest) (Selection, error)

type propKey struct {
	hvo sda.Hvo
	tag sda.Tag
}

// Option configures a Root.
type Option func(*Root)

// WithCharWidth sets the width of every character.
func WithCharWidth(w int) Option {
	return func(r *Root) {
		r.charWidth = max(w, 1)
	}
}

// WithLineHeight sets the minimum line height.
func WithLineHeight(h int) Option {
	return func(r *Root) {
		r.lineHeight = max(h, 1)
	}
}

// WithWidth sets the layout width.
func WithWidth(w int) Option {
	return func(r *Root) {
		r.width = w
	}
}

// WithPictureSize sets the size of pictures that do not give their own.
func WithPictureSize(sz image.Point) Option {
	return func(r *Root) {
		r.pictureSize = sz
	}
}

// WithSite sets the host callbacks.
func WithSite(s rootsite.Site) Option {
	return func(r *Root) {
		r.site = s
	}
}

// Root owns the box tree of one view of a document, the selection shown
// in it, and keeps both in step with the data.
type Root struct {
	da   sda.DataAccess
	site rootsite.Site
	vc   ViewConstructor
	hvo  sda.Hvo
	frag int

	body *Pile
	seqs map[propKey]bool
	strs map[propKey][]*Para

	charWidth   int
	lineHeight  int
	width       int
	pictureSize image.Point

	sel       Selection
	selState  SelectionState
	composing bool
	makeSel   SelectionFactory
	pending   *SelRequest
	rebuild   bool
	invalid   []image.Rectangle
}

// NewRoot returns a Root displaying data from da. If da accepts
// observers the root registers itself.
func NewRoot(da sda.DataAccess, opts ...Option) *Root {
	r := &Root{
		da:          da,
		site:        rootsite.NilSite{},
		charWidth:   7,
		lineHeight:  16,
		width:       600,
		pictureSize: image.Pt(20, 16),
		selState:    SelEnabled,
		seqs:        make(map[propKey]bool),
		strs:        make(map[propKey][]*Para),
	}
	for _, o := range opts {
		o(r)
	}
	if ob, ok := da.(interface{ AddObserver(sda.Observer) }); ok {
		ob.AddObserver(r)
	}
	return r
}

// SetRootObject sets the object the root displays and builds its boxes.
func (r *Root) SetRootObject(hvo sda.Hvo, vc ViewConstructor, frag int) error {
	r.hvo, r.vc, r.frag = hvo, vc, frag
	return r.Reconstruct()
}

// Reconstruct discards the boxes and builds them again from the data.
func (r *Root) Reconstruct() error {
	if r.body != nil {
		for _, p := range Paragraphs(r.body) {
			p.dead = true
		}
		r.body.root = nil
	}
	r.seqs = make(map[propKey]bool)
	r.strs = make(map[propKey][]*Para)
	r.body = &Pile{Kind: PileDiv, root: r}
	if r.vc == nil {
		return nil
	}
	env := newEnv(r)
	env.containers = []Container{r.body}
	env.notifier = &Notifier{Hvo: r.hvo, ParentProp: -1}
	env.hvo, env.vc, env.frag = r.hvo, r.vc, r.frag
	if err := r.vc.Display(env, r.hvo, r.frag); err != nil {
		env.fail(err)
	}
	if env.para != nil {
		env.CloseParagraph()
	}
	r.layout()
	r.Invalidate(r.body.Rect())
	return env.err
}

func (r *Root) indexPara(p *Para) {
	seen := make(map[propKey]bool)
	for _, it := range p.src.items {
		if it.Box != nil || it.Ref.Kind == RefLiteral {
			continue
		}
		k := propKey{it.Ref.Hvo, it.Ref.Tag}
		if !seen[k] {
			r.strs[k] = append(r.strs[k], p)
			seen[k] = true
		}
	}
}

func (r *Root) textRep(d rich.ObjData) string {
	s, err := r.site.TextRepOfObj(d)
	if err != nil {
		return ""
	}
	return s
}

// Body returns the outermost pile.
func (r *Root) Body() *Pile { return r.body }

// DataAccess returns the data the root displays.
func (r *Root) DataAccess() sda.DataAccess { return r.da }

// Site returns the host callbacks.
func (r *Root) Site() rootsite.Site { return r.site }

// RootObject returns the displayed object.
func (r *Root) RootObject() sda.Hvo { return r.hvo }

// CharWidth returns the width of a character.
func (r *Root) CharWidth() int { return r.charWidth }

// LineHeight returns the minimum line height.
func (r *Root) LineHeight() int { return r.lineHeight }

// Width returns the layout width.
func (r *Root) Width() int { return r.width }

// Paragraphs returns the laid-out paragraphs in root order.
func (r *Root) Paragraphs() []*Para {
	if r.body == nil {
		return nil
	}
	return Paragraphs(r.body)
}

// ExpandAll expands every lazy box. Boxes that cannot be expanded are
// left in place.
func (r *Root) ExpandAll() {
	stuck := make(map[*Lazy]bool)
	for {
		var lz *Lazy
		var walk func(Container)
		walk = func(c Container) {
			for _, b := range c.Children() {
				if lz != nil {
					return
				}
				switch v := b.(type) {
				case *Lazy:
					if !stuck[v] {
						lz = v
					}
				case Container:
					walk(v)
				}
			}
		}
		walk(r.body)
		if lz == nil {
			return
		}
		if _, ok := lz.Expand(); !ok {
			stuck[lz] = true
		}
	}
}

// Invalidate records r as needing to be redrawn.
func (r *Root) Invalidate(rect image.Rectangle) {
	if rect.Empty() {
		return
	}
	r.invalid = append(r.invalid, rect)
}

// Invalidated returns and clears the rectangles needing redraw.
func (r *Root) Invalidated() []image.Rectangle {
	out := r.invalid
	r.invalid = nil
	return out
}

// SelectionState returns how the selection is shown.
func (r *Root) SelectionState() SelectionState { return r.selState }

// SetSelectionState changes how the selection is shown.
func (r *Root) SetSelectionState(s SelectionState) { r.selState = s }

// IsComposing reports whether an input method composition is in progress.
func (r *Root) IsComposing() bool { return r.composing }

// SetComposing records whether an input method composition is in progress.
func (r *Root) SetComposing(b bool) { r.composing = b }

// SetSelectionFactory registers the function used to recreate
// selections after a rebuild.
func (r *Root) SetSelectionFactory(f SelectionFactory) { r.makeSel = f }

// Selection returns the current selection, or nil.
func (r *Root) Selection() Selection { return r.sel }

// SetSelection makes sel the root's selection, dropping the old one.
func (r *Root) SetSelection(sel Selection) {
	if r.sel != nil && r.sel != sel {
		r.sel.Detach()
	}
	r.sel = sel
	if sel != nil {
		r.site.SelectionChanged(sel, rootsite.DiffPara)
	}
}

// DestroySelection drops the current selection.
func (r *Root) DestroySelection() {
	if r.sel != nil {
		r.sel.Detach()
		r.sel = nil
	}
}

// NotifySelectionChanged tells the site the selection moved.
func (r *Root) NotifySelectionChanged(sel Selection, kind rootsite.ChangeKind) {
	if sel != nil && r.sel == sel {
		r.site.SelectionChanged(sel, kind)
	}
}

// RequestSelectionAtEndOfUow asks for a selection to be made once the
// current undo task ends and the boxes reflect it.
func (r *Root) RequestSelectionAtEndOfUow(req SelRequest) {
	r.pending = &req
	if !r.da.InUndoTask() {
		r.Flush()
	}
}

// PropChanged implements sda.Observer.
func (r *Root) PropChanged(hvo sda.Hvo, tag sda.Tag, ivMin, cvIns, cvDel int) {
	k := propKey{hvo, tag}
	if r.seqs[k] {
		r.rebuild = true
		return
	}
	paras := r.strs[k]
	if len(paras) == 0 {
		return
	}
	for _, p := range paras {
		if p.dead {
			continue
		}
		r.refresh(p, hvo, tag)
		r.Invalidate(p.Rect())
	}
	r.layout()
}

// refresh rereads the items of p that display (hvo, tag).
func (r *Root) refresh(p *Para, hvo sda.Hvo, tag sda.Tag) {
	for i, it := range p.src.items {
		if it.Box != nil || it.Ref.Kind == RefLiteral || it.Ref.Hvo != hvo || it.Ref.Tag != tag {
			continue
		}
		var s rich.String
		props := it.Str.PropsAt(0)
		switch it.Ref.Kind {
		case RefString:
			s = r.da.StringProp(hvo, tag)
		case RefUnicode:
			s = plainOrEmpty(r.da.UnicodeProp(hvo, tag), props)
		case RefInt:
			s = rich.Plain(strconv.Itoa(r.da.IntProp(hvo, tag)), props)
		case RefMultiString:
			s = r.da.MultiStringAlt(hvo, tag, it.Ref.Ws)
			if s.RunCount() == 0 {
				s = rich.Empty(rich.Props{Ws: it.Ref.Ws})
			}
		}
		p.src.items[i].Str = s
	}
	p.src.index()
}

// TaskEnded implements sda.Observer.
func (r *Root) TaskEnded() {
	r.Flush()
}

// Flush brings the boxes up to date with structural changes made so far
// and makes any requested selection. It is called when an undo task
// ends, and by editing code that must see the rebuilt boxes before its
// task is over. Without a request the selection is carried over to the
// new boxes.
func (r *Root) Flush() {
	var keep SelRequest
	var haveKeep bool
	if r.rebuild {
		r.rebuild = false
		if r.sel != nil {
			keep, haveKeep = r.sel.Location()
		}
		if err := r.Reconstruct(); err != nil {
			log.Printf("rebuilding view: %v", err)
		}
		if r.pending == nil {
			if haveKeep {
				r.install(keep)
			} else {
				r.DestroySelection()
			}
		}
	}
	if r.pending != nil {
		req := *r.pending
		r.pending = nil
		r.install(req)
	}
}

func (r *Root) install(req SelRequest) {
	if r.makeSel == nil {
		log.Printf("no selection factory; dropping selection request")
		r.DestroySelection()
		return
	}
	sel, err := r.makeSel(r, req)
	if err != nil {
		log.Printf("making selection: %v", err)
		r.DestroySelection()
		return
	}
	r.SetSelection(sel)
}

// PointToPosition returns the paragraph position nearest pt.
func (r *Root) PointToPosition(pt image.Point) (*Para, int, bool, bool) {
	if r.body == nil {
		return nil, 0, false, false
	}
	return hitIn(r.body, pt)
}

// LazyAt returns the lazy box containing pt, or nil.
func (r *Root) LazyAt(pt image.Point) *Lazy {
	var found *Lazy
	var walk func(Container)
	walk = func(c Container) {
		for _, b := range c.Children() {
			if found != nil {
				return
			}
			switch v := b.(type) {
			case *Lazy:
				if pt.In(v.Rect()) {
					found = v
				}
			case Container:
				if pt.In(v.Rect()) {
					walk(v)
				}
			}
		}
	}
	if r.body != nil {
		walk(r.body)
	}
	return found
}
