package boxes

import (
	"github.com/rjkroege/richedit/sda"
)

// SelEnd locates one end of a selection by the data it shows: the path
// of the object, the property and the offset in it.
type SelEnd struct {
	Levels    []Level
	Tag       sda.Tag
	Ws        int
	Ich       int
	AssocPrev bool
}

// SelRequest describes a selection to be made. End is used only when
// Range is set.
type SelRequest struct {
	Anchor SelEnd
	End    SelEnd
	Range  bool
}

// IPRequest returns a request for an insertion point.
func IPRequest(levels []Level, tag sda.Tag, ws, ich int, assocPrev bool) SelRequest {
	return SelRequest{Anchor: SelEnd{Levels: levels, Tag: tag, Ws: ws, Ich: ich, AssocPrev: assocPrev}}
}

func levelsEqual(a, b []Level) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FindPosition returns the paragraph and logical offset showing e.
// Lazy boxes are expanded if the position is not otherwise found.
func (r *Root) FindPosition(e SelEnd) (*Para, int, bool) {
	if p, ich, ok := r.findPosition(e); ok {
		return p, ich, ok
	}
	r.ExpandAll()
	return r.findPosition(e)
}

func (r *Root) findPosition(e SelEnd) (*Para, int, bool) {
	for _, p := range r.Paragraphs() {
		for i, it := range p.src.items {
			if it.Box != nil || it.Ref.Kind == RefLiteral || it.Ref.Tag != e.Tag || it.Ref.Ws != e.Ws {
				continue
			}
			if it.Ref.Notifier == nil || !levelsEqual(it.Ref.Notifier.Levels(), e.Levels) {
				continue
			}
			ich := min(max(e.Ich, 0), it.Len())
			return p, p.src.mins[i] + ich, true
		}
	}
	return nil, 0, false
}

// Locate is the inverse of FindPosition: it describes logical offset
// ich of p by the property displayed there.
func Locate(p *Para, ich int, assocPrev bool) (SelEnd, bool) {
	res := EditableSubstringAt(p, ich, ich, assocPrev)
	if res.Status == NotFound || res.Ctx.Ref.Kind == RefLiteral || res.Ctx.Ref.Notifier == nil {
		return SelEnd{}, false
	}
	ref := res.Ctx.Ref
	return SelEnd{
		Levels:    ref.Notifier.Levels(),
		Tag:       ref.Tag,
		Ws:        ref.Ws,
		Ich:       ich - res.Ctx.IchMin,
		AssocPrev: assocPrev,
	}, true
}
