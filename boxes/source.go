package boxes

import (
	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/sda"
)

// RefKind says which kind of property a source item displays.
type RefKind int

const (
	// RefLiteral is text supplied by the view constructor itself. It is
	// never editable.
	RefLiteral RefKind = iota
	RefString
	RefUnicode
	RefInt
	RefMultiString
)

// StrRef ties a source item to the property it displays.
type StrRef struct {
	Kind      RefKind
	Notifier  *Notifier
	PropIndex int
	Hvo       sda.Hvo
	Tag       sda.Tag
	Ws        int
	Editable  bool
	// VC is set when the view constructor converts edits itself (see
	// PropUpdater). Frag is the fragment it displayed the property with.
	VC   ViewConstructor
	Frag int
}

// SameProp reports whether r and o display the same property.
func (r StrRef) SameProp(o StrRef) bool {
	return r.Kind == o.Kind && r.Kind != RefLiteral && r.Hvo == o.Hvo && r.Tag == o.Tag && r.Ws == o.Ws
}

// Item is one piece of a paragraph's source: either a formatted string
// or an embedded box occupying one logical character.
type Item struct {
	Str rich.String
	Ref StrRef
	Box Box
}

// IsBox reports whether the item is an embedded box.
func (it *Item) IsBox() bool { return it.Box != nil }

// Len returns the logical length of the item.
func (it *Item) Len() int {
	if it.Box != nil {
		return 1
	}
	return it.Str.Len()
}

// Source is the logical text of a paragraph together with its rendered
// form. Owned-object characters (footnote markers and the like) render
// as the text the site supplies for them, so rendered offsets can differ
// from logical ones.
type Source struct {
	items    []Item
	mins     []int // logical start of each item
	logLen   int
	rendered []rune
	logToRen []int // len logLen+1
	renToLog []int // len len(rendered)+1; -1 inside an expansion
	textRep  func(rich.ObjData) string
}

func newSource(items []Item, textRep func(rich.ObjData) string) *Source {
	s := &Source{items: items, textRep: textRep}
	s.index()
	return s
}

func (s *Source) index() {
	s.mins = s.mins[:0]
	s.rendered = s.rendered[:0]
	s.logToRen = s.logToRen[:0]
	s.renToLog = s.renToLog[:0]
	log := 0
	for i := range s.items {
		it := &s.items[i]
		s.mins = append(s.mins, log)
		if it.Box != nil {
			s.logToRen = append(s.logToRen, len(s.rendered))
			s.renToLog = append(s.renToLog, log)
			s.rendered = append(s.rendered, rich.ObjectReplacementChar)
			log++
			continue
		}
		for ich := 0; ich < it.Str.Len(); ich++ {
			r := it.Str.RuneAt(ich)
			s.logToRen = append(s.logToRen, len(s.rendered))
			rep := s.expansion(r, it.Str.PropsAt(ich))
			if rep == nil {
				s.renToLog = append(s.renToLog, log)
				s.rendered = append(s.rendered, r)
			} else {
				s.renToLog = append(s.renToLog, log)
				for range rep[1:] {
					s.renToLog = append(s.renToLog, -1)
				}
				s.rendered = append(s.rendered, rep...)
			}
			log++
		}
	}
	s.logLen = log
	s.logToRen = append(s.logToRen, len(s.rendered))
	s.renToLog = append(s.renToLog, log)
}

// expansion returns the rendered form of an owned-object character, or
// nil when r renders as itself.
func (s *Source) expansion(r rune, p rich.Props) []rune {
	if r != rich.ObjectReplacementChar || p.Obj.Kind != rich.ObjOwnNameGUIDHot || s.textRep == nil {
		return nil
	}
	rep := []rune(s.textRep(p.Obj))
	if len(rep) == 0 {
		return nil
	}
	return rep
}

// Items returns the source items.
func (s *Source) Items() []Item { return s.items }

// ItemMin returns the logical offset at which item i starts.
func (s *Source) ItemMin(i int) int { return s.mins[i] }

// Len returns the logical length.
func (s *Source) Len() int { return s.logLen }

// RenLen returns the rendered length.
func (s *Source) RenLen() int { return len(s.rendered) }

// Rendered returns the rendered text. Callers must not modify it.
func (s *Source) Rendered() []rune { return s.rendered }

// LogToRen maps a logical offset to a rendered one.
func (s *Source) LogToRen(ich int) int {
	if ich <= 0 {
		return 0
	}
	if ich >= s.logLen {
		return len(s.rendered)
	}
	return s.logToRen[ich]
}

// RenToLog maps a rendered offset to a logical one. Offsets inside an
// expansion map to the start of the object character.
func (s *Source) RenToLog(ren int) int {
	if ren <= 0 {
		return 0
	}
	if ren >= len(s.rendered) {
		return s.logLen
	}
	for s.renToLog[ren] < 0 {
		ren--
	}
	return s.renToLog[ren]
}

// IsRenBoundary reports whether ren is the start of a logical character
// (or the end of the text).
func (s *Source) IsRenBoundary(ren int) bool {
	return ren >= 0 && ren <= len(s.rendered) && s.renToLog[ren] >= 0
}

// RuneAt returns the logical character at ich; embedded boxes read as
// ObjectReplacementChar.
func (s *Source) RuneAt(ich int) rune {
	i, off := s.find(ich)
	if i < 0 {
		return 0
	}
	it := &s.items[i]
	if it.Box != nil {
		return rich.ObjectReplacementChar
	}
	return it.Str.RuneAt(off)
}

// PropsAt returns the properties of the logical character at ich.
func (s *Source) PropsAt(ich int) rich.Props {
	i, off := s.find(ich)
	if i < 0 || s.items[i].Box != nil {
		return rich.Props{}
	}
	return s.items[i].Str.PropsAt(off)
}

// find returns the item containing the character at ich and the offset
// within it, or -1.
func (s *Source) find(ich int) (int, int) {
	if ich < 0 || ich >= s.logLen {
		return -1, 0
	}
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.mins[i] <= ich && s.items[i].Len() > 0 {
			return i, ich - s.mins[i]
		}
	}
	return -1, 0
}

// ItemAt returns the index of the item containing character ich, or -1.
func (s *Source) ItemAt(ich int) int {
	i, _ := s.find(ich)
	return i
}

// Text returns the logical text as a formatted string; embedded boxes
// appear as ObjectReplacementChar.
func (s *Source) Text() rich.String {
	var b rich.Builder
	for i := range s.items {
		it := &s.items[i]
		if it.Box != nil {
			b.Replace(b.Len(), b.Len(), rich.Plain(string(rich.ObjectReplacementChar), rich.Props{}))
			continue
		}
		b.Replace(b.Len(), b.Len(), it.Str)
	}
	return b.Value()
}

// Substring returns [min, lim) of the logical text.
func (s *Source) Substring(min, lim int) rich.String {
	return s.Text().Substring(min, lim)
}

// LogicalRunes returns the logical characters of s.
func (s *Source) LogicalRunes() []rune {
	out := make([]rune, 0, s.logLen)
	for i := range s.items {
		it := &s.items[i]
		if it.Box != nil {
			out = append(out, rich.ObjectReplacementChar)
			continue
		}
		out = append(out, it.Str.Runes()...)
	}
	return out
}

// setItemString replaces the string of item i and reindexes.
func (s *Source) setItemString(i int, str rich.String) {
	s.items[i].Str = str
	s.index()
}
