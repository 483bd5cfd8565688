// Package rich provides the formatted text value used by the editing
// engine: an immutable String made of runs with uniform Props, and a
// mutable Builder.
//
// All offsets are rune offsets.
package rich

import (
	"strings"
)

// ObjectReplacementChar is the text of an object-data run.
const ObjectReplacementChar = '\uFFFC'

// Span represents a run of text with uniform properties. It is the
// convenient input form for constructing a String.
type Span struct {
	Text  string
	Props Props
}

type runLim struct {
	lim   int
	props Props
}

// String is an immutable run-formatted string. The zero value is the
// empty string with no runs.
type String struct {
	text []rune
	runs []runLim
}

// Plain creates a String from text with properties p.
func Plain(text string, p Props) String {
	return FromSpans(Span{Text: text, Props: p})
}

// Empty returns an empty String that nevertheless carries properties p,
// so that text typed into it picks up p.
func Empty(p Props) String {
	return String{runs: []runLim{{lim: 0, props: p}}}
}

// FromSpans builds a String from spans, merging adjacent spans with equal
// properties. Empty spans are dropped unless all spans are empty.
func FromSpans(spans ...Span) String {
	var b Builder
	for _, sp := range spans {
		b.appendRunes([]rune(sp.Text), sp.Props)
	}
	if len(b.text) == 0 && len(spans) > 0 {
		return Empty(spans[0].Props)
	}
	return b.Value()
}

// Object returns a one-character String for an embedded object.
func Object(d ObjData, p Props) String {
	p.Obj = d
	return Plain(string(ObjectReplacementChar), p)
}

// Len returns the number of runes in s.
func (s String) Len() int {
	return len(s.text)
}

// Text returns the plain text of s.
func (s String) Text() string {
	return string(s.text)
}

// String implements fmt.Stringer.
func (s String) String() string {
	return string(s.text)
}

// Runes returns a copy of the text of s.
func (s String) Runes() []rune {
	return append([]rune(nil), s.text...)
}

// RuneAt returns the rune at ich, or 0 when ich is out of range.
func (s String) RuneAt(ich int) rune {
	if ich < 0 || ich >= len(s.text) {
		return 0
	}
	return s.text[ich]
}

// RunCount returns the number of runs.
func (s String) RunCount() int {
	return len(s.runs)
}

// Run returns the bounds and properties of run i.
func (s String) Run(i int) (min, lim int, p Props) {
	if i < 0 || i >= len(s.runs) {
		return 0, 0, Props{}
	}
	if i > 0 {
		min = s.runs[i-1].lim
	}
	return min, s.runs[i].lim, s.runs[i].props
}

// RunAt returns the run containing ich. An offset equal to Len belongs to
// the last run.
func (s String) RunAt(ich int) (irun, min, lim int, p Props) {
	if len(s.runs) == 0 {
		return 0, 0, 0, Props{}
	}
	irun = runIndex(s.runs, ich)
	min, lim, p = s.Run(irun)
	return irun, min, lim, p
}

// PropsAt returns the properties of the character at ich.
func (s String) PropsAt(ich int) Props {
	_, _, _, p := s.RunAt(ich)
	return p
}

// Substring returns the part of s in [min, lim).
func (s String) Substring(min, lim int) String {
	min, lim = clamp(min, 0, len(s.text)), clamp(lim, 0, len(s.text))
	if lim < min {
		min, lim = lim, min
	}
	if min == lim {
		return Empty(s.PropsAt(min))
	}
	var b Builder
	for i := range s.runs {
		rmin, rlim, p := s.Run(i)
		lo, hi := max(rmin, min), minInt(rlim, lim)
		if lo < hi {
			b.appendRunes(s.text[lo:hi], p)
		}
	}
	return b.Value()
}

// Concat returns s followed by t.
func (s String) Concat(t String) String {
	b := s.Builder()
	b.Replace(b.Len(), b.Len(), t)
	return b.Value()
}

// Equal reports whether s and t have the same text and runs.
func (s String) Equal(t String) bool {
	if string(s.text) != string(t.text) {
		return false
	}
	if len(s.text) == 0 {
		return true
	}
	if len(s.runs) != len(t.runs) {
		return false
	}
	for i := range s.runs {
		if s.runs[i] != t.runs[i] {
			return false
		}
	}
	return true
}

// Builder returns a mutable copy of s.
func (s String) Builder() *Builder {
	return &Builder{
		text: append([]rune(nil), s.text...),
		runs: append([]runLim(nil), s.runs...),
	}
}

// Spans returns the runs of s as Spans.
func (s String) Spans() []Span {
	spans := make([]Span, 0, len(s.runs))
	for i := range s.runs {
		min, lim, p := s.Run(i)
		spans = append(spans, Span{Text: string(s.text[min:lim]), Props: p})
	}
	return spans
}

// Fields returns a readable description of the runs, for debugging.
func (s String) Fields() string {
	var sb strings.Builder
	for i, sp := range s.Spans() {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(sp.Text)
	}
	return sb.String()
}

func runIndex(runs []runLim, ich int) int {
	for i, r := range runs {
		if ich < r.lim {
			return i
		}
	}
	return len(runs) - 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
