package rich

// Builder is a mutable formatted string. The zero value is an empty
// Builder ready to use.
type Builder struct {
	text []rune
	runs []runLim
}

// NewBuilder returns an empty Builder whose text will default to props p.
func NewBuilder(p Props) *Builder {
	return &Builder{runs: []runLim{{lim: 0, props: p}}}
}

// Len returns the number of runes in b.
func (b *Builder) Len() int {
	return len(b.text)
}

// Text returns the plain text of b.
func (b *Builder) Text() string {
	return string(b.text)
}

// RuneAt returns the rune at ich, or 0 when ich is out of range.
func (b *Builder) RuneAt(ich int) rune {
	if ich < 0 || ich >= len(b.text) {
		return 0
	}
	return b.text[ich]
}

// PropsAt returns the properties of the character at ich.
func (b *Builder) PropsAt(ich int) Props {
	if len(b.runs) == 0 {
		return Props{}
	}
	return b.runs[runIndex(b.runs, ich)].props
}

// RunAt returns the bounds and properties of the run containing ich.
func (b *Builder) RunAt(ich int) (min, lim int, p Props) {
	if len(b.runs) == 0 {
		return 0, 0, Props{}
	}
	i := runIndex(b.runs, ich)
	if i > 0 {
		min = b.runs[i-1].lim
	}
	return min, b.runs[i].lim, b.runs[i].props
}

// Value returns an immutable snapshot of b.
func (b *Builder) Value() String {
	s := String{
		text: append([]rune(nil), b.text...),
		runs: append([]runLim(nil), b.runs...),
	}
	if len(s.text) > 0 {
		s.runs = trimEmptyRuns(s.runs)
	}
	return s
}

// Replace replaces [min, lim) with s.
func (b *Builder) Replace(min, lim int, s String) {
	min, lim = clamp(min, 0, len(b.text)), clamp(lim, 0, len(b.text))
	if lim < min {
		min, lim = lim, min
	}
	head := b.slice(0, min)
	tail := b.slice(lim, len(b.text))

	var nb Builder
	nb.appendFrom(head)
	if s.Len() == 0 && head.Len() == 0 && tail.Len() == 0 && len(s.runs) > 0 {
		// Keep the properties of an empty replacement so that an empty
		// result is not property-less.
		nb.runs = []runLim{{lim: 0, props: s.runs[0].props}}
	}
	nb.appendFrom(s)
	nb.appendFrom(tail)
	if len(nb.text) == 0 && len(nb.runs) == 0 {
		nb.runs = []runLim{{lim: 0, props: b.PropsAt(min)}}
	}
	b.text, b.runs = nb.text, nb.runs
}

// ReplaceRunes replaces [min, lim) with text formatted with p.
func (b *Builder) ReplaceRunes(min, lim int, text string, p Props) {
	if text == "" {
		b.Replace(min, lim, Empty(p))
		return
	}
	b.Replace(min, lim, Plain(text, p))
}

// SetProps applies p to [min, lim).
func (b *Builder) SetProps(min, lim int, p Props) {
	min, lim = clamp(min, 0, len(b.text)), clamp(lim, 0, len(b.text))
	if min >= lim {
		return
	}
	b.Replace(min, lim, Plain(string(b.text[min:lim]), p))
}

// slice returns [min, lim) of b as a String without merging.
func (b *Builder) slice(min, lim int) String {
	return b.Value().Substring(min, lim)
}

// appendFrom appends the text and runs of s.
func (b *Builder) appendFrom(s String) {
	for i := range s.runs {
		min, lim, p := s.Run(i)
		b.appendRunes(s.text[min:lim], p)
	}
}

// appendRunes appends text formatted with p, merging with the last run
// when the properties match.
func (b *Builder) appendRunes(text []rune, p Props) {
	if len(text) == 0 {
		return
	}
	b.text = append(b.text, text...)
	n := len(b.runs)
	switch {
	case n > 0 && b.runs[n-1].props == p:
		b.runs[n-1].lim = len(b.text)
	case n > 0 && (n == 1 && b.runs[0].lim == 0):
		b.runs[0] = runLim{lim: len(b.text), props: p}
	default:
		b.runs = append(b.runs, runLim{lim: len(b.text), props: p})
	}
}

func trimEmptyRuns(runs []runLim) []runLim {
	out := runs[:0]
	prev := 0
	for _, r := range runs {
		if r.lim > prev {
			out = append(out, r)
			prev = r.lim
		}
	}
	return out
}
