package boxes

// Traversal follows the root sequence: a pre-order walk of the box tree
// in which a paragraph comes before the boxes embedded in it.

// NextInRootSeq returns the box after b in the root sequence, or nil.
// Lazy boxes are returned as they are.
func NextInRootSeq(b Box) Box {
	if c, ok := b.(Container); ok {
		if ch := c.Children(); len(ch) > 0 {
			return ch[0]
		}
	}
	return nextSkippingChildren(b)
}

// NextOrLazy returns the box after b in the root sequence, not
// descending into b.
func NextOrLazy(b Box) Box {
	return nextSkippingChildren(b)
}

func nextSkippingChildren(b Box) Box {
	for b != nil {
		p := b.Parent()
		if p == nil {
			return nil
		}
		ch := p.Children()
		for i, c := range ch {
			if c == b && i+1 < len(ch) {
				return ch[i+1]
			}
		}
		b = p
	}
	return nil
}

// PrevInRootSeq returns the box before b in the root sequence, or nil.
func PrevInRootSeq(b Box) Box {
	p := b.Parent()
	if p == nil {
		return nil
	}
	ch := p.Children()
	for i, c := range ch {
		if c != b {
			continue
		}
		if i == 0 {
			return p
		}
		return lastDescendant(ch[i-1])
	}
	return p
}

func lastDescendant(b Box) Box {
	for {
		c, ok := b.(Container)
		if !ok {
			return b
		}
		ch := c.Children()
		if len(ch) == 0 {
			return b
		}
		b = ch[len(ch)-1]
	}
}

// NextPara returns the paragraph after p in the root sequence, or nil.
// When expand is true lazy boxes met on the way are expanded.
func NextPara(p *Para, expand bool) *Para {
	for b := NextInRootSeq(p); b != nil; {
		switch v := b.(type) {
		case *Para:
			return v
		case *Lazy:
			if !expand {
				b = NextOrLazy(v)
				continue
			}
			prev := PrevInRootSeq(v)
			added, ok := v.Expand()
			if !ok {
				b = NextOrLazy(v)
				continue
			}
			if len(added) == 0 {
				if prev == nil {
					return nil
				}
				b = NextOrLazy(prev)
				continue
			}
			b = added[0]
			continue
		}
		b = NextInRootSeq(b)
	}
	return nil
}

// PrevPara returns the paragraph before p in the root sequence, or nil.
func PrevPara(p *Para, expand bool) *Para {
	for b := PrevInRootSeq(p); b != nil; {
		switch v := b.(type) {
		case *Para:
			return v
		case *Lazy:
			if !expand {
				b = PrevInRootSeq(v)
				continue
			}
			added, ok := v.Expand()
			if !ok {
				b = PrevInRootSeq(v)
				continue
			}
			if len(added) == 0 {
				return nil
			}
			b = lastDescendant(added[len(added)-1])
			continue
		}
		b = PrevInRootSeq(b)
	}
	return nil
}

// FirstPara returns the first paragraph under c.
func FirstPara(c Container, expand bool) *Para {
	for _, b := range c.Children() {
		switch v := b.(type) {
		case *Para:
			return v
		case *Lazy:
			if !expand {
				continue
			}
			if _, ok := v.Expand(); ok {
				return FirstPara(c, expand)
			}
		case Container:
			if p := FirstPara(v, expand); p != nil {
				return p
			}
		}
	}
	return nil
}

// LastPara returns the last paragraph under c, descending into the
// boxes embedded in a paragraph.
func LastPara(c Container, expand bool) *Para {
	ch := c.Children()
	for i := len(ch) - 1; i >= 0; i-- {
		switch v := ch[i].(type) {
		case *Para:
			if q := LastPara(v, expand); q != nil {
				return q
			}
			return v
		case *Lazy:
			if !expand {
				continue
			}
			if _, ok := v.Expand(); ok {
				return LastPara(c, expand)
			}
		case Container:
			if p := LastPara(v, expand); p != nil {
				return p
			}
		}
	}
	return nil
}

// Paragraphs returns every laid-out paragraph under c in root order.
func Paragraphs(c Container) []*Para {
	var out []*Para
	var walk func(Container)
	walk = func(c Container) {
		for _, b := range c.Children() {
			if p, ok := b.(*Para); ok {
				out = append(out, p)
			}
			if cc, ok := b.(Container); ok {
				walk(cc)
			}
		}
	}
	walk(c)
	return out
}

// Compare orders two paragraphs of the same root: negative when a comes
// first, zero when equal.
func Compare(a, b *Para) int {
	if a == b {
		return 0
	}
	top := Box(a)
	for p := a.Parent(); p != nil; p = p.Parent() {
		top = p
	}
	c, ok := top.(Container)
	if !ok {
		return 0
	}
	for _, p := range Paragraphs(c) {
		switch p {
		case a:
			return -1
		case b:
			return 1
		}
	}
	return 0
}
