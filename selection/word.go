package selection

import (
	"github.com/rjkroege/richedit/boxes"
	"github.com/rjkroege/richedit/charprops"
	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/rootsite"
)

type wordState int

const (
	wsInitial wordState = iota
	wsSkipPunc
	wsSkipAlpha
	wsWantNonSpace
	wsFinal
)

// wordTable is the transition table of forward word motion.
var wordTable = [...][3]wordState{
	//                Space           Punct           Alpha
	wsInitial:      {wsInitial, wsSkipPunc, wsSkipAlpha},
	wsSkipPunc:     {wsWantNonSpace, wsSkipPunc, wsFinal},
	wsSkipAlpha:    {wsWantNonSpace, wsFinal, wsSkipAlpha},
	wsWantNonSpace: {wsWantNonSpace, wsFinal, wsFinal},
	wsFinal:        {wsWantNonSpace, wsFinal, wsFinal},
}

// wordText is text classified for word motion. Each character is
// classified by the writing system of its run.
type wordText struct {
	text  []rune
	props func(i int) rich.Props
	chars *charprops.Registry
}

func (s *TextSelection) paraWords(p *boxes.Para) *wordText {
	src := p.Source()
	return &wordText{text: src.LogicalRunes(), props: src.PropsAt, chars: s.cfg.chars}
}

func (t *wordText) raw(i int) charprops.Class {
	return charprops.Classify(t.chars.ForWs(t.props(i).Ws), t.text[i])
}

// class classifies t.text[i]. An apostrophe between letters is part of
// the word.
func (t *wordText) class(i int) charprops.Class {
	c := t.raw(i)
	if c == charprops.Punct && t.text[i] == '\'' && i > 0 && i+1 < len(t.text) &&
		t.raw(i-1) == charprops.Alpha && t.raw(i+1) == charprops.Alpha {
		return charprops.Alpha
	}
	return c
}

// runBreak reports whether a run with different writing system or style
// starts at i.
func (t *wordText) runBreak(i int) bool {
	if i <= 0 || i >= len(t.text) {
		return false
	}
	a, b := t.props(i-1), t.props(i)
	return a.Ws != b.Ws || a.NamedStyle != b.NamedStyle
}

// nextStop returns where forward word motion from ich stops: the first
// boundary after ich at which valid holds, or the end of the text.
func (t *wordText) nextStop(ich int, valid func(int) bool) int {
	st := wsInitial
	for i := ich; i < len(t.text); i++ {
		if i > ich && t.runBreak(i) {
			st = wsFinal
		} else {
			st = wordTable[st][t.class(i)]
		}
		if st == wsFinal {
			if valid(i) {
				return i
			}
			st = wsWantNonSpace
		}
	}
	return len(t.text)
}

// prevStop returns where backward word motion from ich stops: leading
// spaces are skipped, then one token, stopping at its start.
func (t *wordText) prevStop(ich int, valid func(int) bool) int {
	st := wsInitial
	for i := ich - 1; i >= 0; i-- {
		if st != wsInitial && t.runBreak(i+1) && valid(i+1) {
			return i + 1
		}
		c := t.class(i)
		switch st {
		case wsInitial:
			switch c {
			case charprops.Punct:
				st = wsSkipPunc
			case charprops.Alpha:
				st = wsSkipAlpha
			}
			continue
		case wsSkipPunc:
			if c == charprops.Punct {
				continue
			}
		case wsSkipAlpha:
			if c == charprops.Alpha {
				continue
			}
		}
		if valid(i + 1) {
			return i + 1
		}
		// Not a place a caret may go: carry on with the token at i.
		st = wordTable[wsInitial][c]
	}
	return 0
}

// wordBounds returns the token containing ich: a word, a run of
// punctuation or a run of spaces.
func (t *wordText) wordBounds(ich int, assocPrev bool) (int, int) {
	if len(t.text) == 0 {
		return 0, 0
	}
	i := ich
	if i >= len(t.text) || (assocPrev && i > 0 && t.class(i-1) == charprops.Alpha && t.class(i) != charprops.Alpha) {
		i--
	}
	i = max(i, 0)
	c := t.class(i)
	lo, hi := i, i+1
	for lo > 0 && t.class(lo-1) == c && !t.runBreak(lo) {
		lo--
	}
	for hi < len(t.text) && t.class(hi) == c && !t.runBreak(hi) {
		hi++
	}
	return lo, hi
}

// stepWord moves to the next or previous word start, crossing into
// adjacent paragraphs at their ends.
func (s *TextSelection) stepWord(g rootsite.Graphics, from pos, fwd, needEditable bool) (pos, bool) {
	cur := from
	crossed := 0
	for {
		p := cur.para
		valid := func(i int) bool { return isValidIP(g, p, i) }
		var cand pos
		moved := false
		switch {
		case fwd && cur.ich < p.Len():
			n := s.paraWords(p).nextStop(cur.ich, valid)
			cand, moved = pos{p, n, n == p.Len()}, n > cur.ich
		case !fwd && cur.ich > 0:
			n := s.paraWords(p).prevStop(cur.ich, valid)
			cand, moved = pos{p, n, false}, n < cur.ich
		}
		if !moved {
			crossed++
			if crossed > s.cfg.maxParas {
				return from, false
			}
			q := s.adjacentPara(p, fwd)
			if q == nil {
				return from, false
			}
			if fwd {
				cand = pos{q, 0, false}
			} else {
				cand = pos{q, q.Len(), true}
			}
		}
		if !needEditable {
			return cand, true
		}
		if c, ok := settle(cand); ok {
			return c, true
		}
		cur = cand
	}
}
