// Package doctest contains utility functions that help with testing the
// selection engine: structured text documents, view constructors that
// show them in different shapes, and sites and data stores that record
// what the engine asks of them.
package doctest

import (
	"testing"
	"time"

	"github.com/rjkroege/richedit/boxes"
	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/sda"
	"github.com/sanity-io/litter"
)

// Ws is the writing system of test text.
const Ws = 1

// Props are the properties of test text.
var Props = rich.Props{Ws: Ws}

// Style is the paragraph style given to every test paragraph.
const Style = "Normal"

// Extra properties shown by FieldVC.
const (
	TagName   sda.Tag = 90001
	TagNumber sda.Tag = 90002
)

// Layout metrics of roots made by NewRoot.
const (
	CharWidth  = 10
	LineHeight = 20
	Width      = 400
)

// NewText returns a cache holding a structured text with one paragraph
// per string.
func NewText(t testing.TB, paras ...string) (*sda.Cache, sda.Hvo) {
	t.Helper()
	c := sda.NewCache()
	text := c.NewObject(sda.ClassStText)
	for i, s := range paras {
		h, err := c.MakeNewObject(sda.ClassStTxtPara, text, sda.TagParagraphs, i)
		if err != nil {
			t.Fatalf("MakeNewObject: %v", err)
		}
		str := rich.Empty(Props)
		if s != "" {
			str = rich.Plain(s, Props)
		}
		if err := c.SetString(h, sda.TagContents, str); err != nil {
			t.Fatalf("SetString: %v", err)
		}
		if err := c.SetUnicode(h, sda.TagStyleRules, Style); err != nil {
			t.Fatalf("SetUnicode: %v", err)
		}
	}
	return c, text
}

// NewRoot returns a root showing hvo of da with vc. The root uses fixed
// metrics: CharWidth pixels per character, LineHeight per line and
// Width across.
func NewRoot(t testing.TB, da sda.DataAccess, hvo sda.Hvo, vc boxes.ViewConstructor, opts ...boxes.Option) *boxes.Root {
	t.Helper()
	opts = append([]boxes.Option{
		boxes.WithCharWidth(CharWidth),
		boxes.WithLineHeight(LineHeight),
		boxes.WithWidth(Width),
	}, opts...)
	r := boxes.NewRoot(da, opts...)
	if err := r.SetRootObject(hvo, vc, FragText); err != nil {
		t.Fatalf("SetRootObject: %v", err)
	}
	return r
}

// Paras returns the contents of each paragraph of text.
func Paras(da sda.DataAccess, text sda.Hvo) []string {
	var out []string
	for i, n := 0, da.VecSize(text, sda.TagParagraphs); i < n; i++ {
		h, err := da.VecItem(text, sda.TagParagraphs, i)
		if err != nil {
			continue
		}
		out = append(out, da.StringProp(h, sda.TagContents).Text())
	}
	return out
}

// Texts returns the displayed text of each paragraph of r.
func Texts(r *boxes.Root) []string {
	var out []string
	for _, p := range r.Paragraphs() {
		out = append(out, p.Source().Text().Text())
	}
	return out
}

// Dump formats v for a test failure message.
func Dump(v any) string {
	sq := litter.Options{
		HidePrivateFields: false,
		HideZeroValues:    true,
		Compact:           true,
	}
	return sq.Sdump(v)
}

// Clock is a fake clock that moves forward by Step every time it is
// read.
type Clock struct {
	T     time.Time
	Step  time.Duration
	Reads int
}

// Now returns the current fake time and advances it.
func (c *Clock) Now() time.Time {
	c.Reads++
	t := c.T
	c.T = c.T.Add(c.Step)
	return t
}
