package doctest

import (
	"image"
	"strings"

	"github.com/rjkroege/richedit/boxes"
	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/sda"
)

// Fragments understood by the view constructors of this package.
const (
	FragText = iota
	FragPara
)

func paraProps(env *boxes.Env, hvo sda.Hvo, rtl bool) rich.ParaProps {
	return rich.ParaProps{
		NamedStyle:  env.DataAccess().UnicodeProp(hvo, sda.TagStyleRules),
		RightToLeft: rtl,
	}
}

// TextVC shows a structured text as one paragraph per item.
type TextVC struct {
	ReadOnly bool
	// Lazy lays paragraphs out only when a traversal reaches them.
	Lazy bool
	RTL  bool
	// Prefix and Suffix are literal text shown around the contents of
	// each paragraph.
	Prefix string
	Suffix string
	// Picture, when set, is shown inline before the contents.
	Picture bool
	// Title, when set, is shown as a read-only paragraph before the
	// items. It stays laid out when the items are lazy.
	Title string
	// Inset names a paragraph style. Paragraphs with that style are
	// shown inside a moveable pile of their own.
	Inset string
}

func (vc *TextVC) Display(env *boxes.Env, hvo sda.Hvo, frag int) error {
	switch frag {
	case FragText:
		if vc.Title != "" {
			env.OpenParagraph(rich.ParaProps{})
			env.AddString(rich.Plain(vc.Title, Props))
			env.CloseParagraph()
		}
		env.SetEditable(!vc.ReadOnly)
		if vc.Lazy {
			env.AddLazyVecItems(sda.TagParagraphs, vc, FragPara)
		} else {
			env.AddObjVecItems(sda.TagParagraphs, vc, FragPara)
		}
	case FragPara:
		inset := vc.Inset != "" && env.DataAccess().UnicodeProp(hvo, sda.TagStyleRules) == vc.Inset
		if inset {
			env.OpenMoveablePile()
		}
		env.OpenParagraph(paraProps(env, hvo, vc.RTL))
		if vc.Prefix != "" {
			env.AddString(rich.Plain(vc.Prefix, Props))
		}
		if vc.Picture {
			env.AddPicture(rich.ObjData{Kind: rich.ObjPicture, Ref: "pic"}, image.Pt(CharWidth, LineHeight), sda.TagContents)
		}
		env.AddStringProp(sda.TagContents)
		if vc.Suffix != "" {
			env.AddString(rich.Plain(vc.Suffix, Props))
		}
		env.CloseParagraph()
		if inset {
			env.CloseMoveablePile()
		}
	}
	return nil
}

// FieldVC shows each paragraph object as a line of fields: its contents,
// its name (a plain string) and its number (an integer).
type FieldVC struct{}

func (vc FieldVC) Display(env *boxes.Env, hvo sda.Hvo, frag int) error {
	switch frag {
	case FragText:
		env.SetEditable(true)
		env.AddObjVecItems(sda.TagParagraphs, vc, FragPara)
	case FragPara:
		env.OpenParagraph(paraProps(env, hvo, false))
		env.AddStringProp(sda.TagContents)
		env.AddString(rich.Plain(" | ", Props))
		env.AddUnicodeProp(TagName, Ws, Props)
		env.AddString(rich.Plain(" | ", Props))
		env.AddIntProp(TagNumber, Props)
		env.CloseParagraph()
	}
	return nil
}

// InterlinearVC shows each paragraph with every word of its contents
// glossed: the paragraph holds a read-only pile per word, with the word
// above its upper-cased gloss.
type InterlinearVC struct{}

func (vc InterlinearVC) Display(env *boxes.Env, hvo sda.Hvo, frag int) error {
	switch frag {
	case FragText:
		env.AddObjVecItems(sda.TagParagraphs, vc, FragPara)
	case FragPara:
		env.OpenParagraph(paraProps(env, hvo, false))
		for i, w := range strings.Fields(env.DataAccess().StringProp(hvo, sda.TagContents).Text()) {
			if i > 0 {
				env.AddString(rich.Plain(" ", Props))
			}
			env.OpenInnerPile()
			for _, line := range []string{w, strings.ToUpper(w)} {
				env.OpenParagraph(rich.ParaProps{})
				env.AddString(rich.Plain(line, Props))
				env.CloseParagraph()
			}
			env.CloseInnerPile()
		}
		env.CloseParagraph()
	}
	return nil
}

// TableVC shows a structured text as a table with a row per paragraph:
// the contents in the first cell and the paragraph style in the second.
type TableVC struct{}

func (vc TableVC) Display(env *boxes.Env, hvo sda.Hvo, frag int) error {
	switch frag {
	case FragText:
		env.SetEditable(true)
		env.OpenTable()
		env.AddObjVecItems(sda.TagParagraphs, vc, FragPara)
		env.CloseTable()
	case FragPara:
		env.OpenRow()
		env.OpenCell()
		env.OpenParagraph(paraProps(env, hvo, false))
		env.AddStringProp(sda.TagContents)
		env.CloseParagraph()
		env.CloseCell()
		env.OpenCell()
		env.OpenParagraph(rich.ParaProps{})
		env.AddUnicodeProp(sda.TagStyleRules, Ws, Props)
		env.CloseParagraph()
		env.CloseCell()
		env.CloseRow()
	}
	return nil
}
