package boxes

import (
	"bytes"
	"errors"
	"image"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/sda"
)

const (
	fragText = iota
	fragPara
)

// textVC shows a structured text as one paragraph per item.
type textVC struct {
	readOnly bool
	lazy     bool
	rtl      bool
}

func (vc *textVC) Display(env *Env, hvo sda.Hvo, frag int) error {
	switch frag {
	case fragText:
		if vc.lazy {
			env.AddLazyVecItems(sda.TagParagraphs, vc, fragPara)
		} else {
			env.AddObjVecItems(sda.TagParagraphs, vc, fragPara)
		}
	case fragPara:
		env.SetEditable(!vc.readOnly)
		env.OpenParagraph(rich.ParaProps{
			NamedStyle:  env.DataAccess().UnicodeProp(hvo, sda.TagStyleRules),
			RightToLeft: vc.rtl,
		})
		env.AddStringProp(sda.TagContents)
		env.CloseParagraph()
	}
	return nil
}

func newText(t *testing.T, paras ...string) (*sda.Cache, sda.Hvo) {
	t.Helper()
	c := sda.NewCache()
	text := c.NewObject(sda.ClassStText)
	for i, s := range paras {
		h, err := c.MakeNewObject(sda.ClassStTxtPara, text, sda.TagParagraphs, i)
		if err != nil {
			t.Fatalf("MakeNewObject: %v", err)
		}
		if err := c.SetString(h, sda.TagContents, rich.Plain(s, plain)); err != nil {
			t.Fatalf("SetString: %v", err)
		}
	}
	return c, text
}

func newRoot(t *testing.T, vc ViewConstructor, paras ...string) (*Root, *sda.Cache, sda.Hvo) {
	t.Helper()
	c, text := newText(t, paras...)
	r := NewRoot(c, WithCharWidth(10), WithLineHeight(20), WithWidth(80))
	if err := r.SetRootObject(text, vc, fragText); err != nil {
		t.Fatalf("SetRootObject: %v", err)
	}
	return r, c, text
}

func texts(r *Root) []string {
	var out []string
	for _, p := range r.Paragraphs() {
		out = append(out, p.Source().Text().Text())
	}
	return out
}

func TestLayoutWrapsWords(t *testing.T) {
	r, _, _ := newRoot(t, &textVC{}, "hello world", "x")
	ps := r.Paragraphs()
	if len(ps) != 2 {
		t.Fatalf("got %d paragraphs", len(ps))
	}
	type span struct{ Min, Lim, Top int }
	var got []span
	for _, ln := range ps[0].Lines() {
		got = append(got, span{ln.RenMin, ln.RenLim, ln.Rect.Min.Y})
	}
	want := []span{{0, 6, 0}, {6, 11, 20}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lines (-want +got):\n%s", diff)
	}
	if got := ps[1].Rect().Min.Y; got != 40 {
		t.Errorf("second paragraph top = %d, want 40", got)
	}
}

func TestPositionOfIP(t *testing.T) {
	tests := []struct {
		name      string
		rtl       bool
		ich       int
		assocPrev bool
		want      image.Rectangle
	}{
		{"ltr start", false, 0, false, image.Rect(0, 0, 1, 20)},
		{"ltr middle", false, 2, true, image.Rect(20, 0, 21, 20)},
		{"line end stays on first line", false, 6, true, image.Rect(60, 0, 61, 20)},
		{"line start of second line", false, 6, false, image.Rect(0, 20, 1, 40)},
		{"rtl start is the right edge", true, 0, false, image.Rect(80, 0, 81, 20)},
		{"rtl offset moves left", true, 2, true, image.Rect(60, 0, 61, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newRoot(t, &textVC{rtl: tt.rtl}, "hello world")
			got, ok := r.Paragraphs()[0].PositionOfIP(tt.ich, tt.assocPrev)
			if !ok {
				t.Fatal("no caret")
			}
			if got != tt.want {
				t.Errorf("PositionOfIP = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointToPosition(t *testing.T) {
	r, _, _ := newRoot(t, &textVC{}, "hello world", "abc")
	tests := []struct {
		pt      image.Point
		wantPar int
		wantIch int
	}{
		{image.Pt(21, 5), 0, 2},
		{image.Pt(500, 5), 0, 6},
		{image.Pt(1, 25), 0, 6},
		{image.Pt(14, 45), 1, 1},
		{image.Pt(2, 500), 1, 0},
	}
	ps := r.Paragraphs()
	for _, tt := range tests {
		p, ich, _, ok := r.PointToPosition(tt.pt)
		if !ok {
			t.Errorf("PointToPosition(%v) failed", tt.pt)
			continue
		}
		if p != ps[tt.wantPar] || ich != tt.wantIch {
			t.Errorf("PointToPosition(%v) = para %v ich %d, want para %d ich %d", tt.pt, p == ps[0], ich, tt.wantPar, tt.wantIch)
		}
	}
}

func TestEditableSubstringAt(t *testing.T) {
	c, text := newText(t, "body")
	h, _ := c.VecItem(text, sda.TagParagraphs, 0)
	c.SetUnicode(h, sda.TagStyleRules, "Normal")
	vc := VCFunc(func(env *Env, hvo sda.Hvo, frag int) error {
		if frag == fragText {
			env.AddObjVecItems(sda.TagParagraphs, VCFunc(func(env *Env, hvo sda.Hvo, frag int) error {
				env.OpenParagraph(rich.ParaProps{})
				env.AddString(rich.Plain("> ", plain))
				env.AddStringProp(sda.TagContents)
				env.SetEditable(false)
				env.AddUnicodeProp(sda.TagStyleRules, 1, plain)
				env.CloseParagraph()
				return nil
			}), fragPara)
		}
		return nil
	})
	r := NewRoot(c)
	if err := r.SetRootObject(text, vc, fragText); err != nil {
		t.Fatal(err)
	}
	p := r.Paragraphs()[0]

	tests := []struct {
		name       string
		min, lim   int
		assocPrev  bool
		wantStatus EditStatus
		wantMin    int
		wantTag    sda.Tag
	}{
		{"literal prefix", 1, 1, false, ReadOnly, 0, 0},
		{"start of contents", 2, 2, false, Editable, 2, sda.TagContents},
		{"boundary prefers editable", 2, 2, true, Editable, 2, sda.TagContents},
		{"end of contents", 6, 6, true, Editable, 2, sda.TagContents},
		{"read-only style", 8, 8, false, ReadOnly, 6, sda.TagStyleRules},
		{"range inside contents", 3, 5, false, Editable, 2, sda.TagContents},
		{"range across items", 1, 4, false, NotFound, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EditableSubstringAt(p, tt.min, tt.lim, tt.assocPrev)
			if res.Status != tt.wantStatus {
				t.Fatalf("Status = %v, want %v", res.Status, tt.wantStatus)
			}
			if res.Status == NotFound {
				return
			}
			if res.Ctx.IchMin != tt.wantMin || res.Ctx.Ref.Tag != tt.wantTag {
				t.Errorf("Ctx = min %d tag %d, want min %d tag %d", res.Ctx.IchMin, res.Ctx.Ref.Tag, tt.wantMin, tt.wantTag)
			}
		})
	}
}

func TestNotifierLevels(t *testing.T) {
	r, _, _ := newRoot(t, &textVC{}, "a", "b", "c")
	p := r.Paragraphs()[2]
	want := []Level{{Tag: sda.TagParagraphs, Ihvo: 2}}
	if diff := cmp.Diff(want, p.Notifier.Levels()); diff != "" {
		t.Errorf("Levels (-want +got):\n%s", diff)
	}
	if !p.Notifier.IsParagraphOfText() {
		t.Error("paragraph notifier not recognised as a paragraph of text")
	}
}

func TestStringChangeUpdatesInPlace(t *testing.T) {
	r, c, text := newRoot(t, &textVC{}, "cat", "dog")
	before := r.Paragraphs()[0]
	h, _ := c.VecItem(text, sda.TagParagraphs, 0)
	if err := c.SetString(h, sda.TagContents, rich.Plain("cats", plain)); err != nil {
		t.Fatal(err)
	}
	after := r.Paragraphs()[0]
	if before != after {
		t.Error("string change rebuilt the paragraph")
	}
	if diff := cmp.Diff([]string{"cats", "dog"}, texts(r)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if len(r.Invalidated()) == 0 {
		t.Error("no invalidation recorded")
	}
}

type fakeSel struct {
	req      SelRequest
	detached bool
}

func (s *fakeSel) IsValid() bool                { return !s.detached }
func (s *fakeSel) IsRange() bool                { return s.req.Range }
func (s *fakeSel) Location() (SelRequest, bool) { return s.req, true }
func (s *fakeSel) Detach()                      { s.detached = true }

func TestRebuildRestoresSelection(t *testing.T) {
	r, c, text := newRoot(t, &textVC{}, "one", "two")
	var made []SelRequest
	r.SetSelectionFactory(func(r *Root, req SelRequest) (Selection, error) {
		made = append(made, req)
		return &fakeSel{req: req}, nil
	})
	old := &fakeSel{req: IPRequest([]Level{{sda.TagParagraphs, 1}}, sda.TagContents, 0, 2, true)}
	r.SetSelection(old)
	first := r.Paragraphs()[0]

	if err := c.InsertNew(text, sda.TagParagraphs, 1, 1, nil); err != nil {
		t.Fatal(err)
	}
	if !first.IsDead() {
		t.Error("old paragraph still alive after rebuild")
	}
	if !old.detached {
		t.Error("old selection was not detached")
	}
	if len(made) != 1 || made[0].Anchor.Ich != 2 {
		t.Fatalf("selection requests = %+v", made)
	}
	if diff := cmp.Diff([]string{"one", "two", ""}, texts(r)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRequestSelectionAtEndOfUow(t *testing.T) {
	r, c, text := newRoot(t, &textVC{}, "helloworld")
	var got []SelRequest
	r.SetSelectionFactory(func(r *Root, req SelRequest) (Selection, error) {
		got = append(got, req)
		return &fakeSel{req: req}, nil
	})
	h, _ := c.VecItem(text, sda.TagParagraphs, 0)

	c.BeginUndoTask("Undo typing", "Redo typing")
	if err := c.InsertNew(text, sda.TagParagraphs, 0, 1, nil); err != nil {
		t.Fatal(err)
	}
	h1, _ := c.VecItem(text, sda.TagParagraphs, 1)
	if err := c.MoveString(h, sda.TagContents, 5, 10, h1, sda.TagContents, 0); err != nil {
		t.Fatal(err)
	}
	r.RequestSelectionAtEndOfUow(IPRequest([]Level{{sda.TagParagraphs, 1}}, sda.TagContents, 0, 0, false))
	if len(got) != 0 {
		t.Fatal("selection made before the task ended")
	}
	c.EndUndoTask()

	if len(got) != 1 {
		t.Fatalf("got %d selection requests, want 1", len(got))
	}
	p, ich, ok := r.FindPosition(got[0].Anchor)
	if !ok || p != r.Paragraphs()[1] || ich != 0 {
		t.Errorf("FindPosition = %v %d %v", p, ich, ok)
	}
	if diff := cmp.Diff([]string{"hello", "world"}, texts(r)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLocateFindPositionRoundTrip(t *testing.T) {
	r, _, _ := newRoot(t, &textVC{}, "alpha", "beta")
	for pi, p := range r.Paragraphs() {
		for ich := 0; ich <= p.Len(); ich++ {
			e, ok := Locate(p, ich, false)
			if !ok {
				t.Fatalf("Locate(%d, %d) failed", pi, ich)
			}
			q, got, ok := r.FindPosition(e)
			if !ok || q != p || got != ich {
				t.Errorf("FindPosition(Locate(%d, %d)) = %d", pi, ich, got)
			}
		}
	}
}

func TestLazyExpansion(t *testing.T) {
	r, _, _ := newRoot(t, &textVC{lazy: true}, "a", "b", "c")
	if n := len(r.Paragraphs()); n != 0 {
		t.Fatalf("lazy view laid out %d paragraphs", n)
	}
	p := FirstPara(r.Body(), true)
	if p == nil {
		t.Fatal("FirstPara did not expand")
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, texts(r)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if NextPara(p, true) == nil {
		t.Error("NextPara after expansion = nil")
	}
}

func TestLazyExpansionLogsErrors(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	var vc VCFunc
	vc = func(env *Env, hvo sda.Hvo, frag int) error {
		if frag == fragText {
			env.AddLazyVecItems(sda.TagParagraphs, vc, fragPara)
			return nil
		}
		return errors.New("no view for paragraphs")
	}
	c, text := newText(t, "a", "b")
	r := NewRoot(c, WithCharWidth(10), WithLineHeight(20), WithWidth(80))
	if err := r.SetRootObject(text, vc, fragText); err != nil {
		t.Fatalf("SetRootObject: %v", err)
	}
	r.ExpandAll()
	if n := len(r.Body().Children()); n != 0 {
		t.Errorf("body has %d boxes after a failed expansion", n)
	}
	if !strings.Contains(buf.String(), "no view for paragraphs") {
		t.Errorf("log = %q, want the display error", buf.String())
	}
}

func TestUnexpandableLazyIsSkipped(t *testing.T) {
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	r, _, _ := newRoot(t, &textVC{}, "a")
	p := FirstPara(r.Body(), false)
	orphan := &Lazy{items: []sda.Hvo{1}}
	r.body.add(orphan)

	if _, ok := orphan.Expand(); ok {
		t.Fatal("a lazy box without a root expanded")
	}
	r.ExpandAll()
	if got := r.Body().Children(); got[len(got)-1] != orphan {
		t.Errorf("ExpandAll removed the unexpandable box")
	}
	if q := NextPara(p, true); q != nil {
		t.Errorf("NextPara found %q past the unexpandable box", q.Source().Text().Text())
	}
	if q := LastPara(r.Body(), true); q != p {
		t.Errorf("LastPara = %v, want the only paragraph", q)
	}
}

func TestTraversalOrder(t *testing.T) {
	c, text := newText(t, "first", "second")
	gloss := sda.Tag(99)
	h0, _ := c.VecItem(text, sda.TagParagraphs, 0)
	c.SetUnicode(h0, gloss, "g")
	vc := VCFunc(func(env *Env, hvo sda.Hvo, frag int) error {
		if frag == fragText {
			env.AddObjVecItems(sda.TagParagraphs, VCFunc(func(env *Env, hvo sda.Hvo, frag int) error {
				env.OpenParagraph(rich.ParaProps{})
				env.AddStringProp(sda.TagContents)
				if env.DataAccess().UnicodeProp(hvo, gloss) != "" {
					env.OpenInnerPile()
					env.OpenParagraph(rich.ParaProps{})
					env.AddUnicodeProp(gloss, 1, plain)
					env.CloseParagraph()
					env.CloseInnerPile()
				}
				env.CloseParagraph()
				return nil
			}), fragPara)
		}
		return nil
	})
	r := NewRoot(c, WithWidth(400))
	if err := r.SetRootObject(text, vc, fragText); err != nil {
		t.Fatal(err)
	}
	ps := r.Paragraphs()
	if diff := cmp.Diff([]string{"first\ufffc", "g", "second"}, texts(r)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if !ps[0].HasInnerPiles() {
		t.Error("interlinear paragraph has no inner piles")
	}
	var fwd []*Para
	for p := ps[0]; p != nil; p = NextPara(p, false) {
		fwd = append(fwd, p)
	}
	var back []*Para
	for p := ps[2]; p != nil; p = PrevPara(p, false) {
		back = append(back, p)
	}
	if len(fwd) != 3 || len(back) != 3 || fwd[1] != ps[1] || back[1] != ps[1] {
		t.Errorf("traversal forward %d back %d", len(fwd), len(back))
	}
	if Compare(ps[2], ps[0]) <= 0 || Compare(ps[0], ps[1]) >= 0 {
		t.Error("Compare ordered paragraphs wrongly")
	}
}

func TestTableCells(t *testing.T) {
	c, text := newText(t, "a", "b")
	var vc VCFunc
	vc = func(env *Env, hvo sda.Hvo, frag int) error {
		if frag == fragText {
			env.OpenTable()
			env.OpenRow()
			env.AddObjVecItems(sda.TagParagraphs, vc, fragPara)
			env.CloseRow()
			env.CloseTable()
			return nil
		}
		env.OpenCell()
		env.OpenParagraph(rich.ParaProps{})
		env.AddStringProp(sda.TagContents)
		env.CloseParagraph()
		env.CloseCell()
		return nil
	}
	r := NewRoot(c, WithWidth(200))
	if err := r.SetRootObject(text, vc, fragText); err != nil {
		t.Fatal(err)
	}
	ps := r.Paragraphs()
	if len(ps) != 2 {
		t.Fatalf("got %d paragraphs", len(ps))
	}
	r0, i0, ok0 := CellOf(ps[0])
	r1, i1, ok1 := CellOf(ps[1])
	if !ok0 || !ok1 || r0 != r1 || i0 != 0 || i1 != 1 {
		t.Errorf("CellOf = (%v %d) (%v %d)", ok0, i0, ok1, i1)
	}
	if ps[1].Rect().Min.X != 100 {
		t.Errorf("second cell x = %d, want 100", ps[1].Rect().Min.X)
	}
}

func TestEnvErrors(t *testing.T) {
	c, text := newText(t, "a")
	r := NewRoot(c)
	err := r.SetRootObject(text, VCFunc(func(env *Env, hvo sda.Hvo, frag int) error {
		env.AddStringProp(sda.TagContents)
		return nil
	}), fragText)
	if err == nil {
		t.Error("adding a property outside a paragraph did not fail")
	}
}
