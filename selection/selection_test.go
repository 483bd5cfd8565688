package selection

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rjkroege/richedit/boxes"
	"github.com/rjkroege/richedit/doctest"
	"github.com/rjkroege/richedit/rootsite"
	"github.com/rjkroege/richedit/sda"
)

var gr = rootsite.ScreenGraphics{Dpi: 96}

type fixture struct {
	t    *testing.T
	c    *sda.Cache
	text sda.Hvo
	root *boxes.Root
	site *doctest.Site
	opts []Option
}

func newFixture(t *testing.T, vc boxes.ViewConstructor, paras ...string) *fixture {
	t.Helper()
	c, text := doctest.NewText(t, paras...)
	return newFixtureOn(t, c, text, c, vc)
}

// newFixtureOn shows text of c through da, which may wrap c.
func newFixtureOn(t *testing.T, c *sda.Cache, text sda.Hvo, da sda.DataAccess, vc boxes.ViewConstructor, opts ...Option) *fixture {
	t.Helper()
	site := doctest.NewSite()
	r := doctest.NewRoot(t, da, text, vc, boxes.WithSite(site))
	Register(r, opts...)
	return &fixture{t: t, c: c, text: text, root: r, site: site, opts: opts}
}

func (f *fixture) para(i int) *boxes.Para {
	f.t.Helper()
	ps := f.root.Paragraphs()
	if i >= len(ps) {
		f.t.Fatalf("no paragraph %d in %v", i, doctest.Texts(f.root))
	}
	return ps[i]
}

// ip installs an insertion point.
func (f *fixture) ip(para, ich int, assocPrev bool) *TextSelection {
	f.t.Helper()
	s, err := NewInsertionPoint(f.root, f.para(para), ich, assocPrev, f.opts...)
	if err != nil {
		f.t.Fatalf("NewInsertionPoint: %v", err)
	}
	if err := s.Install(); err != nil {
		f.t.Fatalf("Install: %v", err)
	}
	return s
}

// rng installs a range from ichAnchor of para pa to ichEnd of pe.
func (f *fixture) rng(pa, ichAnchor, pe, ichEnd int) *TextSelection {
	f.t.Helper()
	s, err := NewTextSelection(f.root, f.para(pa), ichAnchor, ichEnd, false, f.para(pe), f.opts...)
	if err != nil {
		f.t.Fatalf("NewTextSelection: %v", err)
	}
	if err := s.Install(); err != nil {
		f.t.Fatalf("Install: %v", err)
	}
	return s
}

// sel returns the root's current text selection.
func (f *fixture) sel() *TextSelection {
	f.t.Helper()
	s, ok := f.root.Selection().(*TextSelection)
	if !ok {
		f.t.Fatalf("root selection is %T", f.root.Selection())
	}
	return s
}

func (f *fixture) paras() []string { return doctest.Paras(f.c, f.text) }

// at describes where an insertion point is.
type at struct {
	Para  int
	Ich   int
	Assoc bool
}

func (f *fixture) where(s *TextSelection) at {
	for i, p := range f.root.Paragraphs() {
		if p == s.AnchorPara() {
			return at{i, s.AnchorOffset(), s.AssocPrev()}
		}
	}
	return at{-1, s.AnchorOffset(), s.AssocPrev()}
}

func TestNewTextSelectionChecksArguments(t *testing.T) {
	f := newFixture(t, &doctest.TextVC{}, "abc")
	tests := []struct {
		name     string
		a, e     int
		wantFail bool
	}{
		{"insertion point", 1, 1, false},
		{"range", 0, 3, false},
		{"backwards range", 3, 1, false},
		{"anchor past end", 4, 4, true},
		{"negative end", 0, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewTextSelection(f.root, f.para(0), tt.a, tt.e, false, nil)
			if (err != nil) != tt.wantFail {
				t.Fatalf("err = %v, want failure %v", err, tt.wantFail)
			}
			if err == nil && s.EndBeforeAnchor() != (tt.e < tt.a) {
				t.Errorf("EndBeforeAnchor = %v", s.EndBeforeAnchor())
			}
		})
	}
	if _, err := NewTextSelection(nil, f.para(0), 0, 0, false, nil); err == nil {
		t.Error("nil root accepted")
	}
}

func TestSelectionSurvivesRebuild(t *testing.T) {
	f := newFixture(t, &doctest.TextVC{}, "one", "two")
	f.ip(1, 2, true)
	old := f.para(1)
	if err := f.c.InsertNew(f.text, sda.TagParagraphs, 1, 1, nil); err != nil {
		t.Fatal(err)
	}
	if !old.IsDead() {
		t.Fatal("boxes were not rebuilt")
	}
	got := f.where(f.sel())
	if diff := cmp.Diff(at{1, 2, true}, got); diff != "" {
		t.Errorf("selection after rebuild (-want +got):\n%s", diff)
	}
}

func TestDetachInvalidates(t *testing.T) {
	f := newFixture(t, &doctest.TextVC{}, "one")
	s := f.ip(0, 1, false)
	t2 := f.ip(0, 2, false)
	if s.IsValid() {
		t.Error("replaced selection is still valid")
	}
	if !t2.IsValid() {
		t.Error("new selection is not valid")
	}
	if _, err := s.Bounds(); err != ErrInvalidSelection {
		t.Errorf("Bounds of detached selection: %v", err)
	}
	if err := s.OnTyping(gr, "x", 0, 0); err != ErrInvalidSelection {
		t.Errorf("OnTyping of detached selection: %v", err)
	}
}

func TestIsEnabled(t *testing.T) {
	f := newFixture(t, &doctest.TextVC{}, "abc")
	ip := f.ip(0, 1, false)
	tests := []struct {
		state       boxes.SelectionState
		ipOn, rngOn bool
	}{
		{boxes.SelEnabled, true, true},
		{boxes.SelOutOfFocus, false, true},
		{boxes.SelDisabled, false, false},
	}
	for _, tt := range tests {
		f.root.SetSelectionState(tt.state)
		if got := ip.IsEnabled(); got != tt.ipOn {
			t.Errorf("state %v: insertion point enabled = %v", tt.state, got)
		}
		r := f.rng(0, 0, 0, 2)
		if got := r.IsEnabled(); got != tt.rngOn {
			t.Errorf("state %v: range enabled = %v", tt.state, got)
		}
		ip = f.ip(0, 1, false)
	}
}

func TestShowHideInvalidates(t *testing.T) {
	f := newFixture(t, &doctest.TextVC{}, "abc")
	s := f.ip(0, 1, false)
	f.root.Invalidated()
	s.Show()
	if !s.Showing() {
		t.Fatal("not showing after Show")
	}
	r, err := s.Bounds()
	if err != nil {
		t.Fatal(err)
	}
	got := f.root.Invalidated()
	if len(got) == 0 || got[len(got)-1] != r {
		t.Errorf("invalidated %v, want %v", got, r)
	}
	s.Hide()
	if s.Showing() {
		t.Error("showing after Hide")
	}
}

func TestEndPoint(t *testing.T) {
	f := newFixture(t, &doctest.TextVC{}, "abcdef")
	s := f.rng(0, 1, 0, 4)
	e := s.EndPoint(true)
	a := s.EndPoint(false)
	if e.AnchorOffset() != 4 || !e.AssocPrev() || e.IsRange() {
		t.Errorf("end point = %d %v", e.AnchorOffset(), e.AssocPrev())
	}
	if a.AnchorOffset() != 1 || a.AssocPrev() {
		t.Errorf("anchor point = %d %v", a.AnchorOffset(), a.AssocPrev())
	}
	if f.root.Selection() != boxes.Selection(s) {
		t.Error("EndPoint installed its result")
	}
}

func TestCommitDeferredWhileWorking(t *testing.T) {
	f := newFixture(t, &doctest.TextVC{}, "cat")
	s := f.ip(0, 3, true)
	if err := s.OnTyping(gr, "s", 0, 0); err != nil {
		t.Fatal(err)
	}
	s.state = csWorking
	if ok, err := s.Commit(); !ok || err != nil {
		t.Fatalf("Commit = %v, %v", ok, err)
	}
	if s.state != csCommitRequest {
		t.Errorf("state = %v, want a commit request", s.state)
	}
	if got := f.paras(); got[0] != "cat" {
		t.Errorf("data changed while working: %q", got)
	}
	s.state = csNormal
	if _, err := s.Commit(); err != nil {
		t.Fatal(err)
	}
	if got := f.paras(); got[0] != "cats" {
		t.Errorf("after commit %q", got)
	}
}
