package doctest

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rjkroege/richedit/boxes"
	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/rootsite"
	"github.com/rjkroege/richedit/sda"
)

func TestNewText(t *testing.T) {
	c, text := NewText(t, "one", "", "three")
	if diff := cmp.Diff([]string{"one", "", "three"}, Paras(c, text)); diff != "" {
		t.Errorf("paragraphs (-want +got):\n%s", diff)
	}
	r := NewRoot(t, c, text, &TextVC{Suffix: "."})
	if diff := cmp.Diff([]string{"one.", ".", "three."}, Texts(r)); diff != "" {
		t.Errorf("display (-want +got):\n%s", diff)
	}
}

func TestTitleAndInset(t *testing.T) {
	c, text := NewText(t, "one", "two")
	h, _ := c.VecItem(text, sda.TagParagraphs, 1)
	c.SetUnicode(h, sda.TagStyleRules, "Quote")
	r := NewRoot(t, c, text, &TextVC{Title: "T", Inset: "Quote"})
	if diff := cmp.Diff([]string{"T", "one", "two"}, Texts(r)); diff != "" {
		t.Errorf("display (-want +got):\n%s", diff)
	}
	ps := r.Paragraphs()
	if boxes.MoveablePileOf(ps[1]) != nil || boxes.MoveablePileOf(ps[2]) == nil {
		t.Errorf("only the Quote paragraph should be inset")
	}

	lazy := NewRoot(t, c, text, &TextVC{Title: "T", Lazy: true})
	if diff := cmp.Diff([]string{"T"}, Texts(lazy)); diff != "" {
		t.Errorf("lazy display (-want +got):\n%s", diff)
	}
}

func TestClock(t *testing.T) {
	c := &Clock{Step: time.Second}
	a, b := c.Now(), c.Now()
	if b.Sub(a) != time.Second || c.Reads != 2 {
		t.Errorf("clock moved %v in %d reads", b.Sub(a), c.Reads)
	}
}

func TestSiteDefaults(t *testing.T) {
	s := NewSite()
	resp, _ := s.OnProblemDeletion(nil, rootsite.ProblemReadOnly)
	want, _ := rootsite.NilSite{}.OnProblemDeletion(nil, rootsite.ProblemReadOnly)
	if resp != want {
		t.Errorf("unanswered problem = %v, want %v", resp, want)
	}
	s.Answer = true
	s.Problem = rootsite.Done
	if resp, _ := s.OnProblemDeletion(nil, rootsite.ProblemComplexRange); resp != rootsite.Done {
		t.Errorf("answered problem = %v", resp)
	}
	if diff := cmp.Diff([]rootsite.ProblemKind{rootsite.ProblemReadOnly, rootsite.ProblemComplexRange}, s.Problems); diff != "" {
		t.Errorf("problems (-want +got):\n%s", diff)
	}
}

func TestCountingDA(t *testing.T) {
	c, text := NewText(t, "a")
	da := NewCountingDA(c)
	var seen []string
	da.Hook = func(_ sda.Hvo, _ sda.Tag, s rich.String) {
		seen = append(seen, s.Text())
	}
	h, _ := c.VecItem(text, sda.TagParagraphs, 0)
	if err := da.SetString(h, sda.TagContents, rich.Plain("b", Props)); err != nil {
		t.Fatal(err)
	}
	if da.SetStrings != 1 || c.StringProp(h, sda.TagContents).Text() != "b" {
		t.Errorf("SetStrings = %d, contents %q", da.SetStrings, c.StringProp(h, sda.TagContents).Text())
	}
	if diff := cmp.Diff([]string{"b"}, seen); diff != "" {
		t.Errorf("hook saw (-want +got):\n%s", diff)
	}
}
