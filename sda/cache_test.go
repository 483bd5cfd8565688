package sda

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rjkroege/richedit/rich"
)

type propChange struct {
	hvo                 Hvo
	tag                 Tag
	ivMin, cvIns, cvDel int
}

type recorder struct {
	changes []propChange
	tasks   int
}

func (r *recorder) PropChanged(hvo Hvo, tag Tag, ivMin, cvIns, cvDel int) {
	r.changes = append(r.changes, propChange{hvo, tag, ivMin, cvIns, cvDel})
}

func (r *recorder) TaskEnded() { r.tasks++ }

var p0 = rich.Props{Ws: 1}

func newText(t *testing.T, paras ...string) (*Cache, Hvo) {
	t.Helper()
	c := NewCache()
	text := c.NewObject(ClassStText)
	for i, s := range paras {
		h, err := c.MakeNewObject(ClassStTxtPara, text, TagParagraphs, i)
		if err != nil {
			t.Fatalf("MakeNewObject: %v", err)
		}
		if err := c.SetString(h, TagContents, rich.Plain(s, p0)); err != nil {
			t.Fatalf("SetString: %v", err)
		}
	}
	return c, text
}

func contents(c *Cache, text Hvo) []string {
	var out []string
	for _, h := range c.Vec(text, TagParagraphs) {
		out = append(out, c.StringProp(h, TagContents).Text())
	}
	return out
}

func TestSetStringNotifies(t *testing.T) {
	c, text := newText(t, "cat")
	r := &recorder{}
	c.AddObserver(r)
	h, _ := c.VecItem(text, TagParagraphs, 0)
	if err := c.SetString(h, TagContents, rich.Plain("cats", p0)); err != nil {
		t.Fatal(err)
	}
	want := []propChange{{h, TagContents, 0, 4, 3}}
	if diff := cmp.Diff(want, r.changes, cmp.AllowUnexported(propChange{})); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
	if r.tasks != 1 {
		t.Errorf("TaskEnded called %d times, want 1", r.tasks)
	}
}

func TestSetStringNoObject(t *testing.T) {
	c := NewCache()
	if err := c.SetString(42, TagContents, rich.Plain("x", p0)); !errors.Is(err, ErrNoObject) {
		t.Errorf("SetString on missing object err = %v, want ErrNoObject", err)
	}
}

func TestUndoTaskGroupsChanges(t *testing.T) {
	c, text := newText(t, "one", "two")
	r := &recorder{}
	c.AddObserver(r)

	c.BeginUndoTask("Undo edit", "Redo edit")
	h0, _ := c.VecItem(text, TagParagraphs, 0)
	h1, _ := c.VecItem(text, TagParagraphs, 1)
	c.SetString(h0, TagContents, rich.Plain("onetwo", p0))
	c.BeginUndoTask("inner", "inner")
	if err := c.DeleteObjOwner(text, h1, TagParagraphs, 1); err != nil {
		t.Fatal(err)
	}
	c.EndUndoTask()
	if r.tasks != 0 {
		t.Errorf("nested EndUndoTask ended the task")
	}
	c.EndUndoTask()
	if r.tasks != 1 {
		t.Errorf("TaskEnded = %d, want 1", r.tasks)
	}
	if diff := cmp.Diff([]string{"onetwo"}, contents(c, text)); diff != "" {
		t.Errorf("after task (-want +got):\n%s", diff)
	}
	if got := c.UndoLabel(); got != "Undo edit" {
		t.Errorf("UndoLabel = %q", got)
	}

	if !c.Undo() {
		t.Fatal("Undo failed")
	}
	if diff := cmp.Diff([]string{"one", "two"}, contents(c, text)); diff != "" {
		t.Errorf("after undo (-want +got):\n%s", diff)
	}
	if !c.IsValidObject(h1) {
		t.Error("undo did not restore deleted paragraph")
	}
	if !c.Redo() {
		t.Fatal("Redo failed")
	}
	if diff := cmp.Diff([]string{"onetwo"}, contents(c, text)); diff != "" {
		t.Errorf("after redo (-want +got):\n%s", diff)
	}
}

func TestInsertNewCopiesStyle(t *testing.T) {
	c, text := newText(t, "heading", "body")
	h0, _ := c.VecItem(text, TagParagraphs, 0)
	c.SetUnicode(h0, TagStyleRules, "Heading 1")
	next := func(s string) string {
		if s == "Heading 1" {
			return "Normal"
		}
		return s
	}
	if err := c.InsertNew(text, TagParagraphs, 0, 1, next); err != nil {
		t.Fatal(err)
	}
	if n := c.VecSize(text, TagParagraphs); n != 3 {
		t.Fatalf("VecSize = %d, want 3", n)
	}
	h1, _ := c.VecItem(text, TagParagraphs, 1)
	if got := c.UnicodeProp(h1, TagStyleRules); got != "Normal" {
		t.Errorf("new paragraph style = %q, want Normal", got)
	}
	if got := c.ObjClass(h1); got != ClassStTxtPara {
		t.Errorf("new paragraph class = %d", got)
	}
	if owner, tag := c.ObjOwner(h1); owner != text || tag != TagParagraphs {
		t.Errorf("owner = %d/%d", owner, tag)
	}
}

func TestMoveString(t *testing.T) {
	tests := []struct {
		name      string
		src, dst  int
		min, lim  int
		ichDst    int
		wantParas []string
	}{
		{"append to previous", 1, 0, 0, 5, 3, []string{"abcworld", ""}},
		{"tail to next", 0, 1, 1, 3, 0, []string{"a", "bcworld"}},
		{"within one string", 1, 1, 0, 2, 5, []string{"abc", "rldwo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, text := newText(t, "abc", "world")
			src, _ := c.VecItem(text, TagParagraphs, tt.src)
			dst, _ := c.VecItem(text, TagParagraphs, tt.dst)
			if err := c.MoveString(src, TagContents, tt.min, tt.lim, dst, TagContents, tt.ichDst); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.wantParas, contents(c, text)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestMoveStringRejectsBadDestination(t *testing.T) {
	tests := []struct {
		name     string
		src, dst int
		ichDst   int
	}{
		{"past the end of another string", 0, 1, 6},
		{"before the start of another string", 0, 1, -1},
		{"past the end of the same string", 1, 1, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, text := newText(t, "abc", "world")
			src, _ := c.VecItem(text, TagParagraphs, tt.src)
			dst, _ := c.VecItem(text, TagParagraphs, tt.dst)
			err := c.MoveString(src, TagContents, 1, 3, dst, TagContents, tt.ichDst)
			if !errors.Is(err, ErrBadIndex) {
				t.Fatalf("MoveString to %d = %v, want ErrBadIndex", tt.ichDst, err)
			}
			if diff := cmp.Diff([]string{"abc", "world"}, contents(c, text)); diff != "" {
				t.Errorf("failed move changed the text (-want +got):\n%s", diff)
			}
			if got := c.UndoLabel(); got == "Move text" {
				t.Errorf("failed move left an undo action")
			}
		})
	}
}

func TestMultiStringAndInt(t *testing.T) {
	c := NewCache()
	h := c.NewObject(1)
	c.SetMultiStringAlt(h, 7, 2, rich.Plain("gloss", p0))
	if got := c.MultiStringAlt(h, 7, 2).Text(); got != "gloss" {
		t.Errorf("MultiStringAlt = %q", got)
	}
	if got := c.MultiStringAlt(h, 7, 3).Len(); got != 0 {
		t.Errorf("missing alternative has length %d", got)
	}
	c.SetInt(h, 8, 42)
	c.SetInt(h, 8, 43)
	if !c.Undo() || c.IntProp(h, 8) != 42 {
		t.Errorf("undo of SetInt gave %d, want 42", c.IntProp(h, 8))
	}
}

func TestDelObserver(t *testing.T) {
	c := NewCache()
	r := &recorder{}
	if err := c.DelObserver(r); err == nil {
		t.Error("DelObserver of unknown observer should fail")
	}
	c.AddObserver(r)
	if err := c.DelObserver(r); err != nil {
		t.Errorf("DelObserver: %v", err)
	}
}

func TestTaskScope(t *testing.T) {
	c := NewCache()
	ts := Task(c, "Typing")
	if !c.InUndoTask() {
		t.Fatal("Task did not begin an undo task")
	}
	ts.End()
	ts.End()
	if c.InUndoTask() {
		t.Error("task still open after End")
	}
}
