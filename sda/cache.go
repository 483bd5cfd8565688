package sda

import (
	"fmt"

	"github.com/rjkroege/richedit/rich"
)

type object struct {
	class  Class
	owner  Hvo
	ownTag Tag
}

type propKey struct {
	hvo Hvo
	tag Tag
}

type altKey struct {
	hvo Hvo
	tag Tag
	ws  int
}

// Cache is an in-memory DataAccess.
type Cache struct {
	nextHvo Hvo
	objs    map[Hvo]*object
	strs    map[propKey]rich.String
	unis    map[propKey]string
	ints    map[propKey]int
	alts    map[altKey]rich.String
	vecs    map[propKey][]Hvo

	observers map[Observer]struct{}
	history   history
}

var _ DataAccess = (*Cache)(nil)

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{
		nextHvo: 1,
		objs:    make(map[Hvo]*object),
		strs:    make(map[propKey]rich.String),
		unis:    make(map[propKey]string),
		ints:    make(map[propKey]int),
		alts:    make(map[altKey]rich.String),
		vecs:    make(map[propKey][]Hvo),
	}
}

// AddObserver adds o as an observer for changes to this Cache.
func (c *Cache) AddObserver(o Observer) {
	if c.observers == nil {
		c.observers = make(map[Observer]struct{})
	}
	c.observers[o] = struct{}{}
}

// DelObserver removes o as an observer.
func (c *Cache) DelObserver(o Observer) error {
	if _, exists := c.observers[o]; !exists {
		return fmt.Errorf("can't find observer in Cache.DelObserver")
	}
	delete(c.observers, o)
	return nil
}

func (c *Cache) propChanged(hvo Hvo, tag Tag, ivMin, cvIns, cvDel int) {
	for o := range c.observers {
		o.PropChanged(hvo, tag, ivMin, cvIns, cvDel)
	}
}

func (c *Cache) taskEnded() {
	for o := range c.observers {
		o.TaskEnded()
	}
}

// NewObject creates an unowned object of class. Used to create the roots
// of a document.
func (c *Cache) NewObject(class Class) Hvo {
	hvo := c.nextHvo
	c.nextHvo++
	c.objs[hvo] = &object{class: class}
	return hvo
}

// StringProp implements DataAccess.
func (c *Cache) StringProp(hvo Hvo, tag Tag) rich.String {
	return c.strs[propKey{hvo, tag}]
}

// SetString implements DataAccess.
func (c *Cache) SetString(hvo Hvo, tag Tag, s rich.String) error {
	if !c.IsValidObject(hvo) {
		return fmt.Errorf("SetString %d: %w", hvo, ErrNoObject)
	}
	k := propKey{hvo, tag}
	old, had := c.strs[k]
	c.record(func() {
		if had {
			c.strs[k] = old
		} else {
			delete(c.strs, k)
		}
		c.propChanged(hvo, tag, 0, old.Len(), s.Len())
	}, func() {
		c.strs[k] = s
		c.propChanged(hvo, tag, 0, s.Len(), old.Len())
	})
	return nil
}

// UnicodeProp implements DataAccess.
func (c *Cache) UnicodeProp(hvo Hvo, tag Tag) string {
	return c.unis[propKey{hvo, tag}]
}

// SetUnicode implements DataAccess.
func (c *Cache) SetUnicode(hvo Hvo, tag Tag, s string) error {
	if !c.IsValidObject(hvo) {
		return fmt.Errorf("SetUnicode %d: %w", hvo, ErrNoObject)
	}
	k := propKey{hvo, tag}
	old := c.unis[k]
	nold, nnew := len([]rune(old)), len([]rune(s))
	c.record(func() {
		c.unis[k] = old
		c.propChanged(hvo, tag, 0, nold, nnew)
	}, func() {
		c.unis[k] = s
		c.propChanged(hvo, tag, 0, nnew, nold)
	})
	return nil
}

// IntProp implements DataAccess.
func (c *Cache) IntProp(hvo Hvo, tag Tag) int {
	return c.ints[propKey{hvo, tag}]
}

// SetInt implements DataAccess.
func (c *Cache) SetInt(hvo Hvo, tag Tag, v int) error {
	if !c.IsValidObject(hvo) {
		return fmt.Errorf("SetInt %d: %w", hvo, ErrNoObject)
	}
	k := propKey{hvo, tag}
	old := c.ints[k]
	c.record(func() {
		c.ints[k] = old
		c.propChanged(hvo, tag, 0, 0, 0)
	}, func() {
		c.ints[k] = v
		c.propChanged(hvo, tag, 0, 0, 0)
	})
	return nil
}

// MultiStringAlt implements DataAccess.
func (c *Cache) MultiStringAlt(hvo Hvo, tag Tag, ws int) rich.String {
	return c.alts[altKey{hvo, tag, ws}]
}

// SetMultiStringAlt implements DataAccess.
func (c *Cache) SetMultiStringAlt(hvo Hvo, tag Tag, ws int, s rich.String) error {
	if !c.IsValidObject(hvo) {
		return fmt.Errorf("SetMultiStringAlt %d: %w", hvo, ErrNoObject)
	}
	k := altKey{hvo, tag, ws}
	old, had := c.alts[k]
	c.record(func() {
		if had {
			c.alts[k] = old
		} else {
			delete(c.alts, k)
		}
		c.propChanged(hvo, tag, ws, 0, 0)
	}, func() {
		c.alts[k] = s
		c.propChanged(hvo, tag, ws, 0, 0)
	})
	return nil
}

// VecSize implements DataAccess.
func (c *Cache) VecSize(hvo Hvo, tag Tag) int {
	return len(c.vecs[propKey{hvo, tag}])
}

// VecItem implements DataAccess.
func (c *Cache) VecItem(hvo Hvo, tag Tag, i int) (Hvo, error) {
	v := c.vecs[propKey{hvo, tag}]
	if i < 0 || i >= len(v) {
		return NoObject, fmt.Errorf("VecItem %d of %d/%d: %w", i, hvo, tag, ErrBadIndex)
	}
	return v[i], nil
}

// Vec returns a copy of the sequence tag of hvo.
func (c *Cache) Vec(hvo Hvo, tag Tag) []Hvo {
	return append([]Hvo(nil), c.vecs[propKey{hvo, tag}]...)
}

// MakeNewObject implements DataAccess.
func (c *Cache) MakeNewObject(class Class, owner Hvo, tag Tag, ord int) (Hvo, error) {
	if !c.IsValidObject(owner) {
		return NoObject, fmt.Errorf("MakeNewObject owner %d: %w", owner, ErrNoObject)
	}
	k := propKey{owner, tag}
	if ord < 0 || ord > len(c.vecs[k]) {
		return NoObject, fmt.Errorf("MakeNewObject at %d: %w", ord, ErrBadIndex)
	}
	hvo := c.nextHvo
	c.nextHvo++
	c.record(func() {
		c.vecs[k] = removeAt(c.vecs[k], ord)
		delete(c.objs, hvo)
		c.propChanged(owner, tag, ord, 0, 1)
	}, func() {
		c.objs[hvo] = &object{class: class, owner: owner, ownTag: tag}
		c.vecs[k] = insertAt(c.vecs[k], ord, hvo)
		c.propChanged(owner, tag, ord, 1, 0)
	})
	return hvo, nil
}

// InsertNew implements DataAccess.
func (c *Cache) InsertNew(hvo Hvo, tag Tag, ihvo, n int, nextStyle func(string) string) error {
	src, err := c.VecItem(hvo, tag, ihvo)
	if err != nil {
		return err
	}
	style := c.UnicodeProp(src, TagStyleRules)
	if nextStyle != nil {
		style = nextStyle(style)
	}
	class := c.ObjClass(src)
	for i := 0; i < n; i++ {
		nhvo, err := c.MakeNewObject(class, hvo, tag, ihvo+1+i)
		if err != nil {
			return err
		}
		if style != "" {
			if err := c.SetUnicode(nhvo, TagStyleRules, style); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeleteObjOwner implements DataAccess.
func (c *Cache) DeleteObjOwner(owner, hvo Hvo, tag Tag, ord int) error {
	k := propKey{owner, tag}
	v := c.vecs[k]
	if ord < 0 || ord >= len(v) || v[ord] != hvo {
		return fmt.Errorf("DeleteObjOwner %d at %d: %w", hvo, ord, ErrBadIndex)
	}
	snap := c.snapshot(hvo)
	c.record(func() {
		c.restore(snap)
		c.vecs[k] = insertAt(c.vecs[k], ord, hvo)
		c.propChanged(owner, tag, ord, 1, 0)
	}, func() {
		c.vecs[k] = removeAt(c.vecs[k], ord)
		c.erase(snap)
		c.propChanged(owner, tag, ord, 0, 1)
	})
	return nil
}

// MoveString implements DataAccess.
func (c *Cache) MoveString(src Hvo, srcTag Tag, min, lim int, dst Hvo, dstTag Tag, ichDst int) error {
	s := c.StringProp(src, srcTag)
	if min < 0 || lim > s.Len() || min > lim {
		return fmt.Errorf("MoveString [%d,%d) of %d: %w", min, lim, s.Len(), ErrBadIndex)
	}
	d := s
	if src != dst || srcTag != dstTag {
		d = c.StringProp(dst, dstTag)
	}
	if ichDst < 0 || ichDst > d.Len() {
		return fmt.Errorf("MoveString to %d of %d: %w", ichDst, d.Len(), ErrBadIndex)
	}
	moved := s.Substring(min, lim)
	c.BeginUndoTask("Move text", "Move text")
	defer c.EndUndoTask()

	b := s.Builder()
	b.Replace(min, lim, rich.Empty(s.PropsAt(min)))
	if src == dst && srcTag == dstTag {
		if ichDst > lim {
			ichDst -= lim - min
		} else if ichDst > min {
			ichDst = min
		}
		b.Replace(ichDst, ichDst, moved)
		return c.SetString(src, srcTag, b.Value())
	}
	if err := c.SetString(src, srcTag, b.Value()); err != nil {
		return err
	}
	db := d.Builder()
	db.Replace(ichDst, ichDst, moved)
	return c.SetString(dst, dstTag, db.Value())
}

// ObjClass implements DataAccess.
func (c *Cache) ObjClass(hvo Hvo) Class {
	if o, ok := c.objs[hvo]; ok {
		return o.class
	}
	return 0
}

// ObjOwner implements DataAccess.
func (c *Cache) ObjOwner(hvo Hvo) (Hvo, Tag) {
	if o, ok := c.objs[hvo]; ok {
		return o.owner, o.ownTag
	}
	return NoObject, 0
}

// IsValidObject implements DataAccess.
func (c *Cache) IsValidObject(hvo Hvo) bool {
	_, ok := c.objs[hvo]
	return ok
}

// subtree is everything an object and the objects it owns store.
type subtree struct {
	objs map[Hvo]object
	strs map[propKey]rich.String
	unis map[propKey]string
	ints map[propKey]int
	alts map[altKey]rich.String
	vecs map[propKey][]Hvo
}

func (c *Cache) snapshot(hvo Hvo) *subtree {
	st := &subtree{
		objs: make(map[Hvo]object),
		strs: make(map[propKey]rich.String),
		unis: make(map[propKey]string),
		ints: make(map[propKey]int),
		alts: make(map[altKey]rich.String),
		vecs: make(map[propKey][]Hvo),
	}
	var walk func(h Hvo)
	walk = func(h Hvo) {
		o, ok := c.objs[h]
		if !ok {
			return
		}
		st.objs[h] = *o
		for k, v := range c.strs {
			if k.hvo == h {
				st.strs[k] = v
			}
		}
		for k, v := range c.unis {
			if k.hvo == h {
				st.unis[k] = v
			}
		}
		for k, v := range c.ints {
			if k.hvo == h {
				st.ints[k] = v
			}
		}
		for k, v := range c.alts {
			if k.hvo == h {
				st.alts[k] = v
			}
		}
		for k, v := range c.vecs {
			if k.hvo == h {
				st.vecs[k] = append([]Hvo(nil), v...)
				for _, child := range v {
					walk(child)
				}
			}
		}
	}
	walk(hvo)
	return st
}

func (c *Cache) erase(st *subtree) {
	for h := range st.objs {
		delete(c.objs, h)
	}
	for k := range st.strs {
		delete(c.strs, k)
	}
	for k := range st.unis {
		delete(c.unis, k)
	}
	for k := range st.ints {
		delete(c.ints, k)
	}
	for k := range st.alts {
		delete(c.alts, k)
	}
	for k := range st.vecs {
		delete(c.vecs, k)
	}
}

func (c *Cache) restore(st *subtree) {
	for h, o := range st.objs {
		o := o
		c.objs[h] = &o
	}
	for k, v := range st.strs {
		c.strs[k] = v
	}
	for k, v := range st.unis {
		c.unis[k] = v
	}
	for k, v := range st.ints {
		c.ints[k] = v
	}
	for k, v := range st.alts {
		c.alts[k] = v
	}
	for k, v := range st.vecs {
		c.vecs[k] = append([]Hvo(nil), v...)
	}
}

func insertAt(v []Hvo, i int, h Hvo) []Hvo {
	v = append(v, NoObject)
	copy(v[i+1:], v[i:])
	v[i] = h
	return v
}

func removeAt(v []Hvo, i int) []Hvo {
	out := make([]Hvo, 0, len(v)-1)
	out = append(out, v[:i]...)
	return append(out, v[i+1:]...)
}
