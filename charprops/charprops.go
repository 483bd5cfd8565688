// Package charprops answers character property questions per writing
// system. Word motion uses it to classify characters as space,
// punctuation or word-forming.
package charprops

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/bidi"
	"gopkg.in/yaml.v3"
)

// Engine is the character property service for one writing system.
type Engine interface {
	IsWordForming(r rune) bool
	IsNumber(r rune) bool
	IsSeparator(r rune) bool
}

// Class is the word-motion class of a character.
type Class int

const (
	Space Class = iota
	Punct
	Alpha
)

func (c Class) String() string {
	switch c {
	case Space:
		return "Space"
	case Punct:
		return "Punct"
	case Alpha:
		return "Alpha"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// Classify returns the class of r according to e.
func Classify(e Engine, r rune) Class {
	switch {
	case e.IsSeparator(r):
		return Space
	case e.IsWordForming(r), e.IsNumber(r):
		return Alpha
	}
	return Punct
}

// Profile describes a writing system. The zero Profile uses plain Unicode
// properties.
type Profile struct {
	Ws          int    `yaml:"ws"`
	Name        string `yaml:"name"`
	RightToLeft bool   `yaml:"rtl"`
	// WordForming lists characters that are word-forming in this writing
	// system even though Unicode says otherwise (e.g. a glottal stop
	// written with an apostrophe-like letter).
	WordForming string `yaml:"wordForming"`
	// Separators lists extra characters treated as spaces.
	Separators string `yaml:"separators"`
}

// IsWordForming implements Engine.
func (p *Profile) IsWordForming(r rune) bool {
	if strings.ContainsRune(p.WordForming, r) {
		return true
	}
	return unicode.IsLetter(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}

// IsNumber implements Engine.
func (p *Profile) IsNumber(r rune) bool {
	return unicode.IsNumber(r)
}

// IsSeparator implements Engine.
func (p *Profile) IsSeparator(r rune) bool {
	if strings.ContainsRune(p.Separators, r) {
		return true
	}
	return unicode.IsSpace(r) || unicode.Is(unicode.Z, r)
}

// IsStrongRightToLeft reports whether r has a right-to-left bidi class.
func IsStrongRightToLeft(r rune) bool {
	props, _ := bidi.LookupRune(r)
	c := props.Class()
	return c == bidi.R || c == bidi.AL
}

// IsStrongLeftToRight reports whether r has a left-to-right bidi class.
func IsStrongLeftToRight(r rune) bool {
	props, _ := bidi.LookupRune(r)
	return props.Class() == bidi.L
}

// Direction returns the direction of the first strongly directional rune
// of s. ok is false when s has none.
func Direction(s string) (rtl, ok bool) {
	for _, r := range s {
		switch {
		case IsStrongRightToLeft(r):
			return true, true
		case IsStrongLeftToRight(r):
			return false, true
		}
	}
	return false, false
}

// Registry maps writing systems to engines.
type Registry struct {
	profiles map[int]*Profile
	fallback *Profile
}

// NewRegistry returns a Registry containing profiles. Writing systems with
// no profile use Unicode defaults.
func NewRegistry(profiles ...Profile) *Registry {
	r := &Registry{profiles: make(map[int]*Profile), fallback: &Profile{Name: "default"}}
	for i := range profiles {
		p := profiles[i]
		r.profiles[p.Ws] = &p
	}
	return r
}

// ForWs returns the engine for ws.
func (r *Registry) ForWs(ws int) Engine {
	if r == nil {
		return &Profile{}
	}
	if p, ok := r.profiles[ws]; ok {
		return p
	}
	return r.fallback
}

// Profile returns the profile registered for ws, if any.
func (r *Registry) Profile(ws int) (Profile, bool) {
	if r == nil {
		return Profile{}, false
	}
	p, ok := r.profiles[ws]
	if !ok {
		return Profile{}, false
	}
	return *p, true
}

type registryFile struct {
	WritingSystems []Profile `yaml:"writingSystems"`
}

// LoadRegistry reads writing-system profiles from YAML:
//
//	writingSystems:
//	  - ws: 1
//	    name: en
//	  - ws: 2
//	    name: ar
//	    rtl: true
func LoadRegistry(rd io.Reader) (*Registry, error) {
	var f registryFile
	dec := yaml.NewDecoder(rd)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("charprops: reading registry: %w", err)
	}
	seen := make(map[int]bool)
	for _, p := range f.WritingSystems {
		if seen[p.Ws] {
			return nil, fmt.Errorf("charprops: writing system %d defined twice", p.Ws)
		}
		seen[p.Ws] = true
	}
	return NewRegistry(f.WritingSystems...), nil
}
