package doctest

import (
	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/rootsite"
	"github.com/rjkroege/richedit/sda"
)

// Site is a rootsite.Site that records the callbacks it gets and answers
// them with canned responses. The zero responses are those of
// rootsite.NilSite.
type Site struct {
	rootsite.Funcs

	Problems []rootsite.ProblemKind
	Inserts  [][]rich.String
	Changes  []rootsite.ChangeKind

	// OnProblem, when set, runs before a problem deletion is answered.
	OnProblem func(sel rootsite.Selection, kind rootsite.ProblemKind)
	Problem   rootsite.ProblemResponse
	Insert    rootsite.InsertResponse
	// Answer makes the problem and insert callbacks return Problem and
	// Insert instead of deferring to the engine's defaults.
	Answer bool
}

// NewSite returns a recording site.
func NewSite() *Site {
	s := &Site{}
	s.ProblemDeletion = func(sel rootsite.Selection, kind rootsite.ProblemKind) (rootsite.ProblemResponse, error) {
		s.Problems = append(s.Problems, kind)
		if s.OnProblem != nil {
			s.OnProblem(sel, kind)
		}
		if !s.Answer {
			return rootsite.NilSite{}.OnProblemDeletion(sel, kind)
		}
		return s.Problem, nil
	}
	s.InsertDiffParas = func(sel rootsite.Selection, dest rich.ParaProps, paras []rich.String, props []rich.ParaProps) (rootsite.InsertResponse, error) {
		s.Inserts = append(s.Inserts, paras)
		if !s.Answer {
			return rootsite.NilSite{}.OnInsertDiffParas(sel, dest, paras, props)
		}
		return s.Insert, nil
	}
	s.Changed = func(_ rootsite.Selection, kind rootsite.ChangeKind) {
		s.Changes = append(s.Changes, kind)
	}
	return s
}

// CountingDA is a Cache that counts string writes. Hook, when set, runs
// before each SetString reaches the cache.
type CountingDA struct {
	*sda.Cache

	SetStrings int
	Hook       func(hvo sda.Hvo, tag sda.Tag, s rich.String)
}

// NewCountingDA wraps c.
func NewCountingDA(c *sda.Cache) *CountingDA {
	return &CountingDA{Cache: c}
}

func (d *CountingDA) SetString(hvo sda.Hvo, tag sda.Tag, s rich.String) error {
	d.SetStrings++
	if d.Hook != nil {
		d.Hook(hvo, tag, s)
	}
	return d.Cache.SetString(hvo, tag, s)
}
