package selection

import (
	"time"

	"github.com/rjkroege/richedit/charprops"
)

type config struct {
	maxParas      int
	closestBudget time.Duration
	closestDist   int
	lineStep      int
	xSlop         int
	now           func() time.Time
	chars         *charprops.Registry
	logicalArrows bool
}

func defaultConfig() *config {
	return &config{
		maxParas:      50,
		closestBudget: 75 * time.Millisecond,
		closestDist:   40,
		lineStep:      3,
		xSlop:         20,
		now:           time.Now,
		logicalArrows: true,
	}
}

// Option configures selections made by Register or the constructors.
type Option func(*config)

// WithMaxParasToScan bounds how many paragraphs a motion looks through
// for an editable position before giving up.
func WithMaxParasToScan(n int) Option {
	return func(c *config) {
		c.maxParas = max(n, 1)
	}
}

// WithClosestIPBudget bounds the time FindClosestEditableIP may take.
func WithClosestIPBudget(d time.Duration) Option {
	return func(c *config) {
		c.closestBudget = d
	}
}

// WithClosestIPDistance sets how far, in pixels, from the current row
// FindClosestEditableIP looks.
func WithClosestIPDistance(px int) Option {
	return func(c *config) {
		c.closestDist = px
	}
}

// WithLineStep sets how far up/down motion moves its hit test each try.
func WithLineStep(px int) Option {
	return func(c *config) {
		c.lineStep = max(px, 1)
	}
}

// WithXSlop sets how far from the remembered column up/down motion may
// land before it tries one more line.
func WithXSlop(px int) Option {
	return func(c *config) {
		c.xSlop = px
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// WithCharProps sets the per-writing-system character properties used
// by word motion.
func WithCharProps(r *charprops.Registry) Option {
	return func(c *config) {
		c.chars = r
	}
}

// WithLogicalArrows chooses whether OnExtendedKey maps left and right
// arrows to logical (reading order) or physical (screen) motion.
func WithLogicalArrows(b bool) Option {
	return func(c *config) {
		c.logicalArrows = b
	}
}

func newConfig(opts []Option) *config {
	c := defaultConfig()
	for _, o := range opts {
		o(c)
	}
	return c
}
