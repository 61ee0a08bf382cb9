package common

import "sync/atomic"

// Generation numbers requests so that a response arriving after a newer
// request was issued can be recognized and dropped.
type Generation struct {
	n atomic.Uint64
}

// Next starts a new request and returns its number.
func (g *Generation) Next() uint64 {
	return g.n.Add(1)
}

// IsCurrent reports whether gen is the most recently issued number.
func (g *Generation) IsCurrent(gen uint64) bool {
	return g.n.Load() == gen
}

// Current returns the most recently issued number without starting a new
// request.
func (g *Generation) Current() uint64 {
	return g.n.Load()
}
