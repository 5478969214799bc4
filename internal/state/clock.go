package state

import "sync/atomic"

// Clock is a monotonic logical clock. The document ticks it on every
// mutation so readers can tell whether anything changed since they last looked.
type Clock struct {
	n atomic.Uint64
}

func (c *Clock) Tick() uint64 {
	return c.n.Add(1)
}

func (c *Clock) Now() uint64 {
	return c.n.Load()
}
