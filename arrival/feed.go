// Package arrival brings vehicle arrivals from the network into the
// simulation.
package arrival

import (
	"sync"

	"github.com/sarchlab/crossroads/sim"
	"github.com/sarchlab/crossroads/topology"
)

// A Feed is an unbounded FIFO of requested lanes. Producers may push from any
// goroutine. The simulation pops.
type Feed struct {
	lock sync.Mutex
	buf  sim.Buffer
}

// NewFeed creates an empty feed.
func NewFeed(name string) *Feed {
	return &Feed{
		buf: sim.NewBuffer(name, sim.Unbounded),
	}
}

// Name returns the name of the feed.
func (f *Feed) Name() string {
	return f.buf.Name()
}

// Push appends a lane request.
func (f *Feed) Push(lane topology.LaneID) {
	f.lock.Lock()
	f.buf.Push(lane)
	f.lock.Unlock()
}

// TryPop removes the oldest request. It returns false if the feed is empty.
func (f *Feed) TryPop() (topology.LaneID, bool) {
	f.lock.Lock()
	defer f.lock.Unlock()

	item := f.buf.Pop()
	if item == nil {
		return 0, false
	}

	return item.(topology.LaneID), true
}

// Size returns the number of waiting requests.
func (f *Feed) Size() int {
	f.lock.Lock()
	defer f.lock.Unlock()

	return f.buf.Size()
}

// Capacity returns sim.Unbounded.
func (f *Feed) Capacity() int {
	return f.buf.Capacity()
}

// AcceptHook registers a hook that is called on every push and pop. Hooks
// run while the feed is locked and must not call back into the feed.
func (f *Feed) AcceptHook(hook sim.Hook) {
	f.lock.Lock()
	f.buf.AcceptHook(hook)
	f.lock.Unlock()
}
