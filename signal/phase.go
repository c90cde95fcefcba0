// Package signal decides which road has right-of-way.
package signal

import (
	"fmt"

	"github.com/sarchlab/crossroads/topology"
)

// Phase is the signal shown to the roads. At most one road may move.
type Phase int

// Phases.
const (
	AllStopped Phase = iota
	RoadA
	RoadB
	RoadC
	RoadD
)

// PhaseOf returns the phase that gives right-of-way to road r.
func PhaseOf(r topology.Road) Phase {
	return Phase(int(r) + 1)
}

// Road returns the road that may move under the phase. It returns false for
// AllStopped.
func (p Phase) Road() (topology.Road, bool) {
	if p <= AllStopped || p > RoadD {
		return 0, false
	}

	return topology.Road(int(p) - 1), true
}

// Allows tells if vehicles on road r may cross their stop line.
func (p Phase) Allows(r topology.Road) bool {
	road, ok := p.Road()

	return ok && road == r
}

func (p Phase) String() string {
	if p == AllStopped {
		return "AllStopped"
	}

	if road, ok := p.Road(); ok {
		return "Road" + road.String()
	}

	return fmt.Sprintf("Phase(%d)", int(p))
}

// MarshalText writes the phase name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// QueueDepth counts the waiting vehicles of each road.
type QueueDepth [topology.NumRoads]int
