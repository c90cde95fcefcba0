package signal

import (
	"log"

	"github.com/sarchlab/crossroads/sim"
	"github.com/sarchlab/crossroads/topology"
)

// Timing and priority thresholds.
const (
	// HighWater is the queue depth at which a road takes priority.
	HighWater = 6

	// LowWater is the queue depth at or below which priority is released.
	LowWater = 3

	// Dwell is the shortest time a road keeps right-of-way when no road has
	// priority.
	Dwell sim.VTimeInSec = 3.0

	// Clearance is how long every road is stopped between two phases.
	Clearance sim.VTimeInSec = 1.0
)

// timeSlack absorbs rounding in tick times.
const timeSlack = 1e-9

type state interface {
	isState()
}

type steady struct {
	phase Phase
	since sim.VTimeInSec
}

type clearing struct {
	from   Phase
	target Phase
	start  sim.VTimeInSec
}

func (steady) isState() {}
func (clearing) isState() {}

// ControllerState is a read-only view of a Controller.
type ControllerState struct {
	Current        Phase          `json:"current"`
	Target         Phase          `json:"target"`
	Active         Phase          `json:"active"`
	Clearing       bool           `json:"clearing"`
	LastTransition sim.VTimeInSec `json:"last_transition"`
	HasPriority    bool           `json:"has_priority"`
	Priority       topology.Road  `json:"priority"`
}

// A Controller is the state machine that picks the active phase. It is
// either steady on one road or clearing toward the next one.
type Controller struct {
	state state

	hasPriority bool
	priority    topology.Road
}

// NewController creates a controller that starts clearing toward road A at
// time 0.
func NewController() *Controller {
	return &Controller{
		state: clearing{from: AllStopped, target: RoadA, start: 0},
	}
}

// Advance moves the state machine to time now and returns the phase to show.
func (c *Controller) Advance(now sim.VTimeInSec, depth QueueDepth) Phase {
	switch s := c.state.(type) {
	case clearing:
		if now-s.start < Clearance-timeSlack {
			return AllStopped
		}

		c.state = steady{phase: s.target, since: now}

		return s.target
	case steady:
		target := c.target(s, now, depth)
		if target == s.phase {
			return s.phase
		}

		c.state = clearing{from: s.phase, target: target, start: now}

		return AllStopped
	default:
		log.Panicf("unknown controller state %T", s)
	}

	return AllStopped
}

func (c *Controller) target(
	s steady,
	now sim.VTimeInSec,
	depth QueueDepth,
) Phase {
	current, _ := s.phase.Road()

	c.updatePriority(current, depth)
	if c.hasPriority {
		return PhaseOf(c.priority)
	}

	if now-s.since < Dwell-timeSlack {
		return s.phase
	}

	for i := 1; i < topology.NumRoads; i++ {
		r := current.Offset(i)
		if depth[r] > 0 {
			return PhaseOf(r)
		}
	}

	return PhaseOf(current.Next())
}

// updatePriority releases a priority road that drained to the low-water mark
// and then looks for the deepest road at the high-water mark. Roads after the
// current one come first, so they win ties.
func (c *Controller) updatePriority(current topology.Road, depth QueueDepth) {
	if c.hasPriority {
		if depth[c.priority] > LowWater {
			return
		}

		c.hasPriority = false
	}

	best := HighWater - 1
	for i := 1; i <= topology.NumRoads; i++ {
		r := current.Offset(i)
		if depth[r] > best {
			best = depth[r]
			c.priority = r
			c.hasPriority = true
		}
	}
}

// State returns a snapshot of the controller.
func (c *Controller) State() ControllerState {
	st := ControllerState{
		HasPriority: c.hasPriority,
		Priority:    c.priority,
	}

	switch s := c.state.(type) {
	case steady:
		st.Current = s.phase
		st.Target = s.phase
		st.Active = s.phase
		st.LastTransition = s.since
	case clearing:
		st.Current = s.from
		st.Target = s.target
		st.Active = AllStopped
		st.Clearing = true
		st.LastTransition = s.start
	}

	return st
}
