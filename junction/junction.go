// Package junction runs the intersection as a ticking component.
package junction

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/sarchlab/crossroads/arrival"
	"github.com/sarchlab/crossroads/kinematics"
	"github.com/sarchlab/crossroads/signal"
	"github.com/sarchlab/crossroads/sim"
	"github.com/sarchlab/crossroads/topology"
	"github.com/sarchlab/crossroads/tracing"
	"github.com/sarchlab/crossroads/vehicle"
)

// HookPosTick marks the end of a tick. The hook item is the new Snapshot.
var HookPosTick = &sim.HookPos{Name: "JunctionTick"}

// Trace kinds reported by the junction.
const (
	TaskKindVehicle = "vehicle"
	TaskKindPhase   = "phase"
)

// Comp is the intersection. Each tick it takes at most one arrival from the
// feed, advances the signal and moves every vehicle.
type Comp struct {
	*sim.TickingComponent

	layout     *topology.Layout
	feed       *arrival.Feed
	registry   *vehicle.Registry
	kinematics *kinematics.Engine
	controller *signal.Controller
	endTime    sim.VTimeInSec

	lock     sync.RWMutex
	tick     uint64
	pending  topology.LaneID
	phase    signal.Phase
	phaseID  uint64
	snapshot Snapshot
}

// Tick runs one step of the intersection.
func (c *Comp) Tick() bool {
	now := c.CurrentTime()
	if c.endTime > 0 && now > c.endTime {
		return false
	}

	snapshot := c.step(now)

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosTick,
		Item:   snapshot,
	})

	return true
}

func (c *Comp) step(now sim.VTimeInSec) Snapshot {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.tick++

	c.spawn()

	depth := c.kinematics.QueueDepth()
	c.updatePhase(c.controller.Advance(now, depth))

	report := c.kinematics.Step(c.phase)
	c.traceTurns(report)

	for _, id := range c.registry.RemoveOutOfBounds() {
		tracing.EndTask(c.vehicleTaskID(id), c)
	}

	c.snapshot = Snapshot{
		Tick:       c.tick,
		Time:       now,
		Phase:      c.phase,
		Controller: c.controller.State(),
		QueueDepth: depth,
		Pending:    c.feed.Size(),
		Vehicles:   makeVehicleStates(c.registry.All()),
	}

	return c.snapshot
}

func (c *Comp) spawn() {
	lane := c.pending
	if lane == 0 {
		var ok bool

		lane, ok = c.feed.TryPop()
		if !ok {
			return
		}
	}

	id, err := c.registry.Spawn(lane, c.tick)

	switch {
	case err == nil:
		c.pending = 0
		tracing.StartTask(c.vehicleTaskID(id), "", c,
			TaskKindVehicle, lane.String(), nil)
	case errors.Is(err, vehicle.ErrEntryBlocked):
		c.pending = lane
	default:
		c.pending = 0
		log.Printf("%s: ignoring arrival in lane %d: %v", c.Name(), lane, err)
	}
}

func (c *Comp) updatePhase(phase signal.Phase) {
	if phase == c.phase && c.phaseID > 0 {
		return
	}

	if c.phaseID > 0 {
		tracing.EndTask(c.phaseTaskID(), c)
	}

	c.phase = phase
	c.phaseID++
	tracing.StartTask(c.phaseTaskID(), "", c, TaskKindPhase, phase.String(), nil)
}

func (c *Comp) traceTurns(report kinematics.StepReport) {
	for _, id := range report.Started {
		tracing.AddTaskStep(c.vehicleTaskID(id), c, "turn_start")
	}

	for _, id := range report.Completed {
		tracing.AddTaskStep(c.vehicleTaskID(id), c, "turn_end")
	}
}

func (c *Comp) vehicleTaskID(id vehicle.ID) string {
	return fmt.Sprintf("%s.vehicle-%d", c.Name(), id)
}

func (c *Comp) phaseTaskID() string {
	return fmt.Sprintf("%s.phase-%d", c.Name(), c.phaseID)
}

// Feed returns the arrival feed the junction pops from.
func (c *Comp) Feed() *arrival.Feed {
	return c.feed
}

// EndTime returns the time after which the junction stops ticking. Zero
// means never.
func (c *Comp) EndTime() sim.VTimeInSec {
	return c.endTime
}

// Layout returns the lane layout.
func (c *Comp) Layout() *topology.Layout {
	return c.layout
}

// Snapshot returns the state after the latest tick.
func (c *Comp) Snapshot() Snapshot {
	c.lock.RLock()
	defer c.lock.RUnlock()

	s := c.snapshot
	s.Vehicles = append([]VehicleState(nil), c.snapshot.Vehicles...)

	return s
}

// Vehicle returns a copy of a live vehicle.
func (c *Comp) Vehicle(id vehicle.ID) (vehicle.Vehicle, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	v, ok := c.registry.Get(id)
	if !ok {
		return vehicle.Vehicle{}, false
	}

	cp := *v
	if v.Turn != nil {
		turn := *v.Turn
		cp.Turn = &turn
	}

	return cp, true
}

// NumVehicles returns the number of live vehicles.
func (c *Comp) NumVehicles() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.registry.Len()
}
