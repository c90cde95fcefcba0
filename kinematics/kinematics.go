// Package kinematics moves every vehicle by one tick.
//
// Lanes are walked lead first. Each straight-driving vehicle proposes one
// speed unit of travel; the proposal is rejected when the vehicle waits in
// the stop-line zone against the signal or when the move would close the gap
// to the vehicle ahead below the minimum. Turning vehicles follow their curve instead.
package kinematics

import (
	"github.com/sarchlab/crossroads/maneuver"
	"github.com/sarchlab/crossroads/signal"
	"github.com/sarchlab/crossroads/topology"
	"github.com/sarchlab/crossroads/vehicle"
)

// StepReport tells what happened during one step.
type StepReport struct {
	Moved     int
	Held      int
	Started   []vehicle.ID
	Completed []vehicle.ID
}

// Engine applies the motion rules to the vehicles of a registry.
type Engine struct {
	layout   *topology.Layout
	registry *vehicle.Registry
}

// NewEngine creates a kinematics engine.
func NewEngine(layout *topology.Layout, registry *vehicle.Registry) *Engine {
	return &Engine{
		layout:   layout,
		registry: registry,
	}
}

// Step moves every vehicle once under the given phase.
func (e *Engine) Step(active signal.Phase) StepReport {
	var report StepReport

	e.registry.Reindex()

	for _, lane := range e.layout.Lanes() {
		vehicles := e.registry.ByLane(lane.ID)
		for i, v := range vehicles {
			if v.Maneuvering() {
				if maneuver.Advance(v, e.layout) {
					report.Completed = append(report.Completed, v.ID)
				}

				report.Moved++

				continue
			}

			var ahead *vehicle.Vehicle
			if i > 0 {
				ahead = vehicles[i-1]
			}

			proposed, ok := e.propose(lane, v, ahead, active)
			if !ok {
				report.Held++
				continue
			}

			v.Position = proposed
			report.Moved++

			rule, hit := lane.TriggeredRule(proposed, v.GoesStraight())
			if hit {
				maneuver.Start(v, rule.Target, rule.Control, rule.End)
				report.Started = append(report.Started, v.ID)
			}
		}
	}

	return report
}

func (e *Engine) propose(
	lane *topology.Lane,
	v, ahead *vehicle.Vehicle,
	active signal.Phase,
) (topology.Point, bool) {
	proposed := lane.Advance(v.Position, v.Speed)

	if lane.BeforeStopLine(v.Position) &&
		lane.InStopZone(v.Position) &&
		!active.Allows(lane.Road) {
		return v.Position, false
	}

	if ahead != nil &&
		lane.Progress(ahead.Position)-lane.Progress(proposed) < topology.MinGap {
		return v.Position, false
	}

	return proposed, true
}

// QueueDepth counts, per road, the vehicles waiting near the stop line that
// are not turning.
func (e *Engine) QueueDepth() signal.QueueDepth {
	var depth signal.QueueDepth

	for _, v := range e.registry.All() {
		if v.Maneuvering() {
			continue
		}

		lane := e.layout.MustLane(v.Lane)
		if lane.InQueueZone(v.Position) {
			depth[lane.Road]++
		}
	}

	return depth
}
