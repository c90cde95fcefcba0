// Package maneuver moves turning vehicles along quadratic Bezier curves from
// their lane into the target lane.
package maneuver

import (
	"math"

	"github.com/sarchlab/crossroads/topology"
	"github.com/sarchlab/crossroads/vehicle"
)

// Curve tuning.
const (
	// AccelerationFactor speeds vehicles up while they turn.
	AccelerationFactor = 1.8

	// CurveLengthFudge stretches the chord length toward the arc length.
	CurveLengthFudge = 1.05

	// MinCurveLength keeps the rate finite when the end point is close to
	// the source point.
	MinCurveLength = 1.0
)

// Bezier evaluates the quadratic Bezier curve p0-p1-p2 at t.
func Bezier(p0, p1, p2 topology.Point, t float64) topology.Point {
	u := 1 - t

	return topology.Point{
		X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
		Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
	}
}

// Rate returns how much of the curve a vehicle covers in one tick.
func Rate(speed float64, source, end topology.Point) float64 {
	length := math.Hypot(end.X-source.X, end.Y-source.Y)
	if length < MinCurveLength {
		length = MinCurveLength
	}

	return (speed * AccelerationFactor) / (length * CurveLengthFudge)
}

// Start puts a vehicle on a curve from where it is now, bending toward
// control and ending at end in the target lane.
func Start(
	v *vehicle.Vehicle,
	target topology.LaneID,
	control, end topology.Point,
) {
	v.Turn = &vehicle.Turn{
		Rate:       Rate(v.Speed, v.Position, end),
		Source:     v.Position,
		Control:    control,
		End:        end,
		TargetLane: target,
	}
}

// Advance moves a turning vehicle one tick along its curve. When the curve is
// done, the vehicle is pinned to the end point, takes the target lane and its
// orientation, and Advance returns true.
func Advance(v *vehicle.Vehicle, layout *topology.Layout) bool {
	turn := v.Turn
	if turn == nil {
		return false
	}

	turn.T += turn.Rate
	if turn.T < 1 {
		v.Position = Bezier(turn.Source, turn.Control, turn.End, turn.T)
		return false
	}

	v.Position = turn.End
	v.Lane = turn.TargetLane
	v.Axis = layout.MustLane(turn.TargetLane).Axis()
	v.Turn = nil

	return true
}
