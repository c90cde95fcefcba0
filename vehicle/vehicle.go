// Package vehicle owns every vehicle in the simulation and keeps the per-lane
// views the kinematics walk through.
package vehicle

import (
	"github.com/sarchlab/crossroads/topology"
)

// ID identifies a vehicle for its whole lifetime.
type ID uint64

// Path is the choice a vehicle makes at spawn between the turns its lane
// offers.
type Path int

// Paths.
const (
	PathStraight Path = iota
	PathTurn
)

func (p Path) String() string {
	if p == PathStraight {
		return "Straight"
	}

	return "Turn"
}

// MarshalText writes the path name.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// A Turn is a maneuver in progress.
type Turn struct {
	T          float64
	Rate       float64
	Source     topology.Point
	Control    topology.Point
	End        topology.Point
	TargetLane topology.LaneID
}

// A Vehicle is a car in one of the lanes.
type Vehicle struct {
	ID        ID
	Position  topology.Point
	Speed     float64
	Lane      topology.LaneID
	Axis      topology.Axis
	Path      Path
	SpawnedAt uint64

	// Turn is nil unless the vehicle is turning.
	Turn *Turn
}

// Maneuvering tells if the vehicle is following a turn curve.
func (v *Vehicle) Maneuvering() bool {
	return v.Turn != nil
}

// GoesStraight tells if the vehicle chose the straight path.
func (v *Vehicle) GoesStraight() bool {
	return v.Path == PathStraight
}
