// Package topology describes the static layout of the intersection: twelve
// lanes on four roads, their stop lines and the turns that leave them.
package topology

import (
	"fmt"
	"log"
)

// Geometry of the intersection, in simulation units. The area is square and
// the intersection box sits in its middle.
const (
	AreaSize    = 800.0
	Center      = AreaSize / 2
	RoadWidth   = 150.0
	LaneWidth   = 50.0
	BoxMin      = Center - RoadWidth/2
	BoxMax      = Center + RoadWidth/2
	BoundMargin = 100.0
)

// Motion and zone constants shared by the registry and the kinematics.
const (
	// BaseSpeed is how far a vehicle travels in one tick.
	BaseSpeed = 2.0

	// MinGap is the smallest allowed distance to the vehicle ahead.
	MinGap = 45.0

	// StopBand is the half width of the stop-line zone.
	StopBand = 5.0

	// TriggerLength is the length of the turn-trigger zone that starts at
	// the stop line.
	TriggerLength = 10.0

	// QueueLength is how far before the stop line a vehicle still counts as
	// queued.
	QueueLength = 250.0
)

// NumRoads is the number of roads meeting at the intersection.
const NumRoads = 4

// LanesPerRoad is the number of lanes on every road.
const LanesPerRoad = 3

// NumLanes is the total number of lanes.
const NumLanes = NumRoads * LanesPerRoad

// A Road is one of the four approaches.
type Road int

// The four roads.
const (
	RoadA Road = iota
	RoadB
	RoadC
	RoadD
)

// Next returns the road that follows r in cyclic order.
func (r Road) Next() Road {
	return (r + 1) % NumRoads
}

// Offset returns the road n steps after r in cyclic order.
func (r Road) Offset(n int) Road {
	return Road((int(r) + n) % NumRoads)
}

func (r Road) String() string {
	switch r {
	case RoadA:
		return "A"
	case RoadB:
		return "B"
	case RoadC:
		return "C"
	case RoadD:
		return "D"
	}

	return fmt.Sprintf("Road(%d)", int(r))
}

// MarshalText writes the road letter.
func (r Road) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Direction is the heading of traffic in a lane.
type Direction int

// Headings. The y axis grows downward, so North means decreasing y.
const (
	North Direction = iota
	South
	East
	West
)

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case South:
		return "South"
	case East:
		return "East"
	case West:
		return "West"
	}

	return fmt.Sprintf("Direction(%d)", int(d))
}

// MarshalText writes the direction name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Axis returns the coordinate axis the direction moves along.
func (d Direction) Axis() Axis {
	if d == North || d == South {
		return Vertical
	}

	return Horizontal
}

// Axis is the orientation of a vehicle.
type Axis int

// Orientations.
const (
	Vertical Axis = iota
	Horizontal
)

func (a Axis) String() string {
	if a == Vertical {
		return "Vertical"
	}

	return "Horizontal"
}

// MarshalText writes the axis name.
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Point is a location in the simulation area.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// InBounds tells if p is inside the area extended by the bounding margin.
func InBounds(p Point) bool {
	lo := -BoundMargin
	hi := AreaSize + BoundMargin

	return p.X >= lo && p.X <= hi && p.Y >= lo && p.Y <= hi
}

// LaneID identifies a lane. Valid IDs run from 1 to NumLanes.
type LaneID int

// Valid tells if the ID names one of the lanes.
func (id LaneID) Valid() bool {
	return id >= 1 && id <= NumLanes
}

// Road returns the road the lane belongs to.
func (id LaneID) Road() Road {
	if !id.Valid() {
		log.Panicf("lane %d does not exist", id)
	}

	return Road((int(id) - 1) / LanesPerRoad)
}

// Index returns the position of the lane within its road, from 0.
func (id LaneID) Index() int {
	if !id.Valid() {
		log.Panicf("lane %d does not exist", id)
	}

	return (int(id) - 1) % LanesPerRoad
}

func (id LaneID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("Lane(%d)", int(id))
	}

	return fmt.Sprintf("%s%d", id.Road(), id.Index()+1)
}
