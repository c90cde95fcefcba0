package topology

import (
	"log"

	"github.com/samber/lo"
)

// A Layout is the full set of lanes, indexed by LaneID.
type Layout struct {
	lanes []*Lane
}

// NewLayout creates a layout from lanes. Lanes must be given in ID order and
// cover every ID from 1 to NumLanes.
func NewLayout(lanes []Lane) *Layout {
	if len(lanes) != NumLanes {
		log.Panicf("a layout needs %d lanes, got %d", NumLanes, len(lanes))
	}

	l := &Layout{}
	for i := range lanes {
		lane := lanes[i]
		if lane.ID != LaneID(i+1) {
			log.Panicf("lane %d given at position %d", lane.ID, i)
		}

		lane.Road = lane.ID.Road()
		l.lanes = append(l.lanes, &lane)
	}

	return l
}

// Lane returns the lane with the given ID.
func (l *Layout) Lane(id LaneID) (*Lane, bool) {
	if !id.Valid() {
		return nil, false
	}

	return l.lanes[id-1], true
}

// MustLane returns the lane with the given ID and panics if there is none.
func (l *Layout) MustLane(id LaneID) *Lane {
	lane, ok := l.Lane(id)
	if !ok {
		log.Panicf("lane %d does not exist", id)
	}

	return lane
}

// Lanes returns every lane in ID order.
func (l *Layout) Lanes() []*Lane {
	return l.lanes
}

// SourceLanes returns the IDs of the lanes that accept new vehicles.
func (l *Layout) SourceLanes() []LaneID {
	return lo.FilterMap(l.lanes, func(lane *Lane, _ int) (LaneID, bool) {
		return lane.ID, lane.Source
	})
}

// RoadLanes returns the lanes of one road.
func (l *Layout) RoadLanes(r Road) []*Lane {
	first := int(r) * LanesPerRoad

	return l.lanes[first : first+LanesPerRoad]
}

const (
	lineNear = Center - LaneWidth
	lineMid  = Center
	lineFar  = Center + LaneWidth
	exitIn   = BoxMin - TriggerLength
	exitOut  = BoxMax + TriggerLength
)

func source(
	id LaneID,
	dir Direction,
	line, stop float64,
	spawn Point,
	rules ...TurnRule,
) Lane {
	lane := Lane{
		ID:        id,
		Direction: dir,
		Line:      line,
		Stop:      stop,
		Spawn:     spawn,
		Source:    true,
	}

	from := lane.StopProgress()
	for _, r := range rules {
		r.TriggerFrom = from
		r.TriggerTo = from + TriggerLength
		lane.TurnRules = append(lane.TurnRules, r)
	}

	return lane
}

func outbound(id LaneID, dir Direction, line float64) Lane {
	return Lane{ID: id, Direction: dir, Line: line}
}

func turn(target LaneID, gate Gate, control, end Point) TurnRule {
	return TurnRule{
		Target:  target,
		Gate:    gate,
		Control: control,
		End:     end,
	}
}

// Standard returns the four-road layout with right-hand traffic. On every
// road, the first lane leaves the intersection, the second goes straight or
// turns right, and the third turns left.
func Standard() *Layout {
	return NewLayout([]Lane{
		outbound(1, North, lineFar),
		source(2, South, lineNear, BoxMin, Point{lineNear, 0},
			turn(4, GateStraight, Point{lineNear, 405}, Point{lineNear, exitOut}),
			turn(10, GateTurn, Point{lineNear, lineNear}, Point{exitIn, lineNear}),
		),
		source(3, South, lineMid, BoxMin, Point{lineMid, 0},
			turn(7, Ungated, Point{lineMid, lineFar}, Point{exitOut, lineFar}),
		),

		outbound(4, South, lineNear),
		source(5, North, lineFar, BoxMax, Point{lineFar, AreaSize},
			turn(1, GateStraight, Point{lineFar, 395}, Point{lineFar, exitIn}),
			turn(7, GateTurn, Point{lineFar, lineFar}, Point{exitOut, lineFar}),
		),
		source(6, North, lineMid, BoxMax, Point{lineMid, AreaSize},
			turn(10, Ungated, Point{lineMid, lineNear}, Point{exitIn, lineNear}),
		),

		outbound(7, East, lineFar),
		source(8, West, lineNear, BoxMax, Point{AreaSize, lineNear},
			turn(10, GateStraight, Point{395, lineNear}, Point{exitIn, lineNear}),
			turn(1, GateTurn, Point{lineFar, lineNear}, Point{lineFar, exitIn}),
		),
		source(9, West, lineMid, BoxMax, Point{AreaSize, lineMid},
			turn(4, Ungated, Point{lineNear, lineMid}, Point{lineNear, exitOut}),
		),

		outbound(10, West, lineNear),
		source(11, East, lineFar, BoxMin, Point{0, lineFar},
			turn(7, GateStraight, Point{405, lineFar}, Point{exitOut, lineFar}),
			turn(4, GateTurn, Point{lineNear, lineFar}, Point{lineNear, exitOut}),
		),
		source(12, East, lineMid, BoxMin, Point{0, lineMid},
			turn(1, Ungated, Point{lineFar, lineMid}, Point{lineFar, exitIn}),
		),
	})
}
