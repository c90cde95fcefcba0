package topology

// Gate restricts a turn rule to vehicles that chose a given path.
type Gate int

// Gates.
const (
	// Ungated rules apply to every vehicle in the lane.
	Ungated Gate = iota

	// GateStraight rules apply to vehicles going straight.
	GateStraight

	// GateTurn rules apply to vehicles that turn.
	GateTurn
)

// A TurnRule moves a vehicle from its lane into Target along a curve that
// bends toward Control and ends at End. The rule fires when the vehicle's
// progress lies within [TriggerFrom, TriggerTo].
type TurnRule struct {
	TriggerFrom float64
	TriggerTo   float64
	Target      LaneID
	Control     Point
	End         Point
	Gate        Gate
}

// Admits tells if a vehicle going straight (or not) may use the rule.
func (r TurnRule) Admits(straight bool) bool {
	switch r.Gate {
	case GateStraight:
		return straight
	case GateTurn:
		return !straight
	}

	return true
}

// A Lane is an immutable description of one lane.
type Lane struct {
	ID        LaneID
	Road      Road
	Direction Direction

	// Line is the fixed coordinate of the travel line, x for vertical lanes
	// and y for horizontal ones.
	Line float64

	// Stop is the coordinate of the stop line. Only source lanes have one.
	Stop float64

	// Spawn is where new vehicles enter the lane.
	Spawn Point

	Source    bool
	TurnRules []TurnRule
}

// IsSource tells if vehicles may be spawned in the lane.
func (l *Lane) IsSource() bool {
	return l.Source
}

// Axis returns the orientation of vehicles travelling in the lane.
func (l *Lane) Axis() Axis {
	return l.Direction.Axis()
}

// Progress measures how far p is along the lane direction. Larger values are
// further ahead.
func (l *Lane) Progress(p Point) float64 {
	return progress(l.Direction, p)
}

func progress(d Direction, p Point) float64 {
	switch d {
	case North:
		return -p.Y
	case South:
		return p.Y
	case East:
		return p.X
	default:
		return -p.X
	}
}

// StopProgress returns the progress of the stop line.
func (l *Lane) StopProgress() float64 {
	return progress(l.Direction, Point{X: l.Stop, Y: l.Stop})
}

// Advance returns p moved dist units ahead along the lane.
func (l *Lane) Advance(p Point, dist float64) Point {
	switch l.Direction {
	case North:
		p.Y -= dist
	case South:
		p.Y += dist
	case East:
		p.X += dist
	default:
		p.X -= dist
	}

	return p
}

// InStopZone tells if p lies within the band around the stop line.
func (l *Lane) InStopZone(p Point) bool {
	if !l.Source {
		return false
	}

	d := l.Progress(p) - l.StopProgress()

	return d >= -StopBand && d <= StopBand
}

// BeforeStopLine tells if p has not yet passed the stop line.
func (l *Lane) BeforeStopLine(p Point) bool {
	return l.Source && l.Progress(p) <= l.StopProgress()
}

// InQueueZone tells if a vehicle at p counts as waiting at the stop line.
func (l *Lane) InQueueZone(p Point) bool {
	if !l.Source {
		return false
	}

	d := l.Progress(p) - l.StopProgress()

	return d >= -QueueLength && d <= StopBand
}

// TriggeredRule returns the first rule whose trigger zone holds p and that
// admits the vehicle.
func (l *Lane) TriggeredRule(p Point, straight bool) (TurnRule, bool) {
	prog := l.Progress(p)

	for _, r := range l.TurnRules {
		if prog < r.TriggerFrom || prog > r.TriggerTo {
			continue
		}

		if r.Admits(straight) {
			return r, true
		}
	}

	return TurnRule{}, false
}

// HasGatedRules tells if vehicles in the lane need a path choice.
func (l *Lane) HasGatedRules() bool {
	for _, r := range l.TurnRules {
		if r.Gate != Ungated {
			return true
		}
	}

	return false
}
