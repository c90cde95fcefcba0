package sim

import (
	"log"
	"time"
)

// RealTimePacer is a hook that holds an engine back so that simulated time
// does not run ahead of wall-clock time. It is attached to an engine and acts
// before every event.
type RealTimePacer struct {
	speedup float64

	started   bool
	wallStart time.Time
	simStart  VTimeInSec

	now   func() time.Time
	sleep func(time.Duration)
}

// NewRealTimePacer creates a pacer. A speedup of 2 runs the simulation twice
// as fast as wall-clock time.
func NewRealTimePacer(speedup float64) *RealTimePacer {
	if speedup <= 0 {
		log.Panicf("speedup must be positive, got %f", speedup)
	}

	return &RealTimePacer{
		speedup: speedup,
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// Func sleeps until the wall clock catches up with the event time.
func (p *RealTimePacer) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	if !p.started {
		p.started = true
		p.wallStart = p.now()
		p.simStart = evt.Time()

		return
	}

	simElapsed := float64(evt.Time()-p.simStart) / p.speedup
	due := p.wallStart.Add(time.Duration(simElapsed * float64(time.Second)))

	if wait := due.Sub(p.now()); wait > 0 {
		p.sleep(wait)
	}
}
