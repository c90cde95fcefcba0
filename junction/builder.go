package junction

import (
	"math/rand"

	"github.com/sarchlab/crossroads/arrival"
	"github.com/sarchlab/crossroads/kinematics"
	"github.com/sarchlab/crossroads/signal"
	"github.com/sarchlab/crossroads/sim"
	"github.com/sarchlab/crossroads/topology"
	"github.com/sarchlab/crossroads/vehicle"
)

// DefaultFreq is the tick rate of the junction.
const DefaultFreq = 60 * sim.Hz

// A Builder can build junctions.
type Builder struct {
	engine  sim.Engine
	freq    sim.Freq
	layout  *topology.Layout
	feed    *arrival.Feed
	seed    int64
	endTime sim.VTimeInSec
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq: DefaultFreq,
		seed: 1,
	}
}

// WithEngine sets the engine that drives the junction.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the tick rate.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithLayout sets the lanes. The standard layout is used if not set.
func (b Builder) WithLayout(layout *topology.Layout) Builder {
	b.layout = layout
	return b
}

// WithFeed sets the arrival feed. A new feed is created if not set.
func (b Builder) WithFeed(feed *arrival.Feed) Builder {
	b.feed = feed
	return b
}

// WithSeed sets the seed that draws vehicle paths.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	return b
}

// WithEndTime stops the junction after the given time. Zero means never.
func (b Builder) WithEndTime(t sim.VTimeInSec) Builder {
	b.endTime = t
	return b
}

// Build creates a junction with the given name.
func (b Builder) Build(name string) *Comp {
	b.parametersMustBeValid()

	c := &Comp{
		layout:     b.layout,
		feed:       b.feed,
		endTime:    b.endTime,
		controller: signal.NewController(),
	}

	if c.layout == nil {
		c.layout = topology.Standard()
	}

	if c.feed == nil {
		c.feed = arrival.NewFeed(name + ".Feed")
	}

	c.registry = vehicle.NewRegistry(c.layout, rand.New(rand.NewSource(b.seed)))
	c.kinematics = kinematics.NewEngine(c.layout, c.registry)
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	return c
}

func (b Builder) parametersMustBeValid() {
	if b.engine == nil {
		panic("engine is not set")
	}

	if b.freq <= 0 {
		panic("frequency must be positive")
	}

	if b.endTime < 0 {
		panic("end time must not be negative")
	}
}
