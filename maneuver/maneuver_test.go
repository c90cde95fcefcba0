package maneuver

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/crossroads/topology"
	"github.com/sarchlab/crossroads/vehicle"
)

var _ = Describe("Maneuver", func() {
	var layout *topology.Layout

	BeforeEach(func() {
		layout = topology.Standard()
	})

	It("should evaluate the curve at its ends and middle", func() {
		p0 := topology.Point{X: 0, Y: 0}
		p1 := topology.Point{X: 10, Y: 0}
		p2 := topology.Point{X: 10, Y: 10}

		Expect(Bezier(p0, p1, p2, 0)).To(Equal(p0))
		Expect(Bezier(p0, p1, p2, 1)).To(Equal(p2))
		Expect(Bezier(p0, p1, p2, 0.5)).To(Equal(topology.Point{X: 7.5, Y: 2.5}))
	})

	It("should compute the rate from the chord length", func() {
		rate := Rate(2, topology.Point{X: 0, Y: 0}, topology.Point{X: 30, Y: 40})

		Expect(rate).To(BeNumerically("~", 2*1.8/(50*1.05), 1e-12))
	})

	It("should clamp very short curves", func() {
		p := topology.Point{X: 3, Y: 3}

		Expect(Rate(2, p, p)).To(BeNumerically("~", 2*1.8/1.05, 1e-12))
		Expect(math.IsInf(Rate(2, p, p), 0)).To(BeFalse())
	})

	It("should not move vehicles that are not turning", func() {
		v := &vehicle.Vehicle{Position: topology.Point{X: 1, Y: 2}}

		Expect(Advance(v, layout)).To(BeFalse())
		Expect(v.Position).To(Equal(topology.Point{X: 1, Y: 2}))
	})

	It("should reach every target lane exactly", func() {
		for _, lane := range layout.Lanes() {
			for _, rule := range lane.TurnRules {
				start := lane.Advance(lane.Spawn,
					rule.TriggerFrom+1-lane.Progress(lane.Spawn))
				v := &vehicle.Vehicle{
					Position: start,
					Speed:    topology.BaseSpeed,
					Lane:     lane.ID,
					Axis:     lane.Axis(),
				}

				Start(v, rule.Target, rule.Control, rule.End)

				Expect(v.Maneuvering()).To(BeTrue())
				Expect(v.Turn.Source).To(Equal(start))

				ticks, done := 0, false
				for !done {
					axis := v.Axis
					done = Advance(v, layout)
					ticks++

					if !done {
						Expect(v.Axis).To(Equal(axis))
						Expect(v.Lane).To(Equal(lane.ID))
					}

					Expect(ticks).To(BeNumerically("<", 200))
				}

				target := layout.MustLane(rule.Target)
				Expect(v.Position).To(Equal(rule.End))
				Expect(v.Lane).To(Equal(rule.Target))
				Expect(v.Axis).To(Equal(target.Axis()))
				Expect(v.Maneuvering()).To(BeFalse())
			}
		}
	})

	It("should move faster than straight driving", func() {
		lane := layout.MustLane(2)
		rule := lane.TurnRules[0]
		v := &vehicle.Vehicle{
			Position: topology.Point{X: 350, Y: 326},
			Speed:    topology.BaseSpeed,
			Lane:     2,
		}

		Start(v, rule.Target, rule.Control, rule.End)
		prev := v.Position
		Advance(v, layout)

		Expect(v.Position.Y - prev.Y).To(BeNumerically(">", topology.BaseSpeed))
	})
})
