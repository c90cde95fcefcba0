package vehicle

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/crossroads/topology"
)

var _ = Describe("Registry", func() {
	var (
		layout   *topology.Layout
		registry *Registry
	)

	BeforeEach(func() {
		layout = topology.Standard()
		registry = NewRegistry(layout, rand.New(rand.NewSource(1)))
	})

	It("should spawn at the lane entry", func() {
		id, err := registry.Spawn(2, 7)

		Expect(err).ToNot(HaveOccurred())
		v, ok := registry.Get(id)
		Expect(ok).To(BeTrue())
		Expect(v.Position).To(Equal(topology.Point{X: 350, Y: 0}))
		Expect(v.Lane).To(Equal(topology.LaneID(2)))
		Expect(v.Axis).To(Equal(topology.Vertical))
		Expect(v.Speed).To(Equal(topology.BaseSpeed))
		Expect(v.SpawnedAt).To(Equal(uint64(7)))
		Expect(v.Maneuvering()).To(BeFalse())
	})

	It("should ignore lanes that do not accept vehicles", func() {
		for _, lane := range []topology.LaneID{0, 1, 4, 7, 10, 13, -3} {
			_, err := registry.Spawn(lane, 0)
			Expect(err).To(MatchError(ErrNotSpawnable))
		}

		Expect(registry.Len()).To(Equal(0))
	})

	It("should block the entry until the last vehicle moved away", func() {
		id, err := registry.Spawn(3, 0)
		Expect(err).ToNot(HaveOccurred())

		_, err = registry.Spawn(3, 1)
		Expect(err).To(MatchError(ErrEntryBlocked))

		v, _ := registry.Get(id)
		v.Position.Y = 44
		_, err = registry.Spawn(3, 2)
		Expect(err).To(MatchError(ErrEntryBlocked))

		v.Position.Y = 46
		_, err = registry.Spawn(3, 3)
		Expect(err).ToNot(HaveOccurred())
	})

	It("should not block other lanes", func() {
		_, err := registry.Spawn(3, 0)
		Expect(err).ToNot(HaveOccurred())

		_, err = registry.Spawn(2, 0)
		Expect(err).ToNot(HaveOccurred())
	})

	It("should keep IDs stable and never reuse them", func() {
		a, _ := registry.Spawn(2, 0)
		b, _ := registry.Spawn(5, 0)

		registry.Remove(a)
		c, _ := registry.Spawn(8, 0)

		Expect(c).ToNot(Equal(a))
		vb, ok := registry.Get(b)
		Expect(ok).To(BeTrue())
		Expect(vb.Lane).To(Equal(topology.LaneID(5)))

		_, ok = registry.Get(a)
		Expect(ok).To(BeFalse())
		Expect(registry.Len()).To(Equal(2))

		registry.Remove(a)
		Expect(registry.Len()).To(Equal(2))
	})

	It("should list all vehicles by ID", func() {
		ids := make([]ID, 0)
		for _, lane := range layout.SourceLanes() {
			id, err := registry.Spawn(lane, 0)
			Expect(err).ToNot(HaveOccurred())
			ids = append(ids, id)
		}

		registry.Remove(ids[2])
		id, _ := registry.Spawn(layout.SourceLanes()[2], 1)

		all := registry.All()
		Expect(all).To(HaveLen(len(ids)))
		Expect(all[len(all)-1].ID).To(Equal(id))
		for i := 1; i < len(all); i++ {
			Expect(all[i-1].ID).To(BeNumerically("<", all[i].ID))
		}
	})

	It("should order lane views lead first", func() {
		first, _ := registry.Spawn(2, 0)
		v, _ := registry.Get(first)
		v.Position.Y = 200

		second, _ := registry.Spawn(2, 1)
		v, _ = registry.Get(second)
		v.Position.Y = 100

		third, _ := registry.Spawn(2, 2)

		registry.Reindex()
		view := registry.ByLane(2)

		Expect(view).To(HaveLen(3))
		Expect(view[0].ID).To(Equal(first))
		Expect(view[1].ID).To(Equal(second))
		Expect(view[2].ID).To(Equal(third))
		Expect(registry.ByLane(3)).To(BeEmpty())
		Expect(registry.ByLane(99)).To(BeNil())
	})

	It("should order northbound lanes by decreasing y", func() {
		a, _ := registry.Spawn(5, 0)
		v, _ := registry.Get(a)
		v.Position.Y = 700

		b, _ := registry.Spawn(5, 1)
		v, _ = registry.Get(b)
		v.Position.Y = 500

		registry.Reindex()
		view := registry.ByLane(5)

		Expect(view[0].ID).To(Equal(b))
		Expect(view[1].ID).To(Equal(a))
	})

	It("should leave removed and moved vehicles out of stale views", func() {
		a, _ := registry.Spawn(2, 0)
		v, _ := registry.Get(a)
		v.Position.Y = 200
		b, _ := registry.Spawn(2, 0)

		registry.Reindex()
		registry.Remove(b)
		v, _ = registry.Get(a)
		v.Lane = 4

		Expect(registry.ByLane(2)).To(BeEmpty())
	})

	It("should remove vehicles leaving the margin", func() {
		inside, _ := registry.Spawn(2, 0)
		leaving, _ := registry.Spawn(11, 0)
		v, _ := registry.Get(leaving)
		v.Position.X = 901

		edge, _ := registry.Spawn(9, 0)
		v, _ = registry.Get(edge)
		v.Position.X = -100

		removed := registry.RemoveOutOfBounds()

		Expect(removed).To(Equal([]ID{leaving}))
		_, ok := registry.Get(inside)
		Expect(ok).To(BeTrue())
		_, ok = registry.Get(edge)
		Expect(ok).To(BeTrue())
		Expect(registry.Len()).To(Equal(2))
	})

	It("should draw a path only in lanes with gated turns", func() {
		paths := map[Path]int{}
		for i := 0; i < 40; i++ {
			r := NewRegistry(layout, rand.New(rand.NewSource(int64(i))))

			id, _ := r.Spawn(2, 0)
			v, _ := r.Get(id)
			paths[v.Path]++

			id, _ = r.Spawn(3, 0)
			v, _ = r.Get(id)
			Expect(v.Path).To(Equal(PathStraight))
		}

		Expect(paths[PathStraight]).To(BeNumerically(">", 0))
		Expect(paths[PathTurn]).To(BeNumerically(">", 0))
	})
})
