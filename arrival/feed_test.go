package arrival

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/crossroads/sim"
	"github.com/sarchlab/crossroads/topology"
)

var _ = Describe("Feed", func() {
	var feed *Feed

	BeforeEach(func() {
		feed = NewFeed("Feed")
	})

	It("should pop in push order", func() {
		feed.Push(2)
		feed.Push(9)
		feed.Push(5)

		Expect(feed.Size()).To(Equal(3))

		for _, want := range []topology.LaneID{2, 9, 5} {
			lane, ok := feed.TryPop()
			Expect(ok).To(BeTrue())
			Expect(lane).To(Equal(want))
		}
	})

	It("should report an empty feed", func() {
		_, ok := feed.TryPop()

		Expect(ok).To(BeFalse())
		Expect(feed.Size()).To(Equal(0))
		Expect(feed.Capacity()).To(Equal(sim.Unbounded))
		Expect(feed.Name()).To(Equal("Feed"))
	})

	It("should keep invalid lanes for the consumer to reject", func() {
		feed.Push(42)

		lane, ok := feed.TryPop()
		Expect(ok).To(BeTrue())
		Expect(lane).To(Equal(topology.LaneID(42)))
	})

	It("should accept pushes from many goroutines", func() {
		var wg sync.WaitGroup
		for p := 0; p < 8; p++ {
			wg.Add(1)
			go func(p int) {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					feed.Push(topology.LaneID(p + 1))
				}
			}(p)
		}

		popped := 0
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		for {
			if _, ok := feed.TryPop(); ok {
				popped++
				continue
			}

			select {
			case <-done:
				for {
					if _, ok := feed.TryPop(); !ok {
						break
					}
					popped++
				}

				Expect(popped).To(Equal(800))

				return
			default:
			}
		}
	})

	It("should invoke hooks on push and pop", func() {
		var positions []*sim.HookPos
		feed.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
			positions = append(positions, ctx.Pos)
		}))

		feed.Push(3)
		feed.TryPop()

		Expect(positions).To(Equal([]*sim.HookPos{
			sim.HookPosBufPush, sim.HookPosBufPop,
		}))
	})
})
