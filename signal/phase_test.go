package signal

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/crossroads/topology"
)

var _ = Describe("Phase", func() {
	It("should give right-of-way to at most one road", func() {
		for _, p := range []Phase{AllStopped, RoadA, RoadB, RoadC, RoadD} {
			allowed := 0
			for r := topology.RoadA; r <= topology.RoadD; r++ {
				if p.Allows(r) {
					allowed++
				}
			}

			if p == AllStopped {
				Expect(allowed).To(Equal(0))
			} else {
				Expect(allowed).To(Equal(1))
			}
		}
	})

	It("should map roads to phases", func() {
		Expect(PhaseOf(topology.RoadC)).To(Equal(RoadC))

		r, ok := RoadD.Road()
		Expect(ok).To(BeTrue())
		Expect(r).To(Equal(topology.RoadD))

		_, ok = AllStopped.Road()
		Expect(ok).To(BeFalse())
	})

	It("should have readable names", func() {
		Expect(RoadB.String()).To(Equal("RoadB"))
		Expect(AllStopped.String()).To(Equal("AllStopped"))

		text, err := RoadA.MarshalText()
		Expect(err).ToNot(HaveOccurred())
		Expect(string(text)).To(Equal("RoadA"))
	})
})
