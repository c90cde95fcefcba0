package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should get period", func() {
		var f = 1 * GHz
		Expect(f.Period()).To(BeNumerically("==", 1e-9))
	})

	It("should panic on zero frequency", func() {
		var f Freq
		Expect(func() { f.Period() }).To(Panic())
	})

	It("should get this tick", func() {
		var f = 1 * Hz
		Expect(f.ThisTick(1)).To(BeNumerically("~", 1, 1e-12))
	})

	It("should round up to this tick", func() {
		var f = 60 * Hz
		Expect(f.ThisTick(0.01)).To(BeNumerically("~", 1.0/60, 1e-12))
	})

	It("should get the next tick", func() {
		var f = 1 * GHz
		Expect(f.NextTick(102.000000001)).To(BeNumerically("~", 102.000000002, 1e-12))
	})

	It("should get the next tick 2", func() {
		var f = 1 * GHz
		Expect(f.NextTick(0.000000031)).To(BeNumerically("~", 0.000000032, 1e-12))
	})

	It("should get the next tick at 60 Hz", func() {
		var f = 60 * Hz
		Expect(f.NextTick(0)).To(BeNumerically("~", 1.0/60, 1e-12))
		Expect(f.NextTick(1.0 / 60)).To(BeNumerically("~", 2.0/60, 1e-12))
	})

	It("should get the next tick, if currTime is not on a tick", func() {
		var f = 1 * GHz
		Expect(f.NextTick(102.0000000011)).To(BeNumerically("~", 102.000000002, 1e-12))
	})

	It("should get the n cycles later", func() {
		var f = 1 * GHz
		Expect(f.NCyclesLater(12, 102.000000001)).To(
			BeNumerically("~", 102.000000013, 1e-12))
	})

	It("should count cycles", func() {
		var f = 60 * Hz
		Expect(f.Cycle(1)).To(Equal(uint64(60)))
		Expect(f.Cycle(VTimeInSec(181) / 60)).To(Equal(uint64(181)))
	})
})
