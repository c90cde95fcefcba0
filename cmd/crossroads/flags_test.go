package main

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/crossroads/arrival"
	"github.com/sarchlab/crossroads/config"
)

var _ = Describe("Flags", func() {
	It("should parse durations and plain seconds", func() {
		d, err := parseDuration("1m30s")
		Expect(err).ToNot(HaveOccurred())
		Expect(d).To(Equal(90 * time.Second))

		d, err = parseDuration("2.5")
		Expect(err).ToNot(HaveOccurred())
		Expect(d).To(Equal(2500 * time.Millisecond))

		_, err = parseDuration("soon")
		Expect(err).To(HaveOccurred())
	})

	It("should only apply the run flags that are set", func() {
		Expect(runCmd.Flags().Set("duration", "10")).To(Succeed())
		Expect(runCmd.Flags().Set("framing", "line")).To(Succeed())
		Expect(runCmd.Flags().Set("no-monitor", "true")).To(Succeed())

		c := config.Default()
		Expect(applyRunFlags(runCmd, &c)).To(Succeed())

		Expect(c.Duration).To(Equal(10 * time.Second))
		Expect(c.Framing).To(Equal(arrival.FramingLine))
		Expect(c.Monitor).To(BeFalse())
		Expect(c.Seed).To(Equal(int64(1)))
		Expect(c.ListenAddr).To(Equal(":5000"))
	})

	It("should report a bad framing of the generator", func() {
		Expect(generateCmd.Flags().Set("framing", "json")).To(Succeed())

		c := config.Default()
		Expect(applyGenerateFlags(generateCmd, &c)).ToNot(Succeed())
	})

	It("should build a simulation from the settings", func() {
		c := config.Default()
		c.Monitor = false
		c.Record = false

		s := buildSimulation(c)
		defer s.Terminate()

		Expect(s.GetMonitor()).To(BeNil())
		Expect(s.GetDataRecorder()).To(BeNil())
	})
})
