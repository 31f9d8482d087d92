package world_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ltnsim/world"
)

var _ = Describe("Bitrate", func() {
	It("should be 0 at exactly the range boundary", func() {
		Expect(world.Bitrate(20, 20)).To(Equal(0.0))
	})

	It("should clamp distances below 1m to the 1m value", func() {
		at1m := world.Bitrate(1, 50)
		belowOne := world.Bitrate(0.1, 50)
		Expect(belowOne).To(Equal(at1m))
	})

	It("should decrease as distance increases, within range", func() {
		near := world.Bitrate(5, 50)
		far := world.Bitrate(40, 50)
		Expect(far).To(BeNumerically("<", near))
	})

	It("should never exceed 1e6 bps", func() {
		Expect(world.Bitrate(1, 50)).To(BeNumerically("<=", 1.0e6))
	})
})
