package message_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ltnsim/message"
)

var _ = Describe("Clone", func() {
	It("should not let the clone's append mutate the original hop path", func() {
		m := message.Message{HopPath: []message.HostAddress{1, 2}}
		clone := m.Clone()
		clone.HopPath = append(clone.HopPath, 3)

		Expect(m.HopPath).To(Equal([]message.HostAddress{1, 2}))
		Expect(clone.HopPath).To(Equal([]message.HostAddress{1, 2, 3}))
	})
})

var _ = Describe("Delivered", func() {
	It("should be true when the hop path ends at the destination", func() {
		m := message.Message{To: 5, HopPath: []message.HostAddress{1, 5}}
		Expect(m.Delivered()).To(BeTrue())
	})

	It("should be false for an empty hop path", func() {
		m := message.Message{To: 5}
		Expect(m.Delivered()).To(BeFalse())
	})
})

var _ = Describe("NewChunkPlan", func() {
	It("should produce N full chunks and no tail for an exact multiple", func() {
		full, tail := message.NewChunkPlan(3 * message.PathMTU)
		Expect(full).To(Equal(3))
		Expect(tail).To(Equal(0))
	})

	It("should produce N full chunks and a 1-byte tail just past a multiple", func() {
		full, tail := message.NewChunkPlan(3*message.PathMTU + 1)
		Expect(full).To(Equal(3))
		Expect(tail).To(Equal(1))
	})
})
