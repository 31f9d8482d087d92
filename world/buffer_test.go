package world_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ltnsim/message"
	"github.com/sarchlab/ltnsim/world"
)

var _ = Describe("Buffer", func() {
	It("should refuse a message larger than capacity", func() {
		b := world.NewBuffer(100)
		ok := b.Admit(message.Message{ID: 1, Size: 200}, 0)
		Expect(ok).To(BeFalse())
		Expect(b.Size()).To(Equal(0))
	})

	It("should evict oldest entries FIFO to make room", func() {
		b := world.NewBuffer(100)
		Expect(b.Admit(message.Message{ID: 1, Size: 60}, 0)).To(BeTrue())
		Expect(b.Admit(message.Message{ID: 2, Size: 60}, 0)).To(BeTrue())

		Expect(b.Has(1)).To(BeFalse())
		Expect(b.Has(2)).To(BeTrue())
		Expect(b.Size()).To(BeNumerically("<=", 100))
	})

	It("should never exceed capacity", func() {
		b := world.NewBuffer(100)
		for i := 0; i < 10; i++ {
			b.Admit(message.Message{ID: message.ID(i), Size: 30}, 0)
			Expect(b.Size()).To(BeNumerically("<=", 100))
		}
	})
})
