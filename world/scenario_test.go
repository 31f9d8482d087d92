package world_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ltnsim/geometry"
	"github.com/sarchlab/ltnsim/message"
	"github.com/sarchlab/ltnsim/rng"
	"github.com/sarchlab/ltnsim/room"
	"github.com/sarchlab/ltnsim/world"
)

const bigSquareWKT = `
(0 0)
(100 0)
(100 100)
(0 100)
`

func buildRoom() *room.Room {
	r, err := room.Parse(strings.NewReader(bigSquareWKT), nil)
	Expect(err).NotTo(HaveOccurred())
	Expect(r.WithRayOrigin(r.DefaultRayOrigin())).To(Succeed())
	return r
}

func addHost(w *world.World, addr message.HostAddress, loc geometry.Coordinate, rnge float64, churn float64, capacity int) *world.Host {
	ifc := world.NewInterface(addr, rnge, 8, churn, world.ModeInter)
	h := world.NewHost(addr, loc, -1, ifc, world.NewEpidemic(false), capacity)
	w.AddHost(h)
	return h
}

func tick(w *world.World, now float64) {
	for _, h := range w.Hosts() {
		h.Update(w, sim.VTimeInSec(now))
	}
}

var _ = Describe("Two hosts within range", func() {
	It("should connect, deliver within a few ticks, and record a 1-hop path", func() {
		w := world.New(buildRoom(), nil, rng.NewService(1))
		addHost(w, 1, geometry.Coordinate{X: 50, Y: 50}, 20, 0, 10000)
		addHost(w, 2, geometry.Coordinate{X: 50, Y: 60}, 20, 0, 10000)

		a := w.Host(1)
		a.Originate(w, message.Message{ID: 1, From: 1, To: 2, Size: 100}, 0)

		for t := 1; t <= 10; t++ {
			tick(w, float64(t))
		}

		b := w.Host(2)
		Expect(b.Buffer.Has(1)).To(BeTrue())
		m, _ := b.Buffer.Get(1)
		Expect(m.HopPath).To(Equal([]message.HostAddress{1, 2}))
	})
})

var _ = Describe("Two hosts out of range", func() {
	It("should never connect", func() {
		w := world.New(buildRoom(), nil, rng.NewService(1))
		addHost(w, 1, geometry.Coordinate{X: 50, Y: 50}, 20, 0, 10000)
		addHost(w, 2, geometry.Coordinate{X: 50, Y: 90}, 20, 0, 10000)

		for t := 1; t <= 60; t++ {
			tick(w, float64(t))
		}

		Expect(w.Host(1).Interface.Connections()).To(BeEmpty())
		Expect(w.Host(2).Interface.Connections()).To(BeEmpty())
	})
})

var _ = Describe("Line-of-sight blocked", func() {
	It("should not connect despite being within range", func() {
		innerWKT := `
(40 40)
(60 40)
(60 60)
(40 60)
`
		inner, err := room.Parse(strings.NewReader(innerWKT), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(inner.WithRayOrigin(inner.DefaultRayOrigin())).To(Succeed())

		w := world.New(inner, nil, rng.NewService(1))
		addHost(w, 1, geometry.Coordinate{X: 10, Y: 50}, 100, 0, 10000)
		addHost(w, 2, geometry.Coordinate{X: 90, Y: 50}, 100, 0, 10000)

		for t := 1; t <= 10; t++ {
			tick(w, float64(t))
		}

		Expect(w.Host(1).Interface.Connections()).To(BeEmpty())
	})
})

var _ = Describe("Three-host relay", func() {
	It("should deliver A to C through B within a couple of ticks", func() {
		w := world.New(buildRoom(), nil, rng.NewService(1))
		addHost(w, 1, geometry.Coordinate{X: 10, Y: 50}, 45, 0, 10000)
		addHost(w, 2, geometry.Coordinate{X: 50, Y: 50}, 45, 0, 10000)
		addHost(w, 3, geometry.Coordinate{X: 90, Y: 50}, 45, 0, 10000)

		w.Host(1).Originate(w, message.Message{ID: 1, From: 1, To: 3, Size: 100}, 0)

		for t := 1; t <= 10; t++ {
			tick(w, float64(t))
		}

		c := w.Host(3)
		Expect(c.Buffer.Has(1)).To(BeTrue())

		b := w.Host(2)
		Expect(b.Buffer.Has(1)).To(BeTrue(), "B must retain the relayed message (no auto-evict)")
	})
})

var _ = Describe("Churn", func() {
	It("should tear down the connection and blacklist the peer permanently", func() {
		w := world.New(buildRoom(), nil, rng.NewService(1))
		addHost(w, 1, geometry.Coordinate{X: 50, Y: 50}, 20, 1.0, 10000)
		addHost(w, 2, geometry.Coordinate{X: 50, Y: 55}, 20, 1.0, 10000)

		tick(w, 1)
		tick(w, 2)

		Expect(w.Host(1).Interface.Connections()).To(BeEmpty())
		Expect(w.Host(2).Interface.Connections()).To(BeEmpty())

		for t := 3; t <= 20; t++ {
			tick(w, float64(t))
		}
		Expect(w.Host(1).Interface.Connections()).To(BeEmpty())
	})
})
