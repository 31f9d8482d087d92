package schedule_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ltnsim/geometry"
	"github.com/sarchlab/ltnsim/message"
	"github.com/sarchlab/ltnsim/rng"
	"github.com/sarchlab/ltnsim/room"
	"github.com/sarchlab/ltnsim/schedule"
	"github.com/sarchlab/ltnsim/world"
)

const fieldWKT = `
(0 0)
(100 0)
(100 100)
(0 100)
`

// stubGenerator emits exactly one MessageCreate then a SimEnd, both
// scheduled for the tick they are produced on.
type stubGenerator struct {
	emitted bool
}

func (g *stubGenerator) NextEvent(s *schedule.Scheduler, now float64) {
	if g.emitted {
		s.Schedule(&schedule.Event{Time: now, Kind: schedule.EventSimEnd})
		return
	}
	g.emitted = true
	s.Schedule(&schedule.Event{
		Time: now,
		Kind: schedule.EventMessageCreate,
		Message: message.Message{
			ID: 1, From: 1, To: 2, Size: 100,
		},
	})
	// Re-poll well after several ticks have had a chance to run, so
	// the connection forms and the transfer completes before SimEnd.
	s.Schedule(&schedule.Event{Time: now + 10, Kind: schedule.EventGeneratorPoll})
}

func buildWorld() *world.World {
	r, err := room.Parse(strings.NewReader(fieldWKT), nil)
	Expect(err).NotTo(HaveOccurred())
	Expect(r.WithRayOrigin(r.DefaultRayOrigin())).To(Succeed())

	w := world.New(r, nil, rng.NewService(7))

	for _, addr := range []message.HostAddress{1, 2} {
		ifc := world.NewInterface(addr, 30, 8, 0, world.ModeInter)
		loc := geometry.Coordinate{X: 50, Y: 50}
		if addr == 2 {
			loc = geometry.Coordinate{X: 55, Y: 50}
		}
		h := world.NewHost(addr, loc, -1, ifc, world.NewEpidemic(false), 10000)
		w.AddHost(h)
	}

	return w
}

var _ = Describe("Scheduler", func() {
	It("dispatches a generated message and stops cleanly at SimEnd", func() {
		w := buildWorld()
		gen := &stubGenerator{}
		s := schedule.New(w, 1.0, 100.0, gen)

		var created, delivered, ended int
		s.Subscribe(schedule.HookPosMessageCreate, schedule.HookFunc(func(ctx sim.HookCtx) {
			created++
		}))
		s.Subscribe(schedule.HookPosTransferComplete, schedule.HookFunc(func(ctx sim.HookCtx) {
			delivered++
		}))
		s.Subscribe(schedule.HookPosSimEnd, schedule.HookFunc(func(ctx sim.HookCtx) {
			ended++
		}))

		s.Run()

		Expect(created).To(Equal(1))
		Expect(delivered).To(BeNumerically(">=", 1))
		Expect(ended).To(Equal(1))
		Expect(w.Host(2).Buffer.Has(1)).To(BeTrue())
	})

	It("invokes connection-up hooks when two hosts come into range", func() {
		w := buildWorld()
		s := schedule.New(w, 1.0, 5.0, nil)

		ups := 0
		s.Subscribe(schedule.HookPosConnectionUp, schedule.HookFunc(func(ctx sim.HookCtx) {
			ups++
		}))

		s.Run()

		Expect(ups).To(BeNumerically(">=", 1))
	})
})

var _ = Describe("Event heap ordering", func() {
	It("dispatches same-time events in scheduling order", func() {
		w := buildWorld()
		s := schedule.New(w, 10.0, 1.0, nil)

		var order []int
		s.Subscribe(schedule.HookPosMessageCreate, schedule.HookFunc(func(ctx sim.HookCtx) {
			payload := ctx.Item.(schedule.Payload)
			order = append(order, int(payload.Item.(message.Message).ID))
		}))

		s.Schedule(&schedule.Event{Time: 0, Kind: schedule.EventMessageCreate, Message: message.Message{ID: 1, From: 1, To: 2, Size: 10}})
		s.Schedule(&schedule.Event{Time: 0, Kind: schedule.EventMessageCreate, Message: message.Message{ID: 2, From: 1, To: 2, Size: 10}})
		s.Run()

		Expect(order).To(Equal([]int{1, 2}))
	})
})
