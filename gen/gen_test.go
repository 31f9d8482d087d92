package gen_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ltnsim/gen"
	"github.com/sarchlab/ltnsim/geometry"
	"github.com/sarchlab/ltnsim/message"
	"github.com/sarchlab/ltnsim/rng"
	"github.com/sarchlab/ltnsim/room"
	"github.com/sarchlab/ltnsim/schedule"
	"github.com/sarchlab/ltnsim/world"
)

const genFieldWKT = `
(0 0)
(200 0)
(200 200)
(0 200)
`

func buildGenWorld(n int) *world.World {
	r, err := room.Parse(strings.NewReader(genFieldWKT), nil)
	Expect(err).NotTo(HaveOccurred())
	Expect(r.WithRayOrigin(r.DefaultRayOrigin())).To(Succeed())

	w := world.New(r, nil, rng.NewService(3))
	for i := 0; i < n; i++ {
		addr := message.HostAddress(i + 1)
		ifc := world.NewInterface(addr, 40, 8, 0, world.ModeInter)
		loc := geometry.Coordinate{X: float64(10 * i), Y: 10}
		h := world.NewHost(addr, loc, -1, ifc, world.NewEpidemic(false), 10000)
		w.AddHost(h)
	}
	return w
}

var _ = Describe("ActiveHostMessageGenerator", func() {
	It("emits messages while distance bins are under the cap, and always ends at EventSimEnd", func() {
		w := buildGenWorld(6)
		rngStream := rng.NewService(11).Stream("gen")
		g := gen.NewActiveHostMessageGenerator(w, rngStream, nil, 100, 50, 2, 1.0)

		s := schedule.New(w, 1.0, 500.0, g)

		created, ended := 0, 0
		s.Subscribe(schedule.HookPosMessageCreate, schedule.HookFunc(func(ctx sim.HookCtx) {
			created++
		}))
		s.Subscribe(schedule.HookPosSimEnd, schedule.HookFunc(func(ctx sim.HookCtx) {
			ended++
		}))

		s.Run()

		Expect(created).To(BeNumerically(">", 0))
		Expect(ended).To(Equal(1))
	})
})

var _ = Describe("StaticHostMessageGenerator", func() {
	It("drains every bucket's budget then ends", func() {
		w := buildGenWorld(4)
		hosts := w.HostAddresses()
		rngStream := rng.NewService(13).Stream("gen")
		g := gen.NewStaticHostMessageGenerator(w, rngStream, hosts, hosts, gen.RestrictNone, 0, 1, 100, 1.0)

		s := schedule.New(w, 1.0, 200.0, g)

		created, ended := 0, 0
		s.Subscribe(schedule.HookPosMessageCreate, schedule.HookFunc(func(ctx sim.HookCtx) {
			created++
		}))
		s.Subscribe(schedule.HookPosSimEnd, schedule.HookFunc(func(ctx sim.HookCtx) {
			ended++
		}))

		s.Run()

		// 4 hosts -> 12 ordered non-self pairs, budget 1 each.
		Expect(created).To(Equal(12))
		Expect(ended).To(Equal(1))
	})
})
