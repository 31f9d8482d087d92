package report

import (
	"fmt"
	"io"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ltnsim/schedule"
	"github.com/sarchlab/ltnsim/world"
)

// AdjacencyMatrixReport emits, every Granularity simulated seconds, a
// block headed by "[t]", a "# Node IDs:" line, then one row of n
// 0/1 integers per host, ascending host-address order, bit-exact per
// spec §4.J. The diagonal is always 1; the matrix is symmetric since
// every Connection has a matching Connection the other way.
type AdjacencyMatrixReport struct {
	w           io.Writer
	world       *world.World
	granularity float64
	lastEmit    float64
	emitted     bool
}

// NewAdjacencyMatrixReport builds a snapshot reporter over w's current
// host/connection state, emitting every granularity seconds of
// simulated time.
func NewAdjacencyMatrixReport(s *schedule.Scheduler, wd *world.World, granularity float64, out io.Writer) *AdjacencyMatrixReport {
	r := &AdjacencyMatrixReport{w: out, world: wd, granularity: granularity}
	s.Subscribe(schedule.HookPosTick, schedule.HookFunc(r.onTick))
	return r
}

func (r *AdjacencyMatrixReport) onTick(ctx sim.HookCtx) {
	p := ctx.Item.(schedule.Payload)
	now := p.Now

	if r.emitted && now-r.lastEmit < r.granularity {
		return
	}
	r.emitted = true
	r.lastEmit = now

	r.emit(now)
}

func (r *AdjacencyMatrixReport) emit(now float64) {
	addrs := r.world.HostAddresses()

	connected := make(map[[2]int]bool)
	for i, a := range addrs {
		host := r.world.Host(a)
		for _, peer := range host.Interface.Connections() {
			for j, b := range addrs {
				if b == peer {
					connected[[2]int{i, j}] = true
					connected[[2]int{j, i}] = true
				}
			}
		}
	}

	fmt.Fprintf(r.w, "[%.6f]\n# Node IDs:\n", now)
	for _, a := range addrs {
		fmt.Fprintf(r.w, "%d ", a)
	}
	fmt.Fprintln(r.w)

	for i := range addrs {
		for j := range addrs {
			v := 0
			if i == j || connected[[2]int{i, j}] {
				v = 1
			}
			if j > 0 {
				fmt.Fprint(r.w, " ")
			}
			fmt.Fprint(r.w, v)
		}
		fmt.Fprintln(r.w)
	}
}
