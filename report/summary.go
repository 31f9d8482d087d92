package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ltnsim/message"
	"github.com/sarchlab/ltnsim/schedule"
)

// SummaryTable accumulates aggregate counters over a run and renders
// them as a single table at HookPosSimEnd, via
// github.com/jedib0t/go-pretty/v6/table (table.NewWriter /
// SetTitle / AppendHeader / AppendRow / Render, the call shape seen in
// core.PrintState's register/buffer tables).
type SummaryTable struct {
	w io.Writer

	created   int
	delivered int
	forwarded int
	dropped   int

	bytesCreated   int64
	bytesDelivered int64

	hopSum     int64
	latencySum float64

	createdAt map[message.ID]float64
}

// NewSummaryTable builds a SummaryTable writing to w once the run
// ends, subscribing to every lifecycle hook it needs to aggregate.
func NewSummaryTable(s *schedule.Scheduler, w io.Writer) *SummaryTable {
	r := &SummaryTable{w: w, createdAt: make(map[message.ID]float64)}

	s.Subscribe(schedule.HookPosMessageCreate, schedule.HookFunc(r.onCreate))
	s.Subscribe(schedule.HookPosTransferComplete, schedule.HookFunc(r.onTransfer))
	s.Subscribe(schedule.HookPosDrop, schedule.HookFunc(r.onDrop))
	s.Subscribe(schedule.HookPosSimEnd, schedule.HookFunc(r.onSimEnd))

	return r
}

func (r *SummaryTable) onCreate(ctx sim.HookCtx) {
	p := ctx.Item.(schedule.Payload)
	m := p.Item.(message.Message)

	r.created++
	r.bytesCreated += int64(m.Size)
	r.createdAt[m.ID] = p.Now
}

func (r *SummaryTable) onTransfer(ctx sim.HookCtx) {
	p := ctx.Item.(schedule.Payload)
	ev := p.Item.(schedule.TransferEvent)

	if ev.To != ev.Message.To {
		r.forwarded++
		return
	}

	r.delivered++
	r.bytesDelivered += int64(ev.Message.Size)
	// HopPath lists every host from source to destination, so the
	// number of hops is one less than its length.
	r.hopSum += int64(len(ev.Message.HopPath) - 1)

	if created, ok := r.createdAt[ev.Message.ID]; ok {
		r.latencySum += p.Now - created
	}
}

func (r *SummaryTable) onDrop(ctx sim.HookCtx) {
	r.dropped++
}

func (r *SummaryTable) onSimEnd(ctx sim.HookCtx) {
	t := table.NewWriter()
	t.SetTitle("Run Summary")
	t.AppendHeader(table.Row{"Metric", "Value"})

	t.AppendRow(table.Row{"Messages created", r.created})
	t.AppendRow(table.Row{"Messages delivered", r.delivered})
	t.AppendRow(table.Row{"Forwards (non-terminal hops)", r.forwarded})
	t.AppendRow(table.Row{"Messages dropped", r.dropped})
	t.AppendRow(table.Row{"Bytes created", r.bytesCreated})
	t.AppendRow(table.Row{"Bytes delivered", r.bytesDelivered})
	t.AppendRow(table.Row{"Delivery ratio", r.deliveryRatio()})
	t.AppendRow(table.Row{"Average hop count", r.averageHopCount()})
	t.AppendRow(table.Row{"Average latency (s)", r.averageLatency()})

	fmt.Fprintln(r.w, t.Render())
}

func (r *SummaryTable) deliveryRatio() float64 {
	if r.created == 0 {
		return 0
	}
	return float64(r.delivered) / float64(r.created)
}

func (r *SummaryTable) averageHopCount() float64 {
	if r.delivered == 0 {
		return 0
	}
	return float64(r.hopSum) / float64(r.delivered)
}

func (r *SummaryTable) averageLatency() float64 {
	if r.delivered == 0 {
		return 0
	}
	return r.latencySum / float64(r.delivered)
}
