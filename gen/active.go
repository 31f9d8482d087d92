// Package gen implements the workload generators of spec §4.I: the
// distance-binned ActiveHostMessageGenerator, the pre-materialized
// StaticHostMessageGenerator, and its cluster-pair-restricted variant
// (which is just a StaticHostMessageGenerator built with a
// same-cluster/different-cluster filter).
//
// Every generator implements schedule.Generator: the scheduler drives
// it through a self-rescheduling EventGeneratorPoll rather than the
// generator owning a reference to the scheduler's loop.
package gen

import (
	"math"
	"math/rand/v2"

	"github.com/sarchlab/ltnsim/geometry"
	"github.com/sarchlab/ltnsim/message"
	"github.com/sarchlab/ltnsim/schedule"
	"github.com/sarchlab/ltnsim/world"
)

// maxCandidateAttempts bounds the per-call search for a still-open
// distance bin, so a saturated configuration fails fast instead of
// spinning.
const maxCandidateAttempts = 200

// ActiveHostMessageGenerator draws uniform from/to host pairs,
// tracking how many messages have landed in each distance bin of
// width BinWidth, and stops once every bin has reached PerBinCap
// (spec §4.I).
type ActiveHostMessageGenerator struct {
	World        *world.World
	RNG          *rand.Rand
	Hosts        []message.HostAddress // candidate pool; all world hosts if empty
	MessageSize  int
	BinWidth     float64
	PerBinCap    int
	PollInterval float64

	bins   []int
	nextID message.ID
}

// NewActiveHostMessageGenerator builds a generator over hosts (or
// every world host, if hosts is empty), with distance bins of width
// binWidth up to the room's diagonal.
func NewActiveHostMessageGenerator(w *world.World, rngStream *rand.Rand, hosts []message.HostAddress, messageSize int, binWidth float64, perBinCap int, pollInterval float64) *ActiveHostMessageGenerator {
	if len(hosts) == 0 {
		hosts = w.HostAddresses()
	}

	_, width, height := w.Room.BoundingBox()
	diag := math.Hypot(width, height)
	numBins := int(diag/binWidth) + 1

	return &ActiveHostMessageGenerator{
		World:        w,
		RNG:          rngStream,
		Hosts:        hosts,
		MessageSize:  messageSize,
		BinWidth:     binWidth,
		PerBinCap:    perBinCap,
		PollInterval: pollInterval,
		bins:         make([]int, numBins),
	}
}

func (g *ActiveHostMessageGenerator) binOf(d float64) int {
	idx := int(math.Round(d) / g.BinWidth)
	if idx >= len(g.bins) {
		idx = len(g.bins) - 1
	}
	return idx
}

func (g *ActiveHostMessageGenerator) exhausted() bool {
	for _, count := range g.bins {
		if count < g.PerBinCap {
			return false
		}
	}
	return true
}

// NextEvent implements schedule.Generator.
func (g *ActiveHostMessageGenerator) NextEvent(s *schedule.Scheduler, now float64) {
	if g.exhausted() || len(g.Hosts) < 2 {
		s.Schedule(&schedule.Event{Time: now, Kind: schedule.EventSimEnd})
		return
	}

	for attempt := 0; attempt < maxCandidateAttempts; attempt++ {
		from := g.Hosts[g.RNG.IntN(len(g.Hosts))]
		to := g.Hosts[g.RNG.IntN(len(g.Hosts))]
		if from == to {
			continue
		}

		fromHost, toHost := g.World.Host(from), g.World.Host(to)
		if fromHost == nil || toHost == nil || !fromHost.Interface.Active || !toHost.Interface.Active {
			continue
		}

		d := geometry.Distance(fromHost.Location, toHost.Location)
		bin := g.binOf(d)
		if g.bins[bin] >= g.PerBinCap {
			continue
		}

		g.bins[bin]++
		g.nextID++

		s.Schedule(&schedule.Event{
			Time: now,
			Kind: schedule.EventMessageCreate,
			Message: message.Message{
				ID: g.nextID, From: from, To: to, Size: g.MessageSize, Created: now,
			},
		})
		s.Schedule(&schedule.Event{Time: now + g.PollInterval, Kind: schedule.EventGeneratorPoll})
		return
	}

	// No open candidate found this round: poll again later (§4.I).
	s.Schedule(&schedule.Event{Time: now + g.PollInterval, Kind: schedule.EventGeneratorPoll})
}
