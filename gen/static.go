package gen

import (
	"math"
	"math/rand/v2"

	"github.com/sarchlab/ltnsim/geometry"
	"github.com/sarchlab/ltnsim/message"
	"github.com/sarchlab/ltnsim/schedule"
	"github.com/sarchlab/ltnsim/world"
)

// StaticHostMessageGenerator pre-materializes every eligible host
// pair into distance-keyed buckets (or one bucket per pair, with
// BinSize == 0), each carrying a budget of Count messages, and drains
// them by picking a non-empty bucket and a pair from it uniformly
// (spec §4.I). Building it with RestrictIntra restricts pairs to
// same-cluster hosts, giving the "cluster-pair" variant spec §4.I
// describes as a restricted StaticHostMessageGenerator; RestrictInter
// restricts to different-cluster pairs, and RestrictNone (the zero
// value) keeps every non-self pair.
type StaticHostMessageGenerator struct {
	World        *world.World
	RNG          *rand.Rand
	MessageSize  int
	PollInterval float64

	bins   []message.Bin
	nextID message.ID
}

// Restriction selects which ordered host pairs StaticHostMessageGenerator
// enumerates.
type Restriction int

const (
	// RestrictNone enumerates every ordered, non-self host pair.
	RestrictNone Restriction = iota
	// RestrictIntra keeps only pairs sharing a cluster.
	RestrictIntra
	// RestrictInter keeps only pairs in different clusters.
	RestrictInter
)

// NewStaticHostMessageGenerator enumerates ordered pairs (from, to)
// drawn from fromHosts x toHosts, dropping self-pairs and any pair
// restriction excludes, then groups them into distance bins of width
// binSize (or one bucket per pair when binSize <= 0), each with a
// budget of count messages.
func NewStaticHostMessageGenerator(w *world.World, rngStream *rand.Rand, fromHosts, toHosts []message.HostAddress, restriction Restriction, binSize float64, count, messageSize int, pollInterval float64) *StaticHostMessageGenerator {
	var pairs []message.Pair

	for _, from := range fromHosts {
		for _, to := range toHosts {
			if from == to {
				continue
			}
			switch restriction {
			case RestrictIntra:
				if !w.SameCluster(from, to) {
					continue
				}
			case RestrictInter:
				if w.SameCluster(from, to) {
					continue
				}
			}
			pairs = append(pairs, message.Pair{From: from, To: to})
		}
	}

	var bins []message.Bin
	if binSize > 0 {
		byBin := make(map[int][]message.Pair)
		for _, p := range pairs {
			fromHost, toHost := w.Host(p.From), w.Host(p.To)
			if fromHost == nil || toHost == nil {
				continue
			}
			d := geometry.Distance(fromHost.Location, toHost.Location)
			idx := int(math.Round(d) / binSize)
			byBin[idx] = append(byBin[idx], p)
		}

		keys := sortedKeys(byBin)
		for i, k := range keys {
			bins = append(bins, message.Bin{Index: i, Pairs: byBin[k], Remaining: count})
		}
	} else {
		for i, p := range pairs {
			bins = append(bins, message.Bin{Index: i, Pairs: []message.Pair{p}, Remaining: count})
		}
	}

	return &StaticHostMessageGenerator{
		World:        w,
		RNG:          rngStream,
		MessageSize:  messageSize,
		PollInterval: pollInterval,
		bins:         bins,
	}
}

func sortedKeys(m map[int][]message.Pair) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func (g *StaticHostMessageGenerator) openBuckets() []int {
	var open []int
	for i, b := range g.bins {
		if b.Remaining > 0 {
			open = append(open, i)
		}
	}
	return open
}

// NextEvent implements schedule.Generator.
func (g *StaticHostMessageGenerator) NextEvent(s *schedule.Scheduler, now float64) {
	open := g.openBuckets()
	if len(open) == 0 {
		s.Schedule(&schedule.Event{Time: now, Kind: schedule.EventSimEnd})
		return
	}

	bucketIdx := open[g.RNG.IntN(len(open))]
	bucket := &g.bins[bucketIdx]
	pair := bucket.Pairs[g.RNG.IntN(len(bucket.Pairs))]
	bucket.Remaining--

	g.nextID++
	s.Schedule(&schedule.Event{
		Time: now,
		Kind: schedule.EventMessageCreate,
		Message: message.Message{
			ID: g.nextID, From: pair.From, To: pair.To, Size: g.MessageSize, Created: now,
		},
	})
	s.Schedule(&schedule.Event{Time: now + g.PollInterval, Kind: schedule.EventGeneratorPoll})
}
