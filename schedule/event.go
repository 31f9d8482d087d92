package schedule

import "github.com/sarchlab/ltnsim/message"

// Kind discriminates the events carried in the scheduler's heap.
type Kind int

const (
	// EventGeneratorPoll asks the wired Generator to produce its next
	// MessageCreate (or SimEnd), then re-arm itself.
	EventGeneratorPoll Kind = iota
	// EventMessageCreate originates a message at its source host.
	EventMessageCreate
	// EventSimEnd stops the run when it is dispatched. Events at an
	// earlier time, and events at the same time scheduled before it,
	// have already been dispatched by then; events at the same time
	// scheduled after it are not dispatched.
	EventSimEnd
)

// Event is a single entry in the scheduler's min-heap, ordered by
// (Time, seq) so that same-time events dispatch in insertion order.
type Event struct {
	Time    float64
	Kind    Kind
	Message message.Message

	seq uint64
}

// eventHeap implements container/heap.Interface over *Event, ordered
// by (Time, seq) to give FIFO tie-breaking within a timestamp.
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}
