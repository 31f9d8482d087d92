// Package schedule is the simulation's event queue and main loop
// (spec §4.H): a min-heap keyed by (time, insertion-seq), interleaved
// with periodic host ticks at a fixed update interval.
//
// Hook dispatch reuses the teacher's sim.HookPos/sim.HookCtx data
// shapes (github.com/sarchlab/akita/v4/sim, as seen wired through
// core.Port's HookPosPortMsgSend family) so reporters subscribe with
// the same vocabulary the rest of the stack uses for instrumentation
// points, without depending on the unverified Hookable/AcceptHook
// method set (no construction call site for it appears anywhere in
// the retrieved pack).
package schedule

import (
	"container/heap"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ltnsim/message"
	"github.com/sarchlab/ltnsim/world"
)

var (
	// HookPosMessageCreate fires when a message is originated at its
	// source host.
	HookPosMessageCreate = &sim.HookPos{Name: "Message Create"}
	// HookPosConnectionUp fires when two interfaces form a connection.
	HookPosConnectionUp = &sim.HookPos{Name: "Connection Up"}
	// HookPosConnectionDown fires when a connection tears down.
	HookPosConnectionDown = &sim.HookPos{Name: "Connection Down"}
	// HookPosTransferComplete fires when a connection finishes
	// carrying a message to its immediate next hop.
	HookPosTransferComplete = &sim.HookPos{Name: "Transfer Complete"}
	// HookPosTick fires once per host-update tick, after every host
	// has been advanced.
	HookPosTick = &sim.HookPos{Name: "Tick"}
	// HookPosSimEnd fires once, when the run stops.
	HookPosSimEnd = &sim.HookPos{Name: "Sim End"}
	// HookPosDrop fires when a host's buffer evicts a message to make
	// room for another admission.
	HookPosDrop = &sim.HookPos{Name: "Drop"}
)

// Hook receives a dispatched sim.HookCtx. Reporters implement this to
// subscribe to one or more HookPos values via Scheduler.Subscribe.
type Hook interface {
	Func(ctx sim.HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx sim.HookCtx)

// Func implements Hook.
func (f HookFunc) Func(ctx sim.HookCtx) { f(ctx) }

// Generator produces the simulation's workload. It is driven by its
// own self-rescheduling EventGeneratorPoll: each time the scheduler
// pops one, it calls NextEvent, which is responsible for scheduling
// whatever comes next (a MessageCreate, another poll, or SimEnd).
type Generator interface {
	NextEvent(s *Scheduler, now float64)
}

// Scheduler owns the event heap and the tick cadence, and dispatches
// hooks to subscribed reporters as both fire (spec §4.H, §5).
type Scheduler struct {
	World          *world.World
	UpdateInterval float64
	EndTime        float64
	Generator      Generator

	queue     eventHeap
	nextSeq   uint64
	now       float64
	cancelled bool

	hooks map[*sim.HookPos][]Hook
}

// New builds a scheduler over w, ticking every updateInterval seconds
// until endTime or cancellation.
func New(w *world.World, updateInterval, endTime float64, gen Generator) *Scheduler {
	s := &Scheduler{
		World:          w,
		UpdateInterval: updateInterval,
		EndTime:        endTime,
		Generator:      gen,
		hooks:          make(map[*sim.HookPos][]Hook),
	}

	w.OnConnectionUp = func(id world.ConnectionID, from, to message.HostAddress, now float64) {
		s.invokeHook(HookPosConnectionUp, ConnectionEvent{ID: id, From: from, To: to}, now)
	}
	w.OnConnectionDown = func(id world.ConnectionID, from, to message.HostAddress, now float64) {
		s.invokeHook(HookPosConnectionDown, ConnectionEvent{ID: id, From: from, To: to}, now)
	}
	w.OnTransferComplete = func(id world.ConnectionID, to message.HostAddress, m message.Message, now float64) {
		s.invokeHook(HookPosTransferComplete, TransferEvent{ConnID: id, To: to, Message: m}, now)
	}
	w.OnDrop = func(host message.HostAddress, m message.Message, now float64) {
		s.invokeHook(HookPosDrop, DropEvent{Host: host, Message: m}, now)
	}

	return s
}

// ConnectionEvent is the Item payload for connection up/down hooks.
type ConnectionEvent struct {
	ID       world.ConnectionID
	From, To message.HostAddress
}

// TransferEvent is the Item payload for HookPosTransferComplete: To
// is the address that just received Message over connection ConnID.
type TransferEvent struct {
	ConnID  world.ConnectionID
	To      message.HostAddress
	Message message.Message
}

// DropEvent is the Item payload for HookPosDrop.
type DropEvent struct {
	Host    message.HostAddress
	Message message.Message
}

// Subscribe registers hook to fire whenever pos is reached.
func (s *Scheduler) Subscribe(pos *sim.HookPos, hook Hook) {
	s.hooks[pos] = append(s.hooks[pos], hook)
}

// Payload is the Item carried by every hook this package dispatches:
// the event-specific data plus the simulated time it occurred at.
type Payload struct {
	Now  float64
	Item any
}

func (s *Scheduler) invokeHook(pos *sim.HookPos, item any, now float64) {
	for _, h := range s.hooks[pos] {
		h.Func(sim.HookCtx{Domain: s, Pos: pos, Item: Payload{Now: now, Item: item}})
	}
}

// Schedule inserts e into the heap, stamping it with the next
// insertion sequence number for stable tie-breaking.
func (s *Scheduler) Schedule(e *Event) {
	e.seq = s.nextSeq
	s.nextSeq++
	heap.Push(&s.queue, e)
}

// Cancel requests a stop: the loop exits before dispatching another
// event or tick; events still in the queue are not dispatched.
func (s *Scheduler) Cancel() {
	s.cancelled = true
}

// Now returns the scheduler's current simulated clock.
func (s *Scheduler) Now() float64 { return s.now }

// Run executes the main loop of spec §4.H to completion.
func (s *Scheduler) Run() {
	heap.Init(&s.queue)

	// A terminal sentinel keeps the queue non-empty through endTime
	// even when no generator (or a generator that has gone quiet) is
	// driving events, so host ticking never starves out early.
	s.Schedule(&Event{Time: s.EndTime, Kind: EventSimEnd})

	if s.Generator != nil {
		s.Schedule(&Event{Time: s.now, Kind: EventGeneratorPoll})
	}

	nextTick := s.now + s.UpdateInterval
	for s.now < s.EndTime && s.queue.Len() > 0 && !s.cancelled {
		if s.queue[0].Time <= nextTick {
			e := heap.Pop(&s.queue).(*Event)
			s.now = e.Time
			s.dispatch(e)
			continue
		}

		s.now = nextTick
		nextTick += s.UpdateInterval
		for _, h := range s.World.Hosts() {
			h.Update(s.World, sim.VTimeInSec(s.now))
		}
		s.invokeHook(HookPosTick, nil, s.now)
	}

	s.invokeHook(HookPosSimEnd, nil, s.now)
}

func (s *Scheduler) dispatch(e *Event) {
	switch e.Kind {
	case EventGeneratorPoll:
		if s.Generator != nil {
			s.Generator.NextEvent(s, s.now)
		}
	case EventMessageCreate:
		host := s.World.Host(e.Message.From)
		if host == nil {
			return
		}
		host.Originate(s.World, e.Message, s.now)
		s.invokeHook(HookPosMessageCreate, e.Message, s.now)
	case EventSimEnd:
		s.cancelled = true
	}
}
