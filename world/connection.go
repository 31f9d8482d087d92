package world

import (
	"fmt"

	"github.com/sarchlab/ltnsim/geometry"
	"github.com/sarchlab/ltnsim/message"
)

// transferState tracks progress of a single in-flight message over a
// connection, chunked to message.PathMTU-sized fragments.
type transferState struct {
	msg           *message.Message
	fullChunks    int
	tailSize      int
	chunksSent    int
	tailSent      bool
	msgSent       int
}

// Connection is an oriented link from one interface to another. It
// exists for as long as the two endpoints are within range and line
// of sight of each other; while alive it may carry at most one
// in-flight message transfer at a time.
type Connection struct {
	ID         ConnectionID
	From, To   message.HostAddress
	LastUpdate float64

	transfer *transferState
}

// StartTransfer replicates m (full-size copy) and offers it to the
// destination router for admission. On acceptance the connection is
// armed to carry it, chunked into ceil(size/PathMTU) fragments.
// Exactly one message may be in flight per connection: calling this
// while a transfer is already active is a programming error, not a
// recoverable one.
func (c *Connection) StartTransfer(w *World, m message.Message, now float64) AdmissionCode {
	if c.transfer != nil {
		panic(fmt.Sprintf("world: connection %d already has a message in flight", c.ID))
	}

	replicated := m.Clone()

	dst := w.hosts[c.To]
	code := dst.Router.ReceiveMessage(w, dst, &replicated, c.From, now)
	if code != RCVOk {
		return code
	}

	full, tail := message.NewChunkPlan(replicated.Size)
	c.transfer = &transferState{
		msg:        &replicated,
		fullChunks: full,
		tailSize:   tail,
	}
	c.LastUpdate = now

	return RCVOk
}

// InFlight reports whether a transfer is currently armed.
func (c *Connection) InFlight() bool {
	return c.transfer != nil
}

// TransferringMessageID returns the id of the message in flight, if
// any.
func (c *Connection) TransferringMessageID() (message.ID, bool) {
	if c.transfer == nil {
		return 0, false
	}
	return c.transfer.msg.ID, true
}

// GetSpeed returns the currently computed link rate in bits per
// second: the minimum of what each endpoint's interface quotes for
// the current distance.
func (c *Connection) GetSpeed(w *World) float64 {
	from := w.hosts[c.From]
	to := w.hosts[c.To]
	d := geometry.Distance(from.Location, to.Location)

	fromRate := from.Interface.currentBitrate(d)
	toRate := to.Interface.currentBitrate(d)

	if fromRate < toRate {
		return fromRate
	}
	return toRate
}

// GetRemainingByteCount returns the bytes left to transfer, or 0 if
// there is no active transfer.
func (c *Connection) GetRemainingByteCount() int {
	if c.transfer == nil {
		return 0
	}
	remaining := c.transfer.msg.Size - c.transfer.msgSent
	if remaining < 0 {
		return 0
	}
	return remaining
}

// update advances the in-flight transfer, if any, by the byte budget
// accrued since LastUpdate at the instantaneous link rate, deducting
// whole PATH_MTU chunks first and then a tail chunk if it fits.
// Completion hands the message off to the destination router for
// final delivery bookkeeping.
func (c *Connection) update(w *World, now float64) {
	defer func() { c.LastUpdate = now }()

	if c.transfer == nil {
		return
	}

	dt := now - c.LastUpdate
	if dt < 0 {
		dt = 0
	}

	rateBps := c.GetSpeed(w) / 8 // bytes/sec
	budget := rateBps * dt

	t := c.transfer
	for budget >= float64(message.PathMTU) && t.chunksSent < t.fullChunks {
		budget -= float64(message.PathMTU)
		t.chunksSent++
		t.msgSent += message.PathMTU
	}

	if t.chunksSent == t.fullChunks && !t.tailSent && t.tailSize > 0 && budget >= float64(t.tailSize) {
		t.tailSent = true
		t.msgSent += t.tailSize
	}

	if t.msgSent >= t.msg.Size {
		c.completeTransfer(w, now)
	}
}

func (c *Connection) completeTransfer(w *World, now float64) {
	dst := w.hosts[c.To]
	delivered := c.transfer.msg
	c.transfer = nil

	if w.OnTransferComplete != nil {
		w.OnTransferComplete(c.ID, c.To, *delivered, now)
	}

	dst.Router.FinalizeDelivery(w, dst, delivered, now)
}
