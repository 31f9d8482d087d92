package world

import "github.com/sarchlab/ltnsim/message"

// AdmissionCode is the result of offering a message to a host's
// buffer, returned by ReceiveMessage.
type AdmissionCode int

const (
	// RCVOk admits the message.
	RCVOk AdmissionCode = iota
	// DeniedOld rejects a message the buffer already holds.
	DeniedOld
	// DeniedNoSpace rejects a message whose size alone exceeds buffer
	// capacity.
	DeniedNoSpace
	// DeniedUnreachable rejects a message offered outside of an open
	// connection.
	DeniedUnreachable
	// TryLater asks the sender to retry, e.g. when the connection is
	// mid-teardown.
	TryLater
)

// Router is the forwarding policy a host delegates buffer admission,
// delivery accounting and per-tick forwarding decisions to.
type Router interface {
	// ReceiveMessage offers m to host's buffer, returning the
	// admission outcome. On RCVOk, m's hop path has already been
	// extended with host's address.
	ReceiveMessage(w *World, host *Host, m *message.Message, from message.HostAddress, now float64) AdmissionCode

	// Originate admits a freshly created message at its source host,
	// without an inbound connection (the generator's entry point).
	Originate(w *World, host *Host, m message.Message, now float64)

	// FinalizeDelivery is called once a connection's transfer of m to
	// host completes. If host is m's final destination the message is
	// counted delivered; otherwise this is just an intermediate relay
	// landing.
	FinalizeDelivery(w *World, host *Host, m *message.Message, now float64)

	// Update attempts to forward host's buffered messages across its
	// open connections for this tick.
	Update(w *World, host *Host, now float64)
}

// base implements the admission/delivery bookkeeping shared by every
// router variant; only the per-tick forwarding policy differs between
// Epidemic and SprayAndWait.
type base struct {
	// EvictOnDeliver drops a message from the buffer once delivered to
	// its final destination. Default false ("retain"), matching the
	// documented buffer-bloat behavior of epidemic routing.
	EvictOnDeliver bool

	// OnDeliver, when set, is called once per successful final
	// delivery.
	OnDeliver func(m message.Message, now float64)
}

func (b *base) ReceiveMessage(w *World, host *Host, m *message.Message, from message.HostAddress, now float64) AdmissionCode {
	if host.Buffer.Has(m.ID) {
		return DeniedOld
	}
	if m.Size > host.Buffer.Capacity {
		return DeniedNoSpace
	}

	m.HopPath = append(m.HopPath, host.Address)
	host.Buffer.Admit(*m, now)

	return RCVOk
}

func (b *base) Originate(w *World, host *Host, m message.Message, now float64) {
	m.HopPath = append(m.HopPath, host.Address)
	host.Buffer.Admit(m, now)
}

func (b *base) FinalizeDelivery(w *World, host *Host, m *message.Message, now float64) {
	if m.To != host.Address {
		return
	}

	if b.OnDeliver != nil {
		b.OnDeliver(*m, now)
	}

	if b.EvictOnDeliver || w.EvictOnDeliver {
		host.Buffer.Evict(m.ID)
	}
}

// Epidemic replicates every buffered message to every connected peer
// that does not yet hold a copy. Delivered messages are not
// automatically evicted by default, which is the documented source of
// buffer bloat under epidemic routing.
type Epidemic struct {
	base
}

// NewEpidemic builds an epidemic router.
func NewEpidemic(evictOnDeliver bool) *Epidemic {
	return &Epidemic{base{EvictOnDeliver: evictOnDeliver}}
}

// Update offers, on each open connection not already mid-transfer, the
// first buffered message the peer does not yet hold.
func (e *Epidemic) Update(w *World, host *Host, now float64) {
	for _, peer := range host.Interface.Connections() {
		connID, ok := host.Interface.ConnectionTo(peer)
		if !ok {
			continue
		}
		conn := w.Connection(connID)
		if conn == nil || conn.InFlight() {
			continue
		}

		peerHost := w.Host(peer)
		for _, m := range host.Buffer.All() {
			if peerHost.Buffer.Has(m.ID) {
				continue
			}
			if conn.StartTransfer(w, m, now) == RCVOk {
				break
			}
		}
	}
}

// SprayAndWait implements the binary-mode spray-and-wait policy: each
// message carries a replication budget L, halved on every forward
// (sender keeps ceil(L/2), receiver gets floor(L/2)); once L reaches
// 1, the remaining copy is only ever forwarded directly to the
// destination.
type SprayAndWait struct {
	base
}

// NewSprayAndWait builds a spray-and-wait router.
func NewSprayAndWait(evictOnDeliver bool) *SprayAndWait {
	return &SprayAndWait{base{EvictOnDeliver: evictOnDeliver}}
}

// Update sprays a copy of each eligible buffered message across every
// open, idle connection.
func (s *SprayAndWait) Update(w *World, host *Host, now float64) {
	for _, peer := range host.Interface.Connections() {
		connID, ok := host.Interface.ConnectionTo(peer)
		if !ok {
			continue
		}
		conn := w.Connection(connID)
		if conn == nil || conn.InFlight() {
			continue
		}

		peerHost := w.Host(peer)
		for _, m := range host.Buffer.All() {
			if peerHost.Buffer.Has(m.ID) {
				continue
			}
			if m.CopyBudget <= 1 && peer != m.To {
				continue
			}

			keep := (m.CopyBudget + 1) / 2
			give := m.CopyBudget / 2
			if peer == m.To {
				give = m.CopyBudget
			}

			forward := m
			forward.CopyBudget = give

			if conn.StartTransfer(w, forward, now) != RCVOk {
				continue
			}

			if peer != m.To {
				kept := m
				kept.CopyBudget = keep
				host.Buffer.Admit(kept, now)
			}
			break
		}
	}
}
