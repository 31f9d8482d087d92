package world

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ltnsim/geometry"
	"github.com/sarchlab/ltnsim/message"
)

// Host is a passive aggregate: a stable address, a fixed location, a
// single radio interface, a forwarding policy and a message buffer.
type Host struct {
	Address   message.HostAddress
	Location  geometry.Coordinate
	ClusterID int // -1 when clustering is not configured

	Interface *Interface
	Router    Router
	Buffer    *Buffer
}

// NewHost builds a host with the given address, location and
// cluster assignment (-1 if unclustered).
func NewHost(addr message.HostAddress, loc geometry.Coordinate, clusterID int, ifc *Interface, router Router, bufCapacity int) *Host {
	return &Host{
		Address:   addr,
		Location:  loc,
		ClusterID: clusterID,
		Interface: ifc,
		Router:    router,
		Buffer:    NewBuffer(bufCapacity),
	}
}

// Update ticks the host's interface then its router, in that order:
// the interface must produce an up-to-date connection set before the
// router consults it.
func (h *Host) Update(w *World, now sim.VTimeInSec) {
	t := float64(now)
	h.Interface.update(w, t)
	h.Router.Update(w, h, t)
}

// ReceiveMessage delegates admission to the host's router.
func (h *Host) ReceiveMessage(w *World, m *message.Message, from message.HostAddress, now float64) AdmissionCode {
	return h.Router.ReceiveMessage(w, h, m, from, now)
}

// Originate admits a freshly created message at this host, the
// generator's entry point into the overlay.
func (h *Host) Originate(w *World, m message.Message, now float64) {
	h.Router.Originate(w, h, m, now)
}
